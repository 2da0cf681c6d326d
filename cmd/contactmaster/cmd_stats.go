package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/query"
	"github.com/ajitpratap0/contactmaster/internal/render"
)

func statsCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show contact collection statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			stats := query.Stats(b.All())
			if outputJSON {
				out, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return fmt.Errorf("stats: marshaling JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), render.Stats(stats))
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}
