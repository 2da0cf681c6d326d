package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/render"
)

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts sorted by name, phone and email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			contacts := b.Sorted()
			if limit > 0 && len(contacts) > limit {
				contacts = contacts[:limit]
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Table(contacts))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "max results (0 = all)")
	return cmd
}
