package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/render"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Find contacts whose name, phone, email or tags contain the query",
		Long: `Search is case-insensitive and matches anywhere in the name, phone, email and tags
of each contact. An empty query matches everything. Results are sorted like list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			q := strings.Join(args, " ")
			found := b.Search(q)
			fmt.Fprintln(cmd.OutOrStdout(), render.Table(found))
			return nil
		},
	}
}
