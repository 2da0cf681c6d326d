package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/render"
)

func getCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <contact-id>",
		Short: "Show a single contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("get: %w", err)
			}

			c, err := b.Get(args[0])
			if err != nil {
				return fmt.Errorf("get: %w", err)
			}
			if err := render.Detail(cmd.OutOrStdout(), c, format); err != nil {
				return fmt.Errorf("get: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}
