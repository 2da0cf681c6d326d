package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <contact-id>",
		Short: "Delete a contact by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("delete: %w", err)
			}

			c, err := b.Get(args[0])
			if err != nil {
				return fmt.Errorf("delete: %w", err)
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %s (%s, %s)? [y/N]: ", c.ID, c.Name, c.Phone)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if _, err := b.Delete(ctx, c.ID); err != nil {
				return fmt.Errorf("delete: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted contact %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
