package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/models"
	"github.com/ajitpratap0/contactmaster/internal/validate"
)

func addCmd() *cobra.Command {
	var (
		name  string
		phone string
		email string
		tags  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}

			c, err := b.Add(ctx, models.ContactInput{
				Name:  name,
				Phone: phone,
				Email: email,
				Tags:  validate.Tags(tags),
			})
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added contact %s (%s)\n", c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}
