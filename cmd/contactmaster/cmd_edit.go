package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/models"
	"github.com/ajitpratap0/contactmaster/internal/validate"
)

func editCmd() *cobra.Command {
	var (
		name  string
		phone string
		email string
		tags  string
	)

	cmd := &cobra.Command{
		Use:   "edit <contact-id>",
		Short: "Update fields of an existing contact",
		Long: `Only the flags given are changed. Pass --email "" or --tags "" to clear those
fields. The updated contact is validated like a new one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			var patch models.ContactPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				patch.Phone = &phone
			}
			if cmd.Flags().Changed("email") {
				patch.Email = &email
			}
			if cmd.Flags().Changed("tags") {
				parsed := validate.Tags(tags)
				patch.Tags = &parsed
			}
			if patch == (models.ContactPatch{}) {
				return fmt.Errorf("edit: nothing to change (use --name, --phone, --email or --tags)")
			}

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}

			c, err := b.Edit(ctx, args[0], patch)
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated contact %s (%s)\n", c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new full name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	cmd.Flags().StringVar(&email, "email", "", "new email address (empty clears it)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags (replaces existing tags)")
	return cmd
}
