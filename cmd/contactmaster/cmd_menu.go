package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/tui"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}
}

func runMenu(cmd *cobra.Command) error {
	logger := newLogger()
	ctx := cmd.Context()

	b, err := openBook(cmd, logger)
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}

	return tui.Run(ctx, tui.Deps{
		Book:      b,
		Backups:   newBackupManager(b.Store(), logger),
		ExportDir: cfg.Export.Dir,
		Logger:    logger,
	}, tea.WithAltScreen())
}
