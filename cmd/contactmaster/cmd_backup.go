package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/render"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the contact file into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}

			path, err := newBackupManager(st, logger).Backup(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		},
	}
}

func backupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("backups: %w", err)
			}

			entries, err := newBackupManager(st, logger).List()
			if err != nil {
				return fmt.Errorf("backups: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Backups(entries))
			return nil
		},
	}
}

func pruneCmd() *cobra.Command {
	var (
		keep   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			if !cmd.Flags().Changed("keep") {
				keep = cfg.Backup.Keep
			}
			if keep <= 0 {
				return fmt.Errorf("prune: --keep must be greater than 0")
			}

			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("prune: %w", err)
			}

			report, err := newBackupManager(st, logger).Prune(keep, dryRun)
			if err != nil {
				return fmt.Errorf("prune: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Prune report:\n")
			fmt.Fprintf(out, "  Kept:     %d\n", report.Kept)
			fmt.Fprintf(out, "  Removed:  %d\n", len(report.Removed))
			for _, p := range report.Removed {
				fmt.Fprintf(out, "    %s\n", p)
			}
			if dryRun {
				fmt.Fprintln(out, "  (dry run, nothing deleted)")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "number of newest backups to keep (default: backup.keep from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview deletions without applying")
	return cmd
}
