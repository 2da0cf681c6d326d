package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/backup"
	"github.com/ajitpratap0/contactmaster/internal/book"
	"github.com/ajitpratap0/contactmaster/internal/config"
	"github.com/ajitpratap0/contactmaster/internal/store"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := newRootCmd()
	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		storePath string
		backupDir string
	)

	rootCmd := &cobra.Command{
		Use:   "contactmaster",
		Short: "ContactMaster: a local contact book backed by a JSON file",
		Long: `ContactMaster keeps contacts in a single JSON file that is replaced atomically on
every change. Contacts can be searched, exported to CSV or XLSX, imported from CSV
with de-duplication, and backed up to timestamped copies.

Run without a subcommand to open the interactive menu.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Path = storePath
			}
			if cmd.Flags().Changed("backup-dir") {
				cfg.Backup.Dir = backupDir
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "path to the contacts JSON file (default: store.path from config)")
	rootCmd.PersistentFlags().StringVar(&backupDir, "backup-dir", "", "directory for backups (default: backup.dir from config)")

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		searchCmd(),
		getCmd(),
		editCmd(),
		deleteCmd(),
		exportCmd(),
		importCmd(),
		backupCmd(),
		backupsCmd(),
		pruneCmd(),
		statsCmd(),
		menuCmd(),
	)
	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newStore(logger *slog.Logger) (*store.JSONStore, error) {
	return store.NewJSONStore(cfg.Store.Path, logger)
}

func newBackupManager(st store.Store, logger *slog.Logger) *backup.Manager {
	return backup.NewManager(st, cfg.Backup.Dir, cfg.Backup.Keep, logger)
}

// openBook loads the configured store and tells the user on stderr when the
// file had to be quarantined.
func openBook(cmd *cobra.Command, logger *slog.Logger) (*book.Book, error) {
	st, err := newStore(logger)
	if err != nil {
		return nil, err
	}
	b, err := book.Open(cmd.Context(), st, logger)
	if err != nil {
		return nil, err
	}
	if b.Recovered() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s was unreadable; a copy was saved to %s and an empty contact list started.\n",
			st.Path(), b.QuarantinePath())
	}
	if dropped, reassigned := b.LoadNotes(); dropped > 0 || reassigned > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d malformed record(s) skipped, %d id(s) reassigned while loading %s.\n",
			dropped, reassigned, st.Path())
	}
	return b, nil
}
