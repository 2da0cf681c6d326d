package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/transfer"
)

func importCmd() *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "import [file|glob]...",
		Short: "Import contacts from CSV files",
		Long: `Import reads CSV files with a header row. The name, phone, email and tags
columns are used (matched case-insensitively); other columns are ignored.

Rows missing a name or phone, rows whose name (ignoring case) and phone already
exist, and rows with an invalid phone or email are skipped and counted. Sources may
be paths or glob patterns such as exports/**/*.csv. A source that matches nothing
aborts the import before anything is saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			sources := append(append([]string{}, files...), args...)
			if len(sources) == 0 {
				return fmt.Errorf("import: no input files (use -f or pass paths)")
			}

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			report, err := transfer.NewImporter(b, logger).Import(ctx, sources...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Import complete: %d added, %d skipped from %d file(s)\n", report.Added, report.Skipped(), len(report.Files))
			fmt.Fprintf(out, "  Duplicates:  %d\n", report.SkippedDuplicate)
			fmt.Fprintf(out, "  Incomplete:  %d\n", report.SkippedMissing)
			fmt.Fprintf(out, "  Invalid:     %d\n", report.SkippedInvalid)
			fmt.Fprintf(out, "  Malformed:   %d\n", report.SkippedMalformed)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "CSV file or glob to import (repeatable)")
	return cmd
}
