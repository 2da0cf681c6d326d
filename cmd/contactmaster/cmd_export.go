package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/contactmaster/internal/transfer"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all contacts to CSV or XLSX",
		Long: `Export writes every contact with the columns
id,name,phone,email,tags,created_at,updated_at. An existing file is replaced.
Without -o the file is named contacts_<timestamp>.<format> in export.dir.
Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			if !cmd.Flags().Changed("format") {
				format = cfg.Export.Format
			}
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			b, err := openBook(cmd, logger)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			contacts := b.Sorted()

			if output == "-" {
				write := transfer.WriteCSV
				if f == transfer.FormatXLSX {
					write = transfer.WriteXLSX
				}
				if err := write(cmd.OutOrStdout(), contacts); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				return nil
			}

			path := output
			if path == "" {
				path = filepath.Join(cfg.Export.Dir, transfer.DefaultExportName(b.Now(), f))
			}
			if err := transfer.ExportFile(path, f, contacts); err != nil {
				return err
			}

			logger.Info("export finished", "path", path, "contacts", len(contacts))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts to %s\n", len(contacts), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (- for stdout)")
	return cmd
}
