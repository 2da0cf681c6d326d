// Package transfer converts between the contact collection and tabular files:
// CSV (and XLSX) export, and de-duplicating CSV import.
package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ajitpratap0/contactmaster/internal/fsutil"
	"github.com/ajitpratap0/contactmaster/internal/models"
)

// Columns is the fixed export column order.
var Columns = []string{"id", "name", "phone", "email", "tags", "created_at", "updated_at"}

// TagSeparator joins tags inside the single tags cell.
const TagSeparator = ", "

// Format selects the export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet written by XLSX exports.
const SheetName = "Contacts"

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use csv or xlsx)", s)
	}
}

// DefaultExportName returns contacts_<stamp>.<format>.
func DefaultExportName(now time.Time, f Format) string {
	return "contacts_" + fsutil.Stamp(now) + "." + string(f)
}

func row(c *models.Contact) []string {
	return []string{
		c.ID,
		c.Name,
		c.Phone,
		c.Email,
		strings.Join(c.Tags, TagSeparator),
		c.CreatedAt.String(),
		c.UpdatedAt.String(),
	}
}

// WriteCSV writes a header row and one row per contact.
func WriteCSV(w io.Writer, contacts []models.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range contacts {
		if err := cw.Write(row(&contacts[i])); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes the same table as WriteCSV to a single-sheet workbook.
func WriteXLSX(w io.Writer, contacts []models.Contact) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("opening sheet writer: %w", err)
	}

	header := make([]any, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing XLSX header: %w", err)
	}
	for i := range contacts {
		cells := row(&contacts[i])
		values := make([]any, len(cells))
		for j := range cells {
			values[j] = cells[j]
		}
		cell, cellErr := excelize.CoordinatesToCellName(1, i+2)
		if cellErr != nil {
			return cellErr
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("writing XLSX row: %w", err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing XLSX: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}
	return nil
}

// ExportFile writes contacts to path in the given format, replacing any
// existing file atomically.
func ExportFile(path string, f Format, contacts []models.Contact) error {
	var write func(io.Writer, []models.Contact) error
	switch f {
	case FormatCSV, "":
		write = WriteCSV
	case FormatXLSX:
		write = WriteXLSX
	default:
		return fmt.Errorf("export: unsupported format %q", f)
	}

	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		return write(w, contacts)
	})
	if err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}
