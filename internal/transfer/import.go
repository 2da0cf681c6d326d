package transfer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ajitpratap0/contactmaster/internal/book"
	"github.com/ajitpratap0/contactmaster/internal/metrics"
	"github.com/ajitpratap0/contactmaster/internal/models"
	"github.com/ajitpratap0/contactmaster/internal/validate"
)

// ErrSourceNotFound is returned when an import source path or pattern
// resolves to no file. Nothing is imported in that case.
var ErrSourceNotFound = errors.New("import source not found")

// ImportReport counts what happened to each data row.
type ImportReport struct {
	Files            []string `json:"files"`
	Rows             int      `json:"rows"`
	Added            int      `json:"added"`
	SkippedMissing   int      `json:"skipped_missing"`
	SkippedDuplicate int      `json:"skipped_duplicate"`
	SkippedInvalid   int      `json:"skipped_invalid"`
	SkippedMalformed int      `json:"skipped_malformed"`
}

// Skipped is the total of all rejected rows.
func (r *ImportReport) Skipped() int {
	return r.SkippedMissing + r.SkippedDuplicate + r.SkippedInvalid + r.SkippedMalformed
}

// dedupKey identifies a contact for import de-duplication. It deliberately
// ignores email and tags.
type dedupKey struct {
	name  string
	phone string
}

func keyOf(name, phone string) dedupKey {
	return dedupKey{name: strings.ToLower(name), phone: phone}
}

// Importer reads CSV files into a Book.
type Importer struct {
	book   *book.Book
	logger *slog.Logger
}

// NewImporter creates an importer that appends to b.
func NewImporter(b *book.Book, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{book: b, logger: logger}
}

// ResolveSources expands each source into concrete file paths. A source is a
// literal path or a doublestar glob; either must match at least one file.
func ResolveSources(sources []string) ([]string, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no source given", ErrSourceNotFound)
	}
	var files []string
	seen := make(map[string]bool)
	for _, src := range sources {
		var matches []string
		if _, err := os.Stat(src); err == nil {
			matches = []string{src}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", src, err)
		} else {
			globbed, globErr := doublestar.FilepathGlob(src, doublestar.WithFilesOnly())
			if globErr != nil {
				return nil, fmt.Errorf("expanding %q: %w", src, globErr)
			}
			matches = globbed
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// Import reads every source, accepts rows that are complete, valid and not
// duplicates, and persists them with a single save. Bad rows are counted and
// skipped; only unreadable sources and save failures are errors.
func (im *Importer) Import(ctx context.Context, sources ...string) (*ImportReport, error) {
	files, err := ResolveSources(sources)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	existing := im.book.All()
	seen := make(map[dedupKey]bool, len(existing))
	for i := range existing {
		seen[keyOf(existing[i].Name, existing[i].Phone)] = true
	}

	report := &ImportReport{Files: files}
	var accepted []models.Contact
	for _, path := range files {
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("import: opening %s: %w", path, openErr)
		}
		added, readErr := im.readCSV(f, path, seen, report)
		_ = f.Close()
		if readErr != nil {
			return nil, fmt.Errorf("import: reading %s: %w", path, readErr)
		}
		accepted = append(accepted, added...)
	}

	if err := im.book.Append(ctx, accepted); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	report.Added = len(accepted)
	metrics.ImportAccepted.Add(int64(report.Added))
	metrics.ImportSkipped.Add(int64(report.Skipped()))
	im.logger.Info("import finished",
		"files", len(files), "rows", report.Rows, "added", report.Added,
		"duplicates", report.SkippedDuplicate, "missing", report.SkippedMissing,
		"invalid", report.SkippedInvalid, "malformed", report.SkippedMalformed)
	return report, nil
}

// readCSV processes one file, recording accepted keys in seen.
func (im *Importer) readCSV(r io.Reader, path string, seen map[dedupKey]bool, report *ImportReport) ([]models.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cols := indexHeader(header)

	var accepted []models.Contact
	for {
		record, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				report.Rows++
				report.SkippedMalformed++
				im.logger.Debug("skipping malformed CSV row", "file", path, "error", readErr)
				continue
			}
			return nil, readErr
		}
		if isBlank(record) {
			continue
		}
		report.Rows++

		c, outcome := im.acceptRow(cols, record, seen)
		switch outcome {
		case rowMissing:
			report.SkippedMissing++
		case rowDuplicate:
			report.SkippedDuplicate++
		case rowInvalid:
			report.SkippedInvalid++
		case rowAccepted:
			accepted = append(accepted, c)
		}
	}
	return accepted, nil
}

type rowOutcome int

const (
	rowAccepted rowOutcome = iota
	rowMissing
	rowDuplicate
	rowInvalid
)

func (im *Importer) acceptRow(cols map[string]int, record []string, seen map[dedupKey]bool) (models.Contact, rowOutcome) {
	name := validate.Normalize(field(cols, record, "name"))
	phone := validate.Normalize(field(cols, record, "phone"))
	email := validate.Normalize(field(cols, record, "email"))
	tags := validate.Tags(field(cols, record, "tags"))

	if name == "" || phone == "" {
		return models.Contact{}, rowMissing
	}
	key := keyOf(name, phone)
	if seen[key] {
		return models.Contact{}, rowDuplicate
	}
	c, err := models.NewContact(models.ContactInput{Name: name, Phone: phone, Email: email, Tags: tags}, im.book.Now())
	if err != nil {
		return models.Contact{}, rowInvalid
	}
	seen[key] = true
	return c, rowAccepted
}

// indexHeader maps lowercased, trimmed column names to their position. The
// first occurrence of a repeated name wins.
func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func field(cols map[string]int, record []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
