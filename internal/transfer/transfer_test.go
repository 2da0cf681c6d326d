package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ajitpratap0/contactmaster/internal/book"
	"github.com/ajitpratap0/contactmaster/internal/models"
	"github.com/ajitpratap0/contactmaster/internal/store"
)

var importNow = time.Date(2025, 7, 4, 10, 11, 12, 0, time.Local)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openBook(t *testing.T, seed ...models.Contact) (*book.Book, *store.MockStore) {
	t.Helper()
	ms := store.NewMockStore(seed...)
	b, err := book.Open(context.Background(), ms, quietLogger(), book.WithClock(func() time.Time { return importNow }))
	require.NoError(t, err)
	return b, ms
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func jane() models.Contact {
	return models.Contact{ID: "jane0001", Name: "Jane Doe", Phone: "1234567", Tags: []string{}}
}

func TestImportSkipsCaseInsensitiveDuplicate(t *testing.T) {
	b, ms := openBook(t, jane())
	path := writeCSV(t, "name,phone,email,tags\njane doe,1234567,,\n")

	report, err := NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 1, report.SkippedDuplicate)
	assert.Len(t, ms.Contacts(), 1)
}

func TestImportAcceptsSameNameDifferentPhone(t *testing.T) {
	b, ms := openBook(t, jane())
	path := writeCSV(t, "name,phone\nJane Doe,7654321\n")

	report, err := NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Len(t, ms.Contacts(), 2)
}

func TestImportDuplicateWithinFileAcceptedOnce(t *testing.T) {
	b, ms := openBook(t)
	path := writeCSV(t, "name,phone,email\nAmy,5550100,first@x.io\nAMY,5550100,second@x.io\n")

	report, err := NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.SkippedDuplicate)

	saved := ms.Contacts()
	require.Len(t, saved, 1)
	assert.Equal(t, "first@x.io", saved[0].Email)
}

func TestImportRowHandling(t *testing.T) {
	b, ms := openBook(t)
	content := strings.Join([]string{
		"id,name,phone,email,tags,created_at,updated_at,notes",
		`old1,"  Zoë   Ünal ",+90 555 111 2233,zoe@example.com,"friends, , work ",2020-01-01 00:00:00,2020-01-01 00:00:00,ignored`,
		`old2,,1234567,,,,,`,
		`old3,No Phone,,,,,,`,
		`old4,Short,12345,,,,,`,
		`old5,Bad Mail,1234567,nope@,,,,`,
		`,,,,,,,`,
		`old6,Ragged,7654321`,
	}, "\n") + "\n"
	path := writeCSV(t, content)

	report, err := NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Rows)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 2, report.SkippedMissing)
	assert.Equal(t, 2, report.SkippedInvalid)
	assert.Equal(t, 4, report.Skipped())

	saved := ms.Contacts()
	require.Len(t, saved, 2)

	zoe := saved[0]
	assert.Equal(t, "Zoë Ünal", zoe.Name)
	assert.Equal(t, []string{"friends", "work"}, zoe.Tags)
	assert.NotEqual(t, "old1", zoe.ID, "ids are minted, not imported")
	assert.Equal(t, "2025-07-04 10:11:12", zoe.CreatedAt.String())
	assert.Equal(t, "2025-07-04 10:11:12", zoe.UpdatedAt.String())

	ragged := saved[1]
	assert.Equal(t, "Ragged", ragged.Name)
	assert.Empty(t, ragged.Email)
	assert.Equal(t, []string{}, ragged.Tags)
	assert.Equal(t, 1, ms.Saves(), "one save per import run")
}

func TestImportHeaderMatchingIsLoose(t *testing.T) {
	b, ms := openBook(t)
	path := writeCSV(t, "\ufeff Phone , NAME \n1234567,Kim\n")

	report, err := NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, "Kim", ms.Contacts()[0].Name)
}

func TestImportMissingSourceIsFatal(t *testing.T) {
	b, ms := openBook(t)

	_, err := NewImporter(b, quietLogger()).Import(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, ErrSourceNotFound)
	assert.Equal(t, 0, ms.Saves())
}

func TestImportGlobAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2025"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("name,phone\nAmy,1111111\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025", "b.csv"), []byte("name,phone\namy,1111111\nBen,2222222\n"), 0o644))

	b, ms := openBook(t)
	report, err := NewImporter(b, quietLogger()).Import(context.Background(), filepath.Join(dir, "**", "*.csv"))
	require.NoError(t, err)
	assert.Len(t, report.Files, 2)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.SkippedDuplicate)
	assert.Equal(t, 1, ms.Saves())
}

func TestImportEmptyFile(t *testing.T) {
	b, _ := openBook(t)
	path := writeCSV(t, "")

	report, err := NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
}

func exported() []models.Contact {
	ts := models.NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))
	return []models.Contact{
		{ID: "aaaa0001", Name: "Jane Doe", Phone: "1234567", Email: "jane@x.io", Tags: []string{"work", "gym"}, CreatedAt: ts, UpdatedAt: ts},
		{ID: "aaaa0002", Name: `Bob "The" Builder`, Phone: "7654321", Tags: []string{}, CreatedAt: ts, UpdatedAt: ts},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exported()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,phone,email,tags,created_at,updated_at", lines[0])
	assert.Equal(t, `aaaa0001,Jane Doe,1234567,jane@x.io,"work, gym",2025-01-02 03:04:05,2025-01-02 03:04:05`, lines[1])

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "work, gym", records[1][4])
	assert.Equal(t, `Bob "The" Builder`, records[2][1])
}

func TestExportThenImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportFile(path, FormatCSV, exported()))

	b, ms := openBook(t)
	report, err := NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, []string{"work", "gym"}, ms.Contacts()[0].Tags)

	report, err = NewImporter(b, quietLogger()).Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added, "re-importing an export adds nothing")
	assert.Equal(t, 2, report.SkippedDuplicate)
}

func TestExportFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0o644))

	require.NoError(t, ExportFile(path, FormatCSV, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,phone,email,tags,created_at,updated_at\n", string(data))
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, ExportFile(path, FormatXLSX, exported()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "work, gym", rows[1][4])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestDefaultExportName(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 59, 58, 0, time.Local)
	assert.Equal(t, "contacts_20251231_235958.csv", DefaultExportName(now, FormatCSV))
}
