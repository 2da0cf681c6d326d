package tui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/contactmaster/internal/backup"
	"github.com/ajitpratap0/contactmaster/internal/book"
	"github.com/ajitpratap0/contactmaster/internal/models"
	"github.com/ajitpratap0/contactmaster/internal/store"
)

var testNow = time.Date(2025, 8, 9, 10, 11, 12, 0, time.Local)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestModel(t *testing.T, seed ...models.Contact) (Model, *store.MockStore) {
	t.Helper()
	ms := store.NewMockStore(seed...)
	b, err := book.Open(context.Background(), ms, quietLogger(), book.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	m := NewModel(context.Background(), Deps{Book: b, ExportDir: t.TempDir(), Logger: quietLogger()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), ms
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// open selects the menu entry for a and presses enter.
func open(t *testing.T, m Model, a action) Model {
	t.Helper()
	for i, it := range menuItems() {
		if it.(menuItem).action == a {
			m.list.Select(i)
			m, _ = send(t, m, enter)
			return m
		}
	}
	t.Fatalf("no menu entry for %s", a)
	return m
}

// fill types each value into successive fields and submits the form.
func fill(t *testing.T, m Model, values ...string) Model {
	t.Helper()
	require.Equal(t, screenForm, m.screen)
	for _, v := range values {
		if v != "" {
			m, _ = send(t, m, keys(v))
		}
		m, _ = send(t, m, enter)
	}
	return m
}

func TestMenuListsEntries(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Add contact")
	assert.Contains(t, view, "Import CSV")
}

func TestAddThroughForm(t *testing.T) {
	m, ms := newTestModel(t)

	m = open(t, m, actAdd)
	m = fill(t, m, "Jane Doe", "555 0100 22", "", "friends, work")

	assert.Equal(t, screenResult, m.screen)
	assert.False(t, m.failed)
	assert.Contains(t, m.result, "Added Jane Doe")

	saved := ms.Contacts()
	require.Len(t, saved, 1)
	assert.Equal(t, []string{"friends", "work"}, saved[0].Tags)

	m, _ = send(t, m, keys("x"))
	assert.Equal(t, screenMenu, m.screen)
}

func TestAddRejectsInvalidPhone(t *testing.T) {
	m, ms := newTestModel(t)

	m = open(t, m, actAdd)
	m = fill(t, m, "Jane", "12", "", "")

	assert.True(t, m.failed)
	assert.Contains(t, m.result, "phone")
	assert.Equal(t, 0, ms.Saves())
}

func TestListShowsSortedTable(t *testing.T) {
	m, _ := newTestModel(t,
		models.Contact{ID: "b1", Name: "bob", Phone: "1234567"},
		models.Contact{ID: "a1", Name: "Amy", Phone: "7654321"},
	)

	m = open(t, m, actList)
	require.Equal(t, screenResult, m.screen)
	assert.Less(t, strings.Index(m.result, "Amy"), strings.Index(m.result, "bob"))
}

func TestSearchThroughForm(t *testing.T) {
	m, _ := newTestModel(t,
		models.Contact{ID: "b1", Name: "Bob", Phone: "1234567", Tags: []string{"gym"}},
		models.Contact{ID: "a1", Name: "Amy", Phone: "7654321"},
	)

	m = open(t, m, actSearch)
	m = fill(t, m, "GYM")
	assert.Contains(t, m.result, "1 match")
	assert.Contains(t, m.result, "Bob")
	assert.NotContains(t, m.result, "Amy")
}

func TestEditKeepsBlankFields(t *testing.T) {
	m, ms := newTestModel(t, models.Contact{ID: "b1", Name: "Bob", Phone: "1234567", Email: "bob@x.io", Tags: []string{"gym"}})

	m = open(t, m, actEdit)
	m = fill(t, m, "b1", "Robert", "", "-", "")

	assert.False(t, m.failed, m.result)
	saved := ms.Contacts()
	require.Len(t, saved, 1)
	assert.Equal(t, "Robert", saved[0].Name)
	assert.Equal(t, "1234567", saved[0].Phone)
	assert.Equal(t, "", saved[0].Email)
	assert.Equal(t, []string{"gym"}, saved[0].Tags)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, ms := newTestModel(t, models.Contact{ID: "b1", Name: "Bob", Phone: "1234567"})

	m = open(t, m, actDelete)
	m = fill(t, m, "b1", "no")
	assert.Contains(t, m.result, "cancelled")
	assert.Equal(t, 0, ms.Saves())

	m, _ = send(t, m, keys("x"))
	m = open(t, m, actDelete)
	m = fill(t, m, "b1", "yes")
	assert.Contains(t, m.result, "Deleted Bob")
	assert.Empty(t, ms.Contacts())
}

func TestDeleteUnknownID(t *testing.T) {
	m, _ := newTestModel(t)

	m = open(t, m, actDelete)
	m = fill(t, m, "missing", "y")
	assert.True(t, m.failed)
	assert.Contains(t, m.result, "No contact")
}

func TestEscLeavesForm(t *testing.T) {
	m, ms := newTestModel(t)

	m = open(t, m, actAdd)
	m, _ = send(t, m, keys("Jane"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenMenu, m.screen)
	assert.Nil(t, m.form)
	assert.Equal(t, 0, ms.Saves())
}

func TestExportAndBackupFromMenu(t *testing.T) {
	root := t.TempDir()
	st, err := store.NewJSONStore(filepath.Join(root, "contacts.json"), quietLogger())
	require.NoError(t, err)
	b, err := book.Open(context.Background(), st, quietLogger())
	require.NoError(t, err)
	_, err = b.Add(context.Background(), models.ContactInput{Name: "Amy", Phone: "1234567"})
	require.NoError(t, err)

	m := NewModel(context.Background(), Deps{
		Book:      b,
		Backups:   backup.NewManager(st, filepath.Join(root, "backups"), 0, quietLogger()),
		ExportDir: root,
		Logger:    quietLogger(),
	})

	out := filepath.Join(root, "out.csv")
	m = open(t, m, actExport)
	m = fill(t, m, out, "csv")
	require.False(t, m.failed, m.result)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Amy")

	m, _ = send(t, m, keys("x"))
	m = open(t, m, actBackup)
	require.False(t, m.failed, m.result)
	assert.Contains(t, m.result, filepath.Join(root, "backups"))
}

func TestImportMissingFileReportsError(t *testing.T) {
	m, _ := newTestModel(t)

	m = open(t, m, actImport)
	m = fill(t, m, filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, m.failed)
	assert.Contains(t, m.result, "Import failed")
}

func TestRecoveredStoreShowsNotice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	st, err := store.NewJSONStore(path, quietLogger())
	require.NoError(t, err)
	b, err := book.Open(context.Background(), st, quietLogger())
	require.NoError(t, err)

	m := NewModel(context.Background(), Deps{Book: b, Logger: quietLogger()})
	assert.Contains(t, m.View(), "unreadable")
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := send(t, m, keys("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Empty(t, m.View())
}
