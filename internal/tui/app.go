// Package tui is the interactive bubbletea menu over an address book.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ajitpratap0/contactmaster/internal/backup"
	"github.com/ajitpratap0/contactmaster/internal/book"
	"github.com/ajitpratap0/contactmaster/internal/metrics"
	"github.com/ajitpratap0/contactmaster/internal/models"
	"github.com/ajitpratap0/contactmaster/internal/query"
	"github.com/ajitpratap0/contactmaster/internal/render"
	"github.com/ajitpratap0/contactmaster/internal/store"
	"github.com/ajitpratap0/contactmaster/internal/transfer"
	"github.com/ajitpratap0/contactmaster/internal/validate"
)

// Deps are the collaborators the menu drives.
type Deps struct {
	Book      *book.Book
	Backups   *backup.Manager
	ExportDir string
	Logger    *slog.Logger
}

type screen int

const (
	screenMenu screen = iota
	screenForm
	screenResult
)

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	deps   Deps
	list   list.Model
	screen screen
	form   *form
	result string
	failed bool
	notice string
	width  int
	height int
	quit   bool
}

// NewModel builds the menu. A notice is shown on the menu when the store had
// to be recovered on open.
func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.ExportDir == "" {
		deps.ExportDir = "."
	}
	m := Model{
		ctx:  ctx,
		deps: deps,
		list: newMenuList(),
	}
	if deps.Book != nil && deps.Book.Recovered() {
		m.notice = fmt.Sprintf("The contact file was unreadable. A copy was saved to %s and an empty list started.", deps.Book.QuarantinePath())
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.exit()
		}
		switch m.screen {
		case screenForm:
			return m.updateForm(msg)
		case screenResult:
			m.screen = screenMenu
			m.result, m.failed = "", false
			return m, nil
		}
	}

	if m.screen == screenMenu {
		return m.updateMenu(msg)
	}
	if m.screen == screenForm && m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch key.String() {
		case "q":
			if m.list.FilterState() == list.Unfiltered {
				return m.exit()
			}
		case "enter":
			if selected, ok := m.list.SelectedItem().(menuItem); ok {
				return m.choose(selected.action)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// choose opens the form for a, or runs it directly when it takes no input.
func (m Model) choose(a action) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch a {
	case actQuit:
		return m.exit()
	case actList:
		return m.show(render.Table(m.deps.Book.Sorted()), nil)
	case actStats:
		return m.show(render.Stats(query.Stats(m.deps.Book.All())), nil)
	case actBackup:
		return m.show(m.runBackup())
	case actAdd:
		m.form = newForm(a, "Add contact",
			field{label: "Name", placeholder: "required"},
			field{label: "Phone", placeholder: fmt.Sprintf("required, %d-%d digits", validate.MinPhoneDigits, validate.MaxPhoneDigits)},
			field{label: "Email", placeholder: "optional"},
			field{label: "Tags", placeholder: "comma separated, optional"},
		)
	case actSearch:
		m.form = newForm(a, "Search", field{label: "Query", placeholder: "part of a name, phone, email or tag"})
	case actView:
		m.form = newForm(a, "View contact", field{label: "ID"})
	case actEdit:
		m.form = newForm(a, "Edit contact (blank keeps the current value)",
			field{label: "ID"},
			field{label: "Name"},
			field{label: "Phone"},
			field{label: "Email", placeholder: "enter - to clear"},
			field{label: "Tags", placeholder: "comma separated, - to clear"},
		)
	case actDelete:
		m.form = newForm(a, "Delete contact",
			field{label: "ID"},
			field{label: "Confirm", placeholder: "type yes to delete"},
		)
	case actExport:
		m.form = newForm(a, "Export",
			field{label: "File", placeholder: filepath.Join(m.deps.ExportDir, transfer.DefaultExportName(m.deps.Book.Now(), transfer.FormatCSV))},
			field{label: "Format", placeholder: "csv or xlsx"},
		)
	case actImport:
		m.form = newForm(a, "Import CSV", field{label: "Files", placeholder: "paths or globs, space separated"})
	default:
		return m, nil
	}
	m.screen = screenForm
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.form = nil
		m.screen = screenMenu
		return m, nil
	case "tab", "down":
		return m, f.move(1)
	case "shift+tab", "up":
		return m, f.move(-1)
	case "enter":
		if !f.last() {
			return m, f.move(1)
		}
		m.form = nil
		return m.show(m.submit(f))
	}
	return m, f.update(msg)
}

func (m Model) show(out string, err error) (tea.Model, tea.Cmd) {
	m.screen = screenResult
	if err != nil {
		m.result, m.failed = describe(err), true
		m.deps.Logger.Debug("menu action failed", "error", err)
	} else {
		m.result, m.failed = out, false
	}
	return m, nil
}

func (m Model) exit() (tea.Model, tea.Cmd) {
	m.quit = true
	return m, tea.Quit
}

func counterAttrs() []any {
	snap := metrics.Snapshot()
	attrs := make([]any, 0, len(snap)*2)
	for _, name := range []string{"added", "updated", "deleted", "imported", "import_skipped", "quarantined", "backups"} {
		attrs = append(attrs, name, snap[name])
	}
	return attrs
}

// submit runs the action behind a completed form.
func (m Model) submit(f *form) (string, error) {
	ctx := m.ctx
	b := m.deps.Book
	switch f.action {
	case actAdd:
		c, err := b.Add(ctx, models.ContactInput{
			Name:  f.value(0),
			Phone: f.value(1),
			Email: f.value(2),
			Tags:  validate.Tags(f.value(3)),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s (%s).", c.Name, c.ID), nil

	case actSearch:
		found := b.Search(f.value(0))
		return fmt.Sprintf("%d match(es)\n\n%s", len(found), render.Table(found)), nil

	case actView:
		c, err := b.Get(strings.TrimSpace(f.value(0)))
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if err := render.Detail(&sb, c, "text"); err != nil {
			return "", err
		}
		return sb.String(), nil

	case actEdit:
		patch := models.ContactPatch{
			Name:  f.optional(1),
			Phone: f.optional(2),
			Email: clearable(f.optional(3)),
		}
		if tags := clearable(f.optional(4)); tags != nil {
			parsed := validate.Tags(*tags)
			patch.Tags = &parsed
		}
		c, err := b.Edit(ctx, strings.TrimSpace(f.value(0)), patch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Updated %s (%s).", c.Name, c.ID), nil

	case actDelete:
		if !confirmed(f.value(1)) {
			return "Delete cancelled.", nil
		}
		c, err := b.Delete(ctx, strings.TrimSpace(f.value(0)))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %s (%s).", c.Name, c.ID), nil

	case actExport:
		format, err := transfer.ParseFormat(f.value(1))
		if err != nil {
			return "", err
		}
		path := strings.TrimSpace(f.value(0))
		if path == "" {
			path = filepath.Join(m.deps.ExportDir, transfer.DefaultExportName(b.Now(), format))
		}
		contacts := b.Sorted()
		if err := transfer.ExportFile(path, format, contacts); err != nil {
			return "", err
		}
		return fmt.Sprintf("Exported %d contact(s) to %s.", len(contacts), path), nil

	case actImport:
		report, err := transfer.NewImporter(b, m.deps.Logger).Import(ctx, strings.Fields(f.value(0))...)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Imported %d contact(s) from %d file(s); skipped %d (duplicate %d, incomplete %d, invalid %d, malformed %d).",
			report.Added, len(report.Files), report.Skipped(),
			report.SkippedDuplicate, report.SkippedMissing, report.SkippedInvalid, report.SkippedMalformed), nil
	}
	return "", nil
}

func (m Model) runBackup() (string, error) {
	if m.deps.Backups == nil {
		return "", errors.New("backups are not configured")
	}
	path, err := m.deps.Backups.Backup(m.ctx)
	if err != nil {
		return "", err
	}
	return "Backup written to " + path + ".", nil
}

// clearable maps the "-" sentinel to an explicit empty value.
func clearable(v *string) *string {
	if v != nil && strings.TrimSpace(*v) == "-" {
		empty := ""
		return &empty
	}
	return v
}

func confirmed(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

// describe turns recoverable errors into a short message for the user.
func describe(err error) string {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return "Not saved: " + ve.Error()
	case errors.Is(err, store.ErrNotFound):
		return "No contact with that id."
	case errors.Is(err, transfer.ErrSourceNotFound):
		return "Import failed: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	var body string
	switch m.screen {
	case screenForm:
		body = m.form.view()
	case screenResult:
		out := m.result
		if m.failed {
			out = render.ErrorStyle.Render(out)
		}
		body = out + "\n\n" + HelpStyle.Render("Press any key to return to the menu")
	default:
		body = m.list.View()
		if m.notice != "" {
			body = render.WarnStyle.Render(m.notice) + "\n\n" + body
		}
		body += "\n" + HelpStyle.Render("↑/↓: Navigate | Enter: Select | /: Filter | q: Quit")
	}
	return BoxStyle.Render(body)
}

// Run starts the menu on the terminal and blocks until the user quits. The
// session's counters are logged once the terminal is restored.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	m := NewModel(ctx, deps)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	m.deps.Logger.Info("session summary", counterAttrs()...)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}
