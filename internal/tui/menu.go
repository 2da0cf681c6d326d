package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/ajitpratap0/contactmaster/internal/render"
)

// action identifies a menu entry.
type action string

const (
	actList   action = "list"
	actAdd    action = "add"
	actSearch action = "search"
	actView   action = "view"
	actEdit   action = "edit"
	actDelete action = "delete"
	actExport action = "export"
	actImport action = "import"
	actBackup action = "backup"
	actStats  action = "stats"
	actQuit   action = "quit"
)

type menuItem struct {
	title  string
	desc   string
	action action
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

func menuItems() []list.Item {
	return []list.Item{
		menuItem{title: "List contacts", desc: "Show every contact, sorted by name", action: actList},
		menuItem{title: "Add contact", desc: "Create a new contact", action: actAdd},
		menuItem{title: "Search", desc: "Find contacts by name, phone, email or tag", action: actSearch},
		menuItem{title: "View contact", desc: "Show one contact in full", action: actView},
		menuItem{title: "Edit contact", desc: "Change fields of an existing contact", action: actEdit},
		menuItem{title: "Delete contact", desc: "Remove a contact by id", action: actDelete},
		menuItem{title: "Export", desc: "Write all contacts to CSV or XLSX", action: actExport},
		menuItem{title: "Import CSV", desc: "Add contacts from CSV files, skipping duplicates", action: actImport},
		menuItem{title: "Backup", desc: "Copy the store into the backup directory", action: actBackup},
		menuItem{title: "Stats", desc: "Totals and tag usage", action: actStats},
		menuItem{title: "Quit", desc: "Exit contactmaster", action: actQuit},
	}
}

func newMenuList() list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(render.Accent).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(render.Accent).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(render.Dim)

	l := list.New(menuItems(), d, 60, 40)
	l.Title = "ContactMaster"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	// Quitting goes through the model so the session summary is logged.
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().Foreground(render.Accent).Bold(true).MarginLeft(2)
	return l
}
