// Package render turns contacts and reports into terminal output: lipgloss
// tables for listings and text, JSON or YAML for single records.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/contactmaster/internal/backup"
	"github.com/ajitpratap0/contactmaster/internal/models"
)

// EmptyMessage is shown instead of an empty table.
const EmptyMessage = "No contacts found."

// Headers are the listing columns.
var Headers = []string{"ID", "Name", "Phone", "Email", "Tags"}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
}

// Table renders contacts in the order given. Callers sort first.
func Table(contacts []models.Contact) string {
	if len(contacts) == 0 {
		return MutedStyle.Render(EmptyMessage)
	}
	t := newTable(Headers...)
	for i := range contacts {
		c := &contacts[i]
		t.Row(c.ID, c.Name, c.Phone, c.Email, strings.Join(c.Tags, ", "))
	}
	return t.String()
}

// Detail writes a single contact in the given format: text, json or yaml.
func Detail(w io.Writer, c models.Contact, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		_, err := io.WriteString(w, detailText(c))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(c)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (use text, json or yaml)", format)
	}
}

func detailText(c models.Contact) string {
	tags := strings.Join(c.Tags, ", ")
	rows := [][2]string{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Phone", c.Phone},
		{"Email", c.Email},
		{"Tags", tags},
		{"Created", c.CreatedAt.String()},
		{"Updated", c.UpdatedAt.String()},
	}
	var b strings.Builder
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = MutedStyle.Render("-")
		}
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(fmt.Sprintf("%-8s", r[0]+":")), value)
	}
	return b.String()
}

// Stats renders collection totals followed by per-tag counts, most used first.
func Stats(s models.CollectionStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", LabelStyle.Render("Total contacts:"), s.TotalContacts)
	fmt.Fprintf(&b, "%s %d\n", LabelStyle.Render("With email:    "), s.WithEmail)
	if len(s.ByTag) == 0 {
		return b.String()
	}

	tags := make([]string, 0, len(s.ByTag))
	for tag := range s.ByTag {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if s.ByTag[tags[i]] != s.ByTag[tags[j]] {
			return s.ByTag[tags[i]] > s.ByTag[tags[j]]
		}
		return tags[i] < tags[j]
	})

	t := newTable("Tag", "Contacts")
	for _, tag := range tags {
		t.Row(tag, strconv.FormatInt(s.ByTag[tag], 10))
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

// Backups renders backup files newest first.
func Backups(entries []backup.Entry) string {
	if len(entries) == 0 {
		return MutedStyle.Render("No backups found.")
	}
	t := newTable("File", "Size", "Modified")
	for _, e := range entries {
		t.Row(e.Path, strconv.FormatInt(e.Size, 10)+" B", e.ModTime.Format(models.TimestampLayout))
	}
	return t.String()
}

// Counters renders a name -> value map sorted by name.
func Counters(values map[string]int64) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%-16s %d\n", name+":", values[name])
	}
	return b.String()
}
