package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field describes one prompt of a form.
type field struct {
	label       string
	placeholder string
}

// form is a vertical stack of text inputs submitted together.
type form struct {
	action action
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(a action, title string, fields ...field) *form {
	f := &form{action: a, title: title}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = fd.placeholder
		ti.CharLimit = 256
		ti.Width = 48
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// value returns the raw text of input i.
func (f *form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

// optional returns nil when input i was left blank, so edits keep the
// existing value.
func (f *form) optional(i int) *string {
	v := f.value(i)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func (f *form) last() bool { return f.focus == len(f.inputs)-1 }

func (f *form) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(f.title) + "\n\n")
	for i := range f.inputs {
		label := LabelStyle
		if i == f.focus {
			label = FocusedLabelStyle
		}
		b.WriteString(label.Render(f.labels[i]) + "\n")
		b.WriteString(f.inputs[i].View() + "\n\n")
	}
	b.WriteString(HelpStyle.Render("Tab/↓: next field | Enter: next / submit | Esc: back"))
	return b.String()
}
