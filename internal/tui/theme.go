package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ajitpratap0/contactmaster/internal/render"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(render.Accent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().Foreground(render.Dim)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(render.Accent).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(render.Dim).
			Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.Accent).
			Padding(1, 2)
)
