package render

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Accent  = lipgloss.Color("#00C832")
	Dim     = lipgloss.Color("#5f5f7a")
	Warning = lipgloss.Color("#FFD700")
	Danger  = lipgloss.Color("#FF5F5F")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().Foreground(Dim)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().Foreground(Dim)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)
)
