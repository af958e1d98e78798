package tui

import "github.com/charmbracelet/lipgloss"

var (
	selectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSecondary)

	dimStyle = lipgloss.NewStyle().
		Foreground(colorDim)

	successStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSuccess)

	warnStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	failStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorDanger)

	headerBarStyle = lipgloss.NewStyle().
		Bold(true).
		Background(colorSubtle).
		Foreground(colorWhite).
		Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
		Foreground(colorDim).
		MarginTop(1)
)
