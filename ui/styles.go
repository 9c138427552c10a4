package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primary   = lipgloss.Color("99")  // purple
	secondary = lipgloss.Color("240") // gray
	accent    = lipgloss.Color("86")  // green
	danger    = lipgloss.Color("196") // red

	appStyle = lipgloss.NewStyle().
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Padding(0, 1)

	// List items
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(secondary).
			Italic(true)

	argsPreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger)

	successStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	// Help bar
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)
