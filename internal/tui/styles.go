package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("12")
	colorMuted   = lipgloss.Color("8")
	colorError   = lipgloss.Color("9")

	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorPrimary)
	titleStyle     = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	bodyStyle      = lipgloss.NewStyle().Padding(1, 2)
)
