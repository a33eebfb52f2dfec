package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	workColor  = lipgloss.Color("#E74C3C")
	breakColor = lipgloss.Color("#2ECC71")
	pauseColor = lipgloss.Color("#F39C12")
	mutedColor = lipgloss.Color("#6B7280")
	fgColor    = lipgloss.Color("#F9FAFB")
	errColor   = lipgloss.Color("#EF4444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(fgColor).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder())

	stateStyle = lipgloss.NewStyle().Bold(true)

	pillStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(mutedColor)

	helpStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	statusStyle = lipgloss.NewStyle().Foreground(breakColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errColor).Bold(true)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(workColor).
			Padding(0, 1)
)
