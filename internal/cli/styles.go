package cli

import "github.com/charmbracelet/lipgloss"

// Terminal styles for status lines. lipgloss drops the colors when the
// output is not a terminal.
var (
	stepStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	exampleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)
