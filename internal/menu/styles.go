package menu

import "github.com/charmbracelet/lipgloss"

var (
	activeColor  = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	titleColor   = lipgloss.Color("#A78BFA") // Purple

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(titleColor).
			MarginBottom(1)

	statusActive   = lipgloss.NewStyle().Foreground(activeColor).Bold(true)
	statusDegraded = lipgloss.NewStyle().Foreground(warningColor)
	statusIdle     = lipgloss.NewStyle().Foreground(mutedColor)

	keyStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	hintStyle  = lipgloss.NewStyle().Foreground(warningColor).Italic(true)
	errorStyle = lipgloss.NewStyle().Foreground(errorColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2)
)
