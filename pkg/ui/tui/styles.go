package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// VK palette
	vkBlue     = lipgloss.Color("#4A76A8")
	lightBlue  = lipgloss.Color("#71AAEB")
	okGreen    = lipgloss.Color("#4BB34B")
	warnOrange = lipgloss.Color("#FF9E0D")
	errorRed   = lipgloss.Color("#E64646")
	darkBg     = lipgloss.Color("#19191A")
	dimWhite   = lipgloss.Color("#A8A8A8")

	baseStyle = lipgloss.NewStyle().Foreground(dimWhite)
	logoStyle = lipgloss.NewStyle().Foreground(lightBlue).Bold(true).Padding(1, 0, 0, 2)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Padding(1, 0, 0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(vkBlue).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Background(vkBlue).Foreground(darkBg).Bold(true).Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().Foreground(lightBlue).Bold(true)
	statsValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))

	// Status
	successStyle = lipgloss.NewStyle().Foreground(okGreen).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warnOrange).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorRed).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(dimWhite).Faint(true)

	userItemStyle     = lipgloss.NewStyle().PaddingLeft(1)
	logTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	logMessageStyle   = lipgloss.NewStyle().Foreground(dimWhite)
)

// SourceStyle colours a video source name
func SourceStyle(source string) lipgloss.Style {
	switch source {
	case "api":
		return successStyle
	case "scrape":
		return warningStyle
	default:
		return dimStyle
	}
}
