package picker

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/rtsctl/internal/version"
)

// AppName is shown in the container header
const AppName = "RTSCTL · RETURN TO SERVICE"

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 72
	MinTerminalHeight = 16
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = PrimaryColor
	HighlightColor = SecondaryColor
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(2)
)

// renderContainer wraps a screen with the application header and a
// context-sensitive footer, filling the terminal.
func renderContainer(content, footer string, width, height int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	left := lipgloss.NewStyle().Foreground(TextColor).Bold(true).Render(AppName)
	right := lipgloss.NewStyle().Foreground(SubtleColor).Render("v" + version.Version)
	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	styledFooter := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(width-4).
		Padding(0, 1).
		Render(footer)

	body := lipgloss.NewStyle().Width(width - 4).Render(content)

	inner := lipgloss.JoinVertical(lipgloss.Left, header, body, styledFooter)
	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}
