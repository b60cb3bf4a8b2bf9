package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled value shown in a header or result box.
// Fields render in the order given.
type Field struct {
	Key   string
	Value string
}

// Header represents a command header with title, command, and parameters.
// Used at the start of each command to show what is about to happen.
type Header struct {
	Title   string  // e.g., "Return To Service"
	Command string  // e.g., "rtsctl send"
	Params  []Field // e.g., {"Server", "https://example.jamfcloud.com"}
	Width   int     // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params ...Field) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	commandLine := HeaderCommandStyle.Render(h.Command)
	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(h.Params) == 0 {
		return HeaderBorderStyle(width).Render(topSection)
	}

	dividerWidth := width - 6 // Account for border and padding
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := RenderHorizontalDivider(dividerWidth, "─")

	// Align values on the longest key
	keyWidth := 0
	for _, p := range h.Params {
		if w := lipgloss.Width(p.Key); w > keyWidth {
			keyWidth = w
		}
	}

	paramLines := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		key := p.Key + ":" + strings.Repeat(" ", keyWidth-lipgloss.Width(p.Key))
		paramLines = append(paramLines, HeaderParamKeyStyle.Render(key)+" "+HeaderParamValueStyle.Render(p.Value))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, topSection, divider, strings.Join(paramLines, "\n"))
	return HeaderBorderStyle(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
