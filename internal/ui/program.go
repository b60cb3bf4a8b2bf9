package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/rtsctl/internal/jamfpro"
)

// Printer provides methods for printing UI components to a writer.
// This is the primary way commands should output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Writer returns the output writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box followed by a blank line
func (p *Printer) PrintHeader(title, command string, params ...Field) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title, message string, details ...Field) {
	p.Println(NewSuccessResult(title, details...).SetMessage(message).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title, message string, details ...Field) {
	p.Println(NewWarningResult(title, details...).SetMessage(message).SetWidth(p.width).Render())
}

// PrintProfiles prints Wi-Fi profile candidates as a table
func (p *Printer) PrintProfiles(candidates []*jamfpro.ConfigurationProfile) {
	p.Println(RenderProfileTable(candidates))
}

// RenderProfileTable renders an ID/Name table of configuration profiles
func RenderProfileTable(candidates []*jamfpro.ConfigurationProfile) string {
	idWidth := len("ID")
	for _, c := range candidates {
		if w := len(strconv.Itoa(c.ID)); w > idWidth {
			idWidth = w
		}
	}

	lines := []string{
		"  " + TableHeaderStyle.Render(fmt.Sprintf("%-*s  %s", idWidth, "ID", "NAME")),
	}
	for _, c := range candidates {
		id := lipgloss.NewStyle().Foreground(MutedColor).Render(fmt.Sprintf("%-*d", idWidth, c.ID))
		lines = append(lines, "  "+id+"  "+ResultValueStyle.Render(c.Name))
	}
	return strings.Join(lines, "\n")
}
