package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmDangerousOperation displays a warning box and prompts the user to type
// expected to proceed. Returns true if the typed text matches (ignoring case and
// surrounding space), false otherwise.
func ConfirmDangerousOperation(in io.Reader, out io.Writer, title string, warnings []string, disclaimer, expected string) bool {
	width := GetTerminalWidth()

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   ⚠  WARNING  ─  %s", title)), ""}

	bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
	for _, warning := range warnings {
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	if disclaimer != "" {
		disclaimerStyle := lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Width(width - 12).
			PaddingLeft(3)
		lines = append(lines, disclaimerStyle.Render(disclaimer), "")
	}

	_, _ = fmt.Fprintln(out, WarningBoxStyle(width).Render(strings.Join(lines, "\n")))
	_, _ = fmt.Fprintln(out)

	prompt := fmt.Sprintf("To proceed, type %q and press Enter: ", expected)
	_, _ = fmt.Fprint(out, WarningTitleStyle.Render(prompt))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	if strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(expected)) {
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	_, _ = fmt.Fprintln(out)
	return false
}

// ConfirmErase asks the operator to type the serial number back before an
// erase command is sent to the device.
func ConfirmErase(in io.Reader, out io.Writer, serial, server string) bool {
	return ConfirmDangerousOperation(in, out,
		"ERASE DEVICE "+serial,
		[]string{
			"Return To Service erases all content and settings on the device",
			"The device re-enrolls using the selected Wi-Fi profile after the wipe",
			"The command is queued on " + server + " and cannot be recalled once delivered",
		},
		"Make sure the serial number belongs to the device you intend to wipe. "+
			"User data that is not backed up will be lost.",
		serial,
	)
}
