package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Currently executing
	StepComplete                   // Successfully completed
	StepFailed                     // Failed
	StepSkipped                    // Skipped
)

// Widths of the stage name column and of the in-line work bar
const (
	stepNameColumn = 32
	stepBarWidth   = 20
)

// Step is one stage line
type Step struct {
	Name    string
	Status  StepStatus
	Message string // e.g. "12 of 40 profiles", "VersionUnsupported"
}

// Progress tracks the stages of a run. Each stage renders as
// "[n/total] name  marker (message)". While a stage with a known amount of
// work is running, a bar takes the place of the marker.
type Progress struct {
	Steps []Step
	bar   progress.Model
}

// NewProgress creates a pending step for each name
func NewProgress(names []string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	return &Progress{
		Steps: steps,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(stepBarWidth),
			progress.WithoutPercentage(),
		),
	}
}

// Set updates step n (1-based). It reports false for an unknown step.
func (p *Progress) Set(n int, status StepStatus, message string) bool {
	if n < 1 || n > len(p.Steps) {
		return false
	}
	p.Steps[n-1].Status = status
	p.Steps[n-1].Message = message
	return true
}

// RenderStep renders the line for step n (1-based)
func (p *Progress) RenderStep(n int) string {
	if n < 1 || n > len(p.Steps) {
		return ""
	}
	step := p.Steps[n-1]
	marker, style := stepMarker(step.Status)
	return p.renderLine(n, style, style.Render(marker))
}

// RenderFraction renders step n with a bar filled to fraction (0 to 1)
// in place of its status marker.
func (p *Progress) RenderFraction(n int, fraction float64) string {
	if n < 1 || n > len(p.Steps) {
		return ""
	}
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	_, style := stepMarker(p.Steps[n-1].Status)
	return p.renderLine(n, style, p.bar.ViewAs(fraction))
}

func (p *Progress) renderLine(n int, nameStyle lipgloss.Style, marker string) string {
	step := p.Steps[n-1]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  [%d/%d] ", n, len(p.Steps)))
	b.WriteString(nameStyle.Render(step.Name))
	if pad := stepNameColumn - lipgloss.Width(step.Name); pad > 1 {
		b.WriteString(strings.Repeat(" ", pad))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(marker)

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

func stepMarker(status StepStatus) (string, lipgloss.Style) {
	switch status {
	case StepComplete:
		return StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		return StepMarkerRunning, StepRunningStyle
	case StepFailed:
		return FailureMarker, ErrorTitleStyle
	case StepSkipped:
		return StepMarkerSkipped, StepPendingStyle
	default:
		return StepMarkerPending, StepPendingStyle
	}
}
