package picker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/rtsctl/internal/jamfpro"
	"github.com/muurk/rtsctl/internal/rts"
)

// ErrCancelled is returned by Run when the operator quits without choosing
var ErrCancelled = errors.New("profile selection cancelled")

// ScanFunc scans the catalog for Wi-Fi profiles, reporting each checked entry
type ScanFunc func(ctx context.Context, onProgress jamfpro.ScanProgressFunc) (*jamfpro.WiFiScan, error)

// Choice is the profile the operator picked
type Choice struct {
	Ref rts.ProfileRef

	// Profile is set when the choice came from the scanned list
	Profile *jamfpro.ConfigurationProfile
}

// Options configures the picker
type Options struct {
	Server      string // shown above the list
	Serial      string // device the profile is for, shown above the list
	PreselectID int    // profile to highlight once the scan completes
}

type screen int

const (
	screenScanning screen = iota
	screenResults
	screenManual
)

// Messages for the asynchronous scan
type scanProgressMsg struct {
	done    int
	total   int
	entry   jamfpro.ProfileSummary
	matched bool
}

type scanCompleteMsg struct {
	scan *jamfpro.WiFiScan
	err  error
}

// profileItem wraps a configuration profile for use with bubbles/list
type profileItem struct {
	profile *jamfpro.ConfigurationProfile
}

func (p profileItem) FilterValue() string { return p.profile.Name }
func (p profileItem) Title() string       { return p.profile.Name }
func (p profileItem) Description() string { return fmt.Sprintf("Profile ID %d", p.profile.ID) }

// Model is the Bubble Tea model of the profile picker
type Model struct {
	ctx  context.Context
	scan ScanFunc
	opts Options

	screen      screen
	previous    screen
	events      chan tea.Msg
	scanStarted time.Time
	done        int
	total       int
	matched     int
	lastEntry   string
	err         error
	inputErr    string

	choice   *Choice
	quitting bool

	width  int
	height int

	list        list.Model
	input       textinput.Model
	spinner     spinner.Model
	progressBar progress.Model
	help        help.Model

	resultsKeys  resultsKeyMap
	manualKeys   manualKeyMap
	scanningKeys scanningKeyMap
	emptyKeys    emptyKeyMap
}

// New creates a picker that scans with scan when started
func New(ctx context.Context, scan ScanFunc, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "42"
	input.CharLimit = 10
	input.Width = 20
	input.Validate = func(v string) error {
		for _, r := range v {
			if r < '0' || r > '9' {
				return fmt.Errorf("profile ID must be a number")
			}
		}
		return nil
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(HighlightColor).BorderForeground(HighlightColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(SubtleColor).BorderForeground(HighlightColor)

	profiles := list.New([]list.Item{}, delegate, MinTerminalWidth-4, MinTerminalHeight)
	profiles.Title = "Wi-Fi Profiles"
	profiles.SetShowStatusBar(false)
	profiles.SetShowHelp(false)
	profiles.SetFilteringEnabled(true)
	profiles.Styles.Title = TitleStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		ctx:         ctx,
		scan:        scan,
		opts:        opts,
		screen:      screenScanning,
		events:      make(chan tea.Msg, 32),
		scanStarted: time.Now(),
		list:        profiles,
		input:       input,
		spinner:     s,
		progressBar: bar,
		help:        help.New(),
		resultsKeys: resultsKeyMap{
			Up: upKey, Down: downKey, Enter: enterKey,
			Rescan: rescanKey, Manual: manualKey, Quit: quitKey,
		},
		manualKeys:   manualKeyMap{Confirm: confirmKey, Cancel: cancelKey},
		scanningKeys: scanningKeyMap{Manual: manualKey, Quit: quitKey},
		emptyKeys:    emptyKeyMap{Rescan: rescanKey, Manual: manualKey, Quit: quitKey},
	}
}

// Init starts the first scan
func (m Model) Init() tea.Cmd {
	return tea.Batch(runScan(m.ctx, m.scan, m.events), waitForEvent(m.events), m.spinner.Tick)
}

// startScan resets scan state on a fresh event channel and starts a new scan
func (m *Model) startScan() tea.Cmd {
	m.screen = screenScanning
	m.events = make(chan tea.Msg, 32)
	m.scanStarted = time.Now()
	m.done, m.total, m.matched = 0, 0, 0
	m.lastEntry = ""
	m.err = nil
	m.list.SetItems(nil)

	return m.Init()
}

// runScan performs the scan, forwarding progress and the result to events
func runScan(ctx context.Context, scan ScanFunc, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		result, err := scan(ctx, func(done, total int, entry jamfpro.ProfileSummary, matched bool) {
			select {
			case events <- scanProgressMsg{done: done, total: total, entry: entry, matched: matched}:
			case <-ctx.Done():
			}
		})
		defer close(events)
		select {
		case events <- scanCompleteMsg{scan: result, err: err}:
		case <-ctx.Done():
		}
		return nil
	}
}

// waitForEvent delivers the next scan event
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-10) // Leave room for header/footer
		return m, nil

	case scanProgressMsg:
		m.done, m.total = msg.done, msg.total
		m.lastEntry = msg.entry.Name
		if msg.matched {
			m.matched++
		}
		return m, waitForEvent(m.events)

	case scanCompleteMsg:
		m.applyScan(msg)
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.screen {
		case screenManual:
			return m.updateManual(msg)
		case screenScanning:
			return m.updateScanning(msg)
		default:
			return m.updateResults(msg)
		}
	}

	return m, nil
}

func (m *Model) applyScan(msg scanCompleteMsg) {
	if m.screen == screenScanning {
		m.screen = screenResults
	} else {
		m.previous = screenResults
	}
	m.err = msg.err
	if rts.IsKind(msg.err, rts.NoWiFiProfiles) {
		m.err = nil
	}

	if msg.scan == nil {
		return
	}
	items := make([]list.Item, 0, len(msg.scan.Candidates))
	selected := 0
	for i, c := range msg.scan.Candidates {
		items = append(items, profileItem{profile: c})
		if m.opts.PreselectID != 0 && c.ID == m.opts.PreselectID {
			selected = i
		}
	}
	m.list.SetItems(items)
	m.list.Select(selected)
}

func (m Model) updateScanning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.scanningKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.scanningKeys.Manual):
		return m.enterManual(), textinput.Blink
	}
	return m, nil
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys go to the filter input while filtering
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.resultsKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.resultsKeys.Enter):
		if item, ok := m.list.SelectedItem().(profileItem); ok {
			m.choice = &Choice{Ref: rts.ProfileByID(item.profile.ID), Profile: item.profile}
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.resultsKeys.Rescan):
		cmd := m.startScan()
		return m, cmd

	case key.Matches(msg, m.resultsKeys.Manual):
		return m.enterManual(), textinput.Blink
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) enterManual() Model {
	m.previous = m.screen
	m.screen = screenManual
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m Model) updateManual(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.manualKeys.Cancel):
		m.input.Blur()
		m.screen = m.previous
		return m, nil

	case key.Matches(msg, m.manualKeys.Confirm):
		id, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil || id <= 0 {
			m.inputErr = "Enter a numeric profile ID"
			return m, nil
		}
		m.input.Blur()
		m.choice = &Choice{Ref: rts.ProfileByID(id)}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Choice returns the picked profile, if any
func (m Model) Choice() (Choice, bool) {
	if m.choice == nil {
		return Choice{}, false
	}
	return *m.choice, true
}

// Err returns the scan error, if the last scan failed
func (m Model) Err() error {
	return m.err
}

// View renders the picker
func (m Model) View() string {
	if m.quitting || m.choice != nil {
		return ""
	}

	width := m.width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content, helpText string
	switch {
	case m.screen == screenManual:
		content = m.renderManual()
		helpText = m.help.View(m.manualKeys)
	case m.screen == screenScanning:
		content = m.renderScanning(width)
		helpText = m.help.View(m.scanningKeys)
	case len(m.list.Items()) > 0:
		content = m.renderContext() + m.list.View()
		helpText = m.help.View(m.resultsKeys)
	default:
		content = m.renderEmpty()
		helpText = m.help.View(m.emptyKeys)
	}

	return renderContainer(content, helpText, m.width, m.height)
}

func (m Model) renderContext() string {
	var fields []string
	if m.opts.Server != "" {
		fields = append(fields, LabelStyle.Render("Server: ")+m.opts.Server)
	}
	if m.opts.Serial != "" {
		fields = append(fields, LabelStyle.Render("Device: ")+m.opts.Serial)
	}
	if len(fields) == 0 {
		return ""
	}
	return "\n" + strings.Join(fields, "\n") + "\n"
}

// renderScanning renders the centered scan progress display
func (m Model) renderScanning(width int) string {
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}

	status := "Listing configuration profiles..."
	if m.total > 0 {
		status = fmt.Sprintf("Checked %d of %d profiles, %d with Wi-Fi", m.done, m.total, m.matched)
	}

	lines := []string{
		"",
		TitleStyle.Render(m.spinner.View() + " SEARCHING FOR WI-FI PROFILES"),
		SubtitleStyle.Render(status),
		"",
		m.progressBar.ViewAs(percent),
		"",
	}
	if m.lastEntry != "" {
		lines = append(lines, SubtitleStyle.Render("Last checked: "+m.lastEntry))
	}
	lines = append(lines, SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(time.Since(m.scanStarted).Seconds()))), "")

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width-4, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderEmpty renders the scan error or "no profiles" message
func (m Model) renderEmpty() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.err != nil {
		message := m.err.Error()
		if f, ok := rts.AsFailure(m.err); ok {
			message = f.Message()
			if f.Err != nil {
				message += "\n" + jamfpro.ShortMessage(f.Err)
			}
		}
		b.WriteString(ErrorStyle.Render("✗ " + message))
		b.WriteString("\n\n")
		for _, hint := range jamfpro.TroubleshootingHint(m.err) {
			b.WriteString("    • " + hint + "\n")
		}
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(WarningStyle.Render("⚠ No Wi-Fi profiles found"))
	b.WriteString("\n\n")
	b.WriteString("    • No mobile device configuration profile contains a Wi-Fi payload\n")
	b.WriteString("    • Press m to enter a profile ID directly\n")
	return b.String()
}

// renderManual renders the manual profile ID dialog
func (m Model) renderManual() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Enter the ID of a Wi-Fi configuration profile"))
	b.WriteString("\n\n")
	b.WriteString(LabelStyle.Render("Profile ID: "))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.inputErr != "" {
		b.WriteString("\n  " + lipgloss.NewStyle().Foreground(ErrorColor).Render(m.inputErr) + "\n")
	}
	return b.String()
}

// Run shows the picker full-screen and returns the operator's choice.
// ErrCancelled is returned when the operator quits.
func Run(ctx context.Context, scan ScanFunc, opts Options) (Choice, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	final, err := tea.NewProgram(New(ctx, scan, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return Choice{}, fmt.Errorf("profile picker failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Choice{}, ErrCancelled
	}
	choice, ok := m.Choice()
	if !ok {
		return Choice{}, ErrCancelled
	}
	return choice, nil
}
