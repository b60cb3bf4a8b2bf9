package picker

import "github.com/charmbracelet/bubbles/key"

// resultsKeyMap defines key bindings for the profile list
type resultsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

func (k resultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

func (k resultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualKeyMap defines key bindings for manual profile ID entry
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// scanningKeyMap defines key bindings while the catalog is scanned
type scanningKeyMap struct {
	Manual key.Binding
	Quit   key.Binding
}

func (k scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Manual, k.Quit}
}

func (k scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Manual, k.Quit}}
}

// emptyKeyMap defines key bindings when no profile was found or the scan failed
type emptyKeyMap struct {
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

func (k emptyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rescan, k.Manual, k.Quit}
}

func (k emptyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Rescan, k.Manual, k.Quit}}
}

var (
	upKey     = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up"))
	downKey   = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down"))
	enterKey  = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	rescanKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan"))
	manualKey = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "enter ID"))
	quitKey   = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))

	confirmKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm"))
	cancelKey  = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
)
