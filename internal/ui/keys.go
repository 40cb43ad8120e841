package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
//
// Views with an input field start in typing mode: printable keys go to the
// field and only the bindings marked "always" are live. Esc switches to
// browse mode where the single-letter bindings apply.
type keyMap struct {
	// Always
	ForceQuit key.Binding
	NextView  key.Binding
	PrevView  key.Binding
	Focus     key.Binding
	Submit    key.Binding

	// Browse mode
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ViewMusic  key.Binding
	ViewChat   key.Binding
	ViewGitHub key.Binding
	ViewLogs   key.Binding
	Type       key.Binding
	ClearInput key.Binding
	ShowAll    key.Binding

	// Chat
	NextSuggestion key.Binding
	PrevSuggestion key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Logs
	ToggleFollow key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Focus: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Type/browse"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Search/send"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ViewMusic: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Music"),
		),
		ViewChat: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Chat"),
		),
		ViewGitHub: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "GitHub"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Logs"),
		),
		Type: key.NewBinding(
			key.WithKeys("i", "/"),
			key.WithHelp("i", "Type"),
		),
		ClearInput: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "View all"),
		),

		NextSuggestion: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "Next suggestion"),
		),
		PrevSuggestion: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Previous suggestion"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.PrevView, k.ViewMusic, k.ViewChat, k.ViewGitHub, k.ViewLogs},
		{k.Focus, k.Type, k.Submit, k.ClearInput, k.ShowAll},
		{k.NextSuggestion, k.PrevSuggestion},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.ToggleFollow},
		{k.CycleTheme, k.Help, k.Quit, k.ForceQuit},
	}
}
