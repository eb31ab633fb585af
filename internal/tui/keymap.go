package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts. Printable keys are left to the
// text inputs.
type KeyMap struct {
	// Navigation
	NextField key.Binding
	PrevField key.Binding

	// Actions
	Submit     key.Binding
	ToggleZone key.Binding
	EditZone   key.Binding
	Clear      key.Binding
	Refresh    key.Binding
	Cancel     key.Binding

	// Application
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab", "previous field"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "upload / plot / apply"),
		),
		ToggleZone: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("Ctrl+T", "toggle design zone"),
		),
		EditZone: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("Ctrl+E", "edit design zone"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("Ctrl+X", "clear data"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "refresh chart"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleZone, k.Clear, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Submit},
		{k.ToggleZone, k.EditZone, k.Cancel},
		{k.Clear, k.Refresh},
		{k.Help, k.Quit},
	}
}
