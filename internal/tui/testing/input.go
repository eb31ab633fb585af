// Package testing provides helpers for driving bubbletea models in tests.
package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Type creates a message that types text into the focused input.
func Type(text string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(text),
	}
}

// KeyEnter creates an enter key message.
func KeyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// KeyEsc creates an escape key message.
func KeyEsc() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

// KeyTab creates a tab key message.
func KeyTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyTab}
}

// KeyShiftTab creates a shift+tab key message.
func KeyShiftTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyShiftTab}
}

// KeyF1 creates an F1 key message.
func KeyF1() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyF1}
}

var ctrlKeys = map[rune]tea.KeyType{
	'c': tea.KeyCtrlC,
	'e': tea.KeyCtrlE,
	'r': tea.KeyCtrlR,
	't': tea.KeyCtrlT,
	'x': tea.KeyCtrlX,
}

// KeyCtrl creates a ctrl key combination message for the keys the app binds.
func KeyCtrl(key rune) tea.KeyMsg {
	keyType, ok := ctrlKeys[key]
	if !ok {
		panic("KeyCtrl: unsupported key " + string(key))
	}
	return tea.KeyMsg{Type: keyType}
}

// WindowSize creates a window size message for testing responsive layouts.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	}
}

// Collect runs cmd and returns every message it produces, expanding batches.
// Messages of type T are returned; everything else is dropped so that
// self-rescheduling ticks are never run.
func Collect[T tea.Msg](cmd tea.Cmd) []T {
	if cmd == nil {
		return nil
	}

	var out []T
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, Collect[T](c)...)
		}
	case T:
		out = append(out, msg)
	}
	return out
}
