package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// actionCmd runs a controller call off the event loop.
func actionCmd(ctx context.Context, a action, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: a, err: fn(ctx)}
	}
}

// start dispatches a controller call and starts the spinner when nothing
// else was pending.
func (m Model) start(a action, fn func(context.Context) error) (tea.Model, tea.Cmd) {
	m.pending++
	cmd := actionCmd(m.ctx, a, fn)
	if m.pending == 1 {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}
