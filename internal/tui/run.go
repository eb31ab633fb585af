package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/psychro/internal/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive chart page and blocks until the user quits or
// ctx is canceled. The controller must have been created with bridge as its
// sink and feedback.
func Run(ctx context.Context, ctrl *controller.Controller, bridge *Bridge, opts ...Option) error {
	if ctrl == nil {
		return fmt.Errorf("controller is required")
	}
	if bridge == nil {
		return fmt.Errorf("bridge is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(ctx, ctrl, cfg), programOpts...)
	bridge.Attach(p.Send)
	defer bridge.Attach(nil)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
