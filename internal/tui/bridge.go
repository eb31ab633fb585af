package tui

import (
	"sync"

	"github.com/Veraticus/psychro/internal/controller"
	"github.com/Veraticus/psychro/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge forwards controller output into a running program. It renders to
// an optional file sink first, then notifies the program.
type Bridge struct {
	sink controller.Sink
	send func(tea.Msg)
	mu   sync.RWMutex
}

// NewBridge creates a bridge that also renders to sink when non-nil.
func NewBridge(sink controller.Sink) *Bridge {
	return &Bridge{sink: sink}
}

// Attach sets the function messages are delivered with, usually
// (*tea.Program).Send. Passing nil detaches.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) deliver(msg tea.Msg) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// Render implements controller.Sink.
func (b *Bridge) Render(container string, fig model.Figure) error {
	if b.sink != nil {
		if err := b.sink.Render(container, fig); err != nil {
			return err
		}
	}
	b.deliver(chartRenderedMsg{container: container, figure: fig})
	return nil
}

// SetStatus implements controller.Feedback.
func (b *Bridge) SetStatus(target controller.Target, text string) {
	b.deliver(statusMsg{target: target, text: text})
}
