package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Veraticus/psychro/internal/controller"
	"github.com/Veraticus/psychro/internal/model"
)

// StatusWriter prints controller status lines as styled terminal output.
// Cleared lines are not printed.
type StatusWriter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewStatusWriter creates a status writer. A nil writer means stdout.
func NewStatusWriter(writer io.Writer) *StatusWriter {
	if writer == nil {
		writer = os.Stdout
	}
	return &StatusWriter{writer: writer}
}

// SetStatus implements controller.Feedback.
func (w *StatusWriter) SetStatus(_ controller.Target, text string) {
	if text == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.writer, FormatStatus(text))
}

// FormatStatus styles a status text by what it reports.
func FormatStatus(text string) string {
	switch {
	case strings.HasPrefix(text, controller.ErrorPrefix):
		return FormatError(strings.TrimPrefix(text, controller.ErrorPrefix))
	case text == controller.StatusCleared:
		return FormatSuccess(text)
	case strings.HasSuffix(text, "..."):
		return FormatInfo(text)
	default:
		// Validation messages.
		return FormatWarning(text)
	}
}

// FormatChartSummary describes a rendered chart and where it was written.
func FormatChartSummary(fig model.Figure, paths []string) string {
	title := fig.Title()
	if title == "" {
		title = "Psychrometric Chart"
	}

	lines := []string{
		LabelStyle.Render("Traces") + fmt.Sprintf("%d", fig.Traces()),
	}
	if names := fig.Names(); len(names) > 0 {
		lines = append(lines, LabelStyle.Render("Series")+strings.Join(names, ", "))
	}
	for _, p := range paths {
		lines = append(lines, LabelStyle.Render("Output")+SubtleStyle.Render(p))
	}

	return RenderBox(ChartIcon+" "+title, strings.Join(lines, "\n"))
}
