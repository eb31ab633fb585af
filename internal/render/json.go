package render

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/psychro/internal/model"
	"github.com/spf13/afero"
)

// JSONSink writes the decoded {data, layout} figure per container.
type JSONSink struct {
	fileSink
}

// NewJSONSink writes figures into dir on fs.
func NewJSONSink(fs afero.Fs, dir string) *JSONSink {
	return &JSONSink{fileSink: fileSink{fs: fs, dir: dir, ext: ".json"}}
}

// Render implements Sink.
func (s *JSONSink) Render(container string, fig model.Figure) error {
	out, err := json.MarshalIndent(struct {
		Data   []json.RawMessage `json:"data"`
		Layout json.RawMessage   `json:"layout"`
	}{Data: fig.Data, Layout: fig.Layout}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode figure: %w", err)
	}
	return s.write(container, append(out, '\n'))
}

// marshalScript encodes the figure for embedding in a script element.
// json.Marshal escapes <, > and & inside the raw messages.
func marshalScript(fig model.Figure) (data, layout []byte, err error) {
	series := fig.Data
	if series == nil {
		series = []json.RawMessage{}
	}
	if data, err = json.Marshal(series); err != nil {
		return nil, nil, fmt.Errorf("failed to encode figure data: %w", err)
	}

	rawLayout := fig.Layout
	if len(rawLayout) == 0 {
		rawLayout = json.RawMessage("{}")
	}
	if layout, err = json.Marshal(rawLayout); err != nil {
		return nil, nil, fmt.Errorf("failed to encode figure layout: %w", err)
	}
	return data, layout, nil
}
