package model

import (
	"encoding/json"
	"fmt"
)

// ChartPayload is the serialized figure exactly as the service returned it.
type ChartPayload []byte

// Figure is the decoded plot specification handed to a rendering sink.
type Figure struct {
	Layout json.RawMessage   `json:"layout"`
	Data   []json.RawMessage `json:"data"`
}

// DecodeFigure parses a payload into its data series and layout.
func DecodeFigure(p ChartPayload) (Figure, error) {
	var fig Figure
	if err := json.Unmarshal(p, &fig); err != nil {
		return Figure{}, fmt.Errorf("failed to decode figure: %w", err)
	}
	if fig.Data == nil {
		fig.Data = []json.RawMessage{}
	}
	if len(fig.Layout) == 0 {
		fig.Layout = json.RawMessage("{}")
	}
	return fig, nil
}

// Traces returns the number of data series.
func (f Figure) Traces() int {
	return len(f.Data)
}

// Title returns the layout title text, which plotly stores either as a
// plain string or as {"text": ...}.
func (f Figure) Title() string {
	var layout struct {
		Title json.RawMessage `json:"title"`
	}
	if err := json.Unmarshal(f.Layout, &layout); err != nil || len(layout.Title) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(layout.Title, &text); err == nil {
		return text
	}

	var titled struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(layout.Title, &titled); err == nil {
		return titled.Text
	}
	return ""
}

// Names returns the non-empty trace names in order, e.g. "Uploaded Data".
func (f Figure) Names() []string {
	var names []string
	for _, raw := range f.Data {
		var trace struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &trace); err == nil && trace.Name != "" {
			names = append(names, trace.Name)
		}
	}
	return names
}
