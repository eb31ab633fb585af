package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Veraticus/psychro/internal/model"
	"github.com/spf13/afero"
)

// DefaultPlotlyURL is the plotly.js bundle the generated page loads.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
</head>
<body>
<div id="{{.Container}}"></div>
<script>
Plotly.newPlot({{.Container}}, {{.Data}}, {{.Layout}});
</script>
</body>
</html>
`))

type page struct {
	Title     string
	PlotlyURL string
	Container string
	Data      template.JS
	Layout    template.JS
}

// HTMLSink writes a standalone page per container that draws the figure with
// plotly.js.
type HTMLSink struct {
	plotlyURL string
	fileSink
}

// HTMLOption configures an HTMLSink.
type HTMLOption func(*HTMLSink)

// WithPlotlyURL overrides the plotly.js script source.
func WithPlotlyURL(url string) HTMLOption {
	return func(s *HTMLSink) {
		s.plotlyURL = url
	}
}

// NewHTMLSink writes pages into dir on fs.
func NewHTMLSink(fs afero.Fs, dir string, opts ...HTMLOption) *HTMLSink {
	s := &HTMLSink{
		fileSink:  fileSink{fs: fs, dir: dir, ext: ".html"},
		plotlyURL: DefaultPlotlyURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render implements Sink.
func (s *HTMLSink) Render(container string, fig model.Figure) error {
	data, layout, err := marshalScript(fig)
	if err != nil {
		return err
	}

	title := fig.Title()
	if title == "" {
		title = "Psychrometric Chart"
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, page{
		Title:     title,
		PlotlyURL: s.plotlyURL,
		Container: container,
		Data:      template.JS(data),
		Layout:    template.JS(layout),
	})
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	return s.write(container, buf.Bytes())
}
