package render

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Veraticus/psychro/internal/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFigure(t *testing.T) model.Figure {
	t.Helper()
	fig, err := model.DecodeFigure(model.ChartPayload(
		`{"data":[{"type":"scatter","name":"Manual Point","x":[25],"y":[9.88]}],"layout":{"title":{"text":"Psychrometric Chart"},"xaxis":{"range":[-10,50]}}}`,
	))
	require.NoError(t, err)
	return fig
}

func TestHTMLSink_Render(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewHTMLSink(fs, "/out")

	require.NoError(t, sink.Render("chartContainer", testFigure(t)))

	assert.Equal(t, "/out/chartContainer.html", sink.Path("chartContainer"))
	content, err := afero.ReadFile(fs, "/out/chartContainer.html")
	require.NoError(t, err)

	page := string(content)
	assert.Contains(t, page, `<div id="chartContainer"></div>`)
	assert.Contains(t, page, `Plotly.newPlot("chartContainer", [{"type":"scatter","name":"Manual Point","x":[25],"y":[9.88]}]`)
	assert.Contains(t, page, `"xaxis":{"range":[-10,50]}`)
	assert.Contains(t, page, `<title>Psychrometric Chart</title>`)
	assert.Contains(t, page, DefaultPlotlyURL)
}

func TestHTMLSink_ReplacesPreviousChart(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewHTMLSink(fs, "/out", WithPlotlyURL("plotly.min.js"))

	first := testFigure(t)
	require.NoError(t, sink.Render("chartContainer", first))

	second, err := model.DecodeFigure(model.ChartPayload(`{"data":[],"layout":{"title":"Cleared"}}`))
	require.NoError(t, err)
	require.NoError(t, sink.Render("chartContainer", second))

	content, err := afero.ReadFile(fs, "/out/chartContainer.html")
	require.NoError(t, err)
	assert.Contains(t, string(content), "<title>Cleared</title>")
	assert.NotContains(t, string(content), "Manual Point")
	assert.Contains(t, string(content), `src="plotly.min.js"`)

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are renamed away")
}

func TestHTMLSink_EscapesScriptContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewHTMLSink(fs, "/out")

	fig, err := model.DecodeFigure(model.ChartPayload(`{"data":[{"name":"</script><script>alert(1)</script>"}],"layout":{}}`))
	require.NoError(t, err)
	require.NoError(t, sink.Render("chartContainer", fig))

	content, err := afero.ReadFile(fs, "/out/chartContainer.html")
	require.NoError(t, err)
	assert.NotContains(t, string(content), "<script>alert(1)")
}

func TestFileSink_RejectsUnsafeContainer(t *testing.T) {
	sink := NewJSONSink(afero.NewMemMapFs(), "/out")

	for _, name := range []string{"", "../escape", "nested/chart"} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, sink.Render(name, testFigure(t)))
		})
	}
}

func TestJSONSink_Render(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewJSONSink(fs, "/charts")

	require.NoError(t, sink.Render("chartContainer", testFigure(t)))

	content, err := afero.ReadFile(fs, "/charts/chartContainer.json")
	require.NoError(t, err)

	var got struct {
		Layout map[string]any   `json:"layout"`
		Data   []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(content, &got))
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Manual Point", got.Data[0]["name"])
	assert.Contains(t, got.Layout, "xaxis")
}

type failingSink struct{ err error }

func (f failingSink) Render(string, model.Figure) error { return f.err }

func TestMulti(t *testing.T) {
	fs := afero.NewMemMapFs()
	html := NewHTMLSink(fs, "/out")
	js := NewJSONSink(fs, "/out")

	t.Run("renders to every sink", func(t *testing.T) {
		multi := Multi{html, js}
		require.NoError(t, multi.Render("chartContainer", testFigure(t)))

		for _, path := range multi.Paths("chartContainer") {
			exists, err := afero.Exists(fs, path)
			require.NoError(t, err)
			assert.True(t, exists, path)
		}
		assert.Equal(t, []string{"/out/chartContainer.html", "/out/chartContainer.json"}, multi.Paths("chartContainer"))
	})

	t.Run("joins errors and keeps going", func(t *testing.T) {
		boom := errors.New("boom")
		multi := Multi{failingSink{err: boom}, NewJSONSink(fs, "/other")}

		err := multi.Render("chartContainer", testFigure(t))
		assert.ErrorIs(t, err, boom)

		exists, err := afero.Exists(fs, "/other/chartContainer.json")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
