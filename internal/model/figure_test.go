package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFigure(t *testing.T) {
	payload := ChartPayload(`{
		"data": [
			{"type": "scatter", "mode": "lines", "x": [-10, 50], "y": [1.6, 86.2]},
			{"type": "scatter", "mode": "markers", "name": "Uploaded Data", "x": [22], "y": [8.3]}
		],
		"layout": {"title": {"text": "<b>Psychrometric Chart</b>"}, "xaxis": {"range": [-10, 50]}}
	}`)

	fig, err := DecodeFigure(payload)
	require.NoError(t, err)

	assert.Equal(t, 2, fig.Traces())
	assert.Equal(t, "<b>Psychrometric Chart</b>", fig.Title())
	assert.Equal(t, []string{"Uploaded Data"}, fig.Names())
}

func TestDecodeFigure_Defaults(t *testing.T) {
	fig, err := DecodeFigure(ChartPayload(`{}`))
	require.NoError(t, err)

	assert.Equal(t, 0, fig.Traces())
	assert.JSONEq(t, `{}`, string(fig.Layout))
	assert.Empty(t, fig.Title())
	assert.Empty(t, fig.Names())
}

func TestDecodeFigure_Invalid(t *testing.T) {
	_, err := DecodeFigure(ChartPayload(`not json`))
	assert.Error(t, err)

	_, err = DecodeFigure(ChartPayload(`{"data": {}}`))
	assert.Error(t, err)
}

func TestFigure_TitleForms(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{name: "string title", layout: `{"title": "Chart"}`, want: "Chart"},
		{name: "object title", layout: `{"title": {"text": "Chart", "x": 0.5}}`, want: "Chart"},
		{name: "no title", layout: `{"width": 800}`, want: ""},
		{name: "numeric title", layout: `{"title": 5}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := Figure{Layout: []byte(tt.layout)}
			assert.Equal(t, tt.want, fig.Title())
		})
	}
}

func TestChartRequest_Constructors(t *testing.T) {
	assert.Equal(t, RequestDefault, DefaultRequest().Kind)
	assert.Equal(t, RequestCleared, ClearedRequest().Kind)

	file := FileRequest("/tmp/readings.xlsx")
	assert.Equal(t, RequestFromFile, file.Kind)
	assert.Equal(t, "/tmp/readings.xlsx", file.File)

	point := PointRequest(ManualPoint{Temperature: 25, Humidity: 50})
	assert.Equal(t, RequestManualPoint, point.Kind)
	assert.Equal(t, 25.0, point.Point.Temperature)
	assert.Empty(t, point.File)

	assert.Equal(t, "manual-point", RequestManualPoint.String())
	assert.Equal(t, "RequestKind(9)", RequestKind(9).String())
}
