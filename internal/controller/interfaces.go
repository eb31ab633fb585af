package controller

import (
	"context"

	"github.com/Veraticus/psychro/internal/model"
)

// ChartService defines the contract for fetching server-rendered charts.
// Zone bounds are only meaningful when showZone is set.
type ChartService interface {
	FetchDefault(ctx context.Context, showZone bool, zone *model.DesignZone) (model.ChartPayload, error)
	GenerateFromFile(ctx context.Context, path string, showZone bool, zone *model.DesignZone) (model.ChartPayload, error)
	PlotManualPoint(ctx context.Context, point model.ManualPoint, showZone bool, zone *model.DesignZone) (model.ChartPayload, error)
	Clear(ctx context.Context) (model.ChartPayload, error)
}

// Sink renders a figure into the named container, replacing what was there.
type Sink interface {
	Render(container string, fig model.Figure) error
}

// Feedback receives status line updates. An empty text clears the line.
type Feedback interface {
	SetStatus(target Target, text string)
}

// Target names a status line.
type Target string

// Status targets.
const (
	TargetMain   Target = "main"
	TargetManual Target = "manual"
)

type noopFeedback struct{}

func (noopFeedback) SetStatus(Target, string) {}
