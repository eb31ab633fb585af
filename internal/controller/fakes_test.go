package controller

import (
	"context"
	"sync"

	"github.com/Veraticus/psychro/internal/model"
)

const fakeFigure = `{"data":[{"type":"scatter","name":"Manual Point","x":[25],"y":[9.9]}],"layout":{"title":{"text":"Psychrometric Chart"}}}`

// serviceCall records one request made through fakeService.
type serviceCall struct {
	zone     *model.DesignZone
	method   string
	file     string
	point    model.ManualPoint
	showZone bool
}

// fakeService answers every call with payload/err. When gate is set, calls
// block until it is closed, after signalling on started.
type fakeService struct {
	err     error
	gate    chan struct{}
	started chan struct{}
	payload model.ChartPayload
	calls   []serviceCall
	mu      sync.Mutex
}

func newFakeService() *fakeService {
	return &fakeService{payload: model.ChartPayload(fakeFigure)}
}

func (f *fakeService) record(ctx context.Context, call serviceCall) (model.ChartPayload, error) {
	if call.zone != nil {
		zone := *call.zone
		call.zone = &zone
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	gate, started := f.gate, f.started
	payload, err := f.payload, f.err
	f.mu.Unlock()

	if gate != nil {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return payload, err
}

func (f *fakeService) FetchDefault(ctx context.Context, showZone bool, zone *model.DesignZone) (model.ChartPayload, error) {
	return f.record(ctx, serviceCall{method: "default", showZone: showZone, zone: zone})
}

func (f *fakeService) GenerateFromFile(ctx context.Context, path string, showZone bool, zone *model.DesignZone) (model.ChartPayload, error) {
	return f.record(ctx, serviceCall{method: "file", file: path, showZone: showZone, zone: zone})
}

func (f *fakeService) PlotManualPoint(ctx context.Context, point model.ManualPoint, showZone bool, zone *model.DesignZone) (model.ChartPayload, error) {
	return f.record(ctx, serviceCall{method: "point", point: point, showZone: showZone, zone: zone})
}

func (f *fakeService) Clear(ctx context.Context) (model.ChartPayload, error) {
	return f.record(ctx, serviceCall{method: "clear"})
}

func (f *fakeService) Calls() []serviceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]serviceCall(nil), f.calls...)
}

func (f *fakeService) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// fakeSink keeps every rendered figure.
type fakeSink struct {
	err      error
	rendered []model.Figure
	targets  []string
	mu       sync.Mutex
}

func (s *fakeSink) Render(container string, fig model.Figure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.targets = append(s.targets, container)
	s.rendered = append(s.rendered, fig)
	return nil
}

func (s *fakeSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rendered)
}

type statusUpdate struct {
	target Target
	text   string
}

// fakeFeedback records every status update in order.
type fakeFeedback struct {
	updates []statusUpdate
	mu      sync.Mutex
}

func (f *fakeFeedback) SetStatus(target Target, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, statusUpdate{target: target, text: text})
}

func (f *fakeFeedback) Texts(target Target) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, u := range f.updates {
		if u.target == target {
			texts = append(texts, u.text)
		}
	}
	return texts
}
