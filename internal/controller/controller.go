// Package controller owns the interactive chart session: it validates user
// input, selects which chart is current, guards the manual-plot action and
// routes every outcome to a rendering sink or a status line.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Veraticus/psychro/internal/common"
	"github.com/Veraticus/psychro/internal/model"
	"golang.org/x/sync/semaphore"
)

// DefaultContainer is the element id charts are rendered into.
const DefaultContainer = "chartContainer"

// ErrPlotInFlight is returned when a manual point is submitted while the
// previous one has not settled. The submission is dropped.
var ErrPlotInFlight = errors.New("a manual point is already being plotted")

// Controller coordinates chart actions. It is safe for concurrent use.
type Controller struct {
	service   ChartService
	sink      Sink
	feedback  Feedback
	plotGuard *semaphore.Weighted
	container string
	state     State
	mu        sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithContainer sets the container id passed to the sink.
func WithContainer(name string) Option {
	return func(c *Controller) {
		c.container = name
	}
}

// WithFeedback sets where status line changes are reported.
func WithFeedback(f Feedback) Option {
	return func(c *Controller) {
		c.feedback = f
	}
}

// WithActiveZone starts the session with zone applied and the checkbox
// checked. The zone must already be valid.
func WithActiveZone(zone model.DesignZone) Option {
	return func(c *Controller) {
		c.state.Zone = zone
		c.state.ZoneActive = true
		c.state.ZoneChecked = true
	}
}

// New creates a controller with default session state.
func New(service ChartService, sink Sink, opts ...Option) *Controller {
	c := &Controller{
		service:   service,
		sink:      sink,
		feedback:  noopFeedback{},
		plotGuard: semaphore.NewWeighted(1),
		container: DefaultContainer,
		state:     newState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// LoadDefault renders the default chart. It runs once at startup.
func (c *Controller) LoadDefault(ctx context.Context) error {
	c.mu.Lock()
	c.state.Current = model.DefaultRequest()
	showZone, zone := c.state.zoneArgs()
	c.mu.Unlock()

	payload, err := c.service.FetchDefault(ctx, showZone, zone)
	return c.settle(TargetMain, "load default chart", payload, err, "")
}

// UploadFile selects the data file at path and renders the chart generated from it.
func (c *Controller) UploadFile(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return c.reject(TargetMain, common.NewValidationError(model.ErrNoFileSelected, model.MsgNoFileSelected))
	}

	c.mu.Lock()
	c.state.Current = model.FileRequest(path)
	showZone, zone := c.state.zoneArgs()
	c.mu.Unlock()

	c.setStatus(TargetMain, StatusUpdatingChart)
	payload, err := c.service.GenerateFromFile(ctx, path, showZone, zone)
	return c.settle(TargetMain, "generate chart from file", payload, err, "")
}

// PlotPoint validates and plots a single point. Only one plot may be in
// flight; a submission made meanwhile returns ErrPlotInFlight without a request.
func (c *Controller) PlotPoint(ctx context.Context, temperature, humidity string) error {
	if !c.plotGuard.TryAcquire(1) {
		common.LogDebug("Dropping manual point submission", common.Fields{"reason": "plot in flight"})
		return ErrPlotInFlight
	}
	defer c.plotGuard.Release(1)

	point, err := model.ParsePoint(temperature, humidity)
	if err != nil {
		return c.reject(TargetManual, err)
	}

	c.mu.Lock()
	c.state.Submitting = true
	c.state.Current = model.PointRequest(point)
	showZone, zone := c.state.zoneArgs()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state.Submitting = false
		c.mu.Unlock()
	}()

	c.setStatus(TargetManual, StatusPlotting)
	payload, err := c.service.PlotManualPoint(ctx, point, showZone, zone)
	return c.settle(TargetManual, "plot manual point", payload, err, "")
}

// Clear removes stored data on the service and renders the empty chart.
func (c *Controller) Clear(ctx context.Context) error {
	c.setStatus(TargetMain, StatusClearing)

	payload, err := c.service.Clear(ctx)
	if err == nil {
		c.mu.Lock()
		c.state.Current = model.ClearedRequest()
		c.mu.Unlock()
	}
	return c.settle(TargetMain, "clear data", payload, err, StatusCleared)
}

// ToggleZone follows the design-zone checkbox. Checking it opens the editor
// and returns the bounds to prefill; nothing is requested until ApplyZone.
// Unchecking it deactivates the zone and refreshes the current chart.
func (c *Controller) ToggleZone(ctx context.Context, checked bool) (model.ZoneInput, error) {
	c.mu.Lock()
	if checked {
		c.state.WasActive = c.state.ZoneActive
		c.state.ZoneChecked = true
		c.state.EditorOpen = true
		input := c.state.Zone.Input()
		c.mu.Unlock()
		return input, nil
	}

	c.state.ZoneChecked = false
	c.state.ZoneActive = false
	c.state.EditorOpen = false
	c.state.WasActive = false
	c.mu.Unlock()

	return model.ZoneInput{}, c.Refresh(ctx)
}

// EditZone reopens the editor for an active zone. It reports false when no
// zone is active.
func (c *Controller) EditZone() (model.ZoneInput, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.ZoneActive {
		return model.ZoneInput{}, false
	}
	c.state.WasActive = true
	c.state.EditorOpen = true
	return c.state.Zone.Input(), true
}

// ApplyZone validates the editor input. On failure the editor stays open and
// the first violated rule is returned. On success the bounds are stored, the
// zone becomes active and the current chart is refreshed with it.
func (c *Controller) ApplyZone(ctx context.Context, in model.ZoneInput) error {
	zone, err := in.Parse()
	if err != nil {
		return c.reject(TargetMain, err)
	}

	c.mu.Lock()
	c.state.Zone = zone
	c.state.ZoneActive = true
	c.state.ZoneChecked = true
	c.state.EditorOpen = false
	c.state.WasActive = false
	c.mu.Unlock()

	common.LogInfo("Design zone applied", common.Fields{
		"min_temp": zone.MinTemp,
		"max_temp": zone.MaxTemp,
		"min_rh":   zone.MinRH,
		"max_rh":   zone.MaxRH,
	})

	return c.Refresh(ctx)
}

// CancelZone closes the editor. The checkbox reverts only when the zone was
// not active before the editor opened.
func (c *Controller) CancelZone() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.EditorOpen = false
	if !c.state.WasActive {
		c.state.ZoneChecked = false
		c.state.ZoneActive = false
	}
	c.state.WasActive = false
}

// Refresh re-issues the currently selected request with the current zone.
// Refreshes are not sequenced: when two overlap, the last to finish renders.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	current := c.state.Current
	showZone, zone := c.state.zoneArgs()
	c.mu.Unlock()

	c.setStatus(TargetMain, StatusUpdatingZone)

	var (
		payload model.ChartPayload
		err     error
	)
	switch current.Kind {
	case model.RequestFromFile:
		payload, err = c.service.GenerateFromFile(ctx, current.File, showZone, zone)
	case model.RequestManualPoint:
		payload, err = c.service.PlotManualPoint(ctx, current.Point, showZone, zone)
	default:
		payload, err = c.service.FetchDefault(ctx, showZone, zone)
	}
	return c.settle(TargetMain, "refresh "+current.Kind.String()+" chart", payload, err, "")
}

// settle routes a finished request: render on success, report on failure.
// successText replaces the status line after a render.
func (c *Controller) settle(target Target, action string, payload model.ChartPayload, err error, successText string) error {
	if err != nil {
		return c.fail(target, action, err)
	}

	fig, err := model.DecodeFigure(payload)
	if err != nil {
		return c.fail(target, action, err)
	}
	if err := c.sink.Render(c.container, fig); err != nil {
		return c.fail(target, action, err)
	}

	common.LogDebug("Chart rendered", common.Fields{
		"action":    action,
		"container": c.container,
		"traces":    fig.Traces(),
	})
	c.setStatus(target, successText)
	return nil
}

func (c *Controller) fail(target Target, action string, err error) error {
	fields := common.Fields{"action": action, "target": string(target)}

	var tErr *common.TransportError
	if errors.As(err, &tErr) {
		fields["status_code"] = tErr.StatusCode
		if tErr.Detail != "" {
			fields["detail"] = tErr.Detail
		}
	}
	common.LogError(err, "Chart action failed", fields)

	c.setStatus(target, ErrorPrefix+err.Error())
	return err
}

// reject reports a validation failure. No request has been made.
func (c *Controller) reject(target Target, err error) error {
	var vErr *common.ValidationError
	if errors.As(err, &vErr) {
		c.setStatus(target, vErr.Message)
	} else {
		c.setStatus(target, ErrorPrefix+err.Error())
	}
	return err
}

func (c *Controller) setStatus(target Target, text string) {
	c.mu.Lock()
	c.state.Status[target] = text
	c.mu.Unlock()
	c.feedback.SetStatus(target, text)
}
