package timeslider

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hoyle1974/timeslider/events"
	"github.com/hoyle1974/timeslider/misc"
	"github.com/hoyle1974/timeslider/telemetry"
	"github.com/hoyle1974/timeslider/temporal"
)

// Controller owns the control logic of a time slider positioned over
// temporal data: it unions the extents of its sources into a full extent,
// derives a step interval and the step boundary times, and keeps a selected
// step range in sync with the time extent displayed by a host view.
//
// The view stays authoritative for the current extent.  Mutations push an
// extent at the view and then re-read whatever it accepted, so indices and
// display never drift apart even when the view clamps.  Step indices are
// never clamped by the controller itself; a wider-than-full view extent
// simply yields out of range indices.
type Controller struct {
	lock   sync.Mutex
	closed bool

	view    TemporalView
	sources SourceList

	cancelView    func()
	cancelSources func()

	model        stepModel
	recomputeGen uint64
	startStep    int
	endStep      int

	hub     *events.Hub
	log     telemetry.Logger
	metrics telemetry.Metrics
}

type Config struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
}

// NewController builds a controller attached to view and sources, either of
// which may be nil and supplied later via SetView / SetSources.
func NewController(view TemporalView, sources SourceList) *Controller {
	return NewControllerWithConfig(view, sources, Config{})
}

func NewControllerWithConfig(view TemporalView, sources SourceList, cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = telemetry.NOPLogger{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NOPMetrics{}
	}

	c := &Controller{
		hub:     events.NewHub(),
		log:     cfg.Logger,
		metrics: cfg.Metrics,
	}
	c.attachSources(sources)
	c.attachView(view)
	c.recompute()
	return c
}

// SetView retargets the controller at a different host view.  The previous
// view subscription is dropped and everything is recomputed.
func (c *Controller) SetView(view TemporalView) {
	c.attachView(view)
	c.recompute()
}

// SetSources swaps the source collection, dropping the old membership
// subscription, and recomputes.
func (c *Controller) SetSources(sources SourceList) {
	c.attachSources(sources)
	c.recompute()
}

func (c *Controller) attachView(view TemporalView) {
	c.lock.Lock()
	cancel := c.cancelView
	c.view = view
	c.cancelView = nil
	c.lock.Unlock()

	if cancel != nil {
		cancel()
	}
	if view == nil {
		return
	}

	vc := view.OnTimeExtentChanged(c.viewExtentChanged)
	c.lock.Lock()
	c.cancelView = vc
	c.lock.Unlock()
}

func (c *Controller) attachSources(sources SourceList) {
	c.lock.Lock()
	cancel := c.cancelSources
	c.sources = sources
	c.cancelSources = nil
	c.lock.Unlock()

	if cancel != nil {
		cancel()
	}
	if sources == nil {
		return
	}

	sc := sources.OnChanged(c.sourcesChanged)
	c.lock.Lock()
	c.cancelSources = sc
	c.lock.Unlock()
}

// Refresh reruns aggregation and rebuilds the step model.  Call it after
// toggling a source's visibility or time filtering, which do not notify on
// their own.
func (c *Controller) Refresh() {
	c.recompute()
}

// Close detaches from the view and sources.  The last published state stays
// readable but the controller stops reacting.  Terminal.
func (c *Controller) Close() {
	c.lock.Lock()
	cv, cs := c.cancelView, c.cancelSources
	c.closed = true
	c.view = nil
	c.sources = nil
	c.cancelView, c.cancelSources = nil, nil
	c.lock.Unlock()

	if cv != nil {
		cv()
	}
	if cs != nil {
		cs()
	}
}

func (c *Controller) View() TemporalView {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.view
}

func (c *Controller) SourceList() SourceList {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.sources
}

// FullTimeExtent is the union of the extents of all eligible sources, empty
// when none are eligible.
func (c *Controller) FullTimeExtent() temporal.Extent {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.model.fullExtent
}

func (c *Controller) FullExtentStart() time.Time {
	return c.FullTimeExtent().Start
}

func (c *Controller) FullExtentEnd() time.Time {
	return c.FullTimeExtent().End
}

// CurrentTimeExtent is the extent the view displays, falling back to the
// full extent when there is no view or the view has none set.
func (c *Controller) CurrentTimeExtent() temporal.Extent {
	c.lock.Lock()
	view := c.view
	full := c.model.fullExtent
	c.lock.Unlock()
	return currentExtent(view, full)
}

func (c *Controller) CurrentExtentStart() time.Time {
	return c.CurrentTimeExtent().Start
}

func (c *Controller) CurrentExtentEnd() time.Time {
	return c.CurrentTimeExtent().End
}

// NumberOfSteps is how many step boundaries cover the full extent, zero
// when the full extent is empty.
func (c *Controller) NumberOfSteps() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.model.steps
}

// StepInterval is the effective interval: the coarsest source preference,
// or the inferred one when no source had a preference.
func (c *Controller) StepInterval() temporal.Value {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.model.interval
}

// StepTimes returns a copy of the materialized step boundary timestamps.
func (c *Controller) StepTimes() []time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return misc.DeepCopyArray(c.model.stepTimes)
}

func (c *Controller) StartStep() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.startStep
}

func (c *Controller) EndStep() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.endStep
}

// TimeForStep maps a step index onto its timestamp.  The zero time comes
// back while there are no steps; out of range indices are plain arithmetic.
func (c *Controller) TimeForStep(i int) time.Time {
	c.lock.Lock()
	model := c.model
	c.lock.Unlock()

	if model.steps == 0 {
		return time.Time{}
	}
	return stepTime(model.fullExtent.Start.UnixMilli(), model.intervalMS, i)
}

// StepForTime maps a timestamp onto a step index by floor division, zero
// while there are no steps.
func (c *Controller) StepForTime(t time.Time) int {
	c.lock.Lock()
	model := c.model
	c.lock.Unlock()

	if model.steps == 0 {
		return 0
	}
	return stepIndex(model.fullExtent.Start.UnixMilli(), model.intervalMS, t)
}

// Subscribe registers fn for change events.  By the time fn runs, every
// accessor already reflects the state the event describes.
func (c *Controller) Subscribe(fn func(events.Event)) uuid.UUID {
	return c.hub.Subscribe(fn)
}

func (c *Controller) Unsubscribe(id uuid.UUID) {
	c.hub.Unsubscribe(id)
}

// SetStartStep moves the start of the current extent to step index i,
// holding the end fixed.  No-op while there are no steps.
func (c *Controller) SetStartStep(i int) {
	model, view, ok := c.mutateState()
	if !ok {
		return
	}

	fullStartMS := model.fullExtent.Start.UnixMilli()
	cur := currentExtent(view, model.fullExtent)
	c.pushExtent(view, temporal.NewExtent(stepTime(fullStartMS, model.intervalMS, i), cur.End))
}

// SetEndStep moves the end of the current extent to step index i, holding
// the start fixed.  No-op while there are no steps.
func (c *Controller) SetEndStep(i int) {
	model, view, ok := c.mutateState()
	if !ok {
		return
	}

	fullStartMS := model.fullExtent.Start.UnixMilli()
	cur := currentExtent(view, model.fullExtent)
	c.pushExtent(view, temporal.NewExtent(cur.Start, stepTime(fullStartMS, model.intervalMS, i)))
}

// SetStartAndEndSteps moves both bounds in a single view update so the view
// never displays an intermediate extent.  No-op while there are no steps.
// Nothing stops i from being greater than j; the view arbitrates.
func (c *Controller) SetStartAndEndSteps(i, j int) {
	model, view, ok := c.mutateState()
	if !ok {
		return
	}

	fullStartMS := model.fullExtent.Start.UnixMilli()
	c.pushExtent(view, temporal.NewExtent(
		stepTime(fullStartMS, model.intervalMS, i),
		stepTime(fullStartMS, model.intervalMS, j),
	))
}

// mutateState snapshots what a mutator needs and reports whether mutation
// is currently possible.
func (c *Controller) mutateState() (stepModel, TemporalView, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed || c.model.fullExtent.IsEmpty() {
		return stepModel{}, nil, false
	}
	return c.model, c.view, true
}

// pushExtent writes the proposed extent to the view, then re-derives the
// indices from whatever extent the view ended up with.  The explicit sync
// covers views that do not notify on writes; views that do notify cause an
// extra, harmless current-extent event.
func (c *Controller) pushExtent(view TemporalView, e temporal.Extent) {
	if view != nil {
		view.SetTimeExtent(e)
	}
	c.syncSelection()
}
