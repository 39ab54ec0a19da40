package timeslider

import (
	"fmt"

	"github.com/hoyle1974/timeslider/events"
	"github.com/hoyle1974/timeslider/temporal"
)

// aggregate scans the sources and unions the extents of every eligible one:
// settled, time filtering enabled, visible, checked in that order.  The
// coarsest declared interval wins; sources without a preference contribute
// none.  Every source still loading gets a one-shot settle subscription so
// the scan reruns when it finishes.  Each call starts from scratch; nothing
// accumulates between runs.
func (c *Controller) aggregate(sources SourceList) (temporal.Extent, temporal.Value) {
	var full temporal.Extent
	var interval temporal.Value

	if sources == nil {
		return full, interval
	}

	for _, src := range sources.Sources() {
		if src == nil {
			continue
		}
		if !src.Settled() {
			src.OnSettled(c.sourceSettled)
			continue
		}
		if !src.TimeFilteringEnabled() {
			continue
		}
		if !src.Visible() {
			continue
		}

		full = full.Union(src.FullTimeExtent())

		if iv := src.TimeInterval(); !iv.IsZero() {
			if interval.IsZero() || iv.Compare(interval) > 0 {
				interval = iv
			}
		}
	}

	return full, interval
}

// recompute runs the whole pipeline: aggregate the sources, rebuild the
// step model, re-derive the selection from the view, then publish.  State
// is computed into locals and swapped in under the lock, so a listener
// never observes a half updated controller, and a re-entrant trigger from
// inside a callback just runs the pipeline again.
//
// Sources settle from loader goroutines, so recomputes can overlap.  Each
// takes a generation before reading the world; only the newest generation
// installs its model, which keeps a slow stale recompute from clobbering a
// fresher one.
func (c *Controller) recompute() {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return
	}
	c.recomputeGen++
	gen := c.recomputeGen
	view := c.view
	sources := c.sources
	c.lock.Unlock()

	full, interval := c.aggregate(sources)
	model := buildStepModel(full, interval)
	cur := currentExtent(view, model.fullExtent)

	c.lock.Lock()
	if c.closed || gen != c.recomputeGen {
		c.lock.Unlock()
		return
	}
	prev := c.model
	c.model = model

	fullChanged := !prev.fullExtent.Equal(model.fullExtent)
	stepsChanged := prev.steps != model.steps
	timesChanged := fullChanged || stepsChanged || prev.intervalMS != model.intervalMS

	startChanged, endChanged := false, false
	if !model.fullExtent.IsEmpty() {
		fullStartMS := model.fullExtent.Start.UnixMilli()
		start := stepIndex(fullStartMS, model.intervalMS, cur.Start)
		end := stepIndex(fullStartMS, model.intervalMS, cur.End)
		startChanged = c.startStep != start
		endChanged = c.endStep != end
		c.startStep = start
		c.endStep = end
	}
	c.lock.Unlock()

	c.log.Debug(fmt.Sprintf("recompute: extent=%s steps=%d interval=%s", model.fullExtent, model.steps, model.interval))
	c.metrics.SetCount("timeslider.number_of_steps", int64(model.steps))
	c.metrics.SetGuage("timeslider.interval_ms", model.intervalMS)

	if fullChanged {
		c.hub.Publish(events.Event{Kind: events.FullExtentChanged})
	}
	if stepsChanged {
		c.hub.Publish(events.Event{Kind: events.NumberOfStepsChanged})
	}
	if timesChanged {
		c.hub.Publish(events.Event{Kind: events.StepTimesChanged})
	}
	if startChanged {
		c.hub.Publish(events.Event{Kind: events.StartStepChanged})
	}
	if endChanged {
		c.hub.Publish(events.Event{Kind: events.EndStepChanged})
	}
	c.hub.Publish(events.Event{Kind: events.CurrentExtentChanged})
}

// syncSelection re-derives the step indices from the view's extent against
// the existing step model.  While the model is empty the indices keep their
// previous values.  The current extent event always goes out; either the
// view reported a change or a mutator just pushed one.
func (c *Controller) syncSelection() {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return
	}
	view := c.view
	model := c.model
	c.lock.Unlock()

	if model.fullExtent.IsEmpty() {
		c.hub.Publish(events.Event{Kind: events.CurrentExtentChanged})
		return
	}

	cur := currentExtent(view, model.fullExtent)
	fullStartMS := model.fullExtent.Start.UnixMilli()
	start := stepIndex(fullStartMS, model.intervalMS, cur.Start)
	end := stepIndex(fullStartMS, model.intervalMS, cur.End)

	c.lock.Lock()
	startChanged := c.startStep != start
	endChanged := c.endStep != end
	c.startStep = start
	c.endStep = end
	c.lock.Unlock()

	if startChanged {
		c.hub.Publish(events.Event{Kind: events.StartStepChanged})
	}
	if endChanged {
		c.hub.Publish(events.Event{Kind: events.EndStepChanged})
	}
	c.hub.Publish(events.Event{Kind: events.CurrentExtentChanged})
}

func (c *Controller) sourceSettled() {
	c.recompute()
}

func (c *Controller) sourcesChanged() {
	c.recompute()
}

func (c *Controller) viewExtentChanged() {
	c.syncSelection()
}
