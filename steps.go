package timeslider

import (
	"math"
	"time"

	"github.com/hoyle1974/timeslider/temporal"
)

// stepModel is the derived shape of the slider: the aggregated extent, the
// effective interval and the materialized step boundaries.
type stepModel struct {
	fullExtent temporal.Extent
	interval   temporal.Value
	intervalMS float64
	steps      int
	stepTimes  []time.Time
}

// buildStepModel derives the model for an extent and an optional interval.
// An empty extent yields the zero model.  With no interval one is inferred
// from the magnitude of the span; an interval of zero or fewer milliseconds
// is lifted to one millisecond so the division below is always defined.
func buildStepModel(full temporal.Extent, interval temporal.Value) stepModel {
	if full.IsEmpty() {
		return stepModel{}
	}

	rangeMS := float64(full.SpanMilliseconds())
	if interval.IsZero() {
		interval = temporal.NewValue(1, temporal.EstimateUnit(rangeMS))
	}

	intervalMS := interval.Milliseconds()
	if intervalMS <= 0 {
		intervalMS = 1
	}

	steps := int(rangeMS/intervalMS) + 1
	if steps < 1 {
		// A reversed extent still yields the start boundary.
		steps = 1
	}

	startMS := full.Start.UnixMilli()
	stepTimes := make([]time.Time, steps)
	for i := 0; i < steps; i++ {
		stepTimes[i] = stepTime(startMS, intervalMS, i)
	}

	return stepModel{
		fullExtent: full,
		interval:   interval,
		intervalMS: intervalMS,
		steps:      steps,
		stepTimes:  stepTimes,
	}
}

// stepTime maps a step index onto its timestamp.  Indices outside
// [0, steps) are allowed and produce plain arithmetic results.
func stepTime(fullStartMS int64, intervalMS float64, index int) time.Time {
	return time.UnixMilli(fullStartMS + int64(float64(index)*intervalMS)).UTC()
}

// stepIndex maps a timestamp onto a step index by floor division, so
// timestamps before the full extent produce negative indices.
func stepIndex(fullStartMS int64, intervalMS float64, t time.Time) int {
	return int(math.Floor(float64(t.UnixMilli()-fullStartMS) / intervalMS))
}

// currentExtent resolves what the slider treats as the displayed extent:
// the view's, or the full extent when there is no view or it has none set.
func currentExtent(view TemporalView, full temporal.Extent) temporal.Extent {
	if view == nil {
		return full
	}
	if ext := view.TimeExtent(); !ext.IsEmpty() {
		return ext
	}
	return full
}
