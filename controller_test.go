package timeslider

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hoyle1974/timeslider/events"
	"github.com/hoyle1974/timeslider/temporal"
)

type fakeSource struct {
	lock        sync.Mutex
	extent      temporal.Extent
	interval    temporal.Value
	settled     bool
	visible     bool
	timeEnabled bool
	settledFns  []func()
	settleSubs  int
}

func newFakeSource(extent temporal.Extent) *fakeSource {
	return &fakeSource{extent: extent, settled: true, visible: true, timeEnabled: true}
}

func newLoadingSource() *fakeSource {
	return &fakeSource{visible: true, timeEnabled: true}
}

func (f *fakeSource) FullTimeExtent() temporal.Extent {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.extent
}

func (f *fakeSource) TimeInterval() temporal.Value {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.interval
}

func (f *fakeSource) Settled() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.settled
}

func (f *fakeSource) Visible() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.visible
}

func (f *fakeSource) TimeFilteringEnabled() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.timeEnabled
}

func (f *fakeSource) OnSettled(fn func()) {
	f.lock.Lock()
	f.settleSubs++
	if f.settled {
		f.lock.Unlock()
		fn()
		return
	}
	f.settledFns = append(f.settledFns, fn)
	f.lock.Unlock()
}

func (f *fakeSource) settle(extent temporal.Extent) {
	f.lock.Lock()
	f.extent = extent
	f.settled = true
	fns := f.settledFns
	f.settledFns = nil
	f.lock.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeSource) setVisible(v bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.visible = v
}

func (f *fakeSource) setTimeEnabled(v bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.timeEnabled = v
}

// clampView keeps every accepted extent inside its bounds.
type clampView struct {
	lock    sync.Mutex
	bounds  temporal.Extent
	extent  temporal.Extent
	changed callbackList
}

func (v *clampView) TimeExtent() temporal.Extent {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.extent
}

func (v *clampView) SetTimeExtent(e temporal.Extent) {
	if e.Start.Before(v.bounds.Start) {
		e.Start = v.bounds.Start
	}
	if e.End.After(v.bounds.End) {
		e.End = v.bounds.End
	}
	v.lock.Lock()
	v.extent = e
	v.lock.Unlock()
	v.changed.invoke()
}

func (v *clampView) OnTimeExtentChanged(fn func()) (cancel func()) {
	return v.changed.add(fn)
}

// countingView counts writes pushed at it.
type countingView struct {
	BasicView
	writes int
}

func (v *countingView) SetTimeExtent(e temporal.Extent) {
	v.writes++
	v.BasicView.SetTimeExtent(e)
}

func dailyExtent() temporal.Extent {
	return temporal.NewExtent(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC),
	)
}

func TestControllerDailyScenario(t *testing.T) {
	view := NewBasicView()
	c := NewController(view, NewSources(newFakeSource(dailyExtent())))

	require.True(t, c.FullTimeExtent().Equal(dailyExtent()))
	require.Equal(t, 11, c.NumberOfSteps())
	require.Equal(t, temporal.NewValue(1, temporal.Days), c.StepInterval())

	steps := c.StepTimes()
	require.Len(t, steps, 11)
	require.True(t, steps[0].Equal(dailyExtent().Start))
	require.True(t, steps[10].Equal(dailyExtent().End))

	// An empty view extent means the selection spans everything.
	require.Equal(t, 0, c.StartStep())
	require.Equal(t, 10, c.EndStep())
	require.True(t, c.CurrentTimeExtent().Equal(dailyExtent()))
	require.True(t, c.FullExtentStart().Equal(dailyExtent().Start))
	require.True(t, c.FullExtentEnd().Equal(dailyExtent().End))
}

func TestControllerZeroSources(t *testing.T) {
	view := NewBasicView()
	c := NewController(view, NewSources())

	require.True(t, c.FullTimeExtent().IsEmpty())
	require.Equal(t, 0, c.NumberOfSteps())
	require.Empty(t, c.StepTimes())

	c.SetEndStep(5)
	require.Equal(t, 0, c.EndStep())
	require.True(t, view.TimeExtent().IsEmpty(), "a no-op mutator must not touch the view")
}

func TestControllerUnionAcrossSources(t *testing.T) {
	t0 := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	a := newFakeSource(temporal.NewExtent(t0, t0.Add(5*time.Hour)))
	b := newFakeSource(temporal.NewExtent(t0.Add(2*time.Hour), t0.Add(8*time.Hour)))

	c := NewController(NewBasicView(), NewSources(a, b))

	want := temporal.NewExtent(t0, t0.Add(8*time.Hour))
	require.True(t, c.FullTimeExtent().Equal(want))
}

func TestControllerRoundTripStartStep(t *testing.T) {
	view := NewBasicView()
	c := NewController(view, NewSources(newFakeSource(dailyExtent())))

	c.SetStartStep(3)

	require.Equal(t, 3, c.StartStep())
	require.Equal(t, 10, c.EndStep())
	require.True(t, view.TimeExtent().Start.Equal(dailyExtent().Start.AddDate(0, 0, 3)))
	require.True(t, view.TimeExtent().End.Equal(dailyExtent().End))
}

func TestControllerSetEndStep(t *testing.T) {
	view := NewBasicView()
	c := NewController(view, NewSources(newFakeSource(dailyExtent())))

	c.SetEndStep(7)

	require.Equal(t, 0, c.StartStep())
	require.Equal(t, 7, c.EndStep())
	require.True(t, view.TimeExtent().End.Equal(dailyExtent().Start.AddDate(0, 0, 7)))
}

func TestControllerSetStartAndEndStepsSingleWrite(t *testing.T) {
	view := &countingView{}
	c := NewController(view, NewSources(newFakeSource(dailyExtent())))

	c.SetStartAndEndSteps(2, 6)

	require.Equal(t, 1, view.writes, "both bounds must move in one view update")
	require.Equal(t, 2, c.StartStep())
	require.Equal(t, 6, c.EndStep())
}

func TestControllerCoarsestIntervalWins(t *testing.T) {
	ext := dailyExtent()
	hourly := newFakeSource(ext)
	hourly.interval = temporal.NewValue(1, temporal.Hours)
	daily := newFakeSource(ext)
	daily.interval = temporal.NewValue(1, temporal.Days)
	silent := newFakeSource(ext) // no preference

	c := NewController(NewBasicView(), NewSources(hourly, daily, silent))

	require.Equal(t, temporal.NewValue(1, temporal.Days), c.StepInterval())
	require.Equal(t, 11, c.NumberOfSteps())
}

func TestControllerUnsettledSourceReaggregates(t *testing.T) {
	loading := newLoadingSource()
	view := NewBasicView()
	c := NewController(view, NewSources(loading))

	require.Equal(t, 0, c.NumberOfSteps())
	require.Equal(t, 1, loading.settleSubs)

	var kinds []events.Kind
	c.Subscribe(func(e events.Event) { kinds = append(kinds, e.Kind) })

	loading.settle(dailyExtent())

	require.Equal(t, 11, c.NumberOfSteps())
	require.True(t, c.FullTimeExtent().Equal(dailyExtent()))
	require.Contains(t, kinds, events.FullExtentChanged)
	require.Contains(t, kinds, events.NumberOfStepsChanged)
	require.Contains(t, kinds, events.StepTimesChanged)
	require.Contains(t, kinds, events.EndStepChanged)
}

func TestControllerFailedSourceContributesNothing(t *testing.T) {
	failed := newLoadingSource()
	good := newFakeSource(dailyExtent())
	c := NewController(NewBasicView(), NewSources(failed, good))

	// Settling with no extent is how a failed load looks to the slider.
	failed.settle(temporal.Extent{})

	require.True(t, c.FullTimeExtent().Equal(dailyExtent()))
	require.Equal(t, 11, c.NumberOfSteps())
}

func TestControllerOnlyFailedSource(t *testing.T) {
	failed := newLoadingSource()
	c := NewController(NewBasicView(), NewSources(failed))

	failed.settle(temporal.Extent{})

	require.True(t, c.FullTimeExtent().IsEmpty())
	require.Equal(t, 0, c.NumberOfSteps())
}

func TestControllerEligibilityToggles(t *testing.T) {
	src := newFakeSource(dailyExtent())
	src.setVisible(false)
	c := NewController(NewBasicView(), NewSources(src))

	require.Equal(t, 0, c.NumberOfSteps())

	src.setVisible(true)
	c.Refresh()
	require.Equal(t, 11, c.NumberOfSteps())

	src.setTimeEnabled(false)
	c.Refresh()
	require.Equal(t, 0, c.NumberOfSteps())
}

func TestControllerClampingView(t *testing.T) {
	ext := dailyExtent()
	view := &clampView{bounds: temporal.NewExtent(ext.Start, ext.Start.AddDate(0, 0, 5))}
	c := NewController(view, NewSources(newFakeSource(ext)))

	c.SetStartAndEndSteps(0, 8)

	// The view clamped the end; indices must follow the accepted extent.
	require.Equal(t, 0, c.StartStep())
	require.Equal(t, 5, c.EndStep())
}

func TestControllerViewDrivesSelection(t *testing.T) {
	view := NewBasicView()
	c := NewController(view, NewSources(newFakeSource(dailyExtent())))

	start := dailyExtent().Start
	view.SetTimeExtent(temporal.NewExtent(start.AddDate(0, 0, 1), start.AddDate(0, 0, 4)))

	require.Equal(t, 1, c.StartStep())
	require.Equal(t, 4, c.EndStep())

	// Sub-interval offsets floor to the step below.
	view.SetTimeExtent(temporal.NewExtent(start.Add(36*time.Hour), start.Add(100*time.Hour)))
	require.Equal(t, 1, c.StartStep())
	require.Equal(t, 4, c.EndStep())
}

func TestControllerOutOfRangeIndicesPermitted(t *testing.T) {
	view := NewBasicView()
	c := NewController(view, NewSources(newFakeSource(dailyExtent())))

	c.SetStartStep(-2)
	require.Equal(t, -2, c.StartStep())

	c.SetEndStep(15)
	require.Equal(t, 15, c.EndStep())

	require.True(t, c.TimeForStep(15).Equal(dailyExtent().Start.AddDate(0, 0, 15)))
	require.Equal(t, 15, c.StepForTime(c.TimeForStep(15)))
}

func TestControllerStepTimeMappingWithoutSteps(t *testing.T) {
	c := NewController(NewBasicView(), NewSources())

	require.True(t, c.TimeForStep(3).IsZero())
	require.Equal(t, 0, c.StepForTime(time.Now()))
}

func TestControllerSetViewLater(t *testing.T) {
	c := NewController(nil, NewSources(newFakeSource(dailyExtent())))

	require.True(t, c.CurrentTimeExtent().Equal(dailyExtent()))
	require.Equal(t, 0, c.StartStep())
	require.Equal(t, 10, c.EndStep())

	// Mutating without a view re-derives from the full extent fallback.
	c.SetStartStep(3)
	require.Equal(t, 0, c.StartStep())

	view := NewBasicView()
	c.SetView(view)
	c.SetStartStep(3)
	require.Equal(t, 3, c.StartStep())
}

func TestControllerSetSourcesDetachesOld(t *testing.T) {
	t0 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	first := NewSources(newFakeSource(temporal.NewExtent(t0, t0.Add(time.Hour))))
	c := NewController(NewBasicView(), first)

	second := NewSources(newFakeSource(dailyExtent()))
	c.SetSources(second)
	require.True(t, c.FullTimeExtent().Equal(dailyExtent()))

	// Membership changes on the detached list must not feed the controller.
	first.Add(newFakeSource(temporal.NewExtent(t0, t0.Add(48*time.Hour))))
	require.True(t, c.FullTimeExtent().Equal(dailyExtent()))
}

func TestControllerSourceMembershipRecomputes(t *testing.T) {
	t0 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	a := newFakeSource(temporal.NewExtent(t0, t0.Add(time.Hour)))
	sources := NewSources(a)
	c := NewController(NewBasicView(), sources)

	b := newFakeSource(temporal.NewExtent(t0, t0.Add(3*time.Hour)))
	sources.Add(b)
	require.True(t, c.FullTimeExtent().Equal(temporal.NewExtent(t0, t0.Add(3*time.Hour))))

	sources.Remove(b)
	require.True(t, c.FullTimeExtent().Equal(temporal.NewExtent(t0, t0.Add(time.Hour))))
}

func TestControllerListenerSeesConsistentState(t *testing.T) {
	loading := newLoadingSource()
	view := NewBasicView()
	c := NewController(view, NewSources(loading))

	c.Subscribe(func(e events.Event) {
		steps := c.NumberOfSteps()
		require.Len(t, c.StepTimes(), steps)
		if c.FullTimeExtent().IsEmpty() {
			require.Equal(t, 0, steps)
		} else {
			require.Equal(t, temporal.NewValue(1, temporal.Days), c.StepInterval())
		}
	})

	loading.settle(dailyExtent())
	c.SetStartAndEndSteps(1, 9)
	c.Refresh()
}

func TestControllerReentrantListener(t *testing.T) {
	loading := newLoadingSource()
	c := NewController(NewBasicView(), NewSources(loading))

	refreshed := false
	c.Subscribe(func(e events.Event) {
		if e.Kind == events.FullExtentChanged && !refreshed {
			refreshed = true
			c.Refresh()
		}
	})

	loading.settle(dailyExtent())

	require.True(t, refreshed)
	require.Equal(t, 11, c.NumberOfSteps())
	require.Equal(t, 10, c.EndStep())
}

func TestControllerUnsubscribe(t *testing.T) {
	c := NewController(NewBasicView(), NewSources(newFakeSource(dailyExtent())))

	count := 0
	id := c.Subscribe(func(e events.Event) { count++ })
	c.SetStartStep(1)
	require.Greater(t, count, 0)

	seen := count
	c.Unsubscribe(id)
	c.SetStartStep(2)
	require.Equal(t, seen, count)
}

func TestControllerClose(t *testing.T) {
	loading := newLoadingSource()
	view := NewBasicView()
	c := NewController(view, NewSources(loading))

	c.Close()

	loading.settle(dailyExtent())
	require.Equal(t, 0, c.NumberOfSteps())

	c.SetStartStep(1)
	require.Equal(t, 0, c.StartStep())
	require.Nil(t, c.View())
	require.Nil(t, c.SourceList())
}
