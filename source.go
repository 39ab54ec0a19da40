package timeslider

import (
	"sync"

	"github.com/hoyle1974/timeslider/misc"
	"github.com/hoyle1974/timeslider/temporal"
)

// TimeAware is a data source that participates in building the slider's
// range: a layer, a feed, anything with a temporal footprint.
type TimeAware interface {
	// FullTimeExtent is the source's own temporal extent.  Empty until the
	// source settles, and possibly still empty afterwards if it failed.
	FullTimeExtent() temporal.Extent

	// TimeInterval is the source's preferred step interval.  The zero Value
	// means no preference.
	TimeInterval() temporal.Value

	// Settled reports whether loading finished, successfully or not.
	Settled() bool

	Visible() bool
	TimeFilteringEnabled() bool

	// OnSettled registers a one-shot callback for when the source settles.
	// A source that already settled invokes fn before returning.
	OnSettled(fn func())
}

// SourceList is a dynamic collection of TimeAware sources.
type SourceList interface {
	Sources() []TimeAware
	OnChanged(fn func()) (cancel func())
}

// Sources is the basic SourceList: a mutex guarded slice that notifies on
// membership changes.  Visibility or filtering toggles on a member are not
// membership changes; call Controller.Refresh after those.
type Sources struct {
	lock    sync.Mutex
	items   []TimeAware
	changed callbackList
}

func NewSources(items ...TimeAware) *Sources {
	s := &Sources{}
	s.items = append(s.items, items...)
	return s
}

func (s *Sources) Sources() []TimeAware {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]TimeAware, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Sources) Add(sources ...TimeAware) {
	if len(sources) == 0 {
		return
	}
	s.lock.Lock()
	s.items = append(s.items, sources...)
	s.lock.Unlock()
	s.changed.invoke()
}

// Remove drops the first entry identical to src and reports whether
// anything was removed.
func (s *Sources) Remove(src TimeAware) bool {
	s.lock.Lock()
	removed := false
	for i, it := range s.items {
		if it == src {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	s.lock.Unlock()
	if removed {
		s.changed.invoke()
	}
	return removed
}

func (s *Sources) OnChanged(fn func()) (cancel func()) {
	return s.changed.add(fn)
}

// callbackList is a registry of func() callbacks with cancelable
// registration.  The lock is never held during a callback.
type callbackList struct {
	lock sync.Mutex
	next int
	fns  []callbackEntry
}

type callbackEntry struct {
	id int
	fn func()
}

func (c *callbackList) add(fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	c.lock.Lock()
	c.next++
	id := c.next
	c.fns = append(c.fns, callbackEntry{id: id, fn: fn})
	c.lock.Unlock()
	return func() { c.remove(id) }
}

func (c *callbackList) remove(id int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for i, e := range c.fns {
		if e.id == id {
			c.fns = append(c.fns[:i], c.fns[i+1:]...)
			return
		}
	}
}

func (c *callbackList) invoke() {
	c.lock.Lock()
	fns := misc.DeepCopyArray(c.fns)
	c.lock.Unlock()
	for _, e := range fns {
		e.fn()
	}
}
