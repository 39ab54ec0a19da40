package timeslider

import (
	"sync"

	"github.com/hoyle1974/timeslider/temporal"
)

// TemporalView is the host view whose displayed time extent the slider
// drives.  Adapters implement it for concrete map or scene views.  A view
// may clamp or otherwise adjust extents pushed at it; the controller always
// re-derives its indices from what the view reports back.
type TemporalView interface {
	// TimeExtent is the currently displayed extent, empty when unset.
	TimeExtent() temporal.Extent

	SetTimeExtent(e temporal.Extent)

	// OnTimeExtentChanged registers fn for extent changes, including ones
	// caused by the controller's own writes.
	OnTimeExtentChanged(fn func()) (cancel func())
}

// BasicView is a standalone TemporalView that stores its extent in memory,
// accepts every write unmodified and notifies on each one.
type BasicView struct {
	lock    sync.Mutex
	extent  temporal.Extent
	changed callbackList
}

func NewBasicView() *BasicView {
	return &BasicView{}
}

func (v *BasicView) TimeExtent() temporal.Extent {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.extent
}

func (v *BasicView) SetTimeExtent(e temporal.Extent) {
	v.lock.Lock()
	v.extent = e
	v.lock.Unlock()
	v.changed.invoke()
}

func (v *BasicView) OnTimeExtentChanged(fn func()) (cancel func()) {
	return v.changed.add(fn)
}
