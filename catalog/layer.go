package catalog

import (
	"context"
	"sync"

	"github.com/hoyle1974/timeslider/storage"
	"github.com/hoyle1974/timeslider/temporal"
)

type LoadStatus int

const (
	NotLoaded LoadStatus = iota
	Loading
	Loaded
	FailedToLoad
)

var loadStatusNames = []string{"NotLoaded", "Loading", "Loaded", "FailedToLoad"}

func (s LoadStatus) String() string {
	if s < 0 || int(s) >= len(loadStatusNames) {
		return "LoadStatus(?)"
	}
	return loadStatusNames[s]
}

// settled reports whether loading finished, successfully or not.
func (s LoadStatus) settled() bool {
	return s == Loaded || s == FailedToLoad
}

// Layer is one entry of a document.  It satisfies the slider's TimeAware
// interface: before Load it reports itself unsettled and contributes
// nothing; afterwards it exposes whatever temporal footprint it resolved.
// A layer that failed to load settles with an empty extent.
type Layer struct {
	lock        sync.Mutex
	id          string
	title       string
	visible     bool
	timeEnabled bool
	item        string
	inline      *timeInfoSpec

	status     LoadStatus
	loadErr    error
	extent     temporal.Extent
	interval   temporal.Value
	settledFns []func()
}

func newLayer(spec layerSpec) *Layer {
	return &Layer{
		id:          spec.ID,
		title:       spec.Title,
		visible:     boolOrTrue(spec.Visible),
		timeEnabled: boolOrTrue(spec.TimeFilteringEnabled),
		item:        spec.Item,
		inline:      spec.TimeInfo,
	}
}

func (l *Layer) ID() string {
	return l.id
}

func (l *Layer) Title() string {
	return l.title
}

func (l *Layer) LoadStatus() LoadStatus {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.status
}

// LoadError is the error that moved the layer to FailedToLoad, nil
// otherwise.
func (l *Layer) LoadError() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.loadErr
}

func (l *Layer) FullTimeExtent() temporal.Extent {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.extent
}

func (l *Layer) TimeInterval() temporal.Value {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.interval
}

func (l *Layer) Settled() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.status.settled()
}

func (l *Layer) Visible() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.visible
}

func (l *Layer) SetVisible(v bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.visible = v
}

func (l *Layer) TimeFilteringEnabled() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.timeEnabled
}

func (l *Layer) SetTimeFilteringEnabled(v bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.timeEnabled = v
}

// OnSettled registers a one-shot callback for when loading finishes.  A
// layer that already settled invokes fn before returning.
func (l *Layer) OnSettled(fn func()) {
	l.lock.Lock()
	if l.status.settled() {
		l.lock.Unlock()
		fn()
		return
	}
	l.settledFns = append(l.settledFns, fn)
	l.lock.Unlock()
}

// load resolves the layer's temporal data, through the item cache when the
// layer references a shared item.  Idempotent; a second call while loading
// or after settling does nothing.  The settled callbacks run outside the
// lock.
func (l *Layer) load(ctx context.Context, s storage.System) error {
	l.lock.Lock()
	if l.status != NotLoaded {
		err := l.loadErr
		l.lock.Unlock()
		return err
	}
	l.status = Loading
	item, inline := l.item, l.inline
	l.lock.Unlock()

	var info timeInfoSpec
	var err error
	switch {
	case inline != nil:
		info = *inline
	case item != "":
		info, err = loadItem(ctx, s, item)
	}

	var extent temporal.Extent
	var interval temporal.Value
	if err == nil {
		extent, interval, err = info.resolve()
	}

	l.lock.Lock()
	if err != nil {
		l.status = FailedToLoad
		l.loadErr = err
	} else {
		l.status = Loaded
		l.extent = extent
		l.interval = interval
	}
	fns := l.settledFns
	l.settledFns = nil
	l.lock.Unlock()

	for _, fn := range fns {
		fn()
	}
	return err
}
