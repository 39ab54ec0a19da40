// Package catalog reads slider source documents out of a storage system.
// A document names a set of layers; each layer resolves its temporal
// footprint on load and then serves as a TimeAware source for the slider.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/pkg/errors"

	"github.com/hoyle1974/timeslider/misc"
	"github.com/hoyle1974/timeslider/storage"
	"github.com/hoyle1974/timeslider/telemetry"
)

type Config struct {
	// LoadConcurrency caps how many layers load at once.  -1 means the
	// default of 8.
	LoadConcurrency int
	Logger          telemetry.Logger
}

func (c Config) withDefaults() Config {
	if c.LoadConcurrency <= 0 {
		c.LoadConcurrency = 8
	}
	if c.Logger == nil {
		c.Logger = telemetry.NOPLogger{}
	}
	return c
}

// Document is a parsed catalog document and its layers, in stable id
// order.
type Document struct {
	lock        sync.Mutex
	title       string
	layers      []*Layer
	store       storage.System
	concurrency int
	log         telemetry.Logger
}

// Open reads and parses the document stored under key.  Layers come back
// unloaded; call Load to resolve their temporal data.
func Open(ctx context.Context, s storage.System, key string) (*Document, error) {
	return OpenWithConfig(ctx, s, key, Config{LoadConcurrency: -1})
}

func OpenWithConfig(ctx context.Context, s storage.System, key string, config Config) (*Document, error) {
	config = config.withDefaults()

	b, err := s.Read(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "can not read document")
	}

	spec, err := parseDocument(b)
	if err != nil {
		return nil, err
	}

	return newDocument(spec.Title, specLayers(spec), s, config), nil
}

func newDocument(title string, layers map[string]*Layer, s storage.System, config Config) *Document {
	d := &Document{
		title:       title,
		store:       s,
		concurrency: config.LoadConcurrency,
		log:         config.Logger,
	}
	for _, l := range misc.Range(layers) {
		d.layers = append(d.layers, l)
	}
	return d
}

func specLayers(spec documentSpec) map[string]*Layer {
	layers := make(map[string]*Layer, len(spec.Layers))
	for _, ls := range spec.Layers {
		layers[ls.ID] = newLayer(ls)
	}
	return layers
}

func (d *Document) Title() string {
	return d.title
}

// Layers returns the document's layers in stable id order.  The slice is a
// copy; the layers are shared.
func (d *Document) Layers() []*Layer {
	d.lock.Lock()
	defer d.lock.Unlock()
	out := make([]*Layer, len(d.layers))
	copy(out, d.layers)
	return out
}

// Layer finds a layer by id.
func (d *Document) Layer(id string) (*Layer, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	for _, l := range d.layers {
		if l.ID() == id {
			return l, true
		}
	}
	return nil, false
}

// Load resolves every unloaded layer concurrently.  Individual layer
// failures land on the layers themselves as FailedToLoad; Load only
// returns an error when the context gave out.
func (d *Document) Load(ctx context.Context) error {
	pool := pond.NewPool(d.concurrency)
	for _, l := range d.Layers() {
		if l.LoadStatus() != NotLoaded {
			continue
		}
		pool.Submit(func() {
			if err := l.load(ctx, d.store); err != nil {
				d.log.Error(fmt.Sprintf("layer %s failed to load", l.ID()), err)
			}
		})
	}
	pool.StopAndWait()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "document load interrupted")
	}
	return nil
}
