package catalog

import (
	"encoding/json"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pkg/errors"

	"github.com/hoyle1974/timeslider/temporal"
)

// timeInfoSpec is the wire form of a source's temporal footprint.  The
// extent is a [start, end] pair of epoch milliseconds; the interval is
// optional and carries its unit by name.
type timeInfoSpec struct {
	TimeExtent   []int64 `json:"timeExtent,omitempty"`
	Interval     float64 `json:"interval,omitempty"`
	IntervalUnit string  `json:"intervalUnit,omitempty"`
}

// resolve turns the wire form into model types.
func (t timeInfoSpec) resolve() (temporal.Extent, temporal.Value, error) {
	var extent temporal.Extent
	var interval temporal.Value

	switch len(t.TimeExtent) {
	case 0:
	case 2:
		extent = temporal.NewExtent(
			time.UnixMilli(t.TimeExtent[0]),
			time.UnixMilli(t.TimeExtent[1]),
		)
	default:
		return extent, interval, errors.Errorf("timeExtent must hold two timestamps, got %d", len(t.TimeExtent))
	}

	if t.Interval != 0 {
		unit, err := temporal.ParseUnit(t.IntervalUnit)
		if err != nil {
			return extent, interval, errors.Wrap(err, "can not parse interval unit")
		}
		interval = temporal.NewValue(t.Interval, unit)
	}

	return extent, interval, nil
}

// layerSpec is one layer entry in a document.  Temporal data comes either
// inline or through an item key resolved against the storage system; a
// layer may also carry neither and contribute nothing to the time range.
type layerSpec struct {
	ID                   string        `json:"id" valid:"required"`
	Title                string        `json:"title" valid:"required"`
	Visible              *bool         `json:"visible,omitempty"`
	TimeFilteringEnabled *bool         `json:"timeFilteringEnabled,omitempty"`
	Item                 string        `json:"item,omitempty"`
	TimeInfo             *timeInfoSpec `json:"timeInfo,omitempty"`
}

type documentSpec struct {
	Title  string      `json:"title" valid:"required"`
	Layers []layerSpec `json:"layers,omitempty"`
}

func parseDocument(b []byte) (documentSpec, error) {
	var spec documentSpec
	if err := json.Unmarshal(b, &spec); err != nil {
		return spec, errors.Wrap(err, "can not decode document")
	}
	if _, err := govalidator.ValidateStruct(spec); err != nil {
		return spec, errors.Wrap(err, "invalid document")
	}

	seen := map[string]bool{}
	for _, l := range spec.Layers {
		if seen[l.ID] {
			return spec, errors.Errorf("duplicate layer id %q", l.ID)
		}
		seen[l.ID] = true
		if l.Item != "" && l.TimeInfo != nil {
			return spec, errors.Errorf("layer %q has both an item reference and inline time info", l.ID)
		}
	}

	return spec, nil
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
