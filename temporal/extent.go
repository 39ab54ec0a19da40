package temporal

import (
	"fmt"
	"time"
)

// Extent is a closed interval of time.  The zero Extent is empty and is the
// identity for Union.
type Extent struct {
	Start time.Time
	End   time.Time
}

func NewExtent(start time.Time, end time.Time) Extent {
	return Extent{Start: start.UTC(), End: end.UTC()}
}

// IsEmpty reports whether either endpoint is unset.
func (e Extent) IsEmpty() bool {
	return e.Start.IsZero() || e.End.IsZero()
}

// Union returns the smallest extent covering both e and o.  Unioning with an
// empty extent returns the other side unchanged, in either order.
func (e Extent) Union(o Extent) Extent {
	if e.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return e
	}
	out := e
	if o.Start.Before(out.Start) {
		out.Start = o.Start
	}
	if o.End.After(out.End) {
		out.End = o.End
	}
	return out
}

func (e Extent) Contains(timestamp time.Time) bool {
	return (timestamp.Equal(e.Start) || timestamp.After(e.Start)) &&
		(timestamp.Equal(e.End) || timestamp.Before(e.End))
}

// SpanMilliseconds is the width of the extent in Unix milliseconds.  Interval
// math stays in milliseconds throughout because a time.Duration saturates
// near 292 years, which century scale intervals exceed.
func (e Extent) SpanMilliseconds() int64 {
	if e.IsEmpty() {
		return 0
	}
	return e.End.UnixMilli() - e.Start.UnixMilli()
}

func (e Extent) Equal(o Extent) bool {
	return e.Start.Equal(o.Start) && e.End.Equal(o.End)
}

func (e Extent) String() string {
	if e.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%s %s]", e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339))
}
