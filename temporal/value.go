package temporal

import (
	"fmt"
	"strings"
)

// Unit is the order of magnitude of a time interval.
type Unit int

const (
	Milliseconds Unit = iota
	Seconds
	Minutes
	Hours
	Days
	Weeks
	Months
	Years
	Decades
	Centuries
)

const (
	millisPerSecond = 1000.0
	millisPerMinute = 60.0 * millisPerSecond
	millisPerHour   = 60.0 * millisPerMinute
	millisPerDay    = 24.0 * millisPerHour
	millisPerWeek   = 7.0 * millisPerDay
	daysPerYear     = 365.0
	monthsPerYear   = 12.0
)

var unitNames = []string{
	"milliseconds",
	"seconds",
	"minutes",
	"hours",
	"days",
	"weeks",
	"months",
	"years",
	"decades",
	"centuries",
}

func (u Unit) String() string {
	if u < Milliseconds || u > Centuries {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// ParseUnit maps a wire name like "days" onto a Unit.  Matching is case
// insensitive.
func ParseUnit(s string) (Unit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range unitNames {
		if n == name {
			return Unit(i), nil
		}
	}
	return Milliseconds, fmt.Errorf("unknown time unit %q", s)
}

// Value is an interval magnitude expressed in a Unit.  The zero Value means
// no interval.
type Value struct {
	Duration float64
	Unit     Unit
}

func NewValue(duration float64, unit Unit) Value {
	return Value{Duration: duration, Unit: unit}
}

func (v Value) IsZero() bool {
	return v.Duration == 0
}

// Milliseconds converts using calendar-free factors: a year is 365 days, a
// month 365/12 days, a decade 3650 days and a century 36500 days.
func (v Value) Milliseconds() float64 {
	switch v.Unit {
	case Centuries:
		return v.Duration * millisPerDay * 36500.0
	case Decades:
		return v.Duration * millisPerDay * 3650.0
	case Years:
		return v.Duration * millisPerDay * daysPerYear
	case Months:
		return v.Duration * (daysPerYear / monthsPerYear) * millisPerDay
	case Weeks:
		return v.Duration * millisPerWeek
	case Days:
		return v.Duration * millisPerDay
	case Hours:
		return v.Duration * millisPerHour
	case Minutes:
		return v.Duration * millisPerMinute
	case Seconds:
		return v.Duration * millisPerSecond
	default:
		return v.Duration
	}
}

// Compare returns -1, 0 or 1 ordering v against o.  Values sharing a unit
// compare by magnitude alone; mixed units compare by millisecond equivalent.
func (v Value) Compare(o Value) int {
	a, b := v.Duration, o.Duration
	if v.Unit != o.Unit {
		a, b = v.Milliseconds(), o.Milliseconds()
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Value) String() string {
	return fmt.Sprintf("%g %s", v.Duration, v.Unit)
}

// EstimateUnit picks an order of magnitude for a span of rangeMS
// milliseconds.  Spans climb from seconds through days, then jump to years
// and centuries; weeks and months are never inferred.
func EstimateUnit(rangeMS float64) Unit {
	switch {
	case rangeMS < millisPerMinute:
		return Seconds
	case rangeMS < millisPerHour:
		return Minutes
	case rangeMS < millisPerDay:
		return Hours
	case rangeMS < millisPerDay*daysPerYear:
		return Days
	case rangeMS > millisPerDay*daysPerYear*100.0:
		return Centuries
	default:
		return Years
	}
}
