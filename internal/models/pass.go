package models

import (
	"fmt"
	"time"
)

// PassEventKind identifies one of the three canonical events of a pass.
type PassEventKind int

const (
	EventRise PassEventKind = iota
	EventCulminate
	EventSet
)

func (k PassEventKind) String() string {
	switch k {
	case EventRise:
		return "rise"
	case EventCulminate:
		return "culminate"
	case EventSet:
		return "set"
	default:
		return fmt.Sprintf("PassEventKind(%d)", int(k))
	}
}

// PassEvent is a single rise, culmination, or set event with the object's
// topocentric coordinates at that instant. Time is always UTC.
type PassEvent struct {
	Kind      PassEventKind
	Time      time.Time
	Elevation float64 // degrees above horizon
	Azimuth   float64 // degrees, 0 = North, clockwise
	RangeKm   float64 // slant range
}

// Position is a live topocentric fix for an object at a given instant.
type Position struct {
	Elevation float64
	Azimuth   float64
	RangeKm   float64
}

// Pass is one complete rise-to-set interval for a single object. Culminate is
// optional; Rise and Set are mandatory for a well-formed pass.
type Pass struct {
	Object    string
	Rise      PassEvent
	Culminate *PassEvent
	Set       PassEvent
}

// Validate checks the pass ordering invariant: rise before set, and the
// culmination, when present, strictly between them.
func (p Pass) Validate() error {
	if !p.Rise.Time.Before(p.Set.Time) {
		return fmt.Errorf("pass for %s: rise %s not before set %s", p.Object, p.Rise.Time, p.Set.Time)
	}
	if p.Culminate != nil {
		if !p.Rise.Time.Before(p.Culminate.Time) || !p.Culminate.Time.Before(p.Set.Time) {
			return fmt.Errorf("pass for %s: culminate %s outside rise/set window", p.Object, p.Culminate.Time)
		}
	}
	return nil
}
