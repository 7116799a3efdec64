package models

import "time"

// OrbitStatus reports whether a catalogued object is still in orbit.
type OrbitStatus string

const (
	StatusOrbiting OrbitStatus = "orbiting"
	StatusDecayed  OrbitStatus = "decayed"
	StatusUnknown  OrbitStatus = "unknown"
)

// Satellite is one trackable object from the catalogue. Line1/Line2 hold the
// raw two-line element set used by the ephemeris service; the core never
// interprets them itself.
type Satellite struct {
	Name         string
	Line1        string
	Line2        string
	TLEGroup     string
	AutoTracking bool
	OrbitStatus  OrbitStatus
	CreatedAt    time.Time
	LastUpdated  time.Time
}

// Trackable reports whether the object participates in pass scheduling.
// Only orbiting objects with auto-tracking enabled are considered.
func (s Satellite) Trackable() bool {
	return s.AutoTracking && s.OrbitStatus == StatusOrbiting
}
