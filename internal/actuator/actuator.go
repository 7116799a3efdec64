package actuator

// Driver commands the two-axis antenna mount. Implementations must be
// idempotent: repeating a command, and calling Park from the shutdown path
// after a previous Park, must be safe.
type Driver interface {
	// Point moves the mount to the given azimuth and elevation, both in
	// degrees within the mount's [0, 180] travel.
	Point(azimuth, elevation float64) error
	// Park returns the mount to its home position.
	Park() error
}
