package models

import "fmt"

// Station is a ground station observing site. Coordinates are geodetic
// (degrees, meters above the WGS-84 ellipsoid). MinElevation is the elevation
// threshold (degrees) below which the station does not track.
type Station struct {
	Name         string
	Latitude     float64
	Longitude    float64
	Altitude     float64
	MinElevation float64
	Active       bool
}

func (s Station) String() string {
	return fmt.Sprintf("%s (lat %.4f, lon %.4f, alt %.0fm)", s.Name, s.Latitude, s.Longitude, s.Altitude)
}
