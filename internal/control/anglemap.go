package control

import "math"

// The mount's rotational travel covers a 180 degree azimuth arc; the far half
// of the sky is reached by flipping the elevation axis past the zenith.
// A fixed clearance offset keeps the dish from fouling its own base at low
// elevations.
const clearanceOffsetDeg = 5.0

// MapAngles converts a raw topocentric (azimuth, elevation) pair into the
// command actually sent to the mount. Pure and deterministic; sending the
// command is the actuator driver's job.
//
// Azimuths beyond 180 degrees are wrapped back into the mount's arc and the
// elevation is mirrored across the 90 degree midpoint to compensate. Whether
// the mirrored branch represents a genuine second rotational sector of the
// mount or works around a single-sector build is unverified; the transform
// matches the hardware as deployed.
func MapAngles(azimuth, elevation float64) (float64, float64) {
	if azimuth > 180 {
		azimuth -= 180
		elevation = 180 - elevation
	}

	elevation = math.Max(0, elevation-clearanceOffsetDeg)

	return clamp(azimuth, 0, 180), clamp(elevation, 0, 180)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
