package ephemeris

import (
	"context"
	"time"

	"sattrack/internal/models"
)

// Service computes topocentric ephemerides for catalogued objects as seen
// from a ground station.
type Service interface {
	// FindEvents returns the rise/culminate/set events for sat as seen from
	// station within [from, until], using minElevation (degrees) as the
	// horizon threshold. Events are returned in time order.
	FindEvents(ctx context.Context, station models.Station, sat models.Satellite, from, until time.Time, minElevation float64) ([]models.PassEvent, error)

	// CurrentPosition returns the object's topocentric position at the given
	// instant. A nil position with a nil error means the object could not be
	// resolved at that instant; callers must not confuse this with the object
	// being below the horizon.
	CurrentPosition(ctx context.Context, station models.Station, sat models.Satellite, at time.Time) (*models.Position, error)
}
