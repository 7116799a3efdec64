package ephemeris

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"sattrack/internal/models"
)

const (
	coarseStep = 30 * time.Second // scan step when searching for above-threshold windows
	fineStep   = time.Second     // refinement step for event instants

	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// SGP4 implements Service by propagating two-line element sets with the SGP4
// model and converting ECI positions to look angles at the observer.
type SGP4 struct {
	log *slog.Logger
}

func NewSGP4(logger *slog.Logger) *SGP4 {
	return &SGP4{log: logger}
}

// FindEvents scans [from, until] in coarse steps for intervals where the
// object is above minElevation, then refines each interval boundary to the
// second. Each full interval yields a rise, a culmination, and a set event.
func (s *SGP4) FindEvents(ctx context.Context, station models.Station, sat models.Satellite, from, until time.Time, minElevation float64) ([]models.PassEvent, error) {
	rec, err := newRecord(sat)
	if err != nil {
		return nil, err
	}

	var events []models.PassEvent
	t := from.UTC()
	end := until.UTC()

	for t.Before(end) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pos, ok := rec.lookAngles(station, t)
		if ok && pos.Elevation >= minElevation {
			passEvents, windowEnd := rec.refineWindow(station, t, from.UTC(), end, minElevation)
			events = append(events, passEvents...)
			t = windowEnd.Add(coarseStep)
			continue
		}
		t = t.Add(coarseStep)
	}

	return events, nil
}

// CurrentPosition resolves the object's look angles at a single instant.
func (s *SGP4) CurrentPosition(ctx context.Context, station models.Station, sat models.Satellite, at time.Time) (*models.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := newRecord(sat)
	if err != nil {
		s.log.Warn("Object not resolvable", "object", sat.Name, "error", err)
		return nil, nil
	}

	pos, ok := rec.lookAngles(station, at)
	if !ok {
		// Propagation produced no usable state vector, e.g. a decayed orbit.
		return nil, nil
	}
	return &pos, nil
}

// record wraps an initialized SGP4 propagation state for one element set.
type record struct {
	sat satellite.Satellite
}

func newRecord(obj models.Satellite) (*record, error) {
	if err := checkTLE(obj); err != nil {
		return nil, err
	}
	return &record{sat: satellite.TLEToSat(obj.Line1, obj.Line2, satellite.GravityWGS72)}, nil
}

// checkTLE rejects element sets that are structurally wrong before they reach
// the propagator, which assumes fixed-column input.
func checkTLE(obj models.Satellite) error {
	for i, line := range []string{obj.Line1, obj.Line2} {
		prefix := fmt.Sprintf("%d ", i+1)
		if len(line) < 69 || !strings.HasPrefix(line, prefix) {
			return fmt.Errorf("%s: malformed element set line %d", obj.Name, i+1)
		}
	}
	return nil
}

// lookAngles propagates to t and converts to azimuth/elevation/range at the
// station. Returns ok=false when the propagator produced no finite state.
func (r *record) lookAngles(station models.Station, t time.Time) (models.Position, bool) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	eci, _ := satellite.Propagate(r.sat, year, int(month), day, hour, min, sec)
	if !finite(eci.X) || !finite(eci.Y) || !finite(eci.Z) {
		return models.Position{}, false
	}

	jday := satellite.JDay(year, int(month), day, hour, min, sec)
	obs := satellite.LatLong{
		Latitude:  station.Latitude * deg2rad,
		Longitude: station.Longitude * deg2rad,
	}
	la := satellite.ECIToLookAngles(eci, obs, station.Altitude/1000.0, jday)
	if !finite(la.El) || !finite(la.Az) || !finite(la.Rg) {
		return models.Position{}, false
	}

	az := math.Mod(la.Az*rad2deg, 360.0)
	if az < 0 {
		az += 360.0
	}

	return models.Position{
		Elevation: la.El * rad2deg,
		Azimuth:   az,
		RangeKm:   la.Rg,
	}, true
}

// refineWindow walks backwards and forwards from a coarse above-threshold hit
// to locate the rise and set crossings to one-second resolution, tracking the
// culmination along the way. Returns the events and the instant the window
// closed so the caller can resume scanning past it.
func (r *record) refineWindow(station models.Station, coarseHit, windowStart, windowEnd time.Time, minElevation float64) ([]models.PassEvent, time.Time) {
	// Back up to the last sample below the threshold.
	rise := coarseHit
	for rise.After(windowStart) {
		prev := rise.Add(-fineStep)
		pos, ok := r.lookAngles(station, prev)
		if !ok || pos.Elevation < minElevation {
			break
		}
		rise = prev
	}

	risePos, ok := r.lookAngles(station, rise)
	if !ok {
		return nil, coarseHit
	}

	maxTime := rise
	maxPos := risePos

	// Walk forward to the set crossing.
	t := rise
	var set time.Time
	var setPos models.Position
	for t.Before(windowEnd) {
		next := t.Add(fineStep)
		pos, ok := r.lookAngles(station, next)
		if !ok {
			t = next
			continue
		}
		if pos.Elevation < minElevation {
			set = next
			setPos = pos
			break
		}
		if pos.Elevation > maxPos.Elevation {
			maxTime = next
			maxPos = pos
		}
		t = next
	}

	if set.IsZero() {
		// Still above the threshold at the end of the window: the pass has no
		// set inside the look-ahead, so it is not reported at all.
		return nil, windowEnd
	}

	events := []models.PassEvent{
		{Kind: models.EventRise, Time: rise, Elevation: risePos.Elevation, Azimuth: risePos.Azimuth, RangeKm: risePos.RangeKm},
	}
	if maxTime.After(rise) && maxTime.Before(set) {
		events = append(events, models.PassEvent{Kind: models.EventCulminate, Time: maxTime, Elevation: maxPos.Elevation, Azimuth: maxPos.Azimuth, RangeKm: maxPos.RangeKm})
	}
	events = append(events, models.PassEvent{Kind: models.EventSet, Time: set, Elevation: setPos.Elevation, Azimuth: setPos.Azimuth, RangeKm: setPos.RangeKm})

	return events, set
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
