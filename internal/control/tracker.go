package control

import (
	"context"
	"log/slog"
	"time"

	"sattrack/internal/actuator"
	"sattrack/internal/clock"
	"sattrack/internal/ephemeris"
	"sattrack/internal/metrics"
	"sattrack/internal/models"
)

// Tracker runs the active tracking loop for one pass: poll the object's
// live position, map it to a mount command, send it, sleep, repeat until the
// pass is over.
type Tracker struct {
	eph          ephemeris.Service
	driver       actuator.Driver
	clk          clock.Clock
	log          *slog.Logger
	pollInterval time.Duration
	callTimeout  time.Duration
}

func NewTracker(eph ephemeris.Service, driver actuator.Driver, clk clock.Clock, pollInterval, callTimeout time.Duration, logger *slog.Logger) *Tracker {
	return &Tracker{
		eph:          eph,
		driver:       driver,
		clk:          clk,
		log:          logger,
		pollInterval: pollInterval,
		callTimeout:  callTimeout,
	}
}

// Track follows the object until the pass ends, then parks the mount. The
// mount is parked on every exit path, including cancellation, so shutdown
// never leaves it mid-slew. The only returned error is the context's.
//
// The loop exits when the object is observed below the station's minimum
// elevation AND the predicted set time has passed. Elevation alone could be
// measurement noise near the threshold; the set time alone is approximate.
// A tick with no live position never commands the mount and never counts
// toward the exit condition.
func (t *Tracker) Track(ctx context.Context, station models.Station, object models.Satellite, pass models.Pass) error {
	metrics.RecordPassStart()
	t.log.Info("Tracking started",
		"object", pass.Object,
		"rise", pass.Rise.Time.Format(time.RFC3339),
		"set", pass.Set.Time.Format(time.RFC3339))

	defer func() {
		if err := t.driver.Park(); err != nil {
			metrics.RecordActuatorFault()
			t.log.Error("Failed to park mount", "error", err)
		}
	}()

	for {
		now := t.clk.Now()

		pos := t.livePosition(ctx, station, object, now)
		if err := ctx.Err(); err != nil {
			return err
		}

		if pos != nil {
			if pos.Elevation < station.MinElevation && now.After(pass.Set.Time) {
				t.log.Info("Pass complete",
					"object", pass.Object,
					"elevation", pos.Elevation,
					"set", pass.Set.Time.Format(time.RFC3339))
				return nil
			}
			t.point(pass.Object, pos)
		}

		if err := t.clk.Sleep(ctx, t.pollInterval); err != nil {
			return err
		}
	}
}

// livePosition queries the ephemeris service with a bounded deadline. Both a
// query failure and an unresolvable object yield nil: this tick is skipped
// rather than acted on.
func (t *Tracker) livePosition(ctx context.Context, station models.Station, object models.Satellite, now time.Time) *models.Position {
	callCtx, cancel := context.WithTimeout(ctx, t.callTimeout)
	defer cancel()

	pos, err := t.eph.CurrentPosition(callCtx, station, object, now)
	if err != nil {
		metrics.RecordEphemerisError()
		t.log.Warn("Live position query failed", "object", object.Name, "error", err)
		return nil
	}
	if pos == nil {
		t.log.Debug("Object absent from live result set", "object", object.Name)
		return nil
	}
	return pos
}

// point maps the raw angles and commands the mount. Actuator faults are
// logged and tracking continues best-effort; a flaky servo is no reason to
// abandon the pass.
func (t *Tracker) point(object string, pos *models.Position) {
	az, el := MapAngles(pos.Azimuth, pos.Elevation)
	if err := t.driver.Point(az, el); err != nil {
		metrics.RecordActuatorFault()
		t.log.Warn("Actuator command failed", "object", object, "azimuth", az, "elevation", el, "error", err)
		return
	}
	metrics.RecordPointing(az, el)
	t.log.Debug("Pointing", "object", object, "azimuth", az, "elevation", el, "range_km", pos.RangeKm)
}
