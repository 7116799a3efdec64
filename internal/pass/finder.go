package pass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sattrack/internal/ephemeris"
	"sattrack/internal/models"
)

// ErrMalformedEvents marks an event stream whose instants are not strictly
// increasing. The offending object is dropped for the cycle; other objects
// are unaffected.
var ErrMalformedEvents = errors.New("event instants not strictly increasing")

// Finder queries the ephemeris service for upcoming pass events and
// assembles them into well-formed passes.
type Finder struct {
	eph     ephemeris.Service
	log     *slog.Logger
	horizon time.Duration
}

func NewFinder(eph ephemeris.Service, horizon time.Duration, logger *slog.Logger) *Finder {
	return &Finder{
		eph:     eph,
		log:     logger,
		horizon: horizon,
	}
}

// FindEvents returns the time-ordered event stream per object over
// [now, now+horizon] at the station's minimum tracking elevation. Objects
// whose stream fails validation, or whose ephemeris query fails, are left out
// of the result. The returned error is non-nil only when no object could be
// queried at all, which the caller treats as the ephemeris service being
// unavailable.
func (f *Finder) FindEvents(ctx context.Context, station models.Station, objects []models.Satellite, now time.Time) (map[string][]models.PassEvent, error) {
	events := make(map[string][]models.PassEvent, len(objects))
	var lastErr error
	failures := 0

	for _, obj := range objects {
		if !obj.Trackable() {
			continue
		}

		evs, err := f.eph.FindEvents(ctx, station, obj, now, now.Add(f.horizon), station.MinElevation)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.log.Warn("Ephemeris query failed", "object", obj.Name, "error", err)
			lastErr = err
			failures++
			continue
		}

		if err := validateMonotonic(evs); err != nil {
			f.log.Warn("Discarding object with malformed event stream", "object", obj.Name, "error", err)
			continue
		}

		events[obj.Name] = evs
	}

	if failures > 0 && len(events) == 0 {
		return nil, fmt.Errorf("ephemeris unavailable for all %d objects: %w", failures, lastErr)
	}
	return events, nil
}

// validateMonotonic checks strict monotonic increase of event instants.
// Upstream data may be malformed; it is validated, never reordered.
func validateMonotonic(events []models.PassEvent) error {
	for i := 1; i < len(events); i++ {
		if !events[i].Time.After(events[i-1].Time) {
			return fmt.Errorf("%w: %s at %s follows %s at %s",
				ErrMalformedEvents,
				events[i].Kind, events[i].Time.Format(time.RFC3339),
				events[i-1].Kind, events[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Assemble turns one object's ordered event stream into well-formed passes.
// Each pass is a (rise, optional culminate, set) triple. A rise that is not
// followed by a set before the next rise is an incomplete pass and is
// dropped, never carried forward.
func Assemble(object string, events []models.PassEvent) []models.Pass {
	var passes []models.Pass

	var rise *models.PassEvent
	var culminate *models.PassEvent

	for i := range events {
		ev := events[i]
		switch ev.Kind {
		case models.EventRise:
			// A new rise abandons any unterminated pass before it.
			rise = &ev
			culminate = nil
		case models.EventCulminate:
			if rise != nil {
				culminate = &ev
			}
		case models.EventSet:
			if rise == nil {
				continue // orphaned set
			}
			p := models.Pass{Object: object, Rise: *rise, Culminate: culminate, Set: ev}
			if p.Validate() == nil {
				passes = append(passes, p)
			}
			rise = nil
			culminate = nil
		}
	}

	return passes
}

// SelectNext picks the pass with the globally minimum rise time among passes
// rising strictly after now. Ties are broken by the lowest object name so
// repeated selection over identical inputs is deterministic.
func SelectNext(passes []models.Pass, now time.Time) (models.Pass, bool) {
	var best models.Pass
	found := false

	for _, p := range passes {
		if !p.Rise.Time.After(now) {
			continue
		}
		if !found {
			best = p
			found = true
			continue
		}
		if p.Rise.Time.Before(best.Rise.Time) ||
			(p.Rise.Time.Equal(best.Rise.Time) && p.Object < best.Object) {
			best = p
		}
	}

	return best, found
}

// NextPass runs the full cycle: query events for every trackable object,
// assemble passes, and select the next one. ok is false when no well-formed
// pass rises after now, which is a normal idle-retry condition, not an error.
func (f *Finder) NextPass(ctx context.Context, station models.Station, objects []models.Satellite, now time.Time) (models.Pass, bool, error) {
	byObject, err := f.FindEvents(ctx, station, objects, now)
	if err != nil {
		return models.Pass{}, false, err
	}

	var passes []models.Pass
	for object, events := range byObject {
		passes = append(passes, Assemble(object, events)...)
	}

	selected, ok := SelectNext(passes, now)
	return selected, ok, nil
}
