package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sattrack/internal/clock"
	"sattrack/internal/ephemeris"
	"sattrack/internal/metrics"
	"sattrack/internal/models"
	"sattrack/internal/notify"
	"sattrack/internal/pass"
)

// State is the scheduler's position in its cycle. Exactly one state holds at
// any instant; transitions are driven by clock comparisons against the
// selected pass, never by external signals other than shutdown.
type State int

const (
	StateIdle State = iota
	StateWaiting
	StateTracking
	StateCooldown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateTracking:
		return "tracking"
	case StateCooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CatalogSource supplies fresh station and catalogue data each cycle.
type CatalogSource interface {
	ActiveStation(ctx context.Context) (models.Station, error)
	TrackableObjects(ctx context.Context) ([]models.Satellite, error)
}

// SchedulerConfig carries the scheduling margins and retry policy.
type SchedulerConfig struct {
	LeadMargin     time.Duration // wake this long before predicted rise
	TrailingMargin time.Duration // hold cooldown this long after predicted set
	IdleRetry      time.Duration // pause between idle selection attempts
	RetryBackoff   time.Duration // pause between ephemeris retries while waiting
	RetryLimit     int           // retries before giving the pass up
	CallTimeout    time.Duration // bound on any single collaborator call
}

// Scheduler owns the Idle -> WaitingForPass -> Tracking -> Cooldown cycle.
// It is the single logical thread of control: every suspension goes through
// the clock and is cancellable by shutdown.
type Scheduler struct {
	source   CatalogSource
	finder   *pass.Finder
	eph      ephemeris.Service
	tracker  *Tracker
	notifier notify.Notifier
	clk      clock.Clock
	log      *slog.Logger
	cfg      SchedulerConfig

	state State
}

func NewScheduler(source CatalogSource, finder *pass.Finder, eph ephemeris.Service, tracker *Tracker, notifier notify.Notifier, clk clock.Clock, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		source:   source,
		finder:   finder,
		eph:      eph,
		tracker:  tracker,
		notifier: notifier,
		clk:      clk,
		log:      logger,
		cfg:      cfg,
	}
}

// State returns the scheduler's current state. Owned exclusively by the
// scheduling goroutine; read it only for reporting.
func (s *Scheduler) State() State {
	return s.state
}

// Run executes scheduling cycles until ctx is cancelled. No failure inside a
// cycle is fatal: anything the scheduler cannot resolve locally degrades to
// an idle retry.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runCycle(ctx); err != nil {
			return err
		}
	}
}

// runCycle performs one trip around the state machine. The returned error is
// non-nil only for cancellation.
func (s *Scheduler) runCycle(ctx context.Context) error {
	// Idle is the only state that performs a fresh global selection, so a
	// transient disappearance of an object from a later query can never lose
	// a pass already being waited on or tracked.
	s.setState(StateIdle)

	selected, object, station, ok, err := s.selectNext(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return s.clk.Sleep(ctx, s.cfg.IdleRetry)
	}

	// WaitingForPass: suspend until the lead margin before rise. A late wake
	// proceeds straight into tracking; a pass is never skipped because the
	// wake arrived after the rise.
	s.setState(StateWaiting)
	wake := selected.Rise.Time.Add(-s.cfg.LeadMargin)
	s.notifier.OnWaitStart(selected.Object, wake)
	s.log.Info("Waiting for pass",
		"object", selected.Object,
		"rise", selected.Rise.Time.Format(time.RFC3339),
		"wake", wake.Format(time.RFC3339))
	if err := s.sleepUntil(ctx, wake); err != nil {
		return err
	}

	if !s.confirmResolvable(ctx, station, object) {
		// Retries exhausted; fall back to idle and reselect.
		return ctx.Err()
	}

	// Tracking: the tracker owns the exit condition and parks the mount.
	s.setState(StateTracking)
	s.notifier.OnTrackingStart(selected.Object)
	if err := s.tracker.Track(ctx, station, object, selected); err != nil {
		return err
	}

	// Cooldown: hold the same pass until the trailing margin elapses, then
	// announce the end and go around again.
	s.setState(StateCooldown)
	if err := s.sleepUntil(ctx, selected.Set.Time.Add(s.cfg.TrailingMargin)); err != nil {
		return err
	}
	s.notifier.OnTrackingEnd(selected.Object)

	return nil
}

// selectNext fetches fresh catalogue data and picks the next pass. ok is
// false when there is nothing to do yet, which is a normal condition.
func (s *Scheduler) selectNext(ctx context.Context) (models.Pass, models.Satellite, models.Station, bool, error) {
	var none models.Pass

	station, err := s.fetchStation(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return none, models.Satellite{}, station, false, ctx.Err()
		}
		s.log.Error("No usable ground station this cycle", "error", err)
		return none, models.Satellite{}, station, false, nil
	}

	objects, err := s.fetchObjects(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return none, models.Satellite{}, station, false, ctx.Err()
		}
		s.log.Error("Catalogue unavailable this cycle", "error", err)
		return none, models.Satellite{}, station, false, nil
	}

	now := s.clk.Now()
	selected, ok, err := s.finder.NextPass(ctx, station, objects, now)
	if err != nil {
		if ctx.Err() != nil {
			return none, models.Satellite{}, station, false, ctx.Err()
		}
		metrics.RecordEphemerisError()
		s.log.Warn("Pass search failed, will retry", "error", err)
		return none, models.Satellite{}, station, false, nil
	}
	if !ok {
		s.log.Info("No upcoming pass found", "objects", len(objects))
		return none, models.Satellite{}, station, false, nil
	}

	object, found := findObject(objects, selected.Object)
	if !found {
		// Selection came from this object list, so this indicates a finder bug.
		s.log.Error("Selected pass references unknown object", "object", selected.Object)
		return none, models.Satellite{}, station, false, nil
	}

	s.log.Info("Next pass selected",
		"object", selected.Object,
		"rise", selected.Rise.Time.Format(time.RFC3339),
		"set", selected.Set.Time.Format(time.RFC3339))
	return selected, object, station, true, nil
}

func (s *Scheduler) fetchStation(ctx context.Context) (models.Station, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.source.ActiveStation(callCtx)
}

func (s *Scheduler) fetchObjects(ctx context.Context) ([]models.Satellite, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.source.TrackableObjects(callCtx)
}

// confirmResolvable checks, after the wake, that the selected object still
// resolves in a live query. Ephemeris failures here retry with a fixed
// backoff while the selected pass is preserved; only exceeding the retry
// limit abandons it back to idle.
func (s *Scheduler) confirmResolvable(ctx context.Context, station models.Station, object models.Satellite) bool {
	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
		pos, err := s.eph.CurrentPosition(callCtx, station, object, s.clk.Now())
		cancel()

		if err == nil && pos != nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		if err != nil {
			metrics.RecordEphemerisError()
		}
		if attempt >= s.cfg.RetryLimit {
			s.log.Warn("Giving up on selected pass after retries",
				"object", object.Name, "attempts", attempt+1)
			return false
		}

		s.log.Warn("Object not resolvable at wake, retrying",
			"object", object.Name, "attempt", attempt+1, "error", err)
		if s.clk.Sleep(ctx, s.cfg.RetryBackoff) != nil {
			return false
		}
	}
}

// sleepUntil suspends until the target instant. A target already in the past
// clamps the sleep to zero and proceeds immediately; durations never go
// negative.
func (s *Scheduler) sleepUntil(ctx context.Context, target time.Time) error {
	d := target.Sub(s.clk.Now())
	if d < 0 {
		d = 0
	}
	return s.clk.Sleep(ctx, d)
}

func (s *Scheduler) setState(state State) {
	s.state = state
	metrics.SetScheduleState(int(state))
	s.log.Debug("Schedule state", "state", state.String())
}

func findObject(objects []models.Satellite, name string) (models.Satellite, bool) {
	for _, obj := range objects {
		if obj.Name == name {
			return obj, true
		}
	}
	return models.Satellite{}, false
}
