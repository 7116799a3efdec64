package clock

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts the daemon's single source of absolute time and its
// cancellable suspension primitive. The scheduler and tracking loop never call
// time.Now or time.Sleep directly, so tests can substitute a manual clock and
// run timing scenarios without real delays.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
	// Sleep suspends for d or until ctx is cancelled, whichever comes first.
	// Returns ctx.Err() when cancelled, nil otherwise. Non-positive durations
	// return immediately.
	Sleep(ctx context.Context, d time.Duration) error
}

// System is the wall-clock implementation used in production.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

func (System) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Manual is a virtual clock for tests. Sleep advances the clock instantly and
// records the requested duration, so a full scheduling cycle runs in
// microseconds while the state machine observes the same instants it would on
// a real clock.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

// NewManual creates a manual clock starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.now = m.now.Add(d)
	}
	m.slept = append(m.slept, d)
	return nil
}

// Advance moves the clock forward without a sleep, e.g. to simulate a call
// that took time.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Slept returns the durations requested so far, in order.
func (m *Manual) Slept() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.slept))
	copy(out, m.slept)
	return out
}
