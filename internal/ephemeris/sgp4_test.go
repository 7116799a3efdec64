package ephemeris

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sattrack/internal/models"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func issTLE() models.Satellite {
	return models.Satellite{
		Name:         "ISS (ZARYA)",
		Line1:        "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005",
		Line2:        "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09",
		AutoTracking: true,
		OrbitStatus:  models.StatusOrbiting,
	}
}

func testStation() models.Station {
	return models.Station{
		Name:         "maputo",
		Latitude:     -25.9692,
		Longitude:    32.5732,
		Altitude:     47,
		MinElevation: 10,
		Active:       true,
	}
}

func TestCurrentPosition(t *testing.T) {
	svc := NewSGP4(testLogger)
	at := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	pos, err := svc.CurrentPosition(context.Background(), testStation(), issTLE(), at)
	require.NoError(t, err)
	require.NotNil(t, pos)

	assert.GreaterOrEqual(t, pos.Elevation, -90.0)
	assert.LessOrEqual(t, pos.Elevation, 90.0)
	assert.GreaterOrEqual(t, pos.Azimuth, 0.0)
	assert.Less(t, pos.Azimuth, 360.0)
	assert.Greater(t, pos.RangeKm, 0.0)
}

func TestCurrentPositionMalformedTLE(t *testing.T) {
	svc := NewSGP4(testLogger)
	sat := issTLE()
	sat.Line2 = "garbage"

	pos, err := svc.CurrentPosition(context.Background(), testStation(), sat, time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, pos, "unresolvable object must be reported as absent, not as an error")
}

func TestFindEventsOrdering(t *testing.T) {
	svc := NewSGP4(testLogger)
	from := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	until := from.Add(24 * time.Hour)

	events, err := svc.FindEvents(context.Background(), testStation(), issTLE(), from, until, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events, "ISS should pass over a mid-latitude station within a day")

	for i := 1; i < len(events); i++ {
		assert.True(t, events[i].Time.After(events[i-1].Time),
			"event instants must be strictly increasing: %v then %v", events[i-1].Time, events[i].Time)
	}

	// Events come in rise-led groups and every reported pass is closed.
	var open bool
	for _, ev := range events {
		switch ev.Kind {
		case models.EventRise:
			assert.False(t, open, "rise while a pass is still open")
			open = true
		case models.EventCulminate:
			assert.True(t, open, "culminate outside a pass")
		case models.EventSet:
			assert.True(t, open, "set without a preceding rise")
			open = false
		}
	}
	assert.False(t, open, "window must not end with an unterminated pass")
}

func TestFindEventsMalformedTLE(t *testing.T) {
	svc := NewSGP4(testLogger)
	sat := issTLE()
	sat.Line1 = "1 bogus"

	from := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.FindEvents(context.Background(), testStation(), sat, from, from.Add(time.Hour), 10)
	assert.Error(t, err)
}

func TestFindEventsCancelled(t *testing.T) {
	svc := NewSGP4(testLogger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	from := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.FindEvents(ctx, testStation(), issTLE(), from, from.Add(48*time.Hour), 10)
	assert.ErrorIs(t, err, context.Canceled)
}
