package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingRefresher struct {
	calls atomic.Int64
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestCatalogRefreshRunsRefresher(t *testing.T) {
	r := &countingRefresher{}
	task := NewCatalogRefresh(r, time.Hour)

	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, int64(1), r.calls.Load())
	assert.Equal(t, "catalog_refresh", task.Name())
	assert.Equal(t, time.Hour, task.Interval())
}

func TestCatalogRefreshPropagatesError(t *testing.T) {
	r := &countingRefresher{err: errors.New("api down")}
	task := NewCatalogRefresh(r, time.Hour)
	assert.Error(t, task.Run(context.Background()))
}

func TestRunnerRunsTaskImmediatelyAndStops(t *testing.T) {
	r := &countingRefresher{}
	runner := NewRunner(testLogger)
	runner.Add(NewCatalogRefresh(r, time.Hour))

	runner.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for r.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("task never ran")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	runner.Stop()
	assert.Equal(t, int64(1), r.calls.Load(), "hour-interval task runs once in a short test")
}

func TestRunnerStopBeforeStart(t *testing.T) {
	runner := NewRunner(testLogger)
	runner.Stop() // must not panic
}
