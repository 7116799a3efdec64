package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a unit of periodic background work.
type Task interface {
	Run(ctx context.Context) error
	Interval() time.Duration
	Name() string
}

// Runner executes registered tasks on their intervals until stopped. Tasks
// run independently of the scheduling loop; a slow task never delays
// tracking.
type Runner struct {
	log    *slog.Logger
	tasks  []Task
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{log: logger}
}

// Add registers a task. Must be called before Start.
func (r *Runner) Add(task Task) {
	r.tasks = append(r.tasks, task)
}

// Start launches every task in its own goroutine. Each task runs once
// immediately, then on its interval.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	for _, task := range r.tasks {
		r.wg.Add(1)
		go r.loop(ctx, task)
	}
	r.log.Info("Background tasks started", "task_count", len(r.tasks))
}

// Stop cancels all tasks and waits for them to finish.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.log.Info("Background tasks stopped")
}

func (r *Runner) loop(ctx context.Context, task Task) {
	defer r.wg.Done()

	ticker := time.NewTicker(task.Interval())
	defer ticker.Stop()

	if err := task.Run(ctx); err != nil && ctx.Err() == nil {
		r.log.Error("Task failed", "task", task.Name(), "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := task.Run(ctx); err != nil && ctx.Err() == nil {
				r.log.Error("Task failed", "task", task.Name(), "error", err)
			}
		}
	}
}
