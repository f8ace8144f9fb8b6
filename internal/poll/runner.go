package poll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Runner serializes cycles within one process. Exclusion across processes
// sharing a store is left to the deployment.
type Runner struct {
	cycle *Cycle
	run   sync.Mutex

	mu   sync.Mutex
	last LastRun
}

// LastRun is the outcome of the most recent cycle.
type LastRun struct {
	Result *Result
	Err    error
	At     time.Time
}

func NewRunner(c *Cycle) *Runner {
	return &Runner{cycle: c}
}

// Cycle returns the wrapped cycle.
func (r *Runner) Cycle() *Cycle { return r.cycle }

// Run executes one cycle, or returns ErrCycleInProgress without waiting if
// another is running.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if !r.run.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer r.run.Unlock()

	res, err := r.cycle.Run(ctx)

	r.mu.Lock()
	r.last = LastRun{Result: res, Err: err, At: time.Now()}
	r.mu.Unlock()
	return res, err
}

// Last returns the most recent cycle. Result is nil before the first one.
func (r *Runner) Last() LastRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// StartWorker runs a cycle immediately and then every interval.
// Blocks until ctx is cancelled. Intended to be called with `go` or from an
// errgroup.
func StartWorker(ctx context.Context, r *Runner, interval time.Duration, logger *slog.Logger) {
	logger.Info("Poll worker started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Cycle failures are logged by the cycle itself.
	tick := func() {
		if _, err := r.Run(ctx); errors.Is(err, ErrCycleInProgress) {
			logger.Info("poll skipped, previous cycle still running")
		}
	}

	tick()
	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			logger.Info("Poll worker stopped")
			return
		}
	}
}
