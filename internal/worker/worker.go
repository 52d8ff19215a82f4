// Package worker fans AwaitCompletion out over many handles with bounded
// concurrency.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vin-jex/design-platform-client/internal/jobs"
)

const DefaultCapacity = 8

// Awaiter is satisfied by *jobs.Client.
type Awaiter interface {
	AwaitCompletion(ctx context.Context, handle jobs.Handle, pollInterval, timeout time.Duration) (jobs.Status, error)
}

// Outcome is the result of awaiting one handle. Exactly one of Status
// (when Err is nil) and Err is meaningful.
type Outcome struct {
	Handle jobs.Handle
	Status jobs.Status
	Err    error
}

type Pool struct {
	capacity     int
	pollInterval time.Duration
	timeout      time.Duration
	logger       *slog.Logger
}

func NewPool(capacity int, pollInterval, timeout time.Duration, logger *slog.Logger) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		capacity:     capacity,
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       logger,
	}
}

type task struct {
	awaiter Awaiter
	handle  jobs.Handle
}

// AwaitAll awaits every handle through awaiter, at most capacity at a
// time. Outcomes are returned in the order of handles.
func (p *Pool) AwaitAll(ctx context.Context, awaiter Awaiter, handles []jobs.Handle) []Outcome {
	tasks := make([]task, len(handles))
	for i, handle := range handles {
		tasks[i] = task{awaiter: awaiter, handle: handle}
	}

	return p.run(ctx, tasks)
}

func (p *Pool) run(ctx context.Context, tasks []task) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	semaphore := make(chan struct{}, p.capacity)

	var wg sync.WaitGroup

	for i, t := range tasks {
		outcomes[i].Handle = t.handle

		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}

		select {
		case <-ctx.Done():
			outcomes[i].Err = ctx.Err()
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			status, err := t.awaiter.AwaitCompletion(ctx, t.handle, p.pollInterval, p.timeout)
			outcomes[i].Status = status
			outcomes[i].Err = err

			if err != nil {
				p.logger.WarnContext(ctx, "await failed",
					"request_batch_id", t.handle.String(),
					"error", err,
				)
			}
		}()
	}

	wg.Wait()

	return outcomes
}
