package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/vin-jex/design-platform-client/internal/store"
)

// Ledger lists requests that have not been seen in a terminal state.
type Ledger interface {
	ListOutstanding(ctx context.Context, limit int) ([]store.Request, error)
}

// AwaiterFactory returns the client that polls statusEndpoint.
type AwaiterFactory func(statusEndpoint string) Awaiter

// Resume awaits every outstanding ledger request, each through the client
// for its own status endpoint.
func (p *Pool) Resume(ctx context.Context, ledger Ledger, awaiters AwaiterFactory, limit int) ([]Outcome, error) {
	requests, err := ledger.ListOutstanding(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list outstanding requests: %w", err)
	}

	if len(requests) == 0 {
		return nil, nil
	}

	byEndpoint := map[string]Awaiter{}
	tasks := make([]task, 0, len(requests))

	for _, request := range requests {
		awaiter, ok := byEndpoint[request.StatusEndpoint]
		if !ok {
			awaiter = awaiters(request.StatusEndpoint)
			byEndpoint[request.StatusEndpoint] = awaiter
		}
		tasks = append(tasks, task{awaiter: awaiter, handle: request.Handle})
	}

	p.logger.InfoContext(ctx, "resuming outstanding requests", "count", len(tasks))

	return p.run(ctx, tasks), nil
}

// scheduleParser accepts standard 5-field cron and descriptors like
// "@every 30s".
var scheduleParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

var ErrScheduleNeverFires = errors.New("schedule never fires")

func ParseSchedule(expr string) (cronlib.Schedule, error) {
	schedule, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	if schedule.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, ErrScheduleNeverFires)
	}
	return schedule, nil
}

// Watch calls Resume once, then again at every time the schedule fires,
// until ctx is done. Each non-empty batch of outcomes goes to report.
func (p *Pool) Watch(
	ctx context.Context,
	ledger Ledger,
	awaiters AwaiterFactory,
	schedule cronlib.Schedule,
	limit int,
	report func([]Outcome),
) error {
	for {
		outcomes, err := p.Resume(ctx, ledger, awaiters, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.ErrorContext(ctx, "resume failed", "error", err)
		} else if len(outcomes) > 0 && report != nil {
			report(outcomes)
		}

		next := schedule.Next(time.Now())
		if next.IsZero() {
			return ErrScheduleNeverFires
		}

		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
