// Package jobs submits work to the platform's asynchronous endpoints and
// polls the matching status endpoint until the job completes or fails.
//
// The client holds no per-job state: Submit and Poll are single
// request/response exchanges and AwaitCompletion is a bounded loop over
// Poll. Many handles may be awaited concurrently on one Client.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vin-jex/design-platform-client/internal/observability"
	"github.com/vin-jex/design-platform-client/internal/transport"
)

const DefaultPollInterval = 2 * time.Second

type Client struct {
	caller         transport.Caller
	statusEndpoint string
	decoder        StatusDecoder
	delay          DelayStrategy
	pollInterval   time.Duration
	logger         *slog.Logger

	onSubmit []SubmitHook
	onStatus []StatusHook
}

// New returns a client whose polls go to statusEndpoint.
func New(caller transport.Caller, statusEndpoint string, opts ...Option) *Client {
	c := &Client{
		caller:         caller,
		statusEndpoint: strings.Trim(statusEndpoint, "/"),
		decoder:        DefaultDecoder(),
		delay:          ConstantDelay{},
		pollInterval:   DefaultPollInterval,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) StatusEndpoint() string {
	return c.statusEndpoint
}

// Submit issues exactly one call to request.Endpoint and returns the
// request_batch_id from the response.
func (c *Client) Submit(ctx context.Context, request JobRequest) (Handle, error) {
	data, err := c.caller.Call(ctx, request.Endpoint, request.Payload)
	if err != nil {
		observability.JobSubmissions.WithLabelValues("error").Inc()
		return "", &SubmissionError{Endpoint: request.Endpoint, Err: err}
	}

	handle, err := extractHandle(data)
	if err != nil {
		observability.JobSubmissions.WithLabelValues("error").Inc()
		return "", &SubmissionError{Endpoint: request.Endpoint, Err: err}
	}

	observability.JobSubmissions.WithLabelValues("ok").Inc()
	c.logger.InfoContext(ctx, "job submitted",
		"endpoint", request.Endpoint,
		"request_batch_id", handle.String(),
	)

	for _, hook := range c.onSubmit {
		hook(ctx, c.statusEndpoint, request, handle)
	}

	return handle, nil
}

// Poll issues exactly one status query. It does not wait for completion.
func (c *Client) Poll(ctx context.Context, handle Handle) (Status, error) {
	data, err := c.caller.Call(ctx, c.statusEndpoint, map[string]any{
		handleField: handle.String(),
	})
	if err != nil {
		observability.JobPolls.WithLabelValues("error").Inc()
		return Status{}, &PollError{Handle: handle, Endpoint: c.statusEndpoint, Err: err}
	}

	status, err := c.decoder.Decode(handle, data)
	if err != nil {
		observability.JobPolls.WithLabelValues("error").Inc()
		return Status{}, &PollError{Handle: handle, Endpoint: c.statusEndpoint, Err: err}
	}

	observability.JobPolls.WithLabelValues(string(status.State)).Inc()
	c.logger.DebugContext(ctx, "job polled",
		"request_batch_id", handle.String(),
		"status", status.RawState,
	)

	for _, hook := range c.onStatus {
		hook(ctx, status)
	}

	return status, nil
}

// AwaitCompletion polls handle until it reaches a terminal state, waiting
// at least pollInterval between polls. A failed job is returned as a
// status, not an error.
//
// Errors: *PollError as soon as any poll fails, *PollTimeoutError when
// timeout elapses first, and ctx.Err() when the caller gives up. A poll
// already in flight when ctx is cancelled runs to completion; no new poll
// starts afterwards. A poll still running when timeout elapses is
// abandoned.
func (c *Client) AwaitCompletion(
	ctx context.Context,
	handle Handle,
	pollInterval time.Duration,
	timeout time.Duration,
) (Status, error) {
	if timeout <= 0 {
		return Status{}, ErrInvalidAwait
	}
	if pollInterval <= 0 {
		pollInterval = c.pollInterval
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	started := time.Now()
	deadline := started.Add(timeout)

	var (
		last  Status
		polls int
	)

	for {
		if err := ctx.Err(); err != nil {
			c.observeAwait("cancelled", started)
			return Status{}, err
		}

		// Cancellation never cuts a poll short; the time budget does.
		pollCtx, cancel := context.WithDeadline(context.WithoutCancel(ctx), deadline)
		status, err := c.Poll(pollCtx, handle)
		budgetSpent := pollCtx.Err() != nil
		cancel()
		polls++
		if err != nil && budgetSpent {
			c.observeAwait("timeout", started)
			return Status{}, &PollTimeoutError{
				Handle:  handle,
				Timeout: timeout,
				Polls:   polls,
				Last:    last,
				Err:     err,
			}
		}
		if err != nil {
			c.observeAwait("error", started)
			return Status{}, err
		}
		last = status

		if status.Terminal() {
			c.observeAwait(string(status.State), started)
			c.logger.InfoContext(ctx, "job finished",
				"request_batch_id", handle.String(),
				"status", string(status.State),
				"polls", polls,
				"elapsed", time.Since(started),
			)
			return status, nil
		}

		wait := c.delay.Delay(pollInterval, polls)
		if wait < pollInterval {
			wait = pollInterval
		}

		remaining := time.Until(deadline)
		timedOut := remaining <= wait
		if timedOut {
			wait = max(remaining, 0)
		}

		if err := sleep(ctx, wait); err != nil {
			c.observeAwait("cancelled", started)
			return Status{}, err
		}

		if timedOut {
			c.observeAwait("timeout", started)
			return Status{}, &PollTimeoutError{
				Handle:  handle,
				Timeout: timeout,
				Polls:   polls,
				Last:    last,
			}
		}
	}
}

// Run is Submit followed by AwaitCompletion.
func (c *Client) Run(
	ctx context.Context,
	request JobRequest,
	pollInterval time.Duration,
	timeout time.Duration,
) (Status, error) {
	handle, err := c.Submit(ctx, request)
	if err != nil {
		return Status{}, err
	}

	return c.AwaitCompletion(ctx, handle, pollInterval, timeout)
}

func (c *Client) observeAwait(outcome string, started time.Time) {
	observability.JobAwaitSeconds.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

func sleep(ctx context.Context, d time.Duration) error {
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

func extractHandle(data json.RawMessage) (Handle, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return "", fmt.Errorf("%w: response is not an object", ErrMissingID)
	}

	raw, ok := object[handleField]
	if !ok {
		return "", ErrMissingID
	}

	id, ok := decodeID(raw)
	if !ok || id == "" {
		return "", ErrMissingID
	}

	return Handle(id), nil
}
