package jobs

import (
	"context"
	"log/slog"
	"time"
)

// SubmitHook receives the status endpoint the handle will be polled on.
type SubmitHook func(ctx context.Context, statusEndpoint string, request JobRequest, handle Handle)

type StatusHook func(ctx context.Context, status Status)

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithDecoder(decoder StatusDecoder) Option {
	return func(c *Client) { c.decoder = decoder }
}

// WithResultField is shorthand for a default decoder reading the
// completed payload from field.
func WithResultField(field string) Option {
	return func(c *Client) { c.decoder.ResultField = field }
}

func WithDelayStrategy(strategy DelayStrategy) Option {
	return func(c *Client) { c.delay = strategy }
}

// WithPollInterval sets the interval used when AwaitCompletion is called
// with a zero interval. Non-positive values are ignored.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

func WithSubmitHook(hook SubmitHook) Option {
	return func(c *Client) { c.onSubmit = append(c.onSubmit, hook) }
}

// WithStatusHook registers a hook run after every successful poll.
func WithStatusHook(hook StatusHook) Option {
	return func(c *Client) { c.onStatus = append(c.onStatus, hook) }
}
