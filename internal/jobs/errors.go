package jobs

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSubmission   = errors.New("jobs: submission failed")
	ErrPoll         = errors.New("jobs: poll failed")
	ErrPollTimeout  = errors.New("jobs: no terminal status before timeout")
	ErrMissingID    = errors.New("response has no request_batch_id")
	ErrBadStatus    = errors.New("malformed status response")
	ErrNoResult     = errors.New("status carries no result")
	ErrInvalidAwait = errors.New("jobs: await requires a positive timeout")
)

// SubmissionError means the job was never started: the call failed, was
// rejected, or returned no identifier. No handle exists.
type SubmissionError struct {
	Endpoint string
	Err      error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("jobs: submit to %s: %v", e.Endpoint, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmission }

// PollError means a single status query failed. The job itself may still
// be running.
type PollError struct {
	Handle   Handle
	Endpoint string
	Err      error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("jobs: poll %s via %s: %v", e.Handle, e.Endpoint, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

func (e *PollError) Is(target error) bool { return target == ErrPoll }

// PollTimeoutError is the client giving up, not a platform failure.
type PollTimeoutError struct {
	Handle  Handle
	Timeout time.Duration
	Polls   int
	Last    Status
	// Err is set when the budget ran out during a poll.
	Err error
}

func (e *PollTimeoutError) Error() string {
	state := e.Last.State
	if state == "" {
		state = StatePending
	}
	if e.Err != nil {
		return fmt.Sprintf("jobs: %s still %s after %s (%d polls, last poll: %v)", e.Handle, state, e.Timeout, e.Polls, e.Err)
	}
	return fmt.Sprintf("jobs: %s still %s after %s (%d polls)", e.Handle, state, e.Timeout, e.Polls)
}

func (e *PollTimeoutError) Unwrap() error { return e.Err }

func (e *PollTimeoutError) Is(target error) bool { return target == ErrPollTimeout }
