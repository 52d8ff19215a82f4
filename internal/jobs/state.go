package jobs

import (
	"errors"
	"fmt"
	"strings"
)

type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

var ErrInvalidStateTransition = errors.New("invalid job state transition")

var terminalStates = map[State]bool{
	StateCompleted: true,
	StateFailed:    true,
}

// allowedTransitions is the client-side view of a handle, reconstructed by
// polling. A non-terminal observation may be followed by anything.
var allowedTransitions = map[State]map[State]bool{
	StatePending: {
		StatePending:   true,
		StateRunning:   true,
		StateCompleted: true,
		StateFailed:    true,
	},
	StateRunning: {
		StatePending:   true,
		StateRunning:   true,
		StateCompleted: true,
		StateFailed:    true,
	},
}

func (s State) IsTerminal() bool {
	return terminalStates[s]
}

func (s State) Valid() bool {
	switch s {
	case StatePending, StateRunning, StateCompleted, StateFailed:
		return true
	}
	return false
}

// ValidateTransition rejects any observation that would move a handle out
// of a terminal state. Re-observing the same terminal state is allowed.
func ValidateTransition(from, to State) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: unknown state %q -> %q", ErrInvalidStateTransition, from, to)
	}

	if terminalStates[from] {
		if from == to {
			return nil
		}
		return fmt.Errorf("%w: cannot leave terminal state %s for %s", ErrInvalidStateTransition, from, to)
	}

	if !allowedTransitions[from][to] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
	}

	return nil
}

// ParseState maps the platform's status vocabulary onto the four states.
// Anything unrecognised counts as pending.
func ParseState(raw string) State {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "success", "succeeded":
		return StateCompleted
	case "failed", "failure", "error":
		return StateFailed
	case "running", "ongoing", "processing", "in_progress", "started", "retrying":
		return StateRunning
	default:
		return StatePending
	}
}
