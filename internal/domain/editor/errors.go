// Package editor implements the card builder's document reducer: placement
// rules, persistent tree edits, snapshot history and the editor state machine.
package editor

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a stale element id. Callers treat it as a no-op.
var ErrNotFound = errors.New("element not found")

// Invariant violations. These are programming errors, never user errors.
var (
	ErrDuplicateID       = errors.New("duplicate node id")
	ErrCyclicContainment = errors.New("cyclic containment")
)

// Rejection is a user-facing refusal of a command. It never changes state.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

func reject(format string, args ...any) *Rejection {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// AsRejection extracts the rejection reason from err, if any.
func AsRejection(err error) (string, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return "", false
}

// InvariantError wraps a document consistency failure detected after a command.
type InvariantError struct {
	Command CommandType
	ID      string
	Err     error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated by %s: %v (id %q)", e.Command, e.Err, e.ID)
}

func (e *InvariantError) Unwrap() error { return e.Err }
