package relocate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects a malformed request or one that targets a
	// missing or colliding path. Nothing on disk has been touched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBusy rejects a plan that overlaps a relocation already in flight.
	ErrBusy = errors.New("overlapping relocation in progress")
	// ErrUnrecoverable means rollback could not restore the original
	// layout and someone has to look at the disk.
	ErrUnrecoverable = errors.New("rollback failed, manual intervention required")
)

// StepError is a failure inside one state of the relocation sequence.
type StepError struct {
	State State
	Op    string
	Path  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.State, e.Op, e.Path, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
