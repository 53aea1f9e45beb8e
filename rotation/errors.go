package rotation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRotation is returned when two rotations cannot be composed
	// because their frames do not chain.
	ErrInvalidRotation = errors.New("invalid rotation")

	// ErrFrameMismatch is returned when a rotation is applied to a state
	// expressed in a different frame than the rotation's source frame.
	ErrFrameMismatch = errors.New("frame mismatch")
)

// InvalidRotationError describes a composition whose frames do not chain.
type InvalidRotationError struct {
	Action string
	From1  int32
	To1    int32
	From2  int32
	To2    int32
}

func (e *InvalidRotationError) Error() string {
	return fmt.Sprintf("invalid rotation: %s %d->%d with %d->%d", e.Action, e.From1, e.To1, e.From2, e.To2)
}

func (e *InvalidRotationError) Unwrap() error { return ErrInvalidRotation }

// StateRotationError describes a DCM applied to a state in the wrong frame.
type StateRotationError struct {
	From       int32
	To         int32
	StateFrame int32
}

func (e *StateRotationError) Error() string {
	return fmt.Sprintf("cannot rotate state in frame %d with rotation %d->%d", e.StateFrame, e.From, e.To)
}

func (e *StateRotationError) Unwrap() error { return ErrFrameMismatch }
