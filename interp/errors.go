package interp

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInterpolationData is returned when the requested epoch is not
	// covered by the available data.
	ErrNoInterpolationData = errors.New("no interpolation data")

	// ErrMath is returned when an interpolation is numerically ill-posed,
	// e.g. a zero radius or repeated abscissas.
	ErrMath = errors.New("interpolation math error")

	// ErrTooManySamples is returned when an interpolation window exceeds MaxSamples.
	ErrTooManySamples = errors.New("too many interpolation samples")
)

// NoDataError reports an epoch outside the interval [Start, End] covered by data.
type NoDataError struct {
	Epoch float64
	Start float64
	End   float64
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no interpolation data for %.9f s TDB: covered interval is [%.9f, %.9f]", e.Epoch, e.Start, e.End)
}

func (e *NoDataError) Unwrap() error { return ErrNoInterpolationData }

// MathError reports an ill-posed computation.
type MathError struct {
	Op     string
	Reason string
}

func (e *MathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *MathError) Unwrap() error { return ErrMath }
