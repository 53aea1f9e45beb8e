package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDataset is returned when a document cannot be decoded or
	// fails validation.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrNotFound is returned when no entry matches an id or a name.
	ErrNotFound = errors.New("dataset entry not found")
)

// LookupError reports a missing entry.
type LookupError struct {
	Kind Kind
	ID   int32
	Name string
}

func (e *LookupError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: no entry named %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s: no entry with id %d", e.Kind, e.ID)
}

func (e *LookupError) Unwrap() error { return ErrNotFound }
