package daf

import (
	"errors"
	"fmt"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/interp"
)

var (
	// ErrInvalidFileFormat is returned when the bytes are not a well-formed DAF.
	ErrInvalidFileFormat = errors.New("invalid DAF file format")

	// ErrEndiannessMismatch is returned when the declared byte order is
	// invalid or contradicts the header contents.
	ErrEndiannessMismatch = errors.New("DAF endianness mismatch")

	// ErrUnsupportedDataType is returned for a recognized segment data type
	// that is not implemented.
	ErrUnsupportedDataType = errors.New("unsupported DAF data type")

	// ErrInvalidDataType is returned for a segment data type id that does not exist.
	ErrInvalidDataType = errors.New("invalid DAF data type")

	// ErrDecoding is returned when segment data cannot be decoded.
	ErrDecoding = errors.New("DAF decoding error")

	// ErrIntegrity is returned when decoded segment values are not usable.
	ErrIntegrity = errors.New("DAF integrity error")

	// ErrNameNotFound is returned when no summary has the requested name.
	ErrNameNotFound = errors.New("DAF summary name not found")
)

// FormatError describes why a buffer was rejected as a DAF.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid DAF file format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrInvalidFileFormat }

// EndianError describes a byte order problem.
type EndianError struct {
	Declared string
	Reason   string
}

func (e *EndianError) Error() string {
	return fmt.Sprintf("DAF endianness mismatch: declared %q: %s", e.Declared, e.Reason)
}

func (e *EndianError) Unwrap() error { return ErrEndiannessMismatch }

// DataTypeError reports a segment whose data type cannot be evaluated.
type DataTypeError struct {
	Kind     Kind
	DataType DataType
	Segment  string
}

func (e *DataTypeError) Error() string {
	if e.DataType.IsKnown() {
		return fmt.Sprintf("%s segment %q uses unsupported data type %s", e.Kind, e.Segment, e.DataType)
	}
	return fmt.Sprintf("%s segment %q uses invalid data type %d", e.Kind, e.Segment, int32(e.DataType))
}

func (e *DataTypeError) Unwrap() error {
	if e.DataType.IsKnown() {
		return ErrUnsupportedDataType
	}
	return ErrInvalidDataType
}

// DecodingError describes segment data that cannot be decoded.
type DecodingError struct {
	Dataset string
	Reason  string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding %s: %s", e.Dataset, e.Reason)
}

func (e *DecodingError) Unwrap() error { return ErrDecoding }

// IntegrityError describes a decoded value that violates the data type's constraints.
type IntegrityError struct {
	Dataset  string
	Variable string
	Value    float64
	Reason   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s = %g %s", e.Dataset, e.Variable, e.Value, e.Reason)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// SummaryError is returned when no summary for ID covers Epoch.
// It matches interp.ErrNoInterpolationData.
type SummaryError struct {
	Kind  Kind
	ID    int32
	Epoch astro.Epoch
}

func (e *SummaryError) Error() string {
	return fmt.Sprintf("no %s summary for id %d valid at %s", e.Kind, e.ID, e.Epoch)
}

func (e *SummaryError) Unwrap() error { return interp.ErrNoInterpolationData }
