package daf

import (
	"fmt"

	"github.com/hupe1980/orbgo/astro"
)

// Summary describes one segment of a DAF.
//
// For SPK segments ID is the target body, Center the body it is relative to
// and Frame the reference frame of the data. For BPC segments ID is the
// body-fixed frame and Center (and Frame) the inertial frame it is
// oriented relative to.
type Summary struct {
	Name       string
	StartEpoch float64 // TDB seconds past J2000
	EndEpoch   float64 // TDB seconds past J2000
	ID         int32
	Center     int32
	Frame      int32
	DataType   DataType
	StartIdx   int // 1-based double word address of the first datum
	EndIdx     int // 1-based double word address of the last datum
}

// Start returns StartEpoch on the nanosecond grid.
func (s Summary) Start() astro.Epoch { return astro.FromSeconds(s.StartEpoch) }

// End returns EndEpoch on the nanosecond grid.
func (s Summary) End() astro.Epoch { return astro.FromSeconds(s.EndEpoch) }

// Covers reports whether epoch lies within the segment's closed interval.
// The bounds are compared at nanosecond resolution.
func (s Summary) Covers(epoch astro.Epoch) bool {
	return !epoch.Before(s.Start()) && !epoch.After(s.End())
}

// Len returns the number of doubles in the segment.
func (s Summary) Len() int { return s.EndIdx - s.StartIdx + 1 }

func (s Summary) String() string {
	return fmt.Sprintf("%q id=%d center=%d frame=%d [%.6f, %.6f] %s",
		s.Name, s.ID, s.Center, s.Frame, s.StartEpoch, s.EndEpoch, s.DataType)
}

func decodeSummary(k Kind, d Doubles, raw []byte, nd int) Summary {
	ints := func(i int) int32 {
		return int32(d.order.Uint32(raw[8*nd+4*i:]))
	}
	s := Summary{
		StartEpoch: d.At(0),
		EndEpoch:   d.At(1),
		ID:         ints(0),
		Center:     ints(1),
	}
	if k == KindBPC {
		s.Frame = s.Center
		s.DataType = DataType(ints(2))
		s.StartIdx = int(ints(3))
		s.EndIdx = int(ints(4))
		return s
	}
	s.Frame = ints(2)
	s.DataType = DataType(ints(3))
	s.StartIdx = int(ints(4))
	s.EndIdx = int(ints(5))
	return s
}
