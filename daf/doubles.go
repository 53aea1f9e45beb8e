package daf

import (
	"encoding/binary"
	"math"
)

// Doubles is a read-only view of IEEE-754 doubles stored in a byte buffer
// with a given byte order. Values are decoded on access, so the underlying
// buffer is never copied or byte swapped.
type Doubles struct {
	b     []byte
	order binary.ByteOrder
}

// NewDoubles returns a view of b. Trailing bytes that do not form a whole
// double are ignored.
func NewDoubles(b []byte, order binary.ByteOrder) Doubles {
	return Doubles{b: b[:len(b)/8*8], order: order}
}

// FromFloat64s encodes vals into a new little-endian view. Intended for tests
// and small in-memory datasets.
func FromFloat64s(vals []float64) Doubles {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	return Doubles{b: b, order: binary.LittleEndian}
}

// Len returns the number of doubles in the view.
func (d Doubles) Len() int { return len(d.b) / 8 }

// At returns the i-th double.
func (d Doubles) At(i int) float64 {
	return math.Float64frombits(d.order.Uint64(d.b[8*i:]))
}

// Slice returns the sub-view [i, j).
func (d Doubles) Slice(i, j int) Doubles {
	return Doubles{b: d.b[8*i : 8*j], order: d.order}
}

// CopyTo decodes up to len(dst) doubles starting at from into dst and
// returns the number copied.
func (d Doubles) CopyTo(dst []float64, from int) int {
	n := min(len(dst), d.Len()-from)
	for i := 0; i < n; i++ {
		dst[i] = d.At(from + i)
	}
	return max(n, 0)
}

// SearchAfter returns the smallest index i in [lo, hi) such that At(i) > x,
// or hi if there is none. The range must be sorted ascending.
func (d Doubles) SearchAfter(lo, hi int, x float64) int {
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if d.At(mid) <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// SearchAtLeast returns the smallest index i in [lo, hi) such that At(i) >= x,
// or hi if there is none. The range must be sorted ascending.
func (d Doubles) SearchAtLeast(lo, hi int, x float64) int {
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if d.At(mid) < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
