package daf

import (
	"fmt"
	"math"

	"github.com/hupe1980/orbgo/interp"
	"github.com/hupe1980/orbgo/linalg"
)

// maxCoefficients bounds the degree of a Chebyshev record so that a
// component's coefficients fit on the stack.
const maxCoefficients = 64

// chebyshevSegment is a type 2 or type 3 segment: fixed-width records of
// Chebyshev coefficients followed by the trailer init, interval, rsize, n.
type chebyshevSegment struct {
	dataType DataType
	records  Doubles
	init     float64
	interval float64
	rsize    int
	n        int
	degree   int
}

func newChebyshevSegment(t DataType, seg Doubles) (chebyshevSegment, error) {
	name := t.String()
	l := seg.Len()
	if l < 5 {
		return chebyshevSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("too few doubles: need at least 5, got %d", l)}
	}

	init := seg.At(l - 4)
	if math.IsNaN(init) || math.IsInf(init, 0) {
		return chebyshevSegment{}, &IntegrityError{Dataset: name, Variable: "initial epoch", Value: init, Reason: "must be finite"}
	}
	interval := seg.At(l - 3)
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return chebyshevSegment{}, &IntegrityError{Dataset: name, Variable: "interval length", Value: interval, Reason: "must be finite and positive"}
	}

	components := 3
	if t == Type3ChebyshevSextuplet {
		components = 6
	}

	rsize, n := int(seg.At(l-2)), int(seg.At(l-1))
	if rsize < 2+components || rsize > l || (rsize-2)%components != 0 {
		return chebyshevSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("invalid record size %d", rsize)}
	}
	if n < 1 || n > l || n*rsize > l-4 {
		return chebyshevSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("%d records of %d doubles exceed %d doubles", n, rsize, l-4)}
	}

	degree := (rsize-2)/components - 1
	if degree+1 > maxCoefficients {
		return chebyshevSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("degree %d exceeds %d", degree, maxCoefficients-1)}
	}

	return chebyshevSegment{
		dataType: t,
		records:  seg.Slice(0, n*rsize),
		init:     init,
		interval: interval,
		rsize:    rsize,
		n:        n,
		degree:   degree,
	}, nil
}

func (c chebyshevSegment) evaluate(et float64) (linalg.Vector3, linalg.Vector3, error) {
	var pos, vel linalg.Vector3

	idx := min(int((et-c.init)/c.interval)+1, c.n) - 1
	idx = max(idx, 0)
	rec := c.records.Slice(idx*c.rsize, (idx+1)*c.rsize)

	mid, radius := rec.At(0), rec.At(1)
	if math.Abs(radius) < 1e-15 {
		return pos, vel, &interp.MathError{Op: "chebyshev", Reason: "record radius is zero"}
	}
	s := (et - mid) / radius

	var coeffs [maxCoefficients]float64
	k := c.degree + 1

	if c.dataType == Type2ChebyshevTriplet {
		for i := 0; i < 3; i++ {
			rec.CopyTo(coeffs[:k], 2+i*k)
			val, deriv, err := interp.Chebyshev(s, coeffs[:k], radius, c.degree)
			if err != nil {
				return pos, vel, err
			}
			pos[i], vel[i] = val, deriv
		}
		return pos, vel, nil
	}

	for i := 0; i < 6; i++ {
		rec.CopyTo(coeffs[:k], 2+i*k)
		val, err := interp.ChebyshevValue(s, coeffs[:k], c.degree)
		if err != nil {
			return pos, vel, err
		}
		if i < 3 {
			pos[i] = val
		} else {
			vel[i-3] = val
		}
	}
	return pos, vel, nil
}

// chebyshevUnequalSegment is a type 14 segment: a constants block, packets
// of position and velocity coefficients, the packet end epochs and their
// directories, then the trailer degree, n.
type chebyshevUnequalSegment struct {
	packets  Doubles
	epochs   Doubles
	epochDir Doubles
	degree   int
	rsize    int
	n        int
}

const directoryStride = 100

func newChebyshevUnequalSegment(seg Doubles) (chebyshevUnequalSegment, error) {
	name := Type14ChebyshevUnequalStep.String()
	l := seg.Len()
	if l < 3 {
		return chebyshevUnequalSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("too few doubles: need at least 3, got %d", l)}
	}

	n, degree, constants := int(seg.At(l-1)), int(seg.At(l-2)), int(seg.At(0))
	if n < 1 || n > l || degree < 0 || constants < 0 || constants > l {
		return chebyshevUnequalSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("invalid trailer: degree %d, %d records, %d constants", degree, n, constants)}
	}
	if degree+1 > maxCoefficients {
		return chebyshevUnequalSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("degree %d exceeds %d", degree, maxCoefficients-1)}
	}

	rsize := 2 + 6*(degree+1)
	dirs := n / directoryStride
	need := 1 + constants + n*rsize + n + 2*dirs + 2
	if l < need {
		return chebyshevUnequalSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("too few doubles: need %d, got %d", need, l)}
	}

	packetStart := 1 + constants
	epochStart := packetStart + n*rsize
	dirStart := epochStart + n + dirs

	c := chebyshevUnequalSegment{
		packets:  seg.Slice(packetStart, epochStart),
		epochs:   seg.Slice(epochStart, epochStart+n),
		epochDir: seg.Slice(dirStart, dirStart+dirs),
		degree:   degree,
		rsize:    rsize,
		n:        n,
	}
	return c, nil
}

// check verifies that the packet epochs are finite and ascending.
func (c chebyshevUnequalSegment) check() error {
	prev := math.Inf(-1)
	for i := 0; i < c.n; i++ {
		e := c.epochs.At(i)
		if math.IsNaN(e) || math.IsInf(e, 0) || e < prev {
			return &IntegrityError{Dataset: Type14ChebyshevUnequalStep.String(), Variable: "packet epoch", Value: e, Reason: "must be finite and ascending"}
		}
		prev = e
	}
	return nil
}

// record returns the index of the first packet whose end epoch is at or
// after et, narrowing the search with the epoch directory. Every
// directory entry is the end epoch of the last packet of a block of 100.
func (c chebyshevUnequalSegment) record(et float64) int {
	lo, hi := 0, c.n
	if dirs := c.epochDir.Len(); dirs > 0 {
		block := c.epochDir.SearchAtLeast(0, dirs, et)
		lo = block * directoryStride
		hi = min(lo+directoryStride, c.n)
	}
	return min(c.epochs.SearchAtLeast(lo, hi, et), c.n-1)
}

func (c chebyshevUnequalSegment) evaluate(et float64) (linalg.Vector3, linalg.Vector3, error) {
	var pos, vel linalg.Vector3

	idx := c.record(et)
	rec := c.packets.Slice(idx*c.rsize, (idx+1)*c.rsize)

	mid, radius := rec.At(0), rec.At(1)
	if math.Abs(radius) < 1e-15 {
		return pos, vel, &interp.MathError{Op: "chebyshev", Reason: "record radius is zero"}
	}
	s := (et - mid) / radius

	var coeffs [maxCoefficients]float64
	k := c.degree + 1
	for i := 0; i < 6; i++ {
		rec.CopyTo(coeffs[:k], 2+i*k)
		val, err := interp.ChebyshevValue(s, coeffs[:k], c.degree)
		if err != nil {
			return pos, vel, err
		}
		if i < 3 {
			pos[i] = val
		} else {
			vel[i-3] = val
		}
	}
	return pos, vel, nil
}
