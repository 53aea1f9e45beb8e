package daf

import (
	"fmt"
	"math"

	"github.com/hupe1980/orbgo/interp"
	"github.com/hupe1980/orbgo/linalg"
)

// epochTolerance is how far outside the first and last sample an epoch may
// be and still be interpolated.
const epochTolerance = 1e-7

// discreteSegment holds discrete states (x, y, z, vx, vy, vz) sampled either
// at equal steps (types 8 and 12) or at listed epochs (types 9 and 13).
//
// For the Hermite types param is the window size less one, for the Lagrange
// types it is the polynomial degree.
type discreteSegment struct {
	dataType DataType
	states   Doubles
	epochs   Doubles // empty for equal-step types
	first    float64
	step     float64
	param    int
	n        int
}

func newDiscreteSegment(t DataType, seg Doubles) (discreteSegment, error) {
	name := t.String()
	l := seg.Len()

	equalStep := t == Type8LagrangeEqualStep || t == Type12HermiteEqualStep
	trailer := 2
	if equalStep {
		trailer = 4
	}
	if l < 6+trailer {
		return discreteSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("too few doubles: need at least %d, got %d", 6+trailer, l)}
	}

	nf, pf := seg.At(l-1), seg.At(l-2)
	if math.IsNaN(nf) || nf < 1 || nf > float64(l) {
		return discreteSegment{}, &IntegrityError{Dataset: name, Variable: "number of records", Value: nf, Reason: "must be at least one and fit the segment"}
	}
	if math.IsNaN(pf) || pf < 0 || pf >= interp.MaxSamples {
		return discreteSegment{}, &IntegrityError{Dataset: name, Variable: "window parameter", Value: pf, Reason: fmt.Sprintf("must be in [0, %d)", interp.MaxSamples)}
	}

	d := discreteSegment{dataType: t, n: int(nf), param: int(pf)}

	need := 6*d.n + trailer
	if !equalStep {
		need += d.n
	}
	if l < need {
		return discreteSegment{}, &DecodingError{Dataset: name, Reason: fmt.Sprintf("too few doubles: need %d, got %d", need, l)}
	}
	d.states = seg.Slice(0, 6*d.n)

	if equalStep {
		d.first, d.step = seg.At(l-4), seg.At(l-3)
		if math.IsNaN(d.first) || math.IsInf(d.first, 0) {
			return discreteSegment{}, &IntegrityError{Dataset: name, Variable: "first epoch", Value: d.first, Reason: "must be finite"}
		}
		if math.IsNaN(d.step) || math.IsInf(d.step, 0) || d.step <= 0 {
			return discreteSegment{}, &IntegrityError{Dataset: name, Variable: "step size", Value: d.step, Reason: "must be finite and positive"}
		}
		return d, nil
	}

	d.epochs = seg.Slice(6*d.n, 7*d.n)
	return d, nil
}

// check verifies that the sample epochs are finite and strictly ascending.
func (d discreteSegment) check() error {
	prev := math.Inf(-1)
	for i := 0; i < d.epochs.Len(); i++ {
		e := d.epochs.At(i)
		if math.IsNaN(e) || math.IsInf(e, 0) || e <= prev {
			return &IntegrityError{Dataset: d.dataType.String(), Variable: "sample epoch", Value: e, Reason: "must be finite and strictly ascending"}
		}
		prev = e
	}
	return nil
}

func (d discreteSegment) isHermite() bool {
	return d.dataType == Type12HermiteEqualStep || d.dataType == Type13HermiteUnequalStep
}

// window returns the number of samples used per interpolation.
func (d discreteSegment) window() int {
	return d.param + 1
}

func (d discreteSegment) epoch(i int) float64 {
	if d.epochs.Len() == 0 {
		return d.first + float64(i)*d.step
	}
	return d.epochs.At(i)
}

// search returns the index of the sample at et, or the index of the first
// sample after it when exact is false.
func (d discreteSegment) search(et float64) (idx int, exact bool) {
	if d.epochs.Len() > 0 {
		idx = d.epochs.SearchAtLeast(0, d.n, et)
		return idx, idx < d.n && d.epochs.At(idx) == et
	}
	k := math.Floor((et - d.first) / d.step)
	i := min(max(int(k), 0), d.n-1)
	if d.epoch(i) == et {
		return i, true
	}
	for i < d.n && d.epoch(i) <= et {
		i++
	}
	for i > 0 && d.epoch(i-1) > et {
		i--
	}
	return i, false
}

// span returns the first sample and sample count of the interpolation window around idx.
func (d discreteSegment) span(idx int) (int, int) {
	w := d.window()
	first := max(idx-w/2, 0)
	if d.isHermite() {
		if first+w > d.n {
			first = max(d.n-w, 0)
		}
		return first, min(d.n-first, w)
	}
	last := min(d.n, first+w)
	if last == d.n {
		first = max(last-w, 0)
	}
	return first, last - first
}

func (d discreteSegment) evaluate(et float64) (linalg.Vector3, linalg.Vector3, error) {
	var pos, vel linalg.Vector3

	start, end := d.epoch(0), d.epoch(d.n-1)
	if et < start-epochTolerance || et > end+epochTolerance {
		return pos, vel, &interp.NoDataError{Epoch: et, Start: start, End: end}
	}

	idx, exact := d.search(et)
	if exact {
		for i := 0; i < 3; i++ {
			pos[i] = d.states.At(6*idx + i)
			vel[i] = d.states.At(6*idx + 3 + i)
		}
		return pos, vel, nil
	}

	first, count := d.span(idx)

	var xs [interp.MaxSamples]float64
	for i := 0; i < count; i++ {
		xs[i] = d.epoch(first + i)
	}

	var ys, ydots [interp.MaxSamples]float64
	for c := 0; c < 3; c++ {
		for i := 0; i < count; i++ {
			ys[i] = d.states.At(6*(first+i) + c)
			ydots[i] = d.states.At(6*(first+i) + 3 + c)
		}

		if d.isHermite() {
			p, v, err := interp.Hermite(xs[:count], ys[:count], ydots[:count], et)
			if err != nil {
				return pos, vel, err
			}
			pos[c], vel[c] = p, v
			continue
		}

		p, _, err := interp.Lagrange(xs[:count], ys[:count], et)
		if err != nil {
			return pos, vel, err
		}
		v, _, err := interp.Lagrange(xs[:count], ydots[:count], et)
		if err != nil {
			return pos, vel, err
		}
		pos[c], vel[c] = p, v
	}
	return pos, vel, nil
}
