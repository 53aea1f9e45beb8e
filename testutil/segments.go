package testutil

import (
	"math"

	"github.com/hupe1980/orbgo/linalg"
)

// StateFunc returns a position (km) and velocity (km/s) at et.
type StateFunc func(et float64) (linalg.Vector3, linalg.Vector3)

// ChebyshevFit returns the degree+1 coefficients of the Chebyshev
// interpolant of f at the Chebyshev nodes of [mid-radius, mid+radius].
func ChebyshevFit(f func(t float64) float64, mid, radius float64, degree int) []float64 {
	n := degree + 1
	vals := make([]float64, n)
	for k := range vals {
		vals[k] = f(mid + radius*math.Cos(math.Pi*(float64(k)+0.5)/float64(n)))
	}

	coeffs := make([]float64, n)
	for j := range coeffs {
		var sum float64
		for k, v := range vals {
			sum += v * math.Cos(math.Pi*float64(j)*(float64(k)+0.5)/float64(n))
		}
		coeffs[j] = 2 * sum / float64(n)
	}
	coeffs[0] /= 2
	return coeffs
}

func records(start, end, interval float64) int {
	return max(int(math.Ceil((end-start)/interval)), 1)
}

// ChebyshevSegment returns type 2 segment data fitting the position of f
// over [start, end] with records of the given interval.
func ChebyshevSegment(f StateFunc, start, end, interval float64, degree int) []float64 {
	n := records(start, end, interval)
	rsize := 2 + 3*(degree+1)
	data := make([]float64, 0, n*rsize+4)

	for i := 0; i < n; i++ {
		mid := start + (float64(i)+0.5)*interval
		radius := interval / 2
		data = append(data, mid, radius)
		for c := 0; c < 3; c++ {
			data = append(data, ChebyshevFit(func(t float64) float64 {
				p, _ := f(t)
				return p[c]
			}, mid, radius, degree)...)
		}
	}
	return append(data, start, interval, float64(rsize), float64(n))
}

// AngleSegment returns type 2 segment data for three angles, as stored in
// orientation kernels.
func AngleSegment(f func(et float64) linalg.Vector3, start, end, interval float64, degree int) []float64 {
	return ChebyshevSegment(func(et float64) (linalg.Vector3, linalg.Vector3) {
		return f(et), linalg.Vector3{}
	}, start, end, interval, degree)
}

// ChebyshevStateSegment returns type 3 segment data fitting position and
// velocity of f separately.
func ChebyshevStateSegment(f StateFunc, start, end, interval float64, degree int) []float64 {
	n := records(start, end, interval)
	rsize := 2 + 6*(degree+1)
	data := make([]float64, 0, n*rsize+4)

	for i := 0; i < n; i++ {
		mid := start + (float64(i)+0.5)*interval
		radius := interval / 2
		data = append(data, mid, radius)
		for c := 0; c < 6; c++ {
			data = append(data, ChebyshevFit(func(t float64) float64 {
				p, v := f(t)
				if c < 3 {
					return p[c]
				}
				return v[c-3]
			}, mid, radius, degree)...)
		}
	}
	return append(data, start, interval, float64(rsize), float64(n))
}

func appendStates(data []float64, f StateFunc, epochs []float64) []float64 {
	for _, et := range epochs {
		p, v := f(et)
		data = append(data, p[0], p[1], p[2], v[0], v[1], v[2])
	}
	return data
}

// DiscreteSegment returns type 9 or 13 segment data sampling f at epochs.
// param is the Lagrange degree (type 9) or the Hermite window size less
// one (type 13).
func DiscreteSegment(f StateFunc, epochs []float64, param int) []float64 {
	n := len(epochs)
	data := make([]float64, 0, 7*n+n/100+2)
	data = appendStates(data, f, epochs)
	data = append(data, epochs...)
	for i := 100; i < n; i += 100 {
		data = append(data, epochs[i-1])
	}
	return append(data, float64(param), float64(n))
}

// EqualStepSegment returns type 8 or 12 segment data sampling f at n
// epochs first + i*step.
func EqualStepSegment(f StateFunc, first, step float64, n, param int) []float64 {
	epochs := make([]float64, n)
	for i := range epochs {
		epochs[i] = first + float64(i)*step
	}
	data := make([]float64, 0, 6*n+4)
	data = appendStates(data, f, epochs)
	return append(data, first, step, float64(param), float64(n))
}

// StepEpochs returns n epochs first + i*step.
func StepEpochs(first, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = first + float64(i)*step
	}
	return out
}
