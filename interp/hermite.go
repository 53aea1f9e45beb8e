package interp

import "math"

const minDenominator = 1e-300

// Hermite evaluates the Hermite interpolating polynomial through the points
// (xs[i], ys[i]) with first derivatives ydots[i] at x, returning the value and
// its derivative.
//
// The divided differences are computed in a fixed work array, so at most
// MaxSamples points are accepted. Repeated abscissas are rejected.
func Hermite(xs, ys, ydots []float64, x float64) (float64, float64, error) {
	n := len(xs)
	switch {
	case n == 0:
		return 0, 0, &MathError{Op: "hermite", Reason: "no samples"}
	case len(ys) != n || len(ydots) != n:
		return 0, 0, &MathError{Op: "hermite", Reason: "sample lengths differ"}
	case n > MaxSamples:
		return 0, 0, ErrTooManySamples
	}

	var work [4 * MaxSamples]float64

	// Copy the values and derivatives into the interleaved first half.
	for i := 0; i < n; i++ {
		work[2*i] = ys[i]
		work[2*i+1] = ydots[i]
	}

	// First-order differences and the first interpolation pass.
	for i := 1; i < n; i++ {
		c1 := xs[i] - x
		c2 := x - xs[i-1]
		den := xs[i] - xs[i-1]
		if math.Abs(den) < minDenominator {
			return 0, 0, &MathError{Op: "hermite", Reason: "repeated abscissa"}
		}

		prev := 2*i - 1
		curr := 2 * i

		work[prev+2*n-1] = work[prev]
		work[prev+2*n] = (work[curr] - work[prev-1]) / den

		temp := work[prev]*(x-xs[i-1]) + work[prev-1]
		work[prev] = (c1*work[prev-1] + c2*work[curr]) / den
		work[prev-1] = temp
	}

	work[4*n-2] = work[2*n-1]
	work[2*(n-1)] += work[2*n-1] * (x - xs[n-1])

	// Higher-order columns.
	for j := 2; j < 2*n; j++ {
		for i := 1; i <= 2*n-j; i++ {
			xi := (i + 1) / 2
			xij := (i + j + 1) / 2

			c1 := xs[xij-1] - x
			c2 := x - xs[xi-1]
			den := xs[xij-1] - xs[xi-1]
			if math.Abs(den) < minDenominator {
				return 0, 0, &MathError{Op: "hermite", Reason: "repeated abscissa"}
			}

			work[i+2*n-1] = (c1*work[i+2*n-1] + c2*work[i+2*n] + (work[i] - work[i-1])) / den
			work[i-1] = (c1*work[i-1] + c2*work[i]) / den
		}
	}

	return work[0], work[2*n], nil
}
