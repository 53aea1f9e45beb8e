package interp

import "math"

// Lagrange evaluates the Lagrange interpolating polynomial through the points
// (xs[i], ys[i]) at x with Neville's recurrence, returning the value and its
// derivative.
func Lagrange(xs, ys []float64, x float64) (float64, float64, error) {
	n := len(xs)
	switch {
	case n == 0:
		return 0, 0, &MathError{Op: "lagrange", Reason: "no samples"}
	case len(ys) != n:
		return 0, 0, &MathError{Op: "lagrange", Reason: "sample lengths differ"}
	case n > MaxSamples:
		return 0, 0, ErrTooManySamples
	}

	var work, dwork [MaxSamples]float64
	copy(work[:n], ys)

	for j := 1; j < n; j++ {
		for i := 0; i < n-j; i++ {
			den := xs[i] - xs[i+j]
			if math.Abs(den) < minDenominator {
				return 0, 0, &MathError{Op: "lagrange", Reason: "repeated abscissa"}
			}

			wi, wip1 := work[i], work[i+1]
			work[i] = ((x-xs[i+j])*wi + (xs[i]-x)*wip1) / den
			dwork[i] = ((x-xs[i+j])*dwork[i]+(xs[i]-x)*dwork[i+1])/den + (wi-wip1)/den
		}
	}

	return work[0], dwork[0], nil
}
