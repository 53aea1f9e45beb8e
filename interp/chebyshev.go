// Package interp implements the polynomial interpolation schemes used by
// ephemeris and orientation segments: Chebyshev series, Hermite and Lagrange.
//
// Every function is pure and allocation free. Abscissas are seconds and
// normalized times are dimensionless.
package interp

import "math"

// MaxSamples is the largest Hermite or Lagrange window supported.
const MaxSamples = 32

const minRadius = 1e-15

// Chebyshev evaluates a Chebyshev series of the given degree at the
// normalized time s in [-1, 1] with Clenshaw's recurrence, returning the value
// and the derivative with respect to time. radius is the half-length of the
// record interval in seconds.
//
// coeffs must hold at least degree+1 coefficients.
func Chebyshev(s float64, coeffs []float64, radius float64, degree int) (float64, float64, error) {
	if math.Abs(radius) < minRadius {
		return 0, 0, &MathError{Op: "chebyshev", Reason: "record radius is zero"}
	}
	if degree < 0 || len(coeffs) < degree+1 {
		return 0, 0, &MathError{Op: "chebyshev", Reason: "too few coefficients for degree"}
	}

	var w0, w1, w2 float64
	var dw0, dw1, dw2 float64
	for j := degree + 1; j >= 2; j-- {
		w2 = w1
		w1 = w0
		w0 = coeffs[j-1] + (2*s*w1 - w2)

		dw2 = dw1
		dw1 = dw0
		dw0 = 2*w1 + dw1*2*s - dw2
	}

	val := coeffs[0] + (s*w0 - w1)
	deriv := (w0 + s*dw0 - dw1) / radius
	return val, deriv, nil
}

// ChebyshevValue evaluates a Chebyshev series of the given degree at s
// without its derivative.
func ChebyshevValue(s float64, coeffs []float64, degree int) (float64, error) {
	if degree < 0 || len(coeffs) < degree+1 {
		return 0, &MathError{Op: "chebyshev", Reason: "too few coefficients for degree"}
	}

	var w0, w1, w2 float64
	for j := degree + 1; j >= 2; j-- {
		w2 = w1
		w1 = w0
		w0 = coeffs[j-1] + (2*s*w1 - w2)
	}
	return coeffs[0] + (s*w0 - w1), nil
}
