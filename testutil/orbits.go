package testutil

import (
	"math"

	"github.com/hupe1980/orbgo/linalg"
)

// CircularOrbit is an analytic circular orbit used to generate kernels
// whose content is known exactly.
type CircularOrbit struct {
	RadiusKm       float64
	PeriodS        float64
	PhaseRad       float64
	InclinationRad float64
}

// State returns the position and velocity on the orbit at et.
func (o CircularOrbit) State(et float64) (linalg.Vector3, linalg.Vector3) {
	rate := 2 * math.Pi / o.PeriodS
	sinT, cosT := math.Sincos(o.PhaseRad + rate*et)
	sinI, cosI := math.Sincos(o.InclinationRad)

	pos := linalg.Vector3{o.RadiusKm * cosT, o.RadiusKm * sinT * cosI, o.RadiusKm * sinT * sinI}
	v := o.RadiusKm * rate
	vel := linalg.Vector3{-v * sinT, v * cosT * cosI, v * cosT * sinI}
	return pos, vel
}

// Offset returns a StateFunc for a body at rest at pos.
func Offset(pos linalg.Vector3) StateFunc {
	return func(float64) (linalg.Vector3, linalg.Vector3) {
		return pos, linalg.Vector3{}
	}
}
