package frames

import (
	"fmt"
	"math"
)

const shapeTolerance = 2.220446049250313e-16

// Ellipsoid is a tri-axial body shape in kilometers.
type Ellipsoid struct {
	SemiMajorEquatorialRadiusKm float64 `yaml:"semi_major_equatorial_radius_km" validate:"gt=0"`
	SemiMinorEquatorialRadiusKm float64 `yaml:"semi_minor_equatorial_radius_km" validate:"gt=0"`
	PolarRadiusKm               float64 `yaml:"polar_radius_km" validate:"gt=0"`
}

// Sphere returns an ellipsoid with all radii equal.
func Sphere(radiusKm float64) Ellipsoid {
	return Ellipsoid{radiusKm, radiusKm, radiusKm}
}

// Spheroid returns an oblate (or prolate) spheroid.
func Spheroid(equatorialRadiusKm, polarRadiusKm float64) Ellipsoid {
	return Ellipsoid{equatorialRadiusKm, equatorialRadiusKm, polarRadiusKm}
}

// MeanEquatorialRadiusKm returns the average of both equatorial radii.
func (e Ellipsoid) MeanEquatorialRadiusKm() float64 {
	return (e.SemiMajorEquatorialRadiusKm + e.SemiMinorEquatorialRadiusKm) / 2
}

// IsSpheroid reports whether both equatorial radii are equal.
func (e Ellipsoid) IsSpheroid() bool {
	return math.Abs(e.SemiMajorEquatorialRadiusKm-e.SemiMinorEquatorialRadiusKm) < shapeTolerance
}

// IsSphere reports whether all radii are equal.
func (e Ellipsoid) IsSphere() bool {
	return e.IsSpheroid() && math.Abs(e.PolarRadiusKm-e.SemiMinorEquatorialRadiusKm) < shapeTolerance
}

// Flattening returns (a - c) / a with a the mean equatorial radius.
func (e Ellipsoid) Flattening() float64 {
	a := e.MeanEquatorialRadiusKm()
	return (a - e.PolarRadiusKm) / a
}

func (e Ellipsoid) String() string {
	switch {
	case e.IsSphere():
		return fmt.Sprintf("radius = %g km", e.SemiMajorEquatorialRadiusKm)
	case e.IsSpheroid():
		return fmt.Sprintf("eq. radius = %g km, polar radius = %g km, f = %g",
			e.SemiMajorEquatorialRadiusKm, e.PolarRadiusKm, e.Flattening())
	default:
		return fmt.Sprintf("major radius = %g km, minor radius = %g km, polar radius = %g km, f = %g",
			e.SemiMajorEquatorialRadiusKm, e.SemiMinorEquatorialRadiusKm, e.PolarRadiusKm, e.Flattening())
	}
}
