package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/linalg"
	"github.com/hupe1980/orbgo/rotation"
)

// MaxNutPrecAngles is the largest number of nutation-precession angles of a
// system, and of trigonometric coefficients of a phase angle.
const MaxNutPrecAngles = 32

// PhaseAngle is a quadratic polynomial in degrees, optionally followed by
// the coefficients of the nutation-precession trigonometric terms.
//
// The time variable is Julian centuries past J2000 for the pole and the
// nutation-precession angles, and days past J2000 for the prime meridian.
type PhaseAngle struct {
	OffsetDeg float64   `yaml:"offset_deg"`
	RateDeg   float64   `yaml:"rate_deg,omitempty"`
	AccelDeg  float64   `yaml:"accel_deg,omitempty"`
	Coeffs    []float64 `yaml:"coeffs,omitempty,flow" validate:"max=32"`
}

// Evaluate returns the polynomial part of the angle in degrees at factor
// time units past J2000.
func (p PhaseAngle) Evaluate(factor float64) float64 {
	return p.OffsetDeg + p.RateDeg*factor + p.AccelDeg*factor*factor
}

func (p PhaseAngle) String() string {
	if p.AccelDeg != 0 {
		return fmt.Sprintf("%g + %g t + %g t^2", p.OffsetDeg, p.RateDeg, p.AccelDeg)
	}
	return fmt.Sprintf("%g + %g t", p.OffsetDeg, p.RateDeg)
}

// PlanetaryData holds the physical constants and the orientation model of
// one body-fixed frame. ParentID is the orientation the pole and prime
// meridian are given in, not the ephemeris center.
type PlanetaryData struct {
	ID                 int32             `yaml:"id"`
	Name               string            `yaml:"name,omitempty"`
	ParentID           int32             `yaml:"parent_id"`
	MuKm3S2            float64           `yaml:"mu_km3_s2" validate:"gte=0"`
	Shape              *frames.Ellipsoid `yaml:"shape,omitempty"`
	PoleRightAscension *PhaseAngle       `yaml:"pole_right_ascension,omitempty"`
	PoleDeclination    *PhaseAngle       `yaml:"pole_declination,omitempty"`
	PrimeMeridian      *PhaseAngle       `yaml:"prime_meridian,omitempty"`
	LongAxis           *float64          `yaml:"long_axis,omitempty"`
	// NutPrecAngles are the nutation-precession angles of the system, e.g.
	// E1 = 125.045 - 0.052992 d is stored as {offset_deg: 125.045, rate_deg: -0.052992}.
	NutPrecAngles []PhaseAngle `yaml:"nut_prec_angles,omitempty" validate:"max=32"`
}

func (p PlanetaryData) key() (int32, string) { return p.ID, p.Name }

func (p *PlanetaryData) check() error {
	if math.IsNaN(p.MuKm3S2) || math.IsInf(p.MuKm3S2, 0) {
		return fmt.Errorf("id %d: mu must be finite", p.ID)
	}
	for _, a := range []*PhaseAngle{p.PoleRightAscension, p.PoleDeclination, p.PrimeMeridian} {
		if a != nil && len(a.Coeffs) > MaxNutPrecAngles {
			return fmt.Errorf("id %d: more than %d nutation-precession coefficients", p.ID, MaxNutPrecAngles)
		}
	}
	return nil
}

// HasOrientation reports whether any of the pole or prime meridian models is set.
func (p PlanetaryData) HasOrientation() bool {
	return p.PoleRightAscension != nil || p.PoleDeclination != nil || p.PrimeMeridian != nil
}

func (p PlanetaryData) usesTrigPolynomial() bool {
	for _, a := range []*PhaseAngle{p.PoleRightAscension, p.PoleDeclination, p.PrimeMeridian} {
		if a != nil && len(a.Coeffs) > 0 {
			return true
		}
	}
	return false
}

// ToFrame annotates f with the gravitational parameter and shape.
func (p PlanetaryData) ToFrame(f frames.Frame) frames.Frame {
	f = f.WithMu(p.MuKm3S2)
	if p.Shape != nil {
		f = f.WithShape(*p.Shape)
	}
	return f
}

// rotationMatrix returns R3(W)·R1(π/2 - Dec)·R3(RA + π/2), the rotation from
// the parent frame into the body-fixed frame. system provides the
// nutation-precession angles.
func (p PlanetaryData) rotationMatrix(et float64, system PlanetaryData) linalg.Matrix3 {
	centuries := et / astro.SecondsPerCentury
	days := et / astro.SecondsPerDay

	var theta [MaxNutPrecAngles]float64
	if p.usesTrigPolynomial() {
		for i, a := range system.NutPrecAngles {
			if i == MaxNutPrecAngles {
				break
			}
			theta[i] = a.Evaluate(centuries) * deg
		}
	}

	var ra, dec, w float64
	if a := p.PoleRightAscension; a != nil {
		ra = (a.Evaluate(centuries)+trig(a.Coeffs, &theta, math.Sin))*deg + math.Pi/2
	}
	if a := p.PoleDeclination; a != nil {
		dec = math.Pi/2 - (a.Evaluate(centuries)+trig(a.Coeffs, &theta, math.Cos))*deg
	}
	if a := p.PrimeMeridian; a != nil {
		w = (a.Evaluate(days) + trig(a.Coeffs, &theta, math.Sin)) * deg
	}
	return rotation.R3(w).Mul(rotation.R1(dec)).Mul(rotation.R3(ra))
}

const deg = math.Pi / 180

// trig sums coeffs[i]·f(theta[i]), in the degrees of the coefficients.
func trig(coeffs []float64, theta *[MaxNutPrecAngles]float64, f func(float64) float64) float64 {
	var sum float64
	for i, c := range coeffs[:min(len(coeffs), MaxNutPrecAngles)] {
		sum += c * f(theta[i])
	}
	return sum
}

// RotationToParent returns the rotation from ParentID into ID at et (TDB
// seconds past J2000). The derivative is a central difference over one
// second on each side. system is the planetary data of the parent, whose
// nutation-precession angles drive the trigonometric terms; pass p itself
// when the parent has none.
//
// Without any orientation model the rotation is the identity.
func (p PlanetaryData) RotationToParent(et float64, system PlanetaryData) rotation.DCM {
	if !p.HasOrientation() {
		return rotation.Identity(p.ParentID, p.ID)
	}
	pre := p.rotationMatrix(et-1, system)
	post := p.rotationMatrix(et+1, system)
	return rotation.DCM{
		Rot:   p.rotationMatrix(et, system),
		RotDt: post.Sub(pre).Scale(0.5),
		HasDt: true,
		From:  p.ParentID,
		To:    p.ID,
	}
}

func (p PlanetaryData) String() string {
	var b strings.Builder
	if name, ok := frames.OrientationName(p.ID); ok {
		b.WriteString(name)
	} else if p.Name != "" {
		b.WriteString(p.Name)
	} else {
		fmt.Fprintf(&b, "planetary data %d", p.ID)
	}
	if p.Shape != nil {
		fmt.Fprintf(&b, " (μ = %g km^3/s^2, %s)", p.MuKm3S2, p.Shape)
	} else {
		fmt.Fprintf(&b, " (μ = %g km^3/s^2)", p.MuKm3S2)
	}
	if p.PoleRightAscension != nil {
		fmt.Fprintf(&b, " RA = %s", p.PoleRightAscension)
	}
	if p.PoleDeclination != nil {
		fmt.Fprintf(&b, " Dec = %s", p.PoleDeclination)
	}
	if p.PrimeMeridian != nil {
		fmt.Fprintf(&b, " PM = %s", p.PrimeMeridian)
	}
	if n := len(p.NutPrecAngles); n > 0 {
		fmt.Fprintf(&b, " + %d nut/prec angles", n)
	}
	return b.String()
}
