// Package frames defines reference frames as pairs of NAIF ids: an
// ephemeris origin and an orientation, optionally annotated with the
// gravitational parameter and shape of the central body.
package frames

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingFrameData is returned when a physical constant is requested from
// a frame that was not annotated with it.
var ErrMissingFrameData = errors.New("missing frame data")

// Frame identifies a reference frame by its ephemeris origin and its orientation.
//
// Equality (Equal) only considers the ids; the physical annotations are
// informational.
type Frame struct {
	EphemerisID   int32
	OrientationID int32
	MuKm3S2       float64
	HasMu         bool
	Shape         *Ellipsoid
}

// Common frames.
var (
	SSBJ2000        = New(SolarSystemBarycenter, J2000)
	SunJ2000        = New(Sun, J2000)
	EMBJ2000        = New(EarthMoonBarycenter, J2000)
	EarthJ2000      = New(Earth, J2000)
	EME2000         = EarthJ2000
	EarthEclipJ2000 = New(Earth, EclipJ2000)
	MoonJ2000       = New(Moon, J2000)
	MarsJ2000       = New(Mars, J2000)
	IAUEarthFrame   = New(Earth, IAUEarth)
	IAUMoonFrame    = New(Moon, IAUMoon)
	IAUMarsFrame    = New(Mars, IAUMars)
	MoonPAFrame     = New(Moon, MoonPA)
	MoonMEFrame     = New(Moon, MoonME)
	EarthITRF93     = New(Earth, ITRF93)
)

// New returns a frame without physical annotations.
func New(ephemerisID, orientationID int32) Frame {
	return Frame{EphemerisID: ephemerisID, OrientationID: orientationID}
}

// FromName builds a frame from common body and orientation names, e.g. ("Earth", "J2000").
func FromName(body, orientation string) (Frame, error) {
	eid, ok := BodyID(body)
	if !ok {
		return Frame{}, fmt.Errorf("unknown body name %q", body)
	}
	oid, ok := OrientationID(orientation)
	if !ok {
		return Frame{}, fmt.Errorf("unknown orientation name %q", orientation)
	}
	return New(eid, oid), nil
}

// Equal reports whether both frames share the same ephemeris and orientation ids.
func (f Frame) Equal(o Frame) bool {
	return f.EphemerisID == o.EphemerisID && f.OrientationID == o.OrientationID
}

// WithEphem returns a copy of f with another ephemeris origin.
func (f Frame) WithEphem(id int32) Frame {
	f.EphemerisID = id
	return f
}

// WithOrient returns a copy of f with another orientation.
func (f Frame) WithOrient(id int32) Frame {
	f.OrientationID = id
	return f
}

// WithMu returns a copy of f annotated with a gravitational parameter.
func (f Frame) WithMu(mu float64) Frame {
	f.MuKm3S2 = mu
	f.HasMu = true
	return f
}

// WithShape returns a copy of f annotated with an ellipsoid.
func (f Frame) WithShape(e Ellipsoid) Frame {
	f.Shape = &e
	return f
}

// Strip removes the physical annotations.
func (f Frame) Strip() Frame {
	return New(f.EphemerisID, f.OrientationID)
}

// EphemOriginIDMatch reports whether the ephemeris origin is id.
func (f Frame) EphemOriginIDMatch(id int32) bool { return f.EphemerisID == id }

// OrientOriginIDMatch reports whether the orientation is id.
func (f Frame) OrientOriginIDMatch(id int32) bool { return f.OrientationID == id }

// IsCelestial reports whether the frame carries a gravitational parameter.
func (f Frame) IsCelestial() bool { return f.HasMu }

// IsGeodetic reports whether the frame carries both a gravitational parameter and a shape.
func (f Frame) IsGeodetic() bool { return f.HasMu && f.Shape != nil }

// Mu returns the gravitational parameter in km³/s².
func (f Frame) Mu() (float64, error) {
	if !f.HasMu {
		return 0, f.missing("mu_km3_s2")
	}
	return f.MuKm3S2, nil
}

// MeanEquatorialRadiusKm returns the mean equatorial radius of the shape.
func (f Frame) MeanEquatorialRadiusKm() (float64, error) {
	if f.Shape == nil {
		return 0, f.missing("shape")
	}
	return f.Shape.MeanEquatorialRadiusKm(), nil
}

// PolarRadiusKm returns the polar radius of the shape.
func (f Frame) PolarRadiusKm() (float64, error) {
	if f.Shape == nil {
		return 0, f.missing("shape")
	}
	return f.Shape.PolarRadiusKm, nil
}

// Flattening returns the flattening ratio of the shape.
func (f Frame) Flattening() (float64, error) {
	if f.Shape == nil {
		return 0, f.missing("shape")
	}
	return f.Shape.Flattening(), nil
}

func (f Frame) missing(what string) error {
	return fmt.Errorf("%w: %s not set on %s", ErrMissingFrameData, what, f.Strip())
}

// String renders the frame as "<body> <orientation>", e.g. "Earth J2000".
func (f Frame) String() string {
	var b strings.Builder
	if name, ok := BodyName(f.EphemerisID); ok {
		b.WriteString(name)
	} else {
		fmt.Fprintf(&b, "body %d", f.EphemerisID)
	}
	b.WriteByte(' ')
	if name, ok := OrientationName(f.OrientationID); ok {
		b.WriteString(name)
	} else {
		fmt.Fprintf(&b, "orientation %d", f.OrientationID)
	}
	switch {
	case f.IsGeodetic():
		fmt.Fprintf(&b, " (μ = %g km^3/s^2, %s)", f.MuKm3S2, f.Shape)
	case f.IsCelestial():
		fmt.Fprintf(&b, " (μ = %g km^3/s^2)", f.MuKm3S2)
	}
	return b.String()
}
