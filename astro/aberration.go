package astro

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/linalg"
)

var (
	// ErrNoStellarCorrection is returned when stellar aberration is requested
	// for a mode that does not include it.
	ErrNoStellarCorrection = errors.New("stellar correction not available for this aberration")

	// ErrSuperluminal is returned when the observer speed is not below c.
	ErrSuperluminal = errors.New("observer moving faster than light")
)

// Aberration selects the light-time and stellar aberration corrections
// applied to an observer-relative position.
type Aberration uint8

const (
	// None returns geometric states.
	None Aberration = iota
	// LT applies a single light-time step (reception).
	LT
	// LTS applies a single light-time step and stellar aberration (reception).
	LTS
	// CN iterates light time to convergence (reception).
	CN
	// CNS iterates light time to convergence and applies stellar aberration (reception).
	CNS
	// XLT is LT for a signal transmitted by the observer.
	XLT
	// XLTS is LTS for a signal transmitted by the observer.
	XLTS
	// XCN is CN for a signal transmitted by the observer.
	XCN
	// XCNS is CNS for a signal transmitted by the observer.
	XCNS
)

var aberrationNames = [...]string{
	None: "NONE",
	LT:   "LT",
	LTS:  "LT+S",
	CN:   "CN",
	CNS:  "CN+S",
	XLT:  "XLT",
	XLTS: "XLT+S",
	XCN:  "XCN",
	XCNS: "XCN+S",
}

// ParseAberration parses the conventional names ("NONE", "LT", "LT+S", "CN",
// "CN+S" and their "X" transmit variants), case-insensitively.
func ParseAberration(s string) (Aberration, error) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if s == "" {
		return None, nil
	}
	for i, name := range aberrationNames {
		if s == name {
			return Aberration(i), nil
		}
	}
	return None, fmt.Errorf("unknown aberration correction %q", s)
}

func (a Aberration) String() string {
	if int(a) < len(aberrationNames) {
		return aberrationNames[a]
	}
	return fmt.Sprintf("Aberration(%d)", uint8(a))
}

// IsNone reports whether no correction is applied.
func (a Aberration) IsNone() bool { return a == None }

// IsConverged reports whether light time is iterated.
func (a Aberration) IsConverged() bool {
	return a == CN || a == CNS || a == XCN || a == XCNS
}

// IsTransmit reports whether the observer transmits rather than receives.
func (a Aberration) IsTransmit() bool {
	return a == XLT || a == XLTS || a == XCN || a == XCNS
}

// HasStellar reports whether stellar aberration is applied.
func (a Aberration) HasStellar() bool {
	return a == LTS || a == CNS || a == XLTS || a == XCNS
}

// StellarAberration returns the apparent position of a target given its
// light-time corrected position relative to the observer and the observer
// velocity relative to the solar system barycenter.
//
// The apparent direction is rotated towards the observer velocity by
// asin(|u × v/c|); for transmission the velocity is negated.
func StellarAberration(targetPos, obsVel linalg.Vector3, ab Aberration) (linalg.Vector3, error) {
	if !ab.HasStellar() {
		return targetPos, fmt.Errorf("%w: %s", ErrNoStellarCorrection, ab)
	}

	if ab.IsTransmit() {
		obsVel = obsVel.Neg()
	}

	u := targetPos.Unit()
	vbyc := obsVel.Scale(1 / frames.SpeedOfLightKmS)
	if vbyc.Dot(vbyc) >= 1 {
		return targetPos, fmt.Errorf("%w: |v| = %g km/s", ErrSuperluminal, obsVel.Norm())
	}

	h := u.Cross(vbyc)
	sinPhi := h.Norm()
	if sinPhi > 2.220446049250313e-16 {
		return linalg.RotateVector(targetPos, h, math.Asin(sinPhi)), nil
	}
	return targetPos, nil
}
