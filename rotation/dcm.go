package rotation

import (
	"math"

	"github.com/hupe1980/orbgo/linalg"
)

const (
	// EpsilonRad is the angular tolerance used when comparing rotations.
	EpsilonRad = 4.8e-6

	// Epsilon is the scalar tolerance used when comparing rotation components.
	Epsilon = 1e-12

	identityTolerance = 1e-8
)

// DCM is a direction cosine matrix mapping vectors expressed in frame From
// into frame To (v_To = Rot * v_From), with an optional time derivative.
//
// Frames are NAIF orientation ids. The zero value of RotDt is only meaningful
// when HasDt is true.
type DCM struct {
	Rot   linalg.Matrix3
	RotDt linalg.Matrix3
	HasDt bool
	From  int32
	To    int32
}

// Identity returns the identity rotation between two frames, with a zero derivative.
func Identity(from, to int32) DCM {
	return DCM{Rot: linalg.Identity3(), HasDt: true, From: from, To: to}
}

// Mul composes d after rhs: the result maps rhs.From into d.To.
//
// The frames must chain (d.From == rhs.To). Derivatives follow the product
// rule, treating a missing derivative as zero.
func (d DCM) Mul(rhs DCM) (DCM, error) {
	if d.From != rhs.To {
		return DCM{}, &InvalidRotationError{
			Action: "multiply DCMs",
			From1:  d.From, To1: d.To,
			From2: rhs.From, To2: rhs.To,
		}
	}

	out := DCM{
		Rot:  d.Rot.Mul(rhs.Rot),
		From: rhs.From,
		To:   d.To,
	}
	if d.HasDt || rhs.HasDt {
		out.RotDt = d.RotDt.Mul(rhs.Rot).Add(d.Rot.Mul(rhs.RotDt))
		out.HasDt = true
	}
	return out, nil
}

// Transpose returns the inverse rotation (To -> From).
func (d DCM) Transpose() DCM {
	return DCM{
		Rot:   d.Rot.Transpose(),
		RotDt: d.RotDt.Transpose(),
		HasDt: d.HasDt,
		From:  d.To,
		To:    d.From,
	}
}

// StateDCM returns the 6x6 state transformation [[R, 0], [Ṙ, R]].
func (d DCM) StateDCM() linalg.Matrix6 {
	var m linalg.Matrix6
	m.SetBlock(0, 0, d.Rot)
	m.SetBlock(3, 3, d.Rot)
	if d.HasDt {
		m.SetBlock(3, 0, d.RotDt)
	}
	return m
}

// MulVector rotates a vector from From into To.
func (d DCM) MulVector(v linalg.Vector3) linalg.Vector3 {
	return d.Rot.MulVec(v)
}

// Apply rotates a position/velocity pair expressed in frame. The frame must
// equal d.From.
func (d DCM) Apply(frame int32, pos, vel linalg.Vector3) (linalg.Vector3, linalg.Vector3, error) {
	if frame != d.From {
		return pos, vel, &StateRotationError{From: d.From, To: d.To, StateFrame: frame}
	}
	p, v := d.StateDCM().MulVec(linalg.Stack(pos, vel)).Split()
	return p, v, nil
}

// IsValid reports whether every column is a unit vector within unitTol and the
// determinant is one within detTol.
func (d DCM) IsValid(unitTol, detTol float64) bool {
	for j := 0; j < 3; j++ {
		if math.Abs(d.Rot.Column(j).Norm()-1) > unitTol {
			return false
		}
	}
	return math.Abs(d.Rot.Det()-1) <= detTol
}

// IsIdentity reports whether the rotation is the identity, either because it
// maps a frame onto itself or because its matrix is numerically the identity.
func (d DCM) IsIdentity() bool {
	if d.From == d.To {
		return true
	}
	return d.Rot.Sub(linalg.Identity3()).FrobeniusNorm() < identityTolerance
}

// AngularVelocity returns the angular velocity of To relative to From,
// expressed in To, in rad/s. It is zero when no derivative is known.
func (d DCM) AngularVelocity() linalg.Vector3 {
	if !d.HasDt {
		return linalg.Vector3{}
	}
	w := d.RotDt.Mul(d.Rot.Transpose()).Scale(-1)
	return linalg.Vector3{w[2][1], w[0][2], w[1][0]}
}

// Quaternion converts the matrix into Euler parameters using Sheppard's
// method, picking the largest of the four squared components for stability.
func (d DCM) Quaternion() Quaternion {
	c := d.Rot
	tr := c.Trace()
	b2 := [4]float64{
		(1 + tr) / 4,
		(1 + 2*c[0][0] - tr) / 4,
		(1 + 2*c[1][1] - tr) / 4,
		(1 + 2*c[2][2] - tr) / 4,
	}

	best := 0
	for i := 1; i < 4; i++ {
		if b2[i] > b2[best] {
			best = i
		}
	}

	var w, x, y, z float64
	switch best {
	case 0:
		w = math.Sqrt(b2[0])
		x = (c[1][2] - c[2][1]) / 4 / w
		y = (c[2][0] - c[0][2]) / 4 / w
		z = (c[0][1] - c[1][0]) / 4 / w
	case 1:
		x = math.Sqrt(b2[1])
		w = (c[1][2] - c[2][1]) / 4 / x
		if w < 0 {
			w, x = -w, -x
		}
		y = (c[0][1] + c[1][0]) / 4 / x
		z = (c[2][0] + c[0][2]) / 4 / x
	case 2:
		y = math.Sqrt(b2[2])
		w = (c[2][0] - c[0][2]) / 4 / y
		if w < 0 {
			w, y = -w, -y
		}
		x = (c[0][1] + c[1][0]) / 4 / y
		z = (c[1][2] + c[2][1]) / 4 / y
	default:
		z = math.Sqrt(b2[3])
		w = (c[0][1] - c[1][0]) / 4 / z
		if w < 0 {
			w, z = -w, -z
		}
		x = (c[2][0] + c[0][2]) / 4 / z
		y = (c[1][2] + c[2][1]) / 4 / z
	}

	return Quaternion{W: w, X: x, Y: y, Z: z, From: d.From, To: d.To}
}
