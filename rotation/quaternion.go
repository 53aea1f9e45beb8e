package rotation

import (
	"math"

	"github.com/hupe1980/orbgo/linalg"
)

// Quaternion is a unit quaternion (Euler parameters) representing the
// rotation from frame From into frame To.
//
// The convention is passive and Hamiltonian: a vector expressed in From is
// expressed in To as q* ⊗ v ⊗ q.
type Quaternion struct {
	W, X, Y, Z float64
	From       int32
	To         int32
}

// NewQuaternion returns the normalized quaternion with the given components.
func NewQuaternion(w, x, y, z float64, from, to int32) Quaternion {
	return Quaternion{W: w, X: x, Y: y, Z: z, From: from, To: to}.Normalize()
}

// IdentityQuaternion returns the identity rotation between two frames.
func IdentityQuaternion(from, to int32) Quaternion {
	return Quaternion{W: 1, From: from, To: to}
}

// AboutX returns the rotation by angle radians about the X axis.
func AboutX(angle float64, from, to int32) Quaternion {
	s, c := math.Sincos(angle / 2)
	return Quaternion{W: c, X: s, From: from, To: to}
}

// AboutY returns the rotation by angle radians about the Y axis.
func AboutY(angle float64, from, to int32) Quaternion {
	s, c := math.Sincos(angle / 2)
	return Quaternion{W: c, Y: s, From: from, To: to}
}

// AboutZ returns the rotation by angle radians about the Z axis.
func AboutZ(angle float64, from, to int32) Quaternion {
	s, c := math.Sincos(angle / 2)
	return Quaternion{W: c, Z: s, From: from, To: to}
}

// Norm returns the quaternion magnitude.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit norm. A zero quaternion becomes the identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return IdentityQuaternion(q.From, q.To)
	}
	q.W /= n
	q.X /= n
	q.Y /= n
	q.Z /= n
	return q
}

// Conjugate returns the inverse rotation (To -> From).
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z, From: q.To, To: q.From}
}

// Short returns the equivalent quaternion with a non-negative scalar part.
func (q Quaternion) Short() Quaternion {
	if q.W < 0 {
		q.W, q.X, q.Y, q.Z = -q.W, -q.X, -q.Y, -q.Z
	}
	return q
}

// Mul composes q followed by rhs: the result maps q.From into rhs.To.
// The frames must chain (q.To == rhs.From).
func (q Quaternion) Mul(rhs Quaternion) (Quaternion, error) {
	if q.To != rhs.From {
		return Quaternion{}, &InvalidRotationError{
			Action: "multiply quaternions",
			From1:  q.From, To1: q.To,
			From2: rhs.From, To2: rhs.To,
		}
	}
	return Quaternion{
		W:    q.W*rhs.W - q.X*rhs.X - q.Y*rhs.Y - q.Z*rhs.Z,
		X:    q.W*rhs.X + q.X*rhs.W + q.Y*rhs.Z - q.Z*rhs.Y,
		Y:    q.W*rhs.Y - q.X*rhs.Z + q.Y*rhs.W + q.Z*rhs.X,
		Z:    q.W*rhs.Z + q.X*rhs.Y - q.Y*rhs.X + q.Z*rhs.W,
		From: q.From,
		To:   rhs.To,
	}, nil
}

// MulVector expresses v, given in From, in To.
func (q Quaternion) MulVector(v linalg.Vector3) linalg.Vector3 {
	return q.DCM().MulVector(v)
}

// DCM converts the quaternion into a direction cosine matrix without derivative.
func (q Quaternion) DCM() DCM {
	q = q.Normalize()
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return DCM{
		Rot: linalg.Matrix3{
			{w*w + x*x - y*y - z*z, 2 * (x*y + w*z), 2 * (x*z - w*y)},
			{2 * (x*y - w*z), w*w - x*x + y*y - z*z, 2 * (y*z + w*x)},
			{2 * (x*z + w*y), 2 * (y*z - w*x), w*w - x*x - y*y + z*z},
		},
		From: q.From,
		To:   q.To,
	}
}

// BMatrix returns the 4x3 kinematic matrix relating body rates to the
// quaternion derivative.
func (q Quaternion) BMatrix() [4][3]float64 {
	return [4][3]float64{
		{-q.X, -q.Y, -q.Z},
		{q.W, -q.Z, q.Y},
		{q.Z, q.W, -q.X},
		{-q.Y, q.X, q.W},
	}
}

// Derivative returns dq/dt, as (w, x, y, z), for the body angular velocity omega in rad/s.
func (q Quaternion) Derivative(omega linalg.Vector3) [4]float64 {
	b := q.BMatrix()
	var out [4]float64
	for i := range out {
		out[i] = 0.5 * (b[i][0]*omega[0] + b[i][1]*omega[1] + b[i][2]*omega[2])
	}
	return out
}

// AxisAngle returns the principal rotation axis and angle in radians.
// The identity returns a zero axis and a zero angle.
func (q Quaternion) AxisAngle() (linalg.Vector3, float64) {
	q = q.Normalize().Short()
	half := math.Acos(math.Min(1, q.W))
	s := math.Sin(half)
	if math.Abs(s) < Epsilon {
		return linalg.Vector3{}, 0
	}
	return linalg.Vector3{q.X / s, q.Y / s, q.Z / s}, 2 * half
}

// PRV returns the principal rotation vector (axis scaled by angle).
func (q Quaternion) PRV() linalg.Vector3 {
	axis, angle := q.AxisAngle()
	return axis.Scale(angle)
}

// IsIdentity reports whether q is numerically the identity rotation.
func (q Quaternion) IsIdentity() bool {
	_, angle := q.AxisAngle()
	return math.Abs(angle) < EpsilonRad
}

// ApproxEqual reports whether both quaternions connect the same frames and
// represent the same rotation within EpsilonRad, treating q and -q as equal.
func (q Quaternion) ApproxEqual(o Quaternion) bool {
	if q.From != o.From || q.To != o.To {
		return false
	}
	if q.IsIdentity() && o.IsIdentity() {
		return true
	}
	a1, t1 := q.AxisAngle()
	a2, t2 := o.AxisAngle()
	return math.Abs(t1-t2) < EpsilonRad && a1.ApproxEqual(a2, 1e-9)
}
