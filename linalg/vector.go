// Package linalg provides the small fixed-size vector and matrix types used by
// the rotation, state and aberration code.
//
// All types are plain arrays: values are copied on assignment and never
// allocate, which keeps the query path free of heap traffic.
package linalg

import "math"

// Vector3 is a 3-element column vector.
type Vector3 [3]float64

// Vector6 is a 6-element column vector, usually a stacked position and velocity.
type Vector6 [6]float64

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns s * v.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v[0] * s, v[1] * s, v[2] * s}
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 {
	return Vector3{-v[0], -v[1], -v[2]}
}

// Dot returns the inner product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns v × o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm returns the Euclidean norm.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v normalized to unit length. The zero vector is returned unchanged.
func (v Vector3) Unit() Vector3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// IsZero reports whether every component is exactly zero.
func (v Vector3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// ApproxEqual reports whether every component of v and o differs by at most tol.
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	for i := range v {
		if math.Abs(v[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

// Stack returns the 6-vector [p; q].
func Stack(p, q Vector3) Vector6 {
	return Vector6{p[0], p[1], p[2], q[0], q[1], q[2]}
}

// Split returns the upper and lower halves of v.
func (v Vector6) Split() (Vector3, Vector3) {
	return Vector3{v[0], v[1], v[2]}, Vector3{v[3], v[4], v[5]}
}

// Perpendicular returns the component of a perpendicular to b.
// If b is the zero vector, a is returned unchanged.
func Perpendicular(a, b Vector3) Vector3 {
	bb := b.Dot(b)
	if bb == 0 {
		return a
	}
	return a.Sub(b.Scale(a.Dot(b) / bb))
}

// RotateVector rotates v by angle radians (right hand rule) about axis.
//
// The axis does not need to be normalized. A zero axis returns v unchanged.
func RotateVector(v, axis Vector3, angle float64) Vector3 {
	if axis.IsZero() {
		return v
	}
	x := axis.Unit()
	// Projection onto the axis, unaffected by the rotation.
	p := x.Scale(v.Dot(x))
	v1 := v.Sub(p)
	v2 := x.Cross(v1)
	s, c := math.Sincos(angle)
	return v1.Scale(c).Add(v2.Scale(s)).Add(p)
}
