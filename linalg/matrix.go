package linalg

import "math"

// Matrix3 is a row-major 3x3 matrix.
type Matrix3 [3][3]float64

// Matrix6 is a row-major 6x6 matrix.
type Matrix6 [6][6]float64

// Identity3 returns the 3x3 identity.
func Identity3() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns m * o.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// MulVec returns m * v.
func (m Matrix3) MulVec(v Vector3) Vector3 {
	return Vector3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Add returns m + o.
func (m Matrix3) Add(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] + o[i][j]
		}
	}
	return r
}

// Sub returns m - o.
func (m Matrix3) Sub(o Matrix3) Matrix3 {
	return m.Add(o.Scale(-1))
}

// Scale returns s * m.
func (m Matrix3) Scale(s float64) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] * s
		}
	}
	return r
}

// Transpose returns mᵀ.
func (m Matrix3) Transpose() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Trace returns the sum of the diagonal.
func (m Matrix3) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2]
}

// Det returns the determinant.
func (m Matrix3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Column returns column j.
func (m Matrix3) Column(j int) Vector3 {
	return Vector3{m[0][j], m[1][j], m[2][j]}
}

// FrobeniusNorm returns sqrt(Σ m_ij²).
func (m Matrix3) FrobeniusNorm() float64 {
	var s float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s += m[i][j] * m[i][j]
		}
	}
	return math.Sqrt(s)
}

// ApproxEqual reports whether every element differs by at most tol.
func (m Matrix3) ApproxEqual(o Matrix3, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// Skew returns the cross-product matrix [v×].
func Skew(v Vector3) Matrix3 {
	return Matrix3{
		{0, -v[2], v[1]},
		{v[2], 0, -v[0]},
		{-v[1], v[0], 0},
	}
}

// MulVec returns m * v.
func (m Matrix6) MulVec(v Vector6) Vector6 {
	var r Vector6
	for i := 0; i < 6; i++ {
		var s float64
		for j := 0; j < 6; j++ {
			s += m[i][j] * v[j]
		}
		r[i] = s
	}
	return r
}

// Block returns the 3x3 sub-matrix starting at row r and column c (each 0 or 3).
func (m Matrix6) Block(r, c int) Matrix3 {
	var b Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = m[r+i][c+j]
		}
	}
	return b
}

// SetBlock writes b into the sub-matrix starting at row r and column c.
func (m *Matrix6) SetBlock(r, c int, b Matrix3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[r+i][c+j] = b[i][j]
		}
	}
}
