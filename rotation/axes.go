package rotation

import (
	"math"

	"github.com/hupe1980/orbgo/linalg"
)

// R1 returns the passive rotation matrix about the X axis by angle radians.
func R1(angle float64) linalg.Matrix3 {
	s, c := math.Sincos(angle)
	return linalg.Matrix3{{1, 0, 0}, {0, c, s}, {0, -s, c}}
}

// R2 returns the passive rotation matrix about the Y axis by angle radians.
func R2(angle float64) linalg.Matrix3 {
	s, c := math.Sincos(angle)
	return linalg.Matrix3{{c, 0, -s}, {0, 1, 0}, {s, 0, c}}
}

// R3 returns the passive rotation matrix about the Z axis by angle radians.
func R3(angle float64) linalg.Matrix3 {
	s, c := math.Sincos(angle)
	return linalg.Matrix3{{c, s, 0}, {-s, c, 0}, {0, 0, 1}}
}

// R1Dot returns d(R1)/d(angle).
func R1Dot(angle float64) linalg.Matrix3 {
	s, c := math.Sincos(angle)
	return linalg.Matrix3{{0, 0, 0}, {0, -s, c}, {0, -c, -s}}
}

// R2Dot returns d(R2)/d(angle).
func R2Dot(angle float64) linalg.Matrix3 {
	s, c := math.Sincos(angle)
	return linalg.Matrix3{{-s, 0, -c}, {0, 0, 0}, {c, 0, -s}}
}

// R3Dot returns d(R3)/d(angle).
func R3Dot(angle float64) linalg.Matrix3 {
	s, c := math.Sincos(angle)
	return linalg.Matrix3{{-s, c, 0}, {-c, -s, 0}, {0, 0, 0}}
}
