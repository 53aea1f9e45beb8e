package dataset

import (
	"fmt"
	"math"

	"github.com/hupe1980/orbgo/rotation"
)

// normTolerance bounds how far the stored parameters may be from unit norm.
const normTolerance = 1e-6

// EulerParameter is a fixed rotation from the orientation ParentID into the
// orientation ID, stored as a unit quaternion (passive, Hamiltonian).
type EulerParameter struct {
	ID       int32   `yaml:"id"`
	Name     string  `yaml:"name,omitempty"`
	ParentID int32   `yaml:"parent_id"`
	W        float64 `yaml:"w"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
}

// FromQuaternion returns the Euler parameters of q, named name.
func FromQuaternion(q rotation.Quaternion, name string) EulerParameter {
	return EulerParameter{ID: q.To, Name: name, ParentID: q.From, W: q.W, X: q.X, Y: q.Y, Z: q.Z}
}

func (e EulerParameter) key() (int32, string) { return e.ID, e.Name }

func (e *EulerParameter) check() error {
	if e.ID == e.ParentID {
		return fmt.Errorf("id %d: rotation onto itself", e.ID)
	}
	n := e.Quaternion().Norm()
	if math.IsNaN(n) || math.Abs(n-1) > normTolerance {
		return fmt.Errorf("id %d: norm %g is not one", e.ID, n)
	}
	return nil
}

// Quaternion returns the rotation as a quaternion from ParentID to ID.
func (e EulerParameter) Quaternion() rotation.Quaternion {
	return rotation.Quaternion{W: e.W, X: e.X, Y: e.Y, Z: e.Z, From: e.ParentID, To: e.ID}
}

// DCM returns the rotation from ParentID to ID with a zero derivative.
func (e EulerParameter) DCM() rotation.DCM {
	dcm := e.Quaternion().DCM()
	dcm.HasDt = true
	return dcm
}

func (e EulerParameter) String() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("frame %d", e.ID)
	}
	axis, angle := e.Quaternion().AxisAngle()
	return fmt.Sprintf("%s from %d: %.6f deg about [%.6f, %.6f, %.6f]", name, e.ParentID, angle*180/math.Pi, axis[0], axis[1], axis[2])
}
