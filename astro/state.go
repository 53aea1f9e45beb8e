package astro

import (
	"errors"
	"fmt"

	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/linalg"
	"github.com/hupe1980/orbgo/rotation"
)

// ErrStateMismatch is returned when combining states with different frames or epochs.
var ErrStateMismatch = errors.New("state mismatch")

// State is a Cartesian position (km) and velocity (km/s) of the frame's
// ephemeris origin's target, expressed in Frame at Epoch.
type State struct {
	Position linalg.Vector3
	Velocity linalg.Vector3
	Epoch    Epoch
	Frame    frames.Frame
}

// ZeroState returns a state at the origin of frame.
func ZeroState(epoch Epoch, frame frames.Frame) State {
	return State{Epoch: epoch, Frame: frame}
}

// Add returns the component-wise sum of two states sharing frame and epoch.
func (s State) Add(o State) (State, error) {
	if err := s.compatible(o, "add"); err != nil {
		return State{}, err
	}
	s.Position = s.Position.Add(o.Position)
	s.Velocity = s.Velocity.Add(o.Velocity)
	return s, nil
}

// Sub returns the component-wise difference of two states sharing frame and epoch.
func (s State) Sub(o State) (State, error) {
	if err := s.compatible(o, "subtract"); err != nil {
		return State{}, err
	}
	s.Position = s.Position.Sub(o.Position)
	s.Velocity = s.Velocity.Sub(o.Velocity)
	return s, nil
}

// Neg returns the state with position and velocity negated.
func (s State) Neg() State {
	s.Position = s.Position.Neg()
	s.Velocity = s.Velocity.Neg()
	return s
}

func (s State) compatible(o State, op string) error {
	if !s.Frame.Equal(o.Frame) {
		return fmt.Errorf("%w: cannot %s states in %s and %s", ErrStateMismatch, op, s.Frame, o.Frame)
	}
	if s.Epoch != o.Epoch {
		return fmt.Errorf("%w: cannot %s states at %s and %s", ErrStateMismatch, op, s.Epoch, o.Epoch)
	}
	return nil
}

// Rotate applies dcm, whose source frame must be the state's orientation.
// The result is expressed in dcm.To.
func (s State) Rotate(dcm rotation.DCM) (State, error) {
	p, v, err := dcm.Apply(s.Frame.OrientationID, s.Position, s.Velocity)
	if err != nil {
		return State{}, err
	}
	s.Position, s.Velocity = p, v
	s.Frame = s.Frame.WithOrient(dcm.To)
	return s, nil
}

// RangeKm returns the norm of the position.
func (s State) RangeKm() float64 { return s.Position.Norm() }

// SpeedKmS returns the norm of the velocity.
func (s State) SpeedKmS() float64 { return s.Velocity.Norm() }

// LightTime returns the one-way light time in seconds over the position norm.
func (s State) LightTime() float64 {
	return s.Position.Norm() / frames.SpeedOfLightKmS
}

// ApproxEqual reports whether the states share frame and epoch and their
// positions and velocities agree within the given tolerances.
func (s State) ApproxEqual(o State, posTolKm, velTolKmS float64) bool {
	return s.Frame.Equal(o.Frame) &&
		s.Epoch == o.Epoch &&
		s.Position.ApproxEqual(o.Position, posTolKm) &&
		s.Velocity.ApproxEqual(o.Velocity, velTolKmS)
}

func (s State) String() string {
	return fmt.Sprintf("[%s] %s\tposition = [%.6f, %.6f, %.6f] km\tvelocity = [%.6f, %.6f, %.6f] km/s",
		s.Frame, s.Epoch,
		s.Position[0], s.Position[1], s.Position[2],
		s.Velocity[0], s.Velocity[1], s.Velocity[2])
}
