package orbgo

import (
	"fmt"
	"time"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/frames"
)

// Transform returns the state of target's origin relative to observer's
// origin, corrected for aberration ab and expressed in observer's
// orientation. Velocities account for the rotation rate between the two
// orientations.
func (a *Almanac) Transform(target, observer frames.Frame, epoch astro.Epoch, ab astro.Aberration) (astro.State, error) {
	start := time.Now()
	s, err := a.transform(target, observer, epoch, ab)
	a.opts.metricsCollector.RecordQuery(OpTransform, time.Since(start), err)
	return s, err
}

func (a *Almanac) transform(target, observer frames.Frame, et astro.Epoch, ab astro.Aberration) (astro.State, error) {
	s, err := a.translate(target, observer, et, ab)
	if err != nil {
		return astro.State{}, err
	}
	return a.rotateInto(s, observer, et)
}

func (a *Almanac) rotateInto(s astro.State, observer frames.Frame, et astro.Epoch) (astro.State, error) {
	dcm, err := a.rotation(s.Frame.OrientationID, observer.OrientationID, et)
	if err != nil {
		return astro.State{}, err
	}
	out, err := s.Rotate(dcm)
	if err != nil {
		return astro.State{}, err
	}
	out.Frame = observer
	return out, nil
}

// TransformTo returns state, given relative to its own frame, relative to
// observer's origin and expressed in observer's orientation.
func (a *Almanac) TransformTo(state astro.State, observer frames.Frame, ab astro.Aberration) (astro.State, error) {
	start := time.Now()
	s, err := a.transformTo(state, observer, ab)
	a.opts.metricsCollector.RecordQuery(OpTransformStates, time.Since(start), err)
	return s, err
}

func (a *Almanac) transformTo(state astro.State, observer frames.Frame, ab astro.Aberration) (astro.State, error) {
	et := state.Epoch
	origin, err := a.translate(state.Frame, observer, et, ab)
	if err != nil {
		return astro.State{}, err
	}
	origin.Position = origin.Position.Add(state.Position)
	origin.Velocity = origin.Velocity.Add(state.Velocity)
	return a.rotateInto(origin, observer, et)
}

// FrameInfo returns f annotated with the gravitational parameter and shape
// of its ephemeris origin from the planetary constants.
func (a *Almanac) FrameInfo(f frames.Frame) (frames.Frame, error) {
	p, err := a.planetary.Get(f.EphemerisID)
	if err != nil {
		return f, fmt.Errorf("%w: %s: %w", ErrFrameDataNotFound, f, err)
	}
	return p.ToFrame(f), nil
}
