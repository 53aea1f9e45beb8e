package orbgo

import (
	"math"
	"time"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/daf"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/linalg"
)

const (
	// ConvergedLightTimeIterations is the maximum number of light-time
	// iterations of the converged aberration modes.
	ConvergedLightTimeIterations = 3

	// lightTimeTolerance stops the converged iteration early, in seconds.
	lightTimeTolerance = 1e-12
)

// segmentRef is one segment of a loaded kernel.
type segmentRef struct {
	daf *daf.DAF
	s   daf.Summary
}

// ephemerisPath is the chain of centers from a body up to the ephemeris
// root. nodes[0] is the body; hops[i] moves from nodes[i] to nodes[i+1].
type ephemerisPath struct {
	nodes [MaxTreeDepth + 1]int32
	hops  [MaxTreeDepth]segmentRef
	n     int
}

// spkSummary returns the segment for id covering et, searching the most
// recently loaded kernel first.
func (a *Almanac) spkSummary(id int32, et astro.Epoch) (segmentRef, error) {
	for i := len(a.spk) - 1; i >= 0; i-- {
		d := a.spk[i].daf
		if s, _, err := d.SummaryAt(id, et); err == nil {
			return segmentRef{daf: d, s: s}, nil
		}
	}
	return segmentRef{}, &daf.SummaryError{Kind: daf.KindSPK, ID: id, Epoch: et}
}

func (a *Almanac) ephemerisPath(id int32, et astro.Epoch) (ephemerisPath, error) {
	var p ephemerisPath
	p.nodes[0] = id
	p.n = 1
	for cur := id; cur != a.root; {
		if p.n > MaxTreeDepth {
			return p, &TreeDepthError{Tree: "ephemeris", ID: id, Epoch: et}
		}
		ref, err := a.spkSummary(cur, et)
		if err != nil {
			return p, err
		}
		p.hops[p.n-1] = ref
		cur = ref.s.Center
		p.nodes[p.n] = cur
		p.n++
	}
	return p, nil
}

func (p *ephemerisPath) index(id int32) int {
	for i := range p.n {
		if p.nodes[i] == id {
			return i
		}
	}
	return -1
}

// commonNode returns the first node of a also in b, with its index in both.
func commonNode(a, b *ephemerisPath) (int, int, bool) {
	for i := range a.n {
		if j := b.index(a.nodes[i]); j >= 0 {
			return i, j, true
		}
	}
	return 0, 0, false
}

// sumHops adds the states of the first n hops of p, in J2000.
func (a *Almanac) sumHops(p *ephemerisPath, n int, et astro.Epoch) (linalg.Vector3, linalg.Vector3, error) {
	var pos, vel linalg.Vector3
	for i := range n {
		ref := p.hops[i]
		hp, hv, err := ref.daf.Evaluate(ref.s, et)
		if err != nil {
			return pos, vel, err
		}
		if ref.s.Frame != frames.J2000 {
			dcm, err := a.rotation(ref.s.Frame, frames.J2000, et)
			if err != nil {
				return pos, vel, err
			}
			if hp, hv, err = dcm.Apply(ref.s.Frame, hp, hv); err != nil {
				return pos, vel, err
			}
		}
		pos = pos.Add(hp)
		vel = vel.Add(hv)
	}
	return pos, vel, nil
}

// relativeJ2000 returns the position and velocity of target relative to
// observer in J2000.
func (a *Almanac) relativeJ2000(target, observer int32, et astro.Epoch) (linalg.Vector3, linalg.Vector3, error) {
	var zero linalg.Vector3
	if target == observer {
		return zero, zero, nil
	}
	if len(a.spk) == 0 {
		return zero, zero, ErrNoEphemerisLoaded
	}

	tp, err := a.ephemerisPath(target, et)
	if err != nil {
		return zero, zero, err
	}
	op, err := a.ephemerisPath(observer, et)
	if err != nil {
		return zero, zero, err
	}
	ti, oi, ok := commonNode(&tp, &op)
	if !ok {
		return zero, zero, &TranslationOriginError{
			From:  frames.New(target, frames.J2000),
			To:    frames.New(observer, frames.J2000),
			Epoch: et,
		}
	}

	fwdPos, fwdVel, err := a.sumHops(&tp, ti, et)
	if err != nil {
		return zero, zero, err
	}
	bwdPos, bwdVel, err := a.sumHops(&op, oi, et)
	if err != nil {
		return zero, zero, err
	}
	return fwdPos.Sub(bwdPos), fwdVel.Sub(bwdVel), nil
}

// toOrientation rotates a J2000 position and velocity into orient.
func (a *Almanac) toOrientation(orient int32, pos, vel linalg.Vector3, et astro.Epoch) (linalg.Vector3, linalg.Vector3, error) {
	if orient == frames.J2000 {
		return pos, vel, nil
	}
	dcm, err := a.rotation(frames.J2000, orient, et)
	if err != nil {
		return pos, vel, err
	}
	return dcm.Apply(frames.J2000, pos, vel)
}

// TranslateGeometric returns the geometric state of target's origin
// relative to observer's origin at epoch, expressed in target's
// orientation. The result is framed as observer with target's orientation.
func (a *Almanac) TranslateGeometric(target, observer frames.Frame, epoch astro.Epoch) (astro.State, error) {
	return a.Translate(target, observer, epoch, astro.None)
}

// Translate returns the state of target's origin relative to observer's
// origin at epoch, corrected for aberration ab, expressed in target's
// orientation.
//
// For the light-time modes the observer is evaluated at epoch and the
// target at the epoch the signal left (or, for transmission, reaches) it.
// The returned velocity is the target's velocity at that epoch minus the
// observer's at epoch.
func (a *Almanac) Translate(target, observer frames.Frame, epoch astro.Epoch, ab astro.Aberration) (astro.State, error) {
	start := time.Now()
	s, err := a.translate(target, observer, epoch, ab)
	a.opts.metricsCollector.RecordQuery(OpTranslate, time.Since(start), err)
	return s, err
}

func (a *Almanac) translate(target, observer frames.Frame, et astro.Epoch, ab astro.Aberration) (astro.State, error) {
	out := astro.ZeroState(et, observer.WithOrient(target.OrientationID))
	if target.EphemerisID == observer.EphemerisID {
		return out, nil
	}

	var (
		pos, vel linalg.Vector3
		err      error
	)
	if ab.IsNone() {
		pos, vel, err = a.relativeJ2000(target.EphemerisID, observer.EphemerisID, et)
	} else {
		pos, vel, err = a.aberrated(target.EphemerisID, observer.EphemerisID, et, ab)
	}
	if err != nil {
		return astro.State{}, err
	}

	if out.Position, out.Velocity, err = a.toOrientation(target.OrientationID, pos, vel, et); err != nil {
		return astro.State{}, err
	}
	return out, nil
}

// aberrated applies the light-time and stellar corrections of ab. States
// are taken relative to the ephemeris root in J2000. Every failed target
// lookup, including the geometric estimate at et, is a *LightTimeError.
func (a *Almanac) aberrated(target, observer int32, et astro.Epoch, ab astro.Aberration) (linalg.Vector3, linalg.Vector3, error) {
	var zero linalg.Vector3

	obsPos, obsVel, err := a.relativeJ2000(observer, a.root, et)
	if err != nil {
		return zero, zero, err
	}
	lookupFailed := func(at astro.Epoch, cause error) error {
		return &LightTimeError{
			Epoch:        et,
			ShiftedEpoch: at,
			Aberration:   ab,
			cause:        cause,
		}
	}
	tgtPos, tgtVel, err := a.relativeJ2000(target, a.root, et)
	if err != nil {
		return zero, zero, lookupFailed(et, err)
	}

	relPos := tgtPos.Sub(obsPos)
	lt := relPos.Norm() / frames.SpeedOfLightKmS

	iterations := 1
	if ab.IsConverged() {
		iterations = ConvergedLightTimeIterations
	}
	sign := -1.0
	if ab.IsTransmit() {
		sign = 1.0
	}

	for range iterations {
		shifted := et.Add(sign * lt)
		tgtPos, tgtVel, err = a.relativeJ2000(target, a.root, shifted)
		if err != nil {
			return zero, zero, lookupFailed(shifted, err)
		}
		relPos = tgtPos.Sub(obsPos)
		next := relPos.Norm() / frames.SpeedOfLightKmS
		converged := math.Abs(next-lt) < lightTimeTolerance
		lt = next
		if converged {
			break
		}
	}
	relVel := tgtVel.Sub(obsVel)

	if ab.HasStellar() {
		if relPos, err = astro.StellarAberration(relPos, obsVel, ab); err != nil {
			return zero, zero, err
		}
	}
	return relPos, relVel, nil
}

// StateOf returns the state of body id relative to observer, in observer's
// orientation.
func (a *Almanac) StateOf(id int32, observer frames.Frame, epoch astro.Epoch, ab astro.Aberration) (astro.State, error) {
	return a.Translate(frames.New(id, observer.OrientationID), observer, epoch, ab)
}

// TranslateTo returns state, given relative to the origin of its own frame,
// relative to observer's origin. The result keeps state's orientation.
func (a *Almanac) TranslateTo(state astro.State, observer frames.Frame, ab astro.Aberration) (astro.State, error) {
	origin, err := a.Translate(state.Frame, observer, state.Epoch, ab)
	if err != nil {
		return astro.State{}, err
	}
	origin.Position = origin.Position.Add(state.Position)
	origin.Velocity = origin.Velocity.Add(state.Velocity)
	return origin, nil
}
