package orbgo

import (
	"time"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/daf"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/linalg"
	"github.com/hupe1980/orbgo/rotation"
)

// orientationPath is the chain of parent orientations from a frame up to
// J2000. dcms[i] rotates nodes[i+1] into nodes[i].
type orientationPath struct {
	nodes [MaxTreeDepth + 1]int32
	dcms  [MaxTreeDepth]rotation.DCM
	n     int
}

func (p *orientationPath) index(id int32) int {
	for i := range p.n {
		if p.nodes[i] == id {
			return i
		}
	}
	return -1
}

// toNode returns the rotation from nodes[i] into nodes[0].
func (p *orientationPath) toNode(i int) (rotation.DCM, error) {
	acc := rotation.Identity(p.nodes[i], p.nodes[i])
	for k := i - 1; k >= 0; k-- {
		var err error
		if acc, err = p.dcms[k].Mul(acc); err != nil {
			return rotation.DCM{}, err
		}
	}
	return acc, nil
}

func (a *Almanac) hasOrientationData() bool {
	return len(a.bpc) > 0 || a.euler.Len() > 0 || a.planetary.Len() > 0
}

// rotationToParent returns the rotation from the parent of orient into
// orient. It tries, in order: the fixed ECLIPJ2000 obliquity, BPC segments
// (most recently loaded first), Euler parameters and planetary constants.
func (a *Almanac) rotationToParent(orient int32, et astro.Epoch) (rotation.DCM, error) {
	if orient == frames.EclipJ2000 {
		return rotation.DCM{
			Rot:   rotation.R1(frames.J2000ToEclipJ2000AngleRad),
			HasDt: true,
			From:  frames.J2000,
			To:    frames.EclipJ2000,
		}, nil
	}
	if !a.hasOrientationData() {
		return rotation.DCM{}, ErrNoOrientationLoaded
	}

	for i := len(a.bpc) - 1; i >= 0; i-- {
		d := a.bpc[i].daf
		if s, _, err := d.SummaryAt(orient, et); err == nil {
			return bpcRotation(d, s, et)
		}
	}

	if e, err := a.euler.Get(orient); err == nil {
		return e.DCM(), nil
	}

	if p, err := a.planetary.Get(orient); err == nil {
		system := p
		if parent, err := a.planetary.Get(p.ParentID); err == nil && len(parent.NutPrecAngles) > 0 {
			system = parent
		}
		return p.RotationToParent(et.Seconds(), system), nil
	}

	return rotation.DCM{}, &OrientationError{ID: orient, Epoch: et}
}

// bpcRotation evaluates the 3-1-3 Euler angles (ra, dec, w) of a BPC
// segment: R = R3(w) R1(dec) R3(ra), with the derivative by the product rule.
func bpcRotation(d *daf.DAF, s daf.Summary, et astro.Epoch) (rotation.DCM, error) {
	angles, rates, err := d.Evaluate(s, et)
	if err != nil {
		return rotation.DCM{}, err
	}
	ra, dec, w := angles[0], angles[1], angles[2]

	r3w, r1d, r3a := rotation.R3(w), rotation.R1(dec), rotation.R3(ra)
	rot := r3w.Mul(r1d).Mul(r3a)

	dw := rotation.R3Dot(w).Scale(rates[2]).Mul(r1d).Mul(r3a)
	dd := r3w.Mul(rotation.R1Dot(dec).Scale(rates[1])).Mul(r3a)
	da := r3w.Mul(r1d).Mul(rotation.R3Dot(ra).Scale(rates[0]))

	return rotation.DCM{
		Rot:   rot,
		RotDt: dw.Add(dd).Add(da),
		HasDt: true,
		From:  s.Frame,
		To:    s.ID,
	}, nil
}

func (a *Almanac) orientationPath(id int32, et astro.Epoch) (orientationPath, error) {
	var p orientationPath
	p.nodes[0] = id
	p.n = 1
	for cur := id; cur != frames.J2000; {
		if p.n > MaxTreeDepth {
			return p, &TreeDepthError{Tree: "orientation", ID: id, Epoch: et}
		}
		dcm, err := a.rotationToParent(cur, et)
		if err != nil {
			return p, err
		}
		p.dcms[p.n-1] = dcm
		cur = dcm.From
		p.nodes[p.n] = cur
		p.n++
	}
	return p, nil
}

// rotation returns the rotation from orientation from into orientation to.
func (a *Almanac) rotation(from, to int32, et astro.Epoch) (rotation.DCM, error) {
	if from == to {
		return rotation.Identity(from, to), nil
	}

	fp, err := a.orientationPath(from, et)
	if err != nil {
		return rotation.DCM{}, err
	}
	tp, err := a.orientationPath(to, et)
	if err != nil {
		return rotation.DCM{}, err
	}

	fi, ti := -1, -1
	for i := range fp.n {
		if j := tp.index(fp.nodes[i]); j >= 0 {
			fi, ti = i, j
			break
		}
	}
	if fi < 0 {
		// Both chains end at J2000.
		return rotation.DCM{}, &OrientationError{ID: from, Epoch: et}
	}

	fromCommon, err := fp.toNode(fi)
	if err != nil {
		return rotation.DCM{}, err
	}
	toCommon, err := tp.toNode(ti)
	if err != nil {
		return rotation.DCM{}, err
	}
	return toCommon.Mul(fromCommon.Transpose())
}

// Rotate returns the rotation from from's orientation into to's orientation
// at epoch, with its time derivative. The ephemeris origins are ignored.
func (a *Almanac) Rotate(from, to frames.Frame, epoch astro.Epoch) (rotation.DCM, error) {
	start := time.Now()
	dcm, err := a.rotation(from.OrientationID, to.OrientationID, epoch)
	a.opts.metricsCollector.RecordQuery(OpRotate, time.Since(start), err)
	return dcm, err
}

// AngularVelocity returns the angular velocity of to relative to from at
// epoch, expressed in to, in rad/s.
func (a *Almanac) AngularVelocity(from, to frames.Frame, epoch astro.Epoch) (linalg.Vector3, error) {
	dcm, err := a.Rotate(from, to, epoch)
	if err != nil {
		return linalg.Vector3{}, err
	}
	return dcm.AngularVelocity(), nil
}

// RotateState rotates state into the orientation of to, keeping its origin.
func (a *Almanac) RotateState(state astro.State, to frames.Frame) (astro.State, error) {
	dcm, err := a.Rotate(state.Frame, to, state.Epoch)
	if err != nil {
		return astro.State{}, err
	}
	return state.Rotate(dcm)
}
