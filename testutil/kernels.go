package testutil

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/linalg"
)

const (
	day  = 86400.0
	year = 365.25 * day

	typeChebyshev          = 2
	typeChebyshevSextuplet = 3
	typeLagrangeEqual      = 8
	typeLagrangeUnequal    = 9
	typeHermiteEqual       = 12
	typeHermiteUnequal     = 13

	j2000 = 1
)

// Well-known ids used by the canned kernels.
const (
	SSB      = 0
	EMB      = 3
	Sun      = 10
	Moon     = 301
	Earth    = 399
	Orbiter  = -85
	ITRF93   = 3000
	ChainID0 = 1000
)

var (
	// EarthMoonStart and EarthMoonEnd bound every segment of EarthMoonSPK.
	EarthMoonStart = astro.FromGregorianTDB(1849, time.December, 26, 0, 0, 0, 0).Seconds()
	EarthMoonEnd   = astro.FromGregorianTDB(2150, time.January, 21, 0, 0, 0, 0).Seconds()

	// SunOrbit is the Sun about the solar system barycenter.
	SunOrbit = CircularOrbit{RadiusKm: 7.4e5, PeriodS: 11.862 * year, PhaseRad: 0.3}
	// EMBOrbit is the Earth-Moon barycenter about the solar system barycenter.
	EMBOrbit = CircularOrbit{RadiusKm: 1.496e8, PeriodS: 365.256363 * day, PhaseRad: 1.75, InclinationRad: 0.40909280422232897}
	// MoonOrbit is the Moon about the Earth-Moon barycenter.
	MoonOrbit = CircularOrbit{RadiusKm: 379700, PeriodS: 27.321661 * day, PhaseRad: 0.5, InclinationRad: 0.5}
	// EarthOrbit is the Earth about the Earth-Moon barycenter, opposite the Moon.
	EarthOrbit = CircularOrbit{RadiusKm: 4671, PeriodS: 27.321661 * day, PhaseRad: 0.5 + math.Pi, InclinationRad: 0.5}

	// OrbiterStart is the first sample of the discrete orbiter kernels.
	OrbiterStart = astro.FromGregorianTDB(2025, time.January, 1, 0, 0, 0, 0).Seconds()
	// OrbiterStep is the sample spacing of the discrete orbiter kernels.
	OrbiterStep = 60.0
	// OrbiterSamples is the number of samples in the discrete orbiter kernels.
	OrbiterSamples = 1441
	// OrbiterOrbit is a low lunar orbit relative to the Moon.
	OrbiterOrbit = CircularOrbit{RadiusKm: 1837.4, PeriodS: 7064, PhaseRad: 0.2, InclinationRad: 1.57}

	// ChainStart and ChainEnd bound every segment of ChainSPK.
	ChainStart = -3.2e9
	ChainEnd   = 3.2e9

	// BPCStart and BPCEnd bound the segment of EarthRotationBPC.
	BPCStart = -1e9
	BPCEnd   = 2e9
)

// OrbiterEnd returns the last sample epoch of the discrete orbiter kernels.
func OrbiterEnd() float64 {
	return OrbiterStart + float64(OrbiterSamples-1)*OrbiterStep
}

var (
	earthMoonOnce sync.Once
	earthMoonLE   []byte
	earthMoonBE   []byte
)

func earthMoonBuilder(order binary.ByteOrder) *Builder {
	start, end := EarthMoonStart, EarthMoonEnd
	return NewSPKBuilder().
		WithByteOrder(order).
		WithInternalName("orbgo Earth-Moon system").
		WithComments("Synthetic Earth-Moon system.\nCircular orbits, generated for tests.").
		AddSPKSegment("SUN", Sun, SSB, j2000, typeChebyshev, start, end,
			ChebyshevSegment(SunOrbit.State, start, end, 256*day, 8)).
		AddSPKSegment("EARTH-MOON BARYCENTER", EMB, SSB, j2000, typeChebyshev, start, end,
			ChebyshevSegment(EMBOrbit.State, start, end, 64*day, 12)).
		AddSPKSegment("MOON", Moon, EMB, j2000, typeChebyshev, start, end,
			ChebyshevSegment(MoonOrbit.State, start, end, 16*day, 18)).
		AddSPKSegment("EARTH", Earth, EMB, j2000, typeChebyshev, start, end,
			ChebyshevSegment(EarthOrbit.State, start, end, 16*day, 18))
}

// EarthMoonSPK returns a little-endian SPK with the Sun, the Earth-Moon
// barycenter, the Earth and the Moon following the canned circular orbits
// from EarthMoonStart to EarthMoonEnd. The slice is shared and must not be
// modified.
func EarthMoonSPK() []byte {
	buildEarthMoon()
	return earthMoonLE
}

// EarthMoonSPKBigEndian returns EarthMoonSPK encoded big-endian.
func EarthMoonSPKBigEndian() []byte {
	buildEarthMoon()
	return earthMoonBE
}

func buildEarthMoon() {
	earthMoonOnce.Do(func() {
		earthMoonLE = earthMoonBuilder(binary.LittleEndian).Bytes()
		earthMoonBE = earthMoonBuilder(binary.BigEndian).Bytes()
	})
}

// EarthMoonState returns the canned state of id relative to the solar
// system barycenter in J2000.
func EarthMoonState(id int32, et float64) (linalg.Vector3, linalg.Vector3) {
	switch id {
	case Sun:
		return SunOrbit.State(et)
	case EMB:
		return EMBOrbit.State(et)
	case Moon, Earth:
		bp, bv := EMBOrbit.State(et)
		orbit := MoonOrbit
		if id == Earth {
			orbit = EarthOrbit
		}
		p, v := orbit.State(et)
		return bp.Add(p), bv.Add(v)
	}
	return linalg.Vector3{}, linalg.Vector3{}
}

// ChainSPK returns an SPK in which body ChainID0+i is centered on body
// ChainID0+i-1, for i in 1..depth, and ChainID0+1 is centered on the solar
// system barycenter. Every hop is a fixed offset of 1000 km along x.
func ChainSPK(depth int) []byte {
	b := NewSPKBuilder().WithInternalName("orbgo chain")
	for i := 1; i <= depth; i++ {
		center := int32(ChainID0 + i - 1)
		if i == 1 {
			center = SSB
		}
		b.AddSPKSegment("CHAIN", int32(ChainID0+i), center, j2000, typeChebyshev, ChainStart, ChainEnd,
			ChebyshevSegment(Offset(linalg.Vector3{1000, 0, 0}), ChainStart, ChainEnd, ChainEnd-ChainStart, 0))
	}
	return b.Bytes()
}

// EarthRotationAngles returns the canned Euler angles (ra, dec, w) of
// ITRF93 relative to J2000 and their rates.
func EarthRotationAngles(et float64) (linalg.Vector3, linalg.Vector3) {
	const rate = 7.292115146706979e-5
	return linalg.Vector3{0.01, 1.5, 4.894961212823756 + rate*et}, linalg.Vector3{0, 0, rate}
}

// EarthRotationBPC returns a BPC orienting ITRF93 relative to J2000 with
// EarthRotationAngles between BPCStart and BPCEnd.
func EarthRotationBPC() []byte {
	angles := func(et float64) linalg.Vector3 {
		a, _ := EarthRotationAngles(et)
		return a
	}
	return NewBPCBuilder().
		WithInternalName("orbgo Earth rotation").
		AddBPCSegment("ITRF93", ITRF93, j2000, typeChebyshev, BPCStart, BPCEnd,
			AngleSegment(angles, BPCStart, BPCEnd, 30*day, 1)).
		Bytes()
}

// OrbiterState returns the canned orbiter state relative to the Moon in J2000.
func OrbiterState(et float64) (linalg.Vector3, linalg.Vector3) {
	return OrbiterOrbit.State(et)
}

// OrbiterSPK returns an SPK of the orbiter relative to the Moon using one of
// the discrete data types 8, 9, 12 or 13, with a window of eight samples.
func OrbiterSPK(dataType int32) []byte {
	var data []float64
	switch dataType {
	case typeLagrangeEqual, typeHermiteEqual:
		data = EqualStepSegment(OrbiterState, OrbiterStart, OrbiterStep, OrbiterSamples, 7)
	case typeLagrangeUnequal, typeHermiteUnequal:
		data = DiscreteSegment(OrbiterState, StepEpochs(OrbiterStart, OrbiterStep, OrbiterSamples), 7)
	default:
		panic("testutil: not a discrete data type")
	}
	return NewSPKBuilder().
		WithInternalName("orbgo orbiter").
		AddSPKSegment("ORBITER", Orbiter, Moon, j2000, dataType, OrbiterStart, OrbiterEnd(), data).
		Bytes()
}

// OrbiterChebyshevSPK returns the orbiter as a type 3 segment.
func OrbiterChebyshevSPK() []byte {
	return NewSPKBuilder().
		WithInternalName("orbgo orbiter").
		AddSPKSegment("ORBITER", Orbiter, Moon, j2000, typeChebyshevSextuplet, OrbiterStart, OrbiterEnd(),
			ChebyshevStateSegment(OrbiterState, OrbiterStart, OrbiterEnd(), 1200, 14)).
		Bytes()
}
