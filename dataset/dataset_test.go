package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/linalg"
	"github.com/hupe1980/orbgo/rotation"
)

const planetaryYAML = `
kind: planetary_constants
entries:
  - id: 3
    name: EARTH BARYCENTER
    parent_id: 1
    mu_km3_s2: 403503.2355
  - id: 399
    name: IAU_EARTH
    parent_id: 1
    mu_km3_s2: 398600.435436
    shape:
      semi_major_equatorial_radius_km: 6378.1366
      semi_minor_equatorial_radius_km: 6378.1366
      polar_radius_km: 6356.7519
    pole_right_ascension: {offset_deg: 0, rate_deg: -0.641}
    pole_declination: {offset_deg: 90, rate_deg: -0.557}
    prime_meridian: {offset_deg: 190.147, rate_deg: 360.9856235}
  - id: 499
    name: IAU_MARS
    parent_id: 1
    mu_km3_s2: 42828.37362
`

const eulerYAML = `
kind: euler_parameters
entries:
  - id: 31000
    name: MOON_PA
    parent_id: 31001
    w: 0.9999999999920166
    x: -0.0000003823364
    y: 0.0000004039498
    z: 0.0000000007245
`

func TestDecodePlanetaryData(t *testing.T) {
	set, err := DecodePlanetaryData([]byte(planetaryYAML))
	require.NoError(t, err)
	assert.Equal(t, KindPlanetaryConstants, set.Kind())
	assert.Equal(t, 3, set.Len())

	earth, err := set.Get(399)
	require.NoError(t, err)
	assert.Equal(t, "IAU_EARTH", earth.Name)
	assert.Equal(t, int32(1), earth.ParentID)
	require.NotNil(t, earth.Shape)
	assert.Equal(t, 6356.7519, earth.Shape.PolarRadiusKm)
	require.NotNil(t, earth.PrimeMeridian)
	assert.Equal(t, 360.9856235, earth.PrimeMeridian.RateDeg)
	assert.True(t, earth.HasOrientation())

	byName, err := set.GetByName("IAU_MARS")
	require.NoError(t, err)
	assert.Equal(t, int32(499), byName.ID)
	assert.False(t, byName.HasOrientation())

	_, err = set.Get(42)
	require.ErrorIs(t, err, ErrNotFound)
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int32(42), le.ID)

	_, err = set.GetByName("IAU_VENUS")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeEulerParameters(t *testing.T) {
	set, err := DecodeEulerParameters([]byte(eulerYAML))
	require.NoError(t, err)

	pa, err := set.GetByName("MOON_PA")
	require.NoError(t, err)

	dcm := pa.DCM()
	assert.Equal(t, frames.MoonME, dcm.From)
	assert.Equal(t, frames.MoonPA, dcm.To)
	assert.True(t, dcm.HasDt)
	assert.True(t, dcm.IsValid(1e-12, 1e-12))
	assert.Equal(t, linalg.Matrix3{}, dcm.RotDt)
}

func TestDetectKind(t *testing.T) {
	kind, ok := DetectKind([]byte(planetaryYAML))
	require.True(t, ok)
	assert.Equal(t, KindPlanetaryConstants, kind)

	kind, ok = DetectKind([]byte(eulerYAML))
	require.True(t, ok)
	assert.Equal(t, KindEulerParameters, kind)

	_, ok = DetectKind([]byte("kind: spacecraft\n"))
	assert.False(t, ok)
	_, ok = DetectKind([]byte("DAF/SPK \x02\x00\x00\x00"))
	assert.False(t, ok)
	_, ok = DetectKind(nil)
	assert.False(t, ok)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong kind", "kind: euler_parameters\nentries: []\n"},
		{"missing kind", "entries: []\n"},
		{"unknown field", "kind: planetary_constants\nentries:\n  - id: 1\n    mass: 3\n"},
		{"negative mu", "kind: planetary_constants\nentries:\n  - id: 1\n    mu_km3_s2: -1\n"},
		{"non-positive radius", "kind: planetary_constants\nentries:\n  - id: 1\n    shape: {semi_major_equatorial_radius_km: 1, semi_minor_equatorial_radius_km: 1, polar_radius_km: 0}\n"},
		{"too many coefficients", "kind: planetary_constants\nentries:\n  - id: 1\n    prime_meridian: {offset_deg: 0, coeffs: [" + strings.Repeat("1, ", 32) + "1]}\n"},
		{"not yaml", "\x00\x01\x02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePlanetaryData([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestDecodeEulerParameters_Invalid(t *testing.T) {
	_, err := DecodeEulerParameters([]byte("kind: euler_parameters\nentries:\n  - {id: 2, parent_id: 1, w: 0.5}\n"))
	require.ErrorIs(t, err, ErrInvalidDataset)

	_, err = DecodeEulerParameters([]byte("kind: euler_parameters\nentries:\n  - {id: 1, parent_id: 1, w: 1}\n"))
	require.ErrorIs(t, err, ErrInvalidDataset)
}

func TestSet_LastEntryWins(t *testing.T) {
	set, err := NewPlanetaryDataSet(
		PlanetaryData{ID: 10, Name: "SUN", MuKm3S2: 1},
		PlanetaryData{ID: 10, Name: "IAU_SUN", MuKm3S2: 2},
	)
	require.NoError(t, err)

	sun, err := set.Get(10)
	require.NoError(t, err)
	assert.Equal(t, 2.0, sun.MuKm3S2)

	first, err := set.GetByName("SUN")
	require.NoError(t, err)
	assert.Equal(t, 1.0, first.MuKm3S2)
}

func TestSet_Nil(t *testing.T) {
	var set *PlanetaryDataSet
	assert.Equal(t, 0, set.Len())
	assert.Nil(t, set.Entries())
	_, err := set.Get(399)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEncode_RoundTrip(t *testing.T) {
	set, err := DecodePlanetaryData([]byte(planetaryYAML))
	require.NoError(t, err)

	b, err := set.Encode()
	require.NoError(t, err)

	again, err := DecodePlanetaryData(b)
	require.NoError(t, err)
	if diff := cmp.Diff(set.Entries(), again.Entries()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanetaryData_ToFrame(t *testing.T) {
	set, err := DecodePlanetaryData([]byte(planetaryYAML))
	require.NoError(t, err)
	earth, err := set.Get(399)
	require.NoError(t, err)

	f := earth.ToFrame(frames.EarthJ2000)
	assert.True(t, f.IsGeodetic())
	mu, err := f.Mu()
	require.NoError(t, err)
	assert.Equal(t, 398600.435436, mu)
	assert.True(t, f.Equal(frames.EarthJ2000))
}

func TestRotationToParent_Identity(t *testing.T) {
	p := PlanetaryData{ID: 499, ParentID: 1}
	dcm := p.RotationToParent(1e6, p)
	assert.Equal(t, int32(1), dcm.From)
	assert.Equal(t, int32(499), dcm.To)
	assert.Equal(t, linalg.Identity3(), dcm.Rot)
}

func TestRotationToParent_SpinAboutPole(t *testing.T) {
	// Pole along J2000 z: RA + 90 deg = 0 and 90 deg - Dec = 0, leaving the spin.
	const rate = 360.9856235
	p := PlanetaryData{
		ID:                 399,
		ParentID:           1,
		PoleRightAscension: &PhaseAngle{OffsetDeg: -90},
		PoleDeclination:    &PhaseAngle{OffsetDeg: 90},
		PrimeMeridian:      &PhaseAngle{OffsetDeg: 190.147, RateDeg: rate},
	}

	et := 12345.6
	w := (190.147 + rate*et/86400) * math.Pi / 180
	dcm := p.RotationToParent(et, p)
	assert.True(t, dcm.Rot.ApproxEqual(rotation.R3(w), 1e-12))

	wdot := rate * math.Pi / 180 / 86400
	assert.True(t, dcm.RotDt.ApproxEqual(rotation.R3Dot(w).Scale(wdot), 1e-12))
	assert.True(t, dcm.IsValid(1e-12, 1e-12))

	omega := dcm.AngularVelocity()
	assert.InDelta(t, wdot, math.Abs(omega[2]), 1e-12)
}

func TestRotationToParent_NutationPrecession(t *testing.T) {
	system := PlanetaryData{
		ID:            5,
		NutPrecAngles: []PhaseAngle{{OffsetDeg: 73.32, RateDeg: 91472.9}, {OffsetDeg: 24.62, RateDeg: 45137.2}},
	}
	p := PlanetaryData{
		ID:                 599,
		ParentID:           1,
		PoleRightAscension: &PhaseAngle{OffsetDeg: 268.056595, RateDeg: -0.006499, Coeffs: []float64{0.000117, 0.000938}},
		PoleDeclination:    &PhaseAngle{OffsetDeg: 64.495303, RateDeg: 0.002413, Coeffs: []float64{0.00005, 0.000404}},
		PrimeMeridian:      &PhaseAngle{OffsetDeg: 284.95, RateDeg: 870.536},
	}

	et := 7.5e8
	T := et / 3155760000.0
	th0 := (73.32 + 91472.9*T) * math.Pi / 180
	th1 := (24.62 + 45137.2*T) * math.Pi / 180
	ra := (268.056595-0.006499*T+0.000117*math.Sin(th0)+0.000938*math.Sin(th1))*math.Pi/180 + math.Pi/2
	dec := math.Pi/2 - (64.495303+0.002413*T+0.00005*math.Cos(th0)+0.000404*math.Cos(th1))*math.Pi/180
	w := (284.95 + 870.536*et/86400) * math.Pi / 180
	want := rotation.R3(w).Mul(rotation.R1(dec)).Mul(rotation.R3(ra))

	dcm := p.RotationToParent(et, system)
	assert.True(t, dcm.Rot.ApproxEqual(want, 1e-9))

	// Without the system angles the trigonometric terms collapse to constants.
	without := p.RotationToParent(et, PlanetaryData{})
	assert.False(t, without.Rot.ApproxEqual(want, 1e-9))
}

func TestPlanetaryData_String(t *testing.T) {
	set, err := DecodePlanetaryData([]byte(planetaryYAML))
	require.NoError(t, err)
	earth, _ := set.Get(399)
	s := earth.String()
	assert.Contains(t, s, "IAU_EARTH")
	assert.Contains(t, s, "PM = 190.147 + 360.9856235 t")
}
