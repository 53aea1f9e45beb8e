package orbgo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orbgo"
	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/dataset"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/linalg"
	"github.com/hupe1980/orbgo/testutil"
)

func TestTransform(t *testing.T) {
	alm := earthMoon(t)

	for _, et := range bpcEpochs(10) {
		got, err := alm.Transform(moon, itrf93, et, astro.None)
		require.NoError(t, err)
		assert.True(t, got.Frame.Equal(itrf93))
		assert.Equal(t, et, got.Epoch)

		inertial, err := alm.Translate(moon, earth, et, astro.None)
		require.NoError(t, err)
		dcm, err := alm.Rotate(earth, itrf93, et)
		require.NoError(t, err)
		wantPos, wantVel, err := dcm.Apply(frames.J2000, inertial.Position, inertial.Velocity)
		require.NoError(t, err)

		assert.True(t, got.Position.ApproxEqual(wantPos, 1e-9))
		assert.True(t, got.Velocity.ApproxEqual(wantVel, 1e-12))

		// The body-fixed velocity includes the transport term, so it differs
		// from the plain rotation of the inertial velocity.
		plain := dcm.Rot.MulVec(inertial.Velocity)
		assert.False(t, got.Velocity.ApproxEqual(plain, 1e-3))
	}
}

func TestTransform_Aberration(t *testing.T) {
	alm := earthMoon(t)
	et := astro.FromSeconds(6e8)

	got, err := alm.Transform(moon, itrf93, et, astro.CNS)
	require.NoError(t, err)
	translated, err := alm.Translate(moon, earth, et, astro.CNS)
	require.NoError(t, err)
	rotated, err := alm.RotateState(translated, itrf93)
	require.NoError(t, err)
	assert.True(t, got.ApproxEqual(rotated, 1e-9, 1e-12))
}

func TestTransform_Errors(t *testing.T) {
	alm := load(t, orbgo.New(), "earth_moon.bsp", testutil.EarthMoonSPK())

	_, err := alm.Transform(moon, itrf93, astro.FromSeconds(0), astro.None)
	require.ErrorIs(t, err, orbgo.ErrNoOrientationLoaded)

	_, err = earthMoon(t).Transform(moon, itrf93, astro.FromSeconds(testutil.BPCEnd+1e3), astro.None)
	require.ErrorIs(t, err, orbgo.ErrNoOrientationData)
}

func TestTransformTo(t *testing.T) {
	alm := earthMoon(t)
	et := astro.FromSeconds(1.5e8)

	lander := astro.State{
		Position: linalg.Vector3{1737.4, 0, 0},
		Epoch:    et,
		Frame:    moon,
	}
	got, err := alm.TransformTo(lander, itrf93, astro.None)
	require.NoError(t, err)
	assert.True(t, got.Frame.Equal(itrf93))

	origin, err := alm.Transform(moon, itrf93, et, astro.None)
	require.NoError(t, err)
	dcm, err := alm.Rotate(earth, itrf93, et)
	require.NoError(t, err)
	offsetPos, offsetVel, err := dcm.Apply(frames.J2000, lander.Position, lander.Velocity)
	require.NoError(t, err)

	assert.True(t, got.Position.ApproxEqual(origin.Position.Add(offsetPos), 1e-9))
	assert.True(t, got.Velocity.ApproxEqual(origin.Velocity.Add(offsetVel), 1e-12))
}

func TestFrameInfo(t *testing.T) {
	set, err := dataset.DecodePlanetaryData([]byte(planetaryYAML))
	require.NoError(t, err)
	alm := earthMoon(t).WithPlanetaryData(set)

	f, err := alm.FrameInfo(itrf93)
	require.NoError(t, err)
	assert.True(t, f.Equal(itrf93))
	mu, err := f.Mu()
	require.NoError(t, err)
	assert.Equal(t, 398600.435436, mu)
	polar, err := f.PolarRadiusKm()
	require.NoError(t, err)
	assert.Equal(t, 6356.7519, polar)

	_, err = alm.FrameInfo(sun)
	require.ErrorIs(t, err, orbgo.ErrFrameDataNotFound)
	require.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = orbgo.New().FrameInfo(earth)
	require.ErrorIs(t, err, orbgo.ErrFrameDataNotFound)
}
