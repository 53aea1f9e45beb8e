package orbgo_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orbgo"
	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/testutil"
)

const (
	posTolKm  = 2e-3
	velTolKmS = 2e-8
)

var (
	moon    = frames.New(testutil.Moon, frames.J2000)
	earth   = frames.New(testutil.Earth, frames.J2000)
	sun     = frames.New(testutil.Sun, frames.J2000)
	orbiter = frames.New(testutil.Orbiter, frames.J2000)
	itrf93  = frames.New(testutil.Earth, testutil.ITRF93)
)

// writeKernel writes b to a file named name in a fresh temp dir.
func writeKernel(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

// load loads every (alias, content) pair from memory, in order.
func load(t *testing.T, alm *orbgo.Almanac, kernels ...any) *orbgo.Almanac {
	t.Helper()
	require.Zero(t, len(kernels)%2, "alias/content pairs")
	for i := 0; i < len(kernels); i += 2 {
		var err error
		alm, err = alm.LoadBytes(context.Background(), kernels[i].(string), bytes.Clone(kernels[i+1].([]byte)))
		require.NoError(t, err)
	}
	return alm
}

// earthMoon returns an Almanac with the Earth-Moon SPK and the Earth
// rotation BPC loaded from memory.
func earthMoon(t *testing.T, opts ...orbgo.Option) *orbgo.Almanac {
	t.Helper()
	return load(t, orbgo.New(opts...),
		"earth_moon.bsp", testutil.EarthMoonSPK(),
		"earth.bpc", testutil.EarthRotationBPC(),
	)
}

// relativeTruth returns the canned state of target relative to observer in J2000.
func relativeTruth(target, observer int32, epoch astro.Epoch) astro.State {
	tp, tv := testutil.EarthMoonState(target, epoch.Seconds())
	op, ov := testutil.EarthMoonState(observer, epoch.Seconds())
	return astro.State{
		Position: tp.Sub(op),
		Velocity: tv.Sub(ov),
		Epoch:    epoch,
		Frame:    frames.New(observer, frames.J2000),
	}
}

func epochs(n int) []astro.Epoch {
	rng := testutil.NewRNG(42)
	out := make([]astro.Epoch, 0, n)
	for _, et := range rng.Epochs(n, testutil.EarthMoonStart+1e6, testutil.EarthMoonEnd-1e6) {
		out = append(out, astro.FromSeconds(et))
	}
	return out
}
