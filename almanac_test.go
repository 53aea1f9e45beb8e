package orbgo_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orbgo"
	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/blobstore"
	"github.com/hupe1980/orbgo/daf"
	"github.com/hupe1980/orbgo/resource"
	"github.com/hupe1980/orbgo/testutil"
)

const planetaryYAML = `
kind: planetary_constants
entries:
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
  - id: 301
    name: IAU_MOON
    parent_id: 1
    mu_km3_s2: 4902.800066
`

func TestLoad_File(t *testing.T) {
	ctx := context.Background()
	path := writeKernel(t, "earth_moon.bsp", testutil.EarthMoonSPK())

	empty := orbgo.New()
	alm, err := empty.Load(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, 0, empty.NumLoadedSPK(), "receiver must not change")
	assert.Equal(t, 1, alm.NumLoadedSPK())
	assert.Equal(t, 0, alm.NumLoadedBPC())

	kernels := alm.Kernels()
	require.Len(t, kernels, 1)
	assert.Equal(t, path, kernels[0].Alias)
	assert.Equal(t, "SPK", kernels[0].Kind)
	assert.Equal(t, 4, kernels[0].Segments)
	assert.Equal(t, len(testutil.EarthMoonSPK()), kernels[0].Size)
	assert.True(t, kernels[0].Mapped)
}

func TestLoad_Heap(t *testing.T) {
	path := writeKernel(t, "earth_moon.bsp", testutil.EarthMoonSPK())

	alm, err := orbgo.New(orbgo.WithMmap(false)).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, alm.Kernels(), 1)
	assert.False(t, alm.Kernels()[0].Mapped)

	mapped, err := orbgo.New().Load(context.Background(), path)
	require.NoError(t, err)

	et := astro.FromSeconds(testutil.EarthMoonStart + 1e8)
	a, err := alm.Translate(moon, earth, et, astro.None)
	require.NoError(t, err)
	b, err := mapped.Translate(moon, earth, et, astro.None)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestLoad_DuplicateAlias(t *testing.T) {
	path := writeKernel(t, "earth_moon.bsp", testutil.EarthMoonSPK())

	alm, err := orbgo.New().Load(context.Background(), path)
	require.NoError(t, err)

	_, err = alm.Load(context.Background(), path)
	require.ErrorIs(t, err, orbgo.ErrDuplicateAlias)

	var le *orbgo.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Alias)

	var ae *orbgo.AliasError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, path, ae.Alias)
}

func TestLoad_Compressed(t *testing.T) {
	raw := testutil.EarthMoonSPK()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstdKernel := enc.EncodeAll(raw, nil)
	require.NoError(t, enc.Close())

	var lz4Kernel bytes.Buffer
	w := lz4.NewWriter(&lz4Kernel)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	et := astro.FromSeconds(testutil.EarthMoonStart + 3e8)
	want := relativeTruth(testutil.Moon, testutil.Earth, et)

	for name, b := range map[string][]byte{
		"earth_moon.bsp.zst": zstdKernel,
		"earth_moon.bsp.lz4": lz4Kernel.Bytes(),
	} {
		t.Run(name, func(t *testing.T) {
			path := writeKernel(t, name, b)
			alm, err := orbgo.New().Load(context.Background(), path)
			require.NoError(t, err)
			require.Len(t, alm.Kernels(), 1)
			assert.False(t, alm.Kernels()[0].Mapped)

			got, err := alm.Translate(moon, earth, et, astro.None)
			require.NoError(t, err)
			assert.True(t, got.ApproxEqual(want, posTolKm, velTolKmS), "got %s, want %s", got, want)
		})
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    error
	}{
		{
			name:    "git-lfs pointer",
			content: []byte("version https://git-lfs.github.com/spec/v1\noid sha256:4d7a\nsize 12345\n"),
			want:    orbgo.ErrGitLFSPointer,
		},
		{
			name:    "unknown content",
			content: []byte("this is not a kernel"),
			want:    orbgo.ErrUnknownContent,
		},
		{
			name:    "truncated DAF",
			content: bytes.Clone(testutil.EarthMoonSPK()[:512]),
			want:    daf.ErrInvalidFileFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orbgo.New().LoadBytes(context.Background(), tt.name, tt.content)
			require.ErrorIs(t, err, tt.want)

			var le *orbgo.LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.name, le.Alias)
		})
	}
}

func TestLoad_Datasets(t *testing.T) {
	path := writeKernel(t, "pck.yaml", []byte(planetaryYAML))

	alm, err := orbgo.New().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, alm.NumLoadedSPK())
	require.NotNil(t, alm.PlanetaryData())
	assert.Equal(t, 2, alm.PlanetaryData().Len())
	assert.Nil(t, alm.EulerParameters())
	assert.Empty(t, alm.Kernels())

	p, err := alm.PlanetaryData().GetByName("IAU_MOON")
	require.NoError(t, err)
	assert.Equal(t, int32(301), p.ID)
}

func TestLoad_ResidencyBudget(t *testing.T) {
	kernel := testutil.EarthMoonSPK()

	t.Run("over budget", func(t *testing.T) {
		rc := resource.NewController(resource.Config{ResidentBytesLimit: 1024})
		_, err := orbgo.New(orbgo.WithResourceController(rc)).
			LoadBytes(context.Background(), "earth_moon.bsp", bytes.Clone(kernel))
		require.ErrorIs(t, err, orbgo.ErrResidencyBudget)
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("heap kernels are charged", func(t *testing.T) {
		rc := resource.NewController(resource.Config{ResidentBytesLimit: 64 << 20})
		alm, err := orbgo.New(orbgo.WithResourceController(rc)).
			LoadBytes(context.Background(), "earth_moon.bsp", bytes.Clone(kernel))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rc.MemoryUsage(), int64(len(kernel)))
		assert.Equal(t, 1, alm.NumLoadedSPK())
	})

	t.Run("mapped kernels are free", func(t *testing.T) {
		rc := resource.NewController(resource.Config{ResidentBytesLimit: 1024})
		path := writeKernel(t, "earth_moon.bsp", kernel)
		_, err := orbgo.New(orbgo.WithResourceController(rc)).Load(context.Background(), path)
		require.NoError(t, err)
		assert.Zero(t, rc.MemoryUsage())
	})
}

func TestLoadBlob(t *testing.T) {
	ctx := context.Background()
	et := astro.FromSeconds(testutil.EarthMoonStart + 5e8)
	want := relativeTruth(testutil.Moon, testutil.Earth, et)

	t.Run("local store", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "spk"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "spk", "earth_moon.bsp"), testutil.EarthMoonSPK(), 0o644))

		alm, err := orbgo.New().LoadBlob(ctx, blobstore.NewLocalStore(dir), "spk/earth_moon.bsp")
		require.NoError(t, err)
		require.Len(t, alm.Kernels(), 1)
		assert.Equal(t, "spk/earth_moon.bsp", alm.Kernels()[0].Alias)
		assert.True(t, alm.Kernels()[0].Mapped)

		got, err := alm.Translate(moon, earth, et, astro.None)
		require.NoError(t, err)
		assert.True(t, got.ApproxEqual(want, posTolKm, velTolKmS))
	})

	t.Run("memory store", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		store.Put("earth_moon.bsp", testutil.EarthMoonSPK())

		alm, err := orbgo.New().LoadBlob(ctx, store, "earth_moon.bsp")
		require.NoError(t, err)
		require.Len(t, alm.Kernels(), 1)
		assert.False(t, alm.Kernels()[0].Mapped)

		got, err := alm.Translate(moon, earth, et, astro.None)
		require.NoError(t, err)
		assert.True(t, got.ApproxEqual(want, posTolKm, velTolKmS))
	})

	t.Run("missing blob", func(t *testing.T) {
		_, err := orbgo.New().LoadBlob(ctx, blobstore.NewMemoryStore(), "nope.bsp")
		require.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}

func TestLoadReader(t *testing.T) {
	rc := resource.NewController(resource.Config{FetchBytesPerSec: 64 << 20})
	alm, err := orbgo.New(orbgo.WithResourceController(rc)).
		LoadReader(context.Background(), "earth.bpc", bytes.NewReader(testutil.EarthRotationBPC()))
	require.NoError(t, err)
	assert.Equal(t, 1, alm.NumLoadedBPC())
	assert.Equal(t, "BPC", alm.Kernels()[0].Kind)
}

func TestSwap(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	earthMoonPath := filepath.Join(dir, "earth_moon.bsp")
	chainPath := filepath.Join(dir, "chain.bsp")
	bpcPath := filepath.Join(dir, "earth.bpc")
	require.NoError(t, os.WriteFile(earthMoonPath, testutil.EarthMoonSPK(), 0o644))
	require.NoError(t, os.WriteFile(chainPath, testutil.ChainSPK(3), 0o644))
	require.NoError(t, os.WriteFile(bpcPath, testutil.EarthRotationBPC(), 0o644))

	for _, mmap := range []bool{true, false} {
		alm, err := orbgo.New(orbgo.WithMmap(mmap)).Load(ctx, earthMoonPath)
		require.NoError(t, err)

		swapped, err := alm.Swap(ctx, earthMoonPath, chainPath)
		require.NoError(t, err)
		require.Equal(t, 1, swapped.NumLoadedSPK())
		assert.Equal(t, earthMoonPath, swapped.Kernels()[0].Alias, "alias is kept")

		et := astro.FromSeconds(0)
		_, err = swapped.Translate(moon, earth, et, astro.None)
		require.ErrorIs(t, err, orbgo.ErrNoInterpolationData)

		chain := swapped.SPKSummaries(testutil.ChainID0 + 3)
		require.Len(t, chain, 1)

		_, err = alm.Translate(moon, earth, et, astro.None)
		require.NoError(t, err, "the old almanac keeps its kernel")
	}
}

func TestSwap_Errors(t *testing.T) {
	ctx := context.Background()
	spkPath := writeKernel(t, "earth_moon.bsp", testutil.EarthMoonSPK())
	bpcPath := writeKernel(t, "earth.bpc", testutil.EarthRotationBPC())

	alm, err := orbgo.New().Load(ctx, spkPath)
	require.NoError(t, err)

	_, err = alm.Swap(ctx, spkPath, bpcPath)
	require.ErrorIs(t, err, orbgo.ErrKindMismatch)

	_, err = alm.Swap(ctx, "de440.bsp", spkPath)
	require.ErrorIs(t, err, orbgo.ErrAliasNotFound)
	var ae *orbgo.AliasError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "de440.bsp", ae.Alias)

	_, err = alm.Swap(ctx, spkPath, filepath.Join(t.TempDir(), "missing.bsp"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnload(t *testing.T) {
	alm := load(t, orbgo.New(),
		"a.bsp", testutil.ChainSPK(1),
		"b.bsp", testutil.ChainSPK(2),
		"c.bsp", testutil.ChainSPK(3),
		"earth.bpc", testutil.EarthRotationBPC(),
	)

	next, err := alm.Unload("a.bsp")
	require.NoError(t, err)

	aliases := func(a *orbgo.Almanac) []string {
		var out []string
		for _, k := range a.Kernels() {
			out = append(out, k.Alias)
		}
		return out
	}
	assert.Equal(t, []string{"c.bsp", "b.bsp", "earth.bpc"}, aliases(next), "the last kernel takes the freed slot")
	assert.Equal(t, []string{"a.bsp", "b.bsp", "c.bsp", "earth.bpc"}, aliases(alm))

	next, err = next.Unload("earth.bpc")
	require.NoError(t, err)
	assert.Equal(t, 0, next.NumLoadedBPC())

	_, err = next.Unload("earth.bpc")
	require.ErrorIs(t, err, orbgo.ErrAliasNotFound)
}

func TestLoad_Precedence(t *testing.T) {
	alm := load(t, orbgo.New(),
		"earth_moon.bsp", testutil.EarthMoonSPK(),
		"lagrange.bsp", testutil.OrbiterSPK(9),
		"hermite.bsp", testutil.OrbiterSPK(13),
	)

	summaries := alm.SPKSummaries(testutil.Orbiter)
	require.Len(t, summaries, 2)
	assert.Equal(t, daf.Type13HermiteUnequalStep, summaries[0].DataType, "last loaded is searched first")
	assert.Equal(t, daf.Type9LagrangeUnequalStep, summaries[1].DataType)

	et := testutil.OrbiterStart + 1000.5
	got, err := alm.Translate(orbiter, moon, astro.FromSeconds(et), astro.None)
	require.NoError(t, err)
	wantPos, wantVel := testutil.OrbiterState(et)
	assert.True(t, got.Position.ApproxEqual(wantPos, 1e-6))
	assert.True(t, got.Velocity.ApproxEqual(wantVel, 1e-8))
}
