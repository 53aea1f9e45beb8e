package orbgo_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orbgo"
	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/blobstore"
	"github.com/hupe1980/orbgo/internal/hash"
	"github.com/hupe1980/orbgo/testutil"
)

func crc(b []byte) *uint32 {
	sum := hash.CRC32(b)
	return &sum
}

func TestParseMetaAlmanac(t *testing.T) {
	meta, err := orbgo.ParseMetaAlmanac([]byte(`
files:
  - uri: s3://ephemerides/de440s.bsp
    crc32: 0x7286750a
  - uri: /data/pck08.yaml
`))
	require.NoError(t, err)
	require.Len(t, meta.Files, 2)
	assert.Equal(t, "s3://ephemerides/de440s.bsp", meta.Files[0].URI)
	require.NotNil(t, meta.Files[0].CRC32)
	assert.Equal(t, uint32(0x7286750a), *meta.Files[0].CRC32)
	assert.Nil(t, meta.Files[1].CRC32)

	encoded, err := meta.Encode()
	require.NoError(t, err)
	again, err := orbgo.ParseMetaAlmanac(encoded)
	require.NoError(t, err)
	assert.Equal(t, meta, again)

	empty, err := orbgo.ParseMetaAlmanac(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Files)
}

func TestParseMetaAlmanac_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing uri":   "files:\n  - crc32: 12\n",
		"unknown field": "files:\n  - uri: a.bsp\n    sha256: abc\n",
		"not yaml":      "files: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := orbgo.ParseMetaAlmanac([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadMetaAlmanac(t *testing.T) {
	path := writeKernel(t, "almanac.yaml", []byte("files:\n  - uri: de440s.bsp\n"))
	meta, err := orbgo.LoadMetaAlmanac(path)
	require.NoError(t, err)
	assert.Equal(t, "de440s.bsp", meta.Files[0].URI)

	_, err = orbgo.LoadMetaAlmanac(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMetaAlmanac_ProcessLocal(t *testing.T) {
	dir := t.TempDir()
	spkPath := filepath.Join(dir, "earth_moon.bsp")
	bpcPath := filepath.Join(dir, "earth.bpc")
	pckPath := filepath.Join(dir, "pck.yaml")
	require.NoError(t, os.WriteFile(spkPath, testutil.EarthMoonSPK(), 0o644))
	require.NoError(t, os.WriteFile(bpcPath, testutil.EarthRotationBPC(), 0o644))
	require.NoError(t, os.WriteFile(pckPath, []byte(planetaryYAML), 0o644))

	meta := &orbgo.MetaAlmanac{Files: []orbgo.MetaFile{
		{URI: spkPath, CRC32: crc(testutil.EarthMoonSPK())},
		{URI: "file://" + filepath.ToSlash(bpcPath)},
		{URI: pckPath},
	}}
	alm, err := meta.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, alm.NumLoadedSPK())
	assert.Equal(t, 1, alm.NumLoadedBPC())
	assert.Equal(t, 2, alm.PlanetaryData().Len())
	assert.True(t, alm.Kernels()[0].Mapped)

	_, err = alm.Transform(moon, itrf93, astro.FromSeconds(0), astro.None)
	require.NoError(t, err)
}

func TestMetaAlmanac_ChecksumMismatch(t *testing.T) {
	path := writeKernel(t, "earth_moon.bsp", testutil.EarthMoonSPK())
	wrong := hash.CRC32(testutil.EarthMoonSPK()) + 1

	meta := &orbgo.MetaAlmanac{Files: []orbgo.MetaFile{{URI: path, CRC32: &wrong}}}
	_, err := meta.Process(context.Background())
	require.ErrorIs(t, err, orbgo.ErrChecksumMismatch)

	var ce *orbgo.ChecksumError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, path, ce.URI)
	assert.Equal(t, wrong, ce.Expected)
	assert.Equal(t, wrong-1, ce.Actual)
}

func TestMetaAlmanac_Unresolved(t *testing.T) {
	meta := &orbgo.MetaAlmanac{Files: []orbgo.MetaFile{{URI: "https://example.com/de440s.bsp"}}}
	_, err := meta.Process(context.Background())
	require.ErrorIs(t, err, orbgo.ErrUnresolvedURI)
}

func TestMetaAlmanac_BlobStore(t *testing.T) {
	store := blobstore.NewMemoryStore()
	store.Put("spk/earth_moon.bsp", testutil.EarthMoonSPK())
	store.Put("bpc/earth.bpc", testutil.EarthRotationBPC())
	other := blobstore.NewMemoryStore()
	other.Put("earth.bpc", testutil.EarthRotationBPC())

	meta := &orbgo.MetaAlmanac{Files: []orbgo.MetaFile{
		{URI: "mem://kernels/spk/earth_moon.bsp", CRC32: crc(testutil.EarthMoonSPK())},
		{URI: "mem://kernels/bpc/earth.bpc"},
	}}
	alm, err := meta.Process(context.Background(),
		orbgo.WithBlobStore("mem://", other),
		orbgo.WithBlobStore("mem://kernels/", store),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, alm.NumLoadedSPK())
	assert.Equal(t, 1, alm.NumLoadedBPC())
	assert.Equal(t, "mem://kernels/spk/earth_moon.bsp", alm.Kernels()[0].Alias)

	store.Put("spk/corrupt.bsp", []byte("garbage"))
	meta.Files = append(meta.Files, orbgo.MetaFile{URI: "mem://kernels/spk/corrupt.bsp", CRC32: crc(testutil.EarthMoonSPK())})
	_, err = meta.Process(context.Background(), orbgo.WithBlobStore("mem://kernels/", store))
	require.ErrorIs(t, err, orbgo.ErrChecksumMismatch)

	meta.Files = []orbgo.MetaFile{{URI: "mem://kernels/missing.bsp"}}
	_, err = meta.Process(context.Background(), orbgo.WithBlobStore("mem://kernels/", store))
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestMetaAlmanac_CacheDir(t *testing.T) {
	cache := t.TempDir()
	store := blobstore.NewMemoryStore()
	store.Put("earth_moon.bsp", testutil.EarthMoonSPK())

	meta := &orbgo.MetaAlmanac{Files: []orbgo.MetaFile{
		{URI: "mem://earth_moon.bsp", CRC32: crc(testutil.EarthMoonSPK())},
	}}
	opts := []orbgo.Option{orbgo.WithBlobStore("mem://", store), orbgo.WithCacheDir(cache)}

	alm, err := meta.Process(context.Background(), opts...)
	require.NoError(t, err)
	assert.True(t, alm.Kernels()[0].Mapped, "cached kernels are loaded from disk")

	cached, err := os.ReadFile(filepath.Join(cache, "earth_moon.bsp"))
	require.NoError(t, err)
	assert.Equal(t, testutil.EarthMoonSPK(), cached)

	// The cache is used once the blob is gone.
	store.Delete("earth_moon.bsp")
	alm, err = meta.Process(context.Background(), opts...)
	require.NoError(t, err)
	assert.Equal(t, 1, alm.NumLoadedSPK())

	// A stale cache entry is not used.
	require.NoError(t, os.WriteFile(filepath.Join(cache, "earth_moon.bsp"), []byte("stale"), 0o644))
	_, err = meta.Process(context.Background(), opts...)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestMetaAlmanac_Order(t *testing.T) {
	dir := t.TempDir()
	var files []orbgo.MetaFile
	for i, kernel := range [][]byte{testutil.OrbiterSPK(8), testutil.OrbiterSPK(12)} {
		path := filepath.Join(dir, fmt.Sprintf("orbiter%d.bsp", i))
		require.NoError(t, os.WriteFile(path, kernel, 0o644))
		files = append(files, orbgo.MetaFile{URI: path})
	}

	alm, err := (&orbgo.MetaAlmanac{Files: files}).Process(context.Background(), orbgo.WithBatchConcurrency(2))
	require.NoError(t, err)
	kernels := alm.Kernels()
	require.Len(t, kernels, 2)
	assert.Equal(t, files[0].URI, kernels[0].Alias)
	assert.Equal(t, files[1].URI, kernels[1].Alias)
}

func TestMetaAlmanac_CachingStore(t *testing.T) {
	inner := blobstore.NewMemoryStore()
	inner.Put("orbiter.bsp", testutil.OrbiterSPK(13))
	store := blobstore.NewLRUCachingStore(inner, 64<<20, nil)
	opts := []orbgo.Option{orbgo.WithBlobStore("mem://", store)}

	meta := &orbgo.MetaAlmanac{Files: []orbgo.MetaFile{
		{URI: "mem://orbiter.bsp", CRC32: crc(testutil.OrbiterSPK(13))},
	}}
	_, err := meta.Process(context.Background(), opts...)
	require.NoError(t, err)

	// A new orbit determination is published under the same name.
	inner.Put("orbiter.bsp", testutil.OrbiterSPK(9))
	meta.Files[0].CRC32 = crc(testutil.OrbiterSPK(9))

	alm, err := meta.Process(context.Background(), opts...)
	require.NoError(t, err, "stale cached blocks are refetched")
	assert.Equal(t, hash.CRC32(testutil.OrbiterSPK(9)), alm.Kernels()[0].Checksum)
}
