package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_OpenRead(t *testing.T) {
	tmpDir := t.TempDir()
	data := []byte("DAF/SPK kernel bytes for a local read")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "de440s.bsp"), data, 0o600))

	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	blob, err := store.Open(ctx, "de440s.bsp")
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 3)
	n, err := blob.ReadAt(ctx, buf, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "SPK", string(buf))

	// Past the end.
	n, err = blob.ReadAt(ctx, make([]byte, 10), int64(len(data))-2)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, b)

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, all)
}

func TestLocalStore_NotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "missing.bsp")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_List(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "pck"), 0o755))
	for _, name := range []string{"de440s.bsp", "moon_pa.bpc", "pck/earth.bpc"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, filepath.FromSlash(name)), []byte("x"), 0o600))
	}

	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"de440s.bsp", "moon_pa.bpc", "pck/earth.bpc"}, all)

	pck, err := store.List(ctx, "pck/")
	require.NoError(t, err)
	assert.Equal(t, []string{"pck/earth.bpc"}, pck)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte("kernel")
	store.Put("a.bsp", data)
	data[0] = 'X'

	blob, err := store.Open(ctx, "a.bsp")
	require.NoError(t, err)
	got, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "kernel", string(got))

	store.Put("b.bpc", nil)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.bsp", "b.bpc"}, names)

	store.Delete("a.bsp")
	_, err = store.Open(ctx, "a.bsp")
	require.ErrorIs(t, err, ErrNotFound)

	empty, err := store.Open(ctx, "b.bpc")
	require.NoError(t, err)
	got, err = ReadAll(ctx, empty)
	require.NoError(t, err)
	assert.Empty(t, got)
}
