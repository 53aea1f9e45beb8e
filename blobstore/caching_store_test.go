package blobstore

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/orbgo/internal/cache"
)

type mockBlob struct {
	data      []byte
	reads     atomic.Int64
	readBytes atomic.Int64
}

func (m *mockBlob) Close() error { return nil }
func (m *mockBlob) Size() int64  { return int64(len(m.data)) }
func (m *mockBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	m.reads.Add(1)
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	m.readBytes.Add(int64(n))
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

type mockStore struct {
	blobs map[string]*mockBlob
}

func (m *mockStore) Open(_ context.Context, name string) (Blob, error) {
	if b, ok := m.blobs[name]; ok {
		return b, nil
	}
	return nil, ErrNotFound
}

func (m *mockStore) List(context.Context, string) ([]string, error) { return nil, nil }

func TestCachingStore_ReadAt(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 255)
	}

	inner := &mockStore{
		blobs: map[string]*mockBlob{
			"de440s.bsp": {data: data},
		},
	}

	c := cache.NewLRUBlockCache(1024*1024, nil)
	store := NewCachingStore(inner, c, 256)
	ctx := context.Background()

	blob, err := store.Open(ctx, "de440s.bsp")
	require.NoError(t, err)

	buf := make([]byte, 100)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[:100], buf)

	mBlob := inner.blobs["de440s.bsp"]
	assert.Equal(t, int64(1), mBlob.reads.Load())
	assert.Equal(t, int64(256), mBlob.readBytes.Load())

	// Cached.
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mBlob.reads.Load())

	// Spans block 0 (cached) and block 1 (not cached).
	buf2 := make([]byte, 100)
	n, err = blob.ReadAt(ctx, buf2, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[200:300], buf2)
	assert.Equal(t, int64(2), mBlob.reads.Load())
	assert.Equal(t, int64(512), mBlob.readBytes.Load())

	_, err = blob.ReadAt(ctx, buf2, 260)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mBlob.reads.Load())
}

func TestCachingStore_Coalescing(t *testing.T) {
	inner := &mockStore{
		blobs: map[string]*mockBlob{
			"de440s.bsp": {data: make([]byte, 16*1024)},
		},
	}
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024*1024, nil), 1024)
	ctx := context.Background()

	blob, err := store.Open(ctx, "de440s.bsp")
	require.NoError(t, err)

	_, err = blob.ReadAt(ctx, make([]byte, 10*1024), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inner.blobs["de440s.bsp"].reads.Load())
}

func TestCachingStore_SmallFile(t *testing.T) {
	data := []byte("hello")
	inner := &mockStore{
		blobs: map[string]*mockBlob{
			"small": {data: data},
		},
	}
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024, nil), 256)
	ctx := context.Background()

	blob, err := store.Open(ctx, "small")
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 5, n)
	assert.Equal(t, data, buf[:n])

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, all)
}

func TestCachingStore_Invalidate(t *testing.T) {
	inner := &mockStore{
		blobs: map[string]*mockBlob{
			"a": {data: []byte("abcdefgh")},
		},
	}
	c := cache.NewLRUBlockCache(1024, nil)
	store := NewCachingStore(inner, c, 4)
	ctx := context.Background()

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	_, err = ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	store.Invalidate("a")
	assert.Equal(t, 0, c.Len())
}

func TestCachingStore_NotFound(t *testing.T) {
	store := NewCachingStore(&mockStore{}, cache.NewLRUBlockCache(1024, nil), 0)
	_, err := store.Open(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func BenchmarkCachingStore_ReadAt(b *testing.B) {
	inner := &mockStore{
		blobs: map[string]*mockBlob{
			"de440s.bsp": {data: make([]byte, 1<<20)},
		},
	}
	store := NewCachingStore(inner, cache.NewShardedLRUBlockCache(4<<20, nil), 4096)
	ctx := context.Background()
	blob, _ := store.Open(ctx, "de440s.bsp")
	buf := make([]byte, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = blob.ReadAt(ctx, buf, int64(i*1024)%(1<<20-1024))
	}
}
