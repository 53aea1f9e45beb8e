package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedLRUBlockCache_BasicOperations(t *testing.T) {
	cache := NewShardedLRUBlockCache(1024*1024, nil)

	ctx := context.Background()
	key := Key{Path: "de440s.bsp", Block: 0}
	data := []byte("test data")

	cache.Set(ctx, key, data)
	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, data, got)

	_, ok = cache.Get(ctx, Key{Path: "de440s.bsp", Block: 999})
	assert.False(t, ok)
	assert.Equal(t, int64(len(data)), cache.Size())
}

func TestShardedLRUBlockCache_ShardDistribution(t *testing.T) {
	cache := NewShardedLRUBlockCache(64*1024*1024, nil)

	ctx := context.Background()
	data := make([]byte, 1024)

	// Consecutive blocks of a few blobs.
	for i := range 1000 {
		cache.Set(ctx, Key{Path: fmt.Sprintf("kernel-%d.bsp", i%4), Block: uint64(i)}, data)
	}

	if n := cache.nonEmptyShards(); n < 30 {
		t.Errorf("poor shard distribution: only %d shards have items", n)
	}
}

func TestShardedLRUBlockCache_Concurrent(t *testing.T) {
	cache := NewShardedLRUBlockCache(64*1024*1024, nil)

	ctx := context.Background()
	data := make([]byte, 1024)

	const numGoroutines = 100
	const numOpsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for g := range numGoroutines {
		go func(goroutineID int) {
			defer wg.Done()
			path := fmt.Sprintf("kernel-%d.bsp", goroutineID)
			for i := range numOpsPerGoroutine {
				key := Key{Path: path, Block: uint64(i)}
				cache.Set(ctx, key, data)
				cache.Get(ctx, key)
			}
		}(g)
	}

	wg.Wait()

	hits, misses := cache.Stats()
	assert.Equal(t, int64(numGoroutines*numOpsPerGoroutine), hits+misses)
}

func TestShardedLRUBlockCache_Invalidate(t *testing.T) {
	cache := NewShardedLRUBlockCache(64*1024*1024, nil)

	ctx := context.Background()
	data := []byte("test")

	for i := range 100 {
		cache.Set(ctx, Key{Path: "a.bsp", Block: uint64(i)}, data)
		cache.Set(ctx, Key{Path: "b.bpc", Block: uint64(i)}, data)
	}

	cache.Invalidate(func(key Key) bool { return key.Path == "a.bsp" })

	_, ok := cache.Get(ctx, Key{Path: "a.bsp", Block: 0})
	assert.False(t, ok)
	_, ok = cache.Get(ctx, Key{Path: "b.bpc", Block: 0})
	assert.True(t, ok)
}

func BenchmarkShardedLRUBlockCache_Get(b *testing.B) {
	cache := NewShardedLRUBlockCache(64*1024*1024, nil)
	ctx := context.Background()

	for i := range 1000 {
		cache.Set(ctx, Key{Path: "de440s.bsp", Block: uint64(i)}, make([]byte, 4096))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			cache.Get(ctx, Key{Path: "de440s.bsp", Block: uint64(i % 1000)})
			i++
		}
	})
}
