// Package cache provides block caches for remote kernel blobs.
//
// # Block Cache (RAM)
//
// The ShardedLRUBlockCache stores recently fetched blocks of remote kernels,
// so that loading the same kernel into several almanacs downloads it once.
// It uses 64-way sharding to keep lock contention low when many blocks are
// filled in parallel.
//
// Memory held by the cache is charged to a resource.Controller when one is
// given, next to the kernels themselves.
package cache
