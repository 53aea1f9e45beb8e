// Package blobstore provides read-only sources for kernel files.
//
// An Almanac loads SPK and BPC kernels from a BlobStore by name. Blobs that
// implement Mappable are used in place; everything else is read into memory.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap support
//   - MemoryStore: in-memory blobs, mostly for tests
//   - CachingStore: block cache in front of another store
//   - s3.Store: Amazon S3 with ranged reads and parallel downloads
//   - minio.Store: any S3-compatible endpoint through minio-go
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    List(ctx, prefix) ([]string, error)
//	}
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    Close() error
//	    Size() int64
//	}
package blobstore
