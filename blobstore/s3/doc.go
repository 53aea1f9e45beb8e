// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("kernels/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	almanac, err := orbgo.New().LoadBlob(ctx, store, "de440s.bsp")
//
// # Features
//
//   - Ranged reads for partial fetches through a CachingStore
//   - Parallel whole-object downloads through the transfer manager
//   - Automatic pagination for listing
//   - Configurable prefix for shared buckets
package s3
