// Package orbgo answers astrodynamics queries from binary SPICE kernels.
//
// An Almanac holds ephemeris kernels (SPK), orientation kernels (BPC) and
// constants datasets, and answers two questions: where is A relative to B
// in frame F at epoch T, and what is the rotation between two frames at T.
//
// # Quick Start
//
//	ctx := context.Background()
//	alm, _ := orbgo.New().Load(ctx, "de440s.bsp")
//	alm, _ = alm.Load(ctx, "earth_latest_high_prec.bpc")
//
//	epoch := astro.FromGregorianTDB(2025, time.March, 20, 9, 1, 0, 0)
//	state, _ := alm.Translate(frames.MoonJ2000, frames.EarthJ2000, epoch, astro.None)
//	fmt.Println(state)
//
// Kernels are memory-mapped and never copied. Loading, swapping and
// unloading return a new Almanac; the previous one stays valid and keeps
// its kernels alive, so readers never need locks:
//
//	next, _ := alm.Swap(ctx, "de440s.bsp", "de440s_update.bsp")
//	current.Store(next) // e.g. an atomic.Pointer[orbgo.Almanac]
//
// # Queries
//
//   - Translate: position and velocity of one frame origin relative to
//     another, optionally corrected for light time and stellar aberration
//     (astro.LT, astro.CNS, ...).
//   - Rotate: direction cosine matrix between two orientations, with its
//     time derivative.
//   - Transform: Translate followed by Rotate into the observer's
//     orientation.
//   - TranslateBatch, TransformBatch, RotateBatch, TransformStatesBatch:
//     concurrent evaluation over many epochs or states with per-item
//     errors.
//
// Frames are resolved through two trees of at most MaxTreeDepth hops: the
// ephemeris tree of SPK segment centers and the orientation tree rooted
// at J2000 (BPC segments, Euler parameters and planetary constants).
//
// # Sources
//
// Kernels can be loaded from files, memory, any io.Reader or a
// blobstore.BlobStore (local, S3, MinIO). zstd and lz4 compressed kernels
// are decompressed on load. A MetaAlmanac lists the files of an Almanac
// with their CRC32 checksums:
//
//	meta, _ := orbgo.LoadMetaAlmanac("almanac.yaml")
//	alm, _ := meta.Process(ctx, orbgo.WithBlobStore("s3://ephemerides/", store))
//
// # Observability
//
// Lifecycle operations are logged through a Logger (WithLogger), traced with
// OpenTelemetry (WithTracer) and counted by a MetricsCollector
// (WithMetricsCollector, see metrics/prometheus). Queries never log.
package orbgo
