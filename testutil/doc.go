// Package testutil provides testing utilities for orbgo.
//
// This package is intended for use in tests and benchmarks only.
// It builds synthetic DAF kernels, so that tests need no external data,
// and provides a deterministic random number generator for epochs and
// directions.
//
// # Synthetic Kernels
//
//	b := testutil.NewSPKBuilder().
//		AddSPKSegment("MOON", 301, 3, 1, 2, start, end, testutil.ChebyshevSegment(moon.Position, start, end, 16*86400, 18))
//	kernel := b.Bytes()
//
// # Canned Kernels
//
//	testutil.EarthMoonSPK()    // SSB, Sun, Earth-Moon barycenter, Earth and Moon, 1849-12-26 to 2150-01-21
//	testutil.ChainSPK(9)       // a chain of nine bodies, deeper than the frame graph allows
//	testutil.EarthRotationBPC() // ITRF93 relative to J2000
//
// # Random Epochs
//
//	rng := testutil.NewRNG(seed)
//	epochs := rng.Epochs(100, start, end)
package testutil
