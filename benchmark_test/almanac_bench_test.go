package benchmark_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/orbgo"
	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/testutil"
)

func setup(b *testing.B, opts ...orbgo.Option) *orbgo.Almanac {
	b.Helper()
	alm, err := orbgo.New(opts...).LoadBytes(context.Background(), "earth_moon.bsp", testutil.EarthMoonSPK())
	if err != nil {
		b.Fatal(err)
	}
	alm, err = alm.LoadBytes(context.Background(), "earth.bpc", testutil.EarthRotationBPC())
	if err != nil {
		b.Fatal(err)
	}
	return alm
}

func epochs(n int) []astro.Epoch {
	raw := testutil.NewRNG(42).Epochs(n, testutil.BPCStart, testutil.BPCEnd)
	out := make([]astro.Epoch, n)
	for i, et := range raw {
		out[i] = astro.FromSeconds(et)
	}
	return out
}

func BenchmarkLoad(b *testing.B) {
	path := filepath.Join(b.TempDir(), "earth_moon.bsp")
	if err := os.WriteFile(path, testutil.EarthMoonSPK(), 0o644); err != nil {
		b.Fatal(err)
	}

	for _, mmap := range []bool{true, false} {
		b.Run(fmt.Sprintf("mmap=%v", mmap), func(b *testing.B) {
			alm := orbgo.New(orbgo.WithMmap(mmap))
			b.SetBytes(int64(len(testutil.EarthMoonSPK())))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := alm.Load(context.Background(), path); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTranslate(b *testing.B) {
	alm := setup(b)
	eps := epochs(1024)

	for _, ab := range []astro.Aberration{astro.None, astro.LT, astro.CN, astro.CNS} {
		b.Run(ab.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := alm.Translate(frames.MoonJ2000, frames.EarthJ2000, eps[i%len(eps)], ab); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRotate(b *testing.B) {
	alm := setup(b)
	eps := epochs(1024)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := alm.Rotate(frames.EarthJ2000, frames.EarthITRF93, eps[i%len(eps)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransform(b *testing.B) {
	alm := setup(b)
	eps := epochs(1024)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := alm.Transform(frames.MoonJ2000, frames.EarthITRF93, eps[i%len(eps)], astro.LT); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTranslateBatch(b *testing.B) {
	for _, workers := range []int{1, 4, 0} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			alm := setup(b, orbgo.WithBatchConcurrency(workers))
			eps := epochs(4096)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				alm.TranslateBatch(context.Background(), frames.MoonJ2000, frames.EarthJ2000, eps, astro.None)
			}
			b.ReportMetric(float64(b.N*len(eps))/b.Elapsed().Seconds(), "queries/s")
		})
	}
}
