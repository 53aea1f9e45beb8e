package orbgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/orbgo"
	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/blobstore"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/testutil"
)

// ExampleAlmanac_Translate computes the geometric Earth-Moon distance.
func ExampleAlmanac_Translate() {
	alm, err := orbgo.New().LoadBytes(context.Background(), "earth_moon.bsp", testutil.EarthMoonSPK())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(alm)

	s, err := alm.Translate(frames.MoonJ2000, frames.EarthJ2000, astro.FromSeconds(0), astro.None)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.1f km\n", s.RangeKm())
	// Output:
	// Almanac: 1 SPK, 0 BPC (4 bodies, root Solar System Barycenter (0))
	// 384371.0 km
}

// ExampleAlmanac_AngularVelocity reads the Earth rotation rate from an
// orientation kernel.
func ExampleAlmanac_AngularVelocity() {
	alm, err := orbgo.New().LoadBytes(context.Background(), "earth.bpc", testutil.EarthRotationBPC())
	if err != nil {
		log.Fatal(err)
	}

	omega, err := alm.AngularVelocity(frames.EarthJ2000, frames.EarthITRF93, astro.FromSeconds(0))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.6e rad/s\n", omega[2])
	// Output: 7.292115e-05 rad/s
}

// ExampleMetaAlmanac_Process loads kernels listed in a manifest.
func ExampleMetaAlmanac_Process() {
	meta, err := orbgo.ParseMetaAlmanac([]byte(`
files:
  - uri: mem://earth_moon.bsp
  - uri: mem://earth.bpc
`))
	if err != nil {
		log.Fatal(err)
	}

	store := blobstore.NewMemoryStore()
	store.Put("earth_moon.bsp", testutil.EarthMoonSPK())
	store.Put("earth.bpc", testutil.EarthRotationBPC())
	alm, err := meta.Process(context.Background(), orbgo.WithBlobStore("mem://", store))
	if err != nil {
		log.Fatal(err)
	}
	for _, k := range alm.Kernels() {
		fmt.Println(k.Kind, k.Alias)
	}
	// Output:
	// SPK mem://earth_moon.bsp
	// BPC mem://earth.bpc
}
