package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/orbgo/linalg"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns a pseudo-random number in [minVal, maxVal).
func (r *RNG) Uniform(minVal, maxVal float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return minVal + r.rand.Float64()*(maxVal-minVal)
}

// Epochs returns n sorted epochs drawn uniformly from [start, end).
// Locks only once per call.
func (r *RNG) Epochs(n int, start, end float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = start + r.rand.Float64()*(end-start)
	}
	slices.Sort(out)
	return out
}

// UnitVector returns a random direction, uniformly distributed on the sphere.
func (r *RNG) UnitVector() linalg.Vector3 {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		v := linalg.Vector3{r.rand.NormFloat64(), r.rand.NormFloat64(), r.rand.NormFloat64()}
		if n := v.Norm(); n > 1e-12 {
			return v.Scale(1 / n)
		}
	}
}

// Angle returns a random angle in [-pi, pi).
func (r *RNG) Angle() float64 {
	return r.Uniform(-math.Pi, math.Pi)
}
