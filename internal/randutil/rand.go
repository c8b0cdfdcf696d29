package randutil

import "math/rand"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The raw seed is mixed first so that adjacent seeds do not produce
// correlated sequences.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed)))))
}

// DeriveSeeds expands one master seed into n sub-seeds with independent
// streams. Sub-seed i is the same for every caller and every worker layout,
// so batch results are reproducible at any parallelism.
func DeriveSeeds(seed int64, n int) []int64 {
	seeds := make([]int64, n)
	u := uint64(seed)
	for i := range seeds {
		u += goldenRatio64
		seeds[i] = int64(mix(u))
	}
	return seeds
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
