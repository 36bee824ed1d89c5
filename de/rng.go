package de

import "math/rand/v2"

// rngSource wraps math/rand/v2's PCG generator. Each goroutine evaluating a
// trial gets its own instance seeded deterministically from
// (baseSeed, iter, index) so a seeded run is fully reproducible regardless
// of how work is scheduled across goroutines, and so concurrent trials never
// share (and race on) a single *rand.Rand.
type rngSource struct {
	r *rand.Rand
}

// newRNG derives a PCG seed from a base seed plus the generation/individual
// indices using a splitmix64-style mixing step, then seeds a fresh
// generator. When baseSeed is nil, a process-global, non-deterministic seed
// source is used instead (math/rand/v2's top-level functions, which are
// auto-seeded).
func newRNG(baseSeed *uint64, iter, index int) *rngSource {
	if baseSeed == nil {
		return &rngSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}

	mixed := mix64(*baseSeed ^ (uint64(iter) << 32) ^ uint64(uint32(index)))
	seq := mix64(mixed ^ 0x9E3779B97F4A7C15)
	return &rngSource{r: rand.New(rand.NewPCG(mixed, seq))}
}

func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

func (s *rngSource) Float64() float64 { return s.r.Float64() }

func (s *rngSource) IntN(n int) int { return s.r.IntN(n) }

// distinctIndices draws k indices in [0,n) excluding `exclude`, all
// pairwise-distinct.
func (s *rngSource) distinctIndices(n, k int, exclude ...int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}

	out := make([]int, 0, k)
	seen := make(map[int]bool, k)
	for len(out) < k {
		idx := s.IntN(n)
		if excluded[idx] || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}
