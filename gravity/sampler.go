package gravity

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Sampler draws candidates with probability proportional to their kernel
// weight. Every selection consumes exactly one rng.Float64() call, in
// candidate order, so results are reproducible from the seed and the order of
// the candidate set.
//
// Thread-safety: NOT thread-safe. Scratch buffers are reused across calls.
type Sampler struct {
	arena  []Location
	kernel Kernel

	weights []float64
	cum     []float64
}

// NewSampler creates a sampler over the given arena.
func NewSampler(arena []Location, kernel Kernel) *Sampler {
	if kernel == nil {
		kernel = DefaultKernel()
	}
	return &Sampler{arena: arena, kernel: kernel}
}

// ChooseOne returns one candidate.
func (s *Sampler) ChooseOne(origin Point, candidates []Handle, rng *rand.Rand) (Handle, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}
	weights := s.weigh(origin, candidates)
	return candidates[s.draw(weights, rng)], nil
}

// ChooseMany returns count candidates. Without replacement the candidates are
// distinct and drawn sequentially, each pick leaving the working set before
// the next draw; asking for more than len(candidates) is a fatal
// ErrInsufficientCandidates. With replacement all draws share the weights
// computed at call time.
func (s *Sampler) ChooseMany(origin Point, candidates []Handle, count int, rng *rand.Rand, replace bool) ([]Handle, error) {
	if count <= 0 {
		return nil, nil
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if !replace && count > len(candidates) {
		return nil, fmt.Errorf("%w: requested %d, have %d", ErrInsufficientCandidates, count, len(candidates))
	}

	weights := s.weigh(origin, candidates)
	chosen := make([]Handle, 0, count)
	if replace {
		for i := 0; i < count; i++ {
			chosen = append(chosen, candidates[s.draw(weights, rng)])
		}
		return chosen, nil
	}

	working := make([]Handle, len(candidates))
	copy(working, candidates)
	for i := 0; i < count; i++ {
		idx := s.draw(weights, rng)
		chosen = append(chosen, working[idx])
		working = append(working[:idx], working[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return chosen, nil
}

// weigh fills the scratch weight buffer for candidates. NaN and negative
// weights count as zero. Any +Inf weight turns the draw into a uniform pick
// among the infinite candidates; otherwise weights large enough to overflow
// the cumulative sum are rescaled by their maximum.
func (s *Sampler) weigh(origin Point, candidates []Handle) []float64 {
	if cap(s.weights) < len(candidates) {
		s.weights = make([]float64, len(candidates))
	}
	weights := s.weights[:len(candidates)]
	infinite := false
	for i, h := range candidates {
		w := s.kernel.Weight(origin, &s.arena[h])
		switch {
		case math.IsNaN(w) || w < 0:
			w = 0
		case math.IsInf(w, 1):
			infinite = true
		}
		weights[i] = w
	}

	if infinite {
		for i, w := range weights {
			if math.IsInf(w, 1) {
				weights[i] = 1
			} else {
				weights[i] = 0
			}
		}
		return weights
	}
	if m := floats.Max(weights); m > math.MaxFloat64/float64(len(weights)) {
		floats.Scale(1/m, weights)
	}
	return weights
}

// draw picks an index of weights with one RNG call. A zero total falls back to
// a uniform pick.
func (s *Sampler) draw(weights []float64, rng *rand.Rand) int {
	n := len(weights)
	u := rng.Float64()

	if cap(s.cum) < n {
		s.cum = make([]float64, n)
	}
	cum := floats.CumSum(s.cum[:n], weights)
	total := cum[n-1]
	if total <= 0 {
		return min(int(u*float64(n)), n-1)
	}

	target := u * total
	idx := sort.Search(n, func(i int) bool { return cum[i] > target })
	if idx < n {
		return idx
	}
	// rounding put target at the total; take the last positive weight
	for idx = n - 1; idx > 0 && weights[idx] == 0; idx-- {
	}
	return idx
}
