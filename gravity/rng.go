package gravity

import (
	"hash/fnv"
	"math/rand"
)

// NewRNG returns the single random source for one driver call.
// Two calls with the same seed and input MUST produce identical output, so the
// source is created once per call and never reseeded.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed returns a seed isolated from the master seed by label.
// Derivation: master XOR fnv1a64(label). Used to spread one master seed over
// independent trials; a single driver call never derives seeds.
func DeriveSeed(master int64, label string) int64 {
	return master ^ fnv1a64(label)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
