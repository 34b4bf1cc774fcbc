package gravity

import "math"

// minDistanceFloor keeps the decay term finite when a kernel is configured
// with a non-positive MinDistance.
const minDistanceFloor = 1e-12

// Kernel computes the selection weight of a candidate location as seen from an
// origin. Weights must be finite and non-negative; the sampler treats the
// weights of one candidate set as relative.
type Kernel interface {
	Weight(origin Point, candidate *Location) float64
}

// GravityKernel weighs a candidate by
//
//	capacity * compliance / max(distance, MinDistance)^Exponent
//
// Exponent 0 is the capacity-only mode. Compliance is only applied when
// UseCompliance is set and the location carries a score.
type GravityKernel struct {
	Exponent      float64
	MinDistance   float64
	UseCompliance bool
}

// DefaultKernel returns the inverse-square gravity kernel without compliance.
func DefaultKernel() GravityKernel {
	return GravityKernel{Exponent: 2, MinDistance: 1e-6}
}

// CapacityKernel returns a kernel that ignores distance.
func CapacityKernel() GravityKernel {
	return GravityKernel{Exponent: 0}
}

// Weight implements Kernel.
func (k GravityKernel) Weight(origin Point, candidate *Location) float64 {
	w := float64(max(candidate.Capacity, 0))
	if k.UseCompliance {
		w *= math.Max(candidate.ComplianceOrDefault(), 0)
	}
	if w == 0 || k.Exponent == 0 {
		return w
	}
	return w / math.Pow(k.decayDistance(origin, candidate), k.Exponent)
}

func (k GravityKernel) decayDistance(origin Point, candidate *Location) float64 {
	floor := k.MinDistance
	if floor <= 0 {
		floor = minDistanceFloor
	}
	return math.Max(Distance(origin.X, origin.Y, candidate.X, candidate.Y), floor)
}

// Distance is the Euclidean distance between two positions.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
