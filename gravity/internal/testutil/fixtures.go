// Package testutil provides shared test fixtures for the gravity packages.
// It consolidates location/point generators and assertion helpers used across
// gravity/ and its sub-package tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/synthnet/gravnet/gravity"
)

// ExampleLocations returns the six locations of the reference network example,
// each with the given capacity.
func ExampleLocations(capacity int) []gravity.Location {
	xs := []float64{-87.45, -87.0, -87.4, -87.5, -87.1, -87.1}
	ys := []float64{24.8, 24.9, 25.1, 25.0, 24.85, 25.05}
	locs := make([]gravity.Location, len(xs))
	for i := range xs {
		locs[i] = gravity.Location{ID: i + 1, X: xs[i], Y: ys[i], Capacity: capacity, Weight: capacity}
	}
	return locs
}

// RandomLocations scatters n locations over a square of the given side
// anchored at the default grid origin. Capacities are uniform in [1, maxCap].
func RandomLocations(seed int64, n, maxCap int, side float64) []gravity.Location {
	rng := rand.New(rand.NewSource(seed))
	locs := make([]gravity.Location, n)
	for i := range locs {
		c := 1 + rng.Intn(maxCap)
		locs[i] = gravity.Location{
			ID:       i + 1,
			X:        gravity.DefaultMinX + rng.Float64()*side,
			Y:        gravity.DefaultMinY + rng.Float64()*side,
			Capacity: c,
			Weight:   c,
		}
	}
	return locs
}

// RandomPoints scatters n points over the same square as RandomLocations.
func RandomPoints(seed int64, n int, side float64) []gravity.Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]gravity.Point, n)
	for i := range pts {
		pts[i] = gravity.Point{
			ID: i + 1,
			X:  gravity.DefaultMinX + rng.Float64()*side,
			Y:  gravity.DefaultMinY + rng.Float64()*side,
		}
	}
	return pts
}

// Degrees counts how many edges touch each id, as source or destination.
func Degrees(edges []gravity.Edge) map[int]int {
	deg := make(map[int]int)
	for _, e := range edges {
		deg[e.Source]++
		deg[e.Dest]++
	}
	return deg
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
