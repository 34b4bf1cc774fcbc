// Defines the entity records handled by the gravity engine: locations that can be
// chosen as partners, points that choose them, and the edges that link the two.

package gravity

import "fmt"

// Handle is an index into the location arena owned by a driver call.
// Grid buckets, pools and candidate sets refer to locations by handle only.
type Handle int

// Location is a place that can be chosen as a partner (a school, a workplace,
// another location in network mode).
type Location struct {
	ID       int     // caller-supplied identity, copied into edges
	X, Y     float64 // position in the caller's coordinate plane
	Capacity int     // remaining number of selections before eviction
	Weight   int     // original weight; tracks Capacity in network mode for reporting

	Compliance    float64 // selection multiplier, only read when HasCompliance is set
	HasCompliance bool
}

// ComplianceOrDefault returns the compliance multiplier, 1.0 when unset.
func (l *Location) ComplianceOrDefault() float64 {
	if !l.HasCompliance {
		return 1.0
	}
	return l.Compliance
}

func (l Location) String() string {
	return fmt.Sprintf("Location: (ID: %d, X: %g, Y: %g, Capacity: %d)", l.ID, l.X, l.Y, l.Capacity)
}

// Point is an entity looking for one or more locations (a person, a household).
type Point struct {
	ID   int
	X, Y float64
}

// PointOf returns the position of a location as a Point with the same id.
func PointOf(l *Location) Point {
	return Point{ID: l.ID, X: l.X, Y: l.Y}
}

// Edge links a source id to a destination id. In network mode both ids are
// location ids; in assignment mode Source is a point id.
type Edge struct {
	Source int
	Dest   int
}

// EntityState is the processing state of one entity within a driver run.
type EntityState string

const (
	StatePending   EntityState = "pending"
	StateSearching EntityState = "searching"
	StateSampling  EntityState = "sampling"
	StateEmitted   EntityState = "emitted"
	StateSkipped   EntityState = "skipped"
)

// SkipReason explains why an entity ended in StateSkipped.
type SkipReason string

const (
	SkipZeroCapacity SkipReason = "zero-capacity"
	SkipStarved      SkipReason = "starved"
	SkipNoCandidates SkipReason = "no-candidates"
)

// newArena copies locations into a contiguous slice owned by the driver so the
// caller's input is never mutated.
func newArena(locs []Location) []Location {
	arena := make([]Location, len(locs))
	copy(arena, locs)
	return arena
}
