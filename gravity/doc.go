// Package gravity provides the spatial gravity-model engine of gravnet: it
// links points to locations, or locations to each other, preferring nearby
// partners with more remaining capacity.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - entity.go: Location, Point, Edge and the per-entity state machine
//     (pending → searching → sampling → emitted | skipped)
//   - network.go and assign.go: the two drivers
//   - grid.go and search.go: the uniform grid index and the ring search
//   - sampler.go and kernel.go: gravity-weighted sampling
//   - ledger.go: capacity bookkeeping and the active candidate pool
//
// # Determinism
//
// A driver call creates one *rand.Rand from Config.Seed and threads it through
// the processing-order shuffle and every draw. The same seed and input produce
// the same edges in the same order.
//
// # Sub-packages
//   - gravity/trace: per-entity decision records
//   - gravity/metrics: Prometheus run metrics
//   - gravity/table: CSV input and edge-list output
package gravity
