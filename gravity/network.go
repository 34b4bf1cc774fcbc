package gravity

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// BuildNetwork links locations to each other.
//
// Locations are processed in an order shuffled by cfg.Seed. Each location asks
// for as many partners as its remaining capacity. A location is skipped when
// its capacity is zero, or when its capacity exceeds the current pool size
// (starvation). A starved location is never retried and its capacity is left
// unconsumed; callers get a partial result, not an error.
//
// Otherwise the location leaves the pool, samples up to its capacity in
// distinct partners from nearby candidates and is exhausted, even if fewer
// partners were available than requested. Each partner consumes one unit of
// capacity and leaves the pool when it reaches zero.
//
// The caller's slice is not modified.
func BuildNetwork(locs []Location, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	arena := newArena(locs)
	rng := NewRNG(cfg.Seed)
	grid := NewGrid(cfg.Origin, cfg.CellSize)
	ledger := NewLedger(arena, grid, ModeNetwork)
	sampler := NewSampler(arena, cfg.kernel())
	result := newResult(ModeNameNetwork, cfg.TraceLevel)

	order := make([]Handle, len(arena))
	for i := range order {
		order[i] = Handle(i)
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	logrus.Infof("Building network over %d locations (%d with capacity)", len(arena), ledger.Len())
	for step, h := range order {
		if (step+1)%1000 == 0 {
			logrus.Infof("Cycling through locations %d", step+1)
		}
		loc := &arena[h]
		demand := loc.Capacity

		if demand <= 0 {
			result.skip(step, loc.ID, demand, SkipZeroCapacity)
			continue
		}
		if demand > ledger.Len() {
			result.skip(step, loc.ID, demand, SkipStarved)
			continue
		}

		ledger.Withdraw(h)
		origin := PointOf(loc)
		candidates, fast := candidatesFor(grid, ledger, origin, &cfg)
		chosen, err := sampler.ChooseMany(origin, candidates, min(demand, len(candidates)), rng, false)
		if err != nil {
			return nil, fmt.Errorf("sampling partners for location %d: %w", loc.ID, err)
		}
		ledger.Exhaust(h)

		if len(chosen) == 0 {
			result.skip(step, loc.ID, demand, SkipNoCandidates)
			continue
		}
		for _, c := range chosen {
			dest := &arena[c]
			result.emit(Edge{Source: loc.ID, Dest: dest.ID}, Distance(loc.X, loc.Y, dest.X, dest.Y))
			if _, err := ledger.Consume(c); err != nil {
				return nil, fmt.Errorf("linking location %d: %w", loc.ID, err)
			}
		}
		result.emitted(step, loc.ID, demand, len(candidates), fast, idsOf(arena, chosen))
	}

	result.Stats.Evicted = ledger.Evicted()
	logrus.Infof("Network complete: %d edges, %d locations skipped", result.Stats.Edges, result.Stats.SkippedTotal())
	return result, nil
}
