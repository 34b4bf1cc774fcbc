package gravity

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/sirupsen/logrus"
)

// Assign links each point to cfg.NumChoose locations.
//
// Points are processed in an order shuffled by cfg.Seed. For each point the
// nearby locations are searched and sampled: one draw for a single choice,
// distinct draws without cfg.Replace, independent draws with it. With
// cfg.UseCapacity every chosen location consumes one unit of capacity and
// leaves the pool when exhausted; combined with cfg.Replace the draws are taken
// one at a time so a location is never chosen past its capacity.
//
// A point that finds the pool empty is skipped. Asking for more distinct
// locations than the candidate set holds returns ErrInsufficientCandidates.
//
// The caller's slices are not modified.
func Assign(pts []Point, locs []Location, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	arena := newArena(locs)
	rng := NewRNG(cfg.Seed)
	grid := NewGrid(cfg.Origin, cfg.CellSize)
	ledger := NewLedger(arena, grid, ModeAssignment)
	sampler := NewSampler(arena, cfg.kernel())
	result := newResult(ModeNameAssignment, cfg.TraceLevel)
	k := cfg.numChoose()
	filled := 0

	order := make([]Point, len(pts))
	copy(order, pts)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	logrus.Infof("Assigning %d points to %d locations (%d per point)", len(order), ledger.Len(), k)
	for step, p := range order {
		if (step+1)%10000 == 0 {
			logrus.Infof("Assigning point %d", step+1)
		}
		if ledger.Len() == 0 {
			result.skip(step, p.ID, k, SkipNoCandidates)
			continue
		}

		candidates, fast := candidatesFor(grid, ledger, p, &cfg)
		var (
			chosen   []Handle
			consumed bool
			err      error
		)
		switch {
		case k == 1:
			var h Handle
			h, err = sampler.ChooseOne(p, candidates, rng)
			chosen = []Handle{h}
		case cfg.UseCapacity && cfg.Replace:
			chosen, err = chooseConsuming(sampler, ledger, p, candidates, k, rng)
			consumed = true
		default:
			chosen, err = sampler.ChooseMany(p, candidates, k, rng, cfg.Replace)
		}
		if err != nil {
			return nil, fmt.Errorf("assigning point %d: %w", p.ID, err)
		}

		for _, c := range chosen {
			dest := &arena[c]
			result.emit(Edge{Source: p.ID, Dest: dest.ID}, Distance(p.X, p.Y, dest.X, dest.Y))
			if !cfg.UseCapacity || consumed {
				continue
			}
			evicted, err := ledger.Consume(c)
			if err != nil {
				return nil, fmt.Errorf("assigning point %d: %w", p.ID, err)
			}
			if evicted {
				filled++
				if filled%10000 == 0 {
					logrus.Infof("%d locations have been filled to capacity", filled)
				}
			}
		}
		result.emitted(step, p.ID, k, len(candidates), fast, idsOf(arena, chosen))
	}

	result.Stats.Evicted = ledger.Evicted()
	logrus.Infof("Assignment complete: %d assignments, %d points skipped", result.Stats.Edges, result.Stats.SkippedTotal())
	return result, nil
}

// chooseConsuming draws k locations with replacement, consuming each pick
// before the next draw so weights follow the remaining capacity. Exhausted
// locations leave the working set; the point gets fewer than k locations only
// if the whole working set runs out.
func chooseConsuming(s *Sampler, ledger *Ledger, p Point, candidates []Handle, k int, rng *rand.Rand) ([]Handle, error) {
	working := make([]Handle, len(candidates))
	copy(working, candidates)

	chosen := make([]Handle, 0, k)
	for len(chosen) < k && len(working) > 0 {
		h, err := s.ChooseOne(p, working, rng)
		if err != nil {
			return nil, err
		}
		chosen = append(chosen, h)
		evicted, err := ledger.Consume(h)
		if err != nil {
			return nil, err
		}
		if evicted {
			working = slices.DeleteFunc(working, func(other Handle) bool { return other == h })
		}
	}
	return chosen, nil
}
