package gravity

import (
	"github.com/sirupsen/logrus"

	"github.com/synthnet/gravnet/gravity/trace"
)

// Mode names the driver that produced a Result.
type Mode string

const (
	ModeNameNetwork    Mode = "network"
	ModeNameAssignment Mode = "assignment"
)

// Stats counts per-entity outcomes of one driver run.
type Stats struct {
	Processed int                // entities taken from the processing order
	Emitted   int                // entities that produced at least one edge
	Skipped   map[SkipReason]int // entities that produced nothing, by reason
	FastPath  int                // entities served from the whole pool without a search
	Evicted   int                // locations that left the pool
	Edges     int
}

// SkippedTotal returns the number of skipped entities over all reasons.
func (s Stats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Result is the output of one driver call. Edges are in processing order, not
// sorted. Distances[i] is the distance covered by Edges[i].
type Result struct {
	Mode      Mode
	Edges     []Edge
	Distances []float64
	Stats     Stats
	Trace     *trace.RunTrace // nil unless tracing was enabled
}

func newResult(mode Mode, level trace.TraceLevel) *Result {
	r := &Result{
		Mode:  mode,
		Edges: make([]Edge, 0),
		Stats: Stats{Skipped: make(map[SkipReason]int)},
	}
	if level.Enabled() {
		r.Trace = trace.NewRunTrace(trace.TraceConfig{Level: level, Mode: string(mode)})
	}
	return r
}

func (r *Result) emit(e Edge, distance float64) {
	r.Edges = append(r.Edges, e)
	r.Distances = append(r.Distances, distance)
	r.Stats.Edges++
}

// skip records an entity that ended in StateSkipped.
func (r *Result) skip(step, id, requested int, reason SkipReason) {
	r.Stats.Processed++
	r.Stats.Skipped[reason]++
	logrus.Debugf("entity %d skipped at step %d: %s (requested %d)", id, step, reason, requested)
	r.Trace.RecordDecision(trace.DecisionRecord{
		Step:      step,
		EntityID:  id,
		Outcome:   trace.OutcomeSkipped,
		Reason:    string(reason),
		Requested: requested,
	})
}

// emitted records an entity that ended in StateEmitted.
func (r *Result) emitted(step, id, requested, candidates int, fast bool, chosen []int) {
	r.Stats.Processed++
	r.Stats.Emitted++
	if fast {
		r.Stats.FastPath++
	}
	r.Trace.RecordDecision(trace.DecisionRecord{
		Step:       step,
		EntityID:   id,
		Outcome:    trace.OutcomeEmitted,
		Requested:  requested,
		Candidates: candidates,
		FastPath:   fast,
		Chosen:     chosen,
	})
}

// candidatesFor returns the candidate set for a search from origin. When the
// pool holds no more than NumCandidates locations the whole pool is returned
// and the grid is not searched.
func candidatesFor(grid *Grid, ledger *Ledger, origin Point, cfg *Config) ([]Handle, bool) {
	if ledger.Len() <= cfg.NumCandidates {
		return ledger.Pool(), true
	}
	return Search(grid, grid.CellOf(origin.X, origin.Y), cfg.NumCandidates, cfg.Steps), false
}

func idsOf(arena []Location, handles []Handle) []int {
	ids := make([]int, len(handles))
	for i, h := range handles {
		ids[i] = arena[h].ID
	}
	return ids
}
