package trace

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	TotalDecisions     int
	EmittedCount       int
	SkippedCount       int
	SkipReasons        map[string]int // reason → count
	FastPathCount      int
	MeanCandidates     float64
	MaxCandidates      int
	Shortfall          int // partners requested but not delivered to emitted entities
	UniqueDestinations int
	DestinationCounts  map[int]int // destination id → times chosen
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{
		SkipReasons:       make(map[string]int),
		DestinationCounts: make(map[int]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalDecisions = len(rt.Decisions)
	totalCandidates := 0
	sampled := 0
	for _, d := range rt.Decisions {
		if d.Outcome == OutcomeSkipped {
			summary.SkippedCount++
			summary.SkipReasons[d.Reason]++
			continue
		}
		summary.EmittedCount++
		if d.FastPath {
			summary.FastPathCount++
		}
		if d.Requested > len(d.Chosen) {
			summary.Shortfall += d.Requested - len(d.Chosen)
		}
		totalCandidates += d.Candidates
		sampled++
		if d.Candidates > summary.MaxCandidates {
			summary.MaxCandidates = d.Candidates
		}
		for _, id := range d.Chosen {
			summary.DestinationCounts[id]++
		}
	}
	if sampled > 0 {
		summary.MeanCandidates = float64(totalCandidates) / float64(sampled)
	}
	summary.UniqueDestinations = len(summary.DestinationCounts)

	return summary
}
