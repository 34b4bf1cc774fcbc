package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures one record per processed entity.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether level records anything.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelDecisions
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	Mode  string // "network" or "assignment", informational
}

// RunTrace collects decision records during one driver run.
type RunTrace struct {
	Config    TraceConfig
	Decisions []DecisionRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace(config TraceConfig) *RunTrace {
	return &RunTrace{
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
	}
}

// RecordDecision appends a decision record. Safe on a nil trace.
func (rt *RunTrace) RecordDecision(record DecisionRecord) {
	if rt == nil {
		return
	}
	rt.Decisions = append(rt.Decisions, record)
}
