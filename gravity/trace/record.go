// Package trace provides decision-trace recording for gravity driver runs.
// This package has no dependencies on gravity/; it stores pure data types.
package trace

// Outcome is the terminal state of one processed entity.
type Outcome string

const (
	OutcomeEmitted Outcome = "emitted"
	OutcomeSkipped Outcome = "skipped"
)

// DecisionRecord captures what happened to a single entity in processing order.
type DecisionRecord struct {
	Step       int     // position in the shuffled processing order
	EntityID   int     // location id (network mode) or point id (assignment mode)
	Outcome    Outcome // emitted or skipped
	Reason     string  // skip reason; empty when emitted
	Requested  int     // partners requested
	Candidates int     // size of the candidate set handed to the sampler
	FastPath   bool    // whole pool used without a grid search
	Chosen     []int   // chosen destination ids, in draw order
}
