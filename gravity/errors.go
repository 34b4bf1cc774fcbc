package gravity

import "errors"

var (
	// ErrInsufficientCandidates is returned when a draw without replacement asks
	// for more items than the candidate set holds. It is fatal for the run.
	ErrInsufficientCandidates = errors.New("gravity: not enough candidates for sampling without replacement")

	// ErrNoCandidates is returned by the sampler when the candidate set is empty.
	ErrNoCandidates = errors.New("gravity: empty candidate set")

	// ErrExhausted is returned when consuming a location whose capacity is already zero.
	ErrExhausted = errors.New("gravity: location capacity exhausted")

	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("gravity: invalid config")
)
