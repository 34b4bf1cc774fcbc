package gravity

import (
	"fmt"
	"math"

	"github.com/synthnet/gravnet/gravity/trace"
)

// Default grid parameters. The origin defaults match the south-west corner of
// the Florida extent the generator was first calibrated on.
const (
	DefaultMinX     = -87.78555
	DefaultMinY     = 24.46990
	DefaultCellSize = 0.01
	DefaultSteps    = 2
)

// Origin is the fixed lower-left corner used to map coordinates to grid cells.
type Origin struct {
	MinX float64
	MinY float64
}

// Config groups the parameters of one driver call.
type Config struct {
	NumCandidates int   // approximate number of nearby locations to consider (must be > 0)
	NumChoose     int   // locations per point in assignment mode (0 or 1 = single choice)
	Seed          int64 // seed for the processing-order shuffle and every draw

	Origin   Origin
	CellSize float64 // grid cell edge length in coordinate units (must be > 0)
	Steps    int     // ring increment, in cells, of the candidate search (must be > 0)

	UseCapacity bool // assignment mode: consume chosen locations' capacity
	Replace     bool // assignment mode: allow a location twice for the same point

	Kernel     Kernel           // nil = DefaultKernel()
	TraceLevel trace.TraceLevel // "" or "none" disables the decision trace
}

// DefaultConfig returns a Config with the default grid parameters.
func DefaultConfig(numCandidates int, seed int64) Config {
	return Config{
		NumCandidates: numCandidates,
		NumChoose:     1,
		Seed:          seed,
		Origin:        Origin{MinX: DefaultMinX, MinY: DefaultMinY},
		CellSize:      DefaultCellSize,
		Steps:         DefaultSteps,
	}
}

// Validate checks the config before a run.
func (c *Config) Validate() error {
	if c.NumCandidates <= 0 {
		return fmt.Errorf("%w: num_candidates must be positive, got %d", ErrInvalidConfig, c.NumCandidates)
	}
	if c.NumChoose < 0 {
		return fmt.Errorf("%w: num_choose must be non-negative, got %d", ErrInvalidConfig, c.NumChoose)
	}
	if !c.Replace && c.NumChoose > c.NumCandidates {
		return fmt.Errorf("%w: num_choose %d exceeds num_candidates %d without replacement", ErrInvalidConfig, c.NumChoose, c.NumCandidates)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, c.Steps)
	}
	if !isFinite(c.CellSize) || c.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be a finite positive number, got %f", ErrInvalidConfig, c.CellSize)
	}
	if !isFinite(c.Origin.MinX) {
		return fmt.Errorf("%w: min_x must be a finite number, got %f", ErrInvalidConfig, c.Origin.MinX)
	}
	if !isFinite(c.Origin.MinY) {
		return fmt.Errorf("%w: min_y must be a finite number, got %f", ErrInvalidConfig, c.Origin.MinY)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, c.TraceLevel)
	}
	return nil
}

func (c *Config) kernel() Kernel {
	if c.Kernel == nil {
		return DefaultKernel()
	}
	return c.Kernel
}

func (c *Config) numChoose() int {
	if c.NumChoose <= 0 {
		return 1
	}
	return c.NumChoose
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
