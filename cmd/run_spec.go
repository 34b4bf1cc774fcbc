package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/synthnet/gravnet/gravity"
	"github.com/synthnet/gravnet/gravity/trace"
)

// RunSpec is the YAML run configuration accepted by --config.
// Unknown keys are rejected so typos surface as errors.
type RunSpec struct {
	Seed          int64      `yaml:"seed"`
	NumCandidates int        `yaml:"num_candidates"`
	NumChoose     int        `yaml:"num_choose,omitempty"`
	UseCapacity   bool       `yaml:"use_capacity,omitempty"`
	Replace       bool       `yaml:"replace,omitempty"`
	Locations     string     `yaml:"locations,omitempty"`
	Points        string     `yaml:"points,omitempty"`
	Trace         string     `yaml:"trace,omitempty"`
	Grid          GridSpec   `yaml:"grid"`
	Kernel        KernelSpec `yaml:"kernel"`
}

// GridSpec configures the spatial grid. Nil fields take the defaults.
type GridSpec struct {
	MinX     *float64 `yaml:"min_x,omitempty"`
	MinY     *float64 `yaml:"min_y,omitempty"`
	CellSize float64  `yaml:"cell_size,omitempty"`
	Steps    int      `yaml:"steps,omitempty"`
}

// KernelSpec configures the gravity kernel. A nil exponent takes the default.
type KernelSpec struct {
	Exponent    *float64 `yaml:"exponent,omitempty"`
	MinDistance float64  `yaml:"min_distance,omitempty"`
	Compliance  bool     `yaml:"compliance,omitempty"`
}

// LoadRunSpec reads and parses a YAML run specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRunSpec(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec: %w", err)
	}
	var spec RunSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing run spec: %w", err)
	}
	spec.applyDefaults()
	return &spec, nil
}

// applyDefaults fills unset grid and kernel fields.
func (s *RunSpec) applyDefaults() {
	def := gravity.DefaultKernel()
	if s.Grid.MinX == nil {
		s.Grid.MinX = ptr(gravity.DefaultMinX)
	}
	if s.Grid.MinY == nil {
		s.Grid.MinY = ptr(gravity.DefaultMinY)
	}
	if s.Grid.CellSize == 0 {
		s.Grid.CellSize = gravity.DefaultCellSize
	}
	if s.Grid.Steps == 0 {
		s.Grid.Steps = gravity.DefaultSteps
	}
	if s.Kernel.Exponent == nil {
		s.Kernel.Exponent = ptr(def.Exponent)
	}
	if s.Kernel.MinDistance == 0 {
		s.Kernel.MinDistance = def.MinDistance
	}
	if s.NumChoose == 0 {
		s.NumChoose = 1
	}
}

// Config converts the spec into a driver config.
func (s *RunSpec) Config() gravity.Config {
	s.applyDefaults()
	return gravity.Config{
		NumCandidates: s.NumCandidates,
		NumChoose:     s.NumChoose,
		Seed:          s.Seed,
		Origin:        gravity.Origin{MinX: *s.Grid.MinX, MinY: *s.Grid.MinY},
		CellSize:      s.Grid.CellSize,
		Steps:         s.Grid.Steps,
		UseCapacity:   s.UseCapacity,
		Replace:       s.Replace,
		Kernel: gravity.GravityKernel{
			Exponent:      *s.Kernel.Exponent,
			MinDistance:   s.Kernel.MinDistance,
			UseCompliance: s.Kernel.Compliance,
		},
		TraceLevel: trace.TraceLevel(s.Trace),
	}
}

// Validate checks the spec for the given mode.
func (s *RunSpec) Validate(mode gravity.Mode) error {
	if s.Locations == "" {
		return fmt.Errorf("locations file not provided")
	}
	if mode == gravity.ModeNameAssignment && s.Points == "" {
		return fmt.Errorf("points file not provided")
	}
	cfg := s.Config()
	return cfg.Validate()
}

func ptr[T any](v T) *T {
	return &v
}
