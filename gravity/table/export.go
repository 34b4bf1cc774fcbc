package table

import (
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"

	"github.com/synthnet/gravnet/gravity"
)

// FormatVersion is the version of the edge-list header written by ExportRun.
const FormatVersion = 1

// RunHeader captures the parameters and outcome of a run next to its edge list.
type RunHeader struct {
	Version     int    `yaml:"format_version"`
	RunID       string `yaml:"run_id,omitempty"`
	CreatedAt   string `yaml:"created_at,omitempty"`
	Mode        string `yaml:"mode"` // "network" or "assignment"
	Fingerprint string `yaml:"fingerprint"`

	Seed          int64   `yaml:"seed"`
	NumCandidates int     `yaml:"num_candidates"`
	NumChoose     int     `yaml:"num_choose,omitempty"`
	MinX          float64 `yaml:"min_x"`
	MinY          float64 `yaml:"min_y"`
	CellSize      float64 `yaml:"cell_size"`
	Steps         int     `yaml:"steps"`
	UseCapacity   bool    `yaml:"use_capacity,omitempty"`
	Replace       bool    `yaml:"replace,omitempty"`
	Exponent      float64 `yaml:"exponent"`
	Compliance    bool    `yaml:"compliance,omitempty"`

	Edges   int            `yaml:"edges"`
	Skipped map[string]int `yaml:"skipped,omitempty"`
}

// Run combines header and edges for a complete exported run.
type Run struct {
	Header RunHeader
	Edges  []gravity.Edge
}

// edgeColumns are the CSV column headers of an edge list.
var edgeColumns = []string{"source", "dest"}

// NewRunHeader fills a header from the config and result of a run.
func NewRunHeader(cfg gravity.Config, res *gravity.Result) *RunHeader {
	h := &RunHeader{
		Version:       FormatVersion,
		Mode:          string(res.Mode),
		Fingerprint:   FormatFingerprint(Fingerprint(res.Edges)),
		Seed:          cfg.Seed,
		NumCandidates: cfg.NumCandidates,
		MinX:          cfg.Origin.MinX,
		MinY:          cfg.Origin.MinY,
		CellSize:      cfg.CellSize,
		Steps:         cfg.Steps,
		Edges:         len(res.Edges),
	}
	if res.Mode == gravity.ModeNameAssignment {
		h.NumChoose = max(cfg.NumChoose, 1)
		h.UseCapacity = cfg.UseCapacity
		h.Replace = cfg.Replace
	}
	if k, ok := cfg.Kernel.(gravity.GravityKernel); ok {
		h.Exponent = k.Exponent
		h.Compliance = k.UseCompliance
	} else if cfg.Kernel == nil {
		h.Exponent = gravity.DefaultKernel().Exponent
	}
	if n := res.Stats.SkippedTotal(); n > 0 {
		h.Skipped = make(map[string]int, len(res.Stats.Skipped))
		for reason, count := range res.Stats.Skipped {
			h.Skipped[string(reason)] = count
		}
	}
	return h
}

// WriteEdges writes a header row and one row per edge, in order.
func WriteEdges(w io.Writer, edges []gravity.Edge) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(edgeColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, e := range edges {
		if err := writer.Write([]string{strconv.Itoa(e.Source), strconv.Itoa(e.Dest)}); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadEdges reads an edge list written by WriteEdges.
func ReadEdges(r io.Reader) ([]gravity.Edge, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(edgeColumns)

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	edges := make([]gravity.Edge, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		src, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("parsing source %q: %w", row[0], err)
		}
		dst, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("parsing dest %q: %w", row[1], err)
		}
		edges = append(edges, gravity.Edge{Source: src, Dest: dst})
	}
	return edges, nil
}

// ExportRun writes the run header (YAML) and edges (CSV) to separate files.
func ExportRun(header *RunHeader, edges []gravity.Edge, headerPath, dataPath string) error {
	headerData, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling run header: %w", err)
	}
	if err := os.WriteFile(headerPath, headerData, 0644); err != nil {
		return fmt.Errorf("writing run header: %w", err)
	}
	return WriteEdgeFile(dataPath, edges)
}

// WriteEdgeFile writes edges as CSV to path. A failed close is reported when
// the write itself succeeded.
func WriteEdgeFile(path string, edges []gravity.Edge) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating edge file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing edge file: %w", cerr)
		}
	}()
	return WriteEdges(file, edges)
}

// LoadRun reads a run header (YAML) and its edges (CSV).
func LoadRun(headerPath, dataPath string) (*Run, error) {
	headerData, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, fmt.Errorf("reading run header: %w", err)
	}
	var header RunHeader
	if err := yaml.Unmarshal(headerData, &header); err != nil {
		return nil, fmt.Errorf("parsing run header: %w", err)
	}

	file, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening edge file: %w", err)
	}
	defer func() { _ = file.Close() }()
	edges, err := ReadEdges(file)
	if err != nil {
		return nil, err
	}
	return &Run{Header: header, Edges: edges}, nil
}

// Fingerprint returns an xxh3 digest of the edge list. Two runs with the same
// seed and input have the same fingerprint.
func Fingerprint(edges []gravity.Edge) uint64 {
	buf := make([]byte, 0, 16*len(edges))
	for _, e := range edges {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(e.Source)))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(e.Dest)))
	}
	return xxh3.Hash(buf)
}

// FormatFingerprint renders a fingerprint as fixed-width hex.
func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}
