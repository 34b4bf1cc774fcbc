// Package table converts CSV input into gravity entities and writes edge lists
// back out as CSV, with run metadata in a YAML header file.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/synthnet/gravnet/gravity"
)

// Column names recognised in input files (case-insensitive).
const (
	colID         = "id"
	colX          = "x"
	colY          = "y"
	colCapacity   = "capacity"
	colWeight     = "weight" // accepted alias of capacity
	colCompliance = "compliance"
)

// LoadLocations reads locations from a CSV file with a header row.
// Required columns: id, x, y, capacity (or weight). Optional: compliance.
func LoadLocations(path string) ([]gravity.Location, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening locations: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadLocations(file)
}

// ReadLocations reads locations from CSV.
func ReadLocations(r io.Reader) ([]gravity.Location, error) {
	reader := csv.NewReader(r)
	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	capCol, ok := header[colCapacity]
	if !ok {
		capCol, ok = header[colWeight]
	}
	if !ok {
		return nil, fmt.Errorf("locations CSV: missing %q column", colCapacity)
	}
	if err := requireColumns(header, colID, colX, colY); err != nil {
		return nil, fmt.Errorf("locations CSV: %w", err)
	}
	compCol, hasCompliance := header[colCompliance]

	var locs []gravity.Location
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading locations row %d: %w", line, err)
		}
		id, x, y, err := parseIDXY(row, header)
		if err != nil {
			return nil, fmt.Errorf("locations row %d: %w", line, err)
		}
		capacity, err := parseCount(row[capCol])
		if err != nil {
			return nil, fmt.Errorf("locations row %d: capacity: %w", line, err)
		}
		loc := gravity.Location{ID: id, X: x, Y: y, Capacity: capacity, Weight: capacity}
		if hasCompliance && strings.TrimSpace(row[compCol]) != "" {
			c, err := parseFinite(row[compCol])
			if err != nil {
				return nil, fmt.Errorf("locations row %d: compliance: %w", line, err)
			}
			loc.Compliance, loc.HasCompliance = c, true
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// LoadPoints reads points from a CSV file with a header row.
// Required columns: id, x, y.
func LoadPoints(path string) ([]gravity.Point, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening points: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadPoints(file)
}

// ReadPoints reads points from CSV.
func ReadPoints(r io.Reader) ([]gravity.Point, error) {
	reader := csv.NewReader(r)
	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(header, colID, colX, colY); err != nil {
		return nil, fmt.Errorf("points CSV: %w", err)
	}

	var pts []gravity.Point
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading points row %d: %w", line, err)
		}
		id, x, y, err := parseIDXY(row, header)
		if err != nil {
			return nil, fmt.Errorf("points row %d: %w", line, err)
		}
		pts = append(pts, gravity.Point{ID: id, X: x, Y: y})
	}
	return pts, nil
}

func readHeader(reader *csv.Reader) (map[string]int, error) {
	names, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	header := make(map[string]int, len(names))
	for i, n := range names {
		header[strings.ToLower(strings.TrimSpace(n))] = i
	}
	return header, nil
}

func requireColumns(header map[string]int, names ...string) error {
	for _, n := range names {
		if _, ok := header[n]; !ok {
			return fmt.Errorf("missing %q column", n)
		}
	}
	return nil
}

func parseIDXY(row []string, header map[string]int) (int, float64, float64, error) {
	id, err := strconv.Atoi(strings.TrimSpace(row[header[colID]]))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("id: %w", err)
	}
	x, err := parseFinite(row[header[colX]])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("x: %w", err)
	}
	y, err := parseFinite(row[header[colY]])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("y: %w", err)
	}
	return id, x, y, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a finite number, got %s", s)
	}
	return v, nil
}

// parseCount accepts non-negative integers, including integral floats such as
// "2.0" written by spreadsheet exports.
func parseCount(s string) (int, error) {
	v, err := parseFinite(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("must be a non-negative integer, got %s", s)
	}
	return int(v), nil
}
