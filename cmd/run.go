package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/synthnet/gravnet/gravity"
	"github.com/synthnet/gravnet/gravity/metrics"
	"github.com/synthnet/gravnet/gravity/table"
	"github.com/synthnet/gravnet/gravity/trace"
)

// runOutcome bundles what one CLI run produced.
type runOutcome struct {
	ID     string
	Config gravity.Config
	Result *gravity.Result
}

// outputOptions selects where results are written.
type outputOptions struct {
	Out     string    // edge list CSV path; Stdout when empty
	Header  string    // run header YAML path; skipped when empty
	Metrics string    // Prometheus textfile path; skipped when empty
	Stdout  io.Writer // destination for the edge list when Out is empty
	Stderr  io.Writer // destination for the trace summary
}

func currentOutputs() outputOptions {
	return outputOptions{Out: outPath, Header: headerPath, Metrics: metricsPath, Stdout: os.Stdout, Stderr: os.Stderr}
}

// executeRun loads the input files named by spec and runs the driver for mode.
func executeRun(spec *RunSpec, mode gravity.Mode) (*runOutcome, error) {
	cfg := spec.Config()
	runID := uuid.NewString()
	log := logrus.WithField("run_id", runID)

	locs, err := table.LoadLocations(spec.Locations)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %d locations from %s", len(locs), spec.Locations)

	startTime := time.Now()
	var res *gravity.Result
	switch mode {
	case gravity.ModeNameNetwork:
		res, err = gravity.BuildNetwork(locs, cfg)
	case gravity.ModeNameAssignment:
		pts, perr := table.LoadPoints(spec.Points)
		if perr != nil {
			return nil, perr
		}
		log.Infof("Loaded %d points from %s", len(pts), spec.Points)
		res, err = gravity.Assign(pts, locs, cfg)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"edges":   len(res.Edges),
		"skipped": res.Stats.SkippedTotal(),
		"elapsed": time.Since(startTime).String(),
	}).Info("Run complete")
	return &runOutcome{ID: runID, Config: cfg, Result: res}, nil
}

// writeOutputs writes the edge list, optional header, metrics and trace summary.
func writeOutputs(opts outputOptions, run *runOutcome) error {
	header := table.NewRunHeader(run.Config, run.Result)
	header.RunID = run.ID
	header.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	switch {
	case opts.Out != "" && opts.Header != "":
		if err := table.ExportRun(header, run.Result.Edges, opts.Header, opts.Out); err != nil {
			return err
		}
	case opts.Out != "":
		if err := table.WriteEdgeFile(opts.Out, run.Result.Edges); err != nil {
			return err
		}
	default:
		if err := table.WriteEdges(opts.Stdout, run.Result.Edges); err != nil {
			return err
		}
	}
	logrus.Infof("Edge list fingerprint %s", header.Fingerprint)

	if opts.Metrics != "" {
		collector := metrics.New("")
		collector.Observe(run.Result)
		if err := collector.WriteTextfile(opts.Metrics); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if run.Result.Trace != nil {
		printTraceSummary(opts.Stderr, trace.Summarize(run.Result.Trace))
	}
	return nil
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	_, _ = fmt.Fprintln(w, "=== Decision Trace Summary ===")
	_, _ = fmt.Fprintf(w, "Total decisions:     %d\n", s.TotalDecisions)
	_, _ = fmt.Fprintf(w, "Emitted:             %d\n", s.EmittedCount)
	_, _ = fmt.Fprintf(w, "Skipped:             %d\n", s.SkippedCount)
	for _, reason := range []gravity.SkipReason{gravity.SkipZeroCapacity, gravity.SkipStarved, gravity.SkipNoCandidates} {
		if n := s.SkipReasons[string(reason)]; n > 0 {
			_, _ = fmt.Fprintf(w, "  %-18s %d\n", string(reason)+":", n)
		}
	}
	_, _ = fmt.Fprintf(w, "Fast path:           %d\n", s.FastPathCount)
	_, _ = fmt.Fprintf(w, "Mean candidates:     %.2f\n", s.MeanCandidates)
	_, _ = fmt.Fprintf(w, "Max candidates:      %d\n", s.MaxCandidates)
	_, _ = fmt.Fprintf(w, "Partner shortfall:   %d\n", s.Shortfall)
	_, _ = fmt.Fprintf(w, "Unique destinations: %d\n", s.UniqueDestinations)
}
