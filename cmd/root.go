package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/synthnet/gravnet/gravity"
	"github.com/synthnet/gravnet/gravity/trace"
)

var (
	// CLI flags shared by every run command
	seed          int64   // Seed for the processing order and every draw
	logLevel      string  // Log verbosity level
	specPath      string  // YAML run spec; explicitly set flags override its values
	numCandidates int     // (Approximate) number of nearby locations to consider
	minX          float64 // Grid origin x
	minY          float64 // Grid origin y
	cellSize      float64 // Grid cell edge length
	steps         int     // Ring increment of the candidate search, in cells
	exponent      float64 // Distance-decay exponent of the gravity kernel (0 = capacity only)
	minDistance   float64 // Distance floor of the gravity kernel
	useCompliance bool    // Multiply weights by the locations' compliance column
	locationsPath string  // Locations CSV
	traceLevel    string  // Decision trace level

	// CLI flags for assignment
	pointsPath  string // Points CSV
	numChoose   int    // Locations per point
	useCapacity bool   // Interpret weights as capacity and consume them
	replace     bool   // Allow the same location twice for one point

	// CLI flags for output
	outPath     string // Edge list CSV (stdout when empty)
	headerPath  string // Run header YAML (skipped when empty)
	metricsPath string // Prometheus textfile (skipped when empty)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gravnet",
	Short: "Gravity-model generator for synthetic spatial networks",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			logrus.Debug("No .env file found (using environment variables)")
		}
		level := logLevel
		if !cmd.Flags().Changed("log") {
			if v := os.Getenv("GRAVNET_LOG"); v != "" {
				level = v
			}
		}
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", level)
		}
		logrus.SetLevel(parsed)
	},
}

// networkCmd links locations to each other
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Build a network among locations",
	Run: func(cmd *cobra.Command, args []string) {
		spec := resolveSpec(cmd)
		if err := spec.Validate(gravity.ModeNameNetwork); err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}
		run, err := executeRun(spec, gravity.ModeNameNetwork)
		if err != nil {
			logrus.Fatalf("Network run failed: %v", err)
		}
		if err := writeOutputs(currentOutputs(), run); err != nil {
			logrus.Fatalf("Writing results failed: %v", err)
		}
	},
}

// assignCmd links points to locations
var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign one or more locations to each point",
	Run: func(cmd *cobra.Command, args []string) {
		spec := resolveSpec(cmd)
		if err := spec.Validate(gravity.ModeNameAssignment); err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}
		run, err := executeRun(spec, gravity.ModeNameAssignment)
		if err != nil {
			logrus.Fatalf("Assignment run failed: %v", err)
		}
		if err := writeOutputs(currentOutputs(), run); err != nil {
			logrus.Fatalf("Writing results failed: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveSpec builds the run spec from --config (if any) and the flags.
// Flags the user set explicitly win over the file.
func resolveSpec(cmd *cobra.Command) *RunSpec {
	spec := specFromFlags()
	if specPath == "" {
		return spec
	}
	fileSpec, err := LoadRunSpec(specPath)
	if err != nil {
		logrus.Fatalf("Failed to load run spec: %v", err)
	}
	overrideChanged(cmd, fileSpec, spec)
	return fileSpec
}

// specFromFlags returns a spec holding the current flag values.
func specFromFlags() *RunSpec {
	return &RunSpec{
		Seed:          seed,
		NumCandidates: numCandidates,
		NumChoose:     numChoose,
		UseCapacity:   useCapacity,
		Replace:       replace,
		Locations:     locationsPath,
		Points:        pointsPath,
		Trace:         traceLevel,
		Grid:          GridSpec{MinX: ptr(minX), MinY: ptr(minY), CellSize: cellSize, Steps: steps},
		Kernel:        KernelSpec{Exponent: ptr(exponent), MinDistance: minDistance, Compliance: useCompliance},
	}
}

// overrideChanged copies every explicitly set flag from flags into spec.
func overrideChanged(cmd *cobra.Command, spec, flags *RunSpec) {
	changed := cmd.Flags().Changed
	if changed("seed") {
		spec.Seed = flags.Seed
	}
	if changed("num-candidates") {
		spec.NumCandidates = flags.NumCandidates
	}
	if changed("num-choose") {
		spec.NumChoose = flags.NumChoose
	}
	if changed("use-capacity") {
		spec.UseCapacity = flags.UseCapacity
	}
	if changed("replace") {
		spec.Replace = flags.Replace
	}
	if changed("locations") {
		spec.Locations = flags.Locations
	}
	if changed("points") {
		spec.Points = flags.Points
	}
	if changed("trace") {
		spec.Trace = flags.Trace
	}
	if changed("min-x") {
		spec.Grid.MinX = flags.Grid.MinX
	}
	if changed("min-y") {
		spec.Grid.MinY = flags.Grid.MinY
	}
	if changed("cell-size") {
		spec.Grid.CellSize = flags.Grid.CellSize
	}
	if changed("steps") {
		spec.Grid.Steps = flags.Grid.Steps
	}
	if changed("exponent") {
		spec.Kernel.Exponent = flags.Kernel.Exponent
	}
	if changed("min-distance") {
		spec.Kernel.MinDistance = flags.Kernel.MinDistance
	}
	if changed("compliance") {
		spec.Kernel.Compliance = flags.Kernel.Compliance
	}
}

// registerRunFlags adds the flags shared by every run command.
func registerRunFlags(cmd *cobra.Command) {
	def := gravity.DefaultKernel()
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the processing order and every draw")
	cmd.Flags().StringVar(&specPath, "config", "", "YAML run spec; explicitly set flags override its values")
	cmd.Flags().IntVar(&numCandidates, "num-candidates", 10, "(Approximate) number of nearby locations to consider")
	cmd.Flags().Float64Var(&minX, "min-x", gravity.DefaultMinX, "Grid origin x (smallest x value)")
	cmd.Flags().Float64Var(&minY, "min-y", gravity.DefaultMinY, "Grid origin y (smallest y value)")
	cmd.Flags().Float64Var(&cellSize, "cell-size", gravity.DefaultCellSize, "Grid cell edge length in coordinate units")
	cmd.Flags().IntVar(&steps, "steps", gravity.DefaultSteps, "Ring increment of the neighbourhood search, in cells")
	cmd.Flags().Float64Var(&exponent, "exponent", def.Exponent, "Distance-decay exponent (0 = capacity only)")
	cmd.Flags().Float64Var(&minDistance, "min-distance", def.MinDistance, "Distance floor of the gravity kernel")
	cmd.Flags().BoolVar(&useCompliance, "compliance", false, "Multiply weights by the locations' compliance column")
	cmd.Flags().StringVar(&locationsPath, "locations", "", "Locations CSV (id,x,y,capacity[,compliance])")
	cmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
	cmd.Flags().StringVar(&outPath, "out", "", "Edge list CSV (stdout when empty)")
	cmd.Flags().StringVar(&headerPath, "header", "", "Run header YAML written next to the edge list")
	cmd.Flags().StringVar(&metricsPath, "metrics-out", "", "Prometheus textfile with run metrics")
}

// registerAssignFlags adds the assignment-only flags.
func registerAssignFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pointsPath, "points", "", "Points CSV (id,x,y)")
	cmd.Flags().IntVar(&numChoose, "num-choose", 1, "Number of locations assigned to each point")
	cmd.Flags().BoolVar(&useCapacity, "use-capacity", false, "Interpret weights as capacity, consuming one per assignment")
	cmd.Flags().BoolVar(&replace, "replace", false, "Allow a location to be assigned to a point more than once")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic); defaults to $GRAVNET_LOG")

	registerRunFlags(networkCmd)
	registerRunFlags(assignCmd)
	registerAssignFlags(assignCmd)
	registerRunFlags(sweepCmd)
	registerAssignFlags(sweepCmd)
	registerSweepFlags(sweepCmd)

	rootCmd.AddCommand(networkCmd, assignCmd, sweepCmd)
}
