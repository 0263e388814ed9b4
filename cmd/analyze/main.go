package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"skidpad/internal/analysis"
	"skidpad/internal/common"
	"skidpad/internal/config"
	"skidpad/internal/report"
	"skidpad/internal/track"
	"skidpad/internal/trajectory"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: analyze --path run.csv [options]\n\n")
		fmt.Fprintf(os.Stderr, "analyze samples a recorded path ahead of a vehicle position and reports\n")
		fmt.Fprintf(os.Stderr, "curvature and distances to the track boundaries.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  analyze --path run.csv --cones cones.csv --x 0 --y 0\n")
		fmt.Fprintf(os.Stderr, "  analyze --path run.csv --cones cones.csv --x 0 --y 0 -o samples.csv --plot profile.png\n")
		fmt.Fprintf(os.Stderr, "  analyze --path run.csv --cones cones.csv --positions queries.csv -o summary.csv\n")
	}

	configFlag := pflag.StringP("config", "c", "", "YAML config file")
	pathFlag := pflag.StringP("path", "p", "", "Recorded path CSV (x,y[,heading]) (required)")
	conesFlag := pflag.String("cones", "", "Cone CSV (x,y,color)")
	coneImageFlag := pflag.String("cone-image", "", "Cone map image; coloured blobs become cones")
	scaleFlag := pflag.Float64("scale", 0.1, "Metres per pixel for --cone-image")
	xFlag := pflag.Float64("x", 0, "Vehicle x in metres")
	yFlag := pflag.Float64("y", 0, "Vehicle y in metres")
	positionsFlag := pflag.String("positions", "", "CSV of vehicle positions (x,y) to analyze as a batch")
	countFlag := pflag.IntP("count", "n", 0, "Samples per query (overrides config)")
	spacingFlag := pflag.Float64P("spacing", "s", 0, "Sample spacing in metres (overrides config)")
	smoothFlag := pflag.Float64("smooth", 0, "Spline-smooth the path with this step in metres (overrides config)")
	approachFlag := pflag.Int("approach", 0, "Prepend a connector of this many points from the vehicle (overrides config)")
	jobsFlag := pflag.IntP("jobs", "j", runtime.NumCPU(), "Concurrent queries in batch mode")
	outputFlag := pflag.StringP("output", "o", "", "Write CSV to this file instead of stdout")
	plotFlag := pflag.String("plot", "", "Write a forward profile plot (.png or .svg)")
	layoutPlotFlag := pflag.String("layout-plot", "", "Write a layout plot with the path and samples")
	rowsFlag := pflag.Int("rows", 20, "Rows shown in the console table (0 = all)")
	quietFlag := pflag.BoolP("quiet", "q", false, "Do not print the console table")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}
	if *pathFlag == "" {
		pflag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fail(err)
		}
	}
	if pflag.Lookup("count").Changed {
		cfg.Sampling.Count = *countFlag
	}
	if pflag.Lookup("spacing").Changed {
		cfg.Sampling.Spacing = *spacingFlag
	}
	if pflag.Lookup("smooth").Changed {
		cfg.Smoothing.Enabled = *smoothFlag > 0
		cfg.Smoothing.Step = *smoothFlag
	}
	if pflag.Lookup("approach").Changed {
		cfg.Approach.Points = *approachFlag
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	// 1. Load inputs
	path, err := trajectory.LoadPathFile(*pathFlag)
	if err != nil {
		fail(err)
	}
	cones, err := loadCones(*conesFlag, *coneImageFlag, *scaleFlag)
	if err != nil {
		fail(err)
	}
	log.Printf("loaded path with %d points (%.2f m), %d cones", path.Len(), path.Length(), cones.Len())

	// 2. Build the session
	boundaries, err := cfg.BoundaryClasses()
	if err != nil {
		fail(err)
	}
	opts := analysis.Options{
		Count:          cfg.Sampling.Count,
		Spacing:        cfg.Sampling.Spacing,
		Boundaries:     boundaries,
		ApproachPoints: cfg.Approach.Points,
	}
	if cfg.Smoothing.Enabled {
		opts.SmoothStep = cfg.Smoothing.Step
	}
	session, err := analysis.NewSession(path, cones, opts)
	if err != nil {
		fail(err)
	}

	out, closeOut := openOutput(*outputFlag)
	defer closeOut()

	// 3. Query
	if *positionsFlag != "" {
		runBatchMode(session, boundaries, *positionsFlag, *jobsFlag, out)
		return
	}
	runSingleMode(session, boundaries, common.Vec2{X: *xFlag, Y: *yFlag}, out, singleOptions{
		plot:       *plotFlag,
		layoutPlot: *layoutPlotFlag,
		rows:       *rowsFlag,
		quiet:      *quietFlag,
	})
}

type singleOptions struct {
	plot       string
	layoutPlot string
	rows       int
	quiet      bool
}

func runSingleMode(session *analysis.Session, boundaries []track.ConeClass, pos common.Vec2, out io.Writer, opts singleOptions) {
	res, err := session.Analyze(pos)
	if err != nil {
		fail(err)
	}
	if err := report.WriteSamplesCSV(out, boundaries, res); err != nil {
		fail(err)
	}

	if !opts.quiet {
		tbl, err := report.RenderTable(boundaries, res, opts.rows)
		if err != nil {
			fail(err)
		}
		fmt.Fprintln(os.Stderr, tbl)
	}

	if opts.plot != "" {
		if err := report.PlotProfile(opts.plot, res); err != nil {
			fail(err)
		}
	}
	if opts.layoutPlot != "" {
		layout := track.LayoutFromCones(session.Cones())
		if err := report.PlotLayout(opts.layoutPlot, layout, session.Path(), res); err != nil {
			fail(err)
		}
	}
}

func runBatchMode(session *analysis.Session, boundaries []track.ConeClass, positionsFile string, jobs int, out io.Writer) {
	queries, err := trajectory.LoadPathFile(positionsFile)
	if err != nil {
		fail(err)
	}
	results, err := session.AnalyzeBatch(context.Background(), queries.Points(), jobs)
	if err != nil {
		fail(err)
	}
	if err := report.WriteSummaryCSV(out, boundaries, results); err != nil {
		fail(err)
	}
	log.Printf("analyzed %d positions", len(results))
}

func loadCones(csvFile, imageFile string, scale float64) (*track.ConeSet, error) {
	switch {
	case csvFile != "" && imageFile != "":
		return nil, fmt.Errorf("--cones and --cone-image are mutually exclusive: %w", common.ErrInvalidArgument)
	case csvFile != "":
		return track.LoadConesFile(csvFile)
	case imageFile != "":
		return track.LoadConesFromImage(imageFile, scale)
	}
	log.Printf("no cones given; boundary distances will be empty")
	return nil, nil
}

func openOutput(file string) (io.Writer, func()) {
	if file == "" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(file)
	if err != nil {
		fail(err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Printf("close %s: %v", file, err)
		}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
