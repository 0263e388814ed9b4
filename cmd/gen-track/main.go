package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/spf13/pflag"

	"skidpad/internal/common"
	"skidpad/internal/config"
	"skidpad/internal/report"
	"skidpad/internal/track"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gen-track [options]\n\n")
		fmt.Fprintf(os.Stderr, "gen-track synthesizes the skidpad cone layout and writes it as x,y,color CSV.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gen-track                              # Rulebook layout to stdout\n")
		fmt.Fprintf(os.Stderr, "  gen-track -o cones.csv --plot cones.png\n")
		fmt.Fprintf(os.Stderr, "  gen-track --gate 0,-1.5,0,1.5,1,-1.5,1,1.5 --kml cones.kml\n")
	}

	configFlag := pflag.StringP("config", "c", "", "YAML config file")
	radiusFlag := pflag.Float64P("radius", "r", 0, "Centre line radius in metres (overrides config)")
	widthFlag := pflag.Float64P("width", "w", 0, "Track width in metres (overrides config)")
	conesFlag := pflag.IntP("cones", "n", 0, "Cones per half-turn arc (overrides config)")
	rotateFlag := pflag.Float64("rotate", 0, "Rotate the layout clockwise about its centroid, degrees")
	gateFlag := pflag.Float64Slice("gate", nil, "Four reference cones x1,y1,...,x4,y4 to align the layout to")
	outputFlag := pflag.StringP("output", "o", "", "Write CSV to this file instead of stdout")
	kmlFlag := pflag.String("kml", "", "Also write a KML file placed at the configured geo origin")
	plotFlag := pflag.String("plot", "", "Also write a plot (.png or .svg)")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fail(err)
		}
	}
	if pflag.Lookup("radius").Changed {
		cfg.Skidpad.CenterRadius = *radiusFlag
	}
	if pflag.Lookup("width").Changed {
		cfg.Skidpad.TrackWidth = *widthFlag
	}
	if pflag.Lookup("cones").Changed {
		cfg.Skidpad.ConesPerHalf = *conesFlag
	}

	layout, err := track.GenerateSkidpad(cfg.SkidpadParams())
	if err != nil {
		fail(err)
	}

	if len(*gateFlag) > 0 {
		gate, err := parseGate(*gateFlag)
		if err != nil {
			fail(err)
		}
		origin, angle := track.AlignmentFromGate(gate)
		log.Printf("aligning layout to gate: origin (%.3f, %.3f), heading %.2f deg", origin.X, origin.Y, angle*180/math.Pi)
		layout = layout.Transform(origin, angle)
	}
	if *rotateFlag != 0 {
		layout = layout.RotateAboutCentroid(*rotateFlag)
	}

	var out io.Writer = os.Stdout
	if *outputFlag != "" {
		f, err := os.Create(*outputFlag)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		out = f
	}
	if err := report.WriteLayoutCSV(out, layout); err != nil {
		fail(err)
	}

	if *kmlFlag != "" {
		f, err := os.Create(*kmlFlag)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		origin := report.GeoOrigin{Lat: cfg.Geo.OriginLat, Lon: cfg.Geo.OriginLon, HeadingDeg: cfg.Geo.HeadingDeg}
		if err := report.WriteLayoutKML(f, "skidpad", layout, nil, origin); err != nil {
			fail(err)
		}
	}

	if *plotFlag != "" {
		if err := report.PlotLayout(*plotFlag, layout, nil, nil); err != nil {
			fail(err)
		}
	}

	log.Printf("generated %d cones (R=%.3f m, w=%.3f m, n=%d)",
		layout.Len(), cfg.Skidpad.CenterRadius, cfg.Skidpad.TrackWidth, cfg.Skidpad.ConesPerHalf)
}

func parseGate(v []float64) ([4]common.Vec2, error) {
	var gate [4]common.Vec2
	if len(v) != 8 {
		return gate, fmt.Errorf("--gate needs 8 numbers, got %d: %w", len(v), common.ErrInvalidArgument)
	}
	for i := range gate {
		gate[i] = common.Vec2{X: v[2*i], Y: v[2*i+1]}
	}
	return gate, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
