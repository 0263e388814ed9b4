package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/spf13/pflag"
	"gocv.io/x/gocv"

	"skidpad/internal/analysis"
	"skidpad/internal/common"
	"skidpad/internal/config"
	"skidpad/internal/track"
	"skidpad/internal/trajectory"
)

const marginPx = 40

var (
	colorPath   = color.RGBA{90, 90, 90, 0}
	colorSample = color.RGBA{255, 0, 200, 0}
	colorText   = color.RGBA{230, 230, 230, 0}
)

// raster maps world metres to pixel coordinates with y pointing down.
type raster struct {
	minX, maxY float64
	ppm        float64 // Pixels per metre
	w, h       int
}

func newRaster(pts []common.Vec2, ppm float64) raster {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return raster{
		minX: minX,
		maxY: maxY,
		ppm:  ppm,
		w:    int(math.Ceil((maxX-minX)*ppm)) + 2*marginPx,
		h:    int(math.Ceil((maxY-minY)*ppm)) + 2*marginPx,
	}
}

func (r raster) pt(p common.Vec2) image.Point {
	return image.Pt(
		marginPx+int(math.Round((p.X-r.minX)*r.ppm)),
		marginPx+int(math.Round((r.maxY-p.Y)*r.ppm)),
	)
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: debug-render [options]\n\n")
		fmt.Fprintf(os.Stderr, "debug-render rasterizes a cone layout, a path and its forward samples with OpenCV,\n")
		fmt.Fprintf(os.Stderr, "or runs edge detection over a cone map image to check it before --cone-image.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  debug-render --path run.csv --x 0 --y 0 -o render.png\n")
		fmt.Fprintf(os.Stderr, "  debug-render --edges map.png -o edges.png\n")
	}

	configFlag := pflag.StringP("config", "c", "", "YAML config file")
	pathFlag := pflag.StringP("path", "p", "", "Recorded path CSV")
	conesFlag := pflag.String("cones", "", "Cone CSV; defaults to the generated layout")
	xFlag := pflag.Float64("x", math.NaN(), "Vehicle x in metres; draws forward samples with --y")
	yFlag := pflag.Float64("y", math.NaN(), "Vehicle y in metres")
	ppmFlag := pflag.Float64("ppm", 20, "Pixels per metre")
	edgesFlag := pflag.String("edges", "", "Run Canny edge detection over this image instead of rendering")
	outputFlag := pflag.StringP("output", "o", "render.png", "Output image file")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *edgesFlag != "" {
		if err := detectEdges(*edgesFlag, *outputFlag); err != nil {
			fail(err)
		}
		log.Printf("edges written to %s", *outputFlag)
		return
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fail(err)
		}
	}

	layout, err := loadLayout(*conesFlag, cfg)
	if err != nil {
		fail(err)
	}

	var path *trajectory.Path
	var res *analysis.Result
	if *pathFlag != "" {
		if path, err = trajectory.LoadPathFile(*pathFlag); err != nil {
			fail(err)
		}
		pos := common.Vec2{X: *xFlag, Y: *yFlag}
		if pos.IsFinite() {
			boundaries, err := cfg.BoundaryClasses()
			if err != nil {
				fail(err)
			}
			session, err := analysis.NewSession(path, layout.ConeSet(), analysis.Options{
				Count:      cfg.Sampling.Count,
				Spacing:    cfg.Sampling.Spacing,
				Boundaries: boundaries,
			})
			if err != nil {
				fail(err)
			}
			if res, err = session.Analyze(pos); err != nil {
				fail(err)
			}
		}
	}

	if err := render(*outputFlag, layout, path, res, *ppmFlag); err != nil {
		fail(err)
	}
	log.Printf("rendered %d cones to %s", layout.Len(), *outputFlag)
}

func loadLayout(file string, cfg *config.Config) (*track.Layout, error) {
	if file == "" {
		return track.GenerateSkidpad(cfg.SkidpadParams())
	}
	cones, err := track.LoadConesFile(file)
	if err != nil {
		return nil, err
	}
	return track.LayoutFromCones(cones), nil
}

func render(file string, layout *track.Layout, path *trajectory.Path, res *analysis.Result, ppm float64) error {
	var pts []common.Vec2
	for _, c := range layout.All() {
		pts = append(pts, c.Position)
	}
	if path != nil {
		pts = append(pts, path.Points()...)
	}
	if len(pts) == 0 {
		return fmt.Errorf("nothing to render: %w", common.ErrInvalidArgument)
	}
	r := newRaster(pts, ppm)

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 30, 30, 0), r.h, r.w, gocv.MatTypeCV8UC3)
	defer img.Close()

	if path != nil {
		line := path.Points()
		for i := 0; i+1 < len(line); i++ {
			gocv.Line(&img, r.pt(line[i]), r.pt(line[i+1]), colorPath, 1)
		}
	}

	radius := max(2, int(0.25*ppm))
	for _, c := range layout.All() {
		gocv.Circle(&img, r.pt(c.Position), radius, c.Class.Color(), -1)
	}

	if res != nil {
		for _, smp := range res.Samples {
			gocv.Circle(&img, r.pt(smp.Position), 2, colorSample, -1)
		}
		label := fmt.Sprintf("vehicle (%.2f, %.2f) start %d", res.Vehicle.X, res.Vehicle.Y, res.StartIndex)
		gocv.PutText(&img, label, image.Pt(10, 20), gocv.FontHersheySimplex, 0.5, colorText, 1)
	}

	if ok := gocv.IMWrite(file, img); !ok {
		return fmt.Errorf("write %s failed", file)
	}
	return nil
}

// detectEdges writes the Canny edge map of a cone map image.
func detectEdges(in, out string) error {
	img := gocv.IMRead(in, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("read %s: %w", in, common.ErrInvalidArgument)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	// Hysteresis thresholds tuned for saturated cone blobs on a plain background
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)

	if ok := gocv.IMWrite(out, edges); !ok {
		return fmt.Errorf("write %s failed", out)
	}
	return nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
