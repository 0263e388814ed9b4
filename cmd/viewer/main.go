package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spf13/pflag"

	"skidpad/internal/analysis"
	"skidpad/internal/common"
	"skidpad/internal/config"
	"skidpad/internal/physics"
	"skidpad/internal/track"
	"skidpad/internal/trajectory"
)

// Render window dimensions
const (
	WindowWidth  = 1200
	WindowHeight = 800
)

// Replay settings
const (
	TickSeconds     = 1.0 / 60
	TrailLength     = 15.0 // Metres of driven path drawn behind the car
	PointsAheadDraw = 10   // Raw waypoints highlighted ahead of the car
	ViewScaleMargin = 0.9  // Margin for fitting the track in the window
	ConeRadius      = 0.25 // m
)

// Visualization colors
var (
	ColorBackground = color.RGBA{30, 30, 30, 255}
	ColorPath       = color.RGBA{90, 90, 90, 255}
	ColorTrail      = color.RGBA{255, 255, 0, 200}
	ColorAhead      = color.RGBA{0, 220, 255, 255}
	ColorSample     = color.RGBA{255, 0, 200, 255}
	ColorCar        = color.RGBA{255, 0, 0, 255}
	ColorCarHeading = color.RGBA{255, 255, 0, 255}
)

type Game struct {
	Cones   *track.Layout
	Path    *trajectory.Path
	Session *analysis.Session
	Car     *physics.Car
	Result  *analysis.Result
	Paused  bool
	Cruise  bool // Hold throttle without a key

	// Rendering Scale
	ViewScale   float64
	ViewOffsetX float64
	ViewOffsetY float64
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.Paused = !g.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.Cruise = !g.Cruise
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Car = physics.NewCar(g.Path)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.Car.Place(g.Path, g.toWorld(float64(mx), float64(my)))
	}

	if !g.Paused {
		throttle, brake := 0.0, 0.0
		if g.Cruise || ebiten.IsKeyPressed(ebiten.KeyUp) {
			throttle = 1.0
		}
		if ebiten.IsKeyPressed(ebiten.KeyDown) {
			brake = 1.0
		}
		g.Car.Update(g.Path, throttle, brake, TickSeconds)
	}

	res, err := g.Session.Analyze(g.Car.Position)
	if err != nil {
		return err
	}
	g.Result = res
	return nil
}

// toScreen maps world metres (y up) to screen pixels (y down).
func (g *Game) toScreen(p common.Vec2) (float32, float32) {
	return float32(p.X*g.ViewScale + g.ViewOffsetX), float32(-p.Y*g.ViewScale + g.ViewOffsetY)
}

func (g *Game) toWorld(x, y float64) common.Vec2 {
	return common.Vec2{X: (x - g.ViewOffsetX) / g.ViewScale, Y: -(y - g.ViewOffsetY) / g.ViewScale}
}

func (g *Game) strokePolyline(screen *ebiten.Image, pts []common.Vec2, width float32, clr color.Color) {
	for j := 0; j+1 < len(pts); j++ {
		x1, y1 := g.toScreen(pts[j])
		x2, y2 := g.toScreen(pts[j+1])
		vector.StrokeLine(screen, x1, y1, x2, y2, width, clr, true)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	// Path and the trail driven so far
	points := g.Path.Points()
	g.strokePolyline(screen, points, 1, ColorPath)
	from := g.Path.TrailingWindow(g.Car.Checkpoint, TrailLength)
	g.strokePolyline(screen, points[from:g.Car.Checkpoint+1], 3, ColorTrail)

	// Cones
	r := float32(ConeRadius * g.ViewScale)
	for _, c := range g.Cones.All() {
		x, y := g.toScreen(c.Position)
		rr := r
		if c.Class == track.ClassBigOrange {
			rr *= 1.6
		}
		vector.FillCircle(screen, x, y, max(rr, 2), c.Class.Color(), true)
	}

	// Raw waypoints ahead and the resampled window
	for _, wp := range g.Path.PointsAhead(g.Car.Checkpoint, PointsAheadDraw) {
		x, y := g.toScreen(wp.Position)
		vector.StrokeCircle(screen, x, y, 3, 1, ColorAhead, true)
	}
	if g.Result != nil {
		for _, smp := range g.Result.Samples {
			x, y := g.toScreen(smp.Position)
			vector.FillCircle(screen, x, y, 2, ColorSample, true)
		}
	}

	// Car as rotated rectangle
	var body vector.Path
	for i, corner := range g.Car.Corners() {
		sx, sy := g.toScreen(corner)
		if i == 0 {
			body.MoveTo(sx, sy)
		} else {
			body.LineTo(sx, sy)
		}
	}
	body.Close()

	var cs ebiten.ColorScale
	cs.ScaleWithColor(ColorCar)
	vector.FillPath(screen, &body, nil, &vector.DrawPathOptions{
		AntiAlias:  true,
		ColorScale: cs,
	})

	headX, headY := g.toScreen(g.Car.Position)
	tipX, tipY := g.toScreen(g.Car.Position.Add(common.FromAngle(g.Car.Heading).Scale(g.Car.Length)))
	vector.StrokeLine(screen, headX, headY, tipX, tipY, 2, ColorCarHeading, true)

	// HUD
	vector.FillRect(screen, 0, 0, 220, 190, color.RGBA{0, 0, 0, 180}, true)
	ebitenutil.DebugPrint(screen, g.hud())
}

func (g *Game) hud() string {
	msg := "SKIDPAD REPLAY\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Speed:    %.2f m/s\n", g.Car.Speed)
	msg += fmt.Sprintf("Distance: %.2f / %.2f m\n", g.Car.Distance, g.Path.Length())
	msg += fmt.Sprintf("Index:    %d\n", g.Car.Checkpoint)
	if g.Result != nil {
		sum := analysis.Summarize(g.Result)
		if sum.Samples > 0 {
			msg += fmt.Sprintf("Curv:     %.4f 1/m\n", sum.MeanCurvature)
		}
		for _, class := range track.Classes {
			if d, ok := sum.MinBoundary[class]; ok {
				msg += fmt.Sprintf("Min %-6s %.2f m\n", class.String()+":", d)
			}
		}
	}
	if g.Car.Finished {
		msg += "[FINISHED] "
	}
	if g.Paused {
		msg += "[PAUSED]"
	}
	msg += "\nUp/Down throttle/brake\nC cruise, Space pause\nR restart, click to place"
	return msg
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return WindowWidth, WindowHeight
}

var _ ebiten.Game = (*Game)(nil)

// fitView computes a scale and offset that fit every point in the window.
func fitView(pts []common.Vec2) (scale, offX, offY float64) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	w, h := math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)
	scale = math.Min(WindowWidth/w, WindowHeight/h) * ViewScaleMargin

	// Centre the bounding box
	offX = WindowWidth/2 - (minX+maxX)/2*scale
	offY = WindowHeight/2 + (minY+maxY)/2*scale
	return scale, offX, offY
}

func main() {
	configFlag := pflag.StringP("config", "c", "", "YAML config file")
	pathFlag := pflag.StringP("path", "p", "", "Recorded path CSV (required)")
	conesFlag := pflag.String("cones", "", "Cone CSV; defaults to the generated layout")
	pflag.Parse()

	if *pathFlag == "" {
		fmt.Fprintf(os.Stderr, "Usage: viewer --path run.csv [--cones cones.csv] [--config skidpad.yaml]\n")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			log.Fatal(err)
		}
	}

	path, err := trajectory.LoadPathFile(*pathFlag)
	if err != nil {
		log.Fatal(err)
	}

	var layout *track.Layout
	if *conesFlag != "" {
		cones, err := track.LoadConesFile(*conesFlag)
		if err != nil {
			log.Fatal(err)
		}
		layout = track.LayoutFromCones(cones)
	} else if layout, err = track.GenerateSkidpad(cfg.SkidpadParams()); err != nil {
		log.Fatal(err)
	}

	boundaries, err := cfg.BoundaryClasses()
	if err != nil {
		log.Fatal(err)
	}
	opts := analysis.Options{
		Count:      cfg.Sampling.Count,
		Spacing:    cfg.Sampling.Spacing,
		Boundaries: boundaries,
	}
	if cfg.Smoothing.Enabled {
		opts.SmoothStep = cfg.Smoothing.Step
	}
	session, err := analysis.NewSession(path, layout.ConeSet(), opts)
	if err != nil {
		log.Fatal(err)
	}

	var all []common.Vec2
	all = append(all, session.Path().Points()...)
	for _, c := range layout.All() {
		all = append(all, c.Position)
	}
	scale, offX, offY := fitView(all)

	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle("Skidpad Viewer")

	game := &Game{
		Cones:       layout,
		Path:        session.Path(),
		Session:     session,
		Car:         physics.NewCar(session.Path()),
		Cruise:      true,
		ViewScale:   scale,
		ViewOffsetX: offX,
		ViewOffsetY: offY,
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
