package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"skidpad/internal/analysis"
	"skidpad/internal/common"
	"skidpad/internal/monitoring"
	"skidpad/internal/track"
	"skidpad/internal/trajectory"
)

var (
	pathColor   = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	sampleColor = color.RGBA{R: 200, G: 0, B: 160, A: 255}
)

// PlotLayout draws the cone layout with equal axis scaling. path and res are
// optional overlays. The image format follows the file extension.
func PlotLayout(file string, layout *track.Layout, path *trajectory.Path, res *analysis.Result) error {
	p := plot.New()
	p.Title.Text = "Skidpad layout"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	var all []common.Vec2
	for _, class := range track.Classes {
		pts := layout.Cones[class]
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(toXYs(pts))
		if err != nil {
			return fmt.Errorf("cone scatter: %w", err)
		}
		s.GlyphStyle.Color = class.Color()
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		if class == track.ClassBigOrange {
			s.GlyphStyle.Radius = vg.Points(5)
		}
		p.Add(s)
		p.Legend.Add(class.String(), s)
		all = append(all, pts...)
	}

	if path != nil && path.Len() > 1 {
		pts := path.Points()
		line, err := plotter.NewLine(toXYs(pts))
		if err != nil {
			return fmt.Errorf("path line: %w", err)
		}
		line.Color = pathColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("path", line)
		all = append(all, pts...)
	}

	if res != nil && len(res.Samples) > 0 {
		pts := make([]common.Vec2, len(res.Samples))
		for i, smp := range res.Samples {
			pts[i] = smp.Position
		}
		s, err := plotter.NewScatter(toXYs(pts))
		if err != nil {
			return fmt.Errorf("sample scatter: %w", err)
		}
		s.GlyphStyle.Color = sampleColor
		s.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(s)
		p.Legend.Add("samples", s)
		all = append(all, pts...)
	}

	if len(all) == 0 {
		return fmt.Errorf("nothing to plot: %w", common.ErrInvalidArgument)
	}
	equalAxes(p, all)
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	monitoring.Logf("report: wrote layout plot %s", file)
	return nil
}

// PlotProfile draws curvature and boundary distances against arc-length
// offset. Unknown distances leave gaps.
func PlotProfile(file string, res *analysis.Result) error {
	if res == nil || len(res.Samples) == 0 {
		return fmt.Errorf("no samples to plot: %w", common.ErrInvalidArgument)
	}

	p := plot.New()
	p.Title.Text = "Forward profile"
	p.X.Label.Text = "s (m)"
	p.Y.Label.Text = "curvature (1/m), distance (m)"
	p.Add(plotter.NewGrid())

	k := make(plotter.XYs, len(res.Samples))
	for i, smp := range res.Samples {
		k[i] = plotter.XY{X: smp.Offset, Y: smp.Curvature}
	}
	line, err := plotter.NewLine(k)
	if err != nil {
		return fmt.Errorf("curvature line: %w", err)
	}
	line.Color = pathColor
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("curvature", line)

	for idx, b := range res.Samples[0].Boundaries {
		var pts plotter.XYs
		for _, smp := range res.Samples {
			if idx < len(smp.Boundaries) && smp.Boundaries[idx].Known {
				pts = append(pts, plotter.XY{X: smp.Offset, Y: smp.Boundaries[idx].Distance})
			}
		}
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s distance line: %w", b.Class, err)
		}
		l.Color = b.Class.Color()
		l.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add("d_"+b.Class.String(), l)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	if err := p.Save(10*vg.Inch, 4*vg.Inch, file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	monitoring.Logf("report: wrote profile plot %s", file)
	return nil
}

func toXYs(pts []common.Vec2) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}

// equalAxes sets square axis ranges around pts with a small margin.
func equalAxes(p *plot.Plot, pts []common.Vec2) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pt := range pts {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	half := math.Max(maxX-minX, maxY-minY)/2 + 1
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
}
