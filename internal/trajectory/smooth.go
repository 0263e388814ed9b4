package trajectory

import (
	"fmt"
	"math"

	"github.com/cnkei/gospline"

	"skidpad/internal/common"
)

// Smooth fits natural cubic splines x(s) and y(s) over the arc length of the
// deduplicated path and resamples them every step metres, always keeping the
// final point. Headings are recomputed from the resampled points. Paths with
// fewer than three distinct points are returned unchanged.
func Smooth(path *Path, step float64) (*Path, error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return nil, fmt.Errorf("smoothing step %v must be positive: %w", step, common.ErrInvalidParameter)
	}

	points := Dedupe(path.points)
	if len(points) < 3 {
		return path, nil
	}

	arc, err := ComputeArcLength(points)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	splineX := gospline.NewCubicSpline(arc, xs)
	splineY := gospline.NewCubicSpline(arc, ys)

	total := arc.Total()
	count := int(math.Floor(total/step)) + 1
	out := make([]common.Vec2, 0, count+1)
	for i := 0; i < count; i++ {
		s := float64(i) * step
		out = append(out, common.Vec2{X: splineX.At(s), Y: splineY.At(s)})
	}
	if last := float64(count-1) * step; total-last > 1e-9 {
		out = append(out, points[len(points)-1])
	}

	wps := make([]Waypoint, len(out))
	for i, p := range out {
		var d common.Vec2
		if i+1 < len(out) {
			d = out[i+1].Sub(p)
		} else {
			d = p.Sub(out[i-1])
		}
		wps[i] = Waypoint{Position: p, Heading: d.Angle()}
	}

	return NewPath(wps)
}
