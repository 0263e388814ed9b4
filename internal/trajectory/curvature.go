package trajectory

import (
	"math"

	"skidpad/internal/common"
)

// CollinearAreaFloor is the triangle area below which three points are
// treated as collinear and their curvature reported as zero.
const CollinearAreaFloor = 1e-6

// Curvature estimates the unsigned local curvature through three points as
// the reciprocal of their circumradius, 4*area / (a*b*c). Near-collinear
// triples, including repeated points, return 0.
func Curvature(p1, p2, p3 common.Vec2) float64 {
	a := p1.Dist(p2)
	b := p2.Dist(p3)
	c := p3.Dist(p1)

	area := math.Abs(p2.Sub(p1).Cross(p3.Sub(p1))) * 0.5
	if area < CollinearAreaFloor {
		return 0
	}

	return 4 * area / (a * b * c)
}
