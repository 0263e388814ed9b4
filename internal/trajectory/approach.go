package trajectory

import (
	"fmt"
	"math"

	"skidpad/internal/common"
)

// WithApproach prepends a straight connector from a vehicle position to the
// closest point of path and drops everything before that point. The connector
// holds count evenly spaced points from `from` to the closest point inclusive,
// so the closest point itself appears once, as the connector's last point.
func WithApproach(path *Path, from common.Vec2, count int) (*Path, error) {
	if count < 2 {
		return nil, fmt.Errorf("approach needs at least 2 points, got %d: %w", count, common.ErrInvalidParameter)
	}
	if !from.IsFinite() {
		return nil, fmt.Errorf("approach start %v is not finite: %w", from, common.ErrInvalidArgument)
	}

	idx := path.Closest(from)
	target := path.points[idx]

	wps := make([]Waypoint, 0, count+path.Len()-idx-1)
	heading := target.Sub(from).Angle()
	for i := 0; i < count-1; i++ {
		t := float64(i) / float64(count-1)
		wps = append(wps, Waypoint{Position: from.Lerp(target, t), Heading: heading})
	}
	wps = append(wps, path.waypoints[idx:]...)

	return NewPath(wps)
}

// Dedupe drops consecutive exact duplicate points, keeping the first of each
// run.
func Dedupe(points []common.Vec2) []common.Vec2 {
	if len(points) == 0 {
		return nil
	}
	out := make([]common.Vec2, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// PointsAhead returns up to n raw waypoints following index idx.
func (p *Path) PointsAhead(idx, n int) []Waypoint {
	if idx < 0 || n <= 0 || idx >= len(p.waypoints)-1 {
		return nil
	}
	end := min(idx+1+n, len(p.waypoints))
	out := make([]Waypoint, end-idx-1)
	copy(out, p.waypoints[idx+1:end])
	return out
}

// TrailingWindow returns the first index whose arc length lies within length
// metres behind idx, so p[TrailingWindow(idx, l):idx+1] is the trail of the
// last l metres driven.
func (p *Path) TrailingWindow(idx int, length float64) int {
	if idx <= 0 {
		return 0
	}
	if idx >= len(p.arc) {
		idx = len(p.arc) - 1
	}
	from := math.Max(p.arc[idx]-length, 0)
	return p.arc.Search(from)
}
