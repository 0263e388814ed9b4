package trajectory

import (
	"fmt"
	"math"

	"skidpad/internal/common"
)

// Waypoint is one recorded vehicle position.
type Waypoint struct {
	Position common.Vec2
	Heading  float64 // Radians; NaN when the source carries no heading
}

// Path is an ordered, immutable sequence of waypoints. Order is the direction
// of travel. The arc-length table is computed once at construction and cached.
type Path struct {
	waypoints []Waypoint
	points    []common.Vec2
	arc       ArcLengthTable
}

// NewPath copies waypoints into a new Path. The path must be non-empty and
// every position finite.
func NewPath(waypoints []Waypoint) (*Path, error) {
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("empty path: %w", common.ErrInvalidArgument)
	}

	wps := make([]Waypoint, len(waypoints))
	copy(wps, waypoints)

	points := make([]common.Vec2, len(wps))
	for i, wp := range wps {
		if !wp.Position.IsFinite() {
			return nil, fmt.Errorf("waypoint %d has non-finite position %v: %w", i, wp.Position, common.ErrInvalidArgument)
		}
		points[i] = wp.Position
	}

	arc, err := ComputeArcLength(points)
	if err != nil {
		return nil, err
	}

	return &Path{waypoints: wps, points: points, arc: arc}, nil
}

// FromPoints builds a Path without recorded headings.
func FromPoints(points []common.Vec2) (*Path, error) {
	wps := make([]Waypoint, len(points))
	for i, p := range points {
		wps[i] = Waypoint{Position: p, Heading: math.NaN()}
	}
	return NewPath(wps)
}

// Len returns the number of waypoints.
func (p *Path) Len() int { return len(p.waypoints) }

// At returns the waypoint at index i.
func (p *Path) At(i int) Waypoint { return p.waypoints[i] }

// Points returns a copy of the waypoint positions.
func (p *Path) Points() []common.Vec2 {
	cp := make([]common.Vec2, len(p.points))
	copy(cp, p.points)
	return cp
}

// Waypoints returns a copy of the waypoints.
func (p *Path) Waypoints() []Waypoint {
	cp := make([]Waypoint, len(p.waypoints))
	copy(cp, p.waypoints)
	return cp
}

// ArcLength returns a copy of the cached arc-length table.
func (p *Path) ArcLength() ArcLengthTable {
	cp := make(ArcLengthTable, len(p.arc))
	copy(cp, p.arc)
	return cp
}

// Offset returns the arc length from the first point to point i.
func (p *Path) Offset(i int) float64 { return p.arc[i] }

// Length returns the total arc length of the path.
func (p *Path) Length() float64 { return p.arc.Total() }

// Closest returns the index of the waypoint nearest to pos.
func (p *Path) Closest(pos common.Vec2) int {
	idx, _ := ClosestIndex(p.points, pos) // non-empty by construction
	return idx
}

// Resample emits up to n samples spaced ds apart ahead of index start. See
// Resample for the full contract.
func (p *Path) Resample(start, n int, ds float64) ([]Sample, error) {
	return Resample(p.points, p.arc, start, n, ds)
}

// HeadingAt returns the heading at index i: the recorded heading when the
// source carried one, otherwise the direction of travel into the point (out of
// it for the first point). A path of identical points yields 0.
func (p *Path) HeadingAt(i int) float64 {
	if h := p.waypoints[i].Heading; !math.IsNaN(h) {
		return h
	}
	// Look backwards first, then forwards, skipping zero-length segments.
	for j := i; j > 0; j-- {
		if d := p.points[i].Sub(p.points[j-1]); d != (common.Vec2{}) {
			return d.Angle()
		}
	}
	for j := i + 1; j < len(p.points); j++ {
		if d := p.points[j].Sub(p.points[i]); d != (common.Vec2{}) {
			return d.Angle()
		}
	}
	return 0
}

// PositionAt interpolates the position and travel heading at arc length s.
// s is clamped to [0, Length()].
func (p *Path) PositionAt(s float64) (common.Vec2, float64) {
	if len(p.points) == 1 || s <= 0 {
		return p.points[0], p.HeadingAt(0)
	}
	total := p.arc.Total()
	if s >= total {
		last := len(p.points) - 1
		return p.points[last], p.HeadingAt(last)
	}

	idx := p.arc.Search(s)
	if idx == 0 {
		return p.points[0], p.HeadingAt(0)
	}
	a, b := p.points[idx-1], p.points[idx]
	t := (s - p.arc[idx-1]) / (p.arc[idx] - p.arc[idx-1])
	return a.Lerp(b, t), b.Sub(a).Angle()
}
