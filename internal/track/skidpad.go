package track

import (
	"fmt"
	"math"

	"skidpad/internal/common"
)

// SkidpadParams are the rulebook dimensions used to synthesize a layout.
type SkidpadParams struct {
	CenterRadius float64 // Radius of the driven centre line (m)
	TrackWidth   float64 // Distance between inner and outer cone rings (m)
	ConesPerHalf int     // Cones per half-turn arc, endpoints included
}

// Validate checks the parameters against the generator's contract.
func (p SkidpadParams) Validate() error {
	if math.IsNaN(p.CenterRadius) || math.IsInf(p.CenterRadius, 0) || p.CenterRadius <= 0 {
		return fmt.Errorf("center radius %v must be positive: %w", p.CenterRadius, common.ErrInvalidParameter)
	}
	if math.IsNaN(p.TrackWidth) || math.IsInf(p.TrackWidth, 0) || p.TrackWidth <= 0 {
		return fmt.Errorf("track width %v must be positive: %w", p.TrackWidth, common.ErrInvalidParameter)
	}
	if p.TrackWidth >= 2*p.CenterRadius {
		return fmt.Errorf("track width %v must be less than twice the center radius %v: %w",
			p.TrackWidth, p.CenterRadius, common.ErrInvalidParameter)
	}
	if p.ConesPerHalf < 2 {
		return fmt.Errorf("cones per half %d must be at least 2: %w", p.ConesPerHalf, common.ErrInvalidParameter)
	}
	return nil
}

// OuterRadius returns the radius of the outer cone ring.
func (p SkidpadParams) OuterRadius() float64 { return p.CenterRadius + p.TrackWidth/2 }

// InnerRadius returns the radius of the inner cone ring.
func (p SkidpadParams) InnerRadius() float64 { return p.CenterRadius - p.TrackWidth/2 }

// LeftCenter is the centre of the left circle.
func (p SkidpadParams) LeftCenter() common.Vec2 { return common.Vec2{X: -p.CenterRadius} }

// RightCenter is the centre of the right circle.
func (p SkidpadParams) RightCenter() common.Vec2 { return common.Vec2{X: p.CenterRadius} }

// Layout maps each cone class to its ordered cone positions.
type Layout struct {
	Cones map[ConeClass][]common.Vec2
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{Cones: make(map[ConeClass][]common.Vec2)}
}

// Len returns the total number of cones in the layout.
func (l *Layout) Len() int {
	n := 0
	for _, pts := range l.Cones {
		n += len(pts)
	}
	return n
}

// All flattens the layout into cones, ordered by class then insertion order.
func (l *Layout) All() []Cone {
	out := make([]Cone, 0, l.Len())
	for _, class := range Classes {
		for _, p := range l.Cones[class] {
			out = append(out, Cone{Position: p, Class: class})
		}
	}
	return out
}

// LayoutFromCones groups a cone set by class, keeping set order within a class.
func LayoutFromCones(cones *ConeSet) *Layout {
	l := NewLayout()
	for _, c := range cones.Cones() {
		l.Cones[c.Class] = append(l.Cones[c.Class], c.Position)
	}
	return l
}

// ConeSet converts the layout into a queryable cone set.
func (l *Layout) ConeSet() *ConeSet {
	return NewConeSet(l.All())
}

// Transform returns a copy of the layout rotated by angle (radians) about the
// local origin and then translated to origin.
func (l *Layout) Transform(origin common.Vec2, angle float64) *Layout {
	out := NewLayout()
	for class, pts := range l.Cones {
		moved := make([]common.Vec2, len(pts))
		for i, p := range pts {
			moved[i] = p.Rotate(angle).Add(origin)
		}
		out.Cones[class] = moved
	}
	return out
}

// Centroid returns the mean position of every cone in the layout.
func (l *Layout) Centroid() common.Vec2 {
	var sum common.Vec2
	n := 0
	for _, pts := range l.Cones {
		for _, p := range pts {
			sum = sum.Add(p)
			n++
		}
	}
	if n == 0 {
		return common.Vec2{}
	}
	return sum.Scale(1 / float64(n))
}

// RotateAboutCentroid rotates the layout clockwise by deg degrees about its
// own centroid, the convention used when placing the reference cones by hand.
func (l *Layout) RotateAboutCentroid(deg float64) *Layout {
	c := l.Centroid()
	theta := -deg * math.Pi / 180
	out := NewLayout()
	for class, pts := range l.Cones {
		moved := make([]common.Vec2, len(pts))
		for i, p := range pts {
			moved[i] = p.Sub(c).Rotate(theta).Add(c)
		}
		out.Cones[class] = moved
	}
	return out
}

// GenerateSkidpad synthesizes the skidpad cone layout.
//
// Both circles are sampled over a half turn. The left circle, centred at
// (-R, 0), uses t = pi*i/(n-1); the right circle, centred at (+R, 0), uses the
// mirrored angle pi - t so the two halves are traversed in opposite
// directions. The inner ring of the left circle and the outer ring of the right
// circle are blue (left boundary); the other two rings are yellow. Four small
// orange gate cones sit at (+-R, +-w/2) and two big orange cones at (0, +-w).
func GenerateSkidpad(p SkidpadParams) (*Layout, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.ConesPerHalf
	outer := p.OuterRadius()
	inner := p.InnerRadius()
	left := p.LeftCenter()
	right := p.RightCenter()

	leftOuter := make([]common.Vec2, n)
	leftInner := make([]common.Vec2, n)
	rightOuter := make([]common.Vec2, n)
	rightInner := make([]common.Vec2, n)

	for i := 0; i < n; i++ {
		t := math.Pi * float64(i) / float64(n-1)
		dl := common.FromAngle(t)
		dr := common.FromAngle(math.Pi - t)

		leftOuter[i] = left.Add(dl.Scale(outer))
		leftInner[i] = left.Add(dl.Scale(inner))
		rightOuter[i] = right.Add(dr.Scale(outer))
		rightInner[i] = right.Add(dr.Scale(inner))
	}

	l := NewLayout()
	l.Cones[ClassLeftBoundary] = append(leftInner, rightOuter...)
	l.Cones[ClassRightBoundary] = append(leftOuter, rightInner...)

	halfW := p.TrackWidth / 2
	R := p.CenterRadius
	l.Cones[ClassSmallOrange] = []common.Vec2{
		{X: -R, Y: halfW},
		{X: -R, Y: -halfW},
		{X: R, Y: halfW},
		{X: R, Y: -halfW},
	}
	l.Cones[ClassBigOrange] = []common.Vec2{
		{X: 0, Y: p.TrackWidth},
		{X: 0, Y: -p.TrackWidth},
	}

	return l, nil
}

// GatePair places four cones describing a gate: two pairs spaced +-spacing
// across the track and width apart along it, rotated by theta so that the
// first pair straddles center.
func GatePair(center common.Vec2, spacing, width, theta float64) [4]common.Vec2 {
	local := [4]common.Vec2{
		{X: 0, Y: -spacing},
		{X: 0, Y: spacing},
		{X: width, Y: -spacing},
		{X: width, Y: spacing},
	}
	var out [4]common.Vec2
	for i, p := range local {
		out[i] = p.Rotate(theta).Add(center)
	}
	return out
}

// AlignmentFromGate derives the placement of the skidpad from four reference
// cones ordered as produced by GatePair. origin is their centroid and angle
// the heading from the midpoint of cones 0,1 to the midpoint of cones 2,3.
func AlignmentFromGate(gate [4]common.Vec2) (origin common.Vec2, angle float64) {
	for _, p := range gate {
		origin = origin.Add(p)
	}
	origin = origin.Scale(0.25)

	mid12 := gate[0].Lerp(gate[1], 0.5)
	mid34 := gate[2].Lerp(gate[3], 0.5)
	return origin, mid34.Sub(mid12).Angle()
}
