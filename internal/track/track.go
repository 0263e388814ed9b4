package track

import (
	"fmt"
	"math"
	"strings"

	"skidpad/internal/common"
)

// ConeClass is the functional category of a track-marking cone.
type ConeClass int

const (
	ClassLeftBoundary  ConeClass = iota // Blue, left edge in the direction of travel
	ClassRightBoundary                  // Yellow, right edge in the direction of travel
	ClassSmallOrange                    // Small orange, entry/exit gate
	ClassBigOrange                      // Big orange, centre reference
	classCount
)

// Classes lists every cone class in output order.
var Classes = []ConeClass{ClassLeftBoundary, ClassRightBoundary, ClassSmallOrange, ClassBigOrange}

var classNames = map[ConeClass]string{
	ClassLeftBoundary:  "blue",
	ClassRightBoundary: "yellow",
	ClassSmallOrange:   "orange",
	ClassBigOrange:     "big_orange",
}

// Aliases accepted by ParseConeClass in addition to the canonical names.
var classAliases = map[string]ConeClass{
	"left":         ClassLeftBoundary,
	"right":        ClassRightBoundary,
	"gate":         ClassSmallOrange,
	"small_orange": ClassSmallOrange,
	"center":       ClassBigOrange,
	"centre":       ClassBigOrange,
	"big-orange":   ClassBigOrange,
	"bigorange":    ClassBigOrange,
}

// String returns the external (CSV) name of the class.
func (c ConeClass) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether c is one of the defined classes.
func (c ConeClass) Valid() bool {
	return c >= ClassLeftBoundary && c < classCount
}

// ParseConeClass maps an external name to a ConeClass. Matching ignores case
// and surrounding whitespace.
func ParseConeClass(name string) (ConeClass, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for c, n := range classNames {
		if n == key {
			return c, nil
		}
	}
	if c, ok := classAliases[key]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown cone class %q: %w", name, common.ErrInvalidArgument)
}

// Cone is a single observed or generated cone.
type Cone struct {
	Position common.Vec2
	Class    ConeClass
}

// ConeSet is an unordered collection of cones. It is never modified after
// construction, so it can be shared between concurrent queries.
type ConeSet struct {
	cones []Cone
}

// NewConeSet copies cones into a new set.
func NewConeSet(cones []Cone) *ConeSet {
	cp := make([]Cone, len(cones))
	copy(cp, cones)
	return &ConeSet{cones: cp}
}

// Len returns the number of cones in the set.
func (s *ConeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cones)
}

// Cones returns a copy of the cones in the set.
func (s *ConeSet) Cones() []Cone {
	if s == nil {
		return nil
	}
	cp := make([]Cone, len(s.cones))
	copy(cp, s.cones)
	return cp
}

// Count returns the number of cones of the given class.
func (s *ConeSet) Count(class ConeClass) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.cones {
		if c.Class == class {
			n++
		}
	}
	return n
}

// NearestDistance returns the distance from pos to the closest cone of the
// given class. ok is false when the set holds no cone of that class; the
// distance is then meaningless and must be treated as unknown.
func (s *ConeSet) NearestDistance(pos common.Vec2, class ConeClass) (dist float64, ok bool) {
	if s == nil {
		return 0, false
	}
	minDistSq := math.MaxFloat64
	for _, c := range s.cones {
		if c.Class != class {
			continue
		}
		d := pos.DistSq(c.Position)
		if d < minDistSq {
			minDistSq = d
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return math.Sqrt(minDistSq), true
}
