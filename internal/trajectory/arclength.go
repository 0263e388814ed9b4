package trajectory

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"skidpad/internal/common"
)

// ArcLengthTable holds, for every index of a path, the cumulative Euclidean
// distance from the first point. Entry 0 is 0 and the table never decreases.
type ArcLengthTable []float64

// ComputeArcLength builds the arc-length table for points.
func ComputeArcLength(points []common.Vec2) (ArcLengthTable, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("arc length of empty path: %w", common.ErrInvalidArgument)
	}

	// Segment lengths, with a leading zero so the running sum starts at 0.
	seg := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		seg[i] = points[i-1].Dist(points[i])
	}

	table := make(ArcLengthTable, len(points))
	floats.CumSum(table, seg)
	return table, nil
}

// Total returns the final cumulative distance.
func (t ArcLengthTable) Total() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1]
}

// Search returns the first index whose arc length is >= s, or len(t) when s
// lies beyond the end.
func (t ArcLengthTable) Search(s float64) int {
	return sort.SearchFloat64s(t, s)
}
