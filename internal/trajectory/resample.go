package trajectory

import (
	"fmt"
	"math"

	"skidpad/internal/common"
)

// Sample is one arc-length-uniform point ahead of the vehicle.
type Sample struct {
	Offset    float64     // Arc length ahead of the start index (m)
	Position  common.Vec2 // Path point at the cursor
	Curvature float64     // Unsigned curvature (1/m)
}

// Resample walks forward from index start and emits up to n samples at arc
// length offsets ds, 2ds, ..., n*ds measured from table[start].
//
// A cursor advances while the next table entry is still below the target and
// never moves backwards. Each sample takes the cursor point and the curvature
// of the cursor point and its next two points. The walk stops early, without
// error, once fewer than two points remain ahead of the cursor; there is no
// wraparound or extrapolation past the recorded path.
func Resample(points []common.Vec2, table ArcLengthTable, start, n int, ds float64) ([]Sample, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample count %d must be at least 1: %w", n, common.ErrInvalidParameter)
	}
	if math.IsNaN(ds) || math.IsInf(ds, 0) || ds <= 0 {
		return nil, fmt.Errorf("sample spacing %v must be positive: %w", ds, common.ErrInvalidParameter)
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("resampling needs at least 3 points, got %d: %w", len(points), common.ErrInvalidArgument)
	}
	if len(table) != len(points) {
		return nil, fmt.Errorf("arc length table has %d entries for %d points: %w", len(table), len(points), common.ErrInvalidArgument)
	}
	if start < 0 || start >= len(points) {
		return nil, fmt.Errorf("start index %d outside [0, %d): %w", start, len(points), common.ErrInvalidArgument)
	}

	samples := make([]Sample, 0, n)
	sStart := table[start]
	idx := start

	for i := 1; i <= n; i++ {
		target := sStart + float64(i)*ds

		for idx+1 < len(table) && table[idx+1] < target {
			idx++
		}

		if idx+2 >= len(points) {
			break
		}

		samples = append(samples, Sample{
			Offset:    target - sStart,
			Position:  points[idx],
			Curvature: Curvature(points[idx], points[idx+1], points[idx+2]),
		})
	}

	return samples, nil
}
