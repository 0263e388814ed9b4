package trajectory

import (
	"fmt"
	"math"

	"skidpad/internal/common"
)

// ClosestIndex finds the index of the point nearest to pos. Ties resolve to
// the lowest index.
func ClosestIndex(points []common.Vec2, pos common.Vec2) (int, error) {
	if len(points) == 0 {
		return -1, fmt.Errorf("closest point on empty path: %w", common.ErrInvalidArgument)
	}

	minDistSq := math.MaxFloat64
	closestIdx := 0

	for i, p := range points {
		distSq := pos.DistSq(p)
		if distSq < minDistSq {
			minDistSq = distSq
			closestIdx = i
		}
	}

	return closestIdx, nil
}
