package trajectory

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skidpad/internal/common"
)

// straightLine returns n points spaced 1.0 apart along +x.
func straightLine(n int) []common.Vec2 {
	pts := make([]common.Vec2, n)
	for i := range pts {
		pts[i] = common.Vec2{X: float64(i)}
	}
	return pts
}

// circle returns n points spaced evenly over the full circle of radius r.
func circle(n int, r float64) []common.Vec2 {
	pts := make([]common.Vec2, n)
	for i := range pts {
		pts[i] = common.FromAngle(2 * math.Pi * float64(i) / float64(n)).Scale(r)
	}
	return pts
}

func TestComputeArcLength(t *testing.T) {
	table, err := ComputeArcLength(straightLine(5))
	require.NoError(t, err)
	assert.Equal(t, ArcLengthTable{0, 1, 2, 3, 4}, table)
	assert.Equal(t, 4.0, table.Total())

	table, err = ComputeArcLength([]common.Vec2{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 4}, {X: 3, Y: 5}})
	require.NoError(t, err)
	assert.Equal(t, ArcLengthTable{0, 5, 5, 6}, table)

	table, err = ComputeArcLength([]common.Vec2{{X: 7, Y: 7}})
	require.NoError(t, err)
	assert.Equal(t, ArcLengthTable{0}, table)

	_, err = ComputeArcLength(nil)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestArcLengthMonotonic(t *testing.T) {
	paths := [][]common.Vec2{
		circle(50, 9.125),
		{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: -2, Y: 0}, {X: -2, Y: 0}, {X: 5, Y: 5}},
		straightLine(100),
	}
	for _, pts := range paths {
		table, err := ComputeArcLength(pts)
		require.NoError(t, err)
		require.Len(t, table, len(pts))
		assert.Equal(t, 0.0, table[0])
		for i := 1; i < len(table); i++ {
			assert.GreaterOrEqual(t, table[i], table[i-1])
			if pts[i] != pts[i-1] {
				assert.Greater(t, table[i], table[i-1])
			}
		}
	}
}

func TestClosestIndex(t *testing.T) {
	pts := circle(36, 5)
	for i, p := range pts {
		idx, err := ClosestIndex(pts, p)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	idx, err := ClosestIndex(straightLine(10), common.Vec2{X: 4.2, Y: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	_, err = ClosestIndex(nil, common.Vec2{})
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestClosestIndex_TiesResolveToLowest(t *testing.T) {
	pts := []common.Vec2{{X: 1}, {X: 5}, {X: 2}, {X: 5}, {X: -1}}
	idx, err := ClosestIndex(pts, common.Vec2{X: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	// Equidistant from index 0 and 4.
	idx, err = ClosestIndex(pts, common.Vec2{X: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestCurvature(t *testing.T) {
	assert.Equal(t, 0.0, Curvature(common.Vec2{X: 0}, common.Vec2{X: 1}, common.Vec2{X: 2}))
	assert.Equal(t, 0.0, Curvature(common.Vec2{X: 1, Y: 1}, common.Vec2{X: 1, Y: 1}, common.Vec2{X: 3, Y: 0}))
	assert.Equal(t, 0.0, Curvature(common.Vec2{}, common.Vec2{}, common.Vec2{}))

	unit := Curvature(common.Vec2{X: 1}, common.Vec2{Y: 1}, common.Vec2{X: -1})
	assert.InDelta(t, 1.0, unit, 1e-12)

	for _, r := range []float64{0.5, 2, 9.125, 50} {
		a := common.FromAngle(0.1).Scale(r)
		b := common.FromAngle(0.9).Scale(r)
		c := common.FromAngle(2.3).Scale(r)
		assert.InDelta(t, 1/r, Curvature(a, b, c), 1e-9, "radius %v", r)
	}
}

func TestCurvature_NearCollinearFloor(t *testing.T) {
	// Area 5e-7 sits under the floor.
	k := Curvature(common.Vec2{X: 0}, common.Vec2{X: 1, Y: 1e-6}, common.Vec2{X: 1})
	assert.Equal(t, 0.0, k)

	// Order of points does not change the sign.
	k1 := Curvature(common.Vec2{X: 1}, common.Vec2{Y: 1}, common.Vec2{X: -1})
	k2 := Curvature(common.Vec2{X: -1}, common.Vec2{Y: 1}, common.Vec2{X: 1})
	assert.Equal(t, k1, k2)
	assert.Greater(t, k1, 0.0)
}

func TestResample_StraightLine(t *testing.T) {
	pts := straightLine(100)
	table, err := ComputeArcLength(pts)
	require.NoError(t, err)

	samples, err := Resample(pts, table, 0, 10, 2.0)
	require.NoError(t, err)

	want := make([]Sample, 10)
	for i := range want {
		want[i] = Sample{
			Offset:   float64(2 * (i + 1)),
			Position: common.Vec2{X: float64(2*(i+1) - 1)},
		}
	}
	if diff := cmp.Diff(want, samples, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Resample mismatch (-want +got):\n%s", diff)
	}
}

func TestResample_StopsAtEndOfPath(t *testing.T) {
	pts := straightLine(100)
	table, err := ComputeArcLength(pts)
	require.NoError(t, err)

	samples, err := Resample(pts, table, 0, 1000, 2.0)
	require.NoError(t, err)
	assert.Len(t, samples, 49)
	for _, s := range samples {
		assert.Equal(t, 0.0, s.Curvature)
	}

	// Starting two points from the end leaves no curvature triangle.
	samples, err = Resample(pts, table, 98, 5, 0.5)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestResample_CursorNeverMovesBack(t *testing.T) {
	pts := circle(400, 9.125)
	table, err := ComputeArcLength(pts)
	require.NoError(t, err)

	samples, err := Resample(pts, table, 17, 200, 0.2)
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	prev := -1
	for i, s := range samples {
		idx, err := ClosestIndex(pts, s.Position)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, prev)
		prev = idx

		assert.InDelta(t, float64(i+1)*0.2, s.Offset, 1e-9)
		assert.InDelta(t, 1/9.125, s.Curvature, 1e-9)
	}
}

func TestResample_SamplesAtCursorPoint(t *testing.T) {
	// Uneven spacing: the cursor lands on the last point still short of the target.
	pts := []common.Vec2{{X: 0}, {X: 0.5}, {X: 3}, {X: 3.2}, {X: 10}, {X: 11}}
	table, err := ComputeArcLength(pts)
	require.NoError(t, err)

	samples, err := Resample(pts, table, 0, 3, 1.0)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, common.Vec2{X: 0.5}, samples[0].Position) // target 1
	assert.Equal(t, common.Vec2{X: 0.5}, samples[1].Position) // target 2
	assert.Equal(t, common.Vec2{X: 0.5}, samples[2].Position) // target 3 is not < 3
}

func TestResample_InvalidInput(t *testing.T) {
	pts := straightLine(10)
	table, err := ComputeArcLength(pts)
	require.NoError(t, err)

	cases := []struct {
		name   string
		pts    []common.Vec2
		table  ArcLengthTable
		start  int
		n      int
		ds     float64
		target error
	}{
		{"zero count", pts, table, 0, 0, 1, common.ErrInvalidParameter},
		{"zero spacing", pts, table, 0, 5, 0, common.ErrInvalidParameter},
		{"negative spacing", pts, table, 0, 5, -1, common.ErrInvalidParameter},
		{"nan spacing", pts, table, 0, 5, math.NaN(), common.ErrInvalidParameter},
		{"two points", pts[:2], table[:2], 0, 5, 1, common.ErrInvalidArgument},
		{"table mismatch", pts, table[:5], 0, 5, 1, common.ErrInvalidArgument},
		{"start negative", pts, table, -1, 5, 1, common.ErrInvalidArgument},
		{"start past end", pts, table, 10, 5, 1, common.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resample(tc.pts, tc.table, tc.start, tc.n, tc.ds)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
		})
	}
}
