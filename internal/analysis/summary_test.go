package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"skidpad/internal/track"
	"skidpad/internal/trajectory"
)

func TestSummarize(t *testing.T) {
	res := &Result{Samples: []SamplePoint{
		{
			Sample: trajectory.Sample{Offset: 0.5, Curvature: 0.1},
			Boundaries: []BoundaryDistance{
				{Class: track.ClassLeftBoundary, Distance: 2.0, Known: true},
				{Class: track.ClassSmallOrange},
			},
		},
		{
			Sample: trajectory.Sample{Offset: 1.0, Curvature: 0.2},
			Boundaries: []BoundaryDistance{
				{Class: track.ClassLeftBoundary, Distance: 1.25, Known: true},
				{Class: track.ClassSmallOrange},
			},
		},
		{
			Sample: trajectory.Sample{Offset: 1.5, Curvature: 0.3},
			Boundaries: []BoundaryDistance{
				{Class: track.ClassLeftBoundary, Distance: 1.75, Known: true},
				{Class: track.ClassSmallOrange},
			},
		},
	}}

	sum := Summarize(res)
	assert.Equal(t, 3, sum.Samples)
	assert.Equal(t, 1.5, sum.Distance)
	assert.InDelta(t, 0.2, sum.MeanCurvature, 1e-12)
	assert.InDelta(t, 0.1, sum.StdCurvature, 1e-12)
	assert.Equal(t, 0.3, sum.MaxCurvature)
	assert.Equal(t, map[track.ConeClass]float64{track.ClassLeftBoundary: 1.25}, sum.MinBoundary)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(&Result{})
	assert.Equal(t, 0, sum.Samples)
	assert.True(t, math.IsNaN(sum.MeanCurvature))
	assert.Empty(t, sum.MinBoundary)

	sum = Summarize(nil)
	assert.True(t, math.IsNaN(sum.MaxCurvature))

	one := Summarize(&Result{Samples: []SamplePoint{{Sample: trajectory.Sample{Curvature: 0.4}}}})
	assert.Equal(t, 0.0, one.StdCurvature)
	assert.Equal(t, 0.4, one.MeanCurvature)
}
