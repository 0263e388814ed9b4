package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"skidpad/internal/track"
)

// Summary condenses a Result into a few scalar figures.
type Summary struct {
	Samples       int
	Distance      float64 // Offset of the last sample (m)
	MeanCurvature float64
	StdCurvature  float64
	MaxCurvature  float64
	// MinBoundary is the closest approach to each measured class over the
	// window. Classes with no known distance are absent.
	MinBoundary map[track.ConeClass]float64
}

// Summarize computes curvature statistics and the minimum boundary distance
// per class. An empty result yields a zero Summary with NaN statistics.
func Summarize(r *Result) Summary {
	sum := Summary{
		MeanCurvature: math.NaN(),
		StdCurvature:  math.NaN(),
		MaxCurvature:  math.NaN(),
		MinBoundary:   make(map[track.ConeClass]float64),
	}
	if r == nil || len(r.Samples) == 0 {
		return sum
	}

	k := make([]float64, len(r.Samples))
	for i, smp := range r.Samples {
		k[i] = smp.Curvature
		for _, b := range smp.Boundaries {
			if !b.Known {
				continue
			}
			if cur, ok := sum.MinBoundary[b.Class]; !ok || b.Distance < cur {
				sum.MinBoundary[b.Class] = b.Distance
			}
		}
	}

	sum.Samples = len(k)
	sum.Distance = r.Samples[len(r.Samples)-1].Offset
	sum.MeanCurvature, sum.StdCurvature = stat.MeanStdDev(k, nil)
	if len(k) == 1 {
		sum.StdCurvature = 0
	}
	sum.MaxCurvature = floats.Max(k)
	return sum
}
