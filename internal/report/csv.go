// Package report renders layouts and analysis results for people and
// downstream tools: CSV, KML, plots and a console table.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"skidpad/internal/analysis"
	"skidpad/internal/track"
)

// WriteLayoutCSV writes one x,y,color row per cone, grouped by class.
func WriteLayoutCSV(w io.Writer, layout *track.Layout) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "color"}); err != nil {
		return err
	}
	for _, c := range layout.All() {
		if err := cw.Write([]string{formatFloat(c.Position.X), formatFloat(c.Position.Y), c.Class.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SamplesHeader returns the column names written by WriteSamplesCSV.
func SamplesHeader(boundaries []track.ConeClass) []string {
	header := []string{"s", "x", "y", "curvature"}
	for _, c := range boundaries {
		header = append(header, "d_"+c.String())
	}
	return header
}

// WriteSamplesCSV writes one row per sample with a distance column per
// boundary class. Unknown distances are written as empty fields.
func WriteSamplesCSV(w io.Writer, boundaries []track.ConeClass, res *analysis.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SamplesHeader(boundaries)); err != nil {
		return err
	}
	for i, smp := range res.Samples {
		row, err := sampleRow(boundaries, smp, formatFloat, "")
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// sampleRow lays out one sample in SamplesHeader order. unknown fills the
// distance fields the cone set could not answer.
func sampleRow(boundaries []track.ConeClass, smp analysis.SamplePoint, format func(float64) string, unknown string) ([]string, error) {
	row := []string{
		format(smp.Offset),
		format(smp.Position.X),
		format(smp.Position.Y),
		format(smp.Curvature),
	}
	for _, class := range boundaries {
		field := unknown
		found := false
		for _, b := range smp.Boundaries {
			if b.Class != class {
				continue
			}
			found = true
			if b.Known {
				field = format(b.Distance)
			}
			break
		}
		if !found {
			return nil, fmt.Errorf("no %s distance on sample", class)
		}
		row = append(row, field)
	}
	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteSummaryCSV writes one row per query: the vehicle position, the start
// index and the Summarize figures. Missing statistics are empty fields.
func WriteSummaryCSV(w io.Writer, boundaries []track.ConeClass, results []*analysis.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"query", "x", "y", "start", "samples", "distance", "mean_curvature", "max_curvature"}
	for _, c := range boundaries {
		header = append(header, "min_d_"+c.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, res := range results {
		sum := analysis.Summarize(res)
		row := []string{
			strconv.Itoa(i),
			formatFloat(res.Vehicle.X),
			formatFloat(res.Vehicle.Y),
			strconv.Itoa(res.StartIndex),
			strconv.Itoa(sum.Samples),
			formatFloat(sum.Distance),
			formatStat(sum.MeanCurvature),
			formatStat(sum.MaxCurvature),
		}
		for _, c := range boundaries {
			field := ""
			if d, ok := sum.MinBoundary[c]; ok {
				field = formatFloat(d)
			}
			row = append(row, field)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return formatFloat(v)
}
