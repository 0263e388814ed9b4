package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"skidpad/internal/analysis"
	"skidpad/internal/track"
)

var (
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
)

// RenderTable formats up to limit samples (all when limit <= 0) as a bordered
// console table followed by a one-line summary.
func RenderTable(boundaries []track.ConeClass, res *analysis.Result, limit int) (string, error) {
	samples := res.Samples
	if limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}

	rows := make([][]string, 0, len(samples))
	for i, smp := range samples {
		row, err := sampleRow(boundaries, smp, formatShort, "-")
		if err != nil {
			return "", fmt.Errorf("sample %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(SamplesHeader(boundaries)...).
		Rows(rows...)

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(summaryLine(analysis.Summarize(res), len(res.Samples)-len(samples))))
	return b.String(), nil
}

func formatShort(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func summaryLine(s analysis.Summary, hidden int) string {
	if s.Samples == 0 {
		return "no samples"
	}
	parts := []string{
		fmt.Sprintf("%d samples over %.2f m", s.Samples, s.Distance),
		fmt.Sprintf("curvature mean %.4f max %.4f", s.MeanCurvature, s.MaxCurvature),
	}
	for _, class := range track.Classes {
		if d, ok := s.MinBoundary[class]; ok {
			parts = append(parts, fmt.Sprintf("min d_%s %.3f", class, d))
		}
	}
	if hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d rows hidden", hidden))
	}
	return strings.Join(parts, ", ")
}
