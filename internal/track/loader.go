package track

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"skidpad/internal/common"
)

// LoadConesFile reads a cone CSV file. See ReadCones for the format.
func LoadConesFile(path string) (*ConeSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	set, err := ReadCones(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ReadCones parses cones from CSV with a header row naming at least the
// columns x, y and color (or class). Column order is free; extra columns are
// ignored. Any malformed row fails the whole load.
func ReadCones(r io.Reader) (*ConeSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row: %w", common.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	xCol, yCol, classCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "x":
			xCol = i
		case "y":
			yCol = i
		case "color", "colour", "class":
			classCol = i
		}
	}
	if xCol < 0 || yCol < 0 || classCol < 0 {
		return nil, fmt.Errorf("header %v must name x, y and color columns: %w", header, common.ErrInvalidArgument)
	}

	var cones []Cone
	for row := 2; ; row++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) <= xCol || len(rec) <= yCol || len(rec) <= classCol {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d: %w", row, len(header), len(rec), common.ErrInvalidArgument)
		}

		x, err := parseFloat(rec[xCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse x: %w", row, err)
		}
		y, err := parseFloat(rec[yCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse y: %w", row, err)
		}
		pos := common.Vec2{X: x, Y: y}
		if !pos.IsFinite() {
			return nil, fmt.Errorf("row %d: position %v is not finite: %w", row, pos, common.ErrInvalidArgument)
		}
		class, err := ParseConeClass(rec[classCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		cones = append(cones, Cone{Position: pos, Class: class})
	}

	return NewConeSet(cones), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
