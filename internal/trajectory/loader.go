package trajectory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"skidpad/internal/common"
)

// LoadPathFile reads a recorded path from a CSV file. See ReadPath.
func LoadPathFile(path string) (*Path, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	p, err := ReadPath(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadPath parses an ordered path from CSV.
//
// Two layouts are accepted: a header row naming x and y (and optionally
// heading, in radians; other columns such as epoch_time are ignored), or a
// headerless file whose first two columns are x,y. Row order is the direction
// of travel. Any malformed row fails the whole load.
func ReadPath(r io.Reader) (*Path, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty path file: %w", common.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("read first row: %w", err)
	}

	xCol, yCol, headingCol := 0, 1, -1
	var wps []Waypoint
	row := 1

	if looksNumeric(first) {
		wp, err := parseWaypoint(first, xCol, yCol, headingCol)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		wps = append(wps, wp)
	} else {
		xCol, yCol = -1, -1
		for i, name := range first {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "x":
				xCol = i
			case "y":
				yCol = i
			case "heading", "yaw", "theta":
				headingCol = i
			}
		}
		if xCol < 0 || yCol < 0 {
			return nil, fmt.Errorf("header %v must name x and y columns: %w", first, common.ErrInvalidArgument)
		}
	}

	for {
		row++
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
		wp, err := parseWaypoint(rec, xCol, yCol, headingCol)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		wps = append(wps, wp)
	}

	return NewPath(wps)
}

func parseWaypoint(rec []string, xCol, yCol, headingCol int) (Waypoint, error) {
	need := max(xCol, yCol, headingCol) + 1
	if len(rec) < need {
		return Waypoint{}, fmt.Errorf("expected at least %d fields, got %d: %w", need, len(rec), common.ErrInvalidArgument)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(rec[xCol]), 64)
	if err != nil {
		return Waypoint{}, fmt.Errorf("parse x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(rec[yCol]), 64)
	if err != nil {
		return Waypoint{}, fmt.Errorf("parse y: %w", err)
	}

	heading := math.NaN()
	if headingCol >= 0 {
		heading, err = strconv.ParseFloat(strings.TrimSpace(rec[headingCol]), 64)
		if err != nil {
			return Waypoint{}, fmt.Errorf("parse heading: %w", err)
		}
	}

	return Waypoint{Position: common.Vec2{X: x, Y: y}, Heading: heading}, nil
}

func looksNumeric(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	for _, f := range rec[:2] {
		if _, err := strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return false
		}
	}
	return true
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
