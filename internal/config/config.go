// Package config loads the YAML run configuration shared by the commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"skidpad/internal/common"
	"skidpad/internal/track"
)

// Config is the root of the YAML file. Fields omitted from the file keep the
// values from Default.
type Config struct {
	Skidpad   SkidpadConfig   `yaml:"skidpad"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Smoothing SmoothingConfig `yaml:"smoothing"`
	Approach  ApproachConfig  `yaml:"approach"`
	Geo       GeoConfig       `yaml:"geo"`
}

// SkidpadConfig holds the layout dimensions.
type SkidpadConfig struct {
	CenterRadius float64 `yaml:"center_radius"` // m
	TrackWidth   float64 `yaml:"track_width"`   // m
	ConesPerHalf int     `yaml:"cones_per_half"`
}

// SamplingConfig controls the forward resampler.
type SamplingConfig struct {
	Count      int      `yaml:"count"`
	Spacing    float64  `yaml:"spacing"` // m
	Boundaries []string `yaml:"boundaries"`
}

// SmoothingConfig controls optional spline smoothing of the recorded path.
type SmoothingConfig struct {
	Enabled bool    `yaml:"enabled"`
	Step    float64 `yaml:"step"` // m
}

// ApproachConfig controls the straight connector from the vehicle to the path.
// Zero points disables the connector.
type ApproachConfig struct {
	Points int `yaml:"points"`
}

// GeoConfig anchors the local frame on the globe for KML export.
type GeoConfig struct {
	OriginLat  float64 `yaml:"origin_lat"`
	OriginLon  float64 `yaml:"origin_lon"`
	HeadingDeg float64 `yaml:"heading_deg"` // Rotation of local +x, counter-clockwise from east
}

const maxFileSize = 1 << 20

// Default returns the stock configuration: rulebook skidpad dimensions and
// 40 samples every 0.2 m against the blue and yellow boundaries. Smoothing
// and the approach connector are off.
func Default() *Config {
	return &Config{
		Skidpad: SkidpadConfig{
			CenterRadius: 9.125,
			TrackWidth:   3.0,
			ConesPerHalf: 16,
		},
		Sampling: SamplingConfig{
			Count:      40,
			Spacing:    0.2,
			Boundaries: []string{"blue", "yellow"},
		},
		Smoothing: SmoothingConfig{
			Enabled: false,
			Step:    0.1,
		},
		Approach: ApproachConfig{Points: 0},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every section. Failures wrap common.ErrInvalidParameter.
func (c *Config) Validate() error {
	if err := c.SkidpadParams().Validate(); err != nil {
		return err
	}
	if c.Sampling.Count < 1 {
		return fmt.Errorf("sampling.count %d must be at least 1: %w", c.Sampling.Count, common.ErrInvalidParameter)
	}
	if !positive(c.Sampling.Spacing) {
		return fmt.Errorf("sampling.spacing %v must be positive: %w", c.Sampling.Spacing, common.ErrInvalidParameter)
	}
	if _, err := c.BoundaryClasses(); err != nil {
		return err
	}
	if c.Smoothing.Enabled && !positive(c.Smoothing.Step) {
		return fmt.Errorf("smoothing.step %v must be positive: %w", c.Smoothing.Step, common.ErrInvalidParameter)
	}
	if c.Approach.Points == 1 || c.Approach.Points < 0 {
		return fmt.Errorf("approach.points %d must be 0 or at least 2: %w", c.Approach.Points, common.ErrInvalidParameter)
	}
	if c.Geo.OriginLat < -90 || c.Geo.OriginLat > 90 {
		return fmt.Errorf("geo.origin_lat %v out of range: %w", c.Geo.OriginLat, common.ErrInvalidParameter)
	}
	if c.Geo.OriginLon < -180 || c.Geo.OriginLon > 180 {
		return fmt.Errorf("geo.origin_lon %v out of range: %w", c.Geo.OriginLon, common.ErrInvalidParameter)
	}
	return nil
}

// SkidpadParams converts the skidpad section into generator parameters.
func (c *Config) SkidpadParams() track.SkidpadParams {
	return track.SkidpadParams{
		CenterRadius: c.Skidpad.CenterRadius,
		TrackWidth:   c.Skidpad.TrackWidth,
		ConesPerHalf: c.Skidpad.ConesPerHalf,
	}
}

// BoundaryClasses parses sampling.boundaries. Duplicates are dropped.
func (c *Config) BoundaryClasses() ([]track.ConeClass, error) {
	seen := make(map[track.ConeClass]bool)
	out := make([]track.ConeClass, 0, len(c.Sampling.Boundaries))
	for _, name := range c.Sampling.Boundaries {
		class, err := track.ParseConeClass(name)
		if err != nil {
			return nil, fmt.Errorf("sampling.boundaries: %v: %w", err, common.ErrInvalidParameter)
		}
		if seen[class] {
			continue
		}
		seen[class] = true
		out = append(out, class)
	}
	return out, nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
