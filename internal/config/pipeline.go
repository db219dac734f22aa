package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PipelineConfig represents the root configuration for the data
// preparation tools. Fields omitted from the JSON file retain their
// default values, so partial configs are safe.
type PipelineConfig struct {
	// Heatmap params
	GridDegrees *float64 `json:"grid_degrees,omitempty"`
	RoundDigits *int     `json:"round_digits,omitempty"`

	// Path extraction params
	Waypoints       *int     `json:"waypoints,omitempty"`
	SmoothingWindow *int     `json:"smoothing_window,omitempty"`
	LongitudeSplit  *float64 `json:"longitude_split,omitempty"`

	// Temperature params
	SampleFraction *float64 `json:"sample_fraction,omitempty"`
	SampleSeed     *int64   `json:"sample_seed,omitempty"`
	MatchRadius    *float64 `json:"match_radius,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyPipelineConfig returns a PipelineConfig with all fields set to
// nil. The Get* methods provide fallback defaults for any fields not
// specified.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is
// under the max file size.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	if c.GridDegrees != nil && *c.GridDegrees <= 0 {
		return fmt.Errorf("grid_degrees must be positive, got %f", *c.GridDegrees)
	}
	if c.RoundDigits != nil && *c.RoundDigits < 0 {
		return fmt.Errorf("round_digits must be non-negative, got %d", *c.RoundDigits)
	}
	if c.Waypoints != nil && *c.Waypoints < 1 {
		return fmt.Errorf("waypoints must be at least 1, got %d", *c.Waypoints)
	}
	if c.SmoothingWindow != nil && *c.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be at least 1, got %d", *c.SmoothingWindow)
	}
	if c.LongitudeSplit != nil {
		if *c.LongitudeSplit < -180 || *c.LongitudeSplit > 180 {
			return fmt.Errorf("longitude_split must be between -180 and 180, got %f", *c.LongitudeSplit)
		}
	}
	if c.SampleFraction != nil {
		if *c.SampleFraction <= 0 || *c.SampleFraction > 1 {
			return fmt.Errorf("sample_fraction must be in (0, 1], got %f", *c.SampleFraction)
		}
	}
	if c.MatchRadius != nil && *c.MatchRadius < 0 {
		return fmt.Errorf("match_radius must be non-negative, got %f", *c.MatchRadius)
	}
	return nil
}

// GetGridDegrees returns the grid_degrees value or the default.
func (c *PipelineConfig) GetGridDegrees() float64 {
	if c.GridDegrees == nil {
		return 1.0 // default
	}
	return *c.GridDegrees
}

// GetRoundDigits returns the round_digits value or the default.
func (c *PipelineConfig) GetRoundDigits() int {
	if c.RoundDigits == nil {
		return 3 // default
	}
	return *c.RoundDigits
}

// GetWaypoints returns the waypoints value or the default.
func (c *PipelineConfig) GetWaypoints() int {
	if c.Waypoints == nil {
		return 25 // default
	}
	return *c.Waypoints
}

// GetSmoothingWindow returns the smoothing_window value or the default.
func (c *PipelineConfig) GetSmoothingWindow() int {
	if c.SmoothingWindow == nil {
		return 5 // default
	}
	return *c.SmoothingWindow
}

// GetLongitudeSplit returns the longitude_split value or the default.
func (c *PipelineConfig) GetLongitudeSplit() float64 {
	if c.LongitudeSplit == nil {
		return -20.0 // default
	}
	return *c.LongitudeSplit
}

// GetSampleFraction returns the sample_fraction value or the default.
func (c *PipelineConfig) GetSampleFraction() float64 {
	if c.SampleFraction == nil {
		return 0.25 // default
	}
	return *c.SampleFraction
}

// GetSampleSeed returns the sample_seed value or the default.
func (c *PipelineConfig) GetSampleSeed() int64 {
	if c.SampleSeed == nil {
		return 42 // default
	}
	return *c.SampleSeed
}

// GetMatchRadius returns the match_radius value or the default.
func (c *PipelineConfig) GetMatchRadius() float64 {
	if c.MatchRadius == nil {
		return 0.15 // default
	}
	return *c.MatchRadius
}
