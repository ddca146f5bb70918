// Package config defines the run configuration for the spot analysis pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the tunable parameters for one pipeline run. All fields
// are optional in the JSON file; the Get* methods supply documented defaults
// for anything omitted, so partial configs are safe.
type Config struct {
	// Paths
	SourceDir  *string `json:"source_dir,omitempty"`
	OutputDir  *string `json:"output_dir,omitempty"`
	DBPath     *string `json:"db_path,omitempty"`
	ReportPath *string `json:"report_path,omitempty"`

	// Segmentation params
	MinArea       *int `json:"min_area,omitempty"`
	ClosingRadius *int `json:"closing_radius,omitempty"`
	OpeningRadius *int `json:"opening_radius,omitempty"`
	BlockSize     *int `json:"block_size,omitempty"`

	// Visualization params
	DPI *float64 `json:"dpi,omitempty"`
}

// LoadConfig loads a Config from a JSON file. The file must have a .json
// extension. Fields omitted from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.MinArea != nil && *c.MinArea < 0 {
		return fmt.Errorf("min_area must be non-negative, got %d", *c.MinArea)
	}
	if c.ClosingRadius != nil && *c.ClosingRadius < 0 {
		return fmt.Errorf("closing_radius must be non-negative, got %d", *c.ClosingRadius)
	}
	if c.OpeningRadius != nil && *c.OpeningRadius < 0 {
		return fmt.Errorf("opening_radius must be non-negative, got %d", *c.OpeningRadius)
	}
	if c.BlockSize != nil {
		if *c.BlockSize < 3 {
			return fmt.Errorf("block_size must be at least 3, got %d", *c.BlockSize)
		}
		if *c.BlockSize%2 == 0 {
			return fmt.Errorf("block_size must be odd, got %d", *c.BlockSize)
		}
	}
	if c.DPI != nil && *c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %f", *c.DPI)
	}
	return nil
}

// GetSourceDir returns the directory scanned for *.tif inputs.
func (c *Config) GetSourceDir() string {
	if c.SourceDir == nil || *c.SourceDir == "" {
		return "."
	}
	return *c.SourceDir
}

// GetOutputDir returns the directory for per-image figures.
func (c *Config) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "results"
	}
	return *c.OutputDir
}

// GetDBPath returns the SQLite database file path.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "results.db"
	}
	return *c.DBPath
}

// GetReportPath returns the run summary report path. An empty value disables
// report generation.
func (c *Config) GetReportPath() string {
	if c.ReportPath == nil {
		return filepath.Join(c.GetOutputDir(), "summary.html")
	}
	return *c.ReportPath
}

// GetMinArea returns the minimum surviving component area in pixels.
func (c *Config) GetMinArea() int {
	if c.MinArea == nil {
		return 5
	}
	return *c.MinArea
}

// GetClosingRadius returns the disk radius for binary closing.
func (c *Config) GetClosingRadius() int {
	if c.ClosingRadius == nil {
		return 3
	}
	return *c.ClosingRadius
}

// GetOpeningRadius returns the disk radius for binary opening.
func (c *Config) GetOpeningRadius() int {
	if c.OpeningRadius == nil {
		return 1
	}
	return *c.OpeningRadius
}

// GetBlockSize returns the side length of the local threshold window.
func (c *Config) GetBlockSize() int {
	if c.BlockSize == nil {
		return 201
	}
	return *c.BlockSize
}

// GetDPI returns the figure raster resolution.
func (c *Config) GetDPI() float64 {
	if c.DPI == nil {
		return 96
	}
	return *c.DPI
}

// String renders the effective parameters for run records and logs.
func (c *Config) String() string {
	return fmt.Sprintf(
		"min_area=%d closing_radius=%d opening_radius=%d block_size=%d dpi=%g",
		c.GetMinArea(), c.GetClosingRadius(), c.GetOpeningRadius(), c.GetBlockSize(), c.GetDPI(),
	)
}
