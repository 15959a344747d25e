// Package config handles roadtool configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/roadweaver/internal/ribbon"
	"github.com/Faultbox/roadweaver/internal/tessellate"
)

// Spacing limits for MinVertexSpacing.
const (
	MinVertexSpacingLow  = 0.01
	MinVertexSpacingHigh = 1
)

// Config holds all roadtool settings.
type Config struct {
	Spline       SplineConfig       `yaml:"spline"`
	Tessellation TessellationConfig `yaml:"tessellation"`
	Ribbon       RibbonConfig       `yaml:"ribbon"`
	Terrain      TerrainConfig      `yaml:"terrain"`
	Store        StoreConfig        `yaml:"store"`
	Export       ExportConfig       `yaml:"export"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// SplineConfig holds defaults for newly created paths.
type SplineConfig struct {
	AutoTangent       bool    `yaml:"auto_tangent"`
	AutoTangentFactor float32 `yaml:"auto_tangent_factor"`
}

// TessellationConfig holds curve sampling settings.
type TessellationConfig struct {
	MaxAngleError    float32 `yaml:"max_angle_error"` // degrees
	Accuracy         float32 `yaml:"accuracy"`        // trial samples per unit
	MinVertexSpacing float32 `yaml:"min_vertex_spacing"`
}

// RibbonConfig holds road mesh settings.
type RibbonConfig struct {
	Width     float32 `yaml:"width"`
	Thickness float32 `yaml:"thickness"`
	OffsetY   float32 `yaml:"offset_y"`
	Mode      string  `yaml:"mode"` // solid or strip
}

// TerrainConfig selects the height source.
type TerrainConfig struct {
	Heightmap   string  `yaml:"heightmap"` // image path; empty means flat
	CellSize    float32 `yaml:"cell_size"`
	HeightScale float32 `yaml:"height_scale"`
	Resolution  int     `yaml:"resolution"`
	FlatHeight  float32 `yaml:"flat_height"`
}

// StoreConfig holds spline database settings.
type StoreConfig struct {
	Driver  string        `yaml:"driver"` // sqlite or postgres
	Path    string        `yaml:"path"`   // sqlite file
	DSN     string        `yaml:"dsn"`    // postgres connection string
	Timeout time.Duration `yaml:"timeout"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	PreviewSize    int    `yaml:"preview_size"` // pixels along the longer side
	PreviewMargin  int    `yaml:"preview_margin"`
	PDFPageSize    string `yaml:"pdf_page_size"`
	PDFOrientation string `yaml:"pdf_orientation"` // P or L
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Spline: SplineConfig{
			AutoTangent:       false,
			AutoTangentFactor: 0.3,
		},
		Tessellation: TessellationConfig{
			MaxAngleError:    0.3,
			Accuracy:         10,
			MinVertexSpacing: MinVertexSpacingLow,
		},
		Ribbon: RibbonConfig{
			Width:     1,
			Thickness: 1,
			OffsetY:   0.1,
			Mode:      "solid",
		},
		Terrain: TerrainConfig{
			CellSize:    1,
			HeightScale: 10,
		},
		Store: StoreConfig{
			Driver:  "sqlite",
			Path:    "roads.db",
			Timeout: 5 * time.Second,
		},
		Export: ExportConfig{
			PreviewSize:    1024,
			PreviewMargin:  32,
			PDFPageSize:    "A4",
			PDFOrientation: "L",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Normalize clamps settings into their usable ranges.
func (c *Config) Normalize() {
	c.Tessellation.MinVertexSpacing = min(max(c.Tessellation.MinVertexSpacing, MinVertexSpacingLow), MinVertexSpacingHigh)
	if c.Tessellation.Accuracy <= 0 {
		c.Tessellation.Accuracy = 10
	}
	if c.Tessellation.MaxAngleError < 0 {
		c.Tessellation.MaxAngleError = 0
	}
	if c.Spline.AutoTangentFactor <= 0 {
		c.Spline.AutoTangentFactor = 0.3
	}
	if c.Store.Timeout <= 0 {
		c.Store.Timeout = 5 * time.Second
	}
}

// Validate reports settings that cannot be clamped.
func (c *Config) Validate() error {
	if _, err := ribbon.ParseMode(c.Ribbon.Mode); err != nil {
		return err
	}
	if c.Ribbon.Width == 0 {
		return fmt.Errorf("ribbon width must not be zero")
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Terrain.Heightmap != "" && c.Terrain.CellSize <= 0 {
		return fmt.Errorf("terrain cell size must be positive, got %v", c.Terrain.CellSize)
	}
	return nil
}

// TessellationOptions converts the sampling settings.
func (c *Config) TessellationOptions() tessellate.Options {
	return tessellate.Options{
		MaxAngleError: c.Tessellation.MaxAngleError,
		Accuracy:      c.Tessellation.Accuracy,
		MinVertexDist: c.Tessellation.MinVertexSpacing,
	}
}

// RibbonOptions converts the road mesh settings.
func (c *Config) RibbonOptions() (ribbon.Options, error) {
	mode, err := ribbon.ParseMode(c.Ribbon.Mode)
	if err != nil {
		return ribbon.Options{}, err
	}
	return ribbon.Options{
		Width:     c.Ribbon.Width,
		Thickness: c.Ribbon.Thickness,
		OffsetY:   c.Ribbon.OffsetY,
		Mode:      mode,
	}, nil
}
