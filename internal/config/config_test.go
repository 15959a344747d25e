package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/roadweaver/internal/ribbon"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Tessellation.MaxAngleError != 0.3 {
		t.Errorf("expected max angle error 0.3, got %f", cfg.Tessellation.MaxAngleError)
	}
	if cfg.Tessellation.Accuracy != 10 {
		t.Errorf("expected accuracy 10, got %f", cfg.Tessellation.Accuracy)
	}
	if cfg.Spline.AutoTangentFactor != 0.3 {
		t.Errorf("expected auto tangent factor 0.3, got %f", cfg.Spline.AutoTangentFactor)
	}
	if cfg.Ribbon.Width != 1 || cfg.Ribbon.Thickness != 1 {
		t.Errorf("expected width and thickness 1, got %f and %f", cfg.Ribbon.Width, cfg.Ribbon.Thickness)
	}
	if cfg.Ribbon.OffsetY != 0.1 {
		t.Errorf("expected offset 0.1, got %f", cfg.Ribbon.OffsetY)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.Store.Driver)
	}
	if cfg.Store.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.Store.Timeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "roadtool.yaml")

	yamlContent := `
tessellation:
  max_angle_error: 0.5
  accuracy: 20
  min_vertex_spacing: 0.25

ribbon:
  width: 4
  thickness: 0.5
  mode: strip

store:
  driver: postgres
  dsn: "postgres://roads@localhost/roads"
  timeout: 2s

logging:
  level: "debug"
  log_file: "roadtool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Tessellation.Accuracy != 20 {
		t.Errorf("expected accuracy 20, got %f", cfg.Tessellation.Accuracy)
	}
	if cfg.Tessellation.MinVertexSpacing != 0.25 {
		t.Errorf("expected spacing 0.25, got %f", cfg.Tessellation.MinVertexSpacing)
	}
	if cfg.Ribbon.Width != 4 || cfg.Ribbon.Mode != "strip" {
		t.Errorf("ribbon = %+v", cfg.Ribbon)
	}
	// Untouched keys keep their defaults.
	if cfg.Ribbon.OffsetY != 0.1 {
		t.Errorf("expected default offset 0.1, got %f", cfg.Ribbon.OffsetY)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.Timeout != 2*time.Second {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Logging.LogFile != "roadtool.log" {
		t.Errorf("expected log file 'roadtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
ribbon:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		spacing, want float32
	}{
		{0, 0.01},
		{0.005, 0.01},
		{0.5, 0.5},
		{3, 1},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Tessellation.MinVertexSpacing = tt.spacing
		cfg.Normalize()
		if got := cfg.Tessellation.MinVertexSpacing; got != tt.want {
			t.Errorf("Normalize() spacing %v = %v, want %v", tt.spacing, got, tt.want)
		}
	}

	cfg := Default()
	cfg.Tessellation.Accuracy = -1
	cfg.Store.Timeout = 0
	cfg.Normalize()
	if cfg.Tessellation.Accuracy != 10 || cfg.Store.Timeout != 5*time.Second {
		t.Errorf("Normalize() = %+v / %+v", cfg.Tessellation, cfg.Store)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"mode", func(c *Config) { c.Ribbon.Mode = "tube" }},
		{"width", func(c *Config) { c.Ribbon.Width = 0 }},
		{"driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"cell size", func(c *Config) { c.Terrain.Heightmap = "h.png"; c.Terrain.CellSize = 0 }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() accepted invalid config", tt.name)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	err := fs.Parse([]string{"-debug", "-width", "3", "-mode", "strip", "-spacing", "0.2", "-db", "x.db", "-auto"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg := Default()
	flags.apply(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Ribbon.Width != 3 || cfg.Ribbon.Mode != "strip" {
		t.Errorf("ribbon = %+v", cfg.Ribbon)
	}
	if cfg.Tessellation.MinVertexSpacing != 0.2 {
		t.Errorf("expected spacing 0.2, got %f", cfg.Tessellation.MinVertexSpacing)
	}
	if cfg.Store.Path != "x.db" || !cfg.Spline.AutoTangent {
		t.Errorf("store path %q auto %v", cfg.Store.Path, cfg.Spline.AutoTangent)
	}
	// Unset flags leave defaults alone.
	if cfg.Ribbon.Thickness != 1 {
		t.Errorf("expected thickness 1, got %f", cfg.Ribbon.Thickness)
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "roadtool.yaml")
	yamlContent := `
ribbon:
  width: 6
  thickness: 2
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	flags := &Flags{ConfigPath: configPath, Width: 8}
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, thickness from file.
	if cfg.Ribbon.Width != 8 {
		t.Errorf("expected width 8 from flag, got %f", cfg.Ribbon.Width)
	}
	if cfg.Ribbon.Thickness != 2 {
		t.Errorf("expected thickness 2 from file, got %f", cfg.Ribbon.Thickness)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	if _, err := Load(&Flags{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")}); err == nil {
		t.Error("Load() with missing explicit file succeeded")
	}
	if _, err := Load(&Flags{Mode: "tube", ConfigPath: writeEmpty(t)}); err == nil {
		t.Error("Load() with bad mode succeeded")
	}
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Ribbon.Width = 2.5
	cfg.Store.Timeout = 3 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := Load(&Flags{ConfigPath: path})
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Ribbon.Width != 2.5 || loaded.Store.Timeout != 3*time.Second {
		t.Errorf("round trip = %+v / %+v", loaded.Ribbon, loaded.Store)
	}
}

func TestRibbonOptions(t *testing.T) {
	cfg := Default()
	cfg.Ribbon.Mode = "strip"
	opts, err := cfg.RibbonOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Mode != ribbon.ModeStrip || opts.Width != 1 {
		t.Errorf("RibbonOptions() = %+v", opts)
	}
	if got := cfg.TessellationOptions(); got.Accuracy != 10 || got.MinVertexDist != 0.01 {
		t.Errorf("TessellationOptions() = %+v", got)
	}
}
