package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	ConfigPath  string
	Debug       bool
	Width       float64
	Thickness   float64
	OffsetY     float64
	Mode        string
	Accuracy    float64
	MaxAngle    float64
	Spacing     float64
	AutoTangent bool
	Heightmap   string
	StoreDriver string
	StorePath   string
	StoreDSN    string
}

// RegisterFlags adds the shared override flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Float64Var(&f.Width, "width", 0, "Road width")
	fs.Float64Var(&f.Thickness, "thickness", 0, "Road thickness (solid mode)")
	fs.Float64Var(&f.OffsetY, "offset-y", 0, "Height of the road surface above terrain")
	fs.StringVar(&f.Mode, "mode", "", "Mesh mode: solid or strip")
	fs.Float64Var(&f.Accuracy, "accuracy", 0, "Trial samples per unit length")
	fs.Float64Var(&f.MaxAngle, "max-angle", 0, "Maximum angle error in degrees")
	fs.Float64Var(&f.Spacing, "spacing", 0, "Minimum vertex spacing")
	fs.BoolVar(&f.AutoTangent, "auto", false, "Derive control points automatically for new paths")
	fs.StringVar(&f.Heightmap, "heightmap", "", "Grayscale heightmap image")
	fs.StringVar(&f.StoreDriver, "store", "", "Store driver: sqlite or postgres")
	fs.StringVar(&f.StorePath, "db", "", "SQLite database file")
	fs.StringVar(&f.StoreDSN, "dsn", "", "PostgreSQL connection string")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Width != 0 {
		cfg.Ribbon.Width = float32(f.Width)
	}
	if f.Thickness > 0 {
		cfg.Ribbon.Thickness = float32(f.Thickness)
	}
	if f.OffsetY != 0 {
		cfg.Ribbon.OffsetY = float32(f.OffsetY)
	}
	if f.Mode != "" {
		cfg.Ribbon.Mode = f.Mode
	}
	if f.Accuracy > 0 {
		cfg.Tessellation.Accuracy = float32(f.Accuracy)
	}
	if f.MaxAngle > 0 {
		cfg.Tessellation.MaxAngleError = float32(f.MaxAngle)
	}
	if f.Spacing > 0 {
		cfg.Tessellation.MinVertexSpacing = float32(f.Spacing)
	}
	if f.AutoTangent {
		cfg.Spline.AutoTangent = true
	}
	if f.Heightmap != "" {
		cfg.Terrain.Heightmap = f.Heightmap
	}
	if f.StoreDriver != "" {
		cfg.Store.Driver = f.StoreDriver
	}
	if f.StorePath != "" {
		cfg.Store.Path = f.StorePath
	}
	if f.StoreDSN != "" {
		cfg.Store.DSN = f.StoreDSN
	}
}
