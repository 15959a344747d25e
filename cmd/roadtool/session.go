package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/roadweaver/internal/config"
	"github.com/Faultbox/roadweaver/internal/document"
	"github.com/Faultbox/roadweaver/internal/logger"
	"github.com/Faultbox/roadweaver/internal/ribbon"
	"github.com/Faultbox/roadweaver/internal/road"
	"github.com/Faultbox/roadweaver/internal/terrain"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// flagSet returns a flag set carrying the shared config overrides.
func flagSet(name string) (*flag.FlagSet, *config.Flags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return fs, config.RegisterFlags(fs)
}

// setup parses args, loads the config and starts logging.
func setup(fs *flag.FlagSet, flags *config.Flags, args []string) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	opts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)
	return cfg, nil
}

func shutdown() {
	logger.Sync()
}

func settings(cfg *config.Config) (road.Settings, error) {
	ro, err := cfg.RibbonOptions()
	if err != nil {
		return road.Settings{}, err
	}
	return road.Settings{Tessellation: cfg.TessellationOptions(), Ribbon: ro}, nil
}

// openRoad reads a path document into a road using the configured settings.
func openRoad(cfg *config.Config, file string) (*road.Road, error) {
	doc, err := document.ReadFile(file)
	if err != nil {
		return nil, err
	}
	path, err := doc.Path()
	if err != nil {
		return nil, err
	}
	st, err := settings(cfg)
	if err != nil {
		return nil, err
	}
	name := doc.Name
	if name == "" {
		name = defaultName(file)
	}
	r := road.New(name, path, st)
	r.Transform = doc.PathTransform()
	return r, nil
}

func saveRoad(file string, r *road.Road) error {
	return document.WriteFile(file, document.FromPath(r.Name, r.Path, r.Transform))
}

// heightSource returns the configured terrain. The heightmap is nil for
// flat terrain.
func heightSource(cfg *config.Config) (ribbon.HeightSampler, *terrain.Heightmap, error) {
	if cfg.Terrain.Heightmap == "" {
		return terrain.Flat(cfg.Terrain.FlatHeight), nil, nil
	}
	hm, err := terrain.LoadHeightmap(cfg.Terrain.Heightmap, terrain.ImageOptions{
		CellSize:   cfg.Terrain.CellSize,
		Scale:      cfg.Terrain.HeightScale,
		Resolution: cfg.Terrain.Resolution,
	})
	if err != nil {
		return nil, nil, err
	}
	return hm, hm, nil
}

func rebuild(cfg *config.Config, r *road.Road) (*terrain.Heightmap, error) {
	sampler, hm, err := heightSource(cfg)
	if err != nil {
		return nil, err
	}
	return hm, r.Rebuild(sampler)
}

// parseVec parses "x,y,z".
func parseVec(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("point %q: want x,y,z", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("point %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index %q: %w", s, err)
	}
	return i, nil
}

// defaultName derives a path name from its document file name.
func defaultName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}
