package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/roadweaver/internal/logger"
	"github.com/Faultbox/roadweaver/internal/road"
	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/pkg/math"
)

func cmdNew(args []string) error {
	fs, flags := flagSet("new")
	name := fs.String("name", "", "Path name (default: file name)")
	closed := fs.Bool("closed", false, "Create a closed loop")
	force := fs.Bool("f", false, "Overwrite an existing file")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errUsage
	}
	file := fs.Arg(0)
	if !*force {
		if _, err := os.Stat(file); err == nil {
			return fmt.Errorf("%s already exists; use -f to overwrite", file)
		}
	}

	var center math.Vec3
	if fs.NArg() == 2 {
		if center, err = parseVec(fs.Arg(1)); err != nil {
			return err
		}
	}
	path := spline.New(center)
	path.SetAutoTangentFactor(cfg.Spline.AutoTangentFactor)
	path.SetAutoTangent(cfg.Spline.AutoTangent)
	path.SetClosed(*closed)

	st, err := settings(cfg)
	if err != nil {
		return err
	}
	r := road.New(*name, path, st)
	if r.Name == "" {
		r.Name = defaultName(file)
	}
	if err := saveRoad(file, r); err != nil {
		return err
	}
	logger.Info("created path", zap.String("file", file), zap.Bool("closed", *closed))
	return nil
}

// editRoad loads the road in the first argument, applies fn to it with the
// remaining arguments, and writes it back.
func editRoad(name string, args []string, want int, fn func(r *road.Road, rest []string) error) error {
	fs, flags := flagSet(name)
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	if fs.NArg() != want+1 {
		return errUsage
	}
	file := fs.Arg(0)
	r, err := openRoad(cfg, file)
	if err != nil {
		return err
	}
	if err := fn(r, fs.Args()[1:]); err != nil {
		return err
	}
	// Only valid paths are written back.
	if _, err := rebuild(cfg, r); err != nil {
		return err
	}
	if err := saveRoad(file, r); err != nil {
		return err
	}
	logger.Info(name+" done",
		zap.String("file", file),
		zap.Int("anchors", r.Path.AnchorCount()),
		zap.Bool("closed", r.Path.IsClosed()))
	return nil
}

func cmdAdd(args []string) error {
	return editRoad("add", args, 1, func(r *road.Road, rest []string) error {
		v, err := parseVec(rest[0])
		if err != nil {
			return err
		}
		return r.AddSegment(r.Transform.InverseTransformPoint(v))
	})
}

func cmdMove(args []string) error {
	return editRoad("move", args, 2, func(r *road.Road, rest []string) error {
		i, err := parseIndex(rest[0])
		if err != nil {
			return err
		}
		v, err := parseVec(rest[1])
		if err != nil {
			return err
		}
		return r.MovePoint(i, r.Transform.InverseTransformPoint(v))
	})
}

func cmdSplit(args []string) error {
	return editRoad("split", args, 2, func(r *road.Road, rest []string) error {
		seg, err := parseIndex(rest[0])
		if err != nil {
			return err
		}
		v, err := parseVec(rest[1])
		if err != nil {
			return err
		}
		return r.SplitSegment(r.Transform.InverseTransformPoint(v), seg)
	})
}

func cmdRemove(args []string) error {
	return editRoad("remove", args, 1, func(r *road.Road, rest []string) error {
		i, err := parseIndex(rest[0])
		if err != nil {
			return err
		}
		removed, err := r.RemoveSegment(i)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println("Path is at its minimum segment count; nothing removed.")
		}
		return nil
	})
}

func cmdClose(args []string) error {
	return editRoad("close", args, 0, func(r *road.Road, _ []string) error {
		r.ToggleClosed()
		return nil
	})
}

func cmdAuto(args []string) error {
	return editRoad("auto", args, 1, func(r *road.Road, rest []string) error {
		switch rest[0] {
		case "on", "true", "1":
			r.SetAutoTangent(true)
		case "off", "false", "0":
			r.SetAutoTangent(false)
		default:
			return fmt.Errorf("auto: want on or off, got %q", rest[0])
		}
		return nil
	})
}
