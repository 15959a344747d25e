package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/roadweaver/internal/config"
	"github.com/Faultbox/roadweaver/internal/document"
	"github.com/Faultbox/roadweaver/internal/logger"
	"github.com/Faultbox/roadweaver/internal/store"
)

// withStore opens the configured store for the duration of fn.
func withStore(cfg *config.Config, fn func(ctx context.Context, s store.Store) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	defer cancel()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func cmdSave(args []string) error {
	fs, flags := flagSet("save")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errUsage
	}
	doc, err := document.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	switch {
	case fs.NArg() == 2:
		doc.Name = fs.Arg(1)
	case doc.Name == "":
		doc.Name = defaultName(fs.Arg(0))
	}
	return withStore(cfg, func(ctx context.Context, s store.Store) error {
		if err := s.Save(ctx, doc); err != nil {
			return err
		}
		logger.Info("stored path", zap.String("name", doc.Name), zap.String("driver", cfg.Store.Driver))
		return nil
	})
}

func cmdLoad(args []string) error {
	fs, flags := flagSet("load")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}
	name, file := fs.Arg(0), fs.Arg(1)
	return withStore(cfg, func(ctx context.Context, s store.Store) error {
		doc, err := s.Load(ctx, name)
		if err != nil {
			return err
		}
		if err := document.WriteFile(file, doc); err != nil {
			return err
		}
		logger.Info("loaded path", zap.String("name", name), zap.String("file", file))
		return nil
	})
}

func cmdList(args []string) error {
	fs, flags := flagSet("list")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}
	return withStore(cfg, func(ctx context.Context, s store.Store) error {
		list, err := s.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tANCHORS\tCLOSED\tUPDATED")
		for _, sum := range list {
			fmt.Fprintf(tw, "%s\t%d\t%v\t%s\n", sum.Name, sum.Anchors, sum.Closed,
				sum.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nTotal: %d paths\n", len(list))
		return nil
	})
}

func cmdDelete(args []string) error {
	fs, flags := flagSet("delete")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	return withStore(cfg, func(ctx context.Context, s store.Store) error {
		if err := s.Delete(ctx, fs.Arg(0)); err != nil {
			return err
		}
		logger.Info("deleted path", zap.String("name", fs.Arg(0)))
		return nil
	})
}

func cmdSchema(args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	_, err := os.Stdout.Write(document.Schema())
	return err
}
