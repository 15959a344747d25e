package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/roadweaver/internal/config"
	"github.com/Faultbox/roadweaver/internal/export"
	"github.com/Faultbox/roadweaver/internal/logger"
	"github.com/Faultbox/roadweaver/internal/road"
	"github.com/Faultbox/roadweaver/internal/terrain"
)

// built loads and rebuilds the road named by the single positional argument.
func built(cfg *config.Config, args []string) (*road.Road, *terrain.Heightmap, error) {
	if len(args) != 1 {
		return nil, nil, errUsage
	}
	r, err := openRoad(cfg, args[0])
	if err != nil {
		return nil, nil, err
	}
	hm, err := rebuild(cfg, r)
	if err != nil {
		return nil, nil, err
	}
	return r, hm, nil
}

func outputPath(out, file, ext string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(file, ".json") + ext
}

func cmdInfo(args []string) error {
	fs, flags := flagSet("info")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	r, hm, err := built(cfg, fs.Args())
	if err != nil {
		return err
	}
	return printInfo(os.Stdout, fs.Arg(0), r, hm)
}

// printInfo writes path, curve and mesh statistics. Bounds are in world space.
func printInfo(w io.Writer, file string, r *road.Road, hm *terrain.Heightmap) error {
	curve, err := r.Curve()
	if err != nil {
		return err
	}
	mesh, err := r.Mesh()
	if err != nil {
		return err
	}
	p := r.Path

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "Path:\t%s (%s)\n", r.Name, file)
	fmt.Fprintf(tw, "Anchors:\t%d\n", p.AnchorCount())
	fmt.Fprintf(tw, "Segments:\t%d\n", p.SegmentsCount())
	fmt.Fprintf(tw, "Closed:\t%v\n", p.IsClosed())
	fmt.Fprintf(tw, "Auto:\t%v (factor %.2f)\n", p.AutoTangent(), p.AutoTangentFactor())
	fmt.Fprintf(tw, "Length:\t%.3f\n", curve.Length())
	fmt.Fprintf(tw, "Samples:\t%d\n", curve.PointsCount())
	b := curve.WorldBounds()
	fmt.Fprintf(tw, "Bounds:\t(%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Fprintf(tw, "Mesh:\t%s, width %.2f\n", r.Settings.Ribbon.Mode, r.Settings.Ribbon.Width)
	fmt.Fprintf(tw, "Vertices:\t%d\n", len(mesh.Positions))
	fmt.Fprintf(tw, "Triangles:\t%d\n", mesh.TriangleCount())
	for _, sm := range mesh.Submeshes {
		fmt.Fprintf(tw, "  %s\t%d\n", sm.Name, len(sm.Indices)/3)
	}
	if hm != nil {
		sx, sz := hm.Size()
		fmt.Fprintf(tw, "Terrain:\t%dx%d cells, %.1f x %.1f\n", hm.CellsX, hm.CellsZ, sx, sz)
	}
	return tw.Flush()
}

func cmdBuild(args []string) error {
	fs, flags := flagSet("build")
	out := fs.String("o", "", "Output file (default: <file>.obj)")
	withTerrain := fs.Bool("terrain", false, "Include the heightmap mesh")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	r, hm, err := built(cfg, fs.Args())
	if err != nil {
		return err
	}
	mesh, _ := r.Mesh()
	path := outputPath(*out, fs.Arg(0), ".obj")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	o := export.NewOBJWriter(f)
	if *withTerrain && hm != nil {
		o.Terrain("terrain", terrain.BuildMesh(hm))
	}
	o.Road(objName(r.Name), mesh)
	if err := o.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote mesh",
		zap.String("file", path),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("triangles", mesh.TriangleCount()))
	fmt.Println(path)
	return nil
}

// objName makes a name safe for OBJ object and group statements.
func objName(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		return "road"
	}
	return name
}

func cmdPreview(args []string) error {
	fs, flags := flagSet("preview")
	out := fs.String("o", "", "Output file (default: <file>.png)")
	handles := fs.Bool("handles", true, "Draw anchors and control points")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	r, _, err := built(cfg, fs.Args())
	if err != nil {
		return err
	}
	curve, _ := r.Curve()
	mesh, _ := r.Mesh()

	opts := export.DefaultPreviewOptions()
	opts.Size = cfg.Export.PreviewSize
	opts.Margin = cfg.Export.PreviewMargin
	opts.Title = r.Name
	if *handles {
		opts.Path = r.Path
	}
	img, err := export.RenderPreview(mesh, curve, opts)
	if err != nil {
		return err
	}
	path := outputPath(*out, fs.Arg(0), ".png")
	if err := export.SavePNG(path, img); err != nil {
		return err
	}
	logger.Info("wrote preview", zap.String("file", path), zap.Stringer("size", img.Bounds().Size()))
	fmt.Println(path)
	return nil
}

func cmdPlot(args []string) error {
	fs, flags := flagSet("plot")
	out := fs.String("o", "", "Output file (default: <file>.pdf)")
	cfg, err := setup(fs, flags, args)
	if err != nil {
		return err
	}
	r, _, err := built(cfg, fs.Args())
	if err != nil {
		return err
	}
	curve, _ := r.Curve()

	opts := export.PDFOptions{
		PageSize:    cfg.Export.PDFPageSize,
		Orientation: cfg.Export.PDFOrientation,
		Title:       r.Name,
		RoadWidth:   r.Settings.Ribbon.Width,
	}
	path := outputPath(*out, fs.Arg(0), ".pdf")
	if err := export.WritePlanPDF(path, r.Path, curve, opts); err != nil {
		return err
	}
	logger.Info("wrote plot", zap.String("file", path))
	fmt.Println(path)
	return nil
}
