package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	gomath "math"
	"os"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Faultbox/roadweaver/internal/ribbon"
	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/internal/vertexpath"
	"github.com/Faultbox/roadweaver/pkg/math"
)

var ErrNothingToDraw = errors.New("nothing to draw")

var (
	colBackground = color.RGBA{245, 245, 240, 255}
	colRoad       = color.RGBA{90, 90, 96, 255}
	colCenter     = color.RGBA{250, 200, 40, 255}
	colAnchor     = color.RGBA{200, 40, 40, 255}
	colControl    = color.RGBA{40, 110, 200, 255}
	colText       = color.RGBA{20, 20, 20, 255}
)

// PreviewOptions controls RenderPreview.
type PreviewOptions struct {
	Size   int // pixels along the longer side, margins included
	Margin int
	Path   *spline.Path // optional; draws anchors and handles
	Labels bool
	Title  string
}

// DefaultPreviewOptions returns the settings used when none are given.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{Size: 1024, Margin: 32, Labels: true}
}

// planView maps world XZ onto image pixels, looking down the Y axis.
type planView struct {
	min    math.Vec2
	scale  float32
	margin float32
}

func (v planView) project(p math.Vec3) (float32, float32) {
	q := p.XZ().Sub(v.min).Scale(v.scale)
	return v.margin + q.X, v.margin + q.Y
}

// RenderPreview draws a top-down view of the road surface, its centre line
// and, when opts.Path is set, the editable control points.
func RenderPreview(mesh *ribbon.Mesh, curve *vertexpath.VertexPath, opts PreviewOptions) (*image.RGBA, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultPreviewOptions().Size
	}
	if opts.Margin < 0 || 2*opts.Margin >= opts.Size {
		return nil, fmt.Errorf("preview margin %d does not fit size %d", opts.Margin, opts.Size)
	}

	var bounds math.Bounds
	if mesh != nil {
		bounds = bounds.Extend(mesh.Bounds.Min).Extend(mesh.Bounds.Max)
	}
	if curve != nil {
		wb := curve.WorldBounds()
		bounds = bounds.Extend(wb.Min).Extend(wb.Max)
	}
	var xf math.Transform
	if curve != nil {
		xf = curve.Transform()
	} else {
		xf = math.IdentityTransform()
	}
	var handles, anchors []math.Vec3
	if opts.Path != nil {
		for _, p := range opts.Path.Points() {
			w := xf.TransformPoint(p)
			handles = append(handles, w)
			bounds = bounds.Extend(w)
		}
		for _, a := range opts.Path.Anchors() {
			anchors = append(anchors, xf.TransformPoint(a))
		}
	}
	if bounds.Empty() {
		return nil, ErrNothingToDraw
	}

	size := bounds.Size()
	extent := max(size.X, size.Z)
	inner := float32(opts.Size - 2*opts.Margin)
	scale := float32(1)
	if extent > 0 {
		scale = inner / extent
	}
	view := planView{min: bounds.Min.XZ(), scale: scale, margin: float32(opts.Margin)}
	w := int(gomath.Ceil(float64(size.X*scale))) + 2*opts.Margin
	h := int(gomath.Ceil(float64(size.Z*scale))) + 2*opts.Margin
	w, h = max(w, 1), max(h, 1)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colBackground), image.Point{}, draw.Src)

	r := vector.NewRasterizer(w, h)
	if mesh != nil {
		if top, ok := mesh.Submesh(ribbon.SubmeshTop); ok {
			for i := 0; i+2 < len(top.Indices); i += 3 {
				fillTriangle(r, view,
					mesh.Positions[top.Indices[i]],
					mesh.Positions[top.Indices[i+1]],
					mesh.Positions[top.Indices[i+2]])
			}
			paint(img, r, colRoad)
		}
	}

	if curve != nil && curve.PointsCount() > 1 {
		n := curve.PointsCount()
		for i := 0; i+1 < n; i++ {
			strokeLine(r, view, curve.Point(i), curve.Point(i+1), 2)
		}
		paint(img, r, colCenter)
	}

	if len(handles) > 0 {
		for i, p := range handles {
			if spline.IsAnchor(i) {
				continue
			}
			anchor := handles[anchorOf(i, len(handles))]
			strokeLine(r, view, anchor, p, 1)
			square(r, view, p, 3)
		}
		paint(img, r, colControl)
		for _, a := range anchors {
			square(r, view, a, 5)
		}
		paint(img, r, colAnchor)
	}

	if opts.Labels {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(colText), Face: basicfont.Face7x13}
		for i, a := range anchors {
			x, y := view.project(a)
			d.Dot = fixed.P(int(x)+6, int(y)-6)
			d.DrawString(strconv.Itoa(i))
		}
		title := opts.Title
		if curve != nil {
			title = fmt.Sprintf("%s  length %.2f", title, curve.Length())
		}
		d.Dot = fixed.P(4, 14)
		d.DrawString(title)
	}
	return img, nil
}

// anchorOf returns the anchor a control point belongs to.
func anchorOf(i, n int) int {
	if spline.IsAnchor(i + 1) {
		return (i + 1) % n
	}
	return i - 1
}

func paint(img *image.RGBA, r *vector.Rasterizer, c color.RGBA) {
	r.DrawOp = draw.Over
	r.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
	r.Reset(img.Bounds().Dx(), img.Bounds().Dy())
}

func fillTriangle(r *vector.Rasterizer, v planView, a, b, c math.Vec3) {
	ax, ay := v.project(a)
	bx, by := v.project(b)
	cx, cy := v.project(c)
	// Flipped triangles would cancel coverage; keep every triangle in one orientation.
	if (bx-ax)*(cy-ay)-(by-ay)*(cx-ax) < 0 {
		bx, by, cx, cy = cx, cy, bx, by
	}
	r.MoveTo(ax, ay)
	r.LineTo(bx, by)
	r.LineTo(cx, cy)
	r.ClosePath()
}

// strokeLine adds a line of the given pixel width as a filled quad.
func strokeLine(r *vector.Rasterizer, v planView, a, b math.Vec3, width float32) {
	ax, ay := v.project(a)
	bx, by := v.project(b)
	d := math.Vec2{X: bx - ax, Y: by - ay}
	if d.Length() == 0 {
		return
	}
	d = d.Normalize().Scale(width / 2)
	nx, ny := -d.Y, d.X
	quad(r, ax+nx, ay+ny, bx+nx, by+ny, bx-nx, by-ny, ax-nx, ay-ny)
}

func square(r *vector.Rasterizer, v planView, p math.Vec3, half float32) {
	x, y := v.project(p)
	quad(r, x-half, y-half, x+half, y-half, x+half, y+half, x-half, y+half)
}

func quad(r *vector.Rasterizer, x0, y0, x1, y1, x2, y2, x3, y3 float32) {
	// Same orientation for every quad so overlapping shapes add up.
	if (x1-x0)*(y2-y0)-(y1-y0)*(x2-x0) < 0 {
		x1, y1, x3, y3 = x3, y3, x1, y1
	}
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.LineTo(x2, y2)
	r.LineTo(x3, y3)
	r.ClosePath()
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
