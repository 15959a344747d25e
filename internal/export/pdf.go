package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/internal/vertexpath"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// PDFOptions controls the plan plot. Units are millimetres.
type PDFOptions struct {
	PageSize    string // gofpdf size name, e.g. A4 or A3
	Orientation string // P or L
	Margin      float64
	RoadWidth   float32 // draws road edges when > 0
	Title       string
}

// DefaultPDFOptions returns an A4 landscape plot.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{PageSize: "A4", Orientation: "L", Margin: 15}
}

// RenderPlanPDF writes a one-page plan view of path as placed by curve. The
// spline is drawn as true Bezier curves, the tessellated centre line and road
// edges as polylines.
func RenderPlanPDF(w io.Writer, path *spline.Path, curve *vertexpath.VertexPath, opts PDFOptions) error {
	pdf, err := planPDF(path, curve, opts)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePlanPDF writes the plan view to the file at outPath.
func WritePlanPDF(outPath string, path *spline.Path, curve *vertexpath.VertexPath, opts PDFOptions) error {
	pdf, err := planPDF(path, curve, opts)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func planPDF(path *spline.Path, curve *vertexpath.VertexPath, opts PDFOptions) (*gofpdf.Fpdf, error) {
	if path == nil || curve == nil {
		return nil, ErrNothingToDraw
	}
	def := DefaultPDFOptions()
	if opts.PageSize == "" {
		opts.PageSize = def.PageSize
	}
	if opts.Orientation == "" {
		opts.Orientation = def.Orientation
	}
	if opts.Margin <= 0 {
		opts.Margin = def.Margin
	}

	pdf := gofpdf.New(opts.Orientation, "mm", opts.PageSize, "")
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("roadweaver", true)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	xf := curve.Transform()
	pts := path.Points()
	for i := range pts {
		pts[i] = xf.TransformPoint(pts[i])
	}
	bounds := planBounds(pts, curve, opts.RoadWidth)

	// Header takes the top 12 mm; the drawing is centred below it.
	top := opts.Margin + 12
	availW := pageW - 2*opts.Margin
	availH := pageH - top - opts.Margin
	size := bounds.Size()
	scale := 1.0
	if size.X > 0 || size.Z > 0 {
		scale = min(availW/float64(max(size.X, 1e-6)), availH/float64(max(size.Z, 1e-6)))
	}
	center := bounds.Center()
	midX, midY := opts.Margin+availW/2, top+availH/2
	project := func(p math.Vec3) (float64, float64) {
		return midX + float64(p.X-center.X)*scale, midY + float64(p.Z-center.Z)*scale
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(opts.Margin, opts.Margin+4, opts.Title)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(opts.Margin, opts.Margin+9, fmt.Sprintf("length %.2f  anchors %d  closed %v  1 unit = %.2f mm",
		curve.Length(), path.AnchorCount(), path.IsClosed(), scale))

	if opts.RoadWidth > 0 {
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.2)
		n := curve.PointsCount()
		for i := 0; i+1 < n; i++ {
			l0, r0 := roadEdges(curve, i, opts.RoadWidth)
			l1, r1 := roadEdges(curve, i+1, opts.RoadWidth)
			line(pdf, project, l0, l1)
			line(pdf, project, r0, r1)
		}
	}

	// Handles.
	pdf.SetDrawColor(40, 110, 200)
	pdf.SetLineWidth(0.15)
	for i := range pts {
		if !spline.IsAnchor(i) {
			line(pdf, project, pts[anchorOf(i, len(pts))], pts[i])
		}
	}

	// The spline itself.
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.4)
	for s := range path.SegmentsCount() {
		base := s * 3
		x0, y0 := project(pts[base])
		x1, y1 := project(pts[base+1])
		x2, y2 := project(pts[base+2])
		x3, y3 := project(pts[(base+3)%len(pts)])
		pdf.CurveBezierCubic(x0, y0, x1, y1, x2, y2, x3, y3, "D")
	}

	pdf.SetFont("Helvetica", "", 7)
	for i, p := range pts {
		x, y := project(p)
		if spline.IsAnchor(i) {
			pdf.SetFillColor(200, 40, 40)
			pdf.Circle(x, y, 0.9, "F")
			pdf.Text(x+1.5, y-1.5, fmt.Sprintf("%d", i/3))
		} else {
			pdf.SetFillColor(40, 110, 200)
			pdf.Circle(x, y, 0.5, "F")
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return pdf, nil
}

// planBounds frames the world-space handles, samples and road edges.
func planBounds(handles []math.Vec3, curve *vertexpath.VertexPath, roadWidth float32) math.Bounds {
	bounds := curve.WorldBounds()
	for _, p := range handles {
		bounds = bounds.Extend(p)
	}
	if roadWidth > 0 {
		for i := range curve.PointsCount() {
			l, r := roadEdges(curve, i, roadWidth)
			bounds = bounds.Extend(l).Extend(r)
		}
	}
	return bounds
}

func roadEdges(curve *vertexpath.VertexPath, i int, width float32) (math.Vec3, math.Vec3) {
	p, n := curve.Point(i), curve.Normal(i).Scale(width/2)
	return p.Sub(n), p.Add(n)
}

func line(pdf *gofpdf.Fpdf, project func(math.Vec3) (float64, float64), a, b math.Vec3) {
	x0, y0 := project(a)
	x1, y1 := project(b)
	pdf.Line(x0, y0, x1, y1)
}
