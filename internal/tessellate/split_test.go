package tessellate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/pkg/math"
)

var approxVec = cmpopts.EquateApprox(0, 1e-4)

func v(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func curvyPath(t *testing.T) *spline.Path {
	t.Helper()
	p := spline.New(math.Vec3{})
	for _, a := range []math.Vec3{v(3, 0, 2), v(5, 1, -1), v(9, 0, 0)} {
		if err := p.AddSegment(a); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestSplitNilPath(t *testing.T) {
	if _, err := Split(nil, DefaultOptions()); !errors.Is(err, ErrTooFewAnchors) {
		t.Errorf("Split(nil) error = %v, want ErrTooFewAnchors", err)
	}
}

func TestDefaultOptionsSpacing(t *testing.T) {
	if got := DefaultOptions().MinVertexDist; got < 0.01 || got > 1 {
		t.Errorf("DefaultOptions().MinVertexDist = %v, want within [0.01, 1]", got)
	}
}

func TestSplitRejectsZeroAccuracy(t *testing.T) {
	opts := DefaultOptions()
	opts.Accuracy = 0
	if _, err := Split(spline.New(math.Vec3{}), opts); err == nil {
		t.Error("Split() with zero accuracy succeeded")
	}
}

func TestSplitCumulativeLength(t *testing.T) {
	p := curvyPath(t)
	data, err := Split(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	n := len(data.Vertices)
	if len(data.Tangents) != n || len(data.CumulativeLength) != n {
		t.Fatalf("buffer lengths %d/%d/%d differ", n, len(data.Tangents), len(data.CumulativeLength))
	}
	if data.CumulativeLength[0] != 0 {
		t.Errorf("CumulativeLength[0] = %v, want 0", data.CumulativeLength[0])
	}
	for i := 1; i < n; i++ {
		if data.CumulativeLength[i] < data.CumulativeLength[i-1] {
			t.Fatalf("CumulativeLength decreases at %d: %v < %v", i, data.CumulativeLength[i], data.CumulativeLength[i-1])
		}
	}

	var exact float32
	for _, seg := range p.Segments() {
		exact += seg.ArcLength(2000)
	}
	if got := data.Length(); got > exact*1.0001 || got < exact*0.99 {
		t.Errorf("Length() = %v, want about %v", got, exact)
	}
}

func TestSplitTangentsAreUnit(t *testing.T) {
	data, err := Split(curvyPath(t), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i, tan := range data.Tangents {
		if l := tan.Length(); l < 0.999 || l > 1.001 {
			t.Errorf("tangent %d length = %v", i, l)
		}
	}
}

func TestSplitAnchorsSampled(t *testing.T) {
	p := curvyPath(t)
	data, err := Split(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	anchors := p.Anchors()
	if len(data.AnchorVertexMap) != len(anchors) {
		t.Fatalf("AnchorVertexMap has %d entries, want %d", len(data.AnchorVertexMap), len(anchors))
	}
	for a, vi := range data.AnchorVertexMap {
		if d := cmp.Diff(anchors[a], data.Vertices[vi], approxVec); d != "" {
			t.Errorf("anchor %d vertex mismatch (-want +got):\n%s", a, d)
		}
	}
	if last := data.AnchorVertexMap[len(anchors)-1]; last != len(data.Vertices)-1 {
		t.Errorf("last anchor maps to %d, want final vertex %d", last, len(data.Vertices)-1)
	}
}

func TestSplitStraightKeepsOnlyAnchors(t *testing.T) {
	p, err := spline.FromPoints([]math.Vec3{v(0, 0, 0), v(1, 0, 0), v(2, 0, 0), v(3, 0, 0)}, false)
	if err != nil {
		t.Fatal(err)
	}
	data, err := Split(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Vertices) != 2 {
		t.Errorf("straight segment sampled %d vertices, want 2", len(data.Vertices))
	}
	if got := data.Length(); got < 2.9999 || got > 3.0001 {
		t.Errorf("Length() = %v, want 3", got)
	}
}

func TestSplitMinVertexDist(t *testing.T) {
	p := curvyPath(t)
	opts := DefaultOptions()
	opts.MinVertexDist = 1000
	data, err := Split(p, opts)
	if err != nil {
		t.Fatal(err)
	}
	if want := p.SegmentsCount() + 1; len(data.Vertices) != want {
		t.Errorf("vertices = %d, want only the %d anchors", len(data.Vertices), want)
	}

	dense, _ := Split(p, DefaultOptions())
	if len(dense.Vertices) <= len(data.Vertices) {
		t.Errorf("default spacing produced %d vertices, want more than %d", len(dense.Vertices), len(data.Vertices))
	}
}

func TestSplitClosedEndsAtStart(t *testing.T) {
	p := curvyPath(t)
	p.SetClosed(true)
	data, err := Split(p, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	last := data.Vertices[len(data.Vertices)-1]
	if d := cmp.Diff(data.Vertices[0], last, approxVec); d != "" {
		t.Errorf("closed polyline does not return to start (-want +got):\n%s", d)
	}
	if len(data.AnchorVertexMap) != p.SegmentsCount()+1 {
		t.Errorf("AnchorVertexMap has %d entries, want %d", len(data.AnchorVertexMap), p.SegmentsCount()+1)
	}
}

func TestSplitBounds(t *testing.T) {
	data, err := Split(curvyPath(t), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range data.Vertices {
		if p.X < data.Bounds.Min.X || p.Y < data.Bounds.Min.Y || p.Z < data.Bounds.Min.Z ||
			p.X > data.Bounds.Max.X || p.Y > data.Bounds.Max.Y || p.Z > data.Bounds.Max.Z {
			t.Errorf("vertex %d %v outside bounds %+v", i, p, data.Bounds)
		}
	}
}
