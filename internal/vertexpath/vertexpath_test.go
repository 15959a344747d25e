package vertexpath

import (
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/internal/tessellate"
	"github.com/Faultbox/roadweaver/pkg/math"
)

var approxVec = cmpopts.EquateApprox(0, 1e-4)

func v(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func straight(t *testing.T) *spline.Path {
	t.Helper()
	p, err := spline.FromPoints([]math.Vec3{v(0, 0, 0), v(1, 0, 0), v(2, 0, 0), v(3, 0, 0)}, false)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func curvy(t *testing.T) *spline.Path {
	t.Helper()
	p := spline.New(math.Vec3{})
	_ = p.AddSegment(v(3, 0, 2))
	_ = p.AddSegment(v(6, 0, -1))
	return p
}

func build(t *testing.T, p *spline.Path, tr math.Transform) *VertexPath {
	t.Helper()
	vp, err := New(p, tr, tessellate.DefaultOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return vp
}

func TestUpAxis(t *testing.T) {
	flat := build(t, curvy(t), math.IdentityTransform())
	if flat.Up() != math.Up {
		t.Errorf("ground path Up() = %v, want %v", flat.Up(), math.Up)
	}

	// Straight and flat: zero extent on both axes resolves to +Y.
	if up := build(t, straight(t), math.IdentityTransform()).Up(); up != math.Up {
		t.Errorf("straight path Up() = %v, want %v", up, math.Up)
	}

	wall, _ := spline.FromPoints([]math.Vec3{v(0, 0, 0), v(1, 2, 0), v(2, -2, 0), v(3, 0, 0)}, false)
	if up := build(t, wall, math.IdentityTransform()).Up(); up != v(0, 0, -1) {
		t.Errorf("vertical path Up() = %v, want (0, 0, -1)", up)
	}
}

func TestNormals(t *testing.T) {
	vp := build(t, straight(t), math.IdentityTransform())
	for i := range vp.PointsCount() {
		if d := cmp.Diff(v(0, 0, -1), vp.Normal(i), approxVec); d != "" {
			t.Errorf("Normal(%d) mismatch (-want +got):\n%s", i, d)
		}
	}

	vp = build(t, curvy(t), math.IdentityTransform())
	for i := range vp.PointsCount() {
		n, tan := vp.Normal(i), vp.Tangent(i)
		if l := n.Length(); l < 0.999 || l > 1.001 {
			t.Errorf("Normal(%d) length = %v", i, l)
		}
		if dot := n.Dot(tan); dot > 1e-4 || dot < -1e-4 {
			t.Errorf("Normal(%d) not perpendicular to tangent, dot = %v", i, dot)
		}
	}
}

func TestTimes(t *testing.T) {
	vp := build(t, curvy(t), math.IdentityTransform())
	last := vp.PointsCount() - 1
	if vp.Time(0) != 0 || vp.Time(last) != 1 {
		t.Errorf("Time(0)=%v Time(last)=%v, want 0 and 1", vp.Time(0), vp.Time(last))
	}
	for i := 1; i <= last; i++ {
		if vp.Time(i) < vp.Time(i-1) {
			t.Fatalf("Time(%d) decreases", i)
		}
	}
}

func TestClosestPointOnVertex(t *testing.T) {
	vp := build(t, curvy(t), math.IdentityTransform())
	for k := range vp.PointsCount() {
		q := vp.Point(k)
		got := vp.ClosestPointOnPath(q)
		atStart := got.Prev == k && got.T < 1e-4
		atEnd := got.Next == k && got.T > 1-1e-4
		if !atStart && !atEnd {
			t.Errorf("ClosestPointOnPath(vertex %d) = %+v", k, got)
		}
		if d := cmp.Diff(q, vp.ClosestPoint(q), approxVec); d != "" {
			t.Errorf("ClosestPoint(vertex %d) mismatch (-want +got):\n%s", k, d)
		}
	}
}

func TestClosestPointOffPath(t *testing.T) {
	vp := build(t, straight(t), math.IdentityTransform())
	got := vp.ClosestPoint(v(1.5, 0, 4))
	if d := cmp.Diff(v(1.5, 0, 0), got, approxVec); d != "" {
		t.Errorf("ClosestPoint() mismatch (-want +got):\n%s", d)
	}
	if got := vp.ClosestPoint(v(-5, 0, 0)); got != v(0, 0, 0) {
		t.Errorf("ClosestPoint() before start = %v, want origin", got)
	}
}

func TestClosestPointClosedWraps(t *testing.T) {
	p := curvy(t)
	p.SetClosed(true)
	vp := build(t, p, math.IdentityTransform())
	if !vp.IsClosed() {
		t.Fatal("IsClosed() = false")
	}
	// The last vertex repeats the first, so the wrap edge is degenerate but
	// still considered without panicking.
	last := vp.PointsCount() - 1
	got := vp.ClosestPointOnPath(vp.Point(last))
	if got.Prev != last-1 && got.Prev != last && got.Prev != 0 {
		t.Errorf("ClosestPointOnPath(last) = %+v", got)
	}
}

func TestTransform(t *testing.T) {
	tr := math.Transform{
		Position: v(10, 5, 0),
		Rotation: math.QuatFromYaw(gomath.Pi / 2),
		Scale:    v(2, 2, 2),
	}
	vp := build(t, straight(t), tr)
	if d := cmp.Diff(v(10, 0, 0), vp.Point(0), approxVec); d != "" {
		t.Errorf("Point(0) mismatch (-want +got):\n%s", d)
	}
	// +X turns to -Z under a quarter yaw and doubles in length.
	if d := cmp.Diff(v(10, 0, -6), vp.Point(1), approxVec); d != "" {
		t.Errorf("Point(1) mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff(v(0, 0, -1), vp.Tangent(0), approxVec); d != "" {
		t.Errorf("Tangent(0) mismatch (-want +got):\n%s", d)
	}
	if vp.LocalPoint(1) != v(3, 0, 0) {
		t.Errorf("LocalPoint(1) = %v, want (3, 0, 0)", vp.LocalPoint(1))
	}
}

func TestWorldBounds(t *testing.T) {
	tr := math.Transform{
		Position: v(1000, 0, 1000),
		Rotation: math.QuatFromYaw(gomath.Pi / 2),
		Scale:    v(2, 2, 2),
	}
	vp := build(t, straight(t), tr)
	wb := vp.WorldBounds()
	if d := cmp.Diff(v(1000, 0, 994), wb.Min, approxVec); d != "" {
		t.Errorf("WorldBounds().Min mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff(v(1000, 0, 1000), wb.Max, approxVec); d != "" {
		t.Errorf("WorldBounds().Max mismatch (-want +got):\n%s", d)
	}
	// Local bounds are unaffected by the transform.
	if lb := vp.Bounds(); lb.Max != v(3, 0, 0) {
		t.Errorf("Bounds().Max = %v, want (3, 0, 0)", lb.Max)
	}
}

func TestPointAtTime(t *testing.T) {
	vp := build(t, straight(t), math.IdentityTransform())
	tests := []struct {
		t    float32
		want math.Vec3
	}{
		{0, v(0, 0, 0)},
		{0.5, v(1.5, 0, 0)},
		{1, v(3, 0, 0)},
		{2, v(3, 0, 0)},
		{-1, v(0, 0, 0)},
	}
	for _, tt := range tests {
		if d := cmp.Diff(tt.want, vp.PointAtTime(tt.t), approxVec); d != "" {
			t.Errorf("PointAtTime(%v) mismatch (-want +got):\n%s", tt.t, d)
		}
	}
	if d := cmp.Diff(v(1, 0, 0), vp.PointAtDistance(1), approxVec); d != "" {
		t.Errorf("PointAtDistance(1) mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff(v(1, 0, 0), vp.TangentAtTime(0.3), approxVec); d != "" {
		t.Errorf("TangentAtTime(0.3) mismatch (-want +got):\n%s", d)
	}
}

func TestPointAtTimeClosedWraps(t *testing.T) {
	p := curvy(t)
	p.SetClosed(true)
	vp := build(t, p, math.IdentityTransform())
	if d := cmp.Diff(vp.PointAtTime(0.25), vp.PointAtTime(1.25), approxVec); d != "" {
		t.Errorf("closed PointAtTime does not wrap (-want +got):\n%s", d)
	}
}

func TestAnchorVertex(t *testing.T) {
	p := curvy(t)
	vp := build(t, p, math.IdentityTransform())
	for a, anchor := range p.Anchors() {
		i := vp.AnchorVertex(a)
		if d := cmp.Diff(anchor, vp.Point(i), approxVec); d != "" {
			t.Errorf("AnchorVertex(%d) mismatch (-want +got):\n%s", a, d)
		}
	}
	if got := vp.AnchorVertex(-1); got != -1 {
		t.Errorf("AnchorVertex(-1) = %d, want -1", got)
	}
}

func TestNewTooFewAnchors(t *testing.T) {
	if _, err := New(nil, math.IdentityTransform(), tessellate.DefaultOptions()); err == nil {
		t.Error("New(nil) succeeded")
	}
}
