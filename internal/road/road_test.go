package road

import (
	"errors"
	"testing"

	"github.com/Faultbox/roadweaver/internal/ribbon"
	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/internal/terrain"
	"github.com/Faultbox/roadweaver/pkg/math"
)

func newRoad() *Road {
	return New("test", spline.New(math.Vec3{}), DefaultSettings())
}

func TestNotBuilt(t *testing.T) {
	r := newRoad()
	if !r.Stale() {
		t.Error("new road is not stale")
	}
	if _, err := r.Mesh(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Mesh() error = %v, want ErrNotBuilt", err)
	}
	if _, err := r.Curve(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Curve() error = %v, want ErrNotBuilt", err)
	}
}

func TestRebuild(t *testing.T) {
	r := newRoad()
	if err := r.Rebuild(terrain.Flat(0)); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if r.Stale() {
		t.Error("road stale after Rebuild")
	}
	curve, _ := r.Curve()
	mesh, err := r.Mesh()
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Positions) != 8*curve.PointsCount() {
		t.Errorf("positions = %d, want %d", len(mesh.Positions), 8*curve.PointsCount())
	}
}

func TestEditsMarkStale(t *testing.T) {
	r := newRoad()
	edits := []func() error{
		func() error { return r.AddSegment(math.Vec3{X: 4, Z: 2}) },
		func() error { return r.MovePoint(3, math.Vec3{X: 1, Z: 1}) },
		func() error { return r.SplitSegment(math.Vec3{X: 2, Z: 2}, 1) },
		func() error { r.ToggleClosed(); return nil },
		func() error { r.SetAutoTangent(true); return nil },
		func() error { _, err := r.RemoveSegment(3); return err },
	}
	for i, edit := range edits {
		if err := r.Rebuild(terrain.Flat(0)); err != nil {
			t.Fatalf("edit %d: Rebuild() error = %v", i, err)
		}
		if err := edit(); err != nil {
			t.Fatalf("edit %d: %v", i, err)
		}
		if !r.Stale() {
			t.Errorf("edit %d did not mark the road stale", i)
		}
	}
}

func TestFailedEditKeepsFresh(t *testing.T) {
	r := newRoad()
	_ = r.Rebuild(terrain.Flat(0))
	if err := r.MovePoint(99, math.Vec3{}); !errors.Is(err, spline.ErrPointOutOfRange) {
		t.Errorf("MovePoint(99) error = %v", err)
	}
	if r.Stale() {
		t.Error("failed edit marked the road stale")
	}
}

func TestRemoveAtMinimum(t *testing.T) {
	r := newRoad()
	removed, err := r.RemoveSegment(0)
	if err != nil || removed {
		t.Errorf("RemoveSegment(0) = %v, %v, want false, nil", removed, err)
	}
}

func TestRebuildErrorKeepsPrevious(t *testing.T) {
	r := newRoad()
	if err := r.Rebuild(terrain.Flat(0)); err != nil {
		t.Fatal(err)
	}
	before, _ := r.Mesh()
	r.Settings.Ribbon.Width = 0
	r.Invalidate()
	if err := r.Rebuild(terrain.Flat(0)); !errors.Is(err, ribbon.ErrInvalidOptions) {
		t.Fatalf("Rebuild() error = %v, want ErrInvalidOptions", err)
	}
	after, _ := r.Mesh()
	if after != before || !r.Stale() {
		t.Error("failed Rebuild replaced the mesh or cleared the stale flag")
	}
}

func TestRebuildFollowsTerrain(t *testing.T) {
	r := newRoad()
	r.Settings.Ribbon.Mode = ribbon.ModeStrip
	if err := r.Rebuild(terrain.Flat(5)); err != nil {
		t.Fatal(err)
	}
	mesh, _ := r.Mesh()
	for i, p := range mesh.Positions {
		if p.Y < 5.0999 || p.Y > 5.1001 {
			t.Errorf("position %d height = %v, want 5.1", i, p.Y)
		}
	}
}
