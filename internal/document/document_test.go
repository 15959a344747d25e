package document

import (
	"encoding/json"
	"errors"
	gomath "math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/pkg/math"
)

var approx = cmpopts.EquateApprox(0, 1e-4)

func samplePath(t *testing.T) *spline.Path {
	t.Helper()
	p := spline.New(math.Vec3{})
	if err := p.AddSegment(math.Vec3{X: 4, Y: 1, Z: 2}); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	p := samplePath(t)
	tr := math.Transform{
		Position: math.Vec3{X: 3, Y: 9, Z: -2},
		Rotation: math.QuatFromYaw(gomath.Pi / 4),
		Scale:    math.Vec3{X: 2, Y: 1, Z: 1},
	}
	data, err := Encode(FromPath("main street", p, tr))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, data)
	}
	if doc.Name != "main street" || doc.Version != Version {
		t.Errorf("header = %q v%d", doc.Name, doc.Version)
	}
	got, err := doc.Path()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(p.Points(), got.Points()); d != "" {
		t.Errorf("points mismatch (-want +got):\n%s", d)
	}

	// Height is dropped and scale made uniform on the way out.
	q := math.Vec3{X: 1, Y: 0, Z: 2}
	want := tr.TransformPoint(q)
	if d := cmp.Diff(want, doc.PathTransform().TransformPoint(q), approx); d != "" {
		t.Errorf("transform mismatch (-want +got):\n%s", d)
	}
}

func TestIdentityTransformOmitted(t *testing.T) {
	doc := FromPath("", samplePath(t), math.IdentityTransform())
	if doc.Transform != nil {
		t.Errorf("Transform = %+v, want nil for identity", doc.Transform)
	}
	if doc.PathTransform() != math.IdentityTransform() {
		t.Error("PathTransform() is not the identity")
	}
}

func TestRoundTripClosedAuto(t *testing.T) {
	p := samplePath(t)
	p.SetAutoTangentFactor(0.45)
	p.SetAutoTangent(true)
	p.SetClosed(true)

	data, err := Encode(FromPath("loop", p, math.IdentityTransform()))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := doc.Path()
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsClosed() || !got.AutoTangent() || got.AutoTangentFactor() != 0.45 {
		t.Errorf("flags closed=%v auto=%v factor=%v", got.IsClosed(), got.AutoTangent(), got.AutoTangentFactor())
	}
	if d := cmp.Diff(p.Points(), got.Points(), approx); d != "" {
		t.Errorf("points mismatch (-want +got):\n%s", d)
	}
}

func TestSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"version":`},
		{"missing points", `{"version":1}`},
		{"wrong version", `{"version":2,"points":[[0,0,0],[1,0,0],[2,0,0],[3,0,0]]}`},
		{"too few points", `{"version":1,"points":[[0,0,0],[1,0,0],[2,0,0]]}`},
		{"short vector", `{"version":1,"points":[[0,0],[1,0,0],[2,0,0],[3,0,0]]}`},
		{"unknown field", `{"version":1,"color":"red","points":[[0,0,0],[1,0,0],[2,0,0],[3,0,0]]}`},
		{"bad factor", `{"version":1,"autoTangentFactor":0,"points":[[0,0,0],[1,0,0],[2,0,0],[3,0,0]]}`},
	}
	for _, tt := range tests {
		if _, err := Decode([]byte(tt.doc)); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("%s: Decode() error = %v, want ErrInvalidDocument", tt.name, err)
		}
	}
}

func TestDecodeRejectsPointCount(t *testing.T) {
	// Valid per schema, but five points is not an open or closed layout.
	doc := `{"version":1,"points":[[0,0,0],[1,0,0],[2,0,0],[3,0,0],[4,0,0]]}`
	_, err := Decode([]byte(doc))
	if !errors.Is(err, ErrInvalidDocument) || !errors.Is(err, spline.ErrInvalidPointCount) {
		t.Errorf("Decode() error = %v, want ErrInvalidDocument wrapping ErrInvalidPointCount", err)
	}
}

func TestFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads", "a.json")
	doc := FromPath("a", samplePath(t), math.IdentityTransform())
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	// Overwrite in place.
	doc.Name = "b"
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile() again error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if d := cmp.Diff(doc, got); d != "" {
		t.Errorf("file round trip mismatch (-want +got):\n%s", d)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".*tmp*"))
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadFile(missing) succeeded")
	}
}

func TestSchemaIsJSON(t *testing.T) {
	var v map[string]any
	if err := json.Unmarshal(Schema(), &v); err != nil {
		t.Fatalf("Schema() is not JSON: %v", err)
	}
	if v["type"] != "object" {
		t.Errorf("schema type = %v", v["type"])
	}
}
