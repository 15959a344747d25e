// Package document reads and writes path documents: JSON files holding the
// control points of one road and the flags needed to restore it.
package document

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// Version is the document format version written by Encode.
const Version = 1

// ErrInvalidDocument is returned for documents that fail the schema or
// describe an impossible path.
var ErrInvalidDocument = errors.New("invalid path document")

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Schema returns the JSON schema documents are validated against.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// Document is the serialized form of a road path.
type Document struct {
	Version           int          `json:"version"`
	Name              string       `json:"name,omitempty"`
	Closed            bool         `json:"closed"`
	AutoTangent       bool         `json:"autoTangent"`
	AutoTangentFactor float32      `json:"autoTangentFactor,omitempty"`
	Transform         *Transform   `json:"transform,omitempty"`
	Points            [][3]float32 `json:"points"`
}

// Transform is the ground-plane placement of a path. Only yaw rotation and a
// uniform scale survive ground locking, so that is all a document stores.
type Transform struct {
	Position [3]float32 `json:"position"`
	Yaw      float32    `json:"yaw"` // degrees
	Scale    float32    `json:"scale,omitempty"`
}

// FromPath captures path and its placement.
func FromPath(name string, path *spline.Path, t math.Transform) *Document {
	pts := path.Points()
	doc := &Document{
		Version:           Version,
		Name:              name,
		Closed:            path.IsClosed(),
		AutoTangent:       path.AutoTangent(),
		AutoTangentFactor: path.AutoTangentFactor(),
		Points:            make([][3]float32, len(pts)),
	}
	for i, p := range pts {
		doc.Points[i] = [3]float32{p.X, p.Y, p.Z}
	}

	locked := t.LockedToGround()
	if locked != math.IdentityTransform().LockedToGround() {
		doc.Transform = &Transform{
			Position: [3]float32{locked.Position.X, locked.Position.Y, locked.Position.Z},
			Yaw:      locked.Rotation.Yaw() * 180 / gomath.Pi,
			Scale:    locked.Scale.X,
		}
	}
	return doc
}

// Path restores the spline described by the document.
func (d *Document) Path() (*spline.Path, error) {
	pts := make([]math.Vec3, len(d.Points))
	for i, p := range d.Points {
		pts[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	path, err := spline.FromPoints(pts, d.Closed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if d.AutoTangentFactor > 0 {
		path.SetAutoTangentFactor(d.AutoTangentFactor)
	}
	path.SetAutoTangent(d.AutoTangent)
	return path, nil
}

// PathTransform returns the stored placement, or the identity.
func (d *Document) PathTransform() math.Transform {
	if d.Transform == nil {
		return math.IdentityTransform()
	}
	s := d.Transform.Scale
	if s == 0 {
		s = 1
	}
	p := d.Transform.Position
	return math.Transform{
		Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
		Rotation: math.QuatFromYaw(d.Transform.Yaw * gomath.Pi / 180),
		Scale:    math.Vec3{X: s, Y: s, Z: s},
	}
}

// Validate checks raw JSON against the document schema.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return nil
}

// Decode validates and parses a document, including the point count rule
// the schema cannot express.
func Decode(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if _, err := doc.Path(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode renders the document as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadFile loads and validates a document from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile writes the document through a temporary file in the same
// directory and renames it over path.
func WriteFile(path string, doc *Document) (err error) {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	temp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(temp)
		}
	}()
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(temp, path)
}
