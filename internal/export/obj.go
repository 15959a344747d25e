// Package export writes road meshes and plan views to files.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/roadweaver/internal/ribbon"
	"github.com/Faultbox/roadweaver/internal/terrain"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// OBJWriter streams Wavefront OBJ objects. Vertex numbering continues across
// objects, so several meshes can share one file.
type OBJWriter struct {
	w   *bufio.Writer
	v   int // positions written so far
	vt  int
	vn  int
	err error
}

// NewOBJWriter returns a writer that buffers into w. Call Close to flush.
func NewOBJWriter(w io.Writer) *OBJWriter {
	o := &OBJWriter{w: bufio.NewWriter(w)}
	o.printf("# roadweaver\n")
	return o
}

func (o *OBJWriter) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

func (o *OBJWriter) vec3(tag string, v math.Vec3) {
	o.printf("%s %g %g %g\n", tag, v.X, v.Y, v.Z)
}

// Road writes a road mesh as object name with one group per submesh.
func (o *OBJWriter) Road(name string, m *ribbon.Mesh) {
	if m == nil {
		return
	}
	o.printf("o %s\n", name)
	for _, p := range m.Positions {
		o.vec3("v", p)
	}
	for _, uv := range m.UVs {
		o.printf("vt %g %g\n", uv.X, uv.Y)
	}
	for _, n := range m.Normals {
		o.vec3("vn", n)
	}
	for _, sm := range m.Submeshes {
		o.printf("g %s_%s\n", name, sm.Name)
		for i := 0; i+2 < len(sm.Indices); i += 3 {
			o.printf("f")
			for _, idx := range sm.Indices[i : i+3] {
				k := int(idx) + 1
				o.printf(" %d/%d/%d", o.v+k, o.vt+k, o.vn+k)
			}
			o.printf("\n")
		}
	}
	o.v += len(m.Positions)
	o.vt += len(m.UVs)
	o.vn += len(m.Normals)
}

// Terrain writes a terrain mesh as object name. Terrain has no texture
// coordinates, so its faces reference positions and normals only.
func (o *OBJWriter) Terrain(name string, m *terrain.Mesh) {
	if m == nil {
		return
	}
	o.printf("o %s\n", name)
	for _, v := range m.Vertices {
		o.vec3("v", v.Position)
	}
	for _, v := range m.Vertices {
		o.vec3("vn", v.Normal)
	}
	o.printf("g %s\n", name)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		o.printf("f")
		for _, idx := range m.Indices[i : i+3] {
			k := int(idx) + 1
			o.printf(" %d//%d", o.v+k, o.vn+k)
		}
		o.printf("\n")
	}
	o.v += len(m.Vertices)
	o.vn += len(m.Vertices)
}

// Close flushes buffered output and returns the first write error.
func (o *OBJWriter) Close() error {
	if o.err != nil {
		return fmt.Errorf("write obj: %w", o.err)
	}
	if err := o.w.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}

// WriteOBJ writes a single road mesh named "road".
func WriteOBJ(w io.Writer, mesh *ribbon.Mesh) error {
	o := NewOBJWriter(w)
	o.Road("road", mesh)
	return o.Close()
}
