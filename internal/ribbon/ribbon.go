// Package ribbon builds road meshes that follow a sampled curve and rest on
// terrain.
package ribbon

import (
	"errors"
	"fmt"

	"github.com/Faultbox/roadweaver/internal/vertexpath"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// ErrInvalidOptions is returned for a zero width, negative thickness or a
// missing height sampler.
var ErrInvalidOptions = errors.New("invalid ribbon options")

// HeightSampler answers terrain height queries. Implementations return 0
// where there is no terrain.
type HeightSampler interface {
	HeightAt(x, z float32) float32
}

// HeightFunc adapts a function to HeightSampler.
type HeightFunc func(x, z float32) float32

// HeightAt calls f.
func (f HeightFunc) HeightAt(x, z float32) float32 { return f(x, z) }

// Mode selects the mesh layout.
type Mode int

const (
	// ModeSolid extrudes the road downwards and emits top, underside and
	// side wall submeshes.
	ModeSolid Mode = iota
	// ModeStrip emits a single-sided quad strip.
	ModeStrip
)

func (m Mode) String() string {
	switch m {
	case ModeSolid:
		return "solid"
	case ModeStrip:
		return "strip"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "solid", "":
		return ModeSolid, nil
	case "strip":
		return ModeStrip, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, s)
}

// Options sizes the road.
type Options struct {
	Width     float32
	Thickness float32
	// OffsetY lifts the surface above the sampled terrain height.
	OffsetY float32
	Mode    Mode
}

// DefaultOptions returns a one unit wide, one unit thick solid road.
func DefaultOptions() Options {
	return Options{Width: 1, Thickness: 1, OffsetY: 0.1, Mode: ModeSolid}
}

// Submesh names.
const (
	SubmeshTop   = "top"
	SubmeshUnder = "under"
	SubmeshSides = "sides"
)

// Submesh is a named triangle list into the shared vertex buffers.
type Submesh struct {
	Name    string
	Indices []uint32
}

// Mesh holds the generated buffers.
type Mesh struct {
	Positions []math.Vec3
	UVs       []math.Vec2
	Normals   []math.Vec3
	Submeshes []Submesh
	Bounds    math.Bounds
}

// TriangleCount returns the number of triangles across all submeshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, s := range m.Submeshes {
		n += len(s.Indices) / 3
	}
	return n
}

// Submesh returns the submesh with the given name.
func (m *Mesh) Submesh(name string) (Submesh, bool) {
	for _, s := range m.Submeshes {
		if s.Name == name {
			return s, true
		}
	}
	return Submesh{}, false
}

// Per-sample layout of a solid road: 0,1 top edges, 2,3 bottom edges, 4-7
// the same four positions again for the side walls. Offsets of 8 address
// the next sample.
var (
	quadMap  = [6]uint32{0, 8, 1, 1, 8, 9}
	sidesMap = [12]uint32{4, 6, 14, 12, 4, 14, 5, 15, 7, 13, 15, 5}
)

const solidStride = 8

// Build generates the road mesh for vp. Each sample contributes two edge
// points, half the width to either side along the curve normal, whose
// heights are replaced by the terrain height plus OffsetY. Samples are joined
// to their successor, and closed curves also join the last sample to the first.
func Build(vp *vertexpath.VertexPath, sampler HeightSampler, opts Options) (*Mesh, error) {
	switch {
	case vp == nil || vp.PointsCount() == 0:
		return nil, fmt.Errorf("%w: empty curve", ErrInvalidOptions)
	case sampler == nil:
		return nil, fmt.Errorf("%w: no height sampler", ErrInvalidOptions)
	case opts.Width == 0:
		return nil, fmt.Errorf("%w: zero width", ErrInvalidOptions)
	case opts.Thickness < 0:
		return nil, fmt.Errorf("%w: negative thickness %v", ErrInvalidOptions, opts.Thickness)
	}

	switch opts.Mode {
	case ModeSolid:
		return buildSolid(vp, sampler, opts), nil
	case ModeStrip:
		return buildStrip(vp, sampler, opts), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, opts.Mode)
}

// edges returns the two terrain-draped side points of sample i and the
// right vector used to place them.
func edges(vp *vertexpath.VertexPath, sampler HeightSampler, opts Options, i int) (a, b, right math.Vec3) {
	p := vp.Point(i)
	right = vp.Normal(i)
	half := right.Scale(abs(opts.Width) / 2)
	a = p.Sub(half)
	b = p.Add(half)
	a.Y = sampler.HeightAt(a.X, a.Z) + opts.OffsetY
	b.Y = sampler.HeightAt(b.X, b.Z) + opts.OffsetY
	return a, b, right
}

// seamEpsilon is the distance below which the last sample of a closed path
// counts as a repeat of the first.
const seamEpsilon = 1e-5

// quads returns how many sample pairs get connected. A closed path wraps back
// to sample 0 unless its last sample already sits on it.
func quads(vp *vertexpath.VertexPath) int {
	n := vp.PointsCount()
	if vp.IsClosed() && vp.LocalPoint(n-1).Distance(vp.LocalPoint(0)) > seamEpsilon {
		return n
	}
	return n - 1
}

func buildSolid(vp *vertexpath.VertexPath, sampler HeightSampler, opts Options) *Mesh {
	n := vp.PointsCount()
	total := uint32(n * solidStride)
	up := vp.WorldUp()
	down := up.Negate()

	m := &Mesh{
		Positions: make([]math.Vec3, 0, total),
		UVs:       make([]math.Vec2, 0, total),
		Normals:   make([]math.Vec3, 0, total),
	}
	q := quads(vp)
	top := make([]uint32, 0, q*6)
	under := make([]uint32, 0, q*6)
	sides := make([]uint32, 0, q*12)

	for i := range n {
		a, b, right := edges(vp, sampler, opts, i)
		drop := up.Scale(opts.Thickness)
		ab, bb := a.Sub(drop), b.Sub(drop)
		left := right.Negate()
		t := vp.Time(i)

		m.Positions = append(m.Positions, a, b, ab, bb, a, b, ab, bb)
		m.Normals = append(m.Normals, up, up, down, down, left, right, left, right)
		for range 4 {
			m.UVs = append(m.UVs, math.Vec2{X: 0, Y: t}, math.Vec2{X: 1, Y: t})
		}

		if i >= q {
			continue
		}
		base := uint32(i * solidStride)
		for j := range quadMap {
			top = append(top, (base+quadMap[j])%total)
			under = append(under, (base+quadMap[len(quadMap)-1-j]+2)%total)
		}
		for _, k := range sidesMap {
			sides = append(sides, (base+k)%total)
		}
	}

	m.Submeshes = []Submesh{
		{Name: SubmeshTop, Indices: top},
		{Name: SubmeshUnder, Indices: under},
		{Name: SubmeshSides, Indices: sides},
	}
	m.Bounds = math.BoundsOf(m.Positions...)
	return m
}

func buildStrip(vp *vertexpath.VertexPath, sampler HeightSampler, opts Options) *Mesh {
	n := vp.PointsCount()
	total := uint32(n * 2)
	up := vp.WorldUp()

	m := &Mesh{
		Positions: make([]math.Vec3, 0, total),
		UVs:       make([]math.Vec2, 0, total),
		Normals:   make([]math.Vec3, 0, total),
	}
	q := quads(vp)
	tris := make([]uint32, 0, q*6)

	for i := range n {
		a, b, _ := edges(vp, sampler, opts, i)
		t := vp.Time(i)
		m.Positions = append(m.Positions, a, b)
		m.Normals = append(m.Normals, up, up)
		m.UVs = append(m.UVs, math.Vec2{X: 0, Y: t}, math.Vec2{X: 1, Y: t})

		if i >= q {
			continue
		}
		base := uint32(i * 2)
		tris = append(tris,
			base, (base+2)%total, base+1,
			base+1, (base+2)%total, (base+3)%total,
		)
	}

	m.Submeshes = []Submesh{{Name: SubmeshTop, Indices: tris}}
	m.Bounds = math.BoundsOf(m.Positions...)
	return m
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
