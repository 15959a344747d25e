// Package vertexpath holds an immutable, arc-length parameterized polyline
// sampled from a Bezier path, with queries in world space.
package vertexpath

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/internal/tessellate"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// VertexPath is a snapshot of a sampled path. Points are stored in path-local
// space and converted through the ground-locked transform on access. It does
// not follow later edits of the source path; rebuild it instead.
type VertexPath struct {
	closed    bool
	points    []math.Vec3
	tangents  []math.Vec3
	normals   []math.Vec3
	times     []float32
	cumLength []float32
	length    float32
	bounds    math.Bounds
	up        math.Vec3
	anchors   []int
	transform math.Transform
}

// TimeOnPath locates a position between two consecutive vertices.
type TimeOnPath struct {
	Prev int
	Next int
	// T is the fraction of the way from Prev to Next.
	T float32
}

// New samples path with opts and wraps the result.
func New(path *spline.Path, transform math.Transform, opts tessellate.Options) (*VertexPath, error) {
	data, err := tessellate.Split(path, opts)
	if err != nil {
		return nil, err
	}
	return FromSplit(data, path.IsClosed(), transform), nil
}

// FromSplit builds a VertexPath from already tessellated data.
func FromSplit(data *tessellate.SplitData, closed bool, transform math.Transform) *VertexPath {
	n := len(data.Vertices)
	vp := &VertexPath{
		closed:    closed,
		points:    append([]math.Vec3(nil), data.Vertices...),
		tangents:  append([]math.Vec3(nil), data.Tangents...),
		normals:   make([]math.Vec3, n),
		times:     make([]float32, n),
		cumLength: append([]float32(nil), data.CumulativeLength...),
		length:    data.Length(),
		bounds:    data.Bounds,
		anchors:   append([]int(nil), data.AnchorVertexMap...),
		transform: transform,
	}

	// A path drawn mostly along Y in the local frame gets -Z as up so the
	// normals stay defined. Ties go to +Y: a flat straight road has zero
	// extent in both Y and Z and must not get vertical normals.
	size := vp.bounds.Size()
	if size.Z >= size.Y {
		vp.up = math.Up
	} else {
		vp.up = math.Forward.Negate()
	}

	for i := range n {
		if vp.length > 0 {
			vp.times[i] = vp.cumLength[i] / vp.length
		}
		vp.normals[i] = vp.tangents[i].Cross(vp.up).Negate().Normalize()
	}
	return vp
}

// PointsCount returns the number of sampled vertices.
func (vp *VertexPath) PointsCount() int { return len(vp.points) }

// IsClosed reports whether the path loops.
func (vp *VertexPath) IsClosed() bool { return vp.closed }

// Length returns the total polyline length in path-local units.
func (vp *VertexPath) Length() float32 { return vp.length }

// Up returns the local up axis used for normals.
func (vp *VertexPath) Up() math.Vec3 { return vp.up }

// Bounds returns the local bounding box of the samples.
func (vp *VertexPath) Bounds() math.Bounds { return vp.bounds }

// WorldBounds returns the bounding box of the samples in world space.
func (vp *VertexPath) WorldBounds() math.Bounds {
	var b math.Bounds
	for i := range vp.points {
		b = b.Extend(vp.Point(i))
	}
	return b
}

// Transform returns the transform applied on access.
func (vp *VertexPath) Transform() math.Transform { return vp.transform }

// Time returns the normalized arc length of vertex i.
func (vp *VertexPath) Time(i int) float32 { return vp.times[i] }

// CumulativeLength returns the arc length from the start to vertex i.
func (vp *VertexPath) CumulativeLength(i int) float32 { return vp.cumLength[i] }

// AnchorVertex returns the vertex index sampled at the anchor with the given
// ordinal, or -1 when there is no such anchor.
func (vp *VertexPath) AnchorVertex(anchor int) int {
	if anchor < 0 || anchor >= len(vp.anchors) {
		return -1
	}
	return vp.anchors[anchor]
}

// Point returns vertex i in world space.
func (vp *VertexPath) Point(i int) math.Vec3 {
	return vp.transform.TransformPoint(vp.points[i])
}

// LocalPoint returns vertex i in path-local space.
func (vp *VertexPath) LocalPoint(i int) math.Vec3 {
	return vp.points[i]
}

// Tangent returns the unit tangent at vertex i in world space.
func (vp *VertexPath) Tangent(i int) math.Vec3 {
	return vp.transform.TransformDirection(vp.tangents[i]).Normalize()
}

// Normal returns the unit normal at vertex i in world space.
func (vp *VertexPath) Normal(i int) math.Vec3 {
	return vp.transform.TransformDirection(vp.normals[i]).Normalize()
}

// WorldUp returns the up axis in world space.
func (vp *VertexPath) WorldUp() math.Vec3 {
	return vp.transform.TransformDirection(vp.up).Normalize()
}

// ClosestPointOnPath finds the polyline edge nearest to the world point q.
// Only closed paths consider the edge from the last vertex back to the first.
func (vp *VertexPath) ClosestPointOnPath(q math.Vec3) TimeOnPath {
	n := len(vp.points)
	if n == 1 {
		return TimeOnPath{}
	}
	best := TimeOnPath{}
	var bestPoint math.Vec3
	minSqr := float32(gomath.MaxFloat32)

	for i := range n {
		next := i + 1
		if next >= n {
			if !vp.closed {
				break
			}
			next %= n
		}
		c := math.ClosestPointOnSegment(q, vp.Point(i), vp.Point(next))
		if d := q.Sub(c).SqrLength(); d < minSqr {
			minSqr = d
			bestPoint = c
			best.Prev, best.Next = i, next
		}
	}

	a, b := vp.Point(best.Prev), vp.Point(best.Next)
	if edge := a.Distance(b); edge > 0 {
		best.T = bestPoint.Distance(a) / edge
	}
	return best
}

// ClosestPoint returns the point on the polyline nearest to the world point q.
func (vp *VertexPath) ClosestPoint(q math.Vec3) math.Vec3 {
	t := vp.ClosestPointOnPath(q)
	return vp.Point(t.Prev).Lerp(vp.Point(t.Next), t.T)
}

// TimeOnPathAt locates the normalized time t in [0,1]. Closed paths wrap t,
// open paths clamp it.
func (vp *VertexPath) TimeOnPathAt(t float32) TimeOnPath {
	if vp.closed {
		t -= float32(gomath.Floor(float64(t)))
	} else {
		t = min(max(t, 0), 1)
	}

	// First vertex with a time at or after t.
	lo := sort.Search(len(vp.times), func(i int) bool { return vp.times[i] >= t })
	lo = min(lo, len(vp.times)-1)
	if lo == 0 {
		return TimeOnPath{Prev: 0, Next: min(1, len(vp.times)-1)}
	}
	prev := lo - 1
	span := vp.times[lo] - vp.times[prev]
	var frac float32
	if span > 0 {
		frac = (t - vp.times[prev]) / span
	}
	return TimeOnPath{Prev: prev, Next: lo, T: frac}
}

// PointAtTime returns the world point at normalized arc length t.
func (vp *VertexPath) PointAtTime(t float32) math.Vec3 {
	at := vp.TimeOnPathAt(t)
	return vp.Point(at.Prev).Lerp(vp.Point(at.Next), at.T)
}

// PointAtDistance returns the world point d path-local units from the start.
func (vp *VertexPath) PointAtDistance(d float32) math.Vec3 {
	if vp.length == 0 {
		return vp.Point(0)
	}
	return vp.PointAtTime(d / vp.length)
}

// TangentAtTime returns the interpolated world tangent at normalized arc length t.
func (vp *VertexPath) TangentAtTime(t float32) math.Vec3 {
	at := vp.TimeOnPathAt(t)
	return vp.Tangent(at.Prev).Lerp(vp.Tangent(at.Next), at.T).Normalize()
}
