// Package spline holds an editable piecewise cubic Bezier path.
//
// Points are stored flat: every index divisible by 3 is an anchor the curve
// passes through, and the two indices around it are its control points. An
// open path with n segments has 3n+1 points, a closed one has 3n; the closing
// segment wraps from the last anchor back to point 0.
package spline

import (
	"errors"
	"fmt"

	"github.com/Faultbox/roadweaver/internal/bezier"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// DefaultAutoTangentFactor scales derived control distances relative to the
// distance to the neighbouring anchor.
const DefaultAutoTangentFactor = 0.3

var (
	ErrPointOutOfRange   = errors.New("point index out of range")
	ErrSegmentOutOfRange = errors.New("segment index out of range")
	ErrNotAnchor         = errors.New("index is not an anchor")
	ErrControlLocked     = errors.New("control points are derived automatically")
	ErrPathClosed        = errors.New("path is closed")
	ErrInvalidPointCount = errors.New("invalid control point count")
	ErrInvalidPoint      = errors.New("control point is not a number")
)

// Path is a Bezier spline owned by a single editor. It is not safe for
// concurrent use.
type Path struct {
	points      []math.Vec3
	closed      bool
	autoTangent bool
	autoFactor  float32
}

// New returns the default open path of one segment centred on center.
func New(center math.Vec3) *Path {
	return &Path{
		points: []math.Vec3{
			center.Add(math.Vec3{X: -1, Y: 0, Z: 0}),
			center.Add(math.Vec3{X: -0.5, Y: 0, Z: 0.5}),
			center.Add(math.Vec3{X: 0.5, Y: 0, Z: -0.5}),
			center.Add(math.Vec3{X: 1, Y: 0, Z: 0}),
		},
		autoFactor: DefaultAutoTangentFactor,
	}
}

// FromPoints restores a path from persisted control points.
func FromPoints(points []math.Vec3, closed bool) (*Path, error) {
	n := len(points)
	switch {
	case closed && (n < 6 || n%3 != 0):
		return nil, fmt.Errorf("%w: closed path with %d points", ErrInvalidPointCount, n)
	case !closed && (n < 4 || n%3 != 1):
		return nil, fmt.Errorf("%w: open path with %d points", ErrInvalidPointCount, n)
	}
	for i, pt := range points {
		if pt.IsNaN() {
			return nil, fmt.Errorf("%w: point %d", ErrInvalidPoint, i)
		}
	}
	return &Path{
		points:     append([]math.Vec3(nil), points...),
		closed:     closed,
		autoFactor: DefaultAutoTangentFactor,
	}, nil
}

// Clone returns an independent copy.
func (p *Path) Clone() *Path {
	c := *p
	c.points = append([]math.Vec3(nil), p.points...)
	return &c
}

// Point returns the control point at index i. It panics if i is out of range.
func (p *Path) Point(i int) math.Vec3 {
	return p.points[i]
}

// Points returns a copy of all control points.
func (p *Path) Points() []math.Vec3 {
	return append([]math.Vec3(nil), p.points...)
}

// Anchors returns a copy of the anchor positions in order.
func (p *Path) Anchors() []math.Vec3 {
	anchors := make([]math.Vec3, 0, p.AnchorCount())
	for i := 0; i < len(p.points); i += 3 {
		anchors = append(anchors, p.points[i])
	}
	return anchors
}

// PointsCount returns the number of stored points.
func (p *Path) PointsCount() int {
	return len(p.points)
}

// SegmentsCount returns the number of cubic segments.
func (p *Path) SegmentsCount() int {
	return len(p.points) / 3
}

// AnchorCount returns the number of anchors.
func (p *Path) AnchorCount() int {
	if p.closed {
		return len(p.points) / 3
	}
	return (len(p.points) + 2) / 3
}

// IsAnchor reports whether index i addresses an anchor.
func IsAnchor(i int) bool {
	return i%3 == 0
}

// IsClosed reports whether the path loops back to its first anchor.
func (p *Path) IsClosed() bool {
	return p.closed
}

// AutoTangent reports whether control points are derived from the anchors.
func (p *Path) AutoTangent() bool {
	return p.autoTangent
}

// AutoTangentFactor returns the control distance factor used by auto tangents.
func (p *Path) AutoTangentFactor() float32 {
	return p.autoFactor
}

// LoopIndex wraps i into [0, PointsCount).
func (p *Path) LoopIndex(i int) int {
	n := len(p.points)
	return ((i % n) + n) % n
}

// Segment returns the four points of segment i.
func (p *Path) Segment(i int) (bezier.Segment, error) {
	if i < 0 || i >= p.SegmentsCount() {
		return bezier.Segment{}, fmt.Errorf("%w: %d of %d", ErrSegmentOutOfRange, i, p.SegmentsCount())
	}
	base := i * 3
	return bezier.Segment{
		P0: p.points[base],
		P1: p.points[base+1],
		P2: p.points[base+2],
		P3: p.points[p.LoopIndex(base+3)],
	}, nil
}

// Segments returns every segment in path order.
func (p *Path) Segments() []bezier.Segment {
	segs := make([]bezier.Segment, p.SegmentsCount())
	for i := range segs {
		segs[i], _ = p.Segment(i)
	}
	return segs
}

// inRange reports whether neighbour index i exists, either directly or by
// wrapping around a closed path.
func (p *Path) inRange(i int) bool {
	return p.closed || (i >= 0 && i < len(p.points))
}
