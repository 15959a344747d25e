// Package bezier evaluates single cubic Bezier segments.
package bezier

import (
	"github.com/Faultbox/roadweaver/pkg/math"
)

// Segment is a read-only view of one cubic piece. P0 and P3 are anchors,
// P1 and P2 are control points.
type Segment struct {
	P0, P1, P2, P3 math.Vec3
}

// Evaluate returns the point on the cubic at t, with t clamped to [0, 1].
func Evaluate(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t = clamp01(t)
	// de Casteljau
	a := p0.Lerp(p1, t)
	b := p1.Lerp(p2, t)
	c := p2.Lerp(p3, t)
	d := a.Lerp(b, t)
	e := b.Lerp(c, t)
	return d.Lerp(e, t)
}

// Derivative returns the unnormalized tangent of the cubic at t.
func Derivative(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t = clamp01(t)
	rt := 1 - t
	return p1.Sub(p0).Scale(3 * rt * rt).
		Add(p2.Sub(p1).Scale(6 * rt * t)).
		Add(p3.Sub(p2).Scale(3 * t * t))
}

// EstimateLength returns chord + controlPolygon/2. It is only good enough to
// size a sampling budget; use ArcLength for a measurement.
func EstimateLength(p0, p1, p2, p3 math.Vec3) float32 {
	controlNet := p0.Distance(p1) + p1.Distance(p2) + p2.Distance(p3)
	return p0.Distance(p3) + controlNet/2
}

// Evaluate returns the point at t.
func (s Segment) Evaluate(t float32) math.Vec3 {
	return Evaluate(s.P0, s.P1, s.P2, s.P3, t)
}

// Derivative returns the unnormalized tangent at t.
func (s Segment) Derivative(t float32) math.Vec3 {
	return Derivative(s.P0, s.P1, s.P2, s.P3, t)
}

// Tangent returns the unit tangent at t, or zero for a degenerate segment.
func (s Segment) Tangent(t float32) math.Vec3 {
	return s.Derivative(t).Normalize()
}

// EstimateLength returns the cheap length bound of the segment.
func (s Segment) EstimateLength() float32 {
	return EstimateLength(s.P0, s.P1, s.P2, s.P3)
}

// Split subdivides the segment at t into two segments covering [0,t] and [t,1].
func (s Segment) Split(t float32) (Segment, Segment) {
	t = clamp01(t)
	a := s.P0.Lerp(s.P1, t)
	b := s.P1.Lerp(s.P2, t)
	c := s.P2.Lerp(s.P3, t)
	d := a.Lerp(b, t)
	e := b.Lerp(c, t)
	p := d.Lerp(e, t)
	return Segment{s.P0, a, d, p}, Segment{p, e, c, s.P3}
}

// ArcLength measures the segment by summing a uniform polyline of steps chords.
func (s Segment) ArcLength(steps int) float32 {
	if steps < 1 {
		steps = 1
	}
	var length float64
	prev := s.P0
	for i := 1; i <= steps; i++ {
		p := s.Evaluate(float32(i) / float32(steps))
		length += float64(prev.Distance(p))
		prev = p
	}
	return float32(length)
}

func clamp01(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
