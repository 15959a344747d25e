package spline

import "github.com/Faultbox/roadweaver/pkg/math"

// autoSetAnchor places both controls of an anchor along the bisector of the
// directions to its neighbours, each at factor times its own neighbour distance.
func (p *Path) autoSetAnchor(anchorIndex int) {
	anchor := p.points[anchorIndex]
	var dir math.Vec3
	var dist [2]float32

	if anchorIndex-3 >= 0 || p.closed {
		offset := p.points[p.LoopIndex(anchorIndex-3)].Sub(anchor)
		dir = dir.Add(offset.Normalize())
		dist[0] = offset.Length()
	}
	if anchorIndex+3 < len(p.points) || p.closed {
		offset := p.points[p.LoopIndex(anchorIndex+3)].Sub(anchor)
		dir = dir.Sub(offset.Normalize())
		dist[1] = -offset.Length()
	}
	dir = dir.Normalize()

	for i := range 2 {
		c := anchorIndex + i*2 - 1
		if p.inRange(c) {
			p.points[p.LoopIndex(c)] = anchor.Add(dir.Scale(dist[i] * p.autoFactor))
		}
	}
}

func (p *Path) autoSetAffected(anchorIndex int) {
	for i := anchorIndex - 3; i <= anchorIndex+3; i += 3 {
		if p.inRange(i) {
			p.autoSetAnchor(p.LoopIndex(i))
		}
	}
	p.autoSetStartAndEnd()
}

func (p *Path) autoSetAll() {
	for i := 0; i < len(p.points); i += 3 {
		p.autoSetAnchor(i)
	}
	p.autoSetStartAndEnd()
}

// autoSetStartAndEnd fixes the controls the bisector rule cannot handle: the
// free ends of an open path and both degenerate two-anchor layouts.
func (p *Path) autoSetStartAndEnd() {
	n := len(p.points)
	if p.closed {
		if p.AnchorCount() == 2 {
			p.setTwoAnchorLoopControls()
		}
		return
	}
	if p.AnchorCount() == 2 {
		p.points[1] = p.points[0].Lerp(p.points[3], 0.25)
		p.points[2] = p.points[3].Lerp(p.points[0], 0.25)
		return
	}
	p.points[1] = p.points[0].Add(p.points[2]).Scale(0.5)
	p.points[n-2] = p.points[n-1].Add(p.points[n-3]).Scale(0.5)
}

// setTwoAnchorLoopControls bends a two-anchor loop into an oval by pushing the
// controls sideways by half the anchor distance.
func (p *Path) setTwoAnchorLoopControls() {
	a, b := p.points[0], p.points[3]
	axis := b.Sub(a)
	perp := axis.Normalize().Cross(math.Up).Normalize()
	if perp == (math.Vec3{}) {
		perp = math.Right
	}
	half := perp.Scale(axis.Length() / 2)

	p.points[1] = a.Add(half)
	p.points[2] = b.Add(half)
	p.points[4] = b.Sub(half)
	p.points[5] = a.Sub(half)
}
