package spline

import (
	"fmt"
	"slices"

	"github.com/Faultbox/roadweaver/pkg/math"
)

// MovePoint sets point index to pos.
//
// Moving an anchor drags its controls by the same delta, or re-derives them
// when auto tangents are on. Moving a control mirrors the opposite control of
// the same anchor, keeping that control's distance, so the curve stays smooth
// through the anchor. Controls cannot be moved while auto tangents are on.
func (p *Path) MovePoint(index int, pos math.Vec3) error {
	if index < 0 || index >= len(p.points) {
		return fmt.Errorf("%w: %d of %d", ErrPointOutOfRange, index, len(p.points))
	}

	if IsAnchor(index) {
		delta := pos.Sub(p.points[index])
		p.points[index] = pos
		if p.autoTangent {
			p.autoSetAffected(index)
			return nil
		}
		for _, c := range [2]int{index - 1, index + 1} {
			if p.inRange(c) {
				c = p.LoopIndex(c)
				p.points[c] = p.points[c].Add(delta)
			}
		}
		return nil
	}

	if p.autoTangent {
		return ErrControlLocked
	}
	p.points[index] = pos

	opposite, anchor := index-2, index-1
	if IsAnchor(index + 1) {
		opposite, anchor = index+2, index+1
	}
	if !p.inRange(opposite) {
		return nil
	}
	opposite = p.LoopIndex(opposite)
	a := p.points[p.LoopIndex(anchor)]
	dist := a.Distance(p.points[opposite])
	dir := a.Sub(pos).Normalize()
	p.points[opposite] = a.Add(dir.Scale(dist))
	return nil
}

// AddSegment appends a segment ending at anchorPos. Closed paths cannot grow
// at the end; use SplitSegment instead.
func (p *Path) AddSegment(anchorPos math.Vec3) error {
	if p.closed {
		return fmt.Errorf("add segment: %w", ErrPathClosed)
	}
	last := len(p.points) - 1
	lastAnchor := p.points[last]
	mirror := lastAnchor.Scale(2).Sub(p.points[last-1])
	if !p.autoTangent {
		// Keep the handle from outgrowing the new segment.
		dist := lastAnchor.Distance(anchorPos)
		mirror = lastAnchor.Add(mirror.Sub(lastAnchor).Normalize().Scale(dist * 0.5))
	}
	control := mirror.Add(anchorPos).Scale(0.5)
	p.points = append(p.points, mirror, control, anchorPos)

	if p.autoTangent {
		p.autoSetAffected(len(p.points) - 1)
	}
	return nil
}

// SplitSegment inserts a new anchor at anchorPos inside segment segmentIndex.
func (p *Path) SplitSegment(anchorPos math.Vec3, segmentIndex int) error {
	if segmentIndex < 0 || segmentIndex >= p.SegmentsCount() {
		return fmt.Errorf("split: %w: %d of %d", ErrSegmentOutOfRange, segmentIndex, p.SegmentsCount())
	}
	p.points = slices.Insert(p.points, segmentIndex*3+2, math.Vec3{}, anchorPos, math.Vec3{})

	anchor := segmentIndex*3 + 3
	if p.autoTangent {
		p.autoSetAffected(anchor)
	} else {
		p.autoSetAnchor(anchor)
	}
	return nil
}

// RemoveSegment deletes the anchor at anchorIndex together with one of its
// segments. It does nothing when the path would drop below one segment (open)
// or two segments (closed).
func (p *Path) RemoveSegment(anchorIndex int) error {
	if anchorIndex < 0 || anchorIndex >= len(p.points) || !IsAnchor(anchorIndex) {
		return fmt.Errorf("remove segment: %w: %d", ErrNotAnchor, anchorIndex)
	}
	segments := p.SegmentsCount()
	if p.closed && segments <= 2 || !p.closed && segments <= 1 {
		return nil
	}

	switch {
	case anchorIndex == 0:
		if p.closed {
			// The wrap segment now ends at anchor 3; keep its incoming control.
			p.points[len(p.points)-1] = p.points[2]
		}
		p.points = slices.Delete(p.points, 0, 3)
	case anchorIndex == len(p.points)-1 && !p.closed:
		p.points = slices.Delete(p.points, anchorIndex-2, anchorIndex+1)
	default:
		p.points = slices.Delete(p.points, anchorIndex-1, anchorIndex+2)
	}

	if p.autoTangent {
		p.autoSetAll()
	}
	return nil
}

// ToggleClosed opens a closed path or closes an open one.
func (p *Path) ToggleClosed() {
	p.SetClosed(!p.closed)
}

// SetClosed adds or removes the wrap segment between the last and first anchors.
func (p *Path) SetClosed(closed bool) {
	if p.closed == closed {
		return
	}
	p.closed = closed

	if !closed {
		p.points = p.points[:len(p.points)-2]
		if p.autoTangent {
			p.autoSetStartAndEnd()
		}
		return
	}

	n := len(p.points)
	lastControl := p.points[n-1].Scale(2).Sub(p.points[n-2])
	firstControl := p.points[0].Scale(2).Sub(p.points[1])
	p.points = append(p.points, lastControl, firstControl)

	if p.autoTangent {
		p.autoSetAnchor(0)
		p.autoSetAnchor(len(p.points) - 3)
	}
	if p.AnchorCount() == 2 {
		// Mirrored controls of a two-anchor loop lie on the anchor axis.
		p.setTwoAnchorLoopControls()
	}
}

// SetAutoTangent switches automatic control placement on or off. Turning it
// on re-derives every control point.
func (p *Path) SetAutoTangent(on bool) {
	if p.autoTangent == on {
		return
	}
	p.autoTangent = on
	if on {
		p.autoSetAll()
	}
}

// SetAutoTangentFactor changes the derived control distance factor.
func (p *Path) SetAutoTangentFactor(f float32) {
	p.autoFactor = f
	if p.autoTangent {
		p.autoSetAll()
	}
}
