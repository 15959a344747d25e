// Package tessellate converts a Bezier path into a polyline whose vertices
// are placed where the curve bends.
package tessellate

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// ErrTooFewAnchors is returned when a path has no segment to sample.
var ErrTooFewAnchors = errors.New("path needs at least two anchors")

// Options controls the sampling density.
type Options struct {
	// MaxAngleError is the turning angle in degrees above which a sample is kept.
	MaxAngleError float32
	// Accuracy is the number of trial samples per unit of estimated length.
	Accuracy float32
	// MinVertexDist is the minimum travelled distance between kept samples.
	MinVertexDist float32
}

// DefaultMinVertexDist keeps kept samples apart on tight bends.
const DefaultMinVertexDist = 0.01

// DefaultOptions returns the standard sampling settings.
func DefaultOptions() Options {
	return Options{
		MaxAngleError: 0.3,
		Accuracy:      10,
		MinVertexDist: DefaultMinVertexDist,
	}
}

// SplitData is the raw polyline produced by Split.
type SplitData struct {
	Vertices         []math.Vec3
	Tangents         []math.Vec3
	CumulativeLength []float32
	// AnchorVertexMap holds, per anchor in path order, the index of the
	// vertex sampled at that anchor. Closed paths repeat anchor 0 at the end.
	AnchorVertexMap []int
	Bounds          math.Bounds
}

// Length returns the total polyline length.
func (d *SplitData) Length() float32 {
	if len(d.CumulativeLength) == 0 {
		return 0
	}
	return d.CumulativeLength[len(d.CumulativeLength)-1]
}

func (d *SplitData) add(p, tangent math.Vec3, length float32) {
	d.Vertices = append(d.Vertices, p)
	d.Tangents = append(d.Tangents, tangent.Normalize())
	d.CumulativeLength = append(d.CumulativeLength, length)
	d.Bounds = d.Bounds.Extend(p)
}

// Split walks every segment of path with a fixed trial step and keeps the
// samples where the curve turns by more than opts.MaxAngleError, measured
// against both the previous trial point and the last kept vertex. The end of
// every segment is always kept so that anchors appear in the output.
func Split(path *spline.Path, opts Options) (*SplitData, error) {
	if path == nil || path.AnchorCount() < 2 {
		return nil, ErrTooFewAnchors
	}
	if opts.Accuracy <= 0 {
		return nil, fmt.Errorf("tessellate: accuracy must be positive, got %v", opts.Accuracy)
	}

	segments := path.Segments()
	data := &SplitData{}
	start := segments[0]
	data.add(start.P0, start.Derivative(0), 0)
	data.AnchorVertexMap = append(data.AnchorVertexMap, 0)

	prev := start.P0
	lastAdded := start.P0
	var length, distSinceLast float32

	for _, seg := range segments {
		divisions := int(gomath.Ceil(float64(seg.EstimateLength() * opts.Accuracy)))
		divisions = max(divisions, 1)
		increment := 1 / float32(divisions)

		for k := 1; k <= divisions; k++ {
			t := float32(k) / float32(divisions)
			endOfSegment := k == divisions

			pt := seg.Evaluate(t)
			next := seg.Evaluate(t + increment)

			localAngle := 180 - math.MinAngle(prev, pt, next)
			fromLast := 180 - math.MinAngle(lastAdded, pt, next)
			angleErr := max(localAngle, fromLast)

			if (angleErr > opts.MaxAngleError && distSinceLast >= opts.MinVertexDist) || endOfSegment {
				length += lastAdded.Distance(pt)
				data.add(pt, seg.Derivative(t), length)
				distSinceLast = 0
				lastAdded = pt
			} else {
				distSinceLast += prev.Distance(pt)
			}
			prev = pt
		}
		data.AnchorVertexMap = append(data.AnchorVertexMap, len(data.Vertices)-1)
	}
	return data, nil
}
