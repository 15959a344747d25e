// Package road ties an editable path to its sampled curve and mesh. Nothing
// is recomputed implicitly: edits mark the road stale and Rebuild regenerates
// both derived values in full.
package road

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roadweaver/internal/logger"
	"github.com/Faultbox/roadweaver/internal/ribbon"
	"github.com/Faultbox/roadweaver/internal/spline"
	"github.com/Faultbox/roadweaver/internal/tessellate"
	"github.com/Faultbox/roadweaver/internal/vertexpath"
	"github.com/Faultbox/roadweaver/pkg/math"
)

// ErrNotBuilt is returned by accessors before the first Rebuild.
var ErrNotBuilt = errors.New("road has not been built")

// Settings groups the sampling and mesh options.
type Settings struct {
	Tessellation tessellate.Options
	Ribbon       ribbon.Options
}

// DefaultSettings returns the default sampling and mesh options.
func DefaultSettings() Settings {
	return Settings{
		Tessellation: tessellate.DefaultOptions(),
		Ribbon:       ribbon.DefaultOptions(),
	}
}

// Road owns a path together with the values derived from it.
type Road struct {
	Name      string
	Path      *spline.Path
	Transform math.Transform
	Settings  Settings

	curve *vertexpath.VertexPath
	mesh  *ribbon.Mesh
	stale bool
}

// New returns a road over path with the identity transform.
func New(name string, path *spline.Path, settings Settings) *Road {
	return &Road{
		Name:      name,
		Path:      path,
		Transform: math.IdentityTransform(),
		Settings:  settings,
		stale:     true,
	}
}

// Stale reports whether the path or settings changed since the last Rebuild.
func (r *Road) Stale() bool { return r.stale || r.curve == nil }

// Invalidate marks the derived values as outdated after a direct change to
// Path, Transform or Settings.
func (r *Road) Invalidate() { r.stale = true }

// Curve returns the sampled curve of the last Rebuild.
func (r *Road) Curve() (*vertexpath.VertexPath, error) {
	if r.curve == nil {
		return nil, ErrNotBuilt
	}
	return r.curve, nil
}

// Mesh returns the mesh of the last Rebuild.
func (r *Road) Mesh() (*ribbon.Mesh, error) {
	if r.mesh == nil {
		return nil, ErrNotBuilt
	}
	return r.mesh, nil
}

// Rebuild samples the path and drapes a new mesh over sampler. On error the
// previous curve and mesh are kept.
func (r *Road) Rebuild(sampler ribbon.HeightSampler) error {
	log := logger.Named("road")
	start := time.Now()

	curve, err := vertexpath.New(r.Path, r.Transform, r.Settings.Tessellation)
	if err != nil {
		log.Warn("sampling failed", zap.String("road", r.Name), zap.Error(err))
		return err
	}
	mesh, err := ribbon.Build(curve, sampler, r.Settings.Ribbon)
	if err != nil {
		log.Warn("mesh build failed", zap.String("road", r.Name), zap.Error(err))
		return err
	}

	r.curve, r.mesh, r.stale = curve, mesh, false
	log.Debug("rebuilt",
		zap.String("road", r.Name),
		zap.Int("anchors", r.Path.AnchorCount()),
		zap.Int("samples", curve.PointsCount()),
		zap.Float32("length", curve.Length()),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Stringer("mode", r.Settings.Ribbon.Mode),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// MovePoint moves a control point or anchor.
func (r *Road) MovePoint(index int, pos math.Vec3) error {
	return r.edit(r.Path.MovePoint(index, pos))
}

// AddSegment appends an anchor at the end of an open path.
func (r *Road) AddSegment(anchor math.Vec3) error {
	return r.edit(r.Path.AddSegment(anchor))
}

// SplitSegment inserts an anchor into a segment.
func (r *Road) SplitSegment(anchor math.Vec3, segment int) error {
	return r.edit(r.Path.SplitSegment(anchor, segment))
}

// RemoveSegment removes an anchor. It reports whether the path changed;
// removals below the minimum segment count are ignored.
func (r *Road) RemoveSegment(anchorIndex int) (bool, error) {
	before := r.Path.PointsCount()
	if err := r.edit(r.Path.RemoveSegment(anchorIndex)); err != nil {
		return false, err
	}
	removed := r.Path.PointsCount() != before
	if !removed {
		logger.Named("road").Debug("remove ignored at minimum segment count",
			zap.String("road", r.Name), zap.Int("anchor", anchorIndex))
	}
	return removed, nil
}

// ToggleClosed opens or closes the path.
func (r *Road) ToggleClosed() {
	r.Path.ToggleClosed()
	r.stale = true
}

// SetAutoTangent switches automatic control placement.
func (r *Road) SetAutoTangent(on bool) {
	r.Path.SetAutoTangent(on)
	r.stale = true
}

func (r *Road) edit(err error) error {
	if err != nil {
		return err
	}
	r.stale = true
	return nil
}
