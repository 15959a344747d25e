package math

// Transform places curve-local geometry in the world.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: Vec3{1, 1, 1}}
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() Mat4 {
	return TRS(t.Position, t.Rotation, t.Scale)
}

// LockedToGround returns a copy restricted to the ground plane: rotation keeps
// only its yaw, the position drops to zero height and the scale becomes uniform
// using the largest component.
func (t Transform) LockedToGround() Transform {
	s := max(t.Scale.X, t.Scale.Y, t.Scale.Z)
	if s == 0 {
		// zero value acts as identity
		s = 1
	}
	return Transform{
		Position: Vec3{t.Position.X, 0, t.Position.Z},
		Rotation: QuatFromYaw(t.Rotation.Yaw()),
		Scale:    Vec3{s, s, s},
	}
}

// TransformPoint converts a curve-local point to world space through the
// ground-locked transform.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return t.LockedToGround().Matrix().TransformPoint(p)
}

// TransformDirection converts a curve-local direction to world space through
// the ground-locked transform. The result is not renormalized.
func (t Transform) TransformDirection(d Vec3) Vec3 {
	return t.LockedToGround().Matrix().TransformDirection(d)
}

// InverseTransformPoint converts a world point back to curve-local space.
func (t Transform) InverseTransformPoint(p Vec3) Vec3 {
	return t.LockedToGround().Matrix().Inverse().TransformPoint(p)
}
