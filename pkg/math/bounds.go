package math

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min   Vec3
	Max   Vec3
	valid bool
}

// BoundsOf returns the bounds enclosing all points.
func BoundsOf(points ...Vec3) Bounds {
	var b Bounds
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns b grown to include p.
func (b Bounds) Extend(p Vec3) Bounds {
	if !b.valid {
		return Bounds{Min: p, Max: p, valid: true}
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
	return b
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return !b.valid
}

// Size returns the extent along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
