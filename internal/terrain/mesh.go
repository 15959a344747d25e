package terrain

import "github.com/Faultbox/roadweaver/pkg/math"

// BuildMesh triangulates the heightmap, two triangles per cell, wound
// counter-clockwise seen from above.
func BuildMesh(h *Heightmap) *Mesh {
	cornersZ := h.CellsZ + 1
	m := &Mesh{
		Vertices: make([]Vertex, 0, (h.CellsX+1)*cornersZ),
		Indices:  make([]uint32, 0, h.CellsX*h.CellsZ*6),
	}

	for x := 0; x <= h.CellsX; x++ {
		for z := 0; z <= h.CellsZ; z++ {
			pos := h.corner(x, z)
			m.Vertices = append(m.Vertices, Vertex{Position: pos, Normal: h.cornerNormal(x, z)})
			m.Bounds = m.Bounds.Extend(pos)
		}
	}

	index := func(x, z int) uint32 { return uint32(x*cornersZ + z) }
	for x := range h.CellsX {
		for z := range h.CellsZ {
			a, b := index(x, z), index(x+1, z)
			c, d := index(x, z+1), index(x+1, z+1)
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	return m
}

func (h *Heightmap) corner(x, z int) math.Vec3 {
	step := math.Vec2{X: float32(x), Y: float32(z)}.Scale(h.CellSize)
	return h.Origin.Add(step).XZ(h.Heights[x][z])
}

// cornerNormal uses central differences, one-sided at the border.
func (h *Heightmap) cornerNormal(x, z int) math.Vec3 {
	x0, x1 := max(x-1, 0), min(x+1, h.CellsX)
	z0, z1 := max(z-1, 0), min(z+1, h.CellsZ)
	dx := h.corner(x1, z).Sub(h.corner(x0, z))
	dz := h.corner(x, z1).Sub(h.corner(x, z0))
	return dz.Cross(dx).Normalize()
}
