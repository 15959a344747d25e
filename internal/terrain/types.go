// Package terrain provides height sources the road builder drapes onto.
package terrain

import "github.com/Faultbox/roadweaver/pkg/math"

// Flat is a terrain of constant height. Flat(0) stands for "no terrain".
type Flat float32

// HeightAt returns the constant height.
func (f Flat) HeightAt(x, z float32) float32 { return float32(f) }

// Heightmap is a regular grid of heights sampled at cell corners.
type Heightmap struct {
	Heights  [][]float32 // [x][z] corner heights
	CellsX   int         // number of cells along X (corners - 1)
	CellsZ   int         // number of cells along Z (corners - 1)
	CellSize float32     // edge length of a cell in world units
	Origin   math.Vec2   // world XZ of corner [0][0]
}

// Vertex is a terrain mesh vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// Mesh is a triangulated heightmap.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   math.Bounds
}
