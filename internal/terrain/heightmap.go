package terrain

import (
	"errors"
	"fmt"
)

var ErrInvalidHeightmap = errors.New("invalid heightmap")

// NewHeightmap wraps a corner height grid indexed [x][z]. Every column must
// have the same length and the grid needs at least 2x2 corners.
func NewHeightmap(heights [][]float32, cellSize float32) (*Heightmap, error) {
	if len(heights) < 2 || len(heights[0]) < 2 {
		return nil, fmt.Errorf("%w: need at least 2x2 corners", ErrInvalidHeightmap)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidHeightmap, cellSize)
	}
	depth := len(heights[0])
	for x, col := range heights {
		if len(col) != depth {
			return nil, fmt.Errorf("%w: column %d has %d corners, want %d", ErrInvalidHeightmap, x, len(col), depth)
		}
	}
	return &Heightmap{
		Heights:  heights,
		CellsX:   len(heights) - 1,
		CellsZ:   depth - 1,
		CellSize: cellSize,
	}, nil
}

// Size returns the world extent along X and Z.
func (h *Heightmap) Size() (float32, float32) {
	return float32(h.CellsX) * h.CellSize, float32(h.CellsZ) * h.CellSize
}

// HeightAt returns the bilinearly interpolated height at a world position,
// or 0 outside the grid.
func (h *Heightmap) HeightAt(worldX, worldZ float32) float32 {
	if h == nil || h.CellSize <= 0 {
		return 0
	}
	fx := (worldX - h.Origin.X) / h.CellSize
	fz := (worldZ - h.Origin.Y) / h.CellSize
	if fx < 0 || fz < 0 || fx > float32(h.CellsX) || fz > float32(h.CellsZ) {
		return 0
	}

	cellX := min(int(fx), h.CellsX-1)
	cellZ := min(int(fz), h.CellsZ-1)
	fracX := clampf(fx-float32(cellX), 0, 1)
	fracZ := clampf(fz-float32(cellZ), 0, 1)

	// Corners: 00 near, 10 +X, 01 +Z, 11 far.
	h00 := h.Heights[cellX][cellZ]
	h10 := h.Heights[cellX+1][cellZ]
	h01 := h.Heights[cellX][cellZ+1]
	h11 := h.Heights[cellX+1][cellZ+1]

	near := h00*(1-fracX) + h10*fracX
	far := h01*(1-fracX) + h11*fracX
	return near*(1-fracZ) + far*fracZ
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
