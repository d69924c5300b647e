package render

import (
	"github.com/chewxy/math32"
)

// weldGrid buckets unique vertices by the cell their first (up to three)
// components fall in.
type weldGrid struct {
	cellSize float32
	dims     int
	cells    map[uint64][]uint32
}

func newWeldGrid(cellSize float32, dims int) *weldGrid {
	return &weldGrid{
		cellSize: cellSize,
		dims:     min(dims, 3),
		cells:    make(map[uint64][]uint32),
	}
}

func (grid *weldGrid) cellIndex(v []float32) [3]int {
	var c [3]int
	for i := 0; i < grid.dims; i++ {
		c[i] = int(math32.Floor(v[i] / grid.cellSize))
	}
	return c
}

func (grid *weldGrid) hashKey(x, y, z int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}

func (grid *weldGrid) insert(v []float32, id uint32) {
	c := grid.cellIndex(v)
	key := grid.hashKey(c[0], c[1], c[2])
	grid.cells[key] = append(grid.cells[key], id)
}

// nearest returns the lowest unique index within tolerance of v.
func (grid *weldGrid) nearest(v, unique []float32, size int, tolerance float32) (uint32, bool) {
	c := grid.cellIndex(v)
	var span [3]int
	for i := 0; i < grid.dims; i++ {
		span[i] = 1
	}
	best, found := uint32(0), false
	for dx := -span[0]; dx <= span[0]; dx++ {
		for dy := -span[1]; dy <= span[1]; dy++ {
			for dz := -span[2]; dz <= span[2]; dz++ {
				for _, id := range grid.cells[grid.hashKey(c[0]+dx, c[1]+dy, c[2]+dz)] {
					if found && id >= best {
						continue
					}
					if withinTolerance(v, unique[int(id)*size:int(id+1)*size], tolerance) {
						best, found = id, true
					}
				}
			}
		}
	}
	return best, found
}

func withinTolerance(a, b []float32, tolerance float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

// WeldVertices converts a non-indexed attribute of the given component size
// into unique vertex data plus an index. Two vertices are the same when every
// component differs by at most tolerance; each vertex maps to the earliest
// unique vertex it matches, so the result equals a first-match linear scan.
func WeldVertices(data []float32, size int, tolerance float32) ([]float32, []uint32) {
	if size <= 0 || len(data) < size {
		return nil, nil
	}
	count := len(data) / size
	unique := make([]float32, 0, len(data))
	index := make([]uint32, 0, count)

	// Matches are at most half a cell apart, so the neighbouring cells
	// always contain them even after rounding in the division.
	cell := tolerance * 2
	if cell <= 0 {
		cell = 1
	}
	grid := newWeldGrid(cell, size)

	var next uint32
	for i := 0; i < count; i++ {
		v := data[i*size : (i+1)*size]
		if id, ok := grid.nearest(v, unique, size, tolerance); ok {
			index = append(index, id)
			continue
		}
		unique = append(unique, v...)
		grid.insert(v, next)
		index = append(index, next)
		next++
	}
	return unique, index
}
