package voxelize

import "github.com/gmlewis/obj2voxel/geom"

// Map is a mapping from voxel cell position to a per-cell value. It is a
// named type rather than a bare Go map so that its cell operations live
// as methods; the destructive merge is the package function Merge.
type Map[T any] struct {
	cells map[geom.Vec3u]T
}

// NewMap returns an empty Map.
func NewMap[T any]() *Map[T] {
	return &Map[T]{cells: map[geom.Vec3u]T{}}
}

// Len returns the number of occupied cells.
func (m *Map[T]) Len() int {
	return len(m.cells)
}

// Get returns the value stored at pos and whether it was present.
func (m *Map[T]) Get(pos geom.Vec3u) (T, bool) {
	v, ok := m.cells[pos]
	return v, ok
}

// Set stores v at pos, overwriting any existing value.
func (m *Map[T]) Set(pos geom.Vec3u, v T) {
	m.cells[pos] = v
}

// Range calls fn once for every occupied cell. Iteration order is
// unspecified (Go map order); callers must not depend on it.
func (m *Map[T]) Range(fn func(pos geom.Vec3u, v T)) {
	for pos, v := range m.cells {
		fn(pos, v)
	}
}

// RangeWhile calls fn once for every occupied cell, in unspecified
// order, stopping early the first time fn returns false.
func (m *Map[T]) RangeWhile(fn func(pos geom.Vec3u, v T) bool) {
	for pos, v := range m.cells {
		if !fn(pos, v) {
			return
		}
	}
}

// Clear empties the map in place.
func (m *Map[T]) Clear() {
	clear(m.cells)
}

// VoxelColorMap is the concrete map type flowing through the pipeline.
type VoxelColorMap = Map[geom.WeightedColor]

// InsertColor folds color into the cell at pos under strategy, treating
// an absent cell as the combine identity: a first write into an empty
// cell simply stores the triangle fragment's weight and color.
// Zero-weight colors are discarded rather than inserted.
func InsertColor(m *VoxelColorMap, pos geom.Vec3u, color geom.WeightedColor, strategy Strategy) {
	if color.Weight == 0 {
		return
	}
	if existing, ok := m.Get(pos); ok {
		m.Set(pos, strategy.Combine(existing, color))
		return
	}
	m.Set(pos, color)
}

// Merge folds every cell of source into target under strategy, then
// clears source. Precondition: target and source must not be the same
// map.
func Merge(target, source *VoxelColorMap, strategy Strategy) {
	source.Range(func(pos geom.Vec3u, color geom.WeightedColor) {
		InsertColor(target, pos, color, strategy)
	})
	source.Clear()
}
