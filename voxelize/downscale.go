package voxelize

import "github.com/gmlewis/obj2voxel/geom"

// Downscale combines a VoxelColorMap built at resolution R into a new map
// at resolution R/2 by folding each 2x2x2 block of source cells into the
// one cell they map to, under strategy. The source map is left untouched;
// callers that no longer need it may discard it.
func Downscale(src *VoxelColorMap, strategy Strategy) *VoxelColorMap {
	dst := NewMap[geom.WeightedColor]()
	src.Range(func(pos geom.Vec3u, color geom.WeightedColor) {
		InsertColor(dst, pos.Div2(), color, strategy)
	})
	return dst
}
