package voxelize

import "github.com/gmlewis/obj2voxel/geom"

// Worker voxelizes a stream of triangles into its own VoxelColorMap,
// reusing scratch buffers across calls so that no per-triangle allocation
// is needed in steady state.
type Worker struct {
	Strategy Strategy
	Map      *VoxelColorMap

	subdivideBuf []geom.TexturedTriangle
	clipBuf      Buffers
}

// NewWorker returns a Worker with an empty map, ready to accept triangles.
func NewWorker(strategy Strategy) *Worker {
	return &Worker{Strategy: strategy, Map: NewMap[geom.WeightedColor]()}
}

// Voxelize subdivides t as needed and folds its contribution into every
// voxel cell its resulting sub-triangles touch.
func (w *Worker) Voxelize(t geom.VisualTriangle) {
	if t.IsDegenerate() {
		return
	}

	pieces := Subdivide(t, w.subdivideBuf)
	w.subdivideBuf = pieces

	for _, piece := range pieces {
		vmin := piece.VoxelMin()
		vmax := piece.VoxelMax()
		for z := vmin.Z; z < vmax.Z; z++ {
			for y := vmin.Y; y < vmax.Y; y++ {
				for x := vmin.X; x < vmax.X; x++ {
					pos := geom.Vec3u{X: x, Y: y, Z: z}
					color := ClipToVoxel(t, piece, pos, &w.clipBuf)
					InsertColor(w.Map, pos, color, w.Strategy)
				}
			}
		}
	}
}

// Merge folds source's map into w's map and clears source's, implementing
// one step of a pairwise tournament merge across workers.
func (w *Worker) Merge(source *Worker) {
	Merge(w.Map, source.Map, w.Strategy)
}
