package voxelize

import (
	"testing"

	"github.com/gmlewis/obj2voxel/geom"
)

func unitCubeTriangles() []geom.VisualTriangle {
	// Two triangles forming the bottom face (z=0) of a cube spanning
	// [0,4]^3 in voxel space, flush with voxel boundaries.
	shading := geom.UntexturedShading(geom.Vec3{1, 0, 0})
	a := geom.NewTexturedTriangle([3]geom.Vec3{{0, 0, 0}, {4, 0, 0}, {4, 4, 0}}, [3]geom.Vec2{})
	b := geom.NewTexturedTriangle([3]geom.Vec3{{0, 0, 0}, {4, 4, 0}, {0, 4, 0}}, [3]geom.Vec2{})
	return []geom.VisualTriangle{
		{TexturedTriangle: a, Shading: shading},
		{TexturedTriangle: b, Shading: shading},
	}
}

func TestWorkerVoxelizeProducesCells(t *testing.T) {
	w := NewWorker(Blend)
	for _, tri := range unitCubeTriangles() {
		w.Voxelize(tri)
	}

	if w.Map.Len() == 0 {
		t.Fatal("Voxelize produced no occupied cells")
	}
}

func TestWorkerVoxelizeSkipsDegenerateTriangles(t *testing.T) {
	w := NewWorker(Blend)
	degenerate := geom.VisualTriangle{
		TexturedTriangle: geom.NewTexturedTriangle([3]geom.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, [3]geom.Vec2{}),
		Shading:          geom.MaterialLessShading(),
	}
	w.Voxelize(degenerate)

	if w.Map.Len() != 0 {
		t.Errorf("Len() after voxelizing a degenerate triangle = %d, want 0", w.Map.Len())
	}
}

func TestWorkerMergeIsOrderIndependent(t *testing.T) {
	tris := unitCubeTriangles()

	// Voxelize both triangles in one worker.
	single := NewWorker(Blend)
	for _, tri := range tris {
		single.Voxelize(tri)
	}

	// Voxelize one triangle per worker, then merge.
	w1 := NewWorker(Blend)
	w1.Voxelize(tris[0])
	w2 := NewWorker(Blend)
	w2.Voxelize(tris[1])
	w1.Merge(w2)

	if w1.Map.Len() != single.Map.Len() {
		t.Fatalf("merged map has %d cells, single-worker map has %d", w1.Map.Len(), single.Map.Len())
	}
	if w2.Map.Len() != 0 {
		t.Errorf("source worker's map after Merge has %d cells, want 0", w2.Map.Len())
	}

	var mismatches int
	single.Map.Range(func(pos geom.Vec3u, want geom.WeightedColor) {
		got, ok := w1.Map.Get(pos)
		if !ok {
			mismatches++
			return
		}
		if diff := got.Weight - want.Weight; diff < -1e-3 || diff > 1e-3 {
			mismatches++
		}
	})
	if mismatches != 0 {
		t.Errorf("%d cells differ in weight between single-worker and merged maps", mismatches)
	}
}
