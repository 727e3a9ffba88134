package voxelize

import (
	"testing"

	"github.com/gmlewis/obj2voxel/geom"
)

func TestClipToVoxelEntirelyInsideOneCell(t *testing.T) {
	// A small triangle fully contained within the unit cube at (0,0,0).
	tri := geom.NewTexturedTriangle(
		[3]geom.Vec3{{0.2, 0.2, 0.5}, {0.8, 0.2, 0.5}, {0.2, 0.8, 0.5}},
		[3]geom.Vec2{{0, 0}, {1, 0}, {0, 1}},
	)
	parent := geom.VisualTriangle{TexturedTriangle: tri, Shading: geom.UntexturedShading(geom.Vec3{1, 0, 0})}

	var buf Buffers
	got := ClipToVoxel(parent, tri, geom.Vec3u{0, 0, 0}, &buf)

	if got.Weight == 0 {
		t.Fatal("expected non-zero weight for a triangle fully inside the cell")
	}
	if diff := got.Weight - tri.Area(); diff < -1e-4 || diff > 1e-4 {
		t.Errorf("weight = %v, want %v (unclipped area)", got.Weight, tri.Area())
	}
	if got.Value != (geom.Vec3{1, 0, 0}) {
		t.Errorf("color = %v, want {1 0 0}", got.Value)
	}
}

func TestClipToVoxelOutsideCellIsZero(t *testing.T) {
	tri := geom.NewTexturedTriangle(
		[3]geom.Vec3{{0.2, 0.2, 0.5}, {0.8, 0.2, 0.5}, {0.2, 0.8, 0.5}},
		[3]geom.Vec2{{0, 0}, {1, 0}, {0, 1}},
	)
	parent := geom.VisualTriangle{TexturedTriangle: tri, Shading: geom.MaterialLessShading()}

	var buf Buffers
	got := ClipToVoxel(parent, tri, geom.Vec3u{5, 5, 5}, &buf)
	if got.Weight != 0 {
		t.Errorf("weight = %v, want 0 for a cell the triangle doesn't touch", got.Weight)
	}
}

func TestClipToVoxelStraddlingCellsConserveArea(t *testing.T) {
	// A triangle spanning cells (0,0,0) and (1,0,0) along X.
	tri := geom.NewTexturedTriangle(
		[3]geom.Vec3{{0.5, 0.2, 0.5}, {1.5, 0.2, 0.5}, {0.5, 0.8, 0.5}},
		[3]geom.Vec2{{0, 0}, {1, 0}, {0, 1}},
	)
	parent := geom.VisualTriangle{TexturedTriangle: tri, Shading: geom.MaterialLessShading()}

	var buf Buffers
	var totalWeight float32
	for x := uint32(0); x < 2; x++ {
		got := ClipToVoxel(parent, tri, geom.Vec3u{x, 0, 0}, &buf)
		totalWeight += got.Weight
	}

	if diff := totalWeight - tri.Area(); diff < -1e-3 || diff > 1e-3 {
		t.Errorf("total clipped weight across straddled cells = %v, want %v", totalWeight, tri.Area())
	}
}

func TestClipToVoxelReusesBuffers(t *testing.T) {
	// Calling ClipToVoxel repeatedly with the same Buffers value must not
	// leak fragments from one call into the next.
	tri := geom.NewTexturedTriangle(
		[3]geom.Vec3{{0.2, 0.2, 0.5}, {0.8, 0.2, 0.5}, {0.2, 0.8, 0.5}},
		[3]geom.Vec2{{0, 0}, {1, 0}, {0, 1}},
	)
	parent := geom.VisualTriangle{TexturedTriangle: tri, Shading: geom.MaterialLessShading()}

	var buf Buffers
	first := ClipToVoxel(parent, tri, geom.Vec3u{0, 0, 0}, &buf)
	second := ClipToVoxel(parent, tri, geom.Vec3u{9, 9, 9}, &buf)

	if second.Weight != 0 {
		t.Errorf("second call (empty cell) weight = %v, want 0; got contamination from first call's fragments (first weight %v)", second.Weight, first.Weight)
	}
}
