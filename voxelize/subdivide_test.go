package voxelize

import (
	"testing"

	"github.com/gmlewis/obj2voxel/geom"
)

func visualTri(v [3]geom.Vec3) geom.VisualTriangle {
	return geom.VisualTriangle{
		TexturedTriangle: geom.NewTexturedTriangle(v, [3]geom.Vec2{}),
		Shading:          geom.MaterialLessShading(),
	}
}

func TestSubdivideSkipsAxisAlignedTriangle(t *testing.T) {
	// A large, axis-aligned (normal parallel to Z) triangle: more than
	// volumeLimit voxels in footprint, but its normal is 60+ degrees from
	// the diagonal, so it must not be subdivided.
	tri := visualTri([3]geom.Vec3{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}})

	got := Subdivide(tri, nil)
	if len(got) != 1 {
		t.Fatalf("axis-aligned triangle: got %d pieces, want 1 (no subdivision)", len(got))
	}
}

func TestSubdivideSkipsSmallTriangle(t *testing.T) {
	// Small enough footprint that even a diagonal-facing triangle doesn't
	// need subdividing.
	tri := visualTri([3]geom.Vec3{{0, 0, 0}, {1, 0, 1}, {0, 1, 1}})
	got := Subdivide(tri, nil)
	if len(got) != 1 {
		t.Fatalf("small triangle: got %d pieces, want 1", len(got))
	}
}

func TestSubdivideSplitsLargeDiagonalTriangle(t *testing.T) {
	// A large triangle whose normal runs close to the (1,1,1) diagonal:
	// its voxel bounding box volume exceeds volumeLimit, so it must be
	// subdivided into more than one piece.
	tri := visualTri([3]geom.Vec3{{0, 0, 0}, {20, 20, 0}, {0, 20, 20}})

	got := Subdivide(tri, nil)
	if len(got) <= 1 {
		t.Fatalf("large diagonal triangle: got %d pieces, want > 1", len(got))
	}

	// Every piece's bounding-box volume must fall under the threshold,
	// since the worklist loop only stops once every entry is small enough.
	for i, piece := range got {
		vmin, vmax := piece.VoxelMin(), piece.VoxelMax()
		size := geom.Vec3u{X: vmax.X - vmin.X, Y: vmax.Y - vmin.Y, Z: vmax.Z - vmin.Z}
		volume := size.X * size.Y * size.Z
		if volume >= volumeLimit {
			t.Errorf("piece %d volume = %d, want < %d", i, volume, volumeLimit)
		}
	}
}

func TestSubdivideConservesArea(t *testing.T) {
	tri := visualTri([3]geom.Vec3{{0, 0, 0}, {20, 20, 0}, {0, 20, 20}})
	want := tri.Area()

	got := Subdivide(tri, nil)
	var sum float32
	for _, p := range got {
		sum += p.Area()
	}
	if diff := sum - want; diff < -1e-1 || diff > 1e-1 {
		t.Errorf("sum of subdivided areas = %v, want %v", sum, want)
	}
}
