package voxelize

import "github.com/gmlewis/obj2voxel/geom"

// distanceLimit bounds the plane-distance cull of ClipToVoxel: the
// distance from a unit cube's center to its corners, sqrt(3)/2, with
// generous headroom for floating-point imprecision.
const distanceLimit = 2

// Buffers holds the two triangle scratch buffers the six-plane clip
// ping-pongs between. Callers reuse one Buffers value across many calls
// to ClipToVoxel to avoid per-voxel allocation.
type Buffers struct {
	a, b []geom.TexturedTriangle
}

// ClipToVoxel clips sub-triangle t to the unit voxel cube at integer
// position pos via six successive axis-plane cuts, and returns the
// area-weighted color contribution sampled from parent.
//
// parent supplies ColorAt; t supplies the geometry being clipped (t is
// usually, but need not be, parent.TexturedTriangle after subdivision).
func ClipToVoxel(parent geom.VisualTriangle, t geom.TexturedTriangle, pos geom.Vec3u, buf *Buffers) geom.WeightedColor {
	// Step 1: plane-distance cull. If the voxel center can't possibly be
	// within distanceLimit of the fragment's own plane, it cannot
	// intersect the cube.
	normal := t.Normal()
	if normal.LenSqr() > 0 {
		unit := normal.Normalize()
		center := geom.Vec3{float32(pos.X) + 0.5, float32(pos.Y) + 0.5, float32(pos.Z) + 0.5}
		dist := unit.Dot(center.Sub(t.V[0]))
		if dist < 0 {
			dist = -dist
		}
		if dist > distanceLimit {
			return geom.WeightedColor{}
		}
	}

	buf.a = buf.a[:0]
	buf.b = buf.b[:0]
	buf.a = append(buf.a, t)

	for _, hi := range [2]bool{false, true} {
		mode := DiscardLo
		if hi {
			mode = DiscardHi
		}
		for axis := 0; axis < 3; axis++ {
			plane := int(voxelComponent(pos, axis))
			if hi {
				plane++
			}

			for _, tri := range buf.a {
				// A fragment lying exactly in the cell's lower boundary
				// plane belongs to this cell; Split routes an all-planar
				// triangle to lo, which the DiscardLo pass would drop.
				planeF := float32(plane)
				if !hi && isZero(tri.V[0][axis]-planeF) && isZero(tri.V[1][axis]-planeF) && isZero(tri.V[2][axis]-planeF) {
					buf.b = append(buf.b, tri)
					continue
				}
				Split(axis, plane, tri, &buf.b, &buf.b, mode)
			}
			buf.a = buf.a[:0]

			if len(buf.b) == 0 {
				return geom.WeightedColor{}
			}
			buf.a, buf.b = buf.b, buf.a
		}
	}

	// buf.b is empty (cleared before the last swap); buf.a holds the
	// surviving fragments.
	var result geom.WeightedColor
	for _, fragment := range buf.a {
		color := parent.ColorAt(fragment.CentroidUV())
		weight := fragment.Area()
		result = result.Blend(geom.WeightedColor{Weight: weight, Value: color})
	}
	buf.a = buf.a[:0]

	return result
}

func voxelComponent(pos geom.Vec3u, axis int) uint32 {
	switch axis {
	case 0:
		return pos.X
	case 1:
		return pos.Y
	default:
		return pos.Z
	}
}
