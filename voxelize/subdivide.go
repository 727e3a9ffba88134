package voxelize

import "github.com/gmlewis/obj2voxel/geom"

// volumeLimit is the per-triangle voxel-bounding-box volume threshold
// above which a triangle is subdivided further.
const volumeLimit = 512

// sqrtThird is 1/sqrt(3), the length of each component of the unit
// diagonal vector (1,1,1)/sqrt(3).
const sqrtThird = 0.5773502691896257645091487805019574556476017512701268760186023264

var diagonal3 = geom.Vec3{sqrtThird, sqrtThird, sqrtThird}

// Subdivide recursively quarters a visual triangle whose voxel bounding
// box volume exceeds volumeLimit, unless the triangle is nearly
// axis-aligned. The returned slice reuses buf's backing array when
// possible; callers must treat buf as consumed.
func Subdivide(t geom.VisualTriangle, buf []geom.TexturedTriangle) []geom.TexturedTriangle {
	normal := absVec3(t.Normal())
	if normal.Len() > 0 {
		normal = normal.Normalize()
	}
	diagonality := normal.Dot(diagonal3)
	diagonality01 := (diagonality - sqrtThird) / (1 - sqrtThird)

	buf = buf[:0]
	buf = append(buf, t.TexturedTriangle)

	// Angle to the diagonal > 60 degrees: no subdivision needed.
	if diagonality01 < 0.5 {
		return buf
	}

	for i := 0; i < len(buf); {
		tri := buf[i]
		vmin := tri.VoxelMin()
		vmax := tri.VoxelMax()
		size := geom.Vec3u{vmax.X - vmin.X, vmax.Y - vmin.Y, vmax.Z - vmin.Z}
		volume := size.X * size.Y * size.Z

		if volume < volumeLimit {
			i++
			continue
		}

		parts := tri.Subdivide4()
		// The center piece replaces the current triangle in place; the
		// three corner pieces are appended so that a freshly subdivided
		// center piece can be subdivided again on a later pass without
		// advancing i.
		buf[i] = parts[0]
		buf = append(buf, parts[1], parts[2], parts[3])
	}

	return buf
}

func absVec3(v geom.Vec3) geom.Vec3 {
	return geom.Vec3{absF(v[0]), absF(v[1]), absF(v[2])}
}
