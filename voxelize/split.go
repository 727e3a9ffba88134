// Package voxelize implements the geometric core of the voxelization
// pipeline: plane-splitting, adaptive subdivision, per-voxel clipping,
// color combination, the per-worker voxelizer, and resolution downscaling.
package voxelize

import "github.com/gmlewis/obj2voxel/geom"

// epsilon is the planarity tolerance used by the splitter.
const epsilon = 1.0 / (1 << 16)

// DiscardMode controls which side of a split a triangle is routed to by
// Split.
type DiscardMode int

const (
	// DiscardNone emits to both lo and hi as appropriate.
	DiscardNone DiscardMode = iota
	// DiscardLo suppresses emission to lo.
	DiscardLo
	// DiscardHi suppresses emission to hi.
	DiscardHi
)

func isZero(x float32) bool {
	return absF(x) < epsilon
}

func absF(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// intersectAxisPlane returns the ray parameter t at which org+t*dir
// crosses the axis-aligned plane axis=plane. If the ray is parallel to the
// plane (|dir[axis]| < epsilon) it returns 0: such a "split" degenerates
// harmlessly, since the triangle was already routed as all-lo/all-hi/planar
// before an intersection is ever computed on a parallel edge.
func intersectAxisPlane(org, dir geom.Vec3, axis int, plane int) float32 {
	d := -dir[axis]
	if isZero(d) {
		return 0
	}
	return (org[axis] - float32(plane)) / d
}

// Split cuts t by the axis-aligned plane `axis = plane` into at most three
// sub-triangles, appending lo-side pieces to *lo and hi-side pieces to
// *hi. mode suppresses emission to one side (the split computation still
// happens; only the emission is skipped).
//
// The (planarCount, loCount) case table, including the accepted
// two-planar-vertices simplification below, is preserved verbatim from
// the reference implementation.
func Split(axis int, plane int, t geom.TexturedTriangle, lo, hi *[]geom.TexturedTriangle, mode DiscardMode) {
	emit := func(tri geom.TexturedTriangle, isLo bool) {
		switch mode {
		case DiscardLo:
			if !isLo {
				*hi = append(*hi, tri)
			}
		case DiscardHi:
			if isLo {
				*lo = append(*lo, tri)
			}
		default:
			if isLo {
				*lo = append(*lo, tri)
			} else {
				*hi = append(*hi, tri)
			}
		}
	}

	planeF := float32(plane)
	var planar [3]bool
	var loSide [3]bool
	planarSum := 0
	loSum := 0
	for i := 0; i < 3; i++ {
		planar[i] = isZero(t.V[i][axis] - planeF)
		if planar[i] {
			planarSum++
		}
		loSide[i] = t.V[i][axis] <= planeF
		if loSide[i] {
			loSum++
		}
	}

	// All vertices planar: triangle is parallel to the splitting plane.
	if planarSum == 3 {
		emit(t, true)
		return
	}

	// All vertices on the hi side.
	if loSum == 0 {
		emit(t, false)
		return
	}
	// All vertices on the lo side.
	if loSum == 3 {
		emit(t, true)
		return
	}

	// Two vertices planar: the triangle can't meaningfully be split by
	// this plane (it has zero thickness across it). Route the whole
	// triangle by the side of the single non-planar vertex, rather than
	// splitting a triangle that has zero thickness across the plane.
	if planarSum == 2 {
		nonPlanar := 0
		switch {
		case !planar[0]:
			nonPlanar = 0
		case !planar[1]:
			nonPlanar = 1
		default:
			nonPlanar = 2
		}
		emit(t, loSide[nonPlanar])
		return
	}

	// One vertex planar.
	if planarSum == 1 {
		planarIdx := 0
		switch {
		case planar[0]:
			planarIdx = 0
		case planar[1]:
			planarIdx = 1
		default:
			planarIdx = 2
		}
		other := [2]int{(planarIdx + 1) % 3, (planarIdx + 2) % 3}

		nonPlanarLoSum := 0
		if loSide[other[0]] {
			nonPlanarLoSum++
		}
		if loSide[other[1]] {
			nonPlanarLoSum++
		}

		// Both non-planar vertices on the same side: no split needed.
		if nonPlanarLoSum != 1 {
			emit(t, nonPlanarLoSum == 2)
			return
		}

		// The plane passes through exactly one vertex: split the
		// opposing edge once, producing two triangles instead of a
		// triangle and a quad.
		planarVertex := t.V[planarIdx]
		planarUV := t.T[planarIdx]
		v0, v1 := t.V[other[0]], t.V[other[1]]
		uv0, uv1 := t.T[other[0]], t.T[other[1]]
		edge := v1.Sub(v0)

		param := intersectAxisPlane(v0, edge, axis, plane)
		geoIsect := geom.MixVec3(v0, v1, param)
		uvIsect := geom.MixVec2(uv0, uv1, param)

		tri0 := geom.NewTexturedTriangle([3]geom.Vec3{planarVertex, v0, geoIsect}, [3]geom.Vec2{planarUV, uv0, uvIsect})
		tri1 := geom.NewTexturedTriangle([3]geom.Vec3{planarVertex, geoIsect, v1}, [3]geom.Vec2{planarUV, uvIsect, uv1})

		firstIsLo := loSide[other[0]]
		emit(tri0, firstIsLo)
		emit(tri1, !firstIsLo)
		return
	}

	// No vertex planar: the triangle is properly intersected by the
	// plane, producing one isolated triangle and a quad (emitted as two
	// triangles) on the other side.
	isolatedIsLo := loSum == 1
	isolated := 0
	if isolatedIsLo {
		switch {
		case loSide[0]:
			isolated = 0
		case loSide[1]:
			isolated = 1
		default:
			isolated = 2
		}
	} else {
		switch {
		case !loSide[0]:
			isolated = 0
		case !loSide[1]:
			isolated = 1
		default:
			isolated = 2
		}
	}
	other := [2]int{(isolated + 1) % 3, (isolated + 2) % 3}

	isolatedVertex := t.V[isolated]
	isolatedUV := t.T[isolated]
	otherV := [2]geom.Vec3{t.V[other[0]], t.V[other[1]]}
	otherUV := [2]geom.Vec2{t.T[other[0]], t.T[other[1]]}
	edges := [2]geom.Vec3{otherV[0].Sub(isolatedVertex), otherV[1].Sub(isolatedVertex)}

	params := [2]float32{
		intersectAxisPlane(isolatedVertex, edges[0], axis, plane),
		intersectAxisPlane(isolatedVertex, edges[1], axis, plane),
	}
	geoIsect := [2]geom.Vec3{
		geom.MixVec3(isolatedVertex, otherV[0], params[0]),
		geom.MixVec3(isolatedVertex, otherV[1], params[1]),
	}
	uvIsect := [2]geom.Vec2{
		geom.MixVec2(isolatedUV, otherUV[0], params[0]),
		geom.MixVec2(isolatedUV, otherUV[1], params[1]),
	}

	isolatedTri := geom.NewTexturedTriangle(
		[3]geom.Vec3{isolatedVertex, geoIsect[0], geoIsect[1]},
		[3]geom.Vec2{isolatedUV, uvIsect[0], uvIsect[1]},
	)
	quad0 := geom.NewTexturedTriangle(
		[3]geom.Vec3{geoIsect[0], otherV[0], otherV[1]},
		[3]geom.Vec2{uvIsect[0], otherUV[0], otherUV[1]},
	)
	quad1 := geom.NewTexturedTriangle(
		[3]geom.Vec3{geoIsect[0], geoIsect[1], otherV[1]},
		[3]geom.Vec2{uvIsect[0], uvIsect[1], otherUV[1]},
	)

	emit(isolatedTri, isolatedIsLo)
	emit(quad0, !isolatedIsLo)
	emit(quad1, !isolatedIsLo)
}
