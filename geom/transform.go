package geom

import "github.com/go-gl/mathgl/mgl32"

// Permutation reorders the three axes after mesh scaling, selecting which
// world axis becomes which voxel-grid axis. Permutation[i] is the output
// (voxel-grid) axis that world axis i is routed to: world axis i's scaled
// coordinate lands at output index Permutation[i]. It must be a
// permutation of (0, 1, 2).
type Permutation [3]int

// Identity is the no-op permutation.
var Identity = Permutation{0, 1, 2}

// IsValid reports whether p is a permutation of (0, 1, 2).
func (p Permutation) IsValid() bool {
	var seen [3]bool
	for _, axis := range p {
		if axis < 0 || axis > 2 || seen[axis] {
			return false
		}
		seen[axis] = true
	}
	return true
}

// AffineTransform maps model-space points into voxel space: a linear 3x3
// matrix (uniform scale composed with an axis permutation) plus a
// translation, computed once per mesh.
type AffineTransform struct {
	M mgl32.Mat3
	T Vec3
}

// ComputeTransform derives the mesh-to-voxel transform from the mesh's
// world bounding box, the target resolution, and an axis permutation.
//
// The transform maps p to permute(( p - min ) * s), where s is chosen so
// that the largest extent of the bounding box maps exactly onto
// [0, resolution]. permute scatters world axis i's scaled coordinate to
// output index perm[i]: out[perm[i]] = scaled[i].
func ComputeTransform(min, max Vec3, resolution uint32, perm Permutation) AffineTransform {
	extent := max.Sub(min)
	largest := extent[0]
	if extent[1] > largest {
		largest = extent[1]
	}
	if extent[2] > largest {
		largest = extent[2]
	}

	var scale float32
	if largest > 0 {
		scale = float32(resolution) / largest
	}

	// World axis i is scattered to output axis perm[i]: out[perm[i]] =
	// scale * p[i]. So row perm[i], column i of M holds scale.
	var m mgl32.Mat3
	setRow := func(mat *mgl32.Mat3, row, col int, v float32) {
		// mgl32.Mat3 is column-major: element (row, col) is at index col*3+row.
		mat[col*3+row] = v
	}
	for worldAxis, outAxis := range perm {
		setRow(&m, outAxis, worldAxis, scale)
	}

	t := Vec3{}
	for worldAxis, outAxis := range perm {
		t[outAxis] = -scale * min[worldAxis]
	}

	return AffineTransform{M: m, T: t}
}

// Apply maps a model-space point into voxel space.
func (a AffineTransform) Apply(p Vec3) Vec3 {
	return a.M.Mul3x1(p).Add(a.T)
}

// ParsePermutation parses a 3-letter axis string such as "xyz" or "zyx",
// where output axis i takes its value from the axis named by s[i], into
// the equivalent Permutation. Permutation is world-axis-indexed (see its
// doc comment), the inverse of the string's output-indexed reading, so
// the per-letter assignment is inverted before returning.
func ParsePermutation(s string) (Permutation, bool) {
	if len(s) != 3 {
		return Permutation{}, false
	}
	var g Permutation // g[outAxis] = worldAxis, as read directly off the string.
	for outAxis := 0; outAxis < 3; outAxis++ {
		switch s[outAxis] {
		case 'x', 'X':
			g[outAxis] = 0
		case 'y', 'Y':
			g[outAxis] = 1
		case 'z', 'Z':
			g[outAxis] = 2
		default:
			return Permutation{}, false
		}
	}
	if !g.IsValid() {
		return Permutation{}, false
	}
	var p Permutation
	for outAxis, worldAxis := range g {
		p[worldAxis] = outAxis
	}
	return p, true
}
