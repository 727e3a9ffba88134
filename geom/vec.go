// Package geom provides the geometry primitives shared by the voxelization
// pipeline: vectors, affine transforms, and triangle types.
package geom

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a 3-component real vector, used both for model-space points and
// voxel-space positions before they are snapped to integer cells.
type Vec3 = mgl32.Vec3

// Vec2 is a 2-component real vector, used for texture coordinates.
type Vec2 = mgl32.Vec2

// Vec3u is a triple of unsigned integers identifying a voxel cell.
type Vec3u struct {
	X, Y, Z uint32
}

// Add returns the component-wise sum of two Vec3u.
func (v Vec3u) Add(o Vec3u) Vec3u {
	return Vec3u{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Div2 returns the component-wise integer division of v by 2 (floor).
func (v Vec3u) Div2() Vec3u {
	return Vec3u{v.X / 2, v.Y / 2, v.Z / 2}
}

// MinVec3 returns the component-wise minimum of two vectors.
func MinVec3(a, b Vec3) Vec3 {
	return Vec3{min32(a[0], b[0]), min32(a[1], b[1]), min32(a[2], b[2])}
}

// MaxVec3 returns the component-wise maximum of two vectors.
func MaxVec3(a, b Vec3) Vec3 {
	return Vec3{max32(a[0], b[0]), max32(a[1], b[1]), max32(a[2], b[2])}
}

// MixVec3 linearly interpolates between a and b by t, where t=0 yields a
// and t=1 yields b.
func MixVec3(a, b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// MixVec2 linearly interpolates between a and b by t.
func MixVec2(a, b Vec2, t float32) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
