package geom

// Sampler resolves a texture-space color at a UV coordinate. It is
// implemented by texture.Texture; declared here (rather than imported)
// so that geom does not depend on the texture package.
type Sampler interface {
	Sample(uv Vec2) Vec3
}

// TexturedTriangle is a triangle in voxel space with per-vertex UVs.
// Vertices are stored post-transform: all downstream geometry is
// integer-indexed by floor of these coordinates.
type TexturedTriangle struct {
	V [3]Vec3
	T [3]Vec2
}

// NewTexturedTriangle builds a TexturedTriangle from explicit vertex and
// UV arrays.
func NewTexturedTriangle(v [3]Vec3, uv [3]Vec2) TexturedTriangle {
	return TexturedTriangle{V: v, T: uv}
}

// Vertex returns the i-th vertex (0, 1, or 2).
func (t TexturedTriangle) Vertex(i int) Vec3 { return t.V[i] }

// UV returns the i-th texture coordinate.
func (t TexturedTriangle) UV(i int) Vec2 { return t.T[i] }

// Normal returns the (non-unit) normal of the triangle via the cross
// product of its two edges.
func (t TexturedTriangle) Normal() Vec3 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0]))
}

// Area returns the triangle's area in voxel-space units.
func (t TexturedTriangle) Area() float32 {
	return t.Normal().Len() / 2
}

// IsDegenerate reports whether the triangle has (numerically) zero area,
// i.e. its vertices are collinear or coincident.
func (t TexturedTriangle) IsDegenerate() bool {
	return t.Normal().LenSqr() == 0
}

// VoxelMin returns the component-wise floor of the triangle's bounding box.
func (t TexturedTriangle) VoxelMin() Vec3u {
	return floorVec3u(MinVec3(MinVec3(t.V[0], t.V[1]), t.V[2]))
}

// VoxelMax returns the component-wise floor of the triangle's bounding box
// plus one: an exclusive upper bound for the half-open iteration range
// [VoxelMin, VoxelMax) used by the clipper. The "+1" guarantees
// VoxelMax != VoxelMin even for triangles that are flat along some axis
// (e.g. lying exactly in the z=0 plane), so every triangle touches at
// least one voxel layer on every axis.
func (t TexturedTriangle) VoxelMax() Vec3u {
	max := floorVec3u(MaxVec3(MaxVec3(t.V[0], t.V[1]), t.V[2]))
	return Vec3u{max.X + 1, max.Y + 1, max.Z + 1}
}

func floorVec3u(v Vec3) Vec3u {
	return Vec3u{uint32(floorNonNeg(v[0])), uint32(floorNonNeg(v[1])), uint32(floorNonNeg(v[2]))}
}

func floorNonNeg(v float32) float32 {
	if v < 0 {
		return 0
	}
	i := float32(int64(v))
	if i > v {
		i--
	}
	return i
}

// CentroidUV returns the unweighted average of the triangle's three UVs,
// used by the clipper to sample a representative color for a fragment.
func (t TexturedTriangle) CentroidUV() Vec2 {
	sum := t.T[0].Add(t.T[1]).Add(t.T[2])
	return Vec2{sum[0] / 3, sum[1] / 3}
}

// Subdivide4 splits the triangle into four sub-triangles by cutting each
// edge at its midpoint. Index 0 is the center piece (formed entirely from
// edge midpoints); indices 1-3 are the three corner pieces, each sharing
// one original vertex. This ordering matches the adaptive subdivider's
// worklist algorithm, which replaces the parent with the center piece
// and appends the three corners.
func (t TexturedTriangle) Subdivide4() [4]TexturedTriangle {
	m01v, m01t := MixVec3(t.V[0], t.V[1], 0.5), MixVec2(t.T[0], t.T[1], 0.5)
	m12v, m12t := MixVec3(t.V[1], t.V[2], 0.5), MixVec2(t.T[1], t.T[2], 0.5)
	m20v, m20t := MixVec3(t.V[2], t.V[0], 0.5), MixVec2(t.T[2], t.T[0], 0.5)

	center := TexturedTriangle{V: [3]Vec3{m01v, m12v, m20v}, T: [3]Vec2{m01t, m12t, m20t}}
	corner0 := TexturedTriangle{V: [3]Vec3{t.V[0], m01v, m20v}, T: [3]Vec2{t.T[0], m01t, m20t}}
	corner1 := TexturedTriangle{V: [3]Vec3{m01v, t.V[1], m12v}, T: [3]Vec2{m01t, t.T[1], m12t}}
	corner2 := TexturedTriangle{V: [3]Vec3{m20v, m12v, t.V[2]}, T: [3]Vec2{m20t, m12t, t.T[2]}}

	return [4]TexturedTriangle{center, corner0, corner1, corner2}
}

// ShadingKind names the variant of ShadingSource in effect for a
// VisualTriangle.
type ShadingKind int

const (
	// MaterialLess triangles have no assigned material and use a
	// default color.
	MaterialLess ShadingKind = iota
	// Untextured triangles carry a constant RGB color.
	Untextured
	// Textured triangles sample a texture via UV coordinates.
	Textured
)

// DefaultColor is the color used for MaterialLess triangles.
var DefaultColor = Vec3{1, 1, 1}

// ShadingSource fixes how VisualTriangle.ColorAt is computed.
type ShadingSource struct {
	Kind    ShadingKind
	Color   Vec3    // valid when Kind == Untextured
	Sampler Sampler // valid when Kind == Textured; non-owning reference
}

// MaterialLessShading returns a ShadingSource that always yields the
// default color.
func MaterialLessShading() ShadingSource {
	return ShadingSource{Kind: MaterialLess}
}

// UntexturedShading returns a ShadingSource with a constant color.
func UntexturedShading(color Vec3) ShadingSource {
	return ShadingSource{Kind: Untextured, Color: color}
}

// TexturedShading returns a ShadingSource backed by a texture sampler.
func TexturedShading(sampler Sampler) ShadingSource {
	return ShadingSource{Kind: Textured, Sampler: sampler}
}

// VisualTriangle is a TexturedTriangle plus the shading information
// needed to resolve a color at any point on its surface.
type VisualTriangle struct {
	TexturedTriangle
	Shading ShadingSource
}

// ColorAt resolves the triangle's color at the given UV coordinate
// according to its shading variant.
func (v VisualTriangle) ColorAt(uv Vec2) Vec3 {
	switch v.Shading.Kind {
	case Untextured:
		return v.Shading.Color
	case Textured:
		return v.Shading.Sampler.Sample(uv)
	default:
		return DefaultColor
	}
}
