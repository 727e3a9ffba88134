// Package texture provides the immutable, shared-read-only texture type
// referenced (never copied) by textured triangles.
package texture

import (
	"image"

	"github.com/gmlewis/obj2voxel/geom"
)

// Mode selects how a UV coordinate is resolved to a color.
type Mode int

const (
	// Nearest samples the closest texel, with wraparound outside [0,1].
	Nearest Mode = iota
	// Bilinear interpolates the four nearest texels.
	Bilinear
)

// Texture is an immutable 2D RGBA8 image addressed by UV in [0,1]^2, with
// wraparound outside that range. It is owned by the pipeline and
// referenced, never copied, by the triangles whose material names it.
type Texture struct {
	img  *image.RGBA
	w, h int
	mode Mode
}

// New wraps an already-decoded image as a Texture. Decoding the image
// file itself is the caller's job: use image/png, image/jpeg, or similar
// stdlib decoders and hand the result here.
func New(img image.Image, mode Mode) *Texture {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return &Texture{img: rgba, w: b.Dx(), h: b.Dy(), mode: mode}
}

// Sample resolves the color at UV, implementing geom.Sampler. The result
// is normalized to [0,1] per channel.
func (t *Texture) Sample(uv geom.Vec2) geom.Vec3 {
	switch t.mode {
	case Bilinear:
		return t.sampleBilinear(uv)
	default:
		return t.sampleNearest(uv)
	}
}

func (t *Texture) sampleNearest(uv geom.Vec2) geom.Vec3 {
	x, y := t.texelCoords(uv)
	return t.texel(x, y)
}

func (t *Texture) sampleBilinear(uv geom.Vec2) geom.Vec3 {
	fx := wrap(uv[0])*float32(t.w) - 0.5
	fy := wrap(uv[1])*float32(t.h) - 0.5

	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := t.texel(wrapIdx(x0, t.w), wrapIdx(y0, t.h))
	c10 := t.texel(wrapIdx(x0+1, t.w), wrapIdx(y0, t.h))
	c01 := t.texel(wrapIdx(x0, t.w), wrapIdx(y0+1, t.h))
	c11 := t.texel(wrapIdx(x0+1, t.w), wrapIdx(y0+1, t.h))

	top := geom.MixVec3(c00, c10, tx)
	bottom := geom.MixVec3(c01, c11, tx)
	return geom.MixVec3(top, bottom, ty)
}

// texelCoords converts a wrapped UV into nearest-neighbor pixel indices.
func (t *Texture) texelCoords(uv geom.Vec2) (x, y int) {
	x = wrapIdx(floorInt(wrap(uv[0])*float32(t.w)), t.w)
	y = wrapIdx(floorInt(wrap(uv[1])*float32(t.h)), t.h)
	return x, y
}

func (t *Texture) texel(x, y int) geom.Vec3 {
	c := t.img.RGBAAt(x, y)
	return geom.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// wrap maps any real UV component into [0,1) by modulo 1.
func wrap(u float32) float32 {
	f := u - float32(floorInt(u))
	if f < 0 {
		f++
	}
	return f
}

func wrapIdx(i, n int) int {
	if n == 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func floorInt(v float32) int {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return i
}
