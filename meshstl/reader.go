// Package meshstl provides a binary STL mesh reader implementing
// pipeline.Mesh, adapted from the reference slicer's write-only stl
// package: the read path it needs has no counterpart there, so the
// binary layout is the only thing carried over.
package meshstl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/gmlewis/obj2voxel/geom"
)

const headerSize = 80

// Tri mirrors the 50-byte binary STL triangle record: a facet normal, the
// three vertex triplets, and a 2-byte attribute count (unused here).
type Tri struct {
	N, V1, V2, V3 [3]float32
	_             uint16
}

// Reader streams triangles from a binary STL file. Binary STL carries no
// UV or material data, so every triangle is reported with
// geom.MaterialLessShading; only geometry participates in voxelization.
type Reader struct {
	path string
}

// Open returns a Reader over the binary STL file at path. Opening does
// not read the file; Bounds and Triangles each perform their own
// independent pass, since the mesh's bounding box must be known in full
// before the voxel-space transform can be computed.
func Open(path string) *Reader {
	return &Reader{path: path}
}

// Bounds returns the mesh's axis-aligned bounding box in model space.
func (r *Reader) Bounds() (min, max geom.Vec3, err error) {
	first := true
	err = r.scan(func(t Tri) error {
		for _, v := range [3][3]float32{t.V1, t.V2, t.V3} {
			p := geom.Vec3{v[0], v[1], v[2]}
			if first {
				min, max = p, p
				first = false
				continue
			}
			min = geom.MinVec3(min, p)
			max = geom.MaxVec3(max, p)
		}
		return nil
	})
	return min, max, err
}

// Triangles implements pipeline.Mesh.
func (r *Reader) Triangles(fn func(geom.VisualTriangle) error) error {
	return r.scan(func(t Tri) error {
		v := [3]geom.Vec3{
			{t.V1[0], t.V1[1], t.V1[2]},
			{t.V2[0], t.V2[1], t.V2[2]},
			{t.V3[0], t.V3[1], t.V3[2]},
		}
		tri := geom.NewTexturedTriangle(v, [3]geom.Vec2{})
		return fn(geom.VisualTriangle{TexturedTriangle: tri, Shading: geom.MaterialLessShading()})
	})
}

func (r *Reader) scan(fn func(Tri) error) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("meshstl: open %s: %w", r.path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if _, err := io.CopyN(io.Discard, br, headerSize); err != nil {
		return fmt.Errorf("meshstl: reading header: %w", err)
	}

	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("meshstl: reading triangle count: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		var t Tri
		if err := binary.Read(br, binary.LittleEndian, &t); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("meshstl: reading triangle %d: %w", i, err)
		}
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}
