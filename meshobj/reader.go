// Package meshobj implements a Wavefront OBJ + MTL mesh reader
// implementing pipeline.Mesh. Unlike meshstl, OBJ/MTL carries per-face
// materials and textures, so faces resolve to every geom.ShadingKind
// (material-less, untextured constant color, and textured via UV).
//
// No example repo in the reference pack parses OBJ, so this reader is
// hand-written against stdlib text scanning rather than an ecosystem
// library (see DESIGN.md).
package meshobj

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/texture"
)

// Reader streams triangles from a Wavefront OBJ file, resolving
// `usemtl`-selected materials against the referenced .mtl library.
type Reader struct {
	path string
	mode texture.Mode
}

// Open returns a Reader over the OBJ file at path, sampling any textured
// materials in the given mode.
func Open(path string, mode texture.Mode) *Reader {
	return &Reader{path: path, mode: mode}
}

// Bounds returns the mesh's axis-aligned bounding box in model space.
func (r *Reader) Bounds() (min, max geom.Vec3, err error) {
	first := true
	err = r.forEachTriangle(func(t geom.VisualTriangle) error {
		for _, v := range t.V {
			if first {
				min, max = v, v
				first = false
				continue
			}
			min = geom.MinVec3(min, v)
			max = geom.MaxVec3(max, v)
		}
		return nil
	})
	return min, max, err
}

// Triangles implements pipeline.Mesh.
func (r *Reader) Triangles(fn func(geom.VisualTriangle) error) error {
	return r.forEachTriangle(fn)
}

type material struct {
	shading geom.ShadingSource
}

func (r *Reader) forEachTriangle(fn func(geom.VisualTriangle) error) error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("meshobj: open %s: %w", r.path, err)
	}
	defer f.Close()

	var verts []geom.Vec3
	var uvs []geom.Vec2
	materials := map[string]material{}
	current := geom.MaterialLessShading()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "mtllib":
			mtlPath := filepath.Join(filepath.Dir(r.path), fields[1])
			loaded, err := loadMaterials(mtlPath, r.mode)
			if err != nil {
				return err
			}
			for name, m := range loaded {
				materials[name] = m
			}

		case "usemtl":
			if m, ok := materials[fields[1]]; ok {
				current = m.shading
			} else {
				current = geom.MaterialLessShading()
			}

		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return fmt.Errorf("meshobj: parsing vertex: %w", err)
			}
			verts = append(verts, v)

		case "vt":
			uv, err := parseVec2(fields[1:])
			if err != nil {
				return fmt.Errorf("meshobj: parsing texture coordinate: %w", err)
			}
			uvs = append(uvs, uv)

		case "f":
			vi, ti, err := parseFace(fields[1:], len(verts), len(uvs))
			if err != nil {
				return fmt.Errorf("meshobj: parsing face: %w", err)
			}
			// Fan-triangulate polygons with more than 3 vertices.
			for i := 1; i+1 < len(vi); i++ {
				idx := [3]int{vi[0], vi[i], vi[i+1]}
				var uvIdx [3]int
				hasUV := ti != nil
				if hasUV {
					uvIdx = [3]int{ti[0], ti[i], ti[i+1]}
				}

				var triUV [3]geom.Vec2
				if hasUV {
					triUV = [3]geom.Vec2{uvs[uvIdx[0]], uvs[uvIdx[1]], uvs[uvIdx[2]]}
				}
				tri := geom.NewTexturedTriangle(
					[3]geom.Vec3{verts[idx[0]], verts[idx[1]], verts[idx[2]]},
					triUV,
				)
				if err := fn(geom.VisualTriangle{TexturedTriangle: tri, Shading: current}); err != nil {
					return err
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("meshobj: scanning %s: %w", r.path, err)
	}
	return nil
}

func loadMaterials(path string, mode texture.Mode) (map[string]material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshobj: open material library %s: %w", path, err)
	}
	defer f.Close()

	materials := map[string]material{}
	var name string
	var color = geom.DefaultColor
	var hasTexture bool
	var texPath string

	flush := func() {
		if name == "" {
			return
		}
		if hasTexture {
			if img, err := loadImage(texPath); err == nil {
				materials[name] = material{shading: geom.TexturedShading(texture.New(img, mode))}
				return
			}
		}
		materials[name] = material{shading: geom.UntexturedShading(color)}
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "newmtl":
			flush()
			name = fields[1]
			color = geom.DefaultColor
			hasTexture = false
		case "Kd":
			if c, err := parseVec3(fields[1:]); err == nil {
				color = c
			}
		case "map_Kd":
			hasTexture = true
			texPath = filepath.Join(filepath.Dir(path), fields[len(fields)-1])
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meshobj: scanning %s: %w", path, err)
	}
	return materials, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func parseVec3(fields []string) (geom.Vec3, error) {
	if len(fields) < 3 {
		return geom.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var v geom.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return geom.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseVec2(fields []string) (geom.Vec2, error) {
	if len(fields) < 2 {
		return geom.Vec2{}, fmt.Errorf("want 2 components, got %d", len(fields))
	}
	var v geom.Vec2
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return geom.Vec2{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFace parses OBJ face vertex references ("v", "v/vt", "v/vt/vn", or
// "v//vn"), returning 0-based vertex and (if present) UV indices.
// Negative indices (relative to the end of the list so far) are resolved
// against nVerts/nUVs.
func parseFace(fields []string, nVerts, nUVs int) (vi []int, ti []int, err error) {
	hasUV := false
	for i, field := range fields {
		parts := strings.Split(field, "/")
		v, err := resolveIndex(parts[0], nVerts)
		if err != nil {
			return nil, nil, err
		}
		vi = append(vi, v)

		if len(parts) >= 2 && parts[1] != "" {
			t, err := resolveIndex(parts[1], nUVs)
			if err != nil {
				return nil, nil, err
			}
			if !hasUV {
				ti = make([]int, i)
				hasUV = true
			}
			ti = append(ti, t)
		} else if hasUV {
			return nil, nil, fmt.Errorf("face mixes vertices with and without texture coordinates")
		}
	}
	return vi, ti, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return count + n, nil
	}
	return n - 1, nil
}
