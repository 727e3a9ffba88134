// Package svxsink writes a merged voxel map as a Shapeways SVX file: a ZIP
// archive of per-Z-layer PNG images plus an XML manifest, adapted from
// the reference slicer's zipper package.
package svxsink

import (
	"archive/zip"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/voxelize"
)

// Sink writes a voxel map to a single .svx.zip archive at Path. It
// implements pipeline.VoxelSink: Begin allocates one RGBA image per Z
// layer, WriteVoxel paints a single pixel into its layer, and Flush
// encodes every layer plus the manifest into the archive.
type Sink struct {
	Path   string
	Author string

	n      int
	layers []*image.RGBA
}

// New returns a Sink writing to path.
func New(path string) *Sink {
	return &Sink{Path: path, Author: "obj2voxel"}
}

// Begin allocates one n x n RGBA image per Z layer.
func (s *Sink) Begin(resolution uint32) error {
	s.n = int(resolution)
	s.layers = make([]*image.RGBA, s.n)
	for z := range s.layers {
		s.layers[z] = image.NewRGBA(image.Rect(0, 0, s.n, s.n))
	}
	return nil
}

// CanWrite reports whether the sink is ready to accept further voxels.
func (s *Sink) CanWrite() bool {
	return s.layers != nil
}

// WriteVoxel paints pos into its Z layer if it carries weight and falls
// within the grid allocated by Begin.
func (s *Sink) WriteVoxel(pos geom.Vec3u, c geom.WeightedColor) {
	if c.Weight == 0 || pos.Z >= uint32(s.n) || pos.X >= uint32(s.n) || pos.Y >= uint32(s.n) {
		return
	}
	r, g, b, a := c.ARGB32()
	s.layers[pos.Z].SetRGBA(int(pos.X), int(pos.Y), color.RGBA{R: r, G: g, B: b, A: a})
}

// Flush encodes every accumulated layer and the manifest into the zip
// archive at Path.
func (s *Sink) Flush() error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("svxsink: create %s: %w", s.Path, err)
	}
	w := zip.NewWriter(f)

	for z, img := range s.layers {
		fh := &zip.FileHeader{Name: fmt.Sprintf("density/slice%04d.png", z), Modified: time.Now()}
		wf, err := w.CreateHeader(fh)
		if err != nil {
			f.Close()
			return fmt.Errorf("svxsink: creating slice entry: %w", err)
		}
		if err := png.Encode(wf, img); err != nil {
			f.Close()
			return fmt.Errorf("svxsink: encoding slice %d: %w", z, err)
		}
	}

	if err := s.writeManifest(w, s.n); err != nil {
		f.Close()
		return err
	}

	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("svxsink: closing zip writer: %w", err)
	}
	return f.Close()
}

// WriteAll is a convenience wrapper around Begin/WriteVoxel/Flush for
// callers that already hold a complete, merged map rather than streaming
// through pipeline.Run.
func (s *Sink) WriteAll(resolution uint32, voxels *voxelize.VoxelColorMap) error {
	if err := s.Begin(resolution); err != nil {
		return err
	}
	voxels.Range(func(pos geom.Vec3u, c geom.WeightedColor) {
		s.WriteVoxel(pos, c)
	})
	return s.Flush()
}

func (s *Sink) writeManifest(w *zip.Writer, resolution int) error {
	fh := &zip.FileHeader{Name: "manifest.xml", Modified: time.Now()}
	f, err := w.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("svxsink: creating manifest entry: %w", err)
	}

	voxelSize := 1.0 / float64(resolution)
	_, err = fmt.Fprintf(f, manifestFmt,
		resolution, resolution, resolution,
		voxelSize,
		s.Author,
		time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("svxsink: writing manifest: %w", err)
	}
	return nil
}

var manifestFmt = `<?xml version="1.0"?>

<grid version="1.0" gridSizeX="%d" gridSizeY="%d" gridSizeZ="%d"
   voxelSize="%v" subvoxelBits="8" slicesOrientation="Z" >

    <channels>
        <channel type="DENSITY" bits="8" slices="density/slice%%04d.png" />
    </channels>

    <materials>
        <material id="1" urn="urn:shapeways:materials/1" />
    </materials>

    <metadata>
        <entry key="author" value=%q />
        <entry key="creationDate" value=%q />
    </metadata>
</grid>`
