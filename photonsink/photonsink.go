package photonsink

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/voxelize"
)

// Sink writes a merged voxel map to a single .cbddlp file, one RLE layer
// image per Z slice. It implements pipeline.VoxelSink: Begin allocates
// one RGBA image per Z layer, WriteVoxel paints a pixel into its layer,
// and Flush encodes and writes every layer plus the file header.
type Sink struct {
	Path string

	// XRes, YRes, ZRes are the physical size of one voxel in microns,
	// recorded in the file header for slicer/printer consumption.
	XRes, YRes, ZRes float32

	n      int
	layers []*image.RGBA
}

// New returns a Sink with a 1-micron-per-voxel default resolution.
func New(path string) *Sink {
	return &Sink{Path: path, XRes: 1, YRes: 1, ZRes: 1}
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

// Flush encodes the accumulated layers into a .cbddlp file at Path.
func (s *Sink) Flush() error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("photonsink: create %s: %w", s.Path, err)
	}

	d := &dlp{w: f, numSlices: s.n, xRes: s.XRes, yRes: s.YRes, zRes: s.ZRes}
	for z, img := range s.layers {
		var writeErr error
		if z == 0 {
			writeErr = d.writeHeader(img)
		} else {
			writeErr = d.writeSlice(z, img)
		}
		if writeErr != nil {
			f.Close()
			return fmt.Errorf("photonsink: writing layer %d: %w", z, writeErr)
		}
	}

	if _, err := f.Seek(d.layerHeaderOffset0, io.SeekStart); err != nil {
		f.Close()
		return fmt.Errorf("photonsink: seeking to layer headers: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, d.layerHeaders); err != nil {
		f.Close()
		return fmt.Errorf("photonsink: writing layer headers: %w", err)
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

// dlp accumulates the layer headers of an in-progress .cbddlp file as its
// slices are streamed through writeHeader/writeSlice, then Sink.Flush
// seeks back to patch them in once every size is known.
type dlp struct {
	w io.WriteSeeker

	numSlices int
	xRes      float32
	yRes      float32
	zRes      float32

	layerHeaderOffset0 int64
	layerHeaders       []binCompatLayerHeader
}

func (d *dlp) writeHeader(img image.Image) error {
	previewData := encodePreview(previewWidth, previewHeight, img.(*image.RGBA))
	thumbnailData := encodePreview(thumbnailWidth, thumbnailHeight, img.(*image.RGBA))

	pos := 0
	pos += binary.Size(binCompatFileHeader{})

	previewHeaderOffset := pos
	pos += binary.Size(binCompatPreviewHeader{})
	previewDataOffset := pos
	pos += len(previewData)

	thumbnailHeaderOffset := pos
	pos += binary.Size(binCompatPreviewHeader{})
	thumbnailDataOffset := pos
	pos += len(thumbnailData)

	var layerHeaderOffsets []int
	for i := 0; i < d.numSlices; i++ {
		layerHeaderOffsets = append(layerHeaderOffsets, pos)
		pos += binary.Size(binCompatLayerHeader{})
	}
	d.layerHeaderOffset0 = int64(layerHeaderOffsets[0])

	layer0 := encodeLayerImageData(img.(*image.RGBA))

	var layerDataOffsets []int
	for i := 0; i < d.numSlices; i++ {
		layerDataOffsets = append(layerDataOffsets, pos)
		if i == 0 {
			pos += len(layer0)
		} else {
			pos++ // overwritten once the layer sizes are known.
		}
	}

	header := binCompatFileHeader{
		Magic1:                       0x12FD0019,
		Magic2:                       0x01,
		PlateX:                       68.04,
		PlateY:                       120.96,
		PlateZ:                       150.0,
		LayerThickness:               d.zRes / 1000.0,
		NormalExposureTime:           6,
		BottomExposureTime:           50,
		OffTime:                      0,
		BottomLayers:                 8,
		ScreenHeight:                 screenHeight,
		ScreenWidth:                  screenWidth,
		PreviewHeaderOffset:          uint32(previewHeaderOffset),
		LayerHeadersOffset:           uint32(layerHeaderOffsets[0]),
		TotalLayers:                  uint32(d.numSlices),
		PreviewThumbnailHeaderOffset: uint32(thumbnailHeaderOffset),
		LightCuringType:              1,
	}

	previewHeader := binCompatPreviewHeader{
		Width:             uint32(img.Bounds().Max.X),
		Height:            uint32(img.Bounds().Max.Y),
		PreviewDataOffset: uint32(previewDataOffset),
		PreviewDataSize:   uint32(len(previewData)),
	}
	thumbnailHeader := binCompatPreviewHeader{
		Width:             uint32(img.Bounds().Max.X),
		Height:            uint32(img.Bounds().Max.Y),
		PreviewDataOffset: uint32(thumbnailDataOffset),
		PreviewDataSize:   uint32(len(thumbnailData)),
	}

	for i := 0; i < d.numSlices; i++ {
		expTime := header.NormalExposureTime
		if i < int(header.BottomLayers) {
			expTime = header.BottomExposureTime
		}
		imageDataSize := uint32(i)
		if i == 0 {
			imageDataSize = uint32(len(layer0))
		}
		d.layerHeaders = append(d.layerHeaders, binCompatLayerHeader{
			AbsoluteHeight:  float32(i) * d.zRes / 1000.0,
			ExposureTime:    expTime,
			PerLayerOffTime: 0,
			ImageDataOffset: uint32(layerDataOffsets[i]), // patched in later for i>0.
			ImageDataSize:   imageDataSize,                // patched in later for i>0.
		})
	}

	for _, v := range []any{header, previewHeader, previewData, thumbnailHeader, thumbnailData, d.layerHeaders, layer0} {
		if err := binary.Write(d.w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func (d *dlp) writeSlice(sliceNum int, img image.Image) error {
	layer := encodeLayerImageData(img.(*image.RGBA))
	layerSize := uint32(len(layer))

	d.layerHeaders[sliceNum].ImageDataOffset =
		d.layerHeaders[sliceNum-1].ImageDataOffset + d.layerHeaders[sliceNum-1].ImageDataSize
	d.layerHeaders[sliceNum].ImageDataSize = layerSize

	return binary.Write(d.w, binary.LittleEndian, layer)
}
