// Package voxsink writes a merged voxel map as a single .binvox file via
// github.com/gmlewis/stldice/v4/binvox.
package voxsink

import (
	"fmt"

	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/voxelize"
	"github.com/gmlewis/stldice/v4/binvox"
)

// Sink writes a voxel map to a single binvox file at Path. It implements
// pipeline.VoxelSink: Begin allocates the binvox grid at the final
// resolution, WriteVoxel marks cells as occupied (binvox has no color
// channel, so only non-zero weight survives), and Flush serializes the
// grid to Path.
type Sink struct {
	Path string

	n int
	b *binvox.BinVOX
}

// New returns a Sink writing to path.
func New(path string) *Sink {
	return &Sink{Path: path}
}

// Begin allocates an n x n x n binvox grid.
func (s *Sink) Begin(resolution uint32) error {
	s.n = int(resolution)
	s.b = binvox.New(s.n, s.n, s.n, 0, 0, 0, 1.0, false)
	return nil
}

// CanWrite reports whether the sink is ready to accept further voxels.
func (s *Sink) CanWrite() bool {
	return s.b != nil
}

// WriteVoxel marks pos occupied if it carries any weight and falls
// within the grid allocated by Begin.
func (s *Sink) WriteVoxel(pos geom.Vec3u, c geom.WeightedColor) {
	if c.Weight == 0 {
		return
	}
	if pos.X >= uint32(s.n) || pos.Y >= uint32(s.n) || pos.Z >= uint32(s.n) {
		return
	}
	s.b.Add(int(pos.X), int(pos.Y), int(pos.Z))
}

// Flush writes the accumulated grid to Path.
func (s *Sink) Flush() error {
	if err := s.b.Write(s.Path, 0, 0, 0, s.b.NX, s.b.NY, s.b.NZ); err != nil {
		return fmt.Errorf("voxsink: writing %s: %w", s.Path, err)
	}
	return nil
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
