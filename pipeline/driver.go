package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/voxelize"
	"go.uber.org/zap"
)

// Mesh is the input side of the pipeline: a bounded triangle source whose
// extent can be measured before streaming. meshstl.Reader and
// meshobj.Reader implement this interface.
type Mesh interface {
	// Bounds returns the mesh's axis-aligned bounding box in model space.
	Bounds() (min, max geom.Vec3, err error)
	// Triangles calls fn once per triangle, in model space with shading
	// already resolved. It stops and returns fn's error if fn returns one.
	Triangles(fn func(geom.VisualTriangle) error) error
}

// VoxelSink is the output side of the pipeline: anything that can consume
// the final, merged voxel map. voxsink, svxsink, and photonsink implement
// this interface.
//
// The driver, not the sink, owns the output loop: it calls Begin once
// the final resolution is known, then visits every occupied voxel cell
// in turn, consulting CanWrite before each one. The instant CanWrite
// reports false the driver aborts the loop and reports failure without
// calling Flush; WriteVoxel is otherwise infallible, and any error a
// sink hits surfaces through CanWrite going false on a later call.
type VoxelSink interface {
	Begin(resolution uint32) error
	CanWrite() bool
	WriteVoxel(pos geom.Vec3u, c geom.WeightedColor)
	Flush() error
}

// Options configures a single Run of the pipeline.
type Options struct {
	// Resolution is the voxel grid's extent along its longest axis.
	Resolution uint32
	// Permutation reorders mesh axes onto voxel axes.
	Permutation geom.Permutation
	// Strategy selects how multiple contributions to one cell combine.
	Strategy voxelize.Strategy
	// Workers is the worker pool size. Zero selects runtime.NumCPU.
	Workers int
	// DownscalePasses folds the merged map through DownscalePasses rounds
	// of 2x2x2 block combination, halving the effective resolution each
	// time.
	DownscalePasses int
	// Logger receives progress and diagnostic messages. A nop logger is
	// used if nil.
	Logger *zap.Logger
}

// Run streams every triangle of mesh through a pool of Options.Workers
// workers, reduces their per-worker voxel maps to one via a
// queue-dispatched tournament merge, optionally downscales, and streams
// the result to sink one voxel at a time.
func Run(mesh Mesh, sink VoxelSink, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if !opts.Permutation.IsValid() {
		return fmt.Errorf("pipeline: invalid axis permutation %v", opts.Permutation)
	}
	if opts.Resolution == 0 {
		return fmt.Errorf("pipeline: resolution must be positive")
	}

	workerCount := opts.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	min, max, err := mesh.Bounds()
	if err != nil {
		return fmt.Errorf("pipeline: computing mesh bounds: %w", err)
	}
	transform := geom.ComputeTransform(min, max, opts.Resolution, opts.Permutation)

	log.Info("starting voxelization",
		zap.Uint32("resolution", opts.Resolution),
		zap.Int("workers", workerCount),
		zap.String("strategy", opts.Strategy.String()),
	)

	queue := NewQueue()
	workers := make([]*voxelize.Worker, workerCount)
	for i := range workers {
		workers[i] = voxelize.NewWorker(opts.Strategy)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		w := workers[i]
		go func() {
			defer wg.Done()
			runWorker(queue, w)
		}()
	}

	pushErr := mesh.Triangles(func(t geom.VisualTriangle) error {
		t.V[0] = transform.Apply(t.V[0])
		t.V[1] = transform.Apply(t.V[1])
		t.V[2] = transform.Apply(t.V[2])
		queue.PushTriangle(t)
		return nil
	})
	// Every pushed triangle must be fully voxelized, not merely dequeued,
	// before the driver reads any worker's map size in tournamentMerge.
	queue.WaitForCompletion()

	if pushErr != nil {
		queue.Close(workerCount)
		wg.Wait()
		return fmt.Errorf("pipeline: reading mesh: %w", pushErr)
	}

	final := tournamentMerge(queue, workers)

	// Only after merging completes do workers exit; this matches the
	// ordering requirement of §7 kind 3 that worker threads have already
	// joined by the time the output loop can fail.
	queue.Close(workerCount)
	wg.Wait()

	resolution := opts.Resolution
	for i := 0; i < opts.DownscalePasses; i++ {
		final = voxelize.Downscale(final, opts.Strategy)
		resolution /= 2
	}

	log.Info("voxelization complete", zap.Int("voxels", final.Len()))

	if err := writeToSink(sink, resolution, final); err != nil {
		return fmt.Errorf("pipeline: writing output: %w", err)
	}
	return nil
}

// writeToSink drives the output loop: begin at resolution, then visit
// every non-empty cell, checking CanWrite before each WriteVoxel call
// and aborting the instant it reports false. Flush runs only if the loop
// completed without the sink going unwritable.
func writeToSink(sink VoxelSink, resolution uint32, voxels *voxelize.VoxelColorMap) error {
	if err := sink.Begin(resolution); err != nil {
		return fmt.Errorf("starting output: %w", err)
	}

	var sinkFailed bool
	voxels.RangeWhile(func(pos geom.Vec3u, c geom.WeightedColor) bool {
		if c.Weight == 0 {
			return true
		}
		if !sink.CanWrite() {
			sinkFailed = true
			return false
		}
		sink.WriteVoxel(pos, c)
		return true
	})
	if sinkFailed {
		return fmt.Errorf("sink became unable to accept writes mid-output")
	}

	if err := sink.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// runWorker drains queue until it receives an Exit command, executing
// each VoxelizeTriangle or MergeMaps command it pops in between. Any
// free worker may execute a MergeMaps command for any pair of maps —
// merge operates on the target/source references the command carries,
// not on the executing worker's own map.
func runWorker(queue *Queue, w *voxelize.Worker) {
	for {
		c, ok := queue.pop()
		if !ok || c.kind == cmdExit {
			return
		}
		switch c.kind {
		case cmdVoxelizeTriangle:
			w.Voxelize(c.triangle)
		case cmdMergeMaps:
			voxelize.Merge(c.target, c.source, w.Strategy)
		}
		queue.complete()
	}
}

// tournamentMerge reduces every worker's map to one by repeatedly
// pairing up non-empty maps and issuing a MergeMaps command per pair to
// the still-running worker pool — the larger map is always the target,
// the smaller the source, per the merge's deterministic-under-BLEND,
// tie-broken-under-MAX contract. A round that issues zero commands ends
// the reduction, so it tolerates any worker count, not just powers of
// two, and runs the merges concurrently across whichever workers are
// free rather than serially after every worker has exited.
func tournamentMerge(queue *Queue, workers []*voxelize.Worker) *voxelize.VoxelColorMap {
	if len(workers) == 0 {
		return voxelize.NewMap[geom.WeightedColor]()
	}
	for {
		var carry *voxelize.VoxelColorMap
		issued := 0
		for _, w := range workers {
			if w.Map.Len() == 0 {
				continue
			}
			if carry == nil {
				carry = w.Map
				continue
			}
			target, source := carry, w.Map
			if target.Len() < source.Len() {
				target, source = source, target
			}
			queue.PushMerge(target, source)
			issued++
			carry = nil
		}
		if issued == 0 {
			if carry == nil {
				return voxelize.NewMap[geom.WeightedColor]()
			}
			return carry
		}
		queue.WaitForCompletion()
	}
}
