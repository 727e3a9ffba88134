// Package pipeline wires the voxelize package's geometric core into a
// concurrent producer/consumer pipeline: a bounded command queue feeding
// a pool of workers, a queue-dispatched tournament merge, and an
// optional downscale pass before handing the result to a VoxelSink.
package pipeline

import (
	"sync"

	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/voxelize"
)

// queueCapacity is the bounded command queue's capacity. A bounded
// channel applies backpressure to the producer when workers fall behind,
// matching the original ring buffer's blocking push.
const queueCapacity = 128

type commandKind int

const (
	cmdVoxelizeTriangle commandKind = iota
	cmdMergeMaps
	cmdExit
)

// command is a unit of work pushed onto a Queue: voxelize one triangle,
// merge two already-settled maps (folding source into target and
// clearing source), or ask the receiving worker to exit.
type command struct {
	kind     commandKind
	triangle geom.VisualTriangle
	target   *voxelize.VoxelColorMap
	source   *voxelize.VoxelColorMap
}

// exitCommand is the sentinel pushed once per worker to end its loop.
var exitCommand = command{kind: cmdExit}

// Queue is the bounded channel of commands shared by the producer
// (driver) and every Worker goroutine, plus a completion counter. The
// counter lets the driver block until every command it has issued has
// actually been executed, without requiring any worker to have exited —
// a synchronization distinct from worker-goroutine lifecycle, which the
// driver tracks separately. This replaces the reference implementation's
// ring buffer plus its paired command counter.
type Queue struct {
	ch      chan command
	pending sync.WaitGroup
}

// NewQueue returns an empty, ready-to-use Queue.
func NewQueue() *Queue {
	return &Queue{ch: make(chan command, queueCapacity)}
}

// PushTriangle blocks until there is room in the queue for t.
func (q *Queue) PushTriangle(t geom.VisualTriangle) {
	q.pending.Add(1)
	q.ch <- command{kind: cmdVoxelizeTriangle, triangle: t}
}

// PushMerge issues a command folding source into target. The caller
// (tournamentMerge) guarantees that no two simultaneously in-flight
// commands name the same map, as either target or source; the executing
// worker need not own either map.
func (q *Queue) PushMerge(target, source *voxelize.VoxelColorMap) {
	q.pending.Add(1)
	q.ch <- command{kind: cmdMergeMaps, target: target, source: source}
}

// WaitForCompletion blocks until every command issued so far via
// PushTriangle or PushMerge has been executed and marked complete. It
// returns as soon as the queue drains to zero pending commands; workers
// keep running afterward, ready for more work or an Exit.
func (q *Queue) WaitForCompletion() {
	q.pending.Wait()
}

// complete marks one issued command as finished. Workers call this after
// executing every command they pop except Exit, which carries no
// completion accounting of its own.
func (q *Queue) complete() {
	q.pending.Done()
}

// Close pushes one Exit command per worker, then closes the underlying
// channel. Close must be called exactly once, after the triangle and
// merge phases have both fully drained via WaitForCompletion.
func (q *Queue) Close(workerCount int) {
	for i := 0; i < workerCount; i++ {
		q.ch <- exitCommand
	}
	close(q.ch)
}

// pop blocks until a command is available.
func (q *Queue) pop() (command, bool) {
	c, ok := <-q.ch
	return c, ok
}
