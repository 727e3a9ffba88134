package pipeline

import (
	"testing"

	"github.com/gmlewis/obj2voxel/geom"
	"github.com/gmlewis/obj2voxel/voxelize"
)

func TestQueuePushPop(t *testing.T) {
	q := NewQueue()
	tri := geom.VisualTriangle{Shading: geom.MaterialLessShading()}
	q.PushTriangle(tri)

	c, ok := q.pop()
	if !ok {
		t.Fatal("pop() ok = false, want true")
	}
	if c.kind != cmdVoxelizeTriangle {
		t.Errorf("pop() kind = %v, want cmdVoxelizeTriangle", c.kind)
	}
	q.complete()
}

func TestQueueCloseSendsOneExitPerWorker(t *testing.T) {
	const workers = 3
	q := NewQueue()
	q.Close(workers)

	var exits int
	for {
		c, ok := q.pop()
		if !ok {
			break
		}
		if c.kind == cmdExit {
			exits++
		}
	}
	if exits != workers {
		t.Errorf("received %d exit commands, want %d", exits, workers)
	}
}

func TestQueuePreservesOrderBeforeClose(t *testing.T) {
	q := NewQueue()
	first := geom.VisualTriangle{Shading: geom.UntexturedShading(geom.Vec3{1, 0, 0})}
	second := geom.VisualTriangle{Shading: geom.UntexturedShading(geom.Vec3{0, 1, 0})}
	q.PushTriangle(first)
	q.PushTriangle(second)
	q.Close(1)

	c1, _ := q.pop()
	if c1.triangle.Shading.Color != first.Shading.Color {
		t.Errorf("first popped triangle color = %v, want %v", c1.triangle.Shading.Color, first.Shading.Color)
	}
	q.complete()
	c2, _ := q.pop()
	if c2.triangle.Shading.Color != second.Shading.Color {
		t.Errorf("second popped triangle color = %v, want %v", c2.triangle.Shading.Color, second.Shading.Color)
	}
	q.complete()
	c3, _ := q.pop()
	if c3.kind != cmdExit {
		t.Error("third popped command is not the exit sentinel")
	}
}

func TestQueueWaitForCompletionBlocksUntilDrained(t *testing.T) {
	q := NewQueue()
	q.PushTriangle(geom.VisualTriangle{Shading: geom.MaterialLessShading()})

	done := make(chan struct{})
	go func() {
		q.WaitForCompletion()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitForCompletion returned before the pushed command was completed")
	default:
	}

	if _, ok := q.pop(); !ok {
		t.Fatal("pop() ok = false, want true")
	}
	q.complete()

	<-done // must return promptly now that the only pending command is complete.
}

func TestQueuePushMergeCarriesTargetAndSource(t *testing.T) {
	q := NewQueue()
	target := voxelize.NewMap[geom.WeightedColor]()
	source := voxelize.NewMap[geom.WeightedColor]()
	q.PushMerge(target, source)

	c, ok := q.pop()
	if !ok {
		t.Fatal("pop() ok = false, want true")
	}
	if c.kind != cmdMergeMaps {
		t.Errorf("pop() kind = %v, want cmdMergeMaps", c.kind)
	}
	if c.target != target || c.source != source {
		t.Error("popped merge command does not carry the pushed target/source pointers")
	}
	q.complete()
}
