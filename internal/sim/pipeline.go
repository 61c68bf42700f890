package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/dynamo"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/solver"
	"github.com/san-kum/springbone/internal/vmath"
)

// Step advances every active chain by dt seconds:
//
//	pull      scene -> node positions, collider anchors, center frames
//	index     world spheres bucketed by collider identity
//	snapshot  parent tails and rotations from the previous solve
//	solve     every node in parallel
//	push      node rotations -> scene, parent first within a chain
//
// ctx is only checked before the frame starts; a started frame always
// completes.
func (w *World) Step(ctx context.Context, dt float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !(dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", dynamo.ErrInvalidConfig, dt)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return dynamo.ErrWorldClosed
	}

	start := time.Now()
	workers := dynamo.Workers(w.workers)

	skipped := w.pull(workers)
	w.index = collider.BuildIndex(w.registry.Ordered(), workers)

	snap := w.snaps.Get(w.nodes.cap())
	w.freeze(snap, workers)
	degenerate := w.solve(snap, dt, workers)
	w.snaps.Put(snap)

	w.push(workers)

	w.stats.Frames++
	w.stats.Skipped = skipped
	w.stats.LastDegenerate = degenerate
	w.stats.Degenerate += uint64(degenerate)
	w.stats.LastFrame = time.Since(start)
	if err := w.stats.Err(); err != nil {
		w.logger.Printf("frame %d: %v", w.stats.Frames, err)
	}
	return nil
}

// pull copies host transforms into the node store, the collider groups and
// the chain center frames. It returns the number of live nodes whose scene
// node is gone.
func (w *World) pull(workers int) int {
	var skipped atomic.Int64
	var g errgroup.Group

	g.Go(func() error {
		n := w.nodes.cap()
		dynamo.ParallelFor(n, dynamo.DefaultMinChunk, workers, func(start, end int) {
			var missing int64
			for i := start; i < end; i++ {
				if !w.nodes.alive[i] {
					continue
				}
				id := w.nodes.scene[i]
				if !w.graph.Exists(id) {
					w.nodes.present[i] = false
					missing++
					continue
				}
				w.nodes.present[i] = true
				w.nodes.position[i] = w.graph.WorldPosition(id)
				if w.nodes.parent[i] < 0 {
					w.nodes.anchorRot[i] = w.rootParentRotation(w.nodes.sceneParent[i])
				}
			}
			skipped.Add(missing)
		})
		return nil
	})

	g.Go(func() error {
		groups := w.registry.Ordered()
		dynamo.ParallelFor(len(groups), dynamo.DefaultMinChunk, workers, func(start, end int) {
			for _, grp := range groups[start:end] {
				if !w.graph.Exists(grp.Anchor) {
					continue
				}
				w.registry.SetAnchorPose(grp.ID, vmath.Pose{
					Position: w.graph.WorldPosition(grp.Anchor),
					Rotation: w.graph.WorldRotation(grp.Anchor),
				})
			}
		})
		return nil
	})

	g.Go(func() error {
		for i := range w.chains {
			rec := &w.chains[i]
			if !rec.alive || rec.center == scene.NoNode || !w.graph.Exists(rec.center) {
				continue
			}
			rec.frame = vmath.NewFrame(w.graph.WorldMatrix(rec.center))
		}
		return nil
	})

	_ = g.Wait()
	return int(skipped.Load())
}

func (w *World) rootParentRotation(parent scene.NodeID) vmath.Quat {
	if parent == scene.NoNode || !w.graph.Exists(parent) {
		return vmath.Ident()
	}
	return w.graph.WorldRotation(parent)
}

// freeze records each node's position and parent rotation. Children read
// their parent's tail and rotation as left by the previous solve.
func (w *World) freeze(snap *snapshot, workers int) {
	dynamo.ParallelFor(len(snap.position), dynamo.DefaultMinChunk, workers, func(start, end int) {
		for i := start; i < end; i++ {
			snap.degen[i] = 0
			if !w.nodes.alive[i] {
				snap.position[i] = vmath.Vec3{}
				snap.parentRot[i] = vmath.Ident()
				continue
			}
			p := w.nodes.parent[i]
			if p < 0 {
				snap.position[i] = w.nodes.position[i]
				snap.parentRot[i] = w.nodes.anchorRot[i]
				continue
			}
			rec := &w.chains[w.nodes.chain[i]]
			tail := w.nodes.currentTail[p]
			if rec.center != scene.NoNode {
				tail = rec.frame.World(tail)
			}
			snap.position[i] = tail
			snap.parentRot[i] = w.nodes.rotation[p]
		}
	})
}

// solve runs the spring step for every live node. Each node reads only the
// snapshot and its own state, and writes only its own state.
func (w *World) solve(snap *snapshot, dt float32, workers int) int {
	dynamo.ParallelFor(len(snap.position), dynamo.DefaultMinChunk, workers, func(start, end int) {
		for i := start; i < end; i++ {
			w.solveNode(snap, i, dt)
		}
	})

	var total int
	for _, d := range snap.degen {
		total += int(d)
	}
	return total
}

func (w *World) solveNode(snap *snapshot, i int, dt float32) {
	if !w.nodes.alive[i] || !w.nodes.present[i] {
		return
	}
	rec := &w.chains[w.nodes.chain[i]]
	in := solver.Input{
		Position:          snap.position[i],
		ParentRotation:    snap.parentRot[i],
		RestLocalRotation: w.nodes.restLocalRot[i],
		RestAxis:          w.nodes.restAxis[i],
		RestLength:        w.nodes.restLength[i],
		CurrentTail:       w.nodes.currentTail[i],
		PrevTail:          w.nodes.prevTail[i],
	}
	if rec.center != scene.NoNode {
		in.Center = &rec.frame
	}

	out := solver.Step(rec.params, in, w.index.Lookup(rec.identity), dt)

	w.nodes.currentTail[i] = out.CurrentTail
	w.nodes.prevTail[i] = out.PrevTail
	w.nodes.rotation[i] = out.Rotation
	w.nodes.worldTail[i] = out.WorldTail
	w.nodes.solvedFrom[i] = in.Position
	snap.degen[i] = int32(out.Degenerate)
}

// push writes rotations back to the scene. Chains run in parallel; nodes
// within a chain are written parent first.
func (w *World) push(workers int) {
	dynamo.ParallelFor(len(w.chains), 1, workers, func(start, end int) {
		for c := start; c < end; c++ {
			rec := &w.chains[c]
			if !rec.alive {
				continue
			}
			for _, i := range rec.slots {
				if !w.nodes.present[i] || !w.graph.Exists(w.nodes.scene[i]) {
					continue
				}
				w.graph.SetWorldRotation(w.nodes.scene[i], w.nodes.rotation[i])
			}
		}
	})
}

// Index returns the collision index built by the last frame.
func (w *World) Index() *collider.Index {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index
}
