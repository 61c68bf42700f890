package sim

import (
	"context"
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

const dt = float32(1.0 / 60)

func stepN(w *World, n int) {
	for i := 0; i < n; i++ {
		Expect(w.Step(context.Background(), dt)).To(Succeed())
	}
}

var _ = Describe("Frame pipeline", func() {
	var r *rig

	BeforeEach(func() {
		r = newRig()
	})

	It("keeps a chain at rest without external forces", func() {
		w := NewWorld(r.tree)
		w.Activate(chain("hair", r.left[0]))
		before := r.tree.WorldPosition(r.left[2])

		stepN(w, 30)

		tail, _ := w.Tail(r.left[0])
		Expect(vmath.ApproxEqual(tail, r.tree.WorldPosition(r.left[1]), 1e-4)).To(BeTrue())
		Expect(vmath.ApproxEqual(r.tree.WorldPosition(r.left[2]), before, 1e-4)).To(BeTrue())
	})

	It("keeps a chain at rest under a rotated parent", func() {
		r.tree.SetLocalRotation(r.head, mgl32.QuatRotate(0.6, vmath.Vec3{0, 0, 1}))
		w := NewWorld(r.tree)
		w.Activate(chain("hair", r.left[0]))
		before := r.tree.WorldPosition(r.left[2])

		stepN(w, 30)

		tail, _ := w.Tail(r.left[0])
		Expect(vmath.ApproxEqual(tail, r.tree.WorldPosition(r.left[1]), 1e-4)).To(BeTrue())
		Expect(vmath.ApproxEqual(r.tree.WorldPosition(r.left[2]), before, 1e-4)).To(BeTrue())
	})

	It("holds every bone at its rest length", func() {
		w := NewWorld(r.tree, WithWorkers(3))
		cfg := chain("hair", r.left[0], r.right[0])
		cfg.GravityPower = 1
		cfg.DragForce = 0.1
		cfg.ColliderGroups = []collider.GroupConfig{headCollider(r, 0.08)}
		w.Activate(cfg)

		for i := 0; i < 60; i++ {
			r.tree.SetLocalPosition(r.hips, vmath.Vec3{float32(math.Sin(float64(i) * 0.2)), 0, 0})
			stepN(w, 1)
			for _, n := range w.NodeStates(nil) {
				Expect(n.Tail.Sub(n.Position).Len()).To(BeNumerically("~", n.RestLength, 1e-4))
			}
		}
	})

	It("bends under gravity and writes rotations back", func() {
		tree := scene.NewTree()
		hips := tree.Add(scene.NoNode, "hips", vmath.Vec3{}, vmath.Ident())
		a := tree.Add(hips, "a", vmath.Vec3{0.1, 0, 0}, vmath.Ident())
		b := tree.Add(a, "b", vmath.Vec3{0.1, 0, 0}, vmath.Ident())
		tree.Add(b, "c", vmath.Vec3{0.1, 0, 0}, vmath.Ident())

		w := NewWorld(tree)
		cfg := chain("arm", a)
		cfg.Stiffness = 0.2
		cfg.GravityPower = 2
		w.Activate(cfg)
		startRot := tree.WorldRotation(a)
		startTip := tree.WorldPosition(b)

		stepN(w, 120)

		tail, _ := w.Tail(a)
		Expect(tail.Y()).To(BeNumerically("<", -0.01))
		Expect(tree.WorldPosition(b).Y()).To(BeNumerically("<", startTip.Y()-0.01))
		Expect(vmath.SameRotation(tree.WorldRotation(a), startRot, 1e-3)).To(BeFalse())
		// the pushed rotation points the bone at its tail
		Expect(vmath.ApproxEqual(tree.WorldPosition(b), tail, 1e-4)).To(BeTrue())
	})

	It("pushes tails out of same-identity colliders", func() {
		w := NewWorld(r.tree)
		cfg := chain("hair", r.left[0])
		cfg.HitRadius = 0.01
		cfg.ColliderGroups = []collider.GroupConfig{{
			Anchor:  r.left[0],
			Spheres: []collider.Sphere{{Offset: vmath.Vec3{0.02, -0.1, 0}, Radius: 0.05}},
		}}
		w.Activate(cfg)
		stepN(w, 1)

		tail, _ := w.Tail(r.left[0])
		center := r.tree.WorldPosition(r.left[0]).Add(vmath.Vec3{0.02, -0.1, 0})
		Expect(tail.Sub(center).Len()).To(BeNumerically(">", 0.02))
	})

	It("isolates collider identities", func() {
		run := func(withOther bool) vmath.Vec3 {
			rr := newRig()
			w := NewWorld(rr.tree)
			cfg := chain("target", rr.left[0])
			cfg.GravityPower = 0.5
			w.Activate(cfg)
			if withOther {
				other := chain("other", rr.right[0])
				other.ColliderGroups = []collider.GroupConfig{{
					Anchor:  rr.left[1],
					Spheres: []collider.Sphere{{Radius: 0.5}},
				}}
				w.Activate(other)
			}
			stepN(w, 20)
			tail, _ := w.Tail(rr.left[1])
			return tail
		}

		Expect(cmp.Diff(run(false), run(true))).To(BeEmpty())
	})

	It("keeps colliders of another world out of its index", func() {
		ra, rb := newRig(), newRig()
		a := NewWorld(ra.tree)
		b := NewWorld(rb.tree)
		ha, err := a.Activate(chain("a", ra.left[0]))
		Expect(err).NotTo(HaveOccurred())
		cfg := chain("b", rb.left[0])
		cfg.ColliderGroups = []collider.GroupConfig{headCollider(rb, 0.1)}
		hb, err := b.Activate(cfg)
		Expect(err).NotTo(HaveOccurred())

		infoA, _ := a.Chain(ha)
		infoB, _ := b.Chain(hb)
		Expect(infoA.Identity).To(Equal(infoB.Identity))
		Expect(a.Registry()).NotTo(BeIdenticalTo(b.Registry()))

		stepN(a, 1)
		stepN(b, 1)
		Expect(a.Index().Len()).To(BeZero())
		Expect(a.Index().Lookup(infoA.Identity)).To(BeEmpty())
		Expect(b.Index().Lookup(infoB.Identity)).To(HaveLen(1))
	})

	It("writes anchor poses into the registry", func() {
		w := NewWorld(r.tree)
		cfg := chain("hair", r.left[0])
		cfg.ColliderGroups = []collider.GroupConfig{headCollider(r, 0.1)}
		w.Activate(cfg)
		r.tree.SetLocalPosition(r.head, vmath.Vec3{0, 1.7, 0})
		stepN(w, 1)

		groups := w.Registry().Ordered()
		Expect(groups).To(HaveLen(1))
		Expect(vmath.ApproxEqual(groups[0].Pose.Position, vmath.Vec3{0, 1.7, 0}, 1e-5)).To(BeTrue())
	})

	It("solves nodes independently of order", func() {
		w := NewWorld(r.tree)
		cfg := chain("hair", r.left[0], r.right[0])
		cfg.GravityPower = 1
		cfg.ColliderGroups = []collider.GroupConfig{headCollider(r, 0.06)}
		w.Activate(cfg)
		r.tree.SetLocalRotation(r.head, mgl32.QuatRotate(0.3, vmath.Vec3{0, 0, 1}))
		stepN(w, 10)

		w.mu.Lock()
		defer w.mu.Unlock()
		w.pull(2)
		w.index = collider.BuildIndex(w.registry.Ordered(), 2)
		snap := w.snaps.Get(w.nodes.cap())
		w.freeze(snap, 1)
		base := saveNodes(w)

		solveWith := func(fn func()) nodeBuffers {
			restoreNodes(w, base)
			fn()
			return saveNodes(w)
		}
		n := len(snap.position)
		forward := solveWith(func() {
			for i := 0; i < n; i++ {
				w.solveNode(snap, i, dt)
			}
		})
		reversed := solveWith(func() {
			for i := n - 1; i >= 0; i-- {
				w.solveNode(snap, i, dt)
			}
		})
		parallel := solveWith(func() { w.solve(snap, dt, 8) })

		Expect(cmp.Diff(forward, reversed)).To(BeEmpty())
		Expect(cmp.Diff(forward, parallel)).To(BeEmpty())
		Expect(cmp.Diff(base, forward)).NotTo(BeEmpty())
	})

	It("lags children by one frame", func() {
		w := NewWorld(r.tree)
		cfg := chain("hair", r.left[0])
		cfg.GravityPower = 2
		cfg.Stiffness = 0
		w.Activate(cfg)
		parentBefore, _ := w.Tail(r.left[0])

		stepN(w, 1)

		states := w.NodeStates(nil)
		Expect(states).To(HaveLen(3))
		Expect(states[1].Node).To(Equal(r.left[1]))
		Expect(states[1].Position).To(Equal(parentBefore))
	})

	It("carries center-space tails with the center", func() {
		move := func(center scene.NodeID) float32 {
			rr := newRig()
			w := NewWorld(rr.tree)
			cfg := chain("hair", rr.left[0])
			cfg.DragForce = 0
			if center != scene.NoNode {
				cfg.Center = rr.hips
			}
			w.Activate(cfg)
			stepN(w, 2)

			rr.tree.SetLocalPosition(rr.hips, vmath.Vec3{1, 0, 0})
			stepN(w, 1)

			tail, _ := w.Tail(rr.left[0])
			rest := rr.tree.WorldPosition(rr.left[0]).Add(vmath.Vec3{0, -0.1, 0})
			return tail.Sub(rest).Len()
		}

		Expect(move(1)).To(BeNumerically("<", 1e-4))
		Expect(move(scene.NoNode)).To(BeNumerically(">", 0.01))
	})

	It("counts frames and degeneracies", func() {
		w := NewWorld(r.tree)
		cfg := chain("hair", r.left[0])
		cfg.ColliderGroups = []collider.GroupConfig{{
			Anchor:  r.left[1],
			Spheres: []collider.Sphere{{Radius: 0.01}},
		}}
		w.Activate(cfg)
		stepN(w, 3)

		s := w.Stats()
		Expect(s.Frames).To(BeEquivalentTo(3))
		Expect(s.Nodes).To(Equal(3))
		Expect(s.Spheres).To(Equal(1))
		Expect(s.Degenerate).To(BeNumerically(">=", 1))
	})
})
