package sim

import (
	"bytes"
	"context"
	"errors"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/dynamo"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

var _ = Describe("World lifecycle", func() {
	var (
		r *rig
		w *World
	)

	BeforeEach(func() {
		r = newRig()
		w = NewWorld(r.tree, WithWorkers(4))
	})

	Describe("Activate", func() {
		It("allocates one node per bone", func() {
			cfg := chain("hair", r.left[0])
			cfg.ColliderGroups = []collider.GroupConfig{headCollider(r, 0.05)}

			h, err := w.Activate(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Valid()).To(BeTrue())
			Expect(w.NodeCount()).To(Equal(3))
			Expect(w.Registry().Len()).To(Equal(1))

			info, err := w.Chain(h)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Name).To(Equal("hair"))
			Expect(info.Nodes).To(Equal(3))
			Expect(info.Groups).To(Equal(1))
		})

		It("gives every chain its own collider identity", func() {
			a, _ := w.Activate(chain("a", r.left[0]))
			b, _ := w.Activate(chain("b", r.right[0]))

			ia, _ := w.Chain(a)
			ib, _ := w.Chain(b)
			Expect(ia.Identity).NotTo(Equal(ib.Identity))
			Expect(w.Chains()).To(HaveLen(2))
		})

		It("activates multi-root chains", func() {
			h, err := w.Activate(chain("both", r.left[0], r.right[0]))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Valid()).To(BeTrue())
			Expect(w.NodeCount()).To(Equal(6))
		})

		It("silently skips configs without roots", func() {
			h, err := w.Activate(chain("empty"))
			Expect(err).NotTo(HaveOccurred())
			Expect(h).To(Equal(InvalidChain))
			Expect(w.NodeCount()).To(BeZero())
		})

		It("silently skips degenerate rest poses", func() {
			stacked := r.tree.Add(r.single, "stacked", vmath.Vec3{}, vmath.Ident())
			h, err := w.Activate(chain("stacked", stacked))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Valid()).To(BeFalse())
			Expect(w.NodeCount()).To(BeZero())
		})

		It("fails on a missing root without allocating", func() {
			_, err := w.Activate(chain("ghost", 999))
			Expect(err).To(MatchError(dynamo.ErrMissingNode))

			var aerr *dynamo.ActivationError
			Expect(errors.As(err, &aerr)).To(BeTrue())
			Expect(aerr.Chain).To(Equal("ghost"))
			Expect(w.NodeCount()).To(BeZero())
		})

		It("fails on a missing collider anchor without allocating", func() {
			cfg := chain("hair", r.left[0])
			cfg.ColliderGroups = []collider.GroupConfig{{
				Anchor:  999,
				Spheres: []collider.Sphere{{Radius: 0.1}},
			}}

			_, err := w.Activate(cfg)
			Expect(errors.Is(err, dynamo.ErrMissingNode)).To(BeTrue())
			Expect(w.NodeCount()).To(BeZero())
			Expect(w.Registry().Len()).To(BeZero())
		})

		It("fails on a missing center", func() {
			cfg := chain("hair", r.left[0])
			cfg.Center = 999
			_, err := w.Activate(cfg)
			Expect(errors.Is(err, dynamo.ErrMissingNode)).To(BeTrue())
		})

		It("ignores collider groups without spheres", func() {
			cfg := chain("hair", r.left[0])
			cfg.ColliderGroups = []collider.GroupConfig{{Anchor: r.head}}
			_, err := w.Activate(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Registry().Len()).To(BeZero())
		})
	})

	Describe("Deactivate", func() {
		It("releases every slot and collider", func() {
			cfg := chain("hair", r.left[0])
			cfg.ColliderGroups = []collider.GroupConfig{headCollider(r, 0.05)}
			h, _ := w.Activate(cfg)

			Expect(w.Deactivate(h)).To(BeTrue())
			Expect(w.NodeCount()).To(BeZero())
			Expect(w.Registry().Len()).To(BeZero())
			Expect(w.Chains()).To(BeEmpty())
			Expect(w.Stats().Chains).To(BeZero())
		})

		It("rejects stale handles", func() {
			h, _ := w.Activate(chain("hair", r.left[0]))
			Expect(w.Deactivate(h)).To(BeTrue())
			Expect(w.Deactivate(h)).To(BeFalse())
			Expect(w.Deactivate(InvalidChain)).To(BeFalse())

			again, _ := w.Activate(chain("hair", r.left[0]))
			Expect(again).NotTo(Equal(h))
			Expect(w.Deactivate(h)).To(BeFalse())

			_, err := w.Chain(h)
			Expect(err).To(MatchError(dynamo.ErrUnknownChain))
		})

		It("reuses freed slots", func() {
			for i := 0; i < 5; i++ {
				h, _ := w.Activate(chain("hair", r.left[0]))
				Expect(w.Deactivate(h)).To(BeTrue())
			}
			Expect(w.Capacity()).To(Equal(3))
		})

		It("tolerates nodes destroyed by the host", func() {
			h, _ := w.Activate(chain("hair", r.left[0]))
			keep, _ := w.Activate(chain("keep", r.right[0]))
			r.tree.Destroy(r.left[0])

			Expect(w.Step(context.Background(), 1.0/60)).To(Succeed())
			Expect(w.Stats().Skipped).To(Equal(3))
			Expect(w.Stats().Err()).To(MatchError(dynamo.ErrDanglingReference))

			Expect(w.Deactivate(h)).To(BeTrue())
			Expect(w.NodeCount()).To(Equal(3))
			Expect(w.Step(context.Background(), 1.0/60)).To(Succeed())
			Expect(w.Deactivate(keep)).To(BeTrue())
		})

		It("tolerates a destroyed collider anchor", func() {
			cfg := chain("hair", r.left[0])
			cfg.ColliderGroups = []collider.GroupConfig{{
				Anchor:  r.single,
				Spheres: []collider.Sphere{{Radius: 0.1}},
			}}
			h, err := w.Activate(cfg)
			Expect(err).NotTo(HaveOccurred())

			r.tree.Destroy(r.single)
			Expect(w.Step(context.Background(), 1.0/60)).To(Succeed())
			Expect(w.Deactivate(h)).To(BeTrue())
		})
	})

	Describe("Step", func() {
		It("refuses cancelled contexts before the frame", func() {
			w.Activate(chain("hair", r.left[0]))
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(w.Step(ctx, 1.0/60)).To(MatchError(context.Canceled))
			Expect(w.Stats().Frames).To(BeZero())
		})

		It("rejects non-positive timesteps", func() {
			Expect(w.Step(context.Background(), 0)).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("steps an empty world", func() {
			Expect(w.Step(context.Background(), 1.0/60)).To(Succeed())
			Expect(w.Index().Len()).To(BeZero())
			Expect(w.Stats().Err()).NotTo(HaveOccurred())
		})

		It("logs frames that skip destroyed nodes", func() {
			var buf bytes.Buffer
			lw := NewWorld(r.tree, WithLogger(log.New(&buf, "", 0)))
			lw.Activate(chain("hair", r.left[0]))
			r.tree.Destroy(r.left[1])

			Expect(lw.Step(context.Background(), 1.0/60)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("frame 1: "))
			Expect(buf.String()).To(ContainSubstring(dynamo.ErrDanglingReference.Error()))
		})
	})

	Describe("Stats.Err", func() {
		DescribeTable("wraps last-frame problems",
			func(s Stats, want []error) {
				err := s.Err()
				if len(want) == 0 {
					Expect(err).NotTo(HaveOccurred())
					return
				}
				for _, target := range want {
					Expect(errors.Is(err, target)).To(BeTrue(), "missing %v", target)
				}
			},
			Entry("clean frame", Stats{Degenerate: 5}, nil),
			Entry("skipped nodes", Stats{Skipped: 2}, []error{dynamo.ErrDanglingReference}),
			Entry("guarded normalizations", Stats{LastDegenerate: 1}, []error{dynamo.ErrNumericDegeneracy}),
			Entry("both", Stats{Skipped: 1, LastDegenerate: 3},
				[]error{dynamo.ErrDanglingReference, dynamo.ErrNumericDegeneracy}),
		)
	})

	Describe("Close", func() {
		It("tears down every chain", func() {
			w.Activate(chain("a", r.left[0]))
			w.Activate(chain("b", r.right[0]))

			Expect(w.Close()).To(Succeed())
			Expect(w.NodeCount()).To(BeZero())
			Expect(w.Step(context.Background(), 1.0/60)).To(MatchError(dynamo.ErrWorldClosed))

			_, err := w.Activate(chain("c", r.left[0]))
			Expect(err).To(MatchError(dynamo.ErrWorldClosed))
			Expect(w.Close()).To(Succeed())
		})
	})

	It("reports tails by scene node", func() {
		w.Activate(chain("hair", r.left[0]))
		tail, ok := w.Tail(r.left[0])
		Expect(ok).To(BeTrue())
		Expect(vmath.ApproxEqual(tail, r.tree.WorldPosition(r.left[1]), 1e-5)).To(BeTrue())

		_, ok = w.Tail(scene.NodeID(999))
		Expect(ok).To(BeFalse())
	})
})
