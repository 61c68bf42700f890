package metrics

import (
	"math"

	"github.com/san-kum/springbone/internal/sim"
)

// Penetration is the deepest a tail has been inside a collider of its own
// identity, after resolution. The expanded radius includes the chain's
// hit radius.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(f *sim.Frame) {
	for _, n := range f.Nodes {
		for _, s := range f.Index.Lookup(n.Identity) {
			depth := float64(s.Radius+n.HitRadius) - float64(n.Tail.Sub(s.Position).Len())
			p.max = math.Max(p.max, depth)
		}
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }
