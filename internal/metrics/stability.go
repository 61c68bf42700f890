package metrics

import (
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

// Stability is the fraction of frames whose tails are all finite and within
// threshold of their node position.
type Stability struct {
	name       string
	threshold  float32
	violations int
	samples    int
}

func NewStability(threshold float32) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *sim.Frame) {
	s.samples++
	for _, n := range f.Nodes {
		if !vmath.IsFinite(n.Tail) || n.Tail.Sub(n.Position).Len() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Degeneracy counts guarded normalizations over a run.
type Degeneracy struct {
	name  string
	count int
}

func NewDegeneracy() *Degeneracy {
	return &Degeneracy{name: "degenerate"}
}

func (d *Degeneracy) Name() string { return d.name }

func (d *Degeneracy) Observe(f *sim.Frame) { d.count += f.Degenerate }

func (d *Degeneracy) Value() float64 { return float64(d.count) }

func (d *Degeneracy) Reset() { d.count = 0 }
