package metrics

import (
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

// TailSpeed is the mean tail speed over all nodes and frames, in units
// per second.
type TailSpeed struct {
	name    string
	prev    map[scene.NodeID]vmath.Vec3
	total   float64
	samples int
	last    float64
}

func NewTailSpeed() *TailSpeed {
	return &TailSpeed{
		name: "tail_speed",
		prev: make(map[scene.NodeID]vmath.Vec3),
	}
}

func (s *TailSpeed) Name() string { return s.name }

func (s *TailSpeed) Observe(f *sim.Frame) {
	if f.Dt <= 0 {
		return
	}
	frame, count := 0.0, 0
	for _, n := range f.Nodes {
		if p, ok := s.prev[n.Node]; ok {
			frame += float64(n.Tail.Sub(p).Len()) / f.Dt
			count++
		}
		s.prev[n.Node] = n.Tail
	}
	s.total += frame
	s.samples += count
	if count > 0 {
		s.last = frame / float64(count)
	}
}

// Last is the mean tail speed of the most recent frame.
func (s *TailSpeed) Last() float64 { return s.last }

func (s *TailSpeed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *TailSpeed) Reset() {
	clear(s.prev)
	s.total = 0
	s.samples = 0
	s.last = 0
}

// KineticEnergy is the mean per-frame sum of 0.5*v^2 over all tails, with
// unit mass per tail.
type KineticEnergy struct {
	name    string
	prev    map[scene.NodeID]vmath.Vec3
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
		prev: make(map[scene.NodeID]vmath.Vec3),
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *sim.Frame) {
	if f.Dt <= 0 {
		return
	}
	var ke float64
	seen := false
	for _, n := range f.Nodes {
		if p, ok := e.prev[n.Node]; ok {
			v := float64(n.Tail.Sub(p).Len()) / f.Dt
			ke += 0.5 * v * v
			seen = true
		}
		e.prev[n.Node] = n.Tail
	}
	if seen {
		e.total += ke
		e.samples++
	}
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	clear(e.prev)
	e.total = 0
	e.samples = 0
}
