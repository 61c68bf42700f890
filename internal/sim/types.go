package sim

import (
	"time"

	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

// NodeState is one solver node as seen after a frame.
type NodeState struct {
	Chain      ChainHandle
	Node       scene.NodeID
	Identity   collider.Identity
	Position   vmath.Vec3
	Tail       vmath.Vec3
	RestLength float32
	HitRadius  float32
}

// Frame is a copy of the world state after one Step, handed to metrics
// and observers.
type Frame struct {
	Time       float64
	Dt         float64
	Nodes      []NodeState
	Index      *collider.Index
	Degenerate int
}

// Animator moves the host scene before each frame.
type Animator interface {
	Animate(t float64)
}

type AnimatorFunc func(t float64)

func (f AnimatorFunc) Animate(t float64) { f(t) }

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

// Track names a scene node whose tail is sampled every frame.
type Track struct {
	Node  scene.NodeID
	Label string
}

type Config struct {
	Dt       float64
	Duration float64
	Track    []Track
}

type Result struct {
	Times      []float64
	Labels     []string
	Tails      [][]vmath.Vec3
	Metrics    map[string]float64
	FrameTimes []time.Duration
	StepsTaken int
	Stats      Stats
}

// Series returns the per-frame values of one tail component for track i.
func (r *Result) Series(i, axis int) []float64 {
	out := make([]float64, len(r.Tails))
	for f, row := range r.Tails {
		if i < len(row) {
			out[f] = float64(row[i][axis])
		}
	}
	return out
}
