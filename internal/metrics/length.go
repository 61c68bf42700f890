package metrics

import (
	"math"

	"github.com/san-kum/springbone/internal/sim"
)

// LengthError is the largest deviation of |tail - position| from the rest
// length seen over a run.
type LengthError struct {
	name string
	max  float64
}

func NewLengthError() *LengthError {
	return &LengthError{name: "length_error"}
}

func (l *LengthError) Name() string { return l.name }

func (l *LengthError) Observe(f *sim.Frame) {
	for _, n := range f.Nodes {
		d := math.Abs(float64(n.Tail.Sub(n.Position).Len() - n.RestLength))
		l.max = math.Max(l.max, d)
	}
}

func (l *LengthError) Value() float64 { return l.max }

func (l *LengthError) Reset() { l.max = 0 }
