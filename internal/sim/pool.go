package sim

import (
	"sync"

	"github.com/san-kum/springbone/internal/vmath"
)

// snapshot holds the per-slot solver inputs frozen before the solve stage.
type snapshot struct {
	position  []vmath.Vec3
	parentRot []vmath.Quat
	degen     []int32
}

type snapshotPool struct {
	pool sync.Pool
}

func newSnapshotPool() *snapshotPool {
	return &snapshotPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &snapshot{}
			},
		},
	}
}

// Get returns a snapshot sized for n slots. Contents are unspecified; the
// snapshot stage overwrites every slot.
func (p *snapshotPool) Get(n int) *snapshot {
	s := p.pool.Get().(*snapshot)
	if cap(s.position) < n {
		s.position = make([]vmath.Vec3, n)
		s.parentRot = make([]vmath.Quat, n)
		s.degen = make([]int32, n)
	}
	s.position = s.position[:n]
	s.parentRot = s.parentRot[:n]
	s.degen = s.degen[:n]
	return s
}

func (p *snapshotPool) Put(s *snapshot) {
	p.pool.Put(s)
}
