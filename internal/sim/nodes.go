package sim

import (
	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

// nodeStore keeps solver nodes as parallel slices indexed by slot.
// Released slots are zeroed and reused before the slices grow.
type nodeStore struct {
	scene        []scene.NodeID
	sceneParent  []scene.NodeID
	parent       []int32
	chain        []uint32
	restLength   []float32
	restAxis     []vmath.Vec3
	restLocalRot []vmath.Quat
	currentTail  []vmath.Vec3
	prevTail     []vmath.Vec3
	rotation     []vmath.Quat

	// refreshed by the pull stage
	position   []vmath.Vec3
	anchorRot  []vmath.Quat
	present    []bool
	worldTail  []vmath.Vec3
	solvedFrom []vmath.Vec3

	alive []bool
	free  []int
	live  int
}

func (s *nodeStore) cap() int { return len(s.alive) }

func (s *nodeStore) alloc() int {
	if n := len(s.free); n > 0 {
		i := s.free[n-1]
		s.free = s.free[:n-1]
		s.alive[i] = true
		s.live++
		return i
	}

	s.scene = append(s.scene, scene.NoNode)
	s.sceneParent = append(s.sceneParent, scene.NoNode)
	s.parent = append(s.parent, -1)
	s.chain = append(s.chain, 0)
	s.restLength = append(s.restLength, 0)
	s.restAxis = append(s.restAxis, vmath.Vec3{})
	s.restLocalRot = append(s.restLocalRot, vmath.Ident())
	s.currentTail = append(s.currentTail, vmath.Vec3{})
	s.prevTail = append(s.prevTail, vmath.Vec3{})
	s.rotation = append(s.rotation, vmath.Ident())
	s.position = append(s.position, vmath.Vec3{})
	s.anchorRot = append(s.anchorRot, vmath.Ident())
	s.present = append(s.present, false)
	s.worldTail = append(s.worldTail, vmath.Vec3{})
	s.solvedFrom = append(s.solvedFrom, vmath.Vec3{})
	s.alive = append(s.alive, true)
	s.live++
	return len(s.alive) - 1
}

// init writes a rest-pose record into slot i.
func (s *nodeStore) init(i int, chain uint32, parent int32, spec bone.NodeSpec, tail vmath.Vec3, rot vmath.Quat) {
	s.scene[i] = spec.Node
	s.sceneParent[i] = spec.SceneParent
	s.parent[i] = parent
	s.chain[i] = chain
	s.restLength[i] = spec.RestLength
	s.restAxis[i] = spec.RestAxis
	s.restLocalRot[i] = spec.RestLocalRotation
	s.currentTail[i] = tail
	s.prevTail[i] = tail
	s.rotation[i] = rot
	s.worldTail[i] = spec.InitialTail
	s.present[i] = true
}

func (s *nodeStore) release(i int) {
	if i < 0 || i >= len(s.alive) || !s.alive[i] {
		return
	}
	s.scene[i] = scene.NoNode
	s.sceneParent[i] = scene.NoNode
	s.parent[i] = -1
	s.chain[i] = 0
	s.restLength[i] = 0
	s.restAxis[i] = vmath.Vec3{}
	s.restLocalRot[i] = vmath.Ident()
	s.currentTail[i] = vmath.Vec3{}
	s.prevTail[i] = vmath.Vec3{}
	s.rotation[i] = vmath.Ident()
	s.position[i] = vmath.Vec3{}
	s.anchorRot[i] = vmath.Ident()
	s.present[i] = false
	s.worldTail[i] = vmath.Vec3{}
	s.solvedFrom[i] = vmath.Vec3{}
	s.alive[i] = false
	s.free = append(s.free, i)
	s.live--
}
