package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/springbone/internal/vmath"
)

type treeNode struct {
	name     string
	parent   NodeID
	children []NodeID
	pos      vmath.Vec3
	rot      vmath.Quat
	scale    vmath.Vec3
	alive    bool
}

// Tree is a simple transform hierarchy: every node has a local position,
// rotation and scale relative to its parent.
//
// Structural changes (Add, Destroy) must not overlap a frame. Transform
// reads and writes follow the Graph contract.
type Tree struct {
	nodes []treeNode
	names map[string]NodeID
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		nodes: make([]treeNode, 1, 64), // slot 0 is NoNode
		names: make(map[string]NodeID),
	}
}

// Add creates a node under parent (NoNode for a scene root).
func (t *Tree) Add(parent NodeID, name string, localPos vmath.Vec3, localRot vmath.Quat) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{
		name:   name,
		parent: parent,
		pos:    localPos,
		rot:    localRot.Normalize(),
		scale:  vmath.Vec3{1, 1, 1},
		alive:  true,
	})
	if parent != NoNode && t.Exists(parent) {
		p := &t.nodes[parent]
		p.children = append(p.children, id)
	} else {
		t.nodes[id].parent = NoNode
	}
	if name != "" {
		t.names[name] = id
	}
	return id
}

// Destroy removes id and its whole subtree. Destroying a missing node is a no-op.
func (t *Tree) Destroy(id NodeID) {
	if !t.Exists(id) {
		return
	}
	if p := t.nodes[id].parent; p != NoNode && t.Exists(p) {
		kids := t.nodes[p].children
		for i, c := range kids {
			if c == id {
				t.nodes[p].children = append(kids[:i:i], kids[i+1:]...)
				break
			}
		}
	}
	t.destroySubtree(id)
}

func (t *Tree) destroySubtree(id NodeID) {
	n := &t.nodes[id]
	for _, c := range n.children {
		t.destroySubtree(c)
	}
	if t.names[n.name] == id {
		delete(t.names, n.name)
	}
	n.alive = false
	n.children = nil
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	count := 0
	for i := 1; i < len(t.nodes); i++ {
		if t.nodes[i].alive {
			count++
		}
	}
	return count
}

// Find looks a node up by name.
func (t *Tree) Find(name string) (NodeID, bool) {
	id, ok := t.names[name]
	return id, ok && t.Exists(id)
}

// Name returns the node's name.
func (t *Tree) Name(id NodeID) string {
	if !t.Exists(id) {
		return ""
	}
	return t.nodes[id].name
}

func (t *Tree) Exists(id NodeID) bool {
	return id != NoNode && int(id) < len(t.nodes) && t.nodes[id].alive
}

func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	if !t.Exists(id) {
		return NoNode, false
	}
	p := t.nodes[id].parent
	return p, p != NoNode
}

func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Exists(id) {
		return nil
	}
	return t.nodes[id].children
}

func (t *Tree) LocalPosition(id NodeID) vmath.Vec3 {
	if !t.Exists(id) {
		return vmath.Vec3{}
	}
	return t.nodes[id].pos
}

func (t *Tree) LocalRotation(id NodeID) vmath.Quat {
	if !t.Exists(id) {
		return vmath.Ident()
	}
	return t.nodes[id].rot
}

// SetLocalPosition moves id relative to its parent.
func (t *Tree) SetLocalPosition(id NodeID, p vmath.Vec3) {
	if t.Exists(id) {
		t.nodes[id].pos = p
	}
}

// SetLocalRotation rotates id relative to its parent.
func (t *Tree) SetLocalRotation(id NodeID, q vmath.Quat) {
	if t.Exists(id) {
		t.nodes[id].rot = q.Normalize()
	}
}

// SetLocalScale scales id and, through it, its subtree.
func (t *Tree) SetLocalScale(id NodeID, s vmath.Vec3) {
	if t.Exists(id) {
		t.nodes[id].scale = s
	}
}

// LossyScale approximates the accumulated world scale as the component-wise
// product of local scales up to the root.
func (t *Tree) LossyScale(id NodeID) vmath.Vec3 {
	s := vmath.Vec3{1, 1, 1}
	for cur := id; t.Exists(cur); cur = t.nodes[cur].parent {
		ls := t.nodes[cur].scale
		s = vmath.Vec3{s[0] * ls[0], s[1] * ls[1], s[2] * ls[2]}
	}
	return s
}

func (t *Tree) localMatrix(id NodeID) vmath.Mat4 {
	n := &t.nodes[id]
	return vmath.TRS(n.pos, n.rot, n.scale)
}

func (t *Tree) WorldMatrix(id NodeID) vmath.Mat4 {
	if !t.Exists(id) {
		return mgl32.Ident4()
	}
	m := t.localMatrix(id)
	for cur := t.nodes[id].parent; t.Exists(cur); cur = t.nodes[cur].parent {
		m = t.localMatrix(cur).Mul4(m)
	}
	return m
}

func (t *Tree) WorldPosition(id NodeID) vmath.Vec3 {
	if !t.Exists(id) {
		return vmath.Vec3{}
	}
	return t.WorldMatrix(id).Col(3).Vec3()
}

func (t *Tree) WorldRotation(id NodeID) vmath.Quat {
	q := vmath.Ident()
	for cur := id; t.Exists(cur); cur = t.nodes[cur].parent {
		q = t.nodes[cur].rot.Mul(q)
	}
	return q.Normalize()
}

// SetWorldRotation stores q as the node's world rotation by converting it
// into the parent's frame.
func (t *Tree) SetWorldRotation(id NodeID, q vmath.Quat) {
	if !t.Exists(id) {
		return
	}
	parentRot := t.WorldRotation(t.nodes[id].parent)
	t.nodes[id].rot = parentRot.Conjugate().Mul(q).Normalize()
}

// Walk visits id and its subtree depth-first, parents before children.
func (t *Tree) Walk(id NodeID, fn func(NodeID)) {
	if !t.Exists(id) {
		return
	}
	fn(id)
	for _, c := range t.nodes[id].children {
		t.Walk(c, fn)
	}
}

var _ Hierarchy = (*Tree)(nil)
