package sim

import (
	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

// rig is a hips/head skeleton with two three-bone strands hanging off
// the head.
type rig struct {
	tree   *scene.Tree
	hips   scene.NodeID
	head   scene.NodeID
	left   []scene.NodeID
	right  []scene.NodeID
	single scene.NodeID
}

func newRig() *rig {
	t := scene.NewTree()
	r := &rig{tree: t}
	r.hips = t.Add(scene.NoNode, "hips", vmath.Vec3{}, vmath.Ident())
	r.head = t.Add(r.hips, "head", vmath.Vec3{0, 1.5, 0}, vmath.Ident())
	r.left = strand(t, r.head, "left", vmath.Vec3{-0.1, 0, 0})
	r.right = strand(t, r.head, "right", vmath.Vec3{0.1, 0, 0})
	r.single = t.Add(r.hips, "single", vmath.Vec3{0, 0.5, 0}, vmath.Ident())
	return r
}

func strand(t *scene.Tree, parent scene.NodeID, name string, offset vmath.Vec3) []scene.NodeID {
	a := t.Add(parent, name+"0", offset, vmath.Ident())
	b := t.Add(a, name+"1", vmath.Vec3{0, -0.1, 0}, vmath.Ident())
	c := t.Add(b, name+"2", vmath.Vec3{0, -0.1, 0}, vmath.Ident())
	return []scene.NodeID{a, b, c}
}

func chain(name string, roots ...scene.NodeID) bone.ChainConfig {
	cfg := bone.DefaultChainConfig()
	cfg.Comment = name
	cfg.RootNodes = roots
	return cfg
}

func headCollider(r *rig, radius float32) collider.GroupConfig {
	return collider.GroupConfig{
		Anchor:  r.head,
		Spheres: []collider.Sphere{{Offset: vmath.Vec3{0, -0.1, 0}, Radius: radius}},
	}
}

type nodeBuffers struct {
	Current []vmath.Vec3
	Prev    []vmath.Vec3
	Rot     []vmath.Quat
}

func saveNodes(w *World) nodeBuffers {
	return nodeBuffers{
		Current: append([]vmath.Vec3(nil), w.nodes.currentTail...),
		Prev:    append([]vmath.Vec3(nil), w.nodes.prevTail...),
		Rot:     append([]vmath.Quat(nil), w.nodes.rotation...),
	}
}

func restoreNodes(w *World, b nodeBuffers) {
	copy(w.nodes.currentTail, b.Current)
	copy(w.nodes.prevTail, b.Prev)
	copy(w.nodes.rotation, b.Rot)
}
