package bone

import (
	"fmt"

	"github.com/san-kum/springbone/internal/dynamo"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

// LeafExtension is how far past a leaf node its synthesized child target sits.
const LeafExtension = 0.07

// NodeSpec is the rest-pose record of one solver node.
type NodeSpec struct {
	Node scene.NodeID
	// Parent indexes the spec slice; -1 for a root.
	Parent int
	// SceneParent is the host parent of Node. Roots read their parent
	// rotation from it.
	SceneParent       scene.NodeID
	RestLength        float32
	RestAxis          vmath.Vec3
	RestLocalRotation vmath.Quat
	// InitialTail is the world-space child target at activation.
	InitialTail vmath.Vec3
}

// BuildTopology walks root's subtree depth-first and returns one NodeSpec
// per visited node, parents before children.
func BuildTopology(h scene.Hierarchy, root scene.NodeID) ([]NodeSpec, error) {
	if !h.Exists(root) {
		return nil, fmt.Errorf("%w: root %d", dynamo.ErrMissingNode, root)
	}

	var specs []NodeSpec
	var walk func(id scene.NodeID, parent int) error
	walk = func(id scene.NodeID, parent int) error {
		spec, err := buildNode(h, id, parent)
		if err != nil {
			return err
		}
		idx := len(specs)
		specs = append(specs, spec)
		for _, child := range h.Children(id) {
			if err := walk(child, idx); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, -1); err != nil {
		return nil, err
	}
	return specs, nil
}

// BuildChain runs BuildTopology for every root and concatenates the results,
// rebasing parent indices.
func BuildChain(h scene.Hierarchy, roots []scene.NodeID) ([]NodeSpec, error) {
	var all []NodeSpec
	for _, root := range roots {
		specs, err := BuildTopology(h, root)
		if err != nil {
			return nil, &dynamo.ActivationError{Root: uint32(root), Wrapped: err}
		}
		base := len(all)
		for _, s := range specs {
			if s.Parent >= 0 {
				s.Parent += base
			}
			all = append(all, s)
		}
	}
	return all, nil
}

func buildNode(h scene.Hierarchy, id scene.NodeID, parent int) (NodeSpec, error) {
	sceneParent, _ := h.Parent(id)
	world := h.WorldMatrix(id)

	localChild, err := childTarget(h, id, sceneParent, world)
	if err != nil {
		return NodeSpec{}, err
	}

	axis, ok := vmath.SafeNormalize(localChild)
	if !ok {
		return NodeSpec{}, fmt.Errorf("%w: node %d", dynamo.ErrDegenerateRestPose, id)
	}

	return NodeSpec{
		Node:              id,
		Parent:            parent,
		SceneParent:       sceneParent,
		RestLength:        localChild.Len(),
		RestAxis:          axis,
		RestLocalRotation: h.LocalRotation(id),
		InitialTail:       vmath.TransformPoint(world, localChild),
	}, nil
}

// childTarget returns the node-local position the bone points at.
func childTarget(h scene.Hierarchy, id, sceneParent scene.NodeID, world vmath.Mat4) (vmath.Vec3, error) {
	children := h.Children(id)
	if len(children) > 0 {
		first := children[0]
		lp := h.LocalPosition(first)
		s := h.LossyScale(first)
		return vmath.Vec3{lp[0] * s[0], lp[1] * s[1], lp[2] * s[2]}, nil
	}

	if sceneParent == scene.NoNode {
		return vmath.Vec3{}, fmt.Errorf("%w: leaf %d has no parent", dynamo.ErrDegenerateRestPose, id)
	}
	pos := h.WorldPosition(id)
	dir, ok := vmath.SafeNormalize(pos.Sub(h.WorldPosition(sceneParent)))
	if !ok {
		return vmath.Vec3{}, fmt.Errorf("%w: leaf %d coincides with its parent", dynamo.ErrDegenerateRestPose, id)
	}
	child := pos.Add(dir.Mul(LeafExtension))
	return vmath.TransformPoint(world.Inv(), child), nil
}
