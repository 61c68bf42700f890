// Package scene defines the boundary to the host transform hierarchy and
// ships an in-memory host, [Tree], for tests and the demo rigs.
//
// The spring bone runtime never holds pointers into host memory. It keeps
// [NodeID] handles and goes through [Graph] for every read and write.
package scene

import "github.com/san-kum/springbone/internal/vmath"

// NodeID identifies a host scene node. The zero value is never a node.
type NodeID uint32

// NoNode is the zero NodeID.
const NoNode NodeID = 0

// Graph is the per-frame surface the runtime needs from the host.
//
// Reads may be issued concurrently for any nodes. SetWorldRotation is
// issued concurrently only for nodes in disjoint subtrees, and within one
// subtree parents are always written before their children.
type Graph interface {
	Exists(id NodeID) bool
	WorldPosition(id NodeID) vmath.Vec3
	WorldRotation(id NodeID) vmath.Quat
	SetWorldRotation(id NodeID, q vmath.Quat)
}

// Hierarchy adds the structural queries used once, when a chain is built.
type Hierarchy interface {
	Graph
	Parent(id NodeID) (NodeID, bool)
	Children(id NodeID) []NodeID
	LocalPosition(id NodeID) vmath.Vec3
	LocalRotation(id NodeID) vmath.Quat
	LossyScale(id NodeID) vmath.Vec3
	WorldMatrix(id NodeID) vmath.Mat4
}
