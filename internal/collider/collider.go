// Package collider holds sphere colliders grouped under a collider identity
// and builds the per-frame identity -> world sphere index the solver reads.
package collider

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

// Identity groups the bones and colliders that may interact. Bones only
// test against colliders registered under their own identity.
type Identity uint32

// NoIdentity is never handed out by the runtime.
const NoIdentity Identity = 0

// MaxRadius bounds a sphere's authored radius.
const MaxRadius float32 = 1

// DefaultRadius is the radius of a freshly authored sphere.
const DefaultRadius float32 = 0.1

var ErrEmptyGroup = errors.New("collider: group has no spheres")

// Sphere is a collider authored relative to its group's anchor node.
type Sphere struct {
	Offset vmath.Vec3 `yaml:"offset" json:"offset"`
	Radius float32    `yaml:"radius" json:"radius"`
}

// Clamped returns s with Radius limited to [0, MaxRadius].
func (s Sphere) Clamped() Sphere {
	s.Radius = mgl32.Clamp(s.Radius, 0, MaxRadius)
	return s
}

// GroupConfig is the authoring data of one collider group.
type GroupConfig struct {
	Anchor  scene.NodeID
	Spheres []Sphere
}

// Active reports whether the group has anything to collide with.
func (g GroupConfig) Active() bool { return len(g.Spheres) > 0 }

// WorldSphere is a sphere resolved into world space for one frame.
type WorldSphere struct {
	Position vmath.Vec3
	Radius   float32
}

// GroupID identifies a registered group. IDs are never reused.
type GroupID uint32

// SphereHandle addresses one sphere of a registered group.
type SphereHandle struct {
	Group GroupID
	Index int
}

// Group is a registered collider group. Pose is the anchor's world pose
// as of the last pull.
type Group struct {
	ID       GroupID
	Identity Identity
	Anchor   scene.NodeID
	Spheres  []Sphere
	Pose     vmath.Pose
}

// World resolves sphere i against the group's current pose.
func (g *Group) World(i int) WorldSphere {
	s := g.Spheres[i]
	return WorldSphere{
		Position: g.Pose.Point(s.Offset),
		Radius:   s.Radius,
	}
}
