// Package bone holds spring bone chain authoring data and the topology
// builder that turns a scene subtree into solver node records.
package bone

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/dynamo"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

// Parameter ranges accepted from authoring data.
const (
	MaxStiffness    = 4.0
	MaxGravityPower = 2.0
	MaxDragForce    = 1.0
	MaxHitRadius    = 0.5
)

// Authoring defaults.
const (
	DefaultStiffness    = 1.0
	DefaultGravityPower = 0.0
	DefaultDragForce    = 0.4
	DefaultHitRadius    = 0.02
)

// ChainConfig is the authoring data of one spring bone chain.
type ChainConfig struct {
	Comment        string
	Stiffness      float32
	GravityPower   float32
	GravityDir     vmath.Vec3
	DragForce      float32
	HitRadius      float32
	RootNodes      []scene.NodeID
	ColliderGroups []collider.GroupConfig
	Center         scene.NodeID
}

// DefaultChainConfig returns a chain with the authoring defaults and no roots.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		Stiffness:    DefaultStiffness,
		GravityPower: DefaultGravityPower,
		GravityDir:   vmath.Down,
		DragForce:    DefaultDragForce,
		HitRadius:    DefaultHitRadius,
	}
}

// Normalized returns c with every parameter clamped into its range.
func (c ChainConfig) Normalized() ChainConfig {
	c.Stiffness = mgl32.Clamp(c.Stiffness, 0, MaxStiffness)
	c.GravityPower = mgl32.Clamp(c.GravityPower, 0, MaxGravityPower)
	c.DragForce = mgl32.Clamp(c.DragForce, 0, MaxDragForce)
	c.HitRadius = mgl32.Clamp(c.HitRadius, 0, MaxHitRadius)
	return c
}

// Validate reports configs that cannot produce any solver node.
func (c ChainConfig) Validate() error {
	if len(c.RootNodes) == 0 {
		return fmt.Errorf("%w: no root nodes", dynamo.ErrInvalidConfig)
	}
	return nil
}

// ActiveGroups returns the collider groups that have spheres.
func (c ChainConfig) ActiveGroups() []collider.GroupConfig {
	out := make([]collider.GroupConfig, 0, len(c.ColliderGroups))
	for _, g := range c.ColliderGroups {
		if g.Active() {
			out = append(out, g)
		}
	}
	return out
}
