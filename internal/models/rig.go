// Package models builds demo characters on a scene.Tree together with the
// spring bone chains that animate their hair, tails and skirts.
package models

import (
	"fmt"
	"math"

	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

// Options shape every rig. Unused fields are ignored by a model.
type Options struct {
	Strands        int     `yaml:"strands" json:"strands"`
	Segments       int     `yaml:"segments" json:"segments"`
	SegmentLength  float32 `yaml:"segment_length" json:"segment_length"`
	ColliderRadius float32 `yaml:"collider_radius" json:"collider_radius"`
	UseCenter      bool    `yaml:"use_center" json:"use_center"`
	// crowd layout, after the sample scene construction
	Count  int     `yaml:"count" json:"count"`
	Width  float32 `yaml:"width" json:"width"`
	Height float32 `yaml:"height" json:"height"`
	Sway   Sway    `yaml:"sway" json:"sway"`
}

// Sway moves a character root side to side and turns it about the up axis.
type Sway struct {
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Turn      float64 `yaml:"turn" json:"turn"`
}

func DefaultOptions() Options {
	return Options{
		Strands:        6,
		Segments:       4,
		SegmentLength:  0.08,
		ColliderRadius: 0.1,
		Count:          3,
		Width:          18,
		Height:         18,
		Sway:           Sway{Amplitude: 0.3, Frequency: 0.5, Turn: 0.6},
	}
}

// Rig is a built scene with its chain configs.
type Rig struct {
	Tree       *scene.Tree
	Characters []*Character
	Chains     []bone.ChainConfig
	Track      []sim.Track
}

// Animator sways every character, each with its own phase.
func (r *Rig) Animator(s Sway) sim.Animator {
	return sim.AnimatorFunc(func(t float64) {
		for i, c := range r.Characters {
			phase := float64(i) * 0.7
			c.Pose(r.Tree, s, t, phase)
		}
	})
}

// Character is a minimal humanoid: root, hips, spine, head and two legs.
type Character struct {
	Name   string
	Origin vmath.Vec3
	Root   scene.NodeID
	Hips   scene.NodeID
	Spine  scene.NodeID
	Head   scene.NodeID
	LegL   scene.NodeID
	LegR   scene.NodeID
}

func NewCharacter(t *scene.Tree, name string, origin vmath.Vec3) *Character {
	c := &Character{Name: name, Origin: origin}
	c.Root = t.Add(scene.NoNode, name, origin, vmath.Ident())
	c.Hips = t.Add(c.Root, name+"/hips", vmath.Vec3{0, 1, 0}, vmath.Ident())
	c.Spine = t.Add(c.Hips, name+"/spine", vmath.Vec3{0, 0.3, 0}, vmath.Ident())
	c.Head = t.Add(c.Spine, name+"/head", vmath.Vec3{0, 0.3, 0}, vmath.Ident())
	c.LegL = t.Add(c.Hips, name+"/leg_l", vmath.Vec3{-0.1, -0.05, 0}, vmath.Ident())
	c.LegR = t.Add(c.Hips, name+"/leg_r", vmath.Vec3{0.1, -0.05, 0}, vmath.Ident())
	return c
}

// Pose places the character for time t.
func (c *Character) Pose(t *scene.Tree, s Sway, at, phase float64) {
	w := 2 * math.Pi * s.Frequency
	x := s.Amplitude * math.Sin(w*at+phase)
	yaw := s.Turn * math.Sin(w*at*0.5+phase)
	t.SetLocalPosition(c.Root, c.Origin.Add(vmath.Vec3{float32(x), 0, 0}))
	t.SetLocalRotation(c.Root, quatYaw(yaw))
}

func quatYaw(a float64) vmath.Quat {
	s, co := math.Sincos(a / 2)
	return vmath.Quat{W: float32(co), V: vmath.Vec3{0, float32(s), 0}}
}

// strand hangs segments bones below parent, starting at offset and
// stepping by dir*length.
func strand(t *scene.Tree, parent scene.NodeID, name string, offset, dir vmath.Vec3, segments int, length float32) []scene.NodeID {
	ids := make([]scene.NodeID, 0, segments)
	step := dir.Normalize().Mul(length)
	at := offset
	p := parent
	for i := 0; i < segments; i++ {
		id := t.Add(p, fmt.Sprintf("%s_%d", name, i), at, vmath.Ident())
		ids = append(ids, id)
		p = id
		at = step
	}
	return ids
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Strands <= 0 {
		o.Strands = d.Strands
	}
	if o.Segments <= 0 {
		o.Segments = d.Segments
	}
	if o.SegmentLength <= 0 {
		o.SegmentLength = d.SegmentLength
	}
	if o.ColliderRadius <= 0 {
		o.ColliderRadius = d.ColliderRadius
	}
	if o.Count <= 0 {
		o.Count = d.Count
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}
