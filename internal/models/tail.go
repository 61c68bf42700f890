package models

import (
	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

// Tail builds one character with a long tail trailing from the hips and a
// hip collider.
func Tail(opts Options, tmpl bone.ChainConfig) *Rig {
	opts = opts.withDefaults()
	rig := &Rig{Tree: scene.NewTree()}
	c := NewCharacter(rig.Tree, "tail", vmath.Vec3{})
	rig.Characters = append(rig.Characters, c)

	segments := opts.Segments * 2
	ids := strand(rig.Tree, c.Hips, "tail/tail", vmath.Vec3{0, -0.05, -0.12}, vmath.Vec3{0, -0.3, -1}, segments, opts.SegmentLength)

	cfg := tmpl
	cfg.Comment = "tail/tail"
	cfg.RootNodes = ids[:1]
	cfg.ColliderGroups = []collider.GroupConfig{
		{
			Anchor:  c.Hips,
			Spheres: []collider.Sphere{{Offset: vmath.Vec3{0, -0.1, 0}, Radius: opts.ColliderRadius * 1.2}},
		},
		{
			Anchor: c.LegL,
			Spheres: []collider.Sphere{
				{Offset: vmath.Vec3{0, -0.2, 0}, Radius: opts.ColliderRadius * 0.7},
			},
		},
		{
			Anchor: c.LegR,
			Spheres: []collider.Sphere{
				{Offset: vmath.Vec3{0, -0.2, 0}, Radius: opts.ColliderRadius * 0.7},
			},
		},
	}
	if opts.UseCenter {
		cfg.Center = c.Root
	}
	rig.Chains = append(rig.Chains, cfg)
	rig.Track = append(rig.Track,
		sim.Track{Node: ids[len(ids)/2], Label: "tail/mid"},
		sim.Track{Node: ids[len(ids)-1], Label: "tail/tip"},
	)
	return rig
}
