package models

import (
	"fmt"
	"math"

	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

// Skirt builds one character with a ring of short strands around the hips,
// pushed out by a sphere on each leg.
func Skirt(opts Options, tmpl bone.ChainConfig) *Rig {
	opts = opts.withDefaults()
	rig := &Rig{Tree: scene.NewTree()}
	c := NewCharacter(rig.Tree, "skirt", vmath.Vec3{})
	rig.Characters = append(rig.Characters, c)

	n := opts.Strands * 2
	cfg := tmpl
	cfg.Comment = "skirt/skirt"
	segments := max(2, opts.Segments/2)

	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		out := vmath.Vec3{float32(math.Sin(a)), 0, float32(math.Cos(a))}
		name := fmt.Sprintf("skirt/panel%d", i)
		ids := strand(rig.Tree, c.Hips, name, out.Mul(0.15), out.Mul(0.25).Add(vmath.Vec3{0, -1, 0}), segments, opts.SegmentLength*1.5)
		cfg.RootNodes = append(cfg.RootNodes, ids[0])
		if i == 0 {
			rig.Track = append(rig.Track, sim.Track{Node: ids[len(ids)-1], Label: name})
		}
	}

	leg := func(anchor scene.NodeID) collider.GroupConfig {
		return collider.GroupConfig{
			Anchor: anchor,
			Spheres: []collider.Sphere{
				{Offset: vmath.Vec3{0, -0.1, 0}, Radius: opts.ColliderRadius},
				{Offset: vmath.Vec3{0, -0.3, 0}, Radius: opts.ColliderRadius * 0.9},
			},
		}
	}
	cfg.ColliderGroups = []collider.GroupConfig{leg(c.LegL), leg(c.LegR)}
	if opts.UseCenter {
		cfg.Center = c.Hips
	}
	rig.Chains = append(rig.Chains, cfg)
	return rig
}
