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

// Hair builds one character whose strands hang from the back of the head,
// all in a single chain colliding with a head sphere.
func Hair(opts Options, tmpl bone.ChainConfig) *Rig {
	opts = opts.withDefaults()
	rig := &Rig{Tree: scene.NewTree()}
	c := NewCharacter(rig.Tree, "hair", vmath.Vec3{})
	rig.Characters = append(rig.Characters, c)
	cfg, track := hairChain(rig, c, opts, tmpl)
	rig.Chains = append(rig.Chains, cfg)
	rig.Track = append(rig.Track, track...)
	return rig
}

func hairChain(rig *Rig, c *Character, opts Options, tmpl bone.ChainConfig) (bone.ChainConfig, []sim.Track) {
	cfg := tmpl
	cfg.Comment = c.Name + "/hair"
	cfg.RootNodes = nil
	var track []sim.Track

	for i := 0; i < opts.Strands; i++ {
		// spread strands over the back half of the head
		a := math.Pi * (0.15 + 0.7*float64(i)/math.Max(1, float64(opts.Strands-1)))
		offset := vmath.Vec3{float32(0.13 * math.Cos(a)), 0.05, float32(-0.13 * math.Sin(a))}
		name := fmt.Sprintf("%s/strand%d", c.Name, i)
		ids := strand(rig.Tree, c.Head, name, offset, vmath.Vec3{0, -1, -0.15}, opts.Segments, opts.SegmentLength)
		cfg.RootNodes = append(cfg.RootNodes, ids[0])
		if i == 0 {
			track = append(track, sim.Track{Node: ids[len(ids)-1], Label: name})
		}
	}

	cfg.ColliderGroups = []collider.GroupConfig{{
		Anchor: c.Head,
		Spheres: []collider.Sphere{
			{Offset: vmath.Vec3{0, 0.05, 0}, Radius: opts.ColliderRadius},
			{Offset: vmath.Vec3{0, -0.12, -0.02}, Radius: opts.ColliderRadius * 0.9},
		},
	}}
	if opts.UseCenter {
		cfg.Center = c.Hips
	}
	return cfg, track
}
