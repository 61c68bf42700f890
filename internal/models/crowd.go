package models

import (
	"fmt"

	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/scene"
	"github.com/san-kum/springbone/internal/vmath"
)

// Crowd lays out Count x Count hair characters over a Width x Height area,
// each with its own chain and collider identity.
func Crowd(opts Options, tmpl bone.ChainConfig) *Rig {
	opts = opts.withDefaults()
	rig := &Rig{Tree: scene.NewTree()}

	n := opts.Count
	spaceX := opts.Width / float32(n)
	spaceZ := opts.Height / float32(n)
	startX := -opts.Width / 2
	startZ := -opts.Height / 2

	for i := 0; i < n*n; i++ {
		x, z := i%n, i/n
		origin := vmath.Vec3{startX + float32(x)*spaceX, 0, startZ + float32(z)*spaceZ}
		c := NewCharacter(rig.Tree, fmt.Sprintf("vrm%d", i), origin)
		rig.Characters = append(rig.Characters, c)

		cfg, track := hairChain(rig, c, opts, tmpl)
		rig.Chains = append(rig.Chains, cfg)
		if i == 0 {
			rig.Track = append(rig.Track, track...)
		}
	}
	return rig
}
