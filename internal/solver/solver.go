// Package solver advances one spring bone node by one verlet step and
// resolves its tail against sphere colliders.
package solver

import (
	"github.com/san-kum/springbone/internal/bone"
	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/vmath"
)

type Params struct {
	Stiffness    float32
	GravityPower float32
	GravityDir   vmath.Vec3
	Drag         float32
	HitRadius    float32
}

// ParamsFrom clamps cfg and copies its physical parameters.
func ParamsFrom(cfg bone.ChainConfig) Params {
	cfg = cfg.Normalized()
	return Params{
		Stiffness:    cfg.Stiffness,
		GravityPower: cfg.GravityPower,
		GravityDir:   cfg.GravityDir,
		Drag:         cfg.DragForce,
		HitRadius:    cfg.HitRadius,
	}
}

// Input is everything Step reads for one node. Position and ParentRotation
// are world space. Tails are in storage space: the center's local frame when
// Center is set, world space otherwise.
type Input struct {
	Position          vmath.Vec3
	ParentRotation    vmath.Quat
	RestLocalRotation vmath.Quat
	RestAxis          vmath.Vec3
	RestLength        float32
	CurrentTail       vmath.Vec3
	PrevTail          vmath.Vec3
	Center            *vmath.Frame
}

// Output is the node state after one step. Tails are in storage space,
// Rotation is the new world rotation of the node.
type Output struct {
	CurrentTail vmath.Vec3
	PrevTail    vmath.Vec3
	Rotation    vmath.Quat
	// WorldTail is CurrentTail in world space, for children and metrics.
	WorldTail vmath.Vec3
	// Degenerate counts normalizations that fell back instead of producing NaN.
	Degenerate int
}

// Contact classifies a tail against one collider.
type Contact uint8

const (
	Miss Contact = iota
	Hit
	// Coincident means the tail sits on the collider center and no push
	// direction exists.
	Coincident
)

// Step integrates one node. spheres must be the world spheres of the node's
// collider identity, in registration order.
func Step(p Params, in Input, spheres []collider.WorldSphere, dt float32) Output {
	cur, prev := in.CurrentTail, in.PrevTail
	if in.Center != nil {
		cur = in.Center.World(cur)
		prev = in.Center.World(prev)
	}

	base := in.ParentRotation.Mul(in.RestLocalRotation)
	restDir := base.Rotate(in.RestAxis)

	inertia := cur.Sub(prev).Mul(1 - p.Drag)
	predicted := cur.Add(inertia).
		Add(restDir.Mul(p.Stiffness * dt)).
		Add(p.GravityDir.Mul(p.GravityPower * dt))

	var degenerate int
	next, ok := Constrain(in.Position, predicted, in.RestLength)
	if !ok {
		degenerate++
		next = fallback(in.Position, cur, restDir, in.RestLength)
	}

	for _, s := range spheres {
		pushed, contact := PushOut(next, s, p.HitRadius)
		switch contact {
		case Hit:
			if n, ok := Constrain(in.Position, pushed, in.RestLength); ok {
				next = n
			} else {
				degenerate++
			}
		case Coincident:
			degenerate++
		}
	}

	rotation := vmath.FromToRotation(restDir, next.Sub(in.Position)).Mul(base)

	out := Output{
		CurrentTail: next,
		PrevTail:    cur,
		Rotation:    rotation,
		WorldTail:   next,
		Degenerate:  degenerate,
	}
	if in.Center != nil {
		out.CurrentTail = in.Center.Local(next)
		out.PrevTail = in.Center.Local(cur)
	}
	return out
}

// Constrain places a point restLength away from pos in the direction of
// target. ok is false when target coincides with pos or is not finite.
func Constrain(pos, target vmath.Vec3, restLength float32) (vmath.Vec3, bool) {
	dir, ok := vmath.SafeNormalize(target.Sub(pos))
	if !ok {
		return pos, false
	}
	return pos.Add(dir.Mul(restLength)), true
}

// fallback keeps the previous tail direction, then the rest direction.
func fallback(pos, cur, restDir vmath.Vec3, restLength float32) vmath.Vec3 {
	if next, ok := Constrain(pos, cur, restLength); ok {
		return next
	}
	if dir, ok := vmath.SafeNormalize(restDir); ok {
		return pos.Add(dir.Mul(restLength))
	}
	return pos
}

// PushOut moves tail onto the surface of s expanded by hitRadius when it is
// inside or on that surface. The returned point is not length constrained.
func PushOut(tail vmath.Vec3, s collider.WorldSphere, hitRadius float32) (vmath.Vec3, Contact) {
	r := hitRadius + s.Radius
	d := tail.Sub(s.Position)
	if vmath.LenSq(d) > r*r {
		return tail, Miss
	}
	n, ok := vmath.SafeNormalize(d)
	if !ok {
		return tail, Coincident
	}
	return s.Position.Add(n.Mul(r)), Hit
}
