package gui

import (
	"context"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/springbone/internal/collider"
	"github.com/san-kum/springbone/internal/experiment"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

// Monochrome palette with one accent for colliders.
var (
	ColBg       = rl.NewColor(10, 10, 10, 255)
	ColBone     = rl.NewColor(200, 200, 200, 255)
	ColTail     = rl.NewColor(255, 255, 255, 255)
	ColCollider = rl.NewColor(0, 160, 255, 120)
	ColText     = rl.NewColor(140, 140, 140, 255)
	ColGrid     = rl.NewColor(30, 30, 30, 255)
)

// App renders an experiment's world in a raylib window.
type App struct {
	ctx     context.Context
	exp     *experiment.Experiment
	anim    sim.Animator
	nodes   []sim.NodeState
	t       float64
	running bool
	err     error

	Camera   rl.Camera3D
	Yaw      float32
	Pitch    float32
	Distance float32
	Target   vmath.Vec3
}

func NewApp(ctx context.Context, exp *experiment.Experiment) *App {
	a := &App{
		ctx:      ctx,
		exp:      exp,
		anim:     exp.Rig().Animator(exp.Config().Rig.Sway),
		running:  true,
		Pitch:    0.3,
		Distance: 4,
		Target:   vmath.Vec3{0, 1.2, 0},
	}
	if n := len(exp.Rig().Characters); n > 1 {
		a.Distance = exp.Config().Rig.Width * 1.2
		a.Target = vmath.Vec3{0, 1, 0}
	}
	a.Camera = rl.NewCamera3D(
		toVector3(a.eye()),
		toVector3(a.Target),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
	return a
}

func initWindow() {
	rl.InitWindow(1280, 720, "springbone")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed or q is pressed.
func Run(ctx context.Context, exp *experiment.Experiment) error {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(ctx, exp)
	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) || a.ctx.Err() != nil {
			return nil
		}
		a.Update()
		a.Draw()
	}
	return a.err
}

// eye returns the camera position for the current orbit.
func (a *App) eye() vmath.Vec3 {
	return orbit(a.Target, a.Yaw, a.Pitch, a.Distance)
}

func orbit(target vmath.Vec3, yaw, pitch, distance float32) vmath.Vec3 {
	cp := float32(math.Cos(float64(pitch)))
	return target.Add(vmath.Vec3{
		distance * cp * float32(math.Sin(float64(yaw))),
		distance * float32(math.Sin(float64(pitch))),
		distance * cp * float32(math.Cos(float64(yaw))),
	})
}

func toVector3(v vmath.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), v.Z())
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		cfg := *a.exp.Config()
		a.err = a.exp.Rebuild(&cfg)
	}

	dt := rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyLeft) {
		a.Yaw -= dt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.Yaw += dt
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.Pitch = min(a.Pitch+dt, 1.4)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.Pitch = max(a.Pitch-dt, -1.4)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Distance = max(0.5, a.Distance*(1-0.1*wheel))
	}
	a.Camera.Position = toVector3(a.eye())
	a.Camera.Target = toVector3(a.Target)

	if !a.running {
		return
	}
	step := a.exp.Config().Dt
	a.anim.Animate(a.t)
	if err := a.exp.World().Step(a.ctx, float32(step)); err != nil {
		a.err = err
		a.running = false
		return
	}
	a.t += step
	a.nodes = a.exp.World().NodeStates(a.nodes)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	rl.DrawGrid(20, 0.5)
	a.exp.World().Index().Each(func(_ collider.Identity, spheres []collider.WorldSphere) {
		for _, s := range spheres {
			rl.DrawSphereWires(toVector3(s.Position), s.Radius, 8, 8, ColCollider)
		}
	})
	for _, n := range a.nodes {
		rl.DrawLine3D(toVector3(n.Position), toVector3(n.Tail), ColBone)
		rl.DrawSphere(toVector3(n.Tail), 0.008, ColTail)
	}
	rl.EndMode3D()

	stats := a.exp.World().Stats()
	rl.DrawText(fmt.Sprintf("%s  t=%.2fs  chains=%d  nodes=%d  spheres=%d  frame=%s",
		a.exp.Config().Model, a.t, stats.Chains, stats.Nodes, stats.Spheres, stats.LastFrame), 16, 16, 20, ColText)
	rl.DrawText("SPACE pause  R rebuild  arrows orbit  wheel zoom  Q quit", 16, 690, 16, ColText)
	if a.err != nil {
		rl.DrawText(a.err.Error(), 16, 44, 16, rl.Red)
	}
	rl.EndDrawing()
}
