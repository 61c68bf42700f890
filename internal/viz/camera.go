package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/springbone/internal/vmath"
)

// Camera orbits a target point and projects world points onto a canvas
// with a simple perspective divide.
type Camera struct {
	Target   vmath.Vec3
	Yaw      float32
	Pitch    float32
	Distance float32
	Zoom     float32
}

func NewCamera(target vmath.Vec3, distance float32) *Camera {
	return &Camera{Target: target, Pitch: 0.15, Distance: distance, Zoom: 1}
}

func (c *Camera) Orbit(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = mgl32.Clamp(c.Pitch+dpitch, -1.4, 1.4)
}

func (c *Camera) ZoomIn()  { c.Zoom = float32(math.Min(10, float64(c.Zoom)*1.2)) }
func (c *Camera) ZoomOut() { c.Zoom = float32(math.Max(0.1, float64(c.Zoom)/1.2)) }

func (c *Camera) rotation() vmath.Quat {
	return mgl32.QuatRotate(-c.Pitch, vmath.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(-c.Yaw, vmath.Vec3{0, 1, 0}))
}

// Project maps p to dot coordinates on a w x h dot canvas. ok is false for
// points behind the camera.
func (c *Camera) Project(p vmath.Vec3, w, h int) (x, y int, depth float32, ok bool) {
	v := c.rotation().Rotate(p.Sub(c.Target))
	z := c.Distance - v.Z()
	if z <= 0.01 {
		return 0, 0, 0, false
	}
	scale := float32(min(w, h)) * c.Zoom / z
	x = int(v.X()*scale) + w/2
	y = int(-v.Y()*scale) + h/2
	return x, y, z, true
}

// Scale returns the dot length of a world distance r seen at depth.
func (c *Camera) Scale(r, depth float32, w, h int) int {
	if depth <= 0 {
		return 0
	}
	return int(r * float32(min(w, h)) * c.Zoom / depth)
}
