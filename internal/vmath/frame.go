package vmath

import "github.com/go-gl/mathgl/mgl32"

// Pose is a rigid world transform: rotation then translation.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// IdentityPose returns the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: Ident()}
}

// Point maps a point from pose-local space to world space.
func (p Pose) Point(local Vec3) Vec3 {
	return p.Position.Add(p.Rotation.Rotate(local))
}

// InversePoint maps a world-space point into pose-local space.
func (p Pose) InversePoint(world Vec3) Vec3 {
	return p.Rotation.Conjugate().Rotate(world.Sub(p.Position))
}

// Matrix returns the 4x4 transform of the pose.
func (p Pose) Matrix() Mat4 {
	return TRS(p.Position, p.Rotation, Vec3{1, 1, 1})
}

// TRS composes translation, rotation and scale into one matrix.
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// TransformPoint applies m to the point v.
func TransformPoint(m Mat4, v Vec3) Vec3 {
	return mgl32.TransformCoordinate(v, m)
}

// Frame is a reference frame given by a world matrix and its inverse.
// The zero Frame is not usable; build one with NewFrame.
type Frame struct {
	ToWorld Mat4
	ToLocal Mat4
}

// NewFrame caches the inverse of m.
func NewFrame(m Mat4) Frame {
	return Frame{ToWorld: m, ToLocal: m.Inv()}
}

// IdentityFrame is the world frame.
func IdentityFrame() Frame {
	return Frame{ToWorld: mgl32.Ident4(), ToLocal: mgl32.Ident4()}
}

// World maps a frame-local point to world space.
func (f Frame) World(v Vec3) Vec3 { return mgl32.TransformCoordinate(v, f.ToWorld) }

// Local maps a world point into the frame.
func (f Frame) Local(v Vec3) Vec3 { return mgl32.TransformCoordinate(v, f.ToLocal) }
