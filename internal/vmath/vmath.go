// Package vmath holds the float32 vector and rotation helpers the solver
// runs on. Types are aliases of mgl32 so host code can pass mathgl values
// straight through.
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type (
	Vec3 = mgl32.Vec3
	Quat = mgl32.Quat
	Mat4 = mgl32.Mat4
)

// Epsilon is the squared length below which a vector is treated as zero.
const Epsilon float32 = 1e-12

var (
	Zero = Vec3{}
	Up   = Vec3{0, 1, 0}
	Down = Vec3{0, -1, 0}
)

// Ident returns the identity rotation.
func Ident() Quat { return mgl32.QuatIdent() }

// LenSq returns the squared length of v.
func LenSq(v Vec3) float32 { return v.Dot(v) }

// SafeNormalize returns v scaled to unit length. ok is false when v is
// too short to carry a direction, in which case the zero vector is returned.
func SafeNormalize(v Vec3) (Vec3, bool) {
	l2 := v.Dot(v)
	if !(l2 > Epsilon) || math.IsInf(float64(l2), 0) {
		return Vec3{}, false
	}
	inv := 1 / float32(math.Sqrt(float64(l2)))
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, true
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// QuatIsFinite reports whether every component of q is a finite number.
func QuatIsFinite(q Quat) bool {
	w := float64(q.W)
	return !math.IsNaN(w) && !math.IsInf(w, 0) && IsFinite(q.V)
}

// FromToRotation returns the shortest rotation carrying from onto to.
// Degenerate inputs yield the identity.
func FromToRotation(from, to Vec3) Quat {
	f, ok := SafeNormalize(from)
	if !ok {
		return Ident()
	}
	t, ok := SafeNormalize(to)
	if !ok {
		return Ident()
	}

	d := f.Dot(t)
	if d >= 1-1e-6 {
		return Ident()
	}
	if d <= -1+1e-6 {
		// antiparallel: half turn around any axis orthogonal to f
		axis := Vec3{1, 0, 0}.Cross(f)
		if axis.Dot(axis) < 1e-6 {
			axis = Vec3{0, 1, 0}.Cross(f)
		}
		axis, _ = SafeNormalize(axis)
		return mgl32.QuatRotate(math.Pi, axis)
	}

	c := f.Cross(t)
	q := Quat{W: 1 + d, V: c}
	return q.Normalize()
}

// ApproxEqual compares vectors component-wise within tol.
func ApproxEqual(a, b Vec3, tol float32) bool {
	return a.ApproxEqualThreshold(b, tol)
}

// SameRotation compares rotations within tol, treating q and -q as equal.
func SameRotation(a, b Quat, tol float32) bool {
	d := a.Dot(b)
	if d < 0 {
		d = -d
	}
	return 1-d <= tol
}
