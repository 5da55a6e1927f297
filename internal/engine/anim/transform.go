// Package anim implements skeletal clips, poses and the blended animation state machine.
package anim

import "github.com/Faultbox/jam/pkg/math"

// Transform is a bone's local transform.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform returns a transform with no translation, rotation or scaling.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Blend interpolates from t to other by w (0 = t, 1 = other).
// Positions and scales are lerped, rotations slerped.
func (t Transform) Blend(other Transform, w float32) Transform {
	if w <= 0 {
		return t
	}
	if w >= 1 {
		return other
	}
	return Transform{
		Position: t.Position.Lerp(other.Position, w),
		Rotation: t.Rotation.Slerp(other.Rotation, w),
		Scale:    t.Scale.Lerp(other.Scale, w),
	}
}
