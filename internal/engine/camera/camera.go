// Package camera provides the mouse-look rig attached to the player.
package camera

import (
	gomath "math"

	"github.com/Faultbox/jam/pkg/math"
)

const degToRad = gomath.Pi / 180

// RigCamera is a yaw/pitch rig pinned to a character. Yaw turns the character
// itself; pitch only tilts the view.
type RigCamera struct {
	Yaw   float32 // Horizontal rotation around Y (radians)
	Pitch float32 // Vertical angle (radians), positive looks down

	// Constraints
	MinPitch float32
	MaxPitch float32

	// Sensitivity, radians per pixel of mouse motion
	YawSensitivity   float32
	PitchSensitivity float32
	InvertY          bool

	// Offset of the eye from the rig pivot, in the rig's yaw frame
	Offset math.Vec3
}

// Settings are the user-facing rig parameters in degrees.
type Settings struct {
	YawSensitivity   float32
	PitchSensitivity float32
	MinPitch         float32
	MaxPitch         float32
	InvertY          bool
}

// NewRigCamera creates a rig facing +Z with the given settings.
func NewRigCamera(s Settings) *RigCamera {
	return &RigCamera{
		MinPitch:         s.MinPitch * degToRad,
		MaxPitch:         s.MaxPitch * degToRad,
		YawSensitivity:   s.YawSensitivity * degToRad,
		PitchSensitivity: s.PitchSensitivity * degToRad,
		InvertY:          s.InvertY,
		Offset:           math.Vec3{Y: 1.2, Z: -3},
	}
}

// HandleMouseMotion applies a relative mouse movement in pixels.
func (c *RigCamera) HandleMouseMotion(dx, dy float32) {
	c.Yaw -= dx * c.YawSensitivity
	c.Yaw = wrapAngle(c.Yaw)

	if c.InvertY {
		dy = -dy
	}
	c.Pitch += dy * c.PitchSensitivity
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// Orientation is the yaw-only rotation applied to the body.
func (c *RigCamera) Orientation() math.Quat {
	return math.QuatFromAxisAngle(math.Vec3Up, c.Yaw)
}

// Look returns the horizontal forward vector (local +Z rotated by yaw).
func (c *RigCamera) Look() math.Vec3 {
	return c.Orientation().Rotate(math.Vec3Forward)
}

// Side returns the horizontal side vector (local +X rotated by yaw), which
// points to the character's left when looking along Look.
func (c *RigCamera) Side() math.Vec3 {
	return c.Orientation().Rotate(math.Vec3Right)
}

// ViewDirection returns the eye direction including pitch.
func (c *RigCamera) ViewDirection() math.Vec3 {
	pitch := math.QuatFromAxisAngle(math.Vec3Right, c.Pitch)
	return c.Orientation().Mul(pitch).Rotate(math.Vec3Forward)
}

// Eye returns the camera position for a rig pivot at target.
func (c *RigCamera) Eye(target math.Vec3) math.Vec3 {
	return target.Add(c.Orientation().Rotate(c.Offset))
}

func wrapAngle(a float32) float32 {
	return float32(gomath.Remainder(float64(a), 2*gomath.Pi))
}
