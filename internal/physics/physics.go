// Package physics defines the rigid-body collaborator used by characters and a
// small deterministic sandbox implementation of it.
package physics

import (
	"errors"

	"github.com/Faultbox/jam/pkg/math"
)

// ErrInvalidHandle is returned when a body or collider handle is not registered.
var ErrInvalidHandle = errors.New("physics: invalid handle")

// BodyHandle identifies a rigid body. The zero value is never issued.
type BodyHandle uint32

// ColliderHandle identifies a collider. The zero value is never issued.
type ColliderHandle uint32

// BodyType selects how the simulation treats a body.
type BodyType uint8

const (
	BodyDynamic BodyType = iota
	BodyKinematic
	BodyStatic
)

// Isometry is a rigid transform (translation + rotation).
type Isometry struct {
	Translation math.Vec3
	Rotation    math.Quat
}

// IsometryAt returns an isometry at position with no rotation.
func IsometryAt(position math.Vec3) Isometry {
	return Isometry{Translation: position, Rotation: math.QuatIdentity()}
}

// BodyDesc describes a body to add.
type BodyDesc struct {
	Type     BodyType
	Position Isometry
}

// CapsuleDesc describes a Y-aligned capsule collider.
type CapsuleDesc struct {
	HalfHeight float32 // Half length of the cylindrical segment
	Radius     float32
	Friction   float32
}

// ContactManifold is a resolved contact between two colliders in the current step.
// Normal points from Collider1 toward Collider2.
type ContactManifold struct {
	Collider1 ColliderHandle
	Collider2 ColliderHandle
	Normal    math.Vec3
	Depth     float32
}

// NormalFrom returns the contact normal oriented from the other collider toward c.
func (m ContactManifold) NormalFrom(c ColliderHandle) math.Vec3 {
	if m.Collider1 == c {
		return m.Normal.Neg()
	}
	return m.Normal
}

// Involves reports whether c is one of the manifold's colliders.
func (m ContactManifold) Involves(c ColliderHandle) bool {
	return m.Collider1 == c || m.Collider2 == c
}

// World is the rigid-body simulation as seen by characters.
// All values are authoritative as of the last Step.
type World interface {
	AddBody(desc BodyDesc) BodyHandle
	AddCapsule(body BodyHandle, desc CapsuleDesc) (ColliderHandle, error)
	RemoveBody(body BodyHandle) error

	Position(body BodyHandle) (Isometry, error)
	SetPosition(body BodyHandle, pos Isometry) error
	LinearVelocity(body BodyHandle) (math.Vec3, error)
	SetLinearVelocity(body BodyHandle, v math.Vec3) error
	AngularVelocity(body BodyHandle) (math.Vec3, error)
	SetAngularVelocity(body BodyHandle, v math.Vec3) error

	// Contacts returns the manifolds involving collider resolved in the last step.
	Contacts(collider ColliderHandle) []ContactManifold

	Step(dt float32)
}
