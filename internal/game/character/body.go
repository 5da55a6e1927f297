package character

import (
	"errors"
	"fmt"

	"github.com/Faultbox/jam/internal/engine/anim"
	"github.com/Faultbox/jam/internal/physics"
	"github.com/Faultbox/jam/pkg/math"
)

// groundNormalY is the minimum upward component of a contact normal that counts as ground.
const groundNormalY = 0.7

// Size is the capsule size of a character.
type Size struct {
	Height float32
	Radius float32
}

// BodyConfig describes how to anchor a model in the physics world.
type BodyConfig struct {
	Position       math.Vec3
	Size           Size
	Scale          float32 // Uniform model scale; zero means 1
	RootMotionBone string  // Bone whose clip tracks are disabled; empty for none
}

// Body anchors a skinned model to one dynamic body and one frictionless capsule.
type Body struct {
	Handle         physics.BodyHandle
	Collider       physics.ColliderHandle
	Skeleton       *anim.Skeleton
	RootMotionBone int // -1 when none
	Size           Size
	Scale          float32
}

// NewBody creates the body and capsule in world and attaches skel to it.
// skel is owned by the body from here on.
func NewBody(world physics.World, skel *anim.Skeleton, cfg BodyConfig) (*Body, error) {
	if skel == nil {
		return nil, errors.New("new body: nil skeleton")
	}
	if cfg.Size.Height <= 0 || cfg.Size.Radius <= 0 {
		return nil, fmt.Errorf("new body: invalid size %+v", cfg.Size)
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}

	rootMotion := -1
	if cfg.RootMotionBone != "" {
		idx, err := skel.MustBoneIndex(cfg.RootMotionBone)
		if err != nil {
			return nil, fmt.Errorf("new body: root motion bone: %w", err)
		}
		rootMotion = idx
	}

	handle := world.AddBody(physics.BodyDesc{
		Type:     physics.BodyDynamic,
		Position: physics.IsometryAt(cfg.Position),
	})
	collider, err := world.AddCapsule(handle, physics.CapsuleDesc{
		HalfHeight: cfg.Size.Height / 2,
		Radius:     cfg.Size.Radius,
		Friction:   0,
	})
	if err != nil {
		_ = world.RemoveBody(handle)
		return nil, fmt.Errorf("new body: %w", err)
	}

	// The capsule is centred on the body; the model's feet sit half a height below.
	skel.Root = anim.Transform{
		Position: math.Vec3{Y: -cfg.Size.Height / 2},
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: scale, Y: scale, Z: scale},
	}

	return &Body{
		Handle:         handle,
		Collider:       collider,
		Skeleton:       skel,
		RootMotionBone: rootMotion,
		Size:           cfg.Size,
		Scale:          scale,
	}, nil
}

// HasGroundContact reports whether any contact touching the capsule pushes it
// upward steeply enough to stand on.
func (b *Body) HasGroundContact(world physics.World) bool {
	for _, m := range world.Contacts(b.Collider) {
		if m.NormalFrom(b.Collider).Y > groundNormalY {
			return true
		}
	}
	return false
}

// Position returns the body's world position.
func (b *Body) Position(world physics.World) (math.Vec3, error) {
	iso, err := world.Position(b.Handle)
	if err != nil {
		return math.Vec3{}, err
	}
	return iso.Translation, nil
}

// SetPosition teleports the body, keeping its rotation.
func (b *Body) SetPosition(world physics.World, p math.Vec3) error {
	iso, err := world.Position(b.Handle)
	if err != nil {
		return err
	}
	iso.Translation = p
	return world.SetPosition(b.Handle, iso)
}

// SetRotation orients the body, keeping its position.
func (b *Body) SetRotation(world physics.World, q math.Quat) error {
	iso, err := world.Position(b.Handle)
	if err != nil {
		return err
	}
	iso.Rotation = q
	return world.SetPosition(b.Handle, iso)
}

// Destroy removes the body and its collider from world.
func (b *Body) Destroy(world physics.World) error {
	if err := world.RemoveBody(b.Handle); err != nil {
		return fmt.Errorf("destroy body: %w", err)
	}
	return nil
}
