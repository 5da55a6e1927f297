package physics

import (
	"fmt"

	"github.com/Faultbox/jam/pkg/math"
)

// DefaultGravity is standard gravity along -Y.
var DefaultGravity = math.Vec3{X: 0, Y: -9.81, Z: 0}

// Sandbox is a minimal World: gravity, flat static supports (an infinite ground
// plane and rectangular platforms) and Y-aligned capsules resting on them.
// It resolves only vertical support contacts and is deterministic.
type Sandbox struct {
	gravity math.Vec3

	bodies    map[BodyHandle]*sandboxBody
	order     []BodyHandle
	colliders map[ColliderHandle]*sandboxCollider
	supports  []support
	contacts  []ContactManifold

	nextBody     uint32
	nextCollider uint32
}

type sandboxBody struct {
	typ       BodyType
	pos       Isometry
	linvel    math.Vec3
	angvel    math.Vec3
	colliders []ColliderHandle
}

type sandboxCollider struct {
	body    BodyHandle
	capsule CapsuleDesc
}

// support is a horizontal static surface at height.
type support struct {
	collider ColliderHandle
	infinite bool
	area     math.Rect // XZ extents
	height   float32
}

// NewSandbox creates an empty sandbox world.
func NewSandbox(gravity math.Vec3) *Sandbox {
	return &Sandbox{
		gravity:   gravity,
		bodies:    make(map[BodyHandle]*sandboxBody),
		colliders: make(map[ColliderHandle]*sandboxCollider),
	}
}

// AddGround adds an infinite horizontal ground plane at height.
func (s *Sandbox) AddGround(height float32) ColliderHandle {
	h := s.newCollider()
	s.supports = append(s.supports, support{collider: h, infinite: true, height: height})
	return h
}

// AddPlatform adds a rectangular horizontal surface over area on XZ.
func (s *Sandbox) AddPlatform(area math.Rect, height float32) ColliderHandle {
	h := s.newCollider()
	s.supports = append(s.supports, support{collider: h, area: area, height: height})
	return h
}

func (s *Sandbox) newCollider() ColliderHandle {
	s.nextCollider++
	return ColliderHandle(s.nextCollider)
}

// AddBody adds a rigid body.
func (s *Sandbox) AddBody(desc BodyDesc) BodyHandle {
	s.nextBody++
	h := BodyHandle(s.nextBody)
	pos := desc.Position
	if pos.Rotation == (math.Quat{}) {
		pos.Rotation = math.QuatIdentity()
	}
	s.bodies[h] = &sandboxBody{typ: desc.Type, pos: pos}
	s.order = append(s.order, h)
	return h
}

// AddCapsule attaches a capsule collider to body.
func (s *Sandbox) AddCapsule(body BodyHandle, desc CapsuleDesc) (ColliderHandle, error) {
	b, err := s.body(body)
	if err != nil {
		return 0, err
	}
	if desc.Radius <= 0 || desc.HalfHeight < 0 {
		return 0, fmt.Errorf("invalid capsule radius=%v half_height=%v", desc.Radius, desc.HalfHeight)
	}
	h := s.newCollider()
	s.colliders[h] = &sandboxCollider{body: body, capsule: desc}
	b.colliders = append(b.colliders, h)
	return h, nil
}

// RemoveBody removes body and its colliders.
func (s *Sandbox) RemoveBody(body BodyHandle) error {
	b, err := s.body(body)
	if err != nil {
		return err
	}
	for _, c := range b.colliders {
		delete(s.colliders, c)
	}
	delete(s.bodies, body)
	for i, h := range s.order {
		if h == body {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// BodyCount returns the number of live bodies.
func (s *Sandbox) BodyCount() int {
	return len(s.bodies)
}

func (s *Sandbox) body(h BodyHandle) (*sandboxBody, error) {
	b, ok := s.bodies[h]
	if !ok {
		return nil, fmt.Errorf("body %d: %w", h, ErrInvalidHandle)
	}
	return b, nil
}

// Position returns the body's isometry.
func (s *Sandbox) Position(body BodyHandle) (Isometry, error) {
	b, err := s.body(body)
	if err != nil {
		return Isometry{}, err
	}
	return b.pos, nil
}

// SetPosition teleports the body.
func (s *Sandbox) SetPosition(body BodyHandle, pos Isometry) error {
	b, err := s.body(body)
	if err != nil {
		return err
	}
	b.pos = pos
	return nil
}

// LinearVelocity returns the body's linear velocity.
func (s *Sandbox) LinearVelocity(body BodyHandle) (math.Vec3, error) {
	b, err := s.body(body)
	if err != nil {
		return math.Vec3{}, err
	}
	return b.linvel, nil
}

// SetLinearVelocity sets the body's linear velocity.
func (s *Sandbox) SetLinearVelocity(body BodyHandle, v math.Vec3) error {
	b, err := s.body(body)
	if err != nil {
		return err
	}
	b.linvel = v
	return nil
}

// AngularVelocity returns the body's angular velocity (radians per second).
func (s *Sandbox) AngularVelocity(body BodyHandle) (math.Vec3, error) {
	b, err := s.body(body)
	if err != nil {
		return math.Vec3{}, err
	}
	return b.angvel, nil
}

// SetAngularVelocity sets the body's angular velocity.
func (s *Sandbox) SetAngularVelocity(body BodyHandle, v math.Vec3) error {
	b, err := s.body(body)
	if err != nil {
		return err
	}
	b.angvel = v
	return nil
}

// Contacts returns manifolds involving collider from the last Step.
func (s *Sandbox) Contacts(collider ColliderHandle) []ContactManifold {
	var out []ContactManifold
	for _, m := range s.contacts {
		if m.Involves(collider) {
			out = append(out, m)
		}
	}
	return out
}

// Step advances the simulation by dt seconds and recomputes contacts.
func (s *Sandbox) Step(dt float32) {
	s.contacts = s.contacts[:0]

	for _, h := range s.order {
		b := s.bodies[h]
		if b.typ == BodyStatic {
			continue
		}
		if b.typ == BodyDynamic {
			b.linvel = b.linvel.Add(s.gravity.Scale(dt))
		}
		b.pos.Translation = b.pos.Translation.Add(b.linvel.Scale(dt))
		b.pos.Rotation = integrateRotation(b.pos.Rotation, b.angvel, dt)

		for _, c := range b.colliders {
			s.resolveSupport(b, c)
		}
	}
}

// resolveSupport pushes the capsule out of the highest support it penetrates.
func (s *Sandbox) resolveSupport(b *sandboxBody, c ColliderHandle) {
	col := s.colliders[c]
	extent := col.capsule.HalfHeight + col.capsule.Radius
	p := b.pos.Translation
	bottom := p.Y - extent

	found := false
	var best support
	for _, sup := range s.supports {
		if !sup.infinite && !sup.area.Contains(p.XZ()) {
			continue
		}
		depth := sup.height - bottom
		// Ignore surfaces the capsule is fully below.
		if depth < 0 || depth > extent {
			continue
		}
		if !found || sup.height > best.height {
			best = sup
			found = true
		}
	}
	if !found {
		return
	}

	depth := best.height - bottom
	b.pos.Translation.Y += depth
	if b.linvel.Y < 0 {
		b.linvel.Y = 0
	}
	s.contacts = append(s.contacts, ContactManifold{
		Collider1: best.collider,
		Collider2: c,
		Normal:    math.Vec3Up,
		Depth:     depth,
	})
}

func integrateRotation(q math.Quat, w math.Vec3, dt float32) math.Quat {
	if w == (math.Vec3{}) {
		return q
	}
	spin := math.Quat{X: w.X, Y: w.Y, Z: w.Z, W: 0}.Mul(q)
	return math.Quat{
		X: q.X + 0.5*dt*spin.X,
		Y: q.Y + 0.5*dt*spin.Y,
		Z: q.Z + 0.5*dt*spin.Z,
		W: q.W + 0.5*dt*spin.W,
	}.Normalize()
}

var _ World = (*Sandbox)(nil)
