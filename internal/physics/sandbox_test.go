package physics

import (
	"errors"
	"testing"

	"github.com/Faultbox/jam/pkg/math"
)

const step = float32(1.0 / 60.0)

func newCapsuleBody(t *testing.T, s *Sandbox, pos math.Vec3) (BodyHandle, ColliderHandle) {
	t.Helper()
	b := s.AddBody(BodyDesc{Type: BodyDynamic, Position: IsometryAt(pos)})
	c, err := s.AddCapsule(b, CapsuleDesc{HalfHeight: 0.5, Radius: 0.3})
	if err != nil {
		t.Fatalf("AddCapsule: %v", err)
	}
	return b, c
}

func TestSandbox_RestsOnGround(t *testing.T) {
	s := NewSandbox(DefaultGravity)
	ground := s.AddGround(0)
	b, c := newCapsuleBody(t, s, math.Vec3{Y: 2})

	for i := 0; i < 120; i++ {
		s.Step(step)
	}

	pos, err := s.Position(b)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos.Translation.Y < 0.79 || pos.Translation.Y > 0.81 {
		t.Errorf("resting height = %v, want ~0.8", pos.Translation.Y)
	}

	contacts := s.Contacts(c)
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if contacts[0].Collider1 != ground {
		t.Errorf("contact collider1 = %d, want ground %d", contacts[0].Collider1, ground)
	}
	if n := contacts[0].NormalFrom(c); n.Y <= 0.7 {
		t.Errorf("normal toward capsule = %v, want pointing up", n)
	}
}

func TestSandbox_NoContactInAir(t *testing.T) {
	s := NewSandbox(DefaultGravity)
	s.AddGround(0)
	_, c := newCapsuleBody(t, s, math.Vec3{Y: 10})

	s.Step(step)
	if got := len(s.Contacts(c)); got != 0 {
		t.Errorf("expected no contacts in the air, got %d", got)
	}
}

func TestSandbox_JumpLeavesGround(t *testing.T) {
	s := NewSandbox(DefaultGravity)
	s.AddGround(0)
	b, c := newCapsuleBody(t, s, math.Vec3{Y: 0.8})
	s.Step(step)
	if len(s.Contacts(c)) == 0 {
		t.Fatal("expected ground contact before jump")
	}

	if err := s.SetLinearVelocity(b, math.Vec3{Y: 3}); err != nil {
		t.Fatal(err)
	}
	s.Step(step)
	if len(s.Contacts(c)) != 0 {
		t.Error("expected contact to be lost after upward velocity")
	}
}

func TestSandbox_PlatformEdge(t *testing.T) {
	s := NewSandbox(DefaultGravity)
	s.AddPlatform(math.Rect{Min: math.Vec2{X: -1, Y: -1}, Max: math.Vec2{X: 1, Y: 1}}, 0)
	b, c := newCapsuleBody(t, s, math.Vec3{Y: 0.8})
	s.Step(step)
	if len(s.Contacts(c)) == 0 {
		t.Fatal("expected contact on platform")
	}

	// Walk off the edge
	if err := s.SetPosition(b, IsometryAt(math.Vec3{X: 2, Y: 0.8})); err != nil {
		t.Fatal(err)
	}
	s.Step(step)
	if len(s.Contacts(c)) != 0 {
		t.Error("expected no contact past platform edge")
	}
}

func TestSandbox_InvalidHandle(t *testing.T) {
	s := NewSandbox(DefaultGravity)
	if _, err := s.Position(42); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Position(42) error = %v, want ErrInvalidHandle", err)
	}
	if err := s.SetLinearVelocity(42, math.Vec3{}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("SetLinearVelocity(42) error = %v, want ErrInvalidHandle", err)
	}
	if _, err := s.AddCapsule(42, CapsuleDesc{Radius: 1}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("AddCapsule(42) error = %v, want ErrInvalidHandle", err)
	}
}

func TestSandbox_RemoveBody(t *testing.T) {
	s := NewSandbox(DefaultGravity)
	b, c := newCapsuleBody(t, s, math.Vec3{})
	if err := s.RemoveBody(b); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	if s.BodyCount() != 0 {
		t.Errorf("BodyCount() = %d, want 0", s.BodyCount())
	}
	s.Step(step)
	if len(s.Contacts(c)) != 0 {
		t.Error("removed collider should have no contacts")
	}
	if err := s.RemoveBody(b); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("second RemoveBody error = %v, want ErrInvalidHandle", err)
	}
}

func TestSandbox_AngularVelocityRotates(t *testing.T) {
	s := NewSandbox(math.Vec3{})
	b := s.AddBody(BodyDesc{Type: BodyDynamic})
	if err := s.SetAngularVelocity(b, math.Vec3{Y: 1}); err != nil {
		t.Fatal(err)
	}
	s.Step(step)
	pos, _ := s.Position(b)
	if pos.Rotation == math.QuatIdentity() {
		t.Error("expected rotation to change under angular velocity")
	}
}
