package player

import (
	"errors"
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/jam/internal/assets"
	"github.com/Faultbox/jam/internal/engine/camera"
	"github.com/Faultbox/jam/internal/engine/input"
	"github.com/Faultbox/jam/internal/game/character"
	"github.com/Faultbox/jam/internal/game/locomotion"
	"github.com/Faultbox/jam/internal/physics"
	"github.com/Faultbox/jam/pkg/math"
)

const tick = float32(1.0 / 60)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func newPlayer(t *testing.T) (*physics.Sandbox, *Player) {
	t.Helper()
	world := physics.NewSandbox(physics.DefaultGravity)
	world.AddGround(0)

	loader := assets.NewManager()
	loader.AddFS("demo", assets.Demo())
	c, err := character.Spawn(world, loader, character.Config{
		Name:  "player",
		Model: "models/paladin.yaml",
		Clips: map[character.ClipName]string{
			character.ClipIdle:   "clips/idle.yaml",
			character.ClipRun:    "clips/run.yaml",
			character.ClipJump:   "clips/jump.yaml",
			character.ClipAttack: "clips/attack.yaml",
		},
		Body: character.BodyConfig{
			Position:       math.Vec3{Y: 1.15},
			Size:           character.Size{Height: 1.6, Radius: 0.35},
			RootMotionBone: "spine",
		},
	}, nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	p := New(c, Config{
		Camera: camera.Settings{YawSensitivity: 0.3, PitchSensitivity: 0.57, MinPitch: -90, MaxPitch: 90},
		Input: locomotion.InputConfig{
			AttackButton: input.MouseLeft,
			Speed:        locomotion.Speed{Run: 3, Jump: 3},
		},
	})
	return world, p
}

func run(t *testing.T, world *physics.Sandbox, p *Player, ticks int, start *int) {
	t.Helper()
	for i := 0; i < ticks; i++ {
		world.Step(tick)
		now := time.Duration(*start) * time.Second / 60
		if err := p.Update(world, tick, now); err != nil {
			t.Fatalf("Update: %v", err)
		}
		*start++
	}
}

func TestPlayer_MouseTurnsBody(t *testing.T) {
	world, p := newPlayer(t)

	// 300px at 0.3 deg/px is a quarter turn
	p.ProcessInput(input.Event{Type: input.EventMouseMove, DX: 300})
	if !near(p.Camera.Yaw, -gomath.Pi/2) {
		t.Fatalf("Yaw = %v, want -pi/2", p.Camera.Yaw)
	}

	p.ProcessInput(input.Event{Type: input.EventKeyDown, Key: input.Letter('w')})
	var n int
	run(t, world, p, 1, &n)

	iso, _ := world.Position(p.Character.Body.Handle)
	if facing := iso.Rotation.Rotate(math.Vec3Forward); !near(facing.X, -1) || !near(facing.Z, 0) {
		t.Errorf("body faces %+v, want -X", facing)
	}
	v, _ := world.LinearVelocity(p.Character.Body.Handle)
	// Grounded, so run speed is damped once
	if !near(v.X, -2.7) || !near(v.Z, 0) {
		t.Errorf("velocity = %+v, want (-2.7, _, 0)", v)
	}
}

func TestPlayer_MouseMotionStaysWithCamera(t *testing.T) {
	_, p := newPlayer(t)
	p.ProcessInput(input.Event{Type: input.EventMouseMove, DX: 10, DY: 10})
	if p.Camera.Pitch == 0 {
		t.Error("vertical motion should pitch the camera")
	}
	for a := locomotion.ActionForward; a <= locomotion.ActionAttack; a++ {
		if p.Control.Pressed(a) {
			t.Errorf("mouse motion pressed %s", a)
		}
	}
}

func TestPlayer_RunThenStop(t *testing.T) {
	world, p := newPlayer(t)
	var n int
	run(t, world, p, 5, &n)
	if s := p.Character.State(); s != character.ClipIdle {
		t.Fatalf("State() = %q, want idle", s)
	}

	p.ProcessInput(input.Event{Type: input.EventKeyDown, Key: input.KeyUp})
	run(t, world, p, 20, &n)
	if s := p.Character.State(); s != character.ClipRun {
		t.Errorf("State() = %q, want run", s)
	}
	pos, _ := p.Character.Position(world)
	if pos.Z <= 0 {
		t.Errorf("player at %+v, want moved along +Z", pos)
	}

	p.ProcessInput(input.Event{Type: input.EventKeyUp, Key: input.KeyUp})
	run(t, world, p, 60, &n)
	if s := p.Character.State(); s != character.ClipIdle {
		t.Errorf("State() = %q, want idle after stopping", s)
	}
}

func TestPlayer_JumpAndLand(t *testing.T) {
	world, p := newPlayer(t)
	var n int
	run(t, world, p, 2, &n)

	p.ProcessInput(input.Event{Type: input.EventKeyDown, Key: input.KeySpace})
	run(t, world, p, 1, &n)
	if !p.Character.Intent().JustStartedJumping {
		t.Fatal("jump should start on the first tick after the press")
	}
	p.ProcessInput(input.Event{Type: input.EventKeyUp, Key: input.KeySpace})

	run(t, world, p, 20, &n)
	if s := p.Character.State(); s != character.ClipJump {
		t.Errorf("State() = %q, want jump mid-air", s)
	}
	run(t, world, p, 90, &n)
	if s := p.Character.State(); s != character.ClipIdle {
		t.Errorf("State() = %q, want idle after landing", s)
	}
}

func TestPlayer_Eye(t *testing.T) {
	world, p := newPlayer(t)
	eye, err := p.Eye(world)
	if err != nil {
		t.Fatal(err)
	}
	pos, _ := p.Character.Position(world)
	want := pos.Add(math.Vec3{Y: 1.2, Z: -3})
	if !near(eye.X, want.X) || !near(eye.Y, want.Y) || !near(eye.Z, want.Z) {
		t.Errorf("Eye = %+v, want %+v", eye, want)
	}
}

func TestPlayer_DestroyedBody(t *testing.T) {
	world, p := newPlayer(t)
	if err := p.Character.Destroy(world); err != nil {
		t.Fatal(err)
	}
	if err := p.Update(world, tick, 0); !errors.Is(err, physics.ErrInvalidHandle) {
		t.Errorf("Update error = %v, want ErrInvalidHandle", err)
	}
}
