// Package player drives the human-controlled character from the mouse-look rig
// and the keyboard.
package player

import (
	"fmt"
	"time"

	"github.com/Faultbox/jam/internal/engine/camera"
	"github.com/Faultbox/jam/internal/engine/input"
	"github.com/Faultbox/jam/internal/game/character"
	"github.com/Faultbox/jam/internal/game/locomotion"
	"github.com/Faultbox/jam/internal/physics"
	"github.com/Faultbox/jam/pkg/math"
)

// Config holds the player's camera and control settings.
type Config struct {
	Camera camera.Settings
	Input  locomotion.InputConfig
}

// Player is a character steered by an InputController, with a RigCamera
// whose yaw turns the body.
type Player struct {
	Character *character.Character
	Camera    *camera.RigCamera
	Control   *locomotion.InputController
}

// New wraps c as the player.
func New(c *character.Character, cfg Config) *Player {
	return &Player{
		Character: c,
		Camera:    camera.NewRigCamera(cfg.Camera),
		Control:   locomotion.NewInputController(cfg.Input),
	}
}

// ProcessInput routes mouse motion to the camera and everything else to the controller.
func (p *Player) ProcessInput(ev input.Event) {
	if ev.Type == input.EventMouseMove {
		p.Camera.HandleMouseMotion(float32(ev.DX), float32(ev.DY))
		return
	}
	p.Control.ProcessInput(ev)
}

// Update turns the body to the camera yaw and ticks the character.
func (p *Player) Update(world physics.World, dt float32, now time.Duration) error {
	if err := p.Character.Body.SetRotation(world, p.Camera.Orientation()); err != nil {
		return fmt.Errorf("%s: orient: %w", p.Character.Name, err)
	}
	ctx := character.TickContext{
		World: world,
		Delta: dt,
		Now:   now,
		Look:  p.Camera.Look(),
		Side:  p.Camera.Side(),
	}
	return p.Character.Tick(ctx, p.Control)
}

// Eye returns the camera position for the character's current position.
func (p *Player) Eye(world physics.World) (math.Vec3, error) {
	pos, err := p.Character.Position(world)
	if err != nil {
		return math.Vec3{}, err
	}
	return p.Camera.Eye(pos), nil
}
