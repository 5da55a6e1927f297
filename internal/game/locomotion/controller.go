package locomotion

import (
	gomath "math"
	"time"

	"github.com/Faultbox/jam/internal/engine/input"
	"github.com/Faultbox/jam/internal/game/character"
	"github.com/Faultbox/jam/pkg/math"
)

const (
	groundDamping = 0.9
	// Vertical speeds this small are contact jitter.
	verticalSnap = 1e-4
)

// Speed holds movement speeds in units per second.
type Speed struct {
	Run  float32
	Jump float32
}

// InputConfig configures an InputController.
type InputConfig struct {
	Keymap         Keymap
	AttackButton   input.MouseButton
	AttackDuration time.Duration
	Speed          Speed
}

// InputController is the human locomotion source: it keeps a pressed-action
// map from raw events and commands the body from camera-relative input.
type InputController struct {
	keymap       Keymap
	attackButton input.MouseButton
	speed        Speed
	latch        *AttackLatch

	pressed [actionCount]bool
}

// NewInputController creates a controller. A nil keymap uses DefaultKeymap.
func NewInputController(cfg InputConfig) *InputController {
	km := cfg.Keymap
	if km == nil {
		km = DefaultKeymap()
	}
	return &InputController{
		keymap:       km,
		attackButton: cfg.AttackButton,
		speed:        cfg.Speed,
		latch:        NewAttackLatch(cfg.AttackDuration),
	}
}

// ProcessInput updates the pressed map. Events for unmapped keys are ignored.
func (c *InputController) ProcessInput(ev input.Event) {
	switch ev.Type {
	case input.EventKeyDown, input.EventKeyUp:
		if ev.Repeat {
			return
		}
		if a, ok := c.keymap[ev.Key]; ok {
			c.pressed[a] = ev.Type == input.EventKeyDown
		}
	case input.EventMouseDown, input.EventMouseUp:
		if c.attackButton != input.MouseNone && ev.Button == c.attackButton {
			c.pressed[ActionAttack] = ev.Type == input.EventMouseDown
		}
	}
}

// Pressed reports whether a is held.
func (c *InputController) Pressed(a Action) bool {
	return a >= 0 && a < actionCount && c.pressed[a]
}

// Update commands the body's velocity from the pressed actions and returns the intent.
//
// A jump press is consumed by the first update that sees it, whether or not
// the body could jump.
func (c *InputController) Update(ctx character.TickContext, body *character.Body) (character.Intent, error) {
	world := ctx.World
	ground := body.HasGroundContact(world)

	var cmd math.Vec3
	if c.pressed[ActionLeft] {
		cmd = cmd.Add(ctx.Side)
	}
	if c.pressed[ActionRight] {
		cmd = cmd.Sub(ctx.Side)
	}
	if c.pressed[ActionForward] {
		cmd = cmd.Add(ctx.Look)
	}
	if c.pressed[ActionBackward] {
		cmd = cmd.Sub(ctx.Look)
	}

	jumpIssued := false
	if c.pressed[ActionJump] {
		if ground {
			cmd = cmd.Add(math.Vec3Up)
			jumpIssued = true
		}
		c.pressed[ActionJump] = false
	}

	if err := world.SetAngularVelocity(body.Handle, math.Vec3{}); err != nil {
		return character.Intent{}, err
	}
	v, err := world.LinearVelocity(body.Handle)
	if err != nil {
		return character.Intent{}, err
	}

	running := false
	if n, ok := cmd.TryNormalize(math.Epsilon); ok {
		running = n.X != 0 || n.Z != 0
		v = math.Vec3{
			X: n.X * c.speed.Run,
			Y: v.Y + n.Y*c.speed.Jump,
			Z: n.Z * c.speed.Run,
		}
	}
	// Ground friction applies on every grounded tick, commanded or not.
	if ground {
		v.X *= groundDamping
		v.Z *= groundDamping
	}
	if gomath.Abs(float64(v.Y)) <= verticalSnap {
		v.Y = 0
	}
	if err := world.SetLinearVelocity(body.Handle, v); err != nil {
		return character.Intent{}, err
	}

	// A jump is only issued from the ground, so it always starts a new one.
	return character.Intent{
		Running:            running,
		Jumping:            !ground || jumpIssued,
		JustStartedJumping: jumpIssued,
		Attacking:          c.latch.Update(ctx.Now, c.pressed[ActionAttack]),
	}, nil
}

var _ character.Source = (*InputController)(nil)
