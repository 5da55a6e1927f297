package character

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/jam/internal/assets"
	"github.com/Faultbox/jam/internal/engine/anim"
	"github.com/Faultbox/jam/internal/logger"
	"github.com/Faultbox/jam/internal/physics"
	"github.com/Faultbox/jam/pkg/math"
)

// DefaultHealth is the health every character spawns with.
const DefaultHealth = 100

// Config is the resolved per-character snapshot needed at spawn.
type Config struct {
	Name  string
	Model string              // Skeleton asset path
	Clips map[ClipName]string // Clip name -> asset path
	Body  BodyConfig
}

// Character is a body, a skeleton and its animation controller.
type Character struct {
	ID        uuid.UUID
	Name      string
	Body      *Body
	Animation *AnimationController
	Health    float32

	sender chan<- Message
	intent Intent
	state  ClipName
	log    *zap.Logger
}

// Spawn loads the model and clips through loader and anchors them in world.
// On failure nothing is left behind in world.
func Spawn(world physics.World, loader assets.Loader, cfg Config, sender chan<- Message) (*Character, error) {
	data, err := loader.Load(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: model: %w", cfg.Name, err)
	}
	skel, err := anim.DecodeSkeleton(data)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: model %s: %w", cfg.Name, cfg.Model, err)
	}

	body, err := NewBody(world, skel, cfg.Body)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", cfg.Name, err)
	}

	c, err := assemble(body, loader, cfg, sender)
	if err != nil {
		if derr := body.Destroy(world); derr != nil {
			logger.Warn("failed to clean up body", zap.String("character", cfg.Name), zap.Error(derr))
		}
		return nil, fmt.Errorf("spawn %s: %w", cfg.Name, err)
	}

	c.log.Info("character spawned",
		zap.String("model", cfg.Model),
		zap.Stringers("clips", c.Animation.Clips().Names()),
		zap.String("state", string(c.state)),
	)
	return c, nil
}

func assemble(body *Body, loader assets.Loader, cfg Config, sender chan<- Message) (*Character, error) {
	clips, err := LoadClipSet(loader, cfg.Clips, body)
	if err != nil {
		return nil, err
	}
	ctrl, err := NewAnimationController(body.Skeleton, clips)
	if err != nil {
		return nil, err
	}
	return New(cfg.Name, body, ctrl, sender), nil
}

// New wires an already built body and controller into a character.
func New(name string, body *Body, ctrl *AnimationController, sender chan<- Message) *Character {
	id := uuid.New()
	return &Character{
		ID:        id,
		Name:      name,
		Body:      body,
		Animation: ctrl,
		Health:    DefaultHealth,
		sender:    sender,
		state:     ctrl.ActiveState(),
		log:       logger.Named("character").With(zap.String("name", name), zap.Stringer("id", id)),
	}
}

// Update drives the animation from intent for one tick of dt seconds.
func (c *Character) Update(dt float32, intent Intent) {
	c.intent = intent
	c.Animation.Apply(intent, dt)

	if s := c.Animation.ActiveState(); s != c.state {
		prev := c.state
		c.state = s
		c.log.Debug("animation state changed", zap.String("from", string(prev)), zap.String("to", string(s)))
		c.emit(Message{Kind: MessageStateChanged, Character: c.ID, Name: c.Name, From: prev, To: s})
	}
}

// Tick asks src for this tick's intent, then updates the animation.
func (c *Character) Tick(ctx TickContext, src Source) error {
	intent, err := src.Update(ctx, c.Body)
	if err != nil {
		return fmt.Errorf("%s: locomotion: %w", c.Name, err)
	}
	c.Update(ctx.Delta, intent)
	return nil
}

// Intent returns the intent of the last update.
func (c *Character) Intent() Intent { return c.intent }

// State returns the active animation state.
func (c *Character) State() ClipName { return c.state }

// Position returns the character's world position.
func (c *Character) Position(world physics.World) (math.Vec3, error) {
	return c.Body.Position(world)
}

// SetPosition teleports the character.
func (c *Character) SetPosition(world physics.World, p math.Vec3) error {
	return c.Body.SetPosition(world, p)
}

// Destroy removes the character's body from world.
func (c *Character) Destroy(world physics.World) error {
	return c.Body.Destroy(world)
}

// emit never blocks the tick; a full channel drops the message.
func (c *Character) emit(m Message) {
	if c.sender == nil {
		return
	}
	select {
	case c.sender <- m:
	default:
		c.log.Debug("message dropped", zap.Stringer("kind", m.Kind))
	}
}
