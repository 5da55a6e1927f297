// Package game implements the fixed-step simulation loop: physics first, then
// locomotion and animation for the player and every bot.
package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/jam/internal/assets"
	"github.com/Faultbox/jam/internal/config"
	"github.com/Faultbox/jam/internal/engine/camera"
	"github.com/Faultbox/jam/internal/engine/input"
	"github.com/Faultbox/jam/internal/game/bot"
	"github.com/Faultbox/jam/internal/game/character"
	"github.com/Faultbox/jam/internal/game/locomotion"
	"github.com/Faultbox/jam/internal/game/player"
	"github.com/Faultbox/jam/internal/logger"
	"github.com/Faultbox/jam/internal/physics"
	"github.com/Faultbox/jam/pkg/math"
)

const messageBuffer = 64

// Game is the simulation instance. It is not safe for concurrent use.
type Game struct {
	world     *physics.Sandbox
	assets    *assets.Manager
	player    *player.Player
	bots      []*bot.Bot
	messages  chan character.Message
	onMessage func(character.Message)

	step       time.Duration
	maxCatchUp int
	accum      time.Duration
	now        time.Duration
	ticks      uint64

	log *zap.Logger
}

// New opens the configured asset roots and builds the game.
func New(cfg *config.Config) (*Game, error) {
	loader, err := assets.Open(cfg.Assets.Dirs, cfg.Assets.UseDemo)
	if err != nil {
		return nil, fmt.Errorf("open assets: %w", err)
	}
	g, err := NewWithAssets(cfg, loader)
	if err != nil {
		loader.Close()
		return nil, err
	}
	return g, nil
}

// NewWithAssets builds the world and spawns the player and bots from loader.
// On success the game owns loader and closes it in Close.
func NewWithAssets(cfg *config.Config, loader *assets.Manager) (*Game, error) {
	if cfg.Game.TickDuration() <= 0 {
		return nil, fmt.Errorf("invalid tick rate %d", cfg.Game.TickRate)
	}
	pcfg, err := playerConfig(cfg)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:      newWorld(cfg.Physics),
		assets:     loader,
		messages:   make(chan character.Message, messageBuffer),
		step:       cfg.Game.TickDuration(),
		maxCatchUp: cfg.Game.MaxCatchUpTicks,
		log:        logger.Named("game"),
	}
	if g.maxCatchUp <= 0 {
		g.maxCatchUp = 1
	}

	c, err := character.Spawn(g.world, loader, characterConfig("player", cfg.Player, 0), g.messages)
	if err != nil {
		return nil, err
	}
	g.player = player.New(c, pcfg)

	for i := 0; i < cfg.Game.BotCount; i++ {
		name := fmt.Sprintf("bot-%d", i+1)
		c, err := character.Spawn(g.world, loader, characterConfig(name, cfg.Bot.CharacterConfig, float32(i)*cfg.Bot.Spacing), g.messages)
		if err != nil {
			g.destroyActors()
			return nil, err
		}
		target := locomotion.FixedTarget(vec3(cfg.Bot.Target))
		if cfg.Bot.FollowPlayer {
			target = locomotion.FollowBody(g.player.Character.Body)
		}
		g.bots = append(g.bots, bot.New(c, locomotion.NewSteering(target, cfg.Bot.Speed.Run, cfg.Bot.ArriveDistance)))
	}

	g.log.Info("game initialized",
		zap.Duration("step", g.step),
		zap.Int("bots", len(g.bots)),
		zap.Strings("asset_roots", loader.Roots()),
	)
	return g, nil
}

func newWorld(cfg config.PhysicsConfig) *physics.Sandbox {
	w := physics.NewSandbox(math.Vec3{Y: cfg.Gravity})
	w.AddGround(cfg.GroundHeight)
	for _, p := range cfg.Platforms {
		w.AddPlatform(math.Rect{
			Min: math.Vec2{X: p.Min[0], Y: p.Min[1]},
			Max: math.Vec2{X: p.Max[0], Y: p.Max[1]},
		}, p.Height)
	}
	return w
}

// characterConfig converts a config section. Spawn is the foot position, shifted
// along X by offset.
func characterConfig(name string, cc config.CharacterConfig, offset float32) character.Config {
	clips := make(map[character.ClipName]string, len(cc.Clips))
	for k, v := range cc.Clips {
		clips[character.ClipName(k)] = v
	}
	pos := vec3(cc.Spawn)
	pos.X += offset
	pos.Y += cc.Size.Height/2 + cc.Size.Radius
	return character.Config{
		Name:  name,
		Model: cc.Model,
		Clips: clips,
		Body: character.BodyConfig{
			Position:       pos,
			Size:           character.Size{Height: cc.Size.Height, Radius: cc.Size.Radius},
			Scale:          cc.Scale,
			RootMotionBone: cc.RootMotionBone,
		},
	}
}

func playerConfig(cfg *config.Config) (player.Config, error) {
	var keymap locomotion.Keymap
	if len(cfg.Input.Keymap) > 0 {
		km, err := locomotion.ParseKeymap(cfg.Input.Keymap)
		if err != nil {
			return player.Config{}, fmt.Errorf("input: %w", err)
		}
		keymap = km
	}
	button := input.MouseNone
	if cfg.Input.AttackButton != "" {
		b, err := input.ParseMouseButton(cfg.Input.AttackButton)
		if err != nil {
			return player.Config{}, fmt.Errorf("input: %w", err)
		}
		button = b
	}
	return player.Config{
		Camera: camera.Settings{
			YawSensitivity:   cfg.Camera.YawSensitivity,
			PitchSensitivity: cfg.Camera.PitchSensitivity,
			MinPitch:         cfg.Camera.MinPitch,
			MaxPitch:         cfg.Camera.MaxPitch,
			InvertY:          cfg.Camera.InvertY,
		},
		Input: locomotion.InputConfig{
			Keymap:         keymap,
			AttackButton:   button,
			AttackDuration: cfg.Input.AttackDuration,
			Speed:          locomotion.Speed{Run: cfg.Player.Speed.Run, Jump: cfg.Player.Speed.Jump},
		},
	}, nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// ProcessInput forwards a raw input event to the player.
func (g *Game) ProcessInput(ev input.Event) {
	g.player.ProcessInput(ev)
}

// Tick runs one fixed step. Actor errors are collected; every actor still runs.
func (g *Game) Tick() error {
	dt := float32(g.step.Seconds())
	g.world.Step(dt)
	g.now += g.step
	g.ticks++

	var errs []error
	if err := g.player.Update(g.world, dt, g.now); err != nil {
		errs = append(errs, err)
	}
	for _, b := range g.bots {
		if err := b.Update(g.world, dt, g.now); err != nil {
			errs = append(errs, err)
		}
	}
	g.drainMessages()
	return errors.Join(errs...)
}

// Advance adds elapsed wall time and runs the fixed steps it covers, at most
// MaxCatchUpTicks of them. Whole steps beyond that are dropped. It returns the
// number of ticks run.
func (g *Game) Advance(elapsed time.Duration) (int, error) {
	g.accum += elapsed
	n := int(g.accum / g.step)
	if n > g.maxCatchUp {
		dropped := time.Duration(n-g.maxCatchUp) * g.step
		g.log.Warn("simulation behind, dropping time",
			zap.Int("ticks_due", n),
			zap.Duration("dropped", dropped),
		)
		g.accum -= dropped
		n = g.maxCatchUp
	}

	var errs []error
	for i := 0; i < n; i++ {
		if err := g.Tick(); err != nil {
			errs = append(errs, err)
		}
		g.accum -= g.step
	}
	return n, errors.Join(errs...)
}

func (g *Game) drainMessages() {
	for {
		select {
		case m := <-g.messages:
			g.log.Debug("character message",
				zap.Stringer("kind", m.Kind),
				zap.String("character", m.Name),
				zap.String("from", string(m.From)),
				zap.String("to", string(m.To)),
			)
			if g.onMessage != nil {
				g.onMessage(m)
			}
		default:
			return
		}
	}
}

// OnMessage registers h to receive every character message after it is logged.
func (g *Game) OnMessage(h func(character.Message)) {
	g.onMessage = h
}

// World returns the physics world.
func (g *Game) World() *physics.Sandbox { return g.world }

// Player returns the player.
func (g *Game) Player() *player.Player { return g.player }

// Bots returns the bots in spawn order.
func (g *Game) Bots() []*bot.Bot { return g.bots }

// Now returns simulated time.
func (g *Game) Now() time.Duration { return g.now }

// Ticks returns the number of fixed steps run.
func (g *Game) Ticks() uint64 { return g.ticks }

// Step returns the fixed step length.
func (g *Game) Step() time.Duration { return g.step }

// Close removes every character from the world and releases the assets.
func (g *Game) Close() {
	g.log.Info("closing game", zap.Uint64("ticks", g.ticks))
	g.destroyActors()
	g.player = nil
	g.bots = nil
	g.assets.Close()
}

func (g *Game) destroyActors() {
	var chars []*character.Character
	if g.player != nil {
		chars = append(chars, g.player.Character)
	}
	for _, b := range g.bots {
		chars = append(chars, b.Character)
	}
	for _, c := range chars {
		if err := c.Destroy(g.world); err != nil {
			g.log.Warn("failed to destroy character", zap.String("name", c.Name), zap.Error(err))
		}
	}
}
