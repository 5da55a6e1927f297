// Package config handles game configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/jam/internal/logger"
)

// Config holds all game settings.
type Config struct {
	Game     GameConfig      `yaml:"game"`
	Physics  PhysicsConfig   `yaml:"physics"`
	Graphics GraphicsConfig  `yaml:"graphics"`
	Assets   AssetsConfig    `yaml:"assets"`
	Player   CharacterConfig `yaml:"player"`
	Bot      BotConfig       `yaml:"bot"`
	Camera   CameraConfig    `yaml:"camera"`
	Input    InputConfig     `yaml:"input"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// GameConfig holds simulation loop settings.
type GameConfig struct {
	TickRate        int `yaml:"tick_rate"`          // Fixed ticks per second
	MaxCatchUpTicks int `yaml:"max_catch_up_ticks"` // Ticks run per frame at most
	BotCount        int `yaml:"bot_count"`
}

// TickDuration returns the length of one fixed step.
func (g GameConfig) TickDuration() time.Duration {
	if g.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(g.TickRate)
}

// PhysicsConfig describes the sandbox world.
type PhysicsConfig struct {
	Gravity      float32          `yaml:"gravity"`
	GroundHeight float32          `yaml:"ground_height"`
	Platforms    []PlatformConfig `yaml:"platforms"`
}

// PlatformConfig is a raised horizontal rectangle.
type PlatformConfig struct {
	Min    [2]float32 `yaml:"min"` // X, Z
	Max    [2]float32 `yaml:"max"`
	Height float32    `yaml:"height"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// AssetsConfig lists where models and clips are read from.
// Directories are searched last-first; the embedded demo set sits below them.
type AssetsConfig struct {
	Dirs    []string `yaml:"dirs"`
	UseDemo bool     `yaml:"use_demo"`
}

// CharacterConfig is the per-character-type snapshot the core needs at spawn.
type CharacterConfig struct {
	Model          string            `yaml:"model"`
	Clips          map[string]string `yaml:"clips"` // Clip name -> asset path
	RootMotionBone string            `yaml:"root_motion_bone"`
	Size           SizeConfig        `yaml:"size"`
	Scale          float32           `yaml:"scale"`
	Speed          SpeedConfig       `yaml:"speed"`
	Spawn          [3]float32        `yaml:"spawn"`
}

// SizeConfig is the capsule size.
type SizeConfig struct {
	Height float32 `yaml:"height"`
	Radius float32 `yaml:"radius"`
}

// SpeedConfig holds movement speeds in units per second.
type SpeedConfig struct {
	Run  float32 `yaml:"run"`
	Jump float32 `yaml:"jump"`
}

// BotConfig extends CharacterConfig with steering settings.
type BotConfig struct {
	CharacterConfig `yaml:",inline"`
	Target          [3]float32 `yaml:"target"`
	ArriveDistance  float32    `yaml:"arrive_distance"`
	FollowPlayer    bool       `yaml:"follow_player"`
	Spacing         float32    `yaml:"spacing"` // Distance between spawned bots along X
}

// CameraConfig holds mouse-look settings in degrees.
type CameraConfig struct {
	YawSensitivity   float32 `yaml:"yaw_sensitivity"`   // Degrees per pixel
	PitchSensitivity float32 `yaml:"pitch_sensitivity"` // Degrees per pixel
	MinPitch         float32 `yaml:"min_pitch"`
	MaxPitch         float32 `yaml:"max_pitch"`
	InvertY          bool    `yaml:"invert_y"`
}

// InputConfig maps raw keys to locomotion actions.
type InputConfig struct {
	Keymap         map[string]string `yaml:"keymap"` // Key name -> action name
	AttackButton   string            `yaml:"attack_button"`
	AttackDuration time.Duration     `yaml:"attack_duration"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			TickRate:        60,
			MaxCatchUpTicks: 8,
			BotCount:        1,
		},
		Physics: PhysicsConfig{
			Gravity:      -9.81,
			GroundHeight: 0,
		},
		Graphics: GraphicsConfig{
			Title:  "jam",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Assets: AssetsConfig{
			UseDemo: true,
		},
		Player: defaultCharacter([3]float32{0, 0, 0}),
		Bot: BotConfig{
			CharacterConfig: defaultCharacter([3]float32{4, 0, -6}),
			Target:          [3]float32{0, 0, 0},
			ArriveDistance:  0.1,
			FollowPlayer:    true,
			Spacing:         2,
		},
		Camera: CameraConfig{
			YawSensitivity:   0.3,
			PitchSensitivity: 0.57,
			MinPitch:         -90,
			MaxPitch:         90,
		},
		Input: InputConfig{
			Keymap: map[string]string{
				"W":     "forward",
				"S":     "backward",
				"A":     "left",
				"D":     "right",
				"Up":    "forward",
				"Down":  "backward",
				"Left":  "left",
				"Right": "right",
				"Space": "jump",
			},
			AttackButton:   "left",
			AttackDuration: time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultCharacter(spawn [3]float32) CharacterConfig {
	return CharacterConfig{
		Model: "models/paladin.yaml",
		Clips: map[string]string{
			"idle":   "clips/idle.yaml",
			"run":    "clips/run.yaml",
			"jump":   "clips/jump.yaml",
			"attack": "clips/attack.yaml",
		},
		RootMotionBone: "spine",
		Size:           SizeConfig{Height: 1.6, Radius: 0.35},
		Scale:          1,
		Speed:          SpeedConfig{Run: 3, Jump: 3},
		Spawn:          spawn,
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Game.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_rate must be positive, got %d", c.Game.TickRate))
	}
	if c.Game.MaxCatchUpTicks <= 0 {
		errs = append(errs, fmt.Errorf("game.max_catch_up_ticks must be positive, got %d", c.Game.MaxCatchUpTicks))
	}
	if c.Game.BotCount < 0 {
		errs = append(errs, fmt.Errorf("game.bot_count must not be negative, got %d", c.Game.BotCount))
	}
	for i, p := range c.Physics.Platforms {
		if p.Min[0] >= p.Max[0] || p.Min[1] >= p.Max[1] {
			errs = append(errs, fmt.Errorf("physics.platforms[%d]: min must be below max", i))
		}
	}
	if !c.Assets.UseDemo && len(c.Assets.Dirs) == 0 {
		errs = append(errs, errors.New("assets: no dirs and demo set disabled"))
	}

	errs = append(errs, c.Player.validate("player")...)
	errs = append(errs, c.Bot.validate("bot")...)
	if c.Bot.ArriveDistance < 0 {
		errs = append(errs, fmt.Errorf("bot.arrive_distance must not be negative, got %v", c.Bot.ArriveDistance))
	}

	if c.Camera.MinPitch > c.Camera.MaxPitch {
		errs = append(errs, fmt.Errorf("camera.min_pitch %v above max_pitch %v", c.Camera.MinPitch, c.Camera.MaxPitch))
	}
	if c.Input.AttackDuration < 0 {
		errs = append(errs, fmt.Errorf("input.attack_duration must not be negative, got %v", c.Input.AttackDuration))
	}
	if !logger.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	return errors.Join(errs...)
}

func (c CharacterConfig) validate(section string) []error {
	var errs []error
	if c.Model == "" {
		errs = append(errs, fmt.Errorf("%s.model is required", section))
	}
	if len(c.Clips) == 0 {
		errs = append(errs, fmt.Errorf("%s.clips must name at least one clip", section))
	}
	if c.Size.Height <= 0 || c.Size.Radius <= 0 {
		errs = append(errs, fmt.Errorf("%s.size must be positive, got %+v", section, c.Size))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%s.scale must be positive, got %v", section, c.Scale))
	}
	if c.Speed.Run < 0 || c.Speed.Jump < 0 {
		errs = append(errs, fmt.Errorf("%s.speed must not be negative, got %+v", section, c.Speed))
	}
	return errs
}
