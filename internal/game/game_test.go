package game

import (
	"errors"
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/jam/internal/assets"
	"github.com/Faultbox/jam/internal/config"
	"github.com/Faultbox/jam/internal/engine/input"
	"github.com/Faultbox/jam/internal/game/character"
)

func newGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestNew_Default(t *testing.T) {
	g := newGame(t, config.Default())

	if g.Player() == nil {
		t.Fatal("no player")
	}
	if len(g.Bots()) != 1 {
		t.Fatalf("len(Bots()) = %d, want 1", len(g.Bots()))
	}
	if n := g.World().BodyCount(); n != 2 {
		t.Errorf("BodyCount() = %d, want 2", n)
	}
	if g.Step() != time.Second/60 {
		t.Errorf("Step() = %v, want 1/60s", g.Step())
	}
	if s := g.Player().Character.State(); s != character.ClipIdle {
		t.Errorf("player starts in %q, want idle", s)
	}
}

func TestClose_RemovesBodies(t *testing.T) {
	g, err := New(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	world := g.World()
	g.Close()
	if n := world.BodyCount(); n != 0 {
		t.Errorf("BodyCount() = %d after Close, want 0", n)
	}
}

func TestNew_SpawnsOnFeet(t *testing.T) {
	cfg := config.Default()
	cfg.Game.BotCount = 3
	cfg.Bot.Spawn = [3]float32{4, 0, -6}
	cfg.Bot.Spacing = 2
	g := newGame(t, cfg)

	for i, b := range g.Bots() {
		pos, err := b.Character.Position(g.World())
		if err != nil {
			t.Fatal(err)
		}
		wantX := 4 + float32(i)*2
		if pos.X != wantX || pos.Z != -6 {
			t.Errorf("bot %d at %+v, want X=%v Z=-6", i, pos, wantX)
		}
		// Height/2 + Radius above the spawn point
		if gomath.Abs(float64(pos.Y-1.15)) > 1e-5 {
			t.Errorf("bot %d center at Y=%v, want 1.15", i, pos.Y)
		}
	}
}

func TestNew_InvalidInput(t *testing.T) {
	cfg := config.Default()
	cfg.Input.Keymap = map[string]string{"Hyper": "jump"}
	if _, err := New(cfg); !errors.Is(err, input.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}

	cfg = config.Default()
	cfg.Input.AttackButton = "thumb"
	if _, err := New(cfg); !errors.Is(err, input.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey for mouse button, got %v", err)
	}
}

func TestNew_MissingBotModel(t *testing.T) {
	cfg := config.Default()
	cfg.Bot.Model = "models/missing.yaml"

	loader, err := assets.Open(nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewWithAssets(cfg, loader); !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdvance_RunsWholeSteps(t *testing.T) {
	step := time.Second / 60
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{step - 1, 0},
		{step, 1},
		{2*step + 1, 2},
		{5 * step, 5},
		{8 * step, 8},
	}
	for _, tt := range tests {
		cfg := config.Default()
		cfg.Game.BotCount = 0
		g := newGame(t, cfg)

		n, err := g.Advance(tt.elapsed)
		if err != nil {
			t.Fatalf("Advance(%v): %v", tt.elapsed, err)
		}
		if n != tt.want || g.Ticks() != uint64(tt.want) {
			t.Errorf("Advance(%v) ran %d ticks (total %d), want %d", tt.elapsed, n, g.Ticks(), tt.want)
		}
		if g.Now() != time.Duration(tt.want)*step {
			t.Errorf("Now() = %v, want %v", g.Now(), time.Duration(tt.want)*step)
		}
	}
}

func TestAdvance_CarriesRemainder(t *testing.T) {
	cfg := config.Default()
	cfg.Game.BotCount = 0
	g := newGame(t, cfg)

	if n, _ := g.Advance(10 * time.Millisecond); n != 0 {
		t.Errorf("first Advance ran %d ticks, want 0", n)
	}
	if n, _ := g.Advance(10 * time.Millisecond); n != 1 {
		t.Errorf("second Advance ran %d ticks, want 1", n)
	}
	if n, _ := g.Advance(15 * time.Millisecond); n != 1 {
		t.Errorf("third Advance ran %d ticks, want 1", n)
	}
}

func TestAdvance_CapsCatchUp(t *testing.T) {
	cfg := config.Default()
	cfg.Game.BotCount = 0
	cfg.Game.MaxCatchUpTicks = 4
	g := newGame(t, cfg)

	n, err := g.Advance(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Advance(1s) ran %d ticks, want 4", n)
	}
	// The backlog is dropped, not carried into the next frame.
	if n, _ := g.Advance(0); n != 0 {
		t.Errorf("Advance(0) after a drop ran %d ticks, want 0", n)
	}
}

func TestTick_PhysicsRunsFirst(t *testing.T) {
	cfg := config.Default()
	cfg.Game.BotCount = 0
	g := newGame(t, cfg)

	// The spawn tick already sees ground contact from this step's physics.
	if err := g.Tick(); err != nil {
		t.Fatal(err)
	}
	if in := g.Player().Character.Intent(); in.Jumping {
		t.Errorf("player airborne on the first tick: %+v", in)
	}
}

func TestTick_Platforms(t *testing.T) {
	cfg := config.Default()
	cfg.Game.BotCount = 0
	cfg.Physics.Platforms = []config.PlatformConfig{{Min: [2]float32{-1, -1}, Max: [2]float32{1, 1}, Height: 2}}
	cfg.Player.Spawn = [3]float32{0, 2, 0}
	g := newGame(t, cfg)

	for i := 0; i < 30; i++ {
		if err := g.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	pos, _ := g.Player().Character.Position(g.World())
	if gomath.Abs(float64(pos.Y-3.15)) > 1e-4 {
		t.Errorf("player rests at Y=%v, want 3.15 on the platform", pos.Y)
	}
	if !g.Player().Character.Body.HasGroundContact(g.World()) {
		t.Error("player should stand on the platform")
	}
}

func TestMessages_ReportStateChanges(t *testing.T) {
	cfg := config.Default()
	cfg.Game.BotCount = 0
	g := newGame(t, cfg)

	var got []character.Message
	g.OnMessage(func(m character.Message) { got = append(got, m) })

	g.ProcessInput(input.Event{Type: input.EventKeyDown, Key: input.Letter('w')})
	for i := 0; i < 20; i++ {
		if err := g.Tick(); err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1: %+v", len(got), got)
	}
	m := got[0]
	if m.Name != "player" || m.From != character.ClipIdle || m.To != character.ClipRun {
		t.Errorf("unexpected message %+v", m)
	}
	if m.Character != g.Player().Character.ID {
		t.Error("message carries the wrong character ID")
	}
}

func TestBots_FollowPlayer(t *testing.T) {
	cfg := config.Default()
	cfg.Bot.FollowPlayer = true
	g := newGame(t, cfg)

	b := g.Bots()[0]
	start, _ := b.Character.Position(g.World())
	for i := 0; i < 30; i++ {
		if err := g.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	pos, _ := b.Character.Position(g.World())
	player, _ := g.Player().Character.Position(g.World())
	if pos.Horizontal().Distance(player.Horizontal()) >= start.Horizontal().Distance(player.Horizontal()) {
		t.Errorf("bot did not close in: start %+v now %+v player %+v", start, pos, player)
	}
	if s := b.Character.State(); s != character.ClipRun {
		t.Errorf("bot state = %q, want run", s)
	}
}
