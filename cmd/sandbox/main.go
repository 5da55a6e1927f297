// sandbox runs the simulation headless from a scripted input sequence and
// prints every animation state change.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/jam/internal/config"
	"github.com/Faultbox/jam/internal/engine/anim"
	"github.com/Faultbox/jam/internal/game"
	"github.com/Faultbox/jam/internal/game/character"
	"github.com/Faultbox/jam/internal/logger"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "run":
		err = cmdRun(cfg, args)
	case "clips":
		err = cmdClips(cfg)
	case "config":
		err = cmdConfig(cfg)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sandbox - headless jam simulation

Usage:
  sandbox [flags] <command> [args]

Commands:
  run [script.yaml]   Play a scripted input sequence (built-in demo if omitted)
  clips               Show the player's animation states and transitions
  config              Print the effective configuration as YAML

Examples:
  sandbox run
  sandbox -bots 3 -debug run walk.yaml
  sandbox -config jam.yaml config`)
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func cmdRun(cfg *config.Config, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	script, err := loadScript(path)
	if err != nil {
		return err
	}
	events, err := script.events()
	if err != nil {
		return err
	}

	g, err := game.New(cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	g.OnMessage(func(m character.Message) {
		fmt.Printf("%8.3fs  %-10s %s -> %s\n", g.Now().Seconds(), m.Name, m.From, m.To)
	})

	next := 0
	for g.Now() < script.Duration {
		for next < len(events) && events[next].at <= g.Now() {
			g.ProcessInput(events[next].ev)
			next++
		}
		if err := g.Tick(); err != nil {
			return fmt.Errorf("tick %d: %w", g.Ticks(), err)
		}
	}

	fmt.Printf("\n%d ticks, %.3fs simulated\n", g.Ticks(), g.Now().Seconds())
	chars := []*character.Character{g.Player().Character}
	for _, b := range g.Bots() {
		chars = append(chars, b.Character)
	}
	for _, c := range chars {
		pos, err := c.Position(g.World())
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %-7s (%.2f, %.2f, %.2f)\n", c.Name, c.State(), pos.X, pos.Y, pos.Z)
	}
	return nil
}

func cmdClips(cfg *config.Config) error {
	cfg.Game.BotCount = 0
	g, err := game.New(cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	ctrl := g.Player().Character.Animation
	fmt.Printf("Clips (%d):\n", ctrl.Clips().Len())
	for _, name := range ctrl.Clips().Names() {
		clip, _ := ctrl.Clips().Get(name)
		fmt.Printf("  %-8s %.2fs loop=%v\n", name, clip.Duration(), clip.Looping())
	}

	m := ctrl.Machine()
	fmt.Printf("\nTransitions (entry %s):\n", m.State(m.EntryState()).Name)
	for id := anim.StateID(0); int(id) < m.StateCount(); id++ {
		for _, t := range m.Transitions(id) {
			fmt.Printf("  %-14s when %-16s p%d %.2fs\n", t.Name, t.Param, t.Priority, t.Duration)
		}
	}
	return nil
}

func cmdConfig(cfg *config.Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
