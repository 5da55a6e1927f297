// Package main is the entry point for the jam client.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/jam/internal/config"
	"github.com/Faultbox/jam/internal/engine/input"
	"github.com/Faultbox/jam/internal/engine/input/sdlinput"
	"github.com/Faultbox/jam/internal/engine/window"
	"github.com/Faultbox/jam/internal/game"
	"github.com/Faultbox/jam/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== jam ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("client error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("client closed normally")
}

func run(cfg *config.Config) error {
	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	defer g.Close()

	// Window after the game so asset errors surface before a window pops up
	win, err := window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()
	win.CaptureMouse(true)

	in := sdlinput.New()
	last := time.Now()
	frames := 0
	fpsTimer := last

	for {
		if in.Update() {
			return nil
		}
		for _, ev := range in.Events() {
			switch ev.Type {
			case input.EventWindowResize:
				win.Resize(ev.Width, ev.Height)
				continue
			case input.EventKeyDown:
				if ev.Key == input.KeyEscape {
					return nil
				}
			}
			g.ProcessInput(ev)
		}

		now := time.Now()
		if _, err := g.Advance(now.Sub(last)); err != nil {
			logger.Error("tick failed", zap.Error(err))
		}
		last = now

		win.Clear()
		win.SwapBuffers()

		frames++
		if now.Sub(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("frames", frames), zap.Uint64("ticks", g.Ticks()))
			frames = 0
			fpsTimer = now
		}
	}
}
