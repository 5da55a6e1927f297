// Package bot drives AI characters that steer toward a target.
package bot

import (
	"time"

	"github.com/Faultbox/jam/internal/game/character"
	"github.com/Faultbox/jam/internal/game/locomotion"
	"github.com/Faultbox/jam/internal/physics"
)

// Bot is a character steered toward a target.
type Bot struct {
	Character *character.Character
	Steering  *locomotion.Steering
}

// New wraps c as a bot.
func New(c *character.Character, s *locomotion.Steering) *Bot {
	return &Bot{Character: c, Steering: s}
}

// Update ticks the character with the bot's steering.
func (b *Bot) Update(world physics.World, dt float32, now time.Duration) error {
	return b.Character.Tick(character.TickContext{World: world, Delta: dt, Now: now}, b.Steering)
}
