// Package character ties a skinned model, its physics body and its animation
// state machine together, and drives them from per-tick locomotion intent.
package character

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Faultbox/jam/internal/physics"
	"github.com/Faultbox/jam/pkg/math"
)

// Intent is what locomotion decided this tick; it selects animation transitions.
// JustStartedJumping implies Jumping.
type Intent struct {
	Running            bool
	Jumping            bool
	JustStartedJumping bool
	Attacking          bool
}

// TickContext carries the per-tick inputs shared by all locomotion sources.
type TickContext struct {
	World physics.World
	Delta float32       // Fixed step in seconds
	Now   time.Duration // Monotonic time since the game started
	Look  math.Vec3     // Camera look vector, for input-driven sources
	Side  math.Vec3     // Camera side vector (points left)
}

// Source produces intent for one body each tick, commanding its velocity as a side effect.
type Source interface {
	Update(ctx TickContext, body *Body) (Intent, error)
}

// MessageKind classifies a Message.
type MessageKind int

const (
	MessageStateChanged MessageKind = iota + 1
)

func (k MessageKind) String() string {
	switch k {
	case MessageStateChanged:
		return "state_changed"
	}
	return fmt.Sprintf("MessageKind(%d)", int(k))
}

// Message is emitted by characters on the game's message channel.
type Message struct {
	Kind      MessageKind
	Character uuid.UUID
	Name      string
	From      ClipName
	To        ClipName
}
