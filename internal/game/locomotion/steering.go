package locomotion

import (
	"github.com/Faultbox/jam/internal/game/character"
	"github.com/Faultbox/jam/internal/physics"
	"github.com/Faultbox/jam/pkg/math"
)

// DefaultArriveDistance is the horizontal distance at which a bot stops.
const DefaultArriveDistance = 0.1

// TargetFunc returns the point a bot heads for this tick.
type TargetFunc func(world physics.World) (math.Vec3, error)

// FixedTarget always returns p.
func FixedTarget(p math.Vec3) TargetFunc {
	return func(physics.World) (math.Vec3, error) { return p, nil }
}

// FollowBody targets the current position of another body.
func FollowBody(b *character.Body) TargetFunc {
	return b.Position
}

// Steering is the bot locomotion source: it faces its target and runs toward it
// until within ArriveDistance. It never jumps or attacks.
type Steering struct {
	Target         TargetFunc
	Speed          float32
	ArriveDistance float32
}

// NewSteering creates steering toward target at speed. arrive <= 0 uses DefaultArriveDistance.
func NewSteering(target TargetFunc, speed, arrive float32) *Steering {
	if arrive <= 0 {
		arrive = DefaultArriveDistance
	}
	return &Steering{Target: target, Speed: speed, ArriveDistance: arrive}
}

// Update turns the body toward the target and sets its horizontal velocity.
// On arrival the horizontal velocity is cleared so the bot does not drift.
func (s *Steering) Update(ctx character.TickContext, body *character.Body) (character.Intent, error) {
	world := ctx.World
	iso, err := world.Position(body.Handle)
	if err != nil {
		return character.Intent{}, err
	}
	target, err := s.Target(world)
	if err != nil {
		return character.Intent{}, err
	}

	pos := iso.Translation
	target.Y = pos.Y
	dir := target.Sub(pos)
	dist := dir.Length()

	if d, ok := dir.TryNormalize(math.Epsilon); ok {
		iso.Rotation = math.QuatFaceTowards(d, math.Vec3Up)
		if err := world.SetPosition(body.Handle, iso); err != nil {
			return character.Intent{}, err
		}
	}

	v, err := world.LinearVelocity(body.Handle)
	if err != nil {
		return character.Intent{}, err
	}

	var intent character.Intent
	if dist > s.ArriveDistance {
		d := dir.Scale(1 / dist).Scale(s.Speed)
		v = math.Vec3{X: d.X, Y: v.Y, Z: d.Z}
		intent.Running = true
	} else {
		v = math.Vec3{Y: v.Y}
	}
	if err := world.SetLinearVelocity(body.Handle, v); err != nil {
		return character.Intent{}, err
	}
	return intent, nil
}

var _ character.Source = (*Steering)(nil)
