package character

import (
	"fmt"

	"github.com/Faultbox/jam/internal/engine/anim"
)

// Guard parameters evaluated from Intent each tick.
const (
	paramAttacking      = "attacking"
	paramJumping        = "jumping"
	paramRunning        = "running"
	paramStopped        = "stopped"          // !running
	paramAttackGrounded = "attack_grounded"  // attacking && !jumping
	paramLandedRunning  = "landed_running"   // running && !jumping
	paramLandedIdle     = "landed_idle"      // !running && !jumping
	paramAttackDoneRun  = "attack_done_run"  // !attacking && running
	paramAttackDoneIdle = "attack_done_idle" // !attacking && !running
	paramAttackDoneJump = "attack_done_jump" // !attacking && jumping
)

// Transition priorities, lower wins.
const (
	priorityAttack     = 0
	priorityJump       = 1
	priorityLocomotion = 2
)

type transitionSpec struct {
	from, to ClipName
	param    string
	duration float32
	priority int
}

// characterTransitions is the full table; entries whose clips are absent are skipped.
var characterTransitions = []transitionSpec{
	{ClipIdle, ClipAttack, paramAttacking, 0.1, priorityAttack},
	{ClipRun, ClipAttack, paramAttacking, 0.1, priorityAttack},
	{ClipJump, ClipAttack, paramAttackGrounded, 0.1, priorityAttack},
	{ClipIdle, ClipJump, paramJumping, 0.25, priorityJump},
	{ClipRun, ClipJump, paramJumping, 0.25, priorityJump},
	{ClipAttack, ClipJump, paramAttackDoneJump, 0.1, priorityJump},
	{ClipRun, ClipIdle, paramStopped, 0.5, priorityLocomotion},
	{ClipIdle, ClipRun, paramRunning, 0.1, priorityLocomotion},
	{ClipJump, ClipRun, paramLandedRunning, 0.1, priorityLocomotion},
	{ClipJump, ClipIdle, paramLandedIdle, 0.5, priorityLocomotion},
	{ClipAttack, ClipRun, paramAttackDoneRun, 0.1, priorityLocomotion},
	{ClipAttack, ClipIdle, paramAttackDoneIdle, 0.1, priorityLocomotion},
}

// AnimationController maps locomotion intent onto the character's animation machine.
type AnimationController struct {
	machine *anim.Machine
	clips   *ClipSet
	states  map[anim.StateID]ClipName
}

// NewAnimationController builds the character state machine over clips.
// Entry is idle, or the only clip of a single-clip set.
func NewAnimationController(skel *anim.Skeleton, clips *ClipSet) (*AnimationController, error) {
	b := anim.NewMachineBuilder(skel)
	ids := make(map[ClipName]anim.StateID, clips.Len())
	states := make(map[anim.StateID]ClipName, clips.Len())
	for _, name := range clips.Names() {
		c, _ := clips.Get(name)
		id := b.AddState(string(name), c)
		ids[name] = id
		states[id] = name
	}

	for _, t := range characterTransitions {
		from, okFrom := ids[t.from]
		to, okTo := ids[t.to]
		if !okFrom || !okTo {
			continue
		}
		b.AddTransition(anim.Transition{
			Name:     fmt.Sprintf("%s->%s", t.from, t.to),
			From:     from,
			To:       to,
			Duration: t.duration,
			Param:    t.param,
			Priority: t.priority,
		})
	}

	entry, ok := ids[ClipIdle]
	if !ok {
		// NewClipSet guarantees a single clip here
		entry = ids[clips.Names()[0]]
	}
	m, err := b.Build(entry)
	if err != nil {
		return nil, err
	}
	return &AnimationController{machine: m, clips: clips, states: states}, nil
}

// Apply feeds intent into the machine, advances it by dt and writes the pose to the skeleton.
func (a *AnimationController) Apply(intent Intent, dt float32) *anim.Pose {
	if intent.JustStartedJumping {
		if jump, ok := a.clips.Get(ClipJump); ok {
			jump.Rewind()
		}
	}

	a.machine.
		SetParameter(paramAttacking, intent.Attacking).
		SetParameter(paramJumping, intent.Jumping).
		SetParameter(paramRunning, intent.Running).
		SetParameter(paramStopped, !intent.Running).
		SetParameter(paramAttackGrounded, intent.Attacking && !intent.Jumping).
		SetParameter(paramLandedRunning, intent.Running && !intent.Jumping).
		SetParameter(paramLandedIdle, !intent.Running && !intent.Jumping).
		SetParameter(paramAttackDoneRun, !intent.Attacking && intent.Running).
		SetParameter(paramAttackDoneIdle, !intent.Attacking && !intent.Running).
		SetParameter(paramAttackDoneJump, !intent.Attacking && intent.Jumping)

	pose := a.machine.Evaluate(dt)
	a.machine.Apply(pose)
	return pose
}

// ActiveState returns the clip currently playing (the source while blending).
func (a *AnimationController) ActiveState() ClipName {
	return a.states[a.machine.ActiveState()]
}

// Machine exposes the underlying state machine.
func (a *AnimationController) Machine() *anim.Machine { return a.machine }

// Clips returns the clip set.
func (a *AnimationController) Clips() *ClipSet { return a.clips }
