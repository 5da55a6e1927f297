package anim

import (
	"errors"
	"fmt"
	"sort"
)

// StateID identifies a state within one machine.
type StateID int

// NoState is returned by lookups that fail.
const NoState StateID = -1

// State plays a single clip.
type State struct {
	Name string
	Clip *Clip
}

// Transition blends From into To over Duration seconds once the boolean
// parameter Param is true. Among transitions leaving the same state, the lowest
// Priority wins; equal priorities resolve in registration order.
type Transition struct {
	Name     string
	From     StateID
	To       StateID
	Duration float32
	Param    string
	Priority int
}

// MachineBuilder collects states and transitions. A Machine is immutable in
// structure once built.
type MachineBuilder struct {
	skeleton    *Skeleton
	states      []State
	transitions []Transition
}

// NewMachineBuilder starts a machine driving skel.
func NewMachineBuilder(skel *Skeleton) *MachineBuilder {
	return &MachineBuilder{skeleton: skel}
}

// AddState registers a state and returns its id.
func (b *MachineBuilder) AddState(name string, clip *Clip) StateID {
	b.states = append(b.states, State{Name: name, Clip: clip})
	return StateID(len(b.states) - 1)
}

// AddTransition registers a transition.
func (b *MachineBuilder) AddTransition(t Transition) {
	b.transitions = append(b.transitions, t)
}

// Build validates the graph and returns a machine whose active state is entry.
func (b *MachineBuilder) Build(entry StateID) (*Machine, error) {
	var errs []error
	if b.skeleton == nil {
		errs = append(errs, errors.New("machine has no skeleton"))
	}
	if len(b.states) == 0 {
		errs = append(errs, errors.New("machine has no states"))
	}
	if !b.valid(entry) {
		errs = append(errs, fmt.Errorf("entry state %d is not declared", entry))
	}

	names := make(map[string]bool, len(b.states))
	for _, s := range b.states {
		if s.Name == "" {
			errs = append(errs, errors.New("state with empty name"))
		}
		if names[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate state %q", s.Name))
		}
		names[s.Name] = true
		if s.Clip == nil {
			errs = append(errs, fmt.Errorf("state %q has no clip", s.Name))
		} else if s.Clip.Skeleton() != b.skeleton {
			errs = append(errs, fmt.Errorf("state %q clip %q: %w", s.Name, s.Clip.Name(), ErrSkeletonMismatch))
		}
	}

	for _, t := range b.transitions {
		if !b.valid(t.From) || !b.valid(t.To) {
			errs = append(errs, fmt.Errorf("transition %q references an undeclared state", t.Name))
		}
		if t.Param == "" {
			errs = append(errs, fmt.Errorf("transition %q has no guard parameter", t.Name))
		}
		if t.Duration < 0 {
			errs = append(errs, fmt.Errorf("transition %q has negative duration %v", t.Name, t.Duration))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("build animation machine: %w", errors.Join(errs...))
	}

	m := &Machine{
		skeleton:    b.skeleton,
		states:      append([]State(nil), b.states...),
		transitions: append([]Transition(nil), b.transitions...),
		outgoing:    make([][]int, len(b.states)),
		params:      make(map[string]bool),
		entry:       entry,
		active:      entry,
		current:     -1,
		pose:        NewPose(b.skeleton.Len()),
		scratch:     NewPose(b.skeleton.Len()),
	}
	for i, t := range m.transitions {
		m.outgoing[t.From] = append(m.outgoing[t.From], i)
	}
	for _, out := range m.outgoing {
		sort.SliceStable(out, func(a, b int) bool {
			return m.transitions[out[a]].Priority < m.transitions[out[b]].Priority
		})
	}
	return m, nil
}

func (b *MachineBuilder) valid(id StateID) bool {
	return id >= 0 && int(id) < len(b.states)
}

// Machine evaluates a blended pose each tick from guarded state transitions.
type Machine struct {
	skeleton    *Skeleton
	states      []State
	transitions []Transition
	outgoing    [][]int // Per state, transition indices in priority order

	params map[string]bool

	entry  StateID
	active StateID

	current int // Running transition index, -1 when none
	elapsed float32

	pose    *Pose
	scratch *Pose
}

// SetParameter records a guard value. It returns m for chaining.
func (m *Machine) SetParameter(name string, value bool) *Machine {
	m.params[name] = value
	return m
}

// Parameter returns a guard value; unset parameters are false.
func (m *Machine) Parameter(name string) bool {
	return m.params[name]
}

// EntryState returns the entry state.
func (m *Machine) EntryState() StateID { return m.entry }

// ActiveState returns the state currently playing (the source while blending).
func (m *Machine) ActiveState() StateID { return m.active }

// ActiveStateName returns the name of the active state.
func (m *Machine) ActiveStateName() string { return m.states[m.active].Name }

// State returns the state with id.
func (m *Machine) State(id StateID) State { return m.states[id] }

// StateCount returns the number of declared states.
func (m *Machine) StateCount() int { return len(m.states) }

// StateByName looks up a state id.
func (m *Machine) StateByName(name string) StateID {
	for i, s := range m.states {
		if s.Name == name {
			return StateID(i)
		}
	}
	return NoState
}

// Transitions returns the transitions leaving from in priority order.
func (m *Machine) Transitions(from StateID) []Transition {
	out := make([]Transition, 0, len(m.outgoing[from]))
	for _, i := range m.outgoing[from] {
		out = append(out, m.transitions[i])
	}
	return out
}

// ActiveTransition returns the running transition, if any.
func (m *Machine) ActiveTransition() (Transition, bool) {
	if m.current < 0 {
		return Transition{}, false
	}
	return m.transitions[m.current], true
}

// BlendFactor returns the destination weight of the running transition (0 when idle).
func (m *Machine) BlendFactor() float32 {
	if m.current < 0 {
		return 0
	}
	d := m.transitions[m.current].Duration
	if d <= 0 {
		return 1
	}
	return clamp(m.elapsed/d, 0, 1)
}

// Skeleton returns the driven skeleton.
func (m *Machine) Skeleton() *Skeleton { return m.skeleton }

// Evaluate advances the machine by dt seconds and returns the blended pose.
// The returned pose is owned by the machine and overwritten by the next call.
//
// Order: finish or advance the running transition, start the first eligible
// transition out of the active state, sample, then advance sampled clips.
func (m *Machine) Evaluate(dt float32) *Pose {
	if m.current >= 0 {
		t := m.transitions[m.current]
		m.elapsed += dt
		if m.elapsed >= t.Duration {
			m.active = t.To
			m.current = -1
			m.elapsed = 0
		}
	}

	if m.current < 0 {
		for _, i := range m.outgoing[m.active] {
			t := m.transitions[i]
			if t.To != m.active && m.params[t.Param] {
				m.current = i
				m.elapsed = 0
				break
			}
		}
	}

	m.pose.reset()
	if m.current >= 0 {
		t := m.transitions[m.current]
		w := m.BlendFactor()
		from, to := m.states[t.From], m.states[t.To]

		m.sampleState(m.pose, from, 1-w)
		m.scratch.reset()
		m.sampleState(m.scratch, to, w)
		m.pose.blendWith(m.scratch, w)
		m.pose.Contributions = append(m.pose.Contributions, m.scratch.Contributions...)

		from.Clip.Advance(dt)
		if to.Clip != from.Clip {
			to.Clip.Advance(dt)
		}
	} else {
		s := m.states[m.active]
		m.sampleState(m.pose, s, 1)
		s.Clip.Advance(dt)
	}
	return m.pose
}

func (m *Machine) sampleState(p *Pose, s State, weight float32) {
	s.Clip.sample(p)
	p.Contributions = append(p.Contributions, Contribution{
		State:  s.Name,
		Clip:   s.Clip.Name(),
		Time:   s.Clip.Time(),
		Weight: weight,
	})
}

// Apply writes the pose onto the skeleton's local transforms.
func (m *Machine) Apply(p *Pose) {
	for i := range p.has {
		if p.has[i] {
			m.skeleton.SetLocal(i, p.Locals[i])
		}
	}
}

// Reset returns to the entry state, clears parameters and rewinds every clip.
func (m *Machine) Reset() {
	m.active = m.entry
	m.current = -1
	m.elapsed = 0
	clear(m.params)
	for _, s := range m.states {
		s.Clip.Rewind()
	}
}
