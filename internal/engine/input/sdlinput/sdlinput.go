// Package sdlinput polls SDL2 and converts its events to input.Event.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/jam/internal/engine/input"
)

// Input handles all input processing.
type Input struct {
	events []input.Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]input.Event, 0, 16),
	}
}

// Update polls SDL events and converts them to game events.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := convert(event)
		if !ok {
			continue
		}
		i.events = append(i.events, ev)
		if ev.Type == input.EventQuit {
			return true
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []input.Event {
	return i.events
}

func convert(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		ev := input.Event{
			Key:    input.KeyCode(e.Keysym.Scancode),
			Repeat: e.Repeat != 0,
		}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = input.EventKeyDown
		case sdl.KEYUP:
			ev.Type = input.EventKeyUp
		default:
			return input.Event{}, false
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type:   input.EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DX:     int(e.XRel),
			DY:     int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev := input.Event{
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: input.MouseButton(e.Button),
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = input.EventMouseDown
		case sdl.MOUSEBUTTONUP:
			ev.Type = input.EventMouseUp
		default:
			return input.Event{}, false
		}
		return ev, true
	}

	return input.Event{}, false
}
