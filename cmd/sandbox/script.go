package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/jam/internal/engine/input"
)

// defaultScript runs forward, jumps mid-run, attacks, then stops.
const defaultScript = `
duration: 4s
steps:
  - at: 0s
    press: W
  - at: 500ms
    mouse: [150, 0]
  - at: 1s
    press: Space
  - at: 1100ms
    release: Space
  - at: 2s
    button_down: left
  - at: 2100ms
    button_up: left
  - at: 3s
    release: W
`

// Script is a timed sequence of input for a headless run.
type Script struct {
	Duration time.Duration `yaml:"duration"`
	Steps    []Step        `yaml:"steps"`
}

// Step is one scripted input. Any combination of fields may be set.
type Step struct {
	At         time.Duration `yaml:"at"`
	Press      string        `yaml:"press"`
	Release    string        `yaml:"release"`
	ButtonDown string        `yaml:"button_down"`
	ButtonUp   string        `yaml:"button_up"`
	Mouse      []int         `yaml:"mouse"` // Relative motion dx, dy
}

type timedEvent struct {
	at time.Duration
	ev input.Event
}

func loadScript(path string) (*Script, error) {
	data := []byte(defaultScript)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
	}
	return parseScript(data)
}

func parseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.Duration <= 0 {
		return nil, errors.New("script: duration must be positive")
	}
	return &s, nil
}

// events converts the steps to input events ordered by time.
func (s *Script) events() ([]timedEvent, error) {
	var out []timedEvent
	var errs []error
	add := func(at time.Duration, ev input.Event) {
		out = append(out, timedEvent{at: at, ev: ev})
	}

	for i, st := range s.Steps {
		if st.Press != "" {
			k, err := input.ParseKey(st.Press)
			if err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			} else {
				add(st.At, input.Event{Type: input.EventKeyDown, Key: k})
			}
		}
		if st.Release != "" {
			k, err := input.ParseKey(st.Release)
			if err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			} else {
				add(st.At, input.Event{Type: input.EventKeyUp, Key: k})
			}
		}
		if st.ButtonDown != "" {
			b, err := input.ParseMouseButton(st.ButtonDown)
			if err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			} else {
				add(st.At, input.Event{Type: input.EventMouseDown, Button: b})
			}
		}
		if st.ButtonUp != "" {
			b, err := input.ParseMouseButton(st.ButtonUp)
			if err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
			} else {
				add(st.At, input.Event{Type: input.EventMouseUp, Button: b})
			}
		}
		if len(st.Mouse) > 0 {
			if len(st.Mouse) != 2 {
				errs = append(errs, fmt.Errorf("step %d: mouse wants [dx, dy], got %v", i, st.Mouse))
			} else {
				add(st.At, input.Event{Type: input.EventMouseMove, DX: st.Mouse[0], DY: st.Mouse[1]})
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out, nil
}
