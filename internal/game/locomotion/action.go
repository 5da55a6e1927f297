// Package locomotion turns player input or bot targets into body velocity
// commands and the per-tick intent that drives character animation.
package locomotion

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Faultbox/jam/internal/engine/input"
)

// ErrUnknownAction is returned for an action name that is not defined.
var ErrUnknownAction = errors.New("locomotion: unknown action")

// Action is a logical control.
type Action int

const (
	ActionForward Action = iota
	ActionBackward
	ActionLeft
	ActionRight
	ActionJump
	ActionAttack

	actionCount
)

var actionNames = [actionCount]string{
	ActionForward:  "forward",
	ActionBackward: "backward",
	ActionLeft:     "left",
	ActionRight:    "right",
	ActionJump:     "jump",
	ActionAttack:   "attack",
}

func (a Action) String() string {
	if a >= 0 && a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction resolves an action name, case-insensitively.
func ParseAction(name string) (Action, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for a, s := range actionNames {
		if s == n {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Keymap binds physical keys to actions.
type Keymap map[input.KeyCode]Action

// DefaultKeymap is WASD plus arrows, Space to jump.
func DefaultKeymap() Keymap {
	return Keymap{
		input.Letter('w'): ActionForward,
		input.Letter('s'): ActionBackward,
		input.Letter('a'): ActionLeft,
		input.Letter('d'): ActionRight,
		input.KeyUp:       ActionForward,
		input.KeyDown:     ActionBackward,
		input.KeyLeft:     ActionLeft,
		input.KeyRight:    ActionRight,
		input.KeySpace:    ActionJump,
	}
}

// ParseKeymap converts key name -> action name bindings, reporting every bad entry.
func ParseKeymap(bindings map[string]string) (Keymap, error) {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	km := make(Keymap, len(bindings))
	var errs []error
	for _, keyName := range keys {
		key, err := input.ParseKey(keyName)
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap: %w", err))
			continue
		}
		action, err := ParseAction(bindings[keyName])
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap %s: %w", keyName, err))
			continue
		}
		km[key] = action
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return km, nil
}
