// Package input defines the raw input events consumed by the game.
// Device polling lives in subpackages so the game core builds without SDL.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned when a key or button name cannot be resolved.
var ErrUnknownKey = errors.New("input: unknown key")

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    KeyCode
	Repeat bool // Key auto-repeat
	Width  int
	Height int
	MouseX int
	MouseY int
	DX     int // Relative mouse motion
	DY     int
	Button MouseButton
}

// Pressed reports whether the event is a key or button going down.
func (e Event) Pressed() bool {
	return e.Type == EventKeyDown || e.Type == EventMouseDown
}

// Released reports whether the event is a key or button going up.
func (e Event) Released() bool {
	return e.Type == EventKeyUp || e.Type == EventMouseUp
}

// KeyCode is a physical key position. Values follow the USB HID usage table,
// which is also what SDL scancodes use.
type KeyCode uint32

const (
	KeyUnknown   KeyCode = 0
	KeyA         KeyCode = 4
	KeyZ         KeyCode = 29
	Key1         KeyCode = 30
	Key0         KeyCode = 39
	KeyReturn    KeyCode = 40
	KeyEscape    KeyCode = 41
	KeyBackspace KeyCode = 42
	KeyTab       KeyCode = 43
	KeySpace     KeyCode = 44
	KeyRight     KeyCode = 79
	KeyLeft      KeyCode = 80
	KeyDown      KeyCode = 81
	KeyUp        KeyCode = 82
	KeyLCtrl     KeyCode = 224
	KeyLShift    KeyCode = 225
	KeyLAlt      KeyCode = 226
)

// Letter returns the key for an ASCII letter, or KeyUnknown.
func Letter(r rune) KeyCode {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + KeyCode(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + KeyCode(r-'A')
	}
	return KeyUnknown
}

var namedKeys = map[string]KeyCode{
	"return":    KeyReturn,
	"enter":     KeyReturn,
	"escape":    KeyEscape,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"space":     KeySpace,
	"right":     KeyRight,
	"left":      KeyLeft,
	"down":      KeyDown,
	"up":        KeyUp,
	"lctrl":     KeyLCtrl,
	"lshift":    KeyLShift,
	"lalt":      KeyLAlt,
}

// ParseKey resolves a key name such as "W", "Space" or "Up". Names are case-insensitive.
func ParseKey(name string) (KeyCode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Letter(rune(c)), nil
		case c == '0':
			return Key0, nil
		case c >= '1' && c <= '9':
			return Key1 + KeyCode(c-'1'), nil
		}
	}
	if k, ok := namedKeys[n]; ok {
		return k, nil
	}
	return KeyUnknown, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// String returns the canonical name accepted by ParseKey.
func (k KeyCode) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + (k - KeyA)))
	case k == Key0:
		return "0"
	case k >= Key1 && k < Key0:
		return string(rune('1' + (k - Key1)))
	}
	for name, code := range namedKeys {
		if code == k && name != "enter" {
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return fmt.Sprintf("Key(%d)", uint32(k))
}

// MouseButton identifies a mouse button. Values match SDL's button indices.
type MouseButton uint8

const (
	MouseNone   MouseButton = 0
	MouseLeft   MouseButton = 1
	MouseMiddle MouseButton = 2
	MouseRight  MouseButton = 3
)

// ParseMouseButton resolves "left", "middle" or "right".
func ParseMouseButton(name string) (MouseButton, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return MouseLeft, nil
	case "middle":
		return MouseMiddle, nil
	case "right":
		return MouseRight, nil
	}
	return MouseNone, fmt.Errorf("%w: mouse button %q", ErrUnknownKey, name)
}
