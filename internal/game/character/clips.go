package character

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/jam/internal/assets"
	"github.com/Faultbox/jam/internal/engine/anim"
)

// ErrMissingClip is returned when a clip set lacks a clip it needs.
var ErrMissingClip = errors.New("character: missing clip")

// ClipName is the semantic name of an animation clip.
type ClipName string

const (
	ClipIdle   ClipName = "idle"
	ClipRun    ClipName = "run"
	ClipJump   ClipName = "jump"
	ClipAttack ClipName = "attack"
	ClipWalk   ClipName = "walk"
)

func (n ClipName) String() string { return string(n) }

// ClipSet holds the clips of one character, each retargeted onto its skeleton.
type ClipSet struct {
	clips map[ClipName]*anim.Clip
}

// NewClipSet validates clips: at least one, and idle whenever there are several.
// The jump clip is forced to play once.
func NewClipSet(clips map[ClipName]*anim.Clip) (*ClipSet, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: clip set is empty", ErrMissingClip)
	}
	if len(clips) > 1 && clips[ClipIdle] == nil {
		return nil, fmt.Errorf("%w: %q is required alongside other clips", ErrMissingClip, ClipIdle)
	}
	s := &ClipSet{clips: make(map[ClipName]*anim.Clip, len(clips))}
	for name, c := range clips {
		if c == nil {
			return nil, fmt.Errorf("%w: %q is nil", ErrMissingClip, name)
		}
		if name == ClipJump {
			c.SetLooping(false)
		}
		s.clips[name] = c
	}
	return s, nil
}

// LoadClipSet loads, decodes and retargets each clip in paths onto body's
// skeleton, disabling the body's root-motion bone track on every clip.
func LoadClipSet(loader assets.Loader, paths map[ClipName]string, body *Body) (*ClipSet, error) {
	names := make([]ClipName, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	clips := make(map[ClipName]*anim.Clip, len(paths))
	for _, name := range names {
		path := paths[name]
		data, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("clip %q: %w", name, err)
		}
		clipData, err := anim.DecodeClip(data)
		if err != nil {
			return nil, fmt.Errorf("clip %q from %s: %w", name, path, err)
		}
		clip, err := anim.Retarget(clipData, body.Skeleton)
		if err != nil {
			return nil, fmt.Errorf("clip %q: %w", name, err)
		}
		if body.RootMotionBone >= 0 {
			bone := body.Skeleton.Bone(body.RootMotionBone).Name
			if err := clip.SetTrackEnabled(bone, false); err != nil {
				return nil, fmt.Errorf("clip %q: %w", name, err)
			}
		}
		clips[name] = clip
	}
	return NewClipSet(clips)
}

// Get returns the clip named name.
func (s *ClipSet) Get(name ClipName) (*anim.Clip, bool) {
	c, ok := s.clips[name]
	return c, ok
}

// Has reports whether the set contains name.
func (s *ClipSet) Has(name ClipName) bool {
	_, ok := s.clips[name]
	return ok
}

// Len returns the number of clips.
func (s *ClipSet) Len() int { return len(s.clips) }

// Names returns the clip names in sorted order.
func (s *ClipSet) Names() []ClipName {
	names := make([]ClipName, 0, len(s.clips))
	for n := range s.clips {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
