package anim

import (
	"errors"
	"fmt"
	gomath "math"
)

// ErrSkeletonMismatch is returned when a clip is used with a skeleton it was not retargeted to.
var ErrSkeletonMismatch = errors.New("anim: clip bound to a different skeleton")

// ClipData is an animation as loaded from an asset, not yet bound to a skeleton.
type ClipData struct {
	Name     string
	Duration float32 // Seconds; derived from the last key when zero
	Looping  bool
	Tracks   []Track
}

// Clip is a ClipData retargeted onto one skeleton instance, with its own playback time.
type Clip struct {
	name     string
	duration float32
	looping  bool
	time     float32

	skeleton *Skeleton
	tracks   []boundTrack
}

type boundTrack struct {
	bone    int
	track   Track
	enabled bool
}

// Retarget binds data onto skel by bone name.
// A track naming a bone the skeleton lacks is a configuration error.
func Retarget(data *ClipData, skel *Skeleton) (*Clip, error) {
	if data == nil || skel == nil {
		return nil, errors.New("retarget: nil clip or skeleton")
	}

	c := &Clip{
		name:     data.Name,
		duration: max(data.Duration, 0),
		looping:  data.Looping,
		skeleton: skel,
		tracks:   make([]boundTrack, 0, len(data.Tracks)),
	}
	for _, tr := range data.Tracks {
		bone, err := skel.MustBoneIndex(tr.Bone)
		if err != nil {
			return nil, fmt.Errorf("retarget clip %q: %w", data.Name, err)
		}
		c.tracks = append(c.tracks, boundTrack{bone: bone, track: tr, enabled: true})
		if data.Duration <= 0 {
			if last := tr.lastKeyTime(); last > c.duration {
				c.duration = last
			}
		}
	}
	return c, nil
}

// Name returns the clip name.
func (c *Clip) Name() string { return c.name }

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float32 { return c.duration }

// Skeleton returns the skeleton the clip is bound to.
func (c *Clip) Skeleton() *Skeleton { return c.skeleton }

// Time returns the local playback time in seconds.
func (c *Clip) Time() float32 { return c.time }

// SetTime seeks to t, clamped to [0, duration].
func (c *Clip) SetTime(t float32) {
	c.time = clamp(t, 0, c.duration)
}

// Rewind seeks to the start.
func (c *Clip) Rewind() {
	c.time = 0
}

// Looping reports whether playback wraps at the end.
func (c *Clip) Looping() bool { return c.looping }

// SetLooping sets the looping policy.
func (c *Clip) SetLooping(loop bool) { c.looping = loop }

// Ended reports whether a one-shot clip has played to its end.
func (c *Clip) Ended() bool {
	return !c.looping && c.time >= c.duration
}

// SetTrackEnabled enables or disables the track driving bone.
// The bone must exist in the skeleton; clips without a track for it are unchanged.
func (c *Clip) SetTrackEnabled(bone string, enabled bool) error {
	idx, err := c.skeleton.MustBoneIndex(bone)
	if err != nil {
		return fmt.Errorf("clip %q: %w", c.name, err)
	}
	for i := range c.tracks {
		if c.tracks[i].bone == idx {
			c.tracks[i].enabled = enabled
		}
	}
	return nil
}

// TrackEnabled reports whether bone is driven by this clip.
func (c *Clip) TrackEnabled(bone string) bool {
	idx, ok := c.skeleton.BoneIndex(bone)
	if !ok {
		return false
	}
	for _, t := range c.tracks {
		if t.bone == idx {
			return t.enabled
		}
	}
	return false
}

// Advance moves playback forward by dt seconds.
func (c *Clip) Advance(dt float32) {
	if c.duration <= 0 {
		c.time = 0
		return
	}
	t := c.time + dt
	if c.looping {
		t = float32(gomath.Mod(float64(t), float64(c.duration)))
		if t < 0 {
			t += c.duration
		}
		c.time = t
		return
	}
	c.time = clamp(t, 0, c.duration)
}

// sample writes enabled tracks at the current time into p.
func (c *Clip) sample(p *Pose) {
	for _, bt := range c.tracks {
		if !bt.enabled {
			continue
		}
		p.set(bt.bone, bt.track.Sample(c.time, c.skeleton.bones[bt.bone].Rest))
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
