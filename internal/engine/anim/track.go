package anim

import "github.com/Faultbox/jam/pkg/math"

// Vec3Key is a vector keyframe. Time is in seconds.
type Vec3Key struct {
	Time  float32
	Value math.Vec3
}

// QuatKey is a rotation keyframe. Time is in seconds.
type QuatKey struct {
	Time  float32
	Value math.Quat
}

// Track animates one bone. Channels without keys keep the base transform.
type Track struct {
	Bone      string
	Positions []Vec3Key
	Rotations []QuatKey
	Scales    []Vec3Key
}

// Sample evaluates the track at time t on top of base.
func (tr *Track) Sample(t float32, base Transform) Transform {
	out := base
	if len(tr.Positions) > 0 {
		out.Position = sampleVec3(tr.Positions, t)
	}
	if len(tr.Rotations) > 0 {
		out.Rotation = sampleQuat(tr.Rotations, t)
	}
	if len(tr.Scales) > 0 {
		out.Scale = sampleVec3(tr.Scales, t)
	}
	return out
}

// lastKeyTime returns the time of the latest key in any channel.
func (tr *Track) lastKeyTime() float32 {
	var last float32
	if n := len(tr.Positions); n > 0 && tr.Positions[n-1].Time > last {
		last = tr.Positions[n-1].Time
	}
	if n := len(tr.Rotations); n > 0 && tr.Rotations[n-1].Time > last {
		last = tr.Rotations[n-1].Time
	}
	if n := len(tr.Scales); n > 0 && tr.Scales[n-1].Time > last {
		last = tr.Scales[n-1].Time
	}
	return last
}

// keySpan finds the keys surrounding t (keys sorted by time) and the blend factor.
func keySpan(n int, timeAt func(int) float32, t float32) (prev, next int, f float32) {
	for i := 0; i < n; i++ {
		if timeAt(i) > t {
			next = i
			break
		}
		prev = i
		next = i
	}
	// Before the first key
	if next == 0 {
		return 0, 0, 0
	}
	if prev == next {
		return prev, next, 0
	}
	t0, t1 := timeAt(prev), timeAt(next)
	if t1 != t0 {
		f = (t - t0) / (t1 - t0)
	}
	return prev, next, f
}

func sampleVec3(keys []Vec3Key, t float32) math.Vec3 {
	prev, next, f := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Value
	}
	return keys[prev].Value.Lerp(keys[next].Value, f)
}

func sampleQuat(keys []QuatKey, t float32) math.Quat {
	prev, next, f := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Value
	}
	return keys[prev].Value.Slerp(keys[next].Value, f)
}
