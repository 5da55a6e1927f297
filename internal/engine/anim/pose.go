package anim

// Contribution records one clip sampled into a pose.
type Contribution struct {
	State  string
	Clip   string
	Time   float32 // Clip local time when sampled
	Weight float32
}

// Pose is a per-bone local transform snapshot. Bones without a value are left
// untouched when the pose is applied.
type Pose struct {
	Locals        []Transform
	Contributions []Contribution

	has []bool
}

// NewPose creates an empty pose for a skeleton of n bones.
func NewPose(n int) *Pose {
	return &Pose{
		Locals: make([]Transform, n),
		has:    make([]bool, n),
	}
}

// Has reports whether bone has a value.
func (p *Pose) Has(bone int) bool {
	return bone >= 0 && bone < len(p.has) && p.has[bone]
}

// Local returns the value for bone, if any.
func (p *Pose) Local(bone int) (Transform, bool) {
	if !p.Has(bone) {
		return Transform{}, false
	}
	return p.Locals[bone], true
}

// Contribution returns the contribution of the named clip, if it was sampled.
func (p *Pose) Contribution(clip string) (Contribution, bool) {
	for _, c := range p.Contributions {
		if c.Clip == clip {
			return c, true
		}
	}
	return Contribution{}, false
}

// Clone returns a deep copy.
func (p *Pose) Clone() *Pose {
	return &Pose{
		Locals:        append([]Transform(nil), p.Locals...),
		Contributions: append([]Contribution(nil), p.Contributions...),
		has:           append([]bool(nil), p.has...),
	}
}

// Equal reports whether both poses hold the same bone values.
func (p *Pose) Equal(other *Pose) bool {
	if len(p.has) != len(other.has) {
		return false
	}
	for i := range p.has {
		if p.has[i] != other.has[i] {
			return false
		}
		if p.has[i] && p.Locals[i] != other.Locals[i] {
			return false
		}
	}
	return true
}

func (p *Pose) set(bone int, t Transform) {
	p.Locals[bone] = t
	p.has[bone] = true
}

func (p *Pose) reset() {
	for i := range p.has {
		p.has[i] = false
	}
	p.Contributions = p.Contributions[:0]
}

// blendWith mixes other into p with weight w. Bones present in only one pose keep that value.
func (p *Pose) blendWith(other *Pose, w float32) {
	for i := range other.has {
		if !other.has[i] {
			continue
		}
		if p.has[i] {
			p.Locals[i] = p.Locals[i].Blend(other.Locals[i], w)
		} else {
			p.set(i, other.Locals[i])
		}
	}
}
