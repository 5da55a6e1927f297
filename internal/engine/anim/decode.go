package anim

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/jam/pkg/math"
)

// skeletonFile is the YAML layout of a model's skeleton.
type skeletonFile struct {
	Name  string     `yaml:"name"`
	Bones []boneFile `yaml:"bones"`
}

type boneFile struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"` // Empty for roots
	Position *[3]float32 `yaml:"position"`
	Rotation *[4]float32 `yaml:"rotation"` // x, y, z, w
	Scale    *[3]float32 `yaml:"scale"`
}

// clipFile is the YAML layout of an animation clip.
type clipFile struct {
	Name     string      `yaml:"name"`
	Duration float32     `yaml:"duration"`
	Loop     *bool       `yaml:"loop"` // nil means looping
	Tracks   []trackFile `yaml:"tracks"`
}

type trackFile struct {
	Bone      string    `yaml:"bone"`
	Positions []vec3Key `yaml:"positions"`
	Rotations []quatKey `yaml:"rotations"`
	Scales    []vec3Key `yaml:"scales"`
}

type vec3Key struct {
	Time  float32    `yaml:"time"`
	Value [3]float32 `yaml:"value"`
}

type quatKey struct {
	Time  float32    `yaml:"time"`
	Value [4]float32 `yaml:"value"`
}

// DecodeSkeleton parses a YAML skeleton document.
func DecodeSkeleton(data []byte) (*Skeleton, error) {
	var f skeletonFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding skeleton: %w", err)
	}

	index := make(map[string]int, len(f.Bones))
	bones := make([]Bone, 0, len(f.Bones))
	for i, bf := range f.Bones {
		parent := -1
		if bf.Parent != "" {
			p, ok := index[bf.Parent]
			if !ok {
				return nil, fmt.Errorf("decoding skeleton %q: bone %q parent %q must be declared first", f.Name, bf.Name, bf.Parent)
			}
			parent = p
		}
		rest := IdentityTransform()
		if bf.Position != nil {
			rest.Position = vec3(*bf.Position)
		}
		if bf.Rotation != nil {
			rest.Rotation = quat(*bf.Rotation)
		}
		if bf.Scale != nil {
			rest.Scale = vec3(*bf.Scale)
		}
		bones = append(bones, Bone{Name: bf.Name, Parent: parent, Rest: rest})
		index[bf.Name] = i
	}
	return NewSkeleton(f.Name, bones)
}

// DecodeClip parses a YAML clip document.
func DecodeClip(data []byte) (*ClipData, error) {
	var f clipFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding clip: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("decoding clip: missing name")
	}

	c := &ClipData{
		Name:     f.Name,
		Duration: f.Duration,
		Looping:  f.Loop == nil || *f.Loop,
		Tracks:   make([]Track, 0, len(f.Tracks)),
	}
	for _, tf := range f.Tracks {
		if tf.Bone == "" {
			return nil, fmt.Errorf("decoding clip %q: track without bone", f.Name)
		}
		tr := Track{Bone: tf.Bone}
		for _, k := range tf.Positions {
			tr.Positions = append(tr.Positions, Vec3Key{Time: k.Time, Value: vec3(k.Value)})
		}
		for _, k := range tf.Rotations {
			tr.Rotations = append(tr.Rotations, QuatKey{Time: k.Time, Value: quat(k.Value).Normalize()})
		}
		for _, k := range tf.Scales {
			tr.Scales = append(tr.Scales, Vec3Key{Time: k.Time, Value: vec3(k.Value)})
		}
		c.Tracks = append(c.Tracks, tr)
	}
	return c, nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func quat(v [4]float32) math.Quat {
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}
