package anim

import (
	"errors"
	"fmt"
)

// ErrMissingBone is returned when a name does not resolve to a bone of the skeleton.
var ErrMissingBone = errors.New("anim: missing bone")

// Bone is a named joint. Parent is the index of the parent bone or -1 for roots.
type Bone struct {
	Name   string
	Parent int
	Rest   Transform // Bind pose local transform
}

// Skeleton is an instanced bone hierarchy with mutable local transforms.
type Skeleton struct {
	Name string

	// Root is the model root transform relative to its physics body.
	Root Transform

	bones  []Bone
	locals []Transform
	index  map[string]int
}

// NewSkeleton validates bones and creates a skeleton in its rest pose.
// Parents must precede their children.
func NewSkeleton(name string, bones []Bone) (*Skeleton, error) {
	if len(bones) == 0 {
		return nil, fmt.Errorf("skeleton %q has no bones", name)
	}

	s := &Skeleton{
		Name:   name,
		Root:   IdentityTransform(),
		bones:  make([]Bone, len(bones)),
		locals: make([]Transform, len(bones)),
		index:  make(map[string]int, len(bones)),
	}
	for i, b := range bones {
		if b.Name == "" {
			return nil, fmt.Errorf("skeleton %q: bone %d has no name", name, i)
		}
		if _, dup := s.index[b.Name]; dup {
			return nil, fmt.Errorf("skeleton %q: duplicate bone %q", name, b.Name)
		}
		if b.Parent < -1 || b.Parent >= i {
			return nil, fmt.Errorf("skeleton %q: bone %q has invalid parent %d", name, b.Name, b.Parent)
		}
		s.bones[i] = b
		s.locals[i] = b.Rest
		s.index[b.Name] = i
	}
	return s, nil
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	return len(s.bones)
}

// BoneIndex resolves a bone name.
func (s *Skeleton) BoneIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// MustBoneIndex resolves a bone name or returns a wrapped ErrMissingBone.
func (s *Skeleton) MustBoneIndex(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return -1, fmt.Errorf("skeleton %q: %w: %q", s.Name, ErrMissingBone, name)
	}
	return i, nil
}

// Bone returns bone i.
func (s *Skeleton) Bone(i int) Bone {
	return s.bones[i]
}

// Local returns the current local transform of bone i.
func (s *Skeleton) Local(i int) Transform {
	return s.locals[i]
}

// SetLocal sets the current local transform of bone i.
func (s *Skeleton) SetLocal(i int, t Transform) {
	s.locals[i] = t
}

// ResetPose restores every bone to its rest transform.
func (s *Skeleton) ResetPose() {
	for i, b := range s.bones {
		s.locals[i] = b.Rest
	}
}
