// package skeleton holds the bone-hierarchy representation consumed by the
// animation evaluator. The evaluator only queries hierarchy structure; it
// never mutates a skeleton, so a single skeleton asset can safely back any
// number of concurrently evaluating players.
package skeleton

import (
	"fmt"
	"strings"
)

// BoneID identifies a bone by its slash-joined path from the skeleton
// root, e.g. "root/spine/arm_l".
type BoneID string

// Skeleton is an immutable bone hierarchy.
type Skeleton interface {
	// Root returns the root bone of the hierarchy.
	//
	// Returns:
	//   - BoneID: the root bone
	Root() BoneID

	// Parent returns the parent of the given bone.
	//
	// Parameters:
	//   - id: the bone to query
	//
	// Returns:
	//   - BoneID: the parent bone
	//   - bool: false if the bone is the root or unknown
	Parent(id BoneID) (BoneID, bool)

	// Children returns the direct children of the given bone in
	// declaration order.
	//
	// Parameters:
	//   - id: the bone to query
	//
	// Returns:
	//   - []BoneID: the child bones, nil if none
	Children(id BoneID) []BoneID

	// HasBone reports whether the bone exists in this skeleton.
	//
	// Parameters:
	//   - id: the bone to test
	//
	// Returns:
	//   - bool: true if the bone is part of the hierarchy
	HasBone(id BoneID) bool

	// Bones returns all bones in the hierarchy in depth-first order.
	//
	// Returns:
	//   - []BoneID: every bone in the skeleton
	Bones() []BoneID
}

type skeletonImpl struct {
	root     BoneID
	parents  map[BoneID]BoneID
	children map[BoneID][]BoneID
	order    []BoneID
}

// Ensure skeletonImpl implements Skeleton interface.
var _ Skeleton = &skeletonImpl{}

// NewSkeleton builds a skeleton from a list of bone paths. Paths are
// slash-joined; every prefix of a path is registered as an ancestor bone,
// so listing only leaf bones is sufficient.
//
// Parameters:
//   - root: the root bone id
//   - bonePaths: bone paths relative to (and including) the root
//
// Returns:
//   - Skeleton: the constructed skeleton
//   - error: error if a path does not descend from the root
func NewSkeleton(root BoneID, bonePaths []BoneID) (Skeleton, error) {
	s := &skeletonImpl{
		root:     root,
		parents:  make(map[BoneID]BoneID),
		children: make(map[BoneID][]BoneID),
		order:    []BoneID{root},
	}

	seen := map[BoneID]bool{root: true}
	for _, path := range bonePaths {
		if path != root && !strings.HasPrefix(string(path), string(root)+"/") {
			return nil, fmt.Errorf("bone path %q does not descend from root %q", path, root)
		}
		parts := strings.Split(string(path), "/")
		for i := 1; i < len(parts); i++ {
			bone := BoneID(strings.Join(parts[:i+1], "/"))
			if seen[bone] {
				continue
			}
			seen[bone] = true
			parent := BoneID(strings.Join(parts[:i], "/"))
			s.parents[bone] = parent
			s.children[parent] = append(s.children[parent], bone)
			s.order = append(s.order, bone)
		}
	}
	return s, nil
}

func (s *skeletonImpl) Root() BoneID {
	return s.root
}

func (s *skeletonImpl) Parent(id BoneID) (BoneID, bool) {
	p, ok := s.parents[id]
	return p, ok
}

func (s *skeletonImpl) Children(id BoneID) []BoneID {
	return s.children[id]
}

func (s *skeletonImpl) HasBone(id BoneID) bool {
	if id == s.root {
		return true
	}
	_, ok := s.parents[id]
	return ok
}

func (s *skeletonImpl) Bones() []BoneID {
	return s.order
}
