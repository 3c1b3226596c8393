// package pose contains the sparse skeleton pose representation and the
// blending algebra the graph evaluator's leaf nodes operate on. All
// operations are pure functions over value types; no shared mutable state.
package pose

import (
	"sort"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// BonePose is the transform contribution of one bone. Every channel is
// independently optional: a channel absent from a pose passes through
// blending untouched rather than blending against an implicit rest value.
type BonePose struct {
	// Rotation is the bone-local rotation channel.
	Rotation common.Quat
	// HasRotation indicates whether the rotation channel is present.
	HasRotation bool

	// Translation is the bone-local translation channel.
	Translation common.Vec3
	// HasTranslation indicates whether the translation channel is present.
	HasTranslation bool

	// Scale is the bone-local scale channel.
	Scale common.Vec3
	// HasScale indicates whether the scale channel is present.
	HasScale bool

	// Weights holds morph target weights. A nil slice means the channel
	// is absent.
	Weights []float32
}

// Pose is a sparse mapping from bones to per-bone transforms, stamped
// with the animation timestamp it was sampled at and the skeleton it
// belongs to. A pose's bone set must be a subset of the bones known to
// its skeleton; see Validate.
type Pose struct {
	// Bones maps bone ids to their transforms.
	Bones map[skeleton.BoneID]BonePose
	// Timestamp is the animation time this pose was sampled at.
	Timestamp float32
	// SkeletonID references the skeleton asset this pose targets.
	SkeletonID string
}

// NewPose creates an empty pose for the given skeleton.
//
// Parameters:
//   - skeletonID: the skeleton asset id
//
// Returns:
//   - Pose: an empty pose at timestamp 0
func NewPose(skeletonID string) Pose {
	return Pose{
		Bones:      make(map[skeleton.BoneID]BonePose),
		SkeletonID: skeletonID,
	}
}

// Add inserts or replaces the transform for a bone.
//
// Parameters:
//   - id: the bone id
//   - bp: the bone transform
func (p *Pose) Add(id skeleton.BoneID, bp BonePose) {
	if p.Bones == nil {
		p.Bones = make(map[skeleton.BoneID]BonePose)
	}
	p.Bones[id] = bp
}

// Validate checks that every bone in the pose exists in the given
// skeleton.
//
// Parameters:
//   - s: the skeleton to validate against
//
// Returns:
//   - bool: true if all bones are known to the skeleton
func (p Pose) Validate(s skeleton.Skeleton) bool {
	for id := range p.Bones {
		if !s.HasBone(id) {
			return false
		}
	}
	return true
}

// sortedUnion returns the sorted union of the bone sets of two poses.
// Sorting keeps blend iteration deterministic across runs.
func sortedUnion(a, b Pose) []skeleton.BoneID {
	set := make(map[skeleton.BoneID]struct{}, len(a.Bones)+len(b.Bones))
	for id := range a.Bones {
		set[id] = struct{}{}
	}
	for id := range b.Bones {
		set[id] = struct{}{}
	}
	ids := make([]skeleton.BoneID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// combine merges two poses over the union of their bone sets. Bones
// present in only one pose pass through unmodified; bones present in both
// are merged with the supplied function. The result keeps the first
// operand's timestamp and skeleton.
func (p Pose) combine(o Pose, merge func(a, b BonePose) BonePose) Pose {
	out := Pose{
		Bones:      make(map[skeleton.BoneID]BonePose, len(p.Bones)+len(o.Bones)),
		Timestamp:  p.Timestamp,
		SkeletonID: p.SkeletonID,
	}
	for _, id := range sortedUnion(p, o) {
		a, inA := p.Bones[id]
		b, inB := o.Bones[id]
		switch {
		case inA && inB:
			out.Bones[id] = merge(a, b)
		case inA:
			out.Bones[id] = a
		default:
			out.Bones[id] = b
		}
	}
	return out
}

// mapBones applies a function to every bone transform in the pose.
func (p Pose) mapBones(f func(BonePose) BonePose) Pose {
	out := Pose{
		Bones:      make(map[skeleton.BoneID]BonePose, len(p.Bones)),
		Timestamp:  p.Timestamp,
		SkeletonID: p.SkeletonID,
	}
	for id, bp := range p.Bones {
		out.Bones[id] = f(bp)
	}
	return out
}
