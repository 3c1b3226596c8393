package graph

import (
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// Resources is the asset-resolution contract the evaluator consumes.
// Lookups may miss while assets stream in; callers degrade gracefully
// (empty pose, infinite duration) rather than fail.
//
// State machines are returned as opaque values: the state-machine layer
// sits above this package and asserts its own concrete type.
type Resources interface {
	// GraphByID resolves an animation graph asset.
	//
	// Parameters:
	//   - id: the asset id
	//
	// Returns:
	//   - *AnimationGraph: the graph
	//   - bool: false if not loaded
	GraphByID(id string) (*AnimationGraph, bool)

	// ClipByID resolves an animation clip asset.
	//
	// Parameters:
	//   - id: the asset id
	//
	// Returns:
	//   - *clip.Clip: the clip
	//   - bool: false if not loaded
	ClipByID(id string) (*clip.Clip, bool)

	// SkeletonByID resolves a skeleton asset.
	//
	// Parameters:
	//   - id: the asset id
	//
	// Returns:
	//   - skeleton.Skeleton: the skeleton
	//   - bool: false if not loaded
	SkeletonByID(id string) (skeleton.Skeleton, bool)

	// StateMachineByID resolves a compiled state machine asset.
	//
	// Parameters:
	//   - id: the asset id
	//
	// Returns:
	//   - any: the state machine (concrete type owned by the fsm package)
	//   - bool: false if not loaded
	StateMachineByID(id string) (any, bool)
}
