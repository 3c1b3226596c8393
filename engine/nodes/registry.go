package nodes

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// Factory creates a zero-value node ready for configuration decoding.
type Factory func() graph.NodeLike

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a node type to the registry under the given type tag.
// Asset loaders resolve YAML node definitions through it. Registering an
// existing tag replaces the factory.
//
// Parameters:
//   - tag: the type tag used in graph asset files
//   - f: the factory
func Register(tag string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[tag] = f
}

// New creates a node for a type tag.
//
// Parameters:
//   - tag: the type tag
//
// Returns:
//   - graph.NodeLike: the new node
//   - error: error if the tag is not registered
func New(tag string) (graph.NodeLike, error) {
	registryMu.RLock()
	f, ok := registry[tag]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", tag)
	}
	return f(), nil
}

// Tags returns the registered type tags.
//
// Returns:
//   - []string: the tags, unsorted
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for tag := range registry {
		out = append(out, tag)
	}
	return out
}

func init() {
	Register("clip", func() graph.NodeLike { return &ClipNode{} })
	Register("blend", func() graph.NodeLike { return &BlendNode{Sync: SyncAbsolute} })
	Register("chain", func() graph.NodeLike { return &ChainNode{} })
	Register("loop", func() graph.NodeLike { return &LoopNode{} })
	Register("padding", func() graph.NodeLike { return &PaddingNode{} })
	Register("speed", func() graph.NodeLike { return &SpeedNode{Speed: 1} })
	Register("blend_space_2d", func() graph.NodeLike { return &BlendSpace2DNode{} })
	Register("event_markup", func() graph.NodeLike { return &EventMarkupNode{} })
	Register("send_event", func() graph.NodeLike { return &SendEventNode{} })
	Register("graph", func() graph.NodeLike { return &GraphNode{} })
	Register("state_machine", func() graph.NodeLike { return &FSMNode{} })
	Register("const_f32", func() graph.NodeLike { return &ConstF32Node{} })
	Register("const_bool", func() graph.NodeLike { return &ConstBoolNode{} })
	Register("const_vec3", func() graph.NodeLike { return &ConstVec3Node{} })
	Register("add_f32", func() graph.NodeLike { return &AddF32Node{} })
	Register("sub_f32", func() graph.NodeLike { return &SubF32Node{} })
	Register("mul_f32", func() graph.NodeLike { return &MulF32Node{} })
	Register("div_f32", func() graph.NodeLike { return &DivF32Node{} })
	Register("clamp_f32", func() graph.NodeLike { return &ClampF32Node{} })
	Register("abs_f32", func() graph.NodeLike { return &AbsF32Node{} })
	Register("compare_f32", func() graph.NodeLike { return &CompareF32Node{Op: CompareEqual} })
	Register("select_f32", func() graph.NodeLike { return &SelectF32Node{} })
	Register("build_vec3", func() graph.NodeLike { return &BuildVec3Node{} })
}
