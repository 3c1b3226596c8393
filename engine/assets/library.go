// package assets owns the shared, immutable animation assets: graphs,
// clips, skeletons and state machines. A Library is loaded once (from
// YAML files or programmatic registration) and then read concurrently by
// any number of players.
package assets

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/fsm"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// library is the implementation of the Library interface.
type library struct {
	mu *sync.RWMutex

	graphs    map[string]*graph.AnimationGraph
	clips     map[string]*clip.Clip
	skeletons map[string]skeleton.Skeleton
	machines  map[string]*fsm.StateMachine
}

// Library is the asset store the evaluator resolves ids against. It
// satisfies the evaluator's resource contract directly, so a Library can
// be handed to players as-is. Thread-safe, though the intended usage is
// load-then-read.
type Library interface {
	graph.Resources

	// AddGraph registers a graph asset under its own id, replacing any
	// previous asset with that id.
	//
	// Parameters:
	//   - g: the graph asset
	AddGraph(g *graph.AnimationGraph)

	// AddClip registers a clip asset under its own id, replacing any
	// previous asset with that id.
	//
	// Parameters:
	//   - c: the clip asset
	AddClip(c *clip.Clip)

	// AddSkeleton registers a skeleton asset.
	//
	// Parameters:
	//   - id: the asset id
	//   - s: the skeleton asset
	AddSkeleton(id string, s skeleton.Skeleton)

	// AddStateMachine registers a state machine asset under its own id,
	// replacing any previous asset with that id.
	//
	// Parameters:
	//   - sm: the state machine asset
	AddStateMachine(sm *fsm.StateMachine)

	// LoadFile loads one asset file, dispatching on its extension:
	// .animgraph.yaml, .anim.yaml, .skel.yaml or .fsm.yaml.
	//
	// Parameters:
	//   - path: the file to load
	//
	// Returns:
	//   - error: error if reading or decoding fails
	LoadFile(path string) error

	// LoadDir walks a directory tree, loads every recognized asset file
	// and validates the loaded graphs against the full library.
	//
	// Parameters:
	//   - root: the directory to walk
	//
	// Returns:
	//   - error: error if any file fails to load or validate
	LoadDir(root string) error

	// Validate type-checks every registered graph against the library.
	// Call after all cross-referenced assets are registered.
	//
	// Returns:
	//   - error: the first validation failure, nil if all graphs pass
	Validate() error
}

// Ensure library implements Library interface.
var _ Library = &library{}

// NewLibrary creates an empty asset library.
//
// Returns:
//   - Library: the newly created library
func NewLibrary() Library {
	return &library{
		mu:        &sync.RWMutex{},
		graphs:    make(map[string]*graph.AnimationGraph),
		clips:     make(map[string]*clip.Clip),
		skeletons: make(map[string]skeleton.Skeleton),
		machines:  make(map[string]*fsm.StateMachine),
	}
}

func (l *library) AddGraph(g *graph.AnimationGraph) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graphs[g.ID] = g
}

func (l *library) AddClip(c *clip.Clip) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clips[c.ID] = c
}

func (l *library) AddSkeleton(id string, s skeleton.Skeleton) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skeletons[id] = s
}

func (l *library) AddStateMachine(sm *fsm.StateMachine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.machines[sm.ID] = sm
}

func (l *library) GraphByID(id string) (*graph.AnimationGraph, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.graphs[id]
	return g, ok
}

func (l *library) ClipByID(id string) (*clip.Clip, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.clips[id]
	return c, ok
}

func (l *library) SkeletonByID(id string) (skeleton.Skeleton, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.skeletons[id]
	return s, ok
}

func (l *library) StateMachineByID(id string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sm, ok := l.machines[id]
	if !ok {
		return nil, false
	}
	return sm, true
}

func (l *library) Validate() error {
	// Snapshot first: Validate resolves assets back through the library,
	// and nested read locks can deadlock against a queued writer.
	l.mu.RLock()
	graphs := make([]*graph.AnimationGraph, 0, len(l.graphs))
	for _, g := range l.graphs {
		graphs = append(graphs, g)
	}
	l.mu.RUnlock()

	for _, g := range graphs {
		if err := g.Validate(l); err != nil {
			return fmt.Errorf("graph %q: %w", g.ID, err)
		}
	}
	return nil
}
