package graph

// ContextID indexes a graph context within an arena.
type ContextID int

// subContextKey identifies a child context: the context it was spawned
// from, the node that spawned it, and an optional sub-state disambiguator
// (an FSM evaluating its source and target states in the same frame uses
// distinct keys so the two instantiations never share caches).
type subContextKey struct {
	parent ContextID
	node   NodeID
	state  string
}

// GraphContextArena owns every evaluation context belonging to one
// player: the top-level context for the player's root graph plus one
// child context per (node, sub-state) instantiation of referenced
// sub-graphs. Index-based handles keep context lookups O(1) and avoid
// shared mutable pointers.
type GraphContextArena struct {
	contexts []*GraphContext
	byKey    map[subContextKey]ContextID
	toplevel ContextID
}

// NewGraphContextArena creates an arena with a top-level context for the
// given root graph.
//
// Parameters:
//   - rootGraphID: the player's root graph asset id
//
// Returns:
//   - *GraphContextArena: the new arena
func NewGraphContextArena(rootGraphID string) *GraphContextArena {
	a := &GraphContextArena{
		byKey: make(map[subContextKey]ContextID),
	}
	a.contexts = append(a.contexts, newGraphContext(rootGraphID))
	a.toplevel = 0
	return a
}

// Toplevel returns the handle of the root graph's context.
//
// Returns:
//   - ContextID: the top-level context handle
func (a *GraphContextArena) Toplevel() ContextID {
	return a.toplevel
}

// Context resolves a handle to its context.
//
// Parameters:
//   - id: the context handle
//
// Returns:
//   - *GraphContext: the context
func (a *GraphContextArena) Context(id ContextID) *GraphContext {
	return a.contexts[id]
}

// SubContext finds or creates the child context for a (parent, node,
// sub-state) instantiation of a sub-graph. Contexts are reused across
// frames so playback positions persist.
//
// Parameters:
//   - parent: the spawning context
//   - node: the node hosting the sub-graph
//   - state: the sub-state disambiguator, empty outside FSM evaluation
//   - graphID: the sub-graph asset id
//
// Returns:
//   - ContextID: the child context handle
func (a *GraphContextArena) SubContext(parent ContextID, node NodeID, state, graphID string) ContextID {
	key := subContextKey{parent: parent, node: node, state: state}
	if id, ok := a.byKey[key]; ok {
		return id
	}
	id := ContextID(len(a.contexts))
	a.contexts = append(a.contexts, newGraphContext(graphID))
	a.byKey[key] = id
	return id
}

// NextFrame rotates every context in the arena into a new frame. Called
// once per tick by the owning player.
func (a *GraphContextArena) NextFrame() {
	for _, c := range a.contexts {
		c.NextFrame()
	}
}
