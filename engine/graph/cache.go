package graph

// cacheBank is one bank of per-frame memoization maps. A graph context
// owns two banks: the primary bank holding the frame's real results, and
// a scratch bank for speculative re-evaluation (e.g. a loop node sampling
// its upstream subtree at time 0 to interpolate across the wrap seam)
// that must not pollute the primary results.
type cacheBank struct {
	// parameters memoizes computed data outputs, keyed by producing pin.
	parameters map[SourcePin]DataValue
	// durations memoizes computed durations, keyed by a node's time
	// output or a graph input time pin.
	durations map[SourcePin]Duration
	// timeUpdatesFwd holds the pending incoming time update for each
	// producer, written by consumers via back-propagation.
	timeUpdatesFwd map[SourcePin]TimeUpdate
	// timeUpdatesBack records what each consumer sent upstream, keyed by
	// the consumer's input pin.
	timeUpdatesBack map[TargetPin]TimeUpdate
	// timesCurrent holds each node's resolved playback position for this
	// frame; timesPrev holds last frame's, for delta integration and
	// wrap detection.
	timesCurrent map[SourcePin]float32
	timesPrev    map[SourcePin]float32
	// updated marks nodes whose Update already ran this frame.
	updated map[NodeID]struct{}
}

func newCacheBank() *cacheBank {
	return &cacheBank{
		parameters:      make(map[SourcePin]DataValue),
		durations:       make(map[SourcePin]Duration),
		timeUpdatesFwd:  make(map[SourcePin]TimeUpdate),
		timeUpdatesBack: make(map[TargetPin]TimeUpdate),
		timesCurrent:    make(map[SourcePin]float32),
		timesPrev:       make(map[SourcePin]float32),
		updated:         make(map[NodeID]struct{}),
	}
}

// nextFrame clears the bank for a new frame. The time maps rotate instead
// of clearing so last frame's playback positions stay queryable; the flip
// is O(1), only the new current map is reallocated.
func (b *cacheBank) nextFrame() {
	clear(b.parameters)
	clear(b.durations)
	clear(b.timeUpdatesFwd)
	clear(b.timeUpdatesBack)
	clear(b.updated)
	b.timesPrev, b.timesCurrent = b.timesCurrent, b.timesPrev
	clear(b.timesCurrent)
}

// CacheWriteMode selects which bank evaluation results land in.
type CacheWriteMode uint8

const (
	// WritePrimary stores results in the frame's primary bank.
	WritePrimary CacheWriteMode = iota
	// WriteScratch stores results in the scratch bank, discarded when the
	// requesting node finishes.
	WriteScratch
)

// FSMState is a state machine's persistent position: the low-level state
// it currently sits in and the playback time the state was entered at.
// Unlike the per-frame caches this survives across frames.
type FSMState struct {
	// State is the low-level state key, owned by the state-machine layer.
	State string
	// EnteredTime is the playback time the state was entered.
	EnteredTime float32
}

// GraphContext is the per-player, per-graph-instantiation evaluation
// state: two cache banks plus persistent state-machine positions. One
// context belongs to exactly one player; graph assets stay shared and
// read-only.
type GraphContext struct {
	graphID string
	primary *cacheBank
	scratch *cacheBank
	// fsmStates persists state machine positions across frames, keyed by
	// the driving node.
	fsmStates map[NodeID]FSMState
}

func newGraphContext(graphID string) *GraphContext {
	return &GraphContext{
		graphID:   graphID,
		primary:   newCacheBank(),
		scratch:   newCacheBank(),
		fsmStates: make(map[NodeID]FSMState),
	}
}

// GraphID returns the id of the graph asset this context evaluates.
//
// Returns:
//   - string: the graph asset id
func (c *GraphContext) GraphID() string {
	return c.graphID
}

// NextFrame rotates the context into a new frame: primary results are
// cleared (times rotated), scratch is discarded entirely. FSM positions
// persist.
func (c *GraphContext) NextFrame() {
	c.primary.nextFrame()
	c.scratch = newCacheBank()
}

func (c *GraphContext) bank(mode CacheWriteMode) *cacheBank {
	if mode == WriteScratch {
		return c.scratch
	}
	return c.primary
}

// read helpers: scratch-first with primary fallback when temp is set.

func (c *GraphContext) getParameter(p SourcePin, temp bool) (DataValue, bool) {
	if temp {
		if v, ok := c.scratch.parameters[p]; ok {
			return v, true
		}
	}
	v, ok := c.primary.parameters[p]
	return v, ok
}

func (c *GraphContext) getDuration(p SourcePin, temp bool) (Duration, bool) {
	if temp {
		if v, ok := c.scratch.durations[p]; ok {
			return v, true
		}
	}
	v, ok := c.primary.durations[p]
	return v, ok
}

func (c *GraphContext) getTimeUpdateFwd(p SourcePin, temp bool) (TimeUpdate, bool) {
	if temp {
		if v, ok := c.scratch.timeUpdatesFwd[p]; ok {
			return v, true
		}
	}
	v, ok := c.primary.timeUpdatesFwd[p]
	return v, ok
}

func (c *GraphContext) getTimeUpdateBack(p TargetPin, temp bool) (TimeUpdate, bool) {
	if temp {
		if v, ok := c.scratch.timeUpdatesBack[p]; ok {
			return v, true
		}
	}
	v, ok := c.primary.timeUpdatesBack[p]
	return v, ok
}

func (c *GraphContext) getTime(p SourcePin, temp bool) (float32, bool) {
	if temp {
		if v, ok := c.scratch.timesCurrent[p]; ok {
			return v, true
		}
	}
	v, ok := c.primary.timesCurrent[p]
	return v, ok
}

// getPrevTime only consults the primary bank: scratch evaluation is
// speculative within one frame and has no previous frame of its own.
func (c *GraphContext) getPrevTime(p SourcePin) (float32, bool) {
	v, ok := c.primary.timesPrev[p]
	return v, ok
}

func (c *GraphContext) isUpdated(n NodeID, temp bool) bool {
	if temp {
		_, ok := c.scratch.updated[n]
		return ok
	}
	_, ok := c.primary.updated[n]
	return ok
}

// GetFSMState returns the persistent state-machine position for a driving
// node.
//
// Parameters:
//   - node: the state-machine driver node
//
// Returns:
//   - FSMState: the stored position
//   - bool: false if the machine has not started yet
func (c *GraphContext) GetFSMState(node NodeID) (FSMState, bool) {
	s, ok := c.fsmStates[node]
	return s, ok
}

// SetFSMState stores the persistent state-machine position for a driving
// node.
//
// Parameters:
//   - node: the state-machine driver node
//   - s: the position to store
func (c *GraphContext) SetFSMState(node NodeID, s FSMState) {
	c.fsmStates[node] = s
}
