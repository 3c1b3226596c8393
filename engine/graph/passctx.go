package graph

// PassContext is the view a node (or a graph host) gets of one evaluation:
// which graph and node are being evaluated, which context's caches results
// land in, how unbound graph inputs resolve, and whether writes go to the
// scratch bank. Contexts are small and copied by value when narrowed to a
// node or flipped to scratch mode.
type PassContext struct {
	graph      *AnimationGraph
	node       NodeID
	ctxID      ContextID
	arena      *GraphContextArena
	resources  Resources
	overlay    *InputOverlay
	parent     ParentBinding
	temp       bool
	fsmStack   *StateStack
	fsmMachine any
}

// NewPassContext creates a top-level context for driving a graph.
//
// Parameters:
//   - g: the graph to evaluate
//   - ctxID: the evaluation context handle
//   - arena: the arena owning the context
//   - resources: asset resolution
//   - overlay: per-instance input values, may be nil
//
// Returns:
//   - *PassContext: the context
func NewPassContext(g *AnimationGraph, ctxID ContextID, arena *GraphContextArena, resources Resources, overlay *InputOverlay) *PassContext {
	if overlay == nil {
		overlay = NewInputOverlay()
	}
	return &PassContext{
		graph:     g,
		ctxID:     ctxID,
		arena:     arena,
		resources: resources,
		overlay:   overlay,
	}
}

// forNode narrows the context to a specific node.
func (c *PassContext) forNode(node NodeID) *PassContext {
	nc := *c
	nc.node = node
	return &nc
}

// WithTempCache returns a context whose writes land in the scratch bank
// and whose reads prefer it. Used for speculative re-evaluation; pair
// with ClearScratch when done.
//
// Parameters:
//   - temp: whether scratch mode is active
//
// Returns:
//   - *PassContext: the adjusted context
func (c *PassContext) WithTempCache(temp bool) *PassContext {
	nc := *c
	nc.temp = temp
	return &nc
}

// ClearScratch discards all speculative results in this context's scratch
// bank.
func (c *PassContext) ClearScratch() {
	cc := c.cache()
	cc.scratch = newCacheBank()
}

// cache resolves the graph context this evaluation writes into.
func (c *PassContext) cache() *GraphContext {
	return c.arena.Context(c.ctxID)
}

func (c *PassContext) writeMode() CacheWriteMode {
	if c.temp {
		return WriteScratch
	}
	return WritePrimary
}

// Node returns the node this context is narrowed to.
//
// Returns:
//   - NodeID: the current node, empty at the graph boundary
func (c *PassContext) Node() NodeID {
	return c.node
}

// Graph returns the graph being evaluated.
//
// Returns:
//   - *AnimationGraph: the graph
func (c *PassContext) Graph() *AnimationGraph {
	return c.graph
}

// Resources returns the asset resolver.
//
// Returns:
//   - Resources: the resolver, may be nil in tests
func (c *PassContext) Resources() Resources {
	return c.resources
}

// SpecContext derives the spec-query context.
//
// Returns:
//   - SpecContext: the spec context
func (c *PassContext) SpecContext() SpecContext {
	return SpecContext{Resources: c.resources}
}

// DataBack pulls the value connected to one of the current node's data
// input pins, triggering upstream evaluation on a cache miss.
//
// Parameters:
//   - pin: the input pin name
//
// Returns:
//   - DataValue: the resolved value
//   - error: a GraphError on missing edges or upstream failure
func (c *PassContext) DataBack(pin PinID) (DataValue, error) {
	return c.graph.GetDataBack(c, NodeDataTarget(c.node, pin))
}

// DurationBack pulls the duration behind one of the current node's time
// input pins.
//
// Parameters:
//   - pin: the time input pin name
//
// Returns:
//   - Duration: the resolved duration
//   - error: a GraphError on missing edges or upstream failure
func (c *PassContext) DurationBack(pin PinID) (Duration, error) {
	return c.graph.GetDurationBack(c, NodeTimeTarget(c.node, pin))
}

// TimeUpdateFwd returns the time update propagated to the current node by
// its downstream consumer. A miss means the time pass has not reached
// this node, which is a protocol-ordering bug.
//
// Returns:
//   - TimeUpdate: the incoming update
//   - error: ErrTimeUpdateMissingFwd on a miss
func (c *PassContext) TimeUpdateFwd() (TimeUpdate, error) {
	source := NodeTimeSource(c.node)
	if tu, ok := c.cache().getTimeUpdateFwd(source, c.temp); ok {
		return tu, nil
	}
	return TimeUpdate{}, newError(ErrTimeUpdateMissingFwd, "node %q", c.node)
}

// SetTimeUpdateBack sends a time update upstream through one of the
// current node's time input pins. Updates crossing the graph boundary
// delegate to the parent binding.
//
// Parameters:
//   - pin: the time input pin name
//   - tu: the update to propagate
//
// Returns:
//   - error: ErrMissingEdgeToTarget if the pin is unwired
func (c *PassContext) SetTimeUpdateBack(pin PinID, tu TimeUpdate) error {
	return c.graph.PropagateTimeUpdate(c, NodeTimeTarget(c.node, pin), tu)
}

// SetTime records the current node's resolved playback position for this
// frame.
//
// Parameters:
//   - t: the playback position
func (c *PassContext) SetTime(t float32) {
	c.cache().bank(c.writeMode()).timesCurrent[NodeTimeSource(c.node)] = t
}

// Time returns the current node's playback position for this frame, if
// already resolved.
//
// Returns:
//   - float32: the position, 0 if unset
func (c *PassContext) Time() float32 {
	t, _ := c.cache().getTime(NodeTimeSource(c.node), c.temp)
	return t
}

// PrevTime returns the current node's playback position from the previous
// frame. Nodes integrate delta updates and detect loop wraps against it.
//
// Returns:
//   - float32: the previous position, 0 on the first frame
func (c *PassContext) PrevTime() float32 {
	t, _ := c.cache().getPrevTime(NodeTimeSource(c.node))
	return t
}

// SetDataFwd publishes a value on one of the current node's data output
// pins.
//
// Parameters:
//   - pin: the output pin name
//   - v: the value
func (c *PassContext) SetDataFwd(pin PinID, v DataValue) {
	c.cache().bank(c.writeMode()).parameters[NodeDataSource(c.node, pin)] = v
}

// SetDurationFwd publishes the current node's duration.
//
// Parameters:
//   - d: the duration
func (c *PassContext) SetDurationFwd(d Duration) {
	c.cache().bank(c.writeMode()).durations[NodeTimeSource(c.node)] = d
}

// ChildContext spawns a context for evaluating a referenced sub-graph.
// The (node, stateKey) pair selects the cache instantiation, so the same
// sub-graph asset can run multiple independently timed copies.
//
// Parameters:
//   - sub: the sub-graph to evaluate
//   - stateKey: the sub-state disambiguator, empty outside FSM evaluation
//   - binding: how the sub-graph's unbound inputs resolve
//   - overlay: input values injected into the sub-graph, may be nil
//
// Returns:
//   - *PassContext: the child context
func (c *PassContext) ChildContext(sub *AnimationGraph, stateKey string, binding ParentBinding, overlay *InputOverlay) *PassContext {
	if overlay == nil {
		overlay = NewInputOverlay()
	}
	id := c.arena.SubContext(c.ctxID, c.node, stateKey, sub.ID)
	return &PassContext{
		graph:      sub,
		ctxID:      id,
		arena:      c.arena,
		resources:  c.resources,
		overlay:    overlay,
		parent:     binding,
		temp:       c.temp,
		fsmStack:   c.fsmStack,
		fsmMachine: c.fsmMachine,
	}
}

// WithFSM attaches a state-machine evaluation frame to the context: the
// role-tagged state stack and the machine driving it. The machine is
// opaque to this package.
//
// Parameters:
//   - stack: the state stack
//   - machine: the low-level state machine
//
// Returns:
//   - *PassContext: the adjusted context
func (c *PassContext) WithFSM(stack *StateStack, machine any) *PassContext {
	nc := *c
	nc.fsmStack = stack
	nc.fsmMachine = machine
	return &nc
}

// FSMStack returns the enclosing state-machine evaluation stack.
//
// Returns:
//   - *StateStack: the stack, nil outside FSM evaluation
func (c *PassContext) FSMStack() *StateStack {
	return c.fsmStack
}

// FSMMachine returns the enclosing low-level state machine.
//
// Returns:
//   - any: the machine, nil outside FSM evaluation
func (c *PassContext) FSMMachine() any {
	return c.fsmMachine
}

// FSMState returns the persistent state-machine position stored for the
// current node.
//
// Returns:
//   - FSMState: the stored position
//   - bool: false if the machine has not started yet
func (c *PassContext) FSMState() (FSMState, bool) {
	return c.cache().GetFSMState(c.node)
}

// SetFSMState stores the persistent state-machine position for the
// current node.
//
// Parameters:
//   - s: the position to store
func (c *PassContext) SetFSMState(s FSMState) {
	c.cache().SetFSMState(c.node, s)
}

// BindToParent creates the plain nested-graph binding: a sub-graph's
// unbound inputs resolve against the host node's identically named pins
// in the parent graph.
//
// Parameters:
//   - host: the host node's evaluation context
//
// Returns:
//   - ParentBinding: the binding
func BindToParent(host *PassContext) ParentBinding {
	return nodeBinding{host: host}
}

type nodeBinding struct {
	host *PassContext
}

func (b nodeBinding) DataBack(pin PinID) (DataValue, error) {
	return b.host.DataBack(pin)
}

func (b nodeBinding) DurationBack(pin PinID) (Duration, error) {
	return b.host.DurationBack(pin)
}

func (b nodeBinding) TimeFwd() (TimeUpdate, error) {
	return b.host.TimeUpdateFwd()
}

func (b nodeBinding) SetTimeUpdateBack(pin PinID, tu TimeUpdate) error {
	return b.host.SetTimeUpdateBack(pin, tu)
}
