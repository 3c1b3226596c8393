// package graph implements the pull-based, lazily-cached, dual-channel
// dataflow evaluator at the heart of the animation system. Data flows
// forward along edges; time updates flow backward. One evaluation tick
// runs three phases over the reachable subgraph: duration resolution,
// time propagation, then data resolution, all memoized per (context,
// pin) so diamond dependencies evaluate shared producers once.
package graph

import "fmt"

// AnimationGraph is an immutable-once-built graph asset: nodes, the
// inverted edge map, and the graph's own declared input/output pins.
// Graph assets are shared read-only across players; all mutable state
// lives in per-player GraphContexts.
type AnimationGraph struct {
	// ID is the asset identifier.
	ID string

	nodes     map[NodeID]NodeLike
	nodeOrder []NodeID

	// edges maps each consuming pin to its single producing pin. Stored
	// inverted because every target has exactly one source while a source
	// may fan out.
	edges map[TargetPin]SourcePin
	// edgesInverted answers fan-out queries: which targets consume a
	// given source.
	edgesInverted map[SourcePin][]TargetPin

	// inputDataSpec declares the graph's input parameters and their
	// types; defaultParameters holds their default values.
	inputDataSpec     *PinMap[DataSpec]
	defaultParameters *PinMap[DataValue]
	// inputTimes declares the graph's input time pins.
	inputTimes *PinMap[struct{}]
	// outputDataSpec declares the graph's data outputs.
	outputDataSpec *PinMap[DataSpec]
	// hasOutputTime is set when a node's time output is routed to the
	// graph's time output.
	hasOutputTime bool
}

// NewAnimationGraph creates an empty graph.
//
// Parameters:
//   - id: the asset identifier
//
// Returns:
//   - *AnimationGraph: the new graph
func NewAnimationGraph(id string) *AnimationGraph {
	return &AnimationGraph{
		ID:                id,
		nodes:             make(map[NodeID]NodeLike),
		edges:             make(map[TargetPin]SourcePin),
		edgesInverted:     make(map[SourcePin][]TargetPin),
		inputDataSpec:     NewPinMap[DataSpec](),
		defaultParameters: NewPinMap[DataValue](),
		inputTimes:        NewPinMap[struct{}](),
		outputDataSpec:    NewPinMap[DataSpec](),
	}
}

// AddNode inserts a node.
//
// Parameters:
//   - id: the node id, unique within the graph
//   - n: the node implementation
//
// Returns:
//   - error: error if the id is already taken
func (g *AnimationGraph) AddNode(id NodeID, n NodeLike) error {
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("node %q already exists in graph %q", id, g.ID)
	}
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, id)
	return nil
}

// Node looks up a node by id.
//
// Parameters:
//   - id: the node id
//
// Returns:
//   - NodeLike: the node
//   - bool: false if absent
func (g *AnimationGraph) Node(id NodeID) (NodeLike, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns the node ids in insertion order.
//
// Returns:
//   - []NodeID: the node ids
func (g *AnimationGraph) Nodes() []NodeID {
	return g.nodeOrder
}

// AddEdge connects a source pin to a target pin. The previous edge into
// the target, if any, is replaced.
//
// Parameters:
//   - source: the producing pin
//   - target: the consuming pin
func (g *AnimationGraph) AddEdge(source SourcePin, target TargetPin) {
	if old, ok := g.edges[target]; ok {
		fanout := g.edgesInverted[old]
		for i, t := range fanout {
			if t == target {
				g.edgesInverted[old] = append(fanout[:i], fanout[i+1:]...)
				break
			}
		}
	}
	g.edges[target] = source
	g.edgesInverted[source] = append(g.edgesInverted[source], target)
}

// ConnectData wires a node's data output to another node's data input.
func (g *AnimationGraph) ConnectData(fromNode NodeID, fromPin PinID, toNode NodeID, toPin PinID) {
	g.AddEdge(NodeDataSource(fromNode, fromPin), NodeDataTarget(toNode, toPin))
}

// ConnectTime wires a node's time output to another node's time input.
func (g *AnimationGraph) ConnectTime(fromNode, toNode NodeID, toPin PinID) {
	g.AddEdge(NodeTimeSource(fromNode), NodeTimeTarget(toNode, toPin))
}

// ConnectInputData wires a graph input parameter to a node's data input.
func (g *AnimationGraph) ConnectInputData(graphPin PinID, toNode NodeID, toPin PinID) {
	g.AddEdge(InputDataSource(graphPin), NodeDataTarget(toNode, toPin))
}

// ConnectInputTime wires a graph input time pin to a node's time input.
func (g *AnimationGraph) ConnectInputTime(graphPin PinID, toNode NodeID, toPin PinID) {
	g.AddEdge(InputTimeSource(graphPin), NodeTimeTarget(toNode, toPin))
}

// ConnectOutputData wires a node's data output to a graph data output.
func (g *AnimationGraph) ConnectOutputData(fromNode NodeID, fromPin, graphPin PinID) {
	g.AddEdge(NodeDataSource(fromNode, fromPin), OutputDataTarget(graphPin))
}

// ConnectOutputTime wires a node's time output to the graph's time
// output.
func (g *AnimationGraph) ConnectOutputTime(fromNode NodeID) {
	g.AddEdge(NodeTimeSource(fromNode), OutputTimeTarget())
	g.hasOutputTime = true
}

// DeclareInput declares a graph input parameter with a default value.
//
// Parameters:
//   - pin: the parameter name
//   - def: the default value; its spec types the pin
func (g *AnimationGraph) DeclareInput(pin PinID, def DataValue) {
	g.inputDataSpec.Insert(pin, def.Spec)
	g.defaultParameters.Insert(pin, def)
}

// DeclareInputTime declares a graph input time pin.
//
// Parameters:
//   - pin: the pin name
func (g *AnimationGraph) DeclareInputTime(pin PinID) {
	g.inputTimes.Insert(pin, struct{}{})
}

// DeclareOutput declares a graph data output.
//
// Parameters:
//   - pin: the output name
//   - spec: the output type
func (g *AnimationGraph) DeclareOutput(pin PinID, spec DataSpec) {
	g.outputDataSpec.Insert(pin, spec)
}

// InputDataSpec returns the declared input parameters.
//
// Returns:
//   - *PinMap[DataSpec]: the input parameter specs
func (g *AnimationGraph) InputDataSpec() *PinMap[DataSpec] {
	return g.inputDataSpec
}

// DefaultParameters returns the declared input parameter defaults.
//
// Returns:
//   - *PinMap[DataValue]: the defaults
func (g *AnimationGraph) DefaultParameters() *PinMap[DataValue] {
	return g.defaultParameters
}

// InputTimes returns the declared input time pins.
//
// Returns:
//   - *PinMap[struct{}]: the input time pins
func (g *AnimationGraph) InputTimes() *PinMap[struct{}] {
	return g.inputTimes
}

// OutputDataSpec returns the declared data outputs.
//
// Returns:
//   - *PinMap[DataSpec]: the output specs
func (g *AnimationGraph) OutputDataSpec() *PinMap[DataSpec] {
	return g.outputDataSpec
}

// HasOutputTime reports whether the graph exposes a time output.
//
// Returns:
//   - bool: true if a node's time output is routed to the graph output
func (g *AnimationGraph) HasOutputTime() bool {
	return g.hasOutputTime
}
