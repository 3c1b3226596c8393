package graph

// Validate checks the graph's structural invariants: every edge endpoint
// references a declared pin on an existing node, data edges connect pins
// of the same spec, and the node-level dependency graph is acyclic. A
// cyclic graph would recurse forever at evaluation time, so cycles are an
// edit-time error, not a runtime-guarded one.
//
// Parameters:
//   - res: asset resolution for nodes whose pin specs derive from
//     referenced assets; may be nil if no node needs it
//
// Returns:
//   - error: an ErrInvalidGraph GraphError describing the first problem
func (g *AnimationGraph) Validate(res Resources) error {
	spec := SpecContext{Resources: res}

	for target, source := range g.edges {
		tSpec, err := g.targetSpec(spec, target)
		if err != nil {
			return err
		}
		sSpec, err := g.sourceSpec(spec, source)
		if err != nil {
			return err
		}
		// nil spec marks a time endpoint; both ends must agree on
		// channel kind and, for data, on type.
		if (tSpec == nil) != (sSpec == nil) {
			return newError(ErrInvalidGraph, "edge %s -> %s mixes time and data pins", source, target)
		}
		if tSpec != nil && *tSpec != *sSpec {
			return newError(ErrInvalidGraph, "edge %s (%s) -> %s (%s) type mismatch", source, *sSpec, target, *tSpec)
		}
	}

	return g.checkAcyclic()
}

// targetSpec resolves the data spec of a consuming pin, nil for time
// pins.
func (g *AnimationGraph) targetSpec(spec SpecContext, target TargetPin) (*DataSpec, error) {
	switch target.Kind {
	case TargetNodeData:
		node, ok := g.nodes[target.Node]
		if !ok {
			return nil, newError(ErrInvalidGraph, "edge targets missing node %q", target.Node)
		}
		s, ok := node.DataInputSpec(spec).Get(target.Pin)
		if !ok {
			return nil, newError(ErrInvalidGraph, "node %q has no data input %q", target.Node, target.Pin)
		}
		return &s, nil
	case TargetOutputData:
		s, ok := g.outputDataSpec.Get(target.Pin)
		if !ok {
			return nil, newError(ErrInvalidGraph, "graph has no declared output %q", target.Pin)
		}
		return &s, nil
	case TargetNodeTime:
		node, ok := g.nodes[target.Node]
		if !ok {
			return nil, newError(ErrInvalidGraph, "edge targets missing node %q", target.Node)
		}
		if !node.TimeInputSpec(spec).Has(target.Pin) {
			return nil, newError(ErrInvalidGraph, "node %q has no time input %q", target.Node, target.Pin)
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// sourceSpec resolves the data spec of a producing pin, nil for time
// pins.
func (g *AnimationGraph) sourceSpec(spec SpecContext, source SourcePin) (*DataSpec, error) {
	switch source.Kind {
	case SourceNodeData:
		node, ok := g.nodes[source.Node]
		if !ok {
			return nil, newError(ErrInvalidGraph, "edge sources missing node %q", source.Node)
		}
		s, ok := node.DataOutputSpec(spec).Get(source.Pin)
		if !ok {
			return nil, newError(ErrInvalidGraph, "node %q has no data output %q", source.Node, source.Pin)
		}
		return &s, nil
	case SourceInputData:
		s, ok := g.inputDataSpec.Get(source.Pin)
		if !ok {
			return nil, newError(ErrInvalidGraph, "graph has no declared input %q", source.Pin)
		}
		return &s, nil
	case SourceNodeTime:
		node, ok := g.nodes[source.Node]
		if !ok {
			return nil, newError(ErrInvalidGraph, "edge sources missing node %q", source.Node)
		}
		if !node.HasTimeOutput(spec) {
			return nil, newError(ErrInvalidGraph, "node %q has no time output", source.Node)
		}
		return nil, nil
	default:
		if !g.inputTimes.Has(source.Pin) {
			return nil, newError(ErrInvalidGraph, "graph has no declared input time %q", source.Pin)
		}
		return nil, nil
	}
}

// checkAcyclic runs a three-color depth-first search over the node-level
// dependency graph induced by the edges.
func (g *AnimationGraph) checkAcyclic() error {
	deps := make(map[NodeID][]NodeID)
	for target, source := range g.edges {
		var from NodeID
		switch source.Kind {
		case SourceNodeData, SourceNodeTime:
			from = source.Node
		default:
			continue
		}
		switch target.Kind {
		case TargetNodeData, TargetNodeTime:
			deps[target.Node] = append(deps[target.Node], from)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[NodeID]int, len(g.nodeOrder))

	var visit func(n NodeID) error
	visit = func(n NodeID) error {
		switch color[n] {
		case gray:
			return newError(ErrInvalidGraph, "cycle through node %q", n)
		case black:
			return nil
		}
		color[n] = gray
		for _, dep := range deps[n] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[n] = black
		return nil
	}

	for _, n := range g.nodeOrder {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}
