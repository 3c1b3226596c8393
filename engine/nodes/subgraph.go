package nodes

import (
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// GraphNode embeds another graph asset as a single node. Its pin layout
// mirrors the sub-graph's declared inputs and outputs, so wiring into the
// node feeds the sub-graph and pulling from it evaluates the sub-graph in
// its own cache instantiation.
type GraphNode struct {
	graph.BaseNode
	// GraphID references the embedded graph asset.
	GraphID string `yaml:"graph_id"`
}

var _ graph.NodeLike = &GraphNode{}

// NewGraphNode creates a nested graph node.
//
// Parameters:
//   - graphID: the embedded graph asset id
//
// Returns:
//   - *GraphNode: the node
func NewGraphNode(graphID string) *GraphNode {
	return &GraphNode{GraphID: graphID}
}

// sub resolves the embedded graph asset.
func (n *GraphNode) sub(res graph.Resources) (*graph.AnimationGraph, error) {
	if res == nil {
		return nil, graph.NewError(graph.ErrGraphAssetMissing, "graph %q", n.GraphID)
	}
	g, ok := res.GraphByID(n.GraphID)
	if !ok {
		return nil, graph.NewError(graph.ErrGraphAssetMissing, "graph %q", n.GraphID)
	}
	return g, nil
}

// child spawns the sub-graph evaluation context. Unbound sub-graph inputs
// resolve against this node's identically named pins in the host graph.
func (n *GraphNode) child(c *graph.PassContext, sub *graph.AnimationGraph) *graph.PassContext {
	return c.ChildContext(sub, "", graph.BindToParent(c), nil)
}

func (n *GraphNode) Duration(c *graph.PassContext) error {
	sub, err := n.sub(c.Resources())
	if err != nil {
		return err
	}
	if !sub.HasOutputTime() {
		c.SetDurationFwd(graph.InfiniteDuration())
		return nil
	}
	d, err := sub.OutputDuration(n.child(c, sub))
	if err != nil {
		return err
	}
	c.SetDurationFwd(d)
	return nil
}

func (n *GraphNode) Update(c *graph.PassContext) error {
	sub, err := n.sub(c.Resources())
	if err != nil {
		return err
	}
	child := n.child(c, sub)

	if sub.HasOutputTime() {
		tu, err := c.TimeUpdateFwd()
		if err != nil {
			return err
		}
		c.SetTime(tu.Apply(c.PrevTime()))
		if err := sub.SetOutputTimeUpdate(child, tu); err != nil {
			return err
		}
	}

	for _, pin := range sub.OutputDataSpec().Keys() {
		v, err := sub.GetOutputData(child, pin)
		if err != nil {
			return err
		}
		c.SetDataFwd(pin, v)
	}
	return nil
}

func (n *GraphNode) DataInputSpec(ctx graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	sub, err := n.sub(ctx.Resources)
	if err != nil {
		return graph.NewPinMap[graph.DataSpec]()
	}
	return sub.InputDataSpec()
}

func (n *GraphNode) DataOutputSpec(ctx graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	sub, err := n.sub(ctx.Resources)
	if err != nil {
		return graph.NewPinMap[graph.DataSpec]()
	}
	return sub.OutputDataSpec()
}

func (n *GraphNode) TimeInputSpec(ctx graph.SpecContext) *graph.PinMap[struct{}] {
	sub, err := n.sub(ctx.Resources)
	if err != nil {
		return graph.NewPinMap[struct{}]()
	}
	return sub.InputTimes()
}

func (n *GraphNode) HasTimeOutput(ctx graph.SpecContext) bool {
	sub, err := n.sub(ctx.Resources)
	if err != nil {
		return false
	}
	return sub.HasOutputTime()
}

func (n *GraphNode) DisplayName() string {
	return "Graph"
}
