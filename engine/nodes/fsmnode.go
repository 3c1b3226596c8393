package nodes

import (
	"github.com/Carmen-Shannon/rig-go/engine/fsm"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// FSMNode drives a state machine asset. The machine's compiled form runs
// one tick per Update, persisting its position in the evaluation context
// across frames. Besides the reserved driver pins, the node exposes the
// machine's declared inputs so host graphs can wire parameters through.
type FSMNode struct {
	graph.BaseNode
	// StateMachineID references the machine asset.
	StateMachineID string `yaml:"state_machine_id"`
}

var _ graph.NodeLike = &FSMNode{}

// NewFSMNode creates a state machine driver node.
//
// Parameters:
//   - stateMachineID: the machine asset id
//
// Returns:
//   - *FSMNode: the node
func NewFSMNode(stateMachineID string) *FSMNode {
	return &FSMNode{StateMachineID: stateMachineID}
}

// machine resolves the machine asset.
func (n *FSMNode) machine(res graph.Resources) (*fsm.StateMachine, error) {
	if res == nil {
		return nil, graph.NewError(graph.ErrFSMGraphAssetMissing, "state machine %q", n.StateMachineID)
	}
	v, ok := res.StateMachineByID(n.StateMachineID)
	if !ok {
		return nil, graph.NewError(graph.ErrFSMGraphAssetMissing, "state machine %q", n.StateMachineID)
	}
	sm, ok := v.(*fsm.StateMachine)
	if !ok {
		return nil, graph.NewError(graph.ErrFSMGraphAssetMissing, "state machine %q has unexpected type", n.StateMachineID)
	}
	return sm, nil
}

// Duration is always infinite; a state machine never runs out of states.
func (n *FSMNode) Duration(c *graph.PassContext) error {
	c.SetDurationFwd(graph.InfiniteDuration())
	return nil
}

func (n *FSMNode) Update(c *graph.PassContext) error {
	sm, err := n.machine(c.Resources())
	if err != nil {
		return err
	}
	return sm.LowLevel().Update(c)
}

func (n *FSMNode) DataInputSpec(ctx graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	m := graph.NewPinMap[graph.DataSpec]()
	m.Insert(fsm.PinDriverEvents, graph.SpecEventQueue)
	if sm, err := n.machine(ctx.Resources); err == nil {
		inputs := sm.InputData()
		for _, pin := range inputs.Keys() {
			if def, ok := inputs.Get(pin); ok {
				m.Insert(pin, def.Spec)
			}
		}
	}
	return m
}

func (n *FSMNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: fsm.PinStatePose, Value: graph.SpecPose},
		graph.PinMapEntry[graph.DataSpec]{Key: fsm.PinStateEvents, Value: graph.SpecEventQueue},
	)
}

func (n *FSMNode) TimeInputSpec(graph.SpecContext) *graph.PinMap[struct{}] {
	return graph.PinMapFrom(
		graph.PinMapEntry[struct{}]{Key: fsm.PinDriverTime},
	)
}

func (n *FSMNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *FSMNode) DisplayName() string {
	return "StateMachine"
}
