// package fsm implements the hierarchical state machine layer: an
// editable high-level graph of states and transitions, compiled into a
// low-level machine whose synthetic transition states run their own blend
// graphs, evaluated as a specialized node of the animation graph.
package fsm

import (
	"fmt"

	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// StateID names a high-level state.
type StateID string

// TransitionID names a high-level transition.
type TransitionID string

// Reserved pin names used between the state-machine driver and the
// graphs it evaluates.
const (
	// PinDriverEvents is the driver's event queue input.
	PinDriverEvents graph.PinID = "driver events"
	// PinDriverTime is the driver's time input.
	PinDriverTime graph.PinID = "driver time"
	// PinSourcePose resolves to the transition's source state pose.
	PinSourcePose graph.PinID = "source pose"
	// PinTargetPose resolves to the transition's target state pose.
	PinTargetPose graph.PinID = "target pose"
	// PinSourceTime resolves to the transition's source state duration.
	PinSourceTime graph.PinID = "source time"
	// PinTargetTime resolves to the transition's target state duration.
	PinTargetTime graph.PinID = "target time"
	// PinElapsedPercent carries how far through a transition the machine
	// is, as a fraction of the transition duration.
	PinElapsedPercent graph.PinID = "elapsed percent"
	// PinStatePose is the pose output expected from state and transition
	// graphs, and produced by the driver itself.
	PinStatePose graph.PinID = "pose"
	// PinStateEvents is the optional event output of state graphs.
	PinStateEvents graph.PinID = "events"
)

// EndTransitionID is the reserved id of the synthetic transition that
// finishes any running transition.
const EndTransitionID TransitionID = "end_transition"

// GlobalTransition marks a state as reachable from every other state,
// with its own transition timing.
type GlobalTransition struct {
	// Duration is the cross-fade length in seconds.
	Duration float32
	// GraphID optionally names a custom transition graph; empty means
	// the built-in linear cross-fade.
	GraphID string
	// Easing optionally names an easing curve applied to the elapsed
	// percent driver value.
	Easing string
}

// State is a high-level state referencing the graph that produces its
// pose.
type State struct {
	// ID names the state.
	ID StateID
	// GraphID references the state's pose graph asset.
	GraphID string
	// Global, when set, makes the state reachable from any other state.
	Global *GlobalTransition
}

// Transition is a high-level transition between two states.
type Transition struct {
	// ID names the transition.
	ID TransitionID
	// Source and Target are the endpoint states.
	Source StateID
	Target StateID
	// Duration is the cross-fade length in seconds.
	Duration float32
	// GraphID optionally names a custom transition graph; empty means
	// the built-in linear cross-fade.
	GraphID string
	// Easing optionally names an easing curve applied to the elapsed
	// percent driver value.
	Easing string
}

// StateMachine is the editable high-level machine. Structural edits mark
// it dirty; Compile rebuilds the low-level machine from scratch. Rebuild
// cost is paid once per edit, not per frame.
type StateMachine struct {
	// ID is the asset identifier.
	ID string

	states      map[StateID]State
	stateOrder  []StateID
	transitions map[TransitionID]Transition
	transOrder  []TransitionID
	startState  StateID

	// inputData declares machine-level parameters forwarded to state
	// graphs, with defaults.
	inputData *graph.PinMap[graph.DataValue]

	low   *LowLevelStateMachine
	dirty bool
}

// NewStateMachine creates an empty machine.
//
// Parameters:
//   - id: the asset identifier
//
// Returns:
//   - *StateMachine: the new machine
func NewStateMachine(id string) *StateMachine {
	return &StateMachine{
		ID:          id,
		states:      make(map[StateID]State),
		transitions: make(map[TransitionID]Transition),
		inputData:   graph.NewPinMap[graph.DataValue](),
		dirty:       true,
	}
}

// AddState inserts or replaces a state.
//
// Parameters:
//   - s: the state
func (sm *StateMachine) AddState(s State) {
	if _, ok := sm.states[s.ID]; !ok {
		sm.stateOrder = append(sm.stateOrder, s.ID)
	}
	sm.states[s.ID] = s
	sm.dirty = true
}

// AddTransition inserts or replaces a transition.
//
// Parameters:
//   - t: the transition
//
// Returns:
//   - error: error if an endpoint state does not exist
func (sm *StateMachine) AddTransition(t Transition) error {
	if _, ok := sm.states[t.Source]; !ok {
		return fmt.Errorf("transition %q: unknown source state %q", t.ID, t.Source)
	}
	if _, ok := sm.states[t.Target]; !ok {
		return fmt.Errorf("transition %q: unknown target state %q", t.ID, t.Target)
	}
	if _, ok := sm.transitions[t.ID]; !ok {
		sm.transOrder = append(sm.transOrder, t.ID)
	}
	sm.transitions[t.ID] = t
	sm.dirty = true
	return nil
}

// SetStartState selects the state the machine starts in.
//
// Parameters:
//   - id: the start state
//
// Returns:
//   - error: error if the state does not exist
func (sm *StateMachine) SetStartState(id StateID) error {
	if _, ok := sm.states[id]; !ok {
		return fmt.Errorf("unknown start state %q", id)
	}
	sm.startState = id
	sm.dirty = true
	return nil
}

// DeclareInput declares a machine-level input parameter with a default,
// forwarded to state graphs that ask for it.
//
// Parameters:
//   - pin: the parameter name
//   - def: the default value
func (sm *StateMachine) DeclareInput(pin graph.PinID, def graph.DataValue) {
	sm.inputData.Insert(pin, def)
	sm.dirty = true
}

// InputData returns the declared machine-level parameters.
//
// Returns:
//   - *graph.PinMap[graph.DataValue]: the parameters with defaults
func (sm *StateMachine) InputData() *graph.PinMap[graph.DataValue] {
	return sm.inputData
}

// States returns the state ids in declaration order.
//
// Returns:
//   - []StateID: the state ids
func (sm *StateMachine) States() []StateID {
	return sm.stateOrder
}

// State looks up a state.
//
// Parameters:
//   - id: the state id
//
// Returns:
//   - State: the state
//   - bool: false if absent
func (sm *StateMachine) State(id StateID) (State, bool) {
	s, ok := sm.states[id]
	return s, ok
}

// Transition looks up a transition.
//
// Parameters:
//   - id: the transition id
//
// Returns:
//   - Transition: the transition
//   - bool: false if absent
func (sm *StateMachine) Transition(id TransitionID) (Transition, bool) {
	t, ok := sm.transitions[id]
	return t, ok
}

// LowLevel returns the compiled machine, rebuilding it first if the
// high-level machine changed since the last compile.
//
// Returns:
//   - *LowLevelStateMachine: the compiled machine
func (sm *StateMachine) LowLevel() *LowLevelStateMachine {
	if sm.dirty || sm.low == nil {
		sm.low = sm.compile()
		sm.dirty = false
	}
	return sm.low
}
