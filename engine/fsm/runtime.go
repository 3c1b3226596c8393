package fsm

import (
	"errors"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// Update runs one machine tick on behalf of the driver node: it resolves
// the tick's time, drains the incoming event queue, evaluates the current
// state's graph, drains the events that evaluation emitted, and publishes
// the resulting pose and events on the driver's output pins.
//
// Parameters:
//   - c: the driver node's evaluation context
//
// Returns:
//   - error: a GraphError on failure
func (m *LowLevelStateMachine) Update(c *graph.PassContext) error {
	input, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	t := input.Apply(c.PrevTime())
	c.SetTime(t)

	// The driver time input is optional; when wired, the upstream clock
	// sees the same update the machine integrates.
	if err := c.SetTimeUpdateBack(PinDriverTime, input); err != nil && !errors.Is(err, graph.ErrMissingEdgeToTarget) {
		return err
	}

	var incoming events.EventQueue
	if v, err := c.DataBack(PinDriverEvents); err == nil {
		q, err := v.AsEventQueue()
		if err != nil {
			return err
		}
		incoming = q
	} else if !errors.Is(err, graph.ErrMissingEdgeToTarget) {
		return err
	}

	prev, ok := c.FSMState()
	state, _, err := m.resolveCurrent(prev, ok, t)
	if err != nil {
		return err
	}

	state, err = m.handleEventQueue(state, t, incoming)
	if err != nil {
		return err
	}

	pose, emitted, err := m.evalState(c, state, input, t)
	if err != nil {
		return err
	}

	// Events emitted by the running graph steer the machine on the same
	// tick, so a transition graph announcing its end does not linger a
	// frame.
	state, err = m.handleEventQueue(state, t, emitted)
	if err != nil {
		return err
	}

	c.SetFSMState(state)
	c.SetDataFwd(PinStatePose, pose)
	c.SetDataFwd(PinStateEvents, graph.EventQueueValue(emitted))
	return nil
}

// handleEventQueue folds a queue of events into the machine position.
// Events the current state cannot act on are ignored.
func (m *LowLevelStateMachine) handleEventQueue(state graph.FSMState, t float32, q events.EventQueue) (graph.FSMState, error) {
	for _, sev := range q.Events {
		next, changed := m.handleEvent(state, t, sev.Event)
		if changed {
			state = next
		}
	}
	return state, nil
}

// handleEvent applies a single event.
func (m *LowLevelStateMachine) handleEvent(state graph.FSMState, t float32, ev events.AnimationEvent) (graph.FSMState, bool) {
	cur, ok := m.states[LowLevelStateID(state.State)]
	if !ok {
		return state, false
	}

	switch ev.Kind {
	case events.EventTransitionToState:
		if cur.Kind != StateKindHL {
			return state, false
		}
		if cur.HLState == StateID(ev.State) {
			return state, false
		}
		cands := m.Candidates(cur.ID, StateID(ev.State))
		if len(cands) == 0 {
			return state, false
		}
		return enter(cands[0].To, t), true

	case events.EventTransition:
		edge, ok := m.byTransitionID[TransitionID(ev.Transition)]
		if !ok || cur.ID != edge.From {
			return state, false
		}
		return enter(edge.To, t), true

	case events.EventEndTransition:
		edge, ok := m.endEdges[cur.ID]
		if !ok {
			return state, false
		}
		return enter(edge.To, t), true

	default:
		// String events are inert to the machine.
		return state, false
	}
}

func enter(id LowLevelStateID, t float32) graph.FSMState {
	return graph.FSMState{State: string(id), EnteredTime: t}
}

// evalState produces the pose and emitted events of the current
// low-level state.
func (m *LowLevelStateMachine) evalState(c *graph.PassContext, state graph.FSMState, input graph.TimeUpdate, t float32) (graph.DataValue, events.EventQueue, error) {
	cur, ok := m.states[LowLevelStateID(state.State)]
	if !ok {
		return graph.DataValue{}, events.EventQueue{}, graph.NewError(graph.ErrFSMCurrentStateMissing, "machine %q: unknown state %q", m.machine.ID, state.State)
	}
	if cur.Kind == StateKindHL {
		return m.evalStateGraph(c, cur.HLState, graph.RoleRoot, input)
	}
	return m.evalTransition(c, cur, state, input, t)
}

// evalStateGraph evaluates a high-level state's graph under the given
// role. The role keys the cache instantiation, so a transition evaluating
// both of its endpoints keeps their timelines independent.
func (m *LowLevelStateMachine) evalStateGraph(c *graph.PassContext, id StateID, role graph.StateRole, input graph.TimeUpdate) (graph.DataValue, events.EventQueue, error) {
	hl, ok := m.machine.State(id)
	if !ok {
		return graph.DataValue{}, events.EventQueue{}, graph.NewError(graph.ErrFSMCurrentStateMissing, "machine %q: unknown state %q", m.machine.ID, id)
	}
	sub, ok := c.Resources().GraphByID(hl.GraphID)
	if !ok {
		return graph.DataValue{}, events.EventQueue{}, graph.NewError(graph.ErrFSMGraphAssetMissing, "state %q graph %q", id, hl.GraphID)
	}

	stack := c.FSMStack().Push(graph.StateStackEntry{State: string(id), Role: role})
	binding := &stateBinding{host: c, machine: m, input: input}
	child := c.WithFSM(stack, m).ChildContext(sub, roleKey(role, string(id)), binding, nil)

	return m.runGraph(sub, child, input)
}

// evalTransition evaluates a transition state: its endpoints under the
// source/target roles, cross-faded by the eased elapsed percent, either
// through the built-in linear blend or a custom transition graph. Once
// the elapsed time covers the transition duration an end event is
// appended, finishing the transition on this same tick.
func (m *LowLevelStateMachine) evalTransition(c *graph.PassContext, cur *LowLevelState, state graph.FSMState, input graph.TimeUpdate, t float32) (graph.DataValue, events.EventQueue, error) {
	elapsed := t - state.EnteredTime
	percent := shapedPercent(elapsed, cur.Duration, cur.Easing)

	var (
		poseV graph.DataValue
		q     events.EventQueue
		err   error
	)
	if cur.GraphID == "" {
		poseV, q, err = m.builtinCrossFade(c, cur, input, percent)
	} else {
		poseV, q, err = m.transitionGraph(c, cur, input, percent)
	}
	if err != nil {
		return graph.DataValue{}, events.EventQueue{}, err
	}

	if elapsed >= cur.Duration {
		q = q.Concat(events.EventQueue{Events: []events.SampledEvent{
			events.NewSampledEvent(events.EndTransition()),
		}})
	}
	return poseV, q, nil
}

// builtinCrossFade linearly blends the endpoint poses and merges their
// event queues weighted by the fade.
func (m *LowLevelStateMachine) builtinCrossFade(c *graph.PassContext, cur *LowLevelState, input graph.TimeUpdate, percent float32) (graph.DataValue, events.EventQueue, error) {
	srcV, srcQ, err := m.evalStateGraph(c, cur.Source, graph.RoleSource, input)
	if err != nil {
		return graph.DataValue{}, events.EventQueue{}, err
	}
	tgtV, tgtQ, err := m.evalStateGraph(c, cur.Target, graph.RoleTarget, input)
	if err != nil {
		return graph.DataValue{}, events.EventQueue{}, err
	}
	srcPose, err := srcV.AsPose()
	if err != nil {
		return graph.DataValue{}, events.EventQueue{}, err
	}
	tgtPose, err := tgtV.AsPose()
	if err != nil {
		return graph.DataValue{}, events.EventQueue{}, err
	}

	alpha := common.Clamp(percent, 0, 1)
	blended := srcPose.InterpolateLinear(tgtPose, alpha)
	merged := srcQ.ScaledWeights(1 - alpha).Concat(tgtQ.ScaledWeights(alpha))
	return graph.PoseValue(blended), merged, nil
}

// transitionGraph evaluates a custom transition graph, feeding it the
// elapsed percent and resolving its source/target pins through the
// transition binding.
func (m *LowLevelStateMachine) transitionGraph(c *graph.PassContext, cur *LowLevelState, input graph.TimeUpdate, percent float32) (graph.DataValue, events.EventQueue, error) {
	sub, ok := c.Resources().GraphByID(cur.GraphID)
	if !ok {
		return graph.DataValue{}, events.EventQueue{}, graph.NewError(graph.ErrFSMGraphAssetMissing, "transition %q graph %q", cur.ID, cur.GraphID)
	}

	overlay := graph.NewInputOverlay()
	overlay.Parameters[PinElapsedPercent] = graph.F32Value(percent)

	stack := c.FSMStack().Push(graph.StateStackEntry{State: string(cur.ID), Role: graph.RoleRoot})
	binding := &stateBinding{host: c, machine: m, input: input, transition: cur}
	child := c.WithFSM(stack, m).ChildContext(sub, string(cur.ID), binding, overlay)

	return m.runGraph(sub, child, input)
}

// runGraph drives one sub-graph tick: duration pass, time injection, then
// the pose output plus the optional event output.
func (m *LowLevelStateMachine) runGraph(sub *graph.AnimationGraph, child *graph.PassContext, input graph.TimeUpdate) (graph.DataValue, events.EventQueue, error) {
	if sub.HasOutputTime() {
		if _, err := sub.OutputDuration(child); err != nil {
			return graph.DataValue{}, events.EventQueue{}, err
		}
		if err := sub.SetOutputTimeUpdate(child, input); err != nil {
			return graph.DataValue{}, events.EventQueue{}, err
		}
	}

	poseV, err := sub.GetOutputData(child, PinStatePose)
	if err != nil {
		return graph.DataValue{}, events.EventQueue{}, err
	}

	var q events.EventQueue
	if sub.OutputDataSpec().Has(PinStateEvents) {
		ev, err := sub.GetOutputData(child, PinStateEvents)
		if err != nil {
			return graph.DataValue{}, events.EventQueue{}, err
		}
		q, err = ev.AsEventQueue()
		if err != nil {
			return graph.DataValue{}, events.EventQueue{}, err
		}
	}
	return poseV, q, nil
}

// roleKey builds the cache sub-state key for a state evaluated under a
// role. Source and target instantiations of the same state stay distinct.
func roleKey(role graph.StateRole, state string) string {
	switch role {
	case graph.RoleSource:
		return "source:" + state
	case graph.RoleTarget:
		return "target:" + state
	default:
		return "root:" + state
	}
}

// stateBinding resolves the unbound inputs of state and transition graphs
// against the machine: reserved source/target pins evaluate the
// transition endpoints, everything else falls through to the driver
// node's pins and then the machine-level defaults.
type stateBinding struct {
	host    *graph.PassContext
	machine *LowLevelStateMachine
	input   graph.TimeUpdate
	// transition is set when binding a transition graph; nil for plain
	// state graphs.
	transition *LowLevelState
}

// Ensure the binding satisfies the evaluator's interface.
var _ graph.ParentBinding = &stateBinding{}

func (b *stateBinding) DataBack(pin graph.PinID) (graph.DataValue, error) {
	switch pin {
	case PinSourcePose:
		if b.transition == nil {
			return graph.DataValue{}, graph.NewError(graph.ErrFSMExpectedTransitionFoundState, "pin %q", pin)
		}
		v, _, err := b.machine.evalStateGraph(b.host, b.transition.Source, graph.RoleSource, b.input)
		return v, err
	case PinTargetPose:
		if b.transition == nil {
			return graph.DataValue{}, graph.NewError(graph.ErrFSMExpectedTransitionFoundState, "pin %q", pin)
		}
		v, _, err := b.machine.evalStateGraph(b.host, b.transition.Target, graph.RoleTarget, b.input)
		return v, err
	}

	// Machine-level inputs resolve through the driver node's pins in the
	// host graph, then the machine's declared defaults.
	if v, err := b.host.DataBack(pin); err == nil {
		return v, nil
	} else if !errors.Is(err, graph.ErrMissingEdgeToTarget) {
		return graph.DataValue{}, err
	}
	if v, ok := b.machine.machine.inputData.Get(pin); ok {
		return v, nil
	}
	return graph.DataValue{}, graph.NewError(graph.ErrFSMRequestedMissingData, "pin %q", pin)
}

func (b *stateBinding) DurationBack(pin graph.PinID) (graph.Duration, error) {
	switch pin {
	case PinSourceTime:
		if b.transition == nil {
			return graph.Duration{}, graph.NewError(graph.ErrFSMExpectedTransitionFoundState, "pin %q", pin)
		}
		return b.machine.stateGraphDuration(b.host, b.transition.Source, graph.RoleSource, b.input)
	case PinTargetTime:
		if b.transition == nil {
			return graph.Duration{}, graph.NewError(graph.ErrFSMExpectedTransitionFoundState, "pin %q", pin)
		}
		return b.machine.stateGraphDuration(b.host, b.transition.Target, graph.RoleTarget, b.input)
	}
	return b.host.DurationBack(pin)
}

func (b *stateBinding) TimeFwd() (graph.TimeUpdate, error) {
	return b.input, nil
}

// SetTimeUpdateBack absorbs updates crossing the state graph boundary:
// the machine owns the clock, state graphs cannot rewind the driver.
func (b *stateBinding) SetTimeUpdateBack(pin graph.PinID, tu graph.TimeUpdate) error {
	return nil
}

// stateGraphDuration resolves the duration of a state's graph under a
// role, sharing the cache instantiation evalStateGraph uses.
func (m *LowLevelStateMachine) stateGraphDuration(c *graph.PassContext, id StateID, role graph.StateRole, input graph.TimeUpdate) (graph.Duration, error) {
	hl, ok := m.machine.State(id)
	if !ok {
		return graph.Duration{}, graph.NewError(graph.ErrFSMCurrentStateMissing, "machine %q: unknown state %q", m.machine.ID, id)
	}
	sub, ok := c.Resources().GraphByID(hl.GraphID)
	if !ok {
		return graph.Duration{}, graph.NewError(graph.ErrFSMGraphAssetMissing, "state %q graph %q", id, hl.GraphID)
	}
	if !sub.HasOutputTime() {
		return graph.InfiniteDuration(), nil
	}

	stack := c.FSMStack().Push(graph.StateStackEntry{State: string(id), Role: role})
	binding := &stateBinding{host: c, machine: m, input: input}
	child := c.WithFSM(stack, m).ChildContext(sub, roleKey(role, string(id)), binding, nil)
	return sub.OutputDuration(child)
}
