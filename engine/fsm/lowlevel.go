package fsm

import (
	"sort"

	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// LowLevelStateID keys a state of the compiled machine. It doubles as the
// cache sub-state key, so every low-level state gets its own graph
// context instantiation.
type LowLevelStateID string

// HLStateID encodes a high-level state as a low-level state id.
//
// Parameters:
//   - s: the high-level state
//
// Returns:
//   - LowLevelStateID: the encoded id
func HLStateID(s StateID) LowLevelStateID {
	return LowLevelStateID("state:" + string(s))
}

// DirectStateID encodes a direct transition as a low-level state id.
//
// Parameters:
//   - t: the high-level transition
//
// Returns:
//   - LowLevelStateID: the encoded id
func DirectStateID(t TransitionID) LowLevelStateID {
	return LowLevelStateID("transition:" + string(t))
}

// GlobalStateID encodes a synthesized global transition as a low-level
// state id. One exists per (source, global target) pair.
//
// Parameters:
//   - src: the state being left
//   - tgt: the globally reachable state
//
// Returns:
//   - LowLevelStateID: the encoded id
func GlobalStateID(src, tgt StateID) LowLevelStateID {
	return LowLevelStateID("global:" + string(src) + ">" + string(tgt))
}

// LowLevelStateKind discriminates compiled states.
type LowLevelStateKind uint8

const (
	// StateKindHL is a compiled high-level state.
	StateKindHL LowLevelStateKind = iota
	// StateKindDirect is a state synthesized from a declared transition.
	StateKindDirect
	// StateKindGlobal is a state synthesized for a global transition pair.
	StateKindGlobal
)

// LowLevelState is one state of the compiled machine. High-level states
// run their state graph; transition states cross-fade between their
// endpoints, optionally through a custom transition graph.
type LowLevelState struct {
	// ID is the encoded state id.
	ID LowLevelStateID
	// Kind discriminates the remaining fields.
	Kind LowLevelStateKind
	// HLState is the high-level state, for StateKindHL.
	HLState StateID
	// Source and Target are the endpoints, for transition kinds.
	Source StateID
	Target StateID
	// TransitionID is the declared transition, for StateKindDirect.
	TransitionID TransitionID
	// Duration is the transition length in seconds.
	Duration float32
	// GraphID is the custom transition graph, empty for the built-in
	// cross-fade.
	GraphID string
	// Easing names the easing curve applied to the elapsed percent.
	Easing string
}

// LowLevelTransitionType orders candidate transitions by specificity:
// declared transitions beat synthesized global ones, which beat the
// fallback snap out of a running transition.
type LowLevelTransitionType uint8

const (
	// TransitionDirect is a declared transition.
	TransitionDirect LowLevelTransitionType = iota
	// TransitionGlobal is a synthesized transition into a global state.
	TransitionGlobal
	// TransitionFallback jumps a running transition straight to its
	// target.
	TransitionFallback
)

// LowLevelTransition is a compiled edge between low-level states.
type LowLevelTransition struct {
	// From and To are the low-level endpoints.
	From LowLevelStateID
	To   LowLevelStateID
	// TransitionID is the declared transition behind a direct edge,
	// empty otherwise.
	TransitionID TransitionID
	// Type orders candidates when several edges serve the same request.
	Type LowLevelTransitionType
}

// statePair keys candidate lookups: the state the machine sits in and
// the high-level state a TransitionToState event asks for.
type statePair struct {
	from   LowLevelStateID
	target StateID
}

// LowLevelStateMachine is the compiled, immutable runtime form of a
// StateMachine. It is rebuilt wholesale on every high-level edit.
type LowLevelStateMachine struct {
	machine *StateMachine

	states map[LowLevelStateID]*LowLevelState
	start  LowLevelStateID

	// byPair lists candidate transitions per (current state, requested
	// target), sorted by ascending Type.
	byPair map[statePair][]*LowLevelTransition
	// byTransitionID indexes direct edges by their declared transition.
	byTransitionID map[TransitionID]*LowLevelTransition
	// endEdges maps each transition state to its fallback edge into the
	// target high-level state.
	endEdges map[LowLevelStateID]*LowLevelTransition
}

// compile rebuilds the low-level machine from the high-level one.
func (sm *StateMachine) compile() *LowLevelStateMachine {
	m := &LowLevelStateMachine{
		machine:        sm,
		states:         make(map[LowLevelStateID]*LowLevelState),
		byPair:         make(map[statePair][]*LowLevelTransition),
		byTransitionID: make(map[TransitionID]*LowLevelTransition),
		endEdges:       make(map[LowLevelStateID]*LowLevelTransition),
	}

	for _, id := range sm.stateOrder {
		s := sm.states[id]
		m.states[HLStateID(id)] = &LowLevelState{
			ID:      HLStateID(id),
			Kind:    StateKindHL,
			HLState: id,
			GraphID: s.GraphID,
		}
	}
	if sm.startState != "" {
		m.start = HLStateID(sm.startState)
	}

	for _, id := range sm.transOrder {
		t := sm.transitions[id]
		ts := &LowLevelState{
			ID:           DirectStateID(id),
			Kind:         StateKindDirect,
			Source:       t.Source,
			Target:       t.Target,
			TransitionID: id,
			Duration:     t.Duration,
			GraphID:      t.GraphID,
			Easing:       t.Easing,
		}
		m.states[ts.ID] = ts

		edge := &LowLevelTransition{
			From:         HLStateID(t.Source),
			To:           ts.ID,
			TransitionID: id,
			Type:         TransitionDirect,
		}
		pair := statePair{from: edge.From, target: t.Target}
		m.byPair[pair] = append(m.byPair[pair], edge)
		m.byTransitionID[id] = edge
		m.addEndEdge(ts)
	}

	// Global states are reachable from every other high-level state
	// through a synthesized transition per source.
	for _, tgtID := range sm.stateOrder {
		tgt := sm.states[tgtID]
		if tgt.Global == nil {
			continue
		}
		for _, srcID := range sm.stateOrder {
			if srcID == tgtID {
				continue
			}
			ts := &LowLevelState{
				ID:       GlobalStateID(srcID, tgtID),
				Kind:     StateKindGlobal,
				Source:   srcID,
				Target:   tgtID,
				Duration: tgt.Global.Duration,
				GraphID:  tgt.Global.GraphID,
				Easing:   tgt.Global.Easing,
			}
			m.states[ts.ID] = ts

			edge := &LowLevelTransition{
				From: HLStateID(srcID),
				To:   ts.ID,
				Type: TransitionGlobal,
			}
			pair := statePair{from: edge.From, target: tgtID}
			m.byPair[pair] = append(m.byPair[pair], edge)
			m.addEndEdge(ts)
		}
	}

	for pair := range m.byPair {
		cands := m.byPair[pair]
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].Type < cands[j].Type
		})
	}
	return m
}

// addEndEdge registers the fallback edge that finishes a transition
// state.
func (m *LowLevelStateMachine) addEndEdge(ts *LowLevelState) {
	m.endEdges[ts.ID] = &LowLevelTransition{
		From: ts.ID,
		To:   HLStateID(ts.Target),
		Type: TransitionFallback,
	}
}

// StartState returns the low-level start state.
//
// Returns:
//   - LowLevelStateID: the start state, empty if none was declared
func (m *LowLevelStateMachine) StartState() LowLevelStateID {
	return m.start
}

// State looks up a low-level state.
//
// Parameters:
//   - id: the encoded state id
//
// Returns:
//   - *LowLevelState: the state
//   - bool: false if absent
func (m *LowLevelStateMachine) State(id LowLevelStateID) (*LowLevelState, bool) {
	s, ok := m.states[id]
	return s, ok
}

// Candidates returns the transitions serving a TransitionToState request
// from the given state, most specific first.
//
// Parameters:
//   - from: the state the machine sits in
//   - target: the requested high-level state
//
// Returns:
//   - []*LowLevelTransition: the candidates in selection order
func (m *LowLevelStateMachine) Candidates(from LowLevelStateID, target StateID) []*LowLevelTransition {
	return m.byPair[statePair{from: from, target: target}]
}

// Machine returns the high-level machine this was compiled from.
//
// Returns:
//   - *StateMachine: the source machine
func (m *LowLevelStateMachine) Machine() *StateMachine {
	return m.machine
}

// resolveCurrent resolves the persisted position into a low-level state,
// falling back to the start state before the machine first runs.
func (m *LowLevelStateMachine) resolveCurrent(state graph.FSMState, ok bool, t float32) (graph.FSMState, *LowLevelState, error) {
	if !ok {
		if m.start == "" {
			return graph.FSMState{}, nil, graph.NewError(graph.ErrFSMCurrentStateMissing, "machine %q has no start state", m.machine.ID)
		}
		state = graph.FSMState{State: string(m.start), EnteredTime: t}
	}
	cur, found := m.states[LowLevelStateID(state.State)]
	if !found {
		return graph.FSMState{}, nil, graph.NewError(graph.ErrFSMCurrentStateMissing, "machine %q: unknown state %q", m.machine.ID, state.State)
	}
	return state, cur, nil
}
