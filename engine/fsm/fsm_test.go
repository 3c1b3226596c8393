package fsm

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

// testMachine builds idle/walk/hurt: a declared idle->walk transition and
// a globally reachable hurt state.
func testMachine(t *testing.T) *StateMachine {
	t.Helper()
	sm := NewStateMachine("m")
	sm.AddState(State{ID: "idle", GraphID: "idle_graph"})
	sm.AddState(State{ID: "walk", GraphID: "walk_graph"})
	sm.AddState(State{ID: "hurt", GraphID: "hurt_graph", Global: &GlobalTransition{Duration: 0.2}})
	if err := sm.AddTransition(Transition{
		ID:       "idle_to_walk",
		Source:   "idle",
		Target:   "walk",
		Duration: 0.5,
	}); err != nil {
		t.Fatal(err)
	}
	if err := sm.SetStartState("idle"); err != nil {
		t.Fatal(err)
	}
	return sm
}

// --- Compilation ---

func TestCompileStates(t *testing.T) {
	m := testMachine(t).LowLevel()

	if m.StartState() != HLStateID("idle") {
		t.Errorf("start = %q, want %q", m.StartState(), HLStateID("idle"))
	}
	for _, id := range []LowLevelStateID{
		HLStateID("idle"),
		HLStateID("walk"),
		HLStateID("hurt"),
		DirectStateID("idle_to_walk"),
		GlobalStateID("idle", "hurt"),
		GlobalStateID("walk", "hurt"),
	} {
		if _, ok := m.State(id); !ok {
			t.Errorf("compiled machine missing state %q", id)
		}
	}
	// No global state is synthesized from a state to itself.
	if _, ok := m.State(GlobalStateID("hurt", "hurt")); ok {
		t.Error("self-referencing global state should not exist")
	}

	ts, _ := m.State(DirectStateID("idle_to_walk"))
	if ts.Kind != StateKindDirect || ts.Source != "idle" || ts.Target != "walk" || !nearf(ts.Duration, 0.5) {
		t.Errorf("transition state = %+v", ts)
	}
}

func TestCandidatesPreferDeclaredTransitions(t *testing.T) {
	sm := testMachine(t)
	// Make walk globally reachable too, so idle->walk has both a declared
	// transition and a synthesized global edge.
	sm.AddState(State{ID: "walk", GraphID: "walk_graph", Global: &GlobalTransition{Duration: 1}})
	m := sm.LowLevel()

	cands := m.Candidates(HLStateID("idle"), "walk")
	if len(cands) != 2 {
		t.Fatalf("candidate count = %d, want 2", len(cands))
	}
	if cands[0].Type != TransitionDirect || cands[0].TransitionID != "idle_to_walk" {
		t.Errorf("first candidate = %+v, want the declared transition", cands[0])
	}
	if cands[1].Type != TransitionGlobal {
		t.Errorf("second candidate = %+v, want the global edge", cands[1])
	}
}

func TestLowLevelRecompilesOnEdit(t *testing.T) {
	sm := testMachine(t)
	m1 := sm.LowLevel()
	if sm.LowLevel() != m1 {
		t.Error("unchanged machine should reuse the compiled form")
	}
	sm.AddState(State{ID: "run", GraphID: "run_graph"})
	m2 := sm.LowLevel()
	if m2 == m1 {
		t.Error("edit should trigger a recompile")
	}
	if _, ok := m2.State(HLStateID("run")); !ok {
		t.Error("recompiled machine missing the new state")
	}
}

func TestAddTransitionValidatesEndpoints(t *testing.T) {
	sm := NewStateMachine("m")
	sm.AddState(State{ID: "only"})
	if err := sm.AddTransition(Transition{ID: "t", Source: "only", Target: "ghost"}); err == nil {
		t.Error("transition to unknown state should fail")
	}
	if err := sm.AddTransition(Transition{ID: "t", Source: "ghost", Target: "only"}); err == nil {
		t.Error("transition from unknown state should fail")
	}
}

// --- Event handling ---

func TestHandleEventTransitionToState(t *testing.T) {
	m := testMachine(t).LowLevel()
	state := enter(HLStateID("idle"), 0)

	next, changed := m.handleEvent(state, 1.5, events.TransitionToState("walk"))
	if !changed {
		t.Fatal("transition request should change state")
	}
	if next.State != string(DirectStateID("idle_to_walk")) {
		t.Errorf("state = %q, want the declared transition state", next.State)
	}
	if !nearf(next.EnteredTime, 1.5) {
		t.Errorf("entered time = %v, want 1.5", next.EnteredTime)
	}

	// Requesting the state the machine already sits in is a no-op.
	if _, changed := m.handleEvent(state, 1, events.TransitionToState("idle")); changed {
		t.Error("request for the current state should not change anything")
	}
	// Unreachable targets are ignored.
	if _, changed := m.handleEvent(state, 1, events.TransitionToState("swim")); changed {
		t.Error("request for an unknown state should not change anything")
	}
}

func TestHandleEventGlobalTarget(t *testing.T) {
	m := testMachine(t).LowLevel()
	state := enter(HLStateID("walk"), 0)

	next, changed := m.handleEvent(state, 2, events.TransitionToState("hurt"))
	if !changed || next.State != string(GlobalStateID("walk", "hurt")) {
		t.Errorf("state = %q (%v), want the global transition state", next.State, changed)
	}
}

func TestHandleEventSpecificTransition(t *testing.T) {
	m := testMachine(t).LowLevel()

	next, changed := m.handleEvent(enter(HLStateID("idle"), 0), 1, events.Transition("idle_to_walk"))
	if !changed || next.State != string(DirectStateID("idle_to_walk")) {
		t.Errorf("state = %q (%v), want the transition state", next.State, changed)
	}

	// The transition only fires from its source state.
	if _, changed := m.handleEvent(enter(HLStateID("walk"), 0), 1, events.Transition("idle_to_walk")); changed {
		t.Error("transition fired outside its source state")
	}
}

func TestHandleEventEndTransition(t *testing.T) {
	m := testMachine(t).LowLevel()

	next, changed := m.handleEvent(enter(DirectStateID("idle_to_walk"), 0), 1, events.EndTransition())
	if !changed || next.State != string(HLStateID("walk")) {
		t.Errorf("state = %q (%v), want the target state", next.State, changed)
	}

	// Outside a transition there is nothing to end.
	if _, changed := m.handleEvent(enter(HLStateID("idle"), 0), 1, events.EndTransition()); changed {
		t.Error("end-transition outside a transition should be inert")
	}
}

func TestHandleEventStringIsInert(t *testing.T) {
	m := testMachine(t).LowLevel()
	if _, changed := m.handleEvent(enter(HLStateID("idle"), 0), 1, events.StringID("footstep")); changed {
		t.Error("string events should not steer the machine")
	}
}

func TestResolveCurrentFallsBackToStart(t *testing.T) {
	m := testMachine(t).LowLevel()

	state, cur, err := m.resolveCurrent(graph.FSMState{}, false, 3)
	if err != nil {
		t.Fatal(err)
	}
	if state.State != string(HLStateID("idle")) || cur.HLState != "idle" {
		t.Errorf("resolved state = %+v", state)
	}
	if !nearf(state.EnteredTime, 3) {
		t.Errorf("entered time = %v, want 3", state.EnteredTime)
	}

	sm := NewStateMachine("empty")
	if _, _, err := sm.LowLevel().resolveCurrent(graph.FSMState{}, false, 0); err == nil {
		t.Error("machine without a start state should fail to resolve")
	}
}

// --- Easing ---

func TestShapedPercent(t *testing.T) {
	if got := shapedPercent(0.5, 1, ""); !nearf(got, 0.5) {
		t.Errorf("raw ratio = %v, want 0.5", got)
	}
	// Without a curve the ratio is unclamped.
	if got := shapedPercent(2, 1, ""); !nearf(got, 2) {
		t.Errorf("overshoot ratio = %v, want 2", got)
	}
	// With a curve the elapsed time clamps first.
	if got := shapedPercent(2, 1, "linear"); !nearf(got, 1) {
		t.Errorf("clamped eased percent = %v, want 1", got)
	}
	if got := shapedPercent(0.5, 1, "linear"); !nearf(got, 0.5) {
		t.Errorf("linear eased percent = %v, want 0.5", got)
	}
	// Symmetric curves pass through the midpoint.
	if got := shapedPercent(0.5, 1, "in_out_quad"); !nearf(got, 0.5) {
		t.Errorf("in_out_quad midpoint = %v, want 0.5", got)
	}
	if got := shapedPercent(1, 1, "in_out_quad"); !nearf(got, 1) {
		t.Errorf("in_out_quad end = %v, want 1", got)
	}
	// A zero-length transition is already complete.
	if got := shapedPercent(0, 0, ""); !nearf(got, 1) {
		t.Errorf("zero duration percent = %v, want 1", got)
	}
}
