package graph

// InputOverlay supplies per-instance values for a graph's input pins,
// layered over the graph asset's declared defaults. Players use it for
// runtime parameters; nested evaluation uses it to feed driver values
// (e.g. a transition's elapsed percent) into sub-graphs.
type InputOverlay struct {
	// Parameters overrides input data pins.
	Parameters map[PinID]DataValue
	// Durations overrides input time pin durations.
	Durations map[PinID]Duration
	// TimeUpdates overrides input time pin updates.
	TimeUpdates map[PinID]TimeUpdate
}

// NewInputOverlay creates an empty overlay.
//
// Returns:
//   - *InputOverlay: the new overlay
func NewInputOverlay() *InputOverlay {
	return &InputOverlay{
		Parameters:  make(map[PinID]DataValue),
		Durations:   make(map[PinID]Duration),
		TimeUpdates: make(map[PinID]TimeUpdate),
	}
}

// Clear removes all overlay entries.
func (o *InputOverlay) Clear() {
	clear(o.Parameters)
	clear(o.Durations)
	clear(o.TimeUpdates)
}

// ParentBinding resolves a sub-graph's unbound inputs against whatever
// hosts it. The same sub-graph asset evaluated from a plain nested-graph
// node resolves against the host node's pins in the parent graph; the
// same asset evaluated as an FSM state resolves against the role-tagged
// state stack. Injecting the resolution strategy here keeps the evaluator
// agnostic of who instantiated the graph.
type ParentBinding interface {
	// DataBack resolves an unbound input data pin.
	//
	// Parameters:
	//   - pin: the sub-graph's input pin
	//
	// Returns:
	//   - DataValue: the resolved value
	//   - error: a GraphError if the host cannot supply it
	DataBack(pin PinID) (DataValue, error)

	// DurationBack resolves the duration behind an unbound input time pin.
	//
	// Parameters:
	//   - pin: the sub-graph's input time pin
	//
	// Returns:
	//   - Duration: the resolved duration
	//   - error: a GraphError if the host cannot supply it
	DurationBack(pin PinID) (Duration, error)

	// TimeFwd resolves the time update flowing into the sub-graph.
	//
	// Returns:
	//   - TimeUpdate: the incoming update
	//   - error: a GraphError if the host cannot supply it
	TimeFwd() (TimeUpdate, error)

	// SetTimeUpdateBack forwards a time update that crossed the sub-graph
	// boundary on an input time pin up to the host.
	//
	// Parameters:
	//   - pin: the sub-graph's input time pin
	//   - tu: the update to propagate
	//
	// Returns:
	//   - error: a GraphError if the host cannot route it
	SetTimeUpdateBack(pin PinID, tu TimeUpdate) error
}

// StateRole tags an entry on the FSM evaluation stack, disambiguating
// which physical sub-graph instantiation a nested query refers to: the
// live running state graph, or the source/target endpoint of a transition
// concurrently evaluating both ends for its cross-fade.
type StateRole uint8

const (
	// RoleRoot is the live running state.
	RoleRoot StateRole = iota
	// RoleSource is the source endpoint of a running transition.
	RoleSource
	// RoleTarget is the target endpoint of a running transition.
	RoleTarget
)

// StateStackEntry is one frame of the FSM evaluation stack.
type StateStackEntry struct {
	// State is the high-level state id.
	State string
	// Role is how this state is being evaluated.
	Role StateRole
}

// StateStack tracks which FSM states enclose the current evaluation.
type StateStack struct {
	Entries []StateStackEntry
}

// Push returns a new stack with an entry appended. The receiver is not
// modified; stacks are shared between sibling evaluations.
//
// Parameters:
//   - e: the entry to append
//
// Returns:
//   - *StateStack: the extended stack
func (s *StateStack) Push(e StateStackEntry) *StateStack {
	var entries []StateStackEntry
	if s != nil {
		entries = append(entries, s.Entries...)
	}
	return &StateStack{Entries: append(entries, e)}
}

// Top returns the innermost entry.
//
// Returns:
//   - StateStackEntry: the top entry
//   - bool: false if the stack is empty
func (s *StateStack) Top() (StateStackEntry, bool) {
	if s == nil || len(s.Entries) == 0 {
		return StateStackEntry{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}
