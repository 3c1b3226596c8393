// package events defines the animation event model: discrete events fired
// by state-machine drivers or sampled from event tracks attached to
// animations, and the queues they travel through the graph in.
package events

// AnimationEventKind discriminates the AnimationEvent union.
type AnimationEventKind uint8

const (
	// EventStringID is a generic, user-defined event. Inert to the
	// state-machine driver; consumed by gameplay or graph logic.
	EventStringID AnimationEventKind = iota
	// EventTransitionToState requests a state machine to transition to a
	// target state via the most specific available transition.
	EventTransitionToState
	// EventTransition requests a specific transition by id. Fires only if
	// the machine currently sits in that transition's source state.
	EventTransition
	// EventEndTransition requests the currently running transition to
	// finish, jumping to its target state.
	EventEndTransition
)

// AnimationEvent is a tagged union over the event kinds.
type AnimationEvent struct {
	// Kind selects which payload field applies.
	Kind AnimationEventKind
	// ID is the event identifier for EventStringID.
	ID string
	// State is the target state for EventTransitionToState.
	State string
	// Transition is the transition id for EventTransition.
	Transition string
}

// StringID creates a generic string event.
//
// Parameters:
//   - id: the event identifier
//
// Returns:
//   - AnimationEvent: the event
func StringID(id string) AnimationEvent {
	return AnimationEvent{Kind: EventStringID, ID: id}
}

// TransitionToState creates an event requesting a transition to the given
// state.
//
// Parameters:
//   - state: the target state id
//
// Returns:
//   - AnimationEvent: the event
func TransitionToState(state string) AnimationEvent {
	return AnimationEvent{Kind: EventTransitionToState, State: state}
}

// Transition creates an event requesting a specific transition by id.
//
// Parameters:
//   - id: the transition id
//
// Returns:
//   - AnimationEvent: the event
func Transition(id string) AnimationEvent {
	return AnimationEvent{Kind: EventTransition, Transition: id}
}

// EndTransition creates an event requesting the running transition to
// finish immediately.
//
// Returns:
//   - AnimationEvent: the event
func EndTransition() AnimationEvent {
	return AnimationEvent{Kind: EventEndTransition}
}

// SampledEvent is an event observed at a particular playback position.
type SampledEvent struct {
	// Event is the observed event.
	Event AnimationEvent
	// Weight is the blend weight of the branch the event was sampled on.
	// Blend nodes scale weights by their blend factors.
	Weight float32
	// Percentage is how far through the event's active window the sample
	// position fell, in [0, 1].
	Percentage float32
	// Track is the name of the event track the event came from, empty for
	// events injected directly (e.g. user events).
	Track string
}

// NewSampledEvent creates a full-weight sampled event with no track, the
// form used for directly injected events.
//
// Parameters:
//   - ev: the event
//
// Returns:
//   - SampledEvent: the sampled event with weight and percentage 1
func NewSampledEvent(ev AnimationEvent) SampledEvent {
	return SampledEvent{Event: ev, Weight: 1, Percentage: 1}
}

// EventQueue is an ordered sequence of sampled events.
type EventQueue struct {
	// Events holds the queued events in order.
	Events []SampledEvent
}

// Concat appends another queue after this one.
//
// Parameters:
//   - o: the queue to append
//
// Returns:
//   - EventQueue: the combined queue
func (q EventQueue) Concat(o EventQueue) EventQueue {
	if len(o.Events) == 0 {
		return q
	}
	out := make([]SampledEvent, 0, len(q.Events)+len(o.Events))
	out = append(out, q.Events...)
	out = append(out, o.Events...)
	return EventQueue{Events: out}
}

// ScaledWeights returns a copy of the queue with every event's weight
// multiplied by the given factor. Blend nodes use this to attenuate
// events from lower-weighted branches.
//
// Parameters:
//   - f: the weight factor
//
// Returns:
//   - EventQueue: the scaled queue
func (q EventQueue) ScaledWeights(f float32) EventQueue {
	if len(q.Events) == 0 {
		return q
	}
	out := make([]SampledEvent, len(q.Events))
	copy(out, q.Events)
	for i := range out {
		out[i].Weight *= f
	}
	return EventQueue{Events: out}
}
