package graph

// TimeUpdateKind discriminates the TimeUpdate union.
type TimeUpdateKind uint8

const (
	// TimeUpdateDelta advances the playback position by a time delta.
	TimeUpdateDelta TimeUpdateKind = iota
	// TimeUpdateAbsolute jumps the playback position to a timestamp.
	TimeUpdateAbsolute
	// TimeUpdatePercentOfEvent seeks to a point defined relative to a
	// named event occurrence on a track. Resolved to an absolute time by
	// nodes that own event-track data; unresolved updates leave the
	// playback position unchanged.
	TimeUpdatePercentOfEvent
)

// TimeUpdate describes how a playback position should advance. Time
// updates flow backward along edges, from consumer to producer.
type TimeUpdate struct {
	Kind TimeUpdateKind
	// Delta is the time step for TimeUpdateDelta.
	Delta float32
	// Time is the target timestamp for TimeUpdateAbsolute.
	Time float32
	// Percent, Event and Track describe a TimeUpdatePercentOfEvent seek.
	Percent float32
	Event   string
	Track   string
}

// DeltaUpdate advances playback by dt seconds.
//
// Parameters:
//   - dt: the time step
//
// Returns:
//   - TimeUpdate: the update
func DeltaUpdate(dt float32) TimeUpdate {
	return TimeUpdate{Kind: TimeUpdateDelta, Delta: dt}
}

// AbsoluteUpdate jumps playback to the given timestamp.
//
// Parameters:
//   - t: the target timestamp
//
// Returns:
//   - TimeUpdate: the update
func AbsoluteUpdate(t float32) TimeUpdate {
	return TimeUpdate{Kind: TimeUpdateAbsolute, Time: t}
}

// PercentOfEventUpdate seeks to a fraction through a named event window.
//
// Parameters:
//   - percent: the fraction through the event window
//   - event: the string event identifier
//   - track: the event track name
//
// Returns:
//   - TimeUpdate: the update
func PercentOfEventUpdate(percent float32, event, track string) TimeUpdate {
	return TimeUpdate{Kind: TimeUpdatePercentOfEvent, Percent: percent, Event: event, Track: track}
}

// Apply resolves the update against the previous playback position.
// Percent-of-event updates cannot be resolved without track data and
// return the previous position unchanged; nodes owning tracks convert
// them to absolute updates before they reach here.
//
// Parameters:
//   - prev: the playback position from the previous frame
//
// Returns:
//   - float32: the new playback position
func (tu TimeUpdate) Apply(prev float32) float32 {
	switch tu.Kind {
	case TimeUpdateDelta:
		return prev + tu.Delta
	case TimeUpdateAbsolute:
		return tu.Time
	default:
		return prev
	}
}

// Combine merges a later update into this one, preserving the meaning of
// applying both in sequence: an absolute jump discards earlier updates,
// deltas accumulate onto whatever came before.
//
// Parameters:
//   - o: the later update
//
// Returns:
//   - TimeUpdate: the combined update
func (tu TimeUpdate) Combine(o TimeUpdate) TimeUpdate {
	switch o.Kind {
	case TimeUpdateDelta:
		switch tu.Kind {
		case TimeUpdateDelta:
			return DeltaUpdate(tu.Delta + o.Delta)
		case TimeUpdateAbsolute:
			return AbsoluteUpdate(tu.Time + o.Delta)
		default:
			return o
		}
	default:
		return o
	}
}

// Duration is the reported length of an animation source. Unbounded
// sources (loops, procedural poses) report Infinite; absence of a finite
// duration is a first-class signal, not an error.
type Duration struct {
	// Seconds is the finite length. Meaningless when Infinite is set.
	Seconds float32
	// Infinite marks an unbounded source.
	Infinite bool
}

// FiniteDuration wraps a finite length in seconds.
//
// Parameters:
//   - s: the length in seconds
//
// Returns:
//   - Duration: the finite duration
func FiniteDuration(s float32) Duration {
	return Duration{Seconds: s}
}

// InfiniteDuration marks an unbounded source.
//
// Returns:
//   - Duration: the infinite duration
func InfiniteDuration() Duration {
	return Duration{Infinite: true}
}
