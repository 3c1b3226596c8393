package events

// TrackItem is one event occurrence on a track, active over the half-open
// window [StartTime, EndTime).
type TrackItem struct {
	// Event is the event fired while the window is active.
	Event AnimationEvent
	// StartTime is the window start in animation seconds.
	StartTime float32
	// EndTime is the window end in animation seconds.
	EndTime float32
}

// timeAtPercentage maps a fraction through the window to an absolute
// timestamp.
func (ti TrackItem) timeAtPercentage(percent float32) float32 {
	return ti.StartTime + percent*(ti.EndTime-ti.StartTime)
}

// EventTrack is a named timeline of discrete event windows attached to an
// animation, sampled by timestamp.
type EventTrack struct {
	// Name identifies the track.
	Name string
	// Items holds the event windows. Windows may overlap.
	Items []TrackItem
}

// Sample returns every event whose window contains the given time,
// stamped with this track's name and the percentage through the window.
//
// Parameters:
//   - time: the animation timestamp to sample at
//
// Returns:
//   - []SampledEvent: the active events, nil if none
func (t EventTrack) Sample(time float32) []SampledEvent {
	var out []SampledEvent
	for _, item := range t.Items {
		if item.StartTime <= time && time < item.EndTime {
			out = append(out, SampledEvent{
				Event:      item.Event,
				Weight:     1,
				Percentage: (time - item.StartTime) / (item.EndTime - item.StartTime),
				Track:      t.Name,
			})
		}
	}
	return out
}

// SeekEvent finds the earliest occurrence of an event on this track and
// converts a fraction through its window to an absolute timestamp. Used
// to resolve percent-of-event time updates. An empty eventID matches the
// track's earliest window regardless of the event payload, so tracks
// carrying non-string events can still drive phase sync.
//
// Parameters:
//   - eventID: the string event identifier to look for, or "" for any
//   - percent: the fraction through the event window, in [0, 1]
//
// Returns:
//   - float32: the absolute timestamp
//   - bool: false if the track has no such event
func (t EventTrack) SeekEvent(eventID string, percent float32) (float32, bool) {
	found := false
	var best TrackItem
	for _, item := range t.Items {
		if eventID != "" && (item.Event.Kind != EventStringID || item.Event.ID != eventID) {
			continue
		}
		if !found || item.StartTime < best.StartTime {
			best = item
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best.timeAtPercentage(percent), true
}
