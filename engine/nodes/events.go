package nodes

import (
	"sort"

	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// EventMarkupNode overlays event tracks onto a time-driven stream: it
// samples its own tracks at the current playback position and emits the
// active events, merged with whatever events flow in. Because it owns
// track data, percent-of-event seeks targeting its tracks resolve to
// absolute times here.
type EventMarkupNode struct {
	graph.BaseNode
	// Tracks holds the event tracks, keyed by track name.
	Tracks map[string]events.EventTrack `yaml:"tracks"`
}

var _ graph.NodeLike = &EventMarkupNode{}

// NewEventMarkupNode creates an event markup node.
//
// Parameters:
//   - tracks: the event tracks by name
//
// Returns:
//   - *EventMarkupNode: the node
func NewEventMarkupNode(tracks map[string]events.EventTrack) *EventMarkupNode {
	return &EventMarkupNode{Tracks: tracks}
}

// Duration passes the operand's duration through unchanged.
func (n *EventMarkupNode) Duration(c *graph.PassContext) error {
	d, err := c.DurationBack(PinTime)
	if err != nil {
		return err
	}
	c.SetDurationFwd(d)
	return nil
}

func (n *EventMarkupNode) Update(c *graph.PassContext) error {
	tu, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	if tu.Kind == graph.TimeUpdatePercentOfEvent {
		if track, ok := n.Tracks[tu.Track]; ok {
			if at, found := track.SeekEvent(tu.Event, tu.Percent); found {
				tu = graph.AbsoluteUpdate(at)
			}
		}
	}
	t := tu.Apply(c.PrevTime())
	c.SetTime(t)

	if err := c.SetTimeUpdateBack(PinTime, tu); err != nil {
		return err
	}

	var q events.EventQueue
	if v, ok, err := optionalData(c, PinEvents); err != nil {
		return err
	} else if ok {
		q, err = v.AsEventQueue()
		if err != nil {
			return err
		}
	}

	// Track order is sorted so the emitted queue is deterministic.
	names := make([]string, 0, len(n.Tracks))
	for name := range n.Tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		q = q.Concat(events.EventQueue{Events: n.Tracks[name].Sample(t)})
	}

	c.SetDataFwd(PinEvents, graph.EventQueueValue(q))
	return nil
}

func (n *EventMarkupNode) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinEvents, Value: graph.SpecEventQueue},
	)
}

func (n *EventMarkupNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinEvents, Value: graph.SpecEventQueue},
	)
}

func (n *EventMarkupNode) TimeInputSpec(graph.SpecContext) *graph.PinMap[struct{}] {
	return graph.PinMapFrom(
		graph.PinMapEntry[struct{}]{Key: PinTime},
	)
}

func (n *EventMarkupNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *EventMarkupNode) DisplayName() string {
	return "EventMarkup"
}

// SendEventNode appends a fixed event to the stream whenever its
// condition holds. Transition graphs use it to announce their end to the
// driving state machine.
type SendEventNode struct {
	graph.BaseNode
	// Event is the event to inject.
	Event events.AnimationEvent `yaml:"event"`
}

var _ graph.NodeLike = &SendEventNode{}

// NewSendEventNode creates a send event node.
//
// Parameters:
//   - ev: the event to inject
//
// Returns:
//   - *SendEventNode: the node
func NewSendEventNode(ev events.AnimationEvent) *SendEventNode {
	return &SendEventNode{Event: ev}
}

func (n *SendEventNode) Update(c *graph.PassContext) error {
	var q events.EventQueue
	if v, ok, err := optionalData(c, PinEvents); err != nil {
		return err
	} else if ok {
		q, err = v.AsEventQueue()
		if err != nil {
			return err
		}
	}

	send := true
	if v, ok, err := optionalData(c, PinCondition); err != nil {
		return err
	} else if ok {
		send, err = v.AsBool()
		if err != nil {
			return err
		}
	}
	if send {
		q = q.Concat(events.EventQueue{Events: []events.SampledEvent{
			events.NewSampledEvent(n.Event),
		}})
	}
	c.SetDataFwd(PinEvents, graph.EventQueueValue(q))
	return nil
}

func (n *SendEventNode) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinEvents, Value: graph.SpecEventQueue},
		graph.PinMapEntry[graph.DataSpec]{Key: PinCondition, Value: graph.SpecBool},
	)
}

func (n *SendEventNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinEvents, Value: graph.SpecEventQueue},
	)
}

func (n *SendEventNode) DisplayName() string {
	return "SendEvent"
}
