package nodes

import (
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// ClipNode samples an animation clip asset at the current playback
// position. It is the leaf most time updates terminate in: it owns event
// track data, so percent-of-event seeks resolve to absolute times here.
type ClipNode struct {
	graph.BaseNode
	// ClipID references the clip asset.
	ClipID string `yaml:"clip_id"`
	// OverrideDuration replaces the clip's own duration when positive.
	OverrideDuration float32 `yaml:"override_duration,omitempty"`
}

var _ graph.NodeLike = &ClipNode{}

// NewClipNode creates a clip sampler.
//
// Parameters:
//   - clipID: the clip asset id
//
// Returns:
//   - *ClipNode: the node
func NewClipNode(clipID string) *ClipNode {
	return &ClipNode{ClipID: clipID}
}

func (n *ClipNode) Duration(c *graph.PassContext) error {
	cl, ok := c.Resources().ClipByID(n.ClipID)
	if !ok {
		return graph.NewError(graph.ErrGraphAssetMissing, "clip %q", n.ClipID)
	}
	d := cl.Duration
	if n.OverrideDuration > 0 {
		d = n.OverrideDuration
	}
	c.SetDurationFwd(graph.FiniteDuration(d))
	return nil
}

func (n *ClipNode) Update(c *graph.PassContext) error {
	cl, ok := c.Resources().ClipByID(n.ClipID)
	if !ok {
		return graph.NewError(graph.ErrGraphAssetMissing, "clip %q", n.ClipID)
	}

	tu, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	if tu.Kind == graph.TimeUpdatePercentOfEvent {
		if at, ok := cl.SeekEvent(tu.Track, tu.Event, tu.Percent); ok {
			tu = graph.AbsoluteUpdate(at)
		}
	}
	t := tu.Apply(c.PrevTime())
	c.SetTime(t)

	c.SetDataFwd(PinPose, graph.PoseValue(cl.Sample(t)))
	c.SetDataFwd(PinEvents, graph.EventQueueValue(cl.SampleEvents(t)))
	return nil
}

func (n *ClipNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
		graph.PinMapEntry[graph.DataSpec]{Key: PinEvents, Value: graph.SpecEventQueue},
	)
}

func (n *ClipNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *ClipNode) DisplayName() string {
	return "Clip"
}
