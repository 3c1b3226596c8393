package nodes

import (
	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// PaddingNode extends a finite pose stream with a fixed tail during
// which the operand's final frame cross-fades toward its first frame,
// so a following repeat or chain picks up without a pop.
type PaddingNode struct {
	graph.BaseNode
	// InterpolationPeriod is the tail length in seconds appended after
	// the operand ends; over the tail the pose fades from the operand's
	// last frame to its first.
	InterpolationPeriod float32 `yaml:"interpolation_period,omitempty"`
}

var _ graph.NodeLike = &PaddingNode{}

// NewPaddingNode creates a padding node.
//
// Parameters:
//   - interpolationPeriod: the tail length in seconds
//
// Returns:
//   - *PaddingNode: the node
func NewPaddingNode(interpolationPeriod float32) *PaddingNode {
	return &PaddingNode{InterpolationPeriod: interpolationPeriod}
}

func (n *PaddingNode) Duration(c *graph.PassContext) error {
	d, err := c.DurationBack(PinTime)
	if err != nil {
		return err
	}
	if d.Infinite {
		c.SetDurationFwd(d)
		return nil
	}
	c.SetDurationFwd(graph.FiniteDuration(d.Seconds + n.InterpolationPeriod))
	return nil
}

func (n *PaddingNode) Update(c *graph.PassContext) error {
	tu, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	t := tu.Apply(c.PrevTime())
	c.SetTime(t)

	d, err := c.DurationBack(PinTime)
	if err != nil {
		return err
	}

	fwd := tu
	if !d.Infinite {
		// Inside the tail, pin the operand to its final frame.
		fwd = graph.AbsoluteUpdate(common.Clamp(t, 0, d.Seconds))
	}
	if err := c.SetTimeUpdateBack(PinTime, fwd); err != nil {
		return err
	}
	v, err := c.DataBack(PinPose)
	if err != nil {
		return err
	}
	p, err := v.AsPose()
	if err != nil {
		return err
	}

	// Inside the tail, speculatively sample the operand at its first
	// frame and fade toward it. The scratch bank keeps the extra sample
	// out of this frame's real results.
	if !d.Infinite && n.InterpolationPeriod > 0 && t > d.Seconds {
		tmp := c.WithTempCache(true)
		if err := tmp.SetTimeUpdateBack(PinTime, graph.AbsoluteUpdate(0)); err != nil {
			return err
		}
		sv, err := tmp.DataBack(PinPose)
		if err != nil {
			return err
		}
		start, err := sv.AsPose()
		if err != nil {
			return err
		}
		c.ClearScratch()
		alpha := common.Clamp((t-d.Seconds)/n.InterpolationPeriod, 0, 1)
		p = p.InterpolateLinear(start, alpha)
	}

	p.Timestamp = t
	c.SetDataFwd(PinPose, graph.PoseValue(p))
	return nil
}

func (n *PaddingNode) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
	)
}

func (n *PaddingNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
	)
}

func (n *PaddingNode) TimeInputSpec(graph.SpecContext) *graph.PinMap[struct{}] {
	return graph.PinMapFrom(
		graph.PinMapEntry[struct{}]{Key: PinTime},
	)
}

func (n *PaddingNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *PaddingNode) DisplayName() string {
	return "Padding"
}
