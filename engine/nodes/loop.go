package nodes

import (
	"math"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// LoopNode repeats a finite pose stream indefinitely, wrapping the
// playback position into the operand's period and optionally smoothing
// the wrap seam by cross-fading into the operand's first frame.
type LoopNode struct {
	graph.BaseNode
	// InterpolationPeriod is the seam window in seconds at the end of
	// each cycle during which the pose cross-fades toward the cycle
	// start.
	InterpolationPeriod float32 `yaml:"interpolation_period,omitempty"`
}

var _ graph.NodeLike = &LoopNode{}

// NewLoopNode creates a loop node.
//
// Parameters:
//   - interpolationPeriod: the seam window in seconds
//
// Returns:
//   - *LoopNode: the node
func NewLoopNode(interpolationPeriod float32) *LoopNode {
	return &LoopNode{InterpolationPeriod: interpolationPeriod}
}

// Duration is always infinite; downstream consumers must not expect the
// loop to end.
func (n *LoopNode) Duration(c *graph.PassContext) error {
	if _, err := c.DurationBack(PinTime); err != nil {
		return err
	}
	c.SetDurationFwd(graph.InfiniteDuration())
	return nil
}

func (n *LoopNode) Update(c *graph.PassContext) error {
	tu, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	prev := c.PrevTime()
	t := tu.Apply(prev)
	c.SetTime(t)

	d, err := c.DurationBack(PinTime)
	if err != nil {
		return err
	}
	// Nothing to wrap into; the operand already runs forever (or is
	// degenerate).
	if d.Infinite || d.Seconds <= 0 {
		if err := c.SetTimeUpdateBack(PinTime, tu); err != nil {
			return err
		}
		v, err := c.DataBack(PinPose)
		if err != nil {
			return err
		}
		c.SetDataFwd(PinPose, v)
		return nil
	}

	period := d.Seconds
	tw := common.RemEuclid(t, period)

	// Deltas that stay inside the current cycle pass through untouched,
	// preserving the operand's own delta integration. A delta that
	// crosses the cycle boundary must become an absolute jump to the
	// wrapped position.
	fwd := tu
	if tu.Kind == graph.TimeUpdateDelta {
		prevW := common.RemEuclid(prev, period)
		if prevW+tu.Delta < 0 || prevW+tu.Delta >= period {
			fwd = graph.AbsoluteUpdate(tw)
		}
	} else {
		fwd = graph.AbsoluteUpdate(tw)
	}
	if err := c.SetTimeUpdateBack(PinTime, fwd); err != nil {
		return err
	}
	v, err := c.DataBack(PinPose)
	if err != nil {
		return err
	}
	out, err := v.AsPose()
	if err != nil {
		return err
	}

	// Near the end of a cycle, speculatively sample the operand at its
	// first frame and fade toward it, hiding the wrap seam. The scratch
	// bank keeps the extra sample out of this frame's real results.
	if n.InterpolationPeriod > 0 && tw > period-n.InterpolationPeriod {
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
		alpha := common.Clamp((tw-(period-n.InterpolationPeriod))/n.InterpolationPeriod, 0, 1)
		out = out.InterpolateLinear(start, alpha)
	}

	// Report the unwrapped timeline position so downstream consumers see
	// monotonic timestamps across cycles.
	cycles := float32(math.Floor(float64(t / period)))
	out.Timestamp = tw + cycles*period
	c.SetDataFwd(PinPose, graph.PoseValue(out))
	return nil
}

func (n *LoopNode) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
	)
}

func (n *LoopNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
	)
}

func (n *LoopNode) TimeInputSpec(graph.SpecContext) *graph.PinMap[struct{}] {
	return graph.PinMapFrom(
		graph.PinMapEntry[struct{}]{Key: PinTime},
	)
}

func (n *LoopNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *LoopNode) DisplayName() string {
	return "Loop"
}
