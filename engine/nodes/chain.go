package nodes

import (
	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// ChainNode plays two pose streams back to back, bridging the seam with
// a linear interpolation over a configurable gap.
type ChainNode struct {
	graph.BaseNode
	// InterpolationPeriod is the seam gap in seconds during which the
	// first operand's final pose cross-fades into the second's first.
	InterpolationPeriod float32 `yaml:"interpolation_period,omitempty"`
}

var _ graph.NodeLike = &ChainNode{}

// NewChainNode creates a chain node.
//
// Parameters:
//   - interpolationPeriod: the seam gap in seconds
//
// Returns:
//   - *ChainNode: the node
func NewChainNode(interpolationPeriod float32) *ChainNode {
	return &ChainNode{InterpolationPeriod: interpolationPeriod}
}

// Duration reports the sum of both operands plus the seam gap. An
// infinite first operand means the second never plays.
func (n *ChainNode) Duration(c *graph.PassContext) error {
	da, err := c.DurationBack(PinTimeA)
	if err != nil {
		return err
	}
	db, err := c.DurationBack(PinTimeB)
	if err != nil {
		return err
	}
	if da.Infinite || db.Infinite {
		c.SetDurationFwd(graph.InfiniteDuration())
		return nil
	}
	c.SetDurationFwd(graph.FiniteDuration(da.Seconds + n.InterpolationPeriod + db.Seconds))
	return nil
}

func (n *ChainNode) Update(c *graph.PassContext) error {
	tu, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	t := tu.Apply(c.PrevTime())
	c.SetTime(t)

	da, err := c.DurationBack(PinTimeA)
	if err != nil {
		return err
	}

	// An unbounded first operand owns the whole timeline.
	if da.Infinite {
		if err := c.SetTimeUpdateBack(PinTimeA, tu); err != nil {
			return err
		}
		v, err := c.DataBack(PinPoseA)
		if err != nil {
			return err
		}
		c.SetDataFwd(PinPose, v)
		return nil
	}

	seamEnd := da.Seconds + n.InterpolationPeriod
	switch {
	case t < da.Seconds:
		if err := c.SetTimeUpdateBack(PinTimeA, graph.AbsoluteUpdate(t)); err != nil {
			return err
		}
		v, err := c.DataBack(PinPoseA)
		if err != nil {
			return err
		}
		c.SetDataFwd(PinPose, v)
		return nil

	case t < seamEnd:
		if err := c.SetTimeUpdateBack(PinTimeA, graph.AbsoluteUpdate(da.Seconds)); err != nil {
			return err
		}
		va, err := c.DataBack(PinPoseA)
		if err != nil {
			return err
		}
		if err := c.SetTimeUpdateBack(PinTimeB, graph.AbsoluteUpdate(0)); err != nil {
			return err
		}
		vb, err := c.DataBack(PinPoseB)
		if err != nil {
			return err
		}
		pa, err := va.AsPose()
		if err != nil {
			return err
		}
		pb, err := vb.AsPose()
		if err != nil {
			return err
		}
		alpha := common.Clamp((t-da.Seconds)/n.InterpolationPeriod, 0, 1)
		out := pa.InterpolateLinear(pb, alpha)
		out.Timestamp = t
		c.SetDataFwd(PinPose, graph.PoseValue(out))
		return nil

	default:
		if err := c.SetTimeUpdateBack(PinTimeB, graph.AbsoluteUpdate(t-seamEnd)); err != nil {
			return err
		}
		v, err := c.DataBack(PinPoseB)
		if err != nil {
			return err
		}
		p, err := v.AsPose()
		if err != nil {
			return err
		}
		p.Timestamp = t
		c.SetDataFwd(PinPose, graph.PoseValue(p))
		return nil
	}
}

func (n *ChainNode) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPoseA, Value: graph.SpecPose},
		graph.PinMapEntry[graph.DataSpec]{Key: PinPoseB, Value: graph.SpecPose},
	)
}

func (n *ChainNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
	)
}

func (n *ChainNode) TimeInputSpec(graph.SpecContext) *graph.PinMap[struct{}] {
	return graph.PinMapFrom(
		graph.PinMapEntry[struct{}]{Key: PinTimeA},
		graph.PinMapEntry[struct{}]{Key: PinTimeB},
	)
}

func (n *ChainNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *ChainNode) DisplayName() string {
	return "Chain"
}
