package nodes

import (
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// BlendMode selects how the blend node combines its operands.
type BlendMode string

const (
	// BlendLinearInterpolate cross-fades between the operands by the
	// factor.
	BlendLinearInterpolate BlendMode = "linear_interpolate"
	// BlendAdditive layers the second operand onto the first as an
	// additive delta scaled by the factor.
	BlendAdditive BlendMode = "additive"
	// BlendDifference outputs the additive delta from the first operand
	// to the second; the factor is ignored.
	BlendDifference BlendMode = "difference"
)

// SyncMode selects how the second operand's timeline follows the first.
type SyncMode string

const (
	// SyncAbsolute drives the second operand to the blend's own playback
	// position.
	SyncAbsolute SyncMode = "absolute"
	// SyncNone forwards the incoming time update unchanged, letting both
	// operands run their own clocks.
	SyncNone SyncMode = "none"
	// SyncEventTrack phase-aligns the second operand to the first via a
	// shared event track, so e.g. footsteps land together across clips of
	// different lengths.
	SyncEventTrack SyncMode = "event_track"
)

// BlendNode combines two pose streams.
type BlendNode struct {
	graph.BaseNode
	// Mode selects the combine operation.
	Mode BlendMode `yaml:"mode"`
	// Sync selects how operand timelines relate.
	Sync SyncMode `yaml:"sync,omitempty"`
	// SyncTrack names the event track for SyncEventTrack.
	SyncTrack string `yaml:"sync_track,omitempty"`
	// Factor is the blend factor used when the factor pin is unwired.
	Factor float32 `yaml:"factor,omitempty"`
}

var _ graph.NodeLike = &BlendNode{}

// NewBlendNode creates a blend node.
//
// Parameters:
//   - mode: the combine operation
//
// Returns:
//   - *BlendNode: the node, defaulting to absolute sync
func NewBlendNode(mode BlendMode) *BlendNode {
	return &BlendNode{Mode: mode, Sync: SyncAbsolute}
}

// Duration reports the longer of the two operand durations: the blend
// keeps producing for as long as either operand does.
func (n *BlendNode) Duration(c *graph.PassContext) error {
	da, err := c.DurationBack(PinTimeA)
	if err != nil {
		return err
	}
	db, err := c.DurationBack(PinTimeB)
	if err != nil {
		return err
	}
	switch {
	case da.Infinite || db.Infinite:
		c.SetDurationFwd(graph.InfiniteDuration())
	case da.Seconds >= db.Seconds:
		c.SetDurationFwd(da)
	default:
		c.SetDurationFwd(db)
	}
	return nil
}

func (n *BlendNode) Update(c *graph.PassContext) error {
	tu, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	t := tu.Apply(c.PrevTime())
	c.SetTime(t)

	if err := c.SetTimeUpdateBack(PinTimeA, tu); err != nil {
		return err
	}
	va, err := c.DataBack(PinPoseA)
	if err != nil {
		return err
	}
	pa, err := va.AsPose()
	if err != nil {
		return err
	}

	sync, err := n.syncUpdate(c, tu, t)
	if err != nil {
		return err
	}
	if err := c.SetTimeUpdateBack(PinTimeB, sync); err != nil {
		return err
	}
	vb, err := c.DataBack(PinPoseB)
	if err != nil {
		return err
	}
	pb, err := vb.AsPose()
	if err != nil {
		return err
	}

	factor := n.Factor
	if fv, ok, err := optionalData(c, PinFactor); err != nil {
		return err
	} else if ok {
		factor, err = fv.AsF32()
		if err != nil {
			return err
		}
	}

	out := pa
	switch n.Mode {
	case BlendAdditive:
		out = pa.AdditiveBlend(pb, factor)
	case BlendDifference:
		out = pa.Difference(pb)
	default:
		out = pa.InterpolateLinear(pb, factor)
	}
	c.SetDataFwd(PinPose, graph.PoseValue(out))
	return nil
}

// syncUpdate derives the time update sent to the second operand.
func (n *BlendNode) syncUpdate(c *graph.PassContext, tu graph.TimeUpdate, t float32) (graph.TimeUpdate, error) {
	switch n.Sync {
	case SyncNone:
		return tu, nil
	case SyncEventTrack:
		// The first operand's sampled events carry how far through the
		// named track's active window it currently is; seek the second
		// operand to the same phase. Any event on the track qualifies,
		// whatever its payload kind. When the track has no active window
		// at the current position, fall back to absolute sync.
		ev, ok, err := optionalData(c, PinEventsA)
		if err != nil {
			return graph.TimeUpdate{}, err
		}
		if ok {
			q, err := ev.AsEventQueue()
			if err != nil {
				return graph.TimeUpdate{}, err
			}
			for _, sev := range q.Events {
				if sev.Track == n.SyncTrack {
					return graph.PercentOfEventUpdate(sev.Percentage, sev.Event.ID, n.SyncTrack), nil
				}
			}
		}
		return graph.AbsoluteUpdate(t), nil
	default:
		return graph.AbsoluteUpdate(t), nil
	}
}

func (n *BlendNode) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPoseA, Value: graph.SpecPose},
		graph.PinMapEntry[graph.DataSpec]{Key: PinPoseB, Value: graph.SpecPose},
		graph.PinMapEntry[graph.DataSpec]{Key: PinFactor, Value: graph.SpecF32},
		graph.PinMapEntry[graph.DataSpec]{Key: PinEventsA, Value: graph.SpecEventQueue},
	)
}

func (n *BlendNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
	)
}

func (n *BlendNode) TimeInputSpec(graph.SpecContext) *graph.PinMap[struct{}] {
	return graph.PinMapFrom(
		graph.PinMapEntry[struct{}]{Key: PinTimeA},
		graph.PinMapEntry[struct{}]{Key: PinTimeB},
	)
}

func (n *BlendNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *BlendNode) DisplayName() string {
	return "Blend"
}
