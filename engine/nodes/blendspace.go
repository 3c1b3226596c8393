package nodes

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// BlendSpace2DNode blends an arbitrary set of pose streams positioned in
// a 2D parameter space. The points are Delaunay-triangulated once; each
// frame the sample position picks a triangle (projecting onto the hull
// when outside) and the three corner poses are combined by barycentric
// weight using linearized averaging.
type BlendSpace2DNode struct {
	graph.BaseNode
	// Points places each pose input in the parameter space; input pin
	// "pose i" corresponds to Points[i].
	Points []common.Vec2 `yaml:"points"`
	// Position is the sample position used when the position pin is
	// unwired.
	Position common.Vec2 `yaml:"position,omitempty"`

	triOnce sync.Once
	tri     common.Triangulation
}

var _ graph.NodeLike = &BlendSpace2DNode{}

// NewBlendSpace2DNode creates a blend space over the given points.
//
// Parameters:
//   - points: the pose positions in parameter space
//
// Returns:
//   - *BlendSpace2DNode: the node
func NewBlendSpace2DNode(points []common.Vec2) *BlendSpace2DNode {
	return &BlendSpace2DNode{Points: points}
}

func (n *BlendSpace2DNode) triangulation() common.Triangulation {
	n.triOnce.Do(func() {
		n.tri = common.NewTriangulation(n.Points)
	})
	return n.tri
}

func posePin(i int) graph.PinID {
	return graph.PinID(fmt.Sprintf("pose %d", i))
}

func timePin(i int) graph.PinID {
	return graph.PinID(fmt.Sprintf("time %d", i))
}

// weights resolves the active corners and their barycentric weights for
// the current sample position.
func (n *BlendSpace2DNode) weights(c *graph.PassContext) ([3]common.VertexWeight, error) {
	pos := n.Position
	if v, ok, err := optionalData(c, PinPosition); err != nil {
		return [3]common.VertexWeight{}, err
	} else if ok {
		pos, err = v.AsVec2()
		if err != nil {
			return [3]common.VertexWeight{}, err
		}
	}

	if w, ok := n.triangulation().FindLinearCombination(pos); ok {
		return w, nil
	}
	// Degenerate spaces (fewer than three points, collinear points) fall
	// back to the nearest point at full weight.
	best, bestDist := 0, float32(0)
	for i, p := range n.Points {
		d := p.Distance(pos)
		if i == 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if len(n.Points) == 0 {
		return [3]common.VertexWeight{}, graph.NewError(graph.ErrOutputMissing, "blend space has no points")
	}
	return [3]common.VertexWeight{{Vertex: common.Vertex{Val: n.Points[best], Index: best}, Weight: 1}}, nil
}

// Duration reports the longest duration among the active corners.
func (n *BlendSpace2DNode) Duration(c *graph.PassContext) error {
	w, err := n.weights(c)
	if err != nil {
		return err
	}
	out := graph.FiniteDuration(0)
	for _, vw := range w {
		if vw.Weight == 0 {
			continue
		}
		d, err := c.DurationBack(timePin(vw.Vertex.Index))
		if err != nil {
			return err
		}
		if d.Infinite {
			out = graph.InfiniteDuration()
		} else if !out.Infinite && d.Seconds > out.Seconds {
			out = d
		}
	}
	c.SetDurationFwd(out)
	return nil
}

func (n *BlendSpace2DNode) Update(c *graph.PassContext) error {
	tu, err := c.TimeUpdateFwd()
	if err != nil {
		return err
	}
	t := tu.Apply(c.PrevTime())
	c.SetTime(t)

	w, err := n.weights(c)
	if err != nil {
		return err
	}

	// Corner timelines stay phase-locked to the blend space's own clock.
	sync := graph.AbsoluteUpdate(t)
	var out graph.DataValue
	first := true
	for _, vw := range w {
		if vw.Weight == 0 {
			continue
		}
		if err := c.SetTimeUpdateBack(timePin(vw.Vertex.Index), sync); err != nil {
			return err
		}
		v, err := c.DataBack(posePin(vw.Vertex.Index))
		if err != nil {
			return err
		}
		p, err := v.AsPose()
		if err != nil {
			return err
		}
		scaled := p.ScalarMult(vw.Weight)
		if first {
			out = graph.PoseValue(scaled)
			first = false
			continue
		}
		acc, err := out.AsPose()
		if err != nil {
			return err
		}
		out = graph.PoseValue(acc.LinearAdd(scaled))
	}
	if first {
		return graph.NewError(graph.ErrOutputMissing, "blend space has no active corners")
	}
	acc, err := out.AsPose()
	if err != nil {
		return err
	}
	final := acc.NormalizeQuat()
	final.Timestamp = t
	c.SetDataFwd(PinPose, graph.PoseValue(final))
	return nil
}

func (n *BlendSpace2DNode) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	m := graph.NewPinMap[graph.DataSpec]()
	m.Insert(PinPosition, graph.SpecVec2)
	for i := range n.Points {
		m.Insert(posePin(i), graph.SpecPose)
	}
	return m
}

func (n *BlendSpace2DNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinPose, Value: graph.SpecPose},
	)
}

func (n *BlendSpace2DNode) TimeInputSpec(graph.SpecContext) *graph.PinMap[struct{}] {
	m := graph.NewPinMap[struct{}]()
	for i := range n.Points {
		m.Insert(timePin(i), struct{}{})
	}
	return m
}

func (n *BlendSpace2DNode) HasTimeOutput(graph.SpecContext) bool {
	return true
}

func (n *BlendSpace2DNode) DisplayName() string {
	return "BlendSpace2D"
}
