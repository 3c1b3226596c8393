package nodes

import (
	"math"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// The scalar utility nodes below route parameters through the graph:
// constants, arithmetic, clamping, comparison, selection and vector
// assembly. None of them participate in the time protocol.

// ConstF32Node emits a constant float.
type ConstF32Node struct {
	graph.BaseNode
	Value float32 `yaml:"value"`
}

var _ graph.NodeLike = &ConstF32Node{}

// NewConstF32Node creates a float constant.
func NewConstF32Node(v float32) *ConstF32Node {
	return &ConstF32Node{Value: v}
}

func (n *ConstF32Node) Update(c *graph.PassContext) error {
	c.SetDataFwd(PinOut, graph.F32Value(n.Value))
	return nil
}

func (n *ConstF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinOut, Value: graph.SpecF32})
}

func (n *ConstF32Node) DisplayName() string {
	return "ConstF32"
}

// ConstBoolNode emits a constant bool.
type ConstBoolNode struct {
	graph.BaseNode
	Value bool `yaml:"value"`
}

var _ graph.NodeLike = &ConstBoolNode{}

// NewConstBoolNode creates a bool constant.
func NewConstBoolNode(v bool) *ConstBoolNode {
	return &ConstBoolNode{Value: v}
}

func (n *ConstBoolNode) Update(c *graph.PassContext) error {
	c.SetDataFwd(PinOut, graph.BoolValue(n.Value))
	return nil
}

func (n *ConstBoolNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinOut, Value: graph.SpecBool})
}

func (n *ConstBoolNode) DisplayName() string {
	return "ConstBool"
}

// ConstVec3Node emits a constant vector.
type ConstVec3Node struct {
	graph.BaseNode
	Value common.Vec3 `yaml:"value"`
}

var _ graph.NodeLike = &ConstVec3Node{}

// NewConstVec3Node creates a vector constant.
func NewConstVec3Node(v common.Vec3) *ConstVec3Node {
	return &ConstVec3Node{Value: v}
}

func (n *ConstVec3Node) Update(c *graph.PassContext) error {
	c.SetDataFwd(PinOut, graph.Vec3Value(n.Value))
	return nil
}

func (n *ConstVec3Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinOut, Value: graph.SpecVec3})
}

func (n *ConstVec3Node) DisplayName() string {
	return "ConstVec3"
}

// binaryF32 pulls both operands of a binary float node.
func binaryF32(c *graph.PassContext) (float32, float32, error) {
	va, err := c.DataBack(PinA)
	if err != nil {
		return 0, 0, err
	}
	a, err := va.AsF32()
	if err != nil {
		return 0, 0, err
	}
	vb, err := c.DataBack(PinB)
	if err != nil {
		return 0, 0, err
	}
	b, err := vb.AsF32()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// binaryF32Specs is the shared pin layout of binary float nodes.
func binaryF32Specs() *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinA, Value: graph.SpecF32},
		graph.PinMapEntry[graph.DataSpec]{Key: PinB, Value: graph.SpecF32},
	)
}

func f32OutSpec() *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinOut, Value: graph.SpecF32})
}

// AddF32Node emits a + b.
type AddF32Node struct{ graph.BaseNode }

var _ graph.NodeLike = &AddF32Node{}

func (n *AddF32Node) Update(c *graph.PassContext) error {
	a, b, err := binaryF32(c)
	if err != nil {
		return err
	}
	c.SetDataFwd(PinOut, graph.F32Value(a+b))
	return nil
}

func (n *AddF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return binaryF32Specs()
}

func (n *AddF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return f32OutSpec()
}

func (n *AddF32Node) DisplayName() string {
	return "AddF32"
}

// SubF32Node emits a - b.
type SubF32Node struct{ graph.BaseNode }

var _ graph.NodeLike = &SubF32Node{}

func (n *SubF32Node) Update(c *graph.PassContext) error {
	a, b, err := binaryF32(c)
	if err != nil {
		return err
	}
	c.SetDataFwd(PinOut, graph.F32Value(a-b))
	return nil
}

func (n *SubF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return binaryF32Specs()
}

func (n *SubF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return f32OutSpec()
}

func (n *SubF32Node) DisplayName() string {
	return "SubF32"
}

// MulF32Node emits a * b.
type MulF32Node struct{ graph.BaseNode }

var _ graph.NodeLike = &MulF32Node{}

func (n *MulF32Node) Update(c *graph.PassContext) error {
	a, b, err := binaryF32(c)
	if err != nil {
		return err
	}
	c.SetDataFwd(PinOut, graph.F32Value(a*b))
	return nil
}

func (n *MulF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return binaryF32Specs()
}

func (n *MulF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return f32OutSpec()
}

func (n *MulF32Node) DisplayName() string {
	return "MulF32"
}

// DivF32Node emits a / b. Division by zero yields zero rather than an
// evaluation error; a degenerate parameter should not kill the frame.
type DivF32Node struct{ graph.BaseNode }

var _ graph.NodeLike = &DivF32Node{}

func (n *DivF32Node) Update(c *graph.PassContext) error {
	a, b, err := binaryF32(c)
	if err != nil {
		return err
	}
	var out float32
	if b != 0 {
		out = a / b
	}
	c.SetDataFwd(PinOut, graph.F32Value(out))
	return nil
}

func (n *DivF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return binaryF32Specs()
}

func (n *DivF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return f32OutSpec()
}

func (n *DivF32Node) DisplayName() string {
	return "DivF32"
}

// ClampF32Node clamps its input into [Min, Max].
type ClampF32Node struct {
	graph.BaseNode
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

var _ graph.NodeLike = &ClampF32Node{}

// NewClampF32Node creates a clamp node.
func NewClampF32Node(min, max float32) *ClampF32Node {
	return &ClampF32Node{Min: min, Max: max}
}

func (n *ClampF32Node) Update(c *graph.PassContext) error {
	v, err := c.DataBack(PinIn)
	if err != nil {
		return err
	}
	f, err := v.AsF32()
	if err != nil {
		return err
	}
	c.SetDataFwd(PinOut, graph.F32Value(common.Clamp(f, n.Min, n.Max)))
	return nil
}

func (n *ClampF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinIn, Value: graph.SpecF32})
}

func (n *ClampF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return f32OutSpec()
}

func (n *ClampF32Node) DisplayName() string {
	return "ClampF32"
}

// AbsF32Node emits the absolute value of its input.
type AbsF32Node struct{ graph.BaseNode }

var _ graph.NodeLike = &AbsF32Node{}

func (n *AbsF32Node) Update(c *graph.PassContext) error {
	v, err := c.DataBack(PinIn)
	if err != nil {
		return err
	}
	f, err := v.AsF32()
	if err != nil {
		return err
	}
	c.SetDataFwd(PinOut, graph.F32Value(float32(math.Abs(float64(f)))))
	return nil
}

func (n *AbsF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinIn, Value: graph.SpecF32})
}

func (n *AbsF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return f32OutSpec()
}

func (n *AbsF32Node) DisplayName() string {
	return "AbsF32"
}

// CompareOp selects the comparison of a CompareF32Node.
type CompareOp string

const (
	CompareEqual        CompareOp = "eq"
	CompareNotEqual     CompareOp = "ne"
	CompareLess         CompareOp = "lt"
	CompareLessEqual    CompareOp = "le"
	CompareGreater      CompareOp = "gt"
	CompareGreaterEqual CompareOp = "ge"
)

// CompareF32Node compares its operands and emits a bool.
type CompareF32Node struct {
	graph.BaseNode
	Op CompareOp `yaml:"op"`
}

var _ graph.NodeLike = &CompareF32Node{}

// NewCompareF32Node creates a comparison node.
func NewCompareF32Node(op CompareOp) *CompareF32Node {
	return &CompareF32Node{Op: op}
}

func (n *CompareF32Node) Update(c *graph.PassContext) error {
	a, b, err := binaryF32(c)
	if err != nil {
		return err
	}
	var out bool
	switch n.Op {
	case CompareEqual:
		out = a == b
	case CompareNotEqual:
		out = a != b
	case CompareLess:
		out = a < b
	case CompareLessEqual:
		out = a <= b
	case CompareGreater:
		out = a > b
	case CompareGreaterEqual:
		out = a >= b
	}
	c.SetDataFwd(PinOut, graph.BoolValue(out))
	return nil
}

func (n *CompareF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return binaryF32Specs()
}

func (n *CompareF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinOut, Value: graph.SpecBool})
}

func (n *CompareF32Node) DisplayName() string {
	return "CompareF32"
}

// SelectF32Node emits one of two floats picked by a bool condition.
type SelectF32Node struct{ graph.BaseNode }

var _ graph.NodeLike = &SelectF32Node{}

func (n *SelectF32Node) Update(c *graph.PassContext) error {
	cv, err := c.DataBack(PinCondition)
	if err != nil {
		return err
	}
	cond, err := cv.AsBool()
	if err != nil {
		return err
	}
	pin := PinIfFalse
	if cond {
		pin = PinIfTrue
	}
	v, err := c.DataBack(pin)
	if err != nil {
		return err
	}
	f, err := v.AsF32()
	if err != nil {
		return err
	}
	c.SetDataFwd(PinOut, graph.F32Value(f))
	return nil
}

func (n *SelectF32Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinCondition, Value: graph.SpecBool},
		graph.PinMapEntry[graph.DataSpec]{Key: PinIfTrue, Value: graph.SpecF32},
		graph.PinMapEntry[graph.DataSpec]{Key: PinIfFalse, Value: graph.SpecF32},
	)
}

func (n *SelectF32Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return f32OutSpec()
}

func (n *SelectF32Node) DisplayName() string {
	return "SelectF32"
}

// BuildVec3Node assembles a vector from three float inputs.
type BuildVec3Node struct{ graph.BaseNode }

var _ graph.NodeLike = &BuildVec3Node{}

func (n *BuildVec3Node) Update(c *graph.PassContext) error {
	var out common.Vec3
	for _, part := range []struct {
		pin graph.PinID
		dst *float32
	}{
		{PinX, &out.X},
		{PinY, &out.Y},
		{PinZ, &out.Z},
	} {
		v, err := c.DataBack(part.pin)
		if err != nil {
			return err
		}
		f, err := v.AsF32()
		if err != nil {
			return err
		}
		*part.dst = f
	}
	c.SetDataFwd(PinOut, graph.Vec3Value(out))
	return nil
}

func (n *BuildVec3Node) DataInputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: PinX, Value: graph.SpecF32},
		graph.PinMapEntry[graph.DataSpec]{Key: PinY, Value: graph.SpecF32},
		graph.PinMapEntry[graph.DataSpec]{Key: PinZ, Value: graph.SpecF32},
	)
}

func (n *BuildVec3Node) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(graph.PinMapEntry[graph.DataSpec]{Key: PinOut, Value: graph.SpecVec3})
}

func (n *BuildVec3Node) DisplayName() string {
	return "BuildVec3"
}
