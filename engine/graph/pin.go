package graph

import "fmt"

// SourcePinKind discriminates where a value comes from.
type SourcePinKind uint8

const (
	// SourceNodeData is a node's named data output pin.
	SourceNodeData SourcePinKind = iota
	// SourceInputData is one of the graph's own input parameters.
	SourceInputData
	// SourceNodeTime is a node's implicit time output.
	SourceNodeTime
	// SourceInputTime is one of the graph's declared input time pins.
	SourceInputTime
)

// SourcePin addresses the producing end of an edge. Comparable, so it can
// key cache maps directly.
type SourcePin struct {
	Kind SourcePinKind
	// Node is set for SourceNodeData and SourceNodeTime.
	Node NodeID
	// Pin is set for SourceNodeData, SourceInputData and SourceInputTime.
	Pin PinID
}

// NodeDataSource addresses a node's named data output.
//
// Parameters:
//   - node: the producing node
//   - pin: the output pin name
//
// Returns:
//   - SourcePin: the source address
func NodeDataSource(node NodeID, pin PinID) SourcePin {
	return SourcePin{Kind: SourceNodeData, Node: node, Pin: pin}
}

// InputDataSource addresses a graph input parameter.
//
// Parameters:
//   - pin: the parameter name
//
// Returns:
//   - SourcePin: the source address
func InputDataSource(pin PinID) SourcePin {
	return SourcePin{Kind: SourceInputData, Pin: pin}
}

// NodeTimeSource addresses a node's implicit time output.
//
// Parameters:
//   - node: the producing node
//
// Returns:
//   - SourcePin: the source address
func NodeTimeSource(node NodeID) SourcePin {
	return SourcePin{Kind: SourceNodeTime, Node: node}
}

// InputTimeSource addresses a graph input time pin.
//
// Parameters:
//   - pin: the input time pin name
//
// Returns:
//   - SourcePin: the source address
func InputTimeSource(pin PinID) SourcePin {
	return SourcePin{Kind: SourceInputTime, Pin: pin}
}

func (p SourcePin) String() string {
	switch p.Kind {
	case SourceNodeData:
		return fmt.Sprintf("%s.%s", p.Node, p.Pin)
	case SourceInputData:
		return fmt.Sprintf("input.%s", p.Pin)
	case SourceNodeTime:
		return fmt.Sprintf("%s.<time>", p.Node)
	default:
		return fmt.Sprintf("input.<time %s>", p.Pin)
	}
}

// TargetPinKind discriminates where a value is consumed.
type TargetPinKind uint8

const (
	// TargetNodeData is a node's named data input pin.
	TargetNodeData TargetPinKind = iota
	// TargetOutputData is one of the graph's declared data outputs.
	TargetOutputData
	// TargetNodeTime is a node's named time input pin.
	TargetNodeTime
	// TargetOutputTime is the graph's single time output.
	TargetOutputTime
)

// TargetPin addresses the consuming end of an edge. Comparable, so it can
// key the inverted edge map directly. Each target has exactly one source;
// a source may fan out to many targets.
type TargetPin struct {
	Kind TargetPinKind
	// Node is set for TargetNodeData and TargetNodeTime.
	Node NodeID
	// Pin is set for all kinds except TargetOutputTime.
	Pin PinID
}

// NodeDataTarget addresses a node's named data input.
//
// Parameters:
//   - node: the consuming node
//   - pin: the input pin name
//
// Returns:
//   - TargetPin: the target address
func NodeDataTarget(node NodeID, pin PinID) TargetPin {
	return TargetPin{Kind: TargetNodeData, Node: node, Pin: pin}
}

// OutputDataTarget addresses a graph data output.
//
// Parameters:
//   - pin: the output name
//
// Returns:
//   - TargetPin: the target address
func OutputDataTarget(pin PinID) TargetPin {
	return TargetPin{Kind: TargetOutputData, Pin: pin}
}

// NodeTimeTarget addresses a node's named time input.
//
// Parameters:
//   - node: the consuming node
//   - pin: the time input pin name
//
// Returns:
//   - TargetPin: the target address
func NodeTimeTarget(node NodeID, pin PinID) TargetPin {
	return TargetPin{Kind: TargetNodeTime, Node: node, Pin: pin}
}

// OutputTimeTarget addresses the graph's time output.
//
// Returns:
//   - TargetPin: the target address
func OutputTimeTarget() TargetPin {
	return TargetPin{Kind: TargetOutputTime}
}

func (p TargetPin) String() string {
	switch p.Kind {
	case TargetNodeData:
		return fmt.Sprintf("%s.%s", p.Node, p.Pin)
	case TargetOutputData:
		return fmt.Sprintf("output.%s", p.Pin)
	case TargetNodeTime:
		return fmt.Sprintf("%s.<time %s>", p.Node, p.Pin)
	default:
		return "output.<time>"
	}
}
