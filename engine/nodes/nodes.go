// package nodes provides the built-in node library for animation graphs:
// clip sampling, pose blending and sequencing, time manipulation, blend
// spaces, event plumbing, nested graphs, state-machine drivers, and the
// scalar utility nodes parameters flow through.
package nodes

import (
	"errors"

	"github.com/Carmen-Shannon/rig-go/engine/graph"
)

// Pin names shared across the node library.
const (
	// PinPose is the pose output of pose-producing nodes and the pose
	// input of pose-consuming ones.
	PinPose graph.PinID = "pose"
	// PinPoseA and PinPoseB are the operands of two-pose nodes.
	PinPoseA graph.PinID = "pose a"
	PinPoseB graph.PinID = "pose b"
	// PinTime is the time input of single-source time nodes.
	PinTime graph.PinID = "time"
	// PinTimeA and PinTimeB are the time inputs of two-pose nodes.
	PinTimeA graph.PinID = "time a"
	PinTimeB graph.PinID = "time b"
	// PinFactor is the blend factor input.
	PinFactor graph.PinID = "factor"
	// PinEvents is the event queue output of event-producing nodes and
	// the queue input of event-consuming ones.
	PinEvents graph.PinID = "events"
	// PinEventsA is the sync event queue input of the blend node.
	PinEventsA graph.PinID = "events a"
	// PinSpeed is the playback rate input of the speed node.
	PinSpeed graph.PinID = "speed"
	// PinPosition is the sample position input of blend space nodes.
	PinPosition graph.PinID = "position"
	// PinOut is the output of scalar utility nodes.
	PinOut graph.PinID = "out"
	// PinA and PinB are the operands of binary scalar nodes.
	PinA graph.PinID = "a"
	PinB graph.PinID = "b"
	// PinIn is the operand of unary scalar nodes.
	PinIn graph.PinID = "in"
	// PinCondition, PinIfTrue and PinIfFalse drive the select node.
	PinCondition graph.PinID = "condition"
	PinIfTrue    graph.PinID = "if true"
	PinIfFalse   graph.PinID = "if false"
	// PinX, PinY and PinZ are the components of the vector build node.
	PinX graph.PinID = "x"
	PinY graph.PinID = "y"
	PinZ graph.PinID = "z"
)

// optionalData pulls a data input that may legitimately be unwired.
//
// Parameters:
//   - c: the node's evaluation context
//   - pin: the input pin
//
// Returns:
//   - graph.DataValue: the resolved value, zero if unwired
//   - bool: false if the pin had no edge
//   - error: an upstream failure other than a missing edge
func optionalData(c *graph.PassContext, pin graph.PinID) (graph.DataValue, bool, error) {
	v, err := c.DataBack(pin)
	if err != nil {
		if errors.Is(err, graph.ErrMissingEdgeToTarget) {
			return graph.DataValue{}, false, nil
		}
		return graph.DataValue{}, false, err
	}
	return v, true, nil
}
