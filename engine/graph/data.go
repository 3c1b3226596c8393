package graph

import (
	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/pose"
)

// DataSpec is the type tag used for static pin-type checking at
// graph-validation time. An edge is only valid when the specs of its
// source and target pins agree.
type DataSpec uint8

const (
	// SpecF32 is a 32-bit float.
	SpecF32 DataSpec = iota
	// SpecBool is a boolean.
	SpecBool
	// SpecVec2 is a 2D vector.
	SpecVec2
	// SpecVec3 is a 3D vector.
	SpecVec3
	// SpecQuat is a rotation quaternion.
	SpecQuat
	// SpecPose is a skeleton pose.
	SpecPose
	// SpecEventQueue is an ordered event queue.
	SpecEventQueue
	// SpecEntityPath is a path reference to an engine entity.
	SpecEntityPath
)

func (s DataSpec) String() string {
	switch s {
	case SpecF32:
		return "f32"
	case SpecBool:
		return "bool"
	case SpecVec2:
		return "vec2"
	case SpecVec3:
		return "vec3"
	case SpecQuat:
		return "quat"
	case SpecPose:
		return "pose"
	case SpecEventQueue:
		return "events"
	default:
		return "entity_path"
	}
}

// DataValue is a tagged union over the payload types that can travel
// along data edges. The Spec field selects which payload field is valid.
type DataValue struct {
	Spec       DataSpec
	F32        float32
	Bool       bool
	Vec2       common.Vec2
	Vec3       common.Vec3
	Quat       common.Quat
	Pose       pose.Pose
	Events     events.EventQueue
	EntityPath string
}

// F32Value wraps a float.
func F32Value(v float32) DataValue {
	return DataValue{Spec: SpecF32, F32: v}
}

// BoolValue wraps a bool.
func BoolValue(v bool) DataValue {
	return DataValue{Spec: SpecBool, Bool: v}
}

// Vec2Value wraps a 2D vector.
func Vec2Value(v common.Vec2) DataValue {
	return DataValue{Spec: SpecVec2, Vec2: v}
}

// Vec3Value wraps a 3D vector.
func Vec3Value(v common.Vec3) DataValue {
	return DataValue{Spec: SpecVec3, Vec3: v}
}

// QuatValue wraps a quaternion.
func QuatValue(v common.Quat) DataValue {
	return DataValue{Spec: SpecQuat, Quat: v}
}

// PoseValue wraps a pose.
func PoseValue(v pose.Pose) DataValue {
	return DataValue{Spec: SpecPose, Pose: v}
}

// EventQueueValue wraps an event queue.
func EventQueueValue(v events.EventQueue) DataValue {
	return DataValue{Spec: SpecEventQueue, Events: v}
}

// EntityPathValue wraps an entity path reference.
func EntityPathValue(v string) DataValue {
	return DataValue{Spec: SpecEntityPath, EntityPath: v}
}

// AsF32 extracts the float payload.
//
// Returns:
//   - float32: the value
//   - error: ErrMismatchedDataType if the value is not an f32
func (v DataValue) AsF32() (float32, error) {
	if v.Spec != SpecF32 {
		return 0, newError(ErrMismatchedDataType, "want f32, got %s", v.Spec)
	}
	return v.F32, nil
}

// AsBool extracts the bool payload.
//
// Returns:
//   - bool: the value
//   - error: ErrMismatchedDataType if the value is not a bool
func (v DataValue) AsBool() (bool, error) {
	if v.Spec != SpecBool {
		return false, newError(ErrMismatchedDataType, "want bool, got %s", v.Spec)
	}
	return v.Bool, nil
}

// AsVec2 extracts the 2D vector payload.
//
// Returns:
//   - common.Vec2: the value
//   - error: ErrMismatchedDataType if the value is not a vec2
func (v DataValue) AsVec2() (common.Vec2, error) {
	if v.Spec != SpecVec2 {
		return common.Vec2{}, newError(ErrMismatchedDataType, "want vec2, got %s", v.Spec)
	}
	return v.Vec2, nil
}

// AsVec3 extracts the 3D vector payload.
//
// Returns:
//   - common.Vec3: the value
//   - error: ErrMismatchedDataType if the value is not a vec3
func (v DataValue) AsVec3() (common.Vec3, error) {
	if v.Spec != SpecVec3 {
		return common.Vec3{}, newError(ErrMismatchedDataType, "want vec3, got %s", v.Spec)
	}
	return v.Vec3, nil
}

// AsQuat extracts the quaternion payload.
//
// Returns:
//   - common.Quat: the value
//   - error: ErrMismatchedDataType if the value is not a quat
func (v DataValue) AsQuat() (common.Quat, error) {
	if v.Spec != SpecQuat {
		return common.Quat{}, newError(ErrMismatchedDataType, "want quat, got %s", v.Spec)
	}
	return v.Quat, nil
}

// AsPose extracts the pose payload.
//
// Returns:
//   - pose.Pose: the value
//   - error: ErrMismatchedDataType if the value is not a pose
func (v DataValue) AsPose() (pose.Pose, error) {
	if v.Spec != SpecPose {
		return pose.Pose{}, newError(ErrMismatchedDataType, "want pose, got %s", v.Spec)
	}
	return v.Pose, nil
}

// AsEventQueue extracts the event queue payload.
//
// Returns:
//   - events.EventQueue: the value
//   - error: ErrMismatchedDataType if the value is not an event queue
func (v DataValue) AsEventQueue() (events.EventQueue, error) {
	if v.Spec != SpecEventQueue {
		return events.EventQueue{}, newError(ErrMismatchedDataType, "want events, got %s", v.Spec)
	}
	return v.Events, nil
}

// AsEntityPath extracts the entity path payload.
//
// Returns:
//   - string: the value
//   - error: ErrMismatchedDataType if the value is not an entity path
func (v DataValue) AsEntityPath() (string, error) {
	if v.Spec != SpecEntityPath {
		return "", newError(ErrMismatchedDataType, "want entity_path, got %s", v.Spec)
	}
	return v.EntityPath, nil
}
