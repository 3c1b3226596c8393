package graph

import "fmt"

// errorKind is a comparable error category. The exported Err* sentinels
// below are errorKinds, so callers can classify a GraphError with
// errors.Is without caring about the pin detail it carries.
type errorKind struct {
	name string
}

func (k *errorKind) Error() string {
	return k.name
}

// Evaluation error categories.
var (
	// ErrMissingEdgeToTarget reports a target pin with no incoming edge.
	ErrMissingEdgeToTarget = &errorKind{"no edge connected to target pin"}
	// ErrOutputMissing reports a cache miss for a data output that should
	// have been computed this frame.
	ErrOutputMissing = &errorKind{"cached output missing"}
	// ErrDurationMissing reports a cache miss for a duration that should
	// have been computed this frame.
	ErrDurationMissing = &errorKind{"cached duration missing"}
	// ErrTimeUpdateMissingFwd reports a node asking for its incoming time
	// update before any consumer propagated one to it.
	ErrTimeUpdateMissingFwd = &errorKind{"forward time update missing"}
	// ErrTimeUpdateMissingBack reports a missing back-propagated time
	// update on an input pin.
	ErrTimeUpdateMissingBack = &errorKind{"backward time update missing"}
	// ErrMissingParentGraph reports an unbound graph input reached with no
	// parent binding to delegate to.
	ErrMissingParentGraph = &errorKind{"graph input unbound and no parent binding available"}
	// ErrMismatchedDataType reports a DataValue accessed as the wrong type
	// or an edge connecting pins of different specs.
	ErrMismatchedDataType = &errorKind{"mismatched data type"}
	// ErrNodeMissing reports an edge referencing a node the graph does not
	// contain.
	ErrNodeMissing = &errorKind{"node missing from graph"}
	// ErrGraphAssetMissing reports a referenced graph asset that is not
	// loaded.
	ErrGraphAssetMissing = &errorKind{"graph asset missing"}
	// ErrFSMCurrentStateMissing reports a state machine with no recorded
	// current state.
	ErrFSMCurrentStateMissing = &errorKind{"state machine has no current state"}
	// ErrFSMExpectedTransitionFoundState reports a sub-state query with a
	// role that does not apply to the current low-level state.
	ErrFSMExpectedTransitionFoundState = &errorKind{"expected transition state, found plain state"}
	// ErrFSMRequestedMissingData reports a state-machine driver pin query
	// for data no state provided.
	ErrFSMRequestedMissingData = &errorKind{"state machine requested missing data"}
	// ErrFSMGraphAssetMissing reports a state's referenced graph asset
	// that is not loaded.
	ErrFSMGraphAssetMissing = &errorKind{"state graph asset missing"}
	// ErrInvalidGraph reports a structural validation failure.
	ErrInvalidGraph = &errorKind{"invalid graph"}
)

// GraphError is a typed evaluation error: a category plus the offending
// pin or node, so structural problems can be pointed at precisely.
type GraphError struct {
	kind   *errorKind
	detail string
}

// Ensure GraphError implements error.
var _ error = &GraphError{}

func (e *GraphError) Error() string {
	if e.detail == "" {
		return e.kind.name
	}
	return fmt.Sprintf("%s: %s", e.kind.name, e.detail)
}

// Is matches against the exported category sentinels.
func (e *GraphError) Is(target error) bool {
	k, ok := target.(*errorKind)
	return ok && k == e.kind
}

func newError(kind *errorKind, format string, args ...any) *GraphError {
	return &GraphError{kind: kind, detail: fmt.Sprintf(format, args...)}
}

// NewError creates a GraphError in one of the exported categories, for
// layers built on top of the evaluator (state machines, nodes) that
// surface the same error taxonomy.
//
// Parameters:
//   - kind: one of the Err* sentinels
//   - format: detail format string
//   - args: detail format arguments
//
// Returns:
//   - error: the categorized error, or a plain error if kind is not a
//     sentinel from this package
func NewError(kind error, format string, args ...any) error {
	if k, ok := kind.(*errorKind); ok {
		return newError(k, format, args...)
	}
	return fmt.Errorf(format, args...)
}
