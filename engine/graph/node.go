package graph

// SpecContext carries what pin-spec queries may need: some nodes derive
// their pin layout from a referenced asset (a nested graph node exposes
// the sub-graph's declared inputs and outputs).
type SpecContext struct {
	// Resources resolves asset references during spec queries. May be nil
	// for nodes whose specs are static.
	Resources Resources
}

// NodeLike is the polymorphic node contract. A node participates in the
// three evaluation passes through Duration and Update, and declares its
// pin layout through the spec methods. BaseNode provides no-op defaults
// so implementations only override what they use.
type NodeLike interface {
	// Duration computes the node's duration from its inputs' durations
	// and publishes it with ctx.SetDurationFwd.
	//
	// Parameters:
	//   - ctx: the evaluation context for this node
	//
	// Returns:
	//   - error: a GraphError if an upstream query failed
	Duration(ctx *PassContext) error

	// Update runs the node's per-frame logic: it reads the incoming time
	// update, decides what time updates to send upstream, pulls whatever
	// data inputs it needs, and publishes its outputs with ctx.SetTime
	// and ctx.SetDataFwd.
	//
	// Parameters:
	//   - ctx: the evaluation context for this node
	//
	// Returns:
	//   - error: a GraphError if an upstream query failed
	Update(ctx *PassContext) error

	// DataInputSpec declares the node's data input pins and their types.
	//
	// Parameters:
	//   - ctx: the spec context
	//
	// Returns:
	//   - *PinMap[DataSpec]: the declared inputs in display order
	DataInputSpec(ctx SpecContext) *PinMap[DataSpec]

	// DataOutputSpec declares the node's data output pins and their types.
	//
	// Parameters:
	//   - ctx: the spec context
	//
	// Returns:
	//   - *PinMap[DataSpec]: the declared outputs in display order
	DataOutputSpec(ctx SpecContext) *PinMap[DataSpec]

	// TimeInputSpec declares the node's time input pins.
	//
	// Parameters:
	//   - ctx: the spec context
	//
	// Returns:
	//   - *PinMap[struct{}]: the declared time inputs in display order
	TimeInputSpec(ctx SpecContext) *PinMap[struct{}]

	// HasTimeOutput reports whether the node produces a time output.
	//
	// Parameters:
	//   - ctx: the spec context
	//
	// Returns:
	//   - bool: true if the node has an implicit time output
	HasTimeOutput(ctx SpecContext) bool

	// DisplayName returns a human-readable name for editors and logs.
	//
	// Returns:
	//   - string: the display name
	DisplayName() string
}

// BaseNode provides default no-op implementations of the NodeLike
// contract for embedding.
type BaseNode struct{}

func (BaseNode) Duration(*PassContext) error {
	return nil
}

func (BaseNode) Update(*PassContext) error {
	return nil
}

func (BaseNode) DataInputSpec(SpecContext) *PinMap[DataSpec] {
	return NewPinMap[DataSpec]()
}

func (BaseNode) DataOutputSpec(SpecContext) *PinMap[DataSpec] {
	return NewPinMap[DataSpec]()
}

func (BaseNode) TimeInputSpec(SpecContext) *PinMap[struct{}] {
	return NewPinMap[struct{}]()
}

func (BaseNode) HasTimeOutput(SpecContext) bool {
	return false
}
