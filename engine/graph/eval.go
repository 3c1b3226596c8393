package graph

// GetDataBack resolves the value consumed by a target pin: it follows the
// edge to the producing pin and pulls it, lazily evaluating the producer.
//
// Parameters:
//   - c: the evaluation context
//   - target: the consuming pin
//
// Returns:
//   - DataValue: the resolved value
//   - error: ErrMissingEdgeToTarget if the pin is unwired, or an upstream
//     GraphError
func (g *AnimationGraph) GetDataBack(c *PassContext, target TargetPin) (DataValue, error) {
	source, ok := g.edges[target]
	if !ok {
		return DataValue{}, newError(ErrMissingEdgeToTarget, "%s", target)
	}
	return g.GetData(c, source)
}

// GetData pulls a value from a producing pin, evaluating its node first
// if it has not run this frame. Graph input parameters resolve through
// the overlay, then the parent binding, then the declared defaults.
//
// Parameters:
//   - c: the evaluation context
//   - source: the producing pin
//
// Returns:
//   - DataValue: the resolved value
//   - error: a GraphError on failure
func (g *AnimationGraph) GetData(c *PassContext, source SourcePin) (DataValue, error) {
	switch source.Kind {
	case SourceNodeData:
		cc := c.cache()
		if !cc.isUpdated(source.Node, c.temp) {
			node, ok := g.nodes[source.Node]
			if !ok {
				return DataValue{}, newError(ErrNodeMissing, "%q", source.Node)
			}
			if err := node.Update(c.forNode(source.Node)); err != nil {
				return DataValue{}, err
			}
			cc.bank(c.writeMode()).updated[source.Node] = struct{}{}
		}
		if v, ok := cc.getParameter(source, c.temp); ok {
			return v, nil
		}
		return DataValue{}, newError(ErrOutputMissing, "%s", source)

	case SourceInputData:
		if v, ok := c.overlay.Parameters[source.Pin]; ok {
			return v, nil
		}
		if c.parent != nil {
			if v, err := c.parent.DataBack(source.Pin); err == nil {
				return v, nil
			}
		}
		if v, ok := g.defaultParameters.Get(source.Pin); ok {
			return v, nil
		}
		return DataValue{}, newError(ErrMissingParentGraph, "input %q", source.Pin)

	default:
		return DataValue{}, newError(ErrMismatchedDataType, "data query on time pin %s", source)
	}
}

// GetDurationBack resolves the duration behind a consuming time pin.
//
// Parameters:
//   - c: the evaluation context
//   - target: the consuming time pin
//
// Returns:
//   - Duration: the resolved duration
//   - error: ErrMissingEdgeToTarget if the pin is unwired, or an upstream
//     GraphError
func (g *AnimationGraph) GetDurationBack(c *PassContext, target TargetPin) (Duration, error) {
	source, ok := g.edges[target]
	if !ok {
		return Duration{}, newError(ErrMissingEdgeToTarget, "%s", target)
	}
	return g.GetDuration(c, source)
}

// GetDuration pulls a duration from a producing time pin, invoking the
// node's Duration pass on a cache miss.
//
// Parameters:
//   - c: the evaluation context
//   - source: the producing time pin
//
// Returns:
//   - Duration: the resolved duration
//   - error: a GraphError on failure
func (g *AnimationGraph) GetDuration(c *PassContext, source SourcePin) (Duration, error) {
	switch source.Kind {
	case SourceNodeTime:
		cc := c.cache()
		if d, ok := cc.getDuration(source, c.temp); ok {
			return d, nil
		}
		node, ok := g.nodes[source.Node]
		if !ok {
			return Duration{}, newError(ErrNodeMissing, "%q", source.Node)
		}
		if err := node.Duration(c.forNode(source.Node)); err != nil {
			return Duration{}, err
		}
		if d, ok := cc.getDuration(source, c.temp); ok {
			return d, nil
		}
		return Duration{}, newError(ErrDurationMissing, "%s", source)

	case SourceInputTime:
		if d, ok := c.overlay.Durations[source.Pin]; ok {
			return d, nil
		}
		if c.parent != nil {
			return c.parent.DurationBack(source.Pin)
		}
		return Duration{}, newError(ErrMissingParentGraph, "input time %q", source.Pin)

	default:
		return Duration{}, newError(ErrMismatchedDataType, "duration query on data pin %s", source)
	}
}

// PropagateTimeUpdate sends a time update backward through a consuming
// time pin: it records the update on the target, then routes it to the
// producer's pending-update slot, or across the graph boundary through
// the parent binding.
//
// Parameters:
//   - c: the evaluation context
//   - target: the consuming time pin
//   - tu: the update
//
// Returns:
//   - error: ErrMissingEdgeToTarget if the pin is unwired
func (g *AnimationGraph) PropagateTimeUpdate(c *PassContext, target TargetPin, tu TimeUpdate) error {
	source, ok := g.edges[target]
	if !ok {
		return newError(ErrMissingEdgeToTarget, "%s", target)
	}
	bank := c.cache().bank(c.writeMode())
	bank.timeUpdatesBack[target] = tu

	switch source.Kind {
	case SourceNodeTime:
		bank.timeUpdatesFwd[source] = tu
		return nil
	case SourceInputTime:
		if tuo, ok := c.overlay.TimeUpdates[source.Pin]; ok {
			bank.timeUpdatesFwd[source] = tuo
			return nil
		}
		if c.parent != nil {
			return c.parent.SetTimeUpdateBack(source.Pin, tu)
		}
		// No host; keep the update readable via InputTimeUpdate.
		bank.timeUpdatesFwd[source] = tu
		return nil
	default:
		return newError(ErrMismatchedDataType, "time update on data pin %s", source)
	}
}

// SetOutputTimeUpdate injects a time update at the graph's time output,
// the entry point of the time pass for a whole-graph query.
//
// Parameters:
//   - c: the evaluation context
//   - tu: the update
//
// Returns:
//   - error: ErrMissingEdgeToTarget if no node drives the time output
func (g *AnimationGraph) SetOutputTimeUpdate(c *PassContext, tu TimeUpdate) error {
	return g.PropagateTimeUpdate(c, OutputTimeTarget(), tu)
}

// OutputDuration resolves the duration at the graph's time output, the
// entry point of the duration pass.
//
// Parameters:
//   - c: the evaluation context
//
// Returns:
//   - Duration: the graph's duration
//   - error: a GraphError on failure
func (g *AnimationGraph) OutputDuration(c *PassContext) (Duration, error) {
	return g.GetDurationBack(c, OutputTimeTarget())
}

// GetOutputData resolves one of the graph's declared data outputs, the
// entry point of the data pass.
//
// Parameters:
//   - c: the evaluation context
//   - pin: the output name
//
// Returns:
//   - DataValue: the output value
//   - error: a GraphError on failure
func (g *AnimationGraph) GetOutputData(c *PassContext, pin PinID) (DataValue, error) {
	return g.GetDataBack(c, OutputDataTarget(pin))
}

// OutputTime returns the playback position of the node driving the
// graph's time output, valid after the data pass ran.
//
// Parameters:
//   - c: the evaluation context
//
// Returns:
//   - float32: the playback position
//   - bool: false if the graph has no time output or it has not resolved
func (g *AnimationGraph) OutputTime(c *PassContext) (float32, bool) {
	source, ok := g.edges[OutputTimeTarget()]
	if !ok {
		return 0, false
	}
	return c.cache().getTime(source, c.temp)
}

// InputTimeUpdate returns the time update the graph's interior posted on
// one of its input time pins this frame.
//
// Parameters:
//   - c: the evaluation context
//   - pin: the input time pin
//
// Returns:
//   - TimeUpdate: the posted update
//   - bool: false if nothing was posted
func (g *AnimationGraph) InputTimeUpdate(c *PassContext, pin PinID) (TimeUpdate, bool) {
	return c.cache().getTimeUpdateFwd(InputTimeSource(pin), c.temp)
}

// Query runs one full evaluation tick: duration pass at the time output,
// time-update injection, then a data pass over every declared output.
//
// Parameters:
//   - c: the evaluation context
//   - tu: the tick's time update
//
// Returns:
//   - map[PinID]DataValue: the resolved outputs
//   - error: the first GraphError encountered
func (g *AnimationGraph) Query(c *PassContext, tu TimeUpdate) (map[PinID]DataValue, error) {
	if g.hasOutputTime {
		if _, err := g.OutputDuration(c); err != nil {
			return nil, err
		}
		if err := g.SetOutputTimeUpdate(c, tu); err != nil {
			return nil, err
		}
	}

	outputs := make(map[PinID]DataValue, g.outputDataSpec.Len())
	for _, pin := range g.outputDataSpec.Keys() {
		v, err := g.GetOutputData(c, pin)
		if err != nil {
			return nil, err
		}
		outputs[pin] = v
	}
	return outputs, nil
}
