package graph

import (
	"errors"
	"testing"
)

// countingSourceNode publishes a constant f32 and counts how many times
// its Update pass ran, exposing the evaluator's memoization.
type countingSourceNode struct {
	BaseNode
	value   float32
	updates int
}

func (n *countingSourceNode) Update(ctx *PassContext) error {
	n.updates++
	ctx.SetDataFwd("out", F32Value(n.value))
	return nil
}

func (n *countingSourceNode) DataOutputSpec(SpecContext) *PinMap[DataSpec] {
	return PinMapFrom(PinMapEntry[DataSpec]{Key: "out", Value: SpecF32})
}

func (n *countingSourceNode) DisplayName() string { return "counting source" }

// sumNode adds its two f32 inputs.
type sumNode struct {
	BaseNode
}

func (n *sumNode) Update(ctx *PassContext) error {
	a, err := ctx.DataBack("a")
	if err != nil {
		return err
	}
	b, err := ctx.DataBack("b")
	if err != nil {
		return err
	}
	av, err := a.AsF32()
	if err != nil {
		return err
	}
	bv, err := b.AsF32()
	if err != nil {
		return err
	}
	ctx.SetDataFwd("out", F32Value(av+bv))
	return nil
}

func (n *sumNode) DataInputSpec(SpecContext) *PinMap[DataSpec] {
	return PinMapFrom(
		PinMapEntry[DataSpec]{Key: "a", Value: SpecF32},
		PinMapEntry[DataSpec]{Key: "b", Value: SpecF32},
	)
}

func (n *sumNode) DataOutputSpec(SpecContext) *PinMap[DataSpec] {
	return PinMapFrom(PinMapEntry[DataSpec]{Key: "out", Value: SpecF32})
}

func (n *sumNode) DisplayName() string { return "sum" }

// clockNode integrates incoming time updates into a playback position and
// publishes it both as its time and as an f32 output.
type clockNode struct {
	BaseNode
	length float32
}

func (n *clockNode) Duration(ctx *PassContext) error {
	ctx.SetDurationFwd(FiniteDuration(n.length))
	return nil
}

func (n *clockNode) Update(ctx *PassContext) error {
	tu, err := ctx.TimeUpdateFwd()
	if err != nil {
		return err
	}
	t := tu.Apply(ctx.PrevTime())
	ctx.SetTime(t)
	ctx.SetDataFwd("out", F32Value(t))
	return nil
}

func (n *clockNode) DataOutputSpec(SpecContext) *PinMap[DataSpec] {
	return PinMapFrom(PinMapEntry[DataSpec]{Key: "out", Value: SpecF32})
}

func (n *clockNode) HasTimeOutput(SpecContext) bool { return true }

func (n *clockNode) DisplayName() string { return "clock" }

func newTestContext(g *AnimationGraph) (*PassContext, *GraphContextArena) {
	arena := NewGraphContextArena(g.ID)
	return NewPassContext(g, arena.Toplevel(), arena, nil, nil), arena
}

// --- Query ---

func TestQueryDiamondEvaluatesSharedProducerOnce(t *testing.T) {
	g := NewAnimationGraph("diamond")
	src := &countingSourceNode{value: 2}
	if err := g.AddNode("src", src); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode("sum", &sumNode{}); err != nil {
		t.Fatal(err)
	}
	g.ConnectData("src", "out", "sum", "a")
	g.ConnectData("src", "out", "sum", "b")
	g.DeclareOutput("result", SpecF32)
	g.ConnectOutputData("sum", "out", "result")

	c, arena := newTestContext(g)
	out, err := g.Query(c, DeltaUpdate(0))
	if err != nil {
		t.Fatal(err)
	}
	v, err := out["result"].AsF32()
	if err != nil || v != 4 {
		t.Errorf("result = %v (%v), want 4", v, err)
	}
	if src.updates != 1 {
		t.Errorf("shared producer ran %d times, want 1", src.updates)
	}

	// A second query in the same frame reuses the memoized results.
	if _, err := g.Query(c, DeltaUpdate(0)); err != nil {
		t.Fatal(err)
	}
	if src.updates != 1 {
		t.Errorf("re-query ran producer %d times, want still 1", src.updates)
	}

	// A new frame invalidates the cache.
	arena.NextFrame()
	if _, err := g.Query(c, DeltaUpdate(0)); err != nil {
		t.Fatal(err)
	}
	if src.updates != 2 {
		t.Errorf("after NextFrame producer ran %d times, want 2", src.updates)
	}
}

func TestQueryTimeAdvancesAcrossFrames(t *testing.T) {
	g := NewAnimationGraph("timed")
	if err := g.AddNode("clock", &clockNode{length: 10}); err != nil {
		t.Fatal(err)
	}
	g.DeclareOutput("t", SpecF32)
	g.ConnectOutputData("clock", "out", "t")
	g.ConnectOutputTime("clock")

	c, arena := newTestContext(g)
	ticks := []float32{0.25, 0.5, 0.25}
	var want float32
	for _, dt := range ticks {
		want += dt
		out, err := g.Query(c, DeltaUpdate(dt))
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := out["t"].AsF32(); v != want {
			t.Errorf("clock position = %v, want %v", v, want)
		}
		if ot, ok := g.OutputTime(c); !ok || ot != want {
			t.Errorf("OutputTime = %v (%v), want %v", ot, ok, want)
		}
		arena.NextFrame()
	}
}

func TestQueryAbsoluteSeekOverridesPosition(t *testing.T) {
	g := NewAnimationGraph("seek")
	if err := g.AddNode("clock", &clockNode{length: 10}); err != nil {
		t.Fatal(err)
	}
	g.DeclareOutput("t", SpecF32)
	g.ConnectOutputData("clock", "out", "t")
	g.ConnectOutputTime("clock")

	c, arena := newTestContext(g)
	if _, err := g.Query(c, DeltaUpdate(1)); err != nil {
		t.Fatal(err)
	}
	arena.NextFrame()
	out, err := g.Query(c, AbsoluteUpdate(7.5))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out["t"].AsF32(); v != 7.5 {
		t.Errorf("position after absolute seek = %v, want 7.5", v)
	}
}

func TestQueryGraphInputDefaultAndOverlay(t *testing.T) {
	g := NewAnimationGraph("params")
	src := &countingSourceNode{value: 1}
	if err := g.AddNode("src", src); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode("sum", &sumNode{}); err != nil {
		t.Fatal(err)
	}
	g.DeclareInput("gain", F32Value(3))
	g.ConnectInputData("gain", "sum", "a")
	g.ConnectData("src", "out", "sum", "b")
	g.DeclareOutput("result", SpecF32)
	g.ConnectOutputData("sum", "out", "result")

	arena := NewGraphContextArena(g.ID)

	// Without an overlay the declared default applies.
	c := NewPassContext(g, arena.Toplevel(), arena, nil, nil)
	out, err := g.Query(c, DeltaUpdate(0))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out["result"].AsF32(); v != 4 {
		t.Errorf("result with default = %v, want 4", v)
	}

	arena.NextFrame()
	overlay := NewInputOverlay()
	overlay.Parameters["gain"] = F32Value(10)
	c = NewPassContext(g, arena.Toplevel(), arena, nil, overlay)
	out, err = g.Query(c, DeltaUpdate(0))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out["result"].AsF32(); v != 11 {
		t.Errorf("result with overlay = %v, want 11", v)
	}
}

func TestQueryUnwiredOutputFails(t *testing.T) {
	g := NewAnimationGraph("unwired")
	g.DeclareOutput("result", SpecF32)

	c, _ := newTestContext(g)
	_, err := g.Query(c, DeltaUpdate(0))
	if !errors.Is(err, ErrMissingEdgeToTarget) {
		t.Errorf("err = %v, want ErrMissingEdgeToTarget", err)
	}
}

// --- TimeUpdate ---

func TestTimeUpdateApply(t *testing.T) {
	if got := DeltaUpdate(0.5).Apply(2); got != 2.5 {
		t.Errorf("delta Apply = %v, want 2.5", got)
	}
	if got := AbsoluteUpdate(7).Apply(2); got != 7 {
		t.Errorf("absolute Apply = %v, want 7", got)
	}
	// Unresolved percent-of-event seeks leave the position alone.
	if got := PercentOfEventUpdate(0.5, "e", "t").Apply(2); got != 2 {
		t.Errorf("percent-of-event Apply = %v, want unchanged 2", got)
	}
}

func TestTimeUpdateCombine(t *testing.T) {
	got := DeltaUpdate(1).Combine(DeltaUpdate(2))
	if got.Kind != TimeUpdateDelta || got.Delta != 3 {
		t.Errorf("delta+delta = %+v, want delta 3", got)
	}
	got = AbsoluteUpdate(5).Combine(DeltaUpdate(2))
	if got.Kind != TimeUpdateAbsolute || got.Time != 7 {
		t.Errorf("absolute+delta = %+v, want absolute 7", got)
	}
	// A later absolute jump discards whatever came before.
	got = DeltaUpdate(1).Combine(AbsoluteUpdate(5))
	if got.Kind != TimeUpdateAbsolute || got.Time != 5 {
		t.Errorf("delta+absolute = %+v, want absolute 5", got)
	}
}

// --- PinMap ---

func TestPinMapInsertionOrder(t *testing.T) {
	m := NewPinMap[int]()
	m.Insert("c", 1)
	m.Insert("a", 2)
	m.Insert("b", 3)
	// Replacing keeps the key's original position.
	m.Insert("a", 9)

	keys := m.Keys()
	want := []PinID{"c", "a", "b"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if v, ok := m.Get("a"); !ok || v != 9 {
		t.Errorf("Get(a) = %v, %v, want 9, true", v, ok)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

// --- Validate ---

func TestValidateTypeMismatch(t *testing.T) {
	g := NewAnimationGraph("bad_types")
	if err := g.AddNode("src", &countingSourceNode{}); err != nil {
		t.Fatal(err)
	}
	// f32 output wired into a pose-typed graph output.
	g.DeclareOutput("pose", SpecPose)
	g.ConnectOutputData("src", "out", "pose")

	if err := g.Validate(nil); !errors.Is(err, ErrInvalidGraph) {
		t.Errorf("Validate = %v, want ErrInvalidGraph", err)
	}
}

func TestValidateMissingNode(t *testing.T) {
	g := NewAnimationGraph("bad_node")
	g.DeclareOutput("result", SpecF32)
	g.ConnectOutputData("ghost", "out", "result")

	if err := g.Validate(nil); !errors.Is(err, ErrInvalidGraph) {
		t.Errorf("Validate = %v, want ErrInvalidGraph", err)
	}
}

func TestValidateCycle(t *testing.T) {
	g := NewAnimationGraph("cyclic")
	if err := g.AddNode("x", &sumNode{}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode("y", &sumNode{}); err != nil {
		t.Fatal(err)
	}
	g.ConnectData("x", "out", "y", "a")
	g.ConnectData("y", "out", "x", "a")
	g.ConnectData("x", "out", "y", "b")
	g.ConnectData("y", "out", "x", "b")

	if err := g.Validate(nil); !errors.Is(err, ErrInvalidGraph) {
		t.Errorf("Validate = %v, want ErrInvalidGraph", err)
	}
}

func TestValidateAcceptsWellFormedGraph(t *testing.T) {
	g := NewAnimationGraph("ok")
	if err := g.AddNode("src", &countingSourceNode{}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode("sum", &sumNode{}); err != nil {
		t.Fatal(err)
	}
	g.DeclareInput("gain", F32Value(0))
	g.ConnectInputData("gain", "sum", "a")
	g.ConnectData("src", "out", "sum", "b")
	g.DeclareOutput("result", SpecF32)
	g.ConnectOutputData("sum", "out", "result")

	if err := g.Validate(nil); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

// --- DataValue ---

func TestDataValueTypeChecks(t *testing.T) {
	v := F32Value(2)
	if got, err := v.AsF32(); err != nil || got != 2 {
		t.Errorf("AsF32 = %v, %v, want 2, nil", got, err)
	}
	if _, err := v.AsPose(); !errors.Is(err, ErrMismatchedDataType) {
		t.Errorf("AsPose on f32 = %v, want ErrMismatchedDataType", err)
	}
	if BoolValue(true).Spec != SpecBool {
		t.Error("BoolValue spec mismatch")
	}
	if got := SpecEventQueue.String(); got != "events" {
		t.Errorf("SpecEventQueue.String() = %q, want %q", got, "events")
	}
}
