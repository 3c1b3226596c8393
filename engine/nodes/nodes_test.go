package nodes

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

const epsilon = 1e-4

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

// fakeResources resolves only the assets a test registers.
type fakeResources struct {
	clips    map[string]*clip.Clip
	graphs   map[string]*graph.AnimationGraph
	machines map[string]any
}

var _ graph.Resources = &fakeResources{}

func (r *fakeResources) GraphByID(id string) (*graph.AnimationGraph, bool) {
	g, ok := r.graphs[id]
	return g, ok
}

func (r *fakeResources) ClipByID(id string) (*clip.Clip, bool) {
	c, ok := r.clips[id]
	return c, ok
}

func (r *fakeResources) SkeletonByID(string) (skeleton.Skeleton, bool) { return nil, false }

func (r *fakeResources) StateMachineByID(id string) (any, bool) {
	m, ok := r.machines[id]
	return m, ok
}

// slideClip moves the root bone linearly from x=0 to x=length over the
// clip's duration.
func slideClip(id string, length float32) *clip.Clip {
	return &clip.Clip{
		ID:       id,
		Duration: length,
		Curves: map[skeleton.BoneID][]clip.VariableCurve{
			"root": {{
				Timestamps:    []float32{0, length},
				Translations:  []common.Vec3{{X: 0}, {X: length}},
				Interpolation: clip.InterpolationLinear,
			}},
		},
	}
}

// holdClip keeps the root bone at a fixed x.
func holdClip(id string, x, duration float32) *clip.Clip {
	return &clip.Clip{
		ID:       id,
		Duration: duration,
		Curves: map[skeleton.BoneID][]clip.VariableCurve{
			"root": {{
				Timestamps:    []float32{0},
				Translations:  []common.Vec3{{X: x}},
				Interpolation: clip.InterpolationLinear,
			}},
		},
	}
}

func newContext(g *graph.AnimationGraph, res graph.Resources, overlay *graph.InputOverlay) (*graph.PassContext, *graph.GraphContextArena) {
	arena := graph.NewGraphContextArena(g.ID)
	return graph.NewPassContext(g, arena.Toplevel(), arena, res, overlay), arena
}

func rootX(t *testing.T, out map[graph.PinID]graph.DataValue, pin graph.PinID) float32 {
	t.Helper()
	p, err := out[pin].AsPose()
	if err != nil {
		t.Fatalf("output %q is not a pose: %v", pin, err)
	}
	bp, ok := p.Bones["root"]
	if !ok {
		t.Fatalf("output pose has no root bone")
	}
	return bp.Translation.X
}

// --- ClipNode ---

func TestClipNodeSamplesAndAdvances(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{"slide": slideClip("slide", 2)}}
	g := graph.NewAnimationGraph("g")
	if err := g.AddNode("clip", NewClipNode("slide")); err != nil {
		t.Fatal(err)
	}
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("clip", PinPose, "pose")
	g.ConnectOutputTime("clip")

	c, arena := newContext(g, res, nil)
	out, err := g.Query(c, graph.DeltaUpdate(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if got := rootX(t, out, "pose"); !nearf(got, 0.5) {
		t.Errorf("x after first tick = %v, want 0.5", got)
	}

	arena.NextFrame()
	out, err = g.Query(c, graph.DeltaUpdate(0.75))
	if err != nil {
		t.Fatal(err)
	}
	if got := rootX(t, out, "pose"); !nearf(got, 1.25) {
		t.Errorf("x after second tick = %v, want 1.25", got)
	}
}

func TestClipNodeResolvesPercentOfEventSeek(t *testing.T) {
	cl := slideClip("slide", 2)
	cl.EventTracks = map[string]events.EventTrack{
		"steps": {Name: "steps", Items: []events.TrackItem{
			{Event: events.StringID("footstep"), StartTime: 1.0, EndTime: 2.0},
		}},
	}
	res := &fakeResources{clips: map[string]*clip.Clip{"slide": cl}}

	g := graph.NewAnimationGraph("g")
	if err := g.AddNode("clip", NewClipNode("slide")); err != nil {
		t.Fatal(err)
	}
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("clip", PinPose, "pose")
	g.ConnectOutputTime("clip")

	c, _ := newContext(g, res, nil)
	out, err := g.Query(c, graph.PercentOfEventUpdate(0.5, "footstep", "steps"))
	if err != nil {
		t.Fatal(err)
	}
	// Halfway through the [1, 2) window is t=1.5.
	if got := rootX(t, out, "pose"); !nearf(got, 1.5) {
		t.Errorf("x after event seek = %v, want 1.5", got)
	}
	if ot, ok := g.OutputTime(c); !ok || !nearf(ot, 1.5) {
		t.Errorf("OutputTime = %v (%v), want 1.5", ot, ok)
	}
}

func TestClipNodeMissingAssetFails(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{}}
	g := graph.NewAnimationGraph("g")
	if err := g.AddNode("clip", NewClipNode("ghost")); err != nil {
		t.Fatal(err)
	}
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("clip", PinPose, "pose")
	g.ConnectOutputTime("clip")

	c, _ := newContext(g, res, nil)
	if _, err := g.Query(c, graph.DeltaUpdate(0)); err == nil {
		t.Error("query with missing clip asset should fail")
	}
}

// --- BlendNode ---

func blendGraph(mode BlendMode) (*graph.AnimationGraph, *fakeResources) {
	res := &fakeResources{clips: map[string]*clip.Clip{
		"low":  holdClip("low", 0, 1),
		"high": holdClip("high", 10, 2),
	}}
	g := graph.NewAnimationGraph("g")
	g.AddNode("a", NewClipNode("low"))
	g.AddNode("b", NewClipNode("high"))
	g.AddNode("mix", NewBlendNode(mode))
	g.ConnectData("a", PinPose, "mix", PinPoseA)
	g.ConnectTime("a", "mix", PinTimeA)
	g.ConnectData("b", PinPose, "mix", PinPoseB)
	g.ConnectTime("b", "mix", PinTimeB)
	g.DeclareInput("factor", graph.F32Value(0))
	g.ConnectInputData("factor", "mix", PinFactor)
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("mix", PinPose, "pose")
	g.ConnectOutputTime("mix")
	return g, res
}

func TestBlendNodeLinearFactor(t *testing.T) {
	g, res := blendGraph(BlendLinearInterpolate)
	overlay := graph.NewInputOverlay()
	overlay.Parameters["factor"] = graph.F32Value(0.4)

	c, _ := newContext(g, res, overlay)
	out, err := g.Query(c, graph.DeltaUpdate(0.1))
	if err != nil {
		t.Fatal(err)
	}
	if got := rootX(t, out, "pose"); !nearf(got, 4) {
		t.Errorf("blended x = %v, want 4", got)
	}
}

func TestBlendNodeDurationIsLongerOperand(t *testing.T) {
	g, res := blendGraph(BlendLinearInterpolate)
	c, _ := newContext(g, res, nil)
	d, err := g.OutputDuration(c)
	if err != nil {
		t.Fatal(err)
	}
	if d.Infinite || !nearf(d.Seconds, 2) {
		t.Errorf("blend duration = %+v, want finite 2", d)
	}
}

func TestBlendNodeEventTrackSyncMatchesAnyEventKind(t *testing.T) {
	// Both clips carry the same named track, but its events have no
	// string payload. The sync must still phase-align the second operand.
	ca := slideClip("a", 2)
	ca.EventTracks = map[string]events.EventTrack{
		"steps": {Name: "steps", Items: []events.TrackItem{
			{Event: events.TransitionToState("go"), StartTime: 0, EndTime: 2},
		}},
	}
	cb := slideClip("b", 4)
	cb.EventTracks = map[string]events.EventTrack{
		"steps": {Name: "steps", Items: []events.TrackItem{
			{Event: events.TransitionToState("go"), StartTime: 0, EndTime: 4},
		}},
	}
	res := &fakeResources{clips: map[string]*clip.Clip{"a": ca, "b": cb}}

	mix := NewBlendNode(BlendLinearInterpolate)
	mix.Sync = SyncEventTrack
	mix.SyncTrack = "steps"
	mix.Factor = 1

	g := graph.NewAnimationGraph("g")
	g.AddNode("a", NewClipNode("a"))
	g.AddNode("b", NewClipNode("b"))
	g.AddNode("mix", mix)
	g.ConnectData("a", PinPose, "mix", PinPoseA)
	g.ConnectData("a", PinEvents, "mix", PinEventsA)
	g.ConnectTime("a", "mix", PinTimeA)
	g.ConnectData("b", PinPose, "mix", PinPoseB)
	g.ConnectTime("b", "mix", PinTimeB)
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("mix", PinPose, "pose")
	g.ConnectOutputTime("mix")

	c, _ := newContext(g, res, nil)
	out, err := g.Query(c, graph.AbsoluteUpdate(1))
	if err != nil {
		t.Fatal(err)
	}
	// The first operand is halfway through its window, so the second
	// seeks to half of its own 4s window rather than to t=1 absolute.
	if got := rootX(t, out, "pose"); !nearf(got, 2) {
		t.Errorf("synced x = %v, want 2", got)
	}
}

// --- ChainNode ---

func TestChainNodeSequencesWithSeam(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{
		"first":  holdClip("first", 0, 1),
		"second": holdClip("second", 10, 1),
	}}
	g := graph.NewAnimationGraph("g")
	g.AddNode("a", NewClipNode("first"))
	g.AddNode("b", NewClipNode("second"))
	g.AddNode("chain", NewChainNode(0.5))
	g.ConnectData("a", PinPose, "chain", PinPoseA)
	g.ConnectTime("a", "chain", PinTimeA)
	g.ConnectData("b", PinPose, "chain", PinPoseB)
	g.ConnectTime("b", "chain", PinTimeB)
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("chain", PinPose, "pose")
	g.ConnectOutputTime("chain")

	c, arena := newContext(g, res, nil)
	d, err := g.OutputDuration(c)
	if err != nil {
		t.Fatal(err)
	}
	if d.Infinite || !nearf(d.Seconds, 2.5) {
		t.Errorf("chain duration = %+v, want 2.5", d)
	}

	// First operand, seam midpoint, second operand.
	for _, tc := range []struct{ at, want float32 }{
		{0.5, 0},
		{1.25, 5},
		{2.0, 10},
	} {
		out, err := g.Query(c, graph.AbsoluteUpdate(tc.at))
		if err != nil {
			t.Fatal(err)
		}
		if got := rootX(t, out, "pose"); !nearf(got, tc.want) {
			t.Errorf("chain at t=%v: x = %v, want %v", tc.at, got, tc.want)
		}
		arena.NextFrame()
	}
}

// --- LoopNode ---

func TestLoopNodeWrapsAndReportsUnwrappedTimestamp(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{"slide": slideClip("slide", 1)}}
	g := graph.NewAnimationGraph("g")
	g.AddNode("clip", NewClipNode("slide"))
	g.AddNode("loop", NewLoopNode(0))
	g.ConnectData("clip", PinPose, "loop", PinPose)
	g.ConnectTime("clip", "loop", PinTime)
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("loop", PinPose, "pose")
	g.ConnectOutputTime("loop")

	c, arena := newContext(g, res, nil)
	d, err := g.OutputDuration(c)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Infinite {
		t.Errorf("loop duration = %+v, want infinite", d)
	}

	out, err := g.Query(c, graph.DeltaUpdate(0.75))
	if err != nil {
		t.Fatal(err)
	}
	if got := rootX(t, out, "pose"); !nearf(got, 0.75) {
		t.Errorf("x inside first cycle = %v, want 0.75", got)
	}

	arena.NextFrame()
	out, err = g.Query(c, graph.DeltaUpdate(0.5))
	if err != nil {
		t.Fatal(err)
	}
	// 1.25 wraps to 0.25 inside the operand.
	if got := rootX(t, out, "pose"); !nearf(got, 0.25) {
		t.Errorf("x after wrap = %v, want 0.25", got)
	}
	p, _ := out["pose"].AsPose()
	if !nearf(p.Timestamp, 1.25) {
		t.Errorf("timestamp after wrap = %v, want unwrapped 1.25", p.Timestamp)
	}
}

// --- PaddingNode ---

func TestPaddingNodeTailFadesTowardStart(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{"slide": slideClip("slide", 2)}}
	g := graph.NewAnimationGraph("g")
	g.AddNode("clip", NewClipNode("slide"))
	g.AddNode("pad", NewPaddingNode(1))
	g.ConnectData("clip", PinPose, "pad", PinPose)
	g.ConnectTime("clip", "pad", PinTime)
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("pad", PinPose, "pose")
	g.ConnectOutputTime("pad")

	c, arena := newContext(g, res, nil)
	d, err := g.OutputDuration(c)
	if err != nil {
		t.Fatal(err)
	}
	if d.Infinite || !nearf(d.Seconds, 3) {
		t.Errorf("padded duration = %+v, want 3", d)
	}

	// Body untouched, tail start holds the final frame, tail midpoint is
	// halfway back to the first frame, tail end reaches it.
	for _, tc := range []struct{ at, want float32 }{
		{1.0, 1},
		{2.0, 2},
		{2.5, 1},
		{3.0, 0},
	} {
		out, err := g.Query(c, graph.AbsoluteUpdate(tc.at))
		if err != nil {
			t.Fatal(err)
		}
		if got := rootX(t, out, "pose"); !nearf(got, tc.want) {
			t.Errorf("padded x at t=%v: %v, want %v", tc.at, got, tc.want)
		}
		p, _ := out["pose"].AsPose()
		if !nearf(p.Timestamp, tc.at) {
			t.Errorf("timestamp at t=%v: %v, want %v", tc.at, p.Timestamp, tc.at)
		}
		arena.NextFrame()
	}
}

// --- SpeedNode ---

func TestSpeedNodeScalesDeltas(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{"slide": slideClip("slide", 2)}}
	g := graph.NewAnimationGraph("g")
	g.AddNode("clip", NewClipNode("slide"))
	g.AddNode("speed", NewSpeedNode(2))
	g.ConnectData("clip", PinPose, "speed", PinPose)
	g.ConnectTime("clip", "speed", PinTime)
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("speed", PinPose, "pose")
	g.ConnectOutputTime("speed")

	c, _ := newContext(g, res, nil)
	d, err := g.OutputDuration(c)
	if err != nil {
		t.Fatal(err)
	}
	if d.Infinite || !nearf(d.Seconds, 1) {
		t.Errorf("duration at 2x = %+v, want 1", d)
	}

	out, err := g.Query(c, graph.DeltaUpdate(0.5))
	if err != nil {
		t.Fatal(err)
	}
	// 0.5s of wall time plays 1.0s of the operand.
	if got := rootX(t, out, "pose"); !nearf(got, 1) {
		t.Errorf("x at 2x speed = %v, want 1", got)
	}
}

func TestSpeedNodeZeroFreezesDuration(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{"slide": slideClip("slide", 2)}}
	g := graph.NewAnimationGraph("g")
	g.AddNode("clip", NewClipNode("slide"))
	g.AddNode("speed", NewSpeedNode(0))
	g.ConnectData("clip", PinPose, "speed", PinPose)
	g.ConnectTime("clip", "speed", PinTime)
	g.DeclareOutput("pose", graph.SpecPose)
	g.ConnectOutputData("speed", PinPose, "pose")
	g.ConnectOutputTime("speed")

	c, _ := newContext(g, res, nil)
	d, err := g.OutputDuration(c)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Infinite {
		t.Errorf("duration at 0x = %+v, want infinite", d)
	}
}

// --- BlendSpace2DNode ---

func TestBlendSpace2DCornerAndEdgeWeights(t *testing.T) {
	res := &fakeResources{clips: map[string]*clip.Clip{
		"p0": holdClip("p0", 0, 1),
		"p1": holdClip("p1", 10, 1),
		"p2": holdClip("p2", 20, 1),
	}}
	points := []common.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

	build := func(pos common.Vec2) (*graph.AnimationGraph, *graph.InputOverlay) {
		g := graph.NewAnimationGraph("g")
		g.AddNode("c0", NewClipNode("p0"))
		g.AddNode("c1", NewClipNode("p1"))
		g.AddNode("c2", NewClipNode("p2"))
		g.AddNode("space", NewBlendSpace2DNode(points))
		for i, id := range []graph.NodeID{"c0", "c1", "c2"} {
			g.ConnectData(id, PinPose, "space", posePin(i))
			g.ConnectTime(id, "space", timePin(i))
		}
		g.DeclareInput("position", graph.Vec2Value(common.Vec2{}))
		g.ConnectInputData("position", "space", PinPosition)
		g.DeclareOutput("pose", graph.SpecPose)
		g.ConnectOutputData("space", PinPose, "pose")
		g.ConnectOutputTime("space")

		overlay := graph.NewInputOverlay()
		overlay.Parameters["position"] = graph.Vec2Value(pos)
		return g, overlay
	}

	// Sampling exactly at a corner plays that corner alone.
	g, overlay := build(common.Vec2{X: 1, Y: 0})
	c, _ := newContext(g, res, overlay)
	out, err := g.Query(c, graph.DeltaUpdate(0.1))
	if err != nil {
		t.Fatal(err)
	}
	if got := rootX(t, out, "pose"); !nearf(got, 10) {
		t.Errorf("corner sample x = %v, want 10", got)
	}

	// The midpoint of the edge between corners 1 and 2 weighs them evenly.
	g, overlay = build(common.Vec2{X: 0.5, Y: 0.5})
	c, _ = newContext(g, res, overlay)
	out, err = g.Query(c, graph.DeltaUpdate(0.1))
	if err != nil {
		t.Fatal(err)
	}
	if got := rootX(t, out, "pose"); !nearf(got, 15) {
		t.Errorf("edge midpoint x = %v, want 15", got)
	}
}

// --- Event nodes ---

func TestEventMarkupNodeMergesTracks(t *testing.T) {
	cl := slideClip("slide", 2)
	cl.EventTracks = map[string]events.EventTrack{
		"from_clip": {Name: "from_clip", Items: []events.TrackItem{
			{Event: events.StringID("clip_event"), StartTime: 0, EndTime: 2},
		}},
	}
	res := &fakeResources{clips: map[string]*clip.Clip{"slide": cl}}

	tracks := map[string]events.EventTrack{
		"markup": {Name: "markup", Items: []events.TrackItem{
			{Event: events.StringID("markup_event"), StartTime: 0, EndTime: 2},
		}},
	}
	g := graph.NewAnimationGraph("g")
	g.AddNode("clip", NewClipNode("slide"))
	g.AddNode("markup", NewEventMarkupNode(tracks))
	g.ConnectData("clip", PinEvents, "markup", PinEvents)
	g.ConnectTime("clip", "markup", PinTime)
	g.DeclareOutput("events", graph.SpecEventQueue)
	g.ConnectOutputData("markup", PinEvents, "events")
	g.ConnectOutputTime("markup")

	c, _ := newContext(g, res, nil)
	out, err := g.Query(c, graph.DeltaUpdate(0.5))
	if err != nil {
		t.Fatal(err)
	}
	q, err := out["events"].AsEventQueue()
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Events) != 2 {
		t.Fatalf("event count = %d, want 2", len(q.Events))
	}
	// Incoming events come first, then the node's own tracks.
	if q.Events[0].Event.ID != "clip_event" || q.Events[1].Event.ID != "markup_event" {
		t.Errorf("event order = %q, %q, want clip_event then markup_event",
			q.Events[0].Event.ID, q.Events[1].Event.ID)
	}
}

func TestSendEventNode(t *testing.T) {
	g := graph.NewAnimationGraph("g")
	g.AddNode("send", NewSendEventNode(events.EndTransition()))
	g.DeclareOutput("events", graph.SpecEventQueue)
	g.ConnectOutputData("send", PinEvents, "events")

	c, _ := newContext(g, nil, nil)
	out, err := g.Query(c, graph.DeltaUpdate(0))
	if err != nil {
		t.Fatal(err)
	}
	q, _ := out["events"].AsEventQueue()
	if len(q.Events) != 1 || q.Events[0].Event.Kind != events.EventEndTransition {
		t.Errorf("queue = %+v, want one end-transition event", q.Events)
	}
	if !nearf(q.Events[0].Weight, 1) {
		t.Errorf("injected event weight = %v, want 1", q.Events[0].Weight)
	}
}

func TestSendEventNodeConditionGate(t *testing.T) {
	g := graph.NewAnimationGraph("g")
	g.AddNode("gate", NewConstBoolNode(false))
	g.AddNode("send", NewSendEventNode(events.StringID("never")))
	g.ConnectData("gate", PinOut, "send", PinCondition)
	g.DeclareOutput("events", graph.SpecEventQueue)
	g.ConnectOutputData("send", PinEvents, "events")

	c, _ := newContext(g, nil, nil)
	out, err := g.Query(c, graph.DeltaUpdate(0))
	if err != nil {
		t.Fatal(err)
	}
	q, _ := out["events"].AsEventQueue()
	if len(q.Events) != 0 {
		t.Errorf("gated queue has %d events, want 0", len(q.Events))
	}
}

// --- Scalar nodes ---

func scalarOut(t *testing.T, g *graph.AnimationGraph) graph.DataValue {
	t.Helper()
	c, _ := newContext(g, nil, nil)
	out, err := g.Query(c, graph.DeltaUpdate(0))
	if err != nil {
		t.Fatal(err)
	}
	return out["out"]
}

func TestArithmeticNodes(t *testing.T) {
	g := graph.NewAnimationGraph("add")
	g.AddNode("a", NewConstF32Node(3))
	g.AddNode("b", NewConstF32Node(4))
	g.AddNode("op", &AddF32Node{})
	g.ConnectData("a", PinOut, "op", PinA)
	g.ConnectData("b", PinOut, "op", PinB)
	g.DeclareOutput("out", graph.SpecF32)
	g.ConnectOutputData("op", PinOut, "out")
	if v, _ := scalarOut(t, g).AsF32(); v != 7 {
		t.Errorf("3 + 4 = %v, want 7", v)
	}

	g = graph.NewAnimationGraph("div_zero")
	g.AddNode("a", NewConstF32Node(3))
	g.AddNode("b", NewConstF32Node(0))
	g.AddNode("op", &DivF32Node{})
	g.ConnectData("a", PinOut, "op", PinA)
	g.ConnectData("b", PinOut, "op", PinB)
	g.DeclareOutput("out", graph.SpecF32)
	g.ConnectOutputData("op", PinOut, "out")
	if v, _ := scalarOut(t, g).AsF32(); v != 0 {
		t.Errorf("3 / 0 = %v, want 0", v)
	}
}

func TestClampAndCompareNodes(t *testing.T) {
	g := graph.NewAnimationGraph("clamp")
	g.AddNode("in", NewConstF32Node(5))
	g.AddNode("clamp", NewClampF32Node(0, 1))
	g.ConnectData("in", PinOut, "clamp", PinIn)
	g.DeclareOutput("out", graph.SpecF32)
	g.ConnectOutputData("clamp", PinOut, "out")
	if v, _ := scalarOut(t, g).AsF32(); v != 1 {
		t.Errorf("clamp(5, 0, 1) = %v, want 1", v)
	}

	g = graph.NewAnimationGraph("compare")
	g.AddNode("a", NewConstF32Node(2))
	g.AddNode("b", NewConstF32Node(1))
	g.AddNode("cmp", NewCompareF32Node(CompareGreater))
	g.ConnectData("a", PinOut, "cmp", PinA)
	g.ConnectData("b", PinOut, "cmp", PinB)
	g.DeclareOutput("out", graph.SpecBool)
	g.ConnectOutputData("cmp", PinOut, "out")
	if v, _ := scalarOut(t, g).AsBool(); !v {
		t.Error("2 > 1 = false, want true")
	}
}

func TestSelectAndBuildVec3Nodes(t *testing.T) {
	g := graph.NewAnimationGraph("select")
	g.AddNode("cond", NewConstBoolNode(true))
	g.AddNode("yes", NewConstF32Node(1))
	g.AddNode("no", NewConstF32Node(2))
	g.AddNode("sel", &SelectF32Node{})
	g.ConnectData("cond", PinOut, "sel", PinCondition)
	g.ConnectData("yes", PinOut, "sel", PinIfTrue)
	g.ConnectData("no", PinOut, "sel", PinIfFalse)
	g.DeclareOutput("out", graph.SpecF32)
	g.ConnectOutputData("sel", PinOut, "out")
	if v, _ := scalarOut(t, g).AsF32(); v != 1 {
		t.Errorf("select(true) = %v, want 1", v)
	}

	g = graph.NewAnimationGraph("vec")
	g.AddNode("x", NewConstF32Node(1))
	g.AddNode("y", NewConstF32Node(2))
	g.AddNode("z", NewConstF32Node(3))
	g.AddNode("vec", &BuildVec3Node{})
	g.ConnectData("x", PinOut, "vec", PinX)
	g.ConnectData("y", PinOut, "vec", PinY)
	g.ConnectData("z", PinOut, "vec", PinZ)
	g.DeclareOutput("out", graph.SpecVec3)
	g.ConnectOutputData("vec", PinOut, "out")
	v, err := scalarOut(t, g).AsVec3()
	if err != nil {
		t.Fatal(err)
	}
	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("built vector = %+v, want {1 2 3}", v)
	}
}

// --- Registry ---

func TestRegistryCreatesConfiguredDefaults(t *testing.T) {
	n, err := New("speed")
	if err != nil {
		t.Fatal(err)
	}
	sp, ok := n.(*SpeedNode)
	if !ok {
		t.Fatalf("New(speed) = %T, want *SpeedNode", n)
	}
	if sp.Speed != 1 {
		t.Errorf("default speed = %v, want 1", sp.Speed)
	}

	if _, err := New("no_such_node"); err == nil {
		t.Error("unknown tag should fail")
	}
}
