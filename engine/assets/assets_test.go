package assets

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/fsm"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

// slideClip moves the root bone from x=0 to x=length over length seconds.
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

// --- Graph decoding ---

const scaledGraphYAML = `
id: scaled
nodes:
  - name: clip
    type: clip
    config:
      clip_id: slide
  - name: speed
    type: speed
input:
  - pin: rate
    type: f32
    default: 2
output:
  - pin: pose
    type: pose
output_time: speed
edges:
  - from_node: clip
    from_pin: pose
    to_node: speed
    to_pin: pose
  - from_node: clip
    to_node: speed
    to_pin: time
    time: true
  - from_pin: rate
    to_node: speed
    to_pin: speed
  - from_node: speed
    from_pin: pose
    to_pin: pose
`

func TestDecodeGraph(t *testing.T) {
	g, err := DecodeGraph([]byte(scaledGraphYAML))
	if err != nil {
		t.Fatal(err)
	}
	if g.ID != "scaled" {
		t.Errorf("ID = %q, want %q", g.ID, "scaled")
	}
	for _, id := range []graph.NodeID{"clip", "speed"} {
		if _, ok := g.Node(id); !ok {
			t.Errorf("decoded graph missing node %q", id)
		}
	}
	if !g.HasOutputTime() {
		t.Error("output_time should route the speed node's clock out")
	}
	if !g.InputDataSpec().Has("rate") {
		t.Error("decoded graph missing input parameter")
	}
	def, ok := g.DefaultParameters().Get("rate")
	if !ok {
		t.Fatal("rate default missing")
	}
	if v, err := def.AsF32(); err != nil || !nearf(v, 2) {
		t.Errorf("rate default = %v (%v), want 2", v, err)
	}
	spec, ok := g.OutputDataSpec().Get("pose")
	if !ok || spec != graph.SpecPose {
		t.Errorf("output spec = %v (%v), want pose", spec, ok)
	}
}

func TestDecodedGraphEvaluates(t *testing.T) {
	g, err := DecodeGraph([]byte(scaledGraphYAML))
	if err != nil {
		t.Fatal(err)
	}
	lib := NewLibrary()
	lib.AddClip(slideClip("slide", 2))
	lib.AddGraph(g)
	if err := lib.Validate(); err != nil {
		t.Fatal(err)
	}

	arena := graph.NewGraphContextArena(g.ID)
	c := graph.NewPassContext(g, arena.Toplevel(), arena, lib, nil)

	// The default rate of 2 halves the duration and doubles the advance.
	d, err := g.OutputDuration(c)
	if err != nil {
		t.Fatal(err)
	}
	if d.Infinite || !nearf(d.Seconds, 1) {
		t.Errorf("duration = %+v, want 1", d)
	}
	out, err := g.Query(c, graph.DeltaUpdate(0.5))
	if err != nil {
		t.Fatal(err)
	}
	p, err := out["pose"].AsPose()
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Bones["root"].Translation.X; !nearf(got, 1) {
		t.Errorf("root x = %v, want 1", got)
	}
}

func TestDecodeGraphErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"not yaml":     `{`,
		"missing id":   `nodes: []`,
		"unknown type": "id: g\nnodes:\n  - name: n\n    type: warp",
		"empty name":   "id: g\nnodes:\n  - type: clip",
		"duplicate name": "id: g\nnodes:\n" +
			"  - name: n\n    type: clip\n" +
			"  - name: n\n    type: clip",
		"input to output edge": "id: g\nedges:\n  - from_pin: a\n    to_pin: b",
	} {
		if _, err := DecodeGraph([]byte(doc)); err == nil {
			t.Errorf("%s: decode succeeded, want error", name)
		}
	}
}

// --- Clip decoding ---

func TestDecodeClip(t *testing.T) {
	doc := `
id: wave
skeleton: rig
duration: 1
curves:
  root/arm:
    - interpolation: linear
      timestamps: [0, 1]
      translations: [[0, 0, 0], [2, 0, 0]]
    - timestamps: [0]
      rotations: [[0, 0, 0, 1]]
event_tracks:
  steps:
    - event: footstep
      start: 0.25
      end: 0.75
`
	c, err := DecodeClip([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "wave" || c.SkeletonID != "rig" || !nearf(c.Duration, 1) {
		t.Errorf("clip header = %q %q %v", c.ID, c.SkeletonID, c.Duration)
	}
	curves := c.Curves["root/arm"]
	if len(curves) != 2 {
		t.Fatalf("curve count = %d, want 2", len(curves))
	}
	if curves[0].Interpolation != clip.InterpolationLinear {
		t.Errorf("interpolation = %v, want linear", curves[0].Interpolation)
	}
	if got := c.Sample(0.5).Bones["root/arm"].Translation.X; !nearf(got, 1) {
		t.Errorf("sampled x = %v, want 1", got)
	}
	if q := c.SampleEvents(0.5); len(q.Events) != 1 || q.Events[0].Event.ID != "footstep" {
		t.Errorf("sampled events = %+v, want one footstep", q.Events)
	}
}

func TestDecodeClipErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"not yaml":   `{`,
		"missing id": `duration: 1`,
		"bad rotation": "id: c\ncurves:\n  root:\n" +
			"    - timestamps: [0]\n      rotations: [[0, 0, 1]]",
		"bad translation": "id: c\ncurves:\n  root:\n" +
			"    - timestamps: [0]\n      translations: [[0, 0]]",
		"bad interpolation": "id: c\ncurves:\n  root:\n" +
			"    - timestamps: [0]\n      interpolation: hermite",
	} {
		if _, err := DecodeClip([]byte(doc)); err == nil {
			t.Errorf("%s: decode succeeded, want error", name)
		}
	}
}

// --- Skeleton decoding ---

func TestDecodeSkeleton(t *testing.T) {
	doc := `
id: rig
root: root
bones:
  - root/spine/chest
  - root/hips
`
	id, s, err := DecodeSkeleton([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if id != "rig" {
		t.Errorf("id = %q, want %q", id, "rig")
	}
	// Ancestors come along with leaf paths.
	if !s.HasBone("root/spine") {
		t.Error("intermediate bone missing")
	}
	if p, ok := s.Parent("root/spine/chest"); !ok || p != "root/spine" {
		t.Errorf("parent = %q (%v), want root/spine", p, ok)
	}
	if bones := s.Bones(); len(bones) == 0 || bones[0] != "root" {
		t.Errorf("bone order = %v, want root first", bones)
	}
}

func TestDecodeSkeletonErrors(t *testing.T) {
	if _, _, err := DecodeSkeleton([]byte(`root: root`)); err == nil {
		t.Error("missing id should fail")
	}
	if _, _, err := DecodeSkeleton([]byte("id: rig\nroot: root\nbones: [other/arm]")); err == nil {
		t.Error("path outside the root should fail")
	}
}

// --- State machine decoding ---

func TestDecodeStateMachine(t *testing.T) {
	doc := `
id: locomotion
start: idle
input:
  - pin: blend
    type: f32
    default: 0.5
states:
  - id: idle
    graph: idle_graph
  - id: walk
    graph: walk_graph
  - id: hurt
    graph: hurt_graph
    global:
      duration: 0.2
      easing: in_out_quad
transitions:
  - id: idle_to_walk
    source: idle
    target: walk
    duration: 0.4
`
	sm, err := DecodeStateMachine([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if sm.ID != "locomotion" {
		t.Errorf("id = %q", sm.ID)
	}
	hurt, ok := sm.State("hurt")
	if !ok || hurt.Global == nil || !nearf(hurt.Global.Duration, 0.2) || hurt.Global.Easing != "in_out_quad" {
		t.Errorf("hurt state = %+v", hurt)
	}
	tr, ok := sm.Transition("idle_to_walk")
	if !ok || tr.Source != "idle" || tr.Target != "walk" || !nearf(tr.Duration, 0.4) {
		t.Errorf("transition = %+v", tr)
	}
	if def, ok := sm.InputData().Get("blend"); !ok {
		t.Error("machine input missing")
	} else if v, err := def.AsF32(); err != nil || !nearf(v, 0.5) {
		t.Errorf("blend default = %v (%v), want 0.5", v, err)
	}
	if got := sm.LowLevel().StartState(); got != fsm.HLStateID("idle") {
		t.Errorf("start = %q", got)
	}
}

func TestDecodeStateMachineErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"missing id": `start: idle`,
		"bad transition endpoint": "id: m\nstates:\n  - id: a\n" +
			"transitions:\n  - id: t\n    source: a\n    target: ghost",
		"bad start": "id: m\nstart: ghost\nstates:\n  - id: a",
	} {
		if _, err := DecodeStateMachine([]byte(doc)); err == nil {
			t.Errorf("%s: decode succeeded, want error", name)
		}
	}
}

// --- Library loading ---

func writeAsset(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileDispatch(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary()

	clipPath := writeAsset(t, dir, "slide.anim.yaml",
		"id: slide\nduration: 2\ncurves:\n  root:\n"+
			"    - timestamps: [0, 2]\n      translations: [[0, 0, 0], [2, 0, 0]]")
	skelPath := writeAsset(t, dir, "rig.skel.yaml",
		"id: rig\nroot: root\nbones: [root/hips]")
	fsmPath := writeAsset(t, dir, "walk.fsm.yaml",
		"id: walk\nstates:\n  - id: a\n    graph: g")
	graphPath := writeAsset(t, dir, "scaled.animgraph.yaml", scaledGraphYAML)

	for _, path := range []string{clipPath, skelPath, fsmPath, graphPath} {
		if err := lib.LoadFile(path); err != nil {
			t.Fatalf("LoadFile(%s): %v", path, err)
		}
	}
	if _, ok := lib.ClipByID("slide"); !ok {
		t.Error("clip not registered")
	}
	if _, ok := lib.SkeletonByID("rig"); !ok {
		t.Error("skeleton not registered")
	}
	if _, ok := lib.StateMachineByID("walk"); !ok {
		t.Error("state machine not registered")
	}
	if _, ok := lib.GraphByID("scaled"); !ok {
		t.Error("graph not registered")
	}

	other := writeAsset(t, dir, "notes.txt", "not an asset")
	if err := lib.LoadFile(other); err == nil {
		t.Error("unrecognized extension should fail")
	}
	if err := lib.LoadFile(filepath.Join(dir, "missing.anim.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadDirWalksAndValidates(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "clips")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeAsset(t, sub, "slide.anim.yaml",
		"id: slide\nduration: 2\ncurves:\n  root:\n"+
			"    - timestamps: [0, 2]\n      translations: [[0, 0, 0], [2, 0, 0]]")
	writeAsset(t, dir, "scaled.animgraph.yaml", scaledGraphYAML)
	writeAsset(t, dir, "readme.txt", "ignored")

	lib := NewLibrary()
	if err := lib.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if _, ok := lib.GraphByID("scaled"); !ok {
		t.Error("graph not loaded from directory")
	}
	if _, ok := lib.ClipByID("slide"); !ok {
		t.Error("clip not loaded from subdirectory")
	}
}

// heroGLTF is a minimal one-skin, one-animation glTF document with its
// keyframes embedded as a base64 data URI.
func heroGLTF() string {
	floats := []float32{0, 1, 0, 0, 0, 2, 0, 0}
	buf := make([]byte, 4*len(floats))
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf)
	return `{
		"asset": {"version": "2.0"},
		"nodes": [{"name": "hip", "children": [1]}, {"name": "spine"}],
		"skins": [{"name": "hero", "joints": [0, 1]}],
		"animations": [{
			"name": "walk",
			"channels": [{"sampler": 0, "target": {"node": 0, "path": "translation"}}],
			"samplers": [{"input": 0, "output": 1}]
		}],
		"accessors": [
			{"bufferView": 0, "byteOffset": 0, "componentType": 5126, "count": 2, "type": "SCALAR"},
			{"bufferView": 0, "byteOffset": 8, "componentType": 5126, "count": 2, "type": "VEC3"}
		],
		"bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": 32}],
		"buffers": [{"byteLength": 32, "uri": "` + uri + `"}]
	}`
}

func TestLoadDirImportsGLTF(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "hero.gltf", heroGLTF())

	lib := NewLibrary()
	if err := lib.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	s, ok := lib.SkeletonByID("hero")
	if !ok {
		t.Fatal("imported skeleton not registered")
	}
	if !s.HasBone("hip/spine") {
		t.Error("imported skeleton is missing bone hip/spine")
	}
	c, ok := lib.ClipByID("walk")
	if !ok {
		t.Fatal("imported clip not registered")
	}
	if c.SkeletonID != "hero" {
		t.Errorf("clip skeleton = %q, want hero", c.SkeletonID)
	}
	if got := c.Sample(0.5).Bones["hip"].Translation.X; !nearf(got, 1) {
		t.Errorf("imported clip x at midpoint = %v, want 1", got)
	}
}

func TestValidateRejectsTypeMismatch(t *testing.T) {
	g := graph.NewAnimationGraph("broken")
	g.AddNode("clip", &clipRefNode{})
	g.DeclareOutput("pose", graph.SpecPose)
	// Wires the clip's event output into the pose-typed graph output.
	g.ConnectOutputData("clip", "events", "pose")

	lib := NewLibrary()
	lib.AddGraph(g)
	if err := lib.Validate(); err == nil {
		t.Error("type mismatch should fail validation")
	}
}

// clipRefNode exposes the clip node's pin surface without needing an
// asset, keeping the validation test self-contained.
type clipRefNode struct {
	graph.BaseNode
}

func (n *clipRefNode) DataOutputSpec(graph.SpecContext) *graph.PinMap[graph.DataSpec] {
	return graph.PinMapFrom(
		graph.PinMapEntry[graph.DataSpec]{Key: "pose", Value: graph.SpecPose},
		graph.PinMapEntry[graph.DataSpec]{Key: "events", Value: graph.SpecEventQueue},
	)
}

func (n *clipRefNode) DisplayName() string {
	return "ClipRef"
}
