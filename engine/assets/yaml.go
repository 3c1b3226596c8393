package assets

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/fsm"
	"github.com/Carmen-Shannon/rig-go/engine/graph"
	"github.com/Carmen-Shannon/rig-go/engine/nodes"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// graphDoc is the on-disk schema for a graph asset. Edges reference the
// graph's own input and output surfaces with empty node names.
type graphDoc struct {
	ID         string     `yaml:"id"`
	Nodes      []nodeDoc  `yaml:"nodes"`
	Edges      []edgeDoc  `yaml:"edges"`
	Input      []paramDoc `yaml:"input,omitempty"`
	InputTimes []string   `yaml:"input_times,omitempty"`
	Output     []pinDoc   `yaml:"output,omitempty"`
	OutputTime string     `yaml:"output_time,omitempty"`
}

// nodeDoc declares one node instance. Config is decoded into the node
// type registered under Type, so each node defines its own config shape.
type nodeDoc struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Config yaml.Node `yaml:"config,omitempty"`
}

// edgeDoc is one wire. An empty from_node means the graph input surface,
// an empty to_node means the graph output surface. Time edges set time.
type edgeDoc struct {
	FromNode string `yaml:"from_node,omitempty"`
	FromPin  string `yaml:"from_pin,omitempty"`
	ToNode   string `yaml:"to_node,omitempty"`
	ToPin    string `yaml:"to_pin,omitempty"`
	Time     bool   `yaml:"time,omitempty"`
}

// paramDoc declares an input parameter with a typed default.
type paramDoc struct {
	Pin     string    `yaml:"pin"`
	Type    string    `yaml:"type"`
	Default yaml.Node `yaml:"default,omitempty"`
}

// pinDoc declares a typed output pin.
type pinDoc struct {
	Pin  string `yaml:"pin"`
	Type string `yaml:"type"`
}

type clipDoc struct {
	ID          string                    `yaml:"id"`
	Skeleton    string                    `yaml:"skeleton"`
	Duration    float32                   `yaml:"duration"`
	Curves      map[string][]curveDoc     `yaml:"curves,omitempty"`
	EventTracks map[string][]trackItemDoc `yaml:"event_tracks,omitempty"`
}

// curveDoc is one keyframed channel. Rotations are [x, y, z, w],
// translations and scales are [x, y, z].
type curveDoc struct {
	Interpolation string      `yaml:"interpolation,omitempty"`
	Timestamps    []float32   `yaml:"timestamps"`
	Rotations     [][]float32 `yaml:"rotations,omitempty"`
	Translations  [][]float32 `yaml:"translations,omitempty"`
	Scales        [][]float32 `yaml:"scales,omitempty"`
	Weights       [][]float32 `yaml:"weights,omitempty"`
}

type trackItemDoc struct {
	Event string  `yaml:"event"`
	Start float32 `yaml:"start"`
	End   float32 `yaml:"end"`
}

type skeletonDoc struct {
	ID    string   `yaml:"id"`
	Root  string   `yaml:"root"`
	Bones []string `yaml:"bones"`
}

type fsmDoc struct {
	ID          string        `yaml:"id"`
	Start       string        `yaml:"start"`
	Input       []paramDoc    `yaml:"input,omitempty"`
	States      []fsmStateDoc `yaml:"states"`
	Transitions []fsmTransDoc `yaml:"transitions,omitempty"`
}

type fsmStateDoc struct {
	ID     string     `yaml:"id"`
	Graph  string     `yaml:"graph"`
	Global *globalDoc `yaml:"global,omitempty"`
}

type globalDoc struct {
	Duration float32 `yaml:"duration"`
	Graph    string  `yaml:"graph,omitempty"`
	Easing   string  `yaml:"easing,omitempty"`
}

type fsmTransDoc struct {
	ID       string  `yaml:"id"`
	Source   string  `yaml:"source"`
	Target   string  `yaml:"target"`
	Duration float32 `yaml:"duration"`
	Graph    string  `yaml:"graph,omitempty"`
	Easing   string  `yaml:"easing,omitempty"`
}

// DecodeGraph decodes a graph asset from YAML. Node configs are decoded
// through the node registry, so every registered node type is loadable.
// The graph is structurally assembled but not validated; validate once
// all referenced assets are in a library.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *graph.AnimationGraph: the decoded graph
//   - error: error if the document is malformed
func DecodeGraph(data []byte) (*graph.AnimationGraph, error) {
	var doc graphDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("decode graph: missing id")
	}

	g := graph.NewAnimationGraph(doc.ID)
	for _, nd := range doc.Nodes {
		if nd.Name == "" {
			return nil, fmt.Errorf("graph %q: node with empty name", doc.ID)
		}
		n, err := nodes.New(nd.Type)
		if err != nil {
			return nil, fmt.Errorf("graph %q: node %q: %w", doc.ID, nd.Name, err)
		}
		if nd.Config.Kind != 0 {
			if err := nd.Config.Decode(n); err != nil {
				return nil, fmt.Errorf("graph %q: node %q config: %w", doc.ID, nd.Name, err)
			}
		}
		if err := g.AddNode(graph.NodeID(nd.Name), n); err != nil {
			return nil, fmt.Errorf("graph %q: %w", doc.ID, err)
		}
	}

	for _, p := range doc.Input {
		def, err := decodeDefault(p)
		if err != nil {
			return nil, fmt.Errorf("graph %q: input %q: %w", doc.ID, p.Pin, err)
		}
		g.DeclareInput(graph.PinID(p.Pin), def)
	}
	for _, pin := range doc.InputTimes {
		g.DeclareInputTime(graph.PinID(pin))
	}
	for _, p := range doc.Output {
		spec, err := specFromString(p.Type)
		if err != nil {
			return nil, fmt.Errorf("graph %q: output %q: %w", doc.ID, p.Pin, err)
		}
		g.DeclareOutput(graph.PinID(p.Pin), spec)
	}
	if doc.OutputTime != "" {
		g.ConnectOutputTime(graph.NodeID(doc.OutputTime))
	}

	for i, e := range doc.Edges {
		if err := connectEdge(g, e); err != nil {
			return nil, fmt.Errorf("graph %q: edge %d: %w", doc.ID, i, err)
		}
	}
	return g, nil
}

// connectEdge wires one edgeDoc into the graph using the empty-endpoint
// convention for the graph's own input and output surfaces.
func connectEdge(g *graph.AnimationGraph, e edgeDoc) error {
	if e.FromNode == "" && e.ToNode == "" {
		return fmt.Errorf("edge connects graph input directly to graph output")
	}
	if e.Time {
		switch {
		case e.FromNode == "":
			g.ConnectInputTime(graph.PinID(e.FromPin), graph.NodeID(e.ToNode), graph.PinID(e.ToPin))
		case e.ToNode == "":
			g.ConnectOutputTime(graph.NodeID(e.FromNode))
		default:
			g.ConnectTime(graph.NodeID(e.FromNode), graph.NodeID(e.ToNode), graph.PinID(e.ToPin))
		}
		return nil
	}
	switch {
	case e.FromNode == "":
		g.ConnectInputData(graph.PinID(e.FromPin), graph.NodeID(e.ToNode), graph.PinID(e.ToPin))
	case e.ToNode == "":
		g.ConnectOutputData(graph.NodeID(e.FromNode), graph.PinID(e.FromPin), graph.PinID(e.ToPin))
	default:
		g.ConnectData(graph.NodeID(e.FromNode), graph.PinID(e.FromPin), graph.NodeID(e.ToNode), graph.PinID(e.ToPin))
	}
	return nil
}

// DecodeClip decodes a clip asset from YAML.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *clip.Clip: the decoded clip
//   - error: error if the document is malformed
func DecodeClip(data []byte) (*clip.Clip, error) {
	var doc clipDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode clip: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("decode clip: missing id")
	}

	c := &clip.Clip{
		ID:         doc.ID,
		SkeletonID: doc.Skeleton,
		Duration:   doc.Duration,
	}
	if len(doc.Curves) > 0 {
		c.Curves = make(map[skeleton.BoneID][]clip.VariableCurve, len(doc.Curves))
		for bone, curves := range doc.Curves {
			for i, cd := range curves {
				vc, err := decodeCurve(cd)
				if err != nil {
					return nil, fmt.Errorf("clip %q: bone %q curve %d: %w", doc.ID, bone, i, err)
				}
				c.Curves[skeleton.BoneID(bone)] = append(c.Curves[skeleton.BoneID(bone)], vc)
			}
		}
	}
	if len(doc.EventTracks) > 0 {
		c.EventTracks = make(map[string]events.EventTrack, len(doc.EventTracks))
		for name, items := range doc.EventTracks {
			track := events.EventTrack{Name: name}
			for _, it := range items {
				track.Items = append(track.Items, events.TrackItem{
					Event:     events.StringID(it.Event),
					StartTime: it.Start,
					EndTime:   it.End,
				})
			}
			c.EventTracks[name] = track
		}
	}
	return c, nil
}

func decodeCurve(cd curveDoc) (clip.VariableCurve, error) {
	interp, err := interpolationFromString(cd.Interpolation)
	if err != nil {
		return clip.VariableCurve{}, err
	}
	vc := clip.VariableCurve{
		Timestamps:    cd.Timestamps,
		Weights:       cd.Weights,
		Interpolation: interp,
	}
	for i, r := range cd.Rotations {
		if len(r) != 4 {
			return clip.VariableCurve{}, fmt.Errorf("rotation %d has %d components, want 4", i, len(r))
		}
		vc.Rotations = append(vc.Rotations, common.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]})
	}
	vc.Translations, err = decodeVec3s("translation", cd.Translations)
	if err != nil {
		return clip.VariableCurve{}, err
	}
	vc.Scales, err = decodeVec3s("scale", cd.Scales)
	if err != nil {
		return clip.VariableCurve{}, err
	}
	return vc, nil
}

func decodeVec3s(channel string, in [][]float32) ([]common.Vec3, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]common.Vec3, 0, len(in))
	for i, v := range in {
		if len(v) != 3 {
			return nil, fmt.Errorf("%s %d has %d components, want 3", channel, i, len(v))
		}
		out = append(out, common.Vec3{X: v[0], Y: v[1], Z: v[2]})
	}
	return out, nil
}

// DecodeSkeleton decodes a skeleton asset from YAML.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - string: the asset id
//   - skeleton.Skeleton: the decoded skeleton
//   - error: error if the document is malformed or the hierarchy invalid
func DecodeSkeleton(data []byte) (string, skeleton.Skeleton, error) {
	var doc skeletonDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("decode skeleton: %w", err)
	}
	if doc.ID == "" {
		return "", nil, fmt.Errorf("decode skeleton: missing id")
	}
	bones := make([]skeleton.BoneID, 0, len(doc.Bones))
	for _, b := range doc.Bones {
		bones = append(bones, skeleton.BoneID(b))
	}
	s, err := skeleton.NewSkeleton(skeleton.BoneID(doc.Root), bones)
	if err != nil {
		return "", nil, fmt.Errorf("skeleton %q: %w", doc.ID, err)
	}
	return doc.ID, s, nil
}

// DecodeStateMachine decodes a state machine asset from YAML. The
// low-level form is compiled lazily on first use.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *fsm.StateMachine: the decoded machine
//   - error: error if the document is malformed
func DecodeStateMachine(data []byte) (*fsm.StateMachine, error) {
	var doc fsmDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode state machine: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("decode state machine: missing id")
	}

	sm := fsm.NewStateMachine(doc.ID)
	for _, sd := range doc.States {
		s := fsm.State{
			ID:      fsm.StateID(sd.ID),
			GraphID: sd.Graph,
		}
		if sd.Global != nil {
			s.Global = &fsm.GlobalTransition{
				Duration: sd.Global.Duration,
				GraphID:  sd.Global.Graph,
				Easing:   sd.Global.Easing,
			}
		}
		sm.AddState(s)
	}
	for _, td := range doc.Transitions {
		t := fsm.Transition{
			ID:       fsm.TransitionID(td.ID),
			Source:   fsm.StateID(td.Source),
			Target:   fsm.StateID(td.Target),
			Duration: td.Duration,
			GraphID:  td.Graph,
			Easing:   td.Easing,
		}
		if err := sm.AddTransition(t); err != nil {
			return nil, fmt.Errorf("state machine %q: %w", doc.ID, err)
		}
	}
	if doc.Start != "" {
		if err := sm.SetStartState(fsm.StateID(doc.Start)); err != nil {
			return nil, fmt.Errorf("state machine %q: %w", doc.ID, err)
		}
	}
	for _, p := range doc.Input {
		def, err := decodeDefault(p)
		if err != nil {
			return nil, fmt.Errorf("state machine %q: input %q: %w", doc.ID, p.Pin, err)
		}
		sm.DeclareInput(graph.PinID(p.Pin), def)
	}
	return sm, nil
}

// specFromString maps the on-disk type names onto pin type tags. The
// names match DataSpec.String().
func specFromString(s string) (graph.DataSpec, error) {
	switch s {
	case "f32":
		return graph.SpecF32, nil
	case "bool":
		return graph.SpecBool, nil
	case "vec2":
		return graph.SpecVec2, nil
	case "vec3":
		return graph.SpecVec3, nil
	case "quat":
		return graph.SpecQuat, nil
	case "pose":
		return graph.SpecPose, nil
	case "events":
		return graph.SpecEventQueue, nil
	case "entity_path":
		return graph.SpecEntityPath, nil
	default:
		return graph.SpecF32, fmt.Errorf("unknown data type %q", s)
	}
}

func interpolationFromString(s string) (clip.Interpolation, error) {
	switch s {
	case "", "linear":
		return clip.InterpolationLinear, nil
	case "step":
		return clip.InterpolationStep, nil
	case "cubic_spline":
		return clip.InterpolationCubicSpline, nil
	default:
		return clip.InterpolationLinear, fmt.Errorf("unknown interpolation %q", s)
	}
}

// decodeDefault decodes a typed default value for an input parameter. A
// missing default yields the zero value of the declared type.
func decodeDefault(p paramDoc) (graph.DataValue, error) {
	spec, err := specFromString(p.Type)
	if err != nil {
		return graph.DataValue{}, err
	}
	if p.Default.Kind == 0 {
		return graph.DataValue{Spec: spec}, nil
	}
	switch spec {
	case graph.SpecF32:
		var v float32
		if err := p.Default.Decode(&v); err != nil {
			return graph.DataValue{}, err
		}
		return graph.F32Value(v), nil
	case graph.SpecBool:
		var v bool
		if err := p.Default.Decode(&v); err != nil {
			return graph.DataValue{}, err
		}
		return graph.BoolValue(v), nil
	case graph.SpecVec2:
		var v []float32
		if err := p.Default.Decode(&v); err != nil {
			return graph.DataValue{}, err
		}
		if len(v) != 2 {
			return graph.DataValue{}, fmt.Errorf("vec2 default has %d components, want 2", len(v))
		}
		return graph.Vec2Value(common.Vec2{X: v[0], Y: v[1]}), nil
	case graph.SpecVec3:
		var v []float32
		if err := p.Default.Decode(&v); err != nil {
			return graph.DataValue{}, err
		}
		if len(v) != 3 {
			return graph.DataValue{}, fmt.Errorf("vec3 default has %d components, want 3", len(v))
		}
		return graph.Vec3Value(common.Vec3{X: v[0], Y: v[1], Z: v[2]}), nil
	case graph.SpecQuat:
		var v []float32
		if err := p.Default.Decode(&v); err != nil {
			return graph.DataValue{}, err
		}
		if len(v) != 4 {
			return graph.DataValue{}, fmt.Errorf("quat default has %d components, want 4", len(v))
		}
		return graph.QuatValue(common.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}), nil
	case graph.SpecEntityPath:
		var v string
		if err := p.Default.Decode(&v); err != nil {
			return graph.DataValue{}, err
		}
		return graph.EntityPathValue(v), nil
	default:
		// Poses and event queues have no sensible authored default.
		return graph.DataValue{Spec: spec}, nil
	}
}
