package clip

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

const epsilon = 1e-4

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) < epsilon
}

func linearTranslationClip() *Clip {
	return &Clip{
		ID:         "slide",
		SkeletonID: "rig",
		Duration:   2,
		Curves: map[skeleton.BoneID][]VariableCurve{
			"root": {{
				Timestamps:    []float32{0, 1, 2},
				Translations:  []common.Vec3{{X: 0}, {X: 10}, {X: 10}},
				Interpolation: InterpolationLinear,
			}},
		},
	}
}

// --- Sample ---

func TestSampleAtKeyframes(t *testing.T) {
	c := linearTranslationClip()
	for _, tc := range []struct{ at, want float32 }{
		{0, 0},
		{1, 10},
		{0.5, 5},
		{0.25, 2.5},
	} {
		p := c.Sample(tc.at)
		bp, ok := p.Bones["root"]
		if !ok || !bp.HasTranslation {
			t.Fatalf("Sample(%v) missing root translation", tc.at)
		}
		if !nearf(bp.Translation.X, tc.want) {
			t.Errorf("Sample(%v) x = %v, want %v", tc.at, bp.Translation.X, tc.want)
		}
	}
}

func TestSampleTimestampUnclamped(t *testing.T) {
	c := linearTranslationClip()
	p := c.Sample(3.5)
	if p.Timestamp != 3.5 {
		t.Errorf("Timestamp = %v, want the raw query time 3.5", p.Timestamp)
	}
	if p.SkeletonID != "rig" {
		t.Errorf("SkeletonID = %q, want %q", p.SkeletonID, "rig")
	}
}

func TestSampleWrapsAcrossSeam(t *testing.T) {
	c := &Clip{
		ID:       "wrap",
		Duration: 2,
		Curves: map[skeleton.BoneID][]VariableCurve{
			"root": {{
				// Keys at 0.5 and 1.5 leave a full second of seam: the
				// window from 1.5 wraps to 0.5 + duration.
				Timestamps:    []float32{0.5, 1.5},
				Translations:  []common.Vec3{{X: 0}, {X: 4}},
				Interpolation: InterpolationLinear,
			}},
		},
	}
	// Exactly halfway through the seam segment [1.5, 2.5): value should be
	// halfway from 4 back to 0.
	p := c.Sample(2.0)
	if got := p.Bones["root"].Translation.X; !nearf(got, 2) {
		t.Errorf("seam midpoint x = %v, want 2", got)
	}
	// Before the first keyframe is the same seam approached from the left.
	p = c.Sample(0)
	if got := p.Bones["root"].Translation.X; !nearf(got, 2) {
		t.Errorf("pre-first-key x = %v, want 2", got)
	}
}

func TestSampleStepHolds(t *testing.T) {
	c := &Clip{
		ID:       "step",
		Duration: 2,
		Curves: map[skeleton.BoneID][]VariableCurve{
			"root": {{
				Timestamps:    []float32{0, 1},
				Translations:  []common.Vec3{{X: 1}, {X: 9}},
				Interpolation: InterpolationStep,
			}},
		},
	}
	if got := c.Sample(0.99).Bones["root"].Translation.X; !nearf(got, 1) {
		t.Errorf("step just before key = %v, want held 1", got)
	}
	if got := c.Sample(1).Bones["root"].Translation.X; !nearf(got, 9) {
		t.Errorf("step at key = %v, want 9", got)
	}
}

func TestSampleCubicSplineEndpoints(t *testing.T) {
	// Hermite curves pass through their keyframe values exactly, whatever
	// the tangents. Channel layout is in-tangent, value, out-tangent.
	c := &Clip{
		ID:       "cubic",
		Duration: 1,
		Curves: map[skeleton.BoneID][]VariableCurve{
			"root": {{
				Timestamps: []float32{0, 1},
				Translations: []common.Vec3{
					{X: 7}, {X: 2}, {X: -3},
					{X: 5}, {X: 8}, {X: 1},
				},
				Interpolation: InterpolationCubicSpline,
			}},
		},
	}
	if got := c.Sample(0).Bones["root"].Translation.X; !nearf(got, 2) {
		t.Errorf("cubic at first key = %v, want 2", got)
	}
	if got := c.Sample(0.9999).Bones["root"].Translation.X; math.Abs(float64(got-8)) > 0.01 {
		t.Errorf("cubic near second key = %v, want close to 8", got)
	}
}

func TestSampleMultipleChannelsMerge(t *testing.T) {
	c := &Clip{
		ID:       "multi",
		Duration: 1,
		Curves: map[skeleton.BoneID][]VariableCurve{
			"root": {
				{
					Timestamps:    []float32{0, 1},
					Translations:  []common.Vec3{{X: 0}, {X: 2}},
					Interpolation: InterpolationLinear,
				},
				{
					Timestamps:    []float32{0, 1},
					Rotations:     []common.Quat{common.QuatIdentity(), common.QuatFromAxisAngle(common.Vec3{Z: 1}, 1)},
					Interpolation: InterpolationLinear,
				},
			},
		},
	}
	bp := c.Sample(0.5).Bones["root"]
	if !bp.HasTranslation || !bp.HasRotation {
		t.Fatalf("merged bone pose = %+v, want both channels set", bp)
	}
	if bp.HasScale {
		t.Error("scale channel should stay unset")
	}
}

func TestSampleRotationShortestPath(t *testing.T) {
	q := common.QuatFromAxisAngle(common.Vec3{Z: 1}, 0.4)
	neg := common.Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
	c := &Clip{
		ID:       "hemis",
		Duration: 1,
		Curves: map[skeleton.BoneID][]VariableCurve{
			"root": {{
				Timestamps:    []float32{0, 1},
				Rotations:     []common.Quat{q, neg},
				Interpolation: InterpolationLinear,
			}},
		},
	}
	// Both keys encode the same rotation; any blend of them must too.
	got := c.Sample(0.5).Bones["root"].Rotation
	if got.AngleTo(q) > 1e-3 {
		t.Errorf("midpoint rotation = %+v, want equivalent of %+v", got, q)
	}
}

func TestSampleSingleKeyframe(t *testing.T) {
	c := &Clip{
		ID:       "still",
		Duration: 1,
		Curves: map[skeleton.BoneID][]VariableCurve{
			"root": {{
				Timestamps:    []float32{0.5},
				Translations:  []common.Vec3{{X: 3}},
				Interpolation: InterpolationLinear,
			}},
		},
	}
	for _, at := range []float32{0, 0.5, 2} {
		if got := c.Sample(at).Bones["root"].Translation.X; !nearf(got, 3) {
			t.Errorf("Sample(%v) x = %v, want constant 3", at, got)
		}
	}
}

// --- Events ---

func TestSampleEventsSortedTrackOrder(t *testing.T) {
	c := &Clip{
		ID:       "tracked",
		Duration: 1,
		EventTracks: map[string]events.EventTrack{
			"b_track": {Name: "b_track", Items: []events.TrackItem{
				{Event: events.StringID("second"), StartTime: 0, EndTime: 1},
			}},
			"a_track": {Name: "a_track", Items: []events.TrackItem{
				{Event: events.StringID("first"), StartTime: 0, EndTime: 1},
			}},
		},
	}
	q := c.SampleEvents(0.5)
	if len(q.Events) != 2 {
		t.Fatalf("event count = %d, want 2", len(q.Events))
	}
	if q.Events[0].Track != "a_track" || q.Events[1].Track != "b_track" {
		t.Errorf("track order = %q, %q, want a_track then b_track",
			q.Events[0].Track, q.Events[1].Track)
	}
}

func TestSampleEventsWindowAndPercentage(t *testing.T) {
	c := &Clip{
		ID:       "window",
		Duration: 2,
		EventTracks: map[string]events.EventTrack{
			"steps": {Name: "steps", Items: []events.TrackItem{
				{Event: events.StringID("footstep"), StartTime: 0.5, EndTime: 1.5},
			}},
		},
	}
	if q := c.SampleEvents(0.25); len(q.Events) != 0 {
		t.Errorf("before window: %d events, want 0", len(q.Events))
	}
	// The window is half-open: the end time is exclusive.
	if q := c.SampleEvents(1.5); len(q.Events) != 0 {
		t.Errorf("at window end: %d events, want 0", len(q.Events))
	}
	q := c.SampleEvents(1.0)
	if len(q.Events) != 1 {
		t.Fatalf("inside window: %d events, want 1", len(q.Events))
	}
	ev := q.Events[0]
	if ev.Event.ID != "footstep" || !nearf(ev.Percentage, 0.5) || !nearf(ev.Weight, 1) {
		t.Errorf("sampled event = %+v, want footstep at 50%% full weight", ev)
	}
}

func TestSeekEvent(t *testing.T) {
	c := &Clip{
		ID:       "seek",
		Duration: 2,
		EventTracks: map[string]events.EventTrack{
			"steps": {Name: "steps", Items: []events.TrackItem{
				{Event: events.StringID("footstep"), StartTime: 1.0, EndTime: 1.4},
				{Event: events.StringID("footstep"), StartTime: 0.2, EndTime: 0.6},
			}},
		},
	}
	// The earliest occurrence wins regardless of item order.
	got, ok := c.SeekEvent("steps", "footstep", 0.5)
	if !ok {
		t.Fatal("SeekEvent reported false")
	}
	if !nearf(got, 0.4) {
		t.Errorf("SeekEvent = %v, want 0.4", got)
	}

	// An empty id matches any event payload on the track.
	got, ok = c.SeekEvent("steps", "", 0.5)
	if !ok {
		t.Fatal("SeekEvent with empty id reported false")
	}
	if !nearf(got, 0.4) {
		t.Errorf("SeekEvent with empty id = %v, want 0.4", got)
	}

	if _, ok := c.SeekEvent("steps", "missing", 0.5); ok {
		t.Error("unknown event should report false")
	}
	if _, ok := c.SeekEvent("missing", "footstep", 0.5); ok {
		t.Error("unknown track should report false")
	}
}
