// package clip holds the animation clip representation: per-bone keyframe
// curves with linear, step or cubic-spline interpolation, plus the event
// tracks authored against the clip's timeline. Clips are immutable assets
// shared read-only across players; sampling allocates the output pose only.
package clip

import (
	"sort"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/events"
	"github.com/Carmen-Shannon/rig-go/engine/pose"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// Interpolation selects how a curve blends between adjacent keyframes.
type Interpolation uint8

const (
	// InterpolationLinear lerps (slerps for rotations) between keyframes.
	InterpolationLinear Interpolation = iota
	// InterpolationStep holds each keyframe until the next one starts.
	InterpolationStep
	// InterpolationCubicSpline evaluates a cubic Hermite spline. Keyframe
	// channels store three entries per keyframe: in-tangent, value,
	// out-tangent.
	InterpolationCubicSpline
)

// VariableCurve is a keyframed animation channel for one bone. Exactly one
// of the channel slices is populated. For Linear and Step interpolation the
// channel slice has one entry per timestamp; for CubicSpline it has three
// (in-tangent, value, out-tangent).
type VariableCurve struct {
	// Timestamps holds the keyframe times in strictly increasing order.
	Timestamps []float32
	// Rotations is the rotation channel, if this curve animates rotation.
	Rotations []common.Quat
	// Translations is the translation channel.
	Translations []common.Vec3
	// Scales is the scale channel.
	Scales []common.Vec3
	// Weights holds morph weight arrays, one per keyframe entry.
	Weights [][]float32
	// Interpolation selects the blending mode between keyframes.
	Interpolation Interpolation
}

// Clip is an immutable animation asset: a set of per-bone curves, an
// authored duration and named event tracks.
type Clip struct {
	// ID is the asset identifier.
	ID string
	// SkeletonID references the skeleton this clip animates.
	SkeletonID string
	// Curves maps bones to their animation channels.
	Curves map[skeleton.BoneID][]VariableCurve
	// Duration is the authored clip length in seconds.
	Duration float32
	// EventTracks holds the clip's event tracks by name.
	EventTracks map[string]events.EventTrack
}

// Sample evaluates every curve at the given time and assembles the
// resulting pose. The pose timestamp is the query time, unclamped.
//
// Parameters:
//   - t: the animation time to sample at
//
// Returns:
//   - pose.Pose: the sampled pose
func (c *Clip) Sample(t float32) pose.Pose {
	out := pose.NewPose(c.SkeletonID)
	out.Timestamp = t
	for bone, curves := range c.Curves {
		var bp pose.BonePose
		for _, vc := range curves {
			vc.apply(&bp, t, c.Duration)
		}
		out.Add(bone, bp)
	}
	return out
}

// SampleEvents samples every event track at the given time. Tracks are
// visited in sorted name order so the queue is deterministic.
//
// Parameters:
//   - t: the animation time to sample at
//
// Returns:
//   - events.EventQueue: all events active at t across all tracks
func (c *Clip) SampleEvents(t float32) events.EventQueue {
	names := make([]string, 0, len(c.EventTracks))
	for name := range c.EventTracks {
		names = append(names, name)
	}
	sort.Strings(names)
	var q events.EventQueue
	for _, name := range names {
		q.Events = append(q.Events, c.EventTracks[name].Sample(t)...)
	}
	return q
}

// SeekEvent resolves a percent-of-event reference against one of the
// clip's tracks.
//
// Parameters:
//   - track: the track name
//   - eventID: the string event identifier
//   - percent: the fraction through the event window
//
// Returns:
//   - float32: the absolute timestamp
//   - bool: false if the track or event does not exist
func (c *Clip) SeekEvent(track, eventID string, percent float32) (float32, bool) {
	tr, ok := c.EventTracks[track]
	if !ok {
		return 0, false
	}
	return tr.SeekEvent(eventID, percent)
}
