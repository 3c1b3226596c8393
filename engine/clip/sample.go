package clip

import (
	"sort"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/pose"
)

// window locates the keyframe pair bracketing time t. Queries before the
// first or after the last keyframe wrap against the opposite end of the
// curve, offset by the clip duration, so looping playback interpolates
// smoothly across the seam.
//
// Returns the indices of the previous and next keyframes, the local
// interpolation fraction between them, and the segment duration.
func (vc VariableCurve) window(t, clipDuration float32) (prev, next int, frac, segment float32) {
	ts := vc.Timestamps
	n := len(ts)
	if n == 1 {
		return 0, 0, 0, 0
	}

	switch {
	case t < ts[0]:
		// Before the first keyframe: the last keyframe, shifted one clip
		// length back, is the previous sample.
		prev, next = n-1, 0
		start := ts[n-1] - clipDuration
		segment = ts[0] - start
		if segment > 0 {
			frac = (t - start) / segment
		}
	case t >= ts[n-1]:
		prev, next = n-1, 0
		segment = ts[0] + clipDuration - ts[n-1]
		if segment > 0 {
			frac = (t - ts[n-1]) / segment
		}
	default:
		prev = sort.Search(n-1, func(i int) bool { return ts[i+1] > t })
		next = prev + 1
		segment = ts[next] - ts[prev]
		if segment > 0 {
			frac = (t - ts[prev]) / segment
		}
	}
	frac = common.Clamp(frac, 0, 1)
	return prev, next, frac, segment
}

// apply samples the curve at time t and writes the result into the bone
// pose, setting whichever channel this curve animates.
func (vc VariableCurve) apply(bp *pose.BonePose, t, clipDuration float32) {
	if len(vc.Timestamps) == 0 {
		return
	}
	prev, next, frac, segment := vc.window(t, clipDuration)

	switch {
	case vc.Rotations != nil:
		bp.Rotation = vc.sampleRotation(prev, next, frac, segment)
		bp.HasRotation = true
	case vc.Translations != nil:
		bp.Translation = vc.sampleVec3(vc.Translations, prev, next, frac, segment)
		bp.HasTranslation = true
	case vc.Scales != nil:
		bp.Scale = vc.sampleVec3(vc.Scales, prev, next, frac, segment)
		bp.HasScale = true
	case vc.Weights != nil:
		bp.Weights = vc.sampleWeights(prev, next, frac, segment)
	}
}

func (vc VariableCurve) sampleRotation(prev, next int, frac, segment float32) common.Quat {
	switch vc.Interpolation {
	case InterpolationStep:
		return vc.Rotations[prev]
	case InterpolationCubicSpline:
		v0 := vc.Rotations[prev*3+1]
		m0 := vc.Rotations[prev*3+2]
		m1 := vc.Rotations[next*3]
		v1 := vc.Rotations[next*3+1]
		// Shortest-path: flip the whole next keyframe triplet when the
		// endpoint values straddle hemispheres.
		if v0.Dot(v1) < 0 {
			v1 = v1.Scale(-1)
			m1 = m1.Scale(-1)
		}
		return common.Quat{
			X: cubicSpline(v0.X, m0.X, v1.X, m1.X, frac, segment),
			Y: cubicSpline(v0.Y, m0.Y, v1.Y, m1.Y, frac, segment),
			Z: cubicSpline(v0.Z, m0.Z, v1.Z, m1.Z, frac, segment),
			W: cubicSpline(v0.W, m0.W, v1.W, m1.W, frac, segment),
		}.Normalize()
	default:
		a := vc.Rotations[prev]
		b := vc.Rotations[next]
		if a.Dot(b) < 0 {
			b = b.Scale(-1)
		}
		return a.Slerp(b, frac)
	}
}

func (vc VariableCurve) sampleVec3(ch []common.Vec3, prev, next int, frac, segment float32) common.Vec3 {
	switch vc.Interpolation {
	case InterpolationStep:
		return ch[prev]
	case InterpolationCubicSpline:
		v0 := ch[prev*3+1]
		m0 := ch[prev*3+2]
		m1 := ch[next*3]
		v1 := ch[next*3+1]
		return common.Vec3{
			X: cubicSpline(v0.X, m0.X, v1.X, m1.X, frac, segment),
			Y: cubicSpline(v0.Y, m0.Y, v1.Y, m1.Y, frac, segment),
			Z: cubicSpline(v0.Z, m0.Z, v1.Z, m1.Z, frac, segment),
		}
	default:
		return ch[prev].Lerp(ch[next], frac)
	}
}

func (vc VariableCurve) sampleWeights(prev, next int, frac, segment float32) []float32 {
	switch vc.Interpolation {
	case InterpolationStep:
		out := make([]float32, len(vc.Weights[prev]))
		copy(out, vc.Weights[prev])
		return out
	case InterpolationCubicSpline:
		v0 := vc.Weights[prev*3+1]
		m0 := vc.Weights[prev*3+2]
		m1 := vc.Weights[next*3]
		v1 := vc.Weights[next*3+1]
		n := min(len(v0), len(v1))
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = cubicSpline(v0[i], m0[i], v1[i], m1[i], frac, segment)
		}
		return out
	default:
		a := vc.Weights[prev]
		b := vc.Weights[next]
		n := min(len(a), len(b))
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = common.Lerp(a[i], b[i], frac)
		}
		return out
	}
}

// cubicSpline evaluates the cubic Hermite basis at local parameter t over
// a segment of the given duration. At t=0 it returns exactly valueStart,
// at t=1 exactly valueEnd, for any tangents.
func cubicSpline(valueStart, tangentOut, valueEnd, tangentIn, t, duration float32) float32 {
	t2 := t * t
	t3 := t2 * t
	return valueStart*(2*t3-3*t2+1) +
		tangentOut*duration*(t3-2*t2+t) +
		valueEnd*(-2*t3+3*t2) +
		tangentIn*duration*(t3-t2)
}
