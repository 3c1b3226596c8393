package pose

import "github.com/Carmen-Shannon/rig-go/common"

// eitherOrMix merges two optional channels: when both are present the mix
// function decides, otherwise the present channel wins unchanged.
func eitherOrMix[T any](hasA bool, a T, hasB bool, b T, mix func(a, b T) T) (T, bool) {
	switch {
	case hasA && hasB:
		return mix(a, b), true
	case hasA:
		return a, true
	case hasB:
		return b, true
	default:
		var zero T
		return zero, false
	}
}

func mixWeights(a, b []float32, mix func(a, b float32) float32) []float32 {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	n := min(len(a), len(b))
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = mix(a[i], b[i])
	}
	return out
}

// InterpolateLinear blends two bone transforms channel by channel:
// slerp for rotation, lerp for translation, scale and weights. The factor
// is not clamped; out-of-range factors extrapolate.
//
// Parameters:
//   - o: the target transform
//   - f: the interpolation factor
//
// Returns:
//   - BonePose: the blended transform
func (bp BonePose) InterpolateLinear(o BonePose, f float32) BonePose {
	var out BonePose
	out.Rotation, out.HasRotation = eitherOrMix(bp.HasRotation, bp.Rotation, o.HasRotation, o.Rotation,
		func(a, b common.Quat) common.Quat { return a.Slerp(b, f) })
	out.Translation, out.HasTranslation = eitherOrMix(bp.HasTranslation, bp.Translation, o.HasTranslation, o.Translation,
		func(a, b common.Vec3) common.Vec3 { return a.Lerp(b, f) })
	out.Scale, out.HasScale = eitherOrMix(bp.HasScale, bp.Scale, o.HasScale, o.Scale,
		func(a, b common.Vec3) common.Vec3 { return a.Lerp(b, f) })
	out.Weights = mixWeights(bp.Weights, o.Weights, func(a, b float32) float32 { return common.Lerp(a, b, f) })
	return out
}

// AdditiveBlend layers an additive transform on top of a base transform.
// The rotation channel slerps from the base toward the base with the
// additive rotation applied, so alpha scales how much of the additive
// offset is taken. Translation, scale and weights add scaled by alpha.
//
// Parameters:
//   - o: the additive transform
//   - alpha: the additive layer weight
//
// Returns:
//   - BonePose: the layered transform
func (bp BonePose) AdditiveBlend(o BonePose, alpha float32) BonePose {
	var out BonePose
	out.Rotation, out.HasRotation = eitherOrMix(bp.HasRotation, bp.Rotation, o.HasRotation, o.Rotation,
		func(a, b common.Quat) common.Quat { return a.Slerp(b.Mul(a), alpha) })
	out.Translation, out.HasTranslation = eitherOrMix(bp.HasTranslation, bp.Translation, o.HasTranslation, o.Translation,
		func(a, b common.Vec3) common.Vec3 { return a.Add(b.Scale(alpha)) })
	out.Scale, out.HasScale = eitherOrMix(bp.HasScale, bp.Scale, o.HasScale, o.Scale,
		func(a, b common.Vec3) common.Vec3 { return a.Add(b.Scale(alpha)) })
	out.Weights = mixWeights(bp.Weights, o.Weights, func(a, b float32) float32 { return a + b*alpha })
	return out
}

// Difference computes the additive delta that takes this transform to the
// other: rotation is the relative rotation other * inverse(base), the
// remaining channels subtract.
//
// Parameters:
//   - o: the target transform
//
// Returns:
//   - BonePose: the delta transform, suitable for AdditiveBlend
func (bp BonePose) Difference(o BonePose) BonePose {
	var out BonePose
	out.Rotation, out.HasRotation = eitherOrMix(bp.HasRotation, bp.Rotation, o.HasRotation, o.Rotation,
		func(a, b common.Quat) common.Quat { return b.Mul(a.Inverse()) })
	out.Translation, out.HasTranslation = eitherOrMix(bp.HasTranslation, bp.Translation, o.HasTranslation, o.Translation,
		func(a, b common.Vec3) common.Vec3 { return b.Sub(a) })
	out.Scale, out.HasScale = eitherOrMix(bp.HasScale, bp.Scale, o.HasScale, o.Scale,
		func(a, b common.Vec3) common.Vec3 { return b.Sub(a) })
	out.Weights = mixWeights(bp.Weights, o.Weights, func(a, b float32) float32 { return b - a })
	return out
}

// ScalarMult scales every channel by a factor, treating quaternions as
// raw 4-vectors. Used for linearized weighted averaging in blend spaces;
// the result is only meaningful after a LinearAdd chain followed by
// NormalizeQuat.
//
// Parameters:
//   - f: the scalar factor
//
// Returns:
//   - BonePose: the scaled transform
func (bp BonePose) ScalarMult(f float32) BonePose {
	out := bp
	if out.HasRotation {
		out.Rotation = out.Rotation.Scale(f)
	}
	if out.HasTranslation {
		out.Translation = out.Translation.Scale(f)
	}
	if out.HasScale {
		out.Scale = out.Scale.Scale(f)
	}
	if out.Weights != nil {
		ws := make([]float32, len(out.Weights))
		for i, w := range out.Weights {
			ws[i] = w * f
		}
		out.Weights = ws
	}
	return out
}

// LinearAdd adds two transforms channel-wise. Quaternions add as raw
// 4-vectors, with the second operand negated when the two rotations lie
// in opposite hemispheres so the sum stays on the short arc.
//
// Parameters:
//   - o: the transform to add
//
// Returns:
//   - BonePose: the summed transform
func (bp BonePose) LinearAdd(o BonePose) BonePose {
	var out BonePose
	out.Rotation, out.HasRotation = eitherOrMix(bp.HasRotation, bp.Rotation, o.HasRotation, o.Rotation,
		func(a, b common.Quat) common.Quat {
			if a.Dot(b) < 0 {
				return a.Sub(b)
			}
			return a.Add(b)
		})
	out.Translation, out.HasTranslation = eitherOrMix(bp.HasTranslation, bp.Translation, o.HasTranslation, o.Translation,
		func(a, b common.Vec3) common.Vec3 { return a.Add(b) })
	out.Scale, out.HasScale = eitherOrMix(bp.HasScale, bp.Scale, o.HasScale, o.Scale,
		func(a, b common.Vec3) common.Vec3 { return a.Add(b) })
	out.Weights = mixWeights(bp.Weights, o.Weights, func(a, b float32) float32 { return a + b })
	return out
}

// NormalizeQuat renormalizes the rotation channel to unit length.
//
// Returns:
//   - BonePose: the transform with a unit rotation
func (bp BonePose) NormalizeQuat() BonePose {
	out := bp
	if out.HasRotation {
		out.Rotation = out.Rotation.Normalize()
	}
	return out
}

// InterpolateLinear blends two poses over the union of their bone sets.
// Bones present in only one pose pass through unmodified. The result
// keeps the first operand's timestamp.
//
// Parameters:
//   - o: the target pose
//   - f: the interpolation factor (unclamped)
//
// Returns:
//   - Pose: the blended pose
func (p Pose) InterpolateLinear(o Pose, f float32) Pose {
	return p.combine(o, func(a, b BonePose) BonePose { return a.InterpolateLinear(b, f) })
}

// AdditiveBlend layers an additive pose on top of this pose.
//
// Parameters:
//   - o: the additive pose (typically produced by Difference)
//   - alpha: the additive layer weight
//
// Returns:
//   - Pose: the layered pose
func (p Pose) AdditiveBlend(o Pose, alpha float32) Pose {
	return p.combine(o, func(a, b BonePose) BonePose { return a.AdditiveBlend(b, alpha) })
}

// Difference computes the per-bone additive delta from this pose to the
// other.
//
// Parameters:
//   - o: the target pose
//
// Returns:
//   - Pose: the delta pose
func (p Pose) Difference(o Pose) Pose {
	return p.combine(o, func(a, b BonePose) BonePose { return a.Difference(b) })
}

// ScalarMult scales every bone transform by a factor. See
// BonePose.ScalarMult for the quaternion caveat.
//
// Parameters:
//   - f: the scalar factor
//
// Returns:
//   - Pose: the scaled pose
func (p Pose) ScalarMult(f float32) Pose {
	return p.mapBones(func(bp BonePose) BonePose { return bp.ScalarMult(f) })
}

// LinearAdd adds two poses bone by bone.
//
// Parameters:
//   - o: the pose to add
//
// Returns:
//   - Pose: the summed pose
func (p Pose) LinearAdd(o Pose) Pose {
	return p.combine(o, func(a, b BonePose) BonePose { return a.LinearAdd(b) })
}

// NormalizeQuat renormalizes every bone's rotation channel.
//
// Returns:
//   - Pose: the pose with unit rotations
func (p Pose) NormalizeQuat() Pose {
	return p.mapBones(func(bp BonePose) BonePose { return bp.NormalizeQuat() })
}
