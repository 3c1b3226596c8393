package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor defines the interface for extracting animation data
// from a parsed glTF document. It converts glTF animation definitions into
// clips with per-bone keyframed curves.
//
// The boneMapping parameter maps glTF node indices to bone paths and is
// produced by the skeleton extractor, ensuring animation channels target the
// skeleton's path-addressed bones.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - clipID: the asset id to give the clip
	//   - skeletonID: the skeleton asset the clip animates
	//   - boneMapping: maps glTF node index to bone path
	//
	// Returns:
	//   - *clip.Clip: the extracted clip
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int, clipID, skeletonID string, boneMapping map[int]skeleton.BoneID) (*clip.Clip, error)

	// AnimationsForSkin returns the indices of animations that target at
	// least one joint of a skin.
	//
	// Parameters:
	//   - skinIndex: the skin whose joint set filters the animations
	//
	// Returns:
	//   - []int: the matching animation indices
	//   - error: error if the skin index is invalid
	AnimationsForSkin(skinIndex int) ([]int, error)

	// AnimationName returns an animation's name, synthesizing one from its
	// index when the asset leaves it unnamed.
	//
	// Parameters:
	//   - animIndex: the index of the animation
	//
	// Returns:
	//   - string: the animation name
	AnimationName(animIndex int) string
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, clipID, skeletonID string, boneMapping map[int]skeleton.BoneID) (*clip.Clip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]

	c := &clip.Clip{
		ID:         clipID,
		SkeletonID: skeletonID,
		Curves:     make(map[skeleton.BoneID][]clip.VariableCurve),
	}

	var maxTime float32

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		// Skip channels with no target node (e.g. morph targets)
		if ch.Target.Node == nil {
			continue
		}

		// Channels targeting nodes outside the skeleton are skipped
		bone, ok := boneMapping[*ch.Target.Node]
		if !ok {
			continue
		}

		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		timestamps, err := e.parser.ReadScalarAccessor(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", anim.Name, i, err)
		}
		if len(timestamps) > 0 {
			if t := timestamps[len(timestamps)-1]; t > maxTime {
				maxTime = t
			}
		}

		vc := clip.VariableCurve{
			Timestamps:    timestamps,
			Interpolation: gltfInterpolation(sampler.Interpolation),
		}

		switch ch.Target.Path {
		case gltfAnimPathTranslation:
			values, err := e.parser.ReadVec3Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read translation values: %w", anim.Name, i, err)
			}
			vc.Translations = gltfVec3Values(values)

		case gltfAnimPathRotation:
			values, err := e.parser.ReadVec4Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read rotation values: %w", anim.Name, i, err)
			}
			vc.Rotations = gltfQuatValues(values)

		case gltfAnimPathScale:
			values, err := e.parser.ReadVec3Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read scale values: %w", anim.Name, i, err)
			}
			vc.Scales = gltfVec3Values(values)

		case gltfAnimPathWeights:
			// Morph target weights are not supported; skip
			continue
		}

		c.Curves[bone] = append(c.Curves[bone], vc)
	}

	// glTF timestamps are always in seconds
	c.Duration = maxTime

	return c, nil
}

func (e *gltfAnimationExtractorImpl) AnimationsForSkin(skinIndex int) ([]int, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}

	jointSet := make(map[int]bool)
	for _, j := range doc.Skins[skinIndex].Joints {
		jointSet[j] = true
	}

	var matches []int
	for animIdx := range doc.Animations {
		for _, ch := range doc.Animations[animIdx].Channels {
			if ch.Target.Node != nil && jointSet[*ch.Target.Node] {
				matches = append(matches, animIdx)
				break
			}
		}
	}
	return matches, nil
}

func (e *gltfAnimationExtractorImpl) AnimationName(animIndex int) string {
	doc := e.parser.Document()
	if doc == nil || animIndex < 0 || animIndex >= len(doc.Animations) {
		return fmt.Sprintf("animation_%d", animIndex)
	}
	if name := doc.Animations[animIndex].Name; name != "" {
		return name
	}
	return fmt.Sprintf("animation_%d", animIndex)
}

// --- Helper Functions ---

// gltfInterpolation maps a glTF sampler interpolation mode. The default
// (and any unknown mode) is linear, per the glTF spec.
func gltfInterpolation(mode string) clip.Interpolation {
	switch mode {
	case gltfAnimInterpolationStep:
		return clip.InterpolationStep
	case gltfAnimInterpolationCubicSpline:
		return clip.InterpolationCubicSpline
	default:
		return clip.InterpolationLinear
	}
}

func gltfVec3Values(in [][3]float32) []common.Vec3 {
	out := make([]common.Vec3, len(in))
	for i, v := range in {
		out[i] = common.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return out
}

func gltfQuatValues(in [][4]float32) []common.Quat {
	out := make([]common.Quat, len(in))
	for i, v := range in {
		out[i] = common.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
	}
	return out
}
