// package loader imports skeletons and animation clips from glTF 2.0
// files (.gltf and .glb) so authored character assets can feed animation
// graphs directly. Meshes, materials and everything else visual in the
// file are ignored.
package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// AssetSink receives imported assets. The assets package's Library
// satisfies it.
type AssetSink interface {
	// AddClip registers a clip asset.
	//
	// Parameters:
	//   - c: the clip
	AddClip(c *clip.Clip)

	// AddSkeleton registers a skeleton asset.
	//
	// Parameters:
	//   - id: the asset id
	//   - s: the skeleton
	AddSkeleton(id string, s skeleton.Skeleton)
}

// Import is the result of importing one glTF file: every skin becomes a
// skeleton, every animation targeting a skin becomes a clip bound to that
// skeleton.
type Import struct {
	// Skeletons holds the imported skeletons by asset id.
	Skeletons map[string]skeleton.Skeleton

	// Clips holds the imported clips.
	Clips []*clip.Clip
}

// loaderImpl is the implementation of the Loader interface.
type loaderImpl struct {
	idPrefix string
}

// Loader imports skeletal animation data from glTF files.
type Loader interface {
	// ImportFile imports all skeletons and clips from a glTF/GLB file.
	//
	// Parameters:
	//   - path: path to the .gltf or .glb file
	//
	// Returns:
	//   - *Import: the imported skeletons and clips
	//   - error: error if parsing or extraction fails
	ImportFile(path string) (*Import, error)

	// ImportInto imports a glTF/GLB file and registers everything it
	// yields with an asset sink.
	//
	// Parameters:
	//   - sink: the sink to register into, typically an asset library
	//   - path: path to the .gltf or .glb file
	//
	// Returns:
	//   - error: error if parsing or extraction fails
	ImportInto(sink AssetSink, path string) error
}

// Ensure loaderImpl implements Loader interface.
var _ Loader = &loaderImpl{}

// NewLoader creates a glTF loader.
//
// Parameters:
//   - options: functional options to further configure the loader
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loaderImpl{}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loaderImpl) ImportFile(path string) (*Import, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	doc := parser.Document()
	skeletonExtractor := newGLTFSkeletonExtractor(parser)
	animExtractor := newGLTFAnimationExtractor(parser)

	out := &Import{Skeletons: make(map[string]skeleton.Skeleton)}
	multiSkin := len(doc.Skins) > 1

	for skinIdx := range doc.Skins {
		skelID := l.idPrefix + gltfSkinName(doc, skinIdx)

		s, boneMapping, err := skeletonExtractor.ExtractSkeleton(skinIdx)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		out.Skeletons[skelID] = s

		animIndices, err := animExtractor.AnimationsForSkin(skinIdx)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		for _, animIdx := range animIndices {
			clipID := l.idPrefix + animExtractor.AnimationName(animIdx)
			if multiSkin {
				// The same animation can target several skins, so clip ids
				// are qualified by skeleton when the file has more than one.
				clipID = skelID + "/" + animExtractor.AnimationName(animIdx)
			}
			c, err := animExtractor.ExtractAnimation(animIdx, clipID, skelID, boneMapping)
			if err != nil {
				return nil, fmt.Errorf("import %s: %w", path, err)
			}
			out.Clips = append(out.Clips, c)
		}
	}

	return out, nil
}

func (l *loaderImpl) ImportInto(sink AssetSink, path string) error {
	imp, err := l.ImportFile(path)
	if err != nil {
		return err
	}
	for id, s := range imp.Skeletons {
		sink.AddSkeleton(id, s)
	}
	for _, c := range imp.Clips {
		sink.AddClip(c)
	}
	return nil
}

// gltfSkinName returns a skin's name, synthesizing one from its index when
// the asset leaves it unnamed.
func gltfSkinName(doc *gltfDocument, skinIndex int) string {
	if name := doc.Skins[skinIndex].Name; name != "" {
		return name
	}
	return fmt.Sprintf("skeleton_%d", skinIndex)
}
