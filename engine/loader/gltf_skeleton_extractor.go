package loader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor defines the interface for extracting skeleton data
// from a parsed glTF document. It converts glTF skin definitions into bone
// hierarchies keyed by slash-joined bone paths.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton extracts a skeleton from a skin by index.
	// The returned mapping translates glTF node indices into bone paths and
	// is consumed by the animation extractor to retarget channels.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//
	// Returns:
	//   - skeleton.Skeleton: the extracted skeleton
	//   - map[int]skeleton.BoneID: glTF node index to bone path
	//   - error: error if extraction fails
	ExtractSkeleton(skinIndex int) (skeleton.Skeleton, map[int]skeleton.BoneID, error)
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (skeleton.Skeleton, map[int]skeleton.BoneID, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, fmt.Errorf("no document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}

	skin := &doc.Skins[skinIndex]
	if len(skin.Joints) == 0 {
		return nil, nil, fmt.Errorf("skin %d has no joints", skinIndex)
	}

	jointSet := make(map[int]bool, len(skin.Joints))
	for _, j := range skin.Joints {
		if j < 0 || j >= len(doc.Nodes) {
			return nil, nil, fmt.Errorf("skin %d: invalid joint node index %d", skinIndex, j)
		}
		jointSet[j] = true
	}

	// Parent relationships over the whole node hierarchy; a joint's parent
	// only counts when the parent is itself a joint of this skin.
	parents := make(map[int]int)
	for nodeIdx, node := range doc.Nodes {
		for _, child := range node.Children {
			parents[child] = nodeIdx
		}
	}

	// Build slash-joined paths from the topmost joint down to each joint.
	var root skeleton.BoneID
	boneMapping := make(map[int]skeleton.BoneID, len(skin.Joints))
	paths := make([]skeleton.BoneID, 0, len(skin.Joints))

	for _, joint := range skin.Joints {
		chain := []string{gltfNodeName(doc, joint)}
		cur := joint
		for {
			parent, ok := parents[cur]
			if !ok || !jointSet[parent] {
				break
			}
			chain = append([]string{gltfNodeName(doc, parent)}, chain...)
			cur = parent
		}

		path := skeleton.BoneID(strings.Join(chain, "/"))
		top := skeleton.BoneID(chain[0])
		if root == "" {
			root = top
		} else if root != top {
			return nil, nil, fmt.Errorf("skin %d has multiple root joints (%q and %q)", skinIndex, root, top)
		}

		boneMapping[joint] = path
		paths = append(paths, path)
	}

	s, err := skeleton.NewSkeleton(root, paths)
	if err != nil {
		return nil, nil, fmt.Errorf("skin %d: %w", skinIndex, err)
	}
	return s, boneMapping, nil
}

// gltfNodeName returns a node's name, synthesizing one from its index when
// the asset leaves it unnamed.
func gltfNodeName(doc *gltfDocument, nodeIndex int) string {
	if name := doc.Nodes[nodeIndex].Name; name != "" {
		return name
	}
	return fmt.Sprintf("node_%d", nodeIndex)
}
