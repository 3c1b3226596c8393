// glTF 2.0 document model, trimmed to what skeletal animation import
// reads: the node hierarchy, skins, animations, and the accessor chain
// down to raw buffers. Meshes, materials and everything else in the file
// fall away as unknown JSON fields.
package loader

type gltfDocument struct {
	Asset       gltfAsset        `json:"asset"`
	Nodes       []gltfNode       `json:"nodes,omitempty"`
	Accessors   []gltfAccessor   `json:"accessors,omitempty"`
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`
	Buffers     []gltfBuffer     `json:"buffers,omitempty"`
	Skins       []gltfSkin       `json:"skins,omitempty"`
	Animations  []gltfAnimation  `json:"animations,omitempty"`
}

type gltfAsset struct {
	// Version must be "2.x" for the parser to accept the file.
	Version string `json:"version"`
}

type gltfNode struct {
	Name     string `json:"name,omitempty"`
	Children []int  `json:"children,omitempty"`
}

type gltfAccessor struct {
	BufferView    *int   `json:"bufferView,omitempty"`
	ByteOffset    int    `json:"byteOffset,omitempty"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
	// Sparse storage is detected and rejected; only presence matters.
	Sparse *gltfAccessorSparse `json:"sparse,omitempty"`
}

type gltfAccessorSparse struct{}

type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset,omitempty"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride,omitempty"`
}

type gltfBuffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
	// Data is filled when buffers are resolved, not decoded from JSON.
	Data []byte `json:"-"`
}

type gltfSkin struct {
	Name string `json:"name,omitempty"`
	// Joints are node indices; the bone hierarchy is recovered from the
	// nodes' child lists.
	Joints []int `json:"joints"`
}

type gltfAnimation struct {
	Name     string            `json:"name,omitempty"`
	Channels []gltfAnimChannel `json:"channels"`
	Samplers []gltfAnimSampler `json:"samplers"`
}

type gltfAnimChannel struct {
	Sampler int            `json:"sampler"`
	Target  gltfAnimTarget `json:"target"`
}

type gltfAnimTarget struct {
	// Node is absent for channels that animate non-node properties.
	Node *int   `json:"node,omitempty"`
	Path string `json:"path"`
}

type gltfAnimSampler struct {
	Input         int    `json:"input"`
	Output        int    `json:"output"`
	Interpolation string `json:"interpolation,omitempty"`
}

// Accessor element types the importer reads.
const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
)

// gltfComponentTypeFloat is the only component type animation samplers
// carry.
const gltfComponentTypeFloat = 5126

// Sampler interpolation modes; anything else decodes as linear.
const (
	gltfAnimInterpolationStep        = "STEP"
	gltfAnimInterpolationCubicSpline = "CUBICSPLINE"
)

// Channel target paths.
const (
	gltfAnimPathTranslation = "translation"
	gltfAnimPathRotation    = "rotation"
	gltfAnimPathScale       = "scale"
	gltfAnimPathWeights     = "weights"
)

// GLB container framing, little-endian.
const (
	gltfGLBMagic     = 0x46546C67 // "glTF"
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON"
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0"
)
