package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Parse failure sentinels.
var (
	errGLTFVersion  = errors.New("unsupported glTF version, want 2.x")
	errGLBMagic     = errors.New("not a GLB container")
	errGLBVersion   = errors.New("unsupported GLB container version, want 2")
	errGLBNoJSON    = errors.New("GLB container has no JSON chunk")
	errBufferURI    = errors.New("malformed buffer URI")
	errBufferLength = errors.New("buffer shorter than its declared byteLength")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir  string
	document *gltfDocument
	glbBin   []byte
}

// gltfParser loads a glTF 2.0 file and exposes the typed accessor reads
// the skeleton and animation extractors need. Buffers are resolved at
// parse time, whether embedded as data: URIs, stored in external files
// next to the asset, or carried in the binary chunk of a GLB container.
// This is internal to the loader package.
type gltfParser interface {
	// Parse loads and parses a .gltf or .glb file. The container format
	// is detected from the file contents, not the extension.
	//
	// Parameters:
	//   - path: path to the file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// Document returns the parsed document.
	//
	// Returns:
	//   - *gltfDocument: the document, nil before a successful Parse
	Document() *gltfDocument

	// ReadVec3Accessor reads a VEC3 float accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if reading fails
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadVec4Accessor reads a VEC4 float accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][4]float32: the vec4 data
	//   - error: error if reading fails
	ReadVec4Accessor(accessorIndex int) ([][4]float32, error)

	// ReadScalarAccessor reads a SCALAR float accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []float32: the scalar data
	//   - error: error if reading fails
	ReadScalarAccessor(accessorIndex int) ([]float32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser.
//
// Returns:
//   - gltfParser: the parser
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	p.baseDir = filepath.Dir(path)

	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == gltfGLBMagic {
		jsonChunk, bin, err := splitGLB(data)
		if err != nil {
			return err
		}
		p.glbBin = bin
		data = jsonChunk
	}

	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errGLTFVersion
	}
	if err := p.resolveBuffers(&doc); err != nil {
		return err
	}
	p.document = &doc
	return nil
}

// splitGLB walks the chunk list of a GLB container and returns the JSON
// chunk plus the binary chunk when one is present.
func splitGLB(data []byte) (jsonChunk, bin []byte, err error) {
	if len(data) < 12 || binary.LittleEndian.Uint32(data[0:4]) != gltfGLBMagic {
		return nil, nil, errGLBMagic
	}
	if binary.LittleEndian.Uint32(data[4:8]) != gltfGLBVersion {
		return nil, nil, errGLBVersion
	}
	for off := 12; off+8 <= len(data); {
		length := int(binary.LittleEndian.Uint32(data[off : off+4]))
		kind := binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8
		if length < 0 || off+length > len(data) {
			return nil, nil, errors.New("GLB chunk overruns the container")
		}
		switch kind {
		case gltfGLBChunkJSON:
			jsonChunk = data[off : off+length]
		case gltfGLBChunkBIN:
			bin = data[off : off+length]
		}
		off += length
	}
	if jsonChunk == nil {
		return nil, nil, errGLBNoJSON
	}
	return jsonChunk, bin, nil
}

// resolveBuffers fills every buffer's Data. An URI-less buffer 0 takes
// the GLB binary chunk.
func (p *gltfParserImpl) resolveBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.glbBin != nil:
			buf.Data = p.glbBin
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferLength)
		}
	}
	return nil
}

// decodeDataURI decodes a data:[<mediatype>][;base64],<data> URI.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.Index(uri, ",")
	if comma < 0 {
		return nil, errBufferURI
	}
	if !strings.Contains(uri[:comma], "base64") {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	return base64.StdEncoding.DecodeString(uri[comma+1:])
}

// floats reads a float accessor into a flat component slice, honoring an
// interleaved bufferView stride when one is declared.
func (p *gltfParserImpl) floats(accessorIndex int, wantType string, comps int) ([]float32, error) {
	doc := p.document
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]
	if acc.Type != wantType || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor %d is %s/%d, want %s float", accessorIndex, acc.Type, acc.ComponentType, wantType)
	}
	if acc.Sparse != nil {
		return nil, fmt.Errorf("accessor %d: sparse accessors are not supported", accessorIndex)
	}
	if acc.BufferView == nil {
		return nil, fmt.Errorf("accessor %d has no bufferView", accessorIndex)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("accessor %d: bufferView index out of range", accessorIndex)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("accessor %d: buffer index out of range", accessorIndex)
	}
	buf := doc.Buffers[bv.Buffer].Data

	elem := 4 * comps
	stride := elem
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	base := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && base+(acc.Count-1)*stride+elem > len(buf) {
		return nil, fmt.Errorf("accessor %d overruns its buffer", accessorIndex)
	}

	out := make([]float32, acc.Count*comps)
	for i := 0; i < acc.Count; i++ {
		row := buf[base+i*stride:]
		for j := 0; j < comps; j++ {
			out[i*comps+j] = math.Float32frombits(binary.LittleEndian.Uint32(row[4*j:]))
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	flat, err := p.floats(accessorIndex, gltfAccessorTypeVec3, 3)
	if err != nil {
		return nil, err
	}
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		copy(out[i][:], flat[3*i:3*i+3])
	}
	return out, nil
}

func (p *gltfParserImpl) ReadVec4Accessor(accessorIndex int) ([][4]float32, error) {
	flat, err := p.floats(accessorIndex, gltfAccessorTypeVec4, 4)
	if err != nil {
		return nil, err
	}
	out := make([][4]float32, len(flat)/4)
	for i := range out {
		copy(out[i][:], flat[4*i:4*i+4])
	}
	return out, nil
}

func (p *gltfParserImpl) ReadScalarAccessor(accessorIndex int) ([]float32, error) {
	return p.floats(accessorIndex, gltfAccessorTypeScalar, 1)
}
