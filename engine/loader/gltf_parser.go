package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Common errors returned by the parser
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errNoDocument         = errors.New("no document loaded")
	errChunkTooLarge      = errors.New("GLB chunk longer than remaining data")
	errInvalidAccessor    = errors.New("invalid accessor layout")
)

// bufferResolver fetches an external buffer referenced by a relative or absolute URI.
type bufferResolver func(ctx context.Context, uri string) ([]byte, error)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	resolve        bufferResolver
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser decodes glTF JSON or GLB bytes and reads typed accessor data.
type gltfParser interface {
	// Parse decodes a glTF document. GLB is detected from the magic number.
	// External buffers are loaded through the parser's resolver.
	//
	// Parameters:
	//   - ctx: context for external buffer fetches
	//   - data: the complete file contents
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(ctx context.Context, data []byte) error

	// Document returns the parsed glTF document, or nil before a successful Parse.
	Document() *gltfDocument

	// ReadAccessorData reads the tightly packed raw bytes of an accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []byte: the raw data
	//   - error: error if reading fails
	ReadAccessorData(accessorIndex int) ([]byte, error)

	// ReadVec3Accessor reads an accessor as vec3 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if reading fails
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadIndicesAccessor reads an accessor as index data.
	// Handles UNSIGNED_BYTE, UNSIGNED_SHORT, and UNSIGNED_INT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the index data widened to uint32
	//   - error: error if reading fails
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a parser that loads external buffers through resolve.
// A nil resolver rejects any non-data URI.
func newGLTFParser(resolve bufferResolver) gltfParser {
	if resolve == nil {
		resolve = func(_ context.Context, uri string) ([]byte, error) {
			return nil, fmt.Errorf("%w: no resolver for %q", errInvalidBufferURI, uri)
		}
	}
	return &gltfParserImpl{resolve: resolve}
}

// isGLB reports whether data starts with the GLB magic number.
func isGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(ctx context.Context, data []byte) error {
	if isGLB(data) {
		return p.parseGLB(ctx, data)
	}
	return p.parseGLTF(ctx, data)
}

func (p *gltfParserImpl) parseGLTF(ctx context.Context, data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	return p.finish(ctx, &doc)
}

// parseGLB parses a GLB binary container.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParserImpl) parseGLB(ctx context.Context, data []byte) error {
	if len(data) < 12 {
		return errors.New("GLB file too small")
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData, binData []byte
	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}

		if int64(chunkHeader.ChunkLength) > int64(r.Len()) {
			return fmt.Errorf("%w: chunk %d bytes, %d left", errChunkTooLarge, chunkHeader.ChunkLength, r.Len())
		}
		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = chunkData
		case gltfGLBChunkBIN:
			binData = chunkData
		}
	}

	if jsonData == nil {
		return errMissingJSONChunk
	}
	p.glbBinaryChunk = binData

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	return p.finish(ctx, &doc)
}

func (p *gltfParserImpl) finish(ctx context.Context, doc *gltfDocument) error {
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if len(doc.ExtensionsRequired) > 0 {
		return fmt.Errorf("%w: required extensions %s", ErrUnsupportedFormat, strings.Join(doc.ExtensionsRequired, ", "))
	}
	if err := p.loadBuffers(ctx, doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}
	p.document = doc
	return nil
}

// loadBuffers fills every buffer from the GLB binary chunk, a data URI, or the resolver.
func (p *gltfParserImpl) loadBuffers(ctx context.Context, doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		if buf.URI == "" {
			if i == 0 && p.glbBinaryChunk != nil {
				buf.Data = p.glbBinaryChunk
			} else {
				return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
			}
		} else {
			data, err := p.loadBufferURI(ctx, buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

func (p *gltfParserImpl) loadBufferURI(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		return decodeDataURI(uri)
	}
	data, err := p.resolve(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer %q: %w", uri, err)
	}
	return data, nil
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidBufferURI
	}

	header := uri[5:commaIdx]
	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}

	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// --- Accessor Data Reading ---

func (p *gltfParserImpl) accessor(accessorIndex int) (*gltfAccessor, error) {
	if p.document == nil {
		return nil, errNoDocument
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	return &p.document.Accessors[accessorIndex], nil
}

func (p *gltfParserImpl) ReadAccessorData(accessorIndex int) ([]byte, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Sparse != nil {
		return nil, errors.New("sparse accessors not supported")
	}
	if acc.BufferView == nil {
		return nil, errors.New("accessor has no bufferView")
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("bufferView index %d out of range", *acc.BufferView)
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}
	buf := &p.document.Buffers[bv.Buffer]

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 {
		return nil, fmt.Errorf("unsupported accessor layout %s/%d", acc.Type, acc.ComponentType)
	}

	if acc.Count < 0 || acc.ByteOffset < 0 || bv.ByteOffset < 0 {
		return nil, fmt.Errorf("%w: accessor %d has count %d, offsets %d/%d", errInvalidAccessor, accessorIndex, acc.Count, bv.ByteOffset, acc.ByteOffset)
	}
	if bv.ByteStride != nil && *bv.ByteStride < 0 {
		return nil, fmt.Errorf("%w: accessor %d has stride %d", errInvalidAccessor, accessorIndex, *bv.ByteStride)
	}
	if acc.Count > len(buf.Data) {
		return nil, fmt.Errorf("accessor %d count %d exceeds buffer of %d bytes", accessorIndex, acc.Count, len(buf.Data))
	}

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	bufferOffset := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := bufferOffset + (acc.Count-1)*stride + elementSize
		if end > len(buf.Data) {
			return nil, fmt.Errorf("accessor %d reads past end of buffer (%d > %d)", accessorIndex, end, len(buf.Data))
		}
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		srcOffset := bufferOffset + i*stride
		dstOffset := i * elementSize
		copy(result[dstOffset:dstOffset+elementSize], buf.Data[srcOffset:srcOffset+elementSize])
	}
	return result, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeVec3 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC3 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([][3]float32, acc.Count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := range result {
			result[i] = uint32(data[i])
		}
	case gltfComponentTypeUnsignedShort:
		for i := range result {
			result[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case gltfComponentTypeUnsignedInt:
		for i := range result {
			result[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}
	return result, nil
}

// --- Helper Functions ---

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
