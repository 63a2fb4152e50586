// Package tds decodes 3D Studio .3ds model files into a scene graph.
//
// A 3DS file is a tree of chunks, each tagged with a 16-bit type code and a
// 32-bit total size that includes its own 6-byte header. The decoder walks
// the tree with a single generic envelope/sequence engine and fails the
// whole parse on any size-accounting violation; unrecognized chunk types
// are skipped whole, which keeps old readers compatible with extended
// files.
package tds

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Decode errors.
var (
	ErrInvalidMagic      = errors.New("invalid 3DS magic")
	ErrMalformedHeader   = errors.New("malformed chunk header: size below minimum")
	ErrTruncatedData     = errors.New("truncated 3DS data")
	ErrSizeMismatch      = errors.New("chunk sizes do not add up to parent size")
	ErrChunkSizeMismatch = errors.New("chunk content size mismatch")
	ErrStringTooLong     = errors.New("unterminated string")
)

// errUnknownChunk is returned by handlers for chunk types they do not
// recognize; the envelope reader skips such chunks whole.
var errUnknownChunk = errors.New("unknown chunk type")

// chunkHeaderSize is the [uint16 type][int32 size] prefix of every chunk.
const chunkHeaderSize = 6

// Chunk type codes.
const (
	chunkMagic                uint16 = 0x4d4d
	chunkColorFloat           uint16 = 0x0010
	chunkColor24              uint16 = 0x0011
	chunkIntPercentage        uint16 = 0x0030
	chunkFloatPercentage      uint16 = 0x0031
	chunkBackgroundColor      uint16 = 0x1200
	chunkMeshData             uint16 = 0x3d3d
	chunkNamedObject          uint16 = 0x4000
	chunkTriangleMesh         uint16 = 0x4100
	chunkPointArray           uint16 = 0x4110
	chunkFaceArray            uint16 = 0x4120
	chunkMaterialGroup        uint16 = 0x4130
	chunkTextureCoords        uint16 = 0x4140
	chunkSmoothGroup          uint16 = 0x4150
	chunkMeshMatrix           uint16 = 0x4160
	chunkMaterialName         uint16 = 0xa000
	chunkMaterialAmbient      uint16 = 0xa010
	chunkMaterialDiffuse      uint16 = 0xa020
	chunkMaterialSpecular     uint16 = 0xa030
	chunkMaterialShininess    uint16 = 0xa040
	chunkMaterialTransparency uint16 = 0xa050
	chunkMaterialTexmap       uint16 = 0xa200
	chunkMaterialMapname      uint16 = 0xa300
	chunkMaterialEntry        uint16 = 0xafff
)

// log carries advisory diagnostics only; it never affects control flow.
var log = zap.NewNop()

// SetLogger routes the package's advisory diagnostics (skipped chunks,
// size mismatches) to l. Pass nil to silence them again.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

// chunkFunc decodes the content of one chunk at a given nesting level into
// obj. It returns the number of content bytes it consumed, or
// errUnknownChunk for types it does not handle.
type chunkFunc[T any] func(r *streamReader, chunkType uint16, contentSize int32, obj T) (int32, error)

// readChunk reads one chunk envelope: the header, then the content via fn.
// Unknown chunks are skipped whole. A handler that consumes a byte count
// different from the declared content size fails the parse. Returns the
// full chunk size (header plus content) consumed from the stream.
func readChunk[T any](r *streamReader, fn chunkFunc[T], obj T) (int32, error) {
	chunkType, err := r.readUint16()
	if err != nil {
		return 0, err
	}
	chunkSize, err := r.readInt32()
	if err != nil {
		return 0, err
	}
	if chunkSize < chunkHeaderSize {
		return 0, fmt.Errorf("%w: chunk %04x declares %d bytes", ErrMalformedHeader, chunkType, chunkSize)
	}

	contentSize := chunkSize - chunkHeaderSize
	consumed, err := fn(r, chunkType, contentSize, obj)
	switch {
	case errors.Is(err, errUnknownChunk):
		log.Debug("skipping unknown chunk",
			zap.String("type", fmt.Sprintf("%04x", chunkType)),
			zap.Int32("size", contentSize))
		if err := r.skip(contentSize); err != nil {
			return 0, err
		}
		return chunkSize, nil
	case err != nil:
		return 0, err
	case consumed != contentSize:
		log.Warn("chunk content size mismatch",
			zap.String("type", fmt.Sprintf("%04x", chunkType)),
			zap.Int32("expected", contentSize),
			zap.Int32("consumed", consumed))
		return 0, fmt.Errorf("%w: chunk %04x consumed %d of %d bytes",
			ErrChunkSizeMismatch, chunkType, consumed, contentSize)
	}
	return chunkSize, nil
}

// readChunks reads sibling chunks until exactly budget bytes have been
// consumed. It is the one recursion primitive shared by every nesting
// level; fn supplies the per-level dispatch and obj the per-level context.
func readChunks[T any](r *streamReader, budget int32, fn chunkFunc[T], obj T) (int32, error) {
	var read int32
	for read < budget {
		n, err := readChunk(r, fn, obj)
		if err != nil {
			return 0, err
		}
		read += n
	}
	if read != budget {
		log.Warn("chunk sequence overran parent size",
			zap.Int32("expected", budget),
			zap.Int32("read", read))
		return 0, fmt.Errorf("%w: expected %d bytes, read %d", ErrSizeMismatch, budget, read)
	}
	return read, nil
}
