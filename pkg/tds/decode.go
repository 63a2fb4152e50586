package tds

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Decode reads one 3DS model stream and returns the decoded scene. The
// stream must be positioned at the file magic. Decoding either fully
// succeeds or returns an error with no scene; a corrupted chunk anywhere
// never yields a truncated scene.
func Decode(r io.Reader) (*Scene, error) {
	sr := newStreamReader(r)

	magic, err := sr.readUint16()
	if err != nil {
		return nil, err
	}
	if magic != chunkMagic {
		return nil, fmt.Errorf("%w: %04x", ErrInvalidMagic, magic)
	}
	size, err := sr.readInt32()
	if err != nil {
		return nil, err
	}
	if size < chunkHeaderSize {
		return nil, fmt.Errorf("%w: top-level chunk declares %d bytes", ErrMalformedHeader, size)
	}
	log.Debug("decoding 3DS stream", zap.Int32("size", size))

	scene := NewScene()
	if _, err := readChunks(sr, size-chunkHeaderSize, topLevelChunk, scene); err != nil {
		return nil, err
	}
	return scene, nil
}

// DecodeFile decodes a 3DS model file from disk.
func DecodeFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading 3DS file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

func topLevelChunk(r *streamReader, chunkType uint16, contentSize int32, scene *Scene) (int32, error) {
	if chunkType == chunkMeshData {
		return readChunks(r, contentSize, sceneChunk, scene)
	}
	return 0, errUnknownChunk
}

func sceneChunk(r *streamReader, chunkType uint16, contentSize int32, scene *Scene) (int32, error) {
	switch chunkType {
	case chunkNamedObject:
		name, nameLen, err := r.readString()
		if err != nil {
			return 0, err
		}
		model := &Model{Name: name}
		n, err := readChunks(r, contentSize-nameLen, modelChunk, model)
		if err != nil {
			return 0, err
		}
		scene.Models = append(scene.Models, model)
		return nameLen + n, nil

	case chunkMaterialEntry:
		material := NewMaterial()
		n, err := readChunks(r, contentSize, materialChunk, material)
		if err != nil {
			return 0, err
		}
		scene.Materials = append(scene.Materials, material)
		return n, nil

	case chunkBackgroundColor:
		var color Color
		n, err := readChunks(r, contentSize, colorChunk, &color)
		if err != nil {
			return 0, err
		}
		scene.Background = color
		return n, nil
	}
	return 0, errUnknownChunk
}

func modelChunk(r *streamReader, chunkType uint16, contentSize int32, model *Model) (int32, error) {
	if chunkType == chunkTriangleMesh {
		mesh := NewTriangleMesh()
		n, err := readChunks(r, contentSize, triMeshChunk, mesh)
		if err != nil {
			return 0, err
		}
		model.Meshes = append(model.Meshes, mesh)
		return n, nil
	}
	return 0, errUnknownChunk
}

func triMeshChunk(r *streamReader, chunkType uint16, contentSize int32, mesh *TriangleMesh) (int32, error) {
	switch chunkType {
	case chunkPointArray:
		return readPointArray(r, contentSize, mesh)
	case chunkTextureCoords:
		return readTexCoordArray(r, contentSize, mesh)
	case chunkFaceArray:
		return readFaceArray(r, contentSize, mesh)
	case chunkMeshMatrix:
		return readMeshMatrix(r, mesh)
	}
	return 0, errUnknownChunk
}

// readPointArray decodes a uint16 count followed by count XYZ positions.
func readPointArray(r *streamReader, contentSize int32, mesh *TriangleMesh) (int32, error) {
	count, err := r.readUint16()
	if err != nil {
		return 0, err
	}
	// Reject counts the chunk cannot hold before allocating.
	read := int32(2)
	if read+int32(count)*12 > contentSize {
		return 0, fmt.Errorf("%w: %d points exceed chunk size %d",
			ErrChunkSizeMismatch, count, contentSize)
	}

	mesh.Vertices = make([]mgl32.Vec3, 0, count)
	for i := 0; i < int(count); i++ {
		var v mgl32.Vec3
		for j := range v {
			if v[j], err = r.readFloat32(); err != nil {
				return 0, err
			}
		}
		read += 12
		mesh.Vertices = append(mesh.Vertices, v)
	}
	return read, nil
}

// readTexCoordArray decodes a uint16 count followed by count UV pairs. The
// V coordinate is negated: 3DS uses a bottom-up V axis.
func readTexCoordArray(r *streamReader, contentSize int32, mesh *TriangleMesh) (int32, error) {
	count, err := r.readUint16()
	if err != nil {
		return 0, err
	}
	read := int32(2)
	if read+int32(count)*8 > contentSize {
		return 0, fmt.Errorf("%w: %d texture coords exceed chunk size %d",
			ErrChunkSizeMismatch, count, contentSize)
	}

	mesh.TexCoords = make([]mgl32.Vec2, 0, count)
	for i := 0; i < int(count); i++ {
		u, err := r.readFloat32()
		if err != nil {
			return 0, err
		}
		v, err := r.readFloat32()
		if err != nil {
			return 0, err
		}
		read += 8
		mesh.TexCoords = append(mesh.TexCoords, mgl32.Vec2{u, -v})
	}
	return read, nil
}

// readFaceArray decodes a uint16 count followed by count faces of three
// vertex indices plus an unused flags word. Leftover content bytes hold
// nested face-attribute chunks (material groups, smoothing groups).
func readFaceArray(r *streamReader, contentSize int32, mesh *TriangleMesh) (int32, error) {
	count, err := r.readUint16()
	if err != nil {
		return 0, err
	}
	read := int32(2)
	if read+int32(count)*8 > contentSize {
		return 0, fmt.Errorf("%w: %d faces exceed chunk size %d",
			ErrChunkSizeMismatch, count, contentSize)
	}

	mesh.Faces = make([]Face, 0, count)
	for i := 0; i < int(count); i++ {
		var face Face
		for j := range face {
			if face[j], err = r.readUint16(); err != nil {
				return 0, err
			}
		}
		if _, err := r.readUint16(); err != nil { // flags, unused
			return 0, err
		}
		read += 8
		mesh.Faces = append(mesh.Faces, face)
	}

	if read < contentSize {
		n, err := readChunks(r, contentSize-read, faceAttributeChunk, mesh)
		if err != nil {
			return 0, err
		}
		read += n
	}
	return read, nil
}

func faceAttributeChunk(r *streamReader, chunkType uint16, contentSize int32, mesh *TriangleMesh) (int32, error) {
	switch chunkType {
	case chunkMaterialGroup:
		name, read, err := r.readString()
		if err != nil {
			return 0, err
		}
		count, err := r.readUint16()
		if err != nil {
			return 0, err
		}
		read += 2

		group := MaterialGroup{MaterialName: name, FaceIndices: make([]uint16, 0, count)}
		for i := 0; i < int(count); i++ {
			index, err := r.readUint16()
			if err != nil {
				return 0, err
			}
			read += 2
			group.FaceIndices = append(group.FaceIndices, index)
		}
		mesh.MaterialGroups = append(mesh.MaterialGroups, group)
		return read, nil

	case chunkSmoothGroup:
		// The chunk carries no count of its own: one bitmask per face
		// already decoded from the face array.
		var read int32
		for i := 0; i < mesh.FaceCount(); i++ {
			groups, err := r.readUint32()
			if err != nil {
				return 0, err
			}
			read += 4
			mesh.SmoothingGroups = append(mesh.SmoothingGroups, groups)
		}
		return read, nil
	}
	return 0, errUnknownChunk
}

// readMeshMatrix decodes the 12-float 3x4 transform block: three rotation
// and scale rows followed by the translation, expanded to a 4x4 matrix in
// row-vector convention with a [0 0 0 1] fourth column.
func readMeshMatrix(r *streamReader, mesh *TriangleMesh) (int32, error) {
	var e [12]float32
	for i := range e {
		var err error
		if e[i], err = r.readFloat32(); err != nil {
			return 0, err
		}
	}
	mesh.Matrix = mgl32.Mat4{
		e[0], e[3], e[6], e[9],
		e[1], e[4], e[7], e[10],
		e[2], e[5], e[8], e[11],
		0, 0, 0, 1,
	}
	return 48, nil
}

func materialChunk(r *streamReader, chunkType uint16, contentSize int32, material *Material) (int32, error) {
	switch chunkType {
	case chunkMaterialName:
		name, read, err := r.readString()
		if err != nil {
			return 0, err
		}
		material.Name = name
		return read, nil

	case chunkMaterialAmbient:
		return readMaterialColor(r, contentSize, &material.Ambient)
	case chunkMaterialDiffuse:
		return readMaterialColor(r, contentSize, &material.Diffuse)
	case chunkMaterialSpecular:
		return readMaterialColor(r, contentSize, &material.Specular)

	case chunkMaterialShininess:
		percent, read, err := readPercentage(r, contentSize)
		if err != nil {
			return 0, err
		}
		material.Shininess = percent
		return read, nil

	case chunkMaterialTransparency:
		percent, read, err := readPercentage(r, contentSize)
		if err != nil {
			return 0, err
		}
		material.Opacity = 1 - percent/100
		return read, nil

	case chunkMaterialTexmap:
		return readChunks(r, contentSize, texmapChunk, material)
	}
	return 0, errUnknownChunk
}

func readMaterialColor(r *streamReader, contentSize int32, dst *Color) (int32, error) {
	var color Color
	read, err := readChunks(r, contentSize, colorChunk, &color)
	if err != nil {
		return 0, err
	}
	*dst = color
	return read, nil
}

func readPercentage(r *streamReader, contentSize int32) (float32, int32, error) {
	var percent float32
	read, err := readChunks(r, contentSize, percentageChunk, &percent)
	if err != nil {
		return 0, 0, err
	}
	return percent, read, nil
}

func colorChunk(r *streamReader, chunkType uint16, contentSize int32, color *Color) (int32, error) {
	switch chunkType {
	case chunkColor24:
		var c [3]uint8
		for i := range c {
			var err error
			if c[i], err = r.readUint8(); err != nil {
				return 0, err
			}
		}
		*color = Color{
			R: float32(c[0]) / 255,
			G: float32(c[1]) / 255,
			B: float32(c[2]) / 255,
		}
		return 3, nil

	case chunkColorFloat:
		var c [3]float32
		for i := range c {
			var err error
			if c[i], err = r.readFloat32(); err != nil {
				return 0, err
			}
		}
		*color = Color{R: c[0], G: c[1], B: c[2]}
		return 12, nil
	}
	return 0, errUnknownChunk
}

func percentageChunk(r *streamReader, chunkType uint16, contentSize int32, percent *float32) (int32, error) {
	switch chunkType {
	case chunkIntPercentage:
		value, err := r.readInt16()
		if err != nil {
			return 0, err
		}
		*percent = float32(value)
		return 2, nil

	case chunkFloatPercentage:
		value, err := r.readFloat32()
		if err != nil {
			return 0, err
		}
		*percent = value
		return 4, nil
	}
	return 0, errUnknownChunk
}

func texmapChunk(r *streamReader, chunkType uint16, contentSize int32, material *Material) (int32, error) {
	if chunkType == chunkMaterialMapname {
		name, read, err := r.readString()
		if err != nil {
			return 0, err
		}
		material.TextureMap = name
		return read, nil
	}
	return 0, errUnknownChunk
}
