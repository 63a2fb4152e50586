package tds

import "github.com/go-gl/mathgl/mgl32"

// Color is an RGB color with channels in the 0..1 range.
type Color struct {
	R, G, B float32
}

// Face holds three indices into a mesh's vertex array.
type Face [3]uint16

// MaterialGroup names a subset of a mesh's faces rendered with one material.
type MaterialGroup struct {
	MaterialName string   // Name of a material from the scene's material list
	FaceIndices  []uint16 // Indices into the mesh's face array
}

// TriangleMesh is one triangle mesh of a model.
type TriangleMesh struct {
	Vertices        []mgl32.Vec3    // Vertex positions
	TexCoords       []mgl32.Vec2    // Texture coordinates (V negated on decode)
	Faces           []Face          // Triangle faces
	MaterialGroups  []MaterialGroup // Per-material face subsets
	SmoothingGroups []uint32        // Per-face smoothing bitmasks
	Matrix          mgl32.Mat4      // Local transform, identity when absent
}

// NewTriangleMesh returns an empty mesh with an identity transform.
func NewTriangleMesh() *TriangleMesh {
	return &TriangleMesh{Matrix: mgl32.Ident4()}
}

// FaceCount returns the number of faces in the mesh.
func (m *TriangleMesh) FaceCount() int {
	return len(m.Faces)
}

// Model is a named object holding one or more triangle meshes.
type Model struct {
	Name   string
	Meshes []*TriangleMesh
}

// Material describes the surface properties referenced by material groups.
type Material struct {
	Name       string
	Ambient    Color
	Diffuse    Color
	Specular   Color
	Shininess  float32 // Percent, 0..100
	Opacity    float32 // 0 transparent .. 1 opaque
	TextureMap string  // Texture file name, empty when untextured
}

// NewMaterial returns a material with the default shading values used for
// materials whose chunks omit them: fully opaque, shininess 1.
func NewMaterial() *Material {
	return &Material{Shininess: 1, Opacity: 1}
}

// Scene is the decoded content of one 3DS file.
type Scene struct {
	Models     []*Model
	Materials  []*Material
	Background Color
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// ModelByName returns the model with the given name, or nil.
func (s *Scene) ModelByName(name string) *Model {
	for _, m := range s.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MaterialByName returns the material with the given name, or nil.
func (s *Scene) MaterialByName(name string) *Material {
	for _, m := range s.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// TotalVertexCount returns the number of vertices across all meshes.
func (s *Scene) TotalVertexCount() int {
	total := 0
	for _, model := range s.Models {
		for _, mesh := range model.Meshes {
			total += len(mesh.Vertices)
		}
	}
	return total
}

// TotalFaceCount returns the number of faces across all meshes.
func (s *Scene) TotalFaceCount() int {
	total := 0
	for _, model := range s.Models {
		for _, mesh := range model.Meshes {
			total += len(mesh.Faces)
		}
	}
	return total
}
