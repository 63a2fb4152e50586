// Package export converts decoded 3DS scenes into glTF 2.0 documents.
package export

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/go-3ds/pkg/tds"
)

// GLTF builds a glTF document from a decoded scene. Every triangle mesh
// becomes one glTF mesh attached to its own node; faces claimed by a
// material group form a primitive bound to that material, remaining faces
// form an unbound primitive.
func GLTF(scene *tds.Scene) (*gltf.Document, error) {
	doc := gltf.NewDocument()

	materialIndex := make(map[string]uint32, len(scene.Materials))
	for _, material := range scene.Materials {
		materialIndex[material.Name] = uint32(len(doc.Materials))
		doc.Materials = append(doc.Materials, convertMaterial(material))
	}

	for _, model := range scene.Models {
		for i, mesh := range model.Meshes {
			name := model.Name
			if len(model.Meshes) > 1 {
				name = fmt.Sprintf("%s.%d", model.Name, i)
			}
			if err := addMesh(doc, name, mesh, materialIndex); err != nil {
				return nil, fmt.Errorf("exporting mesh %s: %w", name, err)
			}
		}
	}

	return doc, nil
}

// Save writes the scene to path as .gltf, or .glb when binary is set.
func Save(scene *tds.Scene, path string, binary bool) error {
	doc, err := GLTF(scene)
	if err != nil {
		return err
	}
	if binary {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}

func convertMaterial(material *tds.Material) *gltf.Material {
	color := &[4]float32{
		material.Diffuse.R,
		material.Diffuse.G,
		material.Diffuse.B,
		material.Opacity,
	}
	out := &gltf.Material{
		Name: material.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: color,
		},
	}
	if material.Opacity < 1 {
		out.AlphaMode = gltf.AlphaBlend
	}
	return out
}

func addMesh(doc *gltf.Document, name string, mesh *tds.TriangleMesh, materialIndex map[string]uint32) error {
	if len(mesh.Vertices) == 0 || len(mesh.Faces) == 0 {
		return nil
	}

	positions := make([][3]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = v
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, positions),
	}

	if len(mesh.TexCoords) == len(mesh.Vertices) {
		uvs := make([][2]float32, len(mesh.TexCoords))
		for i, uv := range mesh.TexCoords {
			uvs[i] = uv
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}

	gltfMesh := &gltf.Mesh{Name: name}

	claimed := make([]bool, len(mesh.Faces))
	for _, group := range mesh.MaterialGroups {
		indices := make([]uint32, 0, len(group.FaceIndices)*3)
		for _, fi := range group.FaceIndices {
			if int(fi) >= len(mesh.Faces) {
				return fmt.Errorf("material group %q references face %d of %d",
					group.MaterialName, fi, len(mesh.Faces))
			}
			claimed[fi] = true
			face := mesh.Faces[fi]
			indices = append(indices, uint32(face[0]), uint32(face[1]), uint32(face[2]))
		}
		if len(indices) == 0 {
			continue
		}

		primitive := &gltf.Primitive{
			Attributes: attributes,
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
		}
		if mi, ok := materialIndex[group.MaterialName]; ok {
			primitive.Material = gltf.Index(mi)
		}
		gltfMesh.Primitives = append(gltfMesh.Primitives, primitive)
	}

	var rest []uint32
	for i, face := range mesh.Faces {
		if claimed[i] {
			continue
		}
		rest = append(rest, uint32(face[0]), uint32(face[1]), uint32(face[2]))
	}
	if len(rest) > 0 {
		gltfMesh.Primitives = append(gltfMesh.Primitives, &gltf.Primitive{
			Attributes: attributes,
			Indices:    gltf.Index(modeler.WriteIndices(doc, rest)),
		})
	}

	meshIndex := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, gltfMesh)

	node := &gltf.Node{
		Name: name,
		Mesh: gltf.Index(meshIndex),
	}
	for i, v := range mesh.Matrix {
		node.Matrix[i] = v
	}

	nodeIndex := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIndex)
	return nil
}
