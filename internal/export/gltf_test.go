package export

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/Faultbox/go-3ds/pkg/tds"
)

func quadMesh() *tds.TriangleMesh {
	mesh := tds.NewTriangleMesh()
	mesh.Vertices = []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	mesh.TexCoords = []mgl32.Vec2{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	}
	mesh.Faces = []tds.Face{{0, 1, 2}, {0, 2, 3}}
	return mesh
}

func TestGLTF_Materials(t *testing.T) {
	scene := tds.NewScene()
	opaque := tds.NewMaterial()
	opaque.Name = "wall"
	opaque.Diffuse = tds.Color{R: 1, G: 0.5, B: 0}

	glass := tds.NewMaterial()
	glass.Name = "glass"
	glass.Opacity = 0.25
	scene.Materials = []*tds.Material{opaque, glass}

	doc, err := GLTF(scene)
	if err != nil {
		t.Fatalf("GLTF failed: %v", err)
	}

	if len(doc.Materials) != 2 {
		t.Fatalf("material count = %d, want 2", len(doc.Materials))
	}

	wall := doc.Materials[0]
	if wall.Name != "wall" {
		t.Errorf("material name = %q, want wall", wall.Name)
	}
	factor := wall.PBRMetallicRoughness.BaseColorFactor
	if factor == nil || *factor != [4]float32{1, 0.5, 0, 1} {
		t.Errorf("base color = %v, want [1 0.5 0 1]", factor)
	}
	if wall.AlphaMode == gltf.AlphaBlend {
		t.Error("opaque material marked alpha-blend")
	}

	if doc.Materials[1].AlphaMode != gltf.AlphaBlend {
		t.Error("transparent material not marked alpha-blend")
	}
	if got := doc.Materials[1].PBRMetallicRoughness.BaseColorFactor[3]; got != 0.25 {
		t.Errorf("alpha = %f, want 0.25", got)
	}
}

func TestGLTF_MeshAndNode(t *testing.T) {
	mesh := quadMesh()
	mesh.Matrix = mgl32.Translate3D(2, 0, 0)

	scene := tds.NewScene()
	scene.Models = []*tds.Model{{Name: "Quad", Meshes: []*tds.TriangleMesh{mesh}}}

	doc, err := GLTF(scene)
	if err != nil {
		t.Fatalf("GLTF failed: %v", err)
	}

	if len(doc.Meshes) != 1 || len(doc.Nodes) != 1 {
		t.Fatalf("got %d meshes, %d nodes; want 1, 1", len(doc.Meshes), len(doc.Nodes))
	}
	if doc.Nodes[0].Name != "Quad" {
		t.Errorf("node name = %q, want Quad", doc.Nodes[0].Name)
	}
	if len(doc.Scenes[0].Nodes) != 1 {
		t.Errorf("scene node count = %d, want 1", len(doc.Scenes[0].Nodes))
	}

	// One unbound primitive covering both faces: positions, UVs, indices.
	prims := doc.Meshes[0].Primitives
	if len(prims) != 1 {
		t.Fatalf("primitive count = %d, want 1", len(prims))
	}
	if prims[0].Material != nil {
		t.Error("unbound primitive has a material")
	}
	if _, ok := prims[0].Attributes["POSITION"]; !ok {
		t.Error("primitive missing POSITION attribute")
	}
	if _, ok := prims[0].Attributes["TEXCOORD_0"]; !ok {
		t.Error("primitive missing TEXCOORD_0 attribute")
	}

	// The translation lands in the node matrix (column-major).
	if doc.Nodes[0].Matrix[12] != 2 {
		t.Errorf("matrix[12] = %f, want 2", doc.Nodes[0].Matrix[12])
	}
}

func TestGLTF_MaterialGroupSplit(t *testing.T) {
	mesh := quadMesh()
	mesh.MaterialGroups = []tds.MaterialGroup{
		{MaterialName: "steel", FaceIndices: []uint16{0}},
	}

	steel := tds.NewMaterial()
	steel.Name = "steel"

	scene := tds.NewScene()
	scene.Materials = []*tds.Material{steel}
	scene.Models = []*tds.Model{{Name: "Quad", Meshes: []*tds.TriangleMesh{mesh}}}

	doc, err := GLTF(scene)
	if err != nil {
		t.Fatalf("GLTF failed: %v", err)
	}

	prims := doc.Meshes[0].Primitives
	if len(prims) != 2 {
		t.Fatalf("primitive count = %d, want 2 (grouped + rest)", len(prims))
	}
	if prims[0].Material == nil || *prims[0].Material != 0 {
		t.Errorf("grouped primitive material = %v, want index 0", prims[0].Material)
	}
	if prims[1].Material != nil {
		t.Error("rest primitive should have no material")
	}
}

func TestGLTF_GroupIndexOutOfRange(t *testing.T) {
	mesh := quadMesh()
	mesh.MaterialGroups = []tds.MaterialGroup{
		{MaterialName: "steel", FaceIndices: []uint16{9}},
	}

	scene := tds.NewScene()
	scene.Models = []*tds.Model{{Name: "Quad", Meshes: []*tds.TriangleMesh{mesh}}}

	if _, err := GLTF(scene); err == nil {
		t.Error("expected error for out-of-range face index")
	}
}

func TestGLTF_SkipsEmptyMeshes(t *testing.T) {
	scene := tds.NewScene()
	scene.Models = []*tds.Model{{Name: "Empty", Meshes: []*tds.TriangleMesh{tds.NewTriangleMesh()}}}

	doc, err := GLTF(scene)
	if err != nil {
		t.Fatalf("GLTF failed: %v", err)
	}
	if len(doc.Meshes) != 0 || len(doc.Nodes) != 0 {
		t.Errorf("empty mesh exported: %d meshes, %d nodes", len(doc.Meshes), len(doc.Nodes))
	}
}
