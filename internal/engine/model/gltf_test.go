package model

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

var quadPositions = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

type fixture struct {
	doc  *gltf.Document
	prim *gltf.Primitive
}

func newFixture(positions [][3]float32) *fixture {
	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)},
	}
	doc.Meshes = []*gltf.Mesh{{Name: "fixture", Primitives: []*gltf.Primitive{prim}}}
	return &fixture{doc: doc, prim: prim}
}

func (f *fixture) save(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "fixture.glb")
	require.NoError(t, gltf.SaveBinary(f.doc, path))
	return path
}

// withIndices writes the index accessor directly; WriteIndices refuses
// unsigned bytes, which glTF allows.
func (f *fixture) withIndices(data any) *fixture {
	f.prim.Indices = gltf.Index(modeler.WriteAccessor(f.doc, gltf.TargetElementArrayBuffer, data))
	return f
}

func TestImportQuadNoMaterial(t *testing.T) {
	path := newFixture(quadPositions).withIndices([]uint16{0, 1, 2, 0, 2, 3}).save(t, t.TempDir())

	res, err := Import(path)
	require.NoError(t, err)

	assert.Equal(t, 4, res.VertexCount())
	assert.Equal(t, 2, res.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, res.Indices)
	assert.Empty(t, res.BaseColorTexture)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, float32(1), res.Material.Metallic)

	for _, v := range res.Vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal, "missing normals default to +Z")
		assert.Equal(t, [2]float32{0, 0}, v.TexCoord)
	}
	assert.Equal(t, [3]float32{0, 0, 0}, res.Bounds.Min)
	assert.Equal(t, [3]float32{1, 1, 0}, res.Bounds.Max)
	assert.Equal(t, gpu.Index16, res.IndexFormat())
}

func TestImportAttributes(t *testing.T) {
	f := newFixture(quadPositions[:3])
	f.prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(f.doc, [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}})
	f.prim.Attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(f.doc, [][2]float32{{0, 0}, {1, 0}, {0.5, 1}})
	path := f.save(t, t.TempDir())

	res, err := Import(path)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 1, 0}, res.Vertices[1].Normal)
	assert.Equal(t, [2]float32{0.5, 1}, res.Vertices[2].TexCoord)
	// No indices: identity sequence.
	assert.Equal(t, []uint32{0, 1, 2}, res.Indices)
}

func TestImportIndexWidths(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{"8 bit", []uint8{0, 1, 2, 2, 3, 0}},
		{"16 bit", []uint16{0, 1, 2, 2, 3, 0}},
		{"32 bit", []uint32{0, 1, 2, 2, 3, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := newFixture(quadPositions).withIndices(tt.data).save(t, t.TempDir())
			res, err := Import(path)
			require.NoError(t, err)
			assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, res.Indices)
		})
	}
}

func TestImportLargeMeshKeeps32BitIndices(t *testing.T) {
	const n = 70000
	positions := make([][3]float32, n)
	for i := range positions {
		positions[i] = [3]float32{float32(i), 0, 0}
	}
	path := newFixture(positions).withIndices([]uint32{0, n - 2, n - 1}).save(t, t.TempDir())

	res, err := Import(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, n - 2, n - 1}, res.Indices)
	assert.Equal(t, gpu.Index32, res.IndexFormat())
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Import(filepath.Join(dir, "missing.glb"))
	assert.Error(t, err)

	noPos := newFixture(quadPositions)
	noPos.prim.Attributes = map[string]int{gltf.NORMAL: modeler.WriteNormal(noPos.doc, quadPositions)}
	_, err = Import(noPos.save(t, t.TempDir()))
	assert.True(t, errors.Is(err, ErrMissingPosition), "got %v", err)

	badIdx := newFixture(quadPositions).withIndices([]uint16{0, 1, 2})
	badIdx.doc.Accessors[*badIdx.prim.Indices].ComponentType = gltf.ComponentShort
	_, err = Import(badIdx.save(t, t.TempDir()))
	assert.True(t, errors.Is(err, ErrUnsupportedIndexType), "got %v", err)

	empty := &gltf.Document{Asset: gltf.Asset{Version: "2.0"}}
	emptyPath := filepath.Join(t.TempDir(), "empty.gltf")
	require.NoError(t, gltf.Save(empty, emptyPath))
	_, err = Import(emptyPath)
	assert.True(t, errors.Is(err, ErrNoMesh), "got %v", err)
}

func TestImportDanglingAccessors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture)
	}{
		{"position", func(f *fixture) { f.prim.Attributes[gltf.POSITION] = 42 }},
		{"normal", func(f *fixture) { f.prim.Attributes[gltf.NORMAL] = 99 }},
		{"texcoord", func(f *fixture) { f.prim.Attributes[gltf.TEXCOORD_0] = -1 }},
		{"indices", func(f *fixture) { f.prim.Indices = gltf.Index(7) }},
		{"buffer view", func(f *fixture) {
			f.doc.Accessors[f.prim.Attributes[gltf.POSITION]].BufferView = gltf.Index(12)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(quadPositions)
			tt.mutate(f)
			res, err := Import(f.save(t, t.TempDir()))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, ErrBadAccessor), "got %v", err)
		})
	}
}

func TestImportNonTriangleModeWarns(t *testing.T) {
	f := newFixture(quadPositions)
	f.prim.Mode = gltf.PrimitiveLines
	res, err := Import(f.save(t, t.TempDir()))
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
}

func TestImportExternalTexture(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(quadPositions).withIndices([]uint16{0, 1, 2, 0, 2, 3})
	metallic := 0.25
	f.doc.Images = []*gltf.Image{{URI: "textures/albedo%20map.png"}, {URI: "normal.png"}}
	f.doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}, {Source: gltf.Index(1)}}
	f.doc.Materials = []*gltf.Material{{
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
			MetallicFactor:   &metallic,
		},
		NormalTexture: &gltf.NormalTexture{Index: gltf.Index(1)},
	}}
	f.prim.Material = gltf.Index(0)

	res, err := Import(f.save(t, dir))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "textures", "albedo map.png"), res.BaseColorTexture)
	assert.Equal(t, res.BaseColorTexture, res.Material.BaseColorTexture)
	assert.Equal(t, filepath.Join(dir, "normal.png"), res.Material.NormalTexture)
	assert.Equal(t, float32(0.25), res.Material.Metallic)
	assert.True(t, res.Material.TwoSided)
	assert.Empty(t, res.Warnings)
}

func TestImportEmbeddedTextureWarns(t *testing.T) {
	f := newFixture(quadPositions)
	f.doc.Images = []*gltf.Image{{BufferView: gltf.Index(0), MimeType: "image/png"}}
	f.doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	f.doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 0}},
	}}
	f.prim.Material = gltf.Index(0)

	res, err := Import(f.save(t, t.TempDir()))
	require.NoError(t, err, "embedded textures are a warning, not a failure")
	assert.Empty(t, res.BaseColorTexture)
	assert.Len(t, res.Warnings, 1)
}
