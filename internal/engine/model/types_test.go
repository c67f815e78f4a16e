package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *MeshData
		vertices  int
		triangles int
	}{
		{"triangle", Triangle(), 3, 1},
		{"quad", Quad(), 4, 2},
		{"cube", Cube(), 24, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.vertices, tt.mesh.VertexCount())
			assert.Equal(t, tt.triangles, tt.mesh.TriangleCount())
			assert.True(t, tt.mesh.Valid())
			assert.Equal(t, gpu.Index16, tt.mesh.IndexFormat())
		})
	}
}

func TestCubeBoundsAndNormals(t *testing.T) {
	c := Cube()
	assert.Equal(t, [3]float32{-0.5, -0.5, -0.5}, c.Bounds.Min)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, c.Bounds.Max)
	assert.Equal(t, [3]float32{0, 0, 0}, c.Bounds.Center())
	assert.Equal(t, [3]float32{1, 1, 1}, c.Bounds.Size())

	// Every vertex lies on the face its normal points out of.
	for _, v := range c.Vertices {
		var dot float32
		for i := 0; i < 3; i++ {
			dot += v.Position[i] * v.Normal[i]
		}
		assert.InDelta(t, 0.5, dot, 1e-6)
	}
}

func TestInterleave(t *testing.T) {
	tri := Triangle()
	data := tri.Interleave()
	assert.Len(t, data, 3*gpu.LayoutPosNormalUV.Floats())
	// Second vertex: position (1,0,0), normal (0,0,1), uv (1,0).
	assert.Equal(t, []float32{1, 0, 0, 0, 0, 1, 1, 0}, data[8:16])
}

func TestValid(t *testing.T) {
	m := &MeshData{Vertices: Triangle().Vertices, Indices: []uint32{0, 1, 3}}
	assert.False(t, m.Valid(), "out of range index")
	assert.False(t, (&MeshData{}).Valid())
}

func TestIndexFormat32(t *testing.T) {
	m := &MeshData{Indices: []uint32{0, 65535}}
	assert.Equal(t, gpu.Index16, m.IndexFormat())
	m.Indices = append(m.Indices, 65536)
	assert.Equal(t, gpu.Index32, m.IndexFormat())
}

func TestComputeBoundsEmpty(t *testing.T) {
	m := &MeshData{}
	m.ComputeBounds()
	assert.Equal(t, Bounds{}, m.Bounds)
}
