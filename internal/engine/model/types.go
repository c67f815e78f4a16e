// Package model holds CPU-side triangle meshes, the glTF importer and the
// procedural primitives.
package model

import (
	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the box extent per axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// MeshData is an indexed triangle list ready for upload.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// VertexCount returns the number of vertices.
func (m *MeshData) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of complete triangles.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Valid reports whether the mesh has vertices and every index is in range.
func (m *MeshData) Valid() bool {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return false
	}
	n := uint32(len(m.Vertices))
	for _, i := range m.Indices {
		if i >= n {
			return false
		}
	}
	return true
}

// IndexFormat picks the narrowest index format that holds every index.
func (m *MeshData) IndexFormat() gpu.IndexFormat {
	for _, i := range m.Indices {
		if i > 0xFFFF {
			return gpu.Index32
		}
	}
	return gpu.Index16
}

// Interleave packs vertices for gpu.LayoutPosNormalUV.
func (m *MeshData) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*gpu.LayoutPosNormalUV.Floats())
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
		)
	}
	return out
}

// ComputeBounds recomputes Bounds from the vertex positions.
// An empty mesh gets a zero box.
func (m *MeshData) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	b := Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for i := 1; i < len(m.Vertices); i++ {
		updateBounds(&b, m.Vertices[i].Position)
	}
	m.Bounds = b
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
