package scene

import (
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/model"
)

// InstanceID identifies an instance within its scene.
type InstanceID uint64

// MeshInstance is a drawable mesh placed in the scene. It owns its buffers;
// the material is referenced, not owned.
type MeshInstance struct {
	ID           InstanceID
	Name         string
	VertexBuffer *gpu.VertexBuffer
	IndexBuffer  *gpu.IndexBuffer
	IndexCount   int
	// State overrides the material's render state when non-zero.
	State     gpu.State
	Transform Transform
	Material  material.Handle

	// Mesh is the CPU copy kept for export. Nil when not needed.
	Mesh        *model.MeshData
	TexturePath string
}

// Drawable reports whether both buffers are live and there is something to draw.
func (m *MeshInstance) Drawable() bool {
	return m != nil && m.VertexBuffer.Valid() && m.IndexBuffer.Valid() && m.IndexCount > 0
}

// Triangles returns the number of triangles a draw submits.
func (m *MeshInstance) Triangles() int {
	return m.IndexCount / 3
}

// Release destroys the instance's buffers. Safe to call twice.
func (m *MeshInstance) Release() {
	m.VertexBuffer.Release()
	m.IndexBuffer.Release()
	m.IndexCount = 0
}
