package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/model"
)

var (
	ErrInvalidMesh    = errors.New("invalid mesh data")
	ErrBufferCreation = errors.New("buffer creation failed")
)

// Builder uploads CPU meshes into new instances.
type Builder struct {
	dev gpu.Device
}

// NewBuilder creates a builder for dev.
func NewBuilder(dev gpu.Device) *Builder {
	return &Builder{dev: dev}
}

// Upload creates the vertex and index buffers for mesh. On failure nothing
// stays allocated. With keepCPU the instance keeps mesh for export.
func (b *Builder) Upload(mesh *model.MeshData, mat material.Handle, t Transform, keepCPU bool) (*MeshInstance, error) {
	if mesh == nil || !mesh.Valid() {
		return nil, ErrInvalidMesh
	}

	vb := gpu.NewVertexBuffer(b.dev, gpu.LayoutPosNormalUV, mesh.Interleave())
	if !vb.Valid() {
		return nil, fmt.Errorf("%w: vertex buffer (%d vertices)", ErrBufferCreation, mesh.VertexCount())
	}
	ib := gpu.NewIndexBuffer(b.dev, mesh.Indices, mesh.IndexFormat())
	if !ib.Valid() {
		vb.Release()
		return nil, fmt.Errorf("%w: index buffer (%d indices)", ErrBufferCreation, len(mesh.Indices))
	}

	t.Update()
	inst := &MeshInstance{
		VertexBuffer: vb,
		IndexBuffer:  ib,
		IndexCount:   len(mesh.Indices),
		Transform:    t,
		Material:     mat,
	}
	if keepCPU {
		inst.Mesh = mesh
	}
	return inst, nil
}
