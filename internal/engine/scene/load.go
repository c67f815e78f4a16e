package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/model"
)

// LoadOptions tune LoadModel.
type LoadOptions struct {
	// Texture replaces the imported base color texture when set.
	Texture   string
	Transform Transform
	// KeepCPU keeps the mesh on the instance for export.
	KeepCPU bool
}

// LoadModel imports a glTF file, uploads its buffers, creates its material
// and adds one instance to the scene. On failure neither the scene nor the
// material pool changes.
func (s *Scene) LoadModel(b *Builder, mats *material.Manager, path string, opts LoadOptions) (*MeshInstance, *model.ImportResult, error) {
	res, err := model.Import(path)
	if err != nil {
		return nil, nil, err
	}

	// A zero scale means the caller left it unset; position and rotation
	// still apply.
	t := opts.Transform
	if t.Scale == (mgl32.Vec3{}) {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}
	t.Update()

	// Buffers go first so a failed upload leaves no pooled material behind.
	inst, err := b.Upload(&res.MeshData, 0, t, opts.KeepCPU)
	if err != nil {
		return nil, res, fmt.Errorf("uploading %s: %w", path, err)
	}

	desc := res.Material
	if opts.Texture != "" {
		desc.BaseColorTexture = opts.Texture
	}
	inst.Material = mats.Create(desc)
	inst.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	inst.TexturePath = desc.BaseColorTexture
	s.AddInstance(inst)

	s.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("triangles", inst.Triangles()),
		zap.Int("warnings", len(res.Warnings)))
	return inst, res, nil
}
