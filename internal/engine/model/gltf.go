package model

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/logger"
)

var (
	ErrNoMesh               = errors.New("no mesh primitive")
	ErrMissingPosition      = errors.New("missing POSITION attribute")
	ErrUnsupportedIndexType = errors.New("unsupported index component type")
	ErrBadAccessor          = errors.New("accessor index out of range")
)

// accessor returns doc.Accessors[idx], or ErrBadAccessor when the accessor
// or its buffer view is not in the document.
func accessor(doc *gltf.Document, idx int, what string) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%s: %w: %d of %d", what, ErrBadAccessor, idx, len(doc.Accessors))
	}
	acr := doc.Accessors[idx]
	if acr.BufferView != nil && (*acr.BufferView < 0 || *acr.BufferView >= len(doc.BufferViews)) {
		return nil, fmt.Errorf("%s: %w: buffer view %d of %d", what, ErrBadAccessor, *acr.BufferView, len(doc.BufferViews))
	}
	return acr, nil
}

// ImportResult is the first primitive of a glTF asset.
type ImportResult struct {
	MeshData
	// BaseColorTexture is the resolved path of an external base color image,
	// or empty.
	BaseColorTexture string
	// Material carries the primitive's factors and external texture paths.
	// It is DefaultDesc when the primitive has no material.
	Material material.Desc
	Warnings []string
}

func (r *ImportResult) warn(log *zap.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	log.Warn(msg)
}

// Import reads the first primitive of the first mesh in a .gltf or .glb file.
// Indices of any unsigned width are widened to 32 bits; a primitive without
// indices gets the identity sequence. Missing normals default to +Z and
// missing texture coordinates to zero.
func Import(path string) (*ImportResult, error) {
	log := logger.Named("model").With(zap.String("path", path))

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMesh)
	}

	res := &ImportResult{Material: material.DefaultDesc()}
	prim := doc.Meshes[0].Primitives[0]
	if prim.Mode != gltf.PrimitiveTriangles {
		res.warn(log, "primitive mode is %v, not triangles", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingPosition)
	}
	acr, err := accessor(doc, posIdx, "positions")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acr, err = accessor(doc, idx, "normals"); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err = accessor(doc, idx, "texture coordinates"); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading texture coordinates: %w", err)
		}
	}

	res.Vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{Position: p, Normal: [3]float32{0, 0, 1}}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.TexCoord = uvs[i]
		}
		res.Vertices[i] = v
	}

	if prim.Indices != nil {
		if acr, err = accessor(doc, *prim.Indices, "indices"); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		switch acr.ComponentType {
		case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
		default:
			return nil, fmt.Errorf("%s: %w: %v", path, ErrUnsupportedIndexType, acr.ComponentType)
		}
		if res.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		res.Indices = make([]uint32, len(positions))
		for i := range res.Indices {
			res.Indices[i] = uint32(i)
		}
	}

	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		res.readMaterial(doc, doc.Materials[*prim.Material], filepath.Dir(path), log)
	}

	res.ComputeBounds()
	log.Info("model imported",
		zap.Int("vertices", len(res.Vertices)),
		zap.Int("indices", len(res.Indices)),
		zap.String("texture", res.BaseColorTexture))
	return res, nil
}

func (r *ImportResult) readMaterial(doc *gltf.Document, mat *gltf.Material, dir string, log *zap.Logger) {
	desc := material.DefaultDesc()
	desc.TwoSided = mat.DoubleSided
	desc.Emissive = f32x3(mat.EmissiveFactor)

	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := pbr.BaseColorFactor
			desc.BaseColorFactor = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		}
		if pbr.MetallicFactor != nil {
			desc.Metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			desc.Roughness = float32(*pbr.RoughnessFactor)
		}
		if pbr.BaseColorTexture != nil {
			desc.BaseColorTexture = r.imagePath(doc, pbr.BaseColorTexture.Index, dir, "base color", log)
		}
		if pbr.MetallicRoughnessTexture != nil {
			desc.MetallicRoughnessTexture = r.imagePath(doc, pbr.MetallicRoughnessTexture.Index, dir, "metallic-roughness", log)
		}
	}
	if t := mat.NormalTexture; t != nil && t.Index != nil {
		desc.NormalTexture = r.imagePath(doc, *t.Index, dir, "normal", log)
	}
	if t := mat.OcclusionTexture; t != nil && t.Index != nil {
		desc.OcclusionTexture = r.imagePath(doc, *t.Index, dir, "occlusion", log)
	}
	if t := mat.EmissiveTexture; t != nil {
		desc.EmissiveTexture = r.imagePath(doc, t.Index, dir, "emissive", log)
	}

	r.Material = desc
	r.BaseColorTexture = desc.BaseColorTexture
}

// imagePath resolves a texture to an external file next to the model.
// Embedded images are not supported and produce a warning.
func (r *ImportResult) imagePath(doc *gltf.Document, texIdx int, dir, role string, log *zap.Logger) string {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		r.warn(log, "%s texture index %d out of range", role, texIdx)
		return ""
	}
	src := doc.Textures[texIdx].Source
	if src == nil || *src >= len(doc.Images) {
		return ""
	}
	img := doc.Images[*src]
	if img.URI == "" || img.IsEmbeddedResource() {
		r.warn(log, "embedded %s texture is not supported; export the asset with separate images", role)
		return ""
	}
	uri := img.URI
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	return filepath.Join(dir, filepath.FromSlash(uri))
}

func f32x3(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
