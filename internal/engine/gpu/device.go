// Package gpu defines the immediate-mode device contract shared by the
// OpenGL backend and the headless recorder.
//
// A frame is built by setting transient draw state (transform, buffers,
// textures, render state) and calling Submit, which consumes it. Uniform values
// persist until overwritten. Create calls return InvalidHandle on failure.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Handle identifies a device object. Zero is never a live object.
type Handle uint32

// InvalidHandle is returned by failed create calls.
const InvalidHandle Handle = 0

// MaxTextureSlots is the number of sampler slots a draw can bind.
const MaxTextureSlots = 8

// Kind is the category of a device object.
type Kind uint8

const (
	KindVertexBuffer Kind = iota
	KindIndexBuffer
	KindTexture
	KindProgram
	KindUniform
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindVertexBuffer:
		return "vertex-buffer"
	case KindIndexBuffer:
		return "index-buffer"
	case KindTexture:
		return "texture"
	case KindProgram:
		return "program"
	case KindUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// IndexFormat selects the index element width on the device.
type IndexFormat uint8

const (
	Index16 IndexFormat = iota
	Index32
)

// UniformType describes a uniform's shape.
type UniformType uint8

const (
	UniformVec4 UniformType = iota
	UniformSampler
)

// Attrib names a vertex attribute.
type Attrib uint8

const (
	AttribPosition Attrib = iota
	AttribNormal
	AttribTexCoord0
	AttribColor0
)

// AttribDecl is one float attribute in an interleaved vertex.
type AttribDecl struct {
	Attrib     Attrib
	Components int
}

// VertexLayout describes an interleaved float32 vertex.
type VertexLayout []AttribDecl

// Floats returns the number of float32 values per vertex.
func (l VertexLayout) Floats() int {
	n := 0
	for _, a := range l {
		n += a.Components
	}
	return n
}

// Stride returns the vertex size in bytes.
func (l VertexLayout) Stride() int {
	return l.Floats() * 4
}

// Predefined layouts.
var (
	LayoutPosNormalUV = VertexLayout{{AttribPosition, 3}, {AttribNormal, 3}, {AttribTexCoord0, 2}}
	LayoutPosColor    = VertexLayout{{AttribPosition, 3}, {AttribColor0, 4}}
	LayoutPosColorUV  = VertexLayout{{AttribPosition, 3}, {AttribColor0, 4}, {AttribTexCoord0, 2}}
)

// Device is an immediate-mode GPU.
type Device interface {
	CreateVertexBuffer(layout VertexLayout, data []float32) Handle
	CreateIndexBuffer(indices []uint32, format IndexFormat) Handle
	CreateTexture2D(width, height int, rgba []byte) Handle
	CreateProgram(name string) Handle
	CreateUniform(name string, typ UniformType) Handle
	Destroy(kind Kind, h Handle)

	Clear(rgba mgl32.Vec4, depth float32)
	SetViewTransform(view, proj mgl32.Mat4)
	SetTransform(model mgl32.Mat4)
	SetVertexBuffer(h Handle)
	SetIndexBuffer(h Handle)
	SetUniform(u Handle, value mgl32.Vec4)
	SetTexture(slot uint8, sampler Handle, tex Handle)
	SetState(s State)
	Submit(program Handle)
	Frame()
}
