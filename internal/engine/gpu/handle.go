package gpu

import "github.com/go-gl/mathgl/mgl32"

type kindTag interface {
	kind() Kind
}

type (
	vertexBufferTag struct{}
	indexBufferTag  struct{}
	textureTag      struct{}
	programTag      struct{}
	uniformTag      struct{}
)

func (vertexBufferTag) kind() Kind { return KindVertexBuffer }
func (indexBufferTag) kind() Kind  { return KindIndexBuffer }
func (textureTag) kind() Kind      { return KindTexture }
func (programTag) kind() Kind      { return KindProgram }
func (uniformTag) kind() Kind      { return KindUniform }

// Owned is an exclusively owned device object. Release destroys it exactly
// once; every method is safe on a nil or already released value.
type Owned[T kindTag] struct {
	dev Device
	id  Handle
}

// Owning handle types, one per object category.
type (
	VertexBuffer = Owned[vertexBufferTag]
	IndexBuffer  = Owned[indexBufferTag]
	Texture      = Owned[textureTag]
	Program      = Owned[programTag]
	Uniform      = Owned[uniformTag]
)

func wrap[T kindTag](dev Device, id Handle) *Owned[T] {
	if id == InvalidHandle {
		return nil
	}
	return &Owned[T]{dev: dev, id: id}
}

// Valid reports whether the object is still live.
func (o *Owned[T]) Valid() bool {
	return o != nil && o.id != InvalidHandle
}

// ID returns the device handle, or InvalidHandle.
func (o *Owned[T]) ID() Handle {
	if o == nil {
		return InvalidHandle
	}
	return o.id
}

// Kind returns the object category.
func (o *Owned[T]) Kind() Kind {
	var tag T
	return tag.kind()
}

// Release destroys the device object if it is still live.
func (o *Owned[T]) Release() {
	if !o.Valid() {
		return
	}
	var tag T
	o.dev.Destroy(tag.kind(), o.id)
	o.id = InvalidHandle
}

// NewVertexBuffer uploads interleaved vertices. Returns nil on failure.
func NewVertexBuffer(dev Device, layout VertexLayout, data []float32) *VertexBuffer {
	return wrap[vertexBufferTag](dev, dev.CreateVertexBuffer(layout, data))
}

// NewIndexBuffer uploads indices in the given format. Returns nil on failure.
func NewIndexBuffer(dev Device, indices []uint32, format IndexFormat) *IndexBuffer {
	return wrap[indexBufferTag](dev, dev.CreateIndexBuffer(indices, format))
}

// NewTexture uploads an RGBA8 image. Returns nil on failure.
func NewTexture(dev Device, width, height int, rgba []byte) *Texture {
	return wrap[textureTag](dev, dev.CreateTexture2D(width, height, rgba))
}

// NewProgram links the named shader program. Returns nil on failure.
func NewProgram(dev Device, name string) *Program {
	return wrap[programTag](dev, dev.CreateProgram(name))
}

// NewUniform creates a named uniform. Returns nil on failure.
func NewUniform(dev Device, name string, typ UniformType) *Uniform {
	return wrap[uniformTag](dev, dev.CreateUniform(name, typ))
}

// SetVec4 is a convenience for Device.SetUniform on an owned uniform.
func SetVec4(dev Device, u *Uniform, v mgl32.Vec4) {
	if u.Valid() {
		dev.SetUniform(u.ID(), v)
	}
}
