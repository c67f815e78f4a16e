// Package renderer provides the OpenGL 4.1 implementation of gpu.Device.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

type vertexBuffer struct {
	vao, vbo uint32
	vertices int32
}

type indexBuffer struct {
	ebo   uint32
	count int32
	typ   uint32
}

type uniform struct {
	name string
	typ  gpu.UniformType
}

type program struct {
	id        uint32
	locations map[string]int32
}

// GLDevice is an immediate-mode gpu.Device on top of OpenGL 4.1 core.
// It must be created and used on the thread that owns the GL context.
type GLDevice struct {
	config Config
	log    *zap.Logger

	next     gpu.Handle
	vbuffers map[gpu.Handle]*vertexBuffer
	ibuffers map[gpu.Handle]*indexBuffer
	textures map[gpu.Handle]uint32
	programs map[gpu.Handle]*program
	uniforms map[gpu.Handle]uniform

	values   map[string]mgl32.Vec4
	view     mgl32.Mat4
	proj     mgl32.Mat4
	model    mgl32.Mat4
	vb, ib   gpu.Handle
	state    gpu.State
	samplers [gpu.MaxTextureSlots]gpu.Handle
	texSlots [gpu.MaxTextureSlots]gpu.Handle
}

// New creates a new GL device.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &GLDevice{
		config:   cfg,
		log:      logger.Named("renderer"),
		vbuffers: make(map[gpu.Handle]*vertexBuffer),
		ibuffers: make(map[gpu.Handle]*indexBuffer),
		textures: make(map[gpu.Handle]uint32),
		programs: make(map[gpu.Handle]*program),
		uniforms: make(map[gpu.Handle]uniform),
		values:   make(map[string]mgl32.Vec4),
		view:     mgl32.Ident4(),
		proj:     mgl32.Ident4(),
		model:    mgl32.Ident4(),
	}

	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return d, nil
}

// Close releases every object still owned by the device.
func (d *GLDevice) Close() {
	d.log.Info("closing renderer",
		zap.Int("vertex_buffers", len(d.vbuffers)),
		zap.Int("index_buffers", len(d.ibuffers)),
		zap.Int("textures", len(d.textures)),
		zap.Int("programs", len(d.programs)),
	)
	for h := range d.vbuffers {
		d.Destroy(gpu.KindVertexBuffer, h)
	}
	for h := range d.ibuffers {
		d.Destroy(gpu.KindIndexBuffer, h)
	}
	for h := range d.textures {
		d.Destroy(gpu.KindTexture, h)
	}
	for h := range d.programs {
		d.Destroy(gpu.KindProgram, h)
	}
	clear(d.uniforms)
}

// Resize handles window resize.
func (d *GLDevice) Resize(width, height int) {
	d.config.Width = width
	d.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

func (d *GLDevice) alloc() gpu.Handle {
	d.next++
	return d.next
}

func (d *GLDevice) CreateVertexBuffer(layout gpu.VertexLayout, data []float32) gpu.Handle {
	floats := layout.Floats()
	if floats == 0 || len(data) == 0 || len(data)%floats != 0 {
		return gpu.InvalidHandle
	}

	vb := &vertexBuffer{vertices: int32(len(data) / floats)}
	gl.GenVertexArrays(1, &vb.vao)
	gl.GenBuffers(1, &vb.vbo)
	if vb.vao == 0 || vb.vbo == 0 {
		d.log.Error("failed to create vertex buffer")
		return gpu.InvalidHandle
	}

	gl.BindVertexArray(vb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(layout.Stride())
	offset := 0
	for _, a := range layout {
		loc := uint32(a.Attrib)
		gl.VertexAttribPointerWithOffset(loc, int32(a.Components), gl.FLOAT, false, stride, uintptr(offset))
		gl.EnableVertexAttribArray(loc)
		offset += a.Components * 4
	}
	gl.BindVertexArray(0)

	h := d.alloc()
	d.vbuffers[h] = vb
	return h
}

func (d *GLDevice) CreateIndexBuffer(indices []uint32, format gpu.IndexFormat) gpu.Handle {
	if len(indices) == 0 {
		return gpu.InvalidHandle
	}

	ib := &indexBuffer{count: int32(len(indices))}
	gl.GenBuffers(1, &ib.ebo)
	if ib.ebo == 0 {
		d.log.Error("failed to create index buffer")
		return gpu.InvalidHandle
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.ebo)

	switch format {
	case gpu.Index16:
		narrow := make([]uint16, len(indices))
		for i, v := range indices {
			if v > 0xFFFF {
				gl.DeleteBuffers(1, &ib.ebo)
				d.log.Error("index exceeds 16-bit range", zap.Uint32("index", v))
				return gpu.InvalidHandle
			}
			narrow[i] = uint16(v)
		}
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(narrow)*2, gl.Ptr(narrow), gl.STATIC_DRAW)
		ib.typ = gl.UNSIGNED_SHORT
	default:
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
		ib.typ = gl.UNSIGNED_INT
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	h := d.alloc()
	d.ibuffers[h] = ib
	return h
}

func (d *GLDevice) CreateTexture2D(width, height int, rgba []byte) gpu.Handle {
	if width <= 0 || height <= 0 || len(rgba) < width*height*4 {
		return gpu.InvalidHandle
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		d.log.Error("failed to create texture")
		return gpu.InvalidHandle
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	h := d.alloc()
	d.textures[h] = tex
	return h
}

func (d *GLDevice) CreateProgram(name string) gpu.Handle {
	id, err := CompileNamed(name)
	if err != nil {
		d.log.Error("failed to create program", zap.String("name", name), zap.Error(err))
		return gpu.InvalidHandle
	}
	h := d.alloc()
	d.programs[h] = &program{id: id, locations: make(map[string]int32)}
	return h
}

func (d *GLDevice) CreateUniform(name string, typ gpu.UniformType) gpu.Handle {
	if name == "" {
		return gpu.InvalidHandle
	}
	h := d.alloc()
	d.uniforms[h] = uniform{name: name, typ: typ}
	return h
}

func (d *GLDevice) Destroy(kind gpu.Kind, h gpu.Handle) {
	switch kind {
	case gpu.KindVertexBuffer:
		if vb, ok := d.vbuffers[h]; ok {
			gl.DeleteVertexArrays(1, &vb.vao)
			gl.DeleteBuffers(1, &vb.vbo)
			delete(d.vbuffers, h)
		}
	case gpu.KindIndexBuffer:
		if ib, ok := d.ibuffers[h]; ok {
			gl.DeleteBuffers(1, &ib.ebo)
			delete(d.ibuffers, h)
		}
	case gpu.KindTexture:
		if tex, ok := d.textures[h]; ok {
			gl.DeleteTextures(1, &tex)
			delete(d.textures, h)
		}
	case gpu.KindProgram:
		if p, ok := d.programs[h]; ok {
			gl.DeleteProgram(p.id)
			delete(d.programs, h)
		}
	case gpu.KindUniform:
		delete(d.uniforms, h)
	}
}

func (d *GLDevice) Clear(rgba mgl32.Vec4, depth float32) {
	gl.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
	gl.ClearDepth(float64(depth))
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GLDevice) SetViewTransform(view, proj mgl32.Mat4) {
	d.view = view
	d.proj = proj
}

func (d *GLDevice) SetTransform(model mgl32.Mat4) { d.model = model }
func (d *GLDevice) SetVertexBuffer(h gpu.Handle)  { d.vb = h }
func (d *GLDevice) SetIndexBuffer(h gpu.Handle)   { d.ib = h }
func (d *GLDevice) SetState(s gpu.State)          { d.state = s }

func (d *GLDevice) SetUniform(u gpu.Handle, value mgl32.Vec4) {
	if un, ok := d.uniforms[u]; ok {
		d.values[un.name] = value
	}
}

func (d *GLDevice) SetTexture(slot uint8, sampler gpu.Handle, tex gpu.Handle) {
	if int(slot) >= gpu.MaxTextureSlots {
		return
	}
	d.samplers[slot] = sampler
	d.texSlots[slot] = tex
}

func (p *program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// Submit draws the bound geometry with the given program and resets the
// transient draw state.
func (d *GLDevice) Submit(programHandle gpu.Handle) {
	defer d.resetDraw()

	p, ok := d.programs[programHandle]
	vb, okVB := d.vbuffers[d.vb]
	if !ok || !okVB {
		return
	}

	gl.UseProgram(p.id)
	applyState(d.state)

	if loc := p.location("u_model"); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &d.model[0])
	}
	if loc := p.location("u_view"); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &d.view[0])
	}
	if loc := p.location("u_proj"); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &d.proj[0])
	}
	for name, v := range d.values {
		if loc := p.location(name); loc >= 0 {
			gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
		}
	}
	for slot := range d.texSlots {
		tex, ok := d.textures[d.texSlots[slot]]
		if !ok {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
		gl.BindTexture(gl.TEXTURE_2D, tex)
		if un, ok := d.uniforms[d.samplers[slot]]; ok {
			if loc := p.location(un.name); loc >= 0 {
				gl.Uniform1i(loc, int32(slot))
			}
		}
	}

	gl.BindVertexArray(vb.vao)
	if ib, ok := d.ibuffers[d.ib]; ok {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.ebo)
		gl.DrawElementsWithOffset(gl.TRIANGLES, ib.count, ib.typ, 0)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, vb.vertices)
	}
	gl.BindVertexArray(0)
}

func (d *GLDevice) resetDraw() {
	d.model = mgl32.Ident4()
	d.vb, d.ib = gpu.InvalidHandle, gpu.InvalidHandle
	d.state = 0
	d.samplers = [gpu.MaxTextureSlots]gpu.Handle{}
	d.texSlots = [gpu.MaxTextureSlots]gpu.Handle{}
}

// Frame ends the current frame. Buffer swapping is owned by the window.
func (d *GLDevice) Frame() {
	gl.Flush()
}

func applyState(s gpu.State) {
	gl.ColorMask(s.Has(gpu.StateWriteRGB), s.Has(gpu.StateWriteRGB), s.Has(gpu.StateWriteRGB), s.Has(gpu.StateWriteA))
	gl.DepthMask(s.Has(gpu.StateWriteZ))

	if s.Has(gpu.StateDepthTestLess) {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	if s.Culls() {
		// Cull-CW drops clockwise faces, so counter-clockwise is front.
		front := uint32(gl.CCW)
		if !s.Has(gpu.StateCullCW) {
			front = gl.CW
		}
		gl.Enable(gl.CULL_FACE)
		gl.FrontFace(front)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	if s.Has(gpu.StateBlendAlpha) {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}

	if s.Has(gpu.StateMSAA) {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}
}

var _ gpu.Device = (*GLDevice)(nil)
