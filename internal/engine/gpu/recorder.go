package gpu

import (
	"maps"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawCall is one submission captured by a Recorder.
type DrawCall struct {
	Program      Handle
	State        State
	Transform    mgl32.Mat4
	VertexBuffer Handle
	IndexBuffer  Handle
	// Elements is the index count, or the vertex count for non-indexed draws.
	Elements int
	Textures [MaxTextureSlots]Handle
	Samplers [MaxTextureSlots]Handle
	Uniforms map[string]mgl32.Vec4
}

type recordedObject struct {
	kind     Kind
	name     string
	elements int
}

// Recorder is a headless Device that keeps every object in memory and
// records submissions. It backs tests and the offline CLI.
type Recorder struct {
	next      Handle
	live      map[Handle]recordedObject
	destroyed map[Handle]int
	failNext  map[Kind]int

	uniforms map[string]mgl32.Vec4
	pending  DrawCall

	View       mgl32.Mat4
	Projection mgl32.Mat4
	ClearColor mgl32.Vec4
	Clears     int
	Frames     int
	// Draws holds the submissions since the last Frame call.
	Draws []DrawCall
	// LastFrame holds the submissions of the previous frame.
	LastFrame []DrawCall
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		live:       make(map[Handle]recordedObject),
		destroyed:  make(map[Handle]int),
		failNext:   make(map[Kind]int),
		uniforms:   make(map[string]mgl32.Vec4),
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		pending:    DrawCall{Transform: mgl32.Ident4()},
	}
}

// FailNext makes the next n create calls of kind return InvalidHandle.
func (r *Recorder) FailNext(kind Kind, n int) {
	r.failNext[kind] += n
}

func (r *Recorder) create(kind Kind, name string, elements int) Handle {
	if r.failNext[kind] > 0 {
		r.failNext[kind]--
		return InvalidHandle
	}
	r.next++
	r.live[r.next] = recordedObject{kind: kind, name: name, elements: elements}
	return r.next
}

func (r *Recorder) CreateVertexBuffer(layout VertexLayout, data []float32) Handle {
	floats := layout.Floats()
	if floats == 0 || len(data) == 0 || len(data)%floats != 0 {
		return InvalidHandle
	}
	return r.create(KindVertexBuffer, "", len(data)/floats)
}

func (r *Recorder) CreateIndexBuffer(indices []uint32, format IndexFormat) Handle {
	if len(indices) == 0 {
		return InvalidHandle
	}
	if format == Index16 {
		for _, i := range indices {
			if i > 0xFFFF {
				return InvalidHandle
			}
		}
	}
	return r.create(KindIndexBuffer, "", len(indices))
}

func (r *Recorder) CreateTexture2D(width, height int, rgba []byte) Handle {
	if width <= 0 || height <= 0 || len(rgba) < width*height*4 {
		return InvalidHandle
	}
	return r.create(KindTexture, "", width*height)
}

func (r *Recorder) CreateProgram(name string) Handle {
	return r.create(KindProgram, name, 0)
}

func (r *Recorder) CreateUniform(name string, typ UniformType) Handle {
	return r.create(KindUniform, name, int(typ))
}

func (r *Recorder) Destroy(kind Kind, h Handle) {
	obj, ok := r.live[h]
	if !ok || obj.kind != kind {
		r.destroyed[h]++
		return
	}
	delete(r.live, h)
	r.destroyed[h]++
}

func (r *Recorder) Clear(rgba mgl32.Vec4, depth float32) {
	r.ClearColor = rgba
	r.Clears++
}

func (r *Recorder) SetViewTransform(view, proj mgl32.Mat4) {
	r.View = view
	r.Projection = proj
}

func (r *Recorder) SetTransform(model mgl32.Mat4) { r.pending.Transform = model }
func (r *Recorder) SetVertexBuffer(h Handle)      { r.pending.VertexBuffer = h }
func (r *Recorder) SetIndexBuffer(h Handle)       { r.pending.IndexBuffer = h }
func (r *Recorder) SetState(s State)              { r.pending.State = s }

func (r *Recorder) SetUniform(u Handle, value mgl32.Vec4) {
	if obj, ok := r.live[u]; ok && obj.kind == KindUniform {
		r.uniforms[obj.name] = value
	}
}

func (r *Recorder) SetTexture(slot uint8, sampler Handle, tex Handle) {
	if int(slot) >= MaxTextureSlots {
		return
	}
	r.pending.Samplers[slot] = sampler
	r.pending.Textures[slot] = tex
}

func (r *Recorder) Submit(program Handle) {
	call := r.pending
	call.Program = program
	call.Uniforms = maps.Clone(r.uniforms)
	if obj, ok := r.live[call.IndexBuffer]; ok {
		call.Elements = obj.elements
	} else if obj, ok := r.live[call.VertexBuffer]; ok {
		call.Elements = obj.elements
	}
	r.Draws = append(r.Draws, call)
	r.pending = DrawCall{Transform: mgl32.Ident4()}
}

func (r *Recorder) Frame() {
	r.LastFrame = r.Draws
	r.Draws = nil
	r.Frames++
}

// Live returns the number of live objects of a kind.
func (r *Recorder) Live(kind Kind) int {
	n := 0
	for _, obj := range r.live {
		if obj.kind == kind {
			n++
		}
	}
	return n
}

// LiveTotal returns the number of live objects of every kind.
func (r *Recorder) LiveTotal() int {
	return len(r.live)
}

// IsLive reports whether h names a live object.
func (r *Recorder) IsLive(h Handle) bool {
	_, ok := r.live[h]
	return ok
}

// DestroyCount returns how many times h was passed to Destroy.
func (r *Recorder) DestroyCount(h Handle) int {
	return r.destroyed[h]
}

// Name returns the program or uniform name recorded for h.
func (r *Recorder) Name(h Handle) string {
	return r.live[h].name
}

// Elements returns the vertex, index or texel count recorded for h.
func (r *Recorder) Elements(h Handle) int {
	return r.live[h].elements
}
