package material

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/texture"
	"github.com/Faultbox/pbrview/internal/logger"
)

// TextureSource resolves texture paths to shared device textures.
// resource.Cache implements it.
type TextureSource interface {
	Get(path string) gpu.Handle
}

type record struct {
	desc     Desc
	flags    Flags
	state    gpu.State
	program  *gpu.Program
	textures [SlotCount]gpu.Handle

	placeholders [SlotCount]*gpu.Texture
	samplers     [SlotCount]*gpu.Uniform
	uniforms     [4]*gpu.Uniform
}

func (r *record) view(h Handle) Material {
	m := Material{
		Handle:   h,
		Desc:     r.desc,
		Flags:    r.flags,
		State:    r.state,
		Program:  r.program.ID(),
		Textures: r.textures,
	}
	for i, s := range r.samplers {
		m.Samplers[i] = s.ID()
	}
	for i, u := range r.uniforms {
		m.uniforms[i] = u.ID()
	}
	return m
}

func (r *record) release() {
	r.program.Release()
	for _, u := range r.uniforms {
		u.Release()
	}
	for s := range r.samplers {
		r.samplers[s].Release()
		r.placeholders[s].Release()
	}
}

// Manager owns the material pool.
type Manager struct {
	dev      gpu.Device
	textures TextureSource
	log      *zap.Logger
	pool     []*record
	mu       sync.RWMutex
}

// NewManager creates a manager that pulls textures from src.
func NewManager(dev gpu.Device, src TextureSource) *Manager {
	return &Manager{
		dev:      dev,
		textures: src,
		log:      logger.Named("material"),
	}
}

// Create binds desc to the GPU and returns its handle. Slots whose texture
// is unset or fails to load get a 1x1 placeholder and leave their flag bit
// clear. Device failures are logged; the material is still created.
func (m *Manager) Create(desc Desc) Handle {
	r := &record{
		desc:  desc,
		state: desc.State(),
	}

	for s, path := range desc.TexturePaths() {
		slot := Slot(s)
		if path != "" {
			if tex := m.textures.Get(path); tex != gpu.InvalidHandle {
				r.textures[slot] = tex
				r.flags = r.flags.with(slot)
			} else {
				m.log.Warn("material texture missing, using placeholder",
					zap.Stringer("slot", slot), zap.String("path", path))
			}
		}
		if !r.flags.Has(slot) {
			c := placeholderColors[slot]
			img := texture.Solid(c[0], c[1], c[2], c[3])
			w, h := texture.Size(img)
			r.placeholders[slot] = gpu.NewTexture(m.dev, w, h, texture.Pixels(img))
			r.textures[slot] = r.placeholders[slot].ID()
		}
		r.samplers[slot] = gpu.NewUniform(m.dev, samplerNames[slot], gpu.UniformSampler)
	}

	for i, name := range []string{UniformBaseColorFactor, UniformMRFactor, UniformEmissive, UniformFlags} {
		r.uniforms[i] = gpu.NewUniform(m.dev, name, gpu.UniformVec4)
		if !r.uniforms[i].Valid() {
			m.log.Error("material uniform creation failed", zap.String("uniform", name))
		}
	}

	m.mu.Lock()
	h := Handle(len(m.pool))
	m.pool = append(m.pool, r)
	m.mu.Unlock()

	m.log.Debug("material created",
		zap.Uint32("handle", uint32(h)),
		zap.Uint32("flags", uint32(r.flags)),
		zap.Bool("two_sided", desc.TwoSided))
	return h
}

// Get returns a view of the material.
func (m *Manager) Get(h Handle) (Material, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if int(h) >= len(m.pool) {
		return Material{}, false
	}
	return m.pool[h].view(h), true
}

// AttachProgram binds prog to the material and takes ownership of it.
// A previously bound program is released. Returns false if h is unknown,
// in which case prog is released.
func (m *Manager) AttachProgram(h Handle, prog *gpu.Program) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(h) >= len(m.pool) {
		prog.Release()
		return false
	}
	r := m.pool[h]
	if r.program != prog {
		r.program.Release()
		r.program = prog
	}
	return true
}

// Len returns the number of pooled materials.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pool)
}

// Shutdown releases every GPU object owned by every material and empties
// the pool. Cached textures are left to their cache. Safe to call twice.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.pool {
		r.release()
	}
	if len(m.pool) > 0 {
		m.log.Debug("materials released", zap.Int("count", len(m.pool)))
	}
	m.pool = nil
}
