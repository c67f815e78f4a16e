// Package pipeline submits a scene to a gpu.Device as a forward PBR frame.
//
// A frame is a ClearPass followed by the active DrawStrategy. The scene
// strategy collects one DrawItem per drawable instance, sorts them by
// DrawKey and binds buffers, textures, uniforms and state for each.
package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/scene"
	"github.com/Faultbox/pbrview/internal/engine/shader"
	"github.com/Faultbox/pbrview/internal/logger"
)

// DefaultClearColor is the dark gray the viewer clears to.
var DefaultClearColor = mgl32.Vec4{0.188, 0.188, 0.188, 1}

// Pipeline owns the frame uniforms and the strategies it has been given.
// Programs it links for materials are handed to the material manager.
type Pipeline struct {
	dev gpu.Device
	log *zap.Logger

	clear      *ClearPass
	strategy   DrawStrategy
	strategies []DrawStrategy

	frame     [4]*gpu.Uniform
	materials *material.Manager
	// failed remembers materials whose program could not be linked.
	failed map[material.Handle]bool

	stats Stats
	shut  bool
}

// New creates a pipeline drawing the scene strategy. A nil log uses the
// package logger.
func New(dev gpu.Device, log *zap.Logger) *Pipeline {
	if log == nil {
		log = logger.Named("pipeline")
	}
	p := &Pipeline{
		dev:    dev,
		log:    log,
		clear:  NewClearPass(DefaultClearColor),
		failed: make(map[material.Handle]bool),
	}
	for i, name := range lighting.UniformNames {
		if p.frame[i] = gpu.NewUniform(dev, name, gpu.UniformVec4); p.frame[i] == nil {
			log.Warn("failed to create frame uniform", zap.String("name", name))
		}
	}
	p.SetStrategy(NewSceneDrawStrategy())
	return p
}

// SetClearColor changes the clear pass color.
func (p *Pipeline) SetClearColor(c mgl32.Vec4) {
	p.clear.Color = c
}

// SetStrategy selects how the next frames are drawn. The pipeline keeps
// every strategy it has seen and releases them on Shutdown.
func (p *Pipeline) SetStrategy(s DrawStrategy) {
	if s == nil {
		return
	}
	known := false
	for _, have := range p.strategies {
		if have == s {
			known = true
			break
		}
	}
	if !known {
		p.strategies = append(p.strategies, s)
	}
	if p.strategy != s {
		p.log.Debug("draw strategy selected", zap.String("strategy", s.Name()))
	}
	p.strategy = s
}

// Strategy returns the active strategy.
func (p *Pipeline) Strategy() DrawStrategy {
	return p.strategy
}

// Submit draws one frame: clear and camera, frame uniforms, then the
// active strategy. Instances without buffers or a material are skipped.
func (p *Pipeline) Submit(sc *scene.Scene, cam *camera.Camera, light *lighting.State, materials *material.Manager) {
	p.stats = Stats{}
	if p.shut {
		return
	}
	p.materials = materials

	ctx := &FrameContext{
		Device:    p.dev,
		Scene:     sc,
		Camera:    cam,
		Lighting:  light,
		Materials: materials,
		Stats:     &p.stats,
		programs:  p,
	}

	p.clear.Prepare(ctx)
	p.clear.Execute(ctx)
	p.uploadFrameUniforms(light)
	p.strategy.Draw(ctx)
	p.dev.Frame()
}

func (p *Pipeline) uploadFrameUniforms(light *lighting.State) {
	if light == nil {
		def := lighting.Default()
		light = &def
	}
	values := light.Vectors()
	for i, u := range p.frame {
		gpu.SetVec4(p.dev, u, values[i])
	}
}

// ProgramFor links the default PBR program for a material that has none
// and attaches it. A failed link is logged once per material.
func (p *Pipeline) ProgramFor(m material.Material) gpu.Handle {
	if m.HasProgram() {
		return m.Program
	}
	if p.materials == nil || p.failed[m.Handle] {
		return gpu.InvalidHandle
	}
	// An earlier draw this frame may have attached one already.
	if cur, ok := p.materials.Get(m.Handle); ok && cur.HasProgram() {
		return cur.Program
	}

	prog := gpu.NewProgram(p.dev, shader.ProgramPBR)
	if prog == nil {
		p.failed[m.Handle] = true
		p.log.Warn("failed to link default program", zap.Uint32("material", uint32(m.Handle)))
		return gpu.InvalidHandle
	}
	id := prog.ID()
	if !p.materials.AttachProgram(m.Handle, prog) {
		return gpu.InvalidHandle
	}
	p.log.Debug("default program attached", zap.Uint32("material", uint32(m.Handle)))
	return id
}

// Stats returns the counters of the last frame.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Shutdown releases the frame uniforms and every strategy. Safe to call
// twice; later Submits draw nothing.
func (p *Pipeline) Shutdown() {
	if p.shut {
		return
	}
	for _, u := range p.frame {
		u.Release()
	}
	for _, s := range p.strategies {
		s.Release()
	}
	p.shut = true
	p.log.Debug("pipeline shut down")
}
