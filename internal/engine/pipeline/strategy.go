package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/shader"
	"github.com/Faultbox/pbrview/internal/logger"
)

// DrawStrategy produces the draws of a frame after the clear pass.
// Release frees whatever GPU objects the strategy created and must be
// safe to call more than once.
type DrawStrategy interface {
	Name() string
	Draw(ctx *FrameContext)
	Release()
}

// SceneDrawStrategy draws the scene graph through the sorted forward pass.
type SceneDrawStrategy struct {
	forward ForwardPass
}

// NewSceneDrawStrategy creates the scene path.
func NewSceneDrawStrategy() *SceneDrawStrategy {
	return &SceneDrawStrategy{}
}

func (s *SceneDrawStrategy) Name() string { return "scene" }

func (s *SceneDrawStrategy) Draw(ctx *FrameContext) {
	s.forward.Prepare(ctx)
	s.forward.Execute(ctx)
}

// Items returns the draw list of the last frame.
func (s *SceneDrawStrategy) Items() []DrawItem {
	return s.forward.Items()
}

func (s *SceneDrawStrategy) Release() {}

// Primitive is the built-in shape of the direct path.
type Primitive int

const (
	PrimitiveTriangle Primitive = iota
	PrimitiveQuad
)

func (p Primitive) String() string {
	if p == PrimitiveQuad {
		return "quad"
	}
	return "triangle"
}

// ParsePrimitive maps "quad" to PrimitiveQuad and anything else to
// PrimitiveTriangle.
func ParsePrimitive(s string) Primitive {
	if s == "quad" {
		return PrimitiveQuad
	}
	return PrimitiveTriangle
}

// FallbackSource supplies the texture the direct path samples.
type FallbackSource interface {
	Fallback() gpu.Handle
}

// Unlit program uniforms.
const (
	UniformTexColor    = "s_texColor"
	UniformUnlitParams = "u_unlitParams"
)

const directState = gpu.StateWriteRGB | gpu.StateWriteA | gpu.StateMSAA

type directGeometry struct {
	vb        *gpu.VertexBuffer
	triangles int
}

// DirectDrawStrategy draws a single built-in triangle or quad with the
// unlit program, rotated about Z by Angle radians. GPU objects are
// created on first draw.
type DirectDrawStrategy struct {
	Primitive Primitive
	Textured  bool
	Angle     float32
	// Speed advances Angle in radians per second.
	Speed float32

	textures FallbackSource
	log      *zap.Logger

	ready     bool
	failed    bool
	program   *gpu.Program
	sampler   *gpu.Uniform
	params    *gpu.Uniform
	quadIndex *gpu.IndexBuffer
	// geometry is indexed by primitive, then textured.
	geometry [2][2]directGeometry
}

// NewDirectDrawStrategy creates the direct path. textures may be nil, in
// which case the textured variant draws untextured.
func NewDirectDrawStrategy(textures FallbackSource) *DirectDrawStrategy {
	return &DirectDrawStrategy{
		Speed:    1,
		textures: textures,
		log:      logger.Named("direct"),
	}
}

func (s *DirectDrawStrategy) Name() string { return "direct" }

// Advance rotates the primitive by Speed*dt.
func (s *DirectDrawStrategy) Advance(dt float32) {
	s.Angle += s.Speed * dt
}

// Triangle: yellow apex, cyan right, green left.
var (
	triColor = []float32{
		0.0, 0.6, 0, 1, 1, 0, 1,
		0.8, -0.6, 0, 0, 1, 1, 1,
		-0.6, -0.6, 0, 0, 1, 0, 1,
	}
	triTextured = []float32{
		0.0, 0.6, 0, 1, 1, 1, 1, 0.5, 0,
		0.8, -0.6, 0, 1, 1, 1, 1, 1, 1,
		-0.6, -0.6, 0, 1, 1, 1, 1, 0, 1,
	}
	quadColor = []float32{
		-0.8, 0.6, 0, 1, 1, 0, 1,
		0.8, 0.6, 0, 0, 1, 1, 1,
		0.8, -0.6, 0, 0, 1, 0, 1,
		-0.8, -0.6, 0, 1, 1, 0, 1,
	}
	quadTextured = []float32{
		-0.8, 0.6, 0, 1, 1, 1, 1, 0, 0,
		0.8, 0.6, 0, 1, 1, 1, 1, 1, 0,
		0.8, -0.6, 0, 1, 1, 1, 1, 1, 1,
		-0.8, -0.6, 0, 1, 1, 1, 1, 0, 1,
	}
	quadIndices = []uint32{0, 1, 2, 0, 2, 3}
)

func (s *DirectDrawStrategy) init(dev gpu.Device) bool {
	if s.ready {
		return true
	}
	if s.failed {
		return false
	}

	s.program = gpu.NewProgram(dev, shader.ProgramUnlit)
	s.sampler = gpu.NewUniform(dev, UniformTexColor, gpu.UniformSampler)
	s.params = gpu.NewUniform(dev, UniformUnlitParams, gpu.UniformVec4)
	s.quadIndex = gpu.NewIndexBuffer(dev, quadIndices, gpu.Index16)
	s.geometry[PrimitiveTriangle][0] = directGeometry{gpu.NewVertexBuffer(dev, gpu.LayoutPosColor, triColor), 1}
	s.geometry[PrimitiveTriangle][1] = directGeometry{gpu.NewVertexBuffer(dev, gpu.LayoutPosColorUV, triTextured), 1}
	s.geometry[PrimitiveQuad][0] = directGeometry{gpu.NewVertexBuffer(dev, gpu.LayoutPosColor, quadColor), 2}
	s.geometry[PrimitiveQuad][1] = directGeometry{gpu.NewVertexBuffer(dev, gpu.LayoutPosColorUV, quadTextured), 2}

	ok := s.program.Valid() && s.params.Valid() && s.quadIndex.Valid()
	for _, byTex := range s.geometry {
		for _, g := range byTex {
			ok = ok && g.vb.Valid()
		}
	}
	if !ok {
		s.log.Error("failed to create direct draw resources")
		s.Release()
		s.failed = true
		return false
	}
	s.ready = true
	return true
}

func (s *DirectDrawStrategy) Draw(ctx *FrameContext) {
	dev := ctx.Device
	if !s.init(dev) {
		ctx.Stats.Skipped++
		return
	}

	prim := s.Primitive
	if prim != PrimitiveQuad {
		prim = PrimitiveTriangle
	}
	textured := 0
	var tex gpu.Handle
	if s.Textured && s.textures != nil {
		if tex = s.textures.Fallback(); tex != gpu.InvalidHandle {
			textured = 1
		}
	}
	geom := s.geometry[prim][textured]

	dev.SetTransform(mgl32.HomogRotate3DZ(s.Angle))
	dev.SetVertexBuffer(geom.vb.ID())
	if prim == PrimitiveQuad {
		dev.SetIndexBuffer(s.quadIndex.ID())
	}
	if textured == 1 {
		dev.SetTexture(0, s.sampler.ID(), tex)
	}
	gpu.SetVec4(dev, s.params, mgl32.Vec4{float32(textured), 0, 0, 0})
	dev.SetState(directState)
	dev.Submit(s.program.ID())

	ctx.Stats.Draws++
	ctx.Stats.Triangles += geom.triangles
}

func (s *DirectDrawStrategy) Release() {
	s.program.Release()
	s.sampler.Release()
	s.params.Release()
	s.quadIndex.Release()
	for i := range s.geometry {
		for j := range s.geometry[i] {
			s.geometry[i][j].vb.Release()
		}
	}
	s.ready = false
}
