package pipeline

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/scene"
	pkgmath "github.com/Faultbox/pbrview/pkg/math"
)

// Pass ids, stored in the top byte of a DrawKey.
const (
	PassClear   uint8 = 0
	PassForward uint8 = 1
)

// RenderPass is one stage of a frame. Prepare gathers work, Execute
// submits it.
type RenderPass interface {
	ID() uint8
	Prepare(ctx *FrameContext)
	Execute(ctx *FrameContext)
}

// ClearPass clears the target and pushes the camera matrices.
type ClearPass struct {
	Color mgl32.Vec4
	Depth float32
}

// NewClearPass returns a pass clearing to color and depth 1.
func NewClearPass(color mgl32.Vec4) *ClearPass {
	return &ClearPass{Color: color, Depth: 1}
}

func (p *ClearPass) ID() uint8 { return PassClear }

func (p *ClearPass) Prepare(ctx *FrameContext) {}

func (p *ClearPass) Execute(ctx *FrameContext) {
	ctx.Device.Clear(p.Color, p.Depth)
	if ctx.Camera != nil {
		ctx.Device.SetViewTransform(ctx.Camera.View(), ctx.Camera.Projection())
	}
}

// DrawItem is one sorted draw of the forward pass.
type DrawItem struct {
	Key      DrawKey
	Instance *scene.MeshInstance
	Material material.Material
	Model    mgl32.Mat4
}

// ForwardPass draws every valid scene instance with its PBR material.
type ForwardPass struct {
	items []DrawItem
}

func (p *ForwardPass) ID() uint8 { return PassForward }

// Items returns the draw list built by the last Prepare, in submit order.
func (p *ForwardPass) Items() []DrawItem {
	return p.items
}

// Prepare collects drawable instances whose material resolves and sorts
// them by key.
func (p *ForwardPass) Prepare(ctx *FrameContext) {
	p.items = p.items[:0]
	if ctx.Scene == nil || ctx.Materials == nil {
		return
	}

	view := mgl32.Ident4()
	var near, far float32 = 0, 1
	if ctx.Camera != nil {
		view = ctx.Camera.View()
		near, far = ctx.Camera.ClipRange()
	}

	for _, inst := range ctx.Scene.Instances() {
		if !inst.Drawable() {
			ctx.Stats.Skipped++
			continue
		}
		mat, ok := ctx.Materials.Get(inst.Material)
		if !ok {
			ctx.Stats.Skipped++
			continue
		}
		model := inst.Transform.Matrix()
		p.items = append(p.items, DrawItem{
			Key:      MakeDrawKey(p.ID(), uint32(inst.Material), depthOf(view, model, near, far)),
			Instance: inst,
			Material: mat,
			Model:    model,
		})
	}

	slices.SortStableFunc(p.items, func(a, b DrawItem) int {
		return cmp.Compare(a.Key, b.Key)
	})
}

// depthOf quantizes the view-space distance of the instance origin.
func depthOf(view, model mgl32.Mat4, near, far float32) uint32 {
	origin := pkgmath.TransformPoint(view.Mul4(model), mgl32.Vec3{})
	return pkgmath.QuantizeDepth(-origin.Z(), near, far)
}

// Execute binds and submits each prepared item.
func (p *ForwardPass) Execute(ctx *FrameContext) {
	dev := ctx.Device
	for _, item := range p.items {
		prog := ctx.ProgramFor(item.Material)
		if prog == gpu.InvalidHandle {
			ctx.Stats.Skipped++
			continue
		}

		inst := item.Instance
		state := item.Material.State
		if inst.State != 0 {
			state = inst.State
		}

		dev.SetVertexBuffer(inst.VertexBuffer.ID())
		dev.SetIndexBuffer(inst.IndexBuffer.ID())
		dev.SetTransform(item.Model)
		item.Material.BindTextures(dev)
		item.Material.BindUniforms(dev)
		dev.SetState(state)
		dev.Submit(prog)

		ctx.Stats.Draws++
		ctx.Stats.Triangles += inst.Triangles()
	}
}
