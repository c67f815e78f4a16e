package pipeline

import (
	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/scene"
)

// Stats counts the work of one frame.
type Stats struct {
	Draws     int
	Triangles int
	// Skipped counts instances dropped for missing buffers, material or program.
	Skipped int
}

// FrameContext is what passes and strategies see of a frame.
type FrameContext struct {
	Device    gpu.Device
	Scene     *scene.Scene
	Camera    *camera.Camera
	Lighting  *lighting.State
	Materials *material.Manager
	Stats     *Stats

	programs ProgramSource
}

// ProgramSource resolves the shading program of a material.
type ProgramSource interface {
	ProgramFor(m material.Material) gpu.Handle
}

// ProgramFor returns the program a material draws with, or InvalidHandle.
func (ctx *FrameContext) ProgramFor(m material.Material) gpu.Handle {
	if m.HasProgram() {
		return m.Program
	}
	if ctx.programs == nil {
		return gpu.InvalidHandle
	}
	return ctx.programs.ProgramFor(m)
}
