// Package camera provides the view/projection holder and the orbit and
// free-fly controllers that drive it.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	pkgmath "github.com/Faultbox/pbrview/pkg/math"
)

// Mode selects the projection.
type Mode int

const (
	Perspective Mode = iota
	Ortho
)

func (m Mode) String() string {
	if m == Ortho {
		return "ortho"
	}
	return "perspective"
}

// ParseMode maps "ortho" to Ortho and anything else to Perspective.
func ParseMode(s string) Mode {
	if s == "ortho" || s == "orthographic" {
		return Ortho
	}
	return Perspective
}

// Projection defaults.
const (
	DefaultFovY   = 60 // degrees
	DefaultNear   = 0.1
	DefaultFar    = 100
	OrthoNear     = 0
	OrthoFar      = 100
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Camera holds the view and projection matrices. The projection is rebuilt
// lazily from the mode and viewport unless it was injected with
// SetProjection.
type Camera struct {
	mode          Mode
	fovY          float32 // degrees
	near, far     float32
	width, height int

	view mgl32.Mat4
	proj mgl32.Mat4

	projDirty    bool
	viewExternal bool
	projExternal bool
}

// New returns a perspective camera at (0,0,-2.2) looking at the origin.
func New() *Camera {
	return &Camera{
		mode:      Perspective,
		fovY:      DefaultFovY,
		near:      DefaultNear,
		far:       DefaultFar,
		width:     DefaultWidth,
		height:    DefaultHeight,
		view:      mgl32.LookAtV(mgl32.Vec3{0, 0, -2.2}, mgl32.Vec3{}, pkgmath.WorldUp),
		projDirty: true,
	}
}

// Mode returns the projection mode.
func (c *Camera) Mode() Mode {
	return c.mode
}

// SetMode switches projection mode and drops any injected matrices.
func (c *Camera) SetMode(m Mode) {
	c.mode = m
	c.invalidate()
}

// SetViewport resizes the viewport and drops any injected matrices.
func (c *Camera) SetViewport(width, height int) {
	c.width, c.height = width, height
	c.invalidate()
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (int, int) {
	return c.width, c.height
}

// SetPerspective changes the vertical field of view (degrees) and clip planes.
func (c *Camera) SetPerspective(fovYDeg, near, far float32) {
	c.fovY, c.near, c.far = fovYDeg, near, far
	c.projDirty = true
}

func (c *Camera) invalidate() {
	c.projDirty = true
	c.viewExternal = false
	c.projExternal = false
}

// Aspect returns width/height, or 16:9 for an empty viewport.
func (c *Camera) Aspect() float32 {
	if c.height <= 0 {
		return 16.0 / 9.0
	}
	return float32(c.width) / float32(c.height)
}

// ClipRange returns the near and far planes of the current mode.
func (c *Camera) ClipRange() (near, far float32) {
	if c.mode == Ortho {
		return OrthoNear, OrthoFar
	}
	return c.near, c.far
}

// SetView injects a view matrix.
func (c *Camera) SetView(view mgl32.Mat4) {
	c.view = view
	c.viewExternal = true
}

// SetProjection injects a projection matrix. It is used as is until the
// next mode or viewport change.
func (c *Camera) SetProjection(proj mgl32.Mat4) {
	c.proj = proj
	c.projExternal = true
	c.projDirty = false
}

// ViewExternal reports whether the view was injected.
func (c *Camera) ViewExternal() bool { return c.viewExternal }

// ProjectionExternal reports whether the projection was injected.
func (c *Camera) ProjectionExternal() bool { return c.projExternal }

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

// Projection returns the projection matrix, rebuilding it if needed.
func (c *Camera) Projection() mgl32.Mat4 {
	if c.projDirty && !c.projExternal {
		c.proj = c.buildProjection()
		c.projDirty = false
	}
	return c.proj
}

func (c *Camera) buildProjection() mgl32.Mat4 {
	if c.mode == Ortho {
		return mgl32.Ortho(-1, 1, -1, 1, OrthoNear, OrthoFar)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.fovY), c.Aspect(), c.near, c.far)
}

// Position returns the eye position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	return pkgmath.EyePosition(c.view)
}

// Controller writes the camera's view matrix once per frame.
type Controller interface {
	Update(cam *Camera, dt float32)
}
