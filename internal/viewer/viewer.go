// Package viewer runs the interactive model viewer: it maps input to the
// camera controllers, lighting and draw strategy, and submits one frame
// per loop iteration.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/config"
	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/exporter"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/input"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/model"
	"github.com/Faultbox/pbrview/internal/engine/pipeline"
	"github.com/Faultbox/pbrview/internal/engine/resource"
	"github.com/Faultbox/pbrview/internal/engine/scene"
	"github.com/Faultbox/pbrview/internal/logger"
)

// Surface is the window the viewer presents to.
type Surface interface {
	// Poll feeds pending events into s and returns false once the window
	// should close.
	Poll(s *input.State) bool
	SwapBuffers()
	Size() (int, int)
}

type resizer interface {
	Resize(width, height int)
}

// Point light adjustments per key press.
const (
	radiusStep    = 0.5
	minRadius     = 0.1
	intensityStep = 0.25
)

// Help lists the key bindings, logged on H.
var Help = []string{
	"left drag: orbit, wheel: zoom",
	"WASD/QE + shift: fly, hold a mouse button to look",
	"tab: orbit/fly",
	"L: point light, [ ]: radius, 9 0: intensity",
	"O/P: ortho/perspective",
	"1/2: direct triangle/quad, T: texture, M: scene (cube when no model is set)",
	"I: import model, F: frame model, X: export OBJ, esc: quit",
}

// ExportName is the OBJ file written by Export inside the export directory.
const ExportName = "scene.obj"

// Viewer owns every engine object of the interactive application.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	surface Surface
	dev     gpu.Device

	cache     *resource.Cache
	materials *material.Manager
	scene     *scene.Scene
	builder   *scene.Builder

	cam    *camera.Camera
	orbit  *camera.Orbit
	fly    *camera.Fly
	active camera.Controller

	light     lighting.State
	pipe      *pipeline.Pipeline
	sceneDraw pipeline.DrawStrategy
	direct    *pipeline.DirectDrawStrategy

	input   *input.State
	timer   *FrameTimer
	running bool
	closed  bool

	// pick asks the user for a model path; "" means cancelled. It runs on
	// its own goroutine and hands the result back through picked.
	pick    func() (string, error)
	picked  chan string
	picking bool
}

// New builds a viewer drawing to dev. surface may be nil for headless use.
func New(cfg *config.Config, dev gpu.Device, surface Surface) *Viewer {
	v := &Viewer{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		surface: surface,
		dev:     dev,
		scene:   scene.New(),
		builder: scene.NewBuilder(dev),
		cam:     camera.New(),
		orbit:   camera.NewOrbit(cfg.OrbitSettings()),
		fly:     camera.NewFly(cfg.FlySettings()),
		light:   cfg.LightingState(),
		pipe:    pipeline.New(dev, nil),
		input:   input.New(),
		picked:  make(chan string, 1),
	}
	v.cache = resource.NewCache(dev)
	v.materials = material.NewManager(dev, v.cache)

	v.cam.SetMode(cfg.CameraMode())
	v.cam.SetPerspective(cfg.Camera.FovDeg, cfg.Camera.Near, cfg.Camera.Far)
	width, height := cfg.Window.Width, cfg.Window.Height
	if surface != nil {
		width, height = surface.Size()
	}
	v.cam.SetViewport(width, height)

	v.active = v.orbit
	if cfg.Camera.Controller == "fly" {
		v.active = v.fly
	}

	v.pipe.SetClearColor(mgl32.Vec4(cfg.Render.ClearColor))
	v.sceneDraw = v.pipe.Strategy()
	v.direct = pipeline.NewDirectDrawStrategy(v.cache)
	v.direct.Primitive = pipeline.ParsePrimitive(cfg.Render.Primitive)
	v.direct.Textured = cfg.Render.Textured
	if cfg.Render.Strategy == "direct" {
		v.pipe.SetStrategy(v.direct)
	}
	return v
}

// LoadModel imports a model, adds it to the scene and frames the orbit
// camera on it. The configured texture replaces the model's own.
func (v *Viewer) LoadModel(path string) error {
	inst, res, err := v.scene.LoadModel(v.builder, v.materials, path, scene.LoadOptions{
		Texture: v.cfg.Assets.Texture,
		KeepCPU: true,
	})
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	for _, w := range res.Warnings {
		v.log.Warn("import warning", zap.String("path", path), zap.String("warning", w))
	}
	v.orbit.Frame(mgl32.Vec3(res.Bounds.Min), mgl32.Vec3(res.Bounds.Max), v.cfg.Camera.FovDeg)
	v.pipe.SetStrategy(v.sceneDraw)
	v.log.Info("model ready", zap.String("name", inst.Name), zap.Float32("distance", v.orbit.Distance()))
	return nil
}

// AddCube puts a unit cube with the default material in the scene and
// frames it. The scene key uses it when no model is configured.
func (v *Viewer) AddCube() error {
	mesh := model.Cube()
	inst, err := v.builder.Upload(mesh, 0, scene.NewTransform(), true)
	if err != nil {
		return fmt.Errorf("uploading cube: %w", err)
	}
	inst.Material = v.materials.Create(material.DefaultDesc())
	inst.Name = "cube"
	v.scene.AddInstance(inst)
	v.orbit.Frame(mgl32.Vec3(mesh.Bounds.Min), mgl32.Vec3(mesh.Bounds.Max), v.cfg.Camera.FovDeg)
	return nil
}

// Run loops until the surface closes or Escape is pressed.
func (v *Viewer) Run() error {
	if v.surface == nil {
		return fmt.Errorf("viewer has no surface")
	}
	v.running = true
	v.timer = NewFrameTimer(time.Now())

	v.log.Info("starting render loop",
		zap.String("controller", v.ControllerName()),
		zap.String("strategy", v.pipe.Strategy().Name()))

	for v.running {
		v.input.Begin()
		if !v.surface.Poll(v.input) {
			break
		}
		v.HandleInput(v.input)
		if !v.running {
			break
		}

		dt := v.timer.Tick(time.Now())
		v.Update(dt)
		v.Render()
		v.surface.SwapBuffers()

		if v.timer.Due(time.Second) {
			stats := v.pipe.Stats()
			v.log.Info("frame stats",
				zap.Float64("fps", v.timer.FPS()),
				zap.Duration("frame_time", v.timer.Delta()),
				zap.Uint64("frames", v.timer.Frames()),
				zap.Duration("elapsed", v.timer.Elapsed()),
				zap.Int("draws", stats.Draws),
				zap.Int("triangles", stats.Triangles))
		}
	}
	return nil
}

// HandleInput applies one frame of input.
func (v *Viewer) HandleInput(in *input.State) {
	v.collectPicked()
	if in.Pressed(input.KeyEscape) {
		v.running = false
		return
	}
	if in.Resized {
		v.resize(in.Width, in.Height)
	}
	v.handleKeys(in)

	if v.active == v.orbit {
		v.driveOrbit(in)
	} else {
		v.driveFly(in)
	}
}

func (v *Viewer) handleKeys(in *input.State) {
	if in.Pressed(input.KeyH) {
		v.log.Info("controls", zap.Strings("keys", Help))
	}
	if in.Pressed(input.KeyTab) {
		v.ToggleController()
	}
	if in.Pressed(input.KeyL) {
		on := v.light.TogglePoint()
		v.log.Info("point light", zap.Bool("enabled", on))
	}
	if in.Pressed(input.KeyLeftBracket) {
		v.light.Point.Radius = max(minRadius, v.light.Point.Radius-radiusStep)
		v.log.Info("point light radius", zap.Float32("radius", v.light.Point.Radius))
	}
	if in.Pressed(input.KeyRightBracket) {
		v.light.Point.Radius += radiusStep
		v.log.Info("point light radius", zap.Float32("radius", v.light.Point.Radius))
	}
	if in.Pressed(input.Key9) {
		v.light.Point.Intensity = max(0, v.light.Point.Intensity-intensityStep)
		v.log.Info("point light intensity", zap.Float32("intensity", v.light.Point.Intensity))
	}
	if in.Pressed(input.Key0) {
		v.light.Point.Intensity += intensityStep
		v.log.Info("point light intensity", zap.Float32("intensity", v.light.Point.Intensity))
	}
	if in.Pressed(input.KeyO) {
		v.cam.SetMode(camera.Ortho)
	}
	if in.Pressed(input.KeyP) {
		v.cam.SetMode(camera.Perspective)
	}
	if in.Pressed(input.Key1) {
		v.direct.Primitive = pipeline.PrimitiveTriangle
		v.pipe.SetStrategy(v.direct)
	}
	if in.Pressed(input.Key2) {
		v.direct.Primitive = pipeline.PrimitiveQuad
		v.pipe.SetStrategy(v.direct)
	}
	if in.Pressed(input.KeyM) {
		switch {
		case !v.scene.Empty():
		case v.cfg.Assets.Model != "":
			if err := v.LoadModel(v.cfg.Assets.Model); err != nil {
				v.log.Error("load failed", zap.Error(err))
			}
		default:
			if err := v.AddCube(); err != nil {
				v.log.Error("cube upload failed", zap.Error(err))
			}
		}
		v.pipe.SetStrategy(v.sceneDraw)
	}
	if in.Pressed(input.KeyT) {
		v.direct.Textured = !v.direct.Textured
		v.log.Info("direct texture", zap.Bool("enabled", v.direct.Textured))
	}
	if in.Pressed(input.KeyF) {
		v.FrameScene()
	}
	if in.Pressed(input.KeyI) {
		v.OpenModelPicker()
	}
	if in.Pressed(input.KeyX) {
		if _, err := v.Export(); err != nil {
			v.log.Error("export failed", zap.Error(err))
		}
	}
}

// SetModelPicker installs the prompt used by the import key.
func (v *Viewer) SetModelPicker(pick func() (string, error)) {
	v.pick = pick
}

// OpenModelPicker starts the model prompt unless one is already open. The
// chosen model is loaded on a later HandleInput call.
func (v *Viewer) OpenModelPicker() {
	if v.pick == nil || v.picking {
		return
	}
	v.picking = true
	pick := v.pick
	go func() {
		path, err := pick()
		if err != nil {
			v.log.Error("model picker failed", zap.Error(err))
			path = ""
		}
		v.picked <- path
	}()
}

func (v *Viewer) collectPicked() {
	select {
	case path := <-v.picked:
		v.picking = false
		if path == "" {
			return
		}
		if err := v.LoadModel(path); err != nil {
			v.log.Error("load failed", zap.String("path", path), zap.Error(err))
		}
	default:
	}
}

func cameraButton(b input.Button) camera.Button {
	switch b {
	case input.ButtonLeft:
		return camera.ButtonLeft
	case input.ButtonRight:
		return camera.ButtonRight
	case input.ButtonMiddle:
		return camera.ButtonMiddle
	}
	return camera.ButtonNone
}

func (v *Viewer) driveOrbit(in *input.State) {
	for _, e := range in.Events {
		switch e.Type {
		case input.EventMouseDown:
			v.orbit.BeginDrag(cameraButton(e.Button))
		case input.EventMouseUp:
			v.orbit.EndDrag(cameraButton(e.Button))
		}
	}
	v.orbit.Drag(in.MouseDX, in.MouseDY)
	if in.Wheel != 0 {
		v.orbit.Scroll(in.Wheel)
	}
}

func (v *Viewer) driveFly(in *input.State) {
	v.fly.Input = camera.FlyInput{
		Forward: in.Down(input.KeyW),
		Back:    in.Down(input.KeyS),
		Left:    in.Down(input.KeyA),
		Right:   in.Down(input.KeyD),
		Up:      in.Down(input.KeyE),
		Down:    in.Down(input.KeyQ),
		Sprint:  in.Down(input.KeyShift),
		Rotate:  in.ButtonDown(input.ButtonLeft) || in.ButtonDown(input.ButtonRight),
		DX:      in.MouseDX,
		DY:      in.MouseDY,
	}
}

func (v *Viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.cam.SetViewport(width, height)
	if r, ok := v.dev.(resizer); ok {
		r.Resize(width, height)
	}
}

// ToggleController switches between orbit and fly.
func (v *Viewer) ToggleController() {
	if v.active == v.orbit {
		v.active = v.fly
	} else {
		v.orbit.EndDrag(v.orbit.DragButton)
		v.active = v.orbit
	}
	v.log.Info("camera controller", zap.String("controller", v.ControllerName()))
}

// ControllerName returns "orbit" or "fly".
func (v *Viewer) ControllerName() string {
	if v.active == v.orbit {
		return "orbit"
	}
	return "fly"
}

// FrameScene points the orbit camera at the union of all instance bounds.
func (v *Viewer) FrameScene() {
	var (
		lo, hi mgl32.Vec3
		found  bool
	)
	for _, inst := range v.scene.Instances() {
		if inst.Mesh == nil {
			continue
		}
		m := inst.Transform.Matrix()
		for _, c := range corners(inst.Mesh.Bounds.Min, inst.Mesh.Bounds.Max) {
			p := m.Mul4x1(c.Vec4(1)).Vec3()
			if !found {
				lo, hi, found = p, p, true
				continue
			}
			for i := 0; i < 3; i++ {
				lo[i] = min(lo[i], p[i])
				hi[i] = max(hi[i], p[i])
			}
		}
	}
	if found {
		v.orbit.Frame(lo, hi, v.cfg.Camera.FovDeg)
	}
}

func corners(lo, hi [3]float32) [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				out[i][axis] = hi[axis]
			} else {
				out[i][axis] = lo[axis]
			}
		}
	}
	return out
}

// Update advances controllers, animation and transforms by dt seconds.
func (v *Viewer) Update(dt float32) {
	if v.pipe.Strategy() == v.direct {
		v.direct.Advance(dt)
	}
	v.active.Update(v.cam, dt)
	v.light.ViewPosition = v.cam.Position()
	v.scene.Update()
}

// Render submits the frame.
func (v *Viewer) Render() {
	v.pipe.Submit(v.scene, v.cam, &v.light, v.materials)
}

// Export writes the scene as OBJ and MTL into the configured directory.
func (v *Viewer) Export() (exporter.Result, error) {
	v.scene.Update()
	path := filepath.Join(v.cfg.Assets.ExportDir, ExportName)
	return exporter.Export(v.scene, path, v.cfg.Assets.MTLName)
}

// Close releases every GPU object the viewer created. The device itself
// belongs to the caller.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.scene.Destroy()
	v.pipe.Shutdown()
	v.materials.Shutdown()
	v.cache.Clear()
	v.log.Info("viewer closed")
}

// Camera returns the viewer camera.
func (v *Viewer) Camera() *camera.Camera { return v.cam }

// Orbit returns the orbit controller.
func (v *Viewer) Orbit() *camera.Orbit { return v.orbit }

// Fly returns the fly controller.
func (v *Viewer) Fly() *camera.Fly { return v.fly }

// Scene returns the scene graph.
func (v *Viewer) Scene() *scene.Scene { return v.scene }

// Lighting returns the live lighting state.
func (v *Viewer) Lighting() *lighting.State { return &v.light }

// Pipeline returns the pipeline.
func (v *Viewer) Pipeline() *pipeline.Pipeline { return v.pipe }

// Direct returns the direct draw strategy.
func (v *Viewer) Direct() *pipeline.DirectDrawStrategy { return v.direct }
