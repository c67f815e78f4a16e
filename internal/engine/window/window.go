// Package window handles SDL2 window and OpenGL context creation and
// translates SDL events into input events.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/input"
	"github.com/Faultbox/pbrview/internal/logger"
)

// OpenGL calls must stay on the thread that created the context.
func init() {
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// Samples is the MSAA sample count; 0 disables multisampling.
	Samples int
}

// Window owns the SDL window and its OpenGL 4.1 core context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

type glAttr struct {
	attr  sdl.GLattr
	value int
}

// glAttributes must be set before the window exists. 4.1 core is the newest
// profile macOS offers.
func glAttributes(cfg Config) []glAttr {
	attrs := []glAttr{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
		{sdl.GL_CONTEXT_MINOR_VERSION, 1},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_DEPTH_SIZE, 24},
	}
	if cfg.Samples > 0 {
		attrs = append(attrs,
			glAttr{sdl.GL_MULTISAMPLEBUFFERS, 1},
			glAttr{sdl.GL_MULTISAMPLESAMPLES, cfg.Samples})
	}
	return attrs
}

// New opens a window and makes its GL context current. On failure every
// partially created SDL object is released.
func New(cfg Config) (w *Window, err error) {
	log := logger.Named("window")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}
	var undo []func()
	defer func() {
		if err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
		}
	}()
	undo = append(undo, sdl.Quit)

	for _, a := range glAttributes(cfg) {
		if aerr := sdl.GLSetAttribute(a.attr, a.value); aerr != nil {
			log.Warn("GL attribute rejected", zap.Int("attr", int(a.attr)), zap.Error(aerr))
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	sw, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	undo = append(undo, func() { sw.Destroy() })

	ctx, err := sw.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("creating GL context: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if serr := sdl.GLSetSwapInterval(interval); serr != nil {
		log.Warn("swap interval not applied", zap.Int("interval", interval), zap.Error(serr))
	}

	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)
	return &Window{config: cfg, sdlWindow: sw, glContext: ctx, log: log}, nil
}

// Close releases the context, the window and SDL itself.
func (w *Window) Close() {
	w.log.Debug("closing window")
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
	}
	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the drawable size in pixels.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Poll drains the SDL event queue into s. It returns false once the
// window has been asked to close.
func (w *Window) Poll(s *input.State) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			s.Apply(e)
		}
	}
	return !s.Quit
}

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:            input.KeyW,
	sdl.SCANCODE_A:            input.KeyA,
	sdl.SCANCODE_S:            input.KeyS,
	sdl.SCANCODE_D:            input.KeyD,
	sdl.SCANCODE_Q:            input.KeyQ,
	sdl.SCANCODE_E:            input.KeyE,
	sdl.SCANCODE_L:            input.KeyL,
	sdl.SCANCODE_O:            input.KeyO,
	sdl.SCANCODE_P:            input.KeyP,
	sdl.SCANCODE_M:            input.KeyM,
	sdl.SCANCODE_T:            input.KeyT,
	sdl.SCANCODE_X:            input.KeyX,
	sdl.SCANCODE_F:            input.KeyF,
	sdl.SCANCODE_H:            input.KeyH,
	sdl.SCANCODE_I:            input.KeyI,
	sdl.SCANCODE_1:            input.Key1,
	sdl.SCANCODE_2:            input.Key2,
	sdl.SCANCODE_9:            input.Key9,
	sdl.SCANCODE_0:            input.Key0,
	sdl.SCANCODE_LEFTBRACKET:  input.KeyLeftBracket,
	sdl.SCANCODE_RIGHTBRACKET: input.KeyRightBracket,
	sdl.SCANCODE_TAB:          input.KeyTab,
	sdl.SCANCODE_LSHIFT:       input.KeyShift,
	sdl.SCANCODE_RSHIFT:       input.KeyShift,
	sdl.SCANCODE_ESCAPE:       input.KeyEscape,
}

func translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED || e.Event == sdl.WINDOWEVENT_RESIZED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		typ := input.EventKeyUp
		if e.Type == sdl.KEYDOWN {
			typ = input.EventKeyDown
		}
		return input.Event{
			Type:   typ,
			Key:    keymap[e.Keysym.Scancode],
			Repeat: e.Repeat != 0,
		}, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type:   input.EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DX:     int(e.XRel),
			DY:     int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		typ := input.EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			typ = input.EventMouseDown
		}
		return input.Event{
			Type:   typ,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: input.Button(e.Button),
		}, true

	case *sdl.MouseWheelEvent:
		y := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			y = -y
		}
		return input.Event{Type: input.EventMouseWheel, Wheel: y}, true
	}
	return input.Event{}, false
}
