// Package input turns window events into per-frame input state.
//
// It has no platform dependency: the window package translates SDL events
// into Events and feeds them to a State.
package input

// EventType is the kind of an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a platform-independent key code.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyL
	KeyO
	KeyP
	KeyM
	KeyT
	KeyX
	KeyF
	KeyH
	KeyI
	Key1
	Key2
	Key9
	Key0
	KeyLeftBracket
	KeyRightBracket
	KeyTab
	KeyShift
	KeyEscape
	keyCount
)

// Button is a mouse button. Values match SDL's button numbering.
type Button uint8

const (
	ButtonNone   Button = 0
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Event is one translated window event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	// DX and DY are relative motion for EventMouseMove.
	DX, DY int
	// Wheel is the vertical scroll in steps for EventMouseWheel.
	Wheel  float32
	Button Button
}

// State accumulates the events of one frame on top of what is held down.
type State struct {
	Events []Event

	Quit          bool
	Resized       bool
	Width, Height int
	MouseX        int
	MouseY        int
	MouseDX       float32
	MouseDY       float32
	Wheel         float32

	down    [keyCount]bool
	pressed [keyCount]bool
	buttons [8]bool
}

// New creates an empty input state.
func New() *State {
	return &State{Events: make([]Event, 0, 16)}
}

// Begin starts a new frame: per-frame events and deltas are cleared, held
// keys and buttons are kept.
func (s *State) Begin() {
	s.Events = s.Events[:0]
	s.Resized = false
	s.MouseDX, s.MouseDY, s.Wheel = 0, 0, 0
	s.pressed = [keyCount]bool{}
}

// Apply records one event.
func (s *State) Apply(e Event) {
	s.Events = append(s.Events, e)
	switch e.Type {
	case EventQuit:
		s.Quit = true
	case EventWindowResize:
		s.Resized = true
		s.Width, s.Height = e.Width, e.Height
	case EventKeyDown:
		if valid(e.Key) {
			if !e.Repeat {
				s.pressed[e.Key] = true
			}
			s.down[e.Key] = true
		}
	case EventKeyUp:
		if valid(e.Key) {
			s.down[e.Key] = false
		}
	case EventMouseMove:
		s.MouseX, s.MouseY = e.MouseX, e.MouseY
		s.MouseDX += float32(e.DX)
		s.MouseDY += float32(e.DY)
	case EventMouseDown:
		if int(e.Button) < len(s.buttons) {
			s.buttons[e.Button] = true
		}
		s.MouseX, s.MouseY = e.MouseX, e.MouseY
	case EventMouseUp:
		if int(e.Button) < len(s.buttons) {
			s.buttons[e.Button] = false
		}
		s.MouseX, s.MouseY = e.MouseX, e.MouseY
	case EventMouseWheel:
		s.Wheel += e.Wheel
	}
}

func valid(k Key) bool {
	return k > KeyUnknown && k < keyCount
}

// Pressed reports whether k went down this frame. Auto-repeat is ignored.
func (s *State) Pressed(k Key) bool {
	return valid(k) && s.pressed[k]
}

// Down reports whether k is held.
func (s *State) Down(k Key) bool {
	return valid(k) && s.down[k]
}

// ButtonDown reports whether b is held.
func (s *State) ButtonDown(b Button) bool {
	return b != ButtonNone && int(b) < len(s.buttons) && s.buttons[b]
}

// ButtonPressed reports whether b went down this frame.
func (s *State) ButtonPressed(b Button) bool {
	for _, e := range s.Events {
		if e.Type == EventMouseDown && e.Button == b {
			return true
		}
	}
	return false
}

// ButtonReleased reports whether b went up this frame.
func (s *State) ButtonReleased(b Button) bool {
	for _, e := range s.Events {
		if e.Type == EventMouseUp && e.Button == b {
			return true
		}
	}
	return false
}
