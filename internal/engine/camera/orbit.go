package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	pkgmath "github.com/Faultbox/pbrview/pkg/math"
)

// Button is a pointer button that can start a drag.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// OrbitState is the drag state of an Orbit controller.
type OrbitState int

const (
	Idle OrbitState = iota
	Dragging
)

func (s OrbitState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

const (
	minOrbitDistance = 0.01
	maxOrbitPitch    = 89.9 // degrees
)

// OrbitSettings are the tunables of an Orbit controller. Angles are degrees.
type OrbitSettings struct {
	Distance      float32
	MinDistance   float32
	MaxDistance   float32
	MinPitch      float32
	MaxPitch      float32
	RotateSpeed   float32
	PixelToDegree float32
	ZoomSpeed     float32
	Target        mgl32.Vec3
	DragButton    Button
}

// DefaultOrbitSettings returns the controller defaults.
func DefaultOrbitSettings() OrbitSettings {
	return OrbitSettings{
		Distance:      3,
		MinDistance:   0.5,
		MaxDistance:   30,
		MinPitch:      -85,
		MaxPitch:      85,
		RotateSpeed:   1,
		PixelToDegree: 0.01,
		ZoomSpeed:     0.1,
		DragButton:    ButtonLeft,
	}
}

// Orbit circles a target point. Yaw and pitch are degrees; pitch is
// clamped to the configured range while dragging.
type Orbit struct {
	Target        mgl32.Vec3
	RotateSpeed   float32
	PixelToDegree float32
	ZoomSpeed     float32
	DragButton    Button

	distance         float32
	yaw, pitch       float32
	minDist, maxDist float32
	minPitch         float32
	maxPitch         float32

	state   OrbitState
	dragBtn Button
}

// NewOrbit creates an orbit controller from settings.
func NewOrbit(s OrbitSettings) *Orbit {
	o := &Orbit{
		Target:        s.Target,
		RotateSpeed:   s.RotateSpeed,
		PixelToDegree: s.PixelToDegree,
		ZoomSpeed:     s.ZoomSpeed,
		DragButton:    s.DragButton,
		distance:      s.Distance,
		minPitch:      -maxOrbitPitch,
		maxPitch:      maxOrbitPitch,
		minDist:       minOrbitDistance,
		maxDist:       s.MaxDistance,
	}
	o.SetDistanceRange(s.MinDistance, s.MaxDistance)
	o.SetPitchRange(s.MinPitch, s.MaxPitch)
	return o
}

// SetDistanceRange sets the zoom limits. Inverted bounds are swapped and
// the minimum is at least 0.01.
func (o *Orbit) SetDistanceRange(minD, maxD float32) {
	if minD > maxD {
		minD, maxD = maxD, minD
	}
	o.minDist = math32.Max(minOrbitDistance, minD)
	o.maxDist = math32.Max(o.minDist, maxD)
	o.distance = pkgmath.Clamp(o.distance, o.minDist, o.maxDist)
}

// SetPitchRange sets the pitch limits in degrees, within ±89.9.
func (o *Orbit) SetPitchRange(minDeg, maxDeg float32) {
	if minDeg > maxDeg {
		minDeg, maxDeg = maxDeg, minDeg
	}
	o.minPitch = math32.Max(-maxOrbitPitch, minDeg)
	o.maxPitch = math32.Min(maxOrbitPitch, maxDeg)
	o.pitch = pkgmath.Clamp(o.pitch, o.minPitch, o.maxPitch)
}

// DistanceRange returns the zoom limits.
func (o *Orbit) DistanceRange() (float32, float32) { return o.minDist, o.maxDist }

// PitchRange returns the pitch limits in degrees.
func (o *Orbit) PitchRange() (float32, float32) { return o.minPitch, o.maxPitch }

// Distance returns the distance to the target.
func (o *Orbit) Distance() float32 { return o.distance }

// SetDistance sets the distance, clamped to the range.
func (o *Orbit) SetDistance(d float32) {
	o.distance = pkgmath.Clamp(d, o.minDist, o.maxDist)
}

// Angles returns yaw and pitch in degrees.
func (o *Orbit) Angles() (yaw, pitch float32) { return o.yaw, o.pitch }

// SetAngles sets yaw and pitch in degrees; pitch is clamped.
func (o *Orbit) SetAngles(yaw, pitch float32) {
	o.yaw = yaw
	o.pitch = pkgmath.Clamp(pitch, o.minPitch, o.maxPitch)
}

// State returns the drag state.
func (o *Orbit) State() OrbitState { return o.state }

// BeginDrag enters Dragging if b is the drag button.
func (o *Orbit) BeginDrag(b Button) {
	if b == ButtonNone || b != o.DragButton {
		return
	}
	o.state = Dragging
	o.dragBtn = b
}

// EndDrag returns to Idle when the button that started the drag is released.
func (o *Orbit) EndDrag(b Button) {
	if o.state == Dragging && b == o.dragBtn {
		o.state = Idle
		o.dragBtn = ButtonNone
	}
}

// Drag turns pointer deltas in pixels into yaw and pitch while dragging.
// Dragging up lowers the pitch.
func (o *Orbit) Drag(dx, dy float32) {
	if o.state != Dragging {
		return
	}
	step := o.RotateSpeed * o.PixelToDegree
	o.yaw += dx * step
	o.pitch = pkgmath.Clamp(o.pitch-dy*step, o.minPitch, o.maxPitch)
}

// Scroll zooms by one factor per wheel step: positive steps move closer.
func (o *Orbit) Scroll(steps float32) {
	switch {
	case steps > 0:
		o.distance *= math32.Pow(1-o.ZoomSpeed, steps)
	case steps < 0:
		o.distance *= math32.Pow(1+o.ZoomSpeed, -steps)
	}
	o.distance = pkgmath.Clamp(o.distance, o.minDist, o.maxDist)
}

// Eye returns the eye position: target plus the spherical offset.
func (o *Orbit) Eye() mgl32.Vec3 {
	return o.Target.Add(pkgmath.SphericalOffset(o.distance, mgl32.DegToRad(o.yaw), mgl32.DegToRad(o.pitch)))
}

// Frame centers the target on a bounding box and backs off far enough to
// see all of it.
func (o *Orbit) Frame(min, max mgl32.Vec3, fovYDeg float32) {
	o.Target = min.Add(max).Mul(0.5)
	radius := max.Sub(min).Len() / 2
	if radius <= 0 {
		return
	}
	half := mgl32.DegToRad(fovYDeg) / 2
	o.SetDistance(radius / math32.Sin(half) * 1.1)
}

// Update writes the orbit view into cam.
func (o *Orbit) Update(cam *Camera, _ float32) {
	cam.SetView(mgl32.LookAtV(o.Eye(), o.Target, pkgmath.WorldUp))
}
