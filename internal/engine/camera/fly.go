package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	pkgmath "github.com/Faultbox/pbrview/pkg/math"
)

// FlyInput is one frame of free-fly input.
type FlyInput struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool
	Sprint        bool
	// Rotate is set while the look button is held; DX and DY are the
	// pointer deltas in pixels for this frame.
	Rotate bool
	DX, DY float32
}

// FlySettings are the tunables of a Fly controller.
type FlySettings struct {
	MoveSpeed  float32 // units per second
	SprintMul  float32
	MouseSens  float32 // radians per pixel
	PitchLimit float32 // radians
	Start      mgl32.Vec3
}

// DefaultFlySettings returns the controller defaults.
func DefaultFlySettings() FlySettings {
	return FlySettings{
		MoveSpeed:  5,
		SprintMul:  2.5,
		MouseSens:  0.0025,
		PitchLimit: 1.55,
		Start:      mgl32.Vec3{0, 1.6, 3},
	}
}

// Fly is a first-person controller. Yaw turns about world up and pitch
// about the camera right vector, both in radians.
type Fly struct {
	FlySettings
	Input FlyInput

	Position   mgl32.Vec3
	yaw, pitch float32
}

// NewFly creates a fly controller at s.Start looking down -Z.
func NewFly(s FlySettings) *Fly {
	return &Fly{FlySettings: s, Position: s.Start}
}

// SetPose places the camera; pitch is clamped.
func (f *Fly) SetPose(pos mgl32.Vec3, yaw, pitch float32) {
	f.Position = pos
	f.yaw = yaw
	f.pitch = pkgmath.Clamp(pitch, -f.PitchLimit, f.PitchLimit)
}

// Angles returns yaw and pitch in radians.
func (f *Fly) Angles() (yaw, pitch float32) { return f.yaw, f.pitch }

// Forward returns the unit look direction.
func (f *Fly) Forward() mgl32.Vec3 {
	return pkgmath.LookDirection(f.yaw, f.pitch)
}

// Update applies the pending Input over dt seconds and writes the view.
// Pointer deltas are consumed.
func (f *Fly) Update(cam *Camera, dt float32) {
	in := f.Input
	if in.Rotate {
		f.yaw += in.DX * f.MouseSens
		f.pitch = pkgmath.Clamp(f.pitch-in.DY*f.MouseSens, -f.PitchLimit, f.PitchLimit)
	}
	f.Input.DX, f.Input.DY = 0, 0

	forward := f.Forward()
	right := pkgmath.SafeNormalize(forward.Cross(pkgmath.WorldUp), mgl32.Vec3{1, 0, 0})
	up := right.Cross(forward)

	var move mgl32.Vec3
	if in.Forward {
		move = move.Add(forward)
	}
	if in.Back {
		move = move.Sub(forward)
	}
	if in.Right {
		move = move.Add(right)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if in.Up {
		move = move.Add(up)
	}
	if in.Down {
		move = move.Sub(up)
	}

	if move.LenSqr() > 1e-12 {
		speed := f.MoveSpeed
		if in.Sprint {
			speed *= f.SprintMul
		}
		f.Position = f.Position.Add(move.Normalize().Mul(speed * dt))
	}

	cam.SetView(mgl32.LookAtV(f.Position, f.Position.Add(forward), pkgmath.WorldUp))
}
