package lighting

import "github.com/go-gl/mathgl/mgl32"

// PointLight is a single omni light with a finite radius.
type PointLight struct {
	Position  mgl32.Vec3
	Radius    float32
	Color     mgl32.Vec3 // RGB, 0-1
	Intensity float32
	Enabled   bool
}

// DefaultPointLight returns the light the viewer toggles: white, radius 5,
// intensity 3 at (2,2,2), initially off.
func DefaultPointLight() PointLight {
	return PointLight{
		Position:  mgl32.Vec3{2, 2, 2},
		Radius:    5,
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 3,
		Enabled:   false,
	}
}

// EffectiveIntensity is the uploaded intensity: zero when disabled.
func (p PointLight) EffectiveIntensity() float32 {
	if !p.Enabled {
		return 0
	}
	return p.Intensity
}
