// Package lighting holds the scene-global light state read by the pipeline
// every frame.
package lighting

import "github.com/go-gl/mathgl/mgl32"

// Frame uniform names, in the order returned by State.Vectors.
const (
	UniformLightDir    = "u_lightDir"
	UniformPointPosRad = "u_pointPosRad"
	UniformPointColInt = "u_pointColInt"
	UniformViewPosExp  = "u_viewPosExp"
)

// UniformNames lists the frame uniforms in upload order.
var UniformNames = [4]string{UniformLightDir, UniformPointPosRad, UniformPointColInt, UniformViewPosExp}

// Sun is the directional light.
type Sun struct {
	// Direction points from the light towards the surfaces.
	Direction mgl32.Vec3
	Ambient   float32
}

// State is the complete lighting of a scene. The application owns one and
// passes it to the pipeline each frame.
type State struct {
	Sun          Sun
	Point        PointLight
	ViewPosition mgl32.Vec3
	Exposure     float32
}

// Default returns the shader's built-in lighting.
func Default() State {
	return State{
		Sun: Sun{Direction: mgl32.Vec3{-0.5, -1, -0.3}, Ambient: 0.15},
		Point: PointLight{
			Position:  mgl32.Vec3{0, 1, 2},
			Radius:    6,
			Color:     mgl32.Vec3{1, 0.9, 0.7},
			Intensity: 2,
			Enabled:   true,
		},
		ViewPosition: mgl32.Vec3{0, 0, 3},
		Exposure:     1,
	}
}

// TogglePoint flips the point light and returns the new setting.
func (s *State) TogglePoint() bool {
	s.Point.Enabled = !s.Point.Enabled
	return s.Point.Enabled
}

// Vectors packs the state into the four frame uniforms:
// direction+ambient, point position+radius, point color+intensity and
// view position+exposure.
func (s *State) Vectors() [4]mgl32.Vec4 {
	return [4]mgl32.Vec4{
		s.Sun.Direction.Vec4(s.Sun.Ambient),
		s.Point.Position.Vec4(s.Point.Radius),
		s.Point.Color.Vec4(s.Point.EffectiveIntensity()),
		s.ViewPosition.Vec4(s.Exposure),
	}
}
