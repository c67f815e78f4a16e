package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts azimuth (rotation about Y) and elevation above the
// horizon, both in degrees, to a unit vector pointing towards the sun.
func SunDirection(azimuthDeg, elevationDeg float32) mgl32.Vec3 {
	az := mgl32.DegToRad(azimuthDeg)
	el := mgl32.DegToRad(elevationDeg)
	ce := math32.Cos(el)
	return mgl32.Vec3{ce * math32.Sin(az), math32.Sin(el), ce * math32.Cos(az)}
}

// SetSunAngles points the directional light from the given sun position.
// The stored direction travels from the sun towards the scene.
func (s *State) SetSunAngles(azimuthDeg, elevationDeg float32) {
	s.Sun.Direction = SunDirection(azimuthDeg, elevationDeg).Mul(-1)
}
