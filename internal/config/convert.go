package config

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
)

// LightingState builds the initial lighting from the config. A point light
// radius or intensity of zero keeps the toggle light's default.
func (c *Config) LightingState() lighting.State {
	l := c.Lighting

	point := lighting.DefaultPointLight()
	point.Position = mgl32.Vec3(l.PointPosition)
	point.Color = mgl32.Vec3(l.PointColor)
	point.Enabled = l.PointEnabled
	if l.PointRadius > 0 {
		point.Radius = l.PointRadius
	}
	if l.PointIntensity > 0 {
		point.Intensity = l.PointIntensity
	}

	s := lighting.State{
		Sun: lighting.Sun{
			Direction: mgl32.Vec3(l.SunDirection),
			Ambient:   l.Ambient,
		},
		Point:        point,
		ViewPosition: mgl32.Vec3{0, 0, c.Camera.Orbit.Distance},
		Exposure:     l.Exposure,
	}
	if l.SunAzimuth != nil && l.SunElevation != nil {
		s.SetSunAngles(*l.SunAzimuth, *l.SunElevation)
	}
	return s
}

// OrbitSettings converts the orbit section for camera.NewOrbit.
func (c *Config) OrbitSettings() camera.OrbitSettings {
	o := c.Camera.Orbit
	s := camera.DefaultOrbitSettings()
	s.Distance = o.Distance
	s.MinDistance = o.MinDistance
	s.MaxDistance = o.MaxDistance
	s.MinPitch = o.MinPitchDeg
	s.MaxPitch = o.MaxPitchDeg
	s.RotateSpeed = o.RotateSpeed
	s.PixelToDegree = o.PixelToDegree
	s.ZoomSpeed = o.ZoomSpeed
	s.Target = mgl32.Vec3(o.Target)
	return s
}

// FlySettings converts the fly section for camera.NewFly.
func (c *Config) FlySettings() camera.FlySettings {
	f := c.Camera.Fly
	return camera.FlySettings{
		MoveSpeed:  f.MoveSpeed,
		SprintMul:  f.SprintMul,
		MouseSens:  f.MouseSens,
		PitchLimit: f.PitchLimit,
		Start:      mgl32.Vec3(f.Start),
	}
}

// CameraMode parses the configured projection mode.
func (c *Config) CameraMode() camera.Mode {
	return camera.ParseMode(c.Camera.Mode)
}
