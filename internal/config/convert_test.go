package config

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
)

func TestLightingState(t *testing.T) {
	cfg := Default()
	cfg.Lighting.PointEnabled = true
	cfg.Lighting.PointIntensity = 4

	s := cfg.LightingState()
	assert.Equal(t, mgl32.Vec3{-0.5, -1, -0.3}, s.Sun.Direction)
	assert.Equal(t, float32(0.15), s.Sun.Ambient)
	assert.True(t, s.Point.Enabled)

	v := s.Vectors()
	assert.Equal(t, mgl32.Vec4{2, 2, 2, 5}, v[1])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 4}, v[2])
	assert.Equal(t, float32(1), v[3].W())
}

func TestLightingStateSunAngles(t *testing.T) {
	cfg := Default()
	az, el := float32(0), float32(90)
	cfg.Lighting.SunAzimuth = &az

	// Azimuth alone is ignored.
	s := cfg.LightingState()
	assert.Equal(t, mgl32.Vec3{-0.5, -1, -0.3}, s.Sun.Direction)

	cfg.Lighting.SunElevation = &el
	s = cfg.LightingState()
	for i, want := range []float32{0, -1, 0} {
		assert.InDelta(t, want, s.Sun.Direction[i], 1e-5, "component %d", i)
	}
}

func TestLightingStateZeroPointKeepsDefaults(t *testing.T) {
	cfg := Default()
	cfg.Lighting.PointRadius = 0
	cfg.Lighting.PointIntensity = 0

	p := cfg.LightingState().Point
	assert.Equal(t, lighting.DefaultPointLight().Radius, p.Radius)
	assert.Equal(t, lighting.DefaultPointLight().Intensity, p.Intensity)
	assert.False(t, p.Enabled)
}

func TestOrbitSettings(t *testing.T) {
	cfg := Default()
	cfg.Camera.Orbit.Distance = 7
	cfg.Camera.Orbit.Target = [3]float32{1, 2, 3}

	s := cfg.OrbitSettings()
	assert.Equal(t, float32(7), s.Distance)
	assert.Equal(t, float32(-85), s.MinPitch)
	assert.Equal(t, float32(85), s.MaxPitch)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, s.Target)
	assert.Equal(t, camera.ButtonLeft, s.DragButton)
}

func TestFlySettings(t *testing.T) {
	s := Default().FlySettings()
	assert.Equal(t, camera.DefaultFlySettings(), s)
}

func TestCameraMode(t *testing.T) {
	cfg := Default()
	if cfg.CameraMode() != camera.Perspective {
		t.Errorf("expected perspective, got %v", cfg.CameraMode())
	}
	cfg.Camera.Mode = "ortho"
	if cfg.CameraMode() != camera.Ortho {
		t.Errorf("expected ortho, got %v", cfg.CameraMode())
	}
}
