package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the +Y up axis used by every camera.
var WorldUp = mgl32.Vec3{0, 1, 0}

// SphericalOffset returns distance * (cos(pitch)cos(yaw), sin(pitch), cos(pitch)sin(yaw)).
func SphericalOffset(distance, yaw, pitch float32) mgl32.Vec3 {
	cp := math32.Cos(pitch)
	return mgl32.Vec3{
		distance * cp * math32.Cos(yaw),
		distance * math32.Sin(pitch),
		distance * cp * math32.Sin(yaw),
	}
}

// LookDirection returns the unit forward vector for a yaw/pitch pair.
// Yaw 0, pitch 0 looks down -Z.
func LookDirection(yaw, pitch float32) mgl32.Vec3 {
	cp := math32.Cos(pitch)
	return mgl32.Vec3{
		cp * math32.Sin(yaw),
		math32.Sin(pitch),
		-cp * math32.Cos(yaw),
	}
}

// SafeNormalize normalizes v, returning fallback when v has no length.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= 0 || math32.IsNaN(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
