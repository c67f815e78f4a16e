// Package math provides transform helpers shared by the scene, pipeline and exporter.
//
// Matrices are mgl32 column-major 4x4 (OpenGL compatible). Angles are radians
// unless a name says otherwise.
package math

import (
	gomath "math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ComposeSRT builds a model matrix that applies scale, then rotation
// (X, then Y, then Z Euler angles), then translation: T * Rz * Ry * Rx * S.
func ComposeSRT(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	r := RotateEuler(rotation)
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// RotateEuler returns Rz * Ry * Rx for the given Euler angles.
func RotateEuler(rotation mgl32.Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(rotation[0])
	ry := mgl32.HomogRotate3DY(rotation[1])
	rz := mgl32.HomogRotate3DZ(rotation[2])
	return rz.Mul4(ry).Mul4(rx)
}

// NormalMatrix returns the inverse-transpose of the upper-left 3x3 block.
// A singular block yields the zero matrix.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3().Inv().Transpose()
}

// TransformPoint transforms a point by an affine matrix (w=1, no divide).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformNormal transforms n by a normal matrix and renormalizes it.
// Results shorter than 1e-8 are returned unnormalized.
func TransformNormal(nm mgl32.Mat3, n mgl32.Vec3) mgl32.Vec3 {
	v := nm.Mul3x1(n)
	if l := v.Len(); l > 1e-8 {
		return v.Mul(1 / l)
	}
	return v
}

// EyePosition extracts the camera position from a view matrix.
func EyePosition(view mgl32.Mat4) mgl32.Vec3 {
	inv := view.Inv()
	return mgl32.Vec3{inv[12], inv[13], inv[14]}
}

// QuantizeDepth maps a view-space distance in [near, far] onto the full
// uint32 range. Values outside the range are clamped.
func QuantizeDepth(distance, near, far float32) uint32 {
	if far <= near {
		return 0
	}
	t := (distance - near) / (far - near)
	if math32.IsNaN(t) || t <= 0 {
		return 0
	}
	if t >= 1 {
		return gomath.MaxUint32
	}
	return uint32(float64(t) * float64(gomath.MaxUint32))
}
