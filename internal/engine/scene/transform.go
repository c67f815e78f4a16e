package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	pkgmath "github.com/Faultbox/pbrview/pkg/math"
)

// Transform is a position, XYZ Euler rotation in radians and non-uniform
// scale. The model matrix is derived from them by Update and never edited
// directly.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	model mgl32.Mat4
}

// NewTransform returns an identity transform with unit scale.
func NewTransform() Transform {
	return Transform{
		Scale: mgl32.Vec3{1, 1, 1},
		model: mgl32.Ident4(),
	}
}

// At returns an identity transform moved to position.
func At(position mgl32.Vec3) Transform {
	t := NewTransform()
	t.Position = position
	t.Update()
	return t
}

// Update rebuilds the model matrix as T * Rz * Ry * Rx * S.
func (t *Transform) Update() {
	t.model = pkgmath.ComposeSRT(t.Position, t.Rotation, t.Scale)
}

// Matrix returns the model matrix from the last Update.
func (t *Transform) Matrix() mgl32.Mat4 {
	return t.model
}
