package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local TRS transform relative to the parent node.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func TransformAt(x, y, z float32) Transform {
	t := NewTransform()
	t.Position = mgl32.Vec3{x, y, z}
	return t
}

// Matrix returns M = T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// Inverse returns inv(M) = inv(S) * inv(R) * inv(T) without a general inversion.
func (t Transform) Inverse() mgl32.Mat4 {
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	// Conjugate of a unit quaternion is its inverse.
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// Translation extracts the translation column of a world matrix.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// Forward returns the normalized -Z axis of a world matrix, the direction
// lights and cameras face.
func Forward(m mgl32.Mat4) mgl32.Vec3 {
	f := m.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	if f.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

// LookRotation returns the rotation that turns the -Z axis towards dir. An up
// vector parallel to dir is replaced by another axis.
func LookRotation(dir, up mgl32.Vec3) mgl32.Quat {
	if dir.Len() == 0 {
		return mgl32.QuatIdent()
	}
	f := dir.Normalize()
	r := f.Cross(up)
	if r.Len() < 1e-6 {
		r = f.Cross(mgl32.Vec3{0, 0, 1})
		if r.Len() < 1e-6 {
			r = f.Cross(mgl32.Vec3{1, 0, 0})
		}
	}
	r = r.Normalize()
	u := r.Cross(f)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(r, u, f.Mul(-1)).Mat4()).Normalize()
}

// LookAt rotates t so its -Z axis points from Position towards target.
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	t.Rotation = LookRotation(target.Sub(t.Position), up)
}
