package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Projection int

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
)

// Camera holds the view and projection of the active viewpoint. Lights reuse
// it to build their shadow cameras.
type Camera struct {
	Eye    mgl32.Vec3
	Center mgl32.Vec3
	Up     mgl32.Vec3

	Kind   Projection
	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32

	Left, Right, Bottom, Top float32

	View              mgl32.Mat4
	Projection        mgl32.Mat4
	ViewProjection    mgl32.Mat4
	InvProjection     mgl32.Mat4
	InvViewProjection mgl32.Mat4

	planes [6]mgl32.Vec4
}

func NewCamera() *Camera {
	c := &Camera{
		Eye:    mgl32.Vec3{0, 0, 10},
		Center: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
	}
	c.SetPerspective(45, 1, 0.1, 1000)
	return c
}

func (c *Camera) SetPerspective(fovDeg, aspect, near, far float32) {
	c.Kind = ProjectionPerspective
	c.FOV, c.Aspect, c.Near, c.Far = fovDeg, aspect, near, far
	c.Projection = mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
	c.update()
}

func (c *Camera) SetOrthographic(left, right, bottom, top, near, far float32) {
	c.Kind = ProjectionOrthographic
	c.Left, c.Right, c.Bottom, c.Top = left, right, bottom, top
	c.Near, c.Far = near, far
	c.Projection = mgl32.Ortho(left, right, bottom, top, near, far)
	c.update()
}

// LookAt orients the camera. An up vector parallel to the view direction is
// swapped for another axis so the view matrix stays well defined.
func (c *Camera) LookAt(eye, center, up mgl32.Vec3) {
	dir := center.Sub(eye)
	if dir.Len() > 0 && up.Len() > 0 {
		if math32.Abs(dir.Normalize().Dot(up.Normalize())) > 0.999 {
			up = mgl32.Vec3{0, 0, 1}
			if math32.Abs(dir.Normalize().Z()) > 0.999 {
				up = mgl32.Vec3{1, 0, 0}
			}
		}
	}
	c.Eye, c.Center, c.Up = eye, center, up
	c.update()
}

func (c *Camera) update() {
	c.View = mgl32.LookAtV(c.Eye, c.Center, c.Up)
	c.ViewProjection = c.Projection.Mul4(c.View)
	c.InvProjection = c.Projection.Inv()
	c.InvViewProjection = c.ViewProjection.Inv()
	c.planes = ExtractFrustum(c.ViewProjection)
}

func (c *Camera) Planes() [6]mgl32.Vec4 { return c.planes }

// BoxInFrustum reports whether a world space AABB is at least partly inside
// the view frustum.
func (c *Camera) BoxInFrustum(box [2]mgl32.Vec3) bool {
	return AABBInFrustum(box, c.planes)
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0 with the normal pointing inside.
func ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4
	row := func(i int) mgl32.Vec4 { return vp.Row(i) }

	planes[0] = row(3).Add(row(0)) // left
	planes[1] = row(3).Sub(row(0)) // right
	planes[2] = row(3).Add(row(1)) // bottom
	planes[3] = row(3).Sub(row(1)) // top
	planes[4] = row(3).Add(row(2)) // near, GL clip depth -1..1
	planes[5] = row(3).Sub(row(2)) // far

	for i := range planes {
		length := planes[i].Vec3().Len()
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}
