package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABBInFrustum checks if an AABB is visible within the frustum defined by 6 planes.
// For each plane the box corner furthest along the normal is tested; if even
// that corner is behind a plane, the whole box is outside.
func AABBInFrustum(aabb [2]mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for _, plane := range planes {
		var p mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if plane[axis] > 0 {
				p[axis] = aabb[1][axis]
			} else {
				p[axis] = aabb[0][axis]
			}
		}
		if plane.Vec3().Dot(p)+plane[3] < 0 {
			return false
		}
	}
	return true
}

// TransformAABB returns the world AABB enclosing the 8 transformed corners of
// a local box.
func TransformAABB(m mgl32.Mat4, box [2]mgl32.Vec3) [2]mgl32.Vec3 {
	minB, maxB := box[0], box[1]
	corners := [8]mgl32.Vec3{
		{minB.X(), minB.Y(), minB.Z()},
		{maxB.X(), minB.Y(), minB.Z()},
		{minB.X(), maxB.Y(), minB.Z()},
		{maxB.X(), maxB.Y(), minB.Z()},
		{minB.X(), minB.Y(), maxB.Z()},
		{maxB.X(), minB.Y(), maxB.Z()},
		{minB.X(), maxB.Y(), maxB.Z()},
		{maxB.X(), maxB.Y(), maxB.Z()},
	}

	inf := float32(1e20)
	wMin := mgl32.Vec3{inf, inf, inf}
	wMax := mgl32.Vec3{-inf, -inf, -inf}
	for _, c := range corners {
		wc := m.Mul4x1(c.Vec4(1.0)).Vec3()
		for axis := 0; axis < 3; axis++ {
			wMin[axis] = min(wMin[axis], wc[axis])
			wMax[axis] = max(wMax[axis], wc[axis])
		}
	}
	return [2]mgl32.Vec3{wMin, wMax}
}

func AABBCenter(box [2]mgl32.Vec3) mgl32.Vec3 {
	return box[0].Add(box[1]).Mul(0.5)
}

func AABBSize(box [2]mgl32.Vec3) mgl32.Vec3 {
	return box[1].Sub(box[0])
}
