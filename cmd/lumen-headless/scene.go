package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// demoScene is a grid of boxes on a ground plane, every fourth one glass,
// lit by one shadowed directional light and a ring of spot and point lights.
type demoScene struct {
	scene   *core.Scene
	camera  *core.Camera
	spinner []*core.Node
}

func newDemoScene(dev *gpu.Headless, objects, lights int, aspect float32) *demoScene {
	d := &demoScene{scene: core.NewScene(), camera: core.NewCamera()}
	d.camera.SetPerspective(60, aspect, 0.1, 200)

	box := dev.NewMesh("box", [2]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, 0.5, 0.5}}, 36)
	plane := dev.NewMesh("plane", [2]mgl32.Vec3{{-1, 0, -1}, {1, 0, 1}}, 6)

	ground := core.NewPrefab("ground")
	ground.Root.Mesh = plane
	ground.Root.Transform.Scale = mgl32.Vec3{30, 1, 30}
	ground.Root.Material = core.NewMaterial("ground")
	d.scene.Add(ground)

	glass := core.NewMaterial("glass")
	glass.AlphaMode = core.AlphaBlend
	glass.Color = mgl32.Vec4{0.6, 0.8, 1, 0.4}

	side := int(math32.Ceil(math32.Sqrt(float32(max(objects, 1)))))
	for i := 0; i < objects; i++ {
		obj := core.NewPrefab(fmt.Sprintf("box%d", i))
		x := float32(i%side-side/2) * 2.5
		z := float32(i/side-side/2) * 2.5
		obj.Root.Transform = core.TransformAt(x, 0.5, z)

		body := obj.Root.AddChild(core.NewNode("body"))
		body.Mesh = box
		if i%4 == 3 {
			body.Material = glass
		} else {
			m := core.NewMaterial(fmt.Sprintf("paint%d", i))
			m.Color = mgl32.Vec4{0.3 + 0.7*float32(i%3)/2, 0.5, 0.3 + 0.7*float32(i%5)/4, 1}
			body.Material = m
		}
		d.spinner = append(d.spinner, body)
		d.scene.Add(obj)
	}

	for i := 0; i < lights; i++ {
		var l *core.LightEntity
		switch {
		case i == 0:
			l = core.NewLight("sun", core.LightDirectional)
			l.Root.Transform = core.TransformAt(0, 15, 10)
			l.Root.Transform.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
			l.Intensity = 0.8
		case i%2 == 1:
			l = core.NewLight(fmt.Sprintf("spot%d", i), core.LightSpot)
			angle := float32(i) * 2 * math32.Pi / float32(lights)
			pos := mgl32.Vec3{8 * math32.Cos(angle), 6, 8 * math32.Sin(angle)}
			l.Root.Transform = core.TransformAt(pos.X(), pos.Y(), pos.Z())
			l.Root.Transform.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
			l.MaxDistance = 25
		default:
			l = core.NewLight(fmt.Sprintf("point%d", i), core.LightPoint)
			l.Root.Transform = core.TransformAt(float32(i)-float32(lights)/2, 3, 0)
			l.Color = mgl32.Vec3{1, 0.8, 0.6}
		}
		l.CastShadows = l.Type != core.LightPoint
		d.scene.Add(l)
	}
	return d
}

// step spins the boxes and orbits the camera around the grid.
func (d *demoScene) step(frame int) {
	t := float32(frame) / 60
	for i, n := range d.spinner {
		n.Transform.Rotation = mgl32.QuatRotate(t+float32(i)*0.3, mgl32.Vec3{0, 1, 0})
	}
	eye := mgl32.Vec3{18 * math32.Cos(t*0.5), 10, 18 * math32.Sin(t*0.5)}
	d.camera.LookAt(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}
