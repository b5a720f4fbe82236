package render

import (
	"testing"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

var unitBox = [2]mgl32.Vec3{{-0.5, -0.5, -0.5}, {0.5, 0.5, 0.5}}

// fixture is a headless device with every pipeline shader, an empty scene
// and a camera at (0,0,10) looking at the origin.
type fixture struct {
	t      *testing.T
	dev    *gpu.Headless
	atlas  *gpu.HeadlessAtlas
	res    *Resources
	scene  *core.Scene
	cam    *core.Camera
	list   DrawList
	motion *MotionRegistry
	mesh   *gpu.HeadlessMesh
}

func newFixture(t *testing.T) *fixture {
	dev := gpu.NewHeadless(320, 240)
	atlas := dev.NewAtlas(ShaderNames...)
	return &fixture{
		t:      t,
		dev:    dev,
		atlas:  atlas,
		res:    NewResources(dev, atlas, nil),
		scene:  core.NewScene(),
		cam:    core.NewCamera(),
		motion: NewMotionRegistry(),
		mesh:   dev.NewMesh("box", unitBox, 36),
	}
}

func (fx *fixture) box(name string, x, y, z float32, mat *core.Material) *core.PrefabEntity {
	e := core.NewPrefab(name)
	e.Root.Transform = core.TransformAt(x, y, z)
	e.Root.Mesh = fx.mesh
	e.Root.Material = mat
	fx.scene.Add(e)
	return e
}

func (fx *fixture) light(name string, typ core.LightType, pos, target mgl32.Vec3) *core.LightEntity {
	l := core.NewLight(name, typ)
	l.Root.Transform = core.TransformAt(pos.X(), pos.Y(), pos.Z())
	l.Root.Transform.LookAt(target, mgl32.Vec3{0, 1, 0})
	l.CastShadows = true
	l.MaxDistance = 50
	fx.scene.Add(l)
	return l
}

// frame traverses the scene and returns a frame for s. shadows may be nil.
func (fx *fixture) frame(s lumen.Settings, shadows ShadowLookup) *Frame {
	plan, _ := lumen.ResolvePath(s)
	fx.motion.BeginFrame()
	Traverse(fx.scene, fx.cam, &fx.list, fx.motion)
	fx.motion.EndFrame()
	fx.list.Partition()
	return &Frame{
		Scene:              fx.scene,
		Camera:             fx.cam,
		Settings:           s,
		Plan:               plan,
		List:               &fx.list,
		Shadows:            shadows,
		Motion:             fx.motion,
		PrevViewProjection: fx.cam.ViewProjection,
	}
}

func (fx *fixture) target(label string, colors int, depth bool) gpu.Framebuffer {
	fb, err := fx.dev.CreateFramebuffer(gpu.FramebufferDesc{Label: label, Width: 320, Height: 240, ColorAttachments: colors, Depth: depth})
	if err != nil {
		fx.t.Fatal(err)
	}
	return fb
}

func glassMaterial() *core.Material {
	m := core.NewMaterial("glass")
	m.AlphaMode = core.AlphaBlend
	m.Color = mgl32.Vec4{1, 1, 1, 0.5}
	return m
}

// opIndex returns the index of the first command matching keep, or -1.
func opIndex(cmds []gpu.Command, keep func(c gpu.Command) bool) int {
	for i, c := range cmds {
		if keep(c) {
			return i
		}
	}
	return -1
}
