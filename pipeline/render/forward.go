package render

import (
	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

var boundsColor = mgl32.Vec4{1, 1, 0, 1}

// ForwardPass shades geometry directly into a color target, either with one
// additive draw per light (multipass) or with all lights in one draw.
type ForwardPass struct {
	res    *Resources
	sky    *SkyboxPass
	arrays LightArrays
}

func NewForwardPass(res *Resources, sky *SkyboxPass) *ForwardPass {
	return &ForwardPass{res: res, sky: sky}
}

// LightArrays exposes the arrays uploaded by the last single-pass draw.
func (p *ForwardPass) LightArrays() *LightArrays { return &p.arrays }

// RenderOpaque clears target and draws the sky and the opaque commands,
// nearest first.
func (p *ForwardPass) RenderOpaque(f *Frame, target gpu.Framebuffer) {
	dev := p.res.Device
	target.Bind()
	dev.SetViewport(0, 0, target.Width(), target.Height())
	gpu.Apply(dev, gpu.DefaultState)
	dev.SetClearColor(f.background())
	dev.Clear(true, true)

	if p.sky != nil {
		p.sky.Render(f, false)
	}

	gpu.Apply(dev, f.geometryState())
	if f.Plan.Path == lumen.PathForwardMultipass {
		p.multipass(f, f.List.Opaque)
	} else {
		p.singlePass(f, f.List.Opaque)
	}
	if f.Settings.ShowBounds {
		p.bounds(f)
	}

	target.Unbind()
	gpu.Apply(dev, gpu.DefaultState)
}

// RenderTransparent draws the blended commands farthest first on top of
// target without clearing it.
func (p *ForwardPass) RenderTransparent(f *Frame, target gpu.Framebuffer, multipass bool) {
	if len(f.List.Transparent) == 0 {
		return
	}
	dev := p.res.Device
	target.Bind()
	dev.SetViewport(0, 0, target.Width(), target.Height())
	gpu.Apply(dev, f.geometryState())
	if multipass {
		p.multipass(f, f.List.Transparent)
	} else {
		p.singlePass(f, f.List.Transparent)
	}
	target.Unbind()
	gpu.Apply(dev, gpu.DefaultState)
}

func (p *ForwardPass) setCamera(f *Frame, sh gpu.Shader) {
	sh.SetUniform("u_viewprojection", f.Camera.ViewProjection)
	sh.SetUniform("u_camera_position", f.Camera.Eye)
	sh.SetUniform("u_ambient_light", f.ambient())
}

func (p *ForwardPass) multipass(f *Frame, cmds []DrawCommand) {
	ambient := p.res.Shader(ShaderMultipassAmbient)
	if ambient == nil {
		return
	}
	var light gpu.Shader
	if len(f.List.Lights) > 0 {
		light = p.res.Shader(ShaderMultipassLight)
	}

	dev := p.res.Device
	base := f.geometryState()
	for _, cmd := range cmds {
		gpu.Apply(dev, base)
		ambient.Enable()
		p.setCamera(f, ambient)
		cmd.Material.Bind(dev, ambient)
		ambient.SetUniform("u_model", cmd.Model)
		cmd.Mesh.Render(gpu.Triangles)
		ambient.Disable()

		if light == nil || cmd.Material.Blended() {
			continue
		}
		light.Enable()
		p.setCamera(f, light)
		cmd.Material.Bind(dev, light)
		light.SetUniform("u_model", cmd.Model)
		light.SetUniform("u_shadow_bias", f.Settings.Shadows.Bias)
		dev.SetBlend(gpu.BlendAdditive)
		dev.SetDepthFunc(gpu.DepthEqual)
		dev.SetDepthWrite(false)
		for _, l := range f.List.Lights {
			uploadLight(light, l, f.Shadows)
			cmd.Mesh.Render(gpu.Triangles)
		}
		light.Disable()
	}
	gpu.Apply(dev, base)
}

func (p *ForwardPass) singlePass(f *Frame, cmds []DrawCommand) {
	sh := p.res.Shader(ShaderSinglePass)
	if sh == nil {
		return
	}
	dev := p.res.Device
	base := f.geometryState()

	p.arrays.Fill(f.List.Lights, f.Shadows, f.Settings.Shadows.SinglePassSlots)
	if p.arrays.Dropped > 0 {
		p.res.Log.Debugf("single pass light cap reached, %d lights dropped", p.arrays.Dropped)
	}

	sh.Enable()
	p.setCamera(f, sh)
	p.arrays.Upload(sh)
	sh.SetUniform("u_shadow_bias", f.Settings.Shadows.Bias)
	for _, cmd := range cmds {
		gpu.Apply(dev, base)
		cmd.Material.Bind(dev, sh)
		sh.SetUniform("u_model", cmd.Model)
		cmd.Mesh.Render(gpu.Triangles)
	}
	sh.Disable()
	gpu.Apply(dev, base)
}

// bounds outlines the world AABB of every drawn command.
func (p *ForwardPass) bounds(f *Frame) {
	sh := p.res.Shader(ShaderFlat)
	if sh == nil {
		return
	}
	dev := p.res.Device
	gpu.Apply(dev, gpu.DefaultState)
	cube := dev.UnitCube()
	sh.Enable()
	sh.SetUniform("u_viewprojection", f.Camera.ViewProjection)
	sh.SetUniform("u_color", boundsColor)
	for _, cmd := range f.List.Commands {
		c := core.AABBCenter(cmd.Bounds)
		half := core.AABBSize(cmd.Bounds).Mul(0.5)
		model := mgl32.Translate3D(c.X(), c.Y(), c.Z()).Mul4(mgl32.Scale3D(half.X(), half.Y(), half.Z()))
		sh.SetUniform("u_model", model)
		cube.Render(gpu.Lines)
	}
	sh.Disable()
}
