package render

import (
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

var velocityState = gpu.RenderState{
	Blend:      gpu.BlendNone,
	DepthTest:  true,
	DepthFunc:  gpu.DepthLessEqual,
	DepthWrite: false,
	Cull:       gpu.CullBack,
	ColorWrite: true,
}

// MotionBlurPass renders screen space velocities and blurs the frame along them.
type MotionBlurPass struct {
	res *Resources
}

func NewMotionBlurPass(res *Resources) *MotionBlurPass {
	return &MotionBlurPass{res: res}
}

// Render blurs src into dst using velocity as scratch. With object blur the
// previous model matrix comes from the motion registry; otherwise only the
// camera moved and the current model is reused. It reports false when
// either shader is missing.
func (p *MotionBlurPass) Render(f *Frame, src, velocity, dst gpu.Framebuffer) bool {
	vsh := p.res.Shader(ShaderVelocity)
	bsh := p.res.Shader(ShaderMotionBlur)
	if vsh == nil || bsh == nil {
		return false
	}
	dev := p.res.Device

	dev.BlitDepth(src, velocity)
	velocity.Bind()
	dev.SetViewport(0, 0, velocity.Width(), velocity.Height())
	gpu.Apply(dev, velocityState)
	dev.SetClearColor(mgl32.Vec4{})
	dev.Clear(true, false)

	vsh.Enable()
	vsh.SetUniform("u_viewprojection", f.Camera.ViewProjection)
	vsh.SetUniform("u_prev_viewprojection", f.PrevViewProjection)
	for _, cmd := range f.List.Opaque {
		vsh.SetUniform("u_model", cmd.Model)
		vsh.SetUniform("u_prev_model", p.previousModel(f, cmd))
		cmd.Mesh.Render(gpu.Triangles)
	}
	vsh.Disable()
	velocity.Unbind()

	dev.BlitDepth(src, dst)
	dst.Bind()
	dev.SetViewport(0, 0, dst.Width(), dst.Height())
	gpu.Apply(dev, gpu.FullscreenState)
	dev.Clear(true, false)

	bsh.Enable()
	bsh.SetTexture("u_color_texture", src.Color(0), core.UnitAlbedo)
	bsh.SetTexture("u_velocity_texture", velocity.Color(0), unitVelocity)
	bsh.SetTexture("u_depth_texture", src.Depth(), unitDepth)
	bsh.SetUniform("u_samples", int32(f.Settings.MotionBlur.Samples))
	bsh.SetUniform("u_strength", f.Settings.MotionBlur.Strength)
	p.res.drawQuad()
	bsh.Disable()

	dst.Unbind()
	gpu.Apply(dev, gpu.DefaultState)
	return true
}

func (p *MotionBlurPass) previousModel(f *Frame, cmd DrawCommand) mgl32.Mat4 {
	if !f.Plan.ObjectBlur || f.Motion == nil || cmd.Node == nil {
		return cmd.Model
	}
	return f.Motion.Previous(cmd.Node.ID, cmd.Model)
}
