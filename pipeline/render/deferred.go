package render

import (
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// defaultVolumeRange sizes the light volume of lights without MaxDistance.
const defaultVolumeRange = 10

// volumeState draws light spheres from the inside: back faces that lie
// behind the stored depth are the pixels the light can reach.
var volumeState = gpu.RenderState{
	Blend:      gpu.BlendAdditive,
	DepthTest:  true,
	DepthFunc:  gpu.DepthGreaterEqual,
	DepthWrite: false,
	Cull:       gpu.CullFront,
	ColorWrite: true,
}

// DeferredPass writes opaque surfaces into the G-buffer and resolves
// lighting from it in screen space.
type DeferredPass struct {
	res    *Resources
	sky    *SkyboxPass
	arrays LightArrays
}

func NewDeferredPass(res *Resources, sky *SkyboxPass) *DeferredPass {
	return &DeferredPass{res: res, sky: sky}
}

// FillGBuffer draws the opaque commands into gb. It reports false when the
// G-buffer shader is missing and nothing was written.
func (p *DeferredPass) FillGBuffer(f *Frame, gb gpu.Framebuffer) bool {
	sh := p.res.Shader(ShaderGBuffer)
	if sh == nil {
		return false
	}
	dev := p.res.Device
	gb.Bind()
	dev.SetViewport(0, 0, gb.Width(), gb.Height())
	gpu.Apply(dev, gpu.DefaultState)
	dev.SetClearColor(mgl32.Vec4{})
	dev.Clear(true, true)

	base := f.geometryState()
	sh.Enable()
	sh.SetUniform("u_viewprojection", f.Camera.ViewProjection)
	for _, cmd := range f.List.Opaque {
		gpu.Apply(dev, base)
		cmd.Material.Bind(dev, sh)
		sh.SetUniform("u_model", cmd.Model)
		cmd.Mesh.Render(gpu.Triangles)
	}
	sh.Disable()
	gb.Unbind()
	gpu.Apply(dev, gpu.DefaultState)
	return true
}

// Resolve lights the G-buffer into dst. The G-buffer depth is copied into
// dst first so light volumes, the sky and later forward passes depth test
// against the scene. ao may be nil.
func (p *DeferredPass) Resolve(f *Frame, gb, dst gpu.Framebuffer, ao gpu.Texture) {
	dev := p.res.Device
	dev.BlitDepth(gb, dst)

	dst.Bind()
	dev.SetViewport(0, 0, dst.Width(), dst.Height())
	gpu.Apply(dev, gpu.FullscreenState)
	dev.SetClearColor(f.background())
	dev.Clear(true, false)

	if f.Plan.LightVolumes {
		p.resolveVolumes(f, gb, ao)
	} else {
		p.resolveSinglePass(f, gb, ao)
	}
	if p.sky != nil {
		p.sky.Render(f, true)
	}

	dst.Unbind()
	gpu.Apply(dev, gpu.DefaultState)
}

func (p *DeferredPass) bindGBuffer(f *Frame, sh gpu.Shader, gb gpu.Framebuffer, ao gpu.Texture) {
	sh.SetTexture("u_albedo_texture", gb.Color(GBufferAlbedo), unitGBufferAlbedo)
	sh.SetTexture("u_normal_texture", gb.Color(GBufferNormal), unitGBufferNormal)
	sh.SetTexture("u_material_texture", gb.Color(GBufferMaterial), unitGBufferMaterial)
	sh.SetTexture("u_depth_texture", gb.Depth(), unitDepth)
	sh.SetUniform("u_inverse_viewprojection", f.Camera.InvViewProjection)
	sh.SetUniform("u_camera_position", f.Camera.Eye)
	sh.SetUniform("u_ambient_light", f.ambient())
	sh.SetUniform("u_viewport_size", mgl32.Vec2{float32(gb.Width()), float32(gb.Height())})
	sh.SetUniform("u_shadow_bias", f.Settings.Shadows.Bias)
	sh.SetUniform("u_use_ao", ao != nil)
	if ao != nil {
		sh.SetTexture("u_ao_texture", ao, unitAO)
	}
}

func (p *DeferredPass) resolveSinglePass(f *Frame, gb gpu.Framebuffer, ao gpu.Texture) {
	sh := p.res.Shader(ShaderDeferredSinglePass)
	if sh == nil {
		return
	}
	p.arrays.Fill(f.List.Lights, f.Shadows, f.Settings.Shadows.SinglePassSlots)
	if p.arrays.Dropped > 0 {
		p.res.Log.Debugf("deferred light cap reached, %d lights dropped", p.arrays.Dropped)
	}
	sh.Enable()
	p.bindGBuffer(f, sh, gb, ao)
	p.arrays.Upload(sh)
	p.res.drawQuad()
	sh.Disable()
}

func (p *DeferredPass) resolveVolumes(f *Frame, gb gpu.Framebuffer, ao gpu.Texture) {
	dev := p.res.Device

	if sh := p.res.Shader(ShaderDeferredAmbient); sh != nil {
		gpu.Apply(dev, gpu.FullscreenState)
		sh.Enable()
		p.bindGBuffer(f, sh, gb, ao)
		p.res.drawQuad()
		sh.Disable()
	}

	var directional, local []*core.LightEntity
	for _, l := range f.List.Lights {
		if l.Type == core.LightDirectional {
			directional = append(directional, l)
		} else {
			local = append(local, l)
		}
	}

	if len(directional) > 0 {
		if sh := p.res.Shader(ShaderDeferredDirectional); sh != nil {
			state := gpu.FullscreenState
			state.Blend = gpu.BlendAdditive
			gpu.Apply(dev, state)
			sh.Enable()
			p.bindGBuffer(f, sh, gb, ao)
			for _, l := range directional {
				uploadLight(sh, l, f.Shadows)
				p.res.drawQuad()
			}
			sh.Disable()
		}
	}

	if len(local) > 0 {
		if sh := p.res.Shader(ShaderDeferredVolume); sh != nil {
			gpu.Apply(dev, volumeState)
			sphere := dev.UnitSphere()
			sh.Enable()
			p.bindGBuffer(f, sh, gb, ao)
			sh.SetUniform("u_viewprojection", f.Camera.ViewProjection)
			for _, l := range local {
				sh.SetUniform("u_model", VolumeModel(l))
				uploadLight(sh, l, f.Shadows)
				sphere.Render(gpu.Triangles)
			}
			sh.Disable()
		}
	}
	gpu.Apply(dev, gpu.FullscreenState)
}

// VolumeModel places the unit sphere around a light, scaled to its range.
func VolumeModel(l *core.LightEntity) mgl32.Mat4 {
	r := l.MaxDistance
	if r <= 0 {
		r = defaultVolumeRange
	}
	pos := l.Position()
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.Scale3D(r, r, r))
}
