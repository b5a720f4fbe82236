package render

import (
	"math/rand/v2"

	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// kernelSeed keeps kernels identical across runs so frames are reproducible.
const kernelSeed = 0x55A0

// KernelParams identifies a generated kernel. Any change to it regenerates
// the samples.
type KernelParams struct {
	Size       int
	Radius     float32
	Hemisphere bool
}

// Kernel caches the SSAO sample offsets for the last requested params.
type Kernel struct {
	params      KernelParams
	samples     []mgl32.Vec3
	valid       bool
	generations int
}

// Ensure returns the samples for p, regenerating them only when p differs
// from the cached params.
func (k *Kernel) Ensure(p KernelParams) []mgl32.Vec3 {
	if k.valid && k.params == p {
		return k.samples
	}
	k.samples = GenerateKernel(p, k.samples[:0])
	k.params = p
	k.valid = true
	k.generations++
	return k.samples
}

func (k *Kernel) Samples() []mgl32.Vec3 { return k.samples }

// Generations counts how many times the samples were regenerated.
func (k *Kernel) Generations() int { return k.generations }

// GenerateKernel appends p.Size points rejection sampled inside the unit
// sphere, or the upper hemisphere (z >= 0), to dst. Point i is scaled by
// lerp(0.1, 1, (i/n)^2) * radius so samples cluster near the origin.
func GenerateKernel(p KernelParams, dst []mgl32.Vec3) []mgl32.Vec3 {
	r := rand.New(rand.NewPCG(kernelSeed, uint64(p.Size)))
	n := float32(p.Size)
	for i := 0; i < p.Size; {
		v := mgl32.Vec3{r.Float32()*2 - 1, r.Float32()*2 - 1, r.Float32()*2 - 1}
		if p.Hemisphere {
			v[2] = r.Float32()
		}
		l := v.Len()
		if l > 1 || l == 0 {
			continue
		}
		t := float32(i) / n
		scale := lerp(0.1, 1, t*t) * p.Radius
		dst = append(dst, v.Mul(scale))
		i++
	}
	return dst
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

// SSAOPass computes screen space ambient occlusion from the G-buffer.
type SSAOPass struct {
	res    *Resources
	kernel Kernel
}

func NewSSAOPass(res *Resources) *SSAOPass {
	return &SSAOPass{res: res}
}

func (p *SSAOPass) Kernel() *Kernel { return &p.kernel }

// Render writes the AO term into target and, when blurring is enabled and
// available, into blur. It returns the framebuffer holding the final AO or
// nil when the occlusion shader is missing.
func (p *SSAOPass) Render(f *Frame, gb, target, blur gpu.Framebuffer) gpu.Framebuffer {
	name := ShaderSSAO
	if f.Plan.SSAOPlus {
		name = ShaderSSAOPlus
	}
	sh := p.res.Shader(name)
	if sh == nil {
		return nil
	}
	cfg := f.Settings.SSAO
	samples := p.kernel.Ensure(KernelParams{Size: cfg.KernelSize, Radius: cfg.Radius, Hemisphere: f.Plan.SSAOPlus})

	dev := p.res.Device
	dev.BlitDepth(gb, target)
	target.Bind()
	dev.SetViewport(0, 0, target.Width(), target.Height())
	gpu.Apply(dev, gpu.FullscreenState)
	dev.SetClearColor(mgl32.Vec4{1, 1, 1, 1})
	dev.Clear(true, false)

	sh.Enable()
	sh.SetTexture("u_depth_texture", gb.Depth(), unitDepth)
	sh.SetTexture("u_normal_texture", gb.Color(GBufferNormal), unitGBufferNormal)
	sh.SetUniform("u_samples", samples)
	sh.SetUniform("u_sample_count", int32(len(samples)))
	sh.SetUniform("u_radius", cfg.Radius)
	sh.SetUniform("u_bias", cfg.Bias)
	sh.SetUniform("u_projection", f.Camera.Projection)
	sh.SetUniform("u_inverse_projection", f.Camera.InvProjection)
	sh.SetUniform("u_view", f.Camera.View)
	sh.SetUniform("u_viewport_size", mgl32.Vec2{float32(target.Width()), float32(target.Height())})
	p.res.drawQuad()
	sh.Disable()
	target.Unbind()

	out := target
	if cfg.Blur && blur != nil {
		if bs := p.res.Shader(ShaderSSAOBlur); bs != nil {
			dev.BlitDepth(gb, blur)
			blur.Bind()
			dev.Clear(true, false)
			bs.Enable()
			bs.SetTexture("u_ao_texture", target.Color(0), unitAO)
			bs.SetUniform("u_texel_size", mgl32.Vec2{1 / float32(blur.Width()), 1 / float32(blur.Height())})
			p.res.drawQuad()
			bs.Disable()
			blur.Unbind()
			out = blur
		}
	}
	gpu.Apply(dev, gpu.DefaultState)
	return out
}
