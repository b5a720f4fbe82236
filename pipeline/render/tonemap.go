package render

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

const displayGamma = 2.2

// ToneMapPass maps the HDR target into display range.
type ToneMapPass struct {
	res *Resources
}

func NewToneMapPass(res *Resources) *ToneMapPass {
	return &ToneMapPass{res: res}
}

// Render tone maps src into dst, copying depth along. It reports false when
// the shader is missing.
func (p *ToneMapPass) Render(f *Frame, src, dst gpu.Framebuffer) bool {
	sh := p.res.Shader(ShaderToneMap)
	if sh == nil {
		return false
	}
	cfg := f.Settings.HDR
	dev := p.res.Device
	dev.BlitDepth(src, dst)
	dst.Bind()
	dev.SetViewport(0, 0, dst.Width(), dst.Height())
	gpu.Apply(dev, gpu.FullscreenState)
	dev.Clear(true, false)

	sh.Enable()
	sh.SetTexture("u_hdr_texture", src.Color(0), core.UnitAlbedo)
	sh.SetUniform("u_exposure", cfg.Exposure)
	sh.SetUniform("u_operator", int32(cfg.Operator))
	sh.SetUniform("u_apply_gamma", cfg.ApplyGamma)
	sh.SetUniform("u_gamma", float32(displayGamma))
	p.res.drawQuad()
	sh.Disable()

	dst.Unbind()
	gpu.Apply(dev, gpu.DefaultState)
	return true
}

// ToneMap applies the tone mapping shader math to one color on the CPU.
func ToneMap(c mgl32.Vec3, exposure float32, op lumen.ToneOperator, gamma bool) mgl32.Vec3 {
	c = c.Mul(exposure)
	for i := range c {
		x := max(c[i], 0)
		switch op {
		case lumen.ToneReinhard:
			x = x / (1 + x)
		case lumen.ToneACES:
			// Narkowicz fit.
			x = (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
		}
		x = min(max(x, 0), 1)
		if gamma {
			x = math32.Pow(x, 1/displayGamma)
		}
		c[i] = x
	}
	return c
}
