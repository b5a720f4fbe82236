package render

import (
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
)

// SkyboxPass draws the scene environment texture on a full-screen quad at
// the far plane.
type SkyboxPass struct {
	res *Resources
}

func NewSkyboxPass(res *Resources) *SkyboxPass {
	return &SkyboxPass{res: res}
}

// Render draws into the bound target. Before geometry the depth test is off;
// after a deferred resolve it tests against the copied depth so the sky only
// fills uncovered pixels.
func (p *SkyboxPass) Render(f *Frame, afterGeometry bool) {
	if f.Scene == nil || f.Scene.Skybox == nil {
		return
	}
	sh := p.res.Shader(ShaderSkybox)
	if sh == nil {
		return
	}

	state := gpu.FullscreenState
	if afterGeometry {
		state.DepthTest = true
		state.DepthFunc = gpu.DepthLessEqual
	}
	gpu.Apply(p.res.Device, state)

	sh.Enable()
	sh.SetTexture("u_skybox", f.Scene.Skybox, core.UnitAlbedo)
	sh.SetUniform("u_inverse_viewprojection", f.Camera.InvViewProjection)
	sh.SetUniform("u_camera_position", f.Camera.Eye)
	p.res.drawQuad()
	sh.Disable()
}
