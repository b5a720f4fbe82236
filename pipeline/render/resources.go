package render

import (
	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/gpu"
)

// Shader names looked up in the atlas. A missing shader turns its stage into
// a no-op for the frame.
const (
	ShaderDepth               = "depth"
	ShaderMultipassAmbient    = "phong_multipass_ambient"
	ShaderMultipassLight      = "phong_multipass_light"
	ShaderSinglePass          = "phong"
	ShaderFlat                = "flat"
	ShaderSkybox              = "skybox"
	ShaderGBuffer             = "gbuffer"
	ShaderDeferredAmbient     = "deferred_ambient"
	ShaderDeferredDirectional = "deferred_directional"
	ShaderDeferredVolume      = "deferred_light_volume"
	ShaderDeferredSinglePass  = "deferred_singlepass"
	ShaderSSAO                = "ssao"
	ShaderSSAOPlus            = "ssao_plus"
	ShaderSSAOBlur            = "ssao_blur"
	ShaderToneMap             = "tonemap"
	ShaderVelocity            = "velocity"
	ShaderMotionBlur          = "motion_blur"
)

// ShaderNames lists every shader the pipeline may request.
var ShaderNames = []string{
	ShaderDepth, ShaderMultipassAmbient, ShaderMultipassLight, ShaderSinglePass,
	ShaderFlat, ShaderSkybox, ShaderGBuffer, ShaderDeferredAmbient,
	ShaderDeferredDirectional, ShaderDeferredVolume, ShaderDeferredSinglePass,
	ShaderSSAO, ShaderSSAOPlus, ShaderSSAOBlur, ShaderToneMap, ShaderVelocity,
	ShaderMotionBlur,
}

// Texture units for pass inputs. Units 0-5 belong to Material.Bind.
const (
	unitGBufferAlbedo   = 6
	unitGBufferNormal   = 7
	unitGBufferMaterial = 8
	unitDepth           = 9
	unitAO              = 10
	unitVelocity        = 11
	unitShadow          = 12 // first of lumen.MaxShaderShadows units
)

// Resources bundles what every pass needs from the outside world.
type Resources struct {
	Device gpu.Device
	Atlas  gpu.ShaderAtlas
	Log    *lumen.OnceLogger
}

func NewResources(dev gpu.Device, atlas gpu.ShaderAtlas, log lumen.Logger) *Resources {
	return &Resources{Device: dev, Atlas: atlas, Log: lumen.NewOnceLogger(log)}
}

// Shader returns the named shader, or nil after logging the first miss.
func (r *Resources) Shader(name string) gpu.Shader {
	sh := r.Atlas.Get(name)
	if sh == nil {
		r.Log.WarnOnce("shader:"+name, "shader %q not found, stage skipped", name)
	}
	return sh
}

// screenViewport restores the viewport to the device size after rendering
// into a differently sized target.
func (r *Resources) screenViewport() {
	w, h := r.Device.ViewportSize()
	r.Device.SetViewport(0, 0, w, h)
}

func (r *Resources) drawQuad() {
	r.Device.FullscreenQuad().Render(gpu.Triangles)
}
