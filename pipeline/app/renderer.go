package app

import (
	"errors"
	"fmt"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/gekko3d/lumen/pipeline/render"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrShaderAtlas = errors.New("shader atlas unavailable")

type Config struct {
	// AtlasPath is loaded through the device unless Atlas is set.
	AtlasPath string
	Atlas     gpu.ShaderAtlas
	Logger    lumen.Logger
	// Controls defaults to a fresh set holding DefaultSettings.
	Controls *lumen.Controls
}

// FrameStats summarizes one RenderScene call.
type FrameStats struct {
	Path        lumen.RenderPath
	Draws       int
	Culled      int
	Opaque      int
	Transparent int
	Lights      int
	Shadowed    int
	Evicted     int
	// Presented is the label of the framebuffer copied to the screen.
	Presented string
}

// Renderer orchestrates the passes of one frame.
type Renderer struct {
	dev      gpu.Device
	res      *render.Resources
	log      lumen.Logger
	controls *lumen.Controls
	guard    *lumen.PathGuard
	profiler *Profiler

	targets *render.Targets
	list    render.DrawList
	motion  *render.MotionRegistry
	shadows *render.ShadowSystem

	forward  *render.ForwardPass
	deferred *render.DeferredPass
	ssao     *render.SSAOPass
	tonemap  *render.ToneMapPass
	blur     *render.MotionBlurPass

	prevViewProjection mgl32.Mat4
	hasPrev            bool
}

func NewRenderer(dev gpu.Device, cfg Config) (*Renderer, error) {
	log := lumen.OrNop(cfg.Logger)

	atlas := cfg.Atlas
	if atlas == nil {
		if cfg.AtlasPath == "" {
			return nil, fmt.Errorf("%w: no atlas path", ErrShaderAtlas)
		}
		var err error
		atlas, err = dev.LoadShaderAtlas(cfg.AtlasPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrShaderAtlas, err)
		}
	}

	controls := cfg.Controls
	if controls == nil {
		controls = lumen.NewControls(lumen.DefaultSettings(), log)
	}
	settings, _ := controls.Snapshot()

	res := render.NewResources(dev, atlas, log)
	shadows, err := render.NewShadowSystem(res, settings.Shadows.MapSize, settings.Shadows.Capacity)
	if err != nil {
		return nil, err
	}
	w, h := dev.ViewportSize()
	targets, err := render.NewTargets(dev, w, h)
	if err != nil {
		shadows.Release()
		return nil, err
	}

	sky := render.NewSkyboxPass(res)
	r := &Renderer{
		dev:      dev,
		res:      res,
		log:      log,
		controls: controls,
		guard:    lumen.NewPathGuard(log),
		profiler: NewProfiler(),
		targets:  targets,
		motion:   render.NewMotionRegistry(),
		shadows:  shadows,
		forward:  render.NewForwardPass(res, sky),
		deferred: render.NewDeferredPass(res, sky),
		ssao:     render.NewSSAOPass(res),
		tonemap:  render.NewToneMapPass(res),
		blur:     render.NewMotionBlurPass(res),
	}
	log.Debugf("renderer ready: %dx%d, %d shadow maps of %d", w, h, shadows.Capacity(), settings.Shadows.MapSize)
	return r, nil
}

func (r *Renderer) Controls() *lumen.Controls              { return r.controls }
func (r *Renderer) Profiler() *Profiler                    { return r.profiler }
func (r *Renderer) Targets() *render.Targets               { return r.targets }
func (r *Renderer) DrawList() *render.DrawList             { return &r.list }
func (r *Renderer) Motion() *render.MotionRegistry         { return r.motion }
func (r *Renderer) Shadows() *render.ShadowSystem          { return r.shadows }
func (r *Renderer) SSAOKernel() *render.Kernel             { return r.ssao.Kernel() }
func (r *Renderer) ForwardLights() *render.LightArrays     { return r.forward.LightArrays() }
func (r *Renderer) PrevViewProjection() (mgl32.Mat4, bool) { return r.prevViewProjection, r.hasPrev }

func (r *Renderer) Release() {
	r.targets.Release()
	r.shadows.Release()
}

// RenderScene draws one frame of scene as seen from cam and presents it.
func (r *Renderer) RenderScene(scene *core.Scene, cam *core.Camera) (FrameStats, error) {
	p := r.profiler
	p.Reset()
	defer p.Scope("frame")()

	settings, _ := r.controls.Snapshot()
	plan, _ := r.guard.Resolve(settings)

	if resized, err := r.targets.Resize(r.dev.ViewportSize()); err != nil {
		return FrameStats{}, fmt.Errorf("resize targets: %w", err)
	} else if resized {
		r.log.Debugf("targets resized to %dx%d", r.targets.Width, r.targets.Height)
	}

	endTraverse := p.Scope("traverse")
	r.motion.BeginFrame()
	render.Traverse(scene, cam, &r.list, r.motion)
	evicted := r.motion.EndFrame()
	r.list.Partition()
	endTraverse()

	prev := r.prevViewProjection
	if !r.hasPrev && cam != nil {
		prev = cam.ViewProjection
	}
	f := &render.Frame{
		Scene:              scene,
		Camera:             cam,
		Settings:           settings,
		Plan:               plan,
		List:               &r.list,
		Shadows:            r.shadows,
		Motion:             r.motion,
		PrevViewProjection: prev,
	}

	stats := FrameStats{
		Path:        plan.Path,
		Draws:       len(r.list.Commands),
		Culled:      r.list.Culled,
		Opaque:      len(r.list.Opaque),
		Transparent: len(r.list.Transparent),
		Lights:      len(r.list.Lights),
		Evicted:     evicted,
	}
	if w, h := r.dev.ViewportSize(); cam == nil || w <= 0 || h <= 0 {
		return stats, nil
	}

	endShadows := p.Scope("shadows")
	r.shadows.Render(f)
	stats.Shadowed = len(r.shadows.Published())
	endShadows()

	endPath := p.Scope(plan.Path.String())
	var out gpu.Framebuffer
	if plan.Path.Forward() {
		r.forward.RenderOpaque(f, r.targets.Scene)
		out = r.targets.Scene
	} else {
		out = r.renderDeferred(f)
	}
	endPath()

	if plan.MotionBlur() {
		endBlur := p.Scope("motion_blur")
		if r.blur.Render(f, out, r.targets.Velocity, r.targets.MotionBlur) {
			out = r.targets.MotionBlur
		}
		endBlur()
	}

	if !plan.SSAOView {
		endTransparent := p.Scope("transparent")
		r.forward.RenderTransparent(f, out, plan.TransparentMultipass)
		endTransparent()
	}

	out.ToViewport()
	stats.Presented = out.Label()

	r.prevViewProjection = cam.ViewProjection
	r.hasPrev = true
	gpu.Apply(r.dev, gpu.DefaultState)

	p.SetCount("draws", stats.Draws)
	p.SetCount("culled", stats.Culled)
	p.SetCount("lights", stats.Lights)
	p.SetCount("shadowed", stats.Shadowed)
	p.SetCount("evicted", stats.Evicted)
	return stats, nil
}

// renderDeferred fills the G-buffer, runs SSAO and lights the frame. It
// returns the framebuffer holding the result.
func (r *Renderer) renderDeferred(f *render.Frame) gpu.Framebuffer {
	t := r.targets
	r.deferred.FillGBuffer(f, t.GBuffer)

	var ao gpu.Texture
	if f.Plan.SSAO {
		if fb := r.ssao.Render(f, t.GBuffer, t.SSAO, t.SSAOBlur); fb != nil {
			if f.Plan.SSAOView {
				return fb
			}
			ao = fb.Color(0)
		}
	}

	if !f.Plan.HDR {
		r.deferred.Resolve(f, t.GBuffer, t.Scene, ao)
		return t.Scene
	}
	r.deferred.Resolve(f, t.GBuffer, t.HDR, ao)
	if r.tonemap.Render(f, t.HDR, t.ToneMap) {
		return t.ToneMap
	}
	return t.HDR
}
