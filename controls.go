package lumen

import (
	"sync"
)

// Controls is the single mutation surface for renderer settings. A debug
// panel, a settings file watcher and the render thread may all touch it, so
// every access goes through the mutex. The render thread only ever reads a
// Snapshot.
type Controls struct {
	mu       sync.Mutex
	settings Settings
	version  uint64
	log      Logger
}

func NewControls(s Settings, log Logger) *Controls {
	return &Controls{settings: s.Normalized(), log: OrNop(log)}
}

// Snapshot returns a copy of the current settings and their version. The
// version increases on every mutation.
func (c *Controls) Snapshot() (Settings, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings, c.version
}

// Update applies fn to the settings and normalizes the result.
func (c *Controls) Update(fn func(s *Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.settings
	fn(&next)
	c.settings = next.Normalized()
	c.version++
}

// Replace swaps in a whole settings value, e.g. one reloaded from disk.
func (c *Controls) Replace(s Settings) {
	c.Update(func(cur *Settings) { *cur = s })
	c.log.Infof("settings replaced")
}

func (c *Controls) SetWireframe(on bool) { c.Update(func(s *Settings) { s.Wireframe = on }) }
func (c *Controls) SetShowBounds(on bool) {
	c.Update(func(s *Settings) { s.ShowBounds = on })
}
func (c *Controls) SetMultipass(on bool) { c.Update(func(s *Settings) { s.Multipass = on }) }
func (c *Controls) SetDeferred(on bool)  { c.Update(func(s *Settings) { s.Deferred = on }) }

// SetLightVolumes toggles the light volume deferred resolve. Turning it on
// selects the deferred path at the next frame regardless of Deferred or
// Multipass; those flags are left untouched so turning it off again restores
// the previous path.
func (c *Controls) SetLightVolumes(on bool) {
	c.Update(func(s *Settings) { s.LightVolumes = on })
}

func (c *Controls) SetShadowBias(bias float32) {
	c.Update(func(s *Settings) { s.Shadows.Bias = bias })
}
func (c *Controls) SetShadows(on bool) { c.Update(func(s *Settings) { s.Shadows.Enabled = on }) }
func (c *Controls) SetShadowFrontFaceCulling(on bool) {
	c.Update(func(s *Settings) { s.Shadows.FrontFaceCulling = on })
}

func (c *Controls) SetSSAO(on bool) { c.Update(func(s *Settings) { s.SSAO.Enabled = on }) }
func (c *Controls) SetSSAOPlus(on bool) {
	c.Update(func(s *Settings) { s.SSAO.Hemisphere = on })
}
func (c *Controls) SetSSAOResolveLighting(on bool) {
	c.Update(func(s *Settings) { s.SSAO.ResolveLighting = on })
}
func (c *Controls) SetSSAOKernel(size int, radius float32) {
	c.Update(func(s *Settings) {
		s.SSAO.KernelSize = size
		s.SSAO.Radius = radius
	})
}

func (c *Controls) SetHDR(on bool) { c.Update(func(s *Settings) { s.HDR.Enabled = on }) }
func (c *Controls) SetExposure(exposure float32) {
	c.Update(func(s *Settings) { s.HDR.Exposure = exposure })
}
func (c *Controls) SetToneOperator(op ToneOperator) {
	c.Update(func(s *Settings) { s.HDR.Operator = op })
}
func (c *Controls) SetGamma(on bool) { c.Update(func(s *Settings) { s.HDR.ApplyGamma = on }) }

func (c *Controls) SetCameraMotionBlur(on bool) {
	c.Update(func(s *Settings) { s.MotionBlur.Camera = on })
}
func (c *Controls) SetObjectMotionBlur(on bool) {
	c.Update(func(s *Settings) { s.MotionBlur.Object = on })
}
func (c *Controls) SetMotionBlur(samples int, strength float32) {
	c.Update(func(s *Settings) {
		s.MotionBlur.Samples = samples
		s.MotionBlur.Strength = strength
	})
}
