package render

import (
	"fmt"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowInfo is what the shadow pass published for one light this frame.
type ShadowInfo struct {
	Slot           int
	ViewProjection mgl32.Mat4
	Map            gpu.Texture
}

// shadowBias maps clip space [-1,1] into texture space [0,1].
var shadowBias = mgl32.Mat4{
	0.5, 0, 0, 0,
	0, 0.5, 0, 0,
	0, 0, 0.5, 0,
	0.5, 0.5, 0.5, 1,
}

// ShadowMatrix is the matrix shaders use to look up a shadow map from world space.
func ShadowMatrix(lightVP mgl32.Mat4) mgl32.Mat4 {
	return shadowBias.Mul4(lightVP)
}

// ShadowSystem renders one depth map per shadow casting light into a fixed
// pool of targets. Lights past the pool capacity are left unshadowed.
type ShadowSystem struct {
	res  *Resources
	size int
	maps []gpu.Framebuffer

	assigned map[*core.LightEntity]ShadowInfo
	order    []*core.LightEntity
	skipped  int
}

func NewShadowSystem(res *Resources, size, capacity int) (*ShadowSystem, error) {
	s := &ShadowSystem{
		res:      res,
		size:     size,
		assigned: make(map[*core.LightEntity]ShadowInfo),
	}
	for i := 0; i < capacity; i++ {
		fb, err := res.Device.CreateFramebuffer(gpu.FramebufferDesc{
			Label:  fmt.Sprintf("shadow%d", i),
			Width:  size,
			Height: size,
			Depth:  true,
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("create shadow map %d: %w", i, err)
		}
		s.maps = append(s.maps, fb)
	}
	return s, nil
}

func (s *ShadowSystem) Capacity() int { return len(s.maps) }

// Map returns the depth target of slot i.
func (s *ShadowSystem) Map(i int) gpu.Framebuffer { return s.maps[i] }

func (s *ShadowSystem) Release() {
	for _, fb := range s.maps {
		fb.Release()
	}
	s.maps = nil
}

func (s *ShadowSystem) Lookup(l *core.LightEntity) (ShadowInfo, bool) {
	info, ok := s.assigned[l]
	return info, ok
}

// Published returns the lights that received a shadow map this frame, in
// slot order.
func (s *ShadowSystem) Published() []*core.LightEntity { return s.order }

// Skipped counts casters left unshadowed because the pool was full.
func (s *ShadowSystem) Skipped() int { return s.skipped }

// Render draws the shadow maps for f. Assignments from the previous frame are
// dropped first, so a disabled pass publishes nothing.
func (s *ShadowSystem) Render(f *Frame) {
	clear(s.assigned)
	s.order = s.order[:0]
	s.skipped = 0
	for _, l := range f.List.Lights {
		l.ViewProjection = mgl32.Mat4{}
	}

	if !f.Settings.Shadows.Enabled || len(f.List.Lights) == 0 {
		return
	}
	sh := s.res.Shader(ShaderDepth)
	if sh == nil {
		return
	}

	dev := s.res.Device
	for _, l := range f.List.Lights {
		if !l.CastShadows || l.Type == core.LightPoint {
			continue
		}
		slot := len(s.order)
		if slot >= len(s.maps) {
			s.skipped++
			continue
		}
		cam := LightCamera(l, f.Settings.Shadows)
		s.renderMap(f, sh, s.maps[slot], cam)

		l.ViewProjection = cam.ViewProjection
		s.assigned[l] = ShadowInfo{Slot: slot, ViewProjection: cam.ViewProjection, Map: s.maps[slot].Depth()}
		s.order = append(s.order, l)
	}
	if s.skipped > 0 {
		s.res.Log.Debugf("shadow capacity %d reached, %d casters unshadowed", len(s.maps), s.skipped)
	}

	dev.SetColorWrite(true)
	dev.SetCull(gpu.CullBack)
	s.res.screenViewport()
}

func (s *ShadowSystem) renderMap(f *Frame, sh gpu.Shader, fb gpu.Framebuffer, cam *core.Camera) {
	dev := s.res.Device
	fb.Bind()
	dev.SetViewport(0, 0, s.size, s.size)

	state := gpu.DefaultState
	state.ColorWrite = false
	if f.Settings.Shadows.FrontFaceCulling {
		state.Cull = gpu.CullFront
	}
	gpu.Apply(dev, state)
	dev.Clear(false, true)

	planes := cam.Planes()
	sh.Enable()
	sh.SetUniform("u_viewprojection", cam.ViewProjection)
	for _, cmd := range f.List.Opaque {
		if !core.AABBInFrustum(cmd.Bounds, planes) {
			continue
		}
		sh.SetUniform("u_model", cmd.Model)
		mask := cmd.Material.AlphaMaskTexture()
		sh.SetUniform("u_alpha_mask", mask != nil)
		if mask != nil {
			sh.SetTexture("u_texture", mask, core.UnitAlbedo)
			sh.SetUniform("u_alpha_cutoff", cmd.Material.Cutoff())
		}
		cmd.Mesh.Render(gpu.Triangles)
	}
	sh.Disable()
	fb.Unbind()
}

// maxSpotShadowFOV keeps wide spot cones from collapsing the projection.
const maxSpotShadowFOV = 170

// LightCamera builds the shadow camera of a spot or directional light.
func LightCamera(l *core.LightEntity, cfg lumen.ShadowSettings) *core.Camera {
	cam := &core.Camera{}
	switch l.Type {
	case core.LightDirectional:
		e := cfg.DirectionalExtent
		cam.SetOrthographic(-e, e, -e, e, cfg.Near, cfg.Far)
	default:
		near, far := cfg.Near, cfg.Far
		if l.Near > 0 {
			near = l.Near
		}
		if l.MaxDistance > near {
			far = l.MaxDistance
		}
		cam.SetPerspective(min(2*l.ConeOuter, maxSpotShadowFOV), 1, near, far)
	}
	pos := l.Position()
	cam.LookAt(pos, pos.Add(l.Direction()), mgl32.Vec3{0, 1, 0})
	return cam
}
