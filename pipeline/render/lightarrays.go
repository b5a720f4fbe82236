package render

import (
	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowLookup resolves the shadow map published for a light this frame.
type ShadowLookup interface {
	Lookup(l *core.LightEntity) (ShadowInfo, bool)
}

// LightArrays is the uniform block of single-pass shaders. Storage is reused
// between frames.
type LightArrays struct {
	Count        int
	Types        []int32
	Positions    []mgl32.Vec3
	Directions   []mgl32.Vec3
	Colors       []mgl32.Vec3
	Intensities  []float32
	MaxDistances []float32
	Cones        []mgl32.Vec2
	// ShadowIndex maps each light to its shadow sampler, -1 for none.
	ShadowIndex []int32

	ShadowMatrices []mgl32.Mat4
	ShadowMaps     []gpu.Texture
	// Dropped counts lights beyond MaxShaderLights.
	Dropped int
}

func (a *LightArrays) reset() {
	a.Count = 0
	a.Types = a.Types[:0]
	a.Positions = a.Positions[:0]
	a.Directions = a.Directions[:0]
	a.Colors = a.Colors[:0]
	a.Intensities = a.Intensities[:0]
	a.MaxDistances = a.MaxDistances[:0]
	a.Cones = a.Cones[:0]
	a.ShadowIndex = a.ShadowIndex[:0]
	a.ShadowMatrices = a.ShadowMatrices[:0]
	a.ShadowMaps = a.ShadowMaps[:0]
	a.Dropped = 0
}

// Fill packs up to MaxShaderLights lights in order. The first slots lights
// with a published shadow map get consecutive shadow samplers.
func (a *LightArrays) Fill(lights []*core.LightEntity, shadows ShadowLookup, slots int) {
	a.reset()
	slots = min(max(slots, 0), lumen.MaxShaderShadows)
	for _, l := range lights {
		if a.Count == lumen.MaxShaderLights {
			a.Dropped++
			continue
		}
		a.Count++
		a.Types = append(a.Types, int32(l.Type))
		a.Positions = append(a.Positions, l.Position())
		a.Directions = append(a.Directions, l.Direction())
		a.Colors = append(a.Colors, l.Color)
		a.Intensities = append(a.Intensities, l.Intensity)
		a.MaxDistances = append(a.MaxDistances, l.MaxDistance)
		a.Cones = append(a.Cones, l.ConeCos())

		index := int32(-1)
		if shadows != nil && len(a.ShadowMaps) < slots {
			if info, ok := shadows.Lookup(l); ok {
				index = int32(len(a.ShadowMaps))
				a.ShadowMatrices = append(a.ShadowMatrices, ShadowMatrix(info.ViewProjection))
				a.ShadowMaps = append(a.ShadowMaps, info.Map)
			}
		}
		a.ShadowIndex = append(a.ShadowIndex, index)
	}
}

// Upload writes the arrays into sh, which must be enabled.
func (a *LightArrays) Upload(sh gpu.Shader) {
	sh.SetUniform("u_num_lights", int32(a.Count))
	sh.SetUniform("u_light_type", a.Types)
	sh.SetUniform("u_light_position", a.Positions)
	sh.SetUniform("u_light_direction", a.Directions)
	sh.SetUniform("u_light_color", a.Colors)
	sh.SetUniform("u_light_intensity", a.Intensities)
	sh.SetUniform("u_light_max_distance", a.MaxDistances)
	sh.SetUniform("u_light_cone", a.Cones)
	sh.SetUniform("u_light_shadow", a.ShadowIndex)
	sh.SetUniform("u_num_shadows", int32(len(a.ShadowMaps)))
	sh.SetUniform("u_shadow_viewprojection", a.ShadowMatrices)
	for i, tex := range a.ShadowMaps {
		sh.SetTexture(shadowSampler(i), tex, unitShadow+i)
	}
}

var shadowSamplers = [lumen.MaxShaderShadows]string{
	"u_shadow_map[0]", "u_shadow_map[1]", "u_shadow_map[2]", "u_shadow_map[3]",
}

func shadowSampler(i int) string { return shadowSamplers[i] }

// uploadLight writes the uniforms of a single light for per-light passes.
func uploadLight(sh gpu.Shader, l *core.LightEntity, shadows ShadowLookup) {
	sh.SetUniform("u_light_type", int32(l.Type))
	sh.SetUniform("u_light_position", l.Position())
	sh.SetUniform("u_light_direction", l.Direction())
	sh.SetUniform("u_light_color", l.Color)
	sh.SetUniform("u_light_intensity", l.Intensity)
	sh.SetUniform("u_light_max_distance", l.MaxDistance)
	sh.SetUniform("u_light_cone", l.ConeCos())

	var info ShadowInfo
	ok := false
	if shadows != nil {
		info, ok = shadows.Lookup(l)
	}
	sh.SetUniform("u_has_shadow", ok)
	if ok {
		sh.SetUniform("u_shadow_viewprojection", ShadowMatrix(info.ViewProjection))
		sh.SetTexture("u_shadow_map", info.Map, unitShadow)
	}
}
