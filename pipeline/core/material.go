package core

import (
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	// AlphaMask discards fragments below AlphaCutoff.
	AlphaMask
	// AlphaBlend is sorted back to front and alpha blended.
	AlphaBlend
)

type TextureChannel int

const (
	ChannelAlbedo TextureChannel = iota
	ChannelEmissive
	ChannelOpacity
	ChannelMetallicRoughness
	ChannelOcclusion
	ChannelNormal
	numChannels
)

// Texture units used by Material.Bind. Passes bind their own inputs from
// unit 6 upwards.
const (
	UnitAlbedo            = 0
	UnitEmissive          = 1
	UnitOpacity           = 2
	UnitMetallicRoughness = 3
	UnitOcclusion         = 4
	UnitNormal            = 5
)

// unmaskedCutoff still discards fully transparent texels of opaque materials.
const unmaskedCutoff = 0.001

type Material struct {
	Name        string
	Color       mgl32.Vec4
	AlphaMode   AlphaMode
	AlphaCutoff float32
	TwoSided    bool
	Roughness   float32
	Metallic    float32
	Emissive    mgl32.Vec3
	Textures    [numChannels]gpu.Texture
}

var defaultMaterial = NewMaterial("default")

// DefaultMaterial is shared by nodes that carry a mesh but no material.
func DefaultMaterial() *Material { return defaultMaterial }

func NewMaterial(name string) *Material {
	return &Material{
		Name:        name,
		Color:       mgl32.Vec4{1, 1, 1, 1},
		AlphaCutoff: 0.5,
		Roughness:   1,
	}
}

func (m *Material) Texture(ch TextureChannel) gpu.Texture {
	return m.Textures[ch]
}

func (m *Material) Blended() bool { return m.AlphaMode == AlphaBlend }

// Shininess is the specular exponent factor derived from roughness.
func (m *Material) Shininess() float32 { return 1 - m.Roughness }

// Cutoff is the alpha threshold the shader discards below.
func (m *Material) Cutoff() float32 {
	if m.AlphaMode == AlphaMask {
		return m.AlphaCutoff
	}
	return unmaskedCutoff
}

// Bind configures blending and culling for the material and uploads its
// scalars and textures into sh. sh must be enabled.
func (m *Material) Bind(dev gpu.Device, sh gpu.Shader) {
	if m.AlphaMode == AlphaBlend {
		dev.SetBlend(gpu.BlendAlpha)
	} else {
		dev.SetBlend(gpu.BlendNone)
	}
	if m.TwoSided {
		dev.SetCull(gpu.CullNone)
	} else {
		dev.SetCull(gpu.CullBack)
	}

	albedo := m.Textures[ChannelAlbedo]
	if albedo == nil {
		albedo = dev.WhiteTexture()
	}
	sh.SetUniform("u_color", m.Color)
	sh.SetTexture("u_texture", albedo, UnitAlbedo)
	sh.SetUniform("u_alpha_cutoff", m.Cutoff())
	sh.SetUniform("u_roughness", m.Roughness)
	sh.SetUniform("u_metallic", m.Metallic)
	sh.SetUniform("u_emissive_factor", m.Emissive)

	optional := []struct {
		ch   TextureChannel
		name string
		flag string
		unit int
	}{
		{ChannelEmissive, "u_emissive_texture", "u_has_emissive", UnitEmissive},
		{ChannelOpacity, "u_opacity_texture", "u_has_opacity", UnitOpacity},
		{ChannelMetallicRoughness, "u_metallic_roughness_texture", "u_has_metallic_roughness", UnitMetallicRoughness},
		{ChannelOcclusion, "u_occlusion_texture", "u_has_occlusion", UnitOcclusion},
		{ChannelNormal, "u_normal_map", "u_has_normal_map", UnitNormal},
	}
	for _, o := range optional {
		tex := m.Textures[o.ch]
		sh.SetUniform(o.flag, tex != nil)
		if tex != nil {
			sh.SetTexture(o.name, tex, o.unit)
		}
	}
}

// AlphaMaskTexture returns the texture whose alpha drives cutout testing in
// depth-only passes, or nil when the material is not a cutout.
func (m *Material) AlphaMaskTexture() gpu.Texture {
	if m.AlphaMode != AlphaMask {
		return nil
	}
	if t := m.Textures[ChannelOpacity]; t != nil {
		return t
	}
	return m.Textures[ChannelAlbedo]
}
