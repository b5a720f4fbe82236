package lumen

import (
	"fmt"
	"strings"
)

const (
	// MaxShaderLights is the length of the light uniform arrays in single-pass shaders.
	MaxShaderLights = 10
	// MaxShaderShadows is the number of shadow samplers a single-pass shader declares.
	MaxShaderShadows = 4
	// MaxKernelSize is the length of the SSAO sample uniform array.
	MaxKernelSize = 64
	// MaxBlurSamples bounds the motion blur loop in the resolve shader.
	MaxBlurSamples = 32
)

// ToneOperator selects the HDR to display range mapping.
type ToneOperator int

const (
	ToneLinear ToneOperator = iota
	ToneReinhard
	ToneACES
)

var toneOperatorNames = map[ToneOperator]string{
	ToneLinear:   "linear",
	ToneReinhard: "reinhard",
	ToneACES:     "aces",
}

func (op ToneOperator) String() string {
	if name, ok := toneOperatorNames[op]; ok {
		return name
	}
	return fmt.Sprintf("ToneOperator(%d)", int(op))
}

func (op ToneOperator) MarshalText() ([]byte, error) {
	name, ok := toneOperatorNames[op]
	if !ok {
		return nil, fmt.Errorf("unknown tone operator %d", int(op))
	}
	return []byte(name), nil
}

func (op *ToneOperator) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, name := range toneOperatorNames {
		if name == s {
			*op = k
			return nil
		}
	}
	return fmt.Errorf("unknown tone operator %q", s)
}

type ShadowSettings struct {
	Enabled          bool    `toml:"enabled" yaml:"enabled"`
	Bias             float32 `toml:"bias" yaml:"bias"`
	FrontFaceCulling bool    `toml:"front_face_culling" yaml:"front_face_culling"`
	// MapSize and Capacity are read once when the renderer is created.
	MapSize  int `toml:"map_size" yaml:"map_size"`
	Capacity int `toml:"capacity" yaml:"capacity"`
	// DirectionalExtent is the orthographic half-extent for directional lights.
	DirectionalExtent float32 `toml:"directional_extent" yaml:"directional_extent"`
	Near              float32 `toml:"near" yaml:"near"`
	Far               float32 `toml:"far" yaml:"far"`
	// SinglePassSlots is how many shadow samplers single-pass shaders get bound.
	SinglePassSlots int `toml:"single_pass_slots" yaml:"single_pass_slots"`
}

type SSAOSettings struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Hemisphere orients samples around the surface normal (SSAO+).
	Hemisphere bool `toml:"hemisphere" yaml:"hemisphere"`
	// ResolveLighting chains the AO buffer into the deferred lighting resolve.
	// When false the AO buffer is presented on its own.
	ResolveLighting bool    `toml:"resolve_lighting" yaml:"resolve_lighting"`
	KernelSize      int     `toml:"kernel_size" yaml:"kernel_size"`
	Radius          float32 `toml:"radius" yaml:"radius"`
	Bias            float32 `toml:"bias" yaml:"bias"`
	Blur            bool    `toml:"blur" yaml:"blur"`
}

type HDRSettings struct {
	Enabled    bool         `toml:"enabled" yaml:"enabled"`
	Exposure   float32      `toml:"exposure" yaml:"exposure"`
	Operator   ToneOperator `toml:"operator" yaml:"operator"`
	ApplyGamma bool         `toml:"apply_gamma" yaml:"apply_gamma"`
}

type MotionBlurSettings struct {
	Camera   bool    `toml:"camera" yaml:"camera"`
	Object   bool    `toml:"object" yaml:"object"`
	Samples  int     `toml:"samples" yaml:"samples"`
	Strength float32 `toml:"strength" yaml:"strength"`
}

// Settings is the renderer configuration state. The renderer reads a value
// snapshot once per frame; mutate it through Controls.
type Settings struct {
	Wireframe    bool `toml:"wireframe" yaml:"wireframe"`
	ShowBounds   bool `toml:"show_bounds" yaml:"show_bounds"`
	Multipass    bool `toml:"multipass" yaml:"multipass"`
	Deferred     bool `toml:"deferred" yaml:"deferred"`
	LightVolumes bool `toml:"light_volumes" yaml:"light_volumes"`

	Shadows    ShadowSettings     `toml:"shadows" yaml:"shadows"`
	SSAO       SSAOSettings       `toml:"ssao" yaml:"ssao"`
	HDR        HDRSettings        `toml:"hdr" yaml:"hdr"`
	MotionBlur MotionBlurSettings `toml:"motion_blur" yaml:"motion_blur"`
}

func DefaultSettings() Settings {
	return Settings{
		Multipass: true,
		Shadows: ShadowSettings{
			Enabled:           true,
			Bias:              0.003,
			FrontFaceCulling:  true,
			MapSize:           1024,
			Capacity:          4,
			DirectionalExtent: 20,
			Near:              0.1,
			Far:               100,
			SinglePassSlots:   2,
		},
		SSAO: SSAOSettings{
			KernelSize: 32,
			Radius:     0.5,
			Bias:       0.025,
			Blur:       true,
		},
		HDR: HDRSettings{
			Exposure:   1,
			Operator:   ToneReinhard,
			ApplyGamma: true,
		},
		MotionBlur: MotionBlurSettings{
			Samples:  8,
			Strength: 1,
		},
	}
}

// Normalized replaces out-of-range values with defaults or clamps them to the
// shader array limits.
func (s Settings) Normalized() Settings {
	def := DefaultSettings()

	if s.Shadows.Bias < 0 {
		s.Shadows.Bias = def.Shadows.Bias
	}
	if s.Shadows.MapSize <= 0 {
		s.Shadows.MapSize = def.Shadows.MapSize
	}
	if s.Shadows.Capacity < 0 {
		s.Shadows.Capacity = def.Shadows.Capacity
	}
	if s.Shadows.DirectionalExtent <= 0 {
		s.Shadows.DirectionalExtent = def.Shadows.DirectionalExtent
	}
	if s.Shadows.Near <= 0 {
		s.Shadows.Near = def.Shadows.Near
	}
	if s.Shadows.Far <= s.Shadows.Near {
		s.Shadows.Far = max(def.Shadows.Far, s.Shadows.Near*2)
	}
	s.Shadows.SinglePassSlots = clampInt(s.Shadows.SinglePassSlots, 0, MaxShaderShadows)

	if s.SSAO.KernelSize <= 0 {
		s.SSAO.KernelSize = def.SSAO.KernelSize
	}
	s.SSAO.KernelSize = clampInt(s.SSAO.KernelSize, 1, MaxKernelSize)
	if s.SSAO.Radius <= 0 {
		s.SSAO.Radius = def.SSAO.Radius
	}
	if s.SSAO.Bias < 0 {
		s.SSAO.Bias = def.SSAO.Bias
	}

	if s.HDR.Exposure <= 0 {
		s.HDR.Exposure = def.HDR.Exposure
	}
	if _, ok := toneOperatorNames[s.HDR.Operator]; !ok {
		s.HDR.Operator = def.HDR.Operator
	}

	if s.MotionBlur.Samples <= 0 {
		s.MotionBlur.Samples = def.MotionBlur.Samples
	}
	s.MotionBlur.Samples = clampInt(s.MotionBlur.Samples, 1, MaxBlurSamples)
	if s.MotionBlur.Strength < 0 {
		s.MotionBlur.Strength = 0
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
