package lumen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_TOML(t *testing.T) {
	path := writeFile(t, "render.toml", `
deferred = true
light_volumes = true

[shadows]
bias = 0.01
capacity = 2

[hdr]
enabled = true
operator = "aces"
`)
	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.True(t, s.Deferred)
	assert.True(t, s.LightVolumes)
	assert.Equal(t, float32(0.01), s.Shadows.Bias)
	assert.Equal(t, 2, s.Shadows.Capacity)
	assert.True(t, s.HDR.Enabled)
	assert.Equal(t, ToneACES, s.HDR.Operator)

	def := DefaultSettings()
	assert.Equal(t, def.Multipass, s.Multipass, "absent keys keep defaults")
	assert.Equal(t, def.Shadows.MapSize, s.Shadows.MapSize)
	assert.Equal(t, def.SSAO, s.SSAO)
}

func TestLoadSettings_YAML(t *testing.T) {
	path := writeFile(t, "render.yaml", `
multipass: false
ssao:
  enabled: true
  hemisphere: true
  kernel_size: 16
motion_blur:
  object: true
`)
	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.False(t, s.Multipass)
	assert.True(t, s.SSAO.Enabled)
	assert.True(t, s.SSAO.Hemisphere)
	assert.Equal(t, 16, s.SSAO.KernelSize)
	assert.True(t, s.MotionBlur.Object)
	assert.Equal(t, DefaultSettings().HDR, s.HDR)
}

func TestLoadSettings_EmptyFileIsDefaults(t *testing.T) {
	for _, name := range []string{"empty.toml", "empty.yml"} {
		s, err := LoadSettings(writeFile(t, name, ""))
		require.NoError(t, err, name)
		assert.Equal(t, DefaultSettings(), s, name)
	}
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := LoadSettings(writeFile(t, "render.json", "{}"))
	assert.ErrorIs(t, err, ErrSettingsFormat)

	_, err = LoadSettings(writeFile(t, "typo.toml", "multipas = true\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = LoadSettings(writeFile(t, "typo.yaml", "hdr:\n  operator: filmic\n"))
	assert.Error(t, err)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveSettings(t *testing.T) {
	s := DefaultSettings()
	s.Deferred = true
	s.SSAO.Enabled = true
	s.HDR.Operator = ToneLinear
	s.MotionBlur.Samples = 12

	for _, name := range []string{"out.toml", "out.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, SaveSettings(path, s))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), "linear"), "operator is written as text")

		loaded, err := LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, s, loaded, name)
	}
}

func TestSettingsNormalized(t *testing.T) {
	s := DefaultSettings()
	s.SSAO.KernelSize = 500
	s.SSAO.Radius = -1
	s.Shadows.SinglePassSlots = 9
	s.Shadows.MapSize = 0
	s.HDR.Exposure = 0
	s.HDR.Operator = ToneOperator(42)
	s.MotionBlur.Samples = 1000
	s.MotionBlur.Strength = -2

	n := s.Normalized()
	def := DefaultSettings()
	assert.Equal(t, MaxKernelSize, n.SSAO.KernelSize)
	assert.Equal(t, def.SSAO.Radius, n.SSAO.Radius)
	assert.Equal(t, MaxShaderShadows, n.Shadows.SinglePassSlots)
	assert.Equal(t, def.Shadows.MapSize, n.Shadows.MapSize)
	assert.Equal(t, def.HDR.Exposure, n.HDR.Exposure)
	assert.Equal(t, def.HDR.Operator, n.HDR.Operator)
	assert.Equal(t, MaxBlurSamples, n.MotionBlur.Samples)
	assert.Zero(t, n.MotionBlur.Strength)

	assert.Equal(t, def, def.Normalized(), "defaults are already normal")
}

func TestToneOperatorText(t *testing.T) {
	var op ToneOperator
	require.NoError(t, op.UnmarshalText([]byte(" ACES ")))
	assert.Equal(t, ToneACES, op)
	assert.Equal(t, "reinhard", ToneReinhard.String())
	assert.Error(t, op.UnmarshalText([]byte("hable")))

	_, err := ToneOperator(7).MarshalText()
	assert.Error(t, err)
}
