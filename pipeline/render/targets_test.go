package render

import (
	"testing"

	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargets(t *testing.T) {
	dev := gpu.NewHeadless(320, 240)
	tg, err := NewTargets(dev, 320, 240)
	require.NoError(t, err)

	all := []gpu.Framebuffer{tg.GBuffer, tg.Scene, tg.HDR, tg.ToneMap, tg.SSAO, tg.SSAOBlur, tg.Velocity, tg.MotionBlur}
	var labels []string
	for _, fb := range all {
		require.NotNil(t, fb)
		require.NotNil(t, fb.Depth(), fb.Label())
		labels = append(labels, fb.Label())
	}
	assert.Equal(t, []string{"gbuffer", "scene", "hdr", "tonemap", "ssao", "ssao_blur", "velocity", "motion_blur"}, labels)
	assert.Equal(t, 3, tg.GBuffer.ColorCount())

	changed, err := tg.Resize(320, 240)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, all[0], tg.GBuffer)

	changed, err = tg.Resize(640, 480)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotSame(t, all[0], tg.GBuffer)
	assert.Equal(t, 640, tg.Scene.Width())
	for _, fb := range all {
		assert.True(t, fb.(*gpu.HeadlessFramebuffer).Released(), fb.Label())
	}

	kept := tg.Scene
	changed, err = tg.Resize(0, 0)
	require.NoError(t, err)
	assert.False(t, changed, "an empty viewport keeps the targets")
	assert.Same(t, kept, tg.Scene)
	assert.False(t, kept.(*gpu.HeadlessFramebuffer).Released())
	changed, err = tg.Resize(640, 480)
	require.NoError(t, err)
	assert.False(t, changed)

	tg.Release()
	assert.Nil(t, tg.Scene)
}
