package render

import (
	"fmt"

	"github.com/gekko3d/lumen/pipeline/gpu"
)

// G-buffer color attachments.
const (
	GBufferAlbedo = iota
	GBufferNormal
	GBufferMaterial
	gbufferAttachments
)

// Targets owns the screen sized framebuffers of the pipeline.
type Targets struct {
	dev           gpu.Device
	Width, Height int

	GBuffer    gpu.Framebuffer
	Scene      gpu.Framebuffer
	HDR        gpu.Framebuffer
	ToneMap    gpu.Framebuffer
	SSAO       gpu.Framebuffer
	SSAOBlur   gpu.Framebuffer
	Velocity   gpu.Framebuffer
	MotionBlur gpu.Framebuffer
}

type targetDesc struct {
	dst    *gpu.Framebuffer
	label  string
	colors int
	format gpu.Format
}

func (t *Targets) descs() []targetDesc {
	return []targetDesc{
		{&t.GBuffer, "gbuffer", gbufferAttachments, gpu.FormatRGBA16F},
		{&t.Scene, "scene", 1, gpu.FormatRGBA8},
		{&t.HDR, "hdr", 1, gpu.FormatRGBA16F},
		{&t.ToneMap, "tonemap", 1, gpu.FormatRGBA8},
		{&t.SSAO, "ssao", 1, gpu.FormatR8},
		{&t.SSAOBlur, "ssao_blur", 1, gpu.FormatR8},
		{&t.Velocity, "velocity", 1, gpu.FormatRG16F},
		{&t.MotionBlur, "motion_blur", 1, gpu.FormatRGBA8},
	}
}

func NewTargets(dev gpu.Device, width, height int) (*Targets, error) {
	t := &Targets{dev: dev}
	if err := t.create(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Targets) create(width, height int) error {
	for _, d := range t.descs() {
		fb, err := t.dev.CreateFramebuffer(gpu.FramebufferDesc{
			Label:            d.label,
			Width:            width,
			Height:           height,
			ColorAttachments: d.colors,
			Format:           d.format,
			Depth:            true,
		})
		if err != nil {
			t.Release()
			t.Width, t.Height = 0, 0
			return fmt.Errorf("create %s target: %w", d.label, err)
		}
		*d.dst = fb
	}
	t.Width, t.Height = width, height
	return nil
}

// Resize recreates every target when the size changed. It reports whether
// anything was recreated. An empty size, e.g. a minimized window, keeps the
// current targets.
func (t *Targets) Resize(width, height int) (bool, error) {
	if width <= 0 || height <= 0 {
		return false, nil
	}
	if width == t.Width && height == t.Height && t.GBuffer != nil {
		return false, nil
	}
	t.Release()
	return true, t.create(width, height)
}

func (t *Targets) Release() {
	for _, d := range t.descs() {
		if *d.dst != nil {
			(*d.dst).Release()
			*d.dst = nil
		}
	}
}
