package gpu

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrEmptyAtlas    = errors.New("shader atlas has no shaders")
	ErrInvalidTarget = errors.New("invalid framebuffer description")
)

const screenTargetLabel = "screen"

type Op string

const (
	OpBind       Op = "bind"
	OpUnbind     Op = "unbind"
	OpViewport   Op = "viewport"
	OpClear      Op = "clear"
	OpEnable     Op = "enable"
	OpDisable    Op = "disable"
	OpUniform    Op = "uniform"
	OpTexture    Op = "texture"
	OpDraw       Op = "draw"
	OpBlitDepth  Op = "blit_depth"
	OpToViewport Op = "to_viewport"
)

type ClearValue struct {
	Color, Depth bool
	RGBA         mgl32.Vec4
}

// Command is one recorded device call. Which fields are meaningful depends on Op.
type Command struct {
	Op        Op
	Target    string
	Shader    string
	Name      string
	Value     any
	Slot      int
	Mesh      string
	Primitive Primitive
	State     RenderState
	Source    string
}

// Headless is a Device that executes nothing and records every call. It backs
// the CLI when no GPU is present and is what the pipeline tests assert on. It
// also checks the bind discipline: a nested Bind, a stray Unbind, or a uniform
// upload on a disabled shader is recorded as a violation.
type Headless struct {
	width, height int
	state         RenderState
	clearColor    mgl32.Vec4

	bound  *HeadlessFramebuffer
	active *HeadlessShader

	commands   []Command
	violations []string
	writes     map[string]int

	white  *HeadlessTexture
	quad   *HeadlessMesh
	sphere *HeadlessMesh
	cube   *HeadlessMesh
}

func NewHeadless(width, height int) *Headless {
	h := &Headless{
		width:  width,
		height: height,
		state:  DefaultState,
		writes: make(map[string]int),
	}
	h.white = &HeadlessTexture{label: "white", width: 1, height: 1, format: FormatRGBA8}
	unit := [2]mgl32.Vec3{{-1, -1, -1}, {1, 1, 1}}
	h.quad = h.NewMesh("quad", [2]mgl32.Vec3{{-1, -1, 0}, {1, 1, 0}}, 6)
	h.sphere = h.NewMesh("sphere", unit, 2880)
	h.cube = h.NewMesh("cube", unit, 24)
	return h
}

// Resize changes the size reported by ViewportSize, as a window resize would.
func (h *Headless) Resize(width, height int) {
	h.width, h.height = width, height
}

func (h *Headless) record(c Command) {
	h.commands = append(h.commands, c)
}

func (h *Headless) violate(format string, args ...any) {
	h.violations = append(h.violations, fmt.Sprintf(format, args...))
}

func (h *Headless) target() string {
	if h.bound == nil {
		return screenTargetLabel
	}
	return h.bound.label
}

func (h *Headless) CreateFramebuffer(desc FramebufferDesc) (Framebuffer, error) {
	if desc.Width <= 0 || desc.Height <= 0 || desc.ColorAttachments < 0 {
		return nil, fmt.Errorf("%w: %q %dx%d", ErrInvalidTarget, desc.Label, desc.Width, desc.Height)
	}
	if desc.ColorAttachments == 0 && !desc.Depth {
		return nil, fmt.Errorf("%w: %q has no attachments", ErrInvalidTarget, desc.Label)
	}
	fb := &HeadlessFramebuffer{dev: h, label: desc.Label, width: desc.Width, height: desc.Height}
	for i := 0; i < desc.ColorAttachments; i++ {
		fb.colors = append(fb.colors, &HeadlessTexture{
			label:  fmt.Sprintf("%s/color%d", desc.Label, i),
			width:  desc.Width,
			height: desc.Height,
			format: desc.Format,
		})
	}
	if desc.Depth {
		fb.depth = &HeadlessTexture{
			label:  desc.Label + "/depth",
			width:  desc.Width,
			height: desc.Height,
			format: FormatDepth24,
		}
	}
	return fb, nil
}

// LoadShaderAtlas reads an atlas listing one shader per line as
// "name [vertex] [fragment]". Blank lines and lines starting with # are skipped.
func (h *Headless) LoadShaderAtlas(path string) (ShaderAtlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load shader atlas: %w", err)
	}
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, strings.Fields(line)[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load shader atlas: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("load shader atlas %s: %w", path, ErrEmptyAtlas)
	}
	return h.NewAtlas(names...), nil
}

func (h *Headless) NewAtlas(names ...string) *HeadlessAtlas {
	a := &HeadlessAtlas{shaders: make(map[string]*HeadlessShader, len(names))}
	for _, n := range names {
		a.shaders[n] = &HeadlessShader{dev: h, name: n, uniforms: make(map[string]any)}
	}
	return a
}

func (h *Headless) NewMesh(label string, bounds [2]mgl32.Vec3, vertexCount int) *HeadlessMesh {
	return &HeadlessMesh{dev: h, label: label, bounds: bounds, vertices: vertexCount}
}

func (h *Headless) NewTexture(label string, width, height int, format Format) *HeadlessTexture {
	return &HeadlessTexture{label: label, width: width, height: height, format: format}
}

func (h *Headless) WhiteTexture() Texture { return h.white }
func (h *Headless) FullscreenQuad() Mesh  { return h.quad }
func (h *Headless) UnitSphere() Mesh      { return h.sphere }
func (h *Headless) UnitCube() Mesh        { return h.cube }

func (h *Headless) ViewportSize() (int, int) { return h.width, h.height }

func (h *Headless) SetViewport(x, y, width, height int) {
	h.record(Command{Op: OpViewport, Target: h.target(), Value: [4]int{x, y, width, height}})
}

func (h *Headless) SetClearColor(c mgl32.Vec4) { h.clearColor = c }

func (h *Headless) Clear(color, depth bool) {
	h.record(Command{Op: OpClear, Target: h.target(), Value: ClearValue{color, depth, h.clearColor}, State: h.state})
	if h.bound == nil {
		return
	}
	if color && h.state.ColorWrite {
		for _, t := range h.bound.colors {
			h.writes[t.label]++
		}
	}
	if depth && h.bound.depth != nil && h.state.DepthWrite {
		h.writes[h.bound.depth.label]++
	}
}

func (h *Headless) SetBlend(m BlendMode)      { h.state.Blend = m }
func (h *Headless) SetDepthTest(enabled bool) { h.state.DepthTest = enabled }
func (h *Headless) SetDepthFunc(f DepthFunc)  { h.state.DepthFunc = f }
func (h *Headless) SetDepthWrite(enabled bool) {
	h.state.DepthWrite = enabled
}
func (h *Headless) SetCull(m CullMode)         { h.state.Cull = m }
func (h *Headless) SetColorWrite(enabled bool) { h.state.ColorWrite = enabled }
func (h *Headless) SetWireframe(enabled bool)  { h.state.Wireframe = enabled }

func (h *Headless) BlitDepth(src, dst Framebuffer) {
	s, _ := src.(*HeadlessFramebuffer)
	d, _ := dst.(*HeadlessFramebuffer)
	if s == nil || d == nil || s.depth == nil || d.depth == nil {
		h.violate("blit depth between framebuffers without depth")
		return
	}
	h.writes[d.depth.label]++
	h.record(Command{Op: OpBlitDepth, Source: s.label, Target: d.label})
}

// State returns the current fixed-function state.
func (h *Headless) State() RenderState { return h.state }

// Bound returns the label of the bound framebuffer, or "" for the screen.
func (h *Headless) Bound() string {
	if h.bound == nil {
		return ""
	}
	return h.bound.label
}

func (h *Headless) Commands() []Command { return h.commands }

func (h *Headless) Violations() []string { return h.violations }

// Writes counts the draws and clears that modified the texture with the given label.
func (h *Headless) Writes(textureLabel string) int { return h.writes[textureLabel] }

// Reset drops recorded commands and violations, keeping device state.
func (h *Headless) Reset() {
	h.commands = nil
	h.violations = nil
	clear(h.writes)
}

func (h *Headless) Filter(keep func(c Command) bool) []Command {
	var out []Command
	for _, c := range h.commands {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns the draw calls issued by the named shader, or all draws when
// shader is empty.
func (h *Headless) Draws(shader string) []Command {
	return h.Filter(func(c Command) bool {
		return c.Op == OpDraw && (shader == "" || c.Shader == shader)
	})
}

// DrawsOn returns the draw calls issued while target was bound.
func (h *Headless) DrawsOn(target string) []Command {
	return h.Filter(func(c Command) bool { return c.Op == OpDraw && c.Target == target })
}

// Uniforms returns every value uploaded to the named uniform of shader, in order.
func (h *Headless) Uniforms(shader, name string) []any {
	var out []any
	for _, c := range h.commands {
		if c.Op == OpUniform && c.Shader == shader && c.Name == name {
			out = append(out, c.Value)
		}
	}
	return out
}

// TextureBinds returns the texture binds issued through shader; all shaders when empty.
func (h *Headless) TextureBinds(shader string) []Command {
	return h.Filter(func(c Command) bool {
		return c.Op == OpTexture && (shader == "" || c.Shader == shader)
	})
}

type HeadlessTexture struct {
	label         string
	width, height int
	format        Format
}

func (t *HeadlessTexture) Label() string  { return t.label }
func (t *HeadlessTexture) Width() int     { return t.width }
func (t *HeadlessTexture) Height() int    { return t.height }
func (t *HeadlessTexture) Format() Format { return t.format }

type HeadlessFramebuffer struct {
	dev           *Headless
	label         string
	width, height int
	colors        []*HeadlessTexture
	depth         *HeadlessTexture
	released      bool
}

func (f *HeadlessFramebuffer) Label() string   { return f.label }
func (f *HeadlessFramebuffer) Width() int      { return f.width }
func (f *HeadlessFramebuffer) Height() int     { return f.height }
func (f *HeadlessFramebuffer) ColorCount() int { return len(f.colors) }

func (f *HeadlessFramebuffer) Color(i int) Texture {
	if i < 0 || i >= len(f.colors) {
		return nil
	}
	return f.colors[i]
}

func (f *HeadlessFramebuffer) Depth() Texture {
	if f.depth == nil {
		return nil
	}
	return f.depth
}

func (f *HeadlessFramebuffer) Bind() {
	h := f.dev
	if f.released {
		h.violate("bind of released framebuffer %s", f.label)
	}
	if h.bound != nil {
		h.violate("bind %s while %s is bound", f.label, h.bound.label)
	}
	h.bound = f
	h.record(Command{Op: OpBind, Target: f.label})
}

func (f *HeadlessFramebuffer) Unbind() {
	h := f.dev
	if h.bound != f {
		h.violate("unbind %s while %s is bound", f.label, h.target())
	}
	h.bound = nil
	h.record(Command{Op: OpUnbind, Target: f.label})
}

func (f *HeadlessFramebuffer) ToViewport() {
	h := f.dev
	if h.bound != nil {
		h.violate("present %s while %s is bound", f.label, h.bound.label)
	}
	h.record(Command{Op: OpToViewport, Source: f.label, Target: screenTargetLabel})
}

func (f *HeadlessFramebuffer) Release() { f.released = true }

func (f *HeadlessFramebuffer) Released() bool { return f.released }

type HeadlessMesh struct {
	dev      *Headless
	label    string
	bounds   [2]mgl32.Vec3
	vertices int
}

func (m *HeadlessMesh) Label() string         { return m.label }
func (m *HeadlessMesh) Bounds() [2]mgl32.Vec3 { return m.bounds }
func (m *HeadlessMesh) VertexCount() int      { return m.vertices }

func (m *HeadlessMesh) Render(p Primitive) {
	h := m.dev
	shader := ""
	if h.active != nil {
		shader = h.active.name
	} else {
		h.violate("draw %s without an enabled shader", m.label)
	}
	h.record(Command{Op: OpDraw, Target: h.target(), Shader: shader, Mesh: m.label, Primitive: p, State: h.state})
	if h.bound == nil {
		return
	}
	if h.state.ColorWrite {
		for _, t := range h.bound.colors {
			h.writes[t.label]++
		}
	}
	if h.bound.depth != nil && h.state.DepthTest && h.state.DepthWrite {
		h.writes[h.bound.depth.label]++
	}
}

type HeadlessAtlas struct {
	shaders map[string]*HeadlessShader
}

func (a *HeadlessAtlas) Get(name string) Shader {
	if s, ok := a.shaders[name]; ok {
		return s
	}
	return nil
}

// Shader is Get without the interface conversion, for tests.
func (a *HeadlessAtlas) Shader(name string) *HeadlessShader { return a.shaders[name] }

// Remove drops a shader, simulating one that failed to compile.
func (a *HeadlessAtlas) Remove(name string) { delete(a.shaders, name) }

type HeadlessShader struct {
	dev      *Headless
	name     string
	uniforms map[string]any
}

func (s *HeadlessShader) Name() string { return s.name }

func (s *HeadlessShader) Enable() {
	h := s.dev
	if h.active != nil && h.active != s {
		h.violate("enable %s while %s is enabled", s.name, h.active.name)
	}
	h.active = s
	h.record(Command{Op: OpEnable, Target: h.target(), Shader: s.name})
}

func (s *HeadlessShader) Disable() {
	h := s.dev
	if h.active == s {
		h.active = nil
	}
	h.record(Command{Op: OpDisable, Target: h.target(), Shader: s.name})
}

func (s *HeadlessShader) SetUniform(name string, value any) {
	h := s.dev
	if h.active != s {
		h.violate("uniform %s on disabled shader %s", name, s.name)
	}
	value = cloneValue(value)
	s.uniforms[name] = value
	h.record(Command{Op: OpUniform, Target: h.target(), Shader: s.name, Name: name, Value: value})
}

func (s *HeadlessShader) SetTexture(name string, tex Texture, slot int) {
	h := s.dev
	if h.active != s {
		h.violate("texture %s on disabled shader %s", name, s.name)
	}
	label := ""
	if tex != nil {
		label = tex.Label()
	}
	s.uniforms[name] = label
	h.record(Command{Op: OpTexture, Target: h.target(), Shader: s.name, Name: name, Value: label, Slot: slot})
}

// Uniform returns the last value uploaded to name.
func (s *HeadlessShader) Uniform(name string) any { return s.uniforms[name] }

// cloneValue copies slice uniforms so reused upload buffers do not rewrite
// the recorded history.
func cloneValue(v any) any {
	switch t := v.(type) {
	case []float32:
		return slices.Clone(t)
	case []int32:
		return slices.Clone(t)
	case []int:
		return slices.Clone(t)
	case []mgl32.Vec2:
		return slices.Clone(t)
	case []mgl32.Vec3:
		return slices.Clone(t)
	case []mgl32.Vec4:
		return slices.Clone(t)
	case []mgl32.Mat4:
		return slices.Clone(t)
	}
	return v
}
