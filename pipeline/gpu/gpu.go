package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Primitive int

const (
	Triangles Primitive = iota
	Lines
	Points
)

type BlendMode int

const (
	BlendNone BlendMode = iota
	// BlendAlpha is src*alpha + dst*(1-alpha).
	BlendAlpha
	// BlendAdditive is src + dst, used to accumulate light contributions.
	BlendAdditive
)

type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
	DepthEqual
	DepthGreater
	DepthGreaterEqual
	DepthAlways
)

type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

type Format int

const (
	FormatRGBA8 Format = iota
	FormatRGBA16F
	FormatRGBA32F
	FormatRG16F
	FormatR8
	FormatDepth24
)

type Texture interface {
	Label() string
	Width() int
	Height() int
	Format() Format
}

// Shader is a compiled program fetched from a ShaderAtlas. Uniform values are
// scalars (bool, int, float32), mgl32 vectors/matrices, or slices of those for
// array uniforms.
type Shader interface {
	Name() string
	Enable()
	Disable()
	SetUniform(name string, value any)
	SetTexture(name string, tex Texture, slot int)
}

type ShaderAtlas interface {
	// Get returns nil when the atlas has no shader with that name.
	Get(name string) Shader
}

type Mesh interface {
	Label() string
	// Bounds is the local space AABB as {min, max}.
	Bounds() [2]mgl32.Vec3
	VertexCount() int
	Render(p Primitive)
}

type FramebufferDesc struct {
	Label            string
	Width, Height    int
	ColorAttachments int
	Format           Format
	Depth            bool
}

// Framebuffer is an off-screen render target. Binds must be paired with
// Unbind before another framebuffer is bound.
type Framebuffer interface {
	Label() string
	Width() int
	Height() int
	Bind()
	Unbind()
	ColorCount() int
	// Color returns nil for an out of range index.
	Color(i int) Texture
	// Depth returns nil when the framebuffer has no depth attachment.
	Depth() Texture
	// ToViewport copies color attachment 0 to the screen.
	ToViewport()
	Release()
}

type Device interface {
	CreateFramebuffer(desc FramebufferDesc) (Framebuffer, error)
	LoadShaderAtlas(path string) (ShaderAtlas, error)

	WhiteTexture() Texture
	FullscreenQuad() Mesh
	UnitSphere() Mesh
	UnitCube() Mesh

	ViewportSize() (width, height int)
	SetViewport(x, y, width, height int)
	SetClearColor(c mgl32.Vec4)
	Clear(color, depth bool)

	SetBlend(m BlendMode)
	SetDepthTest(enabled bool)
	SetDepthFunc(f DepthFunc)
	SetDepthWrite(enabled bool)
	SetCull(m CullMode)
	SetColorWrite(enabled bool)
	SetWireframe(enabled bool)

	// BlitDepth copies the depth attachment of src into dst.
	BlitDepth(src, dst Framebuffer)
}

// RenderState is the fixed-function state a pass runs with.
type RenderState struct {
	Blend      BlendMode
	DepthTest  bool
	DepthFunc  DepthFunc
	DepthWrite bool
	Cull       CullMode
	ColorWrite bool
	Wireframe  bool
}

var DefaultState = RenderState{
	Blend:      BlendNone,
	DepthTest:  true,
	DepthFunc:  DepthLess,
	DepthWrite: true,
	Cull:       CullBack,
	ColorWrite: true,
}

// FullscreenState is used for screen-space resolves that read the G-buffer.
var FullscreenState = RenderState{
	Blend:      BlendNone,
	DepthTest:  false,
	DepthFunc:  DepthLess,
	DepthWrite: false,
	Cull:       CullNone,
	ColorWrite: true,
}

func Apply(dev Device, s RenderState) {
	dev.SetBlend(s.Blend)
	dev.SetDepthTest(s.DepthTest)
	dev.SetDepthFunc(s.DepthFunc)
	dev.SetDepthWrite(s.DepthWrite)
	dev.SetCull(s.Cull)
	dev.SetColorWrite(s.ColorWrite)
	dev.SetWireframe(s.Wireframe)
}
