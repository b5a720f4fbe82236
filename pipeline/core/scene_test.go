package core

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformComposition(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{10, 20, 30}
	tr.Rotation = mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0})
	tr.Scale = mgl32.Vec3{2, 2, 2}

	identity := tr.Matrix().Mul4(tr.Inverse())
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			if !closeEnough(identity.At(i, j), want, 1e-4) {
				t.Errorf("M*inv(M) [%d,%d] = %f", i, j, identity.At(i, j))
			}
		}
	}
}

func TestNodeWorldMatrix(t *testing.T) {
	root := NewNode("root")
	root.Transform = TransformAt(10, 0, 0)
	root.Transform.Scale = mgl32.Vec3{2, 2, 2}
	child := root.AddChild(NewNode("child"))
	child.Transform = TransformAt(1, 0, 0)

	assert.True(t, Translation(child.WorldMatrix()).ApproxEqual(mgl32.Vec3{12, 0, 0}))

	var visited []string
	var childWorld mgl32.Mat4
	root.Walk(mgl32.Ident4(), func(n *Node, world mgl32.Mat4) bool {
		visited = append(visited, n.Name)
		if n == child {
			childWorld = world
		}
		return true
	})
	assert.Equal(t, []string{"root", "child"}, visited)
	assert.True(t, childWorld.ApproxEqual(child.WorldMatrix()))

	visited = visited[:0]
	root.Walk(mgl32.Ident4(), func(n *Node, _ mgl32.Mat4) bool {
		visited = append(visited, n.Name)
		return false
	})
	assert.Equal(t, []string{"root"}, visited, "returning false prunes the subtree")
}

func TestNodeReparent(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	c := a.AddChild(NewNode("c"))
	b.AddChild(c)

	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Same(t, b, c.Parent())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLightEntity(t *testing.T) {
	l := NewLight("spot", LightSpot)
	l.Root.Transform = TransformAt(0, 5, 0)
	l.Root.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0})

	assert.True(t, l.Position().ApproxEqual(mgl32.Vec3{0, 5, 0}))
	assert.True(t, l.Direction().ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5), "facing down, got %v", l.Direction())

	cones := l.ConeCos()
	assert.InDelta(t, 0.9397, cones.X(), 1e-3)
	assert.InDelta(t, 0.8660, cones.Y(), 1e-3)
	assert.Equal(t, "spot", l.Type.String())
}

func TestSceneEntities(t *testing.T) {
	s := NewScene()
	p := NewPrefab("box")
	l := NewLight("sun", LightDirectional)
	s.Add(p)
	s.Add(l)
	s.Remove(p)

	require.Len(t, s.Entities, 1)
	switch e := s.Entities[0].(type) {
	case *LightEntity:
		assert.Equal(t, "sun", e.Base().Name)
	default:
		t.Fatalf("unexpected entity %T", e)
	}
	assert.True(t, l.Base().Visible)
}

func TestMaterialBind(t *testing.T) {
	dev := gpu.NewHeadless(8, 8)
	atlas := dev.NewAtlas("phong")
	sh := atlas.Shader("phong")
	opacity := dev.NewTexture("leaf_alpha", 4, 4, gpu.FormatR8)

	m := NewMaterial("leaf")
	m.AlphaMode = AlphaMask
	m.AlphaCutoff = 0.3
	m.TwoSided = true
	m.Textures[ChannelOpacity] = opacity

	sh.Enable()
	m.Bind(dev, sh)
	sh.Disable()

	assert.Equal(t, gpu.CullNone, dev.State().Cull)
	assert.Equal(t, gpu.BlendNone, dev.State().Blend)
	assert.Equal(t, "white", sh.Uniform("u_texture"), "albedo falls back to white")
	assert.Equal(t, float32(0.3), sh.Uniform("u_alpha_cutoff"))
	assert.Equal(t, true, sh.Uniform("u_has_opacity"))
	assert.Equal(t, false, sh.Uniform("u_has_normal_map"))
	assert.Same(t, opacity, m.AlphaMaskTexture())
	assert.Empty(t, dev.Violations())

	glass := NewMaterial("glass")
	glass.AlphaMode = AlphaBlend
	sh.Enable()
	glass.Bind(dev, sh)
	sh.Disable()
	assert.Equal(t, gpu.BlendAlpha, dev.State().Blend)
	assert.Equal(t, gpu.CullBack, dev.State().Cull)
	assert.Equal(t, float32(0.001), sh.Uniform("u_alpha_cutoff"))
	assert.Nil(t, glass.AlphaMaskTexture())
	assert.True(t, DefaultMaterial().Color.ApproxEqual(mgl32.Vec4{1, 1, 1, 1}))
}

func TestCameraLookAtDegenerateUp(t *testing.T) {
	cam := NewCamera()
	cam.LookAt(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			v := cam.View.At(i, j)
			assert.False(t, math32.IsNaN(v), "view matrix has NaN at %d,%d", i, j)
		}
	}
	assert.True(t, cam.BoxInFrustum([2]mgl32.Vec3{{-1, -1, -1}, {1, 1, 1}}))
}

func TestLookRotation(t *testing.T) {
	dirs := []mgl32.Vec3{
		{0, 0, -1},
		{1, 0, 0},
		{0, -1, 0},
		{3, -4, 2},
	}
	for _, d := range dirs {
		q := LookRotation(d, mgl32.Vec3{0, 1, 0})
		got := Forward(q.Mat4())
		assert.True(t, got.ApproxEqualThreshold(d.Normalize(), 1e-4), "dir %v: forward %v", d, got)
	}

	tr := TransformAt(0, 10, 10)
	tr.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.True(t, Forward(tr.Matrix()).ApproxEqualThreshold(mgl32.Vec3{0, -1, -1}.Normalize(), 1e-4))
}
