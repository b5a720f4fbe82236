package render

import (
	"math/rand/v2"
	"testing"

	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraverse_CullsOutsideFrustum(t *testing.T) {
	fx := newFixture(t)
	inside := fx.box("inside", 0, 0, 0, nil)
	fx.box("behind", 0, 0, 50, nil)
	fx.box("far left", -500, 0, 0, nil)
	hidden := fx.box("hidden", 1, 0, 0, nil)
	hidden.Visible = false
	sun := fx.light("sun", core.LightDirectional, mgl32.Vec3{0, 0, 200}, mgl32.Vec3{0, 0, 300})

	Traverse(fx.scene, fx.cam, &fx.list, fx.motion)

	require.Len(t, fx.list.Commands, 1)
	cmd := fx.list.Commands[0]
	assert.Same(t, inside.Root, cmd.Node)
	assert.Same(t, core.DefaultMaterial(), cmd.Material, "nil material falls back to the default")
	assert.InDelta(t, 10, cmd.Distance, 1e-4)
	assert.Equal(t, 2, fx.list.Culled)
	assert.Equal(t, []*core.LightEntity{sun}, fx.list.Lights, "lights are never culled")
	assert.Equal(t, 3, fx.motion.Len(), "culled nodes keep their history, hidden entities do not")
}

func TestTraverse_NestedWorldTransforms(t *testing.T) {
	fx := newFixture(t)
	parent := core.NewPrefab("arm")
	parent.Root.Transform = core.TransformAt(1, 0, 0)
	child := parent.Root.AddChild(core.NewNode("hand"))
	child.Transform = core.TransformAt(0, 2, 0)
	child.Mesh = fx.mesh
	fx.scene.Add(parent)

	Traverse(fx.scene, fx.cam, &fx.list, nil)

	require.Len(t, fx.list.Commands, 1)
	cmd := fx.list.Commands[0]
	assert.True(t, core.Translation(cmd.Model).ApproxEqual(mgl32.Vec3{1, 2, 0}))
	assert.True(t, cmd.Bounds[0].ApproxEqual(mgl32.Vec3{0.5, 1.5, -0.5}))
	assert.True(t, cmd.Bounds[1].ApproxEqual(mgl32.Vec3{1.5, 2.5, 0.5}))
	assert.Same(t, parent, cmd.Entity)
}

// Every emitted command intersects the frustum and every culled node does not.
func TestTraverse_CullingProperty(t *testing.T) {
	fx := newFixture(t)
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		fx.box("b", r.Float32()*200-100, r.Float32()*200-100, r.Float32()*200-100, nil)
	}

	Traverse(fx.scene, fx.cam, &fx.list, nil)

	emitted := map[*core.Node]bool{}
	for _, c := range fx.list.Commands {
		assert.True(t, core.AABBInFrustum(c.Bounds, fx.cam.Planes()))
		emitted[c.Node] = true
	}
	for _, e := range fx.scene.Entities {
		root := e.Base().Root
		if emitted[root] {
			continue
		}
		world := core.TransformAABB(root.WorldMatrix(), fx.mesh.Bounds())
		assert.False(t, fx.cam.BoxInFrustum(world))
	}
	assert.Equal(t, 200, len(fx.list.Commands)+fx.list.Culled)
}

func TestDrawList_Partition(t *testing.T) {
	fx := newFixture(t)
	glass := glassMaterial()
	fx.box("near glass", 0, 0, 5, glass)
	fx.box("far glass", 0, 0, -20, glass)
	fx.box("mid", 0, 0, 0, nil)
	fx.box("near", 0, 0, 4, nil)
	fx.box("far", 0, 0, -30, nil)

	Traverse(fx.scene, fx.cam, &fx.list, nil)
	fx.list.Partition()

	names := func(cmds []DrawCommand) []string {
		var out []string
		for _, c := range cmds {
			out = append(out, c.Node.Name)
		}
		return out
	}
	assert.Equal(t, []string{"near", "mid", "far"}, names(fx.list.Opaque))
	assert.Equal(t, []string{"far glass", "near glass"}, names(fx.list.Transparent))

	fx.list.Reset()
	assert.Empty(t, fx.list.Commands)
	assert.Empty(t, fx.list.Opaque)
	assert.Zero(t, fx.list.Culled)
}

func TestSortMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	cmds := make([]DrawCommand, 100)
	for i := range cmds {
		cmds[i].Distance = r.Float32() * 100
	}

	SortFrontToBack(cmds)
	for i := 1; i < len(cmds); i++ {
		assert.LessOrEqual(t, cmds[i-1].Distance, cmds[i].Distance)
	}
	SortBackToFront(cmds)
	for i := 1; i < len(cmds); i++ {
		assert.GreaterOrEqual(t, cmds[i-1].Distance, cmds[i].Distance)
	}
}

func TestTraverse_SkipsMeshesWithoutVertices(t *testing.T) {
	fx := newFixture(t)
	fx.box("box", 0, 0, 0, nil)
	empty := fx.box("empty", 1, 0, 0, nil)
	empty.Root.Mesh = fx.dev.NewMesh("empty", unitBox, 0)

	Traverse(fx.scene, fx.cam, &fx.list, fx.motion)

	require.Len(t, fx.list.Commands, 1)
	assert.Equal(t, "box", fx.list.Commands[0].Mesh.Label())
	assert.Zero(t, fx.list.Culled)
}
