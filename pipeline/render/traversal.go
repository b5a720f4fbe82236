package render

import (
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Traverse fills list with the draw commands and lights of scene as seen from
// cam. list is reset first. Mesh nodes whose world bounds fall outside the
// frustum are dropped, as are meshes without vertices; lights are never
// culled. Every drawable mesh node of a visible entity is sampled into
// motion, culled or not, so its history stays continuous when it comes into
// view. motion may be nil.
func Traverse(scene *core.Scene, cam *core.Camera, list *DrawList, motion *MotionRegistry) {
	list.Reset()
	if scene == nil || cam == nil {
		return
	}

	for _, ent := range scene.Entities {
		base := ent.Base()
		if !base.Visible || base.Root == nil {
			continue
		}
		switch e := ent.(type) {
		case *core.PrefabEntity:
			traverseNodes(e, cam, list, motion)
		case *core.LightEntity:
			list.Lights = append(list.Lights, e)
		}
	}
}

func traverseNodes(ent *core.PrefabEntity, cam *core.Camera, list *DrawList, motion *MotionRegistry) {
	ent.Root.Walk(mgl32.Ident4(), func(node *core.Node, world mgl32.Mat4) bool {
		if node.Mesh == nil || node.Mesh.VertexCount() == 0 {
			return true
		}
		if motion != nil {
			motion.Track(node.ID, world)
		}

		bounds := core.TransformAABB(world, node.Mesh.Bounds())
		if !cam.BoxInFrustum(bounds) {
			list.Culled++
			return true
		}

		mat := node.Material
		if mat == nil {
			mat = core.DefaultMaterial()
		}
		list.Commands = append(list.Commands, DrawCommand{
			Mesh:     node.Mesh,
			Material: mat,
			Model:    world,
			Bounds:   bounds,
			Node:     node,
			Entity:   ent,
			Distance: cam.Eye.Sub(core.Translation(world)).Len(),
		})
		return true
	})
}
