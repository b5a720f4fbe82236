package render

import (
	"sort"

	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawCommand is one mesh instance selected for drawing this frame.
type DrawCommand struct {
	Mesh     gpu.Mesh
	Material *core.Material
	Model    mgl32.Mat4
	// Bounds is the world space AABB.
	Bounds   [2]mgl32.Vec3
	Node     *core.Node
	Entity   core.Entity
	Distance float32
}

// DrawList is the per-frame scratch output of traversal. The renderer owns
// one and Reset reuses its storage every frame.
type DrawList struct {
	Commands    []DrawCommand
	Lights      []*core.LightEntity
	Opaque      []DrawCommand
	Transparent []DrawCommand
	// Culled counts mesh nodes rejected by the frustum test.
	Culled int
}

func (l *DrawList) Reset() {
	l.Commands = l.Commands[:0]
	l.Lights = l.Lights[:0]
	l.Opaque = l.Opaque[:0]
	l.Transparent = l.Transparent[:0]
	l.Culled = 0
}

// Partition splits Commands by alpha mode, sorting opaque commands nearest
// first and transparent ones farthest first.
func (l *DrawList) Partition() {
	l.Opaque = l.Opaque[:0]
	l.Transparent = l.Transparent[:0]
	for _, c := range l.Commands {
		if c.Material.Blended() {
			l.Transparent = append(l.Transparent, c)
		} else {
			l.Opaque = append(l.Opaque, c)
		}
	}
	SortFrontToBack(l.Opaque)
	SortBackToFront(l.Transparent)
}

func SortFrontToBack(cmds []DrawCommand) {
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].Distance < cmds[j].Distance })
}

func SortBackToFront(cmds []DrawCommand) {
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].Distance > cmds[j].Distance })
}
