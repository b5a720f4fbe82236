package core

import (
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Node is one element of an entity's transform tree. A node optionally
// carries a mesh and the material it is drawn with.
type Node struct {
	ID        uuid.UUID
	Name      string
	Transform Transform
	Mesh      gpu.Mesh
	Material  *Material

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{ID: uuid.New(), Name: name, Transform: NewTransform()}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// AddChild reparents child under n.
func (n *Node) AddChild(child *Node) *Node {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// WorldMatrix walks up to the root: World = ParentWorld * Local.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// Walk visits n and its descendants depth-first, passing each node's world
// matrix. Returning false from fn skips that node's children.
func (n *Node) Walk(parentWorld mgl32.Mat4, fn func(node *Node, world mgl32.Mat4) bool) {
	world := parentWorld.Mul4(n.Transform.Matrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.Walk(world, fn)
	}
}
