package core

import (
	"github.com/google/uuid"
)

// Entity is a closed set of scene entity kinds: *PrefabEntity and
// *LightEntity. Match on it with a type switch.
type Entity interface {
	Base() *EntityBase
	entity()
}

type EntityBase struct {
	ID      uuid.UUID
	Name    string
	Visible bool
	Root    *Node
}

func newEntityBase(name string) EntityBase {
	return EntityBase{ID: uuid.New(), Name: name, Visible: true, Root: NewNode(name)}
}

func (b *EntityBase) Base() *EntityBase { return b }

// PrefabEntity is renderable geometry: a node tree carrying meshes.
type PrefabEntity struct {
	EntityBase
}

func NewPrefab(name string) *PrefabEntity {
	return &PrefabEntity{EntityBase: newEntityBase(name)}
}

func (*PrefabEntity) entity() {}
