package core

import (
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

type Scene struct {
	Entities        []Entity
	AmbientLight    mgl32.Vec3
	BackgroundColor mgl32.Vec3
	// Skybox is an optional environment texture drawn behind all geometry.
	Skybox gpu.Texture
}

func NewScene() *Scene {
	return &Scene{
		AmbientLight:    mgl32.Vec3{0.1, 0.1, 0.1},
		BackgroundColor: mgl32.Vec3{0.1, 0.1, 0.12},
	}
}

func (s *Scene) Add(e Entity) {
	s.Entities = append(s.Entities, e)
}

func (s *Scene) Remove(e Entity) {
	for i, o := range s.Entities {
		if o == e {
			s.Entities = append(s.Entities[:i], s.Entities[i+1:]...)
			return
		}
	}
}
