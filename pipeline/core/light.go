package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type LightType int32

const (
	LightPoint       LightType = 0
	LightDirectional LightType = 1
	LightSpot        LightType = 2
)

func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	case LightSpot:
		return "spot"
	}
	return "unknown"
}

// LightEntity is a light placed by its root node; it faces the node's -Z axis.
type LightEntity struct {
	EntityBase

	Type      LightType
	Color     mgl32.Vec3
	Intensity float32
	// ConeInner and ConeOuter are spot half-angles in degrees.
	ConeInner   float32
	ConeOuter   float32
	CastShadows bool
	Near        float32
	// MaxDistance is the attenuation range of point and spot lights.
	MaxDistance float32

	// ViewProjection is written by the shadow pass for lights that received a
	// shadow map this frame.
	ViewProjection mgl32.Mat4
}

func NewLight(name string, typ LightType) *LightEntity {
	return &LightEntity{
		EntityBase:  newEntityBase(name),
		Type:        typ,
		Color:       mgl32.Vec3{1, 1, 1},
		Intensity:   1,
		ConeInner:   20,
		ConeOuter:   30,
		Near:        0.1,
		MaxDistance: 10,
	}
}

func (*LightEntity) entity() {}

func (l *LightEntity) Position() mgl32.Vec3 {
	return Translation(l.Root.WorldMatrix())
}

func (l *LightEntity) Direction() mgl32.Vec3 {
	return Forward(l.Root.WorldMatrix())
}

// ConeCos returns the cosines of the inner and outer half-angles.
func (l *LightEntity) ConeCos() mgl32.Vec2 {
	return mgl32.Vec2{
		math32.Cos(mgl32.DegToRad(l.ConeInner)),
		math32.Cos(mgl32.DegToRad(l.ConeOuter)),
	}
}
