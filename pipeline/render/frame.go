package render

import (
	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/pipeline/core"
	"github.com/gekko3d/lumen/pipeline/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is the state threaded through every stage of one rendered frame.
// Settings is a snapshot; stages never read live configuration.
type Frame struct {
	Scene    *core.Scene
	Camera   *core.Camera
	Settings lumen.Settings
	Plan     lumen.PathPlan
	List     *DrawList
	Shadows  ShadowLookup
	Motion   *MotionRegistry
	// PrevViewProjection is the camera view-projection of the last frame,
	// equal to the current one on the first frame.
	PrevViewProjection mgl32.Mat4
}

func (f *Frame) ambient() mgl32.Vec3 {
	if f.Scene == nil {
		return mgl32.Vec3{}
	}
	return f.Scene.AmbientLight
}

func (f *Frame) background() mgl32.Vec4 {
	if f.Scene == nil {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	return f.Scene.BackgroundColor.Vec4(1)
}

// geometryState is the default state with the frame's wireframe toggle.
func (f *Frame) geometryState() gpu.RenderState {
	s := gpu.DefaultState
	s.Wireframe = f.Settings.Wireframe
	return s
}
