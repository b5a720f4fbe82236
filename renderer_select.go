package lumen

// RenderPath identifies the strategy used for opaque geometry.
type RenderPath int

const (
	PathForwardMultipass RenderPath = iota
	PathForwardSinglePass
	PathDeferred
)

func (p RenderPath) String() string {
	switch p {
	case PathForwardMultipass:
		return "forward-multipass"
	case PathForwardSinglePass:
		return "forward-singlepass"
	case PathDeferred:
		return "deferred"
	}
	return "unknown"
}

func (p RenderPath) Forward() bool { return p != PathDeferred }

// PathPlan is the per-frame decision derived from a Settings snapshot. Stages
// read the plan instead of re-deriving it from raw flags.
type PathPlan struct {
	Path RenderPath

	// Deferred only.
	LightVolumes bool
	SSAO         bool
	SSAOPlus     bool
	// SSAOView presents the AO buffer instead of a lit image.
	SSAOView bool
	HDR      bool

	// CameraBlur and ObjectBlur are exclusive; ObjectBlur wins.
	CameraBlur bool
	ObjectBlur bool

	// TransparentMultipass selects the forward sub-mode used for blended
	// geometry. Deferred frames always use the single-pass shader.
	TransparentMultipass bool
}

func (p PathPlan) MotionBlur() bool { return p.CameraBlur || p.ObjectBlur }

// ResolvePath enforces mutual exclusivity between render paths. It returns
// the plan and the names of flags that were set but have no effect under it.
func ResolvePath(s Settings) (PathPlan, []string) {
	var plan PathPlan
	var ignored []string

	deferred := s.Deferred || s.LightVolumes
	switch {
	case deferred:
		plan.Path = PathDeferred
		if s.Multipass {
			ignored = append(ignored, "multipass")
		}
	case s.Multipass:
		plan.Path = PathForwardMultipass
	default:
		plan.Path = PathForwardSinglePass
	}

	if deferred {
		plan.LightVolumes = s.LightVolumes
		plan.SSAO = s.SSAO.Enabled
		plan.SSAOPlus = s.SSAO.Enabled && s.SSAO.Hemisphere
		plan.SSAOView = s.SSAO.Enabled && !s.SSAO.ResolveLighting
		plan.HDR = s.HDR.Enabled && !plan.SSAOView
		if s.HDR.Enabled && plan.SSAOView {
			ignored = append(ignored, "hdr")
		}
	} else {
		if s.SSAO.Enabled {
			ignored = append(ignored, "ssao")
		}
		if s.HDR.Enabled {
			ignored = append(ignored, "hdr")
		}
		plan.TransparentMultipass = plan.Path == PathForwardMultipass
	}

	plan.ObjectBlur = s.MotionBlur.Object
	plan.CameraBlur = s.MotionBlur.Camera && !s.MotionBlur.Object
	if s.MotionBlur.Camera && s.MotionBlur.Object {
		ignored = append(ignored, "camera_motion_blur")
	}
	if plan.SSAOView && plan.MotionBlur() {
		plan.CameraBlur, plan.ObjectBlur = false, false
		ignored = append(ignored, "motion_blur")
	}
	return plan, ignored
}
