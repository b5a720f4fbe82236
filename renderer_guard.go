package lumen

import (
	"strings"
)

// PathGuard remembers the last resolved plan so path changes and ignored
// flags are reported once, not every frame.
type PathGuard struct {
	log     Logger
	last    PathPlan
	ignored string
	primed  bool
}

func NewPathGuard(log Logger) *PathGuard {
	return &PathGuard{log: OrNop(log)}
}

// Resolve resolves s and logs on transitions. It reports whether the plan
// differs from the previous call.
func (g *PathGuard) Resolve(s Settings) (PathPlan, bool) {
	plan, ignored := ResolvePath(s)
	changed := !g.primed || plan != g.last
	if changed {
		if g.primed {
			g.log.Infof("Render path changed: %s -> %s", g.last.Path, plan.Path)
		} else {
			g.log.Infof("Render path selected: %s", plan.Path)
		}
	}
	joined := strings.Join(ignored, ",")
	if joined != g.ignored && joined != "" {
		g.log.Warnf("Flags ignored by %s path: %s", plan.Path, joined)
	}
	g.ignored = joined
	g.last = plan
	g.primed = true
	return plan, changed
}
