package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/systems"
)

// planeSlack lets a trace aimed exactly at a portal corner still land on it.
const planeSlack = 0.5

// LineTrace traces from..to through the level. With throughPortals set,
// portal planes are ignored and walls are open inside portal holes. Without
// it, a portal plane approached from the front stops the trace when it is
// nearer than any wall.
func (g *Game) LineTrace(from, to mgl64.Vec3, throughPortals bool) (systems.Hit, bool) {
	lh, found := g.level.Trace(from, to, throughPortals)
	hit := systems.Hit{Hit: lh}
	if throughPortals {
		return hit, found
	}

	best := math.Inf(1)
	if found {
		best = lh.Fraction
	}
	dir := to.Sub(from)
	for _, p := range g.manager.Portals() {
		t, ok := portalPlaneHit(p, from, dir)
		if !ok || t >= best {
			continue
		}
		best = t
		hit = systems.Hit{
			Hit: level.Hit{
				Location: from.Add(dir.Mul(t)),
				Normal:   p.Transform.Forward(),
				Fraction: t,
			},
			Portal: p,
		}
		found = true
	}
	return hit, found
}

// portalPlaneHit intersects the segment from..from+dir with p's visible
// plane. Only front-facing approaches count.
func portalPlaneHit(p *portal.Portal, from, dir mgl64.Vec3) (float64, bool) {
	n := p.Transform.Forward()
	denom := dir.Dot(n)
	if denom >= 0 {
		return 0, false
	}
	t := p.Transform.Location.Sub(from).Dot(n) / denom
	if t < 0 || t > 1 {
		return 0, false
	}
	local := p.Transform.InverseTransformPosition(from.Add(dir.Mul(t)))
	if math.Abs(local.Y()) > p.MeshHalf.X()+planeSlack || math.Abs(local.Z()) > p.MeshHalf.Y()+planeSlack {
		return 0, false
	}
	return t, true
}

// CreateTarget allocates a capture target.
func (g *Game) CreateTarget(w, h int) portal.Target {
	return g.capturer.CreateTarget(w, h)
}

// ReleaseTarget frees a capture target.
func (g *Game) ReleaseTarget(t portal.Target) {
	g.capturer.ReleaseTarget(t)
}

// Capture renders a portal view into a target.
func (g *Game) Capture(into portal.Target, view portal.CaptureView) {
	g.capturer.Capture(into, view)
}

// ViewTransform moves the camera to the player's current eye and returns
// it, so a view read mid-frame already carries this frame's roll correction.
func (g *Game) ViewTransform() geom.Transform {
	g.followPlayer()
	return g.camera.Eye
}

// ViewProjection returns the player's view-projection matrix.
func (g *Game) ViewProjection() mgl64.Mat4 {
	return g.camera.ViewProjection()
}

// Projection returns the player's projection matrix.
func (g *Game) Projection() mgl64.Mat4 {
	return g.camera.Projection()
}

// Viewport returns the player's viewport size in pixels.
func (g *Game) Viewport() (w, h float64) {
	return g.camera.ViewportW, g.camera.ViewportH
}
