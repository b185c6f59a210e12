package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/convert"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/telemetry"
)

// refreshCaptures re-renders the far side of every linked portal the player
// can plausibly see. Unlinked portals are blanked.
func (m *PortalManager) refreshCaptures() {
	view := m.host.ViewTransform()
	for i, p := range m.Portals() {
		if p.Linked == nil {
			p.NullCapture()
			continue
		}

		refresh, sight := m.shouldRefresh(p, view)
		if i == 0 {
			m.report.HasLineOfSight = sight
			m.report.CapturedLastFrame = refresh
		}
		if !refresh {
			continue
		}

		target := p.Linked.Transform
		location := convert.Location(view, p.Transform, target)
		rotation := convert.Rotation(view, p.Transform, target)
		p.UpdateCapture(location, rotation, m.host.ViewProjection(), target, m.host.Projection())
		m.collector.Record(telemetry.NewCaptureEvent(0, int(p.ID)))
	}
}

// shouldRefresh decides whether p's capture is worth updating from view. It
// also reports whether a corner of p was in line of sight.
func (m *PortalManager) shouldRefresh(p *portal.Portal, view geom.Transform) (refresh, sight bool) {
	if view.Location.Sub(p.Transform.Location).Len() <= m.cfg.Capture.RefreshDistance {
		return true, true
	}
	if !geom.InFront(p.Transform, view.Location) {
		return false, false
	}
	// Side probes turn about the camera's own up axis.
	probe := m.cfg.Capture.ProbeYaw
	for _, yaw := range []float64{probe, -probe} {
		probed := view.WithRotation(view.Rotation.Mul(geom.YawQuat(yaw)))
		if !geom.InFront(probed, p.Transform.Location) {
			return false, false
		}
	}
	sight = m.lineOfSight(p, view.Location)
	return sight, sight
}

// lineOfSight reports whether any corner of p is visible from eye. A trace
// that stops on p itself counts as visible.
func (m *PortalManager) lineOfSight(p *portal.Portal, eye mgl64.Vec3) bool {
	for _, corner := range p.Bounds() {
		hit, blocked := m.host.LineTrace(eye, corner, false)
		if !blocked || hit.Portal == p {
			return true
		}
	}
	return false
}
