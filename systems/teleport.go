package systems

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/convert"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/telemetry"
)

// teleport moves e from p to its partner, converting pose, velocity and the
// player's look rotation through the pair.
func (m *PortalManager) teleport(e ecs.Entity, p *portal.Portal) {
	ref, target := p.Transform, p.Linked.Transform

	pose := m.poseMap.Get(e)
	pose.Transform = convert.Transform(pose.Transform, ref, target)

	speed := 0.0
	if m.velMap.Has(e) {
		v := m.velMap.Get(e)
		v.Vec3 = convert.Velocity(v.Vec3, ref, target)
		speed = v.Len()
	}

	agent := m.agentMap.Get(e)
	if agent.PlayerControlled && m.controllerMap.Has(e) {
		c := m.controllerMap.Get(e)
		c.ControlRotation = convertRotation(c.ControlRotation, ref, target)
		c.CameraRotation = convertRotation(c.CameraRotation, ref, target)
		c.UseControllerYaw = false
		c.UseControllerRoll = false
	}

	m.syncAttachments(e)

	m.collector.Record(telemetry.NewTeleportEvent(0, e.ID(), agent.Kind, int(p.ID), int(p.Linked.ID), pose.Location, speed))
	slog.Debug("teleported", "entity", e.ID(), "kind", agent.Kind, "from", p.ID, "to", p.Linked.ID)

	if m.hasPlayer && e == m.player {
		m.report.HasTeleported = true
		m.teleportLatch = max(m.cfg.HUD.TeleportLatch, 1)
	}
}

func convertRotation(q mgl64.Quat, ref, target geom.Transform) mgl64.Quat {
	return convert.Rotation(geom.NewTransform(mgl64.Vec3{}, q), ref, target)
}
