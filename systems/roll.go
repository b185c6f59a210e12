package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
)

// correctRoll levels the player after a teleport left them tilted. The look
// rotation loses its roll, the body its roll and pitch. Once both have
// settled the body follows the controller again.
func (m *PortalManager) correctRoll(dt float64) {
	if !m.hasPlayer || !m.world.Alive(m.player) {
		return
	}
	c := m.controllerMap.Get(m.player)
	pose := m.poseMap.Get(m.player)
	roll := m.cfg.Roll

	lookTarget := geom.RotatorFromQuat(c.ControlRotation)
	lookTarget.Roll = 0
	lookQuat := lookTarget.Quat()
	c.ControlRotation = slerpShortest(c.ControlRotation, lookQuat, roll.ControllerRate*dt)
	c.CameraRotation = c.ControlRotation

	bodyTarget := geom.RotatorFromQuat(pose.Rotation)
	bodyTarget.Roll = 0
	bodyTarget.Pitch = 0
	bodyQuat := bodyTarget.Quat()
	pose.Rotation = slerpShortest(pose.Rotation, bodyQuat, roll.BodyRate*dt)

	if geom.QuatEqual(c.ControlRotation, lookQuat, roll.Tolerance) && geom.QuatEqual(pose.Rotation, bodyQuat, roll.Tolerance) {
		c.UseControllerYaw = true
		c.UseControllerRoll = true
	}
}

// slerpShortest interpolates from a toward b by alpha along the shorter arc.
func slerpShortest(a, b mgl64.Quat, alpha float64) mgl64.Quat {
	alpha = mgl64.Clamp(alpha, 0, 1)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, alpha).Normalize()
}
