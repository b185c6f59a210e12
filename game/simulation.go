package game

import (
	"github.com/pthm-cable/portals/systems"
	"github.com/pthm-cable/portals/telemetry"
)

// Step runs one simulation tick. The portal manager's two phases bracket
// every other system: PostPhysics right after the physics step, PostUpdate
// last. The camera follows the player after roll correction, so captures
// and the drawn frame see the same eye.
func (g *Game) Step() {
	dt := g.cfg.Physics.DT
	g.tick++
	g.collector.SetTick(g.tick)

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.fireScheduledShots()
	g.controller.Update()

	g.perfCollector.StartPhase(telemetry.PhaseWeapons)
	g.weapons.Update()

	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Update(dt)
	g.projectiles.Update(dt)
	g.attachments.Update()

	g.perfCollector.StartPhase(telemetry.PhaseBullets)
	g.bullets.Update(dt)

	g.perfCollector.StartPhase(telemetry.PhasePostPhysics)
	g.manager.PostPhysics()

	g.perfCollector.StartPhase(telemetry.PhasePostUpdate)
	g.manager.PostUpdate(dt)
	g.followPlayer()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.drainEvents()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// followPlayer moves the camera to the player's eye. Without a player the
// camera stays where it is.
func (g *Game) followPlayer() {
	player, ok := g.manager.Player()
	if !ok || !g.world.Alive(player) {
		return
	}
	pose := g.poseMap.Get(player)
	ctrl := g.ctrlMap.Get(player)
	g.camera.Follow(systems.EyeTransform(pose.Transform, ctrl.CameraRotation, g.cfg.Player.EyeHeight))
}
