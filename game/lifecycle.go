package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
)

// spawnScenario creates the level's agents. A player is added at the
// configured start when the level does not place one.
func (g *Game) spawnScenario() {
	hasPlayer := false
	if spec := g.level.Spec; spec != nil {
		for _, a := range spec.Agents {
			e, ok := g.spawnAgent(a)
			if !ok {
				continue
			}
			if g.agentMap.Get(e).Kind == components.KindPlayer {
				hasPlayer = true
			}
		}
	}

	if !hasPlayer {
		start := g.cfg.Player
		g.NewPlayer(geom.NewTransform(start.Start, geom.YawQuat(start.StartYaw)))
	}
}

// spawnAgent creates one scenario agent.
func (g *Game) spawnAgent(a level.AgentSpec) (ecs.Entity, bool) {
	kind, ok := components.ParseKind(a.Kind)
	if !ok {
		slog.Warn("skipping agent of unknown kind", "name", a.Name, "kind", a.Kind)
		return ecs.Entity{}, false
	}

	at := geom.NewTransform(a.Location, a.Rotation.Quat())
	switch kind {
	case components.KindPlayer:
		return g.NewPlayer(at), true
	case components.KindProp:
		return g.NewProp(at, a.Velocity, !a.Static), true
	case components.KindProjectile:
		return g.SpawnProjectile(at, a.Velocity), true
	default:
		slog.Warn("agent kind cannot be spawned directly", "name", a.Name, "kind", kind)
		return ecs.Entity{}, false
	}
}

// scenarioShots returns the level's scripted portal shots.
func (g *Game) scenarioShots() []level.ShotSpec {
	if g.level.Spec == nil {
		return nil
	}
	return g.level.Spec.Shots
}

// fireScheduledShots fires every scripted shot due at the current tick.
// Shots are assumed to be listed in tick order.
func (g *Game) fireScheduledShots() {
	shots := g.scenarioShots()
	for g.nextShot < len(shots) && shots[g.nextShot].Tick <= int(g.tick) {
		s := shots[g.nextShot]
		g.nextShot++

		aim := geom.NewTransform(s.From, s.Aim.Quat())
		g.SpawnBullet(aim, aim.Forward().Mul(g.cfg.Bullet.Speed), s.Orange, aim.Right())
		slog.Debug("scripted shot", "tick", g.tick, "orange", s.Orange, "from", s.From)
	}
}
