package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/convert"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/telemetry"
)

// cloneStrategy copies the kind-specific state from a source onto its clone.
// spawn runs once after the clone is created, update on every frame it lives
// (including the first). The clone's pose is already set when either runs.
type cloneStrategy struct {
	spawn  func(m *PortalManager, src, clone ecs.Entity, ref, target geom.Transform)
	update func(m *PortalManager, src, clone ecs.Entity, ref, target geom.Transform)
}

var cloneStrategies = map[components.Kind]cloneStrategy{
	components.KindPlayer: {
		spawn:  spawnPlayerClone,
		update: updatePlayerClone,
	},
	components.KindProjectile: {
		spawn:  spawnProjectileClone,
		update: copyVelocity,
	},
	components.KindProp: {
		spawn:  copyVelocity,
		update: copyVelocity,
	},
}

// updateClones creates, updates or tears down the clone of every tracked
// agent behind every linked portal according to its status.
func (m *PortalManager) updateClones() {
	portals := m.linked()
	for _, e := range m.agents {
		if !m.world.Alive(e) {
			slog.Warn("tracked agent is gone", "entity", e.ID())
			m.destroyClonesOf(e)
			continue
		}
		for _, p := range portals {
			key := CloneKey{Agent: e, Portal: p.ID}
			if m.agentMap.Get(e).StatusAt(p.ID) {
				m.cloneAt(key, p)
			} else {
				m.destroyClone(key)
			}
		}
	}
}

// cloneAt creates the clone for key if needed and brings it in step with
// its source.
func (m *PortalManager) cloneAt(key CloneKey, p *portal.Portal) {
	src := key.Agent
	kind := m.agentMap.Get(src).Kind
	strategy, ok := cloneStrategies[kind]
	if !ok {
		slog.Warn("no clone strategy", "entity", src.ID(), "kind", kind)
		return
	}

	ref, target := p.Transform, p.Linked.Transform
	at := convert.Transform(m.poseMap.Get(src).Transform, ref, target)

	clone, exists := m.clones[key]
	if exists && !m.world.Alive(clone) {
		slog.Warn("clone is gone, respawning", "entity", src.ID(), "portal", p.ID)
		delete(m.clones, key)
		exists = false
	}
	if !exists {
		c, ok := m.host.SpawnClone(src, at)
		if !ok {
			slog.Warn("clone spawn failed", "entity", src.ID(), "portal", p.ID)
			return
		}
		clone = c
		m.clones[key] = clone
		strategy.spawn(m, src, clone, ref, target)
		m.collector.Record(telemetry.NewCloneSpawnEvent(0, src.ID(), kind, int(p.ID), clone.ID()))
	}

	m.poseMap.Get(clone).Transform = at
	strategy.update(m, src, clone, ref, target)
	m.syncAttachments(clone)
	m.setClipPlane(clone, m.agentMap.Get(clone), target)
}

// destroyClonesOf tears down every clone of agent. A removed agent never
// comes back, so its clones would otherwise stay frozen in place.
func (m *PortalManager) destroyClonesOf(agent ecs.Entity) {
	var keys []CloneKey
	for key := range m.clones {
		if key.Agent == agent {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		m.destroyClone(key)
	}
}

// destroyClone removes the clone for key with everything attached to it.
func (m *PortalManager) destroyClone(key CloneKey) {
	clone, ok := m.clones[key]
	if !ok {
		return
	}
	if m.world.Alive(clone) {
		if m.attachmentsMap.Has(clone) {
			atts := append([]ecs.Entity(nil), m.attachmentsMap.Get(clone).Entities...)
			for _, a := range atts {
				m.host.Despawn(a)
			}
		}
		m.host.Despawn(clone)
	}
	delete(m.clones, key)
	m.collector.Record(telemetry.NewCloneDestroyEvent(0, key.Agent.ID(), int(key.Portal), clone.ID()))
}

func copyVelocity(m *PortalManager, src, clone ecs.Entity, ref, target geom.Transform) {
	if !m.velMap.Has(src) || !m.velMap.Has(clone) {
		return
	}
	m.velMap.Get(clone).Vec3 = convert.Velocity(m.velMap.Get(src).Vec3, ref, target)
}

func spawnProjectileClone(m *PortalManager, src, clone ecs.Entity, ref, target geom.Transform) {
	copyVelocity(m, src, clone, ref, target)
	if m.bodyMap.Has(clone) {
		m.bodyMap.Get(clone).Collides = false
	}
}

func spawnPlayerClone(m *PortalManager, src, clone ecs.Entity, ref, target geom.Transform) {
	if m.animMap.Has(src) && m.animMap.Has(clone) {
		s := *m.animMap.Get(src)
		c := m.animMap.Get(clone)
		c.IsMoving = s.IsMoving
		c.IsInAir = s.IsInAir
		c.HasRifle = s.HasRifle
		c.TransitionDown = s.TransitionDown
		c.TransitionUp = s.TransitionUp
		c.StartPosition = s.OutPosition
		c.OverrideBools = true
		c.UpdateBools = true
	}

	// Spawning attachments moves entities between archetypes, so the
	// source list is copied first.
	var atts []ecs.Entity
	if m.attachmentsMap.Has(src) {
		atts = append(atts, m.attachmentsMap.Get(src).Entities...)
	}
	for _, a := range atts {
		if !m.world.Alive(a) {
			continue
		}
		if _, ok := m.host.SpawnAttachment(a, clone); !ok {
			slog.Warn("attachment clone failed", "entity", src.ID(), "attachment", a.ID())
		}
	}
}

func updatePlayerClone(m *PortalManager, src, clone ecs.Entity, ref, target geom.Transform) {
	firing := false
	if m.animMap.Has(src) && m.animMap.Has(clone) {
		s := *m.animMap.Get(src)
		c := m.animMap.Get(clone)
		c.IsMoving = s.IsMoving
		c.IsInAir = s.IsInAir
		c.HasRifle = s.HasRifle
		c.OverrideBools = false
		firing = s.Fire
	}
	copyVelocity(m, src, clone, ref, target)

	if m.controllerMap.Has(src) && m.controllerMap.Has(clone) {
		cam := m.controllerMap.Get(src).CameraRotation
		m.controllerMap.Get(clone).CameraRotation = convertRotation(cam, ref, target)
	}

	if !firing {
		return
	}
	for _, a := range m.attached(clone) {
		if m.weaponMap.Has(a) {
			m.weaponMap.Get(a).PlayFireAnimation(true)
		}
	}
}
