// Package systems contains the ECS systems and the portal manager that drive
// the portal world each frame.
package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/portal"
)

// Hit is a line trace result. Portal is set when the trace stopped on a
// portal plane rather than level geometry.
type Hit struct {
	level.Hit
	Portal *portal.Portal
}

// Tracer runs synchronous line traces against the scene.
type Tracer interface {
	LineTrace(from, to mgl64.Vec3, throughPortals bool) (Hit, bool)
}

// Spawner creates and removes entities on behalf of the manager.
type Spawner interface {
	// SpawnClone creates a visual-only copy of source at the given transform.
	SpawnClone(source ecs.Entity, at geom.Transform) (ecs.Entity, bool)
	// SpawnAttachment copies the attached entity source onto parent.
	SpawnAttachment(source, parent ecs.Entity) (ecs.Entity, bool)
	// SpawnProjectile fires a regular projectile agent.
	SpawnProjectile(at geom.Transform, velocity mgl64.Vec3) ecs.Entity
	// SpawnBullet fires a portal bullet.
	SpawnBullet(at geom.Transform, velocity mgl64.Vec3, orange bool, shooterRight mgl64.Vec3) ecs.Entity
	// Despawn removes an entity and anything attached to it.
	Despawn(e ecs.Entity)
}

// ViewSource supplies the player's camera.
type ViewSource interface {
	ViewTransform() geom.Transform
	ViewProjection() mgl64.Mat4
	Projection() mgl64.Mat4
	Viewport() (w, h float64)
}

// Host bundles the engine collaborators the manager depends on.
type Host interface {
	Tracer
	Spawner
	portal.Capturer
	ViewSource
}
