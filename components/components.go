// Package components defines ECS components for the portal world.
package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/geom"
)

// Kind selects the clone and teleport strategy for an agent.
type Kind uint8

const (
	KindPlayer     Kind = iota // First-person player with controller and animation state
	KindProjectile             // Fired projectile, converted velocity only
	KindProp                   // Generic physics prop
	KindWeapon                 // Held item attached to a player
)

// Pose is an entity's world transform.
type Pose struct {
	geom.Transform
}

// Velocity is an entity's linear velocity in world units per second.
type Velocity struct {
	mgl64.Vec3
}

// Body holds collision properties for kinematic movement.
type Body struct {
	Radius   float64
	Collides bool   // false for visual-only clones
	Gravity  bool   // props fall, projectiles fly straight
	Profile  string // collision profile name
	Grounded bool
	Blocked  bool // hit something during the last physics step
}

// Projectile is a regular fired projectile.
type Projectile struct {
	Life float64 // seconds remaining
}

// Bullet is a portal-spawning projectile. It is not a teleport agent.
type Bullet struct {
	Orange bool
	Life   float64    // seconds remaining
	Right  mgl64.Vec3 // shooter's right vector at fire time
}

// Attachment marks an entity carried by a parent, such as a held weapon.
type Attachment struct {
	Parent ecs.Entity
	Offset mgl64.Vec3 // parent-local offset
}

// Attachments lists the entities carried by an entity.
type Attachments struct {
	Entities []ecs.Entity
}
