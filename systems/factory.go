package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/geom"
)

// Body sizes for spawned entities.
const (
	PlayerRadius     = 40.0
	PropRadius       = 25.0
	ProjectileRadius = 5.0
)

// Weapon offsets in the player's frame: first-person model and world model.
var weaponOffsets = [2]mgl64.Vec3{{30, 15, 40}, {20, 25, 0}}

// Registrar tracks teleportable agents as they spawn and despawn.
type Registrar interface {
	Register(e ecs.Entity) bool
	Unregister(e ecs.Entity)
}

// Factory builds the entity layouts of the portal world and implements
// Spawner on top of an ECS world.
type Factory struct {
	world     *ecs.World
	cfg       *config.Config
	registrar Registrar

	players *ecs.Map7[
		components.Pose,
		components.Velocity,
		components.Body,
		components.Agent,
		components.Controller,
		components.Anim,
		components.Attachments,
	]
	weapons     *ecs.Map4[components.Pose, components.Agent, components.Weapon, components.Attachment]
	projectiles *ecs.Map5[components.Pose, components.Velocity, components.Body, components.Agent, components.Projectile]
	props       *ecs.Map4[components.Pose, components.Velocity, components.Body, components.Agent]
	bullets     *ecs.Map3[components.Pose, components.Velocity, components.Bullet]

	// Individual component mappers for lookups
	poseMap        *ecs.Map[components.Pose]
	velMap         *ecs.Map[components.Velocity]
	bodyMap        *ecs.Map[components.Body]
	agentMap       *ecs.Map[components.Agent]
	controllerMap  *ecs.Map[components.Controller]
	animMap        *ecs.Map[components.Anim]
	attachmentsMap *ecs.Map[components.Attachments]
	attachmentMap  *ecs.Map[components.Attachment]
	weaponMap      *ecs.Map[components.Weapon]
	projectileMap  *ecs.Map[components.Projectile]
}

// NewFactory creates a factory for w.
func NewFactory(w *ecs.World, cfg *config.Config) *Factory {
	return &Factory{
		world: w,
		cfg:   cfg,
		players: ecs.NewMap7[
			components.Pose,
			components.Velocity,
			components.Body,
			components.Agent,
			components.Controller,
			components.Anim,
			components.Attachments,
		](w),
		weapons:     ecs.NewMap4[components.Pose, components.Agent, components.Weapon, components.Attachment](w),
		projectiles: ecs.NewMap5[components.Pose, components.Velocity, components.Body, components.Agent, components.Projectile](w),
		props:       ecs.NewMap4[components.Pose, components.Velocity, components.Body, components.Agent](w),
		bullets:     ecs.NewMap3[components.Pose, components.Velocity, components.Bullet](w),

		poseMap:        ecs.NewMap[components.Pose](w),
		velMap:         ecs.NewMap[components.Velocity](w),
		bodyMap:        ecs.NewMap[components.Body](w),
		agentMap:       ecs.NewMap[components.Agent](w),
		controllerMap:  ecs.NewMap[components.Controller](w),
		animMap:        ecs.NewMap[components.Anim](w),
		attachmentsMap: ecs.NewMap[components.Attachments](w),
		attachmentMap:  ecs.NewMap[components.Attachment](w),
		weaponMap:      ecs.NewMap[components.Weapon](w),
		projectileMap:  ecs.NewMap[components.Projectile](w),
	}
}

// SetRegistrar sets who is told about spawned and despawned agents.
func (f *Factory) SetRegistrar(r Registrar) {
	f.registrar = r
}

func (f *Factory) register(e ecs.Entity) {
	if f.registrar != nil {
		f.registrar.Register(e)
	}
}

// NewPlayer spawns the player with its two weapons.
func (f *Factory) NewPlayer(at geom.Transform) ecs.Entity {
	pose := components.Pose{Transform: at}
	vel := components.Velocity{}
	body := components.Body{Radius: PlayerRadius, Collides: true, Gravity: true, Profile: f.cfg.Collision.DefaultProfile}
	agent := components.NewAgent(components.KindPlayer)
	ctrl := components.NewController(at.Rotation)
	anim := components.Anim{HasRifle: true}
	atts := components.Attachments{}

	e := f.players.NewEntity(&pose, &vel, &body, &agent, &ctrl, &anim, &atts)
	for _, off := range weaponOffsets {
		f.newWeapon(e, off, components.Weapon{}, false)
	}
	f.register(e)
	return e
}

// NewProp spawns a generic physics prop.
func (f *Factory) NewProp(at geom.Transform, velocity mgl64.Vec3, gravity bool) ecs.Entity {
	pose := components.Pose{Transform: at}
	vel := components.Velocity{Vec3: velocity}
	body := components.Body{Radius: PropRadius, Collides: true, Gravity: gravity, Profile: f.cfg.Collision.DefaultProfile}
	agent := components.NewAgent(components.KindProp)

	e := f.props.NewEntity(&pose, &vel, &body, &agent)
	f.register(e)
	return e
}

// SpawnProjectile fires a regular projectile agent.
func (f *Factory) SpawnProjectile(at geom.Transform, velocity mgl64.Vec3) ecs.Entity {
	pose := components.Pose{Transform: at}
	vel := components.Velocity{Vec3: velocity}
	body := components.Body{Radius: ProjectileRadius, Collides: true, Profile: f.cfg.Collision.DefaultProfile}
	agent := components.NewAgent(components.KindProjectile)
	proj := components.Projectile{Life: f.cfg.Weapon.ProjectileLife}

	e := f.projectiles.NewEntity(&pose, &vel, &body, &agent, &proj)
	f.register(e)
	return e
}

// SpawnBullet fires a portal bullet.
func (f *Factory) SpawnBullet(at geom.Transform, velocity mgl64.Vec3, orange bool, shooterRight mgl64.Vec3) ecs.Entity {
	pose := components.Pose{Transform: at}
	vel := components.Velocity{Vec3: velocity}
	b := components.Bullet{Orange: orange, Life: f.cfg.Bullet.Lifetime, Right: shooterRight}
	return f.bullets.NewEntity(&pose, &vel, &b)
}

// newWeapon creates a weapon attached to parent and records it there.
func (f *Factory) newWeapon(parent ecs.Entity, offset mgl64.Vec3, w components.Weapon, cloned bool) ecs.Entity {
	parentPose := *f.poseMap.Get(parent)
	pose := components.Pose{Transform: geom.NewTransform(parentPose.TransformPosition(offset), parentPose.Rotation)}
	agent := components.NewAgent(components.KindWeapon)
	agent.Attached = true
	agent.Cloned = cloned
	att := components.Attachment{Parent: parent, Offset: offset}

	e := f.weapons.NewEntity(&pose, &agent, &w, &att)
	atts := f.attachmentsMap.Get(parent)
	atts.Entities = append(atts.Entities, e)
	return e
}

// SpawnClone creates a visual-only copy of source. Clones never collide, are
// never registered and carry no attachments until the clone strategy adds them.
func (f *Factory) SpawnClone(source ecs.Entity, at geom.Transform) (ecs.Entity, bool) {
	if !f.world.Alive(source) || !f.agentMap.Has(source) {
		return ecs.Entity{}, false
	}
	kind := f.agentMap.Get(source).Kind

	pose := components.Pose{Transform: at}
	agent := components.NewAgent(kind)
	agent.Cloned = true
	agent.PlayerControlled = false

	var vel components.Velocity
	if f.velMap.Has(source) {
		vel = *f.velMap.Get(source)
	}
	var body components.Body
	if f.bodyMap.Has(source) {
		body = *f.bodyMap.Get(source)
	}
	body.Collides = false
	body.Gravity = false
	body.Blocked = false

	switch {
	case f.controllerMap.Has(source):
		ctrl := *f.controllerMap.Get(source)
		anim := *f.animMap.Get(source)
		atts := components.Attachments{}
		return f.players.NewEntity(&pose, &vel, &body, &agent, &ctrl, &anim, &atts), true
	case f.projectileMap.Has(source):
		proj := *f.projectileMap.Get(source)
		return f.projectiles.NewEntity(&pose, &vel, &body, &agent, &proj), true
	case f.velMap.Has(source) && f.bodyMap.Has(source):
		return f.props.NewEntity(&pose, &vel, &body, &agent), true
	}
	return ecs.Entity{}, false
}

// SpawnAttachment copies the attached entity source onto parent.
func (f *Factory) SpawnAttachment(source, parent ecs.Entity) (ecs.Entity, bool) {
	if !f.world.Alive(source) || !f.world.Alive(parent) {
		return ecs.Entity{}, false
	}
	if !f.weaponMap.Has(source) || !f.attachmentsMap.Has(parent) {
		return ecs.Entity{}, false
	}
	w := *f.weaponMap.Get(source)
	offset := f.attachmentMap.Get(source).Offset
	return f.newWeapon(parent, offset, w, true), true
}

// Despawn removes e and its attachments, unregistering it first.
func (f *Factory) Despawn(e ecs.Entity) {
	if !f.world.Alive(e) {
		return
	}
	if f.registrar != nil && f.agentMap.Has(e) {
		f.registrar.Unregister(e)
	}
	if f.attachmentsMap.Has(e) {
		atts := append([]ecs.Entity(nil), f.attachmentsMap.Get(e).Entities...)
		for _, a := range atts {
			if f.world.Alive(a) {
				f.world.RemoveEntity(a)
			}
		}
	}
	f.world.RemoveEntity(e)
}

// AttachmentsOf returns the entities carried by e.
func (f *Factory) AttachmentsOf(e ecs.Entity) []ecs.Entity {
	if !f.world.Alive(e) || !f.attachmentsMap.Has(e) {
		return nil
	}
	return f.attachmentsMap.Get(e).Entities
}
