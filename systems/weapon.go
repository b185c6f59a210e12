package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/geom"
)

// EyeTransform returns the first-person camera frame of a body at pose
// looking along look.
func EyeTransform(pose geom.Transform, look mgl64.Quat, eyeHeight float64) geom.Transform {
	return geom.NewTransform(pose.Location.Add(mgl64.Vec3{0, 0, eyeHeight}), look)
}

// WeaponSystem plays queued fire animations and turns the player's fire
// requests into bullets and projectiles.
type WeaponSystem struct {
	players ecs.Filter4[components.Pose, components.Controller, components.Anim, components.Agent]
	weapons ecs.Filter1[components.Weapon]

	attachmentsMap *ecs.Map[components.Attachments]
	weaponMap      *ecs.Map[components.Weapon]

	host Host
	cfg  *config.Config

	requests []fireRequest
}

type fireRequest struct {
	player  ecs.Entity
	eye     geom.Transform
	fire    bool
	altFire bool
	toggle  bool
}

// NewWeaponSystem creates a weapon system spawning through host.
func NewWeaponSystem(w *ecs.World, host Host, cfg *config.Config) *WeaponSystem {
	return &WeaponSystem{
		players:        *ecs.NewFilter4[components.Pose, components.Controller, components.Anim, components.Agent](w),
		weapons:        *ecs.NewFilter1[components.Weapon](w),
		attachmentsMap: ecs.NewMap[components.Attachments](w),
		weaponMap:      ecs.NewMap[components.Weapon](w),
		host:           host,
		cfg:            cfg,
	}
}

// SetConfig swaps the configuration, used on hot reload.
func (s *WeaponSystem) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Update runs one frame. Fire animations queued last frame play first, for
// source and clone weapons alike, so both start together.
func (s *WeaponSystem) Update() {
	wq := s.weapons.Query()
	for wq.Next() {
		wq.Get().Tick(s.cfg.Weapon.FireDelay)
	}

	s.requests = s.requests[:0]
	pq := s.players.Query()
	for pq.Next() {
		pose, ctrl, anim, agent := pq.Get()
		anim.Fire = false
		if agent.Cloned {
			continue
		}
		if ctrl.Fire || ctrl.AltFire || ctrl.Toggle {
			s.requests = append(s.requests, fireRequest{
				player:  pq.Entity(),
				eye:     EyeTransform(pose.Transform, ctrl.ControlRotation, s.cfg.Player.EyeHeight),
				fire:    ctrl.Fire,
				altFire: ctrl.AltFire,
				toggle:  ctrl.Toggle,
			})
			if ctrl.Fire || ctrl.AltFire {
				anim.Fire = true
			}
		}
		ctrl.Fire, ctrl.AltFire, ctrl.Toggle = false, false, false
	}

	// Spawning changes the world, so requests run after the query.
	for _, r := range s.requests {
		if r.toggle {
			s.ToggleMode(r.player)
		}
		if r.altFire {
			s.FirePortal(r.player, r.eye, false)
		}
		if r.fire {
			if s.Mode(r.player) == components.ModePortal {
				s.FirePortal(r.player, r.eye, true)
			} else {
				s.Fire(r.player, r.eye)
			}
		}
	}
}

// Mode returns the weapon mode of the player's first weapon.
func (s *WeaponSystem) Mode(player ecs.Entity) components.WeaponMode {
	if ws := s.weaponsOf(player); len(ws) > 0 {
		return s.weaponMap.Get(ws[0]).Mode
	}
	return components.ModeProjectile
}

// ToggleMode switches every weapon the player carries between projectile
// and portal mode.
func (s *WeaponSystem) ToggleMode(player ecs.Entity) {
	for _, w := range s.weaponsOf(player) {
		wp := s.weaponMap.Get(w)
		if wp.Mode == components.ModePortal {
			wp.Mode = components.ModeProjectile
		} else {
			wp.Mode = components.ModePortal
		}
	}
}

// FirePortal shoots a portal bullet of the given colour from eye.
func (s *WeaponSystem) FirePortal(player ecs.Entity, eye geom.Transform, orange bool) ecs.Entity {
	at := eye.WithLocation(eye.TransformPosition(s.cfg.Bullet.SpawnOffset))
	b := s.host.SpawnBullet(at, eye.Forward().Mul(s.cfg.Bullet.Speed), orange, eye.Right())
	s.playFire(player)
	return b
}

// Fire shoots a regular projectile agent from eye.
func (s *WeaponSystem) Fire(player ecs.Entity, eye geom.Transform) ecs.Entity {
	at := eye.WithLocation(eye.TransformPosition(s.cfg.Weapon.MuzzleOffset))
	p := s.host.SpawnProjectile(at, eye.Forward().Mul(s.cfg.Weapon.ProjectileSpeed))
	s.playFire(player)
	return p
}

// playFire queues the fire animation on the player's weapons. It plays on
// the next update, together with any clone that picks up the fire flag.
func (s *WeaponSystem) playFire(player ecs.Entity) {
	for _, w := range s.weaponsOf(player) {
		s.weaponMap.Get(w).PlayFireAnimation(true)
	}
}

func (s *WeaponSystem) weaponsOf(player ecs.Entity) []ecs.Entity {
	if !s.attachmentsMap.Has(player) {
		return nil
	}
	var out []ecs.Entity
	for _, e := range s.attachmentsMap.Get(player).Entities {
		if s.weaponMap.Has(e) {
			out = append(out, e)
		}
	}
	return out
}
