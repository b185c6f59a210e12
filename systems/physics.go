package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/level"
)

const (
	slideIterations = 3
	contactSkin     = 0.01 // distance kept from a surface after a hit
	groundNormalZ   = 0.7  // a contact normal steeper than this counts as ground
)

// PhysicsSystem moves bodies by their velocity and slides them along the
// level geometry they run into. Bodies using the crossing profile pass
// through the holes portals cut in their walls.
type PhysicsSystem struct {
	filter ecs.Filter3[components.Pose, components.Velocity, components.Body]
	level  *level.Level
	cfg    *config.Config
}

// NewPhysicsSystem creates a physics system for lvl.
func NewPhysicsSystem(w *ecs.World, lvl *level.Level, cfg *config.Config) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter3[components.Pose, components.Velocity, components.Body](w),
		level:  lvl,
		cfg:    cfg,
	}
}

// SetConfig swaps the configuration, used on hot reload.
func (s *PhysicsSystem) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Update advances every body by dt.
func (s *PhysicsSystem) Update(dt float64) {
	gravity := s.cfg.Physics.Gravity
	crossing := s.cfg.Collision.AgentProfile

	query := s.filter.Query()
	for query.Next() {
		pose, vel, body := query.Get()

		if body.Gravity {
			vel.Vec3 = vel.Add(gravity.Mul(dt))
		}
		body.Blocked = false

		move := vel.Mul(dt)
		if !body.Collides {
			pose.Location = pose.Location.Add(move)
			continue
		}

		body.Grounded = false
		pose.Location = s.slide(pose.Location, move, &vel.Vec3, body, body.Profile == crossing)
	}
}

// slide moves a sphere from pos by move, stopping at contacts and sliding
// the rest of the move along each contact plane.
func (s *PhysicsSystem) slide(pos, move mgl64.Vec3, vel *mgl64.Vec3, body *components.Body, throughPortals bool) mgl64.Vec3 {
	for i := 0; i < slideIterations && move.Len() > 1e-9; i++ {
		hit, ok := s.level.Sweep(pos, pos.Add(move), body.Radius, throughPortals)
		if !ok {
			return pos.Add(move)
		}
		n := hit.Normal

		// Already touching: only let the body leave the surface.
		if hit.Fraction <= 0 && move.Dot(n) >= 0 {
			return pos.Add(move)
		}

		body.Blocked = true
		if n.Z() > groundNormalZ {
			body.Grounded = true
		}

		if hit.Fraction > 0 {
			pos = hit.Location.Add(n.Mul(contactSkin))
		}
		rest := move.Mul(1 - hit.Fraction)
		move = rest.Sub(n.Mul(rest.Dot(n)))
		if vn := vel.Dot(n); vn < 0 {
			*vel = vel.Sub(n.Mul(vn))
		}
	}
	return pos
}
