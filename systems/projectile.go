package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
)

// ProjectileSystem ages regular projectiles and removes the ones that ran
// out of life or hit something. Clones are left to the portal manager.
type ProjectileSystem struct {
	filter ecs.Filter3[components.Projectile, components.Body, components.Agent]
	host   Host
	dead   []ecs.Entity
}

// NewProjectileSystem creates a projectile system despawning through host.
func NewProjectileSystem(w *ecs.World, host Host) *ProjectileSystem {
	return &ProjectileSystem{
		filter: *ecs.NewFilter3[components.Projectile, components.Body, components.Agent](w),
		host:   host,
	}
}

// Update ages projectiles by dt.
func (s *ProjectileSystem) Update(dt float64) {
	s.dead = s.dead[:0]

	query := s.filter.Query()
	for query.Next() {
		proj, body, agent := query.Get()
		if agent.Cloned {
			continue
		}
		proj.Life -= dt
		if proj.Life <= 0 || body.Blocked {
			s.dead = append(s.dead, query.Entity())
		}
	}

	for _, e := range s.dead {
		s.host.Despawn(e)
	}
}
