package systems

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/telemetry"
)

// faceNormalMin is how closely a hit normal must match a wall's face normal
// for the hit to count as landing on the face.
const faceNormalMin = 0.99

// BulletSystem moves portal bullets and turns their wall hits into portals.
type BulletSystem struct {
	filter    ecs.Filter3[components.Pose, components.Velocity, components.Bullet]
	level     *level.Level
	manager   *PortalManager
	host      Host
	cfg       *config.Config
	collector *telemetry.Collector

	hits    []bulletHit
	expired []ecs.Entity
}

type bulletHit struct {
	entity ecs.Entity
	hit    level.Hit
	bullet components.Bullet
}

// NewBulletSystem creates a bullet system placing portals through m.
func NewBulletSystem(w *ecs.World, lvl *level.Level, m *PortalManager, host Host, cfg *config.Config) *BulletSystem {
	return &BulletSystem{
		filter:  *ecs.NewFilter3[components.Pose, components.Velocity, components.Bullet](w),
		level:   lvl,
		manager: m,
		host:    host,
		cfg:     cfg,
	}
}

// SetCollector attaches a telemetry collector.
func (s *BulletSystem) SetCollector(c *telemetry.Collector) {
	s.collector = c
}

// SetConfig swaps the configuration, used on hot reload.
func (s *BulletSystem) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Update advances every bullet by dt. A bullet is removed when it hits
// anything or runs out of lifetime.
func (s *BulletSystem) Update(dt float64) {
	s.hits = s.hits[:0]
	s.expired = s.expired[:0]

	query := s.filter.Query()
	for query.Next() {
		pose, vel, b := query.Get()
		b.Life -= dt

		from := pose.Location
		to := from.Add(vel.Mul(dt))
		if hit, ok := s.level.Trace(from, to, false); ok {
			s.hits = append(s.hits, bulletHit{entity: query.Entity(), hit: hit, bullet: *b})
			continue
		}
		pose.Location = to
		if b.Life <= 0 {
			s.expired = append(s.expired, query.Entity())
		}
	}

	// Portal creation and removal change the world, so they wait until the
	// query is done.
	for _, h := range s.hits {
		s.land(h)
		s.host.Despawn(h.entity)
	}
	for _, e := range s.expired {
		s.host.Despawn(e)
	}
}

// land places a portal where a bullet hit, if the wall accepts one.
func (s *BulletSystem) land(h bulletHit) {
	wall := h.hit.Wall
	if wall == nil {
		slog.Error("bullet hit has no surface", "at", h.hit.Location)
		return
	}
	if wall.Surface == nil || h.hit.Normal.Dot(wall.Normal()) < faceNormalMin {
		slog.Debug("bullet hit non-portal geometry", "wall", wall.Name)
		return
	}

	orange := h.bullet.Orange
	s.manager.DestroyPortal(orange)

	rotation, rect := portalFrame(wall, h.bullet.Right)
	local := wall.Local(h.hit.Location)
	lo, hi := footprint(local, rect, s.cfg.Derived.PortalHalfSize)

	placed, err := PlacePortal(wall.Surface, lo, hi, local, rect, r2.Vec{}, wall.FaceExtent())
	if err != nil {
		slog.Info("portal placement rejected", "wall", wall.Name, "orange", orange, "error", err)
		s.collector.Record(telemetry.NewPlacementRejectedEvent(0, orange, h.hit.Location))
		return
	}

	shift := wall.Face.Rotation.Rotate(mgl64.Vec3{placed.Displacement.X, placed.Displacement.Y, 0})
	at := h.hit.Location.Add(shift).Add(wall.Normal().Mul(s.cfg.Bullet.SurfaceOffset))
	s.manager.CreatePortal(at, rotation, orange, wall.Surface, placed.ID)
}

// portalFrame builds the placement rotation for a portal on wall: forward
// along the shooter's right flattened onto the face, up into the face. It
// also returns that rotation relative to the face, used for the footprint.
func portalFrame(wall *level.Wall, shooterRight mgl64.Vec3) (mgl64.Quat, geom.Rotator) {
	n := wall.Normal()
	w := shooterRight.Sub(n.Mul(n.Dot(shooterRight)))
	if w.Len() < 1e-6 {
		w = wall.Face.Forward()
	}
	w = w.Normalize()

	rotation := geom.FromAxes(w, n.Mul(-1))
	local := wall.Face.Rotation.Inverse().Mul(rotation)
	return rotation, geom.RotatorFromQuat(local)
}

// footprint returns the face-local bounding box of the portal rectangle
// centered at center and rotated by rot.
func footprint(center r2.Vec, rot geom.Rotator, half mgl64.Vec2) (lo, hi r2.Vec) {
	lo = r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi = r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			c := rot.RotateVector(mgl64.Vec3{sx * half.X(), sy * half.Y(), 0})
			p := r2.Vec{X: center.X + c.X(), Y: center.Y + c.Y()}
			lo = r2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
			hi = r2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
		}
	}
	return lo, hi
}
