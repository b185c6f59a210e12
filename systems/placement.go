package systems

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/surface"
)

// ErrPlacementRejected is returned when a portal footprint cannot be fitted
// onto a surface.
var ErrPlacementRejected = errors.New("portal placement rejected")

// fitTolerance absorbs float drift in the final bounds check.
const fitTolerance = 1e-6

// Placement is an accepted portal footprint.
type Placement struct {
	ID           int
	Center       r2.Vec
	Displacement r2.Vec // how far the center moved from where it was requested
}

// PlacePortal adds a portal footprint to s and moves it inside the surface
// bounds [origin-extent, origin+extent] and clear of the rectangles already
// there. Overlap resolution gets one retry. A rejected footprint is removed
// from s again.
func PlacePortal(s *surface.Surface, lo, hi, center r2.Vec, rotation geom.Rotator, origin, extent r2.Vec) (Placement, error) {
	if s == nil {
		return Placement{}, fmt.Errorf("no surface: %w", ErrPlacementRejected)
	}

	id := s.AddRectangle(lo, hi, center, rotation)
	boxMin := r2.Sub(origin, extent)
	boxMax := r2.Add(origin, extent)

	s.FitToBounds(id, boxMin, boxMax)
	if !s.ResolveOverlap(id) && !s.ResolveOverlap(id) {
		s.RemoveRectangle(id)
		return Placement{}, fmt.Errorf("surface %s: overlap unresolved: %w", s.Name, ErrPlacementRejected)
	}

	r, _ := s.Rectangle(id)
	if r.Box.Min.X < boxMin.X-fitTolerance || r.Box.Max.X > boxMax.X+fitTolerance ||
		r.Box.Min.Y < boxMin.Y-fitTolerance || r.Box.Max.Y > boxMax.Y+fitTolerance {
		s.RemoveRectangle(id)
		return Placement{}, fmt.Errorf("surface %s: footprint leaves bounds: %w", s.Name, ErrPlacementRejected)
	}

	return Placement{
		ID:           id,
		Center:       r.Center,
		Displacement: r2.Sub(r.Center, center),
	}, nil
}
