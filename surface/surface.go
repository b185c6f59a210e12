// Package surface tracks the portal rectangles placed on one piece of level
// geometry and keeps them inside its bounds and apart from each other.
//
// Rectangles live in the surface's local 2D space (X and Y of the surface
// frame). Ids start at 1 and are never reused for the lifetime of a Surface.
package surface

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/geom"
)

// Rect is one portal footprint on a surface.
type Rect struct {
	Box      r2.Box // local min/max
	Center   r2.Vec
	Rotation geom.Rotator
}

// Width returns the X extent of the rectangle.
func (r Rect) Width() float64 { return r.Box.Max.X - r.Box.Min.X }

// Height returns the Y extent of the rectangle.
func (r Rect) Height() float64 { return r.Box.Max.Y - r.Box.Min.Y }

// Observer is notified synchronously when a surface's rectangle set changes
// in a way that invalidates collision built from it.
type Observer interface {
	RebuildCollision(s *Surface)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Surface)

// RebuildCollision calls f(s).
func (f ObserverFunc) RebuildCollision(s *Surface) { f(s) }

// Surface owns the rectangles placed on it.
type Surface struct {
	Name string

	rects     map[int]Rect
	lastID    int
	observers []Observer
}

// New creates an empty surface.
func New(name string) *Surface {
	return &Surface{
		Name:  name,
		rects: make(map[int]Rect),
	}
}

// Observe registers o for collision rebuild notifications.
func (s *Surface) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

// RebuildCollision notifies every observer.
func (s *Surface) RebuildCollision() {
	for _, o := range s.observers {
		o.RebuildCollision(s)
	}
}

// AddRectangle stores a new rectangle and returns its id.
func (s *Surface) AddRectangle(lo, hi, center r2.Vec, rotation geom.Rotator) int {
	s.lastID++
	s.rects[s.lastID] = Rect{
		Box:      r2.Box{Min: lo, Max: hi},
		Center:   center,
		Rotation: rotation,
	}
	return s.lastID
}

// Rectangle returns the rectangle stored under id.
func (s *Surface) Rectangle(id int) (Rect, bool) {
	r, ok := s.rects[id]
	return r, ok
}

// Len returns the number of rectangles on the surface.
func (s *Surface) Len() int {
	return len(s.rects)
}

// Each calls fn for every rectangle in id order.
func (s *Surface) Each(fn func(id int, r Rect)) {
	ids := make([]int, 0, len(s.rects))
	for id := range s.rects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(id, s.rects[id])
	}
}

// RemoveRectangle drops id and notifies observers. Unknown ids are ignored.
func (s *Surface) RemoveRectangle(id int) {
	if _, ok := s.rects[id]; !ok {
		return
	}
	delete(s.rects, id)
	s.RebuildCollision()
}

// FitToBounds slides rectangle id back inside [boxMin, boxMax] edge by edge.
// The rectangle keeps its size; if it is larger than the bounds the last
// edge checked on each axis wins.
func (s *Surface) FitToBounds(id int, boxMin, boxMax r2.Vec) {
	r, ok := s.rects[id]
	if !ok {
		return
	}

	if r.Box.Min.X < boxMin.X {
		r = r.shifted(r2.Vec{X: boxMin.X - r.Box.Min.X})
	}
	if r.Box.Max.X > boxMax.X {
		r = r.shifted(r2.Vec{X: boxMax.X - r.Box.Max.X})
	}
	if r.Box.Min.Y < boxMin.Y {
		r = r.shifted(r2.Vec{Y: boxMin.Y - r.Box.Min.Y})
	}
	if r.Box.Max.Y > boxMax.Y {
		r = r.shifted(r2.Vec{Y: boxMax.Y - r.Box.Max.Y})
	}

	s.rects[id] = r
}

// ResolveOverlap pushes rectangle id out of every other rectangle it overlaps
// on both axes, one axis per neighbour, in a single greedy pass.
// Returns true if nothing had to move.
func (s *Surface) ResolveOverlap(id int) bool {
	r, ok := s.rects[id]
	if !ok {
		return true
	}

	moved := false
	s.Each(func(other int, o Rect) {
		if other == id || !overlaps(r.Box, o.Box) {
			return
		}

		moveX := pushOut(r.Box.Min.X, r.Box.Max.X, o.Box.Min.X, o.Box.Max.X)
		moveY := pushOut(r.Box.Min.Y, r.Box.Max.Y, o.Box.Min.Y, o.Box.Max.Y)

		if math.Abs(moveX) < math.Abs(moveY) {
			r = r.shifted(r2.Vec{X: moveX})
		} else {
			r = r.shifted(r2.Vec{Y: moveY})
		}
		moved = true
	})

	s.rects[id] = r
	return !moved
}

func (r Rect) shifted(d r2.Vec) Rect {
	r.Box.Min = r2.Add(r.Box.Min, d)
	r.Box.Max = r2.Add(r.Box.Max, d)
	r.Center = r2.Add(r.Center, d)
	return r
}

// overlaps is a strict interval test; touching edges do not overlap.
func overlaps(a, b r2.Box) bool {
	return a.Max.X > b.Min.X && a.Min.X < b.Max.X &&
		a.Max.Y > b.Min.Y && a.Min.Y < b.Max.Y
}

// pushOut returns the shorter shift that clears [lo,hi] from [oLo,oHi]
// along one axis: either to the near side of oLo or past oHi.
func pushOut(lo, hi, oLo, oHi float64) float64 {
	toLow := oLo - hi
	toHigh := oHi - lo
	if math.Abs(toLow) < math.Abs(toHigh) {
		return toLow
	}
	return toHigh
}

// Overlapping reports whether any two rectangles on the surface overlap on both axes.
func (s *Surface) Overlapping() bool {
	var boxes []r2.Box
	s.Each(func(_ int, r Rect) { boxes = append(boxes, r.Box) })
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if overlaps(boxes[i], boxes[j]) {
				return true
			}
		}
	}
	return false
}
