package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is a point and a unit normal.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// PlaneFromTransform returns the plane through t with t's forward as normal.
func PlaneFromTransform(t Transform) Plane {
	return Plane{Point: t.Location, Normal: t.Forward()}
}

// Dot returns the signed distance of p from the plane.
func (p Plane) Dot(point mgl64.Vec3) float64 {
	return point.Sub(p.Point).Dot(p.Normal)
}

// InFront reports whether point lies on or in front of the plane of reference.
func InFront(reference Transform, point mgl64.Vec3) bool {
	return PlaneFromTransform(reference).Dot(point) >= 0
}

// SegmentBox tests the segment from..to against an oriented box with the given
// half extents. On a hit it returns the entry fraction along the segment.
// A segment starting inside the box hits at 0.
func SegmentBox(from, to mgl64.Vec3, box Transform, halfExtent mgl64.Vec3) (float64, bool) {
	o := box.InverseRotateVector(from.Sub(box.Location))
	e := box.InverseRotateVector(to.Sub(box.Location))
	d := e.Sub(o)

	tMin := 0.0
	tMax := 1.0
	for axis := 0; axis < 3; axis++ {
		lo, hi := -halfExtent[axis], halfExtent[axis]
		if math.Abs(d[axis]) < 1e-12 {
			if o[axis] < lo || o[axis] > hi {
				return 0, false
			}
			continue
		}
		inv := 1.0 / d[axis]
		t1 := (lo - o[axis]) * inv
		t2 := (hi - o[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
