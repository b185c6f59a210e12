package level

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
)

// Hit is the result of a line trace against level geometry.
type Hit struct {
	Location mgl64.Vec3
	Normal   mgl64.Vec3
	Fraction float64 // along the traced segment, 0..1
	Wall     *Wall
}

// Trace returns the first wall hit by the segment from..to. With
// throughPortals set, walls are ignored where the segment meets them inside
// a portal hole.
func (l *Level) Trace(from, to mgl64.Vec3, throughPortals bool) (Hit, bool) {
	return l.Sweep(from, to, 0, throughPortals)
}

// Sweep is Trace for a sphere of the given radius. Location is the sphere
// center at contact.
func (l *Level) Sweep(from, to mgl64.Vec3, radius float64, throughPortals bool) (Hit, bool) {
	if l == nil {
		return Hit{}, false
	}
	best := Hit{Fraction: math.Inf(1)}
	found := false
	for _, w := range l.Walls {
		h, ok := w.trace(from, to, radius, throughPortals)
		if ok && h.Fraction < best.Fraction {
			best = h
			found = true
		}
	}
	return best, found
}

func (w *Wall) trace(from, to mgl64.Vec3, radius float64, throughPortals bool) (Hit, bool) {
	box := w.Box()
	ext := w.HalfExtent.Add(mgl64.Vec3{radius, radius, radius})
	t, ok := geom.SegmentBox(from, to, box, ext)
	if !ok {
		return Hit{}, false
	}
	at := from.Add(to.Sub(from).Mul(t))
	if throughPortals && len(w.holes) > 0 && w.inHole(w.Local(at)) {
		return Hit{}, false
	}
	return Hit{
		Location: at,
		Normal:   normalAt(box, ext, at),
		Fraction: t,
		Wall:     w,
	}, true
}

// normalAt returns the outward normal of the box face nearest to p.
func normalAt(box geom.Transform, ext, p mgl64.Vec3) mgl64.Vec3 {
	local := box.InverseRotateVector(p.Sub(box.Location))
	axis := 0
	best := -1.0
	for i := 0; i < 3; i++ {
		if d := math.Abs(local[i]) / ext[i]; d > best {
			best = d
			axis = i
		}
	}
	var n mgl64.Vec3
	n[axis] = math.Copysign(1, local[axis])
	return box.Rotation.Rotate(n)
}
