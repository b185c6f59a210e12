// Package convert maps locations, rotations and velocities from one portal's
// frame into its linked portal's frame.
//
// Crossing a portal reverses facing: a point in front of the reference
// portal ends up behind the target portal, so forward and right flip while
// up is preserved. That flip is a 180° turn about world up applied in the
// reference portal's local space.
package convert

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
)

// flip is the half turn about world up shared by all three conversions.
var flip = geom.YawQuat(180)

// Location converts source's location from reference space to target space.
func Location(source, reference, target geom.Transform) mgl64.Vec3 {
	return target.Location.Add(offset(source.Location.Sub(reference.Location), reference, target))
}

// Rotation converts source's orientation from reference space to target space.
func Rotation(source, reference, target geom.Transform) mgl64.Quat {
	local := reference.Rotation.Inverse().Mul(source.Rotation)
	local = flip.Mul(local)
	return target.Rotation.Mul(local).Normalize()
}

// Velocity converts a direction vector; no translation is applied.
func Velocity(v mgl64.Vec3, reference, target geom.Transform) mgl64.Vec3 {
	return offset(v, reference, target)
}

// Transform converts a whole frame, keeping source's scale.
func Transform(source, reference, target geom.Transform) geom.Transform {
	return geom.Transform{
		Location: Location(source, reference, target),
		Rotation: Rotation(source, reference, target),
		Scale:    source.Scale,
	}
}

// offset projects d onto reference's axes and rebuilds it on target's axes
// with forward and right negated.
func offset(d mgl64.Vec3, reference, target geom.Transform) mgl64.Vec3 {
	fx := d.Dot(reference.Forward())
	fy := d.Dot(reference.Right())
	fz := d.Dot(reference.Up())

	out := target.Forward().Mul(-fx)
	out = out.Add(target.Right().Mul(-fy))
	return out.Add(target.Up().Mul(fz))
}
