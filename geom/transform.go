// Package geom provides the oriented-frame math shared by portals, agents and the camera.
//
// Axis convention: forward is +X, right is +Y and up is +Z, each rotated by
// the frame's orientation.
package geom

import "github.com/go-gl/mathgl/mgl64"

// Basis axes in local space.
var (
	AxisForward = mgl64.Vec3{1, 0, 0}
	AxisRight   = mgl64.Vec3{0, 1, 0}
	AxisUp      = mgl64.Vec3{0, 0, 1}
)

// Transform is an oriented frame: location, unit orientation and scale.
// Treated as a value; helpers return new frames instead of mutating.
type Transform struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// Identity returns a frame at the origin with no rotation and unit scale.
func Identity() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// NewTransform creates a unit-scale frame.
func NewTransform(location mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{
		Location: location,
		Rotation: rotation.Normalize(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Forward returns the frame's rotated +X axis.
func (t Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(AxisForward)
}

// Right returns the frame's rotated +Y axis.
func (t Transform) Right() mgl64.Vec3 {
	return t.Rotation.Rotate(AxisRight)
}

// Up returns the frame's rotated +Z axis.
func (t Transform) Up() mgl64.Vec3 {
	return t.Rotation.Rotate(AxisUp)
}

// WithLocation returns a copy placed at loc.
func (t Transform) WithLocation(loc mgl64.Vec3) Transform {
	t.Location = loc
	return t
}

// WithRotation returns a copy with orientation q.
func (t Transform) WithRotation(q mgl64.Quat) Transform {
	t.Rotation = q.Normalize()
	return t
}

// TransformPosition maps a local point into world space.
func (t Transform) TransformPosition(local mgl64.Vec3) mgl64.Vec3 {
	scaled := mgl64.Vec3{local.X() * t.Scale.X(), local.Y() * t.Scale.Y(), local.Z() * t.Scale.Z()}
	return t.Location.Add(t.Rotation.Rotate(scaled))
}

// InverseTransformPosition maps a world point into the frame's local space.
// Zero scale components are treated as 1.
func (t Transform) InverseTransformPosition(world mgl64.Vec3) mgl64.Vec3 {
	local := t.Rotation.Inverse().Rotate(world.Sub(t.Location))
	for i := 0; i < 3; i++ {
		if t.Scale[i] != 0 {
			local[i] /= t.Scale[i]
		}
	}
	return local
}

// InverseRotateVector rotates a world direction into the frame without translation or scale.
func (t Transform) InverseRotateVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(v)
}
