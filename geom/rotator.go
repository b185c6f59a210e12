package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

// Rotator is an Euler rotation in degrees.
// Pitch tilts forward toward +Z, yaw turns about +Z, roll turns about forward.
type Rotator struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

// Quat converts the rotator to a unit quaternion (yaw, then pitch, then roll).
func (r Rotator) Quat() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(r.Yaw), AxisUp)
	pitch := mgl64.QuatRotate(-mgl64.DegToRad(r.Pitch), AxisRight)
	roll := mgl64.QuatRotate(mgl64.DegToRad(r.Roll), AxisForward)
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// RotateVector rotates v by the rotator.
func (r Rotator) RotateVector(v mgl64.Vec3) mgl64.Vec3 {
	return r.Quat().Rotate(v)
}

// RotatorFromQuat decomposes q into pitch, yaw and roll.
func RotatorFromQuat(q mgl64.Quat) Rotator {
	q = q.Normalize()
	f := q.Rotate(AxisForward)
	r := q.Rotate(AxisRight)

	pitch := math.Asin(mgl64.Clamp(f.Z(), -1, 1))
	yaw := math.Atan2(f.Y(), f.X())

	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)
	right0 := mgl64.Vec3{-sy, cy, 0}
	up0 := mgl64.Vec3{-sp * cy, -sp * sy, cp}
	roll := math.Atan2(r.Dot(up0), r.Dot(right0))

	return Rotator{
		Pitch: mgl64.RadToDeg(pitch),
		Yaw:   mgl64.RadToDeg(yaw),
		Roll:  mgl64.RadToDeg(roll),
	}
}

// YawQuat is a rotation of deg degrees about world up.
func YawQuat(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), AxisUp)
}

// QuatEqual reports whether a and b are within tol on every component,
// treating q and -q as the same rotation.
func QuatEqual(a, b mgl64.Quat, tol float64) bool {
	return quatComponentsEqual(a, b, tol) || quatComponentsEqual(a, b.Scale(-1), tol)
}

func quatComponentsEqual(a, b mgl64.Quat, tol float64) bool {
	if !scalar.EqualWithinAbs(a.W, b.W, tol) {
		return false
	}
	for i := 0; i < 3; i++ {
		if !scalar.EqualWithinAbs(a.V[i], b.V[i], tol) {
			return false
		}
	}
	return true
}

// FromAxes builds the orientation whose forward is forward and whose up is as
// close to up as the forward axis allows.
func FromAxes(forward, up mgl64.Vec3) mgl64.Quat {
	f := forward.Normalize()
	r := up.Cross(f)
	if r.Len() < 1e-9 {
		// up is parallel to forward, pick any perpendicular
		r = AxisForward.Cross(f)
		if r.Len() < 1e-9 {
			r = AxisRight.Cross(f)
		}
	}
	r = r.Normalize()
	u := f.Cross(r)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(f, r, u).Mat4()).Normalize()
}
