// Package camera provides the first-person 3D camera the player sees through.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
)

// Camera is a perspective camera placed at the player's eye.
type Camera struct {
	// Eye is the camera frame: location plus look rotation (forward = +X).
	Eye geom.Transform

	// Vertical field of view in degrees
	FOV float64

	// Clip distances
	Near, Far float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64
}

// New creates a camera at the origin looking along +X.
func New(viewportW, viewportH, fov, near, far float64) *Camera {
	return &Camera{
		Eye:       geom.Identity(),
		FOV:       fov,
		Near:      near,
		Far:       far,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// Follow moves the camera to eye.
func (c *Camera) Follow(eye geom.Transform) {
	c.Eye = eye
}

// Aspect returns the viewport width over height, 1 for an empty viewport.
func (c *Camera) Aspect() float64 {
	if c.ViewportW <= 0 || c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Target returns a point one unit ahead of the eye.
func (c *Camera) Target() mgl64.Vec3 {
	return c.Eye.Location.Add(c.Eye.Forward())
}

// View returns the world-to-view matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye.Location, c.Target(), c.Eye.Up())
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// WorldToScreen projects a world point to screen pixels. The second result
// is false when the point is behind the camera.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (mgl64.Vec2, bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec2{}, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return mgl64.Vec2{
		(ndcX + 1) / 2 * c.ViewportW,
		(1 - ndcY) / 2 * c.ViewportH,
	}, true
}

// IsVisible returns true if a sphere at p with the given radius could be on
// screen (conservative cone check for culling).
func (c *Camera) IsVisible(p mgl64.Vec3, radius float64) bool {
	d := p.Sub(c.Eye.Location)
	dist := d.Len()
	if dist <= radius {
		return true
	}
	if dist-radius > c.Far {
		return false
	}

	// Half angle of the cone around forward that covers the whole frustum.
	halfV := mgl64.DegToRad(c.FOV) / 2
	halfH := math.Atan(math.Tan(halfV) * c.Aspect())
	half := math.Atan(math.Hypot(math.Tan(halfV), math.Tan(halfH)))

	cos := d.Dot(c.Eye.Forward()) / dist
	angle := math.Acos(mgl64.Clamp(cos, -1, 1))
	return angle-math.Asin(mgl64.Clamp(radius/dist, 0, 1)) <= half
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}
