package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/surface"
)

// DebugLayers selects the debug geometry drawn over a frame.
type DebugLayers struct {
	DetectionBoxes bool
	SurfaceRects   bool
	ClipPlanes     bool
	CaptureCameras bool
}

// Any reports whether a layer is on.
func (d DebugLayers) Any() bool {
	return d.DetectionBoxes || d.SurfaceRects || d.ClipPlanes || d.CaptureCameras
}

// DrawDebug draws the enabled layers from eye.
func (r *Renderer) DrawDebug(eye geom.Transform, frame Frame, layers DebugLayers) {
	if !layers.Any() {
		return
	}
	rl.BeginMode3D(Camera3D(eye, r.fov))
	for _, p := range frame.Portals {
		tint := EdgeColor(p.EdgeColor)
		if layers.DetectionBoxes {
			ext := mgl64.Vec3{p.Extent.X(), p.Extent.Y(), -p.Extent.Z()}
			drawWireBox(p.Transform, ext.Mul(2), tint)
		}
		if layers.CaptureCameras && p.Linked != nil {
			at := Vec(p.View.Location)
			fwd := p.View.Location.Add(p.View.Rotation.Rotate(geom.AxisForward).Mul(60))
			rl.DrawSphere(at, float32(6*WorldScale), tint)
			rl.DrawLine3D(at, Vec(fwd), tint)
		}
	}
	if layers.SurfaceRects {
		for _, w := range frame.Walls {
			if w.Surface != nil {
				drawSurfaceRects(w, w.Surface)
			}
		}
	}
	if layers.ClipPlanes {
		for _, b := range frame.Bodies {
			if !b.ClipOn {
				continue
			}
			tip := b.Clip.Point.Add(b.Clip.Normal.Mul(40))
			rl.DrawLine3D(Vec(b.Clip.Point), Vec(tip), rl.Magenta)
		}
	}
	rl.EndMode3D()
}

// drawSurfaceRects outlines every rectangle on a wall's surface.
func drawSurfaceRects(w *level.Wall, s *surface.Surface) {
	s.Each(func(_ int, rect surface.Rect) {
		c := RectCorners(rect.Box)
		for i := range c {
			a := w.World(c[i]).Add(w.Normal().Mul(0.5))
			b := w.World(c[(i+1)%len(c)]).Add(w.Normal().Mul(0.5))
			rl.DrawLine3D(Vec(a), Vec(b), rl.Green)
		}
	})
}

// RectCorners returns a box's corners in winding order.
func RectCorners(b r2.Box) [4]r2.Vec {
	return [4]r2.Vec{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// drawWireBox outlines an oriented box.
func drawWireBox(t geom.Transform, size mgl64.Vec3, c rl.Color) {
	axis, deg := AxisAngle(t.Rotation)
	rl.PushMatrix()
	loc := Vec(t.Location)
	rl.Translatef(loc.X, loc.Y, loc.Z)
	if math.Abs(float64(deg)) > 1e-6 {
		rl.Rotatef(deg, axis.X, axis.Y, axis.Z)
	}
	rl.DrawCubeWiresV(rl.Vector3{}, Vec(size), c)
	rl.PopMatrix()
}

// PortalLabel returns the point to anchor a portal's HUD label at.
func PortalLabel(p *portal.Portal) mgl64.Vec3 {
	return p.Transform.Location.Add(p.Transform.Up().Mul(p.MeshHalf.Y() + 20))
}
