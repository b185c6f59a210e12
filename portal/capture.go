package portal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
)

// Default viewport used when the host reports a zero-sized one.
const (
	DefaultViewportW = 256
	DefaultViewportH = 256
)

// Target is a render target owned by a Capturer.
type Target interface {
	Size() (w, h int)
}

// Capturer renders the scene from a capture view into a target.
type Capturer interface {
	CreateTarget(w, h int) Target
	ReleaseTarget(t Target)
	Capture(into Target, view CaptureView)
}

// CaptureView is where the portal's capture camera looks from.
type CaptureView struct {
	Location   mgl64.Vec3
	Rotation   mgl64.Quat
	Projection mgl64.Mat4
	Clip       geom.Plane
	ClipOn     bool
}

// Material holds the parameters the portal surface shader reads.
type Material struct {
	VPX, VPY, VPW mgl64.Vec4
	Display       Target
	EdgeColor     mgl64.Vec3
	Blank         bool
}

// UpdateCapture renders the far side into the target not on display, shows it
// and swaps targets.
// target is the linked portal's frame; the clip plane sits just behind it so
// geometry between the capture camera and the portal is not drawn.
func (p *Portal) UpdateCapture(location mgl64.Vec3, rotation mgl64.Quat, viewProjection mgl64.Mat4, target geom.Transform, projection mgl64.Mat4) {
	// Clip-space x, y and w of a world point are its dot products with
	// these rows; the surface shader projects with them.
	p.Material.VPX = viewProjection.Row(0)
	p.Material.VPY = viewProjection.Row(1)
	p.Material.VPW = viewProjection.Row(3)

	normal := target.Forward()
	p.View = CaptureView{
		Location:   location,
		Rotation:   rotation,
		Projection: projection,
		Clip: geom.Plane{
			Point:  target.Location.Add(normal.Mul(-p.clipOffset)),
			Normal: normal,
		},
		ClipOn: true,
	}

	// The surface shows the capture just taken; the next one goes into the
	// other target so a target is never written while it is displayed.
	into := p.targets[1]
	if p.usingPrimary {
		into = p.targets[0]
	}

	if p.capturer != nil && into != nil {
		p.capturer.Capture(into, p.View)
	}
	p.Material.Display = into
	p.Material.Blank = false
	p.usingPrimary = !p.usingPrimary
	p.captures++
}

// NullCapture blanks the portal surface, used while it has no partner.
func (p *Portal) NullCapture() {
	p.Material.Display = nil
	p.Material.Blank = true
}

// Captures returns how many captures have been taken.
func (p *Portal) Captures() int {
	return p.captures
}

// UsingPrimary reports which target the next capture writes to.
func (p *Portal) UsingPrimary() bool {
	return p.usingPrimary
}

// Targets returns the two ping-pong render targets.
func (p *Portal) Targets() (Target, Target) {
	return p.targets[0], p.targets[1]
}

// TargetSize returns the current render target dimensions.
func (p *Portal) TargetSize() (w, h int) {
	return p.targetSize[0], p.targetSize[1]
}

// UpdateTextureTarget resizes both render targets for the given viewport.
// Width is fixed; height follows the viewport aspect. Nothing is recreated
// when the size is unchanged.
func (p *Portal) UpdateTextureTarget(viewportW, viewportH float64) {
	if viewportW <= 0 || viewportH <= 0 {
		viewportW, viewportH = DefaultViewportW, DefaultViewportH
	}
	w := p.targetWidth
	h := int(math.Round(float64(w) * viewportH / viewportW))
	if w == p.targetSize[0] && h == p.targetSize[1] {
		return
	}
	p.targetSize = [2]int{w, h}

	if p.capturer == nil {
		return
	}
	p.releaseTargets()
	p.targets[0] = p.capturer.CreateTarget(w, h)
	p.targets[1] = p.capturer.CreateTarget(w, h)
}

func (p *Portal) releaseTargets() {
	if p.capturer == nil {
		return
	}
	for i, t := range p.targets {
		if t != nil {
			p.capturer.ReleaseTarget(t)
			p.targets[i] = nil
		}
	}
	p.Material.Display = nil
}
