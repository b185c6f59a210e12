// Package portal models a single placed portal: its frame, teleport detection
// volume, link to its partner and the render targets that show the far side.
package portal

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/surface"
)

// ID identifies a portal for the lifetime of a manager.
type ID int

// Options holds the geometry and capture parameters a portal is built with.
type Options struct {
	// DetectionExtent is the half size of the teleport box: depth along
	// forward, half width along right, half height along up.
	DetectionExtent mgl64.Vec3
	// MeshHalfSize is the half width and half height of the visible plane.
	MeshHalfSize mgl64.Vec2
	// ClipOffset pushes the capture clip plane behind the target portal.
	ClipOffset float64
	// TargetWidth is the render target width; height follows the viewport aspect.
	TargetWidth int
}

// Portal is one side of a portal pair.
type Portal struct {
	ID        ID
	Orange    bool
	Transform geom.Transform
	EdgeColor mgl64.Vec3

	// Surface is the geometry the portal sits on. It outlives the portal.
	Surface   *surface.Surface
	SurfaceID int

	// Linked is the partner portal, nil when unpaired.
	Linked *Portal

	// Extent is the detection box. Z is stored negated, matching how the
	// box extent comes out of the rotated mesh scale; IsInside compares
	// against -Extent.Z.
	Extent   mgl64.Vec3
	MeshHalf mgl64.Vec2

	Material Material
	View     CaptureView

	clipOffset   float64
	targetWidth  int
	capturer     Capturer
	targets      [2]Target
	targetSize   [2]int
	usingPrimary bool
	captures     int
	destroyed    bool
}

// New creates an unlinked portal. capturer may be nil for headless use.
func New(id ID, orange bool, t geom.Transform, opts Options, capturer Capturer) *Portal {
	return &Portal{
		ID:           id,
		Orange:       orange,
		Transform:    t,
		Extent:       mgl64.Vec3{opts.DetectionExtent.X(), opts.DetectionExtent.Y(), -opts.DetectionExtent.Z()},
		MeshHalf:     opts.MeshHalfSize,
		clipOffset:   opts.ClipOffset,
		targetWidth:  opts.TargetWidth,
		capturer:     capturer,
		usingPrimary: true,
	}
}

// Link pairs a and b symmetrically, breaking any previous pairing of either.
func Link(a, b *Portal) {
	if a == nil || b == nil {
		return
	}
	a.Unlink()
	b.Unlink()
	a.Linked = b
	b.Linked = a
}

// Unlink breaks the pairing on both sides.
func (p *Portal) Unlink() {
	if p.Linked != nil {
		if p.Linked.Linked == p {
			p.Linked.Linked = nil
		}
		p.Linked = nil
	}
}

// SetSurface records the surface rectangle backing this portal.
func (p *Portal) SetSurface(s *surface.Surface, rectID int) {
	p.Surface = s
	p.SurfaceID = rectID
}

// SetColor sets the edge colour shown around the portal.
func (p *Portal) SetColor(c mgl64.Vec3) {
	p.EdgeColor = c
	p.Material.EdgeColor = c
}

// Destroyed reports whether Destroy has run.
func (p *Portal) Destroyed() bool {
	return p.destroyed
}

// IsInside reports whether point lies inside the teleport detection box.
func (p *Portal) IsInside(point mgl64.Vec3) bool {
	local := p.Transform.InverseRotateVector(point.Sub(p.Transform.Location))
	return math.Abs(local.X()) <= p.Extent.X() &&
		math.Abs(local.Y()) <= p.Extent.Y() &&
		math.Abs(local.Z()) <= -p.Extent.Z()
}

// Bounds returns the eight world-space corners of the mesh bounding box.
// The mesh is a flat plane, so the thickness axis is pinned to its minimum
// and corners 4-7 repeat corners 0-3.
func (p *Portal) Bounds() [8]mgl64.Vec3 {
	// mesh space: X along up, Y along right, Z along forward (thickness)
	lo := mgl64.Vec3{-p.MeshHalf.Y(), -p.MeshHalf.X(), 0}
	hi := mgl64.Vec3{p.MeshHalf.Y(), p.MeshHalf.X(), 0}

	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		corner := lo
		if i&1 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		corner[2] = lo[2]
		local := mgl64.Vec3{corner.Z(), corner.Y(), corner.X()}
		out[i] = p.Transform.Location.Add(p.Transform.Rotation.Rotate(local))
	}
	return out
}

// Destroy unlinks the partner, frees the surface rectangle and releases the
// render targets. Safe to call twice.
func (p *Portal) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true

	p.Unlink()

	if p.Surface != nil {
		p.Surface.RemoveRectangle(p.SurfaceID)
	} else {
		slog.Warn("portal destroyed without surface", "portal", p.ID)
	}

	p.releaseTargets()
}
