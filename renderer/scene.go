// Package renderer draws the portal world with raylib and renders portal
// captures into render textures.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/portal"
)

// WorldScale converts world units (centimetres) to render units (metres),
// keeping the scene inside raylib's default clip range.
const WorldScale = 0.01

// Scene colours.
var (
	skyColor      = rl.Color{R: 30, G: 34, B: 40, A: 255}
	wallColor     = rl.Color{R: 90, G: 90, B: 95, A: 255}
	portableColor = rl.Color{R: 200, G: 200, B: 205, A: 255}
	edgeLineColor = rl.Color{R: 40, G: 40, B: 45, A: 255}
)

// Body is one drawable agent.
type Body struct {
	Pose   geom.Transform
	Radius float64
	Kind   components.Kind
	Clone  bool
	Clip   geom.Plane
	ClipOn bool
}

// Shot is a portal bullet in flight.
type Shot struct {
	Location mgl64.Vec3
	Orange   bool
}

// Frame is everything drawn for one view.
type Frame struct {
	Walls   []*level.Wall
	Bodies  []Body
	Shots   []Shot
	Portals []*portal.Portal
}

// Renderer draws frames and implements portal.Capturer.
type Renderer struct {
	clip   clipShader
	portal portalShader

	fov    float64
	source func() Frame

	// FlatPortals draws portals in their edge colour only.
	FlatPortals bool
	// HideClones skips visual-only clones.
	HideClones bool

	initialized bool
}

// New creates a renderer. source supplies the frame drawn into captures.
func New(fov float64, source func() Frame) *Renderer {
	return &Renderer{fov: fov, source: source}
}

// Init loads shaders (must be called after the raylib window is created).
func (r *Renderer) Init() {
	if r.initialized {
		return
	}
	r.clip = loadClipShader()
	r.portal = loadPortalShader()
	r.initialized = true
}

// SetFOV updates the vertical field of view used for captures.
func (r *Renderer) SetFOV(fov float64) {
	r.fov = fov
}

// Draw renders frame from eye into the current framebuffer.
func (r *Renderer) Draw(eye geom.Transform, frame Frame) {
	if !r.initialized {
		r.Init()
	}
	rl.ClearBackground(skyColor)
	rl.BeginMode3D(Camera3D(eye, r.fov))
	r.drawWorld(frame, nil, !r.FlatPortals)
	rl.EndMode3D()
}

// drawWorld draws walls, bodies, shots and portals. keep, when set, hides
// everything behind that plane.
func (r *Renderer) drawWorld(frame Frame, keep *geom.Plane, portalViews bool) {
	cs := r.clip
	rl.BeginShaderMode(cs.shader)
	setFlag(cs.shader, cs.keepOnLoc, keep != nil)
	if keep != nil {
		setVec3(cs.shader, cs.keepPtLoc, Vec(keep.Point))
		setVec3(cs.shader, cs.keepNLoc, Dir(keep.Normal))
	}
	setFlag(cs.shader, cs.clipOnLoc, false)

	for _, w := range frame.Walls {
		c := wallColor
		if w.Surface != nil {
			c = portableColor
		}
		drawBox(w.Box(), w.HalfExtent.Mul(2), c)
	}

	for _, s := range frame.Shots {
		rl.DrawSphere(Vec(s.Location), float32(8*WorldScale), portalTint(s.Orange))
	}

	for _, b := range frame.Bodies {
		if b.Clone && r.HideClones {
			continue
		}
		// Uniforms apply to the whole pending batch, so flush before changing.
		rl.DrawRenderBatchActive()
		setFlag(cs.shader, cs.clipOnLoc, b.ClipOn)
		if b.ClipOn {
			setVec3(cs.shader, cs.clipPtLoc, Vec(b.Clip.Point))
			setVec3(cs.shader, cs.clipNLoc, Dir(b.Clip.Normal))
		}
		drawBody(b)
	}
	rl.DrawRenderBatchActive()
	setFlag(cs.shader, cs.clipOnLoc, false)
	rl.EndShaderMode()

	rl.DisableBackfaceCulling()
	for _, p := range frame.Portals {
		r.drawPortal(p, portalViews)
	}
	rl.EnableBackfaceCulling()
}

// drawPortal draws the portal plane, sampling the linked side's capture when
// one is available.
func (r *Renderer) drawPortal(p *portal.Portal, portalViews bool) {
	corners := PortalQuad(p)
	edge := EdgeColor(p.EdgeColor)

	target, ok := p.Material.Display.(*RenderTarget)
	if !portalViews || p.Material.Blank || !ok {
		drawQuad(corners, edge)
		return
	}

	ps := r.portal
	rl.BeginShaderMode(ps.shader)
	rl.SetShaderValueTexture(ps.shader, ps.viewLoc, target.Texture())
	setVec4(ps.shader, ps.vpxLoc, vec4f(p.Material.VPX))
	setVec4(ps.shader, ps.vpyLoc, vec4f(p.Material.VPY))
	setVec4(ps.shader, ps.vpwLoc, vec4f(p.Material.VPW))
	setVec3(ps.shader, ps.edgeLoc, rl.Vector3{X: float32(edge.R) / 255, Y: float32(edge.G) / 255, Z: float32(edge.B) / 255})
	setFlag(ps.shader, ps.blankLoc, false)
	drawQuad(corners, rl.White)
	rl.DrawRenderBatchActive()
	rl.EndShaderMode()

	// Rim in the portal colour.
	rim := [5]int{0, 1, 3, 2, 0}
	for i := 0; i < 4; i++ {
		rl.DrawLine3D(Vec(corners[rim[i]]), Vec(corners[rim[i+1]]), edge)
	}
}

// drawBody draws an agent as a sphere with a nose showing its forward.
func drawBody(b Body) {
	c := kindColor(b.Kind)
	if b.Clone {
		c = rl.ColorAlpha(c, 0.6)
	}
	center := Vec(b.Pose.Location)
	rl.DrawSphere(center, float32(b.Radius*WorldScale), c)
	nose := b.Pose.Location.Add(b.Pose.Forward().Mul(b.Radius * 1.4))
	rl.DrawLine3D(center, Vec(nose), rl.White)
}

// drawBox draws a solid oriented box with its outline.
func drawBox(t geom.Transform, size mgl64.Vec3, c rl.Color) {
	axis, deg := AxisAngle(t.Rotation)
	rl.PushMatrix()
	loc := Vec(t.Location)
	rl.Translatef(loc.X, loc.Y, loc.Z)
	rl.Rotatef(deg, axis.X, axis.Y, axis.Z)
	s := Vec(size)
	rl.DrawCubeV(rl.Vector3{}, s, c)
	rl.DrawCubeWiresV(rl.Vector3{}, s, edgeLineColor)
	rl.PopMatrix()
}

// drawQuad draws the quad spanned by corners in Bounds order.
func drawQuad(c [4]mgl64.Vec3, col rl.Color) {
	rl.DrawTriangle3D(Vec(c[0]), Vec(c[1]), Vec(c[3]), col)
	rl.DrawTriangle3D(Vec(c[0]), Vec(c[3]), Vec(c[2]), col)
}

// PortalQuad returns the four corners of a portal's visible plane.
func PortalQuad(p *portal.Portal) [4]mgl64.Vec3 {
	b := p.Bounds()
	return [4]mgl64.Vec3{b[0], b[1], b[2], b[3]}
}

// Camera3D builds a raylib camera looking along eye's forward.
func Camera3D(eye geom.Transform, fov float64) rl.Camera3D {
	return rl.Camera3D{
		Position:   Vec(eye.Location),
		Target:     Vec(eye.Location.Add(eye.Forward().Mul(100))),
		Up:         Dir(eye.Up()),
		Fovy:       float32(fov),
		Projection: rl.CameraPerspective,
	}
}

// Vec converts a world position to render units.
func Vec(v mgl64.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X() * WorldScale), Y: float32(v.Y() * WorldScale), Z: float32(v.Z() * WorldScale)}
}

// Dir converts a direction without scaling.
func Dir(v mgl64.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X()), Y: float32(v.Y()), Z: float32(v.Z())}
}

// AxisAngle converts a rotation to the axis and angle in degrees rlgl expects.
func AxisAngle(q mgl64.Quat) (rl.Vector3, float32) {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	s := q.V.Len()
	if s < 1e-9 {
		return rl.Vector3{Z: 1}, 0
	}
	angle := 2 * math.Atan2(s, q.W)
	return Dir(q.V.Mul(1 / s)), float32(mgl64.RadToDeg(angle))
}

// EdgeColor maps an emissive portal colour, such as (50, 10, 0), to a
// displayable colour by normalising its brightest channel.
func EdgeColor(c mgl64.Vec3) rl.Color {
	m := math.Max(c.X(), math.Max(c.Y(), c.Z()))
	if m <= 0 {
		return rl.White
	}
	return rl.Color{
		R: uint8(math.Round(255 * c.X() / m)),
		G: uint8(math.Round(255 * c.Y() / m)),
		B: uint8(math.Round(255 * c.Z() / m)),
		A: 255,
	}
}

func portalTint(orange bool) rl.Color {
	if orange {
		return rl.Orange
	}
	return rl.SkyBlue
}

func kindColor(k components.Kind) rl.Color {
	switch k {
	case components.KindPlayer:
		return rl.Color{R: 230, G: 230, B: 230, A: 255}
	case components.KindProjectile:
		return rl.Yellow
	case components.KindProp:
		return rl.Color{R: 160, G: 110, B: 60, A: 255}
	}
	return rl.Gray
}

func vec4f(v mgl64.Vec4) [4]float32 {
	return [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}
