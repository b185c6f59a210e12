package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/surface"
)

type fakeTarget struct{ w, h int }

func (t *fakeTarget) Size() (int, int) { return t.w, t.h }

// testHost is a headless Host backed by a Factory and an optional level.
type testHost struct {
	*Factory
	level    *level.Level
	view     geom.Transform
	blockAll bool

	created  int
	released int
	captured int
}

func (h *testHost) LineTrace(from, to mgl64.Vec3, throughPortals bool) (Hit, bool) {
	if h.blockAll {
		return Hit{Hit: level.Hit{Location: from}}, true
	}
	lh, ok := h.level.Trace(from, to, throughPortals)
	return Hit{Hit: lh}, ok
}

func (h *testHost) CreateTarget(w, ht int) portal.Target {
	h.created++
	return &fakeTarget{w: w, h: ht}
}

func (h *testHost) ReleaseTarget(portal.Target) { h.released++ }

func (h *testHost) Capture(portal.Target, portal.CaptureView) { h.captured++ }

func (h *testHost) ViewTransform() geom.Transform { return h.view }
func (h *testHost) ViewProjection() mgl64.Mat4    { return mgl64.Ident4() }
func (h *testHost) Projection() mgl64.Mat4        { return mgl64.Ident4() }
func (h *testHost) Viewport() (float64, float64)  { return 1280, 720 }

type fixture struct {
	world   *ecs.World
	cfg     *config.Config
	host    *testHost
	manager *PortalManager
}

func newFixture(t *testing.T, lvl *level.Level) *fixture {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	w := ecs.NewWorld()
	f := NewFactory(w, cfg)
	h := &testHost{Factory: f, level: lvl, view: geom.Identity()}
	m := NewPortalManager(w, h, cfg)
	f.SetRegistrar(m)
	return &fixture{world: w, cfg: cfg, host: h, manager: m}
}

// placePair creates a linked orange/blue pair with the given final frames.
func (fx *fixture) placePair(orange, blue geom.Transform) (*portal.Portal, *portal.Portal) {
	undo := fx.cfg.Portal.RotationCorrection.Quat().Inverse()
	a := fx.manager.CreatePortal(orange.Location, orange.Rotation.Mul(undo), true, surface.New("a"), 1)
	b := fx.manager.CreatePortal(blue.Location, blue.Rotation.Mul(undo), false, surface.New("b"), 1)
	return a, b
}

// standardPair faces orange along +X at the origin and blue along -X at x=500.
func (fx *fixture) standardPair() (*portal.Portal, *portal.Portal) {
	return fx.placePair(
		geom.Identity(),
		geom.NewTransform(mgl64.Vec3{500, 0, 0}, geom.YawQuat(180)),
	)
}

func (fx *fixture) frame() {
	fx.manager.PostPhysics()
	fx.manager.PostUpdate(fx.cfg.Physics.DT)
}

func count[T any](w *ecs.World) int {
	q := ecs.NewFilter1[T](w).Query()
	n := 0
	for q.Next() {
		n++
	}
	return n
}

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
