package portal

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/surface"
)

type fakeTarget struct {
	id   int
	w, h int
}

func (t *fakeTarget) Size() (int, int) { return t.w, t.h }

type fakeCapturer struct {
	next     int
	live     map[*fakeTarget]bool
	captured []*fakeTarget
	views    []CaptureView
}

func newFakeCapturer() *fakeCapturer {
	return &fakeCapturer{live: make(map[*fakeTarget]bool)}
}

func (c *fakeCapturer) CreateTarget(w, h int) Target {
	c.next++
	t := &fakeTarget{id: c.next, w: w, h: h}
	c.live[t] = true
	return t
}

func (c *fakeCapturer) ReleaseTarget(t Target) {
	delete(c.live, t.(*fakeTarget))
}

func (c *fakeCapturer) Capture(into Target, view CaptureView) {
	c.captured = append(c.captured, into.(*fakeTarget))
	c.views = append(c.views, view)
}

func testOptions() Options {
	return Options{
		DetectionExtent: mgl64.Vec3{100, 60, 120},
		MeshHalfSize:    mgl64.Vec2{60, 120},
		ClipOffset:      1.5,
		TargetWidth:     1524,
	}
}

func TestIsInside(t *testing.T) {
	p := New(1, false, geom.NewTransform(mgl64.Vec3{0, 0, 100}, geom.Rotator{Yaw: 90}.Quat()), testOptions(), nil)

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  bool
	}{
		{"center", mgl64.Vec3{0, 0, 100}, true},
		{"in front within depth", mgl64.Vec3{0, 50, 100}, true},
		{"behind within depth", mgl64.Vec3{0, -99, 100}, true},
		{"too deep", mgl64.Vec3{0, 101, 100}, false},
		{"too wide", mgl64.Vec3{61, 10, 100}, false},
		{"within height", mgl64.Vec3{-20, 10, 219}, true},
		{"too high", mgl64.Vec3{0, 10, 221}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsInside(tt.point); got != tt.want {
				t.Errorf("IsInside(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestBoundsCorners(t *testing.T) {
	p := New(1, false, geom.NewTransform(mgl64.Vec3{10, 0, 0}, mgl64.QuatIdent()), testOptions(), nil)
	b := p.Bounds()

	for i := 0; i < 4; i++ {
		if b[i] != b[i+4] {
			t.Errorf("corner %d = %v, want duplicate of corner %d = %v", i+4, b[i+4], i, b[i])
		}
	}

	seen := make(map[mgl64.Vec3]bool)
	for _, c := range b {
		if c.X() != 10 {
			t.Errorf("corner %v off the portal plane", c)
		}
		seen[c] = true
	}
	if len(seen) != 4 {
		t.Errorf("distinct corners = %d, want 4", len(seen))
	}
	if !seen[mgl64.Vec3{10, 60, 120}] || !seen[mgl64.Vec3{10, -60, -120}] {
		t.Errorf("corners %v missing expected extremes", b)
	}
}

func TestLinkSymmetric(t *testing.T) {
	a := New(1, false, geom.Identity(), testOptions(), nil)
	b := New(2, true, geom.Identity(), testOptions(), nil)
	c := New(3, true, geom.Identity(), testOptions(), nil)

	Link(a, b)
	if a.Linked != b || b.Linked != a {
		t.Fatal("Link did not pair both sides")
	}

	Link(a, c)
	if b.Linked != nil {
		t.Error("relinking a should drop b's back-reference")
	}
	if a.Linked != c || c.Linked != a {
		t.Error("a and c should be paired")
	}
}

func TestDestroyClearsLinkAndSurface(t *testing.T) {
	s := surface.New("wall")
	rebuilds := 0
	s.Observe(surface.ObserverFunc(func(*surface.Surface) { rebuilds++ }))
	id := s.AddRectangle(r2.Vec{X: -60, Y: -120}, r2.Vec{X: 60, Y: 120}, r2.Vec{}, geom.Rotator{})

	capt := newFakeCapturer()
	a := New(1, false, geom.Identity(), testOptions(), capt)
	b := New(2, true, geom.Identity(), testOptions(), nil)
	a.SetSurface(s, id)
	a.UpdateTextureTarget(1280, 720)
	Link(a, b)

	a.Destroy()
	a.Destroy()

	if b.Linked != nil {
		t.Error("partner still links to destroyed portal")
	}
	if s.Len() != 0 {
		t.Errorf("surface has %d rectangles, want 0", s.Len())
	}
	if rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", rebuilds)
	}
	if len(capt.live) != 0 {
		t.Errorf("%d render targets leaked", len(capt.live))
	}
	if !a.Destroyed() {
		t.Error("Destroyed() = false")
	}
}

func TestUpdateTextureTarget(t *testing.T) {
	tests := []struct {
		name       string
		vw, vh     float64
		wantW      int
		wantH      int
	}{
		{"16:9", 1920, 1080, 1524, 857},
		{"square", 800, 800, 1524, 1524},
		{"zero falls back to default", 0, 0, 1524, 1524},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capt := newFakeCapturer()
			p := New(1, false, geom.Identity(), testOptions(), capt)
			p.UpdateTextureTarget(tt.vw, tt.vh)

			w, h := p.TargetSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("TargetSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			t1, t2 := p.Targets()
			if t1 == nil || t2 == nil || t1 == t2 {
				t.Fatal("expected two distinct targets")
			}

			// Same size again keeps the same targets.
			p.UpdateTextureTarget(tt.vw, tt.vh)
			if n := len(capt.live); n != 2 {
				t.Errorf("live targets = %d, want 2", n)
			}
			if capt.next != 2 {
				t.Errorf("targets created = %d, want 2", capt.next)
			}
		})
	}
}

func TestUpdateCapturePingPong(t *testing.T) {
	capt := newFakeCapturer()
	p := New(1, false, geom.Identity(), testOptions(), capt)
	p.UpdateTextureTarget(1280, 720)
	first, second := p.Targets()

	target := geom.NewTransform(mgl64.Vec3{500, 0, 0}, geom.Rotator{Yaw: 180}.Quat())
	vp := mgl64.Perspective(mgl64.DegToRad(90), 16.0/9.0, 1, 10000)

	want := []Target{first, second, first, second}
	for i, w := range want {
		shown := p.Material.Display
		p.UpdateCapture(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent(), vp, target, vp)
		got := capt.captured[i]
		if got != w {
			t.Errorf("capture %d wrote %v, want %v", i, got, w)
		}
		if got == shown {
			t.Errorf("capture %d wrote into the target on display", i)
		}
		if p.Material.Display != got {
			t.Errorf("capture %d: display = %v, want the target just written %v", i, p.Material.Display, got)
		}
	}
	if p.Captures() != len(want) {
		t.Errorf("Captures() = %d, want %d", p.Captures(), len(want))
	}

	clip := capt.views[0].Clip
	wantPoint := mgl64.Vec3{501.5, 0, 0}
	if clip.Point.Sub(wantPoint).Len() > 1e-9 {
		t.Errorf("clip point = %v, want %v", clip.Point, wantPoint)
	}
	if clip.Normal.Sub(target.Forward()).Len() > 1e-9 {
		t.Errorf("clip normal = %v, want %v", clip.Normal, target.Forward())
	}

	if p.Material.VPX != vp.Row(0) || p.Material.VPY != vp.Row(1) || p.Material.VPW != vp.Row(3) {
		t.Error("material rows do not match the view-projection rows")
	}
}

func TestNullCapture(t *testing.T) {
	p := New(1, false, geom.Identity(), testOptions(), newFakeCapturer())
	p.UpdateTextureTarget(100, 100)
	p.NullCapture()
	if !p.Material.Blank || p.Material.Display != nil {
		t.Error("NullCapture should blank the material")
	}
}
