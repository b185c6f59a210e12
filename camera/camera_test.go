package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 90, 1, 20000)

	if cam.Eye.Location != (mgl64.Vec3{}) {
		t.Errorf("expected camera at origin, got %v", cam.Eye.Location)
	}
	if math.Abs(cam.Aspect()-1280.0/720.0) > 1e-12 {
		t.Errorf("expected aspect 16:9, got %f", cam.Aspect())
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 90, 1, 20000)
	cam.Follow(geom.NewTransform(mgl64.Vec3{0, 0, 64}, geom.YawQuat(90)))

	// A point straight ahead should map to screen center
	s, ok := cam.WorldToScreen(mgl64.Vec3{0, 500, 64})
	if !ok {
		t.Fatal("point ahead reported behind the camera")
	}
	if math.Abs(s.X()-640) > 0.01 || math.Abs(s.Y()-360) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", s.X(), s.Y())
	}
}

func TestWorldToScreenAxes(t *testing.T) {
	cam := New(1280, 720, 90, 1, 20000)

	testCases := []struct {
		name        string
		p           mgl64.Vec3
		left, above bool
	}{
		{"right and up", mgl64.Vec3{100, 20, 20}, false, true},
		{"left and down", mgl64.Vec3{100, -20, -20}, true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := cam.WorldToScreen(tc.p)
			if !ok {
				t.Fatal("point ahead reported behind the camera")
			}
			if (s.X() < 640) != tc.left {
				t.Errorf("x = %f, want left = %v", s.X(), tc.left)
			}
			if (s.Y() < 360) != tc.above {
				t.Errorf("y = %f, want above = %v", s.Y(), tc.above)
			}
		})
	}
}

func TestWorldToScreenBehind(t *testing.T) {
	cam := New(1280, 720, 90, 1, 20000)

	if _, ok := cam.WorldToScreen(mgl64.Vec3{-100, 0, 0}); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 90, 1, 20000)

	testCases := []struct {
		name string
		p    mgl64.Vec3
		r    float64
		want bool
	}{
		{"ahead", mgl64.Vec3{500, 0, 0}, 10, true},
		{"behind", mgl64.Vec3{-500, 0, 0}, 10, false},
		{"beside but large", mgl64.Vec3{0, 500, 0}, 600, true},
		{"past far plane", mgl64.Vec3{30000, 0, 0}, 10, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cam.IsVisible(tc.p, tc.r); got != tc.want {
				t.Errorf("IsVisible(%v, %v) = %v, want %v", tc.p, tc.r, got, tc.want)
			}
		})
	}
}

func TestResize(t *testing.T) {
	cam := New(1280, 720, 90, 1, 20000)
	cam.Resize(800, 800)

	if cam.Aspect() != 1 {
		t.Errorf("expected aspect 1 after resize, got %f", cam.Aspect())
	}
	cam.Resize(0, 0)
	if cam.Aspect() != 1 {
		t.Errorf("expected aspect 1 for an empty viewport, got %f", cam.Aspect())
	}
}
