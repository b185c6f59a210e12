package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
)

func TestCaptureRefresh(t *testing.T) {
	tests := []struct {
		name     string
		view     geom.Transform
		blockAll bool
		want     bool
	}{
		{"close by", geom.NewTransform(mgl64.Vec3{50, 0, 0}, geom.YawQuat(0)), false, true},
		{"facing the portal", geom.NewTransform(mgl64.Vec3{300, 0, 0}, geom.YawQuat(180)), false, true},
		{"behind the portal", geom.NewTransform(mgl64.Vec3{-300, 0, 0}, geom.YawQuat(0)), false, false},
		{"looking away", geom.NewTransform(mgl64.Vec3{300, 0, 0}, geom.YawQuat(0)), false, false},
		{"view blocked", geom.NewTransform(mgl64.Vec3{300, 0, 0}, geom.YawQuat(180)), true, false},
		{"close by and blocked", geom.NewTransform(mgl64.Vec3{50, 0, 0}, geom.YawQuat(180)), true, true},
		{"at refresh distance", geom.NewTransform(mgl64.Vec3{100, 0, 0}, geom.YawQuat(0)), false, true},
		{"pitched down beside the portal", geom.NewTransform(mgl64.Vec3{300, 500, 100}, geom.Rotator{Pitch: -80, Yaw: 180}.Quat()), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, nil)
			a, _ := fx.standardPair()
			fx.host.view = tt.view
			fx.host.blockAll = tt.blockAll

			before := a.Captures()
			fx.manager.refreshCaptures()
			got := a.Captures() > before
			if got != tt.want {
				t.Errorf("refreshed = %v, want %v", got, tt.want)
			}
			if fx.manager.Report().CapturedLastFrame != tt.want {
				t.Errorf("report CapturedLastFrame = %v, want %v", fx.manager.Report().CapturedLastFrame, tt.want)
			}
		})
	}
}

func TestCaptureView(t *testing.T) {
	fx := newFixture(t, nil)
	a, b := fx.standardPair()
	fx.host.view = geom.NewTransform(mgl64.Vec3{300, 0, 0}, geom.YawQuat(180))

	primary := a.UsingPrimary()
	fx.manager.refreshCaptures()

	if !vecNear(a.View.Location, mgl64.Vec3{800, 0, 0}, 1e-9) {
		t.Errorf("capture location = %v, want (800, 0, 0)", a.View.Location)
	}
	if !vecNear(a.View.Clip.Normal, b.Transform.Forward(), 1e-9) {
		t.Errorf("clip normal = %v, want %v", a.View.Clip.Normal, b.Transform.Forward())
	}
	if !vecNear(a.View.Clip.Point, mgl64.Vec3{501.5, 0, 0}, 1e-9) {
		t.Errorf("clip point = %v, want (501.5, 0, 0)", a.View.Clip.Point)
	}
	if a.UsingPrimary() == primary {
		t.Error("render targets not swapped")
	}
	if fx.host.captured == 0 {
		t.Error("capture backend never called")
	}
}

func TestUnlinkedPortalBlank(t *testing.T) {
	fx := newFixture(t, nil)
	p := fx.manager.CreatePortal(mgl64.Vec3{}, mgl64.QuatIdent(), true, nil, 0)

	fx.manager.refreshCaptures()
	if !p.Material.Blank {
		t.Error("unlinked portal should show a blank surface")
	}
	if p.Captures() != 0 {
		t.Errorf("captures = %d, want 0", p.Captures())
	}
}
