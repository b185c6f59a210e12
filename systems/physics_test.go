package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/level"
)

func TestPhysicsLandsOnFloor(t *testing.T) {
	lvl := buildLevel(t, level.WallSpec{
		Name:   "floor",
		Center: mgl64.Vec3{0, 0, 0},
		Normal: geom.AxisUp,
		Width:  1000,
		Height: 1000,
	})
	fx := newFixture(t, lvl)
	physics := NewPhysicsSystem(fx.world, lvl, fx.cfg)

	e := fx.host.NewProp(geom.NewTransform(mgl64.Vec3{0, 0, 100}, mgl64.QuatIdent()), mgl64.Vec3{}, true)
	for i := 0; i < 120; i++ {
		physics.Update(fx.cfg.Physics.DT)
	}

	pose := ecs.NewMap[components.Pose](fx.world).Get(e)
	body := ecs.NewMap[components.Body](fx.world).Get(e)
	if !scalar.EqualWithinAbs(pose.Location.Z(), PropRadius, 0.1) {
		t.Errorf("resting height = %v, want %v", pose.Location.Z(), PropRadius)
	}
	if !body.Grounded {
		t.Error("body on the floor not grounded")
	}
}

func TestPhysicsCrossesPortalHole(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		pass    bool
	}{
		{"crossing profile passes", "PortalAgent", true},
		{"default profile blocked", "Pawn", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := buildLevel(t, level.WallSpec{
				Name:      "wall",
				Center:    mgl64.Vec3{0, 0, 0},
				Normal:    geom.AxisForward,
				Width:     300,
				Height:    300,
				Thickness: 10,
				Portable:  true,
			})
			s := lvl.Walls[0].Surface
			s.AddRectangle(r2.Vec{X: -60, Y: -120}, r2.Vec{X: 60, Y: 120}, r2.Vec{}, geom.Rotator{})
			s.RebuildCollision()

			fx := newFixture(t, lvl)
			physics := NewPhysicsSystem(fx.world, lvl, fx.cfg)
			e := fx.host.NewProp(geom.NewTransform(mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()), mgl64.Vec3{-600, 0, 0}, false)
			ecs.NewMap[components.Body](fx.world).Get(e).Profile = tt.profile

			for i := 0; i < 20; i++ {
				physics.Update(fx.cfg.Physics.DT)
			}

			x := ecs.NewMap[components.Pose](fx.world).Get(e).Location.X()
			if passed := x < -50; passed != tt.pass {
				t.Errorf("x = %v, passed = %v, want %v", x, passed, tt.pass)
			}
		})
	}
}

func TestControllerMovesAlongLook(t *testing.T) {
	fx := newFixture(t, nil)
	ctrlSys := NewControllerSystem(fx.world, fx.cfg)
	player := fx.host.NewPlayer(geom.Identity())

	ctrls := ecs.NewMap[components.Controller](fx.world)
	c := ctrls.Get(player)
	c.ControlRotation = geom.YawQuat(90)
	c.MoveInput = mgl64.Vec2{1, 0}
	ecs.NewMap[components.Body](fx.world).Get(player).Grounded = true

	ctrlSys.Update()

	vel := ecs.NewMap[components.Velocity](fx.world).Get(player)
	if want := (mgl64.Vec3{0, fx.cfg.Player.MoveSpeed, 0}); !vecNear(vel.Vec3, want, 1e-9) {
		t.Errorf("velocity = %v, want %v", vel.Vec3, want)
	}
	pose := ecs.NewMap[components.Pose](fx.world).Get(player)
	if !geom.QuatEqual(pose.Rotation, geom.YawQuat(90), 1e-9) {
		t.Errorf("body rotation = %v, want yaw 90", pose.Rotation)
	}
	if !ecs.NewMap[components.Anim](fx.world).Get(player).IsMoving {
		t.Error("IsMoving not set")
	}
}

func TestAttachmentsFollowParent(t *testing.T) {
	fx := newFixture(t, nil)
	attSys := NewAttachmentSystem(fx.world)
	player := fx.host.NewPlayer(geom.Identity())

	poses := ecs.NewMap[components.Pose](fx.world)
	poses.Get(player).Transform = geom.NewTransform(mgl64.Vec3{100, 0, 0}, geom.YawQuat(90))
	attSys.Update()

	weapon := fx.host.AttachmentsOf(player)[0]
	want := mgl64.Vec3{100 - weaponOffsets[0].Y(), weaponOffsets[0].X(), weaponOffsets[0].Z()}
	if got := poses.Get(weapon).Location; !vecNear(got, want, 1e-9) {
		t.Errorf("weapon location = %v, want %v", got, want)
	}
}
