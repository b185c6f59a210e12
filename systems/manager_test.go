package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/geom"
)

func TestSimpleTeleport(t *testing.T) {
	fx := newFixture(t, nil)
	a, b := fx.standardPair()
	if a.Linked != b || b.Linked != a {
		t.Fatal("portals not linked")
	}

	e := fx.host.NewProp(geom.NewTransform(mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()), mgl64.Vec3{-600, 0, 0}, false)
	poses := ecs.NewMap[components.Pose](fx.world)
	vels := ecs.NewMap[components.Velocity](fx.world)
	agents := ecs.NewMap[components.Agent](fx.world)
	bodies := ecs.NewMap[components.Body](fx.world)

	fx.manager.PostPhysics()
	if !agents.Get(e).StatusAt(a.ID) {
		t.Fatal("agent in front of orange should be armed")
	}
	if bodies.Get(e).Profile != fx.cfg.Collision.AgentProfile {
		t.Errorf("profile = %q, want %q while crossing", bodies.Get(e).Profile, fx.cfg.Collision.AgentProfile)
	}

	// Cross the orange plane.
	poses.Get(e).Location = mgl64.Vec3{-10, 0, 0}
	fx.manager.PostPhysics()

	if got, want := poses.Get(e).Location, (mgl64.Vec3{490, 0, 0}); !vecNear(got, want, 1e-9) {
		t.Errorf("location after teleport = %v, want %v", got, want)
	}
	if got, want := vels.Get(e).Vec3, (mgl64.Vec3{-600, 0, 0}); !vecNear(got, want, 1e-9) {
		t.Errorf("velocity after teleport = %v, want %v", got, want)
	}
	if !geom.QuatEqual(poses.Get(e).Rotation, mgl64.QuatIdent(), 1e-9) {
		t.Errorf("rotation after teleport = %v, want identity", poses.Get(e).Rotation)
	}
	agent := agents.Get(e)
	if agent.StatusAt(a.ID) || !agent.StatusAt(b.ID) {
		t.Errorf("status = %v, want armed at blue only", agent.Status)
	}
	if !agent.ClipOn || !vecNear(agent.ClipPlane.Normal, b.Transform.Forward().Mul(-1), 1e-9) {
		t.Errorf("clip plane = %+v, want facing into blue", agent.ClipPlane)
	}

	// Walk out of the blue box: clip off, profile restored.
	poses.Get(e).Location = mgl64.Vec3{200, 0, 0}
	fx.manager.PostPhysics()
	if agents.Get(e).ClipOn {
		t.Error("clip plane still on outside every portal")
	}
	if bodies.Get(e).Profile != fx.cfg.Collision.DefaultProfile {
		t.Errorf("profile = %q, want %q restored", bodies.Get(e).Profile, fx.cfg.Collision.DefaultProfile)
	}
}

func TestNoTeleportWithoutArming(t *testing.T) {
	fx := newFixture(t, nil)
	fx.standardPair()

	// Appears behind orange without ever being in front of it.
	e := fx.host.NewProp(geom.NewTransform(mgl64.Vec3{-10, 0, 0}, mgl64.QuatIdent()), mgl64.Vec3{}, false)
	fx.manager.PostPhysics()

	if got := ecs.NewMap[components.Pose](fx.world).Get(e).Location; got != (mgl64.Vec3{-10, 0, 0}) {
		t.Errorf("location = %v, want unchanged", got)
	}
}

func TestRegisterRefusals(t *testing.T) {
	fx := newFixture(t, nil)
	agents := ecs.NewMap[components.Agent](fx.world)

	e := fx.host.NewProp(geom.Identity(), mgl64.Vec3{}, false)
	if got := len(fx.manager.Agents()); got != 1 {
		t.Fatalf("tracked agents = %d, want 1", got)
	}

	clone, ok := fx.host.SpawnClone(e, geom.Identity())
	if !ok {
		t.Fatal("SpawnClone failed")
	}
	if fx.manager.Register(clone) {
		t.Error("a clone must not register")
	}

	agents.Get(e).DoNotTeleport = true
	fx.manager.Unregister(e)
	if fx.manager.Register(e) {
		t.Error("an opted-out agent must not register")
	}
	if got := len(fx.manager.Agents()); got != 0 {
		t.Errorf("tracked agents = %d, want 0", got)
	}
}

func TestAtMostOneClone(t *testing.T) {
	fx := newFixture(t, nil)
	a, _ := fx.standardPair()
	e := fx.host.NewProp(geom.NewTransform(mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()), mgl64.Vec3{}, false)

	var first ecs.Entity
	for i := 0; i < 5; i++ {
		fx.frame()
		clones := fx.manager.Clones()
		if len(clones) != 1 {
			t.Fatalf("frame %d: %d clones, want 1", i, len(clones))
		}
		c := clones[CloneKey{Agent: e, Portal: a.ID}]
		if i == 0 {
			first = c
		} else if c != first {
			t.Fatalf("frame %d: clone respawned", i)
		}
	}

	agent := ecs.NewMap[components.Agent](fx.world).Get(first)
	if !agent.Cloned {
		t.Error("clone not marked as cloned")
	}
	if got, want := ecs.NewMap[components.Pose](fx.world).Get(first).Location, (mgl64.Vec3{550, 0, 0}); !vecNear(got, want, 1e-9) {
		t.Errorf("clone location = %v, want %v", got, want)
	}
	if got := len(fx.manager.Agents()); got != 1 {
		t.Errorf("tracked agents = %d, want 1", got)
	}
}

func TestCloneTeardown(t *testing.T) {
	fx := newFixture(t, nil)
	a, _ := fx.standardPair()
	player := fx.host.NewPlayer(geom.NewTransform(mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()))

	fx.frame()
	clone, ok := fx.manager.Clones()[CloneKey{Agent: player, Portal: a.ID}]
	if !ok {
		t.Fatal("no clone for the player")
	}
	if got := count[components.Weapon](fx.world); got != 4 {
		t.Errorf("weapons = %d, want 4 with the clone's copies", got)
	}
	if got := len(fx.host.AttachmentsOf(clone)); got != 2 {
		t.Errorf("clone attachments = %d, want 2", got)
	}

	ecs.NewMap[components.Pose](fx.world).Get(player).Location = mgl64.Vec3{300, 0, 0}
	fx.frame()

	if fx.world.Alive(clone) {
		t.Error("clone still alive after leaving the box")
	}
	if got := len(fx.manager.Clones()); got != 0 {
		t.Errorf("clones = %d, want 0", got)
	}
	if got := count[components.Weapon](fx.world); got != 2 {
		t.Errorf("weapons = %d, want 2", got)
	}
}

func TestRemovedAgentLosesClones(t *testing.T) {
	fx := newFixture(t, nil)
	a, _ := fx.standardPair()
	e := fx.host.NewProp(geom.NewTransform(mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()), mgl64.Vec3{}, false)

	fx.frame()
	clone, ok := fx.manager.Clones()[CloneKey{Agent: e, Portal: a.ID}]
	if !ok {
		t.Fatal("no clone for the prop")
	}

	// Removed behind the manager's back, without Unregister.
	fx.world.RemoveEntity(e)
	for i := 0; i < 3; i++ {
		fx.frame()
	}

	if got := len(fx.manager.Agents()); got != 1 {
		t.Errorf("tracked agents = %d, want 1 (removed agents stay tracked)", got)
	}
	if got := len(fx.manager.Clones()); got != 0 {
		t.Errorf("clones = %d, want 0", got)
	}
	if fx.world.Alive(clone) {
		t.Error("clone of a removed agent is still alive")
	}
}

func TestDestroyPortalClearsClones(t *testing.T) {
	fx := newFixture(t, nil)
	a, b := fx.standardPair()
	e := fx.host.NewProp(geom.NewTransform(mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()), mgl64.Vec3{}, false)
	fx.frame()

	released := fx.host.released
	fx.manager.DestroyPortal(true)

	if fx.manager.Portal(true) != nil {
		t.Error("orange slot not cleared")
	}
	if b.Linked != nil {
		t.Error("blue still linked to a destroyed portal")
	}
	if !a.Destroyed() {
		t.Error("orange not destroyed")
	}
	if got := len(fx.manager.Clones()); got != 0 {
		t.Errorf("clones = %d, want 0", got)
	}
	if ecs.NewMap[components.Agent](fx.world).Get(e).StatusAt(a.ID) {
		t.Error("status at a destroyed portal survived")
	}
	if got := fx.host.released - released; got != 2 {
		t.Errorf("released targets = %d, want 2", got)
	}
}

func TestCreatePortalReplacesSlot(t *testing.T) {
	fx := newFixture(t, nil)
	first, _ := fx.standardPair()
	fx.manager.UpdateViewport(1280, 720)
	second := fx.manager.CreatePortal(mgl64.Vec3{0, 300, 0}, mgl64.QuatIdent(), true, nil, 0)

	if !first.Destroyed() {
		t.Error("old orange not destroyed")
	}
	if second.ID == first.ID {
		t.Error("portal ids must not repeat")
	}
	if got := fx.manager.Portal(false).Linked; got != second {
		t.Error("blue not relinked to the new orange")
	}
	if second.EdgeColor != fx.cfg.Portal.OrangeColor {
		t.Errorf("edge colour = %v, want %v", second.EdgeColor, fx.cfg.Portal.OrangeColor)
	}
	if w, h := second.TargetSize(); w != 1524 || h != 857 {
		t.Errorf("target size = %dx%d, want 1524x857", w, h)
	}
}

func TestUpdateViewportFallback(t *testing.T) {
	fx := newFixture(t, nil)
	a, _ := fx.standardPair()

	if fx.manager.UpdateViewport(0, 0) {
		t.Error("zero viewport should report false")
	}
	if w, h := a.TargetSize(); w != 1524 || h != 1524 {
		t.Errorf("fallback target size = %dx%d, want 1524x1524", w, h)
	}
}

func TestRollCorrection(t *testing.T) {
	fx := newFixture(t, nil)
	player := fx.host.NewPlayer(geom.Identity())
	ctrls := ecs.NewMap[components.Controller](fx.world)

	c := ctrls.Get(player)
	c.ControlRotation = geom.Rotator{Pitch: 10, Yaw: 45, Roll: 30}.Quat()
	c.UseControllerYaw = false
	c.UseControllerRoll = false

	for i := 0; i < 600; i++ {
		fx.manager.correctRoll(fx.cfg.Physics.DT)
	}

	c = ctrls.Get(player)
	r := geom.RotatorFromQuat(c.ControlRotation)
	if !scalar.EqualWithinAbs(r.Roll, 0, 1e-3) {
		t.Errorf("roll = %v, want 0", r.Roll)
	}
	if !scalar.EqualWithinAbs(r.Yaw, 45, 1e-3) || !scalar.EqualWithinAbs(r.Pitch, 10, 1e-3) {
		t.Errorf("look = %+v, want yaw 45 pitch 10 kept", r)
	}
	if !c.UseControllerYaw || !c.UseControllerRoll {
		t.Error("controller following not restored")
	}
}

func TestRollCorrectionWithoutPlayer(t *testing.T) {
	fx := newFixture(t, nil)
	fx.manager.correctRoll(1)
}

func TestSlerpShortest(t *testing.T) {
	a := mgl64.QuatIdent()
	b := geom.YawQuat(90)
	tests := []struct {
		name string
		to   mgl64.Quat
	}{
		{"same hemisphere", b},
		{"flipped sign", b.Scale(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slerpShortest(a, tt.to, 0.5)
			if !geom.QuatEqual(got, geom.YawQuat(45), 1e-9) {
				t.Errorf("slerpShortest(I, %v, 0.5) = %v, want yaw 45", tt.to, got)
			}
		})
	}
}

func TestFrameReport(t *testing.T) {
	fx := newFixture(t, nil)
	fx.standardPair()
	player := fx.host.NewPlayer(geom.NewTransform(mgl64.Vec3{50, 0, 0}, mgl64.QuatIdent()))

	fx.frame()
	r := fx.manager.Report()
	if !r.InsideCollider || !r.CanTeleportNextUpdate {
		t.Errorf("report = %+v, want inside and armed", r)
	}
	if r.Agents != 1 || r.Clones != 1 || r.Portals != 2 {
		t.Errorf("counts = %d/%d/%d, want 1/1/2", r.Agents, r.Clones, r.Portals)
	}

	ecs.NewMap[components.Pose](fx.world).Get(player).Location = mgl64.Vec3{-10, 0, 0}
	fx.frame()
	if !fx.manager.Report().HasTeleported {
		t.Error("teleport not reported")
	}
	if l := fx.manager.Report().TeleportLatch; l <= 0 || l > 1 {
		t.Errorf("TeleportLatch = %v, want in (0, 1] right after a teleport", l)
	}

	for i := 0; i < fx.cfg.HUD.TeleportLatch; i++ {
		fx.frame()
	}
	if fx.manager.Report().HasTeleported {
		t.Error("teleport latch did not expire")
	}
	if l := fx.manager.Report().TeleportLatch; l != 0 {
		t.Errorf("TeleportLatch = %v, want 0 once expired", l)
	}
}
