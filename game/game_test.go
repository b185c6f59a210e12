package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/systems"
	"github.com/pthm-cable/portals/telemetry"
)

// newHeadless starts a headless game on a builtin level and records every
// event it emits.
func newHeadless(t *testing.T, lvl string) (*Game, *[]telemetry.Event) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	var events []telemetry.Event
	g, err := NewGame(Options{
		Level:    lvl,
		Headless: true,
		EventCallback: func(evs []telemetry.Event) {
			events = append(events, evs...)
		},
	}, cfg)
	if err != nil {
		t.Fatalf("NewGame(%q): %v", lvl, err)
	}
	t.Cleanup(g.Unload)
	return g, &events
}

func (g *Game) run(ticks int) {
	for i := 0; i < ticks; i++ {
		g.UpdateHeadless()
	}
}

func countEvents(events []telemetry.Event, typ telemetry.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// firstOfKind returns the first tracked agent of kind.
func (g *Game) firstOfKind(kind components.Kind) (ecs.Entity, bool) {
	for _, e := range g.manager.Agents() {
		if g.agentMap.Get(e).Kind == kind {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

func TestNewGameSpawnsDefaultPlayer(t *testing.T) {
	g, _ := newHeadless(t, "corridor")

	player, ok := g.manager.Player()
	if !ok {
		t.Fatal("no player registered")
	}
	if got := g.poseMap.Get(player).Location; got != g.cfg.Player.Start {
		t.Errorf("player at %v, want %v", got, g.cfg.Player.Start)
	}
	if _, ok := g.firstOfKind(components.KindProp); !ok {
		t.Error("corridor crate was not spawned")
	}
	if g.camera.Eye.Location.Z() <= g.cfg.Player.Start.Z() {
		t.Errorf("camera at %v, want above the player", g.camera.Eye.Location)
	}
}

func TestNewGameUnknownLevel(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewGame(Options{Level: "no-such-level", Headless: true}, cfg); err == nil {
		t.Error("NewGame with an unknown level should fail")
	}
}

func TestCorridorLoop(t *testing.T) {
	g, events := newHeadless(t, "corridor")
	g.run(60)

	orange, blue := g.manager.Portal(true), g.manager.Portal(false)
	if orange == nil || blue == nil {
		t.Fatalf("portals = %v, %v, want both placed", orange, blue)
	}
	if orange.Linked != blue || blue.Linked != orange {
		t.Error("scripted portals are not linked")
	}

	if n := countEvents(*events, telemetry.EventTeleport); n < 1 {
		t.Fatalf("teleports = %d, want at least 1", n)
	}

	crate, ok := g.firstOfKind(components.KindProp)
	if !ok {
		t.Fatal("crate is gone")
	}
	pos := g.poseMap.Get(crate).Location
	vel := g.velMap.Get(crate).Vec3
	if pos.X() <= 0 || pos.X() >= 500 {
		t.Errorf("crate x = %v, want between the middle and the east wall", pos.X())
	}
	if vel.X() >= 0 {
		t.Errorf("crate velocity = %v, want heading west", vel)
	}
}

func TestNarrowWallRejectsSecondPortal(t *testing.T) {
	g, events := newHeadless(t, "narrow")
	g.run(45)

	if g.manager.Portal(false) == nil {
		t.Fatal("blue portal was not placed")
	}
	if g.manager.Portal(true) != nil {
		t.Error("orange portal placed on a full wall")
	}
	if n := countEvents(*events, telemetry.EventPlacementRejected); n != 1 {
		t.Errorf("rejections = %d, want 1", n)
	}
	if n := countEvents(*events, telemetry.EventPortalPlaced); n != 1 {
		t.Errorf("placements = %d, want 1", n)
	}
}

func TestHeadlessCaptureTargets(t *testing.T) {
	g, _ := newHeadless(t, "corridor")
	g.run(20)

	mem := g.capturer.(*memCapturer)
	if mem.live != 4 {
		t.Errorf("live targets = %d, want 4 (two per portal)", mem.live)
	}
	if mem.captures == 0 {
		t.Error("no captures with the blue portal in view")
	}

	g.manager.DestroyPortal(true)
	g.manager.DestroyPortal(false)
	if mem.live != 0 {
		t.Errorf("live targets after destroy = %d, want 0", mem.live)
	}
}

func TestLineTrace(t *testing.T) {
	g, _ := newHeadless(t, "corridor")
	g.run(20)
	orange := g.manager.Portal(true)
	if orange == nil {
		t.Fatal("orange portal was not placed")
	}

	tests := []struct {
		name           string
		from, to       mgl64.Vec3
		throughPortals bool
		wantHit        bool
		wantPortal     bool
	}{
		{"stops on portal", mgl64.Vec3{0, 0, 150}, mgl64.Vec3{-600, 0, 150}, false, true, true},
		{"short of portal", mgl64.Vec3{0, 0, 150}, mgl64.Vec3{-400, 0, 150}, false, false, false},
		{"wall beside portal", mgl64.Vec3{0, 200, 150}, mgl64.Vec3{-600, 200, 150}, false, true, false},
		{"through portals ignores planes", mgl64.Vec3{0, 200, 150}, mgl64.Vec3{-600, 200, 150}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := g.LineTrace(tt.from, tt.to, tt.throughPortals)
			if ok != tt.wantHit {
				t.Fatalf("LineTrace(%v, %v) hit = %v, want %v", tt.from, tt.to, ok, tt.wantHit)
			}
			if got := hit.Portal != nil; got != tt.wantPortal {
				t.Errorf("LineTrace(%v, %v) portal = %v, want %v", tt.from, tt.to, got, tt.wantPortal)
			}
			if tt.wantPortal && hit.Portal != orange {
				t.Errorf("hit portal #%d, want orange #%d", hit.Portal.ID, orange.ID)
			}
		})
	}
}

func TestPortalPlaneBackFace(t *testing.T) {
	g, _ := newHeadless(t, "corridor")
	g.run(20)
	orange := g.manager.Portal(true)
	if orange == nil {
		t.Fatal("orange portal was not placed")
	}

	from := orange.Transform.Location.Sub(orange.Transform.Forward().Mul(50))
	to := orange.Transform.Location.Add(orange.Transform.Forward().Mul(50))
	if _, ok := portalPlaneHit(orange, from, to.Sub(from)); ok {
		t.Error("a trace from behind the portal should pass its plane")
	}
	if _, ok := portalPlaneHit(orange, to, from.Sub(to)); !ok {
		t.Error("a trace from the front should hit the portal plane")
	}
}

func TestCameraFollowsRollCorrection(t *testing.T) {
	g, _ := newHeadless(t, "corridor")
	player, ok := g.manager.Player()
	if !ok {
		t.Fatal("no player registered")
	}

	rolled := geom.Rotator{Roll: 30}.Quat()
	ctrl := g.ctrlMap.Get(player)
	ctrl.ControlRotation = rolled
	ctrl.CameraRotation = rolled
	g.Step()

	ctrl = g.ctrlMap.Get(player)
	if geom.QuatEqual(ctrl.CameraRotation, rolled, 1e-9) {
		t.Fatal("roll correction did not run")
	}
	want := systems.EyeTransform(g.poseMap.Get(player).Transform, ctrl.CameraRotation, g.cfg.Player.EyeHeight)
	if !geom.QuatEqual(g.camera.Eye.Rotation, want.Rotation, 1e-9) {
		t.Errorf("camera rotation = %v, want the corrected eye %v", g.camera.Eye.Rotation, want.Rotation)
	}
	if got := g.ViewTransform().Location; got.Sub(want.Location).Len() > 1e-9 {
		t.Errorf("ViewTransform() at %v, want %v", got, want.Location)
	}
}

func TestPauseStopsTicks(t *testing.T) {
	g, _ := newHeadless(t, "room")
	g.run(3)
	g.paused = true
	g.run(5)
	if g.Tick() != 3 {
		t.Errorf("Tick() = %d, want 3 while paused", g.Tick())
	}
}

func TestSetConfig(t *testing.T) {
	g, _ := newHeadless(t, "room")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Screen.FOV = 70
	g.setConfig(cfg)
	if g.camera.FOV != 70 {
		t.Errorf("camera FOV = %v, want 70", g.camera.FOV)
	}
	if config.Cfg() != cfg {
		t.Error("global config was not replaced")
	}
}
