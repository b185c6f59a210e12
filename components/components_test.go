package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAgentStatus(t *testing.T) {
	a := NewAgent(KindProp)
	if a.StatusAt(3) {
		t.Error("absent status should read false")
	}
	a.SetStatus(3, true)
	if !a.StatusAt(3) {
		t.Error("StatusAt(3) = false after SetStatus(3, true)")
	}
	a.SetStatus(3, false)
	if a.StatusAt(3) || len(a.Status) != 0 {
		t.Errorf("status map = %v, want empty", a.Status)
	}

	var zero Agent
	zero.SetStatus(1, true)
	if !zero.StatusAt(1) {
		t.Error("SetStatus on a zero Agent should allocate the map")
	}
}

func TestSetClipPlane(t *testing.T) {
	a := NewAgent(KindPlayer)
	a.Materials = append(a.Materials, &ClipMaterial{})

	a.SetClipPlane(mgl64.Vec3{100, 0, 0}, mgl64.Vec3{1, 0, 0})

	wantPoint := mgl64.Vec3{99, 0, 0}
	wantNormal := mgl64.Vec3{-1, 0, 0}
	for i, m := range a.Materials {
		if !m.Enabled || m.Plane.Point != wantPoint || m.Plane.Normal != wantNormal {
			t.Errorf("material %d = %+v, want plane at %v facing %v", i, m, wantPoint, wantNormal)
		}
	}

	a.DisableClipPlane()
	for i, m := range a.Materials {
		if m.Enabled {
			t.Errorf("material %d still clipped", i)
		}
	}
	if a.ClipOn {
		t.Error("ClipOn = true after DisableClipPlane")
	}
}

func TestCollisionSaveRestore(t *testing.T) {
	a := NewAgent(KindProp)
	b := &Body{Profile: "Pawn"}

	a.WeakenCollision(b, "PortalAgent")
	a.WeakenCollision(b, "PortalAgent")
	if b.Profile != "PortalAgent" || !a.Weakened() {
		t.Fatalf("profile = %q, want PortalAgent", b.Profile)
	}

	a.ResetCollision(b)
	if b.Profile != "Pawn" {
		t.Errorf("profile = %q, want Pawn restored", b.Profile)
	}

	// Reset without a weaken leaves the profile alone.
	b.Profile = "Custom"
	a.ResetCollision(b)
	if b.Profile != "Custom" {
		t.Errorf("profile = %q, want Custom", b.Profile)
	}
}

func TestWeaponDelayedFire(t *testing.T) {
	tests := []struct {
		name  string
		delay int
		ticks int
	}{
		{"one frame", 1, 1},
		{"three frames", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Weapon
			w.PlayFireAnimation(true)
			if w.Fired != 0 {
				t.Fatal("delayed fire played immediately")
			}
			played := 0
			for i := 1; i <= tt.ticks+2; i++ {
				if w.Tick(tt.delay) {
					played = i
				}
			}
			if played != tt.ticks {
				t.Errorf("played on tick %d, want %d", played, tt.ticks)
			}
			if w.Fired != 1 {
				t.Errorf("Fired = %d, want 1", w.Fired)
			}
		})
	}
}

func TestKindNames(t *testing.T) {
	for i, name := range KindNames() {
		k, ok := ParseKind(name)
		if !ok || k != Kind(i) {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", name, k, ok, Kind(i))
		}
	}
	if Kind(99).String() != "Unknown" {
		t.Errorf("Kind(99).String() = %q, want Unknown", Kind(99).String())
	}
}
