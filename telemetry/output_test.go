package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v, want nil, nil", om, err)
	}
	// Methods are nil-safe.
	if err := om.WriteEvents([]Event{{}}); err != nil {
		t.Errorf("WriteEvents on nil manager: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManagerWritesHeadersOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	events := []Event{
		NewTeleportEvent(5, 1, 0, 1, 2, mgl64.Vec3{1, 2, 3}, 100),
		NewPortalPlacedEvent(6, 2, true, mgl64.Vec3{}),
	}
	if err := om.WriteEvents(events[:1]); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents(events[1:]); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 60, Teleports: 1}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("events.csv has %d lines, want 3:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "tick,type,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "teleport") || !strings.Contains(lines[2], "portal_placed") {
		t.Errorf("rows = %q", lines[1:])
	}

	stats, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stats), "window_end") {
		t.Errorf("telemetry.csv missing header:\n%s", stats)
	}
}
