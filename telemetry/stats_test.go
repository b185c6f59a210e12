package telemetry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}
	mean, p50, p90 := ComputeSpeedStats(values)

	if math.Abs(mean-550) > 0.001 {
		t.Errorf("mean = %v, want 550", mean)
	}
	if math.Abs(p50-550) > 0.001 {
		t.Errorf("p50 = %v, want 550", p50)
	}
	if math.Abs(p90-910) > 0.001 {
		t.Errorf("p90 = %v, want 910", p90)
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, p50, p90 := ComputeSpeedStats(nil)
	if mean != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks() = %d, want 10", c.WindowDurationTicks())
	}

	c.SetTick(3)
	c.Record(NewTeleportEvent(0, 1, 0, 1, 2, mgl64.Vec3{}, 100))
	c.Record(NewTeleportEvent(0, 1, 0, 2, 1, mgl64.Vec3{}, 300))
	c.Record(NewCloneSpawnEvent(0, 1, 0, 1, 7))
	c.Record(NewCaptureEvent(0, 1))
	c.Record(NewPlacementRejectedEvent(0, true, mgl64.Vec3{}))

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("ShouldFlush(10) = false at the window end")
	}

	s := c.Flush(10, 2, 1, 2)
	if s.Teleports != 2 || s.ClonesSpawned != 1 || s.Captures != 1 || s.PlacementsRejected != 1 {
		t.Errorf("counters = %+v", s)
	}
	if s.TeleportSpeedMean != 200 {
		t.Errorf("TeleportSpeedMean = %v, want 200", s.TeleportSpeedMean)
	}
	if s.Agents != 2 || s.Clones != 1 || s.Portals != 2 {
		t.Errorf("registry sizes = %d/%d/%d, want 2/1/2", s.Agents, s.Clones, s.Portals)
	}

	events := c.DrainEvents()
	if len(events) != 4 {
		t.Fatalf("drained %d events, want 4 (captures are not queued)", len(events))
	}
	for _, e := range events {
		if e.Tick != 3 {
			t.Errorf("event tick = %d, want 3", e.Tick)
		}
	}
	if len(c.DrainEvents()) != 0 {
		t.Error("second drain should be empty")
	}

	next := c.Flush(20, 0, 0, 0)
	if next.Teleports != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.SetTick(1)
	c.Record(NewCaptureEvent(0, 1))
	if c.ShouldFlush(100) || c.DrainEvents() != nil {
		t.Error("nil collector should be inert")
	}
}
