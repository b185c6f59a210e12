package game

import (
	"log/slog"
)

// drainEvents hands this tick's events to the event log, the callback and
// the CSV output.
func (g *Game) drainEvents() {
	events := g.collector.DrainEvents()
	if len(events) == 0 {
		return
	}

	g.eventLog.Push(events)

	if g.eventCallback != nil {
		g.eventCallback(events)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteEvents(events); err != nil {
			slog.Error("failed to write events", "error", err)
		}
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Flush the stats window
	stats := g.collector.Flush(g.tick, len(g.manager.Agents()), len(g.manager.Clones()), len(g.manager.Portals()))
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
