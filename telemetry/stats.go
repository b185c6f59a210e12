package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Registry sizes at window end
	Agents  int `csv:"agents"`
	Clones  int `csv:"clones"`
	Portals int `csv:"portals"`

	// Events during window
	Teleports          int `csv:"teleports"`
	ClonesSpawned      int `csv:"clones_spawned"`
	ClonesDestroyed    int `csv:"clones_destroyed"`
	PortalsPlaced      int `csv:"portals_placed"`
	PortalsDestroyed   int `csv:"portals_destroyed"`
	PlacementsRejected int `csv:"placements_rejected"`
	Captures           int `csv:"captures"`

	// Crossing speed distribution
	TeleportSpeedMean float64 `csv:"teleport_speed_mean"`
	TeleportSpeedP50  float64 `csv:"teleport_speed_p50"`
	TeleportSpeedP90  float64 `csv:"teleport_speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean and percentiles of crossing speeds.
func ComputeSpeedStats(values []float64) (mean, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogStats logs the window at info level.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"clones", s.Clones,
		"portals", s.Portals,
		"teleports", s.Teleports,
		"clones_spawned", s.ClonesSpawned,
		"clones_destroyed", s.ClonesDestroyed,
		"placed", s.PortalsPlaced,
		"rejected", s.PlacementsRejected,
		"captures", s.Captures,
	)
}
