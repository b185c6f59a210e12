package telemetry

// Collector accumulates events within time windows and produces WindowStats.
// A nil Collector ignores everything, so systems can record unconditionally.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32
	tick            int32

	// Event counters for current window
	teleports          int
	clonesSpawned      int
	clonesDestroyed    int
	portalsPlaced      int
	portalsDestroyed   int
	placementsRejected int
	captures           int
	speeds             []float64

	// Events not yet written out
	pending []Event
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// SetTick sets the tick stamped onto recorded events.
func (c *Collector) SetTick(tick int32) {
	if c == nil {
		return
	}
	c.tick = tick
}

// Tick returns the current tick.
func (c *Collector) Tick() int32 {
	if c == nil {
		return 0
	}
	return c.tick
}

// Record counts an event and queues it for output. The event's Tick is
// overwritten with the collector's current tick.
func (c *Collector) Record(e Event) {
	if c == nil {
		return
	}
	e.Tick = c.tick

	switch e.Type {
	case EventTeleport:
		c.teleports++
		c.speeds = append(c.speeds, e.Speed)
	case EventCloneSpawn:
		c.clonesSpawned++
	case EventCloneDestroy:
		c.clonesDestroyed++
	case EventPortalPlaced:
		c.portalsPlaced++
	case EventPortalDestroyed:
		c.portalsDestroyed++
	case EventPlacementRejected:
		c.placementsRejected++
	case EventCapture:
		c.captures++
		// Captures happen every frame; counted but not logged individually.
		return
	}
	c.pending = append(c.pending, e)
}

// DrainEvents returns and clears the queued events.
func (c *Collector) DrainEvents() []Event {
	if c == nil {
		return nil
	}
	out := c.pending
	c.pending = nil
	return out
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	if c == nil {
		return false
	}
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// agents, clones and portals are the live registry sizes at window end.
func (c *Collector) Flush(currentTick int32, agents, clones, portals int) WindowStats {
	if c == nil {
		return WindowStats{}
	}

	mean, p50, p90 := ComputeSpeedStats(c.speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Agents:  agents,
		Clones:  clones,
		Portals: portals,

		Teleports:          c.teleports,
		ClonesSpawned:      c.clonesSpawned,
		ClonesDestroyed:    c.clonesDestroyed,
		PortalsPlaced:      c.portalsPlaced,
		PortalsDestroyed:   c.portalsDestroyed,
		PlacementsRejected: c.placementsRejected,
		Captures:           c.captures,

		TeleportSpeedMean: mean,
		TeleportSpeedP50:  p50,
		TeleportSpeedP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.teleports = 0
	c.clonesSpawned = 0
	c.clonesDestroyed = 0
	c.portalsPlaced = 0
	c.portalsDestroyed = 0
	c.placementsRejected = 0
	c.captures = 0
	c.speeds = c.speeds[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	if c == nil {
		return 0
	}
	return c.windowDurationTicks
}
