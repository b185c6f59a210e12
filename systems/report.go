package systems

// FrameReport is the manager's debug state, shown by the HUD.
type FrameReport struct {
	Tick                  int
	HasLineOfSight        bool    // a corner of the first portal was visible
	CapturedLastFrame     bool    // the first portal's capture was refreshed
	CanTeleportNextUpdate bool    // the player is armed at some portal
	HasTeleported         bool    // latched for a while after a player teleport
	TeleportLatch         float64 // share of the latch still to run, in [0, 1]
	InsideCollider        bool    // the player is inside a detection box
	PDot                  float64 // player's signed distance to the last portal plane it was inside

	Agents  int
	Clones  int
	Portals int
}

func (m *PortalManager) advanceReport() {
	r := &m.report
	r.Tick++
	if wrap := m.cfg.HUD.TickWrap; wrap > 0 && r.Tick > wrap {
		r.Tick = 0
	}
	if m.teleportLatch > 0 {
		m.teleportLatch--
		if m.teleportLatch == 0 {
			r.HasTeleported = false
		}
	}
	r.TeleportLatch = float64(m.teleportLatch) / float64(max(m.cfg.HUD.TeleportLatch, 1))
	r.Agents = len(m.agents)
	r.Clones = len(m.clones)
	r.Portals = len(m.Portals())
}
