package systems

import (
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/surface"
	"github.com/pthm-cable/portals/telemetry"
)

// CloneKey identifies the clone of one agent behind one portal.
type CloneKey struct {
	Agent  ecs.Entity
	Portal portal.ID
}

// PortalManager owns the portal pair, the teleportable agents and their
// clones. The frame loop must call PostPhysics after the physics step and
// PostUpdate after every other system, in that order, once per frame.
type PortalManager struct {
	world     *ecs.World
	host      Host
	cfg       *config.Config
	collector *telemetry.Collector

	poseMap        *ecs.Map[components.Pose]
	velMap         *ecs.Map[components.Velocity]
	bodyMap        *ecs.Map[components.Body]
	agentMap       *ecs.Map[components.Agent]
	controllerMap  *ecs.Map[components.Controller]
	animMap        *ecs.Map[components.Anim]
	attachmentsMap *ecs.Map[components.Attachments]
	attachmentMap  *ecs.Map[components.Attachment]
	weaponMap      *ecs.Map[components.Weapon]

	orange *portal.Portal
	blue   *portal.Portal
	nextID portal.ID

	agents  []ecs.Entity // registration order
	tracked map[ecs.Entity]struct{}
	clones  map[CloneKey]ecs.Entity

	player    ecs.Entity
	hasPlayer bool

	viewportW, viewportH float64

	report        FrameReport
	teleportLatch int
}

// NewPortalManager creates a manager for the agents of w.
func NewPortalManager(w *ecs.World, host Host, cfg *config.Config) *PortalManager {
	return &PortalManager{
		world: w,
		host:  host,
		cfg:   cfg,

		poseMap:        ecs.NewMap[components.Pose](w),
		velMap:         ecs.NewMap[components.Velocity](w),
		bodyMap:        ecs.NewMap[components.Body](w),
		agentMap:       ecs.NewMap[components.Agent](w),
		controllerMap:  ecs.NewMap[components.Controller](w),
		animMap:        ecs.NewMap[components.Anim](w),
		attachmentsMap: ecs.NewMap[components.Attachments](w),
		attachmentMap:  ecs.NewMap[components.Attachment](w),
		weaponMap:      ecs.NewMap[components.Weapon](w),

		tracked:   make(map[ecs.Entity]struct{}),
		clones:    make(map[CloneKey]ecs.Entity),
		viewportW: portal.DefaultViewportW,
		viewportH: portal.DefaultViewportH,
	}
}

// SetCollector attaches a telemetry collector. A nil collector disables events.
func (m *PortalManager) SetCollector(c *telemetry.Collector) {
	m.collector = c
}

// SetConfig swaps the configuration, used on hot reload.
func (m *PortalManager) SetConfig(cfg *config.Config) {
	m.cfg = cfg
}

// Register starts tracking e. Clones, attached entities and agents that
// opted out of teleportation are refused.
func (m *PortalManager) Register(e ecs.Entity) bool {
	if !m.world.Alive(e) || !m.agentMap.Has(e) {
		slog.Warn("register: not an agent", "entity", e.ID())
		return false
	}
	a := m.agentMap.Get(e)
	if a.Cloned || a.Attached || a.DoNotTeleport {
		return false
	}
	if _, ok := m.tracked[e]; ok {
		return true
	}
	m.tracked[e] = struct{}{}
	m.agents = append(m.agents, e)
	if a.PlayerControlled && m.controllerMap.Has(e) {
		m.player = e
		m.hasPlayer = true
	}
	return true
}

// Unregister stops tracking e and tears down its clones.
func (m *PortalManager) Unregister(e ecs.Entity) {
	if _, ok := m.tracked[e]; !ok {
		return
	}
	delete(m.tracked, e)
	m.agents = slices.DeleteFunc(m.agents, func(x ecs.Entity) bool { return x == e })
	m.destroyClonesOf(e)
	if m.hasPlayer && m.player == e {
		m.hasPlayer = false
	}
}

// Player returns the tracked player-controlled agent.
func (m *PortalManager) Player() (ecs.Entity, bool) {
	return m.player, m.hasPlayer
}

// Portal returns the portal in the orange or blue slot, or nil.
func (m *PortalManager) Portal(orange bool) *portal.Portal {
	if orange {
		return m.orange
	}
	return m.blue
}

// Portals returns the placed portals, orange first.
func (m *PortalManager) Portals() []*portal.Portal {
	out := make([]*portal.Portal, 0, 2)
	if m.orange != nil {
		out = append(out, m.orange)
	}
	if m.blue != nil {
		out = append(out, m.blue)
	}
	return out
}

// linked returns the placed portals that have a partner.
func (m *PortalManager) linked() []*portal.Portal {
	out := m.Portals()
	return slices.DeleteFunc(out, func(p *portal.Portal) bool { return p.Linked == nil })
}

// Agents returns the tracked agents in registration order.
func (m *PortalManager) Agents() []ecs.Entity {
	return slices.Clone(m.agents)
}

// Clones returns a copy of the clone registry.
func (m *PortalManager) Clones() map[CloneKey]ecs.Entity {
	out := make(map[CloneKey]ecs.Entity, len(m.clones))
	for k, v := range m.clones {
		out[k] = v
	}
	return out
}

// Report returns the debug state of the last frame.
func (m *PortalManager) Report() FrameReport {
	return m.report
}

// CreatePortal places a portal in the orange or blue slot, replacing any
// portal already there. rotation is the placement frame (forward along the
// surface tangent, up into the surface); the configured mesh correction turns
// it into the portal frame. Both portals are linked once both slots are full.
func (m *PortalManager) CreatePortal(location mgl64.Vec3, rotation mgl64.Quat, orange bool, surf *surface.Surface, rectID int) *portal.Portal {
	if m.Portal(orange) != nil {
		m.DestroyPortal(orange)
	}

	rot := rotation.Mul(m.cfg.Portal.RotationCorrection.Quat()).Normalize()
	m.nextID++
	p := portal.New(m.nextID, orange, geom.NewTransform(location, rot), m.portalOptions(), m.host)
	p.SetSurface(surf, rectID)
	if orange {
		p.SetColor(m.cfg.Portal.OrangeColor)
		m.orange = p
	} else {
		p.SetColor(m.cfg.Portal.BlueColor)
		m.blue = p
	}

	if m.orange != nil && m.blue != nil {
		portal.Link(m.orange, m.blue)
		for _, q := range []*portal.Portal{m.orange, m.blue} {
			if q.Surface == nil {
				slog.Warn("linked portal has no surface", "portal", q.ID)
				continue
			}
			q.Surface.RebuildCollision()
		}
	}
	p.UpdateTextureTarget(m.viewportW, m.viewportH)

	m.collector.Record(telemetry.NewPortalPlacedEvent(0, int(p.ID), orange, location))
	slog.Info("portal placed", "portal", p.ID, "orange", orange, "linked", p.Linked != nil)
	return p
}

// DestroyPortal removes the portal in the given slot together with every
// clone living behind it or its partner.
func (m *PortalManager) DestroyPortal(orange bool) {
	p := m.Portal(orange)
	if p == nil {
		return
	}

	ids := []portal.ID{p.ID}
	partner := p.Linked
	if partner != nil {
		ids = append(ids, partner.ID)
	}
	for key := range m.clones {
		if slices.Contains(ids, key.Portal) {
			m.destroyClone(key)
		}
	}
	for _, e := range m.agents {
		if !m.world.Alive(e) {
			continue
		}
		a := m.agentMap.Get(e)
		for _, id := range ids {
			a.SetStatus(id, false)
		}
	}

	p.Destroy()
	if partner != nil {
		partner.NullCapture()
	}
	if orange {
		m.orange = nil
	} else {
		m.blue = nil
	}

	m.collector.Record(telemetry.NewPortalDestroyedEvent(0, int(p.ID), orange))
	slog.Info("portal destroyed", "portal", p.ID, "orange", orange)
}

func (m *PortalManager) portalOptions() portal.Options {
	return portal.Options{
		DetectionExtent: m.cfg.Portal.DetectionExtent,
		MeshHalfSize:    m.cfg.Derived.PortalHalfSize,
		ClipOffset:      m.cfg.Portal.ClipOffset,
		TargetWidth:     m.cfg.Portal.TargetWidth,
	}
}

// UpdateViewport resizes portal render targets for a w by h viewport. A
// zero-sized viewport falls back to the default size and reports false.
func (m *PortalManager) UpdateViewport(w, h float64) bool {
	ok := w > 0 && h > 0
	if !ok {
		w, h = portal.DefaultViewportW, portal.DefaultViewportH
	}
	m.viewportW, m.viewportH = w, h
	for _, p := range m.Portals() {
		p.UpdateTextureTarget(w, h)
	}
	return ok
}

// PostPhysics runs the teleport state machine for every tracked agent
// against every linked portal.
func (m *PortalManager) PostPhysics() {
	m.report.InsideCollider = false
	m.report.CanTeleportNextUpdate = false

	portals := m.linked()
	profile := m.cfg.Collision.AgentProfile

	for _, e := range m.agents {
		if !m.world.Alive(e) {
			slog.Warn("tracked agent is gone", "entity", e.ID())
			continue
		}
		pose := m.poseMap.Get(e)
		agent := m.agentMap.Get(e)
		var body *components.Body
		if m.bodyMap.Has(e) {
			body = m.bodyMap.Get(e)
		}
		isPlayer := m.hasPlayer && e == m.player

		insideAny := false
		for _, p := range portals {
			loc := pose.Location
			if !p.IsInside(loc) {
				agent.SetStatus(p.ID, false)
				continue
			}
			if isPlayer {
				m.report.PDot = geom.PlaneFromTransform(p.Transform).Dot(loc)
			}

			if geom.InFront(p.Transform, loc) {
				if !agent.KeepCollision {
					agent.WeakenCollision(body, profile)
				}
				agent.SetStatus(p.ID, true)
				m.setClipPlane(e, agent, p.Transform)
				insideAny = true
				continue
			}

			if agent.StatusAt(p.ID) {
				m.teleport(e, p)
				agent.SetStatus(p.ID, false)
				agent.SetStatus(p.Linked.ID, true)
				m.setClipPlane(e, agent, p.Linked.Transform)
				insideAny = true
			}
		}

		if !insideAny {
			m.disableClipPlane(e, agent)
			agent.ResetCollision(body)
		}
		if isPlayer {
			m.report.InsideCollider = insideAny
			m.report.CanTeleportNextUpdate = len(agent.Status) > 0
		}
	}
}

// PostUpdate keeps clones in step with their sources, corrects the player's
// roll after a teleport and refreshes portal captures.
func (m *PortalManager) PostUpdate(dt float64) {
	m.updateClones()
	m.correctRoll(dt)
	m.UpdateViewport(m.host.Viewport())
	m.refreshCaptures()
	m.advanceReport()
}

func (m *PortalManager) setClipPlane(e ecs.Entity, agent *components.Agent, at geom.Transform) {
	agent.SetClipPlane(at.Location, at.Forward())
	for _, a := range m.attached(e) {
		m.agentMap.Get(a).SetClipPlane(at.Location, at.Forward())
	}
}

func (m *PortalManager) disableClipPlane(e ecs.Entity, agent *components.Agent) {
	agent.DisableClipPlane()
	for _, a := range m.attached(e) {
		m.agentMap.Get(a).DisableClipPlane()
	}
}

// attached returns the live attached agents of e.
func (m *PortalManager) attached(e ecs.Entity) []ecs.Entity {
	if !m.attachmentsMap.Has(e) {
		return nil
	}
	var out []ecs.Entity
	for _, a := range m.attachmentsMap.Get(e).Entities {
		if m.world.Alive(a) && m.agentMap.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// syncAttachments moves e's attachments onto its current pose.
func (m *PortalManager) syncAttachments(e ecs.Entity) {
	parent := m.poseMap.Get(e).Transform
	for _, a := range m.attached(e) {
		syncAttachment(m.poseMap.Get(a), parent, m.attachmentMap.Get(a).Offset)
	}
}

// syncAttachment places an attached pose at offset in the parent's frame.
func syncAttachment(pose *components.Pose, parent geom.Transform, offset mgl64.Vec3) {
	pose.Location = parent.TransformPosition(offset)
	pose.Rotation = parent.Rotation
}
