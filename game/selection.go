package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/renderer"
	"github.com/pthm-cable/portals/ui"
)

// maxSelectDistance limits how far away an agent can be picked.
const maxSelectDistance = 3000.0

// findAgentAtCrosshair returns the nearest agent whose body the view ray
// passes through. The player itself is never picked.
func (g *Game) findAgentAtCrosshair() (ecs.Entity, bool) {
	eye := g.camera.Eye
	dir := eye.Forward()
	player, hasPlayer := g.manager.Player()

	var best ecs.Entity
	found := false
	bestDist := maxSelectDistance

	query := g.bodyFilter.Query()
	for query.Next() {
		pose, body, _ := query.Get()
		e := query.Entity()
		if hasPlayer && e == player {
			continue
		}

		// Closest approach of the ray to the body center.
		to := pose.Location.Sub(eye.Location)
		along := to.Dot(dir)
		if along <= 0 || along >= bestDist {
			continue
		}
		miss := to.Sub(dir.Mul(along)).Len()
		if miss > body.Radius {
			continue
		}
		best, bestDist, found = e, along, true
	}
	return best, found
}

// selectAtCrosshair points the inspector at the agent under the crosshair,
// or back at the player when nothing is there.
func (g *Game) selectAtCrosshair() {
	e, ok := g.findAgentAtCrosshair()
	g.selected, g.hasTarget = e, ok
	if ok && !g.uiOverlays.IsEnabled(ui.OverlayInspector) {
		g.uiOverlays.SetEnabled(ui.OverlayInspector, true)
	}
}

// inspected returns the agent the inspector shows: the selection while it
// lives, otherwise the player.
func (g *Game) inspected() (ecs.Entity, bool) {
	if g.hasTarget && g.world.Alive(g.selected) {
		return g.selected, true
	}
	g.hasTarget = false
	return g.manager.Player()
}

// inspectorData gathers the inspected agent's components.
func (g *Game) inspectorData() ui.InspectorData {
	e, ok := g.inspected()
	if !ok || !g.world.Alive(e) || !g.agentMap.Has(e) {
		return ui.InspectorData{}
	}

	data := ui.InspectorData{
		ID:    e.ID(),
		Agent: g.agentMap.Get(e),
	}
	if g.poseMap.Has(e) {
		data.Pose = g.poseMap.Get(e)
	}
	if g.bodyMap.Has(e) {
		data.Body = g.bodyMap.Get(e)
	}
	if g.velMap.Has(e) {
		data.Velocity = g.velMap.Get(e)
	}
	for key := range g.manager.Clones() {
		if key.Agent == e {
			data.Clones++
		}
	}
	for _, p := range g.manager.Portals() {
		if data.Agent.StatusAt(p.ID) {
			data.ArmedColor = renderer.EdgeColor(p.EdgeColor)
			break
		}
	}
	return data
}
