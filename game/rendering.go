package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/renderer"
)

// collectFrame gathers what the renderer draws. skip, when valid, is left
// out; the first-person view skips the player's own body.
func (g *Game) collectFrame(skip ecs.Entity, hasSkip bool) renderer.Frame {
	frame := renderer.Frame{
		Walls:   g.level.Walls,
		Portals: g.manager.Portals(),
	}

	bq := g.bodyFilter.Query()
	for bq.Next() {
		pose, body, agent := bq.Get()
		if hasSkip && bq.Entity() == skip {
			continue
		}
		frame.Bodies = append(frame.Bodies, renderer.Body{
			Pose:   pose.Transform,
			Radius: body.Radius,
			Kind:   agent.Kind,
			Clone:  agent.Cloned,
			Clip:   agent.ClipPlane,
			ClipOn: agent.ClipOn,
		})
	}

	sq := g.shotFilter.Query()
	for sq.Next() {
		pose, b := sq.Get()
		frame.Shots = append(frame.Shots, renderer.Shot{Location: pose.Location, Orange: b.Orange})
	}
	return frame
}

// captureFrame is the frame drawn into portal captures. The player is
// included so it can see itself through a portal.
func (g *Game) captureFrame() renderer.Frame {
	return g.collectFrame(ecs.Entity{}, false)
}

// viewFrame is the frame drawn from the player's eye.
func (g *Game) viewFrame() renderer.Frame {
	player, ok := g.manager.Player()
	return g.collectFrame(player, ok)
}
