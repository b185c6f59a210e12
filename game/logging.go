package game

import (
	"log/slog"

	"github.com/pthm-cable/portals/components"
)

// logWorldState logs the current agent and portal state.
func (g *Game) logWorldState() {
	counts := make(map[components.Kind]int)
	var clipped, weakened int

	query := g.bodyFilter.Query()
	for query.Next() {
		_, _, agent := query.Get()
		if agent.Cloned {
			continue
		}
		counts[agent.Kind]++
		if agent.ClipOn {
			clipped++
		}
		if agent.Weakened() {
			weakened++
		}
	}

	attrs := []any{
		"tick", g.tick,
		"players", counts[components.KindPlayer],
		"props", counts[components.KindProp],
		"projectiles", counts[components.KindProjectile],
		"clones", len(g.manager.Clones()),
		"clipped", clipped,
		"crossing", weakened,
	}
	for _, p := range g.manager.Portals() {
		name := "blue"
		if p.Orange {
			name = "orange"
		}
		attrs = append(attrs, name, slog.GroupValue(
			slog.Int("id", int(p.ID)),
			slog.Bool("linked", p.Linked != nil),
			slog.Int("captures", p.Captures()),
			slog.Any("at", p.Transform.Location),
		))
	}
	slog.Info("world", attrs...)
}
