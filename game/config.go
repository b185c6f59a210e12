package game

import (
	"log/slog"

	"github.com/pthm-cable/portals/config"
)

// applyConfigReloads picks up a config reloaded from disk, if any, and hands
// it to every system. It never blocks the frame.
func (g *Game) applyConfigReloads() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-g.watcher.Reloads:
		if ok && cfg != nil {
			g.setConfig(cfg)
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			slog.Error("config reload failed", "error", err)
		}
	default:
	}
}

// setConfig swaps the configuration everywhere it is held. Portals already
// placed keep their geometry; the next placement uses the new values.
func (g *Game) setConfig(cfg *config.Config) {
	g.cfg = cfg
	config.Set(cfg)

	g.manager.SetConfig(cfg)
	g.weapons.SetConfig(cfg)
	g.controller.SetConfig(cfg)
	g.physics.SetConfig(cfg)
	g.bullets.SetConfig(cfg)

	g.camera.FOV = cfg.Screen.FOV
	g.camera.Near = cfg.Screen.Near
	g.camera.Far = cfg.Screen.Far
	if g.renderer != nil {
		g.renderer.SetFOV(cfg.Screen.FOV)
	}

	slog.Info("config reloaded",
		"portal_width", cfg.Portal.Width,
		"portal_height", cfg.Portal.Height,
		"bullet_speed", cfg.Bullet.Speed,
	)
}
