package game

import (
	"github.com/go-gl/mathgl/mgl64"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/systems"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}

	// The overlay panel needs the cursor, so it is released while open.
	if rl.IsKeyPressed(rl.KeyTab) {
		if g.controls.Toggle() {
			rl.EnableCursor()
		} else {
			rl.DisableCursor()
		}
	}

	g.handleOverlayKeys()

	if rl.IsKeyPressed(rl.KeyE) {
		g.selectAtCrosshair()
	}

	if !g.paused && !g.controls.IsVisible() {
		g.handlePlayerInput()
	}
}

// handlePlayerInput feeds look, movement and fire requests into the
// player's controller. The systems consume them on the next step.
func (g *Game) handlePlayerInput() {
	player, ok := g.manager.Player()
	if !ok || !g.world.Alive(player) || !g.ctrlMap.Has(player) {
		return
	}
	ctrl := g.ctrlMap.Get(player)

	sens := g.cfg.Player.MouseSensitivity
	delta := rl.GetMouseDelta()
	if delta.X != 0 || delta.Y != 0 {
		systems.Look(ctrl, float64(delta.X)*sens, -float64(delta.Y)*sens)
	}

	var move mgl64.Vec2
	if rl.IsKeyDown(rl.KeyW) {
		move[0]++
	}
	if rl.IsKeyDown(rl.KeyS) {
		move[0]--
	}
	if rl.IsKeyDown(rl.KeyD) {
		move[1]++
	}
	if rl.IsKeyDown(rl.KeyA) {
		move[1]--
	}
	ctrl.MoveInput = move

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		ctrl.Fire = true
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		ctrl.AltFire = true
	}
	if rl.IsKeyPressed(rl.KeyQ) {
		ctrl.Toggle = true
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(float64(w), float64(h))
	g.manager.UpdateViewport(float64(w), float64(h))
	g.layoutPanels()
}
