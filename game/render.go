package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/renderer"
	"github.com/pthm-cable/portals/ui"
)

// controlsLegend is drawn along the bottom edge.
const controlsLegend = "WASD: Move | Mouse: Look | LMB: Fire | RMB: Blue portal | Q: Gun mode | E: Inspect | P: Pause | Tab: Overlays"

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()

	frame := g.viewFrame()
	g.renderer.Draw(g.camera.Eye, frame)
	g.renderer.DrawDebug(g.camera.Eye, frame, g.debugLayers())
	g.drawPortalLabels()

	g.drawUI()

	rl.EndDrawing()
	g.perfCollector.RecordFrame()
}

// drawPortalLabels tags each portal on screen with its id and link state.
func (g *Game) drawPortalLabels() {
	if !g.uiOverlays.IsEnabled(ui.OverlayDetectionBoxes) {
		return
	}
	for _, p := range g.manager.Portals() {
		at := renderer.PortalLabel(p)
		if !g.camera.IsVisible(at, 0) {
			continue
		}
		screen, ok := g.camera.WorldToScreen(at)
		if !ok {
			continue
		}
		label := fmt.Sprintf("#%d", p.ID)
		if p.Linked != nil {
			label = fmt.Sprintf("#%d -> #%d", p.ID, p.Linked.ID)
		}
		rl.DrawText(label, int32(screen.X()), int32(screen.Y()), 14, renderer.EdgeColor(p.EdgeColor))
	}
}

// drawUI renders the HUD and every enabled panel.
func (g *Game) drawUI() {
	report := g.manager.Report()
	mode := "-"
	if player, ok := g.manager.Player(); ok {
		mode = g.weapons.Mode(player).String()
	}

	g.hud.Draw(ui.HUDData{
		Title:  Title,
		Level:  g.level.Name,
		Mode:   mode,
		Tick:   g.tick,
		FPS:    rl.GetFPS(),
		Paused: g.paused,
		Report: report,
	})
	g.hud.DrawCrosshair(g.screenWidth, g.screenHeight)
	g.hud.DrawControls(g.screenWidth, g.screenHeight, controlsLegend)

	g.controls.Draw(g.uiOverlays)

	if g.uiOverlays.IsEnabled(ui.OverlayReport) {
		g.reportView.Draw(report)
	}
	if g.uiOverlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats(), g.registry)
	}
	if g.uiOverlays.IsEnabled(ui.OverlayInspector) {
		g.inspector.Draw(g.inspectorData())
	}
	g.eventLog.Draw()
}

// layoutPanels positions panels for the current screen size.
func (g *Game) layoutPanels() {
	w, h := g.screenWidth, g.screenHeight
	g.reportView.SetPosition(w-ui.ReportPanel.Width-10, 10)
	g.perfPanel.SetPosition(w-280-10, 10+ui.ReportPanel.PanelHeight(ui.DefaultTheme())+10)
	g.inspector.SetPosition(10, h-330)
	g.eventLog.SetPosition(w-320-10, h-190)
}
