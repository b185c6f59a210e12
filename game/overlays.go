package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/renderer"
	"github.com/pthm-cable/portals/ui"
)

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	// Check each registered overlay's key
	for _, desc := range g.uiOverlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.uiOverlays.Toggle(desc.ID)
		}
	}
	g.syncRendererFlags()
}

// syncRendererFlags pushes the visibility overlays into the renderer.
func (g *Game) syncRendererFlags() {
	if g.renderer == nil {
		return
	}
	g.renderer.HideClones = g.uiOverlays.IsEnabled(ui.OverlayHideClones)
	g.renderer.FlatPortals = g.uiOverlays.IsEnabled(ui.OverlayHidePortalViews)
}

// debugLayers returns the debug geometry selected by the overlays.
func (g *Game) debugLayers() renderer.DebugLayers {
	return renderer.DebugLayers{
		DetectionBoxes: g.uiOverlays.IsEnabled(ui.OverlayDetectionBoxes),
		SurfaceRects:   g.uiOverlays.IsEnabled(ui.OverlaySurfaceRects),
		ClipPlanes:     g.uiOverlays.IsEnabled(ui.OverlayClipPlanes),
		CaptureCameras: g.uiOverlays.IsEnabled(ui.OverlayCaptureCameras),
	}
}
