// Portal placement preview tool - place portal footprints on a wall face and
// watch bounds fitting and overlap resolution with sliders.
//
// Usage: go run ./cmd/placementpreview
package main

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/surface"
	"github.com/pthm-cable/portals/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 640
	panelWidth   = windowWidth - previewSize - 30

	exportPath = "placements.csv"
)

// PlacementParams holds the wall face and portal footprint sizes.
type PlacementParams struct {
	FaceWidth    float32
	FaceHeight   float32
	PortalWidth  float32
	PortalHeight float32
}

func defaultParams() PlacementParams {
	return PlacementParams{
		FaceWidth:    600,
		FaceHeight:   300,
		PortalWidth:  120,
		PortalHeight: 240,
	}
}

// attempt is one click on the face and what became of it.
type attempt struct {
	Requested r2.Vec
	Placed    systems.Placement
	Err       error
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Portal Placement Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	surf := surface.New("preview")
	var history []attempt
	status := "Click the face to place a portal"

	for !rl.WindowShouldClose() {
		view := newFaceView(params)

		// Place on click inside the face
		mouse := rl.GetMousePosition()
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && view.contains(mouse) {
			at := view.toLocal(mouse)
			a := place(surf, params, at)
			history = append(history, a)
			if a.Err != nil {
				status = a.Err.Error()
			} else {
				status = fmt.Sprintf("Placed #%d, moved %.1f", a.Placed.ID, r2.Norm(a.Placed.Displacement))
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		view.draw(surf, history)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Portals: %d  Attempts: %d  Rejected: %d", surf.Len(), len(history), rejected(history)), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(status, 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Placement Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		changed = slider(&panelY, panelX, "Face width", &params.FaceWidth, 100, 2000) || changed
		changed = slider(&panelY, panelX, "Face height", &params.FaceHeight, 100, 1000) || changed
		changed = slider(&panelY, panelX, "Portal width", &params.PortalWidth, 40, 400) || changed
		changed = slider(&panelY, panelX, "Portal height", &params.PortalHeight, 40, 400) || changed
		if changed {
			// Sizes no longer match what is on the face
			surf = surface.New("preview")
			history = history[:0]
		}

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Clear") {
			surf = surface.New("preview")
			history = history[:0]
			status = "Cleared"
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			surf = surface.New("preview")
			history = history[:0]
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Undo") && len(history) > 0 {
			last := history[len(history)-1]
			history = history[:len(history)-1]
			if last.Err == nil {
				surf.RemoveRectangle(last.Placed.ID)
			}
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Export CSV") {
			if err := exportAttempts(exportPath, history); err != nil {
				slog.Error("export failed", "error", err)
				status = "Export failed: " + err.Error()
			} else {
				status = "Wrote " + exportPath
			}
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		// Copy to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			yaml := ""
			for _, line := range yamlLines(params) {
				yaml += line + "\n"
			}
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and reports whether the value changed.
func slider(y *float32, x float32, label string, value *float32, lo, hi float32) bool {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%.0f", lo), fmt.Sprintf("%.0f", hi),
		*value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.0f", *value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if next == *value {
		return false
	}
	*value = next
	return true
}

// place runs the game's placement on the preview surface.
func place(s *surface.Surface, params PlacementParams, at r2.Vec) attempt {
	half := r2.Vec{X: float64(params.PortalWidth) / 2, Y: float64(params.PortalHeight) / 2}
	extent := r2.Vec{X: float64(params.FaceWidth) / 2, Y: float64(params.FaceHeight) / 2}
	placed, err := systems.PlacePortal(s, r2.Sub(at, half), r2.Add(at, half), at, geom.Rotator{}, r2.Vec{}, extent)
	return attempt{Requested: at, Placed: placed, Err: err}
}

func rejected(history []attempt) int {
	n := 0
	for _, a := range history {
		if a.Err != nil {
			n++
		}
	}
	return n
}

func yamlLines(params PlacementParams) []string {
	return []string{
		"portal:",
		fmt.Sprintf("  width: %.0f", params.PortalWidth),
		fmt.Sprintf("  height: %.0f", params.PortalHeight),
	}
}
