package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/systems"
	"github.com/pthm-cable/portals/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title  string
	Level  string
	Mode   string // weapon mode
	Tick   int32
	FPS    int32
	Paused bool
	Report systems.FrameReport
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Level: %s | Agents: %d | Clones: %d | Portals: %d",
			data.Level, data.Report.Agents, data.Report.Clones, data.Report.Portals),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Gun: %s", data.Tick, data.FPS, data.Mode),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawCrosshair draws a small cross at the screen center.
func (h *HUD) DrawCrosshair(screenWidth, screenHeight int32) {
	cx, cy := screenWidth/2, screenHeight/2
	rl.DrawLine(cx-6, cy, cx+6, cy, rl.White)
	rl.DrawLine(cx, cy-6, cx, cy+6, rl.White)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// ReportPanel is the portal debug panel built from the per-frame report.
var ReportPanel = PanelDescriptor{
	ID:    "report",
	Title: "Portal Debug",
	Width: 300,
	Sections: []SectionDescriptor{
		{
			ID:    "capture",
			Title: "Capture",
			Fields: []FieldDescriptor{
				{ID: "tick", Label: "Tick", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", d.(systems.FrameReport).Tick)
				}},
				{ID: "los", Label: "Line of sight", Widget: WidgetFlag, FlagGetter: func(d any) bool {
					return d.(systems.FrameReport).HasLineOfSight
				}},
				{ID: "captured", Label: "Captured last frame", Widget: WidgetFlag, FlagGetter: func(d any) bool {
					return d.(systems.FrameReport).CapturedLastFrame
				}},
			},
		},
		{
			ID:    "teleport",
			Title: "Teleport",
			Fields: []FieldDescriptor{
				{ID: "inside", Label: "Inside collider", Widget: WidgetFlag, FlagGetter: func(d any) bool {
					return d.(systems.FrameReport).InsideCollider
				}},
				{ID: "armed", Label: "Can teleport next update", Widget: WidgetFlag, FlagGetter: func(d any) bool {
					return d.(systems.FrameReport).CanTeleportNextUpdate
				}},
				{ID: "teleported", Label: "Has teleported", Widget: WidgetFlag, FlagGetter: func(d any) bool {
					return d.(systems.FrameReport).HasTeleported
				}},
				{ID: "latch", Label: "Latch", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
					return float32(d.(systems.FrameReport).TeleportLatch)
				}},
				{ID: "pdot", Label: "PDot", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 {
					return float32(d.(systems.FrameReport).PDot)
				}},
			},
		},
	},
}

// ReportView draws a descriptor-driven panel.
type ReportView struct {
	renderer *Renderer
	panel    PanelDescriptor
	x, y     int32
}

// NewReportView creates a view for a panel descriptor.
func NewReportView(panel PanelDescriptor, x, y int32) *ReportView {
	return &ReportView{
		renderer: NewRenderer(),
		panel:    panel,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (v *ReportView) SetPosition(x, y int32) {
	v.x = x
	v.y = y
}

// Draw renders the panel for data and returns the Y below it.
func (v *ReportView) Draw(data any) int32 {
	r := v.renderer
	padding := r.Theme.Padding
	width := v.panel.Width

	r.DrawPanel(v.x, v.y, width, v.panel.PanelHeight(r.Theme))

	y := v.y + padding
	if v.panel.Title != "" {
		rl.DrawText(v.panel.Title, v.x+padding, y, 16, rl.White)
		y += r.Theme.LineHeight + 4
	}
	for _, s := range v.panel.Sections {
		y = r.DrawSection(v.x+padding, y, s, data, width-padding*2)
	}
	return y
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range sortedPhases(stats) {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		displayName := name
		if registry != nil {
			displayName = registry.GetName(name)
		}

		rl.DrawText(
			fmt.Sprintf("%-16s %6s %5.1f%%", displayName, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// sortedPhases returns phase names by average duration, slowest first.
func sortedPhases(stats telemetry.PerfStats) []string {
	names := make([]string, 0, len(stats.PhaseAvg))
	for name := range stats.PhaseAvg {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if stats.PhaseAvg[names[i]] == stats.PhaseAvg[names[j]] {
			return names[i] < names[j]
		}
		return stats.PhaseAvg[names[i]] > stats.PhaseAvg[names[j]]
	})
	return names
}
