package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/telemetry"
)

// ControlsPanel renders the left-side controls panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	// Calculate panel height based on content
	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight // Extra for title

	// Draw panel background
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	// Title
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	// Draw overlays by category
	for _, category := range categories {
		// Category header
		catLabel := categoryLabel(category)
		rl.DrawText(catLabel, c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		// Overlays in this category
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			c.drawToggle(c.x+padding, y, desc, enabled, c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	case "visibility":
		return "Visibility"
	default:
		return cat
	}
}

// EventLogPanel renders the most recent telemetry events.
type EventLogPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	capacity int
	events   []telemetry.Event
}

// NewEventLogPanel creates a panel keeping the last capacity events.
func NewEventLogPanel(x, y, width int32, capacity int) *EventLogPanel {
	return &EventLogPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		capacity: capacity,
	}
}

// SetPosition updates the panel position.
func (e *EventLogPanel) SetPosition(x, y int32) {
	e.x = x
	e.y = y
}

// Push appends events, dropping the oldest beyond capacity. Per-frame
// capture events are skipped.
func (e *EventLogPanel) Push(events []telemetry.Event) {
	for _, ev := range events {
		if ev.Type == telemetry.EventCapture {
			continue
		}
		e.events = append(e.events, ev)
	}
	if over := len(e.events) - e.capacity; over > 0 {
		e.events = append(e.events[:0], e.events[over:]...)
	}
}

// Events returns the buffered events, oldest first.
func (e *EventLogPanel) Events() []telemetry.Event {
	return e.events
}

// Draw renders the event log panel.
func (e *EventLogPanel) Draw() int32 {
	r := e.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*int32(e.capacity+1) + padding*2 + 2
	r.DrawPanel(e.x, e.y, e.width, panelHeight)

	y := e.y + padding
	rl.DrawText("Events", e.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	for i := len(e.events) - 1; i >= 0; i-- {
		r.DrawLabel(e.x+padding, y, eventText(e.events[i]))
		y += lineHeight
	}
	return y
}

// eventText formats one event for the log.
func eventText(ev telemetry.Event) string {
	switch ev.Type {
	case telemetry.EventTeleport:
		return fmt.Sprintf("%d %s #%d teleported %d->%d", ev.Tick, ev.Kind, ev.EntityID, ev.Portal, ev.Target)
	case telemetry.EventPortalPlaced, telemetry.EventPortalDestroyed, telemetry.EventPlacementRejected:
		return fmt.Sprintf("%d %s %s", ev.Tick, portalColor(ev.Orange), ev.Type)
	default:
		return fmt.Sprintf("%d %s #%d portal %d", ev.Tick, ev.Type, ev.EntityID, ev.Portal)
	}
}

func portalColor(orange bool) string {
	if orange {
		return "orange"
	}
	return "blue"
}
