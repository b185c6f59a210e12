package ui

import (
	"fmt"
	"sort"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/portal"
)

// InspectorData holds all the data needed to render the agent inspector.
type InspectorData struct {
	ID       uint32
	Agent    *components.Agent
	Body     *components.Body
	Pose     *components.Pose
	Velocity *components.Velocity
	Clones   int

	// ArmedColor is the edge colour of the portal the agent is armed at.
	// Zero alpha when it is armed nowhere.
	ArmedColor rl.Color
}

// Inspector renders the agent inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// inspectorSections describe the agent panel. Getters receive InspectorData.
var inspectorSections = []SectionDescriptor{
	{
		ID:    "transform",
		Title: "Transform",
		Fields: []FieldDescriptor{
			{ID: "location", Label: "Location", Widget: WidgetText, TextGetter: func(d any) string {
				l := d.(InspectorData).Pose.Location
				return fmt.Sprintf("%.0f %.0f %.0f", l.X(), l.Y(), l.Z())
			}},
			{ID: "forward", Label: "Forward", Widget: WidgetText, TextGetter: func(d any) string {
				f := d.(InspectorData).Pose.Forward()
				return fmt.Sprintf("%.2f %.2f %.2f", f.X(), f.Y(), f.Z())
			}},
			{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				v := d.(InspectorData).Velocity
				if v == nil {
					return 0
				}
				return float32(v.Len())
			}},
		},
	},
	{
		ID:    "collision",
		Title: "Collision",
		Visible: func(d any) bool {
			return d.(InspectorData).Body != nil
		},
		Fields: []FieldDescriptor{
			{ID: "profile", Label: "Profile", Widget: WidgetText, TextGetter: func(d any) string {
				return d.(InspectorData).Body.Profile
			}},
			{ID: "weakened", Label: "Crossing", Widget: WidgetFlag, FlagGetter: func(d any) bool {
				return d.(InspectorData).Agent.Weakened()
			}},
			{ID: "grounded", Label: "Grounded", Widget: WidgetFlag, FlagGetter: func(d any) bool {
				return d.(InspectorData).Body.Grounded
			}},
		},
	},
	{
		ID:    "portal",
		Title: "Portal State",
		Fields: []FieldDescriptor{
			{ID: "status", Label: "Armed at", Widget: WidgetText, TextGetter: func(d any) string {
				return statusText(d.(InspectorData).Agent.Status)
			}},
			{ID: "armed", Label: "Armed colour", Widget: WidgetColorSwatch,
				Visible: func(d any) bool {
					return d.(InspectorData).ArmedColor.A != 0
				},
				ColorGetter: func(d any) rl.Color {
					return d.(InspectorData).ArmedColor
				}},
			{ID: "clip", Label: "Clip plane", Widget: WidgetFlag, FlagGetter: func(d any) bool {
				return d.(InspectorData).Agent.ClipOn
			}},
			{ID: "clones", Label: "Clones", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(d.(InspectorData).Clones)
			}},
		},
	},
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	if data.Agent == nil || data.Pose == nil {
		return ins.y
	}
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	panel := PanelDescriptor{Sections: inspectorSections}
	r.DrawPanel(ins.x, ins.y, ins.width, panel.PanelHeight(r.Theme)+r.Theme.LineHeight+6)

	y := ins.y + padding
	y = ins.drawHeader(ins.x+padding, y, data)
	y = r.DrawSpacer(y, 6)

	for _, s := range inspectorSections {
		y = r.DrawSection(ins.x+padding, y, s, data, contentWidth)
	}
	return y
}

// drawHeader renders the agent kind and entity id.
func (ins *Inspector) drawHeader(x, y int32, data InspectorData) int32 {
	title := fmt.Sprintf("%s #%d", data.Agent.Kind, data.ID)
	rl.DrawText(title, x, y, 16, rl.White)
	return y + ins.renderer.Theme.LineHeight
}

// statusText lists the portals an agent is armed at, or "-".
func statusText(status map[portal.ID]bool) string {
	ids := make([]int, 0, len(status))
	for id, on := range status {
		if on {
			ids = append(ids, int(id))
		}
	}
	if len(ids) == 0 {
		return "-"
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, " ")
}
