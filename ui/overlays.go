package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayReport          OverlayID = "report"
	OverlayPerf            OverlayID = "perf"
	OverlayInspector       OverlayID = "inspector"
	OverlayDetectionBoxes  OverlayID = "detection_boxes"
	OverlaySurfaceRects    OverlayID = "surface_rects"
	OverlayClipPlanes      OverlayID = "clip_planes"
	OverlayCaptureCameras  OverlayID = "capture_cameras"
	OverlayHideClones      OverlayID = "hide_clones"
	OverlayHidePortalViews OverlayID = "hide_portal_views"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "F1", "B")
	Category    string      // Grouping (e.g., "panels", "debug")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	// Panels
	r.Register(OverlayDescriptor{
		ID:          OverlayReport,
		Name:        "Portal Debug",
		Description: "Line of sight, capture and teleport flags",
		Key:         rl.KeyF1,
		KeyLabel:    "F1",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Frame Phases",
		Description: "Average time per frame phase",
		Key:         rl.KeyF2,
		KeyLabel:    "F2",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayInspector,
		Name:        "Player Agent",
		Description: "Collision profile, armed portals and clip state",
		Key:         rl.KeyF3,
		KeyLabel:    "F3",
		Category:    "panels",
	})

	// Debug geometry
	r.Register(OverlayDescriptor{
		ID:          OverlayDetectionBoxes,
		Name:        "Detection Boxes",
		Description: "Show each portal's teleport detection box",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlaySurfaceRects,
		Name:        "Surface Rects",
		Description: "Show portal footprints on their surfaces",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayClipPlanes,
		Name:        "Clip Planes",
		Description: "Show agent clip plane normals",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayCaptureCameras,
		Name:        "Capture Cameras",
		Description: "Show where each portal's capture camera looks from",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "debug",
	})

	// Visibility
	r.Register(OverlayDescriptor{
		ID:          OverlayHideClones,
		Name:        "Hide Clones",
		Description: "Skip drawing visual-only clones",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "visibility",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayHidePortalViews,
		Name:        "Flat Portals",
		Description: "Draw portals in their edge colour instead of the capture",
		Key:         rl.KeyJ,
		KeyLabel:    "J",
		Category:    "visibility",
		Exclusive:   []OverlayID{OverlayCaptureCameras},
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
