// Package telemetry provides portal activity tracking, windowed stats and CSV output.
package telemetry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventTeleport EventType = iota
	EventCloneSpawn
	EventCloneDestroy
	EventPortalPlaced
	EventPortalDestroyed
	EventPlacementRejected
	EventCapture
)

// String returns the CSV name of the event type.
func (t EventType) String() string {
	switch t {
	case EventTeleport:
		return "teleport"
	case EventCloneSpawn:
		return "clone_spawn"
	case EventCloneDestroy:
		return "clone_destroy"
	case EventPortalPlaced:
		return "portal_placed"
	case EventPortalDestroyed:
		return "portal_destroyed"
	case EventPlacementRejected:
		return "placement_rejected"
	case EventCapture:
		return "capture"
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	Kind     components.Kind

	// Optional fields depending on event type
	Portal   int        // source portal id
	Target   int        // destination portal id (teleport) or clone entity id
	Location mgl64.Vec3 // where it happened
	Speed    float64    // agent speed at teleport
	Orange   bool       // portal colour for placement events
}

// NewTeleportEvent creates a teleport event.
func NewTeleportEvent(tick int32, entityID uint32, kind components.Kind, from, to int, exit mgl64.Vec3, speed float64) Event {
	return Event{
		Type:     EventTeleport,
		Tick:     tick,
		EntityID: entityID,
		Kind:     kind,
		Portal:   from,
		Target:   to,
		Location: exit,
		Speed:    speed,
	}
}

// NewCloneSpawnEvent creates a clone spawn event.
func NewCloneSpawnEvent(tick int32, sourceID uint32, kind components.Kind, portalID int, cloneID uint32) Event {
	return Event{
		Type:     EventCloneSpawn,
		Tick:     tick,
		EntityID: sourceID,
		Kind:     kind,
		Portal:   portalID,
		Target:   int(cloneID),
	}
}

// NewCloneDestroyEvent creates a clone teardown event.
func NewCloneDestroyEvent(tick int32, sourceID uint32, portalID int, cloneID uint32) Event {
	return Event{
		Type:     EventCloneDestroy,
		Tick:     tick,
		EntityID: sourceID,
		Portal:   portalID,
		Target:   int(cloneID),
	}
}

// NewPortalPlacedEvent creates a portal placement event.
func NewPortalPlacedEvent(tick int32, portalID int, orange bool, at mgl64.Vec3) Event {
	return Event{
		Type:     EventPortalPlaced,
		Tick:     tick,
		Portal:   portalID,
		Orange:   orange,
		Location: at,
	}
}

// NewPortalDestroyedEvent creates a portal removal event.
func NewPortalDestroyedEvent(tick int32, portalID int, orange bool) Event {
	return Event{
		Type:   EventPortalDestroyed,
		Tick:   tick,
		Portal: portalID,
		Orange: orange,
	}
}

// NewPlacementRejectedEvent creates a rejected placement event.
func NewPlacementRejectedEvent(tick int32, orange bool, hit mgl64.Vec3) Event {
	return Event{
		Type:     EventPlacementRejected,
		Tick:     tick,
		Orange:   orange,
		Location: hit,
	}
}

// NewCaptureEvent creates a render capture refresh event.
func NewCaptureEvent(tick int32, portalID int) Event {
	return Event{
		Type:   EventCapture,
		Tick:   tick,
		Portal: portalID,
	}
}

// EventRecord is the flat CSV form of an Event.
type EventRecord struct {
	Tick     int32   `csv:"tick"`
	Type     string  `csv:"type"`
	EntityID uint32  `csv:"entity"`
	Kind     string  `csv:"kind"`
	Portal   int     `csv:"portal"`
	Target   int     `csv:"target"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	Speed    float64 `csv:"speed"`
	Orange   bool    `csv:"orange"`
}

// Record converts the event for CSV export.
func (e Event) Record() EventRecord {
	return EventRecord{
		Tick:     e.Tick,
		Type:     e.Type.String(),
		EntityID: e.EntityID,
		Kind:     e.Kind.String(),
		Portal:   e.Portal,
		Target:   e.Target,
		X:        e.Location.X(),
		Y:        e.Location.Y(),
		Z:        e.Location.Z(),
		Speed:    e.Speed,
		Orange:   e.Orange,
	}
}
