package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/portals/geom"
	"github.com/pthm-cable/portals/portal"
)

// ClipMaterial holds the clip-plane parameters of one material drawn for an
// agent. The renderer discards fragments on the side Plane.Normal points to.
type ClipMaterial struct {
	Plane   geom.Plane
	Enabled bool
}

// Agent marks an entity that can be teleported or cloned across portals.
type Agent struct {
	Kind Kind

	// Status is true while the agent is inside a portal's detection box and
	// in front of its plane. Absent means false.
	Status map[portal.ID]bool

	Materials []*ClipMaterial
	ClipPlane geom.Plane
	ClipOn    bool

	Cloned           bool // a clone is never registered or cloned again
	DoNotTeleport    bool // opted out of teleportation entirely
	KeepCollision    bool // opted out of collision changes while crossing
	Attached         bool // carried by another agent, follows its parent
	PlayerControlled bool

	savedProfile string
	weakened     bool
}

// NewAgent returns an agent of the given kind with one clip material.
func NewAgent(kind Kind) Agent {
	return Agent{
		Kind:             kind,
		Status:           make(map[portal.ID]bool),
		Materials:        []*ClipMaterial{{}},
		PlayerControlled: kind == KindPlayer,
	}
}

// StatusAt reports the teleport status for a portal.
func (a *Agent) StatusAt(id portal.ID) bool {
	return a.Status[id]
}

// SetStatus records the teleport status for a portal.
func (a *Agent) SetStatus(id portal.ID, v bool) {
	if a.Status == nil {
		a.Status = make(map[portal.ID]bool)
	}
	if !v {
		delete(a.Status, id)
		return
	}
	a.Status[id] = true
}

// SetClipPlane enables clipping at a portal plane. The stored plane sits one
// unit behind the portal and faces into it, so geometry that has passed
// through the portal is hidden.
func (a *Agent) SetClipPlane(location, forward mgl64.Vec3) {
	a.ClipPlane = geom.Plane{Point: location.Sub(forward), Normal: forward.Mul(-1)}
	a.ClipOn = true
	for _, m := range a.Materials {
		m.Plane = a.ClipPlane
		m.Enabled = true
	}
}

// DisableClipPlane turns clipping off on every material.
func (a *Agent) DisableClipPlane() {
	a.ClipOn = false
	for _, m := range a.Materials {
		m.Enabled = false
	}
}

// WeakenCollision switches the body to the portal crossing profile. The
// original profile is saved once and restored by ResetCollision.
func (a *Agent) WeakenCollision(b *Body, profile string) {
	if b == nil {
		return
	}
	if !a.weakened {
		a.savedProfile = b.Profile
		a.weakened = true
	}
	b.Profile = profile
}

// ResetCollision restores the profile saved by WeakenCollision.
func (a *Agent) ResetCollision(b *Body) {
	if !a.weakened || b == nil {
		return
	}
	b.Profile = a.savedProfile
	a.weakened = false
}

// Weakened reports whether the crossing profile is active.
func (a *Agent) Weakened() bool {
	return a.weakened
}
