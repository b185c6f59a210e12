package components

import "github.com/go-gl/mathgl/mgl64"

// Controller holds the player's look rotation and how the body follows it.
type Controller struct {
	// ControlRotation is where the player is looking.
	ControlRotation mgl64.Quat
	// CameraRotation is the world rotation of the first-person camera. Clones
	// receive it converted through the portal pair.
	CameraRotation mgl64.Quat

	// While true the body takes its yaw/roll from ControlRotation. Teleport
	// clears both until roll correction settles.
	UseControllerYaw  bool
	UseControllerRoll bool

	MoveInput mgl64.Vec2 // forward, right in [-1, 1]

	// One-shot requests, consumed by the weapon system.
	Fire    bool // primary: projectile or orange portal
	AltFire bool // blue portal
	Toggle  bool // switch weapon mode
}

// NewController returns a controller looking along rot with body following on.
func NewController(rot mgl64.Quat) Controller {
	return Controller{
		ControlRotation:   rot,
		CameraRotation:    rot,
		UseControllerYaw:  true,
		UseControllerRoll: true,
	}
}

// Anim holds the animation state flags mirrored onto player clones.
type Anim struct {
	IsMoving       bool
	IsInAir        bool
	HasRifle       bool
	TransitionDown bool
	TransitionUp   bool
	Fire           bool // set when the player fires, cleared once the animation plays

	// OverrideBools makes the animation read the flags copied from the
	// source instead of deriving them; UpdateBools requests a one-off refresh.
	OverrideBools bool
	UpdateBools   bool

	StartPosition float64 // blend start, copied from the source's OutPosition
	OutPosition   float64
}

// WeaponMode selects what the gun fires.
type WeaponMode uint8

const (
	ModeProjectile WeaponMode = iota
	ModePortal
)

// Weapon is a held gun. A player carries a first-person and a world model.
type Weapon struct {
	Mode      WeaponMode
	FireReady bool // fire animation queued
	Timer     int  // frames since queued
	Fired     int  // fire animations played
}

// PlayFireAnimation plays the fire animation. With delay set it is queued for
// the weapon system's next tick, so a clone updated this frame starts together
// with its source.
func (w *Weapon) PlayFireAnimation(delay bool) {
	if delay {
		w.FireReady = true
		w.Timer = 0
		return
	}
	w.Fired++
}

// Tick advances a queued fire animation. It reports whether the animation
// played this frame.
func (w *Weapon) Tick(fireDelay int) bool {
	if !w.FireReady {
		return false
	}
	w.Timer++
	if w.Timer < fireDelay {
		return false
	}
	w.FireReady = false
	w.Timer = 0
	w.PlayFireAnimation(false)
	return true
}
