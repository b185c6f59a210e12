package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/geom"
)

// movingSpeed is the horizontal speed above which a body counts as moving.
const movingSpeed = 1.0

// ControllerSystem turns controller input into movement and keeps the body
// and camera following the look rotation.
type ControllerSystem struct {
	filter ecs.Filter6[components.Pose, components.Velocity, components.Body, components.Controller, components.Anim, components.Agent]
	cfg    *config.Config
}

// NewControllerSystem creates a controller system.
func NewControllerSystem(w *ecs.World, cfg *config.Config) *ControllerSystem {
	return &ControllerSystem{
		filter: *ecs.NewFilter6[components.Pose, components.Velocity, components.Body, components.Controller, components.Anim, components.Agent](w),
		cfg:    cfg,
	}
}

// SetConfig swaps the configuration, used on hot reload.
func (s *ControllerSystem) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Update applies one frame of input.
func (s *ControllerSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		pose, vel, body, ctrl, anim, agent := query.Get()
		if agent.Cloned {
			continue
		}

		yaw := geom.YawQuat(geom.RotatorFromQuat(ctrl.ControlRotation).Yaw)

		// Input steers on the ground; in the air momentum is kept so a
		// teleported velocity survives until landing.
		if body.Grounded || !body.Gravity {
			dir := yaw.Rotate(mgl64.Vec3{ctrl.MoveInput.X(), ctrl.MoveInput.Y(), 0})
			if dir.Len() > 1 {
				dir = dir.Normalize()
			}
			dir = dir.Mul(s.cfg.Player.MoveSpeed)
			vel.Vec3 = mgl64.Vec3{dir.X(), dir.Y(), vel.Z()}
		}

		if ctrl.UseControllerYaw {
			pose.Rotation = yaw
		}
		ctrl.CameraRotation = ctrl.ControlRotation

		anim.IsMoving = mgl64.Vec2{vel.X(), vel.Y()}.Len() > movingSpeed
		anim.IsInAir = body.Gravity && !body.Grounded
	}
}

// Look turns the controller by yaw and pitch degrees, clamping pitch short
// of straight up or down.
func Look(ctrl *components.Controller, dYaw, dPitch float64) {
	r := geom.RotatorFromQuat(ctrl.ControlRotation)
	r.Yaw += dYaw
	r.Pitch = mgl64.Clamp(r.Pitch+dPitch, -89, 89)
	ctrl.ControlRotation = r.Quat()
}
