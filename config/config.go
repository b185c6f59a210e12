// Package config provides configuration loading and access for the portal game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/portals/geom"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Player    PlayerConfig    `yaml:"player"`
	Portal    PortalConfig    `yaml:"portal"`
	Capture   CaptureConfig   `yaml:"capture"`
	Roll      RollConfig      `yaml:"roll"`
	Bullet    BulletConfig    `yaml:"bullet"`
	Weapon    WeaponConfig    `yaml:"weapon"`
	Collision CollisionConfig `yaml:"collision"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	HUD       HUDConfig       `yaml:"hud"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	FOV       float64 `yaml:"fov"`  // vertical field of view in degrees
	Near      float64 `yaml:"near"` // near clip distance
	Far       float64 `yaml:"far"`  // far clip distance
}

// PhysicsConfig holds simulation step parameters.
type PhysicsConfig struct {
	DT      float64    `yaml:"dt"`
	Gravity mgl64.Vec3 `yaml:"gravity"` // applied to props only
}

// PlayerConfig holds first-person controller parameters.
type PlayerConfig struct {
	MoveSpeed        float64    `yaml:"move_speed"`
	EyeHeight        float64    `yaml:"eye_height"`
	MouseSensitivity float64    `yaml:"mouse_sensitivity"` // degrees per pixel
	Start            mgl64.Vec3 `yaml:"start"`
	StartYaw         float64    `yaml:"start_yaw"`
}

// PortalConfig holds portal geometry and appearance.
type PortalConfig struct {
	Width              float64      `yaml:"width"`               // footprint along portal right
	Height             float64      `yaml:"height"`              // footprint along portal up
	DetectionExtent    mgl64.Vec3   `yaml:"detection_extent"`    // teleport box half size: depth, half width, half height
	ClipOffset         float64      `yaml:"clip_offset"`         // capture clip plane distance behind the linked portal
	TargetWidth        int          `yaml:"target_width"`        // render target width in pixels
	RotationCorrection geom.Rotator `yaml:"rotation_correction"` // placement frame to portal frame
	OrangeColor        mgl64.Vec3   `yaml:"orange_color"`
	BlueColor          mgl64.Vec3   `yaml:"blue_color"`
}

// CaptureConfig controls when a portal's render capture is refreshed.
type CaptureConfig struct {
	RefreshDistance float64 `yaml:"refresh_distance"` // always refresh within this distance
	ProbeYaw        float64 `yaml:"probe_yaw"`        // yaw offset in degrees for the side probes
}

// RollConfig holds the post-teleport roll correction rates.
type RollConfig struct {
	ControllerRate float64 `yaml:"controller_rate"` // slerp alpha per second for the look rotation
	BodyRate       float64 `yaml:"body_rate"`       // slerp alpha per second for the body
	Tolerance      float64 `yaml:"tolerance"`       // quaternion component tolerance to finish
}

// BulletConfig holds portal bullet parameters.
type BulletConfig struct {
	Speed         float64    `yaml:"speed"`
	Lifetime      float64    `yaml:"lifetime"`       // seconds before a miss despawns
	SurfaceOffset float64    `yaml:"surface_offset"` // portal spawn distance off the surface
	SpawnOffset   mgl64.Vec3 `yaml:"spawn_offset"`   // camera-space offset for portal bullets
}

// WeaponConfig holds the player's gun parameters.
type WeaponConfig struct {
	MuzzleOffset    mgl64.Vec3 `yaml:"muzzle_offset"` // camera-space offset for regular projectiles
	ProjectileSpeed float64    `yaml:"projectile_speed"`
	ProjectileLife  float64    `yaml:"projectile_life"`
	FireDelay       int        `yaml:"fire_delay"` // frames before the fire animation plays
}

// CollisionConfig holds collision profile names.
type CollisionConfig struct {
	AgentProfile   string `yaml:"agent_profile"`   // profile used while crossing a portal
	DefaultProfile string `yaml:"default_profile"` // profile for freshly spawned agents
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks per perf average
}

// HUDConfig holds debug HUD parameters.
type HUDConfig struct {
	TeleportLatch int `yaml:"teleport_latch"` // ticks the teleported flag stays lit
	TickWrap      int `yaml:"tick_wrap"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	PortalHalfSize mgl64.Vec2
	Aspect         float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Set replaces the global configuration, used after a hot reload.
func Set(cfg *Config) {
	global = cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.PortalHalfSize = mgl64.Vec2{c.Portal.Width / 2, c.Portal.Height / 2}

	c.Derived.Aspect = 1
	if c.Screen.Height > 0 {
		c.Derived.Aspect = float64(c.Screen.Width) / float64(c.Screen.Height)
	}

	if c.Collision.AgentProfile == "" {
		c.Collision.AgentProfile = "PortalAgent"
	}
	if c.Weapon.FireDelay < 1 {
		c.Weapon.FireDelay = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
