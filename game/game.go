// Package game wires the portal world together: level, ECS systems, portal
// manager, camera, renderer, telemetry and UI.
package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/portals/camera"
	"github.com/pthm-cable/portals/components"
	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/level"
	"github.com/pthm-cable/portals/portal"
	"github.com/pthm-cable/portals/renderer"
	"github.com/pthm-cable/portals/systems"
	"github.com/pthm-cable/portals/telemetry"
	"github.com/pthm-cable/portals/ui"
)

// Title is the window and HUD title.
const Title = "Portals"

// DefaultLevel is loaded when Options.Level is empty.
const DefaultLevel = "room"

// Options configures a game instance.
type Options struct {
	Level     string // builtin level name or path to a level file
	OutputDir string // CSV logs and config snapshot (empty = disabled)
	LogStats  bool   // log window and perf stats via slog
	Headless  bool   // no raylib: captures go to in-memory targets

	// ConfigPath is watched for changes when WatchConfig is set.
	ConfigPath  string
	WatchConfig bool

	StatsCallback func(telemetry.WindowStats)
	EventCallback func([]telemetry.Event)
}

// Game holds the complete game state. It implements systems.Host: spawning
// comes from the embedded factory, traces and captures from the game itself.
type Game struct {
	*systems.Factory

	world *ecs.World
	cfg   *config.Config
	level *level.Level

	camera   *camera.Camera
	capturer portal.Capturer
	renderer *renderer.Renderer

	manager     *systems.PortalManager
	weapons     *systems.WeaponSystem
	controller  *systems.ControllerSystem
	physics     *systems.PhysicsSystem
	projectiles *systems.ProjectileSystem
	bullets     *systems.BulletSystem
	attachments *systems.AttachmentSystem
	registry    *systems.SystemRegistry

	// Component mappers for lookups
	poseMap  *ecs.Map[components.Pose]
	velMap   *ecs.Map[components.Velocity]
	bodyMap  *ecs.Map[components.Body]
	agentMap *ecs.Map[components.Agent]
	ctrlMap  *ecs.Map[components.Controller]

	bodyFilter *ecs.Filter3[components.Pose, components.Body, components.Agent]
	shotFilter *ecs.Filter2[components.Pose, components.Bullet]

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	eventCallback func([]telemetry.Event)
	logStats      bool

	watcher *config.Watcher

	// State
	tick      int32
	paused    bool
	headless  bool
	nextShot  int
	selected  ecs.Entity
	hasTarget bool

	// UI
	hud        *ui.HUD
	reportView *ui.ReportView
	perfPanel  *ui.PerfPanel
	inspector  *ui.Inspector
	controls   *ui.ControlsPanel
	eventLog   *ui.EventLogPanel
	uiOverlays *ui.OverlayRegistry

	screenWidth, screenHeight int32
}

// NewGame creates a game for opts using cfg. In graphical mode the raylib
// window must already be open.
func NewGame(opts Options, cfg *config.Config) (*Game, error) {
	if opts.Level == "" {
		opts.Level = DefaultLevel
	}
	lvl, err := level.Load(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("loading level %q: %w", opts.Level, err)
	}

	world := ecs.NewWorld()
	g := &Game{
		world:         world,
		cfg:           cfg,
		level:         lvl,
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		eventCallback: opts.EventCallback,
		screenWidth:   int32(cfg.Screen.Width),
		screenHeight:  int32(cfg.Screen.Height),

		poseMap:    ecs.NewMap[components.Pose](world),
		velMap:     ecs.NewMap[components.Velocity](world),
		bodyMap:    ecs.NewMap[components.Body](world),
		agentMap:   ecs.NewMap[components.Agent](world),
		ctrlMap:    ecs.NewMap[components.Controller](world),
		bodyFilter: ecs.NewFilter3[components.Pose, components.Body, components.Agent](world),
		shotFilter: ecs.NewFilter2[components.Pose, components.Bullet](world),
	}

	g.camera = camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height), cfg.Screen.FOV, cfg.Screen.Near, cfg.Screen.Far)
	if opts.Headless {
		g.capturer = &memCapturer{}
	} else {
		g.renderer = renderer.New(cfg.Screen.FOV, g.captureFrame)
		g.renderer.Init()
		g.capturer = g.renderer
	}

	// Systems
	g.Factory = systems.NewFactory(world, cfg)
	g.manager = systems.NewPortalManager(world, g, cfg)
	g.Factory.SetRegistrar(g.manager)
	g.weapons = systems.NewWeaponSystem(world, g, cfg)
	g.controller = systems.NewControllerSystem(world, cfg)
	g.physics = systems.NewPhysicsSystem(world, lvl, cfg)
	g.projectiles = systems.NewProjectileSystem(world, g)
	g.bullets = systems.NewBulletSystem(world, lvl, g.manager, g, cfg)
	g.attachments = systems.NewAttachmentSystem(world)
	g.registry = systems.NewSystemRegistry()
	g.manager.UpdateViewport(float64(cfg.Screen.Width), float64(cfg.Screen.Height))

	// Telemetry
	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.manager.SetCollector(g.collector)
	g.bullets.SetCollector(g.collector)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	if opts.WatchConfig && opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("watching config: %w", err)
		}
		g.watcher = w
	}

	// UI
	g.hud = ui.NewHUD()
	g.uiOverlays = ui.NewOverlayRegistry()
	g.reportView = ui.NewReportView(ui.ReportPanel, 0, 0)
	g.perfPanel = ui.NewPerfPanel(0, 0)
	g.inspector = ui.NewInspector(0, 0, 280)
	g.controls = ui.NewControlsPanel(10, 80, 240)
	g.eventLog = ui.NewEventLogPanel(0, 0, 320, 8)
	g.layoutPanels()

	g.spawnScenario()
	g.followPlayer()

	slog.Info("game started",
		"level", lvl.Name,
		"agents", len(g.manager.Agents()),
		"shots", len(g.scenarioShots()),
		"headless", opts.Headless,
	)
	return g, nil
}

// Update handles input and advances one tick unless paused.
func (g *Game) Update() {
	g.applyConfigReloads()
	g.handleInput()

	if g.paused {
		return
	}
	g.Step()
}

// UpdateHeadless advances one tick without touching raylib.
func (g *Game) UpdateHeadless() {
	g.applyConfigReloads()
	if g.paused {
		return
	}
	g.Step()
}

// Tick returns the number of ticks simulated.
func (g *Game) Tick() int32 {
	return g.tick
}

// Level returns the loaded level.
func (g *Game) Level() *level.Level {
	return g.level
}

// Manager returns the portal manager.
func (g *Game) Manager() *systems.PortalManager {
	return g.manager
}

// Unload releases render and output resources.
func (g *Game) Unload() {
	for _, orange := range []bool{true, false} {
		g.manager.DestroyPortal(orange)
	}
	if g.renderer != nil {
		g.renderer.Unload()
	}
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			slog.Error("failed to close config watcher", "error", err)
		}
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
