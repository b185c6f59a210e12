package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/portals/config"
	"github.com/pthm-cable/portals/game"
	"github.com/pthm-cable/portals/level"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelName := flag.String("level", game.DefaultLevel, "Builtin level ("+strings.Join(level.BuiltinNames(), ", ")+") or path to a level file")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	watch := flag.Bool("watch", false, "Reload -config when the file changes")
	debug := flag.Bool("debug", false, "Log at debug level")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Build game options
	opts := game.Options{
		Level:       *levelName,
		OutputDir:   *outputDir,
		LogStats:    *logStats,
		Headless:    *headless,
		ConfigPath:  *configPath,
		WatchConfig: *watch,
	}

	if *headless {
		// Headless mode - no raylib window, captures are counted only
		g, err := game.NewGame(opts, cfg)
		if err != nil {
			slog.Error("failed to start game", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless run",
			"level", *levelName,
			"max_ticks", *maxTicks,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), game.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.DisableCursor()

	g, err := game.NewGame(opts, cfg)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
