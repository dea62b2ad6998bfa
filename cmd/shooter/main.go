// cmd/shooter/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-spaceshooter/pkg/audio"
	"github.com/opd-ai/go-spaceshooter/pkg/config"
	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/event"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
	engorender "github.com/opd-ai/go-spaceshooter/pkg/render/engo"
)

// options are the command-line settings
type options struct {
	configPath    string
	createDefault bool
	renderer      string
	seed          uint64
	duration      time.Duration
	behavior      string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "shooter.toml", "Path to configuration file (.toml, .yaml or .json)")
	flag.BoolVar(&opts.createDefault, "default", false, "Create default configuration file and exit")
	flag.StringVar(&opts.renderer, "renderer", "", "Renderer: engo, terminal or headless (overrides config)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Simulation seed, 0 picks one (overrides config)")
	flag.DurationVar(&opts.duration, "duration", 0, "Stop after this long, 0 runs until quit (headless defaults to 1m)")
	flag.StringVar(&opts.behavior, "behavior", "hunter", "Autopilot behavior for the headless renderer")
	flag.Parse()

	os.Exit(run(opts))
}

// run plays one session and returns the process exit code. Deferred
// cleanup runs before main exits.
func run(opts options) int {
	bootLogger := logging.NewLogger()
	ctx := context.Background()

	if opts.createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			bootLogger.Error(ctx, "Failed to create default configuration", err, "config_path", opts.configPath)
			return 1
		}
		bootLogger.Info(ctx, "Created default configuration file", "config_path", opts.configPath)
		return 0
	}

	gameConfig, err := loadConfig(opts.configPath, bootLogger)
	if err != nil {
		bootLogger.Error(ctx, "Failed to load configuration", err, "config_path", opts.configPath)
		return 1
	}
	if opts.renderer != "" {
		gameConfig.Render.Renderer = opts.renderer
	}
	if opts.seed != 0 {
		gameConfig.Simulation.Seed = opts.seed
	}
	if err := gameConfig.Validate(); err != nil {
		bootLogger.Error(ctx, "Invalid configuration", err)
		return 1
	}

	logger, err := logging.New(logging.Options{
		Level:  gameConfig.Logging.Level,
		Format: gameConfig.Logging.Format,
		Output: outputPaths(gameConfig),
	})
	if err != nil {
		bootLogger.Error(ctx, "Failed to build logger", err)
		return 1
	}
	defer logger.Sync()
	ctx = logging.WithCorrelationID(ctx, logging.GenerateCorrelationID())

	sink, closeAudio := newAudio(ctx, gameConfig, logger)
	defer closeAudio()

	bus := event.NewEventBus()
	session := engine.NewGameSession(gameConfig, sink, bus, logger)
	logger.Info(ctx, "Session created",
		"session_id", session.ID,
		"renderer", gameConfig.Render.Renderer,
		"seed", gameConfig.Simulation.Seed,
	)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch gameConfig.Render.Renderer {
	case config.RendererEngo:
		runEngo(gameConfig, session, logger)
	case config.RendererTerminal:
		err = runTerminal(runCtx, gameConfig, session, logger, opts.duration)
	case config.RendererHeadless:
		duration := opts.duration
		if duration == 0 {
			duration = time.Minute
		}
		err = runHeadless(runCtx, gameConfig, session, logger, opts.behavior, duration)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Host failed", err)
		return 1
	}

	logger.Info(ctx, "Shutting down",
		"score", session.Score(),
		"level", session.Level(),
		"checksum", fmt.Sprintf("%016x", session.Checksum()),
	)
	return 0
}

// loadConfig reads path when it exists, falls back to defaults when it
// does not, then applies SHOOTER_* overrides.
func loadConfig(path string, logger *logging.Logger) (*config.GameConfig, error) {
	var gameConfig *config.GameConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(context.Background(), "Configuration file not found, using default configuration",
			"config_path", path,
		)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := gameConfig.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	return gameConfig, nil
}

// outputPaths keeps the terminal clear of log lines when tcell owns it
func outputPaths(cfg *config.GameConfig) []string {
	if cfg.Logging.Output != "" {
		return []string{cfg.Logging.Output}
	}
	if cfg.Render.Renderer == config.RendererTerminal {
		return []string{"shooter.log"}
	}
	return nil
}

// newAudio opens the speaker when audio is enabled. Failing to open it is
// not fatal: the game runs silent.
func newAudio(ctx context.Context, cfg *config.GameConfig, logger *logging.Logger) (entity.AudioSink, func()) {
	if !cfg.Audio.Enabled || cfg.Render.Renderer == config.RendererHeadless {
		return audio.NewLoggingSink(logger, nil), func() {}
	}

	sink := audio.NewBeepSink(cfg.Audio, logger)
	if err := sink.Start(); err != nil {
		logger.Warn(ctx, "Audio unavailable, running silent", "error", err.Error())
		return audio.NewLoggingSink(logger, nil), func() {}
	}
	return audio.NewLoggingSink(logger, sink), sink.Close
}

// runEngo opens a window and blocks until it is closed
func runEngo(cfg *config.GameConfig, session *engine.GameSession, logger *logging.Logger) {
	opts := engorender.RunOptions("Space Shooter",
		cfg.Render.Width, cfg.Render.Height,
		cfg.Render.Fullscreen, cfg.Render.VSync, cfg.Render.TargetFPS,
	)
	engo.Run(opts, engorender.NewGameScene(session, logger))
}
