// pkg/render/engo/scene.go
package engo

import (
	"context"
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
)

// SimulationSystem advances the session by the frame time and draws it
type SimulationSystem struct {
	session  *engine.GameSession
	renderer *EngoRenderer
}

// NewSimulationSystem creates a system driving session
func NewSimulationSystem(session *engine.GameSession, renderer *EngoRenderer) *SimulationSystem {
	return &SimulationSystem{session: session, renderer: renderer}
}

// Priority runs the simulation after input and before the HUD
func (s *SimulationSystem) Priority() int { return 5 }

// Remove satisfies the ecs.System interface
func (s *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update steps the simulation and renders the frame
func (s *SimulationSystem) Update(dt float32) {
	s.session.Advance(float64(dt))
	s.session.Render(s.renderer)
}

// GameScene represents the main game scene in Engo
type GameScene struct {
	session *engine.GameSession
	logger  *logging.Logger

	renderer *EngoRenderer
	input    *InputSystem
	hud      *HUDSystem
}

// NewGameScene creates a new game scene
func NewGameScene(session *engine.GameSession, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GameScene{
		session: session,
		logger:  logger.With("component", "engo_scene"),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if err := LoadHUDFont(); err != nil {
		scene.logger.Error(context.Background(), "failed to load HUD font", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	ctx := context.Background()
	world, ok := u.(*ecs.World)
	if !ok {
		scene.logger.Warn(ctx, "unexpected updater", "type", fmt.Sprintf("%T", u))
		return
	}
	common.SetBackground(colorSpace)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	assets := NewAssetManager()
	if err := assets.LoadAssets(); err != nil {
		scene.logger.Error(ctx, "failed to load assets", err)
	}

	width, height := engo.GameWidth(), engo.GameHeight()
	scene.renderer = NewEngoRenderer(renderSystem, assets, width, height)
	scene.renderer.AddBackground()

	SetupInputBindings()
	scene.input = NewInputSystem(scene.session, EngoButtons{}, scene.logger, nil)
	world.AddSystem(scene.input)

	world.AddSystem(NewSimulationSystem(scene.session, scene.renderer))

	scene.hud = NewHUDSystem(scene.session.Snapshot, renderSystem, width, height)
	if err := scene.hud.LoadFonts(); err != nil {
		scene.logger.Error(ctx, "HUD disabled", err)
	}
	world.AddSystem(scene.hud)

	scene.logger.Info(ctx, "scene ready", "width", width, "height", height)
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	scene.logger.Info(context.Background(), "scene exiting",
		"score", scene.session.Score(),
		"level", scene.session.Level(),
	)
}

// RunOptions builds the window options for the scene
func RunOptions(title string, width, height int, fullscreen, vsync bool, fps int) engo.RunOptions {
	return engo.RunOptions{
		Title:         title,
		Width:         width,
		Height:        height,
		Fullscreen:    fullscreen,
		VSync:         vsync,
		FPSLimit:      fps,
		ScaleOnResize: true,
	}
}
