// pkg/render/engo/input.go
package engo

import (
	"context"
	"errors"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
)

// Button names
const (
	ButtonThrust    = "thrust"
	ButtonTurnLeft  = "turnLeft"
	ButtonTurnRight = "turnRight"
	ButtonFire      = "fire"
	ButtonPause     = "pause"
	ButtonEnter     = "enter"
	ButtonEscape    = "escape"
)

// Controls is the part of a game session driven by the keyboard
type Controls interface {
	State() engine.State
	IsGameOver() bool
	StartNewGame() error
	Continue() error
	TogglePause()
	SetTurnLeft(on bool)
	SetTurnRight(on bool)
	SetThrust(on bool)
	SetShooting(on bool)
}

// ButtonSource reports button states by name
type ButtonSource interface {
	Down(name string) bool
	JustPressed(name string) bool
}

// EngoButtons reads buttons registered with engo.Input
type EngoButtons struct{}

func (EngoButtons) Down(name string) bool { return engo.Input.Button(name).Down() }
func (EngoButtons) JustPressed(name string) bool { return engo.Input.Button(name).JustPressed() }

// held is the set of continuous controls
type held struct {
	thrust, left, right, fire bool
}

// InputSystem turns keyboard state into session calls. Held keys are
// forwarded only when they change.
type InputSystem struct {
	controls Controls
	buttons  ButtonSource
	logger   *logging.Logger
	quit     func()

	last held
}

// NewInputSystem creates a new input system. quit runs when Escape is
// pressed; nil means engo.Exit.
func NewInputSystem(controls Controls, buttons ButtonSource, logger *logging.Logger, quit func()) *InputSystem {
	if buttons == nil {
		buttons = EngoButtons{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if quit == nil {
		quit = engo.Exit
	}
	return &InputSystem{
		controls: controls,
		buttons:  buttons,
		logger:   logger.With("component", "input"),
		quit:     quit,
	}
}

// Priority runs input before the simulation
func (is *InputSystem) Priority() int { return 10 }

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes input for one frame
func (is *InputSystem) Update(dt float32) {
	if is.buttons.JustPressed(ButtonEscape) {
		is.quit()
		return
	}

	switch {
	case is.controls.State() == engine.StateTitle:
		if is.buttons.JustPressed(ButtonEnter) {
			is.report("start game", is.controls.StartNewGame())
			// Keys held through the title screen count as fresh presses.
			is.last = held{}
		}
		return
	case is.controls.IsGameOver():
		if is.buttons.JustPressed(ButtonEnter) {
			is.report("continue", is.controls.Continue())
		}
		return
	}

	if is.buttons.JustPressed(ButtonPause) {
		is.controls.TogglePause()
	}
	is.handleHeld()
}

// handleHeld forwards changes in the continuous controls
func (is *InputSystem) handleHeld() {
	now := held{
		thrust: is.buttons.Down(ButtonThrust),
		left:   is.buttons.Down(ButtonTurnLeft),
		right:  is.buttons.Down(ButtonTurnRight),
		fire:   is.buttons.Down(ButtonFire),
	}

	if now.thrust != is.last.thrust {
		is.controls.SetThrust(now.thrust)
	}
	if now.left != is.last.left {
		is.controls.SetTurnLeft(now.left)
	}
	if now.right != is.last.right {
		is.controls.SetTurnRight(now.right)
	}
	if now.fire != is.last.fire {
		is.controls.SetShooting(now.fire)
	}
	is.last = now
}

func (is *InputSystem) report(action string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, engine.ErrNotOnTitle) || errors.Is(err, engine.ErrNotGameOver) {
		is.logger.Debug(context.Background(), "input ignored", "action", action, "reason", err.Error())
		return
	}
	is.logger.Error(context.Background(), "input failed", err, "action", action)
}

// SetupInputBindings sets up the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonThrust, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(ButtonTurnLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonTurnRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonFire, engo.KeySpace)
	engo.Input.RegisterButton(ButtonPause, engo.KeyP)
	engo.Input.RegisterButton(ButtonEnter, engo.KeyEnter)
	engo.Input.RegisterButton(ButtonEscape, engo.KeyEscape)
}
