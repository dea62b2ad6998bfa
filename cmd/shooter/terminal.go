// cmd/shooter/terminal.go
package main

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-spaceshooter/pkg/config"
	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
	"github.com/opd-ai/go-spaceshooter/pkg/render"
)

// holdWindow is how long a key counts as held after its last press or
// repeat. Terminals report no key releases.
const holdWindow = 0.5

var errQuit = errors.New("quit requested")

type command int

const (
	cmdNone command = iota
	cmdLeft
	cmdRight
	cmdThrust
	cmdFire
	cmdPause
	cmdEnter
	cmdQuit
)

// keyCommand maps a key event to a game command
func keyCommand(ev *tcell.EventKey) command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmdQuit
	case tcell.KeyEnter:
		return cmdEnter
	case tcell.KeyLeft:
		return cmdLeft
	case tcell.KeyRight:
		return cmdRight
	case tcell.KeyUp:
		return cmdThrust
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			return cmdLeft
		case 'd', 'D':
			return cmdRight
		case 'w', 'W':
			return cmdThrust
		case ' ':
			return cmdFire
		case 'p', 'P':
			return cmdPause
		case 'q', 'Q':
			return cmdQuit
		}
	}
	return cmdNone
}

// controls is the part of the session the keyboard drives
type controls interface {
	SetTurnLeft(bool)
	SetTurnRight(bool)
	SetThrust(bool)
	SetShooting(bool)
}

// heldKeys turns key presses into held controls that expire after
// holdWindow, forwarding only changes to the session.
type heldKeys struct {
	left, right, thrust, fire float64 // seconds left held
	sent                      [4]bool
}

func (h *heldKeys) press(c command) {
	switch c {
	case cmdLeft:
		h.left, h.right = holdWindow, 0
	case cmdRight:
		h.right, h.left = holdWindow, 0
	case cmdThrust:
		h.thrust = holdWindow
	case cmdFire:
		h.fire = holdWindow
	}
}

// step ages the holds by dt and forwards any control that changed
func (h *heldKeys) step(dt float64, c controls) {
	timers := [4]*float64{&h.left, &h.right, &h.thrust, &h.fire}
	setters := [4]func(bool){c.SetTurnLeft, c.SetTurnRight, c.SetThrust, c.SetShooting}

	for i, t := range timers {
		down := *t > 0
		if down != h.sent[i] {
			setters[i](down)
			h.sent[i] = down
		}
		if *t -= dt; *t < 0 {
			*t = 0
		}
	}
}

// reset forgets every hold without touching the session
func (h *heldKeys) reset() {
	*h = heldKeys{}
}

// terminalHost runs a session inside a tcell screen
type terminalHost struct {
	session  *engine.GameSession
	renderer *render.TerminalRenderer
	logger   *logging.Logger
	keys     heldKeys
}

// handle applies one terminal event. It returns errQuit when the player
// asks to leave.
func (t *terminalHost) handle(ctx context.Context, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.renderer.Resize()
	case *tcell.EventKey:
		cmd := keyCommand(ev)
		switch cmd {
		case cmdQuit:
			return errQuit
		case cmdEnter:
			t.enter(ctx)
		case cmdPause:
			if t.session.State() != engine.StateTitle && !t.session.IsGameOver() {
				t.session.TogglePause()
			}
		case cmdNone:
		default:
			if t.session.State() == engine.StatePlaying && !t.session.IsGameOver() {
				t.keys.press(cmd)
			}
		}
	}
	return nil
}

func (t *terminalHost) enter(ctx context.Context) {
	switch {
	case t.session.State() == engine.StateTitle:
		if err := t.session.StartNewGame(); err != nil {
			t.logger.Debug(ctx, "Ignored start", "error", err.Error())
			return
		}
		t.keys.reset()
	case t.session.IsGameOver():
		if err := t.session.Continue(); err != nil {
			t.logger.Debug(ctx, "Ignored continue", "error", err.Error())
		}
	}
}

// frame advances the session by dt and draws it
func (t *terminalHost) frame(dt float64) {
	if t.session.State() == engine.StatePlaying {
		t.keys.step(dt, t.session)
	}
	t.session.Advance(dt)
	t.renderer.Frame(t.session)
}

// runTerminal plays the game in the current terminal until the player
// quits, ctx is cancelled or limit elapses.
func runTerminal(ctx context.Context, cfg *config.GameConfig, session *engine.GameSession, logger *logging.Logger, limit time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "init screen")
	}
	screen.HideCursor()

	return serveTerminal(ctx, cfg, screen, session, logger, limit)
}

// serveTerminal runs the event pump and frame loop on an initialised
// screen and finalises it on return.
func serveTerminal(ctx context.Context, cfg *config.GameConfig, screen tcell.Screen, session *engine.GameSession, logger *logging.Logger, limit time.Duration) error {
	host := &terminalHost{
		session:  session,
		renderer: render.NewTerminalRenderer(screen),
		logger:   logger.With("component", "terminal"),
	}

	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 100)

	// PollEvent returns nil once the screen is finalised.
	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer screen.Fini()

		frameTime := time.Second / time.Duration(cfg.Render.TargetFPS)
		ticker := time.NewTicker(frameTime)
		defer ticker.Stop()
		last := time.Now()

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				if err := host.handle(ctx, ev); err != nil {
					return err
				}
			case now := <-ticker.C:
				host.frame(now.Sub(last).Seconds())
				last = now
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
