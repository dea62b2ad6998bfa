// Package autopilot flies the ship through a session's public input API.
// Hosts use it for demos and headless soak runs.
package autopilot

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// Behavior selects how the pilot flies
type Behavior int

const (
	BehaviorHunter  Behavior = iota // Turns toward the nearest asteroid and fires
	BehaviorDrifter                 // Wanders with random turns and bursts
)

// String returns the behavior name
func (b Behavior) String() string {
	switch b {
	case BehaviorHunter:
		return "hunter"
	case BehaviorDrifter:
		return "drifter"
	default:
		return "unknown"
	}
}

// ParseBehavior looks up a behavior by name
func ParseBehavior(s string) (Behavior, error) {
	switch s {
	case "hunter":
		return BehaviorHunter, nil
	case "drifter":
		return BehaviorDrifter, nil
	default:
		return 0, fmt.Errorf("unknown behavior %q", s)
	}
}

// Tuning
const (
	// aimTolerance is how far off target the ship may point before turning.
	aimTolerance = 4.0
	// fireCone is the angle within which the pilot holds the trigger.
	fireCone = 12.0
	// approachDistance is the range beyond which the hunter thrusts.
	approachDistance = 650.0
	// actionCooldown is how often a drifter changes its mind, in seconds.
	actionCooldown = 0.4
)

// controls is the last state sent to the session
type controls struct {
	left, right, thrust, fire bool
}

// Pilot drives a session
type Pilot struct {
	session  *engine.GameSession
	behavior Behavior
	random   *rand.Rand
	logger   *logging.Logger

	// AutoRestart continues and starts a new game after game over.
	AutoRestart bool

	sent        controls
	sinceAction float64
	games       int
}

// New creates a pilot for session. The seed drives the drifter's choices.
func New(session *engine.GameSession, behavior Behavior, seed uint64, logger *logging.Logger) *Pilot {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pilot{
		session:  session,
		behavior: behavior,
		random:   rand.New(rand.NewPCG(seed, uint64(behavior))),
		logger:   logger.With("component", "autopilot", "behavior", behavior.String()),
	}
}

// Games returns how many games the pilot has started
func (p *Pilot) Games() int {
	return p.games
}

// Update decides the controls for the next frame. Call it before Advance.
func (p *Pilot) Update(dt float64) {
	ctx := context.Background()

	switch {
	case p.session.State() == engine.StateTitle:
		if p.games > 0 && !p.AutoRestart {
			return
		}
		if err := p.session.StartNewGame(); err != nil {
			p.logger.Error(ctx, "start failed", err)
			return
		}
		p.games++
		p.sent = controls{}
		p.logger.Info(ctx, "game started", "game", p.games)
		return
	case p.session.IsGameOver():
		if p.AutoRestart {
			p.logger.Info(ctx, "game over", "score", p.session.Score(), "level", p.session.Level())
			if err := p.session.Continue(); err != nil {
				p.logger.Error(ctx, "continue failed", err)
			}
		}
		return
	case p.session.State() == engine.StatePaused:
		return
	}

	var want controls
	switch p.behavior {
	case BehaviorHunter:
		want = p.hunt()
	case BehaviorDrifter:
		want = p.drift(dt)
	}
	p.apply(want)
}

// hunt aims at the nearest live asteroid
func (p *Pilot) hunt() controls {
	state := p.session.Snapshot()
	if state.Ship == nil {
		return controls{}
	}

	target, dist, ok := nearestAsteroid(state)
	if !ok {
		return controls{}
	}

	off := AngleTo(state.Ship.Position, state.Ship.Angle, target)
	return controls{
		left:   off > aimTolerance,
		right:  off < -aimTolerance,
		thrust: dist > approachDistance && math.Abs(off) < fireCone,
		fire:   math.Abs(off) < fireCone,
	}
}

// drift picks a random manoeuvre every actionCooldown seconds
func (p *Pilot) drift(dt float64) controls {
	p.sinceAction += dt
	if p.sinceAction < actionCooldown {
		return p.sent
	}
	p.sinceAction = 0

	turn := p.random.IntN(3)
	return controls{
		left:   turn == 1,
		right:  turn == 2,
		thrust: p.random.IntN(3) == 0,
		fire:   p.random.IntN(2) == 0,
	}
}

// apply sends only the controls that changed
func (p *Pilot) apply(want controls) {
	if want.left != p.sent.left {
		p.session.SetTurnLeft(want.left)
	}
	if want.right != p.sent.right {
		p.session.SetTurnRight(want.right)
	}
	if want.thrust != p.sent.thrust {
		p.session.SetThrust(want.thrust)
	}
	if want.fire != p.sent.fire {
		p.session.SetShooting(want.fire)
	}
	p.sent = want
}

// nearestAsteroid returns the closest asteroid that is not exploding
func nearestAsteroid(state *engine.GameState) (physics.Vector2D, float64, bool) {
	var (
		best  physics.Vector2D
		bestD = math.Inf(1)
		found bool
	)
	for _, a := range state.Asteroids {
		if a.Destroyed {
			continue
		}
		if d := state.Ship.Position.Distance(a.Position); d < bestD {
			best, bestD, found = a.Position, d, true
		}
	}
	return best, bestD, found
}

// AngleTo returns the signed turn in degrees, in (-180, 180], from a
// heading at from to face target. Positive is counter-clockwise.
func AngleTo(from physics.Vector2D, heading float64, target physics.Vector2D) float64 {
	bearing := target.Sub(from).Angle() * 180 / math.Pi
	off := physics.NormalizeDegrees(bearing - heading)
	if off > 180 {
		off -= 360
	}
	return off
}
