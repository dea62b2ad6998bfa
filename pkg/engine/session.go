// pkg/engine/session.go
package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/opd-ai/go-spaceshooter/pkg/config"
	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/event"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// State is the lifecycle state of a session
type State int

const (
	StateTitle State = iota
	StatePlaying
	StatePaused
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateTitle:
		return "title"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

const (
	// levelTitleCap bounds the level title timer so it cannot grow forever.
	levelTitleCap = 5.0
	// shipHiddenFrame is the explosion frame from which the ship is no
	// longer drawn.
	shipHiddenFrame = 5
	// gameOverFrame is the explosion frame that ends the game.
	gameOverFrame = 9
)

var (
	// ErrNotOnTitle is returned when a new game is requested mid-game.
	ErrNotOnTitle = errors.New("session is not on the title screen")
	// ErrNotGameOver is returned by Continue while the game is still running.
	ErrNotGameOver = errors.New("game is not over")
)

// GameSession owns one run of the game: the ship, every live entity, the
// score and the fixed-step clock. It is not safe for concurrent use; hosts
// drive it from a single goroutine.
type GameSession struct {
	ID     string
	Config *config.GameConfig

	Ship      *entity.Spaceship
	Explosion *entity.Explosion
	Asteroids []*entity.Asteroid
	Shots     []*entity.Shot
	PowerUps  []*entity.PowerUp

	score           int
	level           int
	lastPowerUp     int
	levelTitleTimer float64
	accumulator     float64
	timeStep        float64
	tick            uint64
	gameOver        bool
	state           State

	shooting      bool
	thrustPressed bool
	musicID       entity.PlayingID
	thrustID      entity.PlayingID

	rng    *physics.RandomGenerator
	ids    entity.IDAllocator
	audio  entity.AudioSink
	bus    *event.Bus
	logger *logging.Logger
}

// NewGameSession creates a session sitting on the title screen. A nil
// audio sink, bus or logger is replaced by a silent one.
func NewGameSession(cfg *config.GameConfig, audio entity.AudioSink, bus *event.Bus, logger *logging.Logger) *GameSession {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if audio == nil {
		audio = entity.NopAudio{}
	}
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	id := uuid.NewString()
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = uint64(uuid.New().ID())
	}

	s := &GameSession{
		ID:       id,
		Config:   cfg,
		timeStep: cfg.TimeStep(),
		state:    StateTitle,
		rng:      physics.NewRandomGenerator(seed),
		audio:    audio,
		bus:      bus,
		logger:   logger.With("session_id", id),
	}
	s.musicID = s.audio.PlayEvent(entity.SoundTitleMusic, entity.GameObject)
	s.logger.Info(context.Background(), "session created", "seed", seed, "time_step", s.timeStep)
	return s
}

// EventBus returns the bus the session publishes on.
func (s *GameSession) EventBus() *event.Bus {
	return s.bus
}

// StartNewGame leaves the title screen and starts level 1.
func (s *GameSession) StartNewGame() error {
	if s.state != StateTitle {
		return ErrNotOnTitle
	}

	s.reset()
	s.Ship = entity.NewSpaceship(s.ids.Next(), physics.Center, entity.ShipRadius, 0, s.audio)
	s.level = 1
	s.spawnAsteroids(s.level)
	s.state = StatePlaying

	s.audio.StopEvent(entity.SoundTitleMusic, entity.GameObject, s.musicID)
	s.musicID = s.audio.PlayEvent(entity.SoundGameMusic, entity.GameObject)

	s.bus.Publish(event.NewSessionEvent(event.GameStarted, s, s.level, s.score))
	s.bus.Publish(event.NewSessionEvent(event.LevelStarted, s, s.level, s.score))
	s.logger.Info(context.Background(), "game started")
	return nil
}

// reset clears everything left over from a previous game.
func (s *GameSession) reset() {
	s.Ship = nil
	s.Explosion = nil
	s.Asteroids = nil
	s.Shots = nil
	s.PowerUps = nil
	s.score = 0
	s.level = 0
	s.lastPowerUp = 0
	s.levelTitleTimer = 0
	s.accumulator = 0
	s.tick = 0
	s.gameOver = false
	s.shooting = false
	s.thrustPressed = false
}

// spawnAsteroids adds n big asteroids at random positions.
func (s *GameSession) spawnAsteroids(n int) {
	for i := 0; i < n; i++ {
		position := s.rng.RandomPosition()
		rotation := s.rng.RandomFloat(1, 10, 1)
		velocity := physics.Vector2D{
			X: s.rng.RandomFloat(-50, 50, 1),
			Y: s.rng.RandomFloat(-50, 50, 1),
		}
		s.Asteroids = append(s.Asteroids, entity.NewAsteroid(s.ids.Next(), entity.Big, position, velocity, rotation))
	}
}

// Advance feeds one frame's worth of wall-clock time into the simulation
// and runs as many fixed steps as fit. Leftover time carries over to the
// next frame. Nothing happens outside StatePlaying.
func (s *GameSession) Advance(frameDelta float64) {
	if s.state != StatePlaying {
		return
	}

	if len(s.Asteroids) == 0 {
		s.nextLevel()
	}

	if frameDelta > s.Config.Simulation.MaxFrameDelta {
		frameDelta = s.Config.Simulation.MaxFrameDelta
	}
	if frameDelta > 0 {
		s.accumulator += frameDelta
	}

	for s.accumulator >= s.timeStep {
		s.step(s.timeStep)
		s.accumulator -= s.timeStep
	}
}

// nextLevel starts the next wave once the field is clear.
func (s *GameSession) nextLevel() {
	s.level++
	s.spawnAsteroids(s.level)
	s.levelTitleTimer = 0
	s.Ship.ActivateShield(s.audio)

	s.bus.Publish(event.NewSessionEvent(event.LevelStarted, s, s.level, s.score))
	s.logger.Info(context.Background(), "level started", "level", s.level)
}

// step runs one fixed simulation step.
func (s *GameSession) step(dt float64) {
	s.tick++

	s.levelTitleTimer += dt
	if s.levelTitleTimer > levelTitleCap {
		s.levelTitleTimer = levelTitleCap
	}

	if !s.Ship.IsDestroyed() {
		s.collideShip()
	}
	s.Ship.Update(dt)

	if s.shooting && !s.Ship.IsDestroyed() {
		s.shoot()
	}

	s.updateShots(dt)
	s.updateAsteroids(dt)
	entity.CollideAsteroids(s.Asteroids, s.audio)

	if s.Ship.IsDestroyed() {
		s.handleShipDestroyed()
	}
	s.updateExplosion(dt)

	s.spawnPowerUp()
	if grabbed := s.Ship.CollideWithPowerUps(s.PowerUps, s.audio); grabbed != nil {
		s.bus.Publish(event.NewPowerUpEvent(event.PowerUpGrabbed, s, uint64(grabbed.ID), s.Ship.PowerUps))
	}
	s.prunePowerUps()
}

// collideShip handles the ship ramming an asteroid.
func (s *GameSession) collideShip() {
	livesBefore := s.Ship.Lives
	result := s.Ship.CollidedWithAsteroids(s.Asteroids, &s.ids, s.audio)
	if !result.Hit {
		return
	}
	s.applyHit(result)

	if s.Ship.IsDestroyed() {
		s.bus.Publish(event.NewShipEvent(event.ShipDestroyed, s, uint64(s.Ship.ID), s.Ship.Lives))
		s.logger.Info(context.Background(), "ship destroyed", "score", s.score, "level", s.level)
		return
	}
	s.bus.Publish(event.NewShipEvent(event.ShipHit, s, uint64(s.Ship.ID), s.Ship.Lives))
	s.logger.Debug(context.Background(), "ship hit", "lives_before", livesBefore, "lives", s.Ship.Lives)
}

// shoot fires a volley if the blaster has cooled down.
func (s *GameSession) shoot() {
	shots := s.Ship.Shoot(&s.ids, s.audio)
	if len(shots) == 0 {
		return
	}
	s.Shots = append(s.Shots, shots...)
	s.bus.Publish(event.NewShotEvent(s, len(shots)))
}

// updateShots moves every shot, drops expired ones and resolves hits.
// The slice is walked from the back so removal keeps indices valid.
func (s *GameSession) updateShots(dt float64) {
	for i := len(s.Shots) - 1; i >= 0; i-- {
		shot := s.Shots[i]
		if !shot.Update(dt) {
			s.Shots = append(s.Shots[:i], s.Shots[i+1:]...)
			continue
		}
		if result := shot.CollideWithAsteroids(s.Asteroids, &s.ids, s.audio); result.Hit {
			s.applyHit(result)
		}
	}
}

// applyHit adds the fragments and points of an asteroid hit.
func (s *GameSession) applyHit(result entity.HitResult) {
	s.Asteroids = append(s.Asteroids, result.Fragments...)
	if result.Points <= 0 {
		return
	}
	s.score += result.Points

	a := result.Asteroid
	s.bus.Publish(event.NewAsteroidEvent(s, uint64(a.ID), a.Variant.String(), result.Points,
		len(result.Fragments), a.Position.X, a.Position.Y))
	s.bus.Publish(event.NewScoreEvent(s, s.score, result.Points))
}

// updateAsteroids removes asteroids whose explosion has finished and
// advances the rest.
func (s *GameSession) updateAsteroids(dt float64) {
	for i := len(s.Asteroids) - 1; i >= 0; i-- {
		asteroid := s.Asteroids[i]
		if asteroid.IsDead() {
			s.Asteroids = append(s.Asteroids[:i], s.Asteroids[i+1:]...)
			continue
		}
		asteroid.Update(dt)
	}
}

// handleShipDestroyed silences the engine and, the first time round,
// spawns the ship's explosion.
func (s *GameSession) handleShipDestroyed() {
	if s.Ship.Exploded() {
		return
	}
	s.Ship.Thrusting = false
	s.audio.StopEvent(entity.SoundThrust, entity.GameObject, s.thrustID)

	s.Ship.SetExploded()
	s.Explosion = entity.NewExplosion(s.ids.Next(), s.Ship.Position, s.Ship.Radius)
	s.audio.SetPositionalParameter(entity.GameObject, s.Ship.Position.X)
	s.audio.PlayEvent(entity.SoundExplosion, entity.GameObject)
}

// updateExplosion runs the ship explosion and ends the game near its end.
func (s *GameSession) updateExplosion(dt float64) {
	if s.Explosion == nil {
		return
	}
	if s.Explosion.Frame >= gameOverFrame && !s.gameOver {
		s.gameOver = true
		s.bus.Publish(event.NewSessionEvent(event.GameOver, s, s.level, s.score))
		s.logger.Info(context.Background(), "game over", "score", s.score, "level", s.level)
	}
	if s.Explosion.Finished() {
		s.Explosion = nil
		return
	}
	s.Explosion.Update(dt)
}

// spawnPowerUp drops a power-up once the score has grown enough since the
// last one, unless the ship already holds or could collect the maximum.
func (s *GameSession) spawnPowerUp() {
	if s.Ship.PowerUps+len(s.PowerUps) >= entity.MaxPowerUps {
		return
	}
	if s.score-s.lastPowerUp < s.Config.Rules.PowerUpScoreInterval {
		return
	}
	powerUp := entity.NewPowerUp(s.ids.Next(), s.rng.RandomPosition())
	s.PowerUps = append(s.PowerUps, powerUp)
	s.lastPowerUp = s.score
	s.bus.Publish(event.NewPowerUpEvent(event.PowerUpSpawned, s, uint64(powerUp.ID), s.Ship.PowerUps))
}

// prunePowerUps drops collected power-ups.
func (s *GameSession) prunePowerUps() {
	for i := len(s.PowerUps) - 1; i >= 0; i-- {
		if !s.PowerUps[i].Update() {
			s.PowerUps = append(s.PowerUps[:i], s.PowerUps[i+1:]...)
		}
	}
}

// acceptsControls reports whether ship controls are live.
func (s *GameSession) acceptsControls() bool {
	return s.state == StatePlaying && !s.gameOver && s.Ship != nil
}

// SetTurnLeft starts or stops turning counter-clockwise.
func (s *GameSession) SetTurnLeft(on bool) {
	if s.acceptsControls() {
		s.Ship.TurningLeft = on
	}
}

// SetTurnRight starts or stops turning clockwise.
func (s *GameSession) SetTurnRight(on bool) {
	if s.acceptsControls() {
		s.Ship.TurningRight = on
	}
}

// SetShooting holds or releases the trigger.
func (s *GameSession) SetShooting(on bool) {
	if s.acceptsControls() {
		s.shooting = on
	}
}

// SetThrust starts or stops the engine. Pressing thrust while paused is
// remembered and applied on resume.
func (s *GameSession) SetThrust(on bool) {
	switch {
	case s.state == StatePaused:
		if !on {
			s.stopThrust()
		}
		s.thrustPressed = on
	case s.acceptsControls():
		if on {
			if s.Ship.IsDestroyed() {
				return
			}
			s.startThrust()
		} else {
			s.stopThrust()
		}
		s.thrustPressed = on
	}
}

func (s *GameSession) startThrust() {
	s.audio.SetPositionalParameter(entity.GameObject, s.Ship.Position.X)
	s.thrustID = s.audio.PlayEvent(entity.SoundThrust, entity.GameObject)
	s.Ship.Thrusting = true
}

func (s *GameSession) stopThrust() {
	s.audio.StopEvent(entity.SoundThrust, entity.GameObject, s.thrustID)
	s.Ship.Thrusting = false
}

// TogglePause pauses a running game or resumes a paused one. It does
// nothing on the title screen or after game over.
func (s *GameSession) TogglePause() {
	switch {
	case s.state == StatePaused:
		s.audio.PlayEvent(entity.SoundPause, entity.GameObject)
		s.state = StatePlaying
		s.audio.ResumeEvent(entity.SoundGameMusic, entity.GameObject, s.musicID)
		s.audio.ResumeEvent(entity.SoundThrust, entity.GameObject, s.thrustID)
		s.Ship.Resume(s.audio)
		if s.thrustPressed && !s.Ship.IsDestroyed() {
			s.startThrust()
		}
		s.bus.Publish(event.NewSessionEvent(event.GameResumed, s, s.level, s.score))
	case s.acceptsControls():
		s.audio.PlayEvent(entity.SoundPause, entity.GameObject)
		s.state = StatePaused
		s.audio.PauseEvent(entity.SoundGameMusic, entity.GameObject, s.musicID)
		s.audio.PauseEvent(entity.SoundThrust, entity.GameObject, s.thrustID)
		s.Ship.Pause(s.audio)
		s.bus.Publish(event.NewSessionEvent(event.GamePaused, s, s.level, s.score))
	}
}

// Continue returns to the title screen after game over.
func (s *GameSession) Continue() error {
	if s.state != StatePlaying || !s.gameOver {
		return ErrNotGameOver
	}
	finalScore := s.score
	s.score = 0
	s.state = StateTitle
	s.audio.StopEvent(entity.SoundGameMusic, entity.GameObject, s.musicID)
	s.musicID = s.audio.PlayEvent(entity.SoundTitleMusic, entity.GameObject)

	s.bus.Publish(event.NewSessionEvent(event.ReturnedToTitle, s, s.level, finalScore))
	s.logger.Info(context.Background(), "returned to title", "final_score", finalScore)
	return nil
}

// Score returns the current score
func (s *GameSession) Score() int { return s.score }

// Level returns the current level
func (s *GameSession) Level() int { return s.level }

// State returns the lifecycle state
func (s *GameSession) State() State { return s.state }

// IsGameOver reports whether the ship's explosion has played out
func (s *GameSession) IsGameOver() bool { return s.gameOver }

// Tick returns the number of fixed steps run in the current game
func (s *GameSession) Tick() uint64 { return s.tick }

// Lives returns the ship's remaining lives, or 0 without a ship.
func (s *GameSession) Lives() int {
	if s.Ship == nil {
		return 0
	}
	return s.Ship.Lives
}

// HeldPowerUps returns the number of power-ups the ship holds.
func (s *GameSession) HeldPowerUps() int {
	if s.Ship == nil {
		return 0
	}
	return s.Ship.PowerUps
}

// ShowLevelTitle reports whether the "Level N" banner should be drawn.
func (s *GameSession) ShowLevelTitle() bool {
	return s.state != StateTitle && s.levelTitleTimer < s.Config.Rules.LevelTitleSeconds
}

// ShipVisible reports whether the ship should be drawn. The ship vanishes
// partway through its explosion.
func (s *GameSession) ShipVisible() bool {
	if s.Ship == nil {
		return false
	}
	if s.Explosion != nil {
		return s.Explosion.Frame < shipHiddenFrame
	}
	return !s.Ship.IsDestroyed()
}

// Render draws the playfield: ship, shots, power-ups, asteroids and the
// ship's explosion, in that order.
func (s *GameSession) Render(r entity.Renderer) {
	r.Clear()
	if s.state != StateTitle && s.Ship != nil {
		if s.ShipVisible() {
			s.Ship.Render(r)
		}
		for _, shot := range s.Shots {
			shot.Render(r)
		}
		for _, powerUp := range s.PowerUps {
			powerUp.Render(r)
		}
		for _, asteroid := range s.Asteroids {
			asteroid.Render(r)
		}
		if s.Explosion != nil && !s.Explosion.Finished() {
			s.Explosion.Render(r)
		}
	}
	r.Present()
}
