package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spaceshooter/pkg/audio"
	"github.com/opd-ai/go-spaceshooter/pkg/config"
	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/event"
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// testConfig uses a power-of-two step so accumulator arithmetic is exact.
func testConfig() *config.GameConfig {
	cfg := config.DefaultConfig()
	cfg.Simulation.Seed = 42
	cfg.Simulation.TickRate = 128
	cfg.Simulation.MaxFrameDelta = 0.25
	return cfg
}

const testStep = 1.0 / 128

// eventLog collects every event published on a bus
type eventLog struct {
	events []event.Event
}

func (l *eventLog) count(t event.Type) int {
	n := 0
	for _, e := range l.events {
		if e.GetType() == t {
			n++
		}
	}
	return n
}

func newTestSession(t *testing.T) (*GameSession, *audio.Recorder, *eventLog) {
	t.Helper()
	rec := audio.NewRecorder()
	bus := event.NewEventBus()
	log := &eventLog{}
	for _, typ := range []event.Type{
		event.GameStarted, event.LevelStarted, event.GamePaused, event.GameResumed,
		event.GameOver, event.ReturnedToTitle, event.ScoreChanged, event.AsteroidDestroyed,
		event.ShotsFired, event.ShipHit, event.ShipDestroyed, event.PowerUpSpawned,
		event.PowerUpGrabbed,
	} {
		bus.Subscribe(typ, func(e event.Event) { log.events = append(log.events, e) })
	}
	return NewGameSession(testConfig(), rec, bus, nil), rec, log
}

// startedSession returns a playing session with a single motionless big
// asteroid parked in the far corner, away from the ship.
func startedSession(t *testing.T) (*GameSession, *audio.Recorder, *eventLog) {
	t.Helper()
	s, rec, log := newTestSession(t)
	require.NoError(t, s.StartNewGame())
	s.Asteroids = []*entity.Asteroid{
		entity.NewAsteroid(s.ids.Next(), entity.Big, physics.Vector2D{X: 100, Y: 100}, physics.Vector2D{}, 0),
	}
	rec.Reset()
	log.events = nil
	return s, rec, log
}

func TestNewGameSession_TitleScreen(t *testing.T) {
	s, rec, _ := newTestSession(t)

	assert.Equal(t, StateTitle, s.State())
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, []string{entity.SoundTitleMusic}, rec.Played())
	assert.False(t, s.ShowLevelTitle())

	s.Advance(1)
	assert.Zero(t, s.Tick(), "title screen must not simulate")
}

func TestStartNewGame(t *testing.T) {
	s, rec, log := newTestSession(t)

	require.NoError(t, s.StartNewGame())

	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, 1, s.Level())
	assert.Zero(t, s.Score())
	assert.Equal(t, entity.StartingLives, s.Lives())
	require.Len(t, s.Asteroids, 1)
	assert.Equal(t, entity.Big, s.Asteroids[0].Variant)
	assert.True(t, physics.InBounds(s.Asteroids[0].Position))
	assert.Equal(t, physics.Center, s.Ship.Position)
	assert.True(t, s.Ship.ShieldUp)
	assert.True(t, s.ShowLevelTitle())

	assert.Equal(t, 1, rec.Count(audio.MethodStop, entity.SoundTitleMusic))
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundGameMusic))
	assert.Equal(t, 1, log.count(event.GameStarted))
	assert.Equal(t, 1, log.count(event.LevelStarted))

	assert.ErrorIs(t, s.StartNewGame(), ErrNotOnTitle)
}

func TestAdvance_FixedStep(t *testing.T) {
	tests := []struct {
		name   string
		frames []float64
		want   uint64
	}{
		{"exact steps", []float64{testStep * 4}, 4},
		{"remainder carries over", []float64{testStep * 1.5, testStep * 0.5}, 2},
		{"too short", []float64{testStep / 2}, 0},
		{"clamped", []float64{10}, 32},
		{"negative ignored", []float64{-1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := startedSession(t)
			for _, dt := range tt.frames {
				s.Advance(dt)
			}
			assert.Equal(t, tt.want, s.Tick())
		})
	}
}

func TestAdvance_LevelCleared(t *testing.T) {
	s, _, log := startedSession(t)
	s.Asteroids = nil
	s.levelTitleTimer = 3
	s.Ship.ShieldUp = false

	s.Advance(testStep)

	assert.Equal(t, 2, s.Level())
	assert.Len(t, s.Asteroids, 2)
	assert.True(t, s.Ship.ShieldUp)
	assert.True(t, s.ShowLevelTitle())
	assert.Equal(t, 1, log.count(event.LevelStarted))
}

func TestAdvance_LevelClearedSpawnsBigs(t *testing.T) {
	s, _, _ := startedSession(t)
	s.level = 2
	s.Asteroids = nil

	s.Advance(testStep)

	assert.Equal(t, 3, s.Level())
	require.Len(t, s.Asteroids, 3)
	for i, a := range s.Asteroids {
		assert.Equal(t, entity.Big, a.Variant, "asteroid %d", i)
		assert.False(t, a.Destroyed, "asteroid %d", i)
	}
}

func TestLevelTitleExpires(t *testing.T) {
	s, _, _ := startedSession(t)
	for i := 0; i < 20; i++ {
		s.Advance(0.25)
	}
	assert.False(t, s.ShowLevelTitle())
	assert.LessOrEqual(t, s.levelTitleTimer, levelTitleCap)
}

func TestShotDestroysAsteroid(t *testing.T) {
	s, rec, log := startedSession(t)
	target := entity.NewAsteroid(s.ids.Next(), entity.Big, s.Ship.Position, physics.Vector2D{}, 0)
	s.Asteroids = []*entity.Asteroid{target}

	s.SetShooting(true)
	s.Advance(testStep)

	assert.True(t, target.Destroyed)
	assert.Equal(t, 10, s.Score())
	assert.Len(t, s.Asteroids, 3, "parent plus two medium fragments")
	require.Len(t, s.Shots, 1)
	assert.LessOrEqual(t, s.Shots[0].TTL, 0.0, "the shot is spent")
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundShoot))
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundBigAsteroid))
	assert.Equal(t, 1, log.count(event.ShotsFired))
	assert.Equal(t, 1, log.count(event.AsteroidDestroyed))
	assert.Equal(t, 1, log.count(event.ScoreChanged))
}

func TestShipRamsAsteroid(t *testing.T) {
	s, _, log := startedSession(t)
	s.Ship.ShieldUp = false
	s.Asteroids = []*entity.Asteroid{
		entity.NewAsteroid(s.ids.Next(), entity.Medium, s.Ship.Position, physics.Vector2D{}, 0),
	}

	s.Advance(testStep)

	assert.Equal(t, entity.StartingLives-1, s.Lives())
	assert.Zero(t, s.Score(), "ramming scores nothing")
	assert.Len(t, s.Asteroids, 3, "parent plus two small fragments")
	assert.Zero(t, log.count(event.ScoreChanged))
	assert.True(t, s.Ship.ShieldUp)
	assert.Equal(t, 1, log.count(event.ShipHit))
	assert.Zero(t, log.count(event.ShipDestroyed))

	// The shield protects the ship on the following steps.
	s.Advance(testStep)
	assert.Equal(t, entity.StartingLives-1, s.Lives())
}

func TestShipDestroyedThenGameOver(t *testing.T) {
	s, rec, log := startedSession(t)
	s.Ship.ShieldUp = false
	s.Ship.Lives = 0
	s.SetThrust(true)
	s.Asteroids = []*entity.Asteroid{
		entity.NewAsteroid(s.ids.Next(), entity.Small, s.Ship.Position, physics.Vector2D{}, 0),
	}

	s.Advance(testStep)

	require.True(t, s.Ship.IsDestroyed())
	require.NotNil(t, s.Explosion)
	assert.Zero(t, s.Score(), "the last life does not score")
	assert.False(t, s.Ship.Thrusting)
	assert.True(t, s.ShipVisible())
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundExplosion))
	assert.Equal(t, 1, rec.Count(audio.MethodStop, entity.SoundThrust))
	assert.Equal(t, 1, log.count(event.ShipDestroyed))
	assert.ErrorIs(t, s.Continue(), ErrNotGameOver)

	for i := 0; i < 100 && !s.IsGameOver(); i++ {
		s.Advance(0.1)
	}
	require.True(t, s.IsGameOver())
	assert.False(t, s.ShipVisible())
	assert.Equal(t, 1, log.count(event.GameOver))
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundExplosion), "explosion plays once")

	// Controls are dead after game over.
	s.SetTurnLeft(true)
	assert.False(t, s.Ship.TurningLeft)

	require.NoError(t, s.Continue())
	assert.Equal(t, StateTitle, s.State())
	assert.Zero(t, s.Score())
	assert.Equal(t, 1, rec.Count(audio.MethodStop, entity.SoundGameMusic))
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundTitleMusic))
	assert.Equal(t, 1, log.count(event.ReturnedToTitle))

	require.NoError(t, s.StartNewGame())
	assert.Equal(t, entity.StartingLives, s.Lives())
	assert.False(t, s.IsGameOver())
	assert.Nil(t, s.Explosion)
}

func TestPauseResume(t *testing.T) {
	s, rec, log := startedSession(t)

	s.TogglePause()
	require.Equal(t, StatePaused, s.State())
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundPause))
	assert.Equal(t, 1, rec.Count(audio.MethodPause, entity.SoundGameMusic))
	assert.Equal(t, 1, rec.Count(audio.MethodPause, entity.SoundShield))
	assert.Equal(t, 1, log.count(event.GamePaused))

	s.Advance(1)
	assert.Zero(t, s.Tick(), "paused sessions do not simulate")

	s.SetThrust(true)
	assert.False(t, s.Ship.Thrusting, "thrust is only remembered while paused")

	s.TogglePause()
	require.Equal(t, StatePlaying, s.State())
	assert.True(t, s.Ship.Thrusting)
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundThrust))
	assert.Equal(t, 1, rec.Count(audio.MethodResume, entity.SoundGameMusic))
	assert.Equal(t, 1, log.count(event.GameResumed))
}

func TestThrustControls(t *testing.T) {
	s, rec, _ := startedSession(t)

	s.SetThrust(true)
	assert.True(t, s.Ship.Thrusting)
	s.Advance(testStep * 8)
	assert.Greater(t, s.Ship.Velocity.Length(), 0.0)

	s.SetThrust(false)
	assert.False(t, s.Ship.Thrusting)
	assert.Equal(t, 1, rec.Count(audio.MethodPlay, entity.SoundThrust))
	assert.Equal(t, 1, rec.Count(audio.MethodStop, entity.SoundThrust))
}

func TestTurning(t *testing.T) {
	s, _, _ := startedSession(t)

	s.SetTurnLeft(true)
	s.Advance(testStep * 64)
	assert.InDelta(t, 90, s.Ship.Angle, 1e-6)

	s.SetTurnLeft(false)
	s.SetTurnRight(true)
	s.Advance(testStep * 64)
	assert.InDelta(t, 0, s.Ship.Angle, 1e-6)
}

func TestPowerUpSpawnAndGrab(t *testing.T) {
	s, rec, log := startedSession(t)
	s.score = 500

	s.Advance(testStep)

	assert.Equal(t, 1, log.count(event.PowerUpSpawned))
	assert.Equal(t, 500, s.lastPowerUp)

	s.Advance(testStep)
	assert.Equal(t, 1, log.count(event.PowerUpSpawned), "no new spawn without new score")

	s.PowerUps = []*entity.PowerUp{entity.NewPowerUp(s.ids.Next(), s.Ship.Position)}
	s.Advance(testStep)

	assert.GreaterOrEqual(t, s.HeldPowerUps(), 1)
	assert.Empty(t, s.PowerUps)
	assert.GreaterOrEqual(t, log.count(event.PowerUpGrabbed), 1)
	assert.GreaterOrEqual(t, rec.Count(audio.MethodPlay, entity.SoundPowerUp), 1)
}

func TestPowerUpSpawnLimit(t *testing.T) {
	s, _, log := startedSession(t)
	s.Ship.PowerUps = entity.MaxPowerUps
	s.score = 5000

	s.Advance(testStep)

	assert.Zero(t, log.count(event.PowerUpSpawned))
	assert.Empty(t, s.PowerUps)
}

func TestDeterminism(t *testing.T) {
	run := func(seed uint64) []uint64 {
		cfg := testConfig()
		cfg.Simulation.Seed = seed
		s := NewGameSession(cfg, nil, nil, nil)
		require.NoError(t, s.StartNewGame())
		s.SetShooting(true)
		s.SetTurnLeft(true)

		var sums []uint64
		for i := 0; i < 240; i++ {
			if i == 120 {
				s.SetThrust(true)
			}
			s.Advance(1.0 / 60)
			sums = append(sums, s.Checksum())
		}
		return sums
	}

	assert.Equal(t, run(7), run(7))
	assert.NotEqual(t, run(7), run(8))
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := startedSession(t)
	snap := s.Snapshot()

	require.NotNil(t, snap.Ship)
	require.Len(t, snap.Asteroids, 1)
	assert.Equal(t, StatePlaying, snap.State)

	s.Ship.Position = physics.Vector2D{X: 1, Y: 1}
	s.Asteroids[0].Position = physics.Vector2D{X: 2, Y: 2}
	assert.Equal(t, physics.Center, snap.Ship.Position)
	assert.Equal(t, physics.Vector2D{X: 100, Y: 100}, snap.Asteroids[0].Position)

	assert.NotEqual(t, snap.Checksum(), s.Checksum())
}

// callLog is a Renderer that records the order of its calls
type callLog struct {
	calls []string
}

func (c *callLog) RenderShip(*entity.Spaceship) { c.calls = append(c.calls, "ship") }
func (c *callLog) RenderAsteroid(*entity.Asteroid) { c.calls = append(c.calls, "asteroid") }
func (c *callLog) RenderShot(*entity.Shot) { c.calls = append(c.calls, "shot") }
func (c *callLog) RenderPowerUp(*entity.PowerUp) { c.calls = append(c.calls, "powerup") }
func (c *callLog) RenderExplosion(*entity.Explosion) { c.calls = append(c.calls, "explosion") }
func (c *callLog) Clear() { c.calls = append(c.calls, "clear") }
func (c *callLog) Present() { c.calls = append(c.calls, "present") }

func TestRenderOrder(t *testing.T) {
	s, _, _ := startedSession(t)
	s.Shots = []*entity.Shot{entity.NewShot(s.ids.Next(), physics.Vector2D{X: 500, Y: 500}, physics.Vector2D{}, 0)}
	s.PowerUps = []*entity.PowerUp{entity.NewPowerUp(s.ids.Next(), physics.Vector2D{X: 300, Y: 300})}

	r := &callLog{}
	s.Render(r)
	assert.Equal(t, []string{"clear", "ship", "shot", "powerup", "asteroid", "present"}, r.calls)

	s.Ship.Lives = -1
	s.Explosion = entity.NewExplosion(s.ids.Next(), s.Ship.Position, s.Ship.Radius)
	s.Explosion.Frame = shipHiddenFrame

	r = &callLog{}
	s.Render(r)
	assert.Equal(t, []string{"clear", "shot", "powerup", "asteroid", "explosion", "present"}, r.calls)
}

func TestRenderTitleDrawsNothing(t *testing.T) {
	s, _, _ := newTestSession(t)
	r := &callLog{}
	s.Render(r)
	assert.Equal(t, []string{"clear", "present"}, r.calls)
}
