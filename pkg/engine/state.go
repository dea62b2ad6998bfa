// pkg/engine/state.go
package engine

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// GameState represents a snapshot of the session. It holds copies, so
// renderers and tests may keep it after the session moves on.
type GameState struct {
	Tick           uint64
	State          State
	Score          int
	Level          int
	GameOver       bool
	ShowLevelTitle bool
	ShipVisible    bool
	Ship           *ShipState
	Explosion      *ExplosionState
	Asteroids      []AsteroidState
	Shots          []ShotState
	PowerUps       []PowerUpState
}

// ShipState represents a snapshot of the ship's state
type ShipState struct {
	ID            entity.ID
	Position      physics.Vector2D
	Velocity      physics.Vector2D
	Angle         float64
	Lives         int
	PowerUps      int
	Thrusting     bool
	ThrustFrame   int
	ShieldUp      bool
	ShieldVisible bool
}

// AsteroidState represents a snapshot of an asteroid's state
type AsteroidState struct {
	ID             entity.ID
	Variant        entity.AsteroidVariant
	Position       physics.Vector2D
	Velocity       physics.Vector2D
	Angle          float64
	Radius         float64
	Destroyed      bool
	ExplosionFrame int
}

// ShotState represents a snapshot of a shot's state
type ShotState struct {
	ID       entity.ID
	Position physics.Vector2D
	Angle    float64
	TTL      float64
}

// PowerUpState represents a snapshot of a power-up's state
type PowerUpState struct {
	ID       entity.ID
	Position physics.Vector2D
}

// ExplosionState represents a snapshot of the ship explosion
type ExplosionState struct {
	Position physics.Vector2D
	Radius   float64
	Frame    int
}

// Snapshot returns a copy of the current session state
func (s *GameSession) Snapshot() *GameState {
	state := &GameState{
		Tick:           s.tick,
		State:          s.state,
		Score:          s.score,
		Level:          s.level,
		GameOver:       s.gameOver,
		ShowLevelTitle: s.ShowLevelTitle(),
		ShipVisible:    s.ShipVisible(),
		Ship:           s.shipState(),
		Asteroids:      s.asteroidStates(),
		Shots:          s.shotStates(),
		PowerUps:       s.powerUpStates(),
	}
	if s.Explosion != nil {
		state.Explosion = &ExplosionState{
			Position: s.Explosion.Position,
			Radius:   s.Explosion.Radius,
			Frame:    s.Explosion.Frame,
		}
	}
	return state
}

func (s *GameSession) shipState() *ShipState {
	if s.Ship == nil {
		return nil
	}
	ship := s.Ship
	return &ShipState{
		ID:            ship.ID,
		Position:      ship.Position,
		Velocity:      ship.Velocity,
		Angle:         ship.Angle,
		Lives:         ship.Lives,
		PowerUps:      ship.PowerUps,
		Thrusting:     ship.Thrusting,
		ThrustFrame:   ship.ThrustFrame,
		ShieldUp:      ship.ShieldUp,
		ShieldVisible: ship.ShieldVisible,
	}
}

func (s *GameSession) asteroidStates() []AsteroidState {
	states := make([]AsteroidState, 0, len(s.Asteroids))
	for _, a := range s.Asteroids {
		states = append(states, AsteroidState{
			ID:             a.ID,
			Variant:        a.Variant,
			Position:       a.Position,
			Velocity:       a.Velocity,
			Angle:          a.Angle,
			Radius:         a.Radius,
			Destroyed:      a.Destroyed,
			ExplosionFrame: a.ExplosionFrame,
		})
	}
	return states
}

func (s *GameSession) shotStates() []ShotState {
	states := make([]ShotState, 0, len(s.Shots))
	for _, shot := range s.Shots {
		states = append(states, ShotState{
			ID:       shot.ID,
			Position: shot.Position,
			Angle:    shot.Angle,
			TTL:      shot.TTL,
		})
	}
	return states
}

func (s *GameSession) powerUpStates() []PowerUpState {
	states := make([]PowerUpState, 0, len(s.PowerUps))
	for _, p := range s.PowerUps {
		states = append(states, PowerUpState{ID: p.ID, Position: p.Position})
	}
	return states
}

// Checksum hashes the simulation-relevant parts of the snapshot. Two
// sessions with the same seed fed the same inputs and frame times produce
// the same sequence of checksums.
func (g *GameState) Checksum() uint64 {
	h := checksum{d: xxhash.New()}

	h.putUint(g.Tick)
	h.putInt(int(g.State))
	h.putInt(g.Score)
	h.putInt(g.Level)
	h.putBool(g.GameOver)

	if ship := g.Ship; ship != nil {
		h.putVec(ship.Position)
		h.putVec(ship.Velocity)
		h.putFloat(ship.Angle)
		h.putInt(ship.Lives)
		h.putInt(ship.PowerUps)
		h.putBool(ship.ShieldUp)
	}
	if e := g.Explosion; e != nil {
		h.putVec(e.Position)
		h.putInt(e.Frame)
	}
	for _, a := range g.Asteroids {
		h.putUint(uint64(a.ID))
		h.putInt(int(a.Variant))
		h.putVec(a.Position)
		h.putVec(a.Velocity)
		h.putFloat(a.Angle)
		h.putBool(a.Destroyed)
		h.putInt(a.ExplosionFrame)
	}
	for _, shot := range g.Shots {
		h.putUint(uint64(shot.ID))
		h.putVec(shot.Position)
		h.putFloat(shot.TTL)
	}
	for _, p := range g.PowerUps {
		h.putUint(uint64(p.ID))
		h.putVec(p.Position)
	}
	return h.d.Sum64()
}

// Checksum hashes the current state. See GameState.Checksum.
func (s *GameSession) Checksum() uint64 {
	return s.Snapshot().Checksum()
}

type checksum struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (c *checksum) putUint(v uint64) {
	binary.LittleEndian.PutUint64(c.buf[:], v)
	_, _ = c.d.Write(c.buf[:])
}

func (c *checksum) putInt(v int) { c.putUint(uint64(v)) }

func (c *checksum) putFloat(v float64) { c.putUint(math.Float64bits(v)) }

func (c *checksum) putVec(v physics.Vector2D) {
	c.putFloat(v.X)
	c.putFloat(v.Y)
}

func (c *checksum) putBool(v bool) {
	if v {
		c.putUint(1)
		return
	}
	c.putUint(0)
}
