// pkg/entity/ship.go
package entity

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// Ship handling constants
const (
	ShipRadius         = 50.0
	StartingLives      = 3
	MaxPowerUps        = 2
	TurnRate           = 180.0 // degrees per second
	ThrustAcceleration = 400.0
	MaxSpeed           = 600.0
	SpaceFriction      = 0.5
	VelocityEpsilon    = 1e-5
	ThrustFrameTime    = 1.0 / 20.0
	ThrustFrames       = 4 // frame 0 is the idle sprite

	shieldBlinkStart = 1.0
	shieldOffPhase   = 0.02
	shieldMinBlink   = 0.01
)

// Spaceship is the player's ship
type Spaceship struct {
	BaseEntity
	Lives        int
	PowerUps     int
	Thrusting    bool
	TurningLeft  bool
	TurningRight bool
	ThrustFrame  int
	Blaster      Blaster

	// ShieldUp makes the ship immune to asteroids. While it is up the
	// shield blinks, ShieldVisible tracks the current blink phase.
	ShieldUp      bool
	ShieldVisible bool

	thrustTimer   float64
	shieldTimer   float64
	shieldBlink   float64
	shieldPlaying PlayingID
	exploded      bool
}

// NewSpaceship creates a ship with full lives and its shield raised
func NewSpaceship(id ID, position physics.Vector2D, radius, angle float64, audio AudioSink) *Spaceship {
	ship := &Spaceship{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Angle:    angle,
			Radius:   radius,
		},
		Lives:   StartingLives,
		Blaster: NewBlaster(),
	}
	ship.ActivateShield(audio)
	return ship
}

// Update handles the ship's state update for a single tick. It returns
// false when the ship is destroyed.
func (s *Spaceship) Update(deltaTime float64) bool {
	if s.IsDestroyed() {
		return false
	}

	s.updateShield(deltaTime)

	if s.TurningLeft {
		s.Angle += TurnRate * deltaTime
	}
	if s.TurningRight {
		s.Angle -= TurnRate * deltaTime
	}

	if s.Thrusting {
		s.Velocity = physics.ApplyThrust(s.Velocity, s.Angle, ThrustAcceleration, deltaTime)
		s.Velocity = physics.ClampSpeed(s.Velocity, MaxSpeed)

		s.thrustTimer += deltaTime
		if s.thrustTimer >= ThrustFrameTime {
			s.ThrustFrame++
			if s.ThrustFrame >= ThrustFrames {
				s.ThrustFrame = 1
			}
			s.thrustTimer -= ThrustFrameTime
		}
	} else {
		s.ThrustFrame = 0
	}

	s.integrate(s.Velocity, deltaTime)

	s.Velocity = physics.ApplyFriction(s.Velocity, SpaceFriction, deltaTime)
	s.Velocity = physics.SnapToZero(s.Velocity, VelocityEpsilon)

	s.Blaster.Tick(deltaTime)
	return true
}

// updateShield runs the blink animation. Each visible phase is half as long
// as the one before; the shield drops once the phase gets too short.
func (s *Spaceship) updateShield(deltaTime float64) {
	if !s.ShieldUp {
		return
	}
	s.shieldTimer += deltaTime
	if s.shieldTimer > s.shieldBlink {
		if s.ShieldVisible {
			s.shieldTimer -= s.shieldBlink
			s.shieldBlink /= 2
		} else {
			s.shieldTimer = shieldOffPhase
		}
		s.ShieldVisible = !s.ShieldVisible
	}
	if s.shieldBlink < shieldMinBlink {
		s.ShieldUp = false
		s.ShieldVisible = false
	}
}

// ActivateShield raises the shield and restarts its blink cycle.
func (s *Spaceship) ActivateShield(audio AudioSink) {
	s.ShieldUp = true
	s.ShieldVisible = true
	s.shieldTimer = 0
	s.shieldBlink = shieldBlinkStart
	s.shieldPlaying = playAt(audio, SoundShield, ShipObject, s.Position.X)
}

// Shoot fires a volley if the blaster is ready. One, three or five shots
// are fired depending on the number of power-ups held.
func (s *Spaceship) Shoot(ids *IDAllocator, audio AudioSink) []*Shot {
	shots := s.Blaster.Fire(ids, s.Position, s.Velocity, s.Angle, ActiveGuns(s.PowerUps))
	if shots == nil {
		return nil
	}
	playAt(audio, SoundShoot, ShipObject, s.Position.X)
	return shots
}

// CollidedWithAsteroids checks the ship against the asteroids in slice
// order and handles the first overlap only. Exploding asteroids still count.
// A rammed asteroid splits but scores nothing; points come only from shots.
// While the shield is up nothing happens.
func (s *Spaceship) CollidedWithAsteroids(asteroids []*Asteroid, ids *IDAllocator, audio AudioSink) HitResult {
	if s.ShieldUp {
		return HitResult{}
	}
	for _, asteroid := range asteroids {
		if !Overlaps(s, asteroid) {
			continue
		}
		asteroid.PlayExplosionSound(audio)
		result := HitResult{Hit: true, Asteroid: asteroid}
		if s.Lives > 0 {
			result.Fragments, _ = asteroid.Hit(ids)
		}
		s.GotHit(audio)
		return result
	}
	return HitResult{}
}

// CollideWithPowerUps grabs the first overlapping power-up, if any.
func (s *Spaceship) CollideWithPowerUps(powerUps []*PowerUp, audio AudioSink) *PowerUp {
	for _, powerUp := range powerUps {
		if powerUp.Grabbed || !Overlaps(s, powerUp) {
			continue
		}
		powerUp.Grab()
		s.GrabPowerUp()
		playAt(audio, SoundPowerUp, ShipObject, s.Position.X)
		return powerUp
	}
	return nil
}

// GotHit costs a life, strips power-ups and raises the shield. A hit with
// no lives left destroys the ship.
func (s *Spaceship) GotHit(audio AudioSink) {
	if s.Lives <= 0 {
		s.Lives = -1
		return
	}
	s.Lives--
	s.PowerUps = 0
	s.ActivateShield(audio)
}

// GrabPowerUp adds a power-up, up to MaxPowerUps.
func (s *Spaceship) GrabPowerUp() {
	if s.PowerUps < MaxPowerUps {
		s.PowerUps++
	}
}

// IsDestroyed reports whether the ship has been destroyed
func (s *Spaceship) IsDestroyed() bool {
	return s.Lives < 0
}

// Exploded reports whether the death explosion has been spawned.
func (s *Spaceship) Exploded() bool {
	return s.exploded
}

// SetExploded records that the death explosion has been spawned.
func (s *Spaceship) SetExploded() {
	s.exploded = true
}

// Pause suspends the shield sound.
func (s *Spaceship) Pause(audio AudioSink) {
	audio.PauseEvent(SoundShield, ShipObject, s.shieldPlaying)
}

// Resume restarts the shield sound.
func (s *Spaceship) Resume(audio AudioSink) {
	audio.ResumeEvent(SoundShield, ShipObject, s.shieldPlaying)
}
