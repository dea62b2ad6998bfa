// pkg/entity/asteroid.go
package entity

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// AsteroidVariant is the size class of an asteroid
type AsteroidVariant int

const (
	Big AsteroidVariant = iota
	Medium
	Small
)

const (
	// AsteroidBaseSpeed is divided by mass to get an asteroid's drift speed.
	AsteroidBaseSpeed = 100.0
	// AsteroidExplosionFrames is the length of the explosion animation.
	AsteroidExplosionFrames = 8
	// AsteroidFrameTime is the time between explosion frames.
	AsteroidFrameTime = 0.1
	// CollisionSoundCooldown is the minimum time between two collision
	// sounds from the same asteroid.
	CollisionSoundCooldown = 1.0
)

// AsteroidStats contains the fixed properties of a variant
type AsteroidStats struct {
	Radius float64
	Mass   float64
	Score  int
	Sound  string
}

// String returns the variant name
func (v AsteroidVariant) String() string {
	switch v {
	case Big:
		return "Big"
	case Medium:
		return "Medium"
	case Small:
		return "Small"
	default:
		return "Unknown"
	}
}

// GetAsteroidStats returns the properties for a variant. Unknown variants
// get zero values and no sound.
func GetAsteroidStats(v AsteroidVariant) AsteroidStats {
	switch v {
	case Big:
		return AsteroidStats{Radius: 80, Mass: 3.0, Score: 10, Sound: SoundBigAsteroid}
	case Medium:
		return AsteroidStats{Radius: 60, Mass: 1.0, Score: 30, Sound: SoundMediumAsteroid}
	case Small:
		return AsteroidStats{Radius: 25, Mass: 0.7, Score: 80, Sound: SoundSmallAsteroid}
	default:
		return AsteroidStats{}
	}
}

// Asteroid is a drifting, spinning rock. Once hit it plays its explosion
// animation and is removed when the animation is done.
type Asteroid struct {
	BaseEntity
	Variant        AsteroidVariant
	Mass           float64
	Score          int
	RotationSpeed  float64 // degrees per second
	Destroyed      bool
	ExplosionFrame int

	sound               string
	animationTimer      float64
	collisionSoundTimer float64
	doneExploding       bool
}

// NewAsteroid creates an asteroid of the given variant
func NewAsteroid(id ID, variant AsteroidVariant, position, velocity physics.Vector2D, rotationSpeed float64) *Asteroid {
	stats := GetAsteroidStats(variant)
	return &Asteroid{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Velocity: velocity,
			Radius:   stats.Radius,
		},
		Variant:             variant,
		Mass:                stats.Mass,
		Score:               stats.Score,
		RotationSpeed:       rotationSpeed,
		sound:               stats.Sound,
		collisionSoundTimer: 2 * CollisionSoundCooldown,
	}
}

// Update advances the asteroid by deltaTime. A live asteroid drifts at
// AsteroidBaseSpeed/mass along its velocity direction and spins; an
// exploding one only advances its animation.
func (a *Asteroid) Update(deltaTime float64) {
	a.collisionSoundTimer += deltaTime

	if a.Destroyed {
		a.animationTimer += deltaTime
		if a.animationTimer > AsteroidFrameTime {
			a.ExplosionFrame++
			a.animationTimer -= AsteroidFrameTime
		}
		if a.ExplosionFrame >= AsteroidExplosionFrames {
			a.ExplosionFrame = AsteroidExplosionFrames - 1
			a.doneExploding = true
		}
		return
	}

	a.integrate(a.DriftVelocity(), deltaTime)

	if a.RotationSpeed > 360 {
		a.RotationSpeed -= 360
	}
	a.Angle += a.RotationSpeed * deltaTime
}

// DriftVelocity is the velocity the asteroid actually moves with.
func (a *Asteroid) DriftVelocity() physics.Vector2D {
	if a.Destroyed || a.Mass <= 0 {
		return physics.Vector2D{}
	}
	return a.Velocity.Normalize().Scale(AsteroidBaseSpeed / a.Mass)
}

// Hit destroys the asteroid and returns the fragments it splits into along
// with the points it is worth. Hitting an asteroid that is already
// exploding has no effect.
func (a *Asteroid) Hit(ids *IDAllocator) ([]*Asteroid, int) {
	if a.Destroyed {
		return nil, 0
	}

	var children []*Asteroid
	switch a.Variant {
	case Big:
		direction := a.Velocity.Normalize()
		for i := 0; i < 2; i++ {
			s := splitSign(i)
			children = append(children, NewAsteroid(ids.Next(), Medium, a.Position,
				direction.Scale(2*s), s*2*a.RotationSpeed))
		}
	case Medium:
		for i := 0; i < 2; i++ {
			children = append(children, NewAsteroid(ids.Next(), Small, a.Position,
				a.SmallAsteroidDirection(i), splitSign(i)*2*a.RotationSpeed))
		}
	}

	a.Destroyed = true
	a.ExplosionFrame++
	return children, a.Score
}

// splitSign is +1 for the first fragment and -1 for the second.
func splitSign(i int) float64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}

// SmallAsteroidDirection returns the initial velocity of the i-th small
// fragment. The first follows the parent's velocity; the others are derived
// from the parent's position.
func (a *Asteroid) SmallAsteroidDirection(i int) physics.Vector2D {
	p := a.Position
	switch i {
	case 0:
		return a.Velocity.Scale(12)
	case 1:
		return physics.Vector2D{
			X: (-1.0*p.X - 1.663*p.Y) * 4,
			Y: (1.663*p.X - 1.0*p.Y) * 4,
		}
	default:
		return physics.Vector2D{
			X: (-1.0*p.X + 1.663*p.Y) * 4,
			Y: (-1.663*p.X - 1.0*p.Y) * 4,
		}
	}
}

// IsDead reports whether the explosion animation has finished.
func (a *Asteroid) IsDead() bool {
	return a.doneExploding
}

// SoundEvent returns the explosion sound for the variant.
func (a *Asteroid) SoundEvent() string {
	return a.sound
}

// PlayExplosionSound plays the variant's explosion sound.
func (a *Asteroid) PlayExplosionSound(audio AudioSink) {
	if a.sound == "" {
		return
	}
	playAt(audio, a.sound, AsteroidObject, a.Position.X)
}

// PlayCollisionSound plays the bump sound unless one was played by this
// asteroid within the last CollisionSoundCooldown seconds.
func (a *Asteroid) PlayCollisionSound(audio AudioSink) {
	if a.collisionSoundTimer <= CollisionSoundCooldown {
		return
	}
	a.collisionSoundTimer = 0
	playAt(audio, SoundCollision, AsteroidObject, a.Position.X)
}

// Collide bounces two overlapping asteroids off each other using their
// stored velocities. Only the direction of the result matters to a live
// asteroid; Update rescales it to the drift speed. Both are wrapped back
// into the world after the push apart.
func (a *Asteroid) Collide(other *Asteroid) {
	physics.ResolveElastic(
		physics.Body{Position: &a.Position, Velocity: &a.Velocity, Mass: a.Mass, Radius: a.Radius},
		physics.Body{Position: &other.Position, Velocity: &other.Velocity, Mass: other.Mass, Radius: other.Radius},
	)
	a.Position = physics.Wrap(a.Position)
	other.Position = physics.Wrap(other.Position)
}

// CollideAsteroids checks every unordered pair once, in index order, and
// bounces the pairs that overlap. It reports whether any pair collided.
func CollideAsteroids(asteroids []*Asteroid, audio AudioSink) bool {
	collided := false
	for i := 0; i < len(asteroids); i++ {
		for j := i + 1; j < len(asteroids); j++ {
			if !Overlaps(asteroids[i], asteroids[j]) {
				continue
			}
			asteroids[i].Collide(asteroids[j])
			asteroids[i].PlayCollisionSound(audio)
			collided = true
		}
	}
	return collided
}
