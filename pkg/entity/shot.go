package entity

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

const (
	// ShotRadius is the collision radius of a shot.
	ShotRadius = 2.0
	// ShotLifetime is how long a shot flies before it expires.
	ShotLifetime = 1.0
)

// Shot is a blaster bolt fired by the ship
type Shot struct {
	BaseEntity
	TTL float64 // seconds left
}

// NewShot creates a shot with a full lifetime
func NewShot(id ID, position, velocity physics.Vector2D, angle float64) *Shot {
	return &Shot{
		BaseEntity: BaseEntity{
			ID:       id,
			Position: position,
			Velocity: velocity,
			Angle:    angle,
			Radius:   ShotRadius,
		},
		TTL: ShotLifetime,
	}
}

// Update moves the shot and burns its lifetime. It returns false once the
// shot has expired and should be removed.
func (s *Shot) Update(deltaTime float64) bool {
	if s.TTL <= 0 {
		return false
	}
	s.integrate(s.Velocity, deltaTime)
	s.TTL -= deltaTime
	return true
}

// HitResult describes what happened when something struck an asteroid.
type HitResult struct {
	Hit       bool
	Asteroid  *Asteroid
	Fragments []*Asteroid
	Points    int
}

// CollideWithAsteroids tests the shot against the asteroids in slice order.
// The first overlapping asteroid is hit and the shot is spent. Fragments are
// returned for the caller to append.
func (s *Shot) CollideWithAsteroids(asteroids []*Asteroid, ids *IDAllocator, audio AudioSink) HitResult {
	if s.TTL <= 0 {
		return HitResult{}
	}
	for _, asteroid := range asteroids {
		if !Overlaps(s, asteroid) {
			continue
		}
		asteroid.PlayExplosionSound(audio)
		fragments, points := asteroid.Hit(ids)
		s.TTL = 0
		return HitResult{Hit: true, Asteroid: asteroid, Fragments: fragments, Points: points}
	}
	return HitResult{}
}
