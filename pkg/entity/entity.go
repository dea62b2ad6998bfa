// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// ID is a unique identifier for an entity within one session
type ID uint64

// Positioned is anything with an identity and a location in the world.
type Positioned interface {
	GetID() ID
	GetPosition() physics.Vector2D
}

// Collidable is a positioned entity with a circular collision shape.
type Collidable interface {
	Positioned
	GetCollider() physics.Circle
}

// Overlaps is the single collision test shared by every sweep.
func Overlaps(a, b Collidable) bool {
	return a.GetCollider().Collides(b.GetCollider())
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Angle    float64 // degrees
	Radius   float64
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// GetCollider returns the entity's collision shape
func (e *BaseEntity) GetCollider() physics.Circle {
	return physics.Circle{Center: e.Position, Radius: e.Radius}
}

// Distance returns the planar distance from the entity to p.
func (e *BaseEntity) Distance(p physics.Vector2D) float64 {
	return e.Position.Distance(p)
}

// integrate moves the entity by velocity*dt and wraps it back into the world.
func (e *BaseEntity) integrate(velocity physics.Vector2D, deltaTime float64) {
	e.Position = physics.Wrap(e.Position.Add(velocity.Scale(deltaTime)))
}

// IDAllocator hands out entity IDs. Each session owns one.
type IDAllocator struct {
	next ID
}

// Next returns a fresh ID. IDs start at 1.
func (a *IDAllocator) Next() ID {
	a.next++
	return a.next
}

// Render methods dispatch to the matching Renderer call.

func (s *Spaceship) Render(r Renderer) {
	r.RenderShip(s)
}

func (a *Asteroid) Render(r Renderer) {
	r.RenderAsteroid(a)
}

func (s *Shot) Render(r Renderer) {
	r.RenderShot(s)
}

func (p *PowerUp) Render(r Renderer) {
	r.RenderPowerUp(p)
}

func (e *Explosion) Render(r Renderer) {
	r.RenderExplosion(e)
}
