package entity

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

const (
	// ExplosionFrames is the frame count at which an explosion is finished.
	ExplosionFrames = 10
	// ExplosionFrameTime is the time between explosion frames.
	ExplosionFrameTime = 0.1
	// ExplosionScale is the explosion size relative to the ship radius.
	ExplosionScale = 1.2
)

// Explosion is the ship's death animation
type Explosion struct {
	BaseEntity
	Frame int
	timer float64
}

// NewExplosion creates an explosion sized for an exploding body of radius.
func NewExplosion(id ID, position physics.Vector2D, radius float64) *Explosion {
	return &Explosion{
		BaseEntity: BaseEntity{ID: id, Position: position, Radius: radius * ExplosionScale},
	}
}

// Update advances the animation, holding on the final frame.
func (e *Explosion) Update(deltaTime float64) {
	e.timer += deltaTime
	if e.timer > ExplosionFrameTime {
		e.Frame++
		e.timer -= ExplosionFrameTime
	}
	if e.Frame > ExplosionFrames {
		e.Frame = ExplosionFrames
	}
}

// Finished reports whether the last frame has been reached.
func (e *Explosion) Finished() bool {
	return e.Frame >= ExplosionFrames
}

// SpriteFrame is the frame index clamped to the drawable range.
func (e *Explosion) SpriteFrame() int {
	if e.Frame >= ExplosionFrames {
		return ExplosionFrames - 1
	}
	return e.Frame
}
