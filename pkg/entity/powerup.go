package entity

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// PowerUpRadius is the pickup radius of a power-up.
const PowerUpRadius = 25.0

// PowerUp is a stationary pickup that adds a pair of guns
type PowerUp struct {
	BaseEntity
	Grabbed bool
}

// NewPowerUp creates a power-up at position
func NewPowerUp(id ID, position physics.Vector2D) *PowerUp {
	return &PowerUp{
		BaseEntity: BaseEntity{ID: id, Position: position, Radius: PowerUpRadius},
	}
}

// Grab marks the power-up as collected
func (p *PowerUp) Grab() {
	p.Grabbed = true
}

// Update returns false once the power-up has been collected.
func (p *PowerUp) Update() bool {
	return !p.Grabbed
}
