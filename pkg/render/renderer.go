// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
)

// NullRenderer draws nothing. It logs each call at debug level and counts
// presented frames, which is all a headless host needs.
type NullRenderer struct {
	logger *logging.Logger
	Frames int
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NullRenderer{
		logger: logger.With("component", "null_renderer"),
	}
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.Frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.Frames)
}

// RenderShip implements entity.Renderer.
func (d *NullRenderer) RenderShip(ship *entity.Spaceship) {
	ctx := context.Background()
	if ship == nil {
		d.logger.Debug(ctx, "RenderShip called with nil ship")
		return
	}
	d.logger.Debug(ctx, "RenderShip called",
		"ship_id", uint64(ship.ID),
		"lives", ship.Lives,
		"shield_up", ship.ShieldUp,
	)
}

// RenderAsteroid implements entity.Renderer.
func (d *NullRenderer) RenderAsteroid(asteroid *entity.Asteroid) {
	ctx := context.Background()
	if asteroid == nil {
		d.logger.Debug(ctx, "RenderAsteroid called with nil asteroid")
		return
	}
	d.logger.Debug(ctx, "RenderAsteroid called",
		"asteroid_id", uint64(asteroid.ID),
		"variant", asteroid.Variant.String(),
		"destroyed", asteroid.Destroyed,
	)
}

// RenderShot implements entity.Renderer.
func (d *NullRenderer) RenderShot(shot *entity.Shot) {
	ctx := context.Background()
	if shot == nil {
		d.logger.Debug(ctx, "RenderShot called with nil shot")
		return
	}
	d.logger.Debug(ctx, "RenderShot called", "shot_id", uint64(shot.ID))
}

// RenderPowerUp implements entity.Renderer.
func (d *NullRenderer) RenderPowerUp(powerUp *entity.PowerUp) {
	ctx := context.Background()
	if powerUp == nil {
		d.logger.Debug(ctx, "RenderPowerUp called with nil power-up")
		return
	}
	d.logger.Debug(ctx, "RenderPowerUp called", "powerup_id", uint64(powerUp.ID))
}

// RenderExplosion implements entity.Renderer.
func (d *NullRenderer) RenderExplosion(explosion *entity.Explosion) {
	ctx := context.Background()
	if explosion == nil {
		d.logger.Debug(ctx, "RenderExplosion called with nil explosion")
		return
	}
	d.logger.Debug(ctx, "RenderExplosion called", "frame", explosion.Frame)
}
