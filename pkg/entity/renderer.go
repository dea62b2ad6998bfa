package entity

// Renderer draws game entities. Implementations never mutate them.
type Renderer interface {
	RenderShip(ship *Spaceship)
	RenderAsteroid(asteroid *Asteroid)
	RenderShot(shot *Shot)
	RenderPowerUp(powerUp *PowerUp)
	RenderExplosion(explosion *Explosion)
	Clear()
	Present()
}
