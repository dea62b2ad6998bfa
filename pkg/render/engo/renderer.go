// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
	"github.com/opd-ai/go-spaceshooter/pkg/render"
)

// Tints applied to the white sprites
var (
	colorSpace     = color.RGBA{4, 6, 18, 255}
	colorShip      = color.RGBA{220, 230, 255, 255}
	colorShield    = color.RGBA{80, 200, 255, 180}
	colorFlame     = color.RGBA{255, 160, 40, 255}
	colorShot      = color.RGBA{255, 255, 120, 255}
	colorPowerUp   = color.RGBA{90, 255, 90, 255}
	colorExplosion = color.RGBA{255, 90, 40, 255}
	colorDebris    = color.RGBA{200, 120, 80, 255}
	colorStars     = color.RGBA{255, 255, 255, 160}
)

var asteroidColors = map[entity.AsteroidVariant]color.Color{
	entity.Big:    color.RGBA{150, 140, 130, 255},
	entity.Medium: color.RGBA{170, 160, 145, 255},
	entity.Small:  color.RGBA{190, 180, 160, 255},
}

// Draw layers
const (
	zBackground float32 = iota
	zWorld
	zHUD
)

// Sprite is one drawable ECS entity
type Sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// SpriteAdder is the part of common.RenderSystem the renderer needs
type SpriteAdder interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
}

// EngoRenderer implements entity.Renderer on top of the Engo render
// system. It keeps a pool of sprite entities: each frame hands them out
// in draw order and hides whatever was not used.
type EngoRenderer struct {
	system SpriteAdder
	assets *AssetManager

	// game size in pixels and pixels per world unit
	width, height float32
	scaleX        float32
	scaleY        float32

	pool []*Sprite
	used int
}

// NewEngoRenderer creates a renderer drawing into a game area of
// width×height pixels
func NewEngoRenderer(system SpriteAdder, assets *AssetManager, width, height float32) *EngoRenderer {
	return &EngoRenderer{
		system: system,
		assets: assets,
		width:  width,
		height: height,
		scaleX: width / physics.WorldWidth,
		scaleY: height / physics.WorldHeight,
	}
}

// AddBackground tiles the starfield across the game area
func (r *EngoRenderer) AddBackground() {
	tile := float32(spriteSize[SpriteBackground])
	for y := float32(0); y < r.height; y += tile {
		for x := float32(0); x < r.width; x += tile {
			s := &Sprite{BasicEntity: ecs.NewBasic()}
			s.Drawable = r.assets.Sprite(SpriteBackground)
			s.Color = colorStars
			s.StartZIndex = zBackground
			s.Position = engo.Point{X: x, Y: y}
			s.Width, s.Height = tile, tile
			r.system.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
		}
	}
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	r.used = 0
}

// Present implements entity.Renderer. Sprites not drawn this frame are
// hidden.
func (r *EngoRenderer) Present() {
	for _, s := range r.pool[r.used:] {
		s.Hidden = true
	}
}

// RenderShip implements entity.Renderer
func (r *EngoRenderer) RenderShip(ship *entity.Spaceship) {
	size := ship.Radius * 2
	if ship.ThrustFrame > 0 {
		tail := ship.Position.Sub(physics.FromAngle(physics.Radians(ship.Angle), ship.Radius*0.9))
		flicker := 0.4 + 0.15*float64(ship.ThrustFrame)
		r.drawWrapped(SpriteFlame, tail, ship.Radius*flicker, ship.Angle, colorFlame)
	}
	r.drawWrapped(SpriteShip, ship.Position, size, ship.Angle, colorShip)
	if ship.ShieldVisible {
		r.drawWrapped(SpriteShield, ship.Position, size*1.1, 0, colorShield)
	}
}

// RenderAsteroid implements entity.Renderer
func (r *EngoRenderer) RenderAsteroid(asteroid *entity.Asteroid) {
	if asteroid.Destroyed {
		left := float64(entity.AsteroidExplosionFrames-asteroid.ExplosionFrame) / entity.AsteroidExplosionFrames
		spread := 2 - left
		r.drawWrapped(SpriteDebris, asteroid.Position, asteroid.Radius*2*spread, asteroid.Angle, colorDebris)
		return
	}
	tint, ok := asteroidColors[asteroid.Variant]
	if !ok {
		tint = asteroidColors[entity.Big]
	}
	r.drawWrapped(AsteroidSprite(asteroid.Variant), asteroid.Position, asteroid.Radius*2, asteroid.Angle, tint)
}

// RenderShot implements entity.Renderer
func (r *EngoRenderer) RenderShot(shot *entity.Shot) {
	r.drawWrapped(SpriteShot, shot.Position, shot.Radius*3, 0, colorShot)
}

// RenderPowerUp implements entity.Renderer
func (r *EngoRenderer) RenderPowerUp(powerUp *entity.PowerUp) {
	r.drawWrapped(SpritePowerUp, powerUp.Position, powerUp.Radius*2, powerUp.Angle, colorPowerUp)
}

// RenderExplosion implements entity.Renderer
func (r *EngoRenderer) RenderExplosion(explosion *entity.Explosion) {
	d := r.assets.ExplosionSprite(explosion.SpriteFrame())
	for _, p := range render.WrapCopies(explosion.Position, explosion.Radius, 0) {
		r.place(r.acquire(), d, p, explosion.Radius*2, 0, colorExplosion)
	}
}

// drawWrapped draws a sprite at pos and wherever it shows across a world edge
func (r *EngoRenderer) drawWrapped(key SpriteKey, pos physics.Vector2D, size, angle float64, tint color.Color) {
	d := r.assets.Sprite(key)
	for _, p := range render.WrapCopies(pos, size/2, 0) {
		r.place(r.acquire(), d, p, size, angle, tint)
	}
}

// acquire returns the next free sprite, creating one when the pool is spent
func (r *EngoRenderer) acquire() *Sprite {
	if r.used < len(r.pool) {
		s := r.pool[r.used]
		r.used++
		return s
	}
	s := &Sprite{BasicEntity: ecs.NewBasic()}
	s.StartZIndex = zWorld
	r.pool = append(r.pool, s)
	r.used++
	r.system.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// place centres a sprite of the given world size on a world position.
// World angles are counter-clockwise with y up; Engo rotates clockwise
// with y down, so the sign flips.
func (r *EngoRenderer) place(s *Sprite, d common.Drawable, pos physics.Vector2D, size, angle float64, tint color.Color) {
	w := float32(size) * r.scaleX
	h := float32(size) * r.scaleY

	s.Hidden = false
	s.Drawable = d
	s.Color = tint
	s.Scale = engo.Point{X: 1, Y: 1}
	if d != nil && d.Width() > 0 && d.Height() > 0 {
		s.Scale = engo.Point{X: w / d.Width(), Y: h / d.Height()}
	}
	s.Width, s.Height = w, h
	s.Rotation = float32(-angle)
	s.SetCenter(r.WorldToScreen(pos))
}

// WorldToScreen converts world coordinates to game-area pixels
func (r *EngoRenderer) WorldToScreen(pos physics.Vector2D) engo.Point {
	return engo.Point{
		X: float32(pos.X) * r.scaleX,
		Y: r.height - float32(pos.Y)*r.scaleY,
	}
}

// Sprites returns the sprites drawn in the current frame
func (r *EngoRenderer) Sprites() []*Sprite {
	return r.pool[:r.used]
}

// PoolSize returns how many sprite entities have been created
func (r *EngoRenderer) PoolSize() int {
	return len(r.pool)
}
