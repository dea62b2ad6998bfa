// pkg/render/engo/assets.go
package engo

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spaceshooter/pkg/entity"
)

// SpriteKey names a generated sprite
type SpriteKey int

const (
	SpriteShip SpriteKey = iota
	SpriteFlame
	SpriteShield
	SpriteAsteroidBig
	SpriteAsteroidMedium
	SpriteAsteroidSmall
	SpriteDebris
	SpriteShot
	SpritePowerUp
	SpriteBackground
)

// spriteSize is the edge length in pixels of each generated image. Sprites
// are scaled to their entity's size when drawn.
var spriteSize = map[SpriteKey]int{
	SpriteShip:           32,
	SpriteFlame:          16,
	SpriteShield:         48,
	SpriteAsteroidBig:    48,
	SpriteAsteroidMedium: 32,
	SpriteAsteroidSmall:  16,
	SpriteDebris:         32,
	SpriteShot:           4,
	SpritePowerUp:        16,
	SpriteBackground:     128,
}

// AssetManager builds the game's sprites from generated patterns
type AssetManager struct {
	images          map[SpriteKey]*image.NRGBA
	explosionImages []*image.NRGBA

	sprites          map[SpriteKey]common.Drawable
	explosionSprites []common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		images:  make(map[SpriteKey]*image.NRGBA),
		sprites: make(map[SpriteKey]common.Drawable),
	}
}

// BuildImages generates every sprite image. It needs no GL context.
func (am *AssetManager) BuildImages() {
	am.images[SpriteShip] = am.createSprite(spriteSize[SpriteShip], shipMask)
	am.images[SpriteFlame] = am.createSprite(spriteSize[SpriteFlame], flameMask)
	am.images[SpriteShield] = am.createSprite(spriteSize[SpriteShield], ringMask(0.85))
	am.images[SpriteAsteroidBig] = am.createSprite(spriteSize[SpriteAsteroidBig], rockMask(7, 0.15))
	am.images[SpriteAsteroidMedium] = am.createSprite(spriteSize[SpriteAsteroidMedium], rockMask(5, 0.2))
	am.images[SpriteAsteroidSmall] = am.createSprite(spriteSize[SpriteAsteroidSmall], rockMask(4, 0.25))
	am.images[SpriteDebris] = am.createSprite(spriteSize[SpriteDebris], debrisMask)
	am.images[SpriteShot] = am.createSprite(spriteSize[SpriteShot], discMask)
	am.images[SpritePowerUp] = am.createSprite(spriteSize[SpritePowerUp], crossMask)
	am.images[SpriteBackground] = am.createSprite(spriteSize[SpriteBackground], starMask)

	am.explosionImages = am.explosionImages[:0]
	for frame := 0; frame < entity.ExplosionFrames; frame++ {
		inner := float64(frame) / entity.ExplosionFrames
		am.explosionImages = append(am.explosionImages, am.createSprite(48, ringMask(inner)))
	}
}

// LoadAssets builds the images and uploads them as textures. It must run
// on the GL thread, inside a scene's Setup.
func (am *AssetManager) LoadAssets() error {
	am.BuildImages()

	for key, img := range am.images {
		if img == nil {
			return fmt.Errorf("sprite %d: no image", key)
		}
		am.sprites[key] = am.convertToEngoTexture(img)
	}

	am.explosionSprites = am.explosionSprites[:0]
	for _, img := range am.explosionImages {
		am.explosionSprites = append(am.explosionSprites, am.convertToEngoTexture(img))
	}

	return nil
}

// mask reports whether the point at (x, y), both in [-1, 1] with y up, is
// part of the shape
type mask func(x, y float64) bool

// shipMask is an arrowhead pointing along +x
func shipMask(x, y float64) bool {
	if x < -0.8 || x > 0.9 {
		return false
	}
	half := (0.9 - x) * 0.45
	if x < -0.5 {
		// Notched tail.
		return math.Abs(y) <= half && math.Abs(y) >= (-0.5-x)*1.6
	}
	return math.Abs(y) <= half
}

// flameMask is a short cone pointing along -x
func flameMask(x, y float64) bool {
	return x <= 0.8 && math.Abs(y) <= (x+1)*0.35
}

func discMask(x, y float64) bool {
	return x*x+y*y <= 1
}

// ringMask is a ring whose inner radius is inner
func ringMask(inner float64) mask {
	return func(x, y float64) bool {
		d := math.Hypot(x, y)
		return d <= 1 && d >= inner
	}
}

// rockMask is a lumpy disc with the given number of bumps
func rockMask(bumps int, depth float64) mask {
	return func(x, y float64) bool {
		a := math.Atan2(y, x)
		edge := 1 - depth + depth*math.Cos(float64(bumps)*a)
		return math.Hypot(x, y) <= edge
	}
}

// debrisMask is a scatter of small chunks
func debrisMask(x, y float64) bool {
	if math.Hypot(x, y) > 1 {
		return false
	}
	cx := math.Floor((x + 1) * 4)
	cy := math.Floor((y + 1) * 4)
	return int(cx+cy)%3 == 0
}

// crossMask is a plus sign
func crossMask(x, y float64) bool {
	return (math.Abs(x) <= 0.3 && math.Abs(y) <= 1) || (math.Abs(y) <= 0.3 && math.Abs(x) <= 1)
}

// starMask is a sparse, repeating starfield
func starMask(x, y float64) bool {
	px := int((x + 1) * 64)
	py := int((y + 1) * 64)
	return (px*7+py*13)%97 == 0
}

// pattern samples a mask at pixel centres into a size×size grid. Row 0 is
// the top of the image.
func pattern(size int, m mask) [][]int {
	rows := make([][]int, size)
	for py := range rows {
		rows[py] = make([]int, size)
		y := 1 - (float64(py)+0.5)*2/float64(size)
		for px := range rows[py] {
			x := (float64(px)+0.5)*2/float64(size) - 1
			if m(x, y) {
				rows[py][px] = 1
			}
		}
	}
	return rows
}

// createSprite renders a mask into a white-on-transparent image. Sprites
// are tinted when drawn.
func (am *AssetManager) createSprite(size int, m mask) *image.NRGBA {
	img := am.createBaseImage(size, size)
	am.drawPatternOnImage(img, pattern(size, m), size, size)
	return img
}

// createBaseImage creates a transparent image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.NRGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage draws a 2D pixel pattern onto the provided image.
func (am *AssetManager) drawPatternOnImage(img *image.NRGBA, pattern [][]int, width, height int) {
	for y, row := range pattern {
		if y >= height {
			break
		}
		for x, pixel := range row {
			if x >= width {
				break
			}
			if pixel == 1 {
				img.Set(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
}

// convertToEngoTexture converts an image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.NRGBA) common.Drawable {
	texture := common.NewImageObject(img)
	return common.NewTextureSingle(texture)
}

// Image returns the generated image for a sprite
func (am *AssetManager) Image(key SpriteKey) *image.NRGBA {
	return am.images[key]
}

// Sprite returns the texture for a sprite, or nil before LoadAssets
func (am *AssetManager) Sprite(key SpriteKey) common.Drawable {
	return am.sprites[key]
}

// AsteroidSprite returns the sprite key for an asteroid variant
func AsteroidSprite(v entity.AsteroidVariant) SpriteKey {
	switch v {
	case entity.Medium:
		return SpriteAsteroidMedium
	case entity.Small:
		return SpriteAsteroidSmall
	default:
		return SpriteAsteroidBig
	}
}

// ExplosionSprite returns the texture for an explosion frame
func (am *AssetManager) ExplosionSprite(frame int) common.Drawable {
	if frame < 0 || frame >= len(am.explosionSprites) {
		return nil
	}
	return am.explosionSprites[frame]
}

// ExplosionImages returns the generated explosion frames
func (am *AssetManager) ExplosionImages() []*image.NRGBA {
	return am.explosionImages
}
