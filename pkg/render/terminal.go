package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/entity"
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// Styles used by the terminal renderer
var (
	styleShip      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleShield    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleFlame     = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleShot      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePowerUp   = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleExplosion = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleTitle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// asteroidRunes indexes by variant
var asteroidRunes = [...]rune{'#', '%', '@'}

// shipArrows indexes by heading in 45° sectors, counter-clockwise from +X
var shipArrows = [...]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// TerminalRenderer draws the whole world scaled onto a tcell screen. World
// y grows upwards; row 0 is the top of the screen and is kept for the HUD.
type TerminalRenderer struct {
	screen tcell.Screen
	width  int
	height int
	scaleX float64 // world units per column
	scaleY float64 // world units per row
}

// NewTerminalRenderer creates a renderer for an initialized screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	r := &TerminalRenderer{screen: screen}
	r.Resize()
	return r
}

// Resize picks up the current screen size. Call it after a resize event.
func (r *TerminalRenderer) Resize() {
	r.width, r.height = r.screen.Size()
	if r.width < 1 {
		r.width = 1
	}
	if r.height < 2 {
		r.height = 2
	}
	r.scaleX = physics.WorldWidth / float64(r.width)
	r.scaleY = physics.WorldHeight / float64(r.height-1)
}

// worldToScreen converts world coordinates to a cell
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	x := int(math.Floor(pos.X / r.scaleX))
	y := r.height - 1 - int(math.Floor(pos.Y/r.scaleY))
	return x, y
}

// cellCenter is the world position at the middle of a cell
func (r *TerminalRenderer) cellCenter(x, y int) physics.Vector2D {
	return physics.Vector2D{
		X: (float64(x) + 0.5) * r.scaleX,
		Y: (float64(r.height-1-y) + 0.5) * r.scaleY,
	}
}

// set draws a rune if the cell is on the playfield
func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if x < 0 || x >= r.width || y < 1 || y >= r.height {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// plot draws a rune at a world position and its wrapped copies
func (r *TerminalRenderer) plot(pos physics.Vector2D, radius float64, ch rune, style tcell.Style) {
	for _, p := range WrapCopies(pos, radius, 0) {
		x, y := r.worldToScreen(p)
		r.set(x, y, ch, style)
	}
}

// fillCircle fills every cell whose centre lies inside the circle,
// including the parts that wrap across world edges.
func (r *TerminalRenderer) fillCircle(pos physics.Vector2D, radius float64, ch rune, style tcell.Style) {
	for _, c := range WrapCopies(pos, radius, 0) {
		x0, y1 := r.worldToScreen(physics.Vector2D{X: c.X - radius, Y: c.Y - radius})
		x1, y0 := r.worldToScreen(physics.Vector2D{X: c.X + radius, Y: c.Y + radius})
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if r.cellCenter(x, y).Distance(c) < radius {
					r.set(x, y, ch, style)
				}
			}
		}
		// Small bodies still get one cell.
		x, y := r.worldToScreen(c)
		r.set(x, y, ch, style)
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

// RenderShip implements entity.Renderer
func (r *TerminalRenderer) RenderShip(ship *entity.Spaceship) {
	if ship.ShieldVisible {
		for a := 0; a < 360; a += 30 {
			edge := ship.Position.Add(physics.FromAngle(physics.Radians(float64(a)), ship.Radius))
			r.plot(edge, 0, 'o', styleShield)
		}
	}
	if ship.ThrustFrame > 0 {
		tail := ship.Position.Sub(physics.FromAngle(physics.Radians(ship.Angle), ship.Radius*0.8))
		r.plot(tail, 0, '*', styleFlame)
	}
	sector := int(math.Round(physics.NormalizeDegrees(ship.Angle)/45)) % len(shipArrows)
	r.plot(ship.Position, ship.Radius, shipArrows[sector], styleShip)
}

// RenderAsteroid implements entity.Renderer
func (r *TerminalRenderer) RenderAsteroid(asteroid *entity.Asteroid) {
	if asteroid.Destroyed {
		// The debris cloud shrinks as the explosion plays.
		left := float64(entity.AsteroidExplosionFrames-asteroid.ExplosionFrame) / entity.AsteroidExplosionFrames
		r.fillCircle(asteroid.Position, asteroid.Radius*left, '.', styleExplosion)
		return
	}
	ch := '#'
	if v := int(asteroid.Variant); v >= 0 && v < len(asteroidRunes) {
		ch = asteroidRunes[v]
	}
	r.fillCircle(asteroid.Position, asteroid.Radius, ch, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// RenderShot implements entity.Renderer
func (r *TerminalRenderer) RenderShot(shot *entity.Shot) {
	r.plot(shot.Position, shot.Radius, '·', styleShot)
}

// RenderPowerUp implements entity.Renderer
func (r *TerminalRenderer) RenderPowerUp(powerUp *entity.PowerUp) {
	r.plot(powerUp.Position, powerUp.Radius, '+', stylePowerUp)
}

// RenderExplosion implements entity.Renderer
func (r *TerminalRenderer) RenderExplosion(explosion *entity.Explosion) {
	grow := float64(explosion.SpriteFrame()+1) / entity.ExplosionFrames
	radius := explosion.Radius * grow
	for a := 0; a < 360; a += 20 {
		edge := explosion.Position.Add(physics.FromAngle(physics.Radians(float64(a)), radius))
		r.plot(edge, 0, '*', styleExplosion)
	}
}

// text writes s starting at column x of row y
func (r *TerminalRenderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		if x+i >= 0 && x+i < r.width && y >= 0 && y < r.height {
			r.screen.SetContent(x+i, y, ch, nil, style)
		}
	}
}

// centered writes s centred on row y
func (r *TerminalRenderer) centered(y int, s string, style tcell.Style) {
	r.text((r.width-len([]rune(s)))/2, y, s, style)
}

// DrawHUD draws the status line and the overlay texts for a snapshot.
// Call it between the entity pass and Present.
func (r *TerminalRenderer) DrawHUD(state *engine.GameState) {
	mid := r.height / 2

	if state.State == engine.StateTitle {
		r.centered(mid-2, "Space Shooter", styleTitle)
		r.centered(mid, "Press ENTER to start.", styleHUD)
		return
	}

	lives, guns := 0, 0
	if state.Ship != nil {
		lives = max(state.Ship.Lives, 0)
		guns = state.Ship.PowerUps
	}
	r.text(1, 0, "Shields: "+strings.Repeat("♦", lives), styleHUD)
	r.centered(0, "Guns: "+strings.Repeat("|", entity.ActiveGuns(guns)), styleHUD)
	score := fmt.Sprintf("Score: %d", state.Score)
	r.text(r.width-len(score)-1, 0, score, styleHUD)

	if state.ShowLevelTitle {
		r.centered(mid-1, fmt.Sprintf("Level %d", state.Level), styleTitle)
	}
	if state.GameOver {
		r.centered(mid-3, "Game Over", styleTitle)
		r.centered(mid-1, fmt.Sprintf("Your score was: %d", state.Score), styleHUD)
		r.centered(mid+1, "Press ENTER to continue.", styleHUD)
	}
	if state.State == engine.StatePaused {
		r.centered(mid-2, "PAUSED", styleTitle)
	}
}

// Frame renders a complete frame: entities, HUD, then Present.
func (r *TerminalRenderer) Frame(session *engine.GameSession) {
	r.Clear()
	session.Render(noPresent{r})
	r.DrawHUD(session.Snapshot())
	r.Present()
}

// noPresent forwards entity drawing but defers Clear and Present to Frame.
type noPresent struct {
	*TerminalRenderer
}

func (noPresent) Clear() {}
func (noPresent) Present() {}
