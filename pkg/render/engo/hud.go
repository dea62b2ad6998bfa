// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/entity"
)

// hudFontURL is the name the embedded font is registered under
const hudFontURL = "hud.ttf"

// Font sizes in pixels
const (
	smallTextSize = 24
	largeTextSize = 56
)

// HUDLine is one piece of text placed on screen
type HUDLine struct {
	Text  string
	X, Y  float32 // top-left corner in pixels
	Large bool
}

// LoadHUDFont registers the embedded Go font with engo's file loader.
// Call it from a scene's Preload.
func LoadHUDFont() error {
	return engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF))
}

// textWidth estimates the rendered width of s
func textWidth(s string, large bool) float32 {
	size := float32(smallTextSize)
	if large {
		size = largeTextSize
	}
	return float32(len([]rune(s))) * size * 0.55
}

func textHeight(large bool) float32 {
	if large {
		return largeTextSize
	}
	return smallTextSize
}

// centered places s horizontally centred with its middle at y
func centered(s string, width, y float32, large bool) HUDLine {
	return HUDLine{
		Text:  s,
		X:     (width - textWidth(s, large)) / 2,
		Y:     y - textHeight(large)/2,
		Large: large,
	}
}

// Layout returns the HUD text for a snapshot on a width×height game area
func Layout(state *engine.GameState, width, height float32) []HUDLine {
	mid := height / 2
	margin := float32(16)

	if state.State == engine.StateTitle {
		return []HUDLine{
			centered("Space Shooter", width, mid-80, true),
			centered("Press ENTER to start.", width, mid+20, false),
		}
	}

	lives, guns := 0, 0
	if state.Ship != nil {
		lives = max(state.Ship.Lives, 0)
		guns = state.Ship.PowerUps
	}
	score := fmt.Sprintf("Score: %d", state.Score)
	lines := []HUDLine{
		{Text: "Shields: " + strings.Repeat("O ", lives), X: margin, Y: margin},
		centered("Guns: "+strings.Repeat("| ", entity.ActiveGuns(guns)), width, margin+smallTextSize/2, false),
		{Text: score, X: width - textWidth(score, false) - margin, Y: margin},
	}

	if state.ShowLevelTitle {
		lines = append(lines, centered(fmt.Sprintf("Level %d", state.Level), width, mid-40, true))
	}
	if state.GameOver {
		lines = append(lines,
			centered("Game Over", width, mid-100, true),
			centered(fmt.Sprintf("Your score was: %d", state.Score), width, mid-20, false),
			centered("Press ENTER to continue.", width, mid+30, false),
		)
	}
	if state.State == engine.StatePaused {
		lines = append(lines, centered("PAUSED", width, mid-80, true))
	}
	return lines
}

// HUDSystem draws the status line and overlay texts
type HUDSystem struct {
	source func() *engine.GameState
	system SpriteAdder

	width, height float32
	small, large  *common.Font

	pool []*Sprite
}

// NewHUDSystem creates a new HUD system reading snapshots from source
func NewHUDSystem(source func() *engine.GameState, system SpriteAdder, width, height float32) *HUDSystem {
	return &HUDSystem{
		source: source,
		system: system,
		width:  width,
		height: height,
	}
}

// LoadFonts prepares the fonts. LoadHUDFont must have run first.
func (hud *HUDSystem) LoadFonts() error {
	hud.small = &common.Font{URL: hudFontURL, FG: color.White, Size: smallTextSize}
	if err := hud.small.CreatePreloaded(); err != nil {
		return fmt.Errorf("hud font: %w", err)
	}
	hud.large = &common.Font{URL: hudFontURL, FG: color.White, Size: largeTextSize}
	if err := hud.large.CreatePreloaded(); err != nil {
		return fmt.Errorf("hud font: %w", err)
	}
	return nil
}

// Priority runs the HUD after the simulation
func (hud *HUDSystem) Priority() int { return 0 }

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update redraws the HUD from the latest snapshot
func (hud *HUDSystem) Update(dt float32) {
	if hud.small == nil {
		return
	}
	lines := Layout(hud.source(), hud.width, hud.height)

	for i, line := range lines {
		s := hud.textSprite(i)
		font := hud.small
		if line.Large {
			font = hud.large
		}
		s.Drawable = common.Text{Font: font, Text: line.Text}
		s.Position = engo.Point{X: line.X, Y: line.Y}
		s.Hidden = false
	}
	for _, s := range hud.pool[len(lines):] {
		s.Hidden = true
	}
}

// textSprite returns the i'th text entity, creating it if needed
func (hud *HUDSystem) textSprite(i int) *Sprite {
	for len(hud.pool) <= i {
		s := &Sprite{BasicEntity: ecs.NewBasic()}
		s.StartZIndex = zHUD
		s.Color = color.White
		s.Scale = engo.Point{X: 1, Y: 1}
		hud.pool = append(hud.pool, s)
		hud.system.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	return hud.pool[i]
}
