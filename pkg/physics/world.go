package physics

// World dimensions. The play field is a torus of this size.
const (
	WorldWidth  = 1920.0
	WorldHeight = 1080.0
)

// Center is the middle of the play field.
var Center = Vector2D{X: WorldWidth / 2, Y: WorldHeight / 2}

// Wrap maps p back into [0,WorldWidth) x [0,WorldHeight). It corrects a
// single overshoot per axis, which is all a fixed-step integration can
// produce at the speeds in play.
func Wrap(p Vector2D) Vector2D {
	if p.X < 0 {
		p.X += WorldWidth
	} else if p.X >= WorldWidth {
		p.X -= WorldWidth
	}
	if p.Y < 0 {
		p.Y += WorldHeight
	} else if p.Y >= WorldHeight {
		p.Y -= WorldHeight
	}
	return p
}

// InBounds reports whether p lies inside the play field.
func InBounds(p Vector2D) bool {
	return p.X >= 0 && p.X < WorldWidth && p.Y >= 0 && p.Y < WorldHeight
}
