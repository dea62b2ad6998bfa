package render

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// WrapCopies returns the positions at which an object must be drawn so it
// shows on both sides of a world edge. The first element is always pos
// itself. An object within radius+margin of an edge gets a copy shifted by
// the world size across that edge, and one on each diagonal when it is
// near a corner.
func WrapCopies(pos physics.Vector2D, radius, margin float64) []physics.Vector2D {
	reach := radius + margin
	copies := []physics.Vector2D{pos}

	var dx, dy float64
	switch {
	case pos.X < reach:
		dx = physics.WorldWidth
	case pos.X > physics.WorldWidth-reach:
		dx = -physics.WorldWidth
	}
	switch {
	case pos.Y < reach:
		dy = physics.WorldHeight
	case pos.Y > physics.WorldHeight-reach:
		dy = -physics.WorldHeight
	}

	if dx != 0 {
		copies = append(copies, physics.Vector2D{X: pos.X + dx, Y: pos.Y})
	}
	if dy != 0 {
		copies = append(copies, physics.Vector2D{X: pos.X, Y: pos.Y + dy})
	}
	if dx != 0 && dy != 0 {
		copies = append(copies, physics.Vector2D{X: pos.X + dx, Y: pos.Y + dy})
	}
	return copies
}
