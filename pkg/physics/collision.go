// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// AABB is an axis-aligned bounding box given by its min and max corners.
type AABB struct {
	Min Vector2D
	Max Vector2D
}

// Overlaps reports whether the two boxes intersect. Touching edges do not count.
func (b AABB) Overlaps(other AABB) bool {
	return b.Min.X < other.Max.X && other.Min.X < b.Max.X &&
		b.Min.Y < other.Max.Y && other.Min.Y < b.Max.Y
}

// Bounds returns the bounding box of the circle
func (c Circle) Bounds() AABB {
	r := Vector2D{X: c.Radius, Y: c.Radius}
	return AABB{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

// Collides checks if two circles overlap. The box test rejects distant pairs
// before the distance is computed; the result equals a pure distance test.
func (c Circle) Collides(other Circle) bool {
	if !c.Bounds().Overlaps(other.Bounds()) {
		return false
	}
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D
	Penetration  float64
	ContactPoint Vector2D
}

// CheckCollision performs detailed collision detection between two circles.
// Normal points from a to b.
func CheckCollision(a, b Circle) CollisionResult {
	if !a.Collides(b) {
		return CollisionResult{Collided: false}
	}

	normal := b.Center.Sub(a.Center)
	distance := normal.Length()
	penetration := a.Radius + b.Radius - distance

	normal = normal.Normalize()
	if normal == (Vector2D{}) {
		normal = Vector2D{X: 1}
	}

	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  penetration,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// Body is a mutable view of a moving circle used by collision response.
type Body struct {
	Position *Vector2D
	Velocity *Vector2D
	Mass     float64
	Radius   float64
}

// ResolveElastic applies the momentum-preserving bounce between two
// overlapping bodies. Velocities are reflected about the contact normal in
// the centre-of-mass frame and each body is pushed out along the normal by
// half of the penetration depth. It is a no-op when the combined mass is
// not positive.
func ResolveElastic(a, b Body) {
	totalMass := a.Mass + b.Mass
	if totalMass <= 0 {
		return
	}

	line := a.Position.Sub(*b.Position)
	distance := line.Length()
	normal := line.Normalize()
	if distance == 0 {
		normal = Vector2D{X: 1}
	}

	vcm := a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass)).Scale(1 / totalMass)

	*a.Velocity = a.Velocity.Sub(vcm).Reflect(normal).Add(vcm)
	*b.Velocity = b.Velocity.Sub(vcm).Reflect(normal).Add(vcm)

	penetration := a.Radius + b.Radius - distance
	if penetration <= 0 {
		return
	}
	push := normal.Scale(penetration / 2)
	*a.Position = a.Position.Add(push)
	*b.Position = b.Position.Sub(push)
}
