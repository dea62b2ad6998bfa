// pkg/entity/weapon.go
package entity

import (
	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

// GunMount is a muzzle on the hull. Forward and Side are offsets along the
// ship's facing and its left-hand normal; Spread is added to the heading
// in radians.
type GunMount struct {
	Forward float64
	Side    float64
	Spread  float64
}

// GunMounts lists every mount. Mount 0 is always active, 1-2 with one
// power-up and 3-4 with two.
var GunMounts = [5]GunMount{
	{Forward: 0, Side: 5, Spread: 0},
	{Forward: 35, Side: 35, Spread: 0.05},
	{Forward: 35, Side: -30, Spread: -0.05},
	{Forward: 40, Side: 60, Spread: 0.2},
	{Forward: 40, Side: -60, Spread: -0.2},
}

// ActiveGuns returns how many mounts fire at a power-up level.
func ActiveGuns(powerUps int) int {
	switch {
	case powerUps > 1:
		return 5
	case powerUps > 0:
		return 3
	default:
		return 1
	}
}

// Blaster is the ship's gun with its cooldown
type Blaster struct {
	Cooldown  float64 // seconds between volleys
	ShotSpeed float64
	timer     float64
}

// NewBlaster creates the standard ship blaster
func NewBlaster() Blaster {
	return Blaster{Cooldown: 0.5, ShotSpeed: 1000}
}

// Ready reports whether the cooldown has elapsed
func (b *Blaster) Ready() bool {
	return b.timer <= 0
}

// Tick counts the cooldown down
func (b *Blaster) Tick(deltaTime float64) {
	if b.timer > 0 {
		b.timer -= deltaTime
	}
}

// Fire emits one shot per active mount and restarts the cooldown. It
// returns nil while the blaster is cooling down.
func (b *Blaster) Fire(ids *IDAllocator, position, velocity physics.Vector2D, angle float64, guns int) []*Shot {
	if !b.Ready() {
		return nil
	}
	b.timer = b.Cooldown

	shots := make([]*Shot, 0, guns)
	for i := 0; i < guns && i < len(GunMounts); i++ {
		shots = append(shots, b.makeShot(ids.Next(), GunMounts[i], position, velocity, angle))
	}
	return shots
}

// makeShot places a shot at the mount and gives it the blaster speed along
// the spread heading plus the ship's own velocity.
func (b *Blaster) makeShot(id ID, mount GunMount, position, velocity physics.Vector2D, angle float64) *Shot {
	heading := physics.Radians(angle)
	facing := physics.FromAngle(heading, 1)
	side := physics.FromAngle(physics.Radians(angle+90), 1)

	start := position.Add(facing.Scale(mount.Forward)).Add(side.Scale(mount.Side))
	shotVelocity := physics.FromAngle(heading+mount.Spread, b.ShotSpeed).Add(velocity)

	return NewShot(id, start, shotVelocity, angle)
}
