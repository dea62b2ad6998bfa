package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spaceshooter/pkg/physics"
)

func TestGetAsteroidStats(t *testing.T) {
	tests := []struct {
		variant  AsteroidVariant
		expected AsteroidStats
	}{
		{Big, AsteroidStats{Radius: 80, Mass: 3.0, Score: 10, Sound: SoundBigAsteroid}},
		{Medium, AsteroidStats{Radius: 60, Mass: 1.0, Score: 30, Sound: SoundMediumAsteroid}},
		{Small, AsteroidStats{Radius: 25, Mass: 0.7, Score: 80, Sound: SoundSmallAsteroid}},
		{AsteroidVariant(42), AsteroidStats{}},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetAsteroidStats(tt.variant))

			a := NewAsteroid(1, tt.variant, physics.Vector2D{}, physics.Vector2D{}, 0)
			assert.Equal(t, tt.expected.Radius, a.Radius)
			assert.Equal(t, tt.expected.Mass, a.Mass)
			assert.Equal(t, tt.expected.Sound, a.SoundEvent())
		})
	}
}

func TestAsteroid_Update_DriftsAtFixedSpeed(t *testing.T) {
	tests := []struct {
		name     string
		variant  AsteroidVariant
		velocity physics.Vector2D
		speed    float64
	}{
		{"big", Big, physics.Vector2D{X: 3, Y: 4}, 100.0 / 3.0},
		{"medium", Medium, physics.Vector2D{X: -2, Y: 0}, 100.0},
		{"small_fast_velocity", Small, physics.Vector2D{X: 5000, Y: -5000}, 100.0 / 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := physics.Vector2D{X: 500, Y: 500}
			a := NewAsteroid(1, tt.variant, start, tt.velocity, 0)
			a.Update(0.1)

			moved := a.Position.Sub(start)
			assert.InDelta(t, tt.speed*0.1, moved.Length(), 1e-9)
			assert.InDelta(t, tt.velocity.Angle(), moved.Angle(), 1e-9)
		})
	}
}

func TestAsteroid_Update_ZeroVelocityStaysPut(t *testing.T) {
	a := NewAsteroid(1, Big, physics.Vector2D{X: 10, Y: 10}, physics.Vector2D{}, 5)
	a.Update(1)

	assert.Equal(t, physics.Vector2D{X: 10, Y: 10}, a.Position)
	assert.InDelta(t, 5.0, a.Angle, 1e-9)
}

func TestAsteroid_Update_WrapsAndSpins(t *testing.T) {
	a := NewAsteroid(1, Small, physics.Vector2D{X: 1910, Y: 500}, physics.Vector2D{X: 1, Y: 0}, 370)
	a.Update(0.2)

	assert.InDelta(t, 1910+100/0.7*0.2-physics.WorldWidth, a.Position.X, 1e-9)
	assert.True(t, physics.InBounds(a.Position))
	assert.InDelta(t, 10.0, a.RotationSpeed, 1e-9)
	assert.InDelta(t, 2.0, a.Angle, 1e-9)
}

func TestAsteroid_Hit_SplitsByVariant(t *testing.T) {
	pos := physics.Vector2D{X: 300, Y: 200}

	t.Run("big_into_two_medium", func(t *testing.T) {
		var ids IDAllocator
		a := NewAsteroid(ids.Next(), Big, pos, physics.Vector2D{X: 0, Y: 10}, 4)
		fragments, points := a.Hit(&ids)

		require.Len(t, fragments, 2)
		assert.Equal(t, 10, points)
		assert.True(t, a.Destroyed)
		for i, f := range fragments {
			s := 1.0
			if i == 1 {
				s = -1
			}
			assert.Equal(t, Medium, f.Variant)
			assert.Equal(t, pos, f.Position)
			assert.Equal(t, physics.Vector2D{X: 0, Y: 2 * s}, f.Velocity)
			assert.Equal(t, 8*s, f.RotationSpeed)
			assert.NotEqual(t, a.ID, f.ID)
		}
	})

	t.Run("medium_into_two_small", func(t *testing.T) {
		var ids IDAllocator
		a := NewAsteroid(ids.Next(), Medium, pos, physics.Vector2D{X: 1, Y: 0}, 3)
		fragments, points := a.Hit(&ids)

		require.Len(t, fragments, 2)
		assert.Equal(t, 30, points)
		assert.Equal(t, Small, fragments[0].Variant)
		assert.Equal(t, physics.Vector2D{X: 12, Y: 0}, fragments[0].Velocity)
		assert.Equal(t, a.SmallAsteroidDirection(1), fragments[1].Velocity)
		assert.Equal(t, 6.0, fragments[0].RotationSpeed)
		assert.Equal(t, -6.0, fragments[1].RotationSpeed)
	})

	t.Run("small_vanishes", func(t *testing.T) {
		var ids IDAllocator
		a := NewAsteroid(ids.Next(), Small, pos, physics.Vector2D{X: 1, Y: 0}, 3)
		fragments, points := a.Hit(&ids)

		assert.Empty(t, fragments)
		assert.Equal(t, 80, points)
		assert.True(t, a.Destroyed)
	})

	t.Run("second_hit_is_ignored", func(t *testing.T) {
		var ids IDAllocator
		a := NewAsteroid(ids.Next(), Big, pos, physics.Vector2D{X: 1, Y: 0}, 3)
		a.Hit(&ids)
		fragments, points := a.Hit(&ids)

		assert.Nil(t, fragments)
		assert.Zero(t, points)
	})
}

func TestAsteroid_SmallAsteroidDirection(t *testing.T) {
	a := NewAsteroid(1, Medium, physics.Vector2D{X: 10, Y: 20}, physics.Vector2D{X: 1, Y: 2}, 0)

	tests := []struct {
		i        int
		expected physics.Vector2D
	}{
		{0, physics.Vector2D{X: 12, Y: 24}},
		{1, physics.Vector2D{X: (-10 - 1.663*20) * 4, Y: (1.663*10 - 20) * 4}},
		{2, physics.Vector2D{X: (-10 + 1.663*20) * 4, Y: (-1.663*10 - 20) * 4}},
	}

	for _, tt := range tests {
		got := a.SmallAsteroidDirection(tt.i)
		assert.InDelta(t, tt.expected.X, got.X, 1e-9, "fragment %d", tt.i)
		assert.InDelta(t, tt.expected.Y, got.Y, 1e-9, "fragment %d", tt.i)
	}
}

func TestAsteroid_ExplosionLifecycle(t *testing.T) {
	var ids IDAllocator
	a := NewAsteroid(ids.Next(), Small, physics.Vector2D{X: 50, Y: 50}, physics.Vector2D{X: 1, Y: 0}, 0)
	a.Hit(&ids)
	require.Equal(t, 1, a.ExplosionFrame)

	for i := 0; i < 6; i++ {
		a.Update(0.11)
	}
	assert.Equal(t, 7, a.ExplosionFrame)
	assert.False(t, a.IsDead())
	assert.Equal(t, physics.Vector2D{X: 50, Y: 50}, a.Position, "exploding asteroids do not drift")

	a.Update(0.11)
	assert.True(t, a.IsDead())
	assert.Equal(t, AsteroidExplosionFrames-1, a.ExplosionFrame)

	a.Update(0.11)
	assert.Equal(t, AsteroidExplosionFrames-1, a.ExplosionFrame)
}

func TestAsteroid_PlayCollisionSound_Cooldown(t *testing.T) {
	audio := &recordingAudio{}
	a := NewAsteroid(1, Big, physics.Vector2D{X: 640, Y: 0}, physics.Vector2D{}, 0)

	a.PlayCollisionSound(audio)
	a.PlayCollisionSound(audio)
	assert.Equal(t, 1, audio.count(SoundCollision))

	a.Update(0.5)
	a.PlayCollisionSound(audio)
	assert.Equal(t, 1, audio.count(SoundCollision))

	a.Update(0.51)
	a.PlayCollisionSound(audio)
	assert.Equal(t, 2, audio.count(SoundCollision))

	require.NotEmpty(t, audio.calls)
	assert.Equal(t, audioCall{Method: "position", Object: AsteroidObject, X: 640}, audio.calls[0])
}

func TestAsteroid_PlayExplosionSound_Variant(t *testing.T) {
	audio := &recordingAudio{}
	NewAsteroid(1, Medium, physics.Vector2D{}, physics.Vector2D{}, 0).PlayExplosionSound(audio)
	NewAsteroid(2, AsteroidVariant(9), physics.Vector2D{}, physics.Vector2D{}, 0).PlayExplosionSound(audio)

	assert.Equal(t, []string{SoundMediumAsteroid}, audio.played())
}

func TestCollideAsteroids_HeadOn(t *testing.T) {
	audio := &recordingAudio{}
	a := NewAsteroid(1, Medium, physics.Vector2D{X: 100, Y: 100}, physics.Vector2D{X: 1, Y: 0}, 0)
	b := NewAsteroid(2, Medium, physics.Vector2D{X: 200, Y: 100}, physics.Vector2D{X: -1, Y: 0}, 0)

	collided := CollideAsteroids([]*Asteroid{a, b}, audio)

	require.True(t, collided)
	assert.InDelta(t, -100, a.Velocity.X, 1e-9)
	assert.InDelta(t, 100, b.Velocity.X, 1e-9)
	assert.InDelta(t, 90, a.Position.X, 1e-9)
	assert.InDelta(t, 210, b.Position.X, 1e-9)
	assert.Equal(t, 1, audio.count(SoundCollision))
	assert.False(t, Overlaps(a, b), "bodies must be separated after the response")
}

func TestCollideAsteroids_ConservesMomentum(t *testing.T) {
	a := NewAsteroid(1, Big, physics.Vector2D{X: 400, Y: 400}, physics.Vector2D{X: 1, Y: 1}, 0)
	b := NewAsteroid(2, Small, physics.Vector2D{X: 480, Y: 430}, physics.Vector2D{X: -1, Y: 0.2}, 0)

	before := a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass))
	require.True(t, CollideAsteroids([]*Asteroid{a, b}, NopAudio{}))
	after := a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass))

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestCollideAsteroids_UsesStoredVelocities(t *testing.T) {
	a := NewAsteroid(1, Big, physics.Vector2D{X: 500, Y: 500}, physics.Vector2D{X: 40, Y: 0}, 0)
	b := NewAsteroid(2, Medium, physics.Vector2D{X: 600, Y: 520}, physics.Vector2D{X: -2, Y: 0}, 0)

	require.True(t, CollideAsteroids([]*Asteroid{a, b}, NopAudio{}))

	// vcm = (3·40 − 2)/4 = 29.5; reflect (10.5, 0) about the A−B normal.
	dir := a.Velocity.Normalize()
	assert.InDelta(t, 0.9799, dir.X, 1e-3)
	assert.InDelta(t, -0.1998, dir.Y, 1e-3)
	assert.InDelta(t, 19.808, a.Velocity.X, 1e-3)
	assert.InDelta(t, -4.0385, a.Velocity.Y, 1e-3)
}

func TestCollideAsteroids_ExplodingKeepsVelocity(t *testing.T) {
	a := NewAsteroid(1, Small, physics.Vector2D{X: 300, Y: 300}, physics.Vector2D{X: 3, Y: 0}, 0)
	b := NewAsteroid(2, Small, physics.Vector2D{X: 330, Y: 300}, physics.Vector2D{X: -3, Y: 0}, 0)
	a.Hit(&IDAllocator{})
	require.True(t, a.Destroyed)

	require.True(t, CollideAsteroids([]*Asteroid{a, b}, NopAudio{}))

	assert.InDelta(t, -3, a.Velocity.X, 1e-9)
	assert.InDelta(t, 3, b.Velocity.X, 1e-9)
}

func TestCollideAsteroids_PushWrapsIntoWorld(t *testing.T) {
	a := NewAsteroid(1, Small, physics.Vector2D{X: 5, Y: 100}, physics.Vector2D{X: 1, Y: 0}, 0)
	b := NewAsteroid(2, Small, physics.Vector2D{X: 30, Y: 100}, physics.Vector2D{X: -1, Y: 0}, 0)

	require.True(t, CollideAsteroids([]*Asteroid{a, b}, NopAudio{}))

	assert.InDelta(t, physics.WorldWidth-7.5, a.Position.X, 1e-9)
	assert.InDelta(t, 42.5, b.Position.X, 1e-9)
	assert.True(t, physics.InBounds(a.Position))
}

func TestCollideAsteroids_NoOverlap(t *testing.T) {
	a := NewAsteroid(1, Small, physics.Vector2D{X: 100, Y: 100}, physics.Vector2D{X: 1, Y: 0}, 0)
	b := NewAsteroid(2, Small, physics.Vector2D{X: 150, Y: 100}, physics.Vector2D{X: -1, Y: 0}, 0)

	assert.False(t, CollideAsteroids([]*Asteroid{a, b}, NopAudio{}))
	assert.Equal(t, physics.Vector2D{X: 1, Y: 0}, a.Velocity)
	assert.False(t, math.IsNaN(b.Position.X))
}
