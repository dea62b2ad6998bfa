package physics

import "math"

// ApplyThrust accelerates v along headingDeg (degrees) for dt seconds.
func ApplyThrust(v Vector2D, headingDeg, accel, dt float64) Vector2D {
	return v.Add(FromAngle(Radians(headingDeg), accel*dt))
}

// ClampSpeed limits the magnitude of v to maxSpeed, keeping its direction.
func ClampSpeed(v Vector2D, maxSpeed float64) Vector2D {
	if v.LengthSquared() > maxSpeed*maxSpeed {
		return v.Normalize().Scale(maxSpeed)
	}
	return v
}

// ApplyFriction damps v by the factor (1 - k*dt).
func ApplyFriction(v Vector2D, k, dt float64) Vector2D {
	return v.Scale(1.0 - k*dt)
}

// SnapToZero returns the zero vector when v is not finite or shorter than eps.
func SnapToZero(v Vector2D, eps float64) Vector2D {
	if !v.IsFinite() || v.Length() < eps {
		return Vector2D{}
	}
	return v
}

// NormalizeDegrees folds an angle into [0,360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
