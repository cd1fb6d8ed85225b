package engine

import "github.com/go-gl/mathgl/mgl64"

// EffectiveHeight is the ball's contact height plus the extra clearance a
// softer, loftier attack gains. Lower power means more arc.
func EffectiveHeight(ballHeight, powerFactor, arcBoost float64) float64 {
	return ballHeight + arcBoost*(1-mgl64.Clamp(powerFactor, 0, 1))
}

// ProjectNetDeadZone returns the ground region beyond the net that a straight
// attack from ball cannot reach, whatever the blockers do. The bool is false
// when the ball is not on the attacking half (z ≤ 0).
//
// When the effective height clears the net the region is a trapezoid from the
// net line to where the line from the ball over the net tape meets the ground.
// When it does not, the whole far side within DeadZoneHalfSpan is dead.
func ProjectNetDeadZone(ball mgl64.Vec3, netHeight, powerFactor, halfWidth, arcBoost float64) (Polygon, bool) {
	if ball.Z() <= 0 {
		return nil, false
	}
	eff := EffectiveHeight(ball.Y(), powerFactor, arcBoost)
	if eff <= netHeight {
		return Polygon{
			onGround(mgl64.Vec2{-DeadZoneHalfSpan, 0}),
			onGround(mgl64.Vec2{-DeadZoneHalfSpan, -FullDeadZoneDepth}),
			onGround(mgl64.Vec2{DeadZoneHalfSpan, -FullDeadZoneDepth}),
			onGround(mgl64.Vec2{DeadZoneHalfSpan, 0}),
		}, true
	}

	dist := ball.Z()
	depth := min(dist*netHeight/(eff-netHeight), MaxDeadZoneDepth)

	// Widen the far edge the way the net posts project from the ball.
	spread := (dist + depth) / dist
	bx := ball.X()
	farLeft := mgl64.Clamp(bx+(-halfWidth-bx)*spread, -DeadZoneHalfSpan, DeadZoneHalfSpan)
	farRight := mgl64.Clamp(bx+(halfWidth-bx)*spread, -DeadZoneHalfSpan, DeadZoneHalfSpan)

	return Polygon{
		onGround(mgl64.Vec2{-halfWidth, 0}),
		onGround(mgl64.Vec2{farLeft, -depth}),
		onGround(mgl64.Vec2{farRight, -depth}),
		onGround(mgl64.Vec2{halfWidth, 0}),
	}, true
}
