package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ground drops the height of a world point, returning (x, z).
func ground(p mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{p.X(), p.Z()}
}

// onGround lifts a ground point back into world space at the overlay offset.
func onGround(p mgl64.Vec2) mgl64.Vec3 {
	return mgl64.Vec3{p.X(), GroundOffset, p.Y()}
}

// normalizeOrZero returns the unit vector of v, or the zero vector and false
// when v is shorter than the degenerate threshold.
func normalizeOrZero(v mgl64.Vec2) (mgl64.Vec2, bool) {
	if v.Dot(v) < degenerateLenSq {
		return mgl64.Vec2{}, false
	}
	return v.Mul(1 / v.Len()), true
}

// perpendicular rotates a ground vector a quarter turn counter-clockwise in
// the XZ plane, so atan2(z, x) of the result is larger by π/2.
func perpendicular(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// relativeAngle returns the signed angle from ref to v in (-π, π].
func relativeAngle(ref, v mgl64.Vec2) float64 {
	cross := ref.X()*v.Y() - ref.Y()*v.X()
	return math.Atan2(cross, ref.Dot(v))
}

// PointSegmentDistance returns the distance from p to the segment a–b, using a
// projection clamped to the segment. A zero-length segment degrades to the
// distance to a.
func PointSegmentDistance(p, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < 1e-12 {
		return p.Sub(a).Len()
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// PlaneIntersectT returns the parameter t at which the line a + t(b−a) meets
// the plane {x : n·x = d}. The bool is false when the line is parallel to it.
func PlaneIntersectT(a, b, n mgl64.Vec3, d float64) (float64, bool) {
	denom := n.Dot(b.Sub(a))
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	return (d - n.Dot(a)) / denom, true
}

func lerp3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Contains reports whether the ground point p lies inside the polygon's
// ground footprint, by the even-odd rule. Heights are ignored.
func (poly Polygon) Contains(p mgl64.Vec2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ground(poly[i]), ground(poly[j])
		if (a.Y() > p.Y()) == (b.Y() > p.Y()) {
			continue
		}
		x := a.X() + (p.Y()-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
		if p.X() < x {
			inside = !inside
		}
	}
	return inside
}

// Shadowed reports whether any shadow polygon covers p.
func (o Overlay) Shadowed(p mgl64.Vec2) bool {
	for _, s := range o.Shadows {
		if s.Vertices.Contains(p) {
			return true
		}
	}
	return false
}
