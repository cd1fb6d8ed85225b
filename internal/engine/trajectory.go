package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CollisionKind classifies what stopped the attack.
type CollisionKind uint8

const (
	CollisionNone CollisionKind = iota
	CollisionNet
	CollisionBlock
)

func (k CollisionKind) String() string {
	switch k {
	case CollisionNet:
		return "net"
	case CollisionBlock:
		return "block"
	default:
		return "none"
	}
}

// MarshalText makes the kind read as a word in JSON payloads.
func (k CollisionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CollisionKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*k = CollisionNone
	case "net":
		*k = CollisionNet
	case "block":
		*k = CollisionBlock
	default:
		return fmt.Errorf("unknown collision kind %q", b)
	}
	return nil
}

// Collision is the first interception along the attack curve. T is the curve
// parameter of the hit, or 1 when the whole curve is clear. Blocker is the
// index of the responsible blocker (the first of a pair), or -1.
type Collision struct {
	Kind    CollisionKind `json:"kind"`
	T       float64       `json:"t"`
	Blocker int           `json:"blocker"`
}

// NoCollision is the clear-path result.
var NoCollision = Collision{Kind: CollisionNone, T: 1, Blocker: -1}

// Curve is a quadratic Bézier attack path.
type Curve struct {
	Start   mgl64.Vec3 `json:"start"`
	Control mgl64.Vec3 `json:"control"`
	End     mgl64.Vec3 `json:"end"`
}

// Point evaluates the curve at t.
func (c Curve) Point(t float64) mgl64.Vec3 {
	u := 1 - t
	return c.Start.Mul(u * u).Add(c.Control.Mul(2 * u * t)).Add(c.End.Mul(t * t))
}

// Trim returns the sub-curve covering [0, t]. Trimming at t ≥ 1 returns the
// curve unchanged.
func (c Curve) Trim(t float64) Curve {
	if t >= 1 {
		return c
	}
	t = max(t, 0)
	p01 := lerp3(c.Start, c.Control, t)
	p12 := lerp3(c.Control, c.End, t)
	return Curve{Start: c.Start, Control: p01, End: lerp3(p01, p12, t)}
}

// Points samples n+1 evenly spaced points from t=0 to t=1.
func (c Curve) Points(n int) []mgl64.Vec3 {
	n = max(n, 1)
	out := make([]mgl64.Vec3, n+1)
	for i := 0; i <= n; i++ {
		out[i] = c.Point(float64(i) / float64(n))
	}
	return out
}

// ArcBoost is the extra apex height of a soft attack. It grows with the
// planar distance covered and shrinks to zero at full power.
func ArcBoost(powerFactor, planarDistance float64, tun Tuning) float64 {
	return (1 - mgl64.Clamp(powerFactor, 0, 1)) * (tun.ArcBase + tun.ArcPerMeter*planarDistance)
}

// CrossesNet reports whether start and end lie on opposite sides of the net
// plane; touching the plane counts as crossing.
func CrossesNet(start, end mgl64.Vec3) bool {
	return start.Z()*end.Z() <= 0
}

// BuildCurve constructs the attack curve from the ball to the ground target.
// The control point sits over the XZ midpoint at the computed apex height.
func BuildCurve(ball mgl64.Vec3, target mgl64.Vec2, net Net, powerFactor float64, tun Tuning) Curve {
	end := mgl64.Vec3{target.X(), 0, target.Y()}
	apex := max(ball.Y(), end.Y())
	if CrossesNet(ball, end) {
		apex = max(apex, net.Height+tun.NetClearance)
	}
	planar := ground(end).Sub(ground(ball)).Len()
	apex += ArcBoost(powerFactor, planar, tun)

	mid := ground(ball).Add(ground(end)).Mul(0.5)
	return Curve{
		Start:   ball,
		Control: mgl64.Vec3{mid.X(), apex, mid.Y()},
		End:     end,
	}
}

// Trajectory is a solved attack: the full curve, the first collision and the
// part of the curve that is actually flown.
type Trajectory struct {
	Curve     Curve     `json:"curve"`
	Collision Collision `json:"collision"`
	Flown     Curve     `json:"flown"`
}

// Solve builds the attack curve and walks it forward for the first hit.
func Solve(ball mgl64.Vec3, target mgl64.Vec2, net Net, powerFactor float64, blockers []Blocker, tun Tuning) Trajectory {
	c := BuildCurve(ball, target, net, powerFactor, tun)
	hit := FirstCollision(c, net, blockers, tun)
	return Trajectory{Curve: c, Collision: hit, Flown: c.Trim(hit.T)}
}

var netNormal = mgl64.Vec3{0, 0, 1}

// FirstCollision samples c at tun.SampleCount steps in increasing t and
// returns the earliest interception by the net or a blocker.
//
// The net is checked on each segment between consecutive samples; the
// crossing is found by interpolating z linearly between them, so it always
// precedes a blocker hit at the segment's end sample. Sampling can tunnel
// through obstacles thinner than one step; raise SampleCount to trade speed
// for resolution.
func FirstCollision(c Curve, net Net, blockers []Blocker, tun Tuning) Collision {
	steps := max(tun.SampleCount, 1)
	pairs := tightPairs(blockers, tun.BlockThreshold)

	prev := c.Start
	prevT := 0.0
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := c.Point(t)

		if i > 0 {
			if ct, ok := netCrossing(prev, p, net); ok {
				return Collision{Kind: CollisionNet, T: prevT + (t-prevT)*ct, Blocker: -1}
			}
		}
		if idx, ok := blockedAt(p, blockers, pairs); ok {
			return Collision{Kind: CollisionBlock, T: t, Blocker: idx}
		}
		prev, prevT = p, t
	}
	return NoCollision
}

// netCrossing reports where, as a fraction of the segment a→b, the segment
// passes through the net mesh. Passing over the tape or outside the posts does
// not count.
func netCrossing(a, b mgl64.Vec3, net Net) (float64, bool) {
	za, zb := a.Z(), b.Z()
	var f float64
	switch {
	case za == 0 && zb != 0:
		// Starting on the net plane counts as touching it at once.
		f = 0
	case (za > 0 && zb <= 0) || (za < 0 && zb >= 0):
		var ok bool
		if f, ok = PlaneIntersectT(a, b, netNormal, 0); !ok {
			return 0, false
		}
	default:
		return 0, false
	}
	at := lerp3(a, b, f)
	if at.Y() > net.Height || math.Abs(at.X()) > net.HalfWidth {
		return 0, false
	}
	return f, true
}

// blockedAt reports whether p is inside a blocker's reach volume or inside the
// gap between a tight pair.
func blockedAt(p mgl64.Vec3, blockers []Blocker, pairs []tightPair) (int, bool) {
	g := ground(p)
	for i, b := range blockers {
		if p.Y() <= b.ReachHeight && g.Sub(b.Pos).Len() <= b.Radius {
			return i, true
		}
	}
	for _, tp := range pairs {
		if p.Y() > tp.reach {
			continue
		}
		if PointSegmentDistance(g, blockers[tp.a].Pos, blockers[tp.b].Pos) <= tp.radius {
			return tp.a, true
		}
	}
	return -1, false
}
