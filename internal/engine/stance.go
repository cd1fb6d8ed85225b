package engine

import "github.com/go-gl/mathgl/mgl64"

// BlockerZoneDepth is how far back from the net, on the home side, a player
// still counts as being at the net and therefore jumping to block.
const BlockerZoneDepth = 1.5

// IsBlocker classifies a home-side player by distance from the net. Players
// on the net line or in front of it (z ≥ 0) are never blockers.
func IsBlocker(z float64) bool {
	return z < 0 && z >= -BlockerZoneDepth
}

// PlayerBody holds the attributes a blocker's reach volume is derived from.
type PlayerBody struct {
	Height float64 `json:"height" yaml:"height"` // standing height
	Jump   float64 `json:"jump" yaml:"jump"`     // vertical jump
}

// StandingReach is the fingertip height of a player with arms raised.
func (p PlayerBody) StandingReach(reachFactor float64) float64 {
	return p.Height * reachFactor
}

// NewBlocker derives the blocker triple from a player's position and body.
// Radius is the silhouette half-width at the ball's eye line and ReachHeight
// is the standing reach plus the jump.
func NewBlocker(pos mgl64.Vec2, body PlayerBody, radiusFactor, reachFactor float64) Blocker {
	return Blocker{
		Pos:         pos,
		ReachHeight: body.StandingReach(reachFactor) + body.Jump,
		Radius:      body.Height * radiusFactor,
	}
}
