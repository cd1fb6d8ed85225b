package game

import (
	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/go-gl/mathgl/mgl64"
)

// Side is the half of the court a token is confined to.
type Side uint8

const (
	SideHome Side = iota // z < 0, the defending team
	SideAway             // z > 0, the attacker
)

// TokenKind distinguishes draggable things on the board.
type TokenKind uint8

const (
	KindPlayer TokenKind = iota
	KindBall
	KindTarget
)

// Drag limits.
const (
	courtMargin      = 0.4
	homeNetBuffer    = 0.3
	targetNetBuffer  = 0.6
	awayNetBuffer    = 0.4
	MinBallHeight    = 0.5
	MaxBallHeight    = 4.5
	ballHeightStep   = 0.1
	powerStep        = 5
	pickRadiusMetres = 0.6
)

// Player is a home-side token. Whether it blocks is decided by where it
// stands, not by who it is.
type Player struct {
	Label string
	Pos   mgl64.Vec2
}

// Handle identifies what is being dragged: a player index, the ball or the
// target.
type Handle struct {
	Kind  TokenKind
	Index int
}

// Board is the editable state behind the interactive view. It has no Ebiten
// dependency.
type Board struct {
	Tuning    config.Tuning
	Players   []Player
	Ball      mgl64.Vec3
	Target    mgl64.Vec2
	Power     int
	Merge     bool
	NetShadow bool
	NetHeight float64
	Zones     []Zone
}

// NewBoard returns a board in the reset layout with toggles taken from tun.
func NewBoard(tun config.Tuning) *Board {
	b := &Board{
		Tuning:    tun,
		Power:     tun.Power,
		Merge:     tun.MergeShadows,
		NetShadow: tun.NetShadow,
		NetHeight: tun.NetHeight,
	}
	b.Reset()
	return b
}

// Reset puts both blockers at the net, the four defenders in a back-court
// arc and the ball at the attack line. Toggles and zones are kept.
func (b *Board) Reset() {
	b.Players = []Player{
		{Label: "BL", Pos: mgl64.Vec2{-1.2, -0.6}},
		{Label: "BR", Pos: mgl64.Vec2{1.2, -0.6}},
		{Label: "D1", Pos: mgl64.Vec2{-2.5, -5.5}},
		{Label: "D2", Pos: mgl64.Vec2{0, -6.4}},
		{Label: "D3", Pos: mgl64.Vec2{2.7, -5.6}},
		{Label: "D4", Pos: mgl64.Vec2{0, -2.8}},
	}
	b.Ball = mgl64.Vec3{0, 3, 4}
	b.Target = mgl64.Vec2{0, -4.5}
}

// ClampToCourt keeps a dragged token inside the court less a margin and on
// its own half. The target must stay a little further from the net than
// players do.
func ClampToCourt(p mgl64.Vec2, side Side, kind TokenKind) mgl64.Vec2 {
	x := mgl64.Clamp(p.X(), -engine.CourtHalfWidth+courtMargin, engine.CourtHalfWidth-courtMargin)
	z := mgl64.Clamp(p.Y(), -engine.CourtHalfLen+courtMargin, engine.CourtHalfLen-courtMargin)
	switch side {
	case SideHome:
		buffer := homeNetBuffer
		if kind == KindTarget {
			buffer = targetNetBuffer
		}
		z = min(z, -buffer)
	case SideAway:
		z = max(z, awayNetBuffer)
	}
	return mgl64.Vec2{x, z}
}

// IsBlocking reports whether player i is close enough to the net to jump.
func (b *Board) IsBlocking(i int) bool {
	return engine.IsBlocker(b.Players[i].Pos.Y())
}

// Blockers returns the engine blockers and, for each, the index of the player
// it came from.
func (b *Board) Blockers() ([]engine.Blocker, []int) {
	var out []engine.Blocker
	var idx []int
	for i, p := range b.Players {
		if !b.IsBlocking(i) {
			continue
		}
		out = append(out, b.Tuning.Blocker(p.Pos))
		idx = append(idx, i)
	}
	return out, idx
}

// Scene snapshots the board for the engine.
func (b *Board) Scene() engine.Scene {
	blockers, _ := b.Blockers()
	return engine.Scene{
		Blockers:         blockers,
		Ball:             b.Ball,
		Target:           b.Target,
		Net:              engine.DefaultNet(b.NetHeight),
		Power:            b.Power,
		MergeShadows:     b.Merge,
		NetShadowEnabled: b.NetShadow,
	}
}

// Compute runs the engine on the current state.
func (b *Board) Compute() engine.Overlay {
	return engine.Compute(b.Scene(), b.Tuning.Engine())
}

// Pick returns the token nearest to p within the pick radius. The ball and
// target win ties with players since they are drawn on top.
func (b *Board) Pick(p mgl64.Vec2) (Handle, bool) {
	best := pickRadiusMetres * pickRadiusMetres
	var h Handle
	found := false
	try := func(pos mgl64.Vec2, cand Handle) {
		d := pos.Sub(p)
		if d2 := d.Dot(d); d2 <= best {
			best, h, found = d2, cand, true
		}
	}
	for i, pl := range b.Players {
		try(pl.Pos, Handle{Kind: KindPlayer, Index: i})
	}
	try(b.Target, Handle{Kind: KindTarget})
	try(mgl64.Vec2{b.Ball.X(), b.Ball.Z()}, Handle{Kind: KindBall})
	return h, found
}

// Position returns the ground position of the token behind h.
func (b *Board) Position(h Handle) mgl64.Vec2 {
	switch h.Kind {
	case KindBall:
		return mgl64.Vec2{b.Ball.X(), b.Ball.Z()}
	case KindTarget:
		return b.Target
	default:
		return b.Players[h.Index].Pos
	}
}

// Move drags the token behind h to p, clamped to its half.
func (b *Board) Move(h Handle, p mgl64.Vec2) {
	switch h.Kind {
	case KindBall:
		g := ClampToCourt(p, SideAway, KindBall)
		b.Ball = mgl64.Vec3{g.X(), b.Ball.Y(), g.Y()}
	case KindTarget:
		b.Target = ClampToCourt(p, SideHome, KindTarget)
	default:
		if h.Index >= 0 && h.Index < len(b.Players) {
			b.Players[h.Index].Pos = ClampToCourt(p, SideHome, KindPlayer)
		}
	}
}

// AdjustBallHeight raises or lowers the contact point by steps of 10 cm.
func (b *Board) AdjustBallHeight(steps int) {
	h := mgl64.Clamp(b.Ball.Y()+float64(steps)*ballHeightStep, MinBallHeight, MaxBallHeight)
	b.Ball[1] = mgl64.Round(h, 2)
}

// AdjustPower changes the attack power by steps of 5, within 0–100.
func (b *Board) AdjustPower(steps int) {
	b.Power = min(max(b.Power+steps*powerStep, 0), 100)
}

// Label returns a display label for h.
func (b *Board) Label(h Handle) string {
	switch h.Kind {
	case KindBall:
		return "BALL"
	case KindTarget:
		return "TGT"
	default:
		return b.Players[h.Index].Label
	}
}
