package game

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Inspector panel: rendered into an offscreen buffer at 1× then blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 180 // buffer width in pixels
	inspBufH  = 120 // buffer height in pixels
	inspPad   = 4   // padding in buffer-space pixels
	inspLineH = 13  // line height in buffer-space pixels
)

// Inspector holds the selected token and view toggle state.
type Inspector struct {
	selected Handle
	active   bool
	rawView  bool // false = curated, true = raw numbers
}

// Select focuses the inspector on h.
func (in *Inspector) Select(h Handle) {
	in.selected = h
	in.active = true
}

// Clear deselects.
func (in *Inspector) Clear() {
	in.active = false
}

// inspectLines describes the token behind h against the current overlay.
func inspectLines(b *Board, o engine.Overlay, h Handle, raw bool) []string {
	pos := b.Position(h)
	var lines []string
	line := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	switch h.Kind {
	case KindBall:
		tr := o.Trajectory
		if raw {
			line("ball=(%.2f,%.2f,%.2f)", b.Ball.X(), b.Ball.Y(), b.Ball.Z())
			line("ctrl=(%.2f,%.2f,%.2f)", tr.Curve.Control.X(), tr.Curve.Control.Y(), tr.Curve.Control.Z())
			line("hit=%s t=%.3f idx=%d", tr.Collision.Kind, tr.Collision.T, tr.Collision.Blocker)
			return lines
		}
		line("height: %.1fm  power: %d", b.Ball.Y(), b.Power)
		line("apex:   %.2fm", tr.Curve.Control.Y())
		line("result: %s", tr.Collision.Kind)
		if len(o.DeadZone) == 4 {
			line("dead zone: %.1fm deep", -o.DeadZone[1].Z())
		}

	case KindTarget:
		if raw {
			line("target=(%.2f,%.2f)", pos.X(), pos.Y())
			line("shadowed=%v", o.Shadowed(pos))
			return lines
		}
		line("pos: (%.1f, %.1f)", pos.X(), pos.Y())
		if o.Shadowed(pos) {
			line("behind the block")
		} else {
			line("in open court")
		}
		for _, z := range b.Zones {
			if z.Contains(pos) {
				line("zone: %s", z.Kind)
			}
		}

	default:
		blocking := b.IsBlocking(h.Index)
		if raw {
			line("pos=(%.2f,%.2f) blk=%v", pos.X(), pos.Y(), blocking)
			if blocking {
				bl := b.Tuning.Blocker(pos)
				line("reach=%.2f r=%.2f", bl.ReachHeight, bl.Radius)
			}
			line("shadowed=%v", o.Shadowed(pos))
			return lines
		}
		stance := "defending"
		if blocking {
			stance = "blocking"
		}
		line("%s  %s", b.Players[h.Index].Label, stance)
		line("pos: (%.1f, %.1f)  net: %.1fm", pos.X(), pos.Y(), -pos.Y())
		if blocking {
			bl := b.Tuning.Blocker(pos)
			line("reach: %.2fm", bl.ReachHeight)
		} else if o.Shadowed(pos) {
			line("hidden behind the block")
		}
	}
	return lines
}

// drawInspector renders the inspector panel into an offscreen buffer at 1×,
// then blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	if !g.inspector.active {
		return
	}
	g.inspBuf.Clear()
	buf := g.inspBuf
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	panelBorder := color.RGBA{R: 55, G: 70, B: 95, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 12, G: 14, B: 20, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)

	lx, ly := inspPad, inspPad
	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("[ %s ] %s  [I]", g.board.Label(g.inspector.selected), viewName), lx, ly)
	ly += inspLineH + 2
	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4

	for _, l := range inspectLines(g.board, g.overlay, g.inspector.selected, g.inspector.rawView) {
		ebitenutil.DebugPrintAt(buf, l, lx, ly)
		ly += inspLineH
	}

	// Bottom-left of the board.
	px := g.offX + 4
	py := g.offY + g.boardH - inspBufH*inspScale - 4
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}
