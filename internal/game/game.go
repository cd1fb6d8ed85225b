package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/engine"
	"github.com/Garsondee/Block-Sense/internal/render"
	"github.com/Garsondee/Block-Sense/internal/scenario"

	"github.com/atotto/clipboard"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// borderWidth is the pixel gap between the window edge and the board.
const borderWidth = 24

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

// Game is the interactive top-down board.
type Game struct {
	width  int
	height int
	boardW int // board area in pixels (log panel takes the rest)
	boardH int
	offX   int // pixel offset from window left to board left
	offY   int
	vp     render.Viewport

	board   *Board
	overlay engine.Overlay
	dirty   bool
	events  *EventLog
	frame   int

	showHUD       bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool

	// Drag state. dragOffset keeps the grab point under the cursor.
	dragging   bool
	dragHandle Handle
	dragOffset mgl64.Vec2

	inspector Inspector

	// Zone painting.
	paintMode bool
	painting  bool
	zoneKind  ZoneKind
	zoneStart mgl64.Vec2
	zoneEnd   mgl64.Vec2

	// Offscreen buffers: overlays are filled white and tinted on composite so
	// overlapping polygons do not stack their alpha.
	shadowBuf *ebiten.Image
	deadBuf   *ebiten.Image
	hudBuf    *ebiten.Image
	inspBuf   *ebiten.Image

	copyText func(string) error
}

// New builds the board view from tun.
func New(tun config.Tuning) *Game {
	vp := render.DefaultViewport()
	bw, bh := vp.Size()
	g := &Game{
		width:    borderWidth + bw + borderWidth + logPanelWidth,
		height:   borderWidth + bh + borderWidth,
		boardW:   bw,
		boardH:   bh,
		offX:     borderWidth,
		offY:     borderWidth,
		vp:       vp,
		board:    NewBoard(tun),
		events:   NewEventLog(),
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
		copyText: clipboard.WriteAll,
	}
	g.shadowBuf = ebiten.NewImage(bw, bh)
	g.deadBuf = ebiten.NewImage(bw, bh)
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	g.overlay = g.board.Compute()
	g.events.Add(0, "--", EventInfo, "board ready")
	g.noteOutcome(engine.Overlay{Trajectory: engine.Trajectory{Collision: engine.NoCollision}}, g.overlay)
	return g
}

// Size returns the window size the board wants.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

func (g *Game) Update() error {
	g.frame++
	g.handleInput()
	if g.dirty {
		g.recompute()
	}
	return nil
}

// recompute refreshes the overlay and logs what changed.
func (g *Game) recompute() {
	prev := g.overlay
	g.overlay = g.board.Compute()
	g.dirty = false
	g.noteOutcome(prev, g.overlay)
}

// noteOutcome logs changes in the attack outcome and in how the blockers
// group between two overlays.
func (g *Game) noteOutcome(prev, next engine.Overlay) {
	pc, nc := prev.Trajectory.Collision, next.Trajectory.Collision
	if pc.Kind != nc.Kind || pc.Blocker != nc.Blocker {
		switch nc.Kind {
		case engine.CollisionBlock:
			_, idx := g.board.Blockers()
			label := "--"
			if nc.Blocker >= 0 && nc.Blocker < len(idx) {
				label = g.board.Players[idx[nc.Blocker]].Label
			}
			g.events.Add(g.frame, label, EventBlocked, fmt.Sprintf("blocks at t=%.2f", nc.T))
		case engine.CollisionNet:
			g.events.Add(g.frame, "BALL", EventNet, fmt.Sprintf("into the net at t=%.2f", nc.T))
		default:
			g.events.Add(g.frame, "BALL", EventClear, "clear to target")
		}
	}
	if len(prev.ClusterSizes) != len(next.ClusterSizes) && len(next.ClusterSizes) > 0 {
		g.events.Add(g.frame, "--", EventInfo, fmt.Sprintf("block groups %v", next.ClusterSizes))
	}
}

type keyBinding struct {
	key ebiten.Key
	fn  func()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (g *Game) bindings() []keyBinding {
	b := g.board
	return []keyBinding{
		{ebiten.KeyM, func() {
			b.Merge = !b.Merge
			g.events.Add(g.frame, "--", EventInfo, "merge shadows "+onOff(b.Merge))
		}},
		{ebiten.KeyN, func() {
			b.NetShadow = !b.NetShadow
			g.events.Add(g.frame, "--", EventInfo, "net dead zone "+onOff(b.NetShadow))
		}},
		{ebiten.KeyArrowUp, func() { b.AdjustBallHeight(1) }},
		{ebiten.KeyArrowDown, func() { b.AdjustBallHeight(-1) }},
		{ebiten.KeyBracketRight, func() { b.AdjustPower(1) }},
		{ebiten.KeyBracketLeft, func() { b.AdjustPower(-1) }},
		{ebiten.Key1, func() {
			b.NetHeight = engine.NetHeightMen
			g.events.Add(g.frame, "--", EventInfo, "net 2.43m")
		}},
		{ebiten.Key2, func() {
			b.NetHeight = engine.NetHeightWomen
			g.events.Add(g.frame, "--", EventInfo, "net 2.24m")
		}},
		{ebiten.KeyR, func() {
			b.Reset()
			g.events.Add(g.frame, "--", EventInfo, "reset players")
		}},
		{ebiten.KeyC, g.copyReport},
		{ebiten.KeyH, func() { g.showHUD = !g.showHUD }},
		{ebiten.KeyI, func() { g.inspector.rawView = !g.inspector.rawView }},
		{ebiten.KeyP, func() {
			g.paintMode = !g.paintMode
			g.painting = false
			g.events.Add(g.frame, "--", EventInfo, "paint mode "+onOff(g.paintMode))
		}},
		{ebiten.KeyZ, func() {
			g.zoneKind = 1 - g.zoneKind
			g.events.Add(g.frame, "--", EventInfo, "zone kind "+g.zoneKind.String())
		}},
		{ebiten.KeyX, func() {
			b.ClearZones()
			g.events.Add(g.frame, "--", EventInfo, "zones cleared")
		}},
	}
}

// copyReport puts the text report of the current overlay on the clipboard.
func (g *Game) copyReport() {
	text := scenario.Report(g.board.Scene(), g.overlay)
	if err := g.copyText(text); err != nil {
		g.events.Add(g.frame, "--", EventInfo, fmt.Sprintf("copy failed: %v", err))
		return
	}
	g.events.Add(g.frame, "--", EventInfo, "report copied")
}

func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	for _, kb := range g.bindings() {
		currentKeys[kb.key] = ebiten.IsKeyPressed(kb.key)
		if currentKeys[kb.key] && !g.prevKeys[kb.key] {
			kb.fn()
			g.dirty = true
		}
	}
	g.prevKeys = currentKeys

	mx, my := ebiten.CursorPosition()
	cursor := g.cursorCourt(mx, my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case pressed && !g.prevMouseLeft:
		g.beginPointer(cursor)
	case pressed:
		g.movePointer(cursor)
	case g.prevMouseLeft:
		g.endPointer(cursor)
	}
	g.prevMouseLeft = pressed
}

func (g *Game) cursorCourt(mx, my int) mgl64.Vec2 {
	x, z := g.vp.ToCourt(float64(mx-g.offX), float64(my-g.offY))
	return mgl64.Vec2{x, z}
}

func (g *Game) beginPointer(p mgl64.Vec2) {
	if g.paintMode {
		g.painting = true
		g.zoneStart, g.zoneEnd = p, p
		return
	}
	h, ok := g.board.Pick(p)
	if !ok {
		g.inspector.Clear()
		return
	}
	g.inspector.Select(h)
	g.dragging = true
	g.dragHandle = h
	g.dragOffset = g.board.Position(h).Sub(p)
}

func (g *Game) movePointer(p mgl64.Vec2) {
	switch {
	case g.painting:
		g.zoneEnd = p
	case g.dragging:
		g.board.Move(g.dragHandle, p.Add(g.dragOffset))
		g.dirty = true
	}
}

func (g *Game) endPointer(p mgl64.Vec2) {
	switch {
	case g.painting:
		z := NewZone(g.zoneStart, p, g.zoneKind)
		g.board.AddZone(z)
		g.painting = false
		g.events.Add(g.frame, "--", EventInfo, fmt.Sprintf("%s zone %.1fx%.1fm", z.Kind, z.Max.X()-z.Min.X(), z.Max.Y()-z.Min.Y()))
	case g.dragging:
		g.dragging = false
		pos := g.board.Position(g.dragHandle)
		msg := fmt.Sprintf("→ (%.1f, %.1f)", pos.X(), pos.Y())
		if g.dragHandle.Kind == KindPlayer {
			if g.board.IsBlocking(g.dragHandle.Index) {
				msg += " blocking"
			} else {
				msg += " defending"
			}
		}
		g.events.Add(g.frame, g.board.Label(g.dragHandle), EventInfo, msg)
	}
}

// toBoard converts a court position to board-local pixels.
func (g *Game) toBoard(p mgl64.Vec2) (float32, float32) {
	return g.vp.ToScreen(p.X(), p.Y())
}

// toScreen converts a court position to window pixels.
func (g *Game) toScreen(p mgl64.Vec2) (float32, float32) {
	x, y := g.toBoard(p)
	return x + float32(g.offX), y + float32(g.offY)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Background)

	g.drawCourt(screen)
	g.drawZones(screen)
	if len(g.overlay.DeadZone) > 0 {
		g.drawPolygonsBuffered(screen, g.deadBuf, []engine.Polygon{g.overlay.DeadZone}, render.DeadZoneTint, render.DeadZoneOpacity)
	}
	polys := make([]engine.Polygon, len(g.overlay.Shadows))
	for i, p := range g.overlay.Shadows {
		polys[i] = p.Vertices
	}
	g.drawPolygonsBuffered(screen, g.shadowBuf, polys, render.ShadowTint, render.ShadowOpacity)
	g.drawPath(screen)
	g.drawTokens(screen)
	if g.painting {
		g.drawZoneOutline(screen, NewZone(g.zoneStart, g.zoneEnd, g.zoneKind))
	}

	ox, oy := float32(g.offX), float32(g.offY)
	vector.StrokeRect(screen, ox-1, oy-1, float32(g.boardW)+2, float32(g.boardH)+2, 2.0, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	g.drawInspector(screen)
	g.events.Draw(screen, g.offX+g.boardW+g.offX, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawCourt(screen *ebiten.Image) {
	hw, hl := engine.CourtHalfWidth, engine.CourtHalfLen
	x0, y0 := g.toScreen(mgl64.Vec2{-hw, hl})
	x1, y1 := g.toScreen(mgl64.Vec2{hw, -hl})
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, render.CourtFill, false)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2.0, render.LineColor, false)

	for _, z := range []float64{engine.AttackLineZ, -engine.AttackLineZ} {
		ax, ay := g.toScreen(mgl64.Vec2{-hw, z})
		bx, by := g.toScreen(mgl64.Vec2{hw, z})
		vector.StrokeLine(screen, ax, ay, bx, by, 1.5, render.LineColor, false)
	}

	nw := g.board.NetHeight
	ax, ay := g.toScreen(mgl64.Vec2{-hw - engine.NetOverhang, 0})
	bx, by := g.toScreen(mgl64.Vec2{hw + engine.NetOverhang, 0})
	vector.StrokeLine(screen, ax, ay, bx, by, 4.0, render.NetColor, true)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("NET %.2fm", nw), int(bx)+4, int(by)-8)
}

func (g *Game) drawZones(screen *ebiten.Image) {
	for _, z := range g.board.Zones {
		x0, y0 := g.toScreen(mgl64.Vec2{z.Min.X(), z.Max.Y()})
		x1, y1 := g.toScreen(mgl64.Vec2{z.Max.X(), z.Min.Y()})
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, zoneColor(z.Kind), false)
	}
}

// zoneColor returns the premultiplied fill for a zone kind.
func zoneColor(k ZoneKind) color.RGBA {
	base := color.RGBA{R: 230, G: 140, B: 30}
	if k == ZoneCovered {
		base = color.RGBA{R: 40, G: 200, B: 90}
	}
	a := k.Opacity()
	return color.RGBA{
		R: uint8(float64(base.R) * a),
		G: uint8(float64(base.G) * a),
		B: uint8(float64(base.B) * a),
		A: uint8(math.Round(255 * a)),
	}
}

func (g *Game) drawZoneOutline(screen *ebiten.Image, z Zone) {
	x0, y0 := g.toScreen(mgl64.Vec2{z.Min.X(), z.Max.Y()})
	x1, y1 := g.toScreen(mgl64.Vec2{z.Max.X(), z.Min.Y()})
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1.5, color.RGBA{R: 255, G: 255, B: 255, A: 160}, false)
}

// drawPolygonsBuffered fills every polygon white into buf, then composites buf
// onto the board once with the tint. Overlapping polygons read as one region.
func (g *Game) drawPolygonsBuffered(screen, buf *ebiten.Image, polys []engine.Polygon, tint color.RGBA, opacity float32) {
	if len(polys) == 0 {
		return
	}
	buf.Clear()
	var path vector.Path
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		for i, v := range poly {
			x, y := g.toBoard(mgl64.Vec2{v.X(), v.Z()})
			if i == 0 {
				path.MoveTo(x, y)
			} else {
				path.LineTo(x, y)
			}
		}
		path.Close()
	}
	vector.FillPath(buf, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(g.offX), float64(g.offY))
	opts.ColorScale.ScaleWithColor(tint)
	opts.ColorScale.ScaleAlpha(opacity)
	screen.DrawImage(buf, opts)
}

func (g *Game) drawPath(screen *ebiten.Image) {
	path := g.overlay.Path
	if len(path) < 2 {
		return
	}
	col := render.PathClear
	if g.overlay.Blocked {
		col = render.PathBlocked
	}
	for i := 1; i < len(path); i++ {
		ax, ay := g.toScreen(mgl64.Vec2{path[i-1].X(), path[i-1].Z()})
		bx, by := g.toScreen(mgl64.Vec2{path[i].X(), path[i].Z()})
		vector.StrokeLine(screen, ax, ay, bx, by, 2.5, col, true)
	}
	if g.overlay.Blocked {
		end := path[len(path)-1]
		x, y := g.toScreen(mgl64.Vec2{end.X(), end.Z()})
		const s = 6
		vector.StrokeLine(screen, x-s, y-s, x+s, y+s, 2.5, col, true)
		vector.StrokeLine(screen, x-s, y+s, x+s, y-s, 2.5, col, true)
	}
}

// targetPulse returns a 0..1 pulse driven by the frame counter.
func targetPulse(frame int) float64 {
	return (math.Sin(float64(frame)*0.066) + 1) / 2
}

func (g *Game) drawTokens(screen *ebiten.Image) {
	scale := float32(g.vp.Scale)

	// Target: a pulsing ring.
	pulse := targetPulse(g.frame)
	tx, ty := g.toScreen(g.board.Target)
	ring := color.NRGBA{R: render.TargetColor.R, G: render.TargetColor.G, B: render.TargetColor.B, A: uint8(255 * (0.35 + pulse*0.35))}
	vector.StrokeCircle(screen, tx, ty, 0.45*scale*float32(0.9+pulse*0.25), 2.0, ring, true)
	ebitenutil.DebugPrintAt(screen, "TGT", int(tx)-9, int(ty)+12)

	for i, p := range g.board.Players {
		x, y := g.toScreen(p.Pos)
		col := render.DefendColor
		r := float32(0.3)
		if g.board.IsBlocking(i) {
			col = render.BlockerColor
			r = float32(g.board.Tuning.Blocker(p.Pos).Radius)
		}
		vector.FillCircle(screen, x, y, r*scale, col, true)
		vector.StrokeCircle(screen, x, y, r*scale, 1.5, color.RGBA{R: 10, G: 12, B: 16, A: 255}, true)
		ebitenutil.DebugPrintAt(screen, p.Label, int(x)-6, int(y)-8)
	}

	bx, by := g.toScreen(mgl64.Vec2{g.board.Ball.X(), g.board.Ball.Z()})
	vector.FillCircle(screen, bx, by, 0.28*scale, render.BallColor, true)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.1fm", g.board.Ball.Y()), int(bx)+14, int(by)-8)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, 0, 0, 170, 96, color.RGBA{R: 8, G: 10, B: 14, A: 200}, false)

	b := g.board
	outcome := "clear"
	switch c := g.overlay.Trajectory.Collision; c.Kind {
	case engine.CollisionBlock:
		outcome = "blocked"
	case engine.CollisionNet:
		outcome = "net"
	}
	mode := "drag"
	if g.paintMode {
		mode = "paint " + g.zoneKind.String()
	}
	lines := []string{
		fmt.Sprintf("POWER %3d  [ ]", b.Power),
		fmt.Sprintf("BALL  %.1fm  up/dn", b.Ball.Y()),
		fmt.Sprintf("NET   %.2fm  1/2", b.NetHeight),
		fmt.Sprintf("MERGE %s  M", onOff(b.Merge)),
		fmt.Sprintf("DEAD  %s  N", onOff(b.NetShadow)),
		fmt.Sprintf("MODE  %s  P/Z/X", mode),
		fmt.Sprintf("GROUPS %v", g.overlay.ClusterSizes),
		"ATTACK " + outcome,
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, l, 4, 2+i*11)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(hudScale, hudScale)
	opts.GeoM.Translate(float64(g.offX)+4, float64(g.offY)+4)
	screen.DrawImage(g.hudBuf, opts)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
