package game

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/engine"
	"github.com/Garsondee/Block-Sense/internal/render"

	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b mgl64.Vec2) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}

// testGame builds a Game without offscreen buffers; only the non-drawing
// paths may be exercised on it.
func testGame() *Game {
	return &Game{
		board:    NewBoard(config.Default()),
		events:   NewEventLog(),
		vp:       render.DefaultViewport(),
		offX:     borderWidth,
		offY:     borderWidth,
		copyText: func(string) error { return nil },
	}
}

func TestBoard_ResetLayout(t *testing.T) {
	b := NewBoard(config.Default())
	if len(b.Players) != 6 {
		t.Fatalf("expected 6 players, got %d", len(b.Players))
	}
	blockers, idx := b.Blockers()
	if len(blockers) != 2 || idx[0] != 0 || idx[1] != 1 {
		t.Fatalf("only BL and BR should block after reset, got %v", idx)
	}
	if b.Ball != (mgl64.Vec3{0, 3, 4}) || b.Target != (mgl64.Vec2{0, -4.5}) {
		t.Fatalf("ball %v target %v", b.Ball, b.Target)
	}

	b.Merge = false
	b.AddZone(NewZone(mgl64.Vec2{-2, -2}, mgl64.Vec2{2, -5}, ZoneCovered))
	b.Players[3].Pos = mgl64.Vec2{0, -1}
	b.Reset()
	if b.Merge || len(b.Zones) != 1 {
		t.Fatal("reset should keep toggles and zones")
	}
	if b.IsBlocking(3) {
		t.Fatal("reset should move D2 back to the back court")
	}
}

func TestBoard_BlockersUseTuningBody(t *testing.T) {
	tun := config.Default()
	tun.Body = engine.PlayerBody{Height: 2.0, Jump: 0.5}
	b := NewBoard(tun)
	blockers, _ := b.Blockers()
	want := 2.0*tun.StandingReachFactor + 0.5
	if math.Abs(blockers[0].ReachHeight-want) > 1e-9 {
		t.Fatalf("reach %.3f, want %.3f", blockers[0].ReachHeight, want)
	}
	if math.Abs(blockers[0].Radius-2.0*tun.RadiusFactor) > 1e-9 {
		t.Fatalf("radius %.3f", blockers[0].Radius)
	}
}

func TestBoard_StanceFollowsPosition(t *testing.T) {
	b := NewBoard(config.Default())
	b.Move(Handle{Kind: KindPlayer, Index: 2}, mgl64.Vec2{-2.5, -1.2})
	if !b.IsBlocking(2) {
		t.Fatal("D1 moved inside the blocker zone should block")
	}
	b.Move(Handle{Kind: KindPlayer, Index: 0}, mgl64.Vec2{-1.2, -2})
	if b.IsBlocking(0) {
		t.Fatal("BL moved off the net should defend")
	}
	_, idx := b.Blockers()
	if len(idx) != 2 || idx[0] != 1 || idx[1] != 2 {
		t.Fatalf("blocker indices %v, want [1 2]", idx)
	}
}

func TestClampToCourt(t *testing.T) {
	hw, hl := engine.CourtHalfWidth, engine.CourtHalfLen
	cases := []struct {
		name string
		in   mgl64.Vec2
		side Side
		kind TokenKind
		want mgl64.Vec2
	}{
		{"home player across net", mgl64.Vec2{0, 2}, SideHome, KindPlayer, mgl64.Vec2{0, -0.3}},
		{"target across net", mgl64.Vec2{0, 2}, SideHome, KindTarget, mgl64.Vec2{0, -0.6}},
		{"ball on home side", mgl64.Vec2{0, -3}, SideAway, KindBall, mgl64.Vec2{0, 0.4}},
		{"off the sideline", mgl64.Vec2{-20, -3}, SideHome, KindPlayer, mgl64.Vec2{-hw + 0.4, -3}},
		{"past the end line", mgl64.Vec2{1, -20}, SideHome, KindPlayer, mgl64.Vec2{1, -hl + 0.4}},
		{"ball past the end line", mgl64.Vec2{5, 30}, SideAway, KindBall, mgl64.Vec2{hw - 0.4, hl - 0.4}},
		{"inside untouched", mgl64.Vec2{1.5, -4}, SideHome, KindPlayer, mgl64.Vec2{1.5, -4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampToCourt(tc.in, tc.side, tc.kind); !near(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBoard_PickAndMove(t *testing.T) {
	b := NewBoard(config.Default())

	h, ok := b.Pick(mgl64.Vec2{-1.0, -0.7})
	if !ok || h.Kind != KindPlayer || b.Label(h) != "BL" {
		t.Fatalf("expected BL, got %+v ok=%v", h, ok)
	}
	if _, ok := b.Pick(mgl64.Vec2{4, -8}); ok {
		t.Fatal("nothing should be picked in an empty corner")
	}

	h, ok = b.Pick(mgl64.Vec2{0.1, 4.1})
	if !ok || h.Kind != KindBall {
		t.Fatalf("expected the ball, got %+v", h)
	}
	b.Move(h, mgl64.Vec2{2, -1})
	if b.Ball != (mgl64.Vec3{2, 3, 0.4}) {
		t.Fatalf("ball should stay on its side and keep its height, got %v", b.Ball)
	}

	b.Move(Handle{Kind: KindTarget}, mgl64.Vec2{1, -0.1})
	if !near(b.Target, mgl64.Vec2{1, -0.6}) {
		t.Fatalf("target %v", b.Target)
	}

	before := b.Players
	b.Move(Handle{Kind: KindPlayer, Index: 99}, mgl64.Vec2{0, -1})
	if len(b.Players) != len(before) {
		t.Fatal("out of range handle must be ignored")
	}
}

func TestBoard_PickPrefersTargetOverPlayer(t *testing.T) {
	b := NewBoard(config.Default())
	b.Target = b.Players[5].Pos
	h, ok := b.Pick(b.Players[5].Pos)
	if !ok || h.Kind != KindTarget {
		t.Fatalf("target on top of D4 should win, got %+v", h)
	}
}

func TestBoard_BallHeightAndPowerLimits(t *testing.T) {
	b := NewBoard(config.Default())
	b.AdjustBallHeight(3)
	if b.Ball.Y() != 3.3 {
		t.Fatalf("height %.10f, want 3.3", b.Ball.Y())
	}
	b.AdjustBallHeight(100)
	if b.Ball.Y() != MaxBallHeight {
		t.Fatalf("height %.2f, want max", b.Ball.Y())
	}
	b.AdjustBallHeight(-100)
	if b.Ball.Y() != MinBallHeight {
		t.Fatalf("height %.2f, want min", b.Ball.Y())
	}

	b.Power = 100
	b.AdjustPower(1)
	if b.Power != 100 {
		t.Fatalf("power %d", b.Power)
	}
	b.AdjustPower(-3)
	if b.Power != 85 {
		t.Fatalf("power %d, want 85", b.Power)
	}
	b.AdjustPower(-50)
	if b.Power != 0 {
		t.Fatalf("power %d, want 0", b.Power)
	}
}

func TestBoard_SceneMirrorsToggles(t *testing.T) {
	b := NewBoard(config.Default())
	b.Merge = false
	b.NetShadow = false
	b.NetHeight = engine.NetHeightWomen
	s := b.Scene()
	if s.MergeShadows || s.NetShadowEnabled || s.Net.Height != engine.NetHeightWomen {
		t.Fatalf("scene %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if o := b.Compute(); len(o.DeadZone) != 0 {
		t.Fatal("dead zone should be off")
	}
}

func TestNewZone(t *testing.T) {
	z := NewZone(mgl64.Vec2{1, -2}, mgl64.Vec2{1.1, -2}, ZoneUndefended)
	if math.Abs(z.Max.X()-z.Min.X()-minZoneSize) > 1e-9 || math.Abs(z.Max.Y()-z.Min.Y()-minZoneSize) > 1e-9 {
		t.Fatalf("a click should paint a minimum-size zone, got %v..%v", z.Min, z.Max)
	}
	if !z.Contains(mgl64.Vec2{1.05, -2}) || z.Contains(mgl64.Vec2{2, -2}) {
		t.Fatal("contains")
	}

	edge := NewZone(mgl64.Vec2{4.5, -9}, mgl64.Vec2{4.5, -9}, ZoneCovered)
	c := edge.Min.Add(edge.Max).Mul(0.5)
	if !near(c, mgl64.Vec2{engine.CourtHalfWidth - zoneInset, -engine.CourtHalfLen + zoneInset}) {
		t.Fatalf("centre should be pulled inside the court, got %v", c)
	}
	if len(edge.Corners()) != 4 {
		t.Fatal("corners")
	}
	if ZoneUndefended.Opacity() <= ZoneCovered.Opacity() {
		t.Fatal("undefended zones are drawn stronger")
	}
}

func TestEventLog_RingBuffer(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(i, "--", EventInfo, "x")
	}
	r := el.Recent()
	if len(r) != logMaxEntries {
		t.Fatalf("len %d", len(r))
	}
	if r[0].Frame != 5 || r[len(r)-1].Frame != logMaxEntries+4 {
		t.Fatalf("oldest %d newest %d", r[0].Frame, r[len(r)-1].Frame)
	}
}

func TestGame_NoteOutcome(t *testing.T) {
	g := testGame()
	open := engine.Overlay{Trajectory: engine.Trajectory{Collision: engine.NoCollision}}
	blocked := engine.Overlay{
		ClusterSizes: []int{1, 1},
		Trajectory:   engine.Trajectory{Collision: engine.Collision{Kind: engine.CollisionBlock, T: 0.5, Blocker: 1}},
	}

	g.noteOutcome(open, blocked)
	r := g.events.Recent()
	if len(r) != 2 {
		t.Fatalf("expected block and grouping events, got %+v", r)
	}
	if r[0].Category != EventBlocked || r[0].Label != "BR" {
		t.Fatalf("first event %+v", r[0])
	}

	g.noteOutcome(blocked, blocked)
	if len(g.events.Recent()) != 2 {
		t.Fatal("unchanged outcome should not log")
	}

	g.noteOutcome(blocked, open)
	last := g.events.Recent()[2]
	if last.Category != EventClear {
		t.Fatalf("last event %+v", last)
	}
}

func TestGame_DragClampsAndLogs(t *testing.T) {
	g := testGame()
	bl := g.board.Players[0].Pos

	g.beginPointer(bl.Add(mgl64.Vec2{0.1, 0}))
	if !g.dragging {
		t.Fatal("grab on BL should start a drag")
	}
	g.movePointer(mgl64.Vec2{-1.1, 3})
	if !near(g.board.Players[0].Pos, mgl64.Vec2{-1.2, -0.3}) {
		t.Fatalf("BL should stop short of the net, got %v", g.board.Players[0].Pos)
	}
	if !g.dirty {
		t.Fatal("moving a token should mark the overlay dirty")
	}
	g.endPointer(mgl64.Vec2{-1.1, 3})
	r := g.events.Recent()
	if g.dragging || len(r) != 1 || r[0].Label != "BL" || !strings.HasSuffix(r[0].Message, "blocking") {
		t.Fatalf("drag end events %+v", r)
	}
}

func TestGame_PaintZone(t *testing.T) {
	g := testGame()
	g.paintMode = true
	g.zoneKind = ZoneCovered
	g.beginPointer(mgl64.Vec2{-3, -3})
	g.movePointer(mgl64.Vec2{-1, -5})
	g.endPointer(mgl64.Vec2{-1, -5})
	if len(g.board.Zones) != 1 {
		t.Fatalf("zones %v", g.board.Zones)
	}
	z := g.board.Zones[0]
	if z.Kind != ZoneCovered || !near(z.Min, mgl64.Vec2{-3, -5}) || !near(z.Max, mgl64.Vec2{-1, -3}) {
		t.Fatalf("zone %+v", z)
	}
	if g.dragging {
		t.Fatal("painting must not drag tokens")
	}
}

func TestGame_CursorCourt(t *testing.T) {
	g := testGame()
	x, y := g.toScreen(mgl64.Vec2{1.5, -2})
	p := g.cursorCourt(int(math.Round(float64(x))), int(math.Round(float64(y))))
	if !p.ApproxEqualThreshold(mgl64.Vec2{1.5, -2}, 1.0/g.vp.Scale) {
		t.Fatalf("cursor maps to %v", p)
	}
}

func TestGame_CopyReport(t *testing.T) {
	g := testGame()
	g.overlay = g.board.Compute()
	var got string
	g.copyText = func(s string) error { got = s; return nil }
	g.copyReport()
	if !strings.Contains(got, "B1 pos=") || !strings.Contains(got, "trajectory:") {
		t.Fatalf("report:\n%s", got)
	}

	g.copyText = func(string) error { return errors.New("no clipboard") }
	g.copyReport()
	r := g.events.Recent()
	if !strings.Contains(r[len(r)-1].Message, "no clipboard") {
		t.Fatalf("copy failure not logged: %+v", r[len(r)-1])
	}
}

func TestInspectLines(t *testing.T) {
	b := NewBoard(config.Default())
	o := b.Compute()

	bl := inspectLines(b, o, Handle{Kind: KindPlayer, Index: 0}, false)
	if !strings.Contains(bl[0], "BL") || !strings.Contains(bl[0], "blocking") {
		t.Fatalf("BL lines %v", bl)
	}
	d2 := inspectLines(b, o, Handle{Kind: KindPlayer, Index: 3}, false)
	if !strings.Contains(d2[0], "defending") {
		t.Fatalf("D2 lines %v", d2)
	}
	ball := inspectLines(b, o, Handle{Kind: KindBall}, true)
	if !strings.HasPrefix(ball[0], "ball=(0.00,3.00,4.00)") {
		t.Fatalf("raw ball lines %v", ball)
	}

	b.AddZone(NewZone(b.Target.Sub(mgl64.Vec2{1, 1}), b.Target.Add(mgl64.Vec2{1, 1}), ZoneUndefended))
	tgt := inspectLines(b, o, Handle{Kind: KindTarget}, false)
	if tgt[len(tgt)-1] != "zone: undefended" {
		t.Fatalf("target lines %v", tgt)
	}
}

func TestGame_ClickSelectsAndClears(t *testing.T) {
	g := testGame()
	g.beginPointer(g.board.Players[4].Pos)
	g.endPointer(g.board.Players[4].Pos)
	if !g.inspector.active || g.inspector.selected.Index != 4 {
		t.Fatalf("inspector %+v", g.inspector)
	}
	g.beginPointer(mgl64.Vec2{4, -8.5})
	if g.inspector.active {
		t.Fatal("click on empty court should clear the selection")
	}
}
