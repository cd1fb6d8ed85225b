package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func countKinds(polys []ShadowPolygon) (wedges, bridges int) {
	for _, p := range polys {
		if p.Kind == ShadowBridge {
			bridges++
		} else {
			wedges++
		}
	}
	return
}

func TestOcclusionDepth_BallBelowReach_FullDepth(t *testing.T) {
	for _, h := range []float64{0.5, 2.0, 3.0, 3.1, 3.1 + HeightEpsilon} {
		if d := OcclusionDepth(5, 3.1, h, 12.5); d != 12.5 {
			t.Fatalf("ball height %.4f: expected full depth 12.5, got %.6f", h, d)
		}
	}
}

func TestOcclusionDepth_DecreasesWithHeight(t *testing.T) {
	prev := math.Inf(1)
	for _, h := range []float64{5, 5.5, 6, 7, 8, 10} {
		d := OcclusionDepth(5, 3.1, h, 12.5)
		if d >= 12.5 {
			t.Fatalf("ball height %.1f: depth %.4f should be below max", h, d)
		}
		if d >= prev {
			t.Fatalf("ball height %.1f: depth %.4f did not decrease from %.4f", h, d, prev)
		}
		prev = d
	}
}

func TestOcclusionDepth_Capped(t *testing.T) {
	// Just above reach the similar-triangles depth is huge.
	if d := OcclusionDepth(5, 3.1, 3.2, 12.5); d != 12.5 {
		t.Fatalf("expected cap at 12.5, got %.4f", d)
	}
}

// Scenario: single blocker at the net, ball below the block reach.
func TestProjectCluster_SingleBlocker_FullShadow(t *testing.T) {
	b := Blocker{Pos: mgl64.Vec2{0, 0}, ReachHeight: 3.1, Radius: 0.35}
	polys := ProjectCluster([]Blocker{b}, mgl64.Vec2{0, 5}, 3.0, 12.5)
	if len(polys) != 1 {
		t.Fatalf("expected one wedge, got %d polygons", len(polys))
	}
	w := polys[0]
	if w.Kind != ShadowWedge || len(w.Vertices) != 4 {
		t.Fatalf("unexpected polygon %+v", w)
	}
	if w.LeftDepth != 12.5 || w.RightDepth != 12.5 {
		t.Fatalf("expected full depth on both edges, got %.4f / %.4f", w.LeftDepth, w.RightDepth)
	}
	if d := w.Vertices[1].Sub(w.Vertices[0]).Len(); math.Abs(d-12.5) > 1e-9 {
		t.Fatalf("left edge pushed %.9f, want 12.5", d)
	}
	// Shadow falls away from the ball (ball at z=5, shadow towards -z).
	if w.Vertices[1].Z() >= w.Vertices[0].Z() {
		t.Fatalf("far vertex should be further from the ball: near=%v far=%v", w.Vertices[0], w.Vertices[1])
	}
}

func TestProjectCluster_HighBall_FiniteShadow(t *testing.T) {
	b := Blocker{Pos: mgl64.Vec2{0, 0}, ReachHeight: 3.1, Radius: 0.35}
	polys := ProjectCluster([]Blocker{b}, mgl64.Vec2{0, 5}, 6.0, 12.5)
	w := polys[0]
	if w.LeftDepth >= 12.5 || w.LeftDepth <= 0 {
		t.Fatalf("expected finite depth, got %.4f", w.LeftDepth)
	}
	edgeDist := math.Hypot(0.35, 5)
	want := edgeDist * 3.1 / (6.0 - 3.1)
	if math.Abs(w.LeftDepth-want) > 1e-6 {
		t.Fatalf("depth %.6f, want %.6f", w.LeftDepth, want)
	}
}

func TestProjectCluster_VerticesOnGround(t *testing.T) {
	bs := []Blocker{blockerAt(-0.4, -0.6), blockerAt(0.4, -0.6), blockerAt(1.1, -0.6)}
	for _, p := range ProjectCluster(bs, mgl64.Vec2{0.3, 4}, 3.4, 12.5) {
		for _, v := range p.Vertices {
			if v.Y() != GroundOffset {
				t.Fatalf("vertex %v not on the ground plane", v)
			}
		}
	}
}

// Scenario: two blockers 0.8 apart merge into one cluster with a bridge
// between their facing edges.
func TestProjectShadows_ClosePair_Bridged(t *testing.T) {
	bs := []Blocker{blockerAt(-0.4, 0), blockerAt(0.4, 0)}
	clusters, polys := ProjectShadows(bs, mgl64.Vec3{0, 3.5, 4}, 0.9, 12.5, true)
	if len(clusters) != 1 || len(clusters[0]) != 2 {
		t.Fatalf("expected one cluster of 2, got %v", clusters)
	}
	wedges, bridges := countKinds(polys)
	if wedges != 2 || bridges != 1 {
		t.Fatalf("expected 2 wedges + 1 bridge, got %d + %d", wedges, bridges)
	}
	var br ShadowPolygon
	for _, p := range polys {
		if p.Kind == ShadowBridge {
			br = p
		}
	}
	nl, nr := br.Vertices[0], br.Vertices[3]
	if !(nl.X() > -0.4 && nl.X() < nr.X() && nr.X() < 0.4) {
		t.Fatalf("bridge should join the inner edges: near-left x=%.3f near-right x=%.3f", nl.X(), nr.X())
	}
}

func TestProjectShadows_MergeDisabled_NoBridges(t *testing.T) {
	bs := []Blocker{blockerAt(-0.4, 0), blockerAt(0.4, 0)}
	clusters, polys := ProjectShadows(bs, mgl64.Vec3{0, 3.5, 4}, 0.9, 12.5, false)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if _, bridges := countKinds(polys); bridges != 0 {
		t.Fatalf("expected no bridges, got %d", bridges)
	}
}

func TestProjectCluster_OnlyAdjacentPairsBridged(t *testing.T) {
	bs := []Blocker{blockerAt(0.8, 0), blockerAt(-0.8, 0), blockerAt(0, 0)}
	polys := ProjectCluster(bs, mgl64.Vec2{0, 4}, 3.5, 12.5)
	wedges, bridges := countKinds(polys)
	if wedges != 3 || bridges != 2 {
		t.Fatalf("expected 3 wedges + 2 bridges, got %d + %d", wedges, bridges)
	}
	// Bridges join neighbours only, so none spans from x=-0.8 to x=0.8.
	for _, p := range polys {
		if p.Kind != ShadowBridge {
			continue
		}
		if math.Abs(p.Vertices[0].X()-p.Vertices[3].X()) > 0.8 {
			t.Fatalf("bridge spans non-adjacent blockers: %v", p.Vertices)
		}
	}
}

func TestProjectCluster_BlockerUnderBall_Skipped(t *testing.T) {
	bs := []Blocker{blockerAt(0, 4), blockerAt(0.5, 4.2)}
	polys := ProjectCluster(bs, mgl64.Vec2{0, 4}, 3.5, 12.5)
	wedges, bridges := countKinds(polys)
	if wedges != 1 || bridges != 0 {
		t.Fatalf("coincident blocker should cast nothing: got %d wedges %d bridges", wedges, bridges)
	}
}

func TestProjectCluster_BehindBall_NoWrap(t *testing.T) {
	// Cluster straddles the -x axis as seen from the ball, where atan2 wraps.
	bs := []Blocker{blockerAt(-4, 0.3), blockerAt(-4, -0.3)}
	polys := ProjectCluster(bs, mgl64.Vec2{0, 0}, 3.5, 12.5)
	_, bridges := countKinds(polys)
	if bridges != 1 {
		t.Fatalf("expected one bridge across the wrap, got %d", bridges)
	}
	var br ShadowPolygon
	for _, p := range polys {
		if p.Kind == ShadowBridge {
			br = p
		}
	}
	for _, v := range br.Vertices[:1] {
		if math.Abs(v.Z()) > 0.3 {
			t.Fatalf("bridge near vertex %v should lie between the blockers", v)
		}
	}
}

func TestShadowMesh_TrianglesPerQuad(t *testing.T) {
	bs := []Blocker{blockerAt(-0.4, 0), blockerAt(0.4, 0)}
	_, polys := ProjectShadows(bs, mgl64.Vec3{0, 3.5, 4}, 0.9, 12.5, true)
	m := ShadowMesh(polys)
	if m.VertexCount() != 4*len(polys) {
		t.Fatalf("expected %d vertices, got %d", 4*len(polys), m.VertexCount())
	}
	if len(m.Indices) != 6*len(polys) {
		t.Fatalf("expected %d indices, got %d", 6*len(polys), len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}
