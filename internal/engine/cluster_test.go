package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func blockerAt(x, z float64) Blocker {
	return Blocker{Pos: mgl64.Vec2{x, z}, ReachHeight: 3.1, Radius: 0.35}
}

func TestCluster_MergeDisabled_OnePerBlocker(t *testing.T) {
	bs := []Blocker{blockerAt(-0.4, 0), blockerAt(0.4, 0), blockerAt(0.5, 0)}
	got := Cluster(bs, DefaultBlockThreshold, false)
	if len(got) != len(bs) {
		t.Fatalf("expected %d clusters, got %d", len(bs), len(got))
	}
	for i, c := range got {
		if len(c) != 1 || c[0] != bs[i] {
			t.Fatalf("cluster %d should be the singleton of blocker %d, got %+v", i, i, c)
		}
	}
}

func TestCluster_ClosePair_Merged(t *testing.T) {
	got := Cluster([]Blocker{blockerAt(-0.4, 0), blockerAt(0.4, 0)}, 0.9, true)
	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("expected one cluster of 2, got %v", got)
	}
}

func TestCluster_Transitive(t *testing.T) {
	// A–B and B–C are under threshold, A–C is not.
	bs := []Blocker{blockerAt(0, 0), blockerAt(1.6, 0), blockerAt(0.8, 0)}
	got := Cluster(bs, 0.9, true)
	if len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("chain should form one cluster of 3, got %v", got)
	}
}

func TestCluster_ThresholdIsStrict(t *testing.T) {
	got := Cluster([]Blocker{blockerAt(0, 0), blockerAt(0, 1)}, 1.0, true)
	if len(got) != 2 {
		t.Fatalf("blockers exactly at threshold must not merge, got %d clusters", len(got))
	}
}

func TestCluster_IsolatedBlocker_Singleton(t *testing.T) {
	bs := []Blocker{blockerAt(-3, -1), blockerAt(-0.4, -0.6), blockerAt(0.4, -0.6)}
	got := Cluster(bs, 0.9, true)
	if len(got) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(got))
	}
	if len(got[0]) != 1 || got[0][0] != bs[0] {
		t.Fatalf("first cluster should be the isolated blocker, got %v", got[0])
	}
	for i, c := range got {
		if len(c) == 0 {
			t.Fatalf("cluster %d is empty", i)
		}
	}
}

func TestCluster_Symmetric(t *testing.T) {
	a := []Blocker{blockerAt(0, 0), blockerAt(0.5, 0.5), blockerAt(3, 3)}
	b := []Blocker{a[2], a[1], a[0]}
	ca := Cluster(a, 0.9, true)
	cb := Cluster(b, 0.9, true)
	if len(ca) != len(cb) {
		t.Fatalf("input order changed cluster count: %d vs %d", len(ca), len(cb))
	}
}

func TestCluster_Empty(t *testing.T) {
	if got := Cluster(nil, 0.9, true); len(got) != 0 {
		t.Fatalf("expected no clusters, got %v", got)
	}
}

func TestTightPairs_TakesLargerRadiusAndReach(t *testing.T) {
	bs := []Blocker{
		{Pos: mgl64.Vec2{0, 0}, ReachHeight: 3.0, Radius: 0.3},
		{Pos: mgl64.Vec2{0.5, 0}, ReachHeight: 3.4, Radius: 0.4},
		{Pos: mgl64.Vec2{4, 0}, ReachHeight: 3.4, Radius: 0.4},
	}
	pairs := tightPairs(bs, 0.9)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.a != 0 || p.b != 1 || p.radius != 0.4 || p.reach != 3.4 {
		t.Fatalf("unexpected pair %+v", p)
	}
}
