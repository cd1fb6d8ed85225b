package engine

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// ShadowKind tells a blocker's own wedge apart from the quad that bridges two
// neighbouring wedges.
type ShadowKind uint8

const (
	ShadowWedge ShadowKind = iota
	ShadowBridge
)

func (k ShadowKind) String() string {
	if k == ShadowBridge {
		return "bridge"
	}
	return "wedge"
}

func (k ShadowKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ShadowKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "wedge":
		*k = ShadowWedge
	case "bridge":
		*k = ShadowBridge
	default:
		return fmt.Errorf("unknown shadow kind %q", b)
	}
	return nil
}

// ShadowPolygon is one occluded ground quad.
//
// For a wedge the vertices are {near-left, far-left, far-right, near-right},
// where left is the side at the larger bearing around the ball. LeftDepth and
// RightDepth are the lengths the two silhouette edges were pushed outward.
// Bridges carry no depths.
type ShadowPolygon struct {
	Kind       ShadowKind `json:"kind"`
	Vertices   Polygon    `json:"vertices"`
	LeftDepth  float64    `json:"leftDepth,omitempty"`
	RightDepth float64    `json:"rightDepth,omitempty"`
}

// wedge is the ground-space working form of a blocker's shadow.
type wedge struct {
	nearLeft, farLeft, farRight, nearRight mgl64.Vec2
	leftDepth, rightDepth                  float64
}

func (w wedge) polygon() ShadowPolygon {
	return ShadowPolygon{
		Kind:       ShadowWedge,
		Vertices:   Polygon{onGround(w.nearLeft), onGround(w.farLeft), onGround(w.farRight), onGround(w.nearRight)},
		LeftDepth:  w.leftDepth,
		RightDepth: w.rightDepth,
	}
}

// OcclusionDepth is how far past a silhouette edge the shadow reaches. A ball
// at or below the reach is fully hidden and the shadow runs to maxDepth. A
// higher ball sees over the blocker beyond the similar-triangles distance.
func OcclusionDepth(edgeDist, reach, ballHeight, maxDepth float64) float64 {
	if ballHeight <= reach+HeightEpsilon {
		return maxDepth
	}
	return min(edgeDist*reach/(ballHeight-reach), maxDepth)
}

// projectWedge builds the shadow of one blocker as seen from the ball. The
// bool is false when the blocker stands on the ball's ground position.
func projectWedge(b Blocker, ball mgl64.Vec2, ballHeight, maxDepth float64) (wedge, bool) {
	dir, ok := normalizeOrZero(b.Pos.Sub(ball))
	if !ok {
		return wedge{}, false
	}
	perp := perpendicular(dir)
	left := b.Pos.Add(perp.Mul(b.Radius))
	right := b.Pos.Sub(perp.Mul(b.Radius))

	w := wedge{nearLeft: left, nearRight: right}
	w.farLeft, w.leftDepth = pushEdge(left, ball, b.ReachHeight, ballHeight, maxDepth)
	w.farRight, w.rightDepth = pushEdge(right, ball, b.ReachHeight, ballHeight, maxDepth)
	return w, true
}

// pushEdge moves an edge point outward along the ray from the ball.
func pushEdge(edge, ball mgl64.Vec2, reach, ballHeight, maxDepth float64) (mgl64.Vec2, float64) {
	ray := edge.Sub(ball)
	dist := ray.Len()
	depth := OcclusionDepth(dist, reach, ballHeight, maxDepth)
	if dist == 0 {
		return edge, depth
	}
	return edge.Add(ray.Mul(depth / dist)), depth
}

// ProjectCluster returns the shadow polygons of one cluster: a wedge per
// blocker, plus for clusters of two or more a bridge between each pair of
// blockers that are adjacent in angular order around the ball.
//
// The angular order is taken relative to the cluster's mean bearing so it
// never wraps across ±π. Blockers on the ball's ground position cast nothing
// and are dropped before ordering; their neighbours bridge across them.
func ProjectCluster(cluster []Blocker, ball mgl64.Vec2, ballHeight, maxDepth float64) []ShadowPolygon {
	type member struct {
		w     wedge
		angle float64
	}

	var ref mgl64.Vec2
	for _, b := range cluster {
		if d, ok := normalizeOrZero(b.Pos.Sub(ball)); ok {
			ref = ref.Add(d)
		}
	}
	if ref.Dot(ref) < 1e-12 {
		// Members evenly around the ball; any reference gives a total order.
		ref = mgl64.Vec2{1, 0}
	}

	members := make([]member, 0, len(cluster))
	for _, b := range cluster {
		w, ok := projectWedge(b, ball, ballHeight, maxDepth)
		if !ok {
			continue
		}
		members = append(members, member{w: w, angle: relativeAngle(ref, b.Pos.Sub(ball))})
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].angle < members[j].angle })

	out := make([]ShadowPolygon, 0, 2*len(members))
	for _, m := range members {
		out = append(out, m.w.polygon())
	}
	for i := 0; i+1 < len(members); i++ {
		if p, ok := bridge(members[i].w, members[i+1].w); ok {
			out = append(out, p)
		}
	}
	return out
}

// bridge closes the gap between a wedge and its angular successor by joining
// the left edge of a to the right edge of b.
func bridge(a, b wedge) (ShadowPolygon, bool) {
	nearGap := a.nearLeft.Sub(b.nearRight)
	farGap := a.farLeft.Sub(b.farRight)
	if nearGap.Dot(nearGap) < 1e-12 && farGap.Dot(farGap) < 1e-12 {
		return ShadowPolygon{}, false
	}
	return ShadowPolygon{
		Kind:     ShadowBridge,
		Vertices: Polygon{onGround(a.nearLeft), onGround(a.farLeft), onGround(b.farRight), onGround(b.nearRight)},
	}, true
}

// ProjectShadows clusters the blockers and projects every cluster.
func ProjectShadows(blockers []Blocker, ball mgl64.Vec3, threshold, maxDepth float64, merge bool) ([][]Blocker, []ShadowPolygon) {
	clusters := Cluster(blockers, threshold, merge)
	var out []ShadowPolygon
	for _, c := range clusters {
		out = append(out, ProjectCluster(c, ground(ball), ball.Y(), maxDepth)...)
	}
	return clusters, out
}
