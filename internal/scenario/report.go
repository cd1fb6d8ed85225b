package scenario

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Block-Sense/internal/engine"
)

// Report renders a compact, line-oriented description of one computed
// overlay. The board copies the same text to the clipboard.
func Report(s engine.Scene, o engine.Overlay) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ball=(%.2f, %.2f, %.2f) target=(%.2f, %.2f) power=%d net=%.2f merge=%t net_shadow=%t\n",
		s.Ball.X(), s.Ball.Y(), s.Ball.Z(), s.Target.X(), s.Target.Y(), s.Power, s.Net.Height, s.MergeShadows, s.NetShadowEnabled)
	for i, b := range s.Blockers {
		fmt.Fprintf(&sb, "  %s pos=(%.2f, %.2f) reach=%.2f radius=%.2f\n",
			blockerLabel(i), b.Pos.X(), b.Pos.Y(), b.ReachHeight, b.Radius)
	}

	wedges, bridges := 0, 0
	for _, p := range o.Shadows {
		if p.Kind == engine.ShadowBridge {
			bridges++
		} else {
			wedges++
		}
	}
	fmt.Fprintf(&sb, "clusters=%v wedges=%d bridges=%d mesh_vertices=%d\n",
		o.ClusterSizes, wedges, bridges, o.ShadowMesh.VertexCount())

	if len(o.DeadZone) == 4 {
		fmt.Fprintf(&sb, "dead_zone: depth=%.2f far_edge=%.2f..%.2f\n",
			-o.DeadZone[1].Z(), o.DeadZone[1].X(), o.DeadZone[2].X())
	} else {
		sb.WriteString("dead_zone: none\n")
	}

	tr := o.Trajectory
	fmt.Fprintf(&sb, "trajectory: apex=%.2f outcome=%s\n", tr.Curve.Control.Y(), describeCollision(tr.Collision))
	if n := len(o.Path); n > 0 {
		end := o.Path[n-1]
		fmt.Fprintf(&sb, "flown_end=(%.2f, %.2f, %.2f)\n", end.X(), end.Y(), end.Z())
	}
	return sb.String()
}
