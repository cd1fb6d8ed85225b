package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene is the read-only snapshot every overlay is computed from.
type Scene struct {
	Blockers         []Blocker  `json:"blockers"`
	Ball             mgl64.Vec3 `json:"ball"`
	Target           mgl64.Vec2 `json:"target"`
	Net              Net        `json:"net"`
	Power            int        `json:"power"` // 0–100
	MergeShadows     bool       `json:"mergeShadows"`
	NetShadowEnabled bool       `json:"netShadowEnabled"`
}

// ErrInvalidScene is returned by Scene.Validate.
var ErrInvalidScene = errors.New("invalid scene")

// Validate checks what the engine assumes of its input: finite coordinates,
// non-negative radius and reach, a positive net and power within 0–100. The
// engine itself never calls it; boundaries that accept outside input do.
func (s Scene) Validate() error {
	finite := func(vs ...float64) bool {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	if !finite(s.Ball[:]...) || !finite(s.Target[:]...) {
		return fmt.Errorf("%w: ball or target not finite", ErrInvalidScene)
	}
	if !finite(s.Net.Height, s.Net.HalfWidth) || s.Net.Height <= 0 || s.Net.HalfWidth <= 0 {
		return fmt.Errorf("%w: net %+v", ErrInvalidScene, s.Net)
	}
	if s.Power < 0 || s.Power > 100 {
		return fmt.Errorf("%w: power %d outside 0-100", ErrInvalidScene, s.Power)
	}
	for i, b := range s.Blockers {
		if !finite(b.Pos[0], b.Pos[1], b.ReachHeight, b.Radius) {
			return fmt.Errorf("%w: blocker %d not finite", ErrInvalidScene, i)
		}
		if b.Radius < 0 || b.ReachHeight < 0 {
			return fmt.Errorf("%w: blocker %d has negative radius or reach", ErrInvalidScene, i)
		}
	}
	return nil
}

// Overlay is everything the presentation layer draws for one scene.
type Overlay struct {
	ClusterSizes []int           `json:"clusterSizes"`
	Shadows      []ShadowPolygon `json:"shadows"`
	ShadowMesh   Mesh            `json:"shadowMesh"`
	DeadZone     Polygon         `json:"deadZone,omitempty"`
	DeadZoneMesh Mesh            `json:"deadZoneMesh"`
	Trajectory   Trajectory      `json:"trajectory"`
	Path         []mgl64.Vec3    `json:"path"` // the flown part, sampled
	Blocked      bool            `json:"blocked"`
}

// Compute derives all overlays for s. It reads s and returns fresh buffers;
// nothing is cached between calls.
func Compute(s Scene, tun Tuning) Overlay {
	var o Overlay

	clusters, shadows := ProjectShadows(s.Blockers, s.Ball, tun.BlockThreshold, tun.MaxShadowDepth, s.MergeShadows)
	o.ClusterSizes = make([]int, len(clusters))
	for i, c := range clusters {
		o.ClusterSizes[i] = len(c)
	}
	o.Shadows = shadows
	o.ShadowMesh = ShadowMesh(shadows)

	if s.NetShadowEnabled {
		pf := PowerFactor(s.Power)
		if dz, ok := ProjectNetDeadZone(s.Ball, s.Net.Height, pf, s.Net.HalfWidth, tun.DeadZoneArcBoost); ok {
			o.DeadZone = dz
			o.DeadZoneMesh.AppendPolygon(dz)
		}
	}

	o.Trajectory = Solve(s.Ball, s.Target, s.Net, PowerFactor(s.Power), s.Blockers, tun)
	o.Path = o.Trajectory.Flown.Points(tun.SampleCount)
	o.Blocked = o.Trajectory.Collision.Kind != CollisionNone
	return o
}
