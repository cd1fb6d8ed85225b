// Package scenario runs board positions headlessly: it builds scenes from
// option lists, computes their overlays and records what happened in a
// structured Log.
package scenario

import (
	"fmt"

	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/go-gl/mathgl/mgl64"
)

// Sim is a headless board. It holds the same state the interactive board
// does, without any Ebiten dependency, and logs every recompute.
type Sim struct {
	Name     string
	Tuning   config.Tuning
	Blockers []engine.Blocker
	Ball     mgl64.Vec3
	Target   mgl64.Vec2
	Power    int
	Merge    bool
	NetShow  bool
	Log      *Log
	Step     int

	netHeight float64
	last      *engine.Overlay
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // tuning, net and verbosity, applied first
	simOptPlayer                      // blockers, derived from the final tuning
	simOptScene                       // ball, target, toggles
)

// Option is a builder function applied to a Sim during construction.
type Option struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithTuning replaces the whole tuning. Options applied later in the infra
// pass still override single fields.
func WithTuning(t config.Tuning) Option {
	return Option{simOptInfra, func(s *Sim) {
		s.Tuning = t
		s.netHeight = t.NetHeight
		s.Power = t.Power
		s.Merge = t.MergeShadows
		s.NetShow = t.NetShadow
	}}
}

// WithNetHeight sets the net height, e.g. engine.NetHeightWomen.
func WithNetHeight(h float64) Option {
	return Option{simOptInfra, func(s *Sim) {
		s.netHeight = h
	}}
}

// WithVerbose enables per-polygon logging.
func WithVerbose(v bool) Option {
	return Option{simOptInfra, func(s *Sim) {
		s.Log = NewLog(v)
	}}
}

// WithName labels the run in reports.
func WithName(name string) Option {
	return Option{simOptInfra, func(s *Sim) {
		s.Name = name
	}}
}

// WithBlocker adds a blocker at (x, z) whose reach and radius come from the
// configured player body.
func WithBlocker(x, z float64) Option {
	return Option{simOptPlayer, func(s *Sim) {
		s.Blockers = append(s.Blockers, s.Tuning.Blocker(mgl64.Vec2{x, z}))
	}}
}

// WithBlockerReach adds a blocker with explicit reach height and radius.
func WithBlockerReach(x, z, reach, radius float64) Option {
	return Option{simOptPlayer, func(s *Sim) {
		s.Blockers = append(s.Blockers, engine.Blocker{Pos: mgl64.Vec2{x, z}, ReachHeight: reach, Radius: radius})
	}}
}

// WithBall places the ball at (x, height, z).
func WithBall(x, height, z float64) Option {
	return Option{simOptScene, func(s *Sim) {
		s.Ball = mgl64.Vec3{x, height, z}
	}}
}

// WithTarget sets the attack target on the ground.
func WithTarget(x, z float64) Option {
	return Option{simOptScene, func(s *Sim) {
		s.Target = mgl64.Vec2{x, z}
	}}
}

// WithPower sets the attack power (0–100).
func WithPower(p int) Option {
	return Option{simOptScene, func(s *Sim) {
		s.Power = p
	}}
}

// WithMerge switches shadow merging.
func WithMerge(on bool) Option {
	return Option{simOptScene, func(s *Sim) {
		s.Merge = on
	}}
}

// WithNetShadow switches the net dead zone.
func WithNetShadow(on bool) Option {
	return Option{simOptScene, func(s *Sim) {
		s.NetShow = on
	}}
}

// NewSim constructs a Sim from the given options in three ordered passes:
//  1. Infrastructure (tuning, net, verbose)
//  2. Blockers
//  3. Ball, target and toggles
//
// Defaults are the board's reset position without any blockers.
func NewSim(opts ...Option) *Sim {
	def := config.Default()
	s := &Sim{
		Name:      "custom",
		Tuning:    def,
		Ball:      mgl64.Vec3{0, 3, 4},
		Target:    mgl64.Vec2{0, -4.5},
		Power:     def.Power,
		Merge:     def.MergeShadows,
		NetShow:   def.NetShadow,
		Log:       NewLog(false),
		netHeight: def.NetHeight,
	}
	for _, kind := range []simOptionKind{simOptInfra, simOptPlayer, simOptScene} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(s)
			}
		}
	}
	return s
}

// Scene returns the engine input for the current state.
func (s *Sim) Scene() engine.Scene {
	return engine.Scene{
		Blockers:         s.Blockers,
		Ball:             s.Ball,
		Target:           s.Target,
		Net:              engine.DefaultNet(s.netHeight),
		Power:            s.Power,
		MergeShadows:     s.Merge,
		NetShadowEnabled: s.NetShow,
	}
}

// Compute recomputes the overlays for the current state, advances Step and
// logs the result. Changes relative to the previous compute are logged under
// the "change" key.
func (s *Sim) Compute() (engine.Overlay, error) {
	scene := s.Scene()
	if err := scene.Validate(); err != nil {
		return engine.Overlay{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	s.Step++
	o := engine.Compute(scene, s.Tuning.Engine())
	s.record(o)
	s.last = &o
	return o, nil
}

// MoveBlocker repositions blocker i.
func (s *Sim) MoveBlocker(i int, x, z float64) {
	if i < 0 || i >= len(s.Blockers) {
		return
	}
	s.Blockers[i].Pos = mgl64.Vec2{x, z}
	s.Log.Add(s.Step, blockerLabel(i), "scene", "move", fmt.Sprintf("→ (%.2f, %.2f)", x, z), 0)
}

func (s *Sim) record(o engine.Overlay) {
	step := s.Step
	s.Log.Add(step, "--", "cluster", "count", fmt.Sprintf("%d clusters %v", len(o.ClusterSizes), o.ClusterSizes), float64(len(o.ClusterSizes)))

	wedges, bridges := 0, 0
	for i, p := range o.Shadows {
		if p.Kind == engine.ShadowBridge {
			bridges++
		} else {
			wedges++
		}
		s.Log.AddVerbose(step, "--", "shadow", p.Kind.String(),
			fmt.Sprintf("#%d depth %.2f/%.2f", i, p.LeftDepth, p.RightDepth), max(p.LeftDepth, p.RightDepth))
	}
	s.Log.Add(step, "--", "shadow", "wedges", fmt.Sprintf("%d", wedges), float64(wedges))
	s.Log.Add(step, "--", "shadow", "bridges", fmt.Sprintf("%d", bridges), float64(bridges))

	if len(o.DeadZone) == 4 {
		depth := -o.DeadZone[1].Z()
		s.Log.Add(step, "--", "deadzone", "depth", fmt.Sprintf("%.2fm beyond the net", depth), depth)
	} else {
		s.Log.Add(step, "--", "deadzone", "none", "", 0)
	}

	c := o.Trajectory.Collision
	s.Log.Add(step, "BALL", "trajectory", "collision", describeCollision(c), c.T)
	if s.last != nil {
		prev := s.last.Trajectory.Collision
		if prev.Kind != c.Kind || prev.Blocker != c.Blocker {
			s.Log.Add(step, "BALL", "trajectory", "change",
				fmt.Sprintf("%s → %s", describeCollision(prev), describeCollision(c)), c.T)
		}
	}
}

func describeCollision(c engine.Collision) string {
	switch c.Kind {
	case engine.CollisionBlock:
		return fmt.Sprintf("block by %s at t=%.3f", blockerLabel(c.Blocker), c.T)
	case engine.CollisionNet:
		return fmt.Sprintf("net at t=%.3f", c.T)
	default:
		return "clear"
	}
}

func blockerLabel(i int) string {
	return fmt.Sprintf("B%d", i)
}
