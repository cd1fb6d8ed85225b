package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/engine"
)

// ErrUnknownScenario is returned by Build for a name not in Names.
var ErrUnknownScenario = errors.New("unknown scenario")

var builtins = map[string]func() []Option{
	// Board reset layout: two blockers at the net, ball at the attack line.
	"reset": func() []Option {
		return []Option{
			WithBlocker(-1.2, -0.6),
			WithBlocker(1.2, -0.6),
			WithBall(0, 3, 4),
			WithTarget(0, -4.5),
		}
	},
	// Single blocker at the net, contact below its reach: full-depth wedge.
	"single-full-shadow": func() []Option {
		return []Option{
			WithBlockerReach(0, 0, 3.1, 0.35),
			WithBall(0, 3.0, 5),
		}
	},
	// Double block 0.8 apart: one merged cluster with a bridge.
	"double-block": func() []Option {
		return []Option{
			WithBlockerReach(-0.4, -0.6, 3.1, 0.35),
			WithBlockerReach(0.4, -0.6, 3.1, 0.35),
			WithBall(0, 3.5, 4),
		}
	},
	// High contact over an open net.
	"high-ball": func() []Option {
		return []Option{
			WithBall(0, 5, 4),
			WithTarget(0, -4.5),
		}
	},
	// Contact directly over a blocker that has jumped into the attack side.
	"over-blocker": func() []Option {
		return []Option{
			WithBlockerReach(0, 3, 3.1, 0.35),
			WithBall(0, 2.5, 3),
		}
	},
	// Low contact that cannot clear the tape.
	"into-net": func() []Option {
		return []Option{
			WithBall(0, 1.5, 4),
			WithTarget(0, -4.5),
		}
	},
	// Triple block across the middle.
	"triple-block": func() []Option {
		return []Option{
			WithBlocker(-0.8, -0.6),
			WithBlocker(0, -0.6),
			WithBlocker(0.8, -0.6),
			WithBall(0.5, 3.4, 3.5),
			WithTarget(-1.5, -6),
		}
	},
	// Women's net, soft attack over a single blocker.
	"womens-tip": func() []Option {
		return []Option{
			WithNetHeight(engine.NetHeightWomen),
			WithBlocker(-1.2, -0.6),
			WithBall(-1, 2.9, 1.5),
			WithTarget(-2, -3),
			WithPower(25),
		}
	},
}

// Names lists the built-in scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build constructs a built-in scenario over tun. Extra options are applied
// after the scenario's own.
func Build(name string, tun config.Tuning, extra ...Option) (*Sim, error) {
	mk, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownScenario, name, strings.Join(Names(), ", "))
	}
	opts := append([]Option{WithTuning(tun), WithName(name)}, mk()...)
	return NewSim(append(opts, extra...)...), nil
}

// SweepPoint is the solver outcome at one power setting.
type SweepPoint struct {
	Power     int
	Collision engine.Collision
	Apex      float64
	DeadDepth float64 // 0 when there is no dead zone
}

// Sweep recomputes the scene for each power in [from, to] at the given step
// and logs every change of collision outcome. The Sim's power and its last
// computed overlay are restored afterwards.
func (s *Sim) Sweep(from, to, step int) ([]SweepPoint, error) {
	if step <= 0 || from > to {
		return nil, fmt.Errorf("sweep %d..%d step %d: empty range", from, to, step)
	}
	saved, savedLast := s.Power, s.last
	defer func() { s.Power, s.last = saved, savedLast }()

	var out []SweepPoint
	for p := from; p <= to; p += step {
		s.Power = p
		o, err := s.Compute()
		if err != nil {
			return out, err
		}
		pt := SweepPoint{Power: p, Collision: o.Trajectory.Collision, Apex: o.Trajectory.Curve.Control.Y()}
		if len(o.DeadZone) == 4 {
			pt.DeadDepth = -o.DeadZone[1].Z()
		}
		if n := len(out); n > 0 && out[n-1].Collision.Kind != pt.Collision.Kind {
			s.Log.Add(s.Step, "BALL", "sweep", "kind_change",
				fmt.Sprintf("power %d→%d: %s → %s", out[n-1].Power, p, out[n-1].Collision.Kind, pt.Collision.Kind), float64(p))
		}
		out = append(out, pt)
	}
	return out, nil
}
