package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/engine"
	"github.com/Garsondee/Block-Sense/internal/render"
	"github.com/Garsondee/Block-Sense/internal/scenario"

	"github.com/atotto/clipboard"
)

type runStats struct {
	name string

	clusters  []int
	wedges    int
	bridges   int
	deadDepth float64
	collision engine.Collision
	apex      float64

	sweep       []scenario.SweepPoint
	kindChanges int

	scene   engine.Scene
	overlay engine.Overlay
	report  string
	log     string
}

func main() {
	var name string
	var configPath string
	var sweepSpec string
	var pngDir string
	var copyReport bool
	var verbose bool
	var showLog bool

	flag.StringVar(&name, "scenario", "all", "scenario name or \"all\" ("+strings.Join(scenario.Names(), ", ")+")")
	flag.StringVar(&configPath, "config", "", "tuning YAML file (defaults when empty)")
	flag.StringVar(&sweepSpec, "sweep", "0:100:10", "power sweep from:to:step, empty to skip")
	flag.StringVar(&pngDir, "png", "", "directory to write one top-down PNG per scenario")
	flag.BoolVar(&copyReport, "copy", false, "copy the text report to the clipboard")
	flag.BoolVar(&verbose, "verbose", false, "log every shadow polygon")
	flag.BoolVar(&showLog, "log", false, "print the structured event log per scenario")
	flag.Parse()

	tun, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	names := scenario.Names()
	if name != "all" {
		names = []string{name}
	}

	var sweep *sweepRange
	if sweepSpec != "" {
		r, err := parseSweep(sweepSpec)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(2)
		}
		sweep = &r
	}

	fmt.Printf("=== Headless Overlay Report ===\n")
	fmt.Printf("scenarios=%d config=%q sweep=%q net=%.2f power=%d\n\n", len(names), configPath, sweepSpec, tun.NetHeight, tun.Power)

	all := make([]runStats, 0, len(names))
	var text strings.Builder
	for _, n := range names {
		rs, err := runScenario(n, tun, sweep, verbose)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		all = append(all, rs)
		printRun(rs, showLog)
		text.WriteString("# " + n + "\n" + rs.report)

		if pngDir != "" {
			path := filepath.Join(pngDir, n+".png")
			if err := render.WritePNG(path, render.Scene(render.DefaultViewport(), rs.scene, rs.overlay)); err != nil {
				fmt.Printf("error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("wrote %s\n\n", path)
		}
	}
	printAggregate(all)

	if copyReport {
		if err := clipboard.WriteAll(text.String()); err != nil {
			fmt.Printf("clipboard: %v\n", err)
			return
		}
		fmt.Println("report copied to clipboard")
	}
}

type sweepRange struct {
	from, to, step int
}

// parseSweep reads "from:to:step". The step may be omitted and defaults to 10.
func parseSweep(spec string) (sweepRange, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return sweepRange{}, fmt.Errorf("sweep %q: want from:to[:step]", spec)
	}
	vals := []int{0, 0, 10}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return sweepRange{}, fmt.Errorf("sweep %q: %w", spec, err)
		}
		vals[i] = v
	}
	r := sweepRange{from: vals[0], to: vals[1], step: vals[2]}
	if r.from < 0 || r.to > 100 || r.from > r.to || r.step <= 0 {
		return sweepRange{}, fmt.Errorf("sweep %q: range must lie in 0..100 with a positive step", spec)
	}
	return r, nil
}

func runScenario(name string, tun config.Tuning, sweep *sweepRange, verbose bool) (runStats, error) {
	sim, err := scenario.Build(name, tun, scenario.WithVerbose(verbose))
	if err != nil {
		return runStats{}, err
	}
	o, err := sim.Compute()
	if err != nil {
		return runStats{}, err
	}

	rs := runStats{
		name:      name,
		clusters:  o.ClusterSizes,
		collision: o.Trajectory.Collision,
		apex:      o.Trajectory.Curve.Control.Y(),
		scene:     sim.Scene(),
		overlay:   o,
		report:    scenario.Report(sim.Scene(), o),
	}
	rs.wedges, rs.bridges = countShadows(o.Shadows)
	if len(o.DeadZone) == 4 {
		rs.deadDepth = -o.DeadZone[1].Z()
	}

	if sweep != nil {
		pts, err := sim.Sweep(sweep.from, sweep.to, sweep.step)
		if err != nil {
			return runStats{}, err
		}
		rs.sweep = pts
		rs.kindChanges = sim.Log.CountCategory("sweep", "kind_change")
	}
	rs.log = sim.Log.Format()
	return rs, nil
}

func countShadows(polys []engine.ShadowPolygon) (wedges, bridges int) {
	for _, p := range polys {
		if p.Kind == engine.ShadowBridge {
			bridges++
		} else {
			wedges++
		}
	}
	return wedges, bridges
}

func printRun(rs runStats, showLog bool) {
	fmt.Printf("--- %s ---\n", rs.name)
	fmt.Printf("blocking: clusters=%v wedges=%d bridges=%d dead_zone_depth=%.2f\n",
		rs.clusters, rs.wedges, rs.bridges, rs.deadDepth)
	fmt.Printf("attack: apex=%.2f outcome=%s t=%.3f\n", rs.apex, rs.collision.Kind, rs.collision.T)
	if len(rs.sweep) > 0 {
		fmt.Printf("sweep: %s kind_changes=%d\n", sweepLine(rs.sweep), rs.kindChanges)
		if p, ok := firstOfKind(rs.sweep, engine.CollisionNet); ok {
			fmt.Printf("sweep_first_net: power=%d\n", p)
		}
	}
	if showLog {
		fmt.Print(rs.log)
	}
	fmt.Println()
}

var sweepMarks = map[engine.CollisionKind]byte{
	engine.CollisionNone:  '.',
	engine.CollisionBlock: 'B',
	engine.CollisionNet:   'N',
}

// sweepLine renders each sweep point as power:mark.
func sweepLine(pts []scenario.SweepPoint) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%d:%c", p.Power, sweepMarks[p.Collision.Kind])
	}
	return strings.Join(parts, " ")
}

func firstOfKind(pts []scenario.SweepPoint, kind engine.CollisionKind) (int, bool) {
	for _, p := range pts {
		if p.Collision.Kind == kind {
			return p.Power, true
		}
	}
	return 0, false
}

func outcomeCounts(all []runStats) map[engine.CollisionKind][]string {
	out := map[engine.CollisionKind][]string{}
	for _, rs := range all {
		out[rs.collision.Kind] = append(out[rs.collision.Kind], rs.name)
	}
	return out
}

func printAggregate(all []runStats) {
	fmt.Printf("=== Aggregate (%d scenarios) ===\n", len(all))
	counts := outcomeCounts(all)
	for _, k := range []engine.CollisionKind{engine.CollisionNone, engine.CollisionBlock, engine.CollisionNet} {
		fmt.Printf("  %-5s %d  %s\n", k, len(counts[k]), strings.Join(counts[k], ","))
	}
	totalBridges := 0
	for _, rs := range all {
		totalBridges += rs.bridges
	}
	fmt.Printf("  bridges_total=%d\n", totalBridges)
}
