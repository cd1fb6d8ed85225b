// Package config loads the board's tuning knobs from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Tuning mirrors the YAML file. Absent keys keep their Default value.
type Tuning struct {
	BlockThreshold      float64 `yaml:"block_threshold" json:"block_threshold"`
	RadiusFactor        float64 `yaml:"radius_factor" json:"radius_factor"`
	StandingReachFactor float64 `yaml:"standing_reach_factor" json:"standing_reach_factor"`
	MaxShadowDepth      float64 `yaml:"max_shadow_depth" json:"max_shadow_depth"`
	SampleCount         int     `yaml:"sample_count" json:"sample_count"`
	NetHeight           float64 `yaml:"net_height" json:"net_height"`
	NetClearance        float64 `yaml:"net_clearance" json:"net_clearance"`
	ArcBase             float64 `yaml:"arc_base" json:"arc_base"`
	ArcPerMeter         float64 `yaml:"arc_per_meter" json:"arc_per_meter"`
	DeadZoneArcBoost    float64 `yaml:"dead_zone_arc_boost" json:"dead_zone_arc_boost"`

	// Starting state of the board toggles.
	Power        int  `yaml:"power" json:"power"`
	MergeShadows bool `yaml:"merge_shadows" json:"merge_shadows"`
	NetShadow    bool `yaml:"net_shadow" json:"net_shadow"`

	Body engine.PlayerBody `yaml:"body" json:"body"`
}

// Default returns the engine defaults with a men's net, full power and both
// overlays switched on.
func Default() Tuning {
	return Tuning{
		BlockThreshold:      engine.DefaultBlockThreshold,
		RadiusFactor:        engine.DefaultRadiusFactor,
		StandingReachFactor: engine.DefaultStandingReachFactor,
		MaxShadowDepth:      engine.DefaultMaxShadowDepth,
		SampleCount:         engine.DefaultSampleCount,
		NetHeight:           engine.NetHeightMen,
		NetClearance:        engine.DefaultNetClearance,
		ArcBase:             engine.DefaultArcBase,
		ArcPerMeter:         engine.DefaultArcPerMeter,
		DeadZoneArcBoost:    engine.DefaultDeadZoneArcBoost,
		Power:               100,
		MergeShadows:        true,
		NetShadow:           true,
		Body:                engine.PlayerBody{Height: 1.7, Jump: 0.35},
	}
}

// Load reads path over the defaults. An empty path returns Default.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects values the engine cannot work with.
func (t Tuning) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"block_threshold", t.BlockThreshold},
		{"radius_factor", t.RadiusFactor},
		{"standing_reach_factor", t.StandingReachFactor},
		{"max_shadow_depth", t.MaxShadowDepth},
		{"net_height", t.NetHeight},
		{"body.height", t.Body.Height},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.v)
		}
	}
	if t.SampleCount < 1 {
		return fmt.Errorf("%w: sample_count must be at least 1, got %d", ErrInvalid, t.SampleCount)
	}
	if t.Power < 0 || t.Power > 100 {
		return fmt.Errorf("%w: power must be within 0-100, got %d", ErrInvalid, t.Power)
	}
	if !(t.NetClearance >= 0) || !(t.ArcBase >= 0) || !(t.ArcPerMeter >= 0) || !(t.DeadZoneArcBoost >= 0) || !(t.Body.Jump >= 0) {
		return fmt.Errorf("%w: clearances, arc terms and jump must not be negative", ErrInvalid)
	}
	return nil
}

// Engine converts to the engine's tuning.
func (t Tuning) Engine() engine.Tuning {
	return engine.Tuning{
		BlockThreshold:   t.BlockThreshold,
		MaxShadowDepth:   t.MaxShadowDepth,
		SampleCount:      t.SampleCount,
		NetClearance:     t.NetClearance,
		ArcBase:          t.ArcBase,
		ArcPerMeter:      t.ArcPerMeter,
		DeadZoneArcBoost: t.DeadZoneArcBoost,
	}
}

// Net returns the configured net.
func (t Tuning) Net() engine.Net {
	return engine.DefaultNet(t.NetHeight)
}

// Blocker derives a blocker at pos from the configured player body.
func (t Tuning) Blocker(pos mgl64.Vec2) engine.Blocker {
	return engine.NewBlocker(pos, t.Body, t.RadiusFactor, t.StandingReachFactor)
}

// Marshal renders t as YAML, for writing out a starting config file.
func (t Tuning) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
