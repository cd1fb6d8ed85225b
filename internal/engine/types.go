// Package engine computes the derived tactical overlays of the board: block
// shadows cast on the ground by jumping blockers, the net dead zone, and the
// attack flight curve with its first interception.
//
// Coordinates are court metres. The ground is the XZ plane, Y is up, the net
// lies on z = 0. The attacking side is z > 0 and the defending (home) side is
// z < 0. Every function here is a pure function of its arguments.
package engine

import "github.com/go-gl/mathgl/mgl64"

// Court and net geometry.
const (
	CourtWidth     = 9.0
	CourtLength    = 18.0
	CourtHalfWidth = CourtWidth / 2
	CourtHalfLen   = CourtLength / 2
	AttackLineZ    = 3.0

	NetHeightMen   = 2.43
	NetHeightWomen = 2.24
	NetOverhang    = 0.5 // net extends past the sidelines by this much per side

	// GroundOffset lifts overlay vertices off the court surface so they do
	// not z-fight with it.
	GroundOffset = 0.02
)

// Engine defaults. All of them can be overridden through Tuning.
const (
	DefaultBlockThreshold      = 0.9
	DefaultRadiusFactor        = 0.2
	DefaultStandingReachFactor = 1.33
	DefaultMaxShadowDepth      = 12.5
	DefaultSampleCount         = 80
	DefaultNetClearance        = 0.3
	DefaultArcBase             = 0.6
	DefaultArcPerMeter         = 0.12
	DefaultDeadZoneArcBoost    = 1.2

	// HeightEpsilon is the slack allowed when comparing ball height to reach.
	HeightEpsilon = 1e-3
	// degenerateLenSq is the squared ground length under which a
	// ball-to-blocker vector is treated as zero.
	degenerateLenSq = 1e-3

	MaxDeadZoneDepth  = CourtHalfLen
	FullDeadZoneDepth = CourtHalfLen + 1
	DeadZoneHalfSpan  = CourtHalfWidth + 2
)

// Blocker is a jumping player reduced to what the engine needs.
type Blocker struct {
	Pos         mgl64.Vec2 `json:"pos"` // ground position (x, z)
	ReachHeight float64    `json:"reachHeight"`
	Radius      float64    `json:"radius"`
}

// Net describes the net plane at z = 0.
type Net struct {
	Height    float64 `json:"height"`
	HalfWidth float64 `json:"halfWidth"`
}

// DefaultNet returns a net of the given height spanning the court plus overhang.
func DefaultNet(height float64) Net {
	return Net{Height: height, HalfWidth: CourtHalfWidth + NetOverhang}
}

// Tuning holds the tunable constants of the engine.
type Tuning struct {
	BlockThreshold   float64
	MaxShadowDepth   float64
	SampleCount      int
	NetClearance     float64
	ArcBase          float64
	ArcPerMeter      float64
	DeadZoneArcBoost float64
}

// DefaultTuning returns the engine defaults.
func DefaultTuning() Tuning {
	return Tuning{
		BlockThreshold:   DefaultBlockThreshold,
		MaxShadowDepth:   DefaultMaxShadowDepth,
		SampleCount:      DefaultSampleCount,
		NetClearance:     DefaultNetClearance,
		ArcBase:          DefaultArcBase,
		ArcPerMeter:      DefaultArcPerMeter,
		DeadZoneArcBoost: DefaultDeadZoneArcBoost,
	}
}

// PowerFactor maps an attack power slider value (0–100) onto [0,1].
func PowerFactor(power int) float64 {
	return mgl64.Clamp(float64(power)/100, 0, 1)
}

// Polygon is an ordered list of ground-plane vertices.
type Polygon []mgl64.Vec3
