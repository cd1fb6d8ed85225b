// Package render maps court metres to pixels and rasterizes board overlays
// to images for the headless report.
package render

import (
	"image/color"

	"github.com/Garsondee/Block-Sense/internal/engine"
)

// Viewport is a top-down view of the court. The attacking half (z > 0) is at
// the top, the net runs horizontally through the middle.
type Viewport struct {
	Scale  float64 // pixels per metre
	Margin float64 // metres of run-off drawn around the court
}

// DefaultViewport fits the court and 2 m of run-off in a 520×880 image.
func DefaultViewport() Viewport {
	return Viewport{Scale: 40, Margin: 2}
}

// Size returns the image size in pixels.
func (v Viewport) Size() (int, int) {
	w := (engine.CourtWidth + 2*v.Margin) * v.Scale
	h := (engine.CourtLength + 2*v.Margin) * v.Scale
	return int(w), int(h)
}

// ToScreen converts a court position (x, z) to pixel coordinates.
func (v Viewport) ToScreen(x, z float64) (float32, float32) {
	px := (x + engine.CourtHalfWidth + v.Margin) * v.Scale
	py := (engine.CourtHalfLen + v.Margin - z) * v.Scale
	return float32(px), float32(py)
}

// ToCourt is the inverse of ToScreen.
func (v Viewport) ToCourt(px, py float64) (float64, float64) {
	x := px/v.Scale - engine.CourtHalfWidth - v.Margin
	z := engine.CourtHalfLen + v.Margin - py/v.Scale
	return x, z
}

// Board palette, shared with the interactive board.
var (
	Background   = color.RGBA{R: 14, G: 18, B: 24, A: 255}
	CourtFill    = color.RGBA{R: 176, G: 120, B: 74, A: 255}
	LineColor    = color.RGBA{R: 240, G: 240, B: 232, A: 255}
	NetColor     = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	ShadowTint   = color.RGBA{R: 20, G: 24, B: 60, A: 255}
	DeadZoneTint = color.RGBA{R: 150, G: 30, B: 40, A: 255}
	PathClear    = color.RGBA{R: 90, G: 220, B: 120, A: 255}
	PathBlocked  = color.RGBA{R: 240, G: 70, B: 60, A: 255}
	BlockerColor = color.RGBA{R: 60, G: 110, B: 230, A: 255}
	DefendColor  = color.RGBA{R: 40, G: 170, B: 190, A: 255}
	BallColor    = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	TargetColor  = color.RGBA{R: 255, G: 255, B: 255, A: 200}
)

// Overlay opacities, matching the board's composite pass.
const (
	ShadowOpacity   = 0.55
	DeadZoneOpacity = 0.35
)
