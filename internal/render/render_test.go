package render

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/go-gl/mathgl/mgl64"
)

func TestViewport_RoundTrip(t *testing.T) {
	vp := DefaultViewport()
	for _, p := range [][2]float64{{0, 0}, {-4.5, 9}, {3.2, -7.7}} {
		px, py := vp.ToScreen(p[0], p[1])
		x, z := vp.ToCourt(float64(px), float64(py))
		if math.Abs(x-p[0]) > 1e-4 || math.Abs(z-p[1]) > 1e-4 {
			t.Fatalf("round trip of %v gave (%.4f, %.4f)", p, x, z)
		}
	}
	if _, netY := vp.ToScreen(0, 0); netY != float32(880)/2 {
		t.Fatalf("net should sit at the vertical centre, got y=%.1f", netY)
	}
}

func TestViewport_AttackSideOnTop(t *testing.T) {
	vp := DefaultViewport()
	_, top := vp.ToScreen(0, 5)
	_, bottom := vp.ToScreen(0, -5)
	if top >= bottom {
		t.Fatalf("attacking half should be drawn above the home half: %.1f vs %.1f", top, bottom)
	}
}

func brightness(img *image.RGBA, vp Viewport, x, z float64) int {
	px, py := vp.ToScreen(x, z)
	c := img.RGBAAt(int(px), int(py))
	return int(c.R) + int(c.G) + int(c.B)
}

func TestScene_ShadowDarkensCourt(t *testing.T) {
	s := engine.Scene{
		Blockers: []engine.Blocker{{Pos: mgl64.Vec2{0, 0}, ReachHeight: 3.1, Radius: 0.35}},
		Ball:     mgl64.Vec3{0, 3, 5},
		Target:   mgl64.Vec2{-3, -6},
		Net:      engine.DefaultNet(engine.NetHeightMen),
		Power:    100,
	}
	o := engine.Compute(s, engine.DefaultTuning())
	vp := DefaultViewport()
	img := Scene(vp, s, o)

	w, h := vp.Size()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Fatalf("image %v, want %dx%d", img.Bounds(), w, h)
	}
	inShadow := brightness(img, vp, 0, -3)
	open := brightness(img, vp, 3.5, -3)
	if inShadow >= open {
		t.Fatalf("shadowed court (%d) should be darker than open court (%d)", inShadow, open)
	}
}

func TestScene_DeadZoneTinted(t *testing.T) {
	s := engine.Scene{
		Ball:             mgl64.Vec3{0, 2.0, 4},
		Target:           mgl64.Vec2{3, 6},
		Net:              engine.DefaultNet(engine.NetHeightMen),
		Power:            100,
		NetShadowEnabled: true,
	}
	o := engine.Compute(s, engine.DefaultTuning())
	vp := DefaultViewport()
	img := Scene(vp, s, o)

	px, py := vp.ToScreen(-2, -5)
	c := img.RGBAAt(int(px), int(py))
	if c.R <= c.B {
		t.Fatalf("dead zone should tint the court red, got %v", c)
	}
	plain := NewCanvas(vp)
	plain.DrawCourt()
	if c == plain.Img.RGBAAt(int(px), int(py)) {
		t.Fatal("dead zone left the court untouched")
	}
}

func TestEncodePNG_Decodes(t *testing.T) {
	c := NewCanvas(Viewport{Scale: 10, Margin: 1})
	c.DrawCourt()
	var buf bytes.Buffer
	if err := EncodePNG(&buf, c.Img); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 110 || img.Bounds().Dy() != 200 {
		t.Fatalf("decoded size %v", img.Bounds())
	}
}
