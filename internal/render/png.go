package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Canvas rasterizes court-space shapes onto an RGBA image.
type Canvas struct {
	Img *image.RGBA
	vp  Viewport
	r   *vector.Rasterizer
}

// NewCanvas returns a canvas sized for vp, filled with the background.
func NewCanvas(vp Viewport) *Canvas {
	w, h := vp.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	return &Canvas{Img: img, vp: vp, r: vector.NewRasterizer(w, h)}
}

func withAlpha(c color.RGBA, opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(255 * mgl64.Clamp(opacity, 0, 1)))}
}

// FillPolygon fills a closed court-space polygon.
func (c *Canvas) FillPolygon(pts []mgl64.Vec2, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b := c.Img.Bounds()
	c.r.Reset(b.Dx(), b.Dy())
	x, y := c.vp.ToScreen(pts[0].X(), pts[0].Y())
	c.r.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = c.vp.ToScreen(p.X(), p.Y())
		c.r.LineTo(x, y)
	}
	c.r.ClosePath()
	c.r.Draw(c.Img, b, image.NewUniform(col), image.Point{})
}

// StrokeSegment draws a court-space segment widthPx pixels wide.
func (c *Canvas) StrokeSegment(a, b mgl64.Vec2, widthPx float64, col color.Color) {
	d := b.Sub(a)
	if d.Len() < 1e-9 {
		return
	}
	half := widthPx / 2 / c.vp.Scale
	n := mgl64.Vec2{-d.Y(), d.X()}.Normalize().Mul(half)
	c.FillPolygon([]mgl64.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, col)
}

// FillCircle fills a court-space disc of radius r metres.
func (c *Canvas) FillCircle(center mgl64.Vec2, r float64, col color.Color) {
	const steps = 24
	pts := make([]mgl64.Vec2, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / steps
		pts[i] = center.Add(mgl64.Vec2{math.Cos(a) * r, math.Sin(a) * r})
	}
	c.FillPolygon(pts, col)
}

// Label draws text with its baseline-left corner at a court position.
func (c *Canvas) Label(at mgl64.Vec2, s string, col color.Color) {
	x, y := c.vp.ToScreen(at.X(), at.Y())
	d := &font.Drawer{
		Dst:  c.Img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(s)
}

func groundPoly(p engine.Polygon) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(p))
	for i, v := range p {
		out[i] = mgl64.Vec2{v.X(), v.Z()}
	}
	return out
}

// DrawCourt paints the court surface, boundary, attack lines and net.
func (c *Canvas) DrawCourt() {
	hw, hl := engine.CourtHalfWidth, engine.CourtHalfLen
	c.FillPolygon([]mgl64.Vec2{{-hw, -hl}, {hw, -hl}, {hw, hl}, {-hw, hl}}, CourtFill)
	corners := []mgl64.Vec2{{-hw, -hl}, {hw, -hl}, {hw, hl}, {-hw, hl}}
	for i := range corners {
		c.StrokeSegment(corners[i], corners[(i+1)%len(corners)], 2, LineColor)
	}
	for _, z := range []float64{engine.AttackLineZ, -engine.AttackLineZ} {
		c.StrokeSegment(mgl64.Vec2{-hw, z}, mgl64.Vec2{hw, z}, 1.5, LineColor)
	}
	nw := hw + engine.NetOverhang
	c.StrokeSegment(mgl64.Vec2{-nw, 0}, mgl64.Vec2{nw, 0}, 4, NetColor)
}

// DrawOverlay paints the dead zone, shadows, flight path, blockers, ball and
// target of one computed scene.
func (c *Canvas) DrawOverlay(s engine.Scene, o engine.Overlay) {
	if len(o.DeadZone) > 0 {
		c.FillPolygon(groundPoly(o.DeadZone), withAlpha(DeadZoneTint, DeadZoneOpacity))
	}
	for _, p := range o.Shadows {
		c.FillPolygon(groundPoly(p.Vertices), withAlpha(ShadowTint, ShadowOpacity))
	}

	pathCol := PathClear
	if o.Blocked {
		pathCol = PathBlocked
	}
	for i := 1; i < len(o.Path); i++ {
		a, b := o.Path[i-1], o.Path[i]
		c.StrokeSegment(mgl64.Vec2{a.X(), a.Z()}, mgl64.Vec2{b.X(), b.Z()}, 2, pathCol)
	}
	if o.Blocked && len(o.Path) > 0 {
		end := o.Path[len(o.Path)-1]
		c.FillCircle(mgl64.Vec2{end.X(), end.Z()}, 0.18, PathBlocked)
	}

	c.FillCircle(s.Target, 0.2, TargetColor)
	for i, b := range s.Blockers {
		c.FillCircle(b.Pos, b.Radius, BlockerColor)
		c.Label(b.Pos.Add(mgl64.Vec2{b.Radius + 0.1, -0.1}), fmt.Sprintf("B%d", i), LineColor)
	}
	c.FillCircle(mgl64.Vec2{s.Ball.X(), s.Ball.Z()}, 0.22, BallColor)
	c.Label(mgl64.Vec2{s.Ball.X() + 0.35, s.Ball.Z() - 0.1}, fmt.Sprintf("%.1fm", s.Ball.Y()), BallColor)
}

// Scene renders a full board image for s and its overlay.
func Scene(vp Viewport, s engine.Scene, o engine.Overlay) *image.RGBA {
	c := NewCanvas(vp)
	c.DrawCourt()
	c.DrawOverlay(s, o)
	return c.Img
}

// EncodePNG writes img as PNG to w.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG writes img to path, replacing any existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
