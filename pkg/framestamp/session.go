package framestamp

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"k8s.io/klog/v2"
)

// Band is the region proportional text coordinates are mapped onto.
type Band struct {
	// Top is the y coordinate where the caption band starts.
	Top    float64
	Height float64
	// Width is the horizontal span x in [0,10] is spread across.
	Width float64
}

// Geometry is the canvas a layout builds for one photo.
type Geometry struct {
	Width  int
	Height int
	// Offset is where the photo is pasted.
	Offset image.Point
	Band   Band
	// FontRef is the dimension text sizes are a percentage of.
	FontRef float64
}

// Session owns the canvas for one photo and draws captions into it.
type Session struct {
	Canvas *image.RGBA

	geo     Geometry
	palette Palette
	assets  Assets
}

// NewSession allocates a canvas filled with the background color and pastes
// src onto it. src is not modified.
func NewSession(g Geometry, src image.Image, p Palette, a Assets) *Session {
	canvas := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)

	sb := src.Bounds()
	draw.Draw(canvas, sb.Sub(sb.Min).Add(g.Offset), src, sb.Min, draw.Src)

	return &Session{Canvas: canvas, geo: g, palette: p, assets: a}
}

// Text is a caption to draw.
type Text struct {
	S      string
	Weight Weight
	// Size is the font height as a percentage of the geometry's FontRef.
	Size float64
	// X and Y are in [0,10]: 0 is flush with the band start, 10 flush with
	// its end.
	X float64
	Y float64
	// AbsX treats X as an absolute cursor returned by an earlier DrawText.
	AbsX  bool
	Color color.Color
}

// DrawText draws t and returns its absolute x coordinate.
func (s *Session) DrawText(t Text) (float64, error) {
	px := math.Round(s.geo.FontRef * 0.01 * t.Size)
	face, err := s.assets.Face(t.Weight, px)
	if err != nil {
		return 0, fmt.Errorf("face: %w", err)
	}
	defer face.Close()

	c := t.Color
	if c == nil {
		c = s.palette.Foreground
	}

	d := &font.Drawer{Dst: s.Canvas, Src: image.NewUniform(c), Face: face}
	m := face.Metrics()
	w := float64(d.MeasureString(t.S).Ceil())
	h := float64((m.Ascent + m.Descent).Ceil())

	x := t.X
	if !t.AbsX {
		x = (s.geo.Band.Width - w) * 0.1 * t.X
	}
	y := s.geo.Band.Top + (s.geo.Band.Height-h)*0.1*t.Y

	// Dot is the baseline origin; y is the top of the text box.
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y*64) + m.Ascent}
	d.DrawString(t.S)

	klog.V(2).Infof("text %q at (%.1f, %.1f) %.0fpx, %.0fx%.0f", t.S, x, y, px, w, h)
	return x, nil
}

// DrawDivider draws a thin vertical bar left of x, near the canvas bottom.
func (s *Session) DrawDivider(x float64) image.Rectangle {
	ch := float64(s.Canvas.Bounds().Dy())
	lw := max(int(ch*0.05/30), 1)
	lh := int(ch * 0.04)

	at := image.Pt(int(x-float64(lw)*6), int(ch*0.97-float64(lh)))
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(lw, lh))}
	draw.Draw(s.Canvas, r, image.NewUniform(s.palette.Divider), image.Point{}, draw.Src)
	return r
}

// DrawDot draws a filled circle of color c left of x, near the canvas bottom.
func (s *Session) DrawDot(x float64, c color.Color) image.Rectangle {
	ch := float64(s.Canvas.Bounds().Dy())
	r := max(int(ch*0.010), 1)
	fr := float64(r)

	left := int(x - fr*6 - fr + fr*3.75)
	top := int(ch*0.97 - fr*1.7)

	mask := &circle{center: image.Pt(left+r, top+r), r: r}
	draw.DrawMask(s.Canvas, mask.Bounds(), image.NewUniform(c), image.Point{}, mask, mask.Bounds().Min, draw.Over)
	return mask.Bounds()
}

// PasteLogo scales img to height times the canvas height, keeping its aspect
// ratio, and pastes it where at places it given the scaled size. Rasters with
// transparency are alpha-composited; opaque ones are pasted as-is.
func (s *Session) PasteLogo(img image.Image, height float64, at func(size image.Point) image.Point) image.Rectangle {
	ch := float64(s.Canvas.Bounds().Dy())
	nh := max(int(ch*height), 1)
	b := img.Bounds()
	nw := max(int(float64(b.Dx())*float64(nh)/float64(b.Dy())), 1)

	scaled := transform.Resize(img, nw, nh, transform.Lanczos)
	r := scaled.Bounds().Add(at(image.Pt(nw, nh)))

	// bild always returns RGBA, so transparency is judged on the source
	alpha := hasAlpha(img)
	op := draw.Src
	if alpha {
		op = draw.Over
	}
	klog.V(2).Infof("logo %dx%d at %v, alpha %v", nw, nh, r.Min, alpha)
	draw.Draw(s.Canvas, r, scaled, scaled.Bounds().Min, op)
	return r
}

// hasAlpha reports whether img's color model can carry transparency.
func hasAlpha(img image.Image) bool {
	switch m := img.ColorModel().(type) {
	case color.Palette:
		for _, c := range m {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}

	switch img.ColorModel() {
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true
	}
	return false
}

// circle is a disc-shaped alpha mask.
type circle struct {
	center image.Point
	r      int
}

func (c *circle) ColorModel() color.Model {
	return color.AlphaModel
}

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.center.X-c.r, c.center.Y-c.r, c.center.X+c.r, c.center.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	dx := float64(x-c.center.X) + 0.5
	dy := float64(y-c.center.Y) + 0.5
	rr := float64(c.r)
	if dx*dx+dy*dy < rr*rr {
		return color.Alpha{255}
	}
	return color.Alpha{0}
}
