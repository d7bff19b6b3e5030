package framestamp

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
)

// Layout is a watermark style: the canvas it builds and what it draws there.
type Layout interface {
	Name() string
	// Geometry returns the canvas for an upright photo of w x h pixels.
	Geometry(w, h int) Geometry
	// Required lists the fields a photo must carry to be captioned.
	Required() []Field
	Compose(s *Session, snap Snapshot, c *Config) error
}

var (
	// WideStrip adds an 11.5% strip below the photo: model and time on the
	// left; exposure, place, divider and logo on the right.
	WideStrip Layout = wideStrip{}
	// CompactDot adds a 12% strip with a "Shot on" label on the left and
	// exposure parameters, a colored dot and logo on the right.
	CompactDot Layout = compactDot{}
	// SquareFrame centers the photo in a square frame with stacked logos and
	// captions below.
	SquareFrame Layout = squareFrame{}
)

var layouts = map[string]Layout{
	WideStrip.Name():   WideStrip,
	CompactDot.Name():  CompactDot,
	SquareFrame.Name(): SquareFrame,
}

// LayoutByName returns the named layout.
func LayoutByName(name string) (Layout, error) {
	l, ok := layouts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q, want one of %s", name, strings.Join(LayoutNames(), ", "))
	}
	return l, nil
}

// LayoutNames returns the known layout names, sorted.
func LayoutNames() []string {
	ns := []string{}
	for n := range layouts {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

// strip builds a canvas as wide as the photo and scale times as tall, with
// the caption band below the photo.
func strip(w, h int, scale float64) Geometry {
	nh := int(math.Round(float64(h) * scale))
	return Geometry{
		Width:  w,
		Height: nh,
		Band:   Band{Top: float64(h), Height: float64(nh - h), Width: float64(w)},
	}
}

// raster loads an optional graphic; an empty path yields nil.
func raster(a Assets, path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	img, err := a.Raster(path)
	if err != nil {
		return nil, fmt.Errorf("raster %q: %w", path, err)
	}
	return img, nil
}

type wideStrip struct{}

func (wideStrip) Name() string { return "wide" }

func (wideStrip) Geometry(w, h int) Geometry {
	g := strip(w, h, 1.115)
	g.FontRef = float64(h)
	return g
}

func (wideStrip) Required() []Field {
	return []Field{FieldExposure, FieldFNumber, FieldISO, FieldTaken}
}

func (wideStrip) Compose(s *Session, snap Snapshot, c *Config) error {
	p := s.palette

	x, err := s.DrawText(Text{S: snap.Model.Value, Weight: Bold, Size: 2.1, X: 0.35, Y: 3})
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if _, err := s.DrawText(Text{S: snap.Taken.Value, Size: 1.55, X: x, AbsX: true, Y: 6.5, Color: p.Secondary}); err != nil {
		return fmt.Errorf("time: %w", err)
	}

	params := fmt.Sprintf("%s %s %s",
		FormatFNumber(snap.FNumber.Value), FormatExposure(snap.Exposure.Value, false), FormatISO(snap.ISO.Value))
	x, err = s.DrawText(Text{S: params, Weight: Bold, Size: 2.1, X: 9.5, Y: 3.2})
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}
	place := FormatGPS(snap.Latitude, snap.Longitude, c.Place)
	if _, err := s.DrawText(Text{S: place, Size: 1.55, X: x, AbsX: true, Y: 6.7, Color: p.Secondary}); err != nil {
		return fmt.Errorf("place: %w", err)
	}

	s.DrawDivider(x)

	logo, err := raster(s.assets, c.Logo)
	if err != nil || logo == nil {
		return err
	}
	ch := float64(s.Canvas.Bounds().Dy())
	s.PasteLogo(logo, 0.045, func(sz image.Point) image.Point {
		w := float64(sz.X)
		return image.Pt(int(x-w-w*0.5), int(ch*0.974-float64(sz.Y)))
	})
	return nil
}

type compactDot struct{}

func (compactDot) Name() string { return "compact" }

func (compactDot) Geometry(w, h int) Geometry {
	g := strip(w, h, 1.12)
	g.FontRef = float64(g.Height)
	return g
}

func (compactDot) Required() []Field {
	return []Field{FieldExposure, FieldFNumber, FieldISO, FieldFocal}
}

func (compactDot) Compose(s *Session, snap Snapshot, c *Config) error {
	if _, err := s.DrawText(Text{S: shotOn(snap), Weight: Bold, Size: 2.6, X: 0.5, Y: 5}); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	params := strings.Join([]string{
		FormatFocal(snap.Focal.Value),
		FormatFNumber(snap.FNumber.Value),
		FormatExposure(snap.Exposure.Value, true),
		FormatISO(snap.ISO.Value),
	}, "  ")
	x, err := s.DrawText(Text{S: params, Weight: Bold, Size: 1.6, X: 9.5, Y: 7, Color: paramGray})
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}

	s.DrawDot(x, dotOrange)

	logo, err := raster(s.assets, c.Logo)
	if err != nil || logo == nil {
		return err
	}
	ch := float64(s.Canvas.Bounds().Dy())
	s.PasteLogo(logo, 0.039, func(sz image.Point) image.Point {
		return image.Pt(int(x-float64(sz.X)*0.1), int(ch*0.952-float64(sz.Y)))
	})
	return nil
}

type squareFrame struct{}

func (squareFrame) Name() string { return "square" }

// The square's mark hangs from squareMarkBase of the side and the brand logo
// sits below it.
const (
	squareMarkBase   = 0.854
	squareMarkHeight = 0.085
)

// squareMarkTop is the y coordinate of the mark's top edge on a square of
// the given side.
func squareMarkTop(side int) int {
	s := float64(side)
	return int(s*squareMarkBase - float64(max(int(s*squareMarkHeight), 1)))
}

// Geometry sizes the square from the longer edge, so tall photos fit too.
// The photo sits one margin from the top, centered horizontally. When the
// photo would reach the mark, the square grows until the band clears it; the
// band's text width grows with it.
func (squareFrame) Geometry(w, h int) Geometry {
	ref := max(w, h)
	base := int(math.Round(float64(ref) * 1.117))
	margin := int(math.Round(float64(ref) * 0.117 / 2))

	side := base
	for squareMarkTop(side) < margin+h {
		side++
	}

	return Geometry{
		Width:   side,
		Height:  side,
		Offset:  image.Pt(margin+(ref-w)/2+(side-base)/2, margin),
		Band:    Band{Top: float64(h), Height: float64(side - h), Width: float64(ref) * float64(side) / float64(base)},
		FontRef: float64(side),
	}
}

func (squareFrame) Required() []Field {
	return []Field{FieldFNumber, FieldModel}
}

func (squareFrame) Compose(s *Session, snap Snapshot, c *Config) error {
	side := float64(s.Canvas.Bounds().Dy())

	mark, err := raster(s.assets, c.Mark)
	if err != nil {
		return err
	}
	if mark != nil {
		s.PasteLogo(mark, squareMarkHeight, func(sz image.Point) image.Point {
			return image.Pt(int(side*0.41), int(side*squareMarkBase-float64(sz.Y)))
		})
	}

	logo, err := raster(s.assets, c.Logo)
	if err != nil {
		return err
	}
	if logo != nil {
		s.PasteLogo(logo, 0.031, func(sz image.Point) image.Point {
			return image.Pt(int(side*0.275), int(side*0.90-float64(sz.Y))+1)
		})
	}

	if _, err := s.DrawText(Text{S: shotOn(snap), Size: 2.1, X: 7.2, Y: 6.544}); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	params := []string{}
	if f, ok := snap.Focal.Get(); ok {
		params = append(params, FormatFocal(f))
	}
	params = append(params, FormatFNumber(snap.FNumber.Value))
	if e, ok := snap.Exposure.Get(); ok {
		params = append(params, FormatExposure(e, true))
	}
	if iso, ok := snap.ISO.Get(); ok {
		params = append(params, FormatISO(iso))
	}
	if _, err := s.DrawText(Text{S: strings.Join(params, " "), Size: 1.6, X: 5.35, Y: 8.75, Color: paramGray}); err != nil {
		return fmt.Errorf("params: %w", err)
	}
	return nil
}

func shotOn(snap Snapshot) string {
	m, ok := snap.Model.Get()
	if !ok || m == "" {
		return ""
	}
	return "Shot on " + m
}
