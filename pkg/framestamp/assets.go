package framestamp

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"k8s.io/klog/v2"
)

// Weight selects a caption font.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// Assets loads fonts and raster graphics for a composition.
type Assets interface {
	// Face returns a face whose em height is px pixels.
	Face(w Weight, px float64) (font.Face, error)
	Raster(path string) (image.Image, error)
}

// FS loads assets from the filesystem. An empty font path selects the
// embedded Go fonts.
type FS struct {
	Regular string
	Bold    string

	fonts   map[Weight]*opentype.Font
	rasters map[string]image.Image
}

// NewFS returns an asset loader for the given font files.
func NewFS(regular string, bold string) *FS {
	return &FS{
		Regular: regular,
		Bold:    bold,
		fonts:   map[Weight]*opentype.Font{},
		rasters: map[string]image.Image{},
	}
}

// Face implements Assets.
func (a *FS) Face(w Weight, px float64) (font.Face, error) {
	f, err := a.font(w)
	if err != nil {
		return nil, err
	}
	if px < 1 {
		px = 1
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

func (a *FS) font(w Weight) (*opentype.Font, error) {
	if a.fonts == nil {
		a.fonts = map[Weight]*opentype.Font{}
	}
	if f, ok := a.fonts[w]; ok {
		return f, nil
	}

	path := a.Regular
	embedded := goregular.TTF
	if w == Bold {
		path = a.Bold
		embedded = gobold.TTF
	}

	bs := embedded
	if path != "" {
		var err error
		bs, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}

	f, err := parseFont(bs)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	klog.V(1).Infof("loaded font %q (weight %d)", path, w)
	a.fonts[w] = f
	return f, nil
}

// parseFont accepts single fonts and font collections, taking the first face
// of a collection.
func parseFont(bs []byte) (*opentype.Font, error) {
	if !bytes.HasPrefix(bs, []byte("ttcf")) {
		return opentype.Parse(bs)
	}
	c, err := opentype.ParseCollection(bs)
	if err != nil {
		return nil, err
	}
	return c.Font(0)
}

// Raster implements Assets.
func (a *FS) Raster(path string) (image.Image, error) {
	if a.rasters == nil {
		a.rasters = map[string]image.Image{}
	}
	if img, ok := a.rasters[path]; ok {
		return img, nil
	}
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}
	a.rasters[path] = img
	return img, nil
}
