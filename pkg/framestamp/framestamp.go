// Package framestamp adds camera-style information strips to JPEG photos.
package framestamp

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
)

// DefaultSuffix marks watermarked output files and directories.
var DefaultSuffix = "watermarked"

// DefaultPlace is drawn in place of coordinates when a photo has no GPS data.
var DefaultPlace = "Somewhere on a small blue planet"

// Config holds configuration for framestamp.
type Config struct {
	Layout string
	Dark   bool

	// CameraName overrides the EXIF camera model.
	CameraName string
	// Place is the fallback location string.
	Place string

	Logo string
	Mark string

	Quality     int
	Suffix      string
	CopySkipped bool
}

// Palette are the colors derived from Config.Dark.
type Palette struct {
	Background color.RGBA
	Foreground color.RGBA
	Secondary  color.RGBA
	Divider    color.RGBA
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}

	paramGray = color.RGBA{79, 79, 79, 255}
	dotOrange = color.RGBA{248, 140, 67, 255}
)

// Palette returns the colors for the configured mode.
func (c *Config) Palette() Palette {
	if c.Dark {
		return Palette{
			Background: black,
			Foreground: white,
			Secondary:  white,
			Divider:    color.RGBA{51, 51, 51, 255},
		}
	}
	return Palette{
		Background: white,
		Foreground: black,
		Secondary:  color.RGBA{134, 134, 134, 255},
		Divider:    color.RGBA{211, 211, 211, 255},
	}
}

// Validate fills in defaults and checks the layout name.
func (c *Config) Validate() error {
	if c.Layout == "" {
		c.Layout = WideStrip.Name()
	}
	if _, err := LayoutByName(c.Layout); err != nil {
		return err
	}
	if c.Place == "" {
		c.Place = DefaultPlace
	}
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	if c.Quality == 0 {
		c.Quality = 95
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range 1-100", c.Quality)
	}
	return nil
}

// BatchOutDir returns the sibling directory batch output is written to.
func BatchOutDir(dir string, suffix string) string {
	return filepath.Clean(dir) + "-" + suffix
}

// SingleOutPath returns the output path for a single-image run: the input's
// directory, with the suffix appended to the file stem.
func SingleOutPath(path string, suffix string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("%s-%s%s", stem, suffix, ext))
}

// isJPEG reports whether a file name carries a JPEG extension.
func isJPEG(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}
