package framestamp

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// ErrInvalidPath means the input is neither a directory nor a JPEG file.
var ErrInvalidPath = errors.New("path is not a directory or .jpg file")

// Summary counts the outcome of a run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// AddWatermark composes the configured layout for p and returns the image to
// save. p is not modified. A photo missing fields the layout requires yields an
// error wrapping ErrIncomplete.
func AddWatermark(p *Photo, c *Config, a Assets) (image.Image, error) {
	l, err := LayoutByName(c.Layout)
	if err != nil {
		return nil, err
	}

	snap := Extract(p.Exif)
	if c.CameraName != "" {
		snap.Model = Some(c.CameraName)
	}
	if err := snap.Require(l.Required()...); err != nil {
		return nil, err
	}

	src := Normalize(p.Image, snap.Orientation)
	b := src.Bounds()
	g := l.Geometry(b.Dx(), b.Dy())
	klog.V(1).Infof("%s: %s layout, orientation %d, %dx%d -> %dx%d", p.Path, l.Name(), snap.Orientation, b.Dx(), b.Dy(), g.Width, g.Height)

	s := NewSession(g, src, c.Palette(), a)
	if err := l.Compose(s, snap, c); err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	return Restore(s.Canvas, snap.Orientation), nil
}

// ProcessFile watermarks the photo at in and writes it to out, carrying the
// original EXIF block over unchanged.
func ProcessFile(in string, out string, c *Config, a Assets) error {
	p, err := Load(in)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	img, err := AddWatermark(p, c, a)
	if err != nil {
		return err
	}

	if err := Save(out, img, p.Exif, c.Quality); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// record logs the outcome of one photo. Photos missing metadata are skipped,
// and copied unmodified when c.CopySkipped is set.
func (s *Summary) record(in string, out string, err error, c *Config) {
	switch {
	case err == nil:
		s.Processed++
		klog.Infof("wrote %s", out)
	case errors.Is(err, ErrIncomplete):
		s.Skipped++
		klog.Warningf("skipping %s: %v", filepath.Base(in), err)
		if !c.CopySkipped {
			return
		}
		if err := copy.Copy(in, out); err != nil {
			klog.Errorf("copy %s: %v", in, err)
			return
		}
		klog.V(1).Infof("copied %s unmodified", in)
	default:
		s.Failed++
		klog.Errorf("%s: %v", filepath.Base(in), err)
	}
}

// jpegNames returns the JPEG files directly inside dir, sorted by name.
func jpegNames(dir string) ([]string, error) {
	ds, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("read dirents: %w", err)
	}

	names := []string{}
	for _, de := range ds {
		if de.IsDir() || de.Name()[0] == '.' || !isJPEG(de.Name()) {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ProcessDir watermarks every JPEG in dir, one at a time, into the sibling
// output directory. Per-photo failures are logged and counted.
func ProcessDir(dir string, c *Config, a Assets) (Summary, error) {
	sum := Summary{}
	outDir := BatchOutDir(dir, c.Suffix)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return sum, fmt.Errorf("mkdir: %w", err)
	}

	names, err := jpegNames(dir)
	if err != nil {
		return sum, err
	}
	klog.Infof("processing %d photos: %s -> %s", len(names), dir, outDir)

	for _, n := range names {
		in := filepath.Join(dir, n)
		out := filepath.Join(outDir, n)
		sum.record(in, out, ProcessFile(in, out, c, a), c)
	}

	klog.Infof("done: %d written, %d skipped, %d failed", sum.Processed, sum.Skipped, sum.Failed)
	return sum, nil
}

// Run processes path as a directory (batch mode) or a single JPEG file.
func Run(path string, c *Config, a Assets) (Summary, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	if st.IsDir() {
		return ProcessDir(path, c, a)
	}

	if !st.Mode().IsRegular() || !isJPEG(path) {
		return Summary{}, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	sum := Summary{}
	out := SingleOutPath(path, c.Suffix)
	sum.record(path, out, ProcessFile(path, out, c, a), c)
	return sum, nil
}
