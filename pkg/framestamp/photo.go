package framestamp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/garyhouston/jpegsegs"
	"k8s.io/klog/v2"
)

// exifHeader prefixes the EXIF payload of an APP1 segment.
var exifHeader = []byte("Exif\x00\x00")

// Photo is a decoded source photo. Image is never drawn into.
type Photo struct {
	Path string
	Dir  string

	Image image.Image
	// Exif is the raw APP1 payload, including the "Exif\0\0" header. It is
	// written back to the output untouched.
	Exif []byte

	Width  int
	Height int
}

// Load decodes a JPEG and its raw EXIF block.
func Load(path string) (*Photo, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}

	raw, err := readExif(path)
	if err != nil {
		return nil, fmt.Errorf("read exif: %w", err)
	}
	if raw == nil {
		klog.V(1).Infof("%s has no EXIF block", path)
	}

	b := img.Bounds()
	return &Photo{
		Path:   path,
		Dir:    filepath.Dir(path),
		Image:  img,
		Exif:   raw,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// readExif returns the first APP1 EXIF payload found before the start of scan,
// or nil if there is none.
func readExif(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	scanner, err := jpegsegs.NewScanner(f)
	if err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}

	for {
		marker, buf, err := scanner.Scan()
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if marker == jpegsegs.SOS {
			return nil, nil
		}
		if marker == jpegsegs.APP0+1 && bytes.HasPrefix(buf, exifHeader) {
			// buf is only valid until the next Scan
			out := make([]byte, len(buf))
			copy(out, buf)
			return out, nil
		}
	}
}

// Save encodes img as a JPEG at path with exif spliced in as the APP1 segment.
// The file is written to a temporary name in the same directory and renamed
// into place, so a failed save leaves no partial output.
func Save(path string, img image.Image, exif []byte, quality int) error {
	var enc bytes.Buffer
	if err := imgio.JPEGEncoder(quality)(&enc, img); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	encoded := enc.Bytes()
	if len(encoded) < jpegsegs.HeaderSize || !jpegsegs.IsJPEGHeader(encoded) {
		return errors.New("encoder produced no JPEG header")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	dumper, err := jpegsegs.NewDumper(w)
	if err != nil {
		return fmt.Errorf("dumper: %w", err)
	}
	if len(exif) > 0 {
		if err := dumper.Dump(jpegsegs.APP0+1, exif); err != nil {
			return fmt.Errorf("dump exif: %w", err)
		}
	}
	if _, err := w.Write(encoded[jpegsegs.HeaderSize:]); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	renamed = true

	klog.V(1).Infof("saved %s (%dx%d, %d bytes of EXIF)", path, img.Bounds().Dx(), img.Bounds().Dy(), len(exif))
	return nil
}
