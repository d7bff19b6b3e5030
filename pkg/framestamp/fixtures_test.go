package framestamp

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"
)

// TIFF field types
const (
	tASCII    = 2
	tShort    = 3
	tLong     = 4
	tRational = 5
)

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func ascii(tag uint16, s string) entry {
	return entry{tag: tag, typ: tASCII, count: uint32(len(s) + 1), data: append([]byte(s), 0)}
}

func short(tag uint16, v uint16) entry {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return entry{tag: tag, typ: tShort, count: 1, data: b}
}

func long(tag uint16, v uint32) entry {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return entry{tag: tag, typ: tLong, count: 1, data: b}
}

func rationals(tag uint16, rs ...Rational) entry {
	b := make([]byte, 8*len(rs))
	for i, r := range rs {
		binary.LittleEndian.PutUint32(b[8*i:], uint32(r.Num))
		binary.LittleEndian.PutUint32(b[8*i+4:], uint32(r.Den))
	}
	return entry{tag: tag, typ: tRational, count: uint32(len(rs)), data: b}
}

// exifSpec describes the tags of a synthetic EXIF block. Entries within each
// IFD must be in ascending tag order.
type exifSpec struct {
	ifd0 []entry
	sub  []entry
	gps  []entry
}

func ifdSize(n int) int {
	return 2 + 12*n + 4
}

// bytes encodes the tag set as an APP1 payload: "Exif\0\0" and a little-endian
// TIFF structure with IFD0 pointing at the Exif and GPS IFDs.
func (s exifSpec) bytes() []byte {
	ifd0 := append([]entry{}, s.ifd0...)
	n0 := len(ifd0)
	if len(s.sub) > 0 {
		n0++
	}
	if len(s.gps) > 0 {
		n0++
	}

	subOff := 8 + ifdSize(n0)
	gpsOff := subOff
	if len(s.sub) > 0 {
		gpsOff += ifdSize(len(s.sub))
		ifd0 = append(ifd0, long(0x8769, uint32(subOff)))
	}
	dataOff := gpsOff
	if len(s.gps) > 0 {
		dataOff += ifdSize(len(s.gps))
		ifd0 = append(ifd0, long(0x8825, uint32(gpsOff)))
	}

	le := binary.LittleEndian
	var head, data bytes.Buffer
	head.WriteString("II")
	binary.Write(&head, le, uint16(42))
	binary.Write(&head, le, uint32(8))

	writeIFD := func(es []entry) {
		binary.Write(&head, le, uint16(len(es)))
		for _, e := range es {
			binary.Write(&head, le, e.tag)
			binary.Write(&head, le, e.typ)
			binary.Write(&head, le, e.count)
			if len(e.data) <= 4 {
				v := make([]byte, 4)
				copy(v, e.data)
				head.Write(v)
				continue
			}
			binary.Write(&head, le, uint32(dataOff+data.Len()))
			data.Write(e.data)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		}
		binary.Write(&head, le, uint32(0))
	}

	writeIFD(ifd0)
	if len(s.sub) > 0 {
		writeIFD(s.sub)
	}
	if len(s.gps) > 0 {
		writeIFD(s.gps)
	}

	out := append([]byte{}, exifHeader...)
	out = append(out, head.Bytes()...)
	return append(out, data.Bytes()...)
}

// fullSpec returns a block carrying every field any layout needs.
func fullSpec(orientation uint16) exifSpec {
	return exifSpec{
		ifd0: []entry{
			ascii(0x0110, "Mi 11 Pro"),
			short(0x0112, orientation),
			ascii(0x0132, "2023:05:10 18:43:00"),
		},
		sub: []entry{
			rationals(0x829a, Rational{1, 500}),
			rationals(0x829d, Rational{28, 10}),
			short(0x8827, 100),
			rationals(0x920a, Rational{47, 10}),
		},
		gps: []entry{
			ascii(0x0001, "N"),
			rationals(0x0002, Rational{31, 1}, Rational{14, 1}, Rational{0, 1}),
			ascii(0x0003, "E"),
			rationals(0x0004, Rational{121, 1}, Rational{28, 1}, Rational{3015, 100}),
		},
	}
}

// without returns a copy of s with the given Exif IFD tag removed.
func (s exifSpec) without(tag uint16) exifSpec {
	out := s
	out.sub = nil
	for _, e := range s.sub {
		if e.tag != tag {
			out.sub = append(out.sub, e)
		}
	}
	return out
}

// halves returns a w x h image, red on the left half and blue on the right.
func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.NewUniform(color.RGBA{255, 0, 0, 255}), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w/2, 0, w, h), image.NewUniform(color.RGBA{0, 0, 255, 255}), image.Point{}, draw.Src)
	return img
}

// writePhoto saves a JPEG fixture and returns its path.
func writePhoto(t *testing.T, dir string, name string, img image.Image, exif []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := Save(p, img, exif, 90); err != nil {
		t.Fatalf("Save(%s): %v", p, err)
	}
	return p
}

// near reports whether two colors are within tol per channel, to allow for
// JPEG loss and antialiasing.
func near(a color.Color, b color.Color, tol uint32) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	diff := func(x, y uint32) uint32 {
		if x > y {
			return (x - y) >> 8
		}
		return (y - x) >> 8
	}
	return diff(ar, br) <= tol && diff(ag, bg) <= tol && diff(ab, bb) <= tol
}
