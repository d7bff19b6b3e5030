package framestamp

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

// ErrIncomplete means a photo lacks EXIF fields its layout requires.
var ErrIncomplete = errors.New("parameters incomplete")

// Optional is a value that may be absent.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Rational is an EXIF numerator/denominator pair.
type Rational struct {
	Num int64
	Den int64
}

// Float returns the rational as a float, or 0 for a zero denominator.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Coordinate is a GPS latitude or longitude: degrees, minutes, seconds and
// the hemisphere reference (N, S, E or W) when recorded.
type Coordinate struct {
	DMS [3]Rational
	Ref string
}

// Snapshot holds the EXIF fields used for captions. Every field may be absent;
// Orientation defaults to Normal.
type Snapshot struct {
	Orientation Orientation

	Taken Optional[string]
	Model Optional[string]

	Exposure Optional[Rational]
	FNumber  Optional[Rational]
	ISO      Optional[int]
	Focal    Optional[Rational]

	Latitude  Optional[Coordinate]
	Longitude Optional[Coordinate]
}

// Field names a caption field a layout may require.
type Field int

const (
	FieldTaken Field = iota
	FieldModel
	FieldExposure
	FieldFNumber
	FieldISO
	FieldFocal
)

var fieldNames = map[Field]string{
	FieldTaken:    "DateTime",
	FieldModel:    "Model",
	FieldExposure: "ExposureTime",
	FieldFNumber:  "FNumber",
	FieldISO:      "ISOSpeedRatings",
	FieldFocal:    "FocalLength",
}

func (f Field) String() string {
	return fieldNames[f]
}

func (s Snapshot) has(f Field) bool {
	switch f {
	case FieldTaken:
		return s.Taken.Valid
	case FieldModel:
		return s.Model.Valid
	case FieldExposure:
		return s.Exposure.Valid
	case FieldFNumber:
		return s.FNumber.Valid
	case FieldISO:
		return s.ISO.Valid
	case FieldFocal:
		return s.Focal.Valid
	}
	return false
}

// Require returns an ErrIncomplete naming every absent field, or nil.
func (s Snapshot) Require(fields ...Field) error {
	missing := []string{}
	for _, f := range fields {
		if !s.has(f) {
			missing = append(missing, f.String())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
}

// Extract decodes a raw APP1 EXIF payload. A nil or undecodable block yields
// a snapshot with every field absent.
func Extract(raw []byte) Snapshot {
	s := Snapshot{Orientation: Normal}
	if len(raw) == 0 {
		return s
	}

	x, err := exif.Decode(bytes.NewReader(bytes.TrimPrefix(raw, exifHeader)))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		klog.Warningf("unable to decode EXIF: %v", err)
		return s
	}
	if err != nil {
		klog.V(1).Infof("partial EXIF decode: %v", err)
	}

	if t, ok := tag(x, exif.Orientation); ok {
		if v, err := t.Int(0); err == nil && v >= int(Normal) && v <= int(Rotate90) {
			s.Orientation = Orientation(v)
		}
	}

	s.Taken = str(x, exif.DateTime)
	s.Model = str(x, exif.Model)
	s.Exposure = rat(x, exif.ExposureTime)
	s.FNumber = rat(x, exif.FNumber)
	s.Focal = rat(x, exif.FocalLength)

	if t, ok := tag(x, exif.ISOSpeedRatings); ok {
		if v, err := t.Int(0); err == nil {
			s.ISO = Some(v)
		}
	}

	s.Latitude = coord(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	s.Longitude = coord(x, exif.GPSLongitude, exif.GPSLongitudeRef)
	return s
}

func tag(x *exif.Exif, name exif.FieldName) (*tiff.Tag, bool) {
	t, err := x.Get(name)
	if err != nil {
		klog.V(2).Infof("no %s: %v", name, err)
		return nil, false
	}
	return t, true
}

func str(x *exif.Exif, name exif.FieldName) Optional[string] {
	t, ok := tag(x, name)
	if !ok {
		return Optional[string]{}
	}
	v, err := t.StringVal()
	if err != nil {
		klog.V(1).Infof("%s is not a string: %v", name, err)
		return Optional[string]{}
	}
	return Some(strings.TrimRight(v, "\x00 "))
}

func rat(x *exif.Exif, name exif.FieldName) Optional[Rational] {
	t, ok := tag(x, name)
	if !ok {
		return Optional[Rational]{}
	}
	n, d, err := t.Rat2(0)
	if err != nil {
		klog.V(1).Infof("%s is not rational: %v", name, err)
		return Optional[Rational]{}
	}
	return Some(Rational{Num: n, Den: d})
}

func coord(x *exif.Exif, name exif.FieldName, ref exif.FieldName) Optional[Coordinate] {
	t, ok := tag(x, name)
	if !ok || t.Count < 3 {
		return Optional[Coordinate]{}
	}
	c := Coordinate{}
	for i := range c.DMS {
		n, d, err := t.Rat2(i)
		if err != nil {
			klog.V(1).Infof("%s[%d] is not rational: %v", name, i, err)
			return Optional[Coordinate]{}
		}
		c.DMS[i] = Rational{Num: n, Den: d}
	}
	if r, ok := str(x, ref).Get(); ok {
		c.Ref = r
	}
	return Some(c)
}

// FormatExposure renders an exposure time as 1/N, rounding N to the nearest
// integer. Exposures of a second or longer render as plain seconds. unit
// appends an "s".
func FormatExposure(r Rational, unit bool) string {
	var s string
	switch {
	case r.Num <= 0 || r.Den <= 0:
		s = "0"
	case r.Num >= r.Den:
		s = strconv.FormatFloat(r.Float(), 'f', -1, 64)
	default:
		s = fmt.Sprintf("1/%d", int64(math.Round(float64(r.Den)/float64(r.Num))))
	}
	if unit {
		s += "s"
	}
	return s
}

// FormatFNumber renders an aperture as f/X.XX.
func FormatFNumber(r Rational) string {
	return fmt.Sprintf("f/%.2f", r.Float())
}

// FormatISO renders an ISO speed.
func FormatISO(iso int) string {
	return fmt.Sprintf("ISO%d", iso)
}

// FormatFocal renders a focal length as X.Xmm.
func FormatFocal(r Rational) string {
	return fmt.Sprintf("%.1fmm", r.Float())
}

// FormatGPS renders coordinates as DD°MM'SS"N DDD°MM'SS"E, or returns
// fallback when either coordinate is absent.
func FormatGPS(lat, lon Optional[Coordinate], fallback string) string {
	la, ok := lat.Get()
	if !ok {
		return fallback
	}
	lo, ok := lon.Get()
	if !ok {
		return fallback
	}
	return formatDMS(la, "N") + "  " + formatDMS(lo, "E")
}

// formatDMS zero-pads whole degrees to two digits and truncates minutes and
// seconds.
func formatDMS(c Coordinate, ref string) string {
	if c.Ref != "" {
		ref = c.Ref
	}
	return fmt.Sprintf("%02.0f°%d'%d\"%s", c.DMS[0].Float(), int(c.DMS[1].Float()), int(c.DMS[2].Float()), ref)
}
